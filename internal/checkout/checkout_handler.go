package checkout

import (
	"net/http"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"
	"go-storefront/internal/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(svc Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("checkout.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("checkout.handler")
	}
	return &Handler{service: svc, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("checkout request failed",
			zap.String("session_id", middleware.SessionID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) reply(c *gin.Context, res CheckoutResponse, err error) {
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// Detail
// GET /checkout
func (h *Handler) Detail(c *gin.Context) {
	res, err := h.service.Detail(c.Request.Context(), middleware.SessionID(c))
	h.reply(c, res, err)
}

// Begin
// POST /checkout
func (h *Handler) Begin(c *gin.Context) {
	res, err := h.service.Begin(c.Request.Context(), middleware.SessionID(c))
	h.reply(c, res, err)
}

// SubmitAddress
// PUT /checkout/address
func (h *Handler) SubmitAddress(c *gin.Context) {
	var req session.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.SubmitAddress(c.Request.Context(), middleware.SessionID(c), req)
	h.reply(c, res, err)
}

// PlaceOrder
// POST /checkout/orders
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.PlaceOrder(c.Request.Context(), middleware.SessionID(c), req.PaymentMethod)
	if err == nil && res.Stage == session.StageSubmissionFailed {
		// a failed attempt may be resubmitted with the same key
		middleware.SkipIdempotencyCache(c)
	}
	h.reply(c, res, err)
}

// ConfirmPayment
// POST /checkout/payment/confirm
func (h *Handler) ConfirmPayment(c *gin.Context) {
	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.ConfirmPayment(c.Request.Context(), middleware.SessionID(c), req)
	h.reply(c, res, err)
}

// FailPayment
// POST /checkout/payment/fail
func (h *Handler) FailPayment(c *gin.Context) {
	var req FailPaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
			return
		}
	}

	res, err := h.service.FailPayment(c.Request.Context(), middleware.SessionID(c), req.Reason)
	h.reply(c, res, err)
}

// Abandon
// DELETE /checkout
func (h *Handler) Abandon(c *gin.Context) {
	res, err := h.service.Abandon(c.Request.Context(), middleware.SessionID(c))
	h.reply(c, res, err)
}
