package order

import (
	"net/http"
	"strconv"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(svc Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("order.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("order.handler")
	}
	return &Handler{service: svc, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("order request failed",
			zap.String("session_id", middleware.SessionID(c)),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// List
// GET /orders
func (h *Handler) List(c *gin.Context) {
	status := c.Query("status")
	if status == "ALL" {
		status = ""
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	orders, total, err := h.service.List(c.Request.Context(), middleware.SessionID(c), status, page, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, limit)
	response.Success(c, http.StatusOK, gin.H{
		"items": orders,
		"meta":  meta,
	}, nil)
}

// Detail
// GET /orders/:id
func (h *Handler) Detail(c *gin.Context) {
	res, err := h.service.Detail(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// Cancel
// PATCH /orders/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	res, err := h.service.Cancel(c.Request.Context(), middleware.SessionID(c), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// Refund
// POST /orders/:id/refund
func (h *Handler) Refund(c *gin.Context) {
	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.RequestRefund(c.Request.Context(), middleware.SessionID(c), c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
