package auth

import (
	"net/http"

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

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("auth.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("auth request failed",
			zap.String("session_id", middleware.SessionID(c)),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Identify
// POST /auth/identify
func (h *Handler) Identify(c *gin.Context) {
	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("identify validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.Identify(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// RequestOTP
// POST /auth/otp/send
func (h *Handler) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	if err := h.service.RequestOTP(c.Request.Context(), middleware.SessionID(c), req); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "OTP sent.", nil)
}

// VerifyOTP
// POST /auth/otp/verify
func (h *Handler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.VerifyOTP(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Me(c *gin.Context) {
	res, err := h.service.Me(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Logout success.", nil)
}
