package payment

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidAmount = apperror.New(
		apperror.CodeInvalidInput,
		"payment amount must be positive",
		http.StatusBadRequest,
	)

	ErrGatewayFailed = apperror.New(
		apperror.CodePaymentFailed,
		"Payment gateway is unavailable, please try again",
		http.StatusBadGateway,
	)
)
