package checkout

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidAddress = apperror.New(
		apperror.CodeValidation,
		"Please check your shipping address",
		http.StatusBadRequest,
	)

	ErrInvalidPaymentMethod = apperror.New(
		apperror.CodeInvalidInput,
		"Unsupported payment method",
		http.StatusBadRequest,
	)

	ErrNotAwaitingPayment = apperror.New(
		apperror.CodeInvalidState,
		"There is no payment waiting to be completed",
		http.StatusConflict,
	)
)
