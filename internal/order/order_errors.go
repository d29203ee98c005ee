package order

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidOrderID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid order id format",
		http.StatusBadRequest,
	)

	ErrOrderNotFound = apperror.New(
		apperror.CodeNotFound,
		"order not found",
		http.StatusNotFound,
	)

	ErrCannotCancel = apperror.New(
		apperror.CodeInvalidState,
		"order cannot be cancelled",
		http.StatusConflict,
	)

	ErrCannotRefund = apperror.New(
		apperror.CodeInvalidState,
		"order is not eligible for a refund",
		http.StatusConflict,
	)
)
