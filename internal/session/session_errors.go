package session

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidSession = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid or expired storefront session",
		http.StatusUnauthorized,
	)

	ErrIdentificationRequired = apperror.New(
		apperror.CodeIdentifyNeeded,
		"Please tell us who you are to continue",
		http.StatusUnauthorized,
	)

	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"This step is not available right now",
		http.StatusConflict,
	)

	ErrEmptyCart = apperror.New(
		apperror.CodeInvalidInput,
		"Your cart is empty",
		http.StatusBadRequest,
	)

	ErrAddressRequired = apperror.New(
		apperror.CodeInvalidInput,
		"Shipping address is required",
		http.StatusBadRequest,
	)

	ErrCheckoutInProgress = apperror.New(
		apperror.CodeInvalidState,
		"Your order is being placed, the cart can't change right now",
		http.StatusConflict,
	)

	ErrStaleResponse = apperror.New(
		apperror.CodeInvalidState,
		"Checkout was changed while the request was in flight",
		http.StatusConflict,
	)

	ErrPersist = apperror.New(
		apperror.CodeInternalError,
		"Could not save your session, please try again",
		http.StatusServiceUnavailable,
	)
)
