package autherrors

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrNotIdentified = apperror.New(
		apperror.CodeIdentifyNeeded,
		"Please tell us who you are to continue",
		http.StatusUnauthorized,
	)

	ErrSessionExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Your session has expired, please login again",
		http.StatusUnauthorized,
	)

	ErrInvalidOTP = apperror.New(
		apperror.CodeUnauthorized,
		"The code is invalid or has expired",
		http.StatusUnauthorized,
	)

	ErrIdentifyFailed = apperror.New(
		apperror.CodeUpstream,
		"We could not verify your details, please try again",
		http.StatusBadGateway,
	)
)
