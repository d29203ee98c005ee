package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func ToHTTP(err error) *HTTPError {
	if err == nil {
		return &HTTPError{
			Status: http.StatusOK,
		}
	}

	var appErr *AppError
	// errors.As walks the wrap chain looking for an AppError
	if errors.As(err, &appErr) {
		return &HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "internal server error",
	}
}
