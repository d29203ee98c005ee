package apperror

import "fmt"

const (
	CodeInvalidInput   = "INVALID_INPUT"
	CodeValidation     = "VALIDATION_ERROR"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeForbidden      = "FORBIDDEN"
	CodeInvalidState   = "INVALID_STATE"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodePaymentFailed  = "PAYMENT_FAILED"
	CodeIdentifyNeeded = "IDENTIFICATION_REQUIRED"
	CodeInternalError  = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be rendered over HTTP.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    any
}

func New(code, message string, status int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy carrying extra details, leaving the sentinel untouched.
func (e *AppError) WithDetails(details any) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithMessage returns a copy with a different human-readable message.
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// Is matches copies produced by WithDetails/WithMessage against their sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.HTTPStatus == t.HTTPStatus
}
