package cart

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var ErrInvalidOption = apperror.New(
	apperror.CodeValidation,
	"Selected option is not available for this product",
	http.StatusBadRequest,
)
