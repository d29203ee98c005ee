package catalog

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrProductNotFound = apperror.New(
		apperror.CodeNotFound,
		"Product not found",
		http.StatusNotFound,
	)

	ErrInvalidSlug = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product slug",
		http.StatusBadRequest,
	)
)
