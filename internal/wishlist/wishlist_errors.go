package wishlist

import (
	"net/http"

	"go-storefront/internal/pkg/apperror"
)

var (
	ErrInvalidProductID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid product ID",
		http.StatusBadRequest,
	)

	ErrItemNotFound = apperror.New(
		apperror.CodeNotFound,
		"Item not found in wishlist",
		http.StatusNotFound,
	)
)
