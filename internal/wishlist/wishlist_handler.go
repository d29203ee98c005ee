package wishlist

import (
	"net/http"

	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{service: svc}
}

// POST /wishlists/items
func (h *Handler) Create(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid request body", err.Error())
		return
	}

	if err := h.service.Add(c.Request.Context(), middleware.SessionID(c), req.ProductID); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusCreated, AddItemResponse{
		Message: "Product added to wishlist successfully",
	}, nil)
}

// GET /wishlists/items
func (h *Handler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, res, nil)
}

// DELETE /wishlists/items/:productId
func (h *Handler) Delete(c *gin.Context) {
	productID := c.Param("productId")
	if productID == "" {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Product ID is required", nil)
		return
	}

	if err := h.service.Remove(c.Request.Context(), middleware.SessionID(c), productID); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, "Product removed from wishlist", nil)
}
