package cart

import (
	"net/http"

	"go-storefront/internal/cart/cartstate"
	"go-storefront/internal/middleware"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(s Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("cart.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("cart.handler")
	}
	return &Handler{service: s, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("cart request failed",
			zap.String("session_id", middleware.SessionID(c)),
			zap.Error(err),
		)
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// Detail
// GET /cart
func (h *Handler) Detail(c *gin.Context) {
	res, err := h.service.Detail(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// Count
// GET /cart/count
func (h *Handler) Count(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, CartCountResponse{Count: count}, nil)
}

// AddItem
// POST /cart/items
func (h *Handler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.AddItem(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res, nil)
}

// UpdateQty
// PATCH /cart/items/:productId
func (h *Handler) UpdateQty(c *gin.Context) {
	var req UpdateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.UpdateQty(c.Request.Context(), middleware.SessionID(c), c.Param("productId"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Increment(c *gin.Context) {
	res, err := h.service.Increment(c.Request.Context(), middleware.SessionID(c), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

func (h *Handler) Decrement(c *gin.Context) {
	res, err := h.service.Decrement(c.Request.Context(), middleware.SessionID(c), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// DeleteItem
// DELETE /cart/items/:productId
func (h *Handler) DeleteItem(c *gin.Context) {
	res, err := h.service.DeleteItem(c.Request.Context(), middleware.SessionID(c), c.Param("productId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}

// Delete empties the cart.
// DELETE /cart
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.SessionID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toResponse(cartstate.Empty()), nil)
}

// Drawer opens or closes the cart drawer.
// PUT /cart/drawer
func (h *Handler) Drawer(c *gin.Context) {
	var req DrawerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid input", err.Error())
		return
	}

	res, err := h.service.SetDrawer(c.Request.Context(), middleware.SessionID(c), req.Open)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res, nil)
}
