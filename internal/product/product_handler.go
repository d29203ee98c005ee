package product

import (
	"net/http"

	"go-storefront/internal/catalog"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/pkg/response"
	"go-storefront/internal/pricing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	catalog catalog.Service
	logger  *zap.Logger
}

func NewHandler(catalogService catalog.Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("product.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("product.handler")
	}
	return &Handler{catalog: catalogService, logger: l}
}

// GetBySlug
// GET /products/:slug
func (h *Handler) GetBySlug(c *gin.Context) {
	entry, err := h.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, ProductResponse{
		Entry: entry,
		Price: pricing.CalculateFinalPrice(entry, pricing.Selection{}),
	}, nil)
}

// Price recomputes the displayed price for a configuration.
// POST /products/:slug/price
func (h *Handler) Price(c *gin.Context) {
	var req pricing.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeValidation, "Invalid selection", err.Error())
		return
	}

	sel, err := req.Selection()
	if err != nil {
		h.writeError(c, err)
		return
	}

	entry, err := h.catalog.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pricing.CalculateFinalPrice(entry, sel), nil)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	if httpErr.Status >= http.StatusInternalServerError {
		h.logger.Error("product request failed", zap.String("slug", c.Param("slug")), zap.Error(err))
	}
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}
