package product_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-storefront/internal/catalog"
	mock "go-storefront/internal/mock/catalog"
	"go-storefront/internal/product"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func money(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func candleEntry() catalog.Entry {
	return catalog.Entry{
		ID:                "p-candle",
		Slug:              "candle",
		Name:              "Soy Candle",
		BasePrice:         decimal.NewFromInt(500),
		BaseOriginalPrice: money(600),
		Variants: []catalog.Variant{
			{ID: "large", Label: "Large", Price: decimal.NewFromInt(700)},
		},
		Packs: []catalog.Pack{
			{ID: "pack-3", Label: "Pack of 3", Quantity: 3, Price: money(1800)},
		},
	}
}

func setupRouter(svc catalog.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := product.NewHandler(svc)
	r.GET("/products/:slug", h.GetBySlug)
	r.POST("/products/:slug/price", h.Price)
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func TestProductHandler_GetBySlug(t *testing.T) {
	t.Run("success_with_default_price", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().GetBySlug(gomock.Any(), "candle").Return(candleEntry(), nil)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/candle", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))

		var body struct {
			ID    string `json:"id"`
			Price struct {
				FinalPrice      string `json:"finalPrice"`
				DiscountPercent int64  `json:"discountPercent"`
			} `json:"price"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, "p-candle", body.ID)
		assert.Equal(t, "500", body.Price.FinalPrice)
		assert.Equal(t, int64(17), body.Price.DiscountPercent)
	})

	t.Run("not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().GetBySlug(gomock.Any(), "nope").Return(catalog.Entry{}, catalog.ErrProductNotFound)

		w := httptest.NewRecorder()
		setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/nope", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestProductHandler_Price(t *testing.T) {
	t.Run("variant_and_pack", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)
		svc.EXPECT().GetBySlug(gomock.Any(), "candle").Return(candleEntry(), nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products/candle/price",
			strings.NewReader(`{"variantId":"large","packId":"pack-3"}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var env envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		var body struct {
			FinalPrice     string `json:"finalPrice"`
			BasePrice      string `json:"basePrice"`
			DiscountAmount string `json:"discountAmount"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &body))
		assert.Equal(t, "1800", body.FinalPrice)
		assert.Equal(t, "1800", body.BasePrice)
		assert.Equal(t, "0", body.DiscountAmount)
	})

	t.Run("quantity_with_pack_rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products/candle/price",
			strings.NewReader(`{"packId":"pack-3","quantity":2}`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid_json", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mock.NewMockService(ctrl)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/products/candle/price", strings.NewReader(`{bad`))
		req.Header.Set("Content-Type", "application/json")
		setupRouter(svc).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
