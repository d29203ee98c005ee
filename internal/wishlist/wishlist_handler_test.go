package wishlist_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-storefront/internal/session"
	"go-storefront/internal/wishlist"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// ==================== FAKE SERVICE ====================

type fakeWishlistService struct {
	addFunc    func(ctx context.Context, sessionID, productID string) error
	listFunc   func(ctx context.Context, sessionID string) (wishlist.WishlistResponse, error)
	removeFunc func(ctx context.Context, sessionID, productID string) error
}

func (f *fakeWishlistService) Add(ctx context.Context, sessionID, productID string) error {
	if f.addFunc != nil {
		return f.addFunc(ctx, sessionID, productID)
	}
	return nil
}

func (f *fakeWishlistService) List(ctx context.Context, sessionID string) (wishlist.WishlistResponse, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx, sessionID)
	}
	return wishlist.WishlistResponse{}, nil
}

func (f *fakeWishlistService) Remove(ctx context.Context, sessionID, productID string) error {
	if f.removeFunc != nil {
		return f.removeFunc(ctx, sessionID, productID)
	}
	return nil
}

// ==================== HELPER FUNCTIONS ====================

func newTestContext(method, path, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set("session_id", "sid-1")
	return c, w
}

// ==================== CREATE TESTS ====================

func TestWishlistHandler_Create(t *testing.T) {
	t.Run("success_add_item", func(t *testing.T) {
		svc := &fakeWishlistService{
			addFunc: func(ctx context.Context, sid, pid string) error {
				assert.Equal(t, "sid-1", sid)
				assert.Equal(t, "p-1", pid)
				return nil
			},
		}

		c, w := newTestContext(http.MethodPost, "/wishlists/items", `{"productId":"p-1"}`)
		wishlist.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "Product added to wishlist successfully")
	})

	t.Run("guest_is_asked_to_identify", func(t *testing.T) {
		svc := &fakeWishlistService{
			addFunc: func(ctx context.Context, sid, pid string) error {
				return session.ErrIdentificationRequired
			},
		}

		c, w := newTestContext(http.MethodPost, "/wishlists/items", `{"productId":"p-1"}`)
		wishlist.NewHandler(svc).Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "IDENTIFICATION_REQUIRED")
	})

	t.Run("error_missing_product_id", func(t *testing.T) {
		c, w := newTestContext(http.MethodPost, "/wishlists/items", `{}`)
		wishlist.NewHandler(&fakeWishlistService{}).Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// ==================== LIST TESTS ====================

func TestWishlistHandler_List(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeWishlistService{
			listFunc: func(ctx context.Context, sid string) (wishlist.WishlistResponse, error) {
				return wishlist.WishlistResponse{
					Items:     []wishlist.WishlistItemResponse{{ID: "w-1", Product: wishlist.WishlistProductResponse{ID: "p-1", Name: "Candle"}}},
					ItemCount: 1,
				}, nil
			},
		}

		c, w := newTestContext(http.MethodGet, "/wishlists/items", "")
		wishlist.NewHandler(svc).List(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Candle")
	})

	t.Run("guest", func(t *testing.T) {
		svc := &fakeWishlistService{
			listFunc: func(ctx context.Context, sid string) (wishlist.WishlistResponse, error) {
				return wishlist.WishlistResponse{}, session.ErrIdentificationRequired
			},
		}

		c, w := newTestContext(http.MethodGet, "/wishlists/items", "")
		wishlist.NewHandler(svc).List(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// ==================== DELETE TESTS ====================

func TestWishlistHandler_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeWishlistService{
			removeFunc: func(ctx context.Context, sid, pid string) error {
				assert.Equal(t, "p-1", pid)
				return nil
			},
		}

		c, w := newTestContext(http.MethodDelete, "/wishlists/items/p-1", "")
		c.Params = gin.Params{{Key: "productId", Value: "p-1"}}
		wishlist.NewHandler(svc).Delete(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("error_missing_param", func(t *testing.T) {
		c, w := newTestContext(http.MethodDelete, "/wishlists/items/", "")
		wishlist.NewHandler(&fakeWishlistService{}).Delete(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("error_item_not_found", func(t *testing.T) {
		svc := &fakeWishlistService{
			removeFunc: func(ctx context.Context, sid, pid string) error {
				return wishlist.ErrItemNotFound
			},
		}

		c, w := newTestContext(http.MethodDelete, "/wishlists/items/p-9", "")
		c.Params = gin.Params{{Key: "productId", Value: "p-9"}}
		wishlist.NewHandler(svc).Delete(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
