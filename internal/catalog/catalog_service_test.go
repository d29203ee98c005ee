package catalog_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/catalog"
	mock "go-storefront/internal/mock/apiclient"
	"go-storefront/internal/shared/kv"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func soapEntry() catalog.Entry {
	return catalog.Entry{
		ID:        "p-soap",
		Slug:      "soap",
		Name:      "Sandal Soap",
		Images:    []string{"products/soap", "https://cdn.example.com/soap-2.jpg"},
		BasePrice: decimal.NewFromInt(500),
	}
}

type upperResolver struct{}

func (upperResolver) URL(ref string) string { return "img:" + ref }

func TestCatalogService_GetBySlug(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches_and_resolves_images", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mock.NewMockDoer(ctrl)
		svc := catalog.NewService(catalog.Deps{API: api, Images: upperResolver{}})

		api.EXPECT().Do(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req apiclient.Request) error {
			assert.Equal(t, http.MethodGet, req.Method)
			assert.Equal(t, "/products/soap", req.Path)
			*req.Out.(*catalog.Entry) = soapEntry()
			return nil
		})

		got, err := svc.GetBySlug(ctx, "soap")
		require.NoError(t, err)
		assert.Equal(t, "p-soap", got.ID)
		assert.Equal(t, []string{"img:products/soap", "img:https://cdn.example.com/soap-2.jpg"}, got.Images)
	})

	t.Run("second_read_served_from_cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mock.NewMockDoer(ctrl)
		cache := kv.NewMemoryStore()
		svc := catalog.NewService(catalog.Deps{API: api, Cache: cache, CacheTTL: time.Minute})

		api.EXPECT().Do(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, req apiclient.Request) error {
			*req.Out.(*catalog.Entry) = soapEntry()
			return nil
		}).Times(1)

		first, err := svc.GetBySlug(ctx, "soap")
		require.NoError(t, err)
		second, err := svc.GetBySlug(ctx, "soap")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.True(t, first.BasePrice.Equal(second.BasePrice))
	})

	t.Run("not_found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mock.NewMockDoer(ctrl)
		svc := catalog.NewService(catalog.Deps{API: api})

		api.EXPECT().Do(ctx, gomock.Any()).Return(&apiclient.APIError{Status: http.StatusNotFound, Path: "/products/nope"})

		_, err := svc.GetBySlug(ctx, "nope")
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("upstream_failure_is_wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		api := mock.NewMockDoer(ctrl)
		svc := catalog.NewService(catalog.Deps{API: api})

		api.EXPECT().Do(ctx, gomock.Any()).Return(apiclient.ErrUnavailable)

		_, err := svc.GetBySlug(ctx, "soap")
		assert.ErrorIs(t, err, apiclient.ErrUnavailable)
	})

	t.Run("invalid_slug", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := catalog.NewService(catalog.Deps{API: mock.NewMockDoer(ctrl)})

		for _, slug := range []string{"", "a/b", "x?y"} {
			_, err := svc.GetBySlug(ctx, slug)
			assert.True(t, errors.Is(err, catalog.ErrInvalidSlug), slug)
		}
	})
}

func TestCloudinaryResolver(t *testing.T) {
	r, err := catalog.NewCloudinaryResolver("demo", "key", "secret")
	require.NoError(t, err)

	u := r.URL("products/soap")
	assert.Contains(t, u, "https://res.cloudinary.com/demo/image/upload/")
	assert.Contains(t, u, "c_fill,w_800,h_800,q_auto")
	assert.Contains(t, u, "products/soap")

	assert.Equal(t, "https://cdn.example.com/x.jpg", r.URL("https://cdn.example.com/x.jpg"))
	assert.Equal(t, "", r.URL(""))
}
