package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/shared/kv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

//go:generate mockgen -source=catalog_service.go -destination=../mock/catalog/catalog_service_mock.go -package=mock
type Service interface {
	GetBySlug(ctx context.Context, slug string) (Entry, error)
}

type Deps struct {
	API      apiclient.Doer
	Cache    kv.Store
	CacheTTL time.Duration
	Images   ImageResolver
	Logger   *zap.Logger
}

type service struct {
	api      apiclient.Doer
	cache    kv.Store
	cacheTTL time.Duration
	images   ImageResolver
	validate *validator.Validate
	logger   *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.API == nil {
		panic("api client cannot be nil")
	}
	if deps.Images == nil {
		deps.Images = PassthroughImages()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &service{
		api:      deps.API,
		cache:    deps.Cache,
		cacheTTL: deps.CacheTTL,
		images:   deps.Images,
		validate: validator.New(),
		logger:   deps.Logger.Named("catalog.service"),
	}
}

func cacheKey(slug string) string { return "catalog:" + slug }

func (s *service) GetBySlug(ctx context.Context, slug string) (Entry, error) {
	if err := s.validate.Var(slug, "required,max=150,excludesall=/?#% "); err != nil {
		return Entry{}, ErrInvalidSlug
	}

	entry, ok := s.fromCache(ctx, slug)
	if !ok {
		var err error
		entry, err = s.fetch(ctx, slug)
		if err != nil {
			return Entry{}, err
		}
		s.toCache(ctx, slug, entry)
	}

	return s.withImages(entry), nil
}

func (s *service) fetch(ctx context.Context, slug string) (Entry, error) {
	var entry Entry
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/products/" + url.PathEscape(slug),
		Out:    &entry,
	})
	if err != nil {
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return Entry{}, ErrProductNotFound
		}
		s.logger.Error("fetch product failed", zap.String("slug", slug), zap.Error(err))
		return Entry{}, fmt.Errorf("fetch product %q: %w", slug, err)
	}
	if entry.ID == "" {
		return Entry{}, ErrProductNotFound
	}
	return entry, nil
}

func (s *service) fromCache(ctx context.Context, slug string) (Entry, bool) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return Entry{}, false
	}
	raw, err := s.cache.Get(ctx, cacheKey(slug))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("catalog cache read failed", zap.String("slug", slug), zap.Error(err))
		}
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return Entry{}, false
	}
	return entry, true
}

func (s *service) toCache(ctx context.Context, slug string, entry Entry) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey(slug), raw, s.cacheTTL); err != nil {
		s.logger.Warn("catalog cache write failed", zap.String("slug", slug), zap.Error(err))
	}
}

func (s *service) withImages(e Entry) Entry {
	if len(e.Images) == 0 {
		return e
	}
	images := make([]string, len(e.Images))
	for i, ref := range e.Images {
		images[i] = s.images.URL(ref)
	}
	e.Images = images
	return e
}
