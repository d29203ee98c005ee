package wishlist

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/session"

	"go.uber.org/zap"
)

//go:generate mockgen -source=wishlist_service.go -destination=../mock/wishlist/wishlist_service_mock.go -package=mock
type Service interface {
	Add(ctx context.Context, sessionID, productID string) error
	List(ctx context.Context, sessionID string) (WishlistResponse, error)
	Remove(ctx context.Context, sessionID, productID string) error
}

type Deps struct {
	API    apiclient.Doer
	Store  *session.Store
	Logger *zap.Logger
}

type service struct {
	api    apiclient.Doer
	store  *session.Store
	logger *zap.Logger
}

func NewService(deps Deps) Service {
	if deps.API == nil {
		panic("api client cannot be nil")
	}
	if deps.Store == nil {
		panic("session store cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &service{
		api:    deps.API,
		store:  deps.Store,
		logger: deps.Logger.Named("wishlist.service"),
	}
}

// Add saves a product to the visitor's wishlist. A guest is stopped at the
// identification gate and the add is parked for replay after identifying.
// Adding a product that is already there succeeds.
func (s *service) Add(ctx context.Context, sessionID, productID string) error {
	if err := validateProductID(productID); err != nil {
		return err
	}

	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !st.Auth.Identified() {
		_, err := s.store.Dispatch(ctx, sessionID, session.PendingCaptured{
			Action: session.PendingAction{Kind: session.PendingWishlistAdd, ProductID: productID},
		})
		if err != nil {
			return err
		}
		return session.ErrIdentificationRequired
	}

	err = s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		return s.api.Do(ctx, apiclient.Request{
			Method: http.MethodPost,
			Path:   "/wishlist",
			Body:   AddItemRequest{ProductID: productID},
			Creds:  creds,
		})
	})
	if isConflict(err) {
		return nil
	}
	if err != nil {
		s.logger.Warn("wishlist add failed",
			zap.String("session_id", sessionID),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) List(ctx context.Context, sessionID string) (WishlistResponse, error) {
	if err := s.requireIdentified(ctx, sessionID); err != nil {
		return WishlistResponse{}, err
	}

	var items []WishlistItemResponse
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		return s.api.Do(ctx, apiclient.Request{
			Method: http.MethodGet,
			Path:   "/wishlist",
			Out:    &items,
			Creds:  creds,
		})
	})
	if err != nil {
		return WishlistResponse{}, err
	}
	if items == nil {
		items = []WishlistItemResponse{}
	}
	return WishlistResponse{Items: items, ItemCount: len(items)}, nil
}

func (s *service) Remove(ctx context.Context, sessionID, productID string) error {
	if err := validateProductID(productID); err != nil {
		return err
	}
	if err := s.requireIdentified(ctx, sessionID); err != nil {
		return err
	}

	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		return s.api.Do(ctx, apiclient.Request{
			Method: http.MethodDelete,
			Path:   "/wishlist/" + url.PathEscape(productID),
			Creds:  creds,
		})
	})
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return ErrItemNotFound
	}
	return err
}

func (s *service) requireIdentified(ctx context.Context, sessionID string) error {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if !st.Auth.Identified() {
		return session.ErrIdentificationRequired
	}
	return nil
}

func validateProductID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > 64 {
		return ErrInvalidProductID
	}
	return nil
}

func isConflict(err error) bool {
	var appErr *apperror.AppError
	return errors.As(err, &appErr) && appErr.Code == apperror.CodeConflict
}
