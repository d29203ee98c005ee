package auth

import (
	"context"
	"errors"
	"net/http"

	"go-storefront/internal/apiclient"
	autherrors "go-storefront/internal/auth/errors"
	"go-storefront/internal/session"

	"go.uber.org/zap"
)

//go:generate mockgen -source=auth_service.go -destination=../mock/auth/auth_service_mock.go -package=mock
type Service interface {
	Identify(ctx context.Context, sessionID string, req IdentifyRequest) (IdentifyResponse, error)
	RequestOTP(ctx context.Context, sessionID string, req OTPRequest) error
	VerifyOTP(ctx context.Context, sessionID string, req VerifyOTPRequest) (IdentifyResponse, error)
	Logout(ctx context.Context, sessionID string) error
	Me(ctx context.Context, sessionID string) (UserResponse, error)
}

// WishlistAdder replays a wishlist add parked at the identification gate.
type WishlistAdder interface {
	Add(ctx context.Context, sessionID, productID string) error
}

type Deps struct {
	API      apiclient.Doer
	Store    *session.Store
	Wishlist WishlistAdder
	Logger   *zap.Logger
}

type service struct {
	api      apiclient.Doer
	store    *session.Store
	wishlist WishlistAdder
	logger   *zap.Logger
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
		api:      deps.API,
		store:    deps.Store,
		wishlist: deps.Wishlist,
		logger:   deps.Logger.Named("auth.service"),
	}
}

// Identify registers the visitor as a guest customer with name and phone.
func (s *service) Identify(ctx context.Context, sessionID string, req IdentifyRequest) (IdentifyResponse, error) {
	var creds apiclient.Credentials
	var out authPayload
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/guest",
		Body:   req,
		Out:    &out,
		Creds:  &creds,
	})
	if err != nil {
		s.logger.Warn("guest identification failed", zap.String("session_id", sessionID), zap.Error(err))
		return IdentifyResponse{}, err
	}
	return s.complete(ctx, sessionID, out, creds)
}

func (s *service) RequestOTP(ctx context.Context, sessionID string, req OTPRequest) error {
	var creds apiclient.Credentials
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/otp/send",
		Body:   req,
		Creds:  &creds,
	})
	if err != nil {
		s.logger.Warn("otp request failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return err
}

func (s *service) VerifyOTP(ctx context.Context, sessionID string, req VerifyOTPRequest) (IdentifyResponse, error) {
	var creds apiclient.Credentials
	var out authPayload
	err := s.api.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/auth/otp/verify",
		Body:   req,
		Out:    &out,
		Creds:  &creds,
	})
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return IdentifyResponse{}, autherrors.ErrInvalidOTP
	}
	if err != nil {
		s.logger.Warn("otp verification failed", zap.String("session_id", sessionID), zap.Error(err))
		return IdentifyResponse{}, err
	}
	return s.complete(ctx, sessionID, out, creds)
}

// complete stores the identified user and replays whatever the visitor tried
// before the gate stopped them.
func (s *service) complete(ctx context.Context, sessionID string, out authPayload, creds apiclient.Credentials) (IdentifyResponse, error) {
	logger := s.logger.With(zap.String("session_id", sessionID))

	if out.User.ID == "" {
		logger.Error("backend returned no user")
		return IdentifyResponse{}, autherrors.ErrIdentifyFailed
	}
	if creds.AccessToken == "" {
		creds.AccessToken = out.AccessToken
	}
	if creds.RefreshToken == "" {
		creds.RefreshToken = out.RefreshToken
	}

	before, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return IdentifyResponse{}, err
	}
	resumeCart := before.Pending != nil && before.Pending.Kind == session.PendingAddToCart

	st, err := s.store.Dispatch(ctx, sessionID, session.Identified{User: toUser(out.User), Credentials: creds})
	if err != nil {
		logger.Error("store identification failed", zap.Error(err))
		return IdentifyResponse{}, err
	}

	if p := st.Pending; p != nil && p.Kind == session.PendingWishlistAdd {
		s.replayWishlist(ctx, sessionID, p.ProductID)
	}

	res := IdentifyResponse{User: out.User}
	if resumeCart {
		res.Redirect = RedirectCheckout
	}

	logger.Info("visitor identified",
		zap.String("user_id", out.User.ID),
		zap.Bool("resumed_cart", resumeCart),
	)
	return res, nil
}

func (s *service) replayWishlist(ctx context.Context, sessionID, productID string) {
	actions := []session.Action{session.PendingCleared{}}
	if s.wishlist != nil {
		if err := s.wishlist.Add(ctx, sessionID, productID); err != nil {
			s.logger.Warn("replay wishlist add failed",
				zap.String("session_id", sessionID),
				zap.String("product_id", productID),
				zap.Error(err),
			)
			actions = append(actions, session.Notified{Notification: session.Notification{
				ID:      "wishlist-replay",
				Level:   session.LevelError,
				Message: "We could not save that item to your wishlist",
			}})
		}
	}
	if _, err := s.store.Dispatch(ctx, sessionID, actions...); err != nil {
		s.logger.Warn("clear pending action failed", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// Logout ends the backend session and resets the storefront session. A
// failing backend call does not keep the visitor logged in here.
func (s *service) Logout(ctx context.Context, sessionID string) error {
	err := s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		if creds.Empty() {
			return nil
		}
		return s.api.Do(ctx, apiclient.Request{
			Method: http.MethodPost,
			Path:   "/auth/logout",
			Creds:  creds,
		})
	})
	if err != nil && !errors.Is(err, apiclient.ErrSessionExpired) {
		s.logger.Warn("backend logout failed", zap.String("session_id", sessionID), zap.Error(err))
	}

	if _, err := s.store.Dispatch(ctx, sessionID, session.LoggedOut{}); err != nil {
		return err
	}
	s.logger.Info("logged out", zap.String("session_id", sessionID))
	return nil
}

func (s *service) Me(ctx context.Context, sessionID string) (UserResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return UserResponse{}, err
	}
	if !st.Auth.Identified() {
		return UserResponse{}, autherrors.ErrNotIdentified
	}

	var out UserResponse
	err = s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		return s.api.Do(ctx, apiclient.Request{
			Method: http.MethodGet,
			Path:   "/auth/me",
			Out:    &out,
			Creds:  creds,
		})
	})
	if errors.Is(err, apiclient.ErrSessionExpired) {
		return UserResponse{}, autherrors.ErrSessionExpired
	}
	if errors.Is(err, apiclient.ErrUnavailable) {
		// backend down: answer from the stored profile
		return fromUser(*st.Auth.User), nil
	}
	if err != nil {
		return UserResponse{}, err
	}
	return out, nil
}
