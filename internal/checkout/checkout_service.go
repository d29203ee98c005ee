// Package checkout drives a session from the cart through address entry,
// identification and payment to a confirmed order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/order"
	"go-storefront/internal/outbox"
	"go-storefront/internal/payment"
	"go-storefront/internal/pkg/apperror"
	"go-storefront/internal/session"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultCancelReason = "Payment was cancelled"

//go:generate mockgen -source=checkout_service.go -destination=../mock/checkout/checkout_service_mock.go -package=mock
type Service interface {
	Detail(ctx context.Context, sessionID string) (CheckoutResponse, error)
	Begin(ctx context.Context, sessionID string) (CheckoutResponse, error)
	SubmitAddress(ctx context.Context, sessionID string, addr session.Address) (CheckoutResponse, error)

	PlaceOrder(ctx context.Context, sessionID string, method session.PaymentMethod) (CheckoutResponse, error)
	ConfirmPayment(ctx context.Context, sessionID string, req ConfirmPaymentRequest) (CheckoutResponse, error)
	FailPayment(ctx context.Context, sessionID string, reason string) (CheckoutResponse, error)

	Abandon(ctx context.Context, sessionID string) (CheckoutResponse, error)
}

type Deps struct {
	Store  *session.Store
	Orders order.Client
	// Gateway opens fresh payment sessions for retries; nil reuses the
	// previous token.
	Gateway payment.Gateway
	// Outbox is optional; without it no order events are emitted.
	Outbox outbox.Service
	Logger *zap.Logger
	Now    func() time.Time
}

type service struct {
	store    *session.Store
	orders   order.Client
	gateway  payment.Gateway
	outbox   outbox.Service
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(deps Deps) Service {
	if deps.Store == nil {
		panic("session store cannot be nil")
	}
	if deps.Orders == nil {
		panic("order client cannot be nil")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{
		store:    deps.Store,
		orders:   deps.Orders,
		gateway:  deps.Gateway,
		outbox:   deps.Outbox,
		validate: validator.New(),
		logger:   deps.Logger.Named("checkout.service"),
		now:      deps.Now,
	}
}

func (s *service) Detail(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	return toResponse(st), nil
}

func (s *service) Begin(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	return s.dispatch(ctx, sessionID, session.CheckoutBegan{})
}

func (s *service) SubmitAddress(ctx context.Context, sessionID string, addr session.Address) (CheckoutResponse, error) {
	addr = normalizeAddress(addr)
	if err := s.validate.Struct(addr); err != nil {
		return CheckoutResponse{}, ErrInvalidAddress.WithDetails(fieldErrors(err))
	}
	return s.dispatch(ctx, sessionID, session.AddressSubmitted{Address: addr})
}

// PlaceOrder submits the cart. Upstream failures are a normal outcome of the
// attempt and come back as a SUBMISSION_FAILED response, not as an error.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, method session.PaymentMethod) (CheckoutResponse, error) {
	if !method.Valid() {
		return CheckoutResponse{}, ErrInvalidPaymentMethod
	}

	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if method == session.PaymentOnline && canReusePayment(st) {
		return s.retryPayment(ctx, sessionID)
	}

	st, err = s.store.Dispatch(ctx, sessionID, session.OrderSubmitting{Method: method})
	if err != nil {
		return CheckoutResponse{}, err
	}
	attempt := st.Checkout.Attempt
	logger := s.logger.With(
		zap.String("session_id", sessionID),
		zap.Int64("attempt", attempt),
		zap.String("payment_method", string(method)),
	)

	req := order.CreateOrderRequest{
		Items:           order.ItemsFromCart(st.Cart.Items),
		ShippingAddress: *st.Checkout.Address,
		PaymentMethod:   method,
	}

	var res order.CreateOrderResponse
	err = s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.orders.CreateOrder(ctx, creds, req)
		return err
	})
	if err != nil {
		logger.Warn("create order failed", zap.Error(err))
		return s.dispatch(ctx, sessionID, session.OrderFailed{Attempt: attempt, Reason: failureReason(err), At: s.now()})
	}

	confirmed := session.ConfirmedOrder{
		ID:            res.Order.ID,
		OrderNumber:   res.Order.OrderNumber,
		Status:        res.Order.Status,
		PaymentMethod: method,
		Total:         res.Order.TotalPrice,
	}

	var pay *session.PaymentSession
	if method == session.PaymentOnline {
		pay = &session.PaymentSession{
			OrderID:     res.Order.ID,
			OrderNumber: res.Order.OrderNumber,
			Token:       res.Token,
			RedirectURL: res.RedirectURL,
			Amount:      res.Order.TotalPrice,
		}
		if pay.Token == "" {
			opened, err := s.openSession(st, *pay)
			if err != nil {
				logger.Warn("open payment session failed", zap.String("order_id", res.Order.ID), zap.Error(err))
				return s.dispatch(ctx, sessionID, session.OrderFailed{Attempt: attempt, Reason: failureReason(err), At: s.now()})
			}
			pay = &opened
		}
	}

	placed := placedPayload(sessionID, st, confirmed)
	out, err := s.dispatch(ctx, sessionID, session.OrderCreated{Attempt: attempt, Order: confirmed, Payment: pay})
	if err != nil {
		logger.Warn("order created but session not updated", zap.String("order_id", confirmed.ID), zap.Error(err))
		return out, err
	}

	logger.Info("order created", zap.String("order_id", confirmed.ID), zap.String("order_number", confirmed.OrderNumber))
	if method == session.PaymentCOD {
		s.emit(ctx, outbox.EventOrderPlaced, placed)
	}
	return out, nil
}

// retryPayment reuses the order created by an earlier attempt whose payment
// did not complete, opening a new gateway session for it.
func (s *service) retryPayment(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	st, err := s.store.Dispatch(ctx, sessionID, session.OrderSubmitting{Method: session.PaymentOnline})
	if err != nil {
		return CheckoutResponse{}, err
	}
	attempt := st.Checkout.Attempt
	prev := *st.Checkout.Payment
	logger := s.logger.With(
		zap.String("session_id", sessionID),
		zap.Int64("attempt", attempt),
		zap.String("order_id", prev.OrderID),
	)

	opened, err := s.openSession(st, prev)
	if err != nil {
		logger.Warn("reopen payment session failed", zap.Error(err))
		return s.dispatch(ctx, sessionID, session.PaymentFailed{Attempt: attempt, Reason: failureReason(err), At: s.now()})
	}

	logger.Info("payment session reopened")
	return s.dispatch(ctx, sessionID, session.PaymentSessionOpened{Attempt: attempt, Payment: opened})
}

// openSession asks the gateway for a new session on an existing order. Without
// a gateway the previous token is handed back unchanged.
func (s *service) openSession(st session.State, prev session.PaymentSession) (session.PaymentSession, error) {
	if s.gateway == nil {
		if prev.Token == "" {
			return session.PaymentSession{}, payment.ErrGatewayFailed
		}
		return prev, nil
	}

	ref := prev.OrderNumber
	if ref == "" {
		ref = prev.OrderID
	}
	req := &payment.SessionRequest{
		GatewayOrderID: fmt.Sprintf("%s_%d", ref, s.now().Unix()),
		Amount:         prev.Amount,
		Items:          make([]payment.Item, 0, len(st.Cart.Items)),
	}
	for _, it := range st.Cart.Items {
		req.Items = append(req.Items, payment.Item{ID: it.ProductID, Name: it.Name, Price: it.Price, Quantity: it.Quantity})
	}
	if u := st.Auth.User; u != nil {
		req.Customer = &payment.Customer{Name: u.Name, Email: u.Email, Phone: u.Phone}
	}

	resp, err := s.gateway.CreateSession(req)
	if err != nil {
		return session.PaymentSession{}, err
	}

	next := prev
	next.Token = resp.Token
	next.RedirectURL = resp.RedirectURL
	return next, nil
}

func (s *service) ConfirmPayment(ctx context.Context, sessionID string, req ConfirmPaymentRequest) (CheckoutResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if !st.Checkout.AwaitingPayment() {
		return CheckoutResponse{}, ErrNotAwaitingPayment
	}
	attempt := st.Checkout.Attempt
	pay := *st.Checkout.Payment
	logger := s.logger.With(
		zap.String("session_id", sessionID),
		zap.Int64("attempt", attempt),
		zap.String("order_id", pay.OrderID),
	)

	var res order.OrderResponse
	err = s.store.CallUpstream(ctx, sessionID, func(creds *apiclient.Credentials) error {
		var err error
		res, err = s.orders.VerifyPayment(ctx, creds, order.VerifyPaymentRequest{
			OrderID:        pay.OrderID,
			PaymentID:      req.PaymentID,
			Signature:      req.Signature,
			GatewayOrderID: req.GatewayOrderID,
		})
		return err
	})
	if err != nil {
		logger.Warn("verify payment failed", zap.Error(err))
		return s.dispatch(ctx, sessionID, session.PaymentFailed{Attempt: attempt, Reason: failureReason(err), At: s.now()})
	}

	confirmed := session.ConfirmedOrder{
		ID:            res.ID,
		OrderNumber:   res.OrderNumber,
		Status:        res.Status,
		PaymentMethod: session.PaymentOnline,
		Total:         res.TotalPrice,
	}
	if confirmed.ID == "" {
		confirmed.ID = pay.OrderID
		confirmed.OrderNumber = pay.OrderNumber
		confirmed.Total = pay.Amount
	}

	paid := placedPayload(sessionID, st, confirmed)
	out, err := s.dispatch(ctx, sessionID, session.PaymentConfirmed{Attempt: attempt, Order: confirmed})
	if err != nil {
		return out, err
	}

	logger.Info("payment confirmed", zap.String("payment_id", req.PaymentID))
	s.emit(ctx, outbox.EventOrderPaid, paid)
	return out, nil
}

func (s *service) FailPayment(ctx context.Context, sessionID string, reason string) (CheckoutResponse, error) {
	st, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return CheckoutResponse{}, err
	}
	if !st.Checkout.AwaitingPayment() {
		return CheckoutResponse{}, ErrNotAwaitingPayment
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}

	s.logger.Info("payment not completed",
		zap.String("session_id", sessionID),
		zap.Int64("attempt", st.Checkout.Attempt),
		zap.String("reason", reason),
	)
	return s.dispatch(ctx, sessionID, session.PaymentFailed{Attempt: st.Checkout.Attempt, Reason: reason, At: s.now()})
}

func (s *service) Abandon(ctx context.Context, sessionID string) (CheckoutResponse, error) {
	return s.dispatch(ctx, sessionID, session.CheckoutAbandoned{})
}

func (s *service) dispatch(ctx context.Context, sessionID string, actions ...session.Action) (CheckoutResponse, error) {
	st, err := s.store.Dispatch(ctx, sessionID, actions...)
	if err != nil {
		if errors.Is(err, session.ErrStaleResponse) {
			s.logger.Info("discarding stale checkout response", zap.String("session_id", sessionID))
		}
		return CheckoutResponse{}, err
	}
	return toResponse(st), nil
}

func (s *service) emit(ctx context.Context, eventType string, payload outbox.OrderPlacedPayload) {
	if s.outbox == nil {
		return
	}
	// the order exists upstream either way; a lost event is only logged
	if err := s.outbox.Publish(ctx, eventType, outbox.AggregateOrder, payload.OrderID, payload); err != nil {
		s.logger.Error("record order event failed",
			zap.String("event_type", eventType),
			zap.String("order_id", payload.OrderID),
			zap.Error(err),
		)
	}
}

// canReusePayment reports whether an earlier online attempt left an unpaid
// order that still matches the cart.
func canReusePayment(st session.State) bool {
	co := st.Checkout
	return co.Stage == session.StagePaymentSelection &&
		co.Payment != nil &&
		co.Payment.OrderID != "" &&
		co.Payment.Amount.Equal(st.Cart.Total)
}

func placedPayload(sessionID string, st session.State, o session.ConfirmedOrder) outbox.OrderPlacedPayload {
	p := outbox.OrderPlacedPayload{
		SessionID:     sessionID,
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		PaymentMethod: string(o.PaymentMethod),
		Total:         o.Total.String(),
		ItemCount:     st.Cart.Count(),
	}
	if st.Auth.User != nil {
		p.UserID = st.Auth.User.ID
	}
	return p
}

// failureReason is the message shown to the user for a failed attempt. The
// backend's own message wins when it sent one.
func failureReason(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" && apiErr.Status < 500 {
		return apiErr.Message
	}
	return apperror.ToHTTP(err).Message
}

func normalizeAddress(a session.Address) session.Address {
	a.FullName = strings.TrimSpace(a.FullName)
	a.Phone = strings.TrimSpace(a.Phone)
	a.Line1 = strings.TrimSpace(a.Line1)
	a.Line2 = strings.TrimSpace(a.Line2)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.ToUpper(strings.TrimSpace(a.Country))
	return a
}

func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   jsonName(fe.Field()),
			Message: fieldMessage(fe),
		})
	}
	return out
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must contain digits only"
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "iso3166_1_alpha2":
		return "must be a two-letter country code"
	}
	return "is invalid"
}
