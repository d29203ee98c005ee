package session

import (
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/cart/cartstate"
)

// Action is a state transition. Implementations are pure.
type Action interface {
	apply(s State) (State, error)
}

// Reduce applies a to s. On error s is returned unchanged.
func Reduce(s State, a Action) (State, error) {
	next, err := a.apply(s)
	if err != nil {
		return s, err
	}
	return next, nil
}

// ---- cart ----

type CartRestored struct{ Cart cartstate.State }

func (a CartRestored) apply(s State) (State, error) {
	s.Cart = cartstate.FromItems(a.Cart.Items)
	return s, nil
}

type ItemAdded struct{ Item cartstate.LineItem }

func (a ItemAdded) apply(s State) (State, error) {
	if err := s.Checkout.cartEditable(); err != nil {
		return s, err
	}
	s.Cart = cartstate.AddItem(s.Cart, a.Item)
	return s, nil
}

type QuantityUpdated struct {
	ProductID string
	Quantity  int32
}

func (a QuantityUpdated) apply(s State) (State, error) {
	if err := s.Checkout.cartEditable(); err != nil {
		return s, err
	}
	s.Cart = cartstate.UpdateQuantity(s.Cart, a.ProductID, a.Quantity)
	return s, nil
}

type ItemRemoved struct{ ProductID string }

func (a ItemRemoved) apply(s State) (State, error) {
	if err := s.Checkout.cartEditable(); err != nil {
		return s, err
	}
	s.Cart = cartstate.RemoveItem(s.Cart, a.ProductID)
	return s, nil
}

type CartCleared struct{}

func (CartCleared) apply(s State) (State, error) {
	s.Cart = cartstate.Clear(s.Cart)
	return s, nil
}

type DrawerOpened struct{}

func (DrawerOpened) apply(s State) (State, error) {
	s.Cart = cartstate.Open(s.Cart)
	return s, nil
}

type DrawerClosed struct{}

func (DrawerClosed) apply(s State) (State, error) {
	s.Cart = cartstate.Close(s.Cart)
	return s, nil
}

// ---- auth ----

type AuthRestored struct{ Auth AuthState }

func (a AuthRestored) apply(s State) (State, error) {
	s.Auth = a.Auth
	return s, nil
}

// Identified records a successful guest or OTP identification. A pending cart
// add is applied and the flow moves to checkout; a checkout suspended at
// IDENTIFY_USER resumes at PAYMENT_SELECTION. A pending wishlist add stays in
// Pending for the caller to replay against the backend.
type Identified struct {
	User        User
	Credentials apiclient.Credentials
}

func (a Identified) apply(s State) (State, error) {
	u := a.User
	s.Auth = AuthState{User: &u, Credentials: a.Credentials}

	if p := s.Pending; p != nil && p.Kind == PendingAddToCart {
		if p.Item != nil {
			s.Cart = cartstate.AddItem(s.Cart, *p.Item)
		}
		s.Pending = nil
		if s.Checkout.Stage != StageSubmitting {
			s.Checkout = CheckoutState{
				Stage:   StageAddressEntry,
				Attempt: s.Checkout.Attempt,
				Address: s.Checkout.Address,
			}
		}
	}

	if s.Checkout.Stage == StageIdentifyUser {
		s.Checkout.Stage = StagePaymentSelection
	}
	return s, nil
}

type CredentialsRefreshed struct{ Credentials apiclient.Credentials }

func (a CredentialsRefreshed) apply(s State) (State, error) {
	s.Auth.Credentials = a.Credentials
	return s, nil
}

// AuthExpired clears auth only; the cart survives a forced logout.
type AuthExpired struct{ At time.Time }

func (a AuthExpired) apply(s State) (State, error) {
	s.Auth = AuthState{}
	if s.Checkout.Stage == StagePaymentSelection {
		s.Checkout.Stage = StageIdentifyUser
	}
	s.UI = notify(s.UI, Notification{
		ID:        "session-expired",
		Level:     LevelError,
		Message:   "Your session has expired, please login again",
		CreatedAt: a.At,
	})
	return s, nil
}

// LoggedOut is an explicit logout: auth, cart and checkout are all reset.
type LoggedOut struct{}

func (LoggedOut) apply(s State) (State, error) {
	next := Initial()
	next.Checkout.Attempt = s.Checkout.Attempt + 1
	next.UI = s.UI
	return next, nil
}

// ---- pending ----

type PendingCaptured struct{ Action PendingAction }

func (a PendingCaptured) apply(s State) (State, error) {
	p := a.Action
	s.Pending = &p
	return s, nil
}

type PendingCleared struct{}

func (PendingCleared) apply(s State) (State, error) {
	s.Pending = nil
	return s, nil
}

// ---- ui ----

type Notified struct{ Notification Notification }

func (a Notified) apply(s State) (State, error) {
	s.UI = notify(s.UI, a.Notification)
	return s, nil
}

type NotificationDismissed struct{ ID string }

func (a NotificationDismissed) apply(s State) (State, error) {
	out := make([]Notification, 0, len(s.UI.Notifications))
	for _, n := range s.UI.Notifications {
		if n.ID != a.ID {
			out = append(out, n)
		}
	}
	s.UI = UIState{Notifications: out}
	return s, nil
}

func notify(ui UIState, n Notification) UIState {
	out := make([]Notification, 0, len(ui.Notifications)+1)
	for _, existing := range ui.Notifications {
		if existing.ID != n.ID {
			out = append(out, existing)
		}
	}
	out = append(out, n)
	if len(out) > maxNotifications {
		out = out[len(out)-maxNotifications:]
	}
	return UIState{Notifications: out}
}

// ---- checkout ----

// CheckoutBegan enters the flow from the cart. An empty cart ends in
// CONTINUE_SHOPPING.
type CheckoutBegan struct{}

func (CheckoutBegan) apply(s State) (State, error) {
	if s.Checkout.Stage == StageSubmitting {
		return s, ErrInvalidTransition
	}
	if s.Cart.IsEmpty() {
		s.Checkout = CheckoutState{Stage: StageContinueShopping, Attempt: s.Checkout.Attempt}
		return s, nil
	}
	s.Checkout = CheckoutState{
		Stage:   StageAddressEntry,
		Attempt: s.Checkout.Attempt,
		Address: s.Checkout.Address,
	}
	return s, nil
}

// AddressSubmitted carries an already validated address.
type AddressSubmitted struct{ Address Address }

func (a AddressSubmitted) apply(s State) (State, error) {
	switch s.Checkout.Stage {
	case StageAddressEntry, StageIdentifyUser, StagePaymentSelection:
	default:
		return s, ErrInvalidTransition
	}
	if s.Cart.IsEmpty() {
		s.Checkout = CheckoutState{Stage: StageContinueShopping, Attempt: s.Checkout.Attempt}
		return s, nil
	}

	addr := a.Address
	s.Checkout.Address = &addr
	s.Checkout.Failure = nil
	if s.Auth.Identified() {
		s.Checkout.Stage = StagePaymentSelection
	} else {
		s.Checkout.Stage = StageIdentifyUser
	}
	return s, nil
}

// OrderSubmitting starts a new submission attempt.
type OrderSubmitting struct{ Method PaymentMethod }

func (a OrderSubmitting) apply(s State) (State, error) {
	if s.Checkout.Stage != StagePaymentSelection {
		return s, ErrInvalidTransition
	}
	if !s.Auth.Identified() {
		return s, ErrIdentificationRequired
	}
	if s.Checkout.Address == nil {
		return s, ErrAddressRequired
	}
	if s.Cart.IsEmpty() {
		return s, ErrEmptyCart
	}

	s.Checkout.Stage = StageSubmitting
	s.Checkout.Attempt++
	s.Checkout.Method = a.Method
	s.Checkout.Failure = nil
	if a.Method != PaymentOnline {
		s.Checkout.Payment = nil
	}
	return s, nil
}

// OrderCreated is the order API's answer to attempt Attempt. Cash on
// delivery confirms immediately and empties the cart; an online order waits
// for the payment widget with Payment recorded.
type OrderCreated struct {
	Attempt int64
	Order   ConfirmedOrder
	Payment *PaymentSession
}

func (a OrderCreated) apply(s State) (State, error) {
	if err := s.Checkout.current(a.Attempt); err != nil {
		return s, err
	}

	if s.Checkout.Method == PaymentOnline {
		s.Checkout.Payment = a.Payment
		return s, nil
	}

	order := a.Order
	s.Checkout.Stage = StageOrderConfirmed
	s.Checkout.Order = &order
	s.Checkout.Payment = nil
	s.Cart = cartstate.Clear(s.Cart)
	return s, nil
}

// PaymentSessionOpened records a fresh gateway session for an order that was
// created by an earlier attempt.
type PaymentSessionOpened struct {
	Attempt int64
	Payment PaymentSession
}

func (a PaymentSessionOpened) apply(s State) (State, error) {
	if err := s.Checkout.current(a.Attempt); err != nil {
		return s, err
	}
	p := a.Payment
	s.Checkout.Payment = &p
	return s, nil
}

// OrderFailed returns the flow to PAYMENT_SELECTION; the cart is kept.
type OrderFailed struct {
	Attempt int64
	Reason  string
	At      time.Time
}

func (a OrderFailed) apply(s State) (State, error) {
	if err := s.Checkout.current(a.Attempt); err != nil {
		return s, err
	}
	s.Checkout.Stage = retryStage(s.Auth)
	s.Checkout.Failure = &Failure{Reason: a.Reason, At: a.At}
	s.UI = notify(s.UI, Notification{
		ID:        "checkout-failed",
		Level:     LevelError,
		Message:   a.Reason,
		CreatedAt: a.At,
	})
	return s, nil
}

type PaymentConfirmed struct {
	Attempt int64
	Order   ConfirmedOrder
}

func (a PaymentConfirmed) apply(s State) (State, error) {
	if err := s.Checkout.current(a.Attempt); err != nil {
		return s, err
	}
	if s.Checkout.Payment == nil {
		return s, ErrInvalidTransition
	}
	order := a.Order
	s.Checkout.Stage = StageOrderConfirmed
	s.Checkout.Order = &order
	s.Checkout.Payment = nil
	s.Cart = cartstate.Clear(s.Cart)
	return s, nil
}

// PaymentFailed covers widget failure, cancellation and failed verification.
// The created order stays in Payment so a retry can reuse it.
type PaymentFailed struct {
	Attempt int64
	Reason  string
	At      time.Time
}

func (a PaymentFailed) apply(s State) (State, error) {
	if err := s.Checkout.current(a.Attempt); err != nil {
		return s, err
	}
	s.Checkout.Stage = retryStage(s.Auth)
	s.Checkout.Failure = &Failure{Reason: a.Reason, At: a.At}
	s.UI = notify(s.UI, Notification{
		ID:        "payment-failed",
		Level:     LevelError,
		Message:   a.Reason,
		CreatedAt: a.At,
	})
	return s, nil
}

// CheckoutAbandoned leaves the flow. Any response still in flight becomes
// stale.
type CheckoutAbandoned struct{}

func (CheckoutAbandoned) apply(s State) (State, error) {
	s.Checkout = CheckoutState{
		Stage:   StageBrowsingCart,
		Attempt: s.Checkout.Attempt + 1,
		Address: s.Checkout.Address,
	}
	return s, nil
}

// retryStage is where a failed attempt lands: payment selection, or the
// identify step when the backend session expired during the call.
func retryStage(auth AuthState) Stage {
	if auth.Identified() {
		return StagePaymentSelection
	}
	return StageIdentifyUser
}

// cartEditable rejects item changes while a submitted cart is waiting for its
// order or payment; confirmation clears the whole cart.
func (c CheckoutState) cartEditable() error {
	if c.Stage == StageSubmitting {
		return ErrCheckoutInProgress
	}
	return nil
}

func (c CheckoutState) current(attempt int64) error {
	if c.Stage != StageSubmitting || c.Attempt != attempt {
		return ErrStaleResponse
	}
	return nil
}
