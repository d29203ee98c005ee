// Package session owns the per-browser application state of the storefront:
// the cart, the identified user with their backend credentials, transient UI
// notifications and the checkout flow. State only changes through Reduce.
package session

import (
	"time"

	"go-storefront/internal/apiclient"
	"go-storefront/internal/cart/cartstate"
)

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

type AuthState struct {
	User        *User                 `json:"user,omitempty"`
	Credentials apiclient.Credentials `json:"credentials"`
}

func (a AuthState) Identified() bool { return a.User != nil }

type NotificationLevel string

const (
	LevelInfo    NotificationLevel = "info"
	LevelSuccess NotificationLevel = "success"
	LevelError   NotificationLevel = "error"
)

type Notification struct {
	ID        string            `json:"id"`
	Level     NotificationLevel `json:"level"`
	Message   string            `json:"message"`
	CreatedAt time.Time         `json:"createdAt"`
}

// UIState keeps at most maxNotifications, newest last.
type UIState struct {
	Notifications []Notification `json:"notifications"`
}

const maxNotifications = 5

type PendingKind string

const (
	PendingAddToCart   PendingKind = "ADD_TO_CART"
	PendingWishlistAdd PendingKind = "WISHLIST_ADD"
)

// PendingAction is the cart or wishlist action a guest attempted before being
// asked to identify. It is replayed once identification succeeds.
type PendingAction struct {
	Kind      PendingKind         `json:"kind"`
	Item      *cartstate.LineItem `json:"item,omitempty"`
	ProductID string              `json:"productId,omitempty"`
}

type State struct {
	Cart     cartstate.State `json:"cart"`
	Auth     AuthState       `json:"auth"`
	UI       UIState         `json:"ui"`
	Checkout CheckoutState   `json:"checkout"`
	Pending  *PendingAction  `json:"pending,omitempty"`
}

func Initial() State {
	return State{
		Cart:     cartstate.Empty(),
		UI:       UIState{Notifications: []Notification{}},
		Checkout: CheckoutState{Stage: StageBrowsingCart},
	}
}
