package models

import (
	"errors"
	"time"
)

// CartKey identifies the owner of a cart: a registered user when logged in,
// otherwise the guest session. Exactly one side is set.
type CartKey struct {
	UserID    int
	SessionID string
}

// UserKey returns a cart key for an authenticated user.
func UserKey(userID int) CartKey {
	return CartKey{UserID: userID}
}

// SessionKey returns a cart key for a guest session.
func SessionKey(sessionID string) CartKey {
	return CartKey{SessionID: sessionID}
}

// IsUser returns true if the key belongs to an authenticated user.
func (k CartKey) IsUser() bool {
	return k.UserID > 0
}

// Validate validates the cart key
func (k CartKey) Validate() error {
	if k.UserID > 0 && k.SessionID != "" {
		return errors.New("cart key cannot reference both a user and a session")
	}
	if k.UserID <= 0 && k.SessionID == "" {
		return errors.New("cart key requires a user id or a session id")
	}
	return nil
}

// Cart represents a persistent shopping cart
type Cart struct {
	ID        int       `json:"id" db:"id"`
	UserID    *int      `json:"user_id,omitempty" db:"user_id"`
	SessionID *string   `json:"session_id,omitempty" db:"session_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CartItem represents a line in a cart. Price is the unit price snapshotted
// when the line was added; later ticket price changes never touch it.
type CartItem struct {
	ID        int       `json:"id" db:"id"`
	CartID    int       `json:"cart_id" db:"cart_id"`
	EventID   int       `json:"event_id" db:"event_id"`
	TicketID  int       `json:"ticket_id" db:"ticket_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     int       `json:"price" db:"price"` // unit price in cents
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Subtotal returns quantity times the snapshotted unit price.
func (ci *CartItem) Subtotal() int {
	return ci.Quantity * ci.Price
}

// Validate validates the cart item data
func (ci *CartItem) Validate() error {
	if ci.EventID <= 0 {
		return errors.New("event id is required")
	}
	if ci.TicketID <= 0 {
		return errors.New("ticket id is required")
	}
	if ci.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if ci.Price < 0 {
		return errors.New("price cannot be negative")
	}
	return nil
}

// CartLine is a summarized cart line with display fields joined in.
type CartLine struct {
	ItemID     int    `json:"item_id"`
	EventID    int    `json:"event_id"`
	EventTitle string `json:"event_title"`
	TicketID   int    `json:"ticket_id"`
	TicketName string `json:"ticket_name"`
	Quantity   int    `json:"quantity"`
	Price      int    `json:"price"`
	Subtotal   int    `json:"subtotal"`
}

// CartSummary is the grouped view of a cart returned to clients.
type CartSummary struct {
	Items []CartLine `json:"items"`
	Count int        `json:"count"`
	Total int        `json:"total"` // in cents
}
