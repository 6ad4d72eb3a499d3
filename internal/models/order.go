package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// PaymentMethod represents how an order was paid
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentInvoice  PaymentMethod = "invoice"
	PaymentOnSite   PaymentMethod = "on_site"
	PaymentFreeness PaymentMethod = "free"
)

// Order represents a confirmed purchase. UserID is nil for guest orders.
type Order struct {
	ID            int           `json:"id" db:"id"`
	UserID        *int          `json:"user_id,omitempty" db:"user_id"`
	BookingCode   string        `json:"booking_code" db:"booking_code"`
	Status        OrderStatus   `json:"status" db:"status"`
	PaymentMethod PaymentMethod `json:"payment_method" db:"payment_method"`
	Total         int           `json:"total" db:"total"` // Amount in cents
	ContactName   string        `json:"contact_name" db:"contact_name"`
	ContactEmail  string        `json:"contact_email" db:"contact_email"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// Guest is a per-seat ticket holder captured at checkout.
type Guest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// OrderItem is an immutable snapshot of a cart line at purchase time.
// GuestDetails always has exactly Quantity entries.
type OrderItem struct {
	ID                int     `json:"id" db:"id"`
	OrderID           int     `json:"order_id" db:"order_id"`
	EventID           int     `json:"event_id" db:"event_id"`
	TicketID          int     `json:"ticket_id" db:"ticket_id"`
	Quantity          int     `json:"quantity" db:"quantity"`
	CheckedInQuantity int     `json:"checked_in_quantity" db:"checked_in_quantity"`
	Price             int     `json:"price" db:"price"` // unit price in cents
	GuestDetails      []Guest `json:"guest_details" db:"guest_details"`
}

// OrderCreateRequest represents the data needed to create a new order
type OrderCreateRequest struct {
	UserID        *int          `json:"user_id,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Total         int           `json:"total"`
	ContactName   string        `json:"contact_name"`
	ContactEmail  string        `json:"contact_email"`
}

// OrderItemCreate represents a line to persist alongside a new order
type OrderItemCreate struct {
	EventID      int     `json:"event_id"`
	TicketID     int     `json:"ticket_id"`
	Quantity     int     `json:"quantity"`
	Price        int     `json:"price"`
	GuestDetails []Guest `json:"guest_details"`
}

const bookingCodeLength = 10

// Booking codes are upper-case alphanumerics without easily confused glyphs
// (no 0/O, 1/I/L), since customers read them over the phone.
const bookingCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

var (
	bookingCodeRegex = regexp.MustCompile(`^[A-Z2-9]{10}$`)
	orderEmailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Validate validates the order data
func (o *Order) Validate() error {
	if o.BookingCode == "" {
		return errors.New("booking code is required")
	}
	if !bookingCodeRegex.MatchString(o.BookingCode) {
		return errors.New("booking code format is invalid")
	}
	if err := validateOrderStatus(o.Status); err != nil {
		return err
	}
	if err := validatePaymentMethod(o.PaymentMethod); err != nil {
		return err
	}
	if err := validateOrderTotal(o.Total); err != nil {
		return err
	}
	return validateOrderContact(o.ContactEmail, o.ContactName)
}

// Validate validates order creation data
func (req *OrderCreateRequest) Validate() error {
	if err := validateOrderStatus(req.Status); err != nil {
		return err
	}
	if err := validatePaymentMethod(req.PaymentMethod); err != nil {
		return err
	}
	if err := validateOrderTotal(req.Total); err != nil {
		return err
	}
	return validateOrderContact(req.ContactEmail, req.ContactName)
}

// Validate validates an order item to be persisted
func (item *OrderItemCreate) Validate() error {
	if item.EventID <= 0 {
		return errors.New("event id is required")
	}
	if item.TicketID <= 0 {
		return errors.New("ticket id is required")
	}
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if item.Price < 0 {
		return errors.New("price cannot be negative")
	}
	if len(item.GuestDetails) != item.Quantity {
		return errors.New("guest details must have one entry per purchased ticket")
	}
	for _, g := range item.GuestDetails {
		if strings.TrimSpace(g.Name) == "" {
			return errors.New("guest name is required")
		}
		if g.Email != "" && !orderEmailRegex.MatchString(g.Email) {
			return errors.New("guest email format is invalid")
		}
	}
	return nil
}

// validateOrderStatus validates an order status
func validateOrderStatus(status OrderStatus) error {
	switch status {
	case OrderPending, OrderConfirmed, OrderCancelled, OrderRefunded:
		return nil
	default:
		return errors.New("invalid order status")
	}
}

// validatePaymentMethod validates a payment method
func validatePaymentMethod(method PaymentMethod) error {
	switch method {
	case PaymentCard, PaymentInvoice, PaymentOnSite, PaymentFreeness:
		return nil
	default:
		return errors.New("invalid payment method")
	}
}

// validateOrderTotal validates an order total
func validateOrderTotal(total int) error {
	if total < 0 {
		return errors.New("total cannot be negative")
	}
	// Maximum order total of EUR 100,000 (10,000,000 cents)
	if total > 10000000 {
		return errors.New("total cannot exceed EUR 100,000")
	}
	return nil
}

// validateOrderContact validates order contact information
func validateOrderContact(email, name string) error {
	if email == "" {
		return errors.New("contact email is required")
	}
	if name == "" {
		return errors.New("contact name is required")
	}
	if len(email) > 255 {
		return errors.New("contact email must be less than 255 characters")
	}
	if len(name) > 255 {
		return errors.New("contact name must be less than 255 characters")
	}
	if !orderEmailRegex.MatchString(email) {
		return errors.New("contact email format is invalid")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("contact name cannot be only whitespace")
	}
	return nil
}

// GenerateBookingCode generates a random 10-character booking code.
// Uniqueness is enforced by the orders table; callers retry on conflict.
func GenerateBookingCode() string {
	code := make([]byte, bookingCodeLength)
	max := big.NewInt(int64(len(bookingCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// Fallback to a time-seeded index if crypto/rand fails
			n = big.NewInt(time.Now().UnixNano() % int64(len(bookingCodeAlphabet)))
		}
		code[i] = bookingCodeAlphabet[n.Int64()]
	}
	return string(code)
}

// IsConfirmed returns true if the order is confirmed
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderConfirmed
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderCancelled
}

// CanBeCancelled returns true if the order can be cancelled
func (o *Order) CanBeCancelled() bool {
	return o.Status == OrderPending || o.Status == OrderConfirmed
}

// TotalInCurrency returns the total in euros as a float
func (o *Order) TotalInCurrency() float64 {
	return float64(o.Total) / 100.0
}

// RemainingCheckIns returns how many seats of the item are not yet checked in
func (item *OrderItem) RemainingCheckIns() int {
	return item.Quantity - item.CheckedInQuantity
}

// FullyCheckedIn returns true once every seat of the item is checked in
func (item *OrderItem) FullyCheckedIn() bool {
	return item.CheckedInQuantity >= item.Quantity
}

// DisplayTotal formats the order total for customer-facing output
func (o *Order) DisplayTotal() string {
	return fmt.Sprintf("EUR %.2f", o.TotalInCurrency())
}
