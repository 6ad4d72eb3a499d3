package models

import (
	"errors"
	"strings"
	"time"
)

// Ticket represents a purchasable admission class belonging to an event,
// not an individual admission instance.
type Ticket struct {
	ID                int       `json:"id" db:"id"`
	EventID           int       `json:"event_id" db:"event_id"`
	Name              string    `json:"name" db:"name"`
	Description       string    `json:"description" db:"description"`
	Price             int       `json:"price" db:"price"` // Price in cents
	QuantityTotal     int       `json:"quantity_total" db:"quantity_total"`
	QuantityAvailable int       `json:"quantity_available" db:"quantity_available"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// TicketCreateRequest represents the data needed to create a new ticket
type TicketCreateRequest struct {
	EventID     int    `json:"event_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Quantity    int    `json:"quantity"`
}

// Validate validates the ticket data
func (t *Ticket) Validate() error {
	if err := validateTicketName(t.Name); err != nil {
		return err
	}
	if err := validateTicketPrice(t.Price); err != nil {
		return err
	}
	if t.QuantityTotal <= 0 {
		return errors.New("ticket quantity must be greater than 0")
	}
	if t.QuantityAvailable < 0 || t.QuantityAvailable > t.QuantityTotal {
		return errors.New("available quantity must be between 0 and the total quantity")
	}
	return nil
}

// Validate validates ticket creation data
func (req *TicketCreateRequest) Validate() error {
	if req.EventID <= 0 {
		return errors.New("event id is required")
	}
	if err := validateTicketName(req.Name); err != nil {
		return err
	}
	if err := validateTicketPrice(req.Price); err != nil {
		return err
	}
	if req.Quantity <= 0 {
		return errors.New("ticket quantity must be greater than 0")
	}
	if req.Quantity > 100000 {
		return errors.New("ticket quantity cannot exceed 100,000")
	}
	return nil
}

// validateTicketName validates a ticket name
func validateTicketName(name string) error {
	if name == "" {
		return errors.New("ticket name is required")
	}
	if len(name) > 100 {
		return errors.New("ticket name must be less than 100 characters")
	}
	if strings.TrimSpace(name) == "" {
		return errors.New("ticket name cannot be only whitespace")
	}
	return nil
}

// validateTicketPrice validates a ticket price
func validateTicketPrice(price int) error {
	if price < 0 {
		return errors.New("ticket price cannot be negative")
	}
	// Maximum price of EUR 10,000 (1,000,000 cents)
	if price > 1000000 {
		return errors.New("ticket price cannot exceed EUR 10,000")
	}
	return nil
}

// IsSoldOut returns true if no tickets remain
func (t *Ticket) IsSoldOut() bool {
	return t.QuantityAvailable <= 0
}

// HasAvailable returns true if at least quantity tickets remain
func (t *Ticket) HasAvailable(quantity int) bool {
	return t.QuantityAvailable >= quantity
}

// Sold returns the number of tickets sold so far
func (t *Ticket) Sold() int {
	return t.QuantityTotal - t.QuantityAvailable
}

// PriceInCurrency returns the price in euros as a float
func (t *Ticket) PriceInCurrency() float64 {
	return float64(t.Price) / 100.0
}
