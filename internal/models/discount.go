package models

import (
	"errors"
	"strings"
	"time"
)

// DiscountType represents how a discount rule adjusts a price
type DiscountType string

const (
	DiscountEuro       DiscountType = "euro"
	DiscountPercentage DiscountType = "percentage"
)

// DiscountCode represents a reusable token unlocking per-ticket price
// adjustments. PromoterUserID and OrganiserID scope who may hand the code
// out; enforcement of that scoping is a policy decision left to callers.
type DiscountCode struct {
	ID             int       `json:"id" db:"id"`
	Code           string    `json:"code" db:"code"`
	Active         bool      `json:"active" db:"active"`
	PromoterUserID *int      `json:"promoter_user_id,omitempty" db:"promoter_user_id"`
	OrganiserID    *int      `json:"organiser_id,omitempty" db:"organiser_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// DiscountRule is a per-(event, ticket) adjustment attached to a code.
// Value is cents for euro rules and whole percent for percentage rules.
type DiscountRule struct {
	ID             int          `json:"id" db:"id"`
	DiscountCodeID int          `json:"discount_code_id" db:"discount_code_id"`
	EventID        int          `json:"event_id" db:"event_id"`
	TicketID       int          `json:"ticket_id" db:"ticket_id"`
	Type           DiscountType `json:"discount_type" db:"discount_type"`
	Value          int          `json:"value" db:"value"`
}

// Validate validates the discount code data
func (dc *DiscountCode) Validate() error {
	if strings.TrimSpace(dc.Code) == "" {
		return errors.New("discount code is required")
	}
	if len(dc.Code) > 64 {
		return errors.New("discount code must be less than 64 characters")
	}
	return nil
}

// Validate validates the discount rule data
func (dr *DiscountRule) Validate() error {
	if dr.EventID <= 0 {
		return errors.New("event id is required")
	}
	if dr.TicketID <= 0 {
		return errors.New("ticket id is required")
	}
	switch dr.Type {
	case DiscountEuro:
		if dr.Value < 0 {
			return errors.New("euro discount cannot be negative")
		}
	case DiscountPercentage:
		if dr.Value < 0 || dr.Value > 100 {
			return errors.New("percentage discount must be between 0 and 100")
		}
	default:
		return errors.New("invalid discount type")
	}
	return nil
}

// Apply returns the unit price after applying the rule, floored at zero.
func (dr *DiscountRule) Apply(price int) int {
	var discounted int
	switch dr.Type {
	case DiscountEuro:
		discounted = price - dr.Value
	case DiscountPercentage:
		discounted = price * (100 - dr.Value) / 100
	default:
		return price
	}
	if discounted < 0 {
		return 0
	}
	return discounted
}

// Matches returns true if the rule applies to the given event/ticket pair.
func (dr *DiscountRule) Matches(eventID, ticketID int) bool {
	return dr.EventID == eventID && dr.TicketID == ticketID
}
