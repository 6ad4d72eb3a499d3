package services

import (
	"fmt"
	"strings"

	"event-marketplace/internal/models"
)

// PricingService resolves the effective unit price for a cart line,
// applying a discount code's rule when one matches the ticket.
type PricingService struct {
	ticketRepo   TicketRepository
	discountRepo DiscountRepository
}

// NewPricingService creates a new pricing service
func NewPricingService(ticketRepo TicketRepository, discountRepo DiscountRepository) *PricingService {
	return &PricingService{
		ticketRepo:   ticketRepo,
		discountRepo: discountRepo,
	}
}

// ResolvePrice computes the unit price for (event, ticket) under an optional
// discount code. An unknown code is ErrDiscountNotFound and an inactive one
// ErrDiscountInactive; a known active code with no rule for this ticket is
// not an error, the full price applies.
func (s *PricingService) ResolvePrice(eventID, ticketID int, code string) (*ResolvedPrice, error) {
	ticket, err := s.ticketRepo.GetByID(ticketID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != eventID {
		return nil, models.ErrTicketNotFound
	}

	resolved := &ResolvedPrice{
		UnitPrice: ticket.Price,
		BasePrice: ticket.Price,
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return resolved, nil
	}

	dc, err := s.discountRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if !dc.Active {
		return nil, models.ErrDiscountInactive
	}

	rule, err := s.discountRepo.GetRule(dc.ID, eventID, ticketID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve discount rule: %w", err)
	}
	if rule == nil {
		return resolved, nil
	}

	resolved.UnitPrice = rule.Apply(ticket.Price)
	resolved.Rule = rule
	return resolved, nil
}
