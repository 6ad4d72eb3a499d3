package services

import (
	"errors"
	"fmt"

	"event-marketplace/internal/models"
)

// CartService handles cart business logic. Mutations persist immediately;
// there is no in-memory cart state between requests.
type CartService struct {
	cartRepo   CartRepository
	ticketRepo TicketRepository
	pricing    PricingServiceInterface
}

// NewCartService creates a new cart service
func NewCartService(cartRepo CartRepository, ticketRepo TicketRepository, pricing PricingServiceInterface) *CartService {
	return &CartService{
		cartRepo:   cartRepo,
		ticketRepo: ticketRepo,
		pricing:    pricing,
	}
}

// AddItem adds a line to the caller's cart, snapshotting the resolved unit
// price. A line for the same ticket merges additively instead of duplicating.
// The availability check here is advisory; checkout enforces it atomically.
func (s *CartService) AddItem(key models.CartKey, req *AddItemRequest) (*models.CartItem, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	ticket, err := s.ticketRepo.GetByID(req.TicketID)
	if err != nil {
		return nil, err
	}
	if ticket.EventID != req.EventID {
		return nil, models.ErrTicketNotFound
	}
	if !ticket.HasAvailable(req.Quantity) {
		return nil, models.ErrInsufficientStock
	}

	resolved, err := s.pricing.ResolvePrice(req.EventID, req.TicketID, req.DiscountCode)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOrCreateByKey(key)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	return s.cartRepo.UpsertItem(cart.ID, req.EventID, req.TicketID, req.Quantity, resolved.UnitPrice)
}

// UpdateQuantity sets the absolute quantity of a line the caller owns.
// Live availability is not re-checked here; checkout does that.
func (s *CartService) UpdateQuantity(key models.CartKey, itemID, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, models.ErrInvalidQuantity
	}

	if _, err := s.ownedItem(key, itemID); err != nil {
		return nil, err
	}

	return s.cartRepo.UpdateItemQuantity(itemID, quantity)
}

// RemoveItem deletes a line from the caller's cart. Removal is idempotent;
// a missing line is only an error when strict is set.
func (s *CartService) RemoveItem(key models.CartKey, itemID int, strict bool) error {
	_, err := s.ownedItem(key, itemID)
	if err != nil {
		if errors.Is(err, models.ErrCartItemNotFound) && !strict {
			return nil
		}
		return err
	}

	deleted, err := s.cartRepo.DeleteItem(itemID)
	if err != nil {
		return err
	}
	if !deleted && strict {
		return models.ErrCartItemNotFound
	}
	return nil
}

// Summarize returns the grouped view of the caller's cart. A caller with no
// cart yet gets an empty summary, not an error.
func (s *CartService) Summarize(key models.CartKey) (*models.CartSummary, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			return &models.CartSummary{Items: []models.CartLine{}}, nil
		}
		return nil, err
	}

	lines, err := s.cartRepo.Summarize(cart.ID)
	if err != nil {
		return nil, err
	}

	summary := &models.CartSummary{Items: lines}
	for _, line := range lines {
		summary.Count += line.Quantity
		summary.Total += line.Subtotal
	}
	return summary, nil
}

// MergeOnLogin folds the guest session cart into the user's persistent cart,
// summing quantities for duplicate ticket lines. Called once at login.
func (s *CartService) MergeOnLogin(sessionID string, userID int) error {
	sessionCart, err := s.cartRepo.GetByKey(models.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			return nil
		}
		return err
	}

	userCart, err := s.cartRepo.GetOrCreateByKey(models.UserKey(userID))
	if err != nil {
		return fmt.Errorf("failed to load user cart: %w", err)
	}

	return s.cartRepo.Merge(sessionCart.ID, userCart.ID)
}

// ownedItem loads an item and verifies it belongs to the caller's cart.
// Items in someone else's cart are indistinguishable from missing ones.
func (s *CartService) ownedItem(key models.CartKey, itemID int) (*models.CartItem, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItemByID(itemID)
	if err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			return nil, models.ErrCartItemNotFound
		}
		return nil, err
	}
	if item.CartID != cart.ID {
		return nil, models.ErrCartItemNotFound
	}
	return item, nil
}
