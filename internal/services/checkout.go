package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"event-marketplace/internal/models"
	"event-marketplace/internal/utils"
)

// CheckoutState tracks how far a checkout attempt progressed. States past
// Persisting never fail the purchase; their errors are logged and swallowed.
type CheckoutState string

const (
	StateValidating        CheckoutState = "validating"
	StateResolvingCustomer CheckoutState = "resolving_customer"
	StateReservingStock    CheckoutState = "reserving_inventory"
	StatePersisting        CheckoutState = "persisting"
	StateNotifying         CheckoutState = "notifying"
	StateDone              CheckoutState = "done"
)

// ValidationError carries field-level messages back to the buyer.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

var checkoutEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// CheckoutService orchestrates a checkout attempt over the cart, inventory,
// order and customer stores. Inventory decrement and order persistence run
// in one database transaction; notification is handed off after commit and
// never rolls a purchase back.
type CheckoutService struct {
	cartRepo  CartRepository
	orderRepo OrderRepository
	userRepo  UserRepository
	publisher Publisher
	cache     AvailabilityCache
}

// NewCheckoutService creates a new checkout service. publisher and cache
// may be nil; checkout then skips the corresponding post-commit step.
func NewCheckoutService(
	cartRepo CartRepository,
	orderRepo OrderRepository,
	userRepo UserRepository,
	publisher Publisher,
	cache AvailabilityCache,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		userRepo:  userRepo,
		publisher: publisher,
		cache:     cache,
	}
}

// Checkout runs the full state machine for one attempt. On success the
// buyer's cart is gone, stock is decremented and the order is durable.
// Either the caller gets an order with a booking code, or an error and no
// order exists.
func (s *CheckoutService) Checkout(ctx context.Context, key models.CartKey, req *CheckoutRequest) (*CheckoutResult, error) {
	// Validating
	cart, items, err := s.validate(key, req)
	if err != nil {
		return nil, err
	}

	// ResolvingCustomer
	userID, accountCreated, err := s.resolveCustomer(key, req)
	if err != nil {
		return nil, err
	}

	orderReq := &models.OrderCreateRequest{
		UserID:        userID,
		Status:        models.OrderConfirmed,
		PaymentMethod: req.PaymentMethod,
		ContactName:   strings.TrimSpace(req.Name),
		ContactEmail:  strings.TrimSpace(req.Email),
	}

	orderItems := make([]*models.OrderItemCreate, 0, len(items))
	guestsByItem := indexGuests(req.Guests)
	for _, item := range items {
		orderReq.Total += item.Subtotal()
		orderItems = append(orderItems, &models.OrderItemCreate{
			EventID:      item.EventID,
			TicketID:     item.TicketID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			GuestDetails: guestsByItem[item.ID],
		})
	}
	if orderReq.PaymentMethod == "" {
		orderReq.PaymentMethod = models.PaymentInvoice
		if orderReq.Total == 0 {
			orderReq.PaymentMethod = models.PaymentFreeness
		}
	}

	// ReservingInventory and Persisting share one transaction; any line
	// short on stock aborts the whole attempt with nothing written.
	order, err := s.orderRepo.PlaceOrder(orderReq, orderItems, cart.ID)
	if err != nil {
		return nil, err
	}

	// Notifying: the order is committed, failures from here on are logged
	// and swallowed.
	s.notify(ctx, order, orderItems, accountCreated)

	return &CheckoutResult{Order: order, AccountCreated: accountCreated}, nil
}

// validate checks contact fields and guest lists against the cart and
// returns the cart with its items. No state is mutated here.
func (s *CheckoutService) validate(key models.CartKey, req *CheckoutRequest) (*models.Cart, []*models.CartItem, error) {
	fields := map[string]string{}

	if strings.TrimSpace(req.Name) == "" {
		fields["name"] = "name is required"
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		fields["email"] = "email is required"
	} else if !checkoutEmailRegex.MatchString(email) {
		fields["email"] = "email format is invalid"
	}
	if req.Password != "" && len(req.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if req.PaymentMethod != "" {
		switch req.PaymentMethod {
		case models.PaymentCard, models.PaymentInvoice, models.PaymentOnSite, models.PaymentFreeness:
		default:
			fields["payment_method"] = "payment method is not supported"
		}
	}

	cart, err := s.cartRepo.GetByKey(key)
	if err != nil {
		if errors.Is(err, models.ErrCartNotFound) {
			fields["cart"] = "cart is empty"
			return nil, nil, &ValidationError{Fields: fields}
		}
		return nil, nil, err
	}

	items, err := s.cartRepo.GetItems(cart.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		fields["cart"] = "cart is empty"
	}

	guestsByItem := indexGuests(req.Guests)
	for _, item := range items {
		guests := guestsByItem[item.ID]
		field := fmt.Sprintf("guests.%d", item.ID)
		if len(guests) != item.Quantity {
			fields[field] = fmt.Sprintf("expected %d guest entries, got %d", item.Quantity, len(guests))
			continue
		}
		for i, guest := range guests {
			if strings.TrimSpace(guest.Name) == "" {
				fields[fmt.Sprintf("%s.%d.name", field, i)] = "guest name is required"
			}
			if guest.Email != "" && !checkoutEmailRegex.MatchString(guest.Email) {
				fields[fmt.Sprintf("%s.%d.email", field, i)] = "email format is invalid"
			}
		}
	}

	if len(fields) > 0 {
		return nil, nil, &ValidationError{Fields: fields}
	}
	return cart, items, nil
}

// resolveCustomer decides which user, if any, the order attaches to.
// Authenticated buyers attach to their own account. A guest supplying a
// password gets a fresh account when the email is unused; an email that
// already has an account never logs the guest in, the order simply stays
// a guest order.
func (s *CheckoutService) resolveCustomer(key models.CartKey, req *CheckoutRequest) (*int, bool, error) {
	if key.IsUser() {
		id := key.UserID
		return &id, false, nil
	}
	if req.Password == "" {
		return nil, false, nil
	}

	email := strings.TrimSpace(req.Email)
	_, err := s.userRepo.GetByEmail(email)
	if err == nil {
		return nil, false, nil
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, false, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	first, last := splitName(req.Name)
	user, err := s.userRepo.Create(&models.UserCreateRequest{
		Email:     email,
		Password:  req.Password,
		FirstName: first,
		LastName:  last,
		Role:      models.UserRoleUser,
	}, hash)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create account: %w", err)
	}

	return &user.ID, true, nil
}

// notify hands the committed order to the async pipeline and drops stale
// availability cache entries. Both are best effort.
func (s *CheckoutService) notify(ctx context.Context, order *models.Order, items []*models.OrderItemCreate, accountCreated bool) {
	ticketIDs := make([]int, 0, len(items))
	for _, item := range items {
		ticketIDs = append(ticketIDs, item.TicketID)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ticketIDs...); err != nil {
			log.Printf("checkout: availability cache invalidation failed for order %d: %v", order.ID, err)
		}
	}

	if s.publisher != nil {
		msg := &OrderConfirmedMessage{
			OrderID:        order.ID,
			BookingCode:    order.BookingCode,
			Email:          order.ContactEmail,
			Name:           order.ContactName,
			Total:          order.Total,
			TicketIDs:      ticketIDs,
			AccountCreated: accountCreated,
		}
		if err := s.publisher.PublishOrderConfirmed(ctx, msg); err != nil {
			log.Printf("checkout: failed to publish confirmation for order %d (%s): %v", order.ID, order.BookingCode, err)
		}
	}
}

func indexGuests(guests []ItemGuests) map[int][]models.Guest {
	byItem := make(map[int][]models.Guest, len(guests))
	for _, g := range guests {
		byItem[g.CartItemID] = g.Guests
	}
	return byItem
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
