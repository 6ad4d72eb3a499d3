package services

import (
	"context"
	"io"

	"event-marketplace/internal/models"
)

// TicketRepository interface for ticket data operations
type TicketRepository interface {
	GetByID(id int) (*models.Ticket, error)
	GetByEvent(eventID int) ([]*models.Ticket, error)
}

// EventRepository interface for event data operations
type EventRepository interface {
	GetByID(id int) (*models.Event, error)
	ListPublished(limit, offset int) ([]*models.Event, error)
}

// DiscountRepository interface for discount code data operations
type DiscountRepository interface {
	GetByCode(code string) (*models.DiscountCode, error)
	GetRule(discountCodeID, eventID, ticketID int) (*models.DiscountRule, error)
}

// CartRepository interface for cart data operations
type CartRepository interface {
	GetByKey(key models.CartKey) (*models.Cart, error)
	GetOrCreateByKey(key models.CartKey) (*models.Cart, error)
	UpsertItem(cartID, eventID, ticketID, quantity, price int) (*models.CartItem, error)
	GetItemByID(itemID int) (*models.CartItem, error)
	GetItems(cartID int) ([]*models.CartItem, error)
	UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error)
	DeleteItem(itemID int) (bool, error)
	Summarize(cartID int) ([]models.CartLine, error)
	Merge(fromCartID, toCartID int) error
}

// OrderRepository interface for order data operations
type OrderRepository interface {
	PlaceOrder(req *models.OrderCreateRequest, items []*models.OrderItemCreate, cartID int) (*models.Order, error)
	GetByID(id int) (*models.Order, error)
	GetByBookingCode(code string) (*models.Order, error)
	GetItems(orderID int) ([]*models.OrderItem, error)
	CheckInItem(orderItemID, count int) (*models.OrderItem, error)
	Cancel(orderID int) error
}

// UserRepository interface for user data operations
type UserRepository interface {
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error)
}

// PricingServiceInterface resolves effective unit prices
type PricingServiceInterface interface {
	ResolvePrice(eventID, ticketID int, code string) (*ResolvedPrice, error)
}

// CartServiceInterface defines the interface for cart services
type CartServiceInterface interface {
	AddItem(key models.CartKey, req *AddItemRequest) (*models.CartItem, error)
	UpdateQuantity(key models.CartKey, itemID, quantity int) (*models.CartItem, error)
	RemoveItem(key models.CartKey, itemID int, strict bool) error
	Summarize(key models.CartKey) (*models.CartSummary, error)
	MergeOnLogin(sessionID string, userID int) error
}

// CheckoutServiceInterface defines the interface for checkout orchestration
type CheckoutServiceInterface interface {
	Checkout(ctx context.Context, key models.CartKey, req *CheckoutRequest) (*CheckoutResult, error)
}

// OrderServiceInterface defines the interface for order lookup and lifecycle
type OrderServiceInterface interface {
	GetByBookingCode(code string) (*OrderDetails, error)
	CheckIn(bookingCode string, orderItemID, count int) (*models.OrderItem, error)
	Cancel(ctx context.Context, bookingCode string) error
}

// CatalogueServiceInterface defines the interface for the public catalogue
type CatalogueServiceInterface interface {
	ListEvents(limit, offset int) ([]*models.Event, error)
	GetEvent(ctx context.Context, eventID int) (*EventListing, error)
}

// EmailService sends transactional email
type EmailService interface {
	SendOrderConfirmation(msg *OrderConfirmationEmail) error
	SendAccountCreated(email, name string) error
}

// StorageService stores generated receipt files
type StorageService interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string, size int64) (string, error)
	GetURL(key string) string
}

// Publisher hands confirmed orders to the notification pipeline
type Publisher interface {
	PublishOrderConfirmed(ctx context.Context, msg *OrderConfirmedMessage) error
}

// AvailabilityCache caches ticket availability for the public catalogue
type AvailabilityCache interface {
	Get(ctx context.Context, ticketID int) (int, bool, error)
	Set(ctx context.Context, ticketID, available int) error
	Invalidate(ctx context.Context, ticketIDs ...int) error
}

// ResolvedPrice is the outcome of price resolution for one cart line.
type ResolvedPrice struct {
	UnitPrice int                  `json:"unit_price"`
	BasePrice int                  `json:"base_price"`
	Rule      *models.DiscountRule `json:"rule,omitempty"`
}

// AddItemRequest represents a request to add a line to a cart
type AddItemRequest struct {
	EventID      int    `json:"event_id"`
	TicketID     int    `json:"ticket_id"`
	Quantity     int    `json:"quantity"`
	DiscountCode string `json:"discount_code,omitempty"`
}

// ItemGuests carries the ticket-holder entries for one cart line.
type ItemGuests struct {
	CartItemID int            `json:"cart_item_id"`
	Guests     []models.Guest `json:"guests"`
}

// CheckoutRequest is the payload of a checkout attempt.
type CheckoutRequest struct {
	Name          string               `json:"name"`
	Email         string               `json:"email"`
	Password      string               `json:"password,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Guests        []ItemGuests         `json:"ticket_guests"`
}

// CheckoutResult is returned on a successful checkout.
type CheckoutResult struct {
	Order          *models.Order `json:"order"`
	AccountCreated bool          `json:"account_created"`
}

// OrderDetails bundles an order with its items for display.
type OrderDetails struct {
	Order *models.Order       `json:"order"`
	Items []*models.OrderItem `json:"items"`
}

// OrderConfirmedMessage is published after an order commits and consumed by
// the notification worker.
type OrderConfirmedMessage struct {
	OrderID        int    `json:"order_id"`
	BookingCode    string `json:"booking_code"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Total          int    `json:"total"`
	TicketIDs      []int  `json:"ticket_ids"`
	AccountCreated bool   `json:"account_created"`
}

// EmailAttachment is a file attached to an outgoing email.
type EmailAttachment struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

// OrderConfirmationEmail is the assembled confirmation message.
type OrderConfirmationEmail struct {
	To          string
	Name        string
	BookingCode string
	Total       int
	Lines       []ConfirmationLine
	Attachments []EmailAttachment
}

// ConfirmationLine is one order line rendered into the confirmation email.
type ConfirmationLine struct {
	EventTitle string
	TicketName string
	Quantity   int
	Price      int
	QRFallback string
}
