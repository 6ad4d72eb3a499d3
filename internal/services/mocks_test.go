package services

import (
	"context"
	"fmt"

	"event-marketplace/internal/models"
)

// mockTicketRepo backs ticket lookups for service tests
type mockTicketRepo struct {
	tickets map[int]*models.Ticket
}

func newMockTicketRepo(tickets ...*models.Ticket) *mockTicketRepo {
	m := &mockTicketRepo{tickets: make(map[int]*models.Ticket)}
	for _, t := range tickets {
		m.tickets[t.ID] = t
	}
	return m
}

func (m *mockTicketRepo) GetByID(id int) (*models.Ticket, error) {
	if t, ok := m.tickets[id]; ok {
		return t, nil
	}
	return nil, models.ErrTicketNotFound
}

func (m *mockTicketRepo) GetByEvent(eventID int) ([]*models.Ticket, error) {
	var out []*models.Ticket
	for _, t := range m.tickets {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

// mockEventRepo backs event lookups for service tests
type mockEventRepo struct {
	events map[int]*models.Event
}

func newMockEventRepo(events ...*models.Event) *mockEventRepo {
	m := &mockEventRepo{events: make(map[int]*models.Event)}
	for _, e := range events {
		m.events[e.ID] = e
	}
	return m
}

func (m *mockEventRepo) GetByID(id int) (*models.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, models.ErrEventNotFound
}

func (m *mockEventRepo) ListPublished(limit, offset int) ([]*models.Event, error) {
	var out []*models.Event
	for _, e := range m.events {
		if e.Status == models.StatusPublished {
			out = append(out, e)
		}
	}
	return out, nil
}

// mockDiscountRepo backs discount lookups for service tests
type mockDiscountRepo struct {
	codes map[string]*models.DiscountCode
	rules map[string]*models.DiscountRule
}

func newMockDiscountRepo() *mockDiscountRepo {
	return &mockDiscountRepo{
		codes: make(map[string]*models.DiscountCode),
		rules: make(map[string]*models.DiscountRule),
	}
}

func (m *mockDiscountRepo) addCode(code *models.DiscountCode) {
	m.codes[code.Code] = code
}

func (m *mockDiscountRepo) addRule(rule *models.DiscountRule) {
	key := fmt.Sprintf("%d:%d:%d", rule.DiscountCodeID, rule.EventID, rule.TicketID)
	m.rules[key] = rule
}

func (m *mockDiscountRepo) GetByCode(code string) (*models.DiscountCode, error) {
	if dc, ok := m.codes[code]; ok {
		return dc, nil
	}
	return nil, models.ErrDiscountNotFound
}

func (m *mockDiscountRepo) GetRule(discountCodeID, eventID, ticketID int) (*models.DiscountRule, error) {
	key := fmt.Sprintf("%d:%d:%d", discountCodeID, eventID, ticketID)
	if rule, ok := m.rules[key]; ok {
		return rule, nil
	}
	return nil, nil
}

// mockCartRepo is an in-memory CartRepository
type mockCartRepo struct {
	carts      map[int]*models.Cart
	items      map[int]*models.CartItem
	nextCartID int
	nextItemID int
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts:      make(map[int]*models.Cart),
		items:      make(map[int]*models.CartItem),
		nextCartID: 1,
		nextItemID: 1,
	}
}

func (m *mockCartRepo) GetByKey(key models.CartKey) (*models.Cart, error) {
	for _, c := range m.carts {
		if key.IsUser() && c.UserID != nil && *c.UserID == key.UserID {
			return c, nil
		}
		if !key.IsUser() && c.SessionID != nil && *c.SessionID == key.SessionID {
			return c, nil
		}
	}
	return nil, models.ErrCartNotFound
}

func (m *mockCartRepo) GetOrCreateByKey(key models.CartKey) (*models.Cart, error) {
	if cart, err := m.GetByKey(key); err == nil {
		return cart, nil
	}
	cart := &models.Cart{ID: m.nextCartID}
	m.nextCartID++
	if key.IsUser() {
		id := key.UserID
		cart.UserID = &id
	} else {
		sid := key.SessionID
		cart.SessionID = &sid
	}
	m.carts[cart.ID] = cart
	return cart, nil
}

func (m *mockCartRepo) UpsertItem(cartID, eventID, ticketID, quantity, price int) (*models.CartItem, error) {
	for _, item := range m.items {
		if item.CartID == cartID && item.TicketID == ticketID {
			item.Quantity += quantity
			return item, nil
		}
	}
	item := &models.CartItem{
		ID:       m.nextItemID,
		CartID:   cartID,
		EventID:  eventID,
		TicketID: ticketID,
		Quantity: quantity,
		Price:    price,
	}
	m.nextItemID++
	m.items[item.ID] = item
	return item, nil
}

func (m *mockCartRepo) GetItemByID(itemID int) (*models.CartItem, error) {
	if item, ok := m.items[itemID]; ok {
		return item, nil
	}
	return nil, models.ErrCartItemNotFound
}

func (m *mockCartRepo) GetItems(cartID int) ([]*models.CartItem, error) {
	var out []*models.CartItem
	for _, item := range m.items {
		if item.CartID == cartID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockCartRepo) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	item, ok := m.items[itemID]
	if !ok {
		return nil, models.ErrCartItemNotFound
	}
	item.Quantity = quantity
	return item, nil
}

func (m *mockCartRepo) DeleteItem(itemID int) (bool, error) {
	if _, ok := m.items[itemID]; !ok {
		return false, nil
	}
	delete(m.items, itemID)
	return true, nil
}

func (m *mockCartRepo) Summarize(cartID int) ([]models.CartLine, error) {
	items, _ := m.GetItems(cartID)
	lines := make([]models.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.CartLine{
			ItemID:   item.ID,
			EventID:  item.EventID,
			TicketID: item.TicketID,
			Quantity: item.Quantity,
			Price:    item.Price,
			Subtotal: item.Subtotal(),
		})
	}
	return lines, nil
}

func (m *mockCartRepo) Merge(fromCartID, toCartID int) error {
	items, _ := m.GetItems(fromCartID)
	for _, item := range items {
		if _, err := m.UpsertItem(toCartID, item.EventID, item.TicketID, item.Quantity, item.Price); err != nil {
			return err
		}
		delete(m.items, item.ID)
	}
	delete(m.carts, fromCartID)
	return nil
}

// mockOrderRepo simulates the transactional PlaceOrder against the shared
// ticket store, including the availability check
type mockOrderRepo struct {
	tickets     *mockTicketRepo
	carts       *mockCartRepo
	orders      map[int]*models.Order
	orderItems  map[int][]*models.OrderItem
	nextOrderID int
	nextItemID  int
	placeErr    error
}

func newMockOrderRepo(tickets *mockTicketRepo, carts *mockCartRepo) *mockOrderRepo {
	return &mockOrderRepo{
		tickets:     tickets,
		carts:       carts,
		orders:      make(map[int]*models.Order),
		orderItems:  make(map[int][]*models.OrderItem),
		nextOrderID: 1,
		nextItemID:  1,
	}
}

func (m *mockOrderRepo) PlaceOrder(req *models.OrderCreateRequest, items []*models.OrderItemCreate, cartID int) (*models.Order, error) {
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
	}
	// all-or-nothing: check every line before touching stock
	for _, item := range items {
		ticket, ok := m.tickets.tickets[item.TicketID]
		if !ok || ticket.QuantityAvailable < item.Quantity {
			return nil, models.ErrInsufficientStock
		}
	}
	for _, item := range items {
		m.tickets.tickets[item.TicketID].QuantityAvailable -= item.Quantity
	}

	order := &models.Order{
		ID:            m.nextOrderID,
		UserID:        req.UserID,
		BookingCode:   models.GenerateBookingCode(),
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		Total:         req.Total,
		ContactName:   req.ContactName,
		ContactEmail:  req.ContactEmail,
	}
	m.nextOrderID++
	m.orders[order.ID] = order

	for _, item := range items {
		m.orderItems[order.ID] = append(m.orderItems[order.ID], &models.OrderItem{
			ID:           m.nextItemID,
			OrderID:      order.ID,
			EventID:      item.EventID,
			TicketID:     item.TicketID,
			Quantity:     item.Quantity,
			Price:        item.Price,
			GuestDetails: item.GuestDetails,
		})
		m.nextItemID++
	}

	if m.carts != nil && cartID > 0 {
		items, _ := m.carts.GetItems(cartID)
		for _, item := range items {
			delete(m.carts.items, item.ID)
		}
		delete(m.carts.carts, cartID)
	}

	return order, nil
}

func (m *mockOrderRepo) GetByID(id int) (*models.Order, error) {
	if order, ok := m.orders[id]; ok {
		return order, nil
	}
	return nil, models.ErrOrderNotFound
}

func (m *mockOrderRepo) GetByBookingCode(code string) (*models.Order, error) {
	for _, order := range m.orders {
		if order.BookingCode == code {
			return order, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

func (m *mockOrderRepo) GetItems(orderID int) ([]*models.OrderItem, error) {
	return m.orderItems[orderID], nil
}

func (m *mockOrderRepo) CheckInItem(orderItemID, count int) (*models.OrderItem, error) {
	for _, items := range m.orderItems {
		for _, item := range items {
			if item.ID == orderItemID {
				if item.CheckedInQuantity+count > item.Quantity {
					return nil, models.ErrCheckInExceeded
				}
				item.CheckedInQuantity += count
				return item, nil
			}
		}
	}
	return nil, models.ErrOrderNotFound
}

func (m *mockOrderRepo) Cancel(orderID int) error {
	order, ok := m.orders[orderID]
	if !ok {
		return models.ErrOrderNotFound
	}
	if !order.CanBeCancelled() {
		return models.ErrOrderNotCancellable
	}
	order.Status = models.OrderCancelled
	for _, item := range m.orderItems[orderID] {
		if ticket, ok := m.tickets.tickets[item.TicketID]; ok {
			ticket.QuantityAvailable += item.Quantity
		}
	}
	return nil
}

// mockUserRepo is an in-memory UserRepository
type mockUserRepo struct {
	users  map[string]*models.User
	nextID int
}

func newMockUserRepo(users ...*models.User) *mockUserRepo {
	m := &mockUserRepo{users: make(map[string]*models.User), nextID: 1}
	for _, u := range users {
		m.users[u.Email] = u
		if u.ID >= m.nextID {
			m.nextID = u.ID + 1
		}
	}
	return m
}

func (m *mockUserRepo) GetByID(id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepo) Create(req *models.UserCreateRequest, passwordHash string) (*models.User, error) {
	user := &models.User{
		ID:           m.nextID,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
	}
	m.nextID++
	m.users[user.Email] = user
	return user, nil
}

// mockPublisher records published confirmation messages
type mockPublisher struct {
	published []*OrderConfirmedMessage
	err       error
}

func (m *mockPublisher) PublishOrderConfirmed(ctx context.Context, msg *OrderConfirmedMessage) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

// mockCache records availability cache traffic
type mockCache struct {
	store       map[int]int
	invalidated []int
	err         error
}

func newMockCache() *mockCache {
	return &mockCache{store: make(map[int]int)}
}

func (m *mockCache) Get(ctx context.Context, ticketID int) (int, bool, error) {
	if m.err != nil {
		return 0, false, m.err
	}
	available, ok := m.store[ticketID]
	return available, ok, nil
}

func (m *mockCache) Set(ctx context.Context, ticketID, available int) error {
	if m.err != nil {
		return m.err
	}
	m.store[ticketID] = available
	return nil
}

func (m *mockCache) Invalidate(ctx context.Context, ticketIDs ...int) error {
	if m.err != nil {
		return m.err
	}
	for _, id := range ticketIDs {
		delete(m.store, id)
		m.invalidated = append(m.invalidated, id)
	}
	return nil
}

// mockEmailService records outgoing email
type mockEmailService struct {
	confirmations   []*OrderConfirmationEmail
	accountCreated  []string
	confirmationErr error
}

func (m *mockEmailService) SendOrderConfirmation(msg *OrderConfirmationEmail) error {
	if m.confirmationErr != nil {
		return m.confirmationErr
	}
	m.confirmations = append(m.confirmations, msg)
	return nil
}

func (m *mockEmailService) SendAccountCreated(email, name string) error {
	m.accountCreated = append(m.accountCreated, email)
	return nil
}

// mockArtifactBuilder returns canned artifacts
type mockArtifactBuilder struct {
	artifacts *TicketArtifacts
	err       error
}

func (m *mockArtifactBuilder) BuildTicketArtifacts(ctx context.Context, order *models.Order, items []*models.OrderItem) (*TicketArtifacts, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.artifacts, nil
}
