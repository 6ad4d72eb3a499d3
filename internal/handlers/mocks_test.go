package handlers

import (
	"context"

	"event-marketplace/internal/models"
	"event-marketplace/internal/services"
)

type mockCartService struct {
	summary *models.CartSummary
	item    *models.CartItem

	addErr       error
	updateErr    error
	removeErr    error
	summarizeErr error

	addedKey    models.CartKey
	addedReq    *services.AddItemRequest
	updatedID   int
	updatedQty  int
	removedID   int
	removeCalls int
}

func (m *mockCartService) AddItem(key models.CartKey, req *services.AddItemRequest) (*models.CartItem, error) {
	m.addedKey = key
	m.addedReq = req
	if m.addErr != nil {
		return nil, m.addErr
	}
	return m.item, nil
}

func (m *mockCartService) UpdateQuantity(key models.CartKey, itemID, quantity int) (*models.CartItem, error) {
	m.updatedID = itemID
	m.updatedQty = quantity
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	return m.item, nil
}

func (m *mockCartService) RemoveItem(key models.CartKey, itemID int, strict bool) error {
	m.removedID = itemID
	m.removeCalls++
	return m.removeErr
}

func (m *mockCartService) Summarize(key models.CartKey) (*models.CartSummary, error) {
	if m.summarizeErr != nil {
		return nil, m.summarizeErr
	}
	if m.summary != nil {
		return m.summary, nil
	}
	return &models.CartSummary{Items: []models.CartLine{}}, nil
}

func (m *mockCartService) MergeOnLogin(sessionID string, userID int) error {
	return nil
}

type mockCheckoutService struct {
	result *services.CheckoutResult
	err    error

	gotKey models.CartKey
	gotReq *services.CheckoutRequest
}

func (m *mockCheckoutService) Checkout(ctx context.Context, key models.CartKey, req *services.CheckoutRequest) (*services.CheckoutResult, error) {
	m.gotKey = key
	m.gotReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockOrderService struct {
	details *services.OrderDetails
	item    *models.OrderItem

	getErr     error
	checkInErr error
	cancelErr  error

	checkedInItem  int
	checkedInCount int
	cancelledCode  string
}

func (m *mockOrderService) GetByBookingCode(code string) (*services.OrderDetails, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.details, nil
}

func (m *mockOrderService) CheckIn(bookingCode string, orderItemID, count int) (*models.OrderItem, error) {
	m.checkedInItem = orderItemID
	m.checkedInCount = count
	if m.checkInErr != nil {
		return nil, m.checkInErr
	}
	return m.item, nil
}

func (m *mockOrderService) Cancel(ctx context.Context, bookingCode string) error {
	m.cancelledCode = bookingCode
	return m.cancelErr
}

type mockCatalogueService struct {
	events  []*models.Event
	listing *services.EventListing

	listErr error
	getErr  error

	gotLimit  int
	gotOffset int
}

func (m *mockCatalogueService) ListEvents(limit, offset int) ([]*models.Event, error) {
	m.gotLimit = limit
	m.gotOffset = offset
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.events, nil
}

func (m *mockCatalogueService) GetEvent(ctx context.Context, eventID int) (*services.EventListing, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.listing, nil
}
