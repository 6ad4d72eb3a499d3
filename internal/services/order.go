package services

import (
	"context"
	"log"

	"event-marketplace/internal/models"
)

// OrderService handles order lookup and lifecycle after purchase
type OrderService struct {
	orderRepo OrderRepository
	cache     AvailabilityCache
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository, cache AvailabilityCache) *OrderService {
	return &OrderService{orderRepo: orderRepo, cache: cache}
}

// GetByBookingCode loads an order and its items by the buyer-facing code
func (s *OrderService) GetByBookingCode(code string) (*OrderDetails, error) {
	order, err := s.orderRepo.GetByBookingCode(code)
	if err != nil {
		return nil, err
	}

	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}

	return &OrderDetails{Order: order, Items: items}, nil
}

// CheckIn records count arrivals against one order item. The item must
// belong to the order the booking code names; check-ins never exceed the
// item's quantity.
func (s *OrderService) CheckIn(bookingCode string, orderItemID, count int) (*models.OrderItem, error) {
	if count < 1 {
		return nil, models.ErrInvalidQuantity
	}

	order, err := s.orderRepo.GetByBookingCode(bookingCode)
	if err != nil {
		return nil, err
	}
	if !order.IsConfirmed() {
		return nil, models.ErrOrderNotFound
	}

	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return nil, err
	}
	owned := false
	for _, item := range items {
		if item.ID == orderItemID {
			owned = true
			break
		}
	}
	if !owned {
		return nil, models.ErrOrderNotFound
	}

	return s.orderRepo.CheckInItem(orderItemID, count)
}

// Cancel cancels a pending or confirmed order and restores its stock
func (s *OrderService) Cancel(ctx context.Context, bookingCode string) error {
	order, err := s.orderRepo.GetByBookingCode(bookingCode)
	if err != nil {
		return err
	}

	items, err := s.orderRepo.GetItems(order.ID)
	if err != nil {
		return err
	}

	if err := s.orderRepo.Cancel(order.ID); err != nil {
		return err
	}

	if s.cache != nil {
		ticketIDs := make([]int, 0, len(items))
		for _, item := range items {
			ticketIDs = append(ticketIDs, item.TicketID)
		}
		if err := s.cache.Invalidate(ctx, ticketIDs...); err != nil {
			log.Printf("orders: availability cache invalidation failed for order %d: %v", order.ID, err)
		}
	}

	return nil
}
