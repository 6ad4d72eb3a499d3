package models

import "errors"

// Common errors used throughout the application
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTicketNotFound   = errors.New("ticket not found")
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrDiscountNotFound = errors.New("discount code not found")
	ErrDiscountInactive = errors.New("discount code is inactive")

	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInsufficientStock   = errors.New("insufficient ticket stock")
	ErrCheckInExceeded     = errors.New("check-in count exceeds purchased quantity")
	ErrOrderNotCancellable = errors.New("order cannot be cancelled")

	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrInvalidInput   = errors.New("invalid input")
)
