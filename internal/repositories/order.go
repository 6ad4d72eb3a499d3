package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"event-marketplace/internal/models"
)

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// PlaceOrder converts a cart into an order in one transaction: it verifies
// and decrements ticket availability per line, creates the order under a
// collision-free booking code, persists the item snapshots, and clears the
// cart. Any line failing the availability check rolls the whole thing back
// with models.ErrInsufficientStock, so checkouts never partially succeed.
func (r *OrderRepository) PlaceOrder(req *models.OrderCreateRequest, items []*models.OrderItemCreate, cartID int) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("validation failed: order requires at least one item")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Compare-and-swap decrement keeps concurrent checkouts from overselling
	// the last tickets; zero rows affected means the stock moved under us.
	for _, item := range items {
		result, err := tx.Exec(`
			UPDATE tickets
			SET quantity_available = quantity_available - $2
			WHERE id = $1 AND quantity_available >= $2`,
			item.TicketID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to reserve tickets: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to read reservation result: %w", err)
		}
		if affected == 0 {
			return nil, models.ErrInsufficientStock
		}
	}

	// Generate a unique booking code (retry if collision)
	bookingCode := models.GenerateBookingCode()
	for i := 0; i < 5; i++ {
		var exists bool
		err = tx.QueryRow("SELECT EXISTS(SELECT 1 FROM orders WHERE booking_code = $1)", bookingCode).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check booking code uniqueness: %w", err)
		}
		if !exists {
			break
		}
		bookingCode = models.GenerateBookingCode()
	}

	now := time.Now()
	order := &models.Order{}
	err = tx.QueryRow(`
		INSERT INTO orders (user_id, booking_code, status, payment_method, total, contact_name, contact_email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		RETURNING id, user_id, booking_code, status, payment_method, total, contact_name, contact_email, created_at, updated_at`,
		req.UserID,
		bookingCode,
		req.Status,
		req.PaymentMethod,
		req.Total,
		req.ContactName,
		req.ContactEmail,
		now,
	).Scan(
		&order.ID,
		&order.UserID,
		&order.BookingCode,
		&order.Status,
		&order.PaymentMethod,
		&order.Total,
		&order.ContactName,
		&order.ContactEmail,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, item := range items {
		guests, err := json.Marshal(item.GuestDetails)
		if err != nil {
			return nil, fmt.Errorf("failed to encode guest details: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO order_items (order_id, event_id, ticket_id, quantity, checked_in_quantity, price, guest_details)
			VALUES ($1, $2, $3, $4, 0, $5, $6)`,
			order.ID, item.EventID, item.TicketID, item.Quantity, item.Price, guests)
		if err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}
	}

	// The cart disappears with the same commit that makes the order durable.
	if cartID > 0 {
		if _, err = tx.Exec("DELETE FROM carts WHERE id = $1", cartID); err != nil {
			return nil, fmt.Errorf("failed to clear cart: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	return order, nil
}

const orderColumns = "id, user_id, booking_code, status, payment_method, total, contact_name, contact_email, created_at, updated_at"

func scanOrder(row *sql.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.BookingCode,
		&order.Status,
		&order.PaymentMethod,
		&order.Total,
		&order.ContactName,
		&order.ContactEmail,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// GetByID retrieves an order by ID
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)
	return scanOrder(r.db.QueryRow(query, id))
}

// GetByBookingCode retrieves an order by its customer-facing booking code
func (r *OrderRepository) GetByBookingCode(code string) (*models.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE booking_code = $1", orderColumns)
	return scanOrder(r.db.QueryRow(query, code))
}

// GetItems retrieves all items of an order
func (r *OrderRepository) GetItems(orderID int) ([]*models.OrderItem, error) {
	query := `
		SELECT id, order_id, event_id, ticket_id, quantity, checked_in_quantity, price, guest_details
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []*models.OrderItem
	for rows.Next() {
		item := &models.OrderItem{}
		var guests []byte
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.EventID,
			&item.TicketID,
			&item.Quantity,
			&item.CheckedInQuantity,
			&item.Price,
			&guests,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		if err := json.Unmarshal(guests, &item.GuestDetails); err != nil {
			return nil, fmt.Errorf("failed to decode guest details: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CheckInItem increments the checked-in counter of an order item. The count
// only grows and never beyond the purchased quantity.
func (r *OrderRepository) CheckInItem(orderItemID, count int) (*models.OrderItem, error) {
	if count < 1 {
		return nil, fmt.Errorf("validation failed: check-in count must be at least 1")
	}

	query := `
		UPDATE order_items
		SET checked_in_quantity = checked_in_quantity + $2
		WHERE id = $1 AND checked_in_quantity + $2 <= quantity
		RETURNING id, order_id, event_id, ticket_id, quantity, checked_in_quantity, price, guest_details`

	item := &models.OrderItem{}
	var guests []byte
	err := r.db.QueryRow(query, orderItemID, count).Scan(
		&item.ID,
		&item.OrderID,
		&item.EventID,
		&item.TicketID,
		&item.Quantity,
		&item.CheckedInQuantity,
		&item.Price,
		&guests,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			// Distinguish an unknown item from one that is already full
			var exists bool
			if checkErr := r.db.QueryRow("SELECT EXISTS(SELECT 1 FROM order_items WHERE id = $1)", orderItemID).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("failed to check order item: %w", checkErr)
			}
			if !exists {
				return nil, models.ErrOrderNotFound
			}
			return nil, models.ErrCheckInExceeded
		}
		return nil, fmt.Errorf("failed to check in order item: %w", err)
	}
	if err := json.Unmarshal(guests, &item.GuestDetails); err != nil {
		return nil, fmt.Errorf("failed to decode guest details: %w", err)
	}

	return item, nil
}

// Cancel flips an order to cancelled and restores ticket availability for
// every item in the same transaction.
func (r *OrderRepository) Cancel(orderID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status IN ($4, $5)`,
		orderID, models.OrderCancelled, time.Now(), models.OrderPending, models.OrderConfirmed)
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read cancel result: %w", err)
	}
	if affected == 0 {
		var exists bool
		if checkErr := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM orders WHERE id = $1)", orderID).Scan(&exists); checkErr != nil {
			return fmt.Errorf("failed to check order: %w", checkErr)
		}
		if !exists {
			return models.ErrOrderNotFound
		}
		return models.ErrOrderNotCancellable
	}

	_, err = tx.Exec(`
		UPDATE tickets
		SET quantity_available = tickets.quantity_available + oi.quantity
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.ticket_id = tickets.id`,
		orderID)
	if err != nil {
		return fmt.Errorf("failed to restore ticket availability: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order cancellation: %w", err)
	}

	return nil
}
