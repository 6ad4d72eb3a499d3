package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-marketplace/internal/models"
)

// CartRepository handles cart and cart item data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetByKey retrieves the cart owned by the given key
func (r *CartRepository) GetByKey(key models.CartKey) (*models.Cart, error) {
	if err := key.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var (
		query string
		arg   interface{}
	)
	if key.IsUser() {
		query = `
			SELECT id, user_id, session_id, created_at, updated_at
			FROM carts
			WHERE user_id = $1`
		arg = key.UserID
	} else {
		query = `
			SELECT id, user_id, session_id, created_at, updated_at
			FROM carts
			WHERE session_id = $1`
		arg = key.SessionID
	}

	cart := &models.Cart{}
	err := r.db.QueryRow(query, arg).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return cart, nil
}

// GetOrCreateByKey retrieves the cart owned by the key, creating it on first use
func (r *CartRepository) GetOrCreateByKey(key models.CartKey) (*models.Cart, error) {
	cart, err := r.GetByKey(key)
	if err == nil {
		return cart, nil
	}
	if err != models.ErrCartNotFound {
		return nil, err
	}

	var userID *int
	var sessionID *string
	if key.IsUser() {
		userID = &key.UserID
	} else {
		sessionID = &key.SessionID
	}

	query := `
		INSERT INTO carts (user_id, session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $3)
		RETURNING id, user_id, session_id, created_at, updated_at`

	now := time.Now()
	cart = &models.Cart{}
	err = r.db.QueryRow(query, userID, sessionID, now).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	return cart, nil
}

// UpsertItem inserts a cart line or, when a line for the same ticket already
// exists, adds the quantity onto it. The existing price snapshot is kept.
func (r *CartRepository) UpsertItem(cartID, eventID, ticketID, quantity, price int) (*models.CartItem, error) {
	query := `
		INSERT INTO cart_items (cart_id, event_id, ticket_id, quantity, price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (cart_id, ticket_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity
		RETURNING id, cart_id, event_id, ticket_id, quantity, price, created_at`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, cartID, eventID, ticketID, quantity, price, time.Now()).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.TicketID,
		&item.Quantity,
		&item.Price,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert cart item: %w", err)
	}

	return item, nil
}

// GetItemByID retrieves a single cart item
func (r *CartRepository) GetItemByID(itemID int) (*models.CartItem, error) {
	query := `
		SELECT id, cart_id, event_id, ticket_id, quantity, price, created_at
		FROM cart_items
		WHERE id = $1`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.TicketID,
		&item.Quantity,
		&item.Price,
		&item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	return item, nil
}

// GetItems retrieves all items of a cart
func (r *CartRepository) GetItems(cartID int) ([]*models.CartItem, error) {
	query := `
		SELECT id, cart_id, event_id, ticket_id, quantity, price, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id`

	rows, err := r.db.Query(query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.EventID,
			&item.TicketID,
			&item.Quantity,
			&item.Price,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// UpdateItemQuantity sets the quantity of a cart line
func (r *CartRepository) UpdateItemQuantity(itemID, quantity int) (*models.CartItem, error) {
	query := `
		UPDATE cart_items
		SET quantity = $2
		WHERE id = $1
		RETURNING id, cart_id, event_id, ticket_id, quantity, price, created_at`

	item := &models.CartItem{}
	err := r.db.QueryRow(query, itemID, quantity).Scan(
		&item.ID,
		&item.CartID,
		&item.EventID,
		&item.TicketID,
		&item.Quantity,
		&item.Price,
		&item.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}

	return item, nil
}

// DeleteItem removes a cart line. Returns false when no such line existed.
func (r *CartRepository) DeleteItem(itemID int) (bool, error) {
	result, err := r.db.Exec("DELETE FROM cart_items WHERE id = $1", itemID)
	if err != nil {
		return false, fmt.Errorf("failed to delete cart item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}

	return affected > 0, nil
}

// Summarize returns the coalesced lines of a cart with display names joined in
func (r *CartRepository) Summarize(cartID int) ([]models.CartLine, error) {
	query := `
		SELECT ci.id, ci.event_id, e.title, ci.ticket_id, t.name, ci.quantity, ci.price
		FROM cart_items ci
		JOIN tickets t ON t.id = ci.ticket_id
		JOIN events e ON e.id = ci.event_id
		WHERE ci.cart_id = $1
		ORDER BY ci.id`

	rows, err := r.db.Query(query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize cart: %w", err)
	}
	defer rows.Close()

	var lines []models.CartLine
	for rows.Next() {
		var line models.CartLine
		err := rows.Scan(
			&line.ItemID,
			&line.EventID,
			&line.EventTitle,
			&line.TicketID,
			&line.TicketName,
			&line.Quantity,
			&line.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		line.Subtotal = line.Quantity * line.Price
		lines = append(lines, line)
	}

	return lines, rows.Err()
}

// Merge folds the items of one cart into another, summing quantities for
// lines that reference the same ticket, and deletes the source cart.
func (r *CartRepository) Merge(fromCartID, toCartID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO cart_items (cart_id, event_id, ticket_id, quantity, price, created_at)
		SELECT $2, event_id, ticket_id, quantity, price, $3
		FROM cart_items
		WHERE cart_id = $1
		ON CONFLICT (cart_id, ticket_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`,
		fromCartID, toCartID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to merge cart items: %w", err)
	}

	// Cart items cascade with the cart row
	if _, err = tx.Exec("DELETE FROM carts WHERE id = $1", fromCartID); err != nil {
		return fmt.Errorf("failed to delete merged cart: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart merge: %w", err)
	}

	return nil
}
