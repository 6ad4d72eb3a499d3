package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"event-marketplace/internal/models"
)

// TicketRepository handles ticket data operations. Inventory movements tied
// to an order live in OrderRepository so they share the order transaction.
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Create creates a new ticket with its full quantity available
func (r *TicketRepository) Create(req *models.TicketCreateRequest) (*models.Ticket, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO tickets (event_id, name, description, price, quantity_total, quantity_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $5, $6)
		RETURNING id, event_id, name, description, price, quantity_total, quantity_available, created_at`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(
		query,
		req.EventID,
		req.Name,
		req.Description,
		req.Price,
		req.Quantity,
		time.Now(),
	).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Name,
		&ticket.Description,
		&ticket.Price,
		&ticket.QuantityTotal,
		&ticket.QuantityAvailable,
		&ticket.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(id int) (*models.Ticket, error) {
	query := `
		SELECT id, event_id, name, description, price, quantity_total, quantity_available, created_at
		FROM tickets
		WHERE id = $1`

	ticket := &models.Ticket{}
	err := r.db.QueryRow(query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.Name,
		&ticket.Description,
		&ticket.Price,
		&ticket.QuantityTotal,
		&ticket.QuantityAvailable,
		&ticket.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}

	return ticket, nil
}

// GetByEvent retrieves all tickets of an event
func (r *TicketRepository) GetByEvent(eventID int) ([]*models.Ticket, error) {
	query := `
		SELECT id, event_id, name, description, price, quantity_total, quantity_available, created_at
		FROM tickets
		WHERE event_id = $1
		ORDER BY price, id`

	rows, err := r.db.Query(query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*models.Ticket
	for rows.Next() {
		ticket := &models.Ticket{}
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.Name,
			&ticket.Description,
			&ticket.Price,
			&ticket.QuantityTotal,
			&ticket.QuantityAvailable,
			&ticket.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

// UpdatePrice changes the list price of a ticket. Snapshots held in carts
// and orders are unaffected.
func (r *TicketRepository) UpdatePrice(id, price int) error {
	if price < 0 {
		return fmt.Errorf("validation failed: price cannot be negative")
	}

	result, err := r.db.Exec("UPDATE tickets SET price = $2 WHERE id = $1", id, price)
	if err != nil {
		return fmt.Errorf("failed to update ticket price: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return models.ErrTicketNotFound
	}

	return nil
}
