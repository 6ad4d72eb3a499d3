package repositories

import (
	"database/sql"
	"fmt"

	"event-marketplace/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = "id, title, description, location, start_date, end_date, status, organizer_id, created_at"

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	query := fmt.Sprintf("SELECT %s FROM events WHERE id = $1", eventColumns)

	event := &models.Event{}
	var endDate sql.NullTime
	var organizerID sql.NullInt64
	err := r.db.QueryRow(query, id).Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartDate,
		&endDate,
		&event.Status,
		&organizerID,
		&event.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if endDate.Valid {
		event.EndDate = endDate.Time
	}
	if organizerID.Valid {
		event.OrganizerID = int(organizerID.Int64)
	}

	return event, nil
}

// ListPublished retrieves published events, newest start date first
func (r *EventRepository) ListPublished(limit, offset int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = 20
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events
		WHERE status = $1
		ORDER BY start_date, id
		LIMIT $2 OFFSET $3`, eventColumns)

	rows, err := r.db.Query(query, models.StatusPublished, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		var endDate sql.NullTime
		var organizerID sql.NullInt64
		err := rows.Scan(
			&event.ID,
			&event.Title,
			&event.Description,
			&event.Location,
			&event.StartDate,
			&endDate,
			&event.Status,
			&organizerID,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if endDate.Valid {
			event.EndDate = endDate.Time
		}
		if organizerID.Valid {
			event.OrganizerID = int(organizerID.Int64)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
