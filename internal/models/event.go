package models

import (
	"errors"
	"strings"
	"time"
)

// EventStatus represents the publication status of an event
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
)

// Event represents an event in the system
type Event struct {
	ID          int         `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Description string      `json:"description" db:"description"`
	Location    string      `json:"location" db:"location"`
	StartDate   time.Time   `json:"start_date" db:"start_date"`
	EndDate     time.Time   `json:"end_date" db:"end_date"`
	Status      EventStatus `json:"status" db:"status"`
	OrganizerID int         `json:"organizer_id" db:"organizer_id"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}

// Validate validates the event data
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title is required")
	}
	if len(e.Title) > 255 {
		return errors.New("event title must be less than 255 characters")
	}
	if e.StartDate.IsZero() {
		return errors.New("event start date is required")
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return errors.New("event end date must be after the start date")
	}
	switch e.Status {
	case StatusDraft, StatusPublished, StatusCancelled:
	default:
		return errors.New("invalid event status")
	}
	return nil
}

// IsPublished returns true if the event is visible to customers
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// HasStarted returns true once the event start date has passed
func (e *Event) HasStarted() bool {
	return time.Now().After(e.StartDate)
}
