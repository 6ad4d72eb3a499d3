package services

import (
	"context"
	"log"

	"event-marketplace/internal/models"
)

// TicketAvailability is a ticket with its availability as shown in the
// public catalogue. Availability may lag the database by the cache TTL.
type TicketAvailability struct {
	Ticket    *models.Ticket `json:"ticket"`
	Available int            `json:"available"`
}

// EventListing is one event with its purchasable tickets
type EventListing struct {
	Event   *models.Event        `json:"event"`
	Tickets []TicketAvailability `json:"tickets"`
}

// CatalogueService serves the public event listing. Availability counts go
// through the cache; checkout reads the database directly so the catalogue
// being a little stale is harmless.
type CatalogueService struct {
	eventRepo  EventRepository
	ticketRepo TicketRepository
	cache      AvailabilityCache
}

// NewCatalogueService creates a new catalogue service. cache may be nil;
// every lookup then hits the database.
func NewCatalogueService(eventRepo EventRepository, ticketRepo TicketRepository, cache AvailabilityCache) *CatalogueService {
	return &CatalogueService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		cache:      cache,
	}
}

// ListEvents returns published events, newest first
func (s *CatalogueService) ListEvents(limit, offset int) ([]*models.Event, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.eventRepo.ListPublished(limit, offset)
}

// GetEvent returns one published event with its tickets and availability
func (s *CatalogueService) GetEvent(ctx context.Context, eventID int) (*EventListing, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsPublished() {
		return nil, models.ErrEventNotFound
	}

	tickets, err := s.ticketRepo.GetByEvent(eventID)
	if err != nil {
		return nil, err
	}

	listing := &EventListing{Event: event}
	for _, ticket := range tickets {
		listing.Tickets = append(listing.Tickets, TicketAvailability{
			Ticket:    ticket,
			Available: s.availability(ctx, ticket),
		})
	}
	return listing, nil
}

// availability reads the cached count, falling back to the freshly loaded
// row and repopulating the cache on a miss
func (s *CatalogueService) availability(ctx context.Context, ticket *models.Ticket) int {
	if s.cache == nil {
		return ticket.QuantityAvailable
	}

	available, ok, err := s.cache.Get(ctx, ticket.ID)
	if err != nil {
		log.Printf("catalogue: availability cache read failed for ticket %d: %v", ticket.ID, err)
		return ticket.QuantityAvailable
	}
	if ok {
		return available
	}

	if err := s.cache.Set(ctx, ticket.ID, ticket.QuantityAvailable); err != nil {
		log.Printf("catalogue: availability cache write failed for ticket %d: %v", ticket.ID, err)
	}
	return ticket.QuantityAvailable
}
