package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace/internal/models"
)

func TestPricingService_ResolvePrice(t *testing.T) {
	tickets := newMockTicketRepo(
		&models.Ticket{ID: 5, EventID: 1, Name: "Standard", Price: 2000, QuantityTotal: 100, QuantityAvailable: 100},
		&models.Ticket{ID: 6, EventID: 1, Name: "VIP", Price: 500, QuantityTotal: 10, QuantityAvailable: 10},
	)

	discounts := newMockDiscountRepo()
	discounts.addCode(&models.DiscountCode{ID: 4, Code: "SUMMER25", Active: true})
	discounts.addCode(&models.DiscountCode{ID: 7, Code: "EXPIRED", Active: false})
	discounts.addRule(&models.DiscountRule{ID: 1, DiscountCodeID: 4, EventID: 1, TicketID: 5, Type: models.DiscountPercentage, Value: 25})
	discounts.addRule(&models.DiscountRule{ID: 2, DiscountCodeID: 4, EventID: 1, TicketID: 6, Type: models.DiscountEuro, Value: 800})

	svc := NewPricingService(tickets, discounts)

	tests := []struct {
		name      string
		eventID   int
		ticketID  int
		code      string
		wantPrice int
		wantErr   error
	}{
		{
			name:      "no code full price",
			eventID:   1,
			ticketID:  5,
			wantPrice: 2000,
		},
		{
			name:      "percentage rule",
			eventID:   1,
			ticketID:  5,
			code:      "SUMMER25",
			wantPrice: 1500,
		},
		{
			name:      "euro rule floors at zero",
			eventID:   1,
			ticketID:  6,
			code:      "SUMMER25",
			wantPrice: 0,
		},
		{
			name:     "unknown code",
			eventID:  1,
			ticketID: 5,
			code:     "NOPE",
			wantErr:  models.ErrDiscountNotFound,
		},
		{
			name:     "inactive code",
			eventID:  1,
			ticketID: 5,
			code:     "EXPIRED",
			wantErr:  models.ErrDiscountInactive,
		},
		{
			name:     "ticket from another event",
			eventID:  2,
			ticketID: 5,
			wantErr:  models.ErrTicketNotFound,
		},
		{
			name:     "unknown ticket",
			eventID:  1,
			ticketID: 99,
			wantErr:  models.ErrTicketNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := svc.ResolvePrice(tt.eventID, tt.ticketID, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, resolved.UnitPrice)
		})
	}
}

func TestPricingService_NoRuleFallsBackToFullPrice(t *testing.T) {
	tickets := newMockTicketRepo(
		&models.Ticket{ID: 5, EventID: 1, Name: "Standard", Price: 2000, QuantityTotal: 100, QuantityAvailable: 100},
	)
	discounts := newMockDiscountRepo()
	discounts.addCode(&models.DiscountCode{ID: 4, Code: "OTHEREVENT", Active: true})
	// rule exists only for a different ticket
	discounts.addRule(&models.DiscountRule{ID: 1, DiscountCodeID: 4, EventID: 2, TicketID: 9, Type: models.DiscountPercentage, Value: 50})

	svc := NewPricingService(tickets, discounts)

	resolved, err := svc.ResolvePrice(1, 5, "OTHEREVENT")
	require.NoError(t, err)
	assert.Equal(t, 2000, resolved.UnitPrice)
	assert.Nil(t, resolved.Rule)
}
