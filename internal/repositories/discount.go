package repositories

import (
	"database/sql"
	"fmt"

	"event-marketplace/internal/models"
)

// DiscountRepository handles discount code data operations
type DiscountRepository struct {
	db *sql.DB
}

// NewDiscountRepository creates a new discount repository
func NewDiscountRepository(db *sql.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// GetByCode retrieves a discount code by its token
func (r *DiscountRepository) GetByCode(code string) (*models.DiscountCode, error) {
	query := `
		SELECT id, code, active, promoter_user_id, organiser_id, created_at
		FROM discount_codes
		WHERE code = $1`

	dc := &models.DiscountCode{}
	err := r.db.QueryRow(query, code).Scan(
		&dc.ID,
		&dc.Code,
		&dc.Active,
		&dc.PromoterUserID,
		&dc.OrganiserID,
		&dc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrDiscountNotFound
		}
		return nil, fmt.Errorf("failed to get discount code: %w", err)
	}

	return dc, nil
}

// GetRule retrieves the rule of a code for an (event, ticket) pair.
// A missing rule is not an error; it returns (nil, nil) and callers fall
// back to full price.
func (r *DiscountRepository) GetRule(discountCodeID, eventID, ticketID int) (*models.DiscountRule, error) {
	query := `
		SELECT id, discount_code_id, event_id, ticket_id, discount_type, value
		FROM discount_code_tickets
		WHERE discount_code_id = $1 AND event_id = $2 AND ticket_id = $3`

	rule := &models.DiscountRule{}
	err := r.db.QueryRow(query, discountCodeID, eventID, ticketID).Scan(
		&rule.ID,
		&rule.DiscountCodeID,
		&rule.EventID,
		&rule.TicketID,
		&rule.Type,
		&rule.Value,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get discount rule: %w", err)
	}

	return rule, nil
}
