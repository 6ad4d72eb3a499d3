package repositories

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace/internal/models"
)

func TestDiscountRepository_GetByCode(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDiscountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discount_codes")).
		WithArgs("SUMMER25").
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "active", "promoter_user_id", "organiser_id", "created_at"}).
			AddRow(4, "SUMMER25", true, nil, nil, time.Now()))

	dc, err := repo.GetByCode("SUMMER25")
	require.NoError(t, err)
	assert.Equal(t, "SUMMER25", dc.Code)
	assert.True(t, dc.Active)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discount_codes")).
		WithArgs("NOPE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = repo.GetByCode("NOPE")
	assert.ErrorIs(t, err, models.ErrDiscountNotFound)
}

func TestDiscountRepository_GetRule(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDiscountRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM discount_code_tickets")).
		WithArgs(4, 1, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "discount_code_id", "event_id", "ticket_id", "discount_type", "value"}).
			AddRow(9, 4, 1, 5, "percentage", 25))

	rule, err := repo.GetRule(4, 1, 5)
	require.NoError(t, err)
	require.NotNil(t, rule)
	assert.Equal(t, models.DiscountPercentage, rule.Type)
	assert.Equal(t, 25, rule.Value)

	// No rule for the pair is not an error; callers fall back to full price
	mock.ExpectQuery(regexp.QuoteMeta("FROM discount_code_tickets")).
		WithArgs(4, 1, 6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rule, err = repo.GetRule(4, 1, 6)
	require.NoError(t, err)
	assert.Nil(t, rule)
}
