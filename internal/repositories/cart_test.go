package repositories

import (
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-marketplace/internal/models"
)

func cartColumns() []string {
	return []string{"id", "user_id", "session_id", "created_at", "updated_at"}
}

func cartItemColumns() []string {
	return []string{"id", "cart_id", "event_id", "ticket_id", "quantity", "price", "created_at"}
}

func TestCartRepository_GetOrCreateByKey_CreatesOnMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM carts")).
		WithArgs("sess-1").
		WillReturnError(sql.ErrNoRows)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO carts")).
		WithArgs(nil, "sess-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cartColumns()).
			AddRow(7, nil, "sess-1", now, now))

	cart, err := repo.GetOrCreateByKey(models.SessionKey("sess-1"))
	require.NoError(t, err)
	assert.Equal(t, 7, cart.ID)
	require.NotNil(t, cart.SessionID)
	assert.Equal(t, "sess-1", *cart.SessionID)
	assert.Nil(t, cart.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetOrCreateByKey_ReturnsExisting(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM carts")).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows(cartColumns()).
			AddRow(3, 42, nil, now, now))

	cart, err := repo.GetOrCreateByKey(models.UserKey(42))
	require.NoError(t, err)
	assert.Equal(t, 3, cart.ID)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, 42, *cart.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_GetOrCreateByKey_RejectsInvalidKey(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)

	_, err = repo.GetOrCreateByKey(models.CartKey{})
	assert.Error(t, err)
}

func TestCartRepository_UpsertItem(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(3, 1, 5, 2, 1000, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cartItemColumns()).
			AddRow(11, 3, 1, 5, 4, 1000, now))

	item, err := repo.UpsertItem(3, 1, 5, 2, 1000)
	require.NoError(t, err)
	// The returned row reflects the merged quantity, not the inserted one
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 1000, item.Price)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_UpdateItemQuantity_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE cart_items")).
		WithArgs(99, 2).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.UpdateItemQuantity(99, 2)
	assert.ErrorIs(t, err, models.ErrCartItemNotFound)
}

func TestCartRepository_DeleteItem_Idempotent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM cart_items")).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteItem(5)
	require.NoError(t, err)
	assert.True(t, deleted)

	// Second delete of the same id is a no-op, not an error
	deleted, err = repo.DeleteItem(5)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Summarize(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM cart_items ci")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "event_id", "title", "ticket_id", "name", "quantity", "price"}).
			AddRow(1, 1, "Summer Festival", 5, "Standard", 2, 1000).
			AddRow(2, 1, "Summer Festival", 6, "VIP", 1, 2500))

	lines, err := repo.Summarize(3)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 2000, lines[0].Subtotal)
	assert.Equal(t, 2500, lines[1].Subtotal)
	assert.Equal(t, "Summer Festival", lines[0].EventTitle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCartRepository_Merge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCartRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO cart_items")).
		WithArgs(8, 3, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM carts")).
		WithArgs(8).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = repo.Merge(8, 3)
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
