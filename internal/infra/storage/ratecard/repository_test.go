package ratecard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/ptr"
)

const (
	byIDQuery      = `SELECT (.+) FROM rate_cards WHERE id = \$1`
	byDefaultQuery = `SELECT (.+) FROM rate_cards WHERE is_default = \$1 AND resource_type = \$2 LIMIT 1`
)

var (
	created = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	columns = []string{"id", "resource_type", "name", "member_rate", "guest_rate", "is_default", "created_at", "updated_at"}
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(db), mock
}

func cardRow(id int64, name string, member, guest int64, isDefault bool) *sqlmock.Rows {
	return sqlmock.NewRows(columns).AddRow(id, "room", name, member, guest, isDefault, created, created)
}

func TestRepository_GetDefaultByType(t *testing.T) {
	ctx := context.Background()

	t.Run("scans the card", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byDefaultQuery).
			WithArgs(true, "room").
			WillReturnRows(cardRow(1, "Room standard", 3000, 4000, true))

		card, err := repo.GetDefaultByType(ctx, domain.ResourceRoom)

		require.NoError(t, err)
		assert.Equal(t, domain.ResourceRoom, card.ResourceType)
		assert.Equal(t, domain.Money(3000), card.MemberRate)
		assert.Equal(t, domain.Money(4000), card.GuestRate)
		assert.True(t, card.IsDefault)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byDefaultQuery).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetDefaultByType(ctx, domain.ResourceLawn)

		assert.ErrorIs(t, err, ErrRateCardNotFound)
	})
}

func TestRepository_GetForInstance(t *testing.T) {
	ctx := context.Background()

	t.Run("instance card wins", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byIDQuery).
			WithArgs(int64(2)).
			WillReturnRows(cardRow(2, "Suite", 5000, 6000, false))

		card, err := repo.GetForInstance(ctx, domain.ResourceRoom, ptr.Ptr(int64(2)))

		require.NoError(t, err)
		assert.Equal(t, int64(2), card.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing instance card falls back to the type default", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byIDQuery).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(byDefaultQuery).
			WithArgs(true, "room").
			WillReturnRows(cardRow(1, "Room standard", 3000, 4000, true))

		card, err := repo.GetForInstance(ctx, domain.ResourceRoom, ptr.Ptr(int64(99)))

		require.NoError(t, err)
		assert.Equal(t, int64(1), card.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no instance card goes straight to the default", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byDefaultQuery).
			WithArgs(true, "room").
			WillReturnRows(cardRow(1, "Room standard", 3000, 4000, true))

		card, err := repo.GetForInstance(ctx, domain.ResourceRoom, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(1), card.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nothing on either level", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byIDQuery).WillReturnRows(sqlmock.NewRows(columns))
		mock.ExpectQuery(byDefaultQuery).WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetForInstance(ctx, domain.ResourceRoom, ptr.Ptr(int64(99)))

		assert.ErrorIs(t, err, ErrRateCardNotFound)
	})

	t.Run("store failure is not treated as a missing card", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(byIDQuery).WillReturnError(errors.New("connection reset"))

		_, err := repo.GetForInstance(ctx, domain.ResourceRoom, ptr.Ptr(int64(2)))

		assert.ErrorIs(t, err, ErrExecQuery)
		assert.NotErrorIs(t, err, ErrRateCardNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
