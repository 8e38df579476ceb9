package txmanager

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
)

func newManager(t *testing.T) (*TransactionManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewTransactionManager(dbmetrics.WrapWithoutMetrics(db)), mock
}

func TestTransactionManager(t *testing.T) {
	ctx := context.Background()

	t.Run("commits on success and exposes the transaction", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := m.DoSerializable(ctx, func(txCtx context.Context) error {
			assert.True(t, dbmetrics.IsInTransaction(txCtx))
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back and returns the callback error", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := m.Do(ctx, func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("nested call reuses the outer transaction", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		err := m.Do(ctx, func(txCtx context.Context) error {
			outer := dbmetrics.TxFromContext(txCtx)
			return m.DoSerializable(txCtx, func(inner context.Context) error {
				assert.Same(t, outer, dbmetrics.TxFromContext(inner))
				return nil
			})
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err := m.Do(ctx, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrBeginTx)
	})

	t.Run("serialization failure on commit", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(&pq.Error{Code: "40001"})

		err := m.DoSerializable(ctx, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrSerializationFailure)
	})

	t.Run("other commit failure", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("connection lost"))

		err := m.Do(ctx, func(context.Context) error { return nil })
		assert.ErrorIs(t, err, ErrCommitTx)
	})

	t.Run("deadlock inside the callback", func(t *testing.T) {
		m, mock := newManager(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		err := m.DoSerializable(ctx, func(context.Context) error {
			return &pq.Error{Code: "40P01"}
		})
		assert.ErrorIs(t, err, ErrSerializationFailure)
	})
}
