package release_hold

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil/memstore"
)

func seedHoldSet(store *memstore.Store, setID string, expiresAt time.Time, resourceIDs ...int64) {
	window := testutil.Window(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 12))
	for _, id := range resourceIDs {
		store.AddHold(&domain.Hold{HoldSetID: setID, ResourceID: id, ExpiresAt: expiresAt})
		set := setID
		exp := expiresAt
		store.AddAllocation(&domain.Allocation{
			ResourceID:    id,
			Kind:          domain.KindReservation,
			Window:        window,
			HoldSetID:     &set,
			HoldExpiresAt: &exp,
		})
	}
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	now := testutil.At(2025, 6, 1, 12, 0)

	t.Run("removes holds and placeholders of the set only", func(t *testing.T) {
		store := memstore.New(nil)
		uc := NewUseCase(store.Allocations(), store.Holds(), store.TxManager(), testutil.NopLogger())

		target := uuid.NewString()
		other := uuid.NewString()
		seedHoldSet(store, target, now.Add(time.Minute), 1, 2)
		seedHoldSet(store, other, now.Add(time.Minute), 3)
		store.AddAllocation(&domain.Allocation{
			ResourceID: 1,
			Kind:       domain.KindReservation,
			Window:     testutil.Window(testutil.Date(2025, 7, 1), testutil.Date(2025, 7, 2)),
		})

		resp, err := uc.Execute(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.ReleasedHolds)
		assert.Equal(t, int64(2), resp.RemovedPlaceholders)

		holds := store.AllHolds()
		require.Len(t, holds, 1)
		assert.Equal(t, other, holds[0].HoldSetID)

		remaining := store.AllocationsOf(1)
		require.Len(t, remaining, 1)
		assert.False(t, remaining[0].IsPlaceholder())
		assert.Len(t, store.AllocationsOf(3), 1)
	})

	t.Run("idempotent", func(t *testing.T) {
		store := memstore.New(nil)
		uc := NewUseCase(store.Allocations(), store.Holds(), store.TxManager(), testutil.NopLogger())

		setID := uuid.NewString()
		seedHoldSet(store, setID, now.Add(time.Minute), 1)

		_, err := uc.Execute(ctx, setID)
		require.NoError(t, err)

		resp, err := uc.Execute(ctx, setID)
		require.NoError(t, err)
		assert.Zero(t, resp.ReleasedHolds)
		assert.Zero(t, resp.RemovedPlaceholders)

		resp, err = uc.Execute(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Zero(t, resp.ReleasedHolds)
	})

	t.Run("expired set is released without error", func(t *testing.T) {
		store := memstore.New(nil)
		uc := NewUseCase(store.Allocations(), store.Holds(), store.TxManager(), testutil.NopLogger())

		setID := uuid.NewString()
		seedHoldSet(store, setID, now.Add(-time.Hour), 1)

		resp, err := uc.Execute(ctx, setID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.ReleasedHolds)
		assert.Empty(t, store.AllocationsOf(1))
	})

	t.Run("invalid id", func(t *testing.T) {
		store := memstore.New(nil)
		uc := NewUseCase(store.Allocations(), store.Holds(), store.TxManager(), testutil.NopLogger())

		_, err := uc.Execute(ctx, "not-a-uuid")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
