package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/ptr"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func maintenance() *domain.Allocation {
	paid := domain.PaymentPaid
	return &domain.Allocation{
		ResourceID:       1,
		Kind:             domain.KindMaintenance,
		Window:           domain.TimeWindow{Start: now, End: now.Add(48 * time.Hour)},
		Reason:           ptr.Ptr("ремонт"),
		ActorID:          ptr.Ptr(int64(7)),
		PaymentStatus:    &paid,
		PaymentReference: ptr.Ptr("ref-1"),
	}
}

func assertUntouched(t *testing.T, a *domain.Allocation) {
	t.Helper()
	assert.Equal(t, "ремонт", ptr.Value(a.Reason))
	assert.Equal(t, int64(7), ptr.Value(a.ActorID))
	assert.Equal(t, domain.PaymentPaid, ptr.Value(a.PaymentStatus))
	assert.Equal(t, "ref-1", ptr.Value(a.PaymentReference))
}

func mutate(a *domain.Allocation) {
	*a.Reason = "changed"
	*a.ActorID = 99
	*a.PaymentStatus = domain.PaymentPartiallyPaid
	*a.PaymentReference = "changed"
}

func TestStore_AllocationCopies(t *testing.T) {
	t.Run("input is not aliased", func(t *testing.T) {
		s := New(func() time.Time { return now })
		in := maintenance()
		s.AddAllocation(in)

		mutate(in)

		rows := s.AllocationsOf(1)
		require.Len(t, rows, 1)
		assertUntouched(t, rows[0])
	})

	t.Run("read result is not aliased", func(t *testing.T) {
		s := New(func() time.Time { return now })
		s.AddAllocation(maintenance())

		mutate(s.AllocationsOf(1)[0])

		assertUntouched(t, s.AllocationsOf(1)[0])
	})

	t.Run("rollback restores pointer fields", func(t *testing.T) {
		s := New(func() time.Time { return now })
		stored := s.AddAllocation(maintenance())
		failure := errors.New("abort")

		err := s.TxManager().Do(context.Background(), func(ctx context.Context) error {
			a, err := s.Allocations().GetByID(ctx, stored.ID)
			require.NoError(t, err)
			mutate(a)
			return failure
		})

		require.ErrorIs(t, err, failure)
		assertUntouched(t, s.AllocationsOf(1)[0])
		_, rollbacks := s.Stats()
		assert.Equal(t, 1, rollbacks)
	})
}
