package confirm_hold

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
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/ptr"
)

type fixture struct {
	store *memstore.Store
	clock *clock.Manual
	uc    *UseCase
}

func newFixture() *fixture {
	clk := clock.NewManual(testutil.At(2025, 6, 1, 12, 0))
	store := memstore.New(clk.Now)
	for id := int64(1); id <= 3; id++ {
		store.AddResource(&domain.ResourceInstance{ID: id, Type: domain.ResourceRoom, IsActive: true})
	}

	uc := NewUseCase(store.Resources(), store.Allocations(), store.Holds(), store.TxManager(),
		testutil.NopLogger(), WithTimeProvider(clk))

	return &fixture{store: store, clock: clk, uc: uc}
}

func (f *fixture) seedHoldSet(ttl time.Duration, resourceIDs ...int64) string {
	setID := uuid.NewString()
	expiresAt := f.clock.Now().Add(ttl)
	window := testutil.Window(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 12))

	for _, id := range resourceIDs {
		f.store.AddHold(&domain.Hold{HoldSetID: setID, ResourceID: id, ExpiresAt: expiresAt})
		f.store.AddAllocation(&domain.Allocation{
			ResourceID:    id,
			Kind:          domain.KindReservation,
			Window:        window,
			HoldSetID:     ptr.Ptr(setID),
			HoldExpiresAt: ptr.Ptr(expiresAt),
		})
	}
	return setID
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("placeholders become bookings and holds are cleared", func(t *testing.T) {
		f := newFixture()
		setID := f.seedHoldSet(domain.DefaultHoldTTL, 1, 2)

		resp, err := f.uc.Execute(ctx, &Request{
			HoldSetID:        setID,
			PaymentStatus:    domain.PaymentPaid,
			PaymentReference: ptr.Ptr("pay_123"),
		})
		require.NoError(t, err)
		require.Len(t, resp.Bookings, 2)
		for _, b := range resp.Bookings {
			assert.Equal(t, domain.KindBooking, b.Kind)
			assert.Nil(t, b.HoldSetID)
		}

		assert.Empty(t, f.store.AllHolds())
		stored := f.store.AllocationsOf(1)
		require.Len(t, stored, 1)
		assert.Equal(t, domain.KindBooking, stored[0].Kind)
		require.NotNil(t, stored[0].PaymentStatus)
		assert.Equal(t, domain.PaymentPaid, *stored[0].PaymentStatus)
		assert.Equal(t, "pay_123", *stored[0].PaymentReference)
	})

	t.Run("partial payment", func(t *testing.T) {
		f := newFixture()
		setID := f.seedHoldSet(domain.DefaultHoldTTL, 3)

		resp, err := f.uc.Execute(ctx, &Request{HoldSetID: setID, PaymentStatus: domain.PaymentPartiallyPaid})
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentPartiallyPaid, *resp.Bookings[0].PaymentStatus)
	})

	t.Run("payment exactly at expiry is accepted", func(t *testing.T) {
		f := newFixture()
		setID := f.seedHoldSet(domain.DefaultHoldTTL, 1)
		f.clock.Advance(domain.DefaultHoldTTL)

		_, err := f.uc.Execute(ctx, &Request{HoldSetID: setID, PaymentStatus: domain.PaymentPaid})
		require.NoError(t, err)
	})

	t.Run("late payment is rejected and nothing changes", func(t *testing.T) {
		f := newFixture()
		setID := f.seedHoldSet(domain.DefaultHoldTTL, 1, 2)
		f.clock.Advance(domain.DefaultHoldTTL + time.Second)

		_, err := f.uc.Execute(ctx, &Request{HoldSetID: setID, PaymentStatus: domain.PaymentPaid})
		require.ErrorIs(t, err, domain.ErrHoldExpired)

		assert.Len(t, f.store.AllHolds(), 2)
		stored := f.store.AllocationsOf(1)
		require.Len(t, stored, 1)
		assert.True(t, stored[0].IsPlaceholder())
	})

	t.Run("second confirmation finds nothing", func(t *testing.T) {
		f := newFixture()
		setID := f.seedHoldSet(domain.DefaultHoldTTL, 1)

		_, err := f.uc.Execute(ctx, &Request{HoldSetID: setID, PaymentStatus: domain.PaymentPaid})
		require.NoError(t, err)

		_, err = f.uc.Execute(ctx, &Request{HoldSetID: setID, PaymentStatus: domain.PaymentPaid})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Len(t, f.store.AllocationsOf(1), 1)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{HoldSetID: "abc", PaymentStatus: domain.PaymentPaid})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.uc.Execute(ctx, &Request{HoldSetID: uuid.NewString(), PaymentStatus: "refunded"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}
