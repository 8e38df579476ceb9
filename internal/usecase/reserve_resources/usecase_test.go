package reserve_resources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/conflicts"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/holds"
	"github.com/m04kA/SMC-ResourceAllocation/internal/service/resources"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil"
	"github.com/m04kA/SMC-ResourceAllocation/internal/testutil/memstore"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/clock"
)

const admin = int64(7)

type fixture struct {
	store *memstore.Store
	uc    *UseCase
}

func newFixture() *fixture {
	clk := clock.NewFixed(testutil.At(2025, 6, 1, 12, 0))
	store := memstore.New(clk.Now)
	log := testutil.NopLogger()

	for id := int64(1); id <= 3; id++ {
		store.AddResource(&domain.ResourceInstance{ID: id, Type: domain.ResourceRoom, IsActive: true})
	}
	store.AddResource(&domain.ResourceInstance{ID: 10, Type: domain.ResourceLawn, IsActive: true})

	validator := conflicts.NewValidator(store.Allocations(), clk, log)
	holdSvc := holds.NewService(store.Holds(), clk, log)
	resourceSvc := resources.NewService(store.Resources(), store.Allocations(), holdSvc, validator, clk, testutil.IST, log)

	uc := NewUseCase(store.Resources(), store.Allocations(), validator, resourceSvc, store.TxManager(),
		testutil.IST, log, WithTimeProvider(clk))

	return &fixture{store: store, uc: uc}
}

func nights(from, to int) domain.TimeWindow {
	return testutil.Window(testutil.Date(2025, 6, from), testutil.Date(2025, 6, to))
}

func TestUseCase_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("reserves every resource and sets the future flag", func(t *testing.T) {
		f := newFixture()

		resp, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{3, 1}, Window: nights(10, 12), ActorID: admin})
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3}, resp.ResourceIDs)
		require.Len(t, resp.Reservations, 2)
		assert.Equal(t, admin, *resp.Reservations[0].ActorID)
		assert.Zero(t, resp.Superseded)

		assert.True(t, f.store.Resource(1).HasFutureReservation)
		assert.True(t, f.store.Resource(3).HasFutureReservation)
		assert.False(t, f.store.Resource(2).HasFutureReservation)
	})

	t.Run("same window twice supersedes instead of duplicating", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1}, Window: nights(10, 12), ActorID: admin})
		require.NoError(t, err)

		resp, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1}, Window: nights(10, 12), ActorID: admin + 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Superseded)

		rows := f.store.AllocationsOf(1)
		require.Len(t, rows, 1)
		assert.Equal(t, admin+1, *rows[0].ActorID)
	})

	t.Run("same slot supersedes, other slot coexists", func(t *testing.T) {
		f := newFixture()
		morning := testutil.SlotWindow(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 11), domain.SlotMorning)
		evening := testutil.SlotWindow(testutil.Date(2025, 6, 10), testutil.Date(2025, 6, 11), domain.SlotEvening)

		for _, w := range []domain.TimeWindow{morning, morning, evening} {
			_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{10}, Window: w, ActorID: admin})
			require.NoError(t, err)
		}

		assert.Len(t, f.store.AllocationsOf(10), 2)
	})

	t.Run("slot window must be one whole day", func(t *testing.T) {
		tests := []struct {
			name   string
			window domain.TimeWindow
		}{
			{"morning 09:00-11:00", testutil.SlotWindow(testutil.At(2025, 7, 3, 9, 0), testutil.At(2025, 7, 3, 11, 0), domain.SlotMorning)},
			{"morning 11:00-13:00", testutil.SlotWindow(testutil.At(2025, 7, 3, 11, 0), testutil.At(2025, 7, 3, 13, 0), domain.SlotMorning)},
			{"ten-day evening", testutil.SlotWindow(testutil.Date(2025, 7, 3), testutil.Date(2025, 7, 13), domain.SlotEvening)},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture()

				_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{10}, Window: tt.window, ActorID: admin})

				assert.ErrorIs(t, err, domain.ErrInvalidWindow)
				assert.Empty(t, f.store.AllocationsOf(10))
			})
		}
	})

	t.Run("overlapping allocation of another kind rejects", func(t *testing.T) {
		kinds := []domain.AllocationKind{domain.KindBooking, domain.KindMaintenance}

		for _, kind := range kinds {
			t.Run(string(kind), func(t *testing.T) {
				f := newFixture()
				existing := f.store.AddAllocation(&domain.Allocation{ResourceID: 1, Kind: kind, Window: nights(11, 13)})

				_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1}, Window: nights(10, 12), ActorID: admin})
				require.ErrorIs(t, err, domain.ErrConflict)

				var conflictErr *domain.ConflictError
				require.True(t, errors.As(err, &conflictErr))
				require.Len(t, conflictErr.Reports, 1)
				assert.Equal(t, existing.ID, conflictErr.Reports[0].Conflicts[0].AllocationID)
				assert.Equal(t, kind, conflictErr.Reports[0].Conflicts[0].Kind)
			})
		}
	})

	t.Run("partially overlapping reservation is a conflict, not a supersede", func(t *testing.T) {
		f := newFixture()
		f.store.AddAllocation(&domain.Allocation{ResourceID: 1, Kind: domain.KindReservation, Window: nights(10, 12)})

		_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1}, Window: nights(11, 13), ActorID: admin})
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.Len(t, f.store.AllocationsOf(1), 1)
	})

	t.Run("batch is atomic and rolls back supersedes", func(t *testing.T) {
		f := newFixture()
		f.store.AddAllocation(&domain.Allocation{ResourceID: 1, Kind: domain.KindReservation, Window: nights(10, 12)})
		f.store.AddAllocation(&domain.Allocation{ResourceID: 3, Kind: domain.KindBooking, Window: nights(11, 12)})

		_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1, 2, 3}, Window: nights(10, 12), ActorID: admin})
		require.ErrorIs(t, err, domain.ErrConflict)

		assert.Len(t, f.store.AllocationsOf(1), 1, "superseded reservation restored")
		assert.Empty(t, f.store.AllocationsOf(2))
		assert.False(t, f.store.Resource(2).HasFutureReservation)
	})

	t.Run("active checkout placeholder blocks", func(t *testing.T) {
		f := newFixture()
		set := "1f1c4b9a-8e51-4b0f-a7a2-5d7c7f1d2e10"
		expires := testutil.At(2025, 6, 1, 12, 0).Add(time.Minute)
		f.store.AddAllocation(&domain.Allocation{
			ResourceID:    2,
			Kind:          domain.KindReservation,
			Window:        nights(10, 12),
			HoldSetID:     &set,
			HoldExpiresAt: &expires,
		})

		_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{2}, Window: nights(10, 12), ActorID: admin})
		require.ErrorIs(t, err, domain.ErrConflict)
		assert.Len(t, f.store.AllocationsOf(2), 1, "placeholder is never superseded")
	})

	t.Run("validation happens before store access", func(t *testing.T) {
		f := newFixture()

		cases := []struct {
			name string
			req  *Request
			want error
		}{
			{"no actor", &Request{ResourceIDs: []int64{1}, Window: nights(10, 12)}, domain.ErrInvalidInput},
			{"no resources", &Request{Window: nights(10, 12), ActorID: admin}, domain.ErrInvalidInput},
			{"end before start", &Request{ResourceIDs: []int64{1}, Window: nights(12, 10), ActorID: admin}, domain.ErrInvalidWindow},
			{"start before today", &Request{ResourceIDs: []int64{1}, Window: testutil.Window(testutil.Date(2025, 5, 31), testutil.Date(2025, 6, 2)), ActorID: admin}, domain.ErrInvalidWindow},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := f.uc.Execute(ctx, tc.req)
				assert.ErrorIs(t, err, tc.want)
			})
		}

		transactions, rollbacks := f.store.Stats()
		assert.Zero(t, transactions)
		assert.Zero(t, rollbacks)
	})

	t.Run("unknown and inactive resources", func(t *testing.T) {
		f := newFixture()
		f.store.AddResource(&domain.ResourceInstance{ID: 50, Type: domain.ResourceRoom, IsActive: false})

		_, err := f.uc.Execute(ctx, &Request{ResourceIDs: []int64{1, 99}, Window: nights(10, 12), ActorID: admin})
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = f.uc.Execute(ctx, &Request{ResourceIDs: []int64{50}, Window: nights(10, 12), ActorID: admin})
		assert.ErrorIs(t, err, domain.ErrResourceInactive)

		assert.Empty(t, f.store.AllocationsOf(1))
	})
}
