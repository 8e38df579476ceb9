package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/allocation"
	holdRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/hold"
	rateCardRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/ratecard"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
)

// ResourceRepository in-memory аналог resource.Repository
type ResourceRepository struct {
	store *Store
}

func (r *ResourceRepository) GetByID(_ context.Context, id int64) (*domain.ResourceInstance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.getResource(id)
}

// LockByID блокировку заменяет сериализация транзакций в TxManager
func (r *ResourceRepository) LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error) {
	return r.GetByID(ctx, id)
}

func (r *ResourceRepository) ListByType(_ context.Context, resourceType domain.ResourceType, activeOnly bool) ([]*domain.ResourceInstance, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	list := make([]*domain.ResourceInstance, 0)
	for _, res := range r.store.state.resources {
		if res.Type != resourceType {
			continue
		}
		if activeOnly && !res.IsActive {
			continue
		}
		list = append(list, copyResource(res))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (r *ResourceRepository) ListIDs(_ context.Context) ([]int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	ids := make([]int64, 0, len(r.store.state.resources))
	for id := range r.store.state.resources {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *ResourceRepository) UpdateFlags(_ context.Context, id int64, outOfService, hasFutureReservation bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	res, ok := r.store.state.resources[id]
	if !ok {
		return resourceRepo.ErrResourceNotFound
	}
	res.IsOutOfService = outOfService
	res.HasFutureReservation = hasFutureReservation
	res.UpdatedAt = r.store.now()
	return nil
}

// AllocationRepository in-memory аналог allocation.Repository
type AllocationRepository struct {
	store *Store
}

func (r *AllocationRepository) Create(_ context.Context, allocation *domain.Allocation) (*domain.Allocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.createAllocationFailure(allocation.ResourceID); err != nil {
		return nil, err
	}
	return copyAllocation(r.store.insertAllocation(allocation)), nil
}

func (r *AllocationRepository) GetByID(_ context.Context, id int64) (*domain.Allocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.state.allocations[id]
	if !ok {
		return nil, allocationRepo.ErrAllocationNotFound
	}
	return copyAllocation(a), nil
}

func (r *AllocationRepository) ListByResource(_ context.Context, filter domain.AllocationFilter) ([]*domain.Allocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.filterAllocations(func(a *domain.Allocation) bool {
		if a.ResourceID != filter.ResourceID {
			return false
		}
		if len(filter.Kinds) > 0 && !containsKind(filter.Kinds, a.Kind) {
			return false
		}
		if filter.EndAfter != nil && !a.Window.End.After(*filter.EndAfter) {
			return false
		}
		return true
	}, byStart), nil
}

func (r *AllocationRepository) ListByHoldSet(_ context.Context, holdSetID string) ([]*domain.Allocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.filterAllocations(func(a *domain.Allocation) bool {
		return a.HoldSetID != nil && *a.HoldSetID == holdSetID
	}, byResource), nil
}

func (r *AllocationRepository) DeleteExactReservations(_ context.Context, resourceID int64, window domain.TimeWindow) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteAllocations(func(a *domain.Allocation) bool {
		return a.ResourceID == resourceID &&
			a.Kind == domain.KindReservation &&
			a.HoldSetID == nil &&
			a.Window.Equal(window)
	}), nil
}

func (r *AllocationRepository) DeleteByResourceAndKind(_ context.Context, resourceID int64, kind domain.AllocationKind) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteAllocations(func(a *domain.Allocation) bool {
		return a.ResourceID == resourceID && a.Kind == kind
	}), nil
}

func (r *AllocationRepository) ConvertToBooking(_ context.Context, id int64, status domain.PaymentStatus, reference *string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	a, ok := r.store.state.allocations[id]
	if !ok || a.Kind != domain.KindReservation || a.HoldSetID == nil {
		return allocationRepo.ErrAllocationNotFound
	}

	a.Kind = domain.KindBooking
	a.PaymentStatus = &status
	a.PaymentReference = reference
	a.HoldSetID = nil
	a.HoldExpiresAt = nil
	a.UpdatedAt = r.store.now()
	return nil
}

func (r *AllocationRepository) DeletePlaceholdersByHoldSet(_ context.Context, holdSetID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteAllocations(func(a *domain.Allocation) bool {
		return a.Kind == domain.KindReservation && a.HoldSetID != nil && *a.HoldSetID == holdSetID
	}), nil
}

func (r *AllocationRepository) DeleteExpiredPlaceholders(_ context.Context, now time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.deleteAllocations(func(a *domain.Allocation) bool {
		return a.IsPlaceholder() && a.HoldExpiresAt != nil && a.HoldExpiresAt.Before(now)
	}), nil
}

// HoldRepository in-memory аналог hold.Repository
type HoldRepository struct {
	store *Store
}

func (r *HoldRepository) Create(_ context.Context, hold *domain.Hold) (*domain.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, h := range r.store.state.holds {
		if h.ResourceID == hold.ResourceID {
			return nil, holdRepo.ErrDuplicateHold
		}
	}

	cp := copyHold(hold)
	cp.ID = r.store.state.nextHoldID
	r.store.state.nextHoldID++
	cp.CreatedAt = r.store.now()
	r.store.state.holds[cp.ID] = cp
	return copyHold(cp), nil
}

func (r *HoldRepository) GetByResource(_ context.Context, resourceID int64) (*domain.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, h := range r.store.state.holds {
		if h.ResourceID == resourceID {
			return copyHold(h), nil
		}
	}
	return nil, holdRepo.ErrHoldNotFound
}

func (r *HoldRepository) ListBySet(_ context.Context, holdSetID string) ([]*domain.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.filterHolds(func(h *domain.Hold) bool {
		return h.HoldSetID == holdSetID
	}), nil
}

func (r *HoldRepository) ListActiveByResources(_ context.Context, resourceIDs []int64, now time.Time) ([]*domain.Hold, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	wanted := make(map[int64]struct{}, len(resourceIDs))
	for _, id := range resourceIDs {
		wanted[id] = struct{}{}
	}
	return r.store.filterHolds(func(h *domain.Hold) bool {
		_, ok := wanted[h.ResourceID]
		return ok && !h.ExpiresAt.Before(now)
	}), nil
}

func (r *HoldRepository) DeleteBySet(_ context.Context, holdSetID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var removed int64
	for id, h := range r.store.state.holds {
		if h.HoldSetID == holdSetID {
			delete(r.store.state.holds, id)
			removed++
		}
	}
	return removed, nil
}

func (r *HoldRepository) DeleteExpired(_ context.Context, now time.Time) ([]string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	expired := r.store.filterHolds(func(h *domain.Hold) bool {
		return h.ExpiresAt.Before(now)
	})

	seen := make(map[string]struct{})
	sets := make([]string, 0)
	for _, h := range expired {
		delete(r.store.state.holds, h.ID)
		if _, ok := seen[h.HoldSetID]; ok {
			continue
		}
		seen[h.HoldSetID] = struct{}{}
		sets = append(sets, h.HoldSetID)
	}
	return sets, nil
}

// RateCardRepository in-memory аналог ratecard.Repository
type RateCardRepository struct {
	store *Store
}

func (r *RateCardRepository) GetByID(_ context.Context, id int64) (*domain.RateCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c, ok := r.store.state.rateCards[id]
	if !ok {
		return nil, rateCardRepo.ErrRateCardNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *RateCardRepository) GetDefaultByType(_ context.Context, resourceType domain.ResourceType) (*domain.RateCard, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var found *domain.RateCard
	for _, c := range r.store.state.rateCards {
		if c.ResourceType != resourceType || !c.IsDefault {
			continue
		}
		if found == nil || c.ID < found.ID {
			found = c
		}
	}
	if found == nil {
		return nil, rateCardRepo.ErrRateCardNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *RateCardRepository) GetForInstance(ctx context.Context, resourceType domain.ResourceType, rateCardID *int64) (*domain.RateCard, error) {
	if rateCardID != nil {
		if card, err := r.GetByID(ctx, *rateCardID); err == nil {
			return card, nil
		}
	}
	return r.GetDefaultByType(ctx, resourceType)
}

func (s *Store) filterAllocations(keep func(*domain.Allocation) bool, less func(a, b *domain.Allocation) bool) []*domain.Allocation {
	list := make([]*domain.Allocation, 0)
	for _, a := range s.state.allocations {
		if keep(a) {
			list = append(list, copyAllocation(a))
		}
	}
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list
}

func (s *Store) deleteAllocations(match func(*domain.Allocation) bool) int64 {
	var removed int64
	for id, a := range s.state.allocations {
		if match(a) {
			delete(s.state.allocations, id)
			removed++
		}
	}
	return removed
}

func (s *Store) filterHolds(keep func(*domain.Hold) bool) []*domain.Hold {
	list := make([]*domain.Hold, 0)
	for _, h := range s.state.holds {
		if keep(h) {
			list = append(list, copyHold(h))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].ResourceID != list[j].ResourceID {
			return list[i].ResourceID < list[j].ResourceID
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func byStart(a, b *domain.Allocation) bool {
	if !a.Window.Start.Equal(b.Window.Start) {
		return a.Window.Start.Before(b.Window.Start)
	}
	return a.ID < b.ID
}

func byResource(a, b *domain.Allocation) bool {
	if a.ResourceID != b.ResourceID {
		return a.ResourceID < b.ResourceID
	}
	return a.ID < b.ID
}

func containsKind(kinds []domain.AllocationKind, kind domain.AllocationKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
