// Package memstore in-memory хранилище для тестов use case'ов.
// Повторяет семантику postgres-репозиториев (фильтры, сортировка, ошибки-сентинелы)
// и транзакции с откатом через снимок состояния.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	allocationRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/allocation"
	resourceRepo "github.com/m04kA/SMC-ResourceAllocation/internal/infra/storage/resource"
)

// ErrInjected ошибка, подставляемая через Fail* методы
var ErrInjected = errors.New("memstore: injected failure")

type state struct {
	resources   map[int64]*domain.ResourceInstance
	allocations map[int64]*domain.Allocation
	holds       map[int64]*domain.Hold
	rateCards   map[int64]*domain.RateCard

	nextAllocationID int64
	nextHoldID       int64
}

func newState() *state {
	return &state{
		resources:        make(map[int64]*domain.ResourceInstance),
		allocations:      make(map[int64]*domain.Allocation),
		holds:            make(map[int64]*domain.Hold),
		rateCards:        make(map[int64]*domain.RateCard),
		nextAllocationID: 1,
		nextHoldID:       1,
	}
}

func (s *state) clone() *state {
	c := &state{
		resources:        make(map[int64]*domain.ResourceInstance, len(s.resources)),
		allocations:      make(map[int64]*domain.Allocation, len(s.allocations)),
		holds:            make(map[int64]*domain.Hold, len(s.holds)),
		rateCards:        make(map[int64]*domain.RateCard, len(s.rateCards)),
		nextAllocationID: s.nextAllocationID,
		nextHoldID:       s.nextHoldID,
	}
	for id, r := range s.resources {
		c.resources[id] = copyResource(r)
	}
	for id, a := range s.allocations {
		c.allocations[id] = copyAllocation(a)
	}
	for id, h := range s.holds {
		c.holds[id] = copyHold(h)
	}
	for id, rc := range s.rateCards {
		cp := *rc
		c.rateCards[id] = &cp
	}
	return c
}

// Store общее состояние всех репозиториев
type Store struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	state *state
	now   func() time.Time

	failCreateAllocation map[int64]bool
	failCommit           error
	transactions         int
	rollbacks            int
}

// New создает пустое хранилище. now используется для created_at/updated_at.
func New(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{
		state:                newState(),
		now:                  now,
		failCreateAllocation: make(map[int64]bool),
	}
}

// Resources репозиторий экземпляров
func (s *Store) Resources() *ResourceRepository {
	return &ResourceRepository{store: s}
}

// Allocations репозиторий аллокаций
func (s *Store) Allocations() *AllocationRepository {
	return &AllocationRepository{store: s}
}

// Holds репозиторий удержаний
func (s *Store) Holds() *HoldRepository {
	return &HoldRepository{store: s}
}

// RateCards репозиторий тарифных карт
func (s *Store) RateCards() *RateCardRepository {
	return &RateCardRepository{store: s}
}

// TxManager менеджер транзакций поверх хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{store: s}
}

// AddResource добавляет экземпляр. ID обязателен.
func (s *Store) AddResource(r *domain.ResourceInstance) *domain.ResourceInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyResource(r)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
		cp.UpdatedAt = cp.CreatedAt
	}
	s.state.resources[cp.ID] = cp
	return copyResource(cp)
}

// AddRateCard добавляет тарифную карту. ID обязателен.
func (s *Store) AddRateCard(c *domain.RateCard) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.state.rateCards[cp.ID] = &cp
}

// AddAllocation записывает аллокацию в обход проверок (подготовка данных)
func (s *Store) AddAllocation(a *domain.Allocation) *domain.Allocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyAllocation(s.insertAllocation(a))
}

// AddHold записывает удержание в обход проверок (подготовка данных)
func (s *Store) AddHold(h *domain.Hold) *domain.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := copyHold(h)
	cp.ID = s.state.nextHoldID
	s.state.nextHoldID++
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	s.state.holds[cp.ID] = cp
	return copyHold(cp)
}

// Resource текущее состояние экземпляра (nil если нет)
func (s *Store) Resource(id int64) *domain.ResourceInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.state.resources[id]
	if !ok {
		return nil
	}
	return copyResource(r)
}

// AllocationsOf все аллокации экземпляра, отсортированные по началу
func (s *Store) AllocationsOf(resourceID int64) []*domain.Allocation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filterAllocations(func(a *domain.Allocation) bool {
		return a.ResourceID == resourceID
	}, byStart)
}

// AllHolds все удержания, отсортированные по экземпляру
func (s *Store) AllHolds() []*domain.Hold {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filterHolds(func(*domain.Hold) bool { return true })
}

// FailCreateAllocationFor заставляет Create аллокации на экземпляре вернуть ошибку
func (s *Store) FailCreateAllocationFor(resourceID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreateAllocation[resourceID] = true
}

// FailNextCommit заставляет следующую фиксацию вернуть err (состояние откатывается)
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// Stats количество завершённых транзакций и откатов
func (s *Store) Stats() (transactions, rollbacks int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions, s.rollbacks
}

func (s *Store) insertAllocation(a *domain.Allocation) *domain.Allocation {
	cp := copyAllocation(a)
	cp.ID = s.state.nextAllocationID
	s.state.nextAllocationID++
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = s.now()
	}
	cp.UpdatedAt = cp.CreatedAt
	s.state.allocations[cp.ID] = cp
	return cp
}

func (s *Store) createAllocationFailure(resourceID int64) error {
	if s.failCreateAllocation[resourceID] {
		return fmt.Errorf("%w: Create - execute insert: %w", allocationRepo.ErrExecQuery, ErrInjected)
	}
	return nil
}

func (s *Store) getResource(id int64) (*domain.ResourceInstance, error) {
	r, ok := s.state.resources[id]
	if !ok {
		return nil, resourceRepo.ErrResourceNotFound
	}
	return copyResource(r), nil
}

func copyResource(r *domain.ResourceInstance) *domain.ResourceInstance {
	cp := *r
	if r.RateCardID != nil {
		id := *r.RateCardID
		cp.RateCardID = &id
	}
	return &cp
}

func copyAllocation(a *domain.Allocation) *domain.Allocation {
	cp := *a
	if a.Window.Slot != nil {
		slot := *a.Window.Slot
		cp.Window.Slot = &slot
	}
	if a.HoldExpiresAt != nil {
		t := *a.HoldExpiresAt
		cp.HoldExpiresAt = &t
	}
	if a.HoldSetID != nil {
		id := *a.HoldSetID
		cp.HoldSetID = &id
	}
	if a.Reason != nil {
		reason := *a.Reason
		cp.Reason = &reason
	}
	if a.ActorID != nil {
		actor := *a.ActorID
		cp.ActorID = &actor
	}
	if a.PaymentStatus != nil {
		status := *a.PaymentStatus
		cp.PaymentStatus = &status
	}
	if a.PaymentReference != nil {
		ref := *a.PaymentReference
		cp.PaymentReference = &ref
	}
	return &cp
}

func copyHold(h *domain.Hold) *domain.Hold {
	cp := *h
	return &cp
}

type txKey struct{}

// TxManager сериализует транзакции и откатывает состояние при ошибке.
// Вложенный вызов переиспользует внешнюю транзакцию.
type TxManager struct {
	store *Store
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.run(ctx, fn)
}

func (m *TxManager) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s := m.store
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	err := fn(context.WithValue(ctx, txKey{}, true))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil && s.failCommit != nil {
		err = fmt.Errorf("memstore: commit: %w", s.failCommit)
		s.failCommit = nil
	}
	if err != nil {
		s.state = snapshot
		s.rollbacks++
		return err
	}

	s.transactions++
	return nil
}
