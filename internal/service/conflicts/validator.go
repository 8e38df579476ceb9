package conflicts

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
)

// Validator проверяет кандидатное окно против существующих аллокаций экземпляра.
// Ничего не пишет: вызывающая сторона должна выполнять проверку и последующую запись
// в одной транзакции, последним чтением перед записью.
type Validator struct {
	allocationRepo AllocationRepository
	timeProvider   TimeProvider
	logger         Logger
}

// NewValidator создает новый экземпляр валидатора конфликтов
func NewValidator(allocationRepo AllocationRepository, timeProvider TimeProvider, logger Logger) *Validator {
	return &Validator{
		allocationRepo: allocationRepo,
		timeProvider:   timeProvider,
		logger:         logger,
	}
}

type checkOptions struct {
	kinds     []domain.AllocationKind
	excludeID *int64
}

// CheckOption настраивает проверку конфликтов
type CheckOption func(*checkOptions)

// WithKinds ограничивает проверку видами аллокаций (по умолчанию - все виды)
func WithKinds(kinds ...domain.AllocationKind) CheckOption {
	return func(o *checkOptions) {
		o.kinds = kinds
	}
}

// ExcludeAllocation исключает аллокацию из проверки (редактирование существующей записи)
func ExcludeAllocation(id int64) CheckOption {
	return func(o *checkOptions) {
		o.excludeID = &id
	}
}

// Check возвращает все аллокации, пересекающиеся с окном. Пустой отчёт - окно свободно.
// Плейсхолдеры с истёкшим удержанием не блокируют окно, даже если ещё не удалены.
func (v *Validator) Check(ctx context.Context, resourceID int64, window domain.TimeWindow, opts ...CheckOption) (*domain.ConflictReport, error) {
	options := &checkOptions{}
	for _, opt := range opts {
		opt(options)
	}

	// всё, что закончилось до начала окна, пересечься с ним не может
	filter := domain.AllocationFilter{
		ResourceID: resourceID,
		Kinds:      options.kinds,
		EndAfter:   &window.Start,
	}

	allocations, err := v.allocationRepo.ListByResource(ctx, filter)
	if err != nil {
		v.logger.Error("CheckConflicts: failed to list allocations for resource id=%d: %v", resourceID, err)
		return nil, fmt.Errorf("%w: CheckConflicts - list allocations: %w", domain.ErrUnavailable, err)
	}

	now := v.timeProvider.Now()
	report := &domain.ConflictReport{
		ResourceID: resourceID,
		Window:     window,
		Conflicts:  make([]domain.Conflict, 0),
	}

	for _, a := range allocations {
		if options.excludeID != nil && a.ID == *options.excludeID {
			continue
		}
		if !a.IsLive(now) {
			continue
		}
		if !domain.SlotOverlaps(window, a.Window) {
			continue
		}

		report.Conflicts = append(report.Conflicts, domain.Conflict{
			AllocationID: a.ID,
			Kind:         a.Kind,
			Window:       a.Window,
			Reason:       a.Reason,
			IsHold:       a.IsPlaceholder(),
		})
	}

	if !report.IsEmpty() {
		v.logger.Info("CheckConflicts: resource id=%d window=%s has %d conflicts",
			resourceID, window, len(report.Conflicts))
	}

	return report, nil
}
