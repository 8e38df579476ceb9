package allocation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/psqlbuilder"
)

const tableName = "allocations"

var allocationColumns = []string{
	"id",
	"resource_instance_id",
	"kind",
	"start_at",
	"end_at",
	"slot",
	"reason",
	"actor_id",
	"hold_set_id",
	"hold_expires_at",
	"payment_status",
	"payment_reference",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с аллокациями (бронирования, резервы, обслуживание)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория аллокаций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую аллокацию
// Если в контексте передана активная транзакция (через context.Value), использует её.
//
// Вызывать только внутри транзакции, в которой перед этим была выполнена проверка конфликтов,
// иначе параллельный запрос может занять то же окно.
func (r *Repository) Create(ctx context.Context, allocation *domain.Allocation) (*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"resource_instance_id",
			"kind",
			"start_at",
			"end_at",
			"slot",
			"reason",
			"actor_id",
			"hold_set_id",
			"hold_expires_at",
			"payment_status",
			"payment_reference",
		).
		Values(
			allocation.ResourceID,
			allocation.Kind,
			allocation.Window.Start,
			allocation.Window.End,
			allocation.Window.Slot,
			allocation.Reason,
			allocation.ActorID,
			allocation.HoldSetID,
			allocation.HoldExpiresAt,
			allocation.PaymentStatus,
			allocation.PaymentReference,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&allocation.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	allocation.CreatedAt = createdAt.Time
	allocation.UpdatedAt = updatedAt.Time

	return allocation, nil
}

// GetByID получает аллокацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	allocation, err := scanAllocation(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAllocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan allocation: %w", ErrScanRow, err)
	}

	return allocation, nil
}

// ListByResource получает аллокации экземпляра ресурса с фильтрацией
// Поддерживает фильтрацию по:
// - Видам аллокаций (Kinds) - пустой список означает все виды
// - Окончанию окна (EndAfter) - только аллокации с end_at > EndAfter
//
// Примеры использования:
//
//  1. Всё, что ещё не закончилось к началу кандидатного окна:
//     filter := domain.AllocationFilter{ResourceID: 7, EndAfter: &window.Start}
//
//  2. Только периоды обслуживания:
//     filter := domain.AllocationFilter{ResourceID: 7, Kinds: []domain.AllocationKind{domain.KindMaintenance}}
func (r *Repository) ListByResource(ctx context.Context, filter domain.AllocationFilter) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(allocationColumns...).
		From(tableName).
		Where(squirrel.Eq{"resource_instance_id": filter.ResourceID}).
		OrderBy("start_at ASC", "id ASC")

	if len(filter.Kinds) > 0 {
		kinds := make([]string, 0, len(filter.Kinds))
		for _, k := range filter.Kinds {
			kinds = append(kinds, string(k))
		}
		selectBuilder = selectBuilder.Where(squirrel.Eq{"kind": kinds})
	}

	if filter.EndAfter != nil {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"end_at": *filter.EndAfter})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByResource - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// ListByHoldSet получает плейсхолдеры, созданные набором удержаний
func (r *Repository) ListByHoldSet(ctx context.Context, holdSetID string) ([]*domain.Allocation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(allocationColumns...).
		From(tableName).
		Where(squirrel.Eq{"hold_set_id": holdSetID}).
		OrderBy("resource_instance_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByHoldSet - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByHoldSet - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanAllocations(rows)
}

// DeleteExactReservations удаляет административные резервы с точно таким же окном и слотом.
// Бронирования, обслуживание и плейсхолдеры удержаний не затрагиваются.
func (r *Repository) DeleteExactReservations(ctx context.Context, resourceID int64, window domain.TimeWindow) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	where := squirrel.And{
		squirrel.Eq{"resource_instance_id": resourceID},
		squirrel.Eq{"kind": string(domain.KindReservation)},
		squirrel.Eq{"hold_set_id": nil},
		squirrel.Eq{"start_at": window.Start},
		squirrel.Eq{"end_at": window.End},
	}
	if window.Slot != nil {
		where = append(where, squirrel.Eq{"slot": string(*window.Slot)})
	} else {
		where = append(where, squirrel.Eq{"slot": nil})
	}

	query, args, err := psqlbuilder.Delete(tableName).
		Where(where).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExactReservations - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExactReservations - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExactReservations - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// DeleteByResourceAndKind удаляет все аллокации вида kind на экземпляре ресурса
// Используется для замены набора периодов обслуживания целиком
func (r *Repository) DeleteByResourceAndKind(ctx context.Context, resourceID int64, kind domain.AllocationKind) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{
			"resource_instance_id": resourceID,
			"kind":                 string(kind),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndKind - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndKind - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteByResourceAndKind - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// ConvertToBooking превращает плейсхолдер удержания в подтверждённое бронирование
func (r *Repository) ConvertToBooking(ctx context.Context, id int64, status domain.PaymentStatus, reference *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("kind", string(domain.KindBooking)).
		Set("payment_status", string(status)).
		Set("payment_reference", reference).
		Set("hold_set_id", nil).
		Set("hold_expires_at", nil).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":   id,
			"kind": string(domain.KindReservation),
		}).
		Where(squirrel.NotEq{"hold_set_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: ConvertToBooking - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: ConvertToBooking - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: ConvertToBooking - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAllocationNotFound
	}

	return nil
}

// DeletePlaceholdersByHoldSet удаляет плейсхолдеры набора удержаний
// Идемпотентна: повторный вызов возвращает 0
func (r *Repository) DeletePlaceholdersByHoldSet(ctx context.Context, holdSetID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{
			"hold_set_id": holdSetID,
			"kind":        string(domain.KindReservation),
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeletePlaceholdersByHoldSet - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeletePlaceholdersByHoldSet - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeletePlaceholdersByHoldSet - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

// DeleteExpiredPlaceholders удаляет плейсхолдеры, чьё удержание истекло к моменту now
// Безопасна при параллельных запросах: удаляет только то, что уже не блокирует ресурс
func (r *Repository) DeleteExpiredPlaceholders(ctx context.Context, now time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"kind": string(domain.KindReservation)}).
		Where(squirrel.NotEq{"hold_set_id": nil}).
		Where(squirrel.Lt{"hold_expires_at": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredPlaceholders - build delete query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredPlaceholders - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DeleteExpiredPlaceholders - get rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAllocation(row rowScanner) (*domain.Allocation, error) {
	var allocation domain.Allocation
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&allocation.ID,
		&allocation.ResourceID,
		&allocation.Kind,
		&allocation.Window.Start,
		&allocation.Window.End,
		&allocation.Window.Slot,
		&allocation.Reason,
		&allocation.ActorID,
		&allocation.HoldSetID,
		&allocation.HoldExpiresAt,
		&allocation.PaymentStatus,
		&allocation.PaymentReference,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	allocation.CreatedAt = createdAt.Time
	allocation.UpdatedAt = updatedAt.Time

	return &allocation, nil
}

// scanAllocations вспомогательная функция для сканирования списка аллокаций
func scanAllocations(rows *sql.Rows) ([]*domain.Allocation, error) {
	allocations := make([]*domain.Allocation, 0)

	for rows.Next() {
		allocation, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanAllocations - scan row: %w", ErrScanRow, err)
		}
		allocations = append(allocations, allocation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanAllocations - rows iteration: %w", ErrScanRow, err)
	}

	return allocations, nil
}
