package resource

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/psqlbuilder"
)

const tableName = "resource_instances"

// Repository репозиторий экземпляров ресурсов (каталог)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ресурсов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает экземпляр ресурса по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ResourceInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectResource().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	instance, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan resource: %w", ErrScanRow, err)
	}

	return instance, nil
}

// LockByID получает экземпляр ресурса и блокирует строку до конца транзакции.
// Все операции записи над аллокациями экземпляра сначала берут эту блокировку,
// поэтому проверка конфликтов и запись не пересекаются с параллельными запросами.
// Вне транзакции работает как GetByID.
func (r *Repository) LockByID(ctx context.Context, id int64) (*domain.ResourceInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectResource().
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: LockByID - build select query: %w", ErrBuildQuery, err)
	}

	instance, err := scanResource(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrResourceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: LockByID - scan resource: %w", ErrScanRow, err)
	}

	return instance, nil
}

// ListByType получает экземпляры ресурсов заданного типа
// activeOnly - только активные (не выведенные из каталога) экземпляры
func (r *Repository) ListByType(ctx context.Context, resourceType domain.ResourceType, activeOnly bool) ([]*domain.ResourceInstance, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectResource().
		Where(squirrel.Eq{"resource_type": string(resourceType)}).
		OrderBy("id ASC")

	if activeOnly {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByType - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByType - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanResources(rows)
}

// ListIDs получает идентификаторы всех экземпляров ресурсов
func (r *Repository) ListIDs(ctx context.Context) ([]int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id").
		From(tableName).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: ListIDs - scan row: %w", ErrScanRow, err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListIDs - rows iteration: %w", ErrScanRow, err)
	}

	return ids, nil
}

// UpdateFlags записывает производные флаги экземпляра.
// Значения всегда вычисляются из аллокаций вызывающей стороной, а не берутся из запроса.
func (r *Repository) UpdateFlags(ctx context.Context, id int64, outOfService, hasFutureReservation bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("is_out_of_service", outOfService).
		Set("has_future_reservation", hasFutureReservation).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateFlags - build update query: %w", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateFlags - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateFlags - get rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrResourceNotFound
	}

	return nil
}

func selectResource() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"resource_type",
		"name",
		"is_active",
		"is_out_of_service",
		"has_future_reservation",
		"rate_card_id",
		"created_at",
		"updated_at",
	).
		From(tableName)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResource(row rowScanner) (*domain.ResourceInstance, error) {
	var instance domain.ResourceInstance
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&instance.ID,
		&instance.Type,
		&instance.Name,
		&instance.IsActive,
		&instance.IsOutOfService,
		&instance.HasFutureReservation,
		&instance.RateCardID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	instance.CreatedAt = createdAt.Time
	instance.UpdatedAt = updatedAt.Time

	return &instance, nil
}

func scanResources(rows *sql.Rows) ([]*domain.ResourceInstance, error) {
	instances := make([]*domain.ResourceInstance, 0)

	for rows.Next() {
		instance, err := scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanResources - scan row: %w", ErrScanRow, err)
		}
		instances = append(instances, instance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanResources - rows iteration: %w", ErrScanRow, err)
	}

	return instances, nil
}
