package hold

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/psqlbuilder"
)

const (
	tableName = "resource_holds"

	// SQLSTATE unique_violation
	uniqueViolationCode = "23505"
)

// Repository репозиторий удержаний ресурсов на время оплаты.
// Строки не удаляются по таймеру: активность удержания определяется сравнением expires_at с now.
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория удержаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает удержание экземпляра ресурса
// Уникальный индекс по resource_instance_id гарантирует не более одного удержания на экземпляр
func (r *Repository) Create(ctx context.Context, hold *domain.Hold) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("hold_set_id", "resource_instance_id", "expires_at").
		Values(hold.HoldSetID, hold.ResourceID, hold.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %w", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&hold.ID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, fmt.Errorf("%w: Create - resource %d", ErrDuplicateHold, hold.ResourceID)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	hold.CreatedAt = createdAt.Time

	return hold, nil
}

// GetByResource получает удержание экземпляра ресурса (в том числе истёкшее)
func (r *Repository) GetByResource(ctx context.Context, resourceID int64) (*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectHold().
		Where(squirrel.Eq{"resource_instance_id": resourceID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByResource - build select query: %w", ErrBuildQuery, err)
	}

	hold, err := scanHold(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrHoldNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByResource - scan hold: %w", ErrScanRow, err)
	}

	return hold, nil
}

// ListBySet получает все удержания набора
func (r *Repository) ListBySet(ctx context.Context, holdSetID string) ([]*domain.Hold, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectHold().
		Where(squirrel.Eq{"hold_set_id": holdSetID}).
		OrderBy("resource_instance_id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListBySet - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySet - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// ListActiveByResources получает удержания, ещё действующие в момент now, для набора экземпляров
func (r *Repository) ListActiveByResources(ctx context.Context, resourceIDs []int64, now time.Time) ([]*domain.Hold, error) {
	if len(resourceIDs) == 0 {
		return []*domain.Hold{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectHold().
		Where(squirrel.Eq{"resource_instance_id": resourceIDs}).
		Where(squirrel.GtOrEq{"expires_at": now}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByResources - build select query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveByResources - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanHolds(rows)
}

// DeleteBySet удаляет все удержания набора. Идемпотентна.
func (r *Repository) DeleteBySet(ctx context.Context, holdSetID string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"hold_set_id": holdSetID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: DeleteBySet - build delete query: %w", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "DeleteBySet", query, args)
}

// DeleteExpired удаляет удержания, истёкшие к моменту now, и возвращает их наборы.
// Строка, продлённая параллельно, под условие не попадает.
func (r *Repository) DeleteExpired(ctx context.Context, now time.Time) ([]string, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Lt{"expires_at": now}).
		Suffix("RETURNING hold_set_id").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteExpired - build delete query: %w", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteExpired - execute delete: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	sets := make([]string, 0)
	for rows.Next() {
		var setID string
		if err := rows.Scan(&setID); err != nil {
			return nil, fmt.Errorf("%w: DeleteExpired - scan row: %w", ErrScanRow, err)
		}
		if _, ok := seen[setID]; ok {
			continue
		}
		seen[setID] = struct{}{}
		sets = append(sets, setID)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: DeleteExpired - rows iteration: %w", ErrScanRow, err)
	}

	return sets, nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, method, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute delete: %w", ErrExecQuery, method, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %w", ErrExecQuery, method, err)
	}

	return affected, nil
}

func selectHold() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"hold_set_id",
		"resource_instance_id",
		"expires_at",
		"created_at",
	).
		From(tableName)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHold(row rowScanner) (*domain.Hold, error) {
	var hold domain.Hold
	var createdAt sql.NullTime

	err := row.Scan(
		&hold.ID,
		&hold.HoldSetID,
		&hold.ResourceID,
		&hold.ExpiresAt,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	hold.CreatedAt = createdAt.Time

	return &hold, nil
}

func scanHolds(rows *sql.Rows) ([]*domain.Hold, error) {
	holds := make([]*domain.Hold, 0)

	for rows.Next() {
		hold, err := scanHold(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanHolds - scan row: %w", ErrScanRow, err)
		}
		holds = append(holds, hold)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanHolds - rows iteration: %w", ErrScanRow, err)
	}

	return holds, nil
}
