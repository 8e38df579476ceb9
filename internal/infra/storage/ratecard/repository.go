package ratecard

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/m04kA/SMC-ResourceAllocation/internal/domain"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/dbmetrics"
	"github.com/m04kA/SMC-ResourceAllocation/pkg/psqlbuilder"
)

const tableName = "rate_cards"

// Repository репозиторий для работы с тарифными картами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория тарифных карт
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает тарифную карту по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RateCard, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRateCard().
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %w", ErrBuildQuery, err)
	}

	card, err := scanRateCard(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRateCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rate card: %w", ErrScanRow, err)
	}

	return card, nil
}

// GetDefaultByType получает тарифную карту по умолчанию для типа ресурса
func (r *Repository) GetDefaultByType(ctx context.Context, resourceType domain.ResourceType) (*domain.RateCard, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectRateCard().
		Where(squirrel.Eq{
			"resource_type": string(resourceType),
			"is_default":    true,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultByType - build select query: %w", ErrBuildQuery, err)
	}

	card, err := scanRateCard(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRateCardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetDefaultByType - scan rate card: %w", ErrScanRow, err)
	}

	return card, nil
}

// GetForInstance получает тарифную карту экземпляра ресурса с учётом иерархии:
// 1. Собственная карта экземпляра (если rateCardID задан)
// 2. Карта по умолчанию для типа ресурса
//
// Если карта не найдена ни на одном уровне, возвращает ErrRateCardNotFound
func (r *Repository) GetForInstance(ctx context.Context, resourceType domain.ResourceType, rateCardID *int64) (*domain.RateCard, error) {
	// 1. Пробуем получить собственную карту экземпляра
	if rateCardID != nil {
		card, err := r.GetByID(ctx, *rateCardID)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, ErrRateCardNotFound) {
			return nil, fmt.Errorf("%w: GetForInstance - level 1 (instance): %w", ErrExecQuery, err)
		}
	}

	// 2. Карта по умолчанию для типа
	card, err := r.GetDefaultByType(ctx, resourceType)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, ErrRateCardNotFound) {
		return nil, fmt.Errorf("%w: GetForInstance - level 2 (type default): %w", ErrExecQuery, err)
	}

	return nil, ErrRateCardNotFound
}

func selectRateCard() squirrel.SelectBuilder {
	return psqlbuilder.Select(
		"id",
		"resource_type",
		"name",
		"member_rate",
		"guest_rate",
		"is_default",
		"created_at",
		"updated_at",
	).
		From(tableName)
}

func scanRateCard(row *sql.Row) (*domain.RateCard, error) {
	var card domain.RateCard
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.ResourceType,
		&card.Name,
		&card.MemberRate,
		&card.GuestRate,
		&card.IsDefault,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	card.CreatedAt = createdAt.Time
	card.UpdatedAt = updatedAt.Time

	return &card, nil
}
