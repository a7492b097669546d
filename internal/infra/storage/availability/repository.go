package availability

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository репозиторий доступности исполнителей (одна запись на пару provider_id + date)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория доступности
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Upsert создаёт запись или полностью заменяет слоты существующей записи на ту же дату
func (r *Repository) Upsert(ctx context.Context, availability *domain.Availability) (*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slots, err := json.Marshal(availability.TimeSlots)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert: %v", ErrEncodeSlots, err)
	}

	query, args, err := psqlbuilder.Insert("availabilities").
		Columns("provider_id", "date", "time_slots").
		Values(availability.ProviderID, availability.Date, slots).
		Suffix("ON CONFLICT (provider_id, date) DO UPDATE SET time_slots = EXCLUDED.time_slots, updated_at = NOW() RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&availability.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	availability.CreatedAt = createdAt.Time
	availability.UpdatedAt = updatedAt.Time

	return availability, nil
}

// List получает записи о доступности по фильтру; пустой фильтр возвращает все записи
func (r *Repository) List(ctx context.Context, filter domain.AvailabilityFilter) ([]*domain.Availability, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "provider_id", "date", "time_slots", "created_at", "updated_at").
		From("availabilities").
		OrderBy("provider_id ASC", "date ASC")

	if filter.ProviderID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"provider_id": *filter.ProviderID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"date": *filter.Date})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Availability, 0)
	for rows.Next() {
		availability, err := scanAvailability(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		result = append(result, availability)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Delete удаляет запись исполнителя на дату и возвращает число удалённых строк
// Отсутствие записи не считается ошибкой
func (r *Repository) Delete(ctx context.Context, providerID string, date time.Time) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("availabilities").
		Where(squirrel.Eq{"provider_id": providerID, "date": date}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAvailability(row rowScanner) (*domain.Availability, error) {
	var availability domain.Availability
	var slots []byte
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&availability.ID,
		&availability.ProviderID,
		&availability.Date,
		&slots,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	availability.TimeSlots = make([]domain.TimeSlot, 0)
	if len(slots) > 0 {
		if err := json.Unmarshal(slots, &availability.TimeSlots); err != nil {
			return nil, fmt.Errorf("decode time_slots: %w", err)
		}
	}

	availability.CreatedAt = createdAt.Time
	availability.UpdatedAt = updatedAt.Time

	return &availability, nil
}
