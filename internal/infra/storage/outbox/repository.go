package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ReservationService/pkg/psqlbuilder"
)

// Repository таблица outbox_events
// Add вызывается в той же транзакции, что и изменение бронирования/платежа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Add записывает событие к отправке
func (r *Repository) Add(ctx context.Context, event *domain.OutboxEvent) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("outbox_events").
		Columns("id", "aggregate_id", "event_type", "payload", "next_attempt_at").
		Values(event.ID, event.AggregateID, event.EventType, event.Payload, event.NextAttemptAt).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Add - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Add - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// FetchPending выбирает неотправленные события, у которых подошло время следующей попытки
// Должен вызываться в транзакции: строки блокируются с SKIP LOCKED, поэтому несколько реплик
// relay не отправят одно событие дважды
func (r *Repository) FetchPending(ctx context.Context, now time.Time, maxAttempts, limit int) ([]*domain.OutboxEvent, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"aggregate_id",
		"event_type",
		"payload",
		"attempts",
		"next_attempt_at",
		"published_at",
		"last_error",
		"created_at",
	).
		From("outbox_events").
		Where("published_at IS NULL").
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		Where(squirrel.Lt{"attempts": maxAttempts}).
		OrderBy("created_at ASC").
		Limit(uint64(limit)).
		Suffix("FOR UPDATE SKIP LOCKED").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	events := make([]*domain.OutboxEvent, 0)
	for rows.Next() {
		var event domain.OutboxEvent
		var publishedAt sql.NullTime
		var lastError sql.NullString

		err := rows.Scan(
			&event.ID,
			&event.AggregateID,
			&event.EventType,
			&event.Payload,
			&event.Attempts,
			&event.NextAttemptAt,
			&publishedAt,
			&lastError,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: FetchPending - scan row: %v", ErrScanRow, err)
		}

		if publishedAt.Valid {
			event.PublishedAt = &publishedAt.Time
		}
		if lastError.Valid {
			event.LastError = &lastError.String
		}

		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchPending - rows error: %v", ErrScanRow, err)
	}

	return events, nil
}

// CountPending число неотправленных событий, которые ещё будут повторяться
func (r *Repository) CountPending(ctx context.Context, maxAttempts int) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("outbox_events").
		Where("published_at IS NULL").
		Where(squirrel.Lt{"attempts": maxAttempts}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountPending - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountPending - scan row: %v", ErrScanRow, err)
	}

	return count, nil
}

// MarkPublished отмечает событие отправленным
func (r *Repository) MarkPublished(ctx context.Context, id string, at time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("published_at", at).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPublished - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "MarkPublished")
}

// MarkFailed сохраняет неудачную попытку и время следующей
func (r *Repository) MarkFailed(ctx context.Context, id string, attempts int, nextAttemptAt time.Time, lastError string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("outbox_events").
		Set("attempts", attempts).
		Set("next_attempt_at", nextAttemptAt).
		Set("last_error", lastError).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, query, args, "MarkFailed")
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, query string, args []interface{}, op string) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
