package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func TestRepository_Add(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	payload := []byte(`{"bookingId":"b-1"}`)

	mock.ExpectExec(`INSERT INTO outbox_events \(id,aggregate_id,event_type,payload,next_attempt_at\)`).
		WithArgs("e-1", "b-1", domain.EventBookingCreated, payload, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Add(context.Background(), &domain.OutboxEvent{
		ID:            "e-1",
		AggregateID:   "b-1",
		EventType:     domain.EventBookingCreated,
		Payload:       payload,
		NextAttemptAt: now,
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FetchPending(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM outbox_events WHERE published_at IS NULL AND next_attempt_at <= \$1 AND attempts < \$2 ORDER BY created_at ASC LIMIT 10 FOR UPDATE SKIP LOCKED`).
		WithArgs(now, 5).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "aggregate_id", "event_type", "payload", "attempts", "next_attempt_at", "published_at", "last_error", "created_at",
		}).
			AddRow("e-1", "b-1", domain.EventBookingCreated, []byte(`{}`), 0, now, nil, nil, now).
			AddRow("e-2", "b-2", domain.EventBookingCancelled, []byte(`{}`), 2, now, nil, "broker down", now))

	events, err := repo.FetchPending(context.Background(), now, 5, 10)

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].LastError)
	require.NotNil(t, events[1].LastError)
	assert.Equal(t, "broker down", *events[1].LastError)
	assert.Equal(t, 2, events[1].Attempts)
}

func TestRepository_MarkFailed(t *testing.T) {
	repo, mock := newMock(t)
	next := time.Date(2026, 6, 1, 8, 0, 4, 0, time.UTC)

	mock.ExpectExec(`UPDATE outbox_events SET attempts = \$1, next_attempt_at = \$2, last_error = \$3 WHERE id = \$4`).
		WithArgs(3, next, "timeout", "e-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), "e-1", 3, next, "timeout"))
}

func TestRepository_MarkPublished_Missing(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec(`UPDATE outbox_events SET published_at = \$1, last_error = \$2 WHERE id = \$3`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPublished(context.Background(), "gone", time.Now())

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestRepository_CountPending(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM outbox_events WHERE published_at IS NULL AND attempts < \$1`).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountPending(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
