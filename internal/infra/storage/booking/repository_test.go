package booking

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO bookings \(id,escort_id,client_id,booking_date,start_time,end_time,duration_minutes,status,total_amount,notes\) VALUES .* RETURNING created_at, updated_at`).
		WithArgs("b-1", "escort-1", "client-1", date, "10:00", "12:00", 120, "PENDING", 250.0, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	created, err := repo.Create(context.Background(), &domain.Booking{
		ID:              "b-1",
		EscortID:        "escort-1",
		ClientID:        "client-1",
		BookingDate:     date,
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("12:00"),
		DurationMinutes: 120,
		Status:          domain.StatusPending,
		TotalAmount:     250,
	})

	require.NoError(t, err)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs("b-1").
			WillReturnRows(bookingRows().AddRow(
				"b-1", "escort-1", "client-1", date, "10:00:00", "11:30:00", 90, "CONFIRMED", 100.5, "bring flowers", date, date,
			))

		booking, err := repo.GetByID(context.Background(), "b-1")

		require.NoError(t, err)
		assert.Equal(t, types.TimeString("10:00"), booking.StartTime)
		assert.Equal(t, types.TimeString("11:30"), booking.EndTime)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
		require.NotNil(t, booking.Notes)
		assert.Equal(t, "bring flowers", *booking.Notes)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_List_FilterBuildsWhere(t *testing.T) {
	repo, mock := newMock(t)
	clientID := "client-1"

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE client_id = \$1 AND status IN \(\$2,\$3\) ORDER BY booking_date ASC, start_time ASC`).
		WithArgs("client-1", "PENDING", "CONFIRMED").
		WillReturnRows(bookingRows())

	bookings, err := repo.List(context.Background(), domain.BookingsFilter{ClientID: &clientID, ActiveOnly: true})

	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindOverlapping(t *testing.T) {
	repo, mock := newMock(t)
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM bookings WHERE escort_id = \$1 AND booking_date = \$2 AND status IN \(\$3,\$4\) AND start_time < \$5 AND end_time > \$6`).
		WithArgs("escort-1", date, "PENDING", "CONFIRMED", "12:00", "10:00").
		WillReturnRows(bookingRows().AddRow(
			"b-2", "escort-1", "client-2", date, "11:00:00", "13:00:00", 120, "PENDING", 80.0, nil, date, date,
		))

	found, err := repo.FindOverlapping(context.Background(), "escort-1", date, "10:00", "12:00")

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "b-2", found[0].ID)
	assert.Nil(t, found[0].Notes)
}

func TestRepository_UpdateStatus(t *testing.T) {
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("updated", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`UPDATE bookings SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status = \$3 RETURNING`).
			WithArgs("CONFIRMED", "b-1", "PENDING").
			WillReturnRows(bookingRows().AddRow(
				"b-1", "escort-1", "client-1", date, "10:00", "11:00", 60, "CONFIRMED", 50.0, nil, date, date,
			))

		booking, err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusConfirmed, booking.Status)
	})

	t.Run("status changed concurrently", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`UPDATE bookings SET`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WithArgs("b-1").
			WillReturnRows(bookingRows().AddRow(
				"b-1", "escort-1", "client-1", date, "10:00", "11:00", 60, "CANCELLED", 50.0, nil, date, date,
			))

		_, err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed)

		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("missing booking", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`UPDATE bookings SET`).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(`SELECT .* FROM bookings WHERE id = \$1`).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed)

		assert.ErrorIs(t, err, ErrBookingNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		repo, mock := newMock(t)
		mock.ExpectQuery(`UPDATE bookings SET`).
			WillReturnError(errors.New("connection reset"))

		_, err := repo.UpdateStatus(context.Background(), "b-1", domain.StatusPending, domain.StatusConfirmed)

		assert.ErrorIs(t, err, ErrExecQuery)
	})
}
