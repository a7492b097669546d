package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/ptr"
)

type fakeBookingRepo struct {
	bookings   map[string]*domain.Booking
	lastFilter domain.BookingsFilter
	updateErr  error
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*domain.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *fakeBookingRepo) List(_ context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	r.lastFilter = filter
	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		result = append(result, b)
	}
	return result, nil
}

func (r *fakeBookingRepo) UpdateStatus(_ context.Context, id string, expected, next domain.BookingStatus) (*domain.Booking, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b := r.bookings[id]
	if b.Status != expected {
		return nil, bookingRepo.ErrStatusConflict
	}
	b.Status = next
	copied := *b
	return &copied, nil
}

type fakeOutbox struct {
	events []*domain.OutboxEvent
}

func (o *fakeOutbox) Add(_ context.Context, e *domain.OutboxEvent) error {
	o.events = append(o.events, e)
	return nil
}

type fakeTx struct{}

func (fakeTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newService(bookings ...*domain.Booking) (*Service, *fakeBookingRepo, *fakeOutbox) {
	repo := &fakeBookingRepo{bookings: map[string]*domain.Booking{}}
	for _, b := range bookings {
		repo.bookings[b.ID] = b
	}
	outbox := &fakeOutbox{}
	svc := NewService(repo, outbox, fakeTx{}, fixedTime{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}, logger.NewNop())
	return svc, repo, outbox
}

func booking(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          "b-1",
		EscortID:    "escort-1",
		ClientID:    "client-1",
		BookingDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		StartTime:   "10:00",
		EndTime:     "12:00",
		Status:      status,
		TotalAmount: 200,
	}
}

func TestService_GetByID(t *testing.T) {
	svc, _, _ := newService(booking(domain.StatusPending))

	resp, err := svc.GetByID(context.Background(), "b-1", "client-1")
	require.NoError(t, err)
	assert.Equal(t, "PENDING", resp.Status)
	assert.Equal(t, "2026-01-10", resp.Date)

	_, err = svc.GetByID(context.Background(), "b-1", "stranger")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), "missing", "client-1")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestService_UpdateStatus_Transitions(t *testing.T) {
	tests := []struct {
		name      string
		from      domain.BookingStatus
		to        string
		actor     string
		wantErr   error
		wantEvent string
	}{
		{name: "escort confirms pending", from: domain.StatusPending, to: "CONFIRMED", actor: "escort-1", wantEvent: domain.EventBookingConfirmed},
		{name: "client cancels pending", from: domain.StatusPending, to: "CANCELLED", actor: "client-1", wantEvent: domain.EventBookingCancelled},
		{name: "escort cancels confirmed", from: domain.StatusConfirmed, to: "CANCELLED", actor: "escort-1", wantEvent: domain.EventBookingCancelled},
		{name: "escort completes confirmed", from: domain.StatusConfirmed, to: "COMPLETED", actor: "escort-1", wantEvent: domain.EventBookingCompleted},
		{name: "client cannot confirm", from: domain.StatusPending, to: "CONFIRMED", actor: "client-1", wantErr: ErrAccessDenied},
		{name: "client cannot complete", from: domain.StatusConfirmed, to: "COMPLETED", actor: "client-1", wantErr: ErrAccessDenied},
		{name: "pending cannot complete", from: domain.StatusPending, to: "COMPLETED", actor: "escort-1", wantErr: ErrInvalidTransition},
		{name: "cancelled is terminal", from: domain.StatusCancelled, to: "CONFIRMED", actor: "escort-1", wantErr: ErrInvalidTransition},
		{name: "completed is terminal", from: domain.StatusCompleted, to: "CANCELLED", actor: "client-1", wantErr: ErrInvalidTransition},
		{name: "same state is invalid", from: domain.StatusConfirmed, to: "CONFIRMED", actor: "escort-1", wantErr: ErrInvalidTransition},
		{name: "back to pending is invalid", from: domain.StatusConfirmed, to: "PENDING", actor: "escort-1", wantErr: ErrInvalidTransition},
		{name: "unknown status", from: domain.StatusPending, to: "ARCHIVED", actor: "escort-1", wantErr: ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, outbox := newService(booking(tt.from))

			resp, err := svc.UpdateStatus(context.Background(), "b-1", &models.UpdateStatusRequest{
				CallerID: tt.actor,
				UserID:   tt.actor,
				Status:   tt.to,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.bookings["b-1"].Status)
				assert.Empty(t, outbox.events)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
			require.Len(t, outbox.events, 1)
			assert.Equal(t, tt.wantEvent, outbox.events[0].EventType)
			assert.Equal(t, "b-1", outbox.events[0].AggregateID)
		})
	}
}

func TestService_UpdateStatus_TokenRoleMustAllowTransition(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		status  string
		wantErr error
	}{
		{name: "escort token confirms", role: domain.RoleEscort, status: "CONFIRMED"},
		{name: "token without role confirms", role: "", status: "CONFIRMED"},
		{name: "client token cannot confirm", role: domain.RoleClient, status: "CONFIRMED", wantErr: ErrAccessDenied},
		{name: "client token cannot complete", role: domain.RoleClient, status: "COMPLETED", wantErr: ErrAccessDenied},
		{name: "client token may cancel", role: domain.RoleClient, status: "CANCELLED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(booking(domain.StatusPending))

			_, err := svc.UpdateStatus(context.Background(), "b-1", &models.UpdateStatusRequest{
				CallerID:   "escort-1",
				CallerRole: tt.role,
				UserID:     "escort-1",
				Status:     tt.status,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, domain.StatusPending, repo.bookings["b-1"].Status)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_UpdateStatus_UserMustBeCaller(t *testing.T) {
	svc, _, _ := newService(booking(domain.StatusPending))

	_, err := svc.UpdateStatus(context.Background(), "b-1", &models.UpdateStatusRequest{
		CallerID: "client-1",
		UserID:   "escort-1",
		Status:   "CONFIRMED",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestService_UpdateStatus_ConcurrentChange(t *testing.T) {
	svc, repo, _ := newService(booking(domain.StatusPending))
	repo.updateErr = bookingRepo.ErrStatusConflict

	_, err := svc.Confirm(context.Background(), "b-1", "escort-1")

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_UpdateStatus_RepositoryFailure(t *testing.T) {
	svc, repo, _ := newService(booking(domain.StatusPending))
	repo.updateErr = errors.New("db down")

	_, err := svc.Cancel(context.Background(), "b-1", "client-1")

	assert.ErrorIs(t, err, ErrInternal)
}

func TestService_ConfirmAfterPayment(t *testing.T) {
	t.Run("pending gets confirmed", func(t *testing.T) {
		svc, _, outbox := newService(booking(domain.StatusPending))

		b, confirmed, err := svc.ConfirmAfterPayment(context.Background(), "b-1")

		require.NoError(t, err)
		assert.True(t, confirmed)
		assert.Equal(t, domain.StatusConfirmed, b.Status)
		assert.Len(t, outbox.events, 1)
	})

	t.Run("cancelled stays cancelled", func(t *testing.T) {
		svc, _, outbox := newService(booking(domain.StatusCancelled))

		b, confirmed, err := svc.ConfirmAfterPayment(context.Background(), "b-1")

		require.NoError(t, err)
		assert.False(t, confirmed)
		assert.Equal(t, domain.StatusCancelled, b.Status)
		assert.Empty(t, outbox.events)
	})
}

func TestService_List(t *testing.T) {
	svc, repo, _ := newService(booking(domain.StatusPending))

	resp, err := svc.List(context.Background(), &models.ListBookingsRequest{
		CallerID: "escort-1",
		UserID:   "escort-1",
		Role:     RoleEscort,
		Status:   ptr.Ptr("PENDING"),
	})

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
	require.NotNil(t, repo.lastFilter.EscortID)
	assert.Equal(t, "escort-1", *repo.lastFilter.EscortID)
	assert.Nil(t, repo.lastFilter.ClientID)
	require.NotNil(t, repo.lastFilter.Status)
	assert.Equal(t, domain.StatusPending, *repo.lastFilter.Status)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{CallerID: "a", UserID: "b", Role: RoleClient})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{CallerID: "a", UserID: "a", Role: "admin"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(context.Background(), &models.ListBookingsRequest{CallerID: "a", UserID: "a", Role: RoleClient, Status: ptr.Ptr("nope")})
	assert.ErrorIs(t, err, ErrUnknownStatus)
}
