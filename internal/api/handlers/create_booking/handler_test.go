package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-ReservationService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createBooking.Response)
	return resp, args.Error(1)
}

const body = `{"escortId":"escort-1","clientId":"client-1","date":"2026-05-10","startTime":"10:00","endTime":"12:00","totalAmount":300}`

func doRequest(h *Handler, callerID, payload string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(payload))
	if callerID != "" {
		req = req.WithContext(middleware.WithUser(req.Context(), callerID, "CLIENT"))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(r *createBooking.Request) bool {
		return r.CallerID == "client-1" && r.EscortID == "escort-1" && r.StartTime == "10:00"
	})).Return(&createBooking.Response{
		ID:              "b-1",
		EscortID:        "escort-1",
		ClientID:        "client-1",
		BookingDate:     time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime:       "10:00",
		EndTime:         "12:00",
		DurationMinutes: 120,
		Status:          "PENDING",
		TotalAmount:     300,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil)

	rec := doRequest(NewHandler(uc, logger.NewNop()), "client-1", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CreateBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "b-1", resp.Booking.ID)
	assert.Equal(t, "2026-05-10", resp.Booking.Date)
	assert.Equal(t, 120, resp.Booking.DurationMinutes)
	assert.Equal(t, "PENDING", resp.Booking.Status)
}

func TestHandler_Errors(t *testing.T) {
	inputErr := validation.NewInputError()
	inputErr.Add("endTime", "must be after startTime")

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: inputErr, wantStatus: http.StatusBadRequest},
		{name: "booking for someone else", err: createBooking.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "unknown client", err: createBooking.ErrClientNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown escort", err: createBooking.ErrEscortNotFound, wantStatus: http.StatusNotFound},
		{name: "overlap", err: createBooking.ErrTimeRangeTaken, wantStatus: http.StatusConflict},
		{name: "internal", err: fmt.Errorf("%w: db down", createBooking.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.NewNop()), "client-1", body)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandler_ValidationFieldsInBody(t *testing.T) {
	inputErr := validation.NewInputError()
	inputErr.Add("endTime", "must be after startTime")
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, inputErr)

	rec := doRequest(NewHandler(uc, logger.NewNop()), "client-1", body)

	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, []string{"must be after startTime"}, resp.Fields["endTime"])
}

func TestHandler_RejectedBeforeUseCase(t *testing.T) {
	tests := []struct {
		name       string
		callerID   string
		payload    string
		wantStatus int
	}{
		{name: "no user in context", payload: body, wantStatus: http.StatusUnauthorized},
		{name: "malformed json", callerID: "client-1", payload: `{"escortId":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", callerID: "client-1", payload: `{"escortId":"e","status":"CONFIRMED"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec := doRequest(NewHandler(uc, logger.NewNop()), tt.callerID, tt.payload)

			assert.Equal(t, tt.wantStatus, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
