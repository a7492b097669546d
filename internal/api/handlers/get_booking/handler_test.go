package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

const bookingID = "9a1c7e52-0b3d-4e8f-a6c4-2d5f8b7e1c90"

type mockService struct {
	mock.Mock
}

func (m *mockService) GetByID(ctx context.Context, bookingID string, viewerID string) (*models.BookingResponse, error) {
	args := m.Called(ctx, bookingID, viewerID)
	resp, _ := args.Get(0).(*models.BookingResponse)
	return resp, args.Error(1)
}

func get(h *Handler, id string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+id, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": id})
	if withUser {
		req = req.WithContext(middleware.WithUser(req.Context(), "client-1", "CLIENT"))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_OK(t *testing.T) {
	svc := &mockService{}
	svc.On("GetByID", mock.Anything, bookingID, "client-1").
		Return(&models.BookingResponse{ID: bookingID, Status: "PENDING"}, nil)

	rec := get(NewHandler(svc, logger.NewNop()), bookingID, true)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), bookingID)
	svc.AssertExpectations(t)
}

func TestHandler_RejectsBeforeService(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusUnauthorized, get(h, bookingID, false).Code)
	assert.Equal(t, http.StatusBadRequest, get(h, "not-a-uuid", true).Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: bookings.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "not a participant", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", err: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("GetByID", mock.Anything, bookingID, "client-1").Return(nil, tt.err)

			rec := get(NewHandler(svc, logger.NewNop()), bookingID, true)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
