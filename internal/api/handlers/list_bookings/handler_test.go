package list_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings"
	"github.com/m04kA/SMC-ReservationService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

func list(h *Handler, callerID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings?"+query, nil)
	if callerID != "" {
		req = req.WithContext(middleware.WithUser(req.Context(), callerID, "CLIENT"))
	}
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_ListsOwnBookings(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(req *models.ListBookingsRequest) bool {
		return req.CallerID == "client-1" && req.UserID == "client-1" && req.Role == "client" &&
			req.Status != nil && *req.Status == "PENDING"
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1", Status: "PENDING"}}}, nil)

	rec := list(NewHandler(svc, logger.NewNop()), "client-1", "userId=client-1&role=client&status=PENDING")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"b-1"`)
	svc.AssertExpectations(t)
}

func TestHandler_StatusIsOptional(t *testing.T) {
	svc := &mockService{}
	svc.On("List", mock.Anything, mock.MatchedBy(func(req *models.ListBookingsRequest) bool {
		return req.Status == nil
	})).Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)

	rec := list(NewHandler(svc, logger.NewNop()), "client-1", "userId=client-1&role=client")

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandler_MissingUser(t *testing.T) {
	svc := &mockService{}

	rec := list(NewHandler(svc, logger.NewNop()), "", "userId=client-1&role=client")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "bad role", err: bookings.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "unknown status", err: bookings.ErrUnknownStatus, wantStatus: http.StatusBadRequest},
		{name: "someone else's bookings", err: bookings.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "internal", err: bookings.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("List", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := list(NewHandler(svc, logger.NewNop()), "client-1", "userId=client-2&role=client")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
