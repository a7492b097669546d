package create_payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createPayment "github.com/m04kA/SMC-ReservationService/internal/usecase/create_payment"
	"github.com/m04kA/SMC-ReservationService/pkg/logger"
	"github.com/m04kA/SMC-ReservationService/pkg/validation"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createPayment.Request) (*createPayment.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createPayment.Response)
	return resp, args.Error(1)
}

const body = `{"bookingId":"b-1","amount":120.5,"currency":"usd","provider":"stripe"}`

func doRequest(h *Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
	req = req.WithContext(middleware.WithUser(req.Context(), "client-1", "CLIENT"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Created(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &createPayment.Request{
		CallerID:  "client-1",
		BookingID: "b-1",
		Amount:    120.5,
		Currency:  "usd",
		Provider:  "stripe",
	}).Return(&createPayment.Response{
		PaymentID:  "p-1",
		Provider:   "stripe",
		SessionID:  "cs_test_1",
		URL:        "https://checkout.stripe.com/c/pay/cs_test_1",
		Amount:     12050,
		Commission: 2410,
		Payout:     9640,
		Currency:   "usd",
	}, nil)

	rec := doRequest(NewHandler(uc, logger.NewNop()))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp PaymentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cs_test_1", resp.SessionID)
	assert.Equal(t, int64(2410), resp.Commission)
	assert.Equal(t, int64(9640), resp.Payout)
}

func TestHandler_ProviderMessageIsReturned(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, &domain.ProviderError{
		Provider: domain.ProviderStripe,
		Message:  "Invalid currency: xyz",
		Err:      errors.New("invalid_request_error"),
	})

	rec := doRequest(NewHandler(uc, logger.NewNop()))

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var resp handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Invalid currency: xyz", resp.Error)
}

func TestHandler_Errors(t *testing.T) {
	inputErr := validation.NewInputError()
	inputErr.Add("currency", "must be a 3-letter ISO code")

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "validation", err: inputErr, wantStatus: http.StatusBadRequest},
		{name: "booking not found", err: createPayment.ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "not the client", err: createPayment.ErrAccessDenied, wantStatus: http.StatusForbidden},
		{name: "cancelled booking", err: createPayment.ErrBookingNotPayable, wantStatus: http.StatusConflict},
		{name: "provider down", err: fmt.Errorf("%w: timeout", createPayment.ErrProviderUnavailable), wantStatus: http.StatusBadGateway},
		{name: "internal", err: createPayment.ErrInternal, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := doRequest(NewHandler(uc, logger.NewNop()))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
