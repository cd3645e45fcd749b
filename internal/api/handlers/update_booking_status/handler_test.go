package update_booking_status

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
)

type stubService struct {
	gotReq *models.UpdateStatusRequest
	err    error
}

func (s *stubService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, Status: req.Status}, nil
}

func patch(svc BookingService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle("/api/v1/bookings/{bookingId}/status", middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewNop()).Handle)))

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/5/status", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "7")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Confirm(t *testing.T) {
	svc := &stubService{}
	rec := patch(svc, `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotReq.UserID)
	assert.Equal(t, "confirmed", svc.gotReq.Status)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: invalid status", bookings.ErrInvalidInput), http.StatusBadRequest},
		{bookings.ErrBookingNotFound, http.StatusNotFound},
		{bookings.ErrAccessDenied, http.StatusForbidden},
		{fmt.Errorf("%w: completed -> confirmed", bookings.ErrInvalidTransition), http.StatusConflict},
		{bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := patch(&stubService{err: tt.err}, `{"status":"confirmed"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
