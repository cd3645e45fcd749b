package get_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
)

type stubService struct {
	err error
}

func (s stubService) GetByID(_ context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.BookingResponse{ID: id, CustomerID: userID, Status: "pending"}, nil
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		target string
		user   string
		err    error
		status int
	}{
		{"owner", "/api/v1/bookings/3", "5", nil, http.StatusOK},
		{"bad id", "/api/v1/bookings/zero", "5", nil, http.StatusBadRequest},
		{"no user", "/api/v1/bookings/3", "", nil, http.StatusUnauthorized},
		{"not found", "/api/v1/bookings/3", "5", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"stranger", "/api/v1/bookings/3", "6", bookings.ErrAccessDenied, http.StatusForbidden},
		{"business gone", "/api/v1/bookings/3", "6", bookings.ErrBusinessNotFound, http.StatusForbidden},
		{"internal", "/api/v1/bookings/3", "5", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := mux.NewRouter()
			router.Handle("/api/v1/bookings/{bookingId}",
				middleware.Auth(http.HandlerFunc(NewHandler(stubService{err: tt.err}, logger.NewNop()).Handle)))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.user != "" {
				req.Header.Set(middleware.HeaderUserID, tt.user)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
