package get_available_slots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

type stubUseCase struct {
	got  *getAvailableSlots.Request
	resp *getAvailableSlots.Response
	err  error
}

func (s *stubUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	s.got = req
	return s.resp, s.err
}

func serve(uc GetAvailableSlotsUseCase, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/businesses/{businessId}/available-slots", NewHandler(uc, logger.NewNop()).Handle)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_Success(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	uc := &stubUseCase{resp: &getAvailableSlots.Response{
		Date:       date,
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    ptr.Ptr(int64(3)),
		Slots: domain.SlotsByPeriod{
			Morning:   []domain.TimeSlot{{Time: "09:00", Label: "9:00 AM", Available: true}},
			Afternoon: []domain.TimeSlot{},
			Evening:   []domain.TimeSlot{},
		},
		Counts:         domain.PeriodCounts{Morning: 1},
		TotalAvailable: 1,
	}}

	rec := serve(uc, "/api/v1/businesses/1/available-slots?serviceId=2&staffId=3&date=2025-10-15")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(1), uc.got.BusinessID)
	assert.Equal(t, int64(2), uc.got.ServiceID)
	require.NotNil(t, uc.got.StaffID)
	assert.Equal(t, int64(3), *uc.got.StaffID)
	assert.True(t, uc.got.Date.Equal(date))

	var body AvailableSlotsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "2025-10-15", body.Date)
	assert.Equal(t, "3", body.StaffID)
	assert.Equal(t, 1, body.TotalAvailable)
	require.Len(t, body.Slots.Morning, 1)
	assert.Equal(t, TimeSlot{Time: "09:00", Label: "9:00 AM", Available: true}, body.Slots.Morning[0])
	assert.NotNil(t, body.Slots.Evening)
}

func TestHandle_AnyStaff(t *testing.T) {
	for _, query := range []string{"&staffId=any", ""} {
		uc := &stubUseCase{resp: &getAvailableSlots.Response{Date: time.Now()}}
		rec := serve(uc, "/api/v1/businesses/1/available-slots?serviceId=2&date=2025-10-15"+query)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Nil(t, uc.got.StaffID)
		assert.Contains(t, rec.Body.String(), `"staffId":"any"`)
	}
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"business id", "/api/v1/businesses/abc/available-slots?serviceId=2&date=2025-10-15"},
		{"missing service", "/api/v1/businesses/1/available-slots?date=2025-10-15"},
		{"bad service", "/api/v1/businesses/1/available-slots?serviceId=x&date=2025-10-15"},
		{"bad staff", "/api/v1/businesses/1/available-slots?serviceId=2&staffId=-1&date=2025-10-15"},
		{"missing date", "/api/v1/businesses/1/available-slots?serviceId=2"},
		{"bad date", "/api/v1/businesses/1/available-slots?serviceId=2&date=15.10.2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{}
			rec := serve(uc, tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Nil(t, uc.got)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{getAvailableSlots.ErrBusinessNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrStaffNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotOffered, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrInvalidConfig, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: boom", getAvailableSlots.ErrInternal), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := serve(&stubUseCase{err: tt.err}, "/api/v1/businesses/1/available-slots?serviceId=2&date=2025-10-15")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
