package update_business_config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
)

type stubService struct {
	gotReq  *models.UpsertConfigRequest
	created bool
	err     error
}

func (s *stubService) Upsert(_ context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, bool, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, false, s.err
	}
	return &models.ConfigResponse{BusinessID: req.BusinessID, Level: "business", SlotStepMinutes: *req.SlotStepMinutes}, s.created, nil
}

func put(svc ConfigService, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle("/api/v1/businesses/{businessId}/config", middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewNop()).Handle)))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/businesses/1/config", strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "10")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_CreatedAndUpdated(t *testing.T) {
	svc := &stubService{created: true}
	rec := put(svc, `{"slotStepMinutes":15,"morningEndsAt":"11:30"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), svc.gotReq.BusinessID)
	assert.Equal(t, int64(10), svc.gotReq.UserID)
	assert.Equal(t, "11:30", *svc.gotReq.MorningEndsAt)
	assert.Nil(t, svc.gotReq.StaffID)

	svc = &stubService{}
	rec = put(svc, `{"staffId":3,"slotStepMinutes":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), *svc.gotReq.StaffID)
	assert.Contains(t, rec.Body.String(), `"slotStepMinutes":20`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{config.ErrBusinessNotFound, http.StatusNotFound},
		{config.ErrStaffNotFound, http.StatusNotFound},
		{config.ErrServiceNotFound, http.StatusNotFound},
		{config.ErrAccessDenied, http.StatusForbidden},
		{config.ErrInvalidInput, http.StatusBadRequest},
		{config.ErrConfigConflict, http.StatusConflict},
		{config.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := put(&stubService{err: tt.err}, `{"slotStepMinutes":15}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
