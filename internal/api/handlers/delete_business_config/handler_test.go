package delete_business_config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/logger"
)

type stubService struct {
	got *models.DeleteConfigRequest
	err error
}

func (s *stubService) Delete(_ context.Context, req *models.DeleteConfigRequest) error {
	s.got = req
	return s.err
}

func del(svc ConfigService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Handle("/api/v1/businesses/{businessId}/config",
		middleware.Auth(http.HandlerFunc(NewHandler(svc, logger.NewNop()).Handle)))

	req := httptest.NewRequest(http.MethodDelete, target, nil)
	req.Header.Set(middleware.HeaderUserID, "10")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	svc := &stubService{}
	rec := del(svc, "/api/v1/businesses/1/config?serviceId=5")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.Nil(t, svc.got.StaffID)
	assert.Equal(t, int64(5), *svc.got.ServiceID)
	assert.Equal(t, int64(10), svc.got.UserID)

	tests := []struct {
		err    error
		status int
	}{
		{config.ErrConfigNotFound, http.StatusNotFound},
		{config.ErrBusinessNotFound, http.StatusNotFound},
		{config.ErrAccessDenied, http.StatusForbidden},
		{config.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, del(&stubService{err: tt.err}, "/api/v1/businesses/1/config").Code, tt.err.Error())
	}

	assert.Equal(t, http.StatusBadRequest, del(&stubService{}, "/api/v1/businesses/1/config?staffId=abc").Code)
}
