package get_business_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidParams     = "некорректные параметры запроса"
)

type Handler struct {
	service ConfigService
	logger  Logger
}

func NewHandler(service ConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/config
// Query params: staffId, serviceId (опционально)
// Публичный endpoint - без авторизации, возвращает действующую конфигурацию
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceReq, err := ToServiceRequest(businessID, r.URL.Query().Get("staffId"), r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/config - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Если ни один уровень не задан, сервис вернет значения по умолчанию
	result, err := h.service.Get(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, config.ErrInvalidInput) {
			h.logger.Warn("GET /businesses/{id}/config - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}

		h.logger.Error("GET /businesses/{id}/config - Failed to get config: business_id=%d, error=%v",
			businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/config - Config retrieved successfully: business_id=%d, level=%s",
		businessID, result.Level)
	handlers.RespondJSON(w, http.StatusOK, result)
}
