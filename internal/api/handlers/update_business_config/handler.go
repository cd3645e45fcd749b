package update_business_config

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgBusinessNotFound   = "бизнес не найден"
	msgStaffNotFound      = "мастер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "конфигурация изменена параллельно, повторите запрос"
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

// Handle PUT /api/v1/businesses/{businessId}/config
// Создает уровень конфигурации (201) или обновляет существующий (200)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /businesses/{id}/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateBusinessConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Сервис сам проверит права менеджера
	result, created, err := h.service.Upsert(r.Context(), req.ToServiceRequest(businessID, userID))
	if err != nil {
		switch {
		case errors.Is(err, config.ErrBusinessNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, config.ErrStaffNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Staff not found: business_id=%d, staff_id=%v",
				businessID, req.StaffID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, config.ErrServiceNotFound):
			h.logger.Warn("PUT /businesses/{id}/config - Service not found: business_id=%d, service_id=%v",
				businessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("PUT /businesses/{id}/config - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, config.ErrInvalidInput):
			h.logger.Warn("PUT /businesses/{id}/config - Invalid data: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, config.ErrConfigConflict):
			h.logger.Warn("PUT /businesses/{id}/config - Concurrent modification: business_id=%d", businessID)
			handlers.RespondConflict(w, msgConflict)

		default:
			h.logger.Error("PUT /businesses/{id}/config - Failed to save config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	h.logger.Info("PUT /businesses/{id}/config - Config saved successfully: business_id=%d, level=%s, created=%t",
		businessID, result.Level, created)
	handlers.RespondJSON(w, status, result)
}
