package delete_business_config

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
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidParams     = "некорректные параметры запроса"
	msgNotFound          = "конфигурация не найдена"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "доступ запрещен"
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

// Handle DELETE /api/v1/businesses/{businessId}/config
// Query params: staffId, serviceId (опционально, задают уровень)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/config - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /businesses/{id}/config - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(businessID, userID, r.URL.Query().Get("staffId"), r.URL.Query().Get("serviceId"))
	if err != nil {
		h.logger.Warn("DELETE /businesses/{id}/config - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	if err := h.service.Delete(r.Context(), serviceReq); err != nil {
		switch {
		case errors.Is(err, config.ErrConfigNotFound):
			h.logger.Warn("DELETE /businesses/{id}/config - Config not found: business_id=%d, staff_id=%v, service_id=%v",
				businessID, serviceReq.StaffID, serviceReq.ServiceID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, config.ErrBusinessNotFound):
			h.logger.Warn("DELETE /businesses/{id}/config - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("DELETE /businesses/{id}/config - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /businesses/{id}/config - Failed to delete config: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /businesses/{id}/config - Config deleted successfully: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
