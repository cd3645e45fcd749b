package list_business_configs

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

// Handle GET /api/v1/businesses/{businessId}/configs
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/configs - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/configs - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.GetAllByBusiness(r.Context(), businessID, userID)
	if err != nil {
		switch {
		case errors.Is(err, config.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/configs - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, config.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/configs - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/configs - Failed to list configs: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/configs - Configs retrieved successfully: business_id=%d, count=%d",
		businessID, len(result.Configs))
	handlers.RespondJSON(w, http.StatusOK, result.Configs)
}
