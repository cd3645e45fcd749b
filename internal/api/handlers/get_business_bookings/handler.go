package get_business_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidParams     = "некорректные параметры запроса"
	msgBusinessNotFound  = "бизнес не найден"
	msgForbidden         = "доступ запрещен"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/bookings
// Query params: staffId, status, date | startDate+endDate, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем businessId из URL
	vars := mux.Vars(r)
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /businesses/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(businessID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит права менеджера
	result, err := h.service.GetBusinessBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/bookings - Invalid parameters: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		case errors.Is(err, bookings.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/bookings - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /businesses/{id}/bookings - Access denied: business_id=%d, user_id=%d",
				businessID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /businesses/{id}/bookings - Failed to get bookings: business_id=%d, error=%v",
				businessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /businesses/{id}/bookings - Bookings retrieved successfully: business_id=%d, count=%d",
		businessID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
