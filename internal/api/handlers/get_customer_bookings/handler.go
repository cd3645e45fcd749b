package get_customer_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
)

const (
	msgInvalidCustomerID = "некорректный ID клиента"
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidStatus     = "некорректный статус бронирования"
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

// Handle GET /api/v1/customers/{customerId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Извлекаем customerId из URL
	vars := mux.Vars(r)
	customerIDStr := vars["customerId"]

	customerID, err := strconv.ParseInt(customerIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /customers/{id}/bookings - Invalid customer ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidCustomerID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /customers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Получаем status из query параметров (опционально)
	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	result, err := h.service.GetCustomerBookings(r.Context(), &models.GetCustomerBookingsRequest{
		UserID:     userID,
		CustomerID: customerID,
		Status:     statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /customers/{id}/bookings - Access denied: customer_id=%d, user_id=%d", customerID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /customers/{id}/bookings - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /customers/{id}/bookings - Failed to get bookings: customer_id=%d, error=%v",
				customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /customers/{id}/bookings - Bookings retrieved successfully: customer_id=%d, count=%d",
		customerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
