package update_booking_status

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
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус бронирования"
	msgNotFound           = "бронирование не найдено"
	msgBusinessNotFound   = "бизнес не найден"
	msgForbidden          = "доступ запрещен"
	msgInvalidTransition  = "недопустимая смена статуса бронирования"
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

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), bookingID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid status: booking_id=%d, status=%q", bookingID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrBusinessNotFound):
			h.logger.Warn("PATCH /bookings/{id}/status - Business not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidTransition):
			h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated successfully: booking_id=%d, status=%s, user_id=%d",
		bookingID, booking.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
