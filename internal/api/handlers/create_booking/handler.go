package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	"github.com/m04kA/SMC-SlotScheduler/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-SlotScheduler/internal/usecase/create_booking"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты бронирования, ожидается YYYY-MM-DD"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotTaken          = "выбранный временной слот уже занят"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "мастер не найден"
	msgServiceNotOffered  = "мастер не выполняет эту услугу"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
	msgInvalidConfig      = "некорректная конфигурация бизнеса или услуги"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Unauthorized")
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		if errors.Is(err, errInvalidTime) {
			handlers.RespondBadRequest(w, msgInvalidTime)
		} else {
			handlers.RespondBadRequest(w, msgInvalidDate)
		}
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotTaken):
			h.logger.Warn("POST /bookings - Slot taken: user_id=%d, business_id=%d, date=%s, start=%s",
				userID, req.BusinessID, req.BookingDate, req.StartTime)
			handlers.RespondConflict(w, msgSlotTaken)

		case errors.Is(err, createBooking.ErrBusinessNotFound):
			h.logger.Warn("POST /bookings - Business not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrStaffNotFound):
			h.logger.Warn("POST /bookings - Staff not found: business_id=%d", req.BusinessID)
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, createBooking.ErrServiceNotOffered):
			h.logger.Warn("POST /bookings - Service not offered: business_id=%d, service_id=%d", req.BusinessID, req.ServiceID)
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		case errors.Is(err, createBooking.ErrBusinessClosed):
			h.logger.Warn("POST /bookings - Business closed: business_id=%d, date=%s", req.BusinessID, req.BookingDate)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: business_id=%d, date=%s", req.BusinessID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: business_id=%d, date=%s", req.BusinessID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: business_id=%d, start=%s", req.BusinessID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: business_id=%d, date=%s, start=%s",
				req.BusinessID, req.BookingDate, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createBooking.ErrInvalidConfig):
			h.logger.Error("POST /bookings - Invalid configuration: business_id=%d, service_id=%d, error=%v",
				req.BusinessID, req.ServiceID, err)
			handlers.RespondUnprocessable(w, msgInvalidConfig)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, business_id=%d, error=%v",
				userID, req.BusinessID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, business_id=%d, staff_id=%d",
		response.ID, userID, response.BusinessID, response.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
