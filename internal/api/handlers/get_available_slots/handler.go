package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SlotScheduler/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
)

const (
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingServiceID   = "ID услуги обязателен"
	msgInvalidStaffID     = "некорректный ID мастера, ожидается число или \"any\""
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgStaffNotFound      = "мастер не найден"
	msgServiceNotOffered  = "мастер не выполняет эту услугу"
	msgInvalidBusinessCfg = "некорректная конфигурация бизнеса или услуги"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/available-slots
// Query params: serviceId (required), staffId (ID или "any", по умолчанию "any"), date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	query := r.URL.Query()

	// Извлекаем businessId из URL
	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil || businessID <= 0 {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid business ID: %q", vars["businessId"])
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	// Извлекаем serviceId из query параметров
	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}

	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil || serviceID <= 0 {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid service ID: %q", serviceIDStr)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	staffID, err := ParseStaffID(query.Get("staffId"))
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	// Извлекаем date из query параметров
	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /businesses/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(businessID, serviceID, staffID, dateStr)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrBusinessNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not found: business_id=%d, service_id=%d",
				businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrStaffNotFound):
			h.logger.Warn("GET /businesses/{id}/available-slots - Staff not found: business_id=%d, staff_id=%v",
				businessID, query.Get("staffId"))
			handlers.RespondNotFound(w, msgStaffNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotOffered):
			h.logger.Warn("GET /businesses/{id}/available-slots - Service not offered: business_id=%d, service_id=%d, staff_id=%v",
				businessID, serviceID, query.Get("staffId"))
			handlers.RespondBadRequest(w, msgServiceNotOffered)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate), errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /businesses/{id}/available-slots - Invalid request: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, getAvailableSlots.ErrInvalidConfig):
			h.logger.Error("GET /businesses/{id}/available-slots - Invalid configuration: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondUnprocessable(w, msgInvalidBusinessCfg)

		default:
			h.logger.Error("GET /businesses/{id}/available-slots - Failed to get slots: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /businesses/{id}/available-slots - Slots retrieved successfully: business_id=%d, service_id=%d, staff=%s, total_available=%d",
		businessID, serviceID, response.StaffID, response.TotalAvailable)
	handlers.RespondJSON(w, http.StatusOK, response)
}
