package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len([]rune(req.CustomerName)) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName is longer than %d", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	if req.Notes != nil && len([]rune(*req.Notes)) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidDate)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime: %v", ErrInvalidTimeSlot, err)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно бронирования
func validateDate(day, now time.Time, advanceBookingDays int) error {
	if domain.WithinBookingWindow(day, now, advanceBookingDays) {
		return nil
	}

	if domain.WithinBookingWindow(day, now, 0) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}
	return fmt.Errorf("%w: date %s is in the past", ErrInvalidDate, day.Format(domain.DateFormat))
}

// validateStartTime проверяет, что время начала лежит на сетке слотов и соблюдает минимальное время до записи
func validateStartTime(businessDay domain.DaySchedule, start int, config *domain.BusinessSlotsConfig, day, now time.Time) error {
	window, open, err := businessDay.Window()
	if err != nil {
		return fmt.Errorf("%w: working hours: %v", ErrInvalidConfig, err)
	}
	if !open {
		return ErrBusinessClosed
	}

	if !domain.OnGrid(start, window.Start, config.SlotStepMinutes) {
		return fmt.Errorf("%w: start is not aligned to a %d minute grid from %s",
			ErrInvalidTimeSlot, config.SlotStepMinutes, businessDay.OpenTime)
	}

	if !domain.MeetsNotice(day, start, now, config.MinBookingNoticeMinutes) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, config.MinBookingNoticeMinutes)
	}

	return nil
}

// resolveStaff возвращает мастеров, которые могут выполнить запрос
func resolveStaff(business *businessservice.Business, service *businessservice.Service, staffID *int64) ([]businessservice.Staff, error) {
	if staffID == nil {
		return business.EligibleStaff(service), nil
	}

	staff, ok := business.FindStaff(*staffID)
	if !ok || !staff.Active {
		return nil, ErrStaffNotFound
	}
	if !service.PerformedBy(staff.ID) {
		return nil, ErrServiceNotOffered
	}
	return []businessservice.Staff{*staff}, nil
}
