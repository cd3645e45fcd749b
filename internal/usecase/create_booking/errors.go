package create_booking

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или не активен
	ErrStaffNotFound = errors.New("create_booking: staff not found")

	// ErrServiceNotOffered возвращается, когда мастер не выполняет услугу
	ErrServiceNotOffered = errors.New("create_booking: service is not offered by this staff member")

	// ErrInvalidDate возвращается при некорректной дате или дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrBusinessClosed возвращается, когда бизнес не работает в указанную дату
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrInvalidTimeSlot возвращается, когда время не попадает на сетку слотов или вне рабочих часов
	ErrInvalidTimeSlot = errors.New("create_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда бронирование нарушает minBookingNoticeMinutes
	ErrTooLateToBook = errors.New("create_booking: too late to book this slot")

	// ErrSlotTaken возвращается, когда слот занят (в том числе конкурентным запросом)
	ErrSlotTaken = errors.New("create_booking: slot is already taken")

	// ErrInvalidConfig возвращается, когда конфигурация бизнеса или услуги некорректна
	ErrInvalidConfig = errors.New("create_booking: invalid business configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
