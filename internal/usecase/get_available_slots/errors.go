package get_available_slots

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrStaffNotFound возвращается, когда мастер не найден или не активен
	ErrStaffNotFound = errors.New("staff not found")

	// ErrServiceNotOffered возвращается, когда мастер не выполняет услугу
	ErrServiceNotOffered = errors.New("service is not offered by this staff member")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidConfig возвращается, когда конфигурация бизнеса или услуги некорректна
	ErrInvalidConfig = errors.New("invalid business configuration")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
