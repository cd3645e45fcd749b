package config

import "errors"

var (
	// ErrConfigNotFound возвращается, когда конфигурация не найдена
	ErrConfigNotFound = errors.New("config not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrStaffNotFound возвращается, когда мастер не найден в бизнесе
	ErrStaffNotFound = errors.New("staff not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrConfigConflict возвращается, когда конфигурация того же уровня создается параллельно
	ErrConfigConflict = errors.New("config was modified concurrently")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
