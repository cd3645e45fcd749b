package businessservice

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("businessservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("businessservice client: invalid response")

	// ErrUnavailable возвращается, когда circuit breaker разомкнут
	ErrUnavailable = errors.New("businessservice client: service unavailable")
)
