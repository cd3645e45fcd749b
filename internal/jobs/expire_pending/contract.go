package expire_pending

import (
	"context"
	"time"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CancelStalePending(ctx context.Context, createdBefore time.Time, reason string) (int64, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
