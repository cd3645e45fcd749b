package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// Create атомарно вставляет бронирование; при пересечении с занятым интервалом мастера
	// возвращает ошибку, совместимую с booking.ErrSlotTaken
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
}

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	GetConfigWithHierarchy(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error)
}

// BusinessServiceClient интерфейс клиента каталога бизнесов
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
}

// Metrics метрики создания бронирований
type Metrics interface {
	IncBookingsCreated(mode string)
	IncBookingConflicts()
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
