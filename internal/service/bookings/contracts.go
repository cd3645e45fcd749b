package bookings

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Cancel(ctx context.Context, id int64, cancelledBy domain.CancelledBy, reason *string) error
}

// BusinessServiceClient интерфейс клиента каталога бизнесов
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
