package config

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// ConfigRepository интерфейс репозитория конфигурации слотов
type ConfigRepository interface {
	Create(ctx context.Context, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error)
	GetByKey(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error)
	GetConfigWithHierarchy(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BusinessSlotsConfig, error)
	Update(ctx context.Context, id int64, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error)
	Delete(ctx context.Context, id int64) error
}

// BusinessServiceClient интерфейс клиента каталога бизнесов
type BusinessServiceClient interface {
	GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error)
	GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error)
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
