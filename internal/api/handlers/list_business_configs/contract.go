package list_business_configs

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
)

type ConfigService interface {
	GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
