package update_business_config

import (
	"context"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
)

type ConfigService interface {
	Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
