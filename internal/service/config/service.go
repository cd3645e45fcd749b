package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	configRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Service сервис для работы с конфигурацией слотов
type Service struct {
	configRepo     ConfigRepository
	businessClient BusinessServiceClient
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса конфигурации
func NewService(
	configRepo ConfigRepository,
	businessClient BusinessServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		configRepo:     configRepo,
		businessClient: businessClient,
		txManager:      txManager,
		logger:         logger,
	}
}

// Get получает конфигурацию с учетом иерархии приоритетов
// Публичный метод. Если ни один уровень не задан, возвращаются значения по умолчанию
// Приоритет: service@staff > staff > service > business
func (s *Service) Get(ctx context.Context, req *models.GetConfigRequest) (*models.ConfigResponse, error) {
	s.logger.Info("Get: fetching config for business=%d, staff=%v, service=%v",
		req.BusinessID, req.StaffID, req.ServiceID)

	if req.BusinessID <= 0 {
		return nil, fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	config, err := s.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, req.StaffID, req.ServiceID)
	if errors.Is(err, configRepo.ErrConfigNotFound) {
		s.logger.Info("Get: no config stored for business=%d, using defaults", req.BusinessID)
		return models.FromDomainConfig(domain.DefaultSlotsConfig(req.BusinessID)), nil
	}
	if err != nil {
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Get: successfully fetched config id=%d (level: %s)", config.ID, config.Level())
	return models.FromDomainConfig(config), nil
}

// GetAllByBusiness получает все конфигурации бизнеса
// Доступно только менеджерам бизнеса
func (s *Service) GetAllByBusiness(ctx context.Context, businessID int64, userID int64) (*models.ConfigListResponse, error) {
	s.logger.Info("GetAllByBusiness: fetching configs for business=%d by user=%d", businessID, userID)

	if _, err := s.getManagedBusiness(ctx, "GetAllByBusiness", businessID, userID); err != nil {
		return nil, err
	}

	configs, err := s.configRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetAllByBusiness: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetAllByBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAllByBusiness: successfully fetched %d configs for business=%d", len(configs), businessID)
	return models.FromDomainConfigList(configs), nil
}

// Upsert создает или обновляет конфигурацию одного уровня иерархии
// Доступно только менеджерам бизнеса. Второй результат true, если конфигурация создана
func (s *Service) Upsert(ctx context.Context, req *models.UpsertConfigRequest) (*models.ConfigResponse, bool, error) {
	s.logger.Info("Upsert: saving config for business=%d, staff=%v, service=%v by user=%d",
		req.BusinessID, req.StaffID, req.ServiceID, req.UserID)

	// 1. Права доступа и существование мастера и услуги
	business, err := s.getManagedBusiness(ctx, "Upsert", req.BusinessID, req.UserID)
	if err != nil {
		return nil, false, err
	}

	if err := s.checkScope(ctx, business, req.StaffID, req.ServiceID); err != nil {
		return nil, false, err
	}

	// 2. Читаем текущий уровень под блокировкой, применяем изменения и сохраняем
	var (
		saved   *domain.BusinessSlotsConfig
		created bool
	)
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		existing, err := s.configRepo.GetByKey(ctx, req.BusinessID, req.StaffID, req.ServiceID)
		if err != nil && !errors.Is(err, configRepo.ErrConfigNotFound) {
			s.logger.Error("Upsert: failed to check existing config: %v", err)
			return fmt.Errorf("%w: failed to check existing config: %v", ErrInternal, err)
		}

		config := domain.DefaultSlotsConfig(req.BusinessID)
		if existing != nil {
			config = existing
		}
		req.ApplyToConfig(config)

		if err := validateConfig(config); err != nil {
			s.logger.Warn("Upsert: validation failed: %v", err)
			return err
		}

		if existing == nil {
			saved, err = s.configRepo.Create(ctx, config)
			if errors.Is(err, configRepo.ErrDuplicateConfig) {
				s.logger.Warn("Upsert: config for business=%d was created concurrently", req.BusinessID)
				return ErrConfigConflict
			}
			created = true
		} else {
			saved, err = s.configRepo.Update(ctx, existing.ID, config)
		}
		if err != nil {
			s.logger.Error("Upsert: repository error: %v", err)
			return fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	s.logger.Info("Upsert: successfully saved config id=%d (level: %s, created: %t)", saved.ID, saved.Level(), created)
	return models.FromDomainConfig(saved), created, nil
}

// Delete удаляет конфигурацию уровня, после чего действует следующий уровень иерархии
// Доступно только менеджерам бизнеса
func (s *Service) Delete(ctx context.Context, req *models.DeleteConfigRequest) error {
	s.logger.Info("Delete: deleting config for business=%d, staff=%v, service=%v by user=%d",
		req.BusinessID, req.StaffID, req.ServiceID, req.UserID)

	if _, err := s.getManagedBusiness(ctx, "Delete", req.BusinessID, req.UserID); err != nil {
		return err
	}

	return s.txManager.Do(ctx, func(ctx context.Context) error {
		config, err := s.configRepo.GetByKey(ctx, req.BusinessID, req.StaffID, req.ServiceID)
		if err != nil {
			if errors.Is(err, configRepo.ErrConfigNotFound) {
				s.logger.Warn("Delete: config not found for business=%d", req.BusinessID)
				return ErrConfigNotFound
			}
			s.logger.Error("Delete: repository error: %v", err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		if err := s.configRepo.Delete(ctx, config.ID); err != nil {
			if errors.Is(err, configRepo.ErrConfigNotFound) {
				return ErrConfigNotFound
			}
			s.logger.Error("Delete: repository error for config id=%d: %v", config.ID, err)
			return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Delete: successfully deleted config id=%d", config.ID)
		return nil
	})
}

// Вспомогательные методы

// getManagedBusiness получает бизнес и проверяет, что пользователь его менеджер
func (s *Service) getManagedBusiness(ctx context.Context, op string, businessID, userID int64) (*businessservice.Business, error) {
	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessservice.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, businessID)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: failed to get business id=%d: %v", op, businessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("%s: user=%d is not a manager of business=%d", op, userID, businessID)
		return nil, ErrAccessDenied
	}

	return business, nil
}

// checkScope проверяет, что мастер и услуга уровня принадлежат бизнесу
func (s *Service) checkScope(ctx context.Context, business *businessservice.Business, staffID, serviceID *int64) error {
	if staffID != nil {
		if _, ok := business.FindStaff(*staffID); !ok {
			s.logger.Warn("checkScope: staff id=%d not found in business=%d", *staffID, business.ID)
			return ErrStaffNotFound
		}
	}

	if serviceID != nil {
		service, err := s.businessClient.GetService(ctx, business.ID, *serviceID)
		if err != nil {
			if errors.Is(err, businessservice.ErrServiceNotFound) {
				s.logger.Warn("checkScope: service id=%d not found in business=%d", *serviceID, business.ID)
				return ErrServiceNotFound
			}
			s.logger.Error("checkScope: failed to get service id=%d: %v", *serviceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}

		if staffID != nil && !service.PerformedBy(*staffID) {
			s.logger.Warn("checkScope: service id=%d is not performed by staff id=%d", *serviceID, *staffID)
			return fmt.Errorf("%w: service is not performed by this staff member", ErrInvalidInput)
		}
	}

	return nil
}

// validateConfig проверяет диапазоны значений и нормализует границы периодов
func validateConfig(c *domain.BusinessSlotsConfig) error {
	if c.SlotStepMinutes < domain.MinSlotStepMinutes || c.SlotStepMinutes > domain.MaxSlotStepMinutes {
		return fmt.Errorf("%w: slotStepMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotStepMinutes, domain.MaxSlotStepMinutes)
	}

	if c.AdvanceBookingDays < domain.MinAdvanceBookingDays || c.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: advanceBookingDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceBookingDays, domain.MaxAdvanceBookingDays)
	}

	if c.MinBookingNoticeMinutes < domain.MinBookingNoticeMinutes || c.MinBookingNoticeMinutes > domain.MaxBookingNoticeMinutes {
		return fmt.Errorf("%w: minBookingNoticeMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBookingNoticeMinutes, domain.MaxBookingNoticeMinutes)
	}

	morning, err := types.NewTimeStringFromString(c.MorningEndsAt.String())
	if err != nil {
		return fmt.Errorf("%w: morningEndsAt: %v", ErrInvalidInput, err)
	}
	afternoon, err := types.NewTimeStringFromString(c.AfternoonEndsAt.String())
	if err != nil {
		return fmt.Errorf("%w: afternoonEndsAt: %v", ErrInvalidInput, err)
	}
	if !morning.IsBefore(afternoon) {
		return fmt.Errorf("%w: morningEndsAt must be before afternoonEndsAt", ErrInvalidInput)
	}

	c.MorningEndsAt = morning
	c.AfternoonEndsAt = afternoon
	return nil
}
