package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	configRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// UseCase use case расчета доступных слотов
type UseCase struct {
	bookingRepo    BookingRepository
	configRepo     ConfigRepository
	businessClient BusinessServiceClient
	metrics        Metrics
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
// metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	configRepo ConfigRepository,
	businessClient BusinessServiceClient,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:    bookingRepo,
		configRepo:     configRepo,
		businessClient: businessClient,
		metrics:        metrics,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// Execute рассчитывает слоты на день
// Выходной, полностью занятый день и дата вне окна бронирования дают пустой успешный ответ.
// Доступный слот не является резервированием: при создании бронирования он проверяется заново.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	staffLabel := domain.AnyStaff
	if !req.IsAnyStaff() {
		staffLabel = fmt.Sprintf("%d", *req.StaffID)
	}
	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, staff=%s, date=%s",
		req.BusinessID, req.ServiceID, staffLabel, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Бизнес и услуга не зависят друг от друга, получаем параллельно
	business, service, err := uc.fetchCatalog(ctx, req)
	if err != nil {
		return nil, err
	}

	if service.DurationMinutes <= 0 || service.BufferMinutes < 0 {
		uc.logger.Error("GetAvailableSlots: service id=%d has invalid duration=%d or buffer=%d",
			service.ID, service.DurationMinutes, service.BufferMinutes)
		return nil, fmt.Errorf("%w: service duration=%d, buffer=%d", ErrInvalidConfig, service.DurationMinutes, service.BufferMinutes)
	}

	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: business id=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	day := domain.LocalDay(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	// 3. Мастера, среди которых ищем свободное время
	staffList, err := resolveStaff(business, service, req.StaffID)
	if err != nil {
		uc.logger.Warn("GetAvailableSlots: staff resolution failed: business=%d, staff=%s: %v",
			req.BusinessID, staffLabel, err)
		return nil, err
	}

	response := &Response{
		Date:       day,
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		StaffID:    req.StaffID,
		Slots:      domain.NewSlotsByPeriod(),
	}

	if len(staffList) == 0 {
		uc.logger.Info("GetAvailableSlots: no eligible staff for business=%d, service=%d", req.BusinessID, req.ServiceID)
		return response, nil
	}

	// 4. Конфигурация и бронирования - независимые снимки, получаем параллельно
	config, bookings, err := uc.fetchSnapshot(ctx, req, day, staffList)
	if err != nil {
		return nil, err
	}

	if config.SlotStepMinutes <= 0 {
		uc.logger.Error("GetAvailableSlots: config id=%d has invalid step=%d", config.ID, config.SlotStepMinutes)
		return nil, fmt.Errorf("%w: slot step %d", ErrInvalidConfig, config.SlotStepMinutes)
	}

	for _, overlap := range domain.FindOverlaps(bookings) {
		uc.logger.Warn("GetAvailableSlots: overlapping bookings in storage: staff=%d, booking_ids=%d,%d",
			overlap.First.StaffID, overlap.First.ID, overlap.Second.ID)
	}

	// 5. Рабочие окна и занятость мастеров на этот день
	businessDay, availability, err := buildAvailability(business, staffList, day, bookings)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid working hours for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: working hours: %v", ErrInvalidConfig, err)
	}

	// 6. Расчет
	slots, err := calculateSlots(calculation{
		day:             day,
		now:             now,
		config:          config,
		businessDay:     businessDay,
		staff:           availability,
		durationMinutes: service.DurationMinutes,
		bufferMinutes:   service.BufferMinutes,
	})
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to calculate slots: %v", err)
		if errors.Is(err, ErrInvalidConfig) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to calculate slots: %v", ErrInternal, err)
	}

	response.Slots = slots
	response.Counts = slots.Counts()
	response.TotalAvailable = response.Counts.Total()

	if uc.metrics != nil {
		uc.metrics.ObserveSlots(response.TotalAvailable, slots.Len()-response.TotalAvailable)
	}

	uc.logger.Info("GetAvailableSlots: business=%d, service=%d, staff=%s, date=%s: listed=%d, available=%d",
		req.BusinessID, req.ServiceID, staffLabel, day.Format(domain.DateFormat), slots.Len(), response.TotalAvailable)

	return response, nil
}

func (uc *UseCase) fetchCatalog(ctx context.Context, req *Request) (*businessservice.Business, *businessservice.Service, error) {
	var (
		business *businessservice.Business
		service  *businessservice.Service
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		business, err = uc.businessClient.GetBusiness(gctx, req.BusinessID)
		if err != nil {
			if errors.Is(err, businessservice.ErrBusinessNotFound) {
				uc.logger.Warn("GetAvailableSlots: business id=%d not found", req.BusinessID)
				return ErrBusinessNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get business id=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		service, err = uc.businessClient.GetService(gctx, req.BusinessID, req.ServiceID)
		if err != nil {
			if errors.Is(err, businessservice.ErrServiceNotFound) {
				uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return business, service, nil
}

func (uc *UseCase) fetchSnapshot(
	ctx context.Context,
	req *Request,
	day time.Time,
	staffList []businessservice.Staff,
) (*domain.BusinessSlotsConfig, []*domain.Booking, error) {
	var (
		config   *domain.BusinessSlotsConfig
		bookings []*domain.Booking
	)

	staffIDs := make([]int64, len(staffList))
	for i, s := range staffList {
		staffIDs[i] = s.ID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		config, err = uc.configRepo.GetConfigWithHierarchy(gctx, req.BusinessID, req.StaffID, &req.ServiceID)
		if errors.Is(err, configRepo.ErrConfigNotFound) {
			config = domain.DefaultSlotsConfig(req.BusinessID)
			uc.logger.Info("GetAvailableSlots: using default config for business=%d", req.BusinessID)
			return nil
		}
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get config: %v", err)
			return fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
		}
		uc.logger.Info("GetAvailableSlots: using config id=%d (level=%s)", config.ID, config.Level())
		return nil
	})
	g.Go(func() error {
		var err error
		bookings, err = uc.bookingRepo.GetByBusinessWithFilter(gctx, domain.BookingsFilter{
			BusinessID: req.BusinessID,
			StaffIDs:   staffIDs,
			StartDate:  &day,
			EndDate:    &day,
		})
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return config, bookings, nil
}

// resolveStaff возвращает мастеров, подходящих под запрос
// Для конкретного мастера проверяется, что он активен и выполняет услугу
func resolveStaff(business *businessservice.Business, service *businessservice.Service, staffID *int64) ([]businessservice.Staff, error) {
	if staffID == nil {
		return business.EligibleStaff(service), nil
	}

	staff, ok := business.FindStaff(*staffID)
	if !ok || !staff.Active {
		return nil, ErrStaffNotFound
	}
	if !service.PerformedBy(staff.ID) {
		return nil, ErrServiceNotOffered
	}
	return []businessservice.Staff{*staff}, nil
}

// buildAvailability строит рабочие окна и занятость мастеров на день
// Мастера, не работающие в этот день, пропускаются
func buildAvailability(
	business *businessservice.Business,
	staffList []businessservice.Staff,
	day time.Time,
	bookings []*domain.Booking,
) (domain.DaySchedule, []domain.StaffAvailability, error) {
	businessDay, _, err := business.DaySchedules(nil, day.Weekday())
	if err != nil {
		return domain.DaySchedule{}, nil, err
	}

	availability := make([]domain.StaffAvailability, 0, len(staffList))
	for i := range staffList {
		_, staffDay, err := business.DaySchedules(&staffList[i], day.Weekday())
		if err != nil {
			return domain.DaySchedule{}, nil, err
		}

		a, works, err := domain.NewStaffAvailability(staffList[i].ID, businessDay, staffDay, bookings)
		if err != nil {
			return domain.DaySchedule{}, nil, err
		}
		if works {
			availability = append(availability, a)
		}
	}

	return businessDay, availability, nil
}
