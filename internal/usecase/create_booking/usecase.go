package create_booking

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/booking"
	configRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
)

// UseCase use case для создания бронирования
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

// Execute создает бронирование
//
// Слот, показанный как свободный, не является резервированием. Занятость подтверждается
// единственной атомарной вставкой: пересечение отклоняет хранилище, а не проверка перед записью.
// Для "любого мастера" кандидаты перебираются по очереди (меньше записей за день - раньше),
// конфликт вставки переводит к следующему кандидату.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, service=%d, mode=%s, date=%s, time=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.mode(), req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Бизнес и услуга
	business, service, err := uc.fetchCatalog(ctx, req)
	if err != nil {
		return nil, err
	}

	if service.DurationMinutes <= 0 || service.BufferMinutes < 0 {
		uc.logger.Error("CreateBooking: service id=%d has invalid duration=%d or buffer=%d",
			service.ID, service.DurationMinutes, service.BufferMinutes)
		return nil, fmt.Errorf("%w: service duration=%d, buffer=%d", ErrInvalidConfig, service.DurationMinutes, service.BufferMinutes)
	}

	loc, err := business.Location()
	if err != nil {
		uc.logger.Error("CreateBooking: business id=%d: %v", business.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	day := domain.LocalDay(req.Date, loc)
	now := uc.timeProvider.Now().In(loc)

	// 3. Мастера
	staffList, err := resolveStaff(business, service, req.StaffID)
	if err != nil {
		uc.logger.Warn("CreateBooking: staff resolution failed: business=%d: %v", req.BusinessID, err)
		return nil, err
	}
	if len(staffList) == 0 {
		uc.logger.Warn("CreateBooking: no eligible staff for business=%d, service=%d", req.BusinessID, req.ServiceID)
		return nil, fmt.Errorf("%w: no active staff performs the service", ErrServiceNotOffered)
	}

	// 4. Конфигурация
	config, err := uc.configRepo.GetConfigWithHierarchy(ctx, req.BusinessID, req.StaffID, &req.ServiceID)
	if errors.Is(err, configRepo.ErrConfigNotFound) {
		config = domain.DefaultSlotsConfig(req.BusinessID)
		err = nil
	}
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get config: %v", err)
		return nil, fmt.Errorf("%w: failed to get config: %v", ErrInternal, err)
	}
	if config.SlotStepMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot step %d", ErrInvalidConfig, config.SlotStepMinutes)
	}

	// 5. Дата и время
	if err := validateDate(day, now, config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	businessDay, _, err := business.DaySchedules(nil, day.Weekday())
	if err != nil {
		uc.logger.Error("CreateBooking: invalid working hours for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: working hours: %v", ErrInvalidConfig, err)
	}

	start, _ := req.StartTime.Minutes()
	if err := validateStartTime(businessDay, start, config, day, now); err != nil {
		uc.logger.Warn("CreateBooking: start time validation failed: %v", err)
		return nil, err
	}

	// 6. Кандидаты по свежему снимку бронирований
	candidates, err := uc.candidates(ctx, req, business, businessDay, staffList, day, start, service)
	if err != nil {
		return nil, err
	}

	// 7. Атомарная вставка по кандидатам
	for _, staffID := range candidates {
		booking := &domain.Booking{
			BusinessID:      req.BusinessID,
			StaffID:         staffID,
			ServiceID:       req.ServiceID,
			CustomerID:      req.CustomerID,
			BookingDate:     day,
			StartTime:       req.StartTime,
			DurationMinutes: service.DurationMinutes,
			BufferMinutes:   service.BufferMinutes,
			Status:          domain.StatusPending,
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			ServiceName:     service.Name,
			ServicePrice:    service.Price,
			Notes:           req.Notes,
		}

		created, err := uc.bookingRepo.Create(ctx, booking)
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			uc.logger.Warn("CreateBooking: slot taken concurrently: staff=%d, date=%s, time=%s",
				staffID, day.Format(domain.DateFormat), req.StartTime)
			if uc.metrics != nil {
				uc.metrics.IncBookingConflicts()
			}
			continue
		}
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return nil, fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		if uc.metrics != nil {
			uc.metrics.IncBookingsCreated(req.mode())
		}
		uc.logger.Info("CreateBooking: successfully created booking id=%d, staff=%d", created.ID, created.StaffID)
		return &Response{Booking: created}, nil
	}

	uc.logger.Warn("CreateBooking: no free staff left: business=%d, date=%s, time=%s",
		req.BusinessID, day.Format(domain.DateFormat), req.StartTime)
	return nil, ErrSlotTaken
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
				uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
				return ErrBusinessNotFound
			}
			uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
			return fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		service, err = uc.businessClient.GetService(gctx, req.BusinessID, req.ServiceID)
		if err != nil {
			if errors.Is(err, businessservice.ErrServiceNotFound) {
				uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return business, service, nil
}

// candidates возвращает мастеров, свободных по снимку на момент чтения, в порядке попыток вставки
// Снимок только выбирает порядок: окончательное решение принимает вставка.
func (uc *UseCase) candidates(
	ctx context.Context,
	req *Request,
	business *businessservice.Business,
	businessDay domain.DaySchedule,
	staffList []businessservice.Staff,
	day time.Time,
	start int,
	service *businessservice.Service,
) ([]int64, error) {
	staffIDs := make([]int64, len(staffList))
	for i, s := range staffList {
		staffIDs[i] = s.ID
	}

	bookings, err := uc.bookingRepo.GetByBusinessWithFilter(ctx, domain.BookingsFilter{
		BusinessID: req.BusinessID,
		StaffIDs:   staffIDs,
		StartDate:  &day,
		EndDate:    &day,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	load := make(map[int64]int, len(staffList))
	for _, b := range bookings {
		if b.IsOccupying() {
			load[b.StaffID]++
		}
	}

	fits := false
	free := make([]int64, 0, len(staffList))
	for i := range staffList {
		_, staffDay, err := business.DaySchedules(&staffList[i], day.Weekday())
		if err != nil {
			return nil, fmt.Errorf("%w: working hours: %v", ErrInvalidConfig, err)
		}

		availability, works, err := domain.NewStaffAvailability(staffList[i].ID, businessDay, staffDay, bookings)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInternal, err)
		}
		if !works || !availability.Fits(start, service.DurationMinutes) {
			continue
		}
		fits = true

		if availability.IsFree(start, service.DurationMinutes, service.BufferMinutes) {
			free = append(free, staffList[i].ID)
		}
	}

	if !fits {
		return nil, fmt.Errorf("%w: service does not fit working hours at %s", ErrInvalidTimeSlot, req.StartTime)
	}
	if len(free) == 0 {
		uc.logger.Warn("CreateBooking: slot already taken: business=%d, date=%s, time=%s",
			req.BusinessID, day.Format(domain.DateFormat), req.StartTime)
		return nil, ErrSlotTaken
	}

	sort.SliceStable(free, func(i, j int) bool {
		if load[free[i]] != load[free[j]] {
			return load[free[i]] < load[free[j]]
		}
		return free[i] < free[j]
	})

	return free, nil
}
