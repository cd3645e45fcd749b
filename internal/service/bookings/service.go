package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo    BookingRepository
	businessClient BusinessServiceClient
	txManager      TransactionManager
	logger         Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	businessClient BusinessServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:    bookingRepo,
		businessClient: businessClient,
		txManager:      txManager,
		logger:         logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свое бронирование, менеджер - любое бронирование бизнеса
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveActor(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Клиент может запросить только свою историю
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d by user=%d, status=%v",
		req.CustomerID, req.UserID, req.Status)

	if req.CustomerID != req.UserID {
		s.logger.Warn("GetCustomerBookings: user=%d requested bookings of customer=%d", req.UserID, req.CustomerID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByCustomerID(ctx, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования бизнеса с фильтрацией
// Доступно только менеджерам бизнеса
//
// Примеры использования:
// - Расписание на день: StartDate и EndDate указывают на одну дату (сортировка по мастеру и времени)
// - Бронирования мастера: указать StaffID
// - Только подтвержденные: Status = "confirmed"
// - Включая отмененные: IncludeInactive = true
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d, user=%d, staff=%v, status=%v, includeInactive=%t",
		req.BusinessID, req.UserID, req.StaffID, req.Status, req.IncludeInactive)

	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	if err := s.checkManagerAccess(ctx, req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessBookings: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование и освобождает время мастера
// Клиент отменяет свое бронирование (cancelledBy=customer), менеджер - любое бронирование бизнеса (cancelledBy=business)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if req.CancellationReason != nil && len([]rune(*req.CancellationReason)) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason is longer than %d", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return nil, err
	}

	cancelledBy, err := s.resolveActor(ctx, booking, req.UserID)
	if err != nil {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return nil, err
	}

	// Повторно читаем под блокировкой: статус мог измениться параллельно
	var cancelled *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.getBooking(ctx, "Cancel", bookingID)
		if err != nil {
			return err
		}

		if !current.CanBeCancelled() {
			s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, current.Status)
			return ErrCannotCancel
		}

		if err := s.bookingRepo.Cancel(ctx, bookingID, cancelledBy, req.CancellationReason); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}

		cancelled, err = s.getBooking(ctx, "Cancel", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d by %s", bookingID, cancelledBy)
	return models.FromDomainBooking(cancelled), nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только менеджерам бизнеса: pending -> confirmed, confirmed -> completed | no_show
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by user=%d",
		bookingID, req.Status, req.UserID)

	newStatus, err := models.ToDomainBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, bookingID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "UpdateStatus", bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.checkManagerAccess(ctx, booking.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	var updated *domain.Booking
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.getBooking(ctx, "UpdateStatus", bookingID)
		if err != nil {
			return err
		}

		if !current.CanTransitionTo(newStatus) {
			s.logger.Warn("UpdateStatus: booking id=%d cannot move from %s to %s", bookingID, current.Status, newStatus)
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, newStatus)
		}

		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, newStatus); err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}

		updated, err = s.getBooking(ctx, "UpdateStatus", bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, newStatus)
	return models.FromDomainBooking(updated), nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// resolveActor определяет, от чьего имени действует пользователь
// Владелец бронирования - клиент, иначе пользователь должен быть менеджером бизнеса
func (s *Service) resolveActor(ctx context.Context, booking *domain.Booking, userID int64) (domain.CancelledBy, error) {
	if booking.CustomerID == userID {
		return domain.CancelledByCustomer, nil
	}

	if err := s.checkManagerAccess(ctx, booking.BusinessID, userID); err != nil {
		if errors.Is(err, ErrInternal) {
			return "", err
		}
		return "", ErrAccessDenied
	}

	return domain.CancelledByBusiness, nil
}

// checkManagerAccess проверяет, что пользователь является менеджером бизнеса
func (s *Service) checkManagerAccess(ctx context.Context, businessID int64, userID int64) error {
	business, err := s.businessClient.GetBusiness(ctx, businessID)
	if err != nil {
		if errors.Is(err, businessservice.ErrBusinessNotFound) {
			s.logger.Warn("checkManagerAccess: business id=%d not found", businessID)
			return ErrBusinessNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get business: %v", ErrInternal, err)
	}

	if !business.IsManager(userID) {
		s.logger.Warn("checkManagerAccess: user=%d is not a manager of business=%d", userID, businessID)
		return ErrAccessDenied
	}

	return nil
}
