package booking

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotScheduler/pkg/psqlbuilder"
)

const tableBookings = "bookings"

var bookingColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"service_id",
	"customer_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"buffer_minutes",
	"status",
	"customer_name",
	"customer_phone",
	"service_name",
	"service_price",
	"notes",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create атомарно создает бронирование
// Пересечение с другим занимающим бронированием того же мастера отклоняется
// ограничением исключения в БД (bookings_no_overlap), проверки перед вставкой нет.
// При конфликте возвращает ErrSlotTaken.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableBookings).
		Columns(
			"business_id",
			"staff_id",
			"service_id",
			"customer_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"buffer_minutes",
			"status",
			"customer_name",
			"customer_phone",
			"service_name",
			"service_price",
			"notes",
		).
		Values(
			booking.BusinessID,
			booking.StaffID,
			booking.ServiceID,
			booking.CustomerID,
			booking.BookingDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.BufferMinutes,
			booking.Status,
			booking.CustomerName,
			booking.CustomerPhone,
			booking.ServiceName,
			booking.ServicePrice,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isSlotConflict(err) {
			return nil, fmt.Errorf("%w: staff_id=%d, date=%s, start=%s: %v",
				ErrSlotTaken, booking.StaffID, booking.BookingDate.Format(domain.DateFormat), booking.StartTime, err)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByCustomerID получает список бронирований клиента
// Опционально фильтрует по статусу
func (r *Repository) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomerID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByBusinessWithFilter получает бронирования бизнеса с фильтрацией
// по мастерам, периоду и статусу. Без явного статуса и IncludeInactive
// возвращаются только занимающие время бронирования.
func (r *Repository) GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := buildFilterQuery(filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBusinessWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

func buildFilterQuery(filter domain.BookingsFilter) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(tableBookings).
		Where(squirrel.Eq{"business_id": filter.BusinessID})

	if len(filter.StaffIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"staff_id": filter.StaffIDs})
	}

	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	// Для одного дня сортируем по времени, для периода - сначала новые
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.Equal(*filter.EndDate) {
		return selectBuilder.OrderBy("staff_id ASC", "start_time ASC")
	}
	return selectBuilder.OrderBy("booking_date DESC, start_time DESC")
}

// UpdateStatus обновляет статус бронирования
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "UpdateStatus", query, args)
}

// Cancel отменяет бронирование с указанием причины и инициатора
func (r *Repository) Cancel(ctx context.Context, id int64, cancelledBy domain.CancelledBy, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", cancelledBy).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	return r.execAffectingOne(ctx, executor, "Cancel", query, args)
}

// CancelStalePending отменяет ожидающие подтверждения бронирования, созданные раньше createdBefore
// Возвращает количество отмененных бронирований
func (r *Repository) CancelStalePending(ctx context.Context, createdBefore time.Time, reason string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableBookings).
		Set("status", domain.StatusCancelled).
		Set("cancelled_by", domain.CancelledBySystem).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.Lt{"created_at": createdBefore}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CancelStalePending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: CancelStalePending - execute update: %v", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: CancelStalePending - get rows affected: %v", ErrExecQuery, err)
	}

	return affected, nil
}

func (r *Repository) execAffectingOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime
	var cancelledBy sql.NullString

	err := row.Scan(
		&booking.ID,
		&booking.BusinessID,
		&booking.StaffID,
		&booking.ServiceID,
		&booking.CustomerID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.BufferMinutes,
		&booking.Status,
		&booking.CustomerName,
		&booking.CustomerPhone,
		&booking.ServiceName,
		&booking.ServicePrice,
		&booking.Notes,
		&booking.CancellationReason,
		&cancelledBy,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy.Valid {
		by := domain.CancelledBy(cancelledBy.String)
		booking.CancelledBy = &by
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
