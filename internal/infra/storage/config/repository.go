package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"
	"github.com/m04kA/SMC-SlotScheduler/pkg/psqlbuilder"
)

const (
	tableConfig       = "business_slots_config"
	pqUniqueViolation = "23505"
)

var configColumns = []string{
	"id",
	"business_id",
	"staff_id",
	"service_id",
	"slot_step_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"morning_ends_at",
	"afternoon_ends_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с конфигурацией слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория конфигурации слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую конфигурацию слотов
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableConfig).
		Columns(
			"business_id",
			"staff_id",
			"service_id",
			"slot_step_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"morning_ends_at",
			"afternoon_ends_at",
		).
		Values(
			config.BusinessID,
			config.StaffID,
			config.ServiceID,
			config.SlotStepMinutes,
			config.AdvanceBookingDays,
			config.MinBookingNoticeMinutes,
			config.MorningEndsAt,
			config.AfternoonEndsAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&config.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateConfig
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// GetByID получает конфигурацию по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From(tableConfig).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan config: %v", ErrScanRow, err)
	}

	return config, nil
}

// GetByKey получает конфигурацию ровно одного уровня иерархии
// nil в staffID/serviceID означает "для всех"
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByKey(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(configColumns...).
		From(tableConfig).
		Where(squirrel.Eq{"business_id": businessID}).
		Where(nullableEq("staff_id", staffID)).
		Where(nullableEq("service_id", serviceID))

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - build select query: %v", ErrBuildQuery, err)
	}

	config, err := scanConfig(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByKey - scan config: %v", ErrScanRow, err)
	}

	return config, nil
}

// GetConfigWithHierarchy получает конфигурацию с учетом иерархии приоритетов
// Приоритет применения конфигурации:
// 1. Услуга у конкретного мастера (staffID, serviceID)
// 2. Все услуги мастера (staffID, NULL)
// 3. Услуга у всех мастеров (NULL, serviceID)
// 4. Весь бизнес (NULL, NULL)
//
// Если конфигурация не найдена ни на одном уровне, возвращает ErrConfigNotFound
func (r *Repository) GetConfigWithHierarchy(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error) {
	type level struct {
		name      string
		staffID   *int64
		serviceID *int64
	}

	levels := make([]level, 0, 4)
	if staffID != nil && serviceID != nil {
		levels = append(levels, level{"service_for_staff", staffID, serviceID})
	}
	if staffID != nil {
		levels = append(levels, level{"staff", staffID, nil})
	}
	if serviceID != nil {
		levels = append(levels, level{"service", nil, serviceID})
	}
	levels = append(levels, level{"business", nil, nil})

	for _, l := range levels {
		config, err := r.GetByKey(ctx, businessID, l.staffID, l.serviceID)
		if err == nil {
			return config, nil
		}
		if !errors.Is(err, ErrConfigNotFound) {
			return nil, fmt.Errorf("%w: GetConfigWithHierarchy - level %s: %v", ErrExecQuery, l.name, err)
		}
	}

	return nil, ErrConfigNotFound
}

// GetAllByBusiness получает все конфигурации бизнеса
func (r *Repository) GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(configColumns...).
		From(tableConfig).
		Where(squirrel.Eq{"business_id": businessID}).
		OrderBy("staff_id ASC NULLS FIRST, service_id ASC NULLS FIRST"). // Общая конфигурация бизнеса первой
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	configs := make([]*domain.BusinessSlotsConfig, 0)
	for rows.Next() {
		config, err := scanConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByBusiness - scan row: %v", ErrScanRow, err)
		}
		configs = append(configs, config)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByBusiness - rows error: %v", ErrScanRow, err)
	}

	return configs, nil
}

// Update обновляет конфигурацию слотов
func (r *Repository) Update(ctx context.Context, id int64, config *domain.BusinessSlotsConfig) (*domain.BusinessSlotsConfig, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableConfig).
		Set("slot_step_minutes", config.SlotStepMinutes).
		Set("advance_booking_days", config.AdvanceBookingDays).
		Set("min_booking_notice_minutes", config.MinBookingNoticeMinutes).
		Set("morning_ends_at", config.MorningEndsAt).
		Set("afternoon_ends_at", config.AfternoonEndsAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	config.ID = id
	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return config, nil
}

// Delete удаляет конфигурацию слотов
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableConfig).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrConfigNotFound
	}

	return nil
}

// nullableEq строит условие "column = value" или "column IS NULL"
func nullableEq(column string, value *int64) squirrel.Eq {
	if value == nil {
		return squirrel.Eq{column: nil}
	}
	return squirrel.Eq{column: *value}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConfig(row rowScanner) (*domain.BusinessSlotsConfig, error) {
	var config domain.BusinessSlotsConfig
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&config.ID,
		&config.BusinessID,
		&config.StaffID,
		&config.ServiceID,
		&config.SlotStepMinutes,
		&config.AdvanceBookingDays,
		&config.MinBookingNoticeMinutes,
		&config.MorningEndsAt,
		&config.AfternoonEndsAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	config.CreatedAt = createdAt.Time
	config.UpdatedAt = updatedAt.Time

	return &config, nil
}
