package businessservice

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Business модель бизнеса из каталога
type Business struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Timezone     string       `json:"timezone"` // IANA, например "Europe/Moscow"
	WorkingHours WorkingHours `json:"working_hours"`
	Staff        []Staff      `json:"staff"`
	ManagerIDs   []int64      `json:"manager_ids"`
}

// Staff модель мастера
type Staff struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	Active       bool          `json:"active"`
	WorkingHours *WorkingHours `json:"working_hours,omitempty"` // nil - работает по часам бизнеса
}

// Service модель услуги
type Service struct {
	ID              int64   `json:"id"`
	BusinessID      int64   `json:"business_id"`
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	DurationMinutes int     `json:"duration_minutes"`
	BufferMinutes   int     `json:"buffer_minutes"`
	StaffIDs        []int64 `json:"staff_ids"` // пустой список - услугу выполняют все мастера
}

// WorkingHours расписание на неделю
type WorkingHours struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание на день
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "18:00"
}

// ErrorResponse модель ошибки от сервиса каталога
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location возвращает часовой пояс бизнеса
func (b *Business) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidResponse, b.Timezone, err)
	}
	return loc, nil
}

// FindStaff ищет мастера по ID
func (b *Business) FindStaff(staffID int64) (*Staff, bool) {
	for i := range b.Staff {
		if b.Staff[i].ID == staffID {
			return &b.Staff[i], true
		}
	}
	return nil, false
}

// IsManager проверяет, является ли пользователь менеджером бизнеса
func (b *Business) IsManager(userID int64) bool {
	for _, id := range b.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// EligibleStaff возвращает активных мастеров, выполняющих услугу, в порядке каталога
func (b *Business) EligibleStaff(service *Service) []Staff {
	eligible := make([]Staff, 0, len(b.Staff))
	for _, s := range b.Staff {
		if s.Active && service.PerformedBy(s.ID) {
			eligible = append(eligible, s)
		}
	}
	return eligible
}

// PerformedBy проверяет, выполняет ли мастер услугу
func (s *Service) PerformedBy(staffID int64) bool {
	if len(s.StaffIDs) == 0 {
		return true
	}
	for _, id := range s.StaffIDs {
		if id == staffID {
			return true
		}
	}
	return false
}

// ToDomain конвертирует расписание в доменную модель
func (w WorkingHours) ToDomain() (domain.WeeklySchedule, error) {
	days := []DaySchedule{w.Monday, w.Tuesday, w.Wednesday, w.Thursday, w.Friday, w.Saturday, w.Sunday}
	converted := make([]domain.DaySchedule, len(days))
	for i, d := range days {
		ds, err := d.ToDomain()
		if err != nil {
			return domain.WeeklySchedule{}, err
		}
		converted[i] = ds
	}

	return domain.WeeklySchedule{
		Monday:    converted[0],
		Tuesday:   converted[1],
		Wednesday: converted[2],
		Thursday:  converted[3],
		Friday:    converted[4],
		Saturday:  converted[5],
		Sunday:    converted[6],
	}, nil
}

// ToDomain конвертирует расписание дня в доменную модель
func (d DaySchedule) ToDomain() (domain.DaySchedule, error) {
	if !d.IsOpen || d.OpenTime == nil || d.CloseTime == nil {
		return domain.DaySchedule{IsOpen: false}, nil
	}

	openTime, err := types.NewTimeStringFromString(*d.OpenTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: open_time: %v", ErrInvalidResponse, err)
	}
	closeTime, err := types.NewTimeStringFromString(*d.CloseTime)
	if err != nil {
		return domain.DaySchedule{}, fmt.Errorf("%w: close_time: %v", ErrInvalidResponse, err)
	}

	return domain.DaySchedule{IsOpen: true, OpenTime: openTime, CloseTime: closeTime}, nil
}

// DaySchedules возвращает расписание бизнеса и мастера на день недели
// Если у мастера нет своего расписания, второй результат nil
func (b *Business) DaySchedules(staff *Staff, day time.Weekday) (domain.DaySchedule, *domain.DaySchedule, error) {
	businessWeek, err := b.WorkingHours.ToDomain()
	if err != nil {
		return domain.DaySchedule{}, nil, err
	}
	businessDay := businessWeek.ForWeekday(day)

	if staff == nil || staff.WorkingHours == nil {
		return businessDay, nil, nil
	}

	staffWeek, err := staff.WorkingHours.ToDomain()
	if err != nil {
		return domain.DaySchedule{}, nil, err
	}
	staffDay := staffWeek.ForWeekday(day)

	return businessDay, &staffDay, nil
}
