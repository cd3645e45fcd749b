package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

// Request модель запроса на получение слотов
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StaffID    *int64    // ID мастера, nil - любой свободный мастер
	Date       time.Time // Календарный день в часовом поясе бизнеса (время игнорируется)
}

// IsAnyStaff возвращает true, если мастер не выбран
func (r *Request) IsAnyStaff() bool {
	return r.StaffID == nil
}

// Response модель ответа со слотами, сгруппированными по периодам дня
type Response struct {
	Date           time.Time
	BusinessID     int64
	ServiceID      int64
	StaffID        *int64 // nil - любой мастер
	Slots          domain.SlotsByPeriod
	Counts         domain.PeriodCounts
	TotalAvailable int
}
