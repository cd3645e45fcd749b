package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

const (
	modeSpecific = "specific"
	modeAny      = "any"
)

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID    int64            // ID клиента (из заголовка авторизации)
	BusinessID    int64            // ID бизнеса
	ServiceID     int64            // ID услуги
	StaffID       *int64           // ID мастера, nil - назначить любого свободного
	Date          time.Time        // Календарный день в часовом поясе бизнеса
	StartTime     types.TimeString // Время начала (например, "10:00")
	CustomerName  string           // Имя клиента
	CustomerPhone *string          // Телефон клиента (опционально)
	Notes         *string          // Заметки (опционально)
}

// IsAnyStaff возвращает true, если мастер не выбран
func (r *Request) IsAnyStaff() bool {
	return r.StaffID == nil
}

func (r *Request) mode() string {
	if r.IsAnyStaff() {
		return modeAny
	}
	return modeSpecific
}

// Response модель ответа с созданным бронированием (с назначенным мастером)
type Response struct {
	Booking *domain.Booking
}
