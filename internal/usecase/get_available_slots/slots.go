package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// calculation входные данные расчета: снимок конфигурации, бронирований и текущего времени
type calculation struct {
	day             time.Time // полночь запрошенного дня в часовом поясе бизнеса
	now             time.Time // текущее время в часовом поясе бизнеса
	config          *domain.BusinessSlotsConfig
	businessDay     domain.DaySchedule
	staff           []domain.StaffAvailability
	durationMinutes int
	bufferMinutes   int
}

// calculateSlots рассчитывает слоты на день
// Чистая функция: одинаковые входные данные дают одинаковый результат.
//
// Кандидаты генерируются с шагом SlotStepMinutes от открытия бизнеса.
// Слот попадает в список, если услуга помещается в рабочее окно хотя бы одного мастера,
// и доступен, если хотя бы один из таких мастеров свободен на [start, start+duration+buffer).
// Существующее бронирование занимает [start, start+duration+свой сохраненный buffer):
// при услуге с буфером слот сразу после окончания бронирования недоступен.
// Слоты раньше now + minBookingNotice не попадают в список.
func calculateSlots(c calculation) (domain.SlotsByPeriod, error) {
	result := domain.NewSlotsByPeriod()

	if !domain.WithinBookingWindow(c.day, c.now, c.config.AdvanceBookingDays) {
		return result, nil
	}

	window, open, err := c.businessDay.Window()
	if err != nil {
		return result, err
	}
	if !open || len(c.staff) == 0 {
		return result, nil
	}

	step := c.config.SlotStepMinutes
	if step <= 0 || c.durationMinutes <= 0 {
		return result, fmt.Errorf("%w: step=%d, duration=%d", ErrInvalidConfig, step, c.durationMinutes)
	}

	for start := window.Start; start+c.durationMinutes <= window.End; start += step {
		if !domain.MeetsNotice(c.day, start, c.now, c.config.MinBookingNoticeMinutes) {
			continue
		}

		listed, available := false, false
		for _, staff := range c.staff {
			if !staff.Fits(start, c.durationMinutes) {
				continue
			}
			listed = true
			if staff.IsFree(start, c.durationMinutes, c.bufferMinutes) {
				available = true
				break
			}
		}
		if !listed {
			continue
		}

		slotTime, err := types.FromMinutes(start)
		if err != nil {
			return result, err
		}
		result.Add(c.config.PeriodOf(start), domain.TimeSlot{
			Time:      slotTime,
			Label:     slotTime.Label(),
			Available: available,
		})
	}

	return result, nil
}
