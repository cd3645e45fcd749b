package get_available_slots

import (
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SlotScheduler/internal/usecase/get_available_slots"
)

var errInvalidStaffID = errors.New("staffId must be a positive integer or \"any\"")

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date           string        `json:"date"`
	BusinessID     int64         `json:"businessId"`
	ServiceID      int64         `json:"serviceId"`
	StaffID        string        `json:"staffId"` // "any" или ID мастера
	Slots          SlotsByPeriod `json:"slots"`
	Counts         PeriodCounts  `json:"counts"`
	TotalAvailable int           `json:"totalAvailable"`
}

// SlotsByPeriod слоты, сгруппированные по периодам дня
type SlotsByPeriod struct {
	Morning   []TimeSlot `json:"morning"`
	Afternoon []TimeSlot `json:"afternoon"`
	Evening   []TimeSlot `json:"evening"`
}

// TimeSlot модель временного слота
type TimeSlot struct {
	Time      string `json:"time"`  // "09:00"
	Label     string `json:"label"` // "9:00 AM"
	Available bool   `json:"available"`
}

// PeriodCounts количество доступных слотов по периодам
type PeriodCounts struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	staff := domain.AnyStaff
	if resp.StaffID != nil {
		staff = strconv.FormatInt(*resp.StaffID, 10)
	}

	return &AvailableSlotsResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		StaffID:    staff,
		Slots: SlotsByPeriod{
			Morning:   fromDomainSlots(resp.Slots.Morning),
			Afternoon: fromDomainSlots(resp.Slots.Afternoon),
			Evening:   fromDomainSlots(resp.Slots.Evening),
		},
		Counts: PeriodCounts{
			Morning:   resp.Counts.Morning,
			Afternoon: resp.Counts.Afternoon,
			Evening:   resp.Counts.Evening,
		},
		TotalAvailable: resp.TotalAvailable,
	}
}

func fromDomainSlots(slots []domain.TimeSlot) []TimeSlot {
	result := make([]TimeSlot, len(slots))
	for i, slot := range slots {
		result[i] = TimeSlot{
			Time:      slot.Time.String(),
			Label:     slot.Label,
			Available: slot.Available,
		}
	}
	return result
}

// ParseStaffID разбирает параметр staffId: пусто или "any" - любой мастер
func ParseStaffID(raw string) (*int64, error) {
	if raw == "" || raw == domain.AnyStaff {
		return nil, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, errInvalidStaffID
	}
	return &id, nil
}

// ToUseCaseRequest создает запрос use case из параметров запроса
func ToUseCaseRequest(businessID, serviceID int64, staffID *int64, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		StaffID:    staffID,
		Date:       date,
	}, nil
}
