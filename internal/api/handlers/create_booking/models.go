package create_booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SlotScheduler/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

var (
	errInvalidStaff = errors.New("staffId must be a positive integer or \"any\"")
	errInvalidDate  = errors.New("invalid booking date")
	errInvalidTime  = errors.New("invalid start time")
)

// StaffSelector значение поля staffId: ID мастера (число или строка) либо "any"
type StaffSelector struct {
	ID *int64 // nil - любой свободный мастер
}

// UnmarshalJSON принимает 5, "5", "any" и null
func (s *StaffSelector) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		s.ID = nil
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return errInvalidStaff
		}
		if raw == "" || raw == domain.AnyStaff {
			s.ID = nil
			return nil
		}
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return errInvalidStaff
	}
	s.ID = &id
	return nil
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BusinessID    int64         `json:"businessId"`
	ServiceID     int64         `json:"serviceId"`
	StaffID       StaffSelector `json:"staffId"`
	BookingDate   string        `json:"bookingDate"` // "2025-10-15"
	StartTime     string        `json:"startTime"`   // "10:00"
	CustomerName  string        `json:"customerName"`
	CustomerPhone *string       `json:"customerPhone,omitempty"`
	Notes         *string       `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(customerID int64) (*createBooking.Request, error) {
	// Парсим дату
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, errInvalidDate
	}

	// Парсим время
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, errInvalidTime
	}

	return &createBooking.Request{
		CustomerID:    customerID,
		BusinessID:    r.BusinessID,
		ServiceID:     r.ServiceID,
		StaffID:       r.StaffID.ID,
		Date:          bookingDate,
		StartTime:     startTime,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return models.FromDomainBooking(resp.Booking)
}
