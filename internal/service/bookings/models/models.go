package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64   `json:"userId"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// UpdateStatusRequest запрос на обновление статуса бронирования
type UpdateStatusRequest struct {
	UserID int64  `json:"userId"`
	Status string `json:"status"`
}

// GetCustomerBookingsRequest запрос на получение бронирований клиента
type GetCustomerBookingsRequest struct {
	UserID     int64   `json:"userId"`
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"`
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	UserID          int64      `json:"userId"`
	BusinessID      int64      `json:"businessId"`
	StaffID         *int64     `json:"staffId,omitempty"`         // Фильтр по мастеру (опционально)
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отмененные и no-show
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBusinessBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		BusinessID:      r.BusinessID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StaffID != nil {
		filter.StaffIDs = []int64{*r.StaffID}
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	BusinessID      int64  `json:"businessId"`
	StaffID         int64  `json:"staffId"`
	ServiceID       int64  `json:"serviceId"`
	CustomerID      int64  `json:"customerId"`
	BookingDate     string `json:"bookingDate"` // "2025-10-15"
	StartTime       string `json:"startTime"`   // "10:00"
	EndTime         string `json:"endTime"`     // "11:00" (без буфера)
	DurationMinutes int    `json:"durationMinutes"`
	BufferMinutes   int    `json:"bufferMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	CustomerName  string  `json:"customerName"`
	CustomerPhone *string `json:"customerPhone,omitempty"`
	ServiceName   string  `json:"serviceName"`
	ServicePrice  float64 `json:"servicePrice"`
	Notes         *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledBy        *string `json:"cancelledBy,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		BusinessID:         b.BusinessID,
		StaffID:            b.StaffID,
		ServiceID:          b.ServiceID,
		CustomerID:         b.CustomerID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		DurationMinutes:    b.DurationMinutes,
		BufferMinutes:      b.BufferMinutes,
		Status:             string(b.Status),
		CustomerName:       b.CustomerName,
		CustomerPhone:      b.CustomerPhone,
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if end, err := b.StartTime.AddMinutes(b.DurationMinutes); err == nil {
		resp.EndTime = end.String()
	}

	if b.CancelledBy != nil {
		by := string(*b.CancelledBy)
		resp.CancelledBy = &by
	}

	// Конвертируем CancelledAt в строку ISO 8601
	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
