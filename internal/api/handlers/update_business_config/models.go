package update_business_config

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
)

// UpdateBusinessConfigRequest HTTP request model
// staffId/serviceId задают уровень иерархии, остальные поля - изменяемые значения
type UpdateBusinessConfigRequest struct {
	StaffID                 *int64  `json:"staffId,omitempty"`
	ServiceID               *int64  `json:"serviceId,omitempty"`
	SlotStepMinutes         *int    `json:"slotStepMinutes,omitempty"`
	AdvanceBookingDays      *int    `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int    `json:"minBookingNoticeMinutes,omitempty"`
	MorningEndsAt           *string `json:"morningEndsAt,omitempty"`   // "12:00"
	AfternoonEndsAt         *string `json:"afternoonEndsAt,omitempty"` // "17:00"
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateBusinessConfigRequest) ToServiceRequest(businessID, userID int64) *models.UpsertConfigRequest {
	return &models.UpsertConfigRequest{
		UserID:                  userID,
		BusinessID:              businessID,
		StaffID:                 r.StaffID,
		ServiceID:               r.ServiceID,
		SlotStepMinutes:         r.SlotStepMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		MorningEndsAt:           r.MorningEndsAt,
		AfternoonEndsAt:         r.AfternoonEndsAt,
	}
}
