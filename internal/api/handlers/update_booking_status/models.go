package update_booking_status

import (
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
)

// UpdateStatusRequest HTTP request model
type UpdateStatusRequest struct {
	Status string `json:"status"` // confirmed | completed | no_show
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateStatusRequest) ToServiceRequest(userID int64) *models.UpdateStatusRequest {
	return &models.UpdateStatusRequest{
		UserID: userID,
		Status: r.Status,
	}
}
