package delete_business_config

import (
	"strconv"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
)

// ToServiceRequest формирует запрос на удаление уровня из query параметров staffId, serviceId
func ToServiceRequest(businessID, userID int64, staffIDStr, serviceIDStr string) (*models.DeleteConfigRequest, error) {
	req := &models.DeleteConfigRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}
