package get_business_config

import (
	"strconv"

	"github.com/m04kA/SMC-SlotScheduler/internal/service/config/models"
)

// ToServiceRequest формирует запрос к сервису из URL и query параметров
func ToServiceRequest(businessID int64, staffIDStr string, serviceIDStr string) (*models.GetConfigRequest, error) {
	req := &models.GetConfigRequest{
		BusinessID: businessID,
	}

	// Парсим staffId если указан
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.StaffID = &staffID
	}

	// Парсим serviceId если указан
	if serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ServiceID = &serviceID
	}

	return req, nil
}
