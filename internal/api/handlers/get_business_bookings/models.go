package get_business_bookings

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
)

var errDateAndRange = errors.New("date cannot be combined with startDate/endDate")

// ToServiceRequest формирует запрос к сервису из query параметров
// date задает один день, startDate/endDate - период (границы включительно)
func ToServiceRequest(businessID, userID int64, query url.Values) (*models.GetBusinessBookingsRequest, error) {
	req := &models.GetBusinessBookingsRequest{
		UserID:     userID,
		BusinessID: businessID,
	}

	// Парсим staffId если указан
	if staffIDStr := query.Get("staffId"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid staffId: %w", err)
		}
		req.StaffID = &staffID
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	dateStr := query.Get("date")
	startStr := query.Get("startDate")
	endStr := query.Get("endDate")

	if dateStr != "" && (startStr != "" || endStr != "") {
		return nil, errDateAndRange
	}

	if dateStr != "" {
		date, err := parseDate("date", dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = date
		req.EndDate = date
	}

	if startStr != "" {
		start, err := parseDate("startDate", startStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = start
	}

	if endStr != "" {
		end, err := parseDate("endDate", endStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = end
	}

	// Парсим includeInactive если указан
	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseDate(name, value string) (*time.Time, error) {
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return &date, nil
}
