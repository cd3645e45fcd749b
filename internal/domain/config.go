package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// ConfigLevel names the hierarchy level a configuration was resolved from
type ConfigLevel string

const (
	ConfigLevelServiceForStaff ConfigLevel = "service_for_staff"
	ConfigLevelStaff           ConfigLevel = "staff"
	ConfigLevelService         ConfigLevel = "service"
	ConfigLevelBusiness        ConfigLevel = "business"
	ConfigLevelDefault         ConfigLevel = "default"
)

// BusinessSlotsConfig represents the slot configuration of a business
// Supports hierarchical configuration:
// 1. Service performed by a specific staff member (business_id, staff_id, service_id)
// 2. Staff-wide (business_id, staff_id, NULL)
// 3. Service-wide (business_id, NULL, service_id)
// 4. Business-wide (business_id, NULL, NULL)
type BusinessSlotsConfig struct {
	ID                      int64
	BusinessID              int64
	StaffID                 *int64 // NULL = config for all staff
	ServiceID               *int64 // NULL = config for all services
	SlotStepMinutes         int
	AdvanceBookingDays      int // 0 = unlimited
	MinBookingNoticeMinutes int
	MorningEndsAt           types.TimeString
	AfternoonEndsAt         types.TimeString
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// DefaultSlotsConfig returns the built-in configuration used when nothing is stored
func DefaultSlotsConfig(businessID int64) *BusinessSlotsConfig {
	return &BusinessSlotsConfig{
		BusinessID:              businessID,
		SlotStepMinutes:         DefaultSlotStepMinutes,
		AdvanceBookingDays:      DefaultAdvanceBookingDays,
		MinBookingNoticeMinutes: DefaultMinBookingNoticeMinutes,
		MorningEndsAt:           DefaultMorningEndsAt,
		AfternoonEndsAt:         DefaultAfternoonEndsAt,
	}
}

// IsDefault returns true if the configuration was not loaded from storage
func (c *BusinessSlotsConfig) IsDefault() bool {
	return c.ID == 0
}

// IsStaffSpecific returns true if this configuration is for a staff member (all services)
func (c *BusinessSlotsConfig) IsStaffSpecific() bool {
	return c.StaffID != nil && c.ServiceID == nil
}

// IsServiceSpecific returns true if this configuration is for a service (all staff)
func (c *BusinessSlotsConfig) IsServiceSpecific() bool {
	return c.StaffID == nil && c.ServiceID != nil
}

// IsServiceForStaff returns true if this configuration is for a service performed by a specific staff member
func (c *BusinessSlotsConfig) IsServiceForStaff() bool {
	return c.StaffID != nil && c.ServiceID != nil
}

// Level returns the hierarchy level of the configuration
func (c *BusinessSlotsConfig) Level() ConfigLevel {
	switch {
	case c.IsDefault():
		return ConfigLevelDefault
	case c.IsServiceForStaff():
		return ConfigLevelServiceForStaff
	case c.IsStaffSpecific():
		return ConfigLevelStaff
	case c.IsServiceSpecific():
		return ConfigLevelService
	default:
		return ConfigLevelBusiness
	}
}

// PeriodOf returns the period a slot starting at the given minute of the day belongs to
func (c *BusinessSlotsConfig) PeriodOf(minute int) Period {
	morningEnd, err := c.MorningEndsAt.Minutes()
	if err != nil {
		morningEnd, _ = DefaultMorningEndsAt.Minutes()
	}
	afternoonEnd, err := c.AfternoonEndsAt.Minutes()
	if err != nil {
		afternoonEnd, _ = DefaultAfternoonEndsAt.Minutes()
	}

	switch {
	case minute < morningEnd:
		return PeriodMorning
	case minute < afternoonEnd:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
