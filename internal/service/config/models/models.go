package models

import (
	"time"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Request модели

// GetConfigRequest запрос на получение конфигурации (для иерархического поиска)
type GetConfigRequest struct {
	BusinessID int64  `json:"businessId"`
	StaffID    *int64 `json:"staffId,omitempty"`   // nil означает любой мастер
	ServiceID  *int64 `json:"serviceId,omitempty"` // nil означает любая услуга
}

// UpsertConfigRequest запрос на создание или обновление конфигурации одного уровня иерархии
// Уровень задается парой StaffID/ServiceID. Незаданные поля берутся из текущей
// конфигурации уровня, а если ее нет - из значений по умолчанию
type UpsertConfigRequest struct {
	UserID                  int64   `json:"userId"`
	BusinessID              int64   `json:"businessId"`
	StaffID                 *int64  `json:"staffId,omitempty"`
	ServiceID               *int64  `json:"serviceId,omitempty"`
	SlotStepMinutes         *int    `json:"slotStepMinutes,omitempty"`
	AdvanceBookingDays      *int    `json:"advanceBookingDays,omitempty"`
	MinBookingNoticeMinutes *int    `json:"minBookingNoticeMinutes,omitempty"`
	MorningEndsAt           *string `json:"morningEndsAt,omitempty"`
	AfternoonEndsAt         *string `json:"afternoonEndsAt,omitempty"`
}

// DeleteConfigRequest запрос на удаление конфигурации уровня
type DeleteConfigRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	StaffID    *int64 `json:"staffId,omitempty"`
	ServiceID  *int64 `json:"serviceId,omitempty"`
}

// Response модели

// ConfigResponse ответ с данными конфигурации слотов
type ConfigResponse struct {
	ID                      *int64     `json:"id,omitempty"` // nil для значений по умолчанию
	BusinessID              int64      `json:"businessId"`
	StaffID                 *int64     `json:"staffId,omitempty"`
	ServiceID               *int64     `json:"serviceId,omitempty"`
	Level                   string     `json:"level"`
	SlotStepMinutes         int        `json:"slotStepMinutes"`
	AdvanceBookingDays      int        `json:"advanceBookingDays"`
	MinBookingNoticeMinutes int        `json:"minBookingNoticeMinutes"`
	MorningEndsAt           string     `json:"morningEndsAt"`
	AfternoonEndsAt         string     `json:"afternoonEndsAt"`
	CreatedAt               *time.Time `json:"createdAt,omitempty"`
	UpdatedAt               *time.Time `json:"updatedAt,omitempty"`
}

// ConfigListResponse ответ со списком конфигураций
type ConfigListResponse struct {
	Configs []ConfigResponse `json:"configs"`
}

// Методы конвертации

// FromDomainConfig конвертирует domain модель в DTO
func FromDomainConfig(c *domain.BusinessSlotsConfig) *ConfigResponse {
	if c == nil {
		return nil
	}

	resp := &ConfigResponse{
		BusinessID:              c.BusinessID,
		StaffID:                 c.StaffID,
		ServiceID:               c.ServiceID,
		Level:                   string(c.Level()),
		SlotStepMinutes:         c.SlotStepMinutes,
		AdvanceBookingDays:      c.AdvanceBookingDays,
		MinBookingNoticeMinutes: c.MinBookingNoticeMinutes,
		MorningEndsAt:           c.MorningEndsAt.String(),
		AfternoonEndsAt:         c.AfternoonEndsAt.String(),
	}

	if !c.IsDefault() {
		id, created, updated := c.ID, c.CreatedAt, c.UpdatedAt
		resp.ID = &id
		resp.CreatedAt = &created
		resp.UpdatedAt = &updated
	}

	return resp
}

// FromDomainConfigList конвертирует список domain моделей в DTO
func FromDomainConfigList(configs []*domain.BusinessSlotsConfig) *ConfigListResponse {
	resp := &ConfigListResponse{
		Configs: make([]ConfigResponse, 0, len(configs)),
	}

	for _, config := range configs {
		if configResp := FromDomainConfig(config); configResp != nil {
			resp.Configs = append(resp.Configs, *configResp)
		}
	}

	return resp
}

// ApplyToConfig применяет заданные поля запроса к конфигурации
func (r *UpsertConfigRequest) ApplyToConfig(config *domain.BusinessSlotsConfig) {
	config.BusinessID = r.BusinessID
	config.StaffID = r.StaffID
	config.ServiceID = r.ServiceID

	if r.SlotStepMinutes != nil {
		config.SlotStepMinutes = *r.SlotStepMinutes
	}
	if r.AdvanceBookingDays != nil {
		config.AdvanceBookingDays = *r.AdvanceBookingDays
	}
	if r.MinBookingNoticeMinutes != nil {
		config.MinBookingNoticeMinutes = *r.MinBookingNoticeMinutes
	}
	if r.MorningEndsAt != nil {
		config.MorningEndsAt = types.TimeString(*r.MorningEndsAt)
	}
	if r.AfternoonEndsAt != nil {
		config.AfternoonEndsAt = types.TimeString(*r.AfternoonEndsAt)
	}
}
