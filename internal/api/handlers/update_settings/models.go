package update_settings

import (
	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	BusinessStartTime   *string `json:"businessStartTime,omitempty"`
	BusinessEndTime     *string `json:"businessEndTime,omitempty"`
	AllowSameDayBooking *bool   `json:"allowSameDayBooking,omitempty"`
	SameDayCutoffTime   *string `json:"sameDayCutoffTime,omitempty"`
	BufferTimeMinutes   *int    `json:"bufferTimeMinutes,omitempty" validate:"omitempty,gte=0"`
	MaxAdvanceDays      *int    `json:"maxAdvanceDays,omitempty" validate:"omitempty,gte=0"`
	MinAdvanceHours     *int    `json:"minAdvanceHours,omitempty" validate:"omitempty,gte=0"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:              userID,
		BusinessStartTime:   r.BusinessStartTime,
		BusinessEndTime:     r.BusinessEndTime,
		AllowSameDayBooking: r.AllowSameDayBooking,
		SameDayCutoffTime:   r.SameDayCutoffTime,
		BufferTimeMinutes:   r.BufferTimeMinutes,
		MaxAdvanceDays:      r.MaxAdvanceDays,
		MinAdvanceHours:     r.MinAdvanceHours,
	}
}

// CanCreate проверяет, что запроса достаточно для первичного создания настроек
// Для PUT при отсутствующих настройках нужны рабочие часы и время cutoff
func (r *UpdateSettingsRequest) CanCreate() bool {
	return r.BusinessStartTime != nil && r.BusinessEndTime != nil && r.SameDayCutoffTime != nil
}

// ToCreateRequest конвертирует HTTP request в модель создания настроек
// Непереданные числовые поля получают значения по умолчанию
func (r *UpdateSettingsRequest) ToCreateRequest(userID int64) *models.CreateSettingsRequest {
	req := &models.CreateSettingsRequest{
		UserID:            userID,
		BusinessStartTime: *r.BusinessStartTime,
		BusinessEndTime:   *r.BusinessEndTime,
		SameDayCutoffTime: *r.SameDayCutoffTime,
		BufferTimeMinutes: domain.DefaultBufferTimeMinutes,
		MaxAdvanceDays:    domain.DefaultMaxAdvanceDays,
		MinAdvanceHours:   domain.DefaultMinAdvanceHours,
	}

	if r.AllowSameDayBooking != nil {
		req.AllowSameDayBooking = *r.AllowSameDayBooking
	}
	if r.BufferTimeMinutes != nil {
		req.BufferTimeMinutes = *r.BufferTimeMinutes
	}
	if r.MaxAdvanceDays != nil {
		req.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.MinAdvanceHours != nil {
		req.MinAdvanceHours = *r.MinAdvanceHours
	}

	return req
}
