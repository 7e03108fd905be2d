package models

import (
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// Request модели

// CreateSettingsRequest запрос на создание настроек бронирования
// Вызывается один раз при онбординге бизнеса
type CreateSettingsRequest struct {
	UserID              int64  `json:"userId"`
	BusinessStartTime   string `json:"businessStartTime"`
	BusinessEndTime     string `json:"businessEndTime"`
	AllowSameDayBooking bool   `json:"allowSameDayBooking"`
	SameDayCutoffTime   string `json:"sameDayCutoffTime"`
	BufferTimeMinutes   int    `json:"bufferTimeMinutes"`
	MaxAdvanceDays      int    `json:"maxAdvanceDays"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
}

// UpdateSettingsRequest запрос на обновление настроек бронирования
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	UserID              int64   `json:"userId"`
	BusinessStartTime   *string `json:"businessStartTime,omitempty"`
	BusinessEndTime     *string `json:"businessEndTime,omitempty"`
	AllowSameDayBooking *bool   `json:"allowSameDayBooking,omitempty"`
	SameDayCutoffTime   *string `json:"sameDayCutoffTime,omitempty"`
	BufferTimeMinutes   *int    `json:"bufferTimeMinutes,omitempty"`
	MaxAdvanceDays      *int    `json:"maxAdvanceDays,omitempty"`
	MinAdvanceHours     *int    `json:"minAdvanceHours,omitempty"`
}

// Response модели

// SettingsResponse ответ с настройками бронирования
type SettingsResponse struct {
	ID                  int64     `json:"id"`
	BusinessStartTime   string    `json:"businessStartTime"`
	BusinessEndTime     string    `json:"businessEndTime"`
	AllowSameDayBooking bool      `json:"allowSameDayBooking"`
	SameDayCutoffTime   string    `json:"sameDayCutoffTime"`
	BufferTimeMinutes   int       `json:"bufferTimeMinutes"`
	MaxAdvanceDays      int       `json:"maxAdvanceDays"`
	MinAdvanceHours     int       `json:"minAdvanceHours"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// Методы конвертации

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BookingSettings) *SettingsResponse {
	if s == nil {
		return nil
	}

	return &SettingsResponse{
		ID:                  s.ID,
		BusinessStartTime:   s.BusinessStartTime.String(),
		BusinessEndTime:     s.BusinessEndTime.String(),
		AllowSameDayBooking: s.AllowSameDayBooking,
		SameDayCutoffTime:   s.SameDayCutoffTime.String(),
		BufferTimeMinutes:   s.BufferTimeMinutes,
		MaxAdvanceDays:      s.MaxAdvanceDays,
		MinAdvanceHours:     s.MinAdvanceHours,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

// ToDomainSettings конвертирует CreateSettingsRequest в domain модель
func (r *CreateSettingsRequest) ToDomainSettings() *domain.BookingSettings {
	return &domain.BookingSettings{
		BusinessStartTime:   types.TimeString(r.BusinessStartTime),
		BusinessEndTime:     types.TimeString(r.BusinessEndTime),
		AllowSameDayBooking: r.AllowSameDayBooking,
		SameDayCutoffTime:   types.TimeString(r.SameDayCutoffTime),
		BufferTimeMinutes:   r.BufferTimeMinutes,
		MaxAdvanceDays:      r.MaxAdvanceDays,
		MinAdvanceHours:     r.MinAdvanceHours,
	}
}

// ApplyToSettings применяет обновления к существующим настройкам
// Обновляются только непустые (not nil) поля из request
func (r *UpdateSettingsRequest) ApplyToSettings(s *domain.BookingSettings) {
	if r.BusinessStartTime != nil {
		s.BusinessStartTime = types.TimeString(*r.BusinessStartTime)
	}
	if r.BusinessEndTime != nil {
		s.BusinessEndTime = types.TimeString(*r.BusinessEndTime)
	}
	if r.AllowSameDayBooking != nil {
		s.AllowSameDayBooking = *r.AllowSameDayBooking
	}
	if r.SameDayCutoffTime != nil {
		s.SameDayCutoffTime = types.TimeString(*r.SameDayCutoffTime)
	}
	if r.BufferTimeMinutes != nil {
		s.BufferTimeMinutes = *r.BufferTimeMinutes
	}
	if r.MaxAdvanceDays != nil {
		s.MaxAdvanceDays = *r.MaxAdvanceDays
	}
	if r.MinAdvanceHours != nil {
		s.MinAdvanceHours = *r.MinAdvanceHours
	}
}
