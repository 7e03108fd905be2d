package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServiceRuleType тип правила, привязанного к конкретной услуге
type ServiceRuleType string

const (
	ServiceRuleAgeRestriction       ServiceRuleType = "age_restriction"
	ServiceRuleConsultationRequired ServiceRuleType = "consultation_required"
	ServiceRulePatchTestRequired    ServiceRuleType = "patch_test_required"
	ServiceRuleBookingFrequency     ServiceRuleType = "booking_frequency"
	ServiceRuleDayRestrictions      ServiceRuleType = "day_restrictions"
)

// ValidServiceRuleTypes список допустимых типов правил услуг
var ValidServiceRuleTypes = []ServiceRuleType{
	ServiceRuleAgeRestriction,
	ServiceRuleConsultationRequired,
	ServiceRulePatchTestRequired,
	ServiceRuleBookingFrequency,
	ServiceRuleDayRestrictions,
}

// IsValid проверяет, что тип правила допустим
func (t ServiceRuleType) IsValid() bool {
	for _, valid := range ValidServiceRuleTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// ServiceRuleParams параметры правила услуги
// Закрытое множество вариантов - по одному типу параметров на каждый ServiceRuleType
type ServiceRuleParams interface {
	serviceRuleParams()
}

// AgeRestrictionParams параметры правила age_restriction
// Возраст считается в полных годах на дату бронирования
type AgeRestrictionParams struct {
	MinAge int  `json:"min_age"`
	MaxAge *int `json:"max_age,omitempty"` // nil = без верхней границы
}

// ConsultationRequiredParams параметры правила consultation_required
type ConsultationRequiredParams struct{}

// PatchTestRequiredParams параметры правила patch_test_required
// Тест считается действительным, если выполнен не раньше, чем HoursBefore часов назад
type PatchTestRequiredParams struct {
	HoursBefore int `json:"patch_test_hours_before"`
}

// BookingFrequencyParams параметры правила booking_frequency
type BookingFrequencyParams struct {
	MinDaysBetween int `json:"min_days_between_bookings"`
	MaxPerDay      int `json:"max_bookings_per_day"`
}

// DayRestrictionsParams параметры правила day_restrictions
// Дни недели по time.Weekday (0 = Sunday)
type DayRestrictionsParams struct {
	BlockedWeekdays []time.Weekday `json:"blocked_days_of_week"`
}

// IsBlocked проверяет, что день недели заблокирован
func (p DayRestrictionsParams) IsBlocked(day time.Weekday) bool {
	for _, blocked := range p.BlockedWeekdays {
		if blocked == day {
			return true
		}
	}
	return false
}

func (AgeRestrictionParams) serviceRuleParams()       {}
func (ConsultationRequiredParams) serviceRuleParams() {}
func (PatchTestRequiredParams) serviceRuleParams()    {}
func (BookingFrequencyParams) serviceRuleParams()     {}
func (DayRestrictionsParams) serviceRuleParams()      {}

// DecodeServiceRuleParams декодирует JSON параметров в типизированный вариант
func DecodeServiceRuleParams(ruleType ServiceRuleType, data []byte) (ServiceRuleParams, error) {
	switch ruleType {
	case ServiceRuleAgeRestriction:
		var p AgeRestrictionParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode age_restriction params: %w", err)
		}
		return p, nil
	case ServiceRuleConsultationRequired:
		var p ConsultationRequiredParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode consultation_required params: %w", err)
		}
		return p, nil
	case ServiceRulePatchTestRequired:
		var p PatchTestRequiredParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode patch_test_required params: %w", err)
		}
		return p, nil
	case ServiceRuleBookingFrequency:
		var p BookingFrequencyParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode booking_frequency params: %w", err)
		}
		return p, nil
	case ServiceRuleDayRestrictions:
		var p DayRestrictionsParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode day_restrictions params: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("domain: unknown service rule type %q", ruleType)
	}
}

// EncodeServiceRuleParams кодирует типизированные параметры в JSON для хранения
func EncodeServiceRuleParams(params ServiceRuleParams) ([]byte, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("domain: encode service rule params: %w", err)
	}
	return data, nil
}

// ServiceBookingRule правило бронирования конкретной услуги
type ServiceBookingRule struct {
	ID        int64
	ServiceID int64
	Type      ServiceRuleType
	Params    ServiceRuleParams
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ServiceRulesFilter фильтр для получения правил услуг
type ServiceRulesFilter struct {
	ServiceID *int64
	Type      *ServiceRuleType
	IsActive  *bool
}
