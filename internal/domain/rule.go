package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RuleType тип глобального правила бронирования
type RuleType string

const (
	RuleMaxAdvanceBooking   RuleType = "max_advance_booking"
	RuleMinAdvanceBooking   RuleType = "min_advance_booking"
	RuleMaxDuration         RuleType = "max_duration"
	RuleHolidayRestrictions RuleType = "holiday_restrictions"
	RuleBlackoutDates       RuleType = "blackout_dates"
)

// ValidRuleTypes список допустимых типов глобальных правил
var ValidRuleTypes = []RuleType{
	RuleMaxAdvanceBooking,
	RuleMinAdvanceBooking,
	RuleMaxDuration,
	RuleHolidayRestrictions,
	RuleBlackoutDates,
}

// IsValid проверяет, что тип правила допустим
func (t RuleType) IsValid() bool {
	for _, valid := range ValidRuleTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// AppliesTo область действия глобального правила
type AppliesTo string

const (
	AppliesToAll        AppliesTo = "all"
	AppliesToService    AppliesTo = "service"
	AppliesToBarber     AppliesTo = "barber"
	AppliesToClientType AppliesTo = "client_type"
)

// IsValid проверяет, что область действия допустима
func (a AppliesTo) IsValid() bool {
	switch a {
	case AppliesToAll, AppliesToService, AppliesToBarber, AppliesToClientType:
		return true
	}
	return false
}

// RuleParams параметры глобального правила
// Закрытое множество вариантов - по одному типу параметров на каждый RuleType
type RuleParams interface {
	ruleParams()
}

// MaxAdvanceBookingParams параметры правила max_advance_booking
type MaxAdvanceBookingParams struct {
	MaxDays int `json:"max_days"`
}

// MinAdvanceBookingParams параметры правила min_advance_booking
type MinAdvanceBookingParams struct {
	MinHours int `json:"min_hours"`
}

// MaxDurationParams параметры правила max_duration
type MaxDurationParams struct {
	MaxMinutes int `json:"max_minutes"`
}

// HolidayRestrictionsParams параметры правила holiday_restrictions
// Праздники задаются в формате "MM-DD" и повторяются ежегодно
type HolidayRestrictionsParams struct {
	Holidays []string `json:"holidays"`
}

// BlackoutDatesParams параметры правила blackout_dates
// Даты задаются в формате "YYYY-MM-DD"
type BlackoutDatesParams struct {
	Dates []string `json:"dates"`
}

func (MaxAdvanceBookingParams) ruleParams()   {}
func (MinAdvanceBookingParams) ruleParams()   {}
func (MaxDurationParams) ruleParams()         {}
func (HolidayRestrictionsParams) ruleParams() {}
func (BlackoutDatesParams) ruleParams()       {}

// DecodeRuleParams декодирует JSON параметров в типизированный вариант по типу правила
func DecodeRuleParams(ruleType RuleType, data []byte) (RuleParams, error) {
	switch ruleType {
	case RuleMaxAdvanceBooking:
		var p MaxAdvanceBookingParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode max_advance_booking params: %w", err)
		}
		return p, nil
	case RuleMinAdvanceBooking:
		var p MinAdvanceBookingParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode min_advance_booking params: %w", err)
		}
		return p, nil
	case RuleMaxDuration:
		var p MaxDurationParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode max_duration params: %w", err)
		}
		return p, nil
	case RuleHolidayRestrictions:
		var p HolidayRestrictionsParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode holiday_restrictions params: %w", err)
		}
		return p, nil
	case RuleBlackoutDates:
		var p BlackoutDatesParams
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("domain: decode blackout_dates params: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("domain: unknown rule type %q", ruleType)
	}
}

// EncodeRuleParams кодирует типизированные параметры в JSON для хранения
func EncodeRuleParams(params RuleParams) ([]byte, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("domain: encode rule params: %w", err)
	}
	return data, nil
}

// BookingRule глобальное правило бронирования
// Действует на все бронирования бизнеса в пределах своей области (AppliesTo)
type BookingRule struct {
	ID        int64
	Name      string
	Type      RuleType
	Params    RuleParams
	AppliesTo AppliesTo
	ScopeIDs  []string // ID услуг/барберов или названия категорий клиентов; непустой, если AppliesTo != all
	Priority  int      // больше = раньше в списке нарушений
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// InScopeID проверяет, что числовой ID входит в область действия правила
func (r *BookingRule) InScopeID(id int64) bool {
	return r.InScope(strconv.FormatInt(id, 10))
}

// InScope проверяет, что значение входит в область действия правила
func (r *BookingRule) InScope(value string) bool {
	for _, scopeID := range r.ScopeIDs {
		if scopeID == value {
			return true
		}
	}
	return false
}

// BookingRulesFilter фильтр для получения глобальных правил
type BookingRulesFilter struct {
	Type     *RuleType // фильтр по типу правила (опционально)
	IsActive *bool     // фильтр по активности (опционально, nil - все)
}
