package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
)

// validateRuleData валидирует поля глобального правила
func (s *Service) validateRuleData(rule *domain.BookingRule) error {
	name := strings.TrimSpace(rule.Name)
	if len(name) < domain.MinRuleNameLength || len(name) > domain.MaxRuleNameLength {
		return fmt.Errorf("%w: name must be between %d and %d characters",
			ErrInvalidInput, domain.MinRuleNameLength, domain.MaxRuleNameLength)
	}

	if !rule.Type.IsValid() {
		return fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, rule.Type)
	}

	if !rule.AppliesTo.IsValid() {
		return fmt.Errorf("%w: unknown rule scope %q", ErrInvalidInput, rule.AppliesTo)
	}

	if err := s.validateScopeIDs(rule.AppliesTo, rule.ScopeIDs); err != nil {
		return err
	}

	if rule.Priority < 0 {
		return fmt.Errorf("%w: priority must not be negative", ErrInvalidInput)
	}

	return s.validateRuleParams(rule.Params)
}

// validateScopeIDs проверяет согласованность области действия и списка ID
// Для appliesTo != all список обязателен; для all - должен быть пустым
func (s *Service) validateScopeIDs(appliesTo domain.AppliesTo, scopeIDs []string) error {
	if appliesTo == domain.AppliesToAll {
		if len(scopeIDs) > 0 {
			return fmt.Errorf("%w: scopeIds must be empty when rule applies to all", ErrInvalidInput)
		}
		return nil
	}

	if len(scopeIDs) == 0 {
		return fmt.Errorf("%w: scopeIds are required when rule applies to %s", ErrInvalidInput, appliesTo)
	}
	if len(scopeIDs) > domain.MaxScopeIDs {
		return fmt.Errorf("%w: at most %d scopeIds are allowed", ErrInvalidInput, domain.MaxScopeIDs)
	}

	for _, scopeID := range scopeIDs {
		if strings.TrimSpace(scopeID) == "" {
			return fmt.Errorf("%w: scopeIds must not contain empty values", ErrInvalidInput)
		}
		// Для услуг и барберов область задается числовыми ID
		if appliesTo == domain.AppliesToService || appliesTo == domain.AppliesToBarber {
			if _, err := strconv.ParseInt(scopeID, 10, 64); err != nil {
				return fmt.Errorf("%w: scopeId %q must be a numeric id", ErrInvalidInput, scopeID)
			}
		}
	}

	return nil
}

// validateRuleParams валидирует параметры глобального правила по его типу
func (s *Service) validateRuleParams(params domain.RuleParams) error {
	switch p := params.(type) {
	case domain.MaxAdvanceBookingParams:
		if p.MaxDays < 1 || p.MaxDays > domain.MaxAdvanceDaysLimit {
			return fmt.Errorf("%w: maxDays must be between 1 and %d", ErrInvalidInput, domain.MaxAdvanceDaysLimit)
		}
	case domain.MinAdvanceBookingParams:
		if p.MinHours < 0 || p.MinHours > domain.MaxAdvanceHoursLimit {
			return fmt.Errorf("%w: minHours must be between 0 and %d", ErrInvalidInput, domain.MaxAdvanceHoursLimit)
		}
	case domain.MaxDurationParams:
		if p.MaxMinutes < domain.MinDurationMinutes || p.MaxMinutes > domain.MaxDurationMinutes {
			return fmt.Errorf("%w: maxMinutes must be between %d and %d",
				ErrInvalidInput, domain.MinDurationMinutes, domain.MaxDurationMinutes)
		}
	case domain.HolidayRestrictionsParams:
		if len(p.Holidays) == 0 {
			return fmt.Errorf("%w: holidays list must not be empty", ErrInvalidInput)
		}
		for _, holiday := range p.Holidays {
			if _, err := time.Parse(domain.MonthDayFormat, holiday); err != nil {
				return fmt.Errorf("%w: holiday %q must be in MM-DD format", ErrInvalidInput, holiday)
			}
		}
	case domain.BlackoutDatesParams:
		if len(p.Dates) == 0 {
			return fmt.Errorf("%w: dates list must not be empty", ErrInvalidInput)
		}
		for _, date := range p.Dates {
			if _, err := time.Parse(domain.DateFormat, date); err != nil {
				return fmt.Errorf("%w: date %q must be in YYYY-MM-DD format", ErrInvalidInput, date)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported rule params", ErrInvalidInput)
	}

	return nil
}

// validateServiceRuleData валидирует поля правила услуги
func (s *Service) validateServiceRuleData(rule *domain.ServiceBookingRule) error {
	if rule.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	if !rule.Type.IsValid() {
		return fmt.Errorf("%w: unknown service rule type %q", ErrInvalidInput, rule.Type)
	}

	return s.validateServiceRuleParams(rule.Params)
}

// validateServiceRuleParams валидирует параметры правила услуги по его типу
func (s *Service) validateServiceRuleParams(params domain.ServiceRuleParams) error {
	switch p := params.(type) {
	case domain.AgeRestrictionParams:
		if p.MinAge < 0 || p.MinAge > 120 {
			return fmt.Errorf("%w: minAge must be between 0 and 120", ErrInvalidInput)
		}
		if p.MaxAge != nil {
			if *p.MaxAge < 0 || *p.MaxAge > 120 {
				return fmt.Errorf("%w: maxAge must be between 0 and 120", ErrInvalidInput)
			}
			if *p.MaxAge < p.MinAge {
				return fmt.Errorf("%w: maxAge must not be less than minAge", ErrInvalidInput)
			}
		}
	case domain.ConsultationRequiredParams:
		// Параметров нет
	case domain.PatchTestRequiredParams:
		if p.HoursBefore < 1 || p.HoursBefore > domain.MaxPatchTestHours {
			return fmt.Errorf("%w: patchTestHoursBefore must be between 1 and %d",
				ErrInvalidInput, domain.MaxPatchTestHours)
		}
	case domain.BookingFrequencyParams:
		if p.MinDaysBetween == 0 && p.MaxPerDay == 0 {
			return fmt.Errorf("%w: at least one of minDaysBetweenBookings and maxBookingsPerDay is required", ErrInvalidInput)
		}
		if p.MinDaysBetween < 0 || p.MinDaysBetween > domain.MaxDaysBetween {
			return fmt.Errorf("%w: minDaysBetweenBookings must be between 0 and %d",
				ErrInvalidInput, domain.MaxDaysBetween)
		}
		if p.MaxPerDay < 0 || p.MaxPerDay > domain.MaxBookingsPerDayCap {
			return fmt.Errorf("%w: maxBookingsPerDay must be between 0 and %d",
				ErrInvalidInput, domain.MaxBookingsPerDayCap)
		}
	case domain.DayRestrictionsParams:
		if len(p.BlockedWeekdays) == 0 {
			return fmt.Errorf("%w: blockedDaysOfWeek list must not be empty", ErrInvalidInput)
		}
		if len(p.BlockedWeekdays) >= 7 {
			return fmt.Errorf("%w: blocking every day of the week makes the service unbookable", ErrInvalidInput)
		}
		for _, day := range p.BlockedWeekdays {
			if day < time.Sunday || day > time.Saturday {
				return fmt.Errorf("%w: day of week %d is out of range", ErrInvalidInput, day)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported service rule params", ErrInvalidInput)
	}

	return nil
}
