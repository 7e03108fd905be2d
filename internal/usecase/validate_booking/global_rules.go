package validate_booking

import (
	"fmt"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
)

// evaluateGlobalRules проверяет кандидата против активных глобальных правил
// Правила приходят упорядоченными по приоритету (выше - раньше);
// приоритет влияет только на порядок нарушений в ответе, проверяются все
func evaluateGlobalRules(
	rules []*domain.BookingRule,
	candidate *domain.CandidateBooking,
	client *clientservice.Client,
	now time.Time,
) []string {
	violations := make([]string, 0)

	for _, rule := range rules {
		if !ruleAppliesToCandidate(rule, candidate, client) {
			continue
		}
		violations = append(violations, checkGlobalRule(rule, candidate, now)...)
	}

	return violations
}

// ruleAppliesToCandidate проверяет область действия правила
// client_type требует известного клиента: без записи в CRM правило не применяется
func ruleAppliesToCandidate(rule *domain.BookingRule, candidate *domain.CandidateBooking, client *clientservice.Client) bool {
	switch rule.AppliesTo {
	case domain.AppliesToAll:
		return true
	case domain.AppliesToService:
		return candidate.ServiceID != nil && rule.InScopeID(*candidate.ServiceID)
	case domain.AppliesToBarber:
		return candidate.BarberID != nil && rule.InScopeID(*candidate.BarberID)
	case domain.AppliesToClientType:
		return client != nil && rule.InScope(client.Tier)
	default:
		return false
	}
}

// checkGlobalRule выполняет проверку одного глобального правила
func checkGlobalRule(rule *domain.BookingRule, candidate *domain.CandidateBooking, now time.Time) []string {
	switch params := rule.Params.(type) {
	case domain.MaxAdvanceBookingParams:
		if daysBetween(now, candidate.BookingDate) > params.MaxDays {
			return []string{fmt.Sprintf("Bookings can be made at most %d days in advance", params.MaxDays)}
		}
	case domain.MinAdvanceBookingParams:
		bookingAt, err := candidate.BookingTime.OnDate(candidate.BookingDate)
		if err != nil {
			// Формат времени проверен на входе usecase
			return nil
		}
		if bookingAt.Sub(now) < time.Duration(params.MinHours)*time.Hour {
			return []string{fmt.Sprintf("Bookings require at least %d hours advance notice", params.MinHours)}
		}
	case domain.MaxDurationParams:
		if candidate.DurationMinutes > params.MaxMinutes {
			return []string{fmt.Sprintf("Maximum booking duration: %d minutes", params.MaxMinutes)}
		}
	case domain.HolidayRestrictionsParams:
		monthDay := candidate.BookingDate.Format(domain.MonthDayFormat)
		for _, holiday := range params.Holidays {
			if holiday == monthDay {
				return []string{"Bookings are not available on this holiday"}
			}
		}
	case domain.BlackoutDatesParams:
		date := candidate.BookingDate.Format(domain.DateFormat)
		for _, blackout := range params.Dates {
			if blackout == date {
				return []string{"Bookings are not available on this date"}
			}
		}
	}
	return nil
}
