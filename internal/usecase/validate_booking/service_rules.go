package validate_booking

import (
	"fmt"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
)

// evaluateServiceRules проверяет кандидата против активных правил его услуги
// Правила приходят уже отфильтрованными по is_active
// Все правила проверяются без short-circuit - клиент получает полный список проблем
func evaluateServiceRules(
	rules []*domain.ServiceBookingRule,
	candidate *domain.CandidateBooking,
	client *clientservice.Client,
	history []*clientservice.Appointment,
	now time.Time,
) []string {
	violations := make([]string, 0)

	for _, rule := range rules {
		switch params := rule.Params.(type) {
		case domain.AgeRestrictionParams:
			violations = append(violations, checkAgeRestriction(params, candidate, client)...)
		case domain.ConsultationRequiredParams:
			violations = append(violations, checkConsultationRequired(history)...)
		case domain.PatchTestRequiredParams:
			violations = append(violations, checkPatchTestRequired(params, history, now)...)
		case domain.BookingFrequencyParams:
			violations = append(violations, checkBookingFrequency(params, candidate, history)...)
		case domain.DayRestrictionsParams:
			violations = append(violations, checkDayRestrictions(params, candidate)...)
		}
	}

	return violations
}

// checkAgeRestriction проверяет возраст клиента в полных годах на дату бронирования
// Отсутствие даты рождения не блокирует бронирование по этому правилу
func checkAgeRestriction(params domain.AgeRestrictionParams, candidate *domain.CandidateBooking, client *clientservice.Client) []string {
	if client == nil {
		return nil
	}

	age, known := client.AgeAt(candidate.BookingDate)
	if !known {
		return nil
	}

	var violations []string
	if age < params.MinAge {
		violations = append(violations, fmt.Sprintf("Minimum age requirement: %d years", params.MinAge))
	}
	if params.MaxAge != nil && age > *params.MaxAge {
		violations = append(violations, fmt.Sprintf("Maximum age limit: %d years", *params.MaxAge))
	}
	return violations
}

// checkConsultationRequired проверяет, что у клиента есть завершённая консультация
func checkConsultationRequired(history []*clientservice.Appointment) []string {
	for _, appt := range history {
		if appt.Status == clientservice.AppointmentCompleted && appt.IsConsultation() {
			return nil
		}
	}
	return []string{"A consultation is required before booking this service"}
}

// checkPatchTestRequired проверяет наличие действительного теста на аллергию
// Тест действителен, если завершён в окне [now - HoursBefore, now];
// более старый тест правило не удовлетворяет
func checkPatchTestRequired(params domain.PatchTestRequiredParams, history []*clientservice.Appointment, now time.Time) []string {
	windowStart := now.Add(-time.Duration(params.HoursBefore) * time.Hour)

	for _, appt := range history {
		if appt.Status != clientservice.AppointmentCompleted || !appt.IsPatchTest() {
			continue
		}
		if !appt.StartAt.Before(windowStart) && !appt.StartAt.After(now) {
			return nil
		}
	}

	return []string{fmt.Sprintf("A patch test within the last %d hours is required for this service", params.HoursBefore)}
}

// checkBookingFrequency проверяет лимиты частоты бронирования этой услуги
func checkBookingFrequency(params domain.BookingFrequencyParams, candidate *domain.CandidateBooking, history []*clientservice.Appointment) []string {
	if candidate.ServiceID == nil {
		return nil
	}

	var violations []string

	// (a) Лимит бронирований на день: учитываются все неотменённые записи услуги
	if params.MaxPerDay > 0 {
		sameDay := 0
		for _, appt := range history {
			if appt.ServiceID != *candidate.ServiceID || appt.IsCancelled() {
				continue
			}
			if sameCalendarDay(appt.StartAt, candidate.BookingDate) {
				sameDay++
			}
		}
		if sameDay >= params.MaxPerDay {
			violations = append(violations, fmt.Sprintf("Maximum %d booking(s) per day for this service", params.MaxPerDay))
		}
	}

	// (b) Минимальный интервал между бронированиями услуги
	if params.MinDaysBetween > 0 {
		if last, ok := mostRecentForService(history, *candidate.ServiceID); ok {
			daysSince := daysBetween(last.StartAt, candidate.BookingDate)
			if daysSince >= 0 && daysSince < params.MinDaysBetween {
				violations = append(violations, fmt.Sprintf("Minimum %d days required between bookings", params.MinDaysBetween))
			}
		}
	}

	return violations
}

// checkDayRestrictions проверяет, что день недели бронирования не заблокирован
func checkDayRestrictions(params domain.DayRestrictionsParams, candidate *domain.CandidateBooking) []string {
	weekday := candidate.BookingDate.Weekday()
	if params.IsBlocked(weekday) {
		return []string{fmt.Sprintf("This service is not available on %s", weekday)}
	}
	return nil
}

// mostRecentForService находит самую позднюю неотменённую запись услуги
func mostRecentForService(history []*clientservice.Appointment, serviceID int64) (*clientservice.Appointment, bool) {
	var latest *clientservice.Appointment
	for _, appt := range history {
		if appt.ServiceID != serviceID || appt.IsCancelled() {
			continue
		}
		if latest == nil || appt.StartAt.After(latest.StartAt) {
			latest = appt
		}
	}
	return latest, latest != nil
}

// sameCalendarDay проверяет, что момент времени приходится на ту же календарную дату
func sameCalendarDay(t time.Time, date time.Time) bool {
	y1, m1, d1 := t.Date()
	y2, m2, d2 := date.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// daysBetween возвращает количество календарных дней от from до to
func daysBetween(from, to time.Time) int {
	fromDate := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDate := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDate.Sub(fromDate) / (24 * time.Hour))
}
