package validate_booking

import (
	"fmt"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/types"
)

// evaluateBusinessConstraints проверяет рабочие часы и политику бронирования день-в-день
// Отсутствие настроек - не ошибка: проверка не добавляет нарушений
// (fail-open только для отсутствующей конфигурации, не для проваленных проверок)
func evaluateBusinessConstraints(
	settings *domain.BookingSettings,
	candidate *domain.CandidateBooking,
	now time.Time,
) []string {
	if settings == nil {
		return nil
	}

	violations := make([]string, 0)

	// Начало раньше открытия
	if candidate.BookingTime.IsBefore(settings.BusinessStartTime) {
		violations = append(violations,
			fmt.Sprintf("Bookings are not available before %s", settings.BusinessStartTime))
	}

	// Окончание (с учётом буфера между записями) позже закрытия
	// Окончание ровно в момент закрытия допустимо
	end, err := candidate.BookingTime.AddMinutes(candidate.DurationMinutes + settings.BufferTimeMinutes)
	if err != nil || end.IsAfter(settings.BusinessEndTime) {
		violations = append(violations,
			fmt.Sprintf("Booking would end after closing time (%s)", settings.BusinessEndTime))
	}

	// Политика день-в-день: действует только когда дата бронирования - сегодня
	// по календарю бизнеса
	if sameCalendarDay(now, candidate.BookingDate) {
		if !settings.AllowSameDayBooking {
			violations = append(violations, "Same-day booking is not available, please book for a future date")
		} else if types.NewTimeString(now).IsAfter(settings.SameDayCutoffTime) {
			// Бронирование ровно в момент cutoff ещё допустимо
			violations = append(violations,
				fmt.Sprintf("Past same-day cutoff time (%s)", settings.SameDayCutoffTime))
		}
	}

	return violations
}
