package validate_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
	"github.com/sharpcut/SharpCut-RulesService/pkg/ptr"
)

// fixedNow фиксированный момент "сейчас" для всех тестов движка
var fixedNow = time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC) // понедельник

func dateOnly(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func serviceRule(serviceID int64, ruleType domain.ServiceRuleType, params domain.ServiceRuleParams) *domain.ServiceBookingRule {
	return &domain.ServiceBookingRule{
		ID:        1,
		ServiceID: serviceID,
		Type:      ruleType,
		Params:    params,
		IsActive:  true,
	}
}

func candidateForService(serviceID int64, date time.Time) *domain.CandidateBooking {
	return &domain.CandidateBooking{
		UserID:          100,
		ServiceID:       ptr.Ptr(serviceID),
		ClientID:        ptr.Ptr(int64(7)),
		BookingDate:     date,
		BookingTime:     "10:00",
		DurationMinutes: 45,
	}
}

func clientBornOn(dob time.Time) *clientservice.Client {
	return &clientservice.Client{
		ID:          7,
		UserID:      100,
		DateOfBirth: &dob,
		Status:      clientservice.StatusActive,
		Tier:        "regular",
	}
}

func TestCheckAgeRestriction(t *testing.T) {
	bookingDate := dateOnly(2025, 6, 20)
	rule := serviceRule(5, domain.ServiceRuleAgeRestriction, domain.AgeRestrictionParams{MinAge: 16})

	tests := []struct {
		name       string
		client     *clientservice.Client
		wantFirst  string
		wantEmpty  bool
	}{
		{
			name:      "client exactly at min age is allowed",
			client:    clientBornOn(dateOnly(2009, 6, 20)), // ровно 16 на дату бронирования
			wantEmpty: true,
		},
		{
			name:      "client one day younger is rejected",
			client:    clientBornOn(dateOnly(2009, 6, 21)), // 16 исполнится на следующий день
			wantFirst: "Minimum age requirement: 16 years",
		},
		{
			name:      "fourteen year old is rejected",
			client:    clientBornOn(dateOnly(2011, 3, 1)),
			wantFirst: "Minimum age requirement: 16 years",
		},
		{
			name:      "missing date of birth does not block",
			client:    &clientservice.Client{ID: 7, Status: clientservice.StatusActive},
			wantEmpty: true,
		},
		{
			name:      "no client record does not block",
			client:    nil,
			wantEmpty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := evaluateServiceRules(
				[]*domain.ServiceBookingRule{rule},
				candidateForService(5, bookingDate),
				tt.client,
				nil,
				fixedNow,
			)

			if tt.wantEmpty {
				assert.Empty(t, violations)
				return
			}
			require.Len(t, violations, 1)
			assert.Equal(t, tt.wantFirst, violations[0])
		})
	}
}

func TestCheckAgeRestrictionMaxAge(t *testing.T) {
	bookingDate := dateOnly(2025, 6, 20)
	rule := serviceRule(5, domain.ServiceRuleAgeRestriction, domain.AgeRestrictionParams{MinAge: 18, MaxAge: ptr.Ptr(65)})

	// Ровно 65 - допустимо
	violations := evaluateServiceRules(
		[]*domain.ServiceBookingRule{rule},
		candidateForService(5, bookingDate),
		clientBornOn(dateOnly(1960, 6, 20)),
		nil,
		fixedNow,
	)
	assert.Empty(t, violations)

	// 66 - нарушение верхней границы
	violations = evaluateServiceRules(
		[]*domain.ServiceBookingRule{rule},
		candidateForService(5, bookingDate),
		clientBornOn(dateOnly(1959, 6, 19)),
		nil,
		fixedNow,
	)
	require.Len(t, violations, 1)
	assert.Equal(t, "Maximum age limit: 65 years", violations[0])
}

func TestCheckConsultationRequired(t *testing.T) {
	bookingDate := dateOnly(2025, 6, 20)
	rule := serviceRule(5, domain.ServiceRuleConsultationRequired, domain.ConsultationRequiredParams{})
	client := clientBornOn(dateOnly(1990, 1, 1))

	t.Run("new client without history gets violation", func(t *testing.T) {
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			nil,
			fixedNow,
		)
		require.Len(t, violations, 1)
		assert.Contains(t, violations[0], "consultation")
	})

	t.Run("completed consultation satisfies the rule", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        1,
				ServiceID: 5,
				Status:    clientservice.AppointmentCompleted,
				StartAt:   fixedNow.AddDate(0, -1, 0),
				Notes:     "Colour consultation completed",
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		assert.Empty(t, violations)
	})

	t.Run("cancelled consultation does not satisfy the rule", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        1,
				ServiceID: 5,
				Status:    clientservice.AppointmentCancelled,
				StartAt:   fixedNow.AddDate(0, -1, 0),
				Notes:     "Consultation",
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		require.Len(t, violations, 1)
	})
}

func TestCheckPatchTestRequired(t *testing.T) {
	bookingDate := dateOnly(2025, 6, 20)
	rule := serviceRule(5, domain.ServiceRulePatchTestRequired, domain.PatchTestRequiredParams{HoursBefore: 48})
	client := clientBornOn(dateOnly(1990, 1, 1))

	patchTestAt := func(t time.Time) []*clientservice.Appointment {
		return []*clientservice.Appointment{
			{
				ID:        2,
				ServiceID: 9,
				Status:    clientservice.AppointmentCompleted,
				StartAt:   t,
				Notes:     "Patch test OK",
			},
		}
	}

	tests := []struct {
		name      string
		history   []*clientservice.Appointment
		wantValid bool
	}{
		{
			name:      "patch test inside the window satisfies",
			history:   patchTestAt(fixedNow.Add(-24 * time.Hour)),
			wantValid: true,
		},
		{
			name:      "patch test exactly at window start satisfies",
			history:   patchTestAt(fixedNow.Add(-48 * time.Hour)),
			wantValid: true,
		},
		{
			name:      "stale patch test does not satisfy",
			history:   patchTestAt(fixedNow.Add(-49 * time.Hour)),
			wantValid: false,
		},
		{
			name:      "no history at all",
			history:   nil,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := evaluateServiceRules(
				[]*domain.ServiceBookingRule{rule},
				candidateForService(5, bookingDate),
				client,
				tt.history,
				fixedNow,
			)

			if tt.wantValid {
				assert.Empty(t, violations)
			} else {
				require.Len(t, violations, 1)
				assert.Equal(t, "A patch test within the last 48 hours is required for this service", violations[0])
			}
		})
	}
}

func TestCheckBookingFrequency(t *testing.T) {
	bookingDate := dateOnly(2025, 6, 20)
	rule := serviceRule(5, domain.ServiceRuleBookingFrequency, domain.BookingFrequencyParams{
		MinDaysBetween: 28,
		MaxPerDay:      1,
	})
	client := clientBornOn(dateOnly(1990, 1, 1))

	t.Run("recent same-service appointment violates min days", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        3,
				ServiceID: 5,
				Status:    clientservice.AppointmentCompleted,
				StartAt:   dateOnly(2025, 6, 10), // 10 дней до даты бронирования
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		require.Len(t, violations, 1)
		assert.Equal(t, "Minimum 28 days required between bookings", violations[0])
	})

	t.Run("appointment outside the window passes", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        3,
				ServiceID: 5,
				Status:    clientservice.AppointmentCompleted,
				StartAt:   dateOnly(2025, 5, 1),
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		assert.Empty(t, violations)
	})

	t.Run("cancelled appointments are ignored", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        3,
				ServiceID: 5,
				Status:    clientservice.AppointmentCancelled,
				StartAt:   dateOnly(2025, 6, 10),
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		assert.Empty(t, violations)
	})

	t.Run("existing same-day appointment violates max per day", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        4,
				ServiceID: 5,
				Status:    clientservice.AppointmentScheduled,
				StartAt:   bookingDate.Add(9 * time.Hour),
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		// Нарушены обе проверки частоты: лимит на день и минимальный интервал
		require.Len(t, violations, 2)
		assert.Equal(t, "Maximum 1 booking(s) per day for this service", violations[0])
		assert.Equal(t, "Minimum 28 days required between bookings", violations[1])
	})

	t.Run("other service appointments do not count", func(t *testing.T) {
		history := []*clientservice.Appointment{
			{
				ID:        5,
				ServiceID: 6,
				Status:    clientservice.AppointmentCompleted,
				StartAt:   dateOnly(2025, 6, 18),
			},
		}
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, bookingDate),
			client,
			history,
			fixedNow,
		)
		assert.Empty(t, violations)
	})
}

func TestCheckDayRestrictions(t *testing.T) {
	rule := serviceRule(5, domain.ServiceRuleDayRestrictions, domain.DayRestrictionsParams{
		BlockedWeekdays: []time.Weekday{time.Sunday, time.Monday},
	})
	client := clientBornOn(dateOnly(1990, 1, 1))

	t.Run("blocked weekday violates", func(t *testing.T) {
		sunday := dateOnly(2025, 6, 22)
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, sunday),
			client,
			nil,
			fixedNow,
		)
		require.Len(t, violations, 1)
		assert.Equal(t, "This service is not available on Sunday", violations[0])
	})

	t.Run("open weekday passes", func(t *testing.T) {
		friday := dateOnly(2025, 6, 20)
		violations := evaluateServiceRules(
			[]*domain.ServiceBookingRule{rule},
			candidateForService(5, friday),
			client,
			nil,
			fixedNow,
		)
		assert.Empty(t, violations)
	})
}
