package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestValidateRuleParams(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nopLogger{})

	tests := []struct {
		name    string
		params  domain.RuleParams
		wantErr bool
	}{
		{"max advance at lower bound", domain.MaxAdvanceBookingParams{MaxDays: 1}, false},
		{"max advance at upper bound", domain.MaxAdvanceBookingParams{MaxDays: 365}, false},
		{"max advance zero", domain.MaxAdvanceBookingParams{MaxDays: 0}, true},
		{"max advance above cap", domain.MaxAdvanceBookingParams{MaxDays: 366}, true},
		{"min advance zero allowed", domain.MinAdvanceBookingParams{MinHours: 0}, false},
		{"min advance at cap", domain.MinAdvanceBookingParams{MinHours: 720}, false},
		{"min advance above cap", domain.MinAdvanceBookingParams{MinHours: 721}, true},
		{"max duration at lower bound", domain.MaxDurationParams{MaxMinutes: 5}, false},
		{"max duration at upper bound", domain.MaxDurationParams{MaxMinutes: 480}, false},
		{"max duration too short", domain.MaxDurationParams{MaxMinutes: 4}, true},
		{"holidays valid", domain.HolidayRestrictionsParams{Holidays: []string{"01-01", "12-25"}}, false},
		{"holidays empty", domain.HolidayRestrictionsParams{Holidays: nil}, true},
		{"holidays bad format", domain.HolidayRestrictionsParams{Holidays: []string{"2025-01-01"}}, true},
		{"holidays impossible date", domain.HolidayRestrictionsParams{Holidays: []string{"13-01"}}, true},
		{"blackout valid", domain.BlackoutDatesParams{Dates: []string{"2025-12-31"}}, false},
		{"blackout empty", domain.BlackoutDatesParams{Dates: nil}, true},
		{"blackout bad format", domain.BlackoutDatesParams{Dates: []string{"12-31"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validateRuleParams(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateScopeIDs(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nopLogger{})

	tests := []struct {
		name      string
		appliesTo domain.AppliesTo
		scopeIDs  []string
		wantErr   bool
	}{
		{"all with no scope", domain.AppliesToAll, nil, false},
		{"all with scope", domain.AppliesToAll, []string{"5"}, true},
		{"service numeric scope", domain.AppliesToService, []string{"5", "12"}, false},
		{"service non numeric scope", domain.AppliesToService, []string{"haircut"}, true},
		{"service empty scope", domain.AppliesToService, nil, true},
		{"barber numeric scope", domain.AppliesToBarber, []string{"3"}, false},
		{"client type named scope", domain.AppliesToClientType, []string{"vip", "new"}, false},
		{"blank scope value", domain.AppliesToClientType, []string{"  "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validateScopeIDs(tt.appliesTo, tt.scopeIDs)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateServiceRuleParams(t *testing.T) {
	svc := NewService(nil, nil, nil, nil, nopLogger{})

	tests := []struct {
		name    string
		params  domain.ServiceRuleParams
		wantErr bool
	}{
		{"age min only", domain.AgeRestrictionParams{MinAge: 18}, false},
		{"age min and max", domain.AgeRestrictionParams{MinAge: 18, MaxAge: intPtr(65)}, false},
		{"age max equals min", domain.AgeRestrictionParams{MinAge: 18, MaxAge: intPtr(18)}, false},
		{"age max below min", domain.AgeRestrictionParams{MinAge: 18, MaxAge: intPtr(17)}, true},
		{"age negative", domain.AgeRestrictionParams{MinAge: -1}, true},
		{"age above cap", domain.AgeRestrictionParams{MinAge: 121}, true},
		{"consultation has no params", domain.ConsultationRequiredParams{}, false},
		{"patch test at lower bound", domain.PatchTestRequiredParams{HoursBefore: 1}, false},
		{"patch test at cap", domain.PatchTestRequiredParams{HoursBefore: 720}, false},
		{"patch test zero", domain.PatchTestRequiredParams{HoursBefore: 0}, true},
		{"frequency min days only", domain.BookingFrequencyParams{MinDaysBetween: 28}, false},
		{"frequency max per day only", domain.BookingFrequencyParams{MaxPerDay: 1}, false},
		{"frequency both empty", domain.BookingFrequencyParams{}, true},
		{"frequency days above cap", domain.BookingFrequencyParams{MinDaysBetween: 366}, true},
		{"frequency per day above cap", domain.BookingFrequencyParams{MaxPerDay: 21}, true},
		{"day restrictions valid", domain.DayRestrictionsParams{BlockedWeekdays: []time.Weekday{time.Sunday, time.Monday}}, false},
		{"day restrictions empty", domain.DayRestrictionsParams{BlockedWeekdays: nil}, true},
		{"day restrictions full week", domain.DayRestrictionsParams{BlockedWeekdays: []time.Weekday{0, 1, 2, 3, 4, 5, 6}}, true},
		{"day restrictions out of range", domain.DayRestrictionsParams{BlockedWeekdays: []time.Weekday{7}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.validateServiceRuleParams(tt.params)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
