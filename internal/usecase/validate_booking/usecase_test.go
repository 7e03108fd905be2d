package validate_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/settings"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
	"github.com/sharpcut/SharpCut-RulesService/pkg/ptr"
)

// --- фейки зависимостей ---

type fakeRuleRepo struct {
	rules []*domain.BookingRule
	err   error
}

func (f *fakeRuleRepo) ListActive(_ context.Context) ([]*domain.BookingRule, error) {
	return f.rules, f.err
}

type fakeServiceRuleRepo struct {
	rules []*domain.ServiceBookingRule
	err   error
}

func (f *fakeServiceRuleRepo) ListActiveByService(_ context.Context, _ int64) ([]*domain.ServiceBookingRule, error) {
	return f.rules, f.err
}

type fakeSettingsRepo struct {
	settings *domain.BookingSettings
	err      error
}

func (f *fakeSettingsRepo) Get(_ context.Context) (*domain.BookingSettings, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.settings == nil {
		return nil, settings.ErrSettingsNotFound
	}
	return f.settings, nil
}

type fakeClientService struct {
	client       *clientservice.Client
	clientErr    error
	byUserClient *clientservice.Client
	byUserErr    error
	history      []*clientservice.Appointment
	historyErr   error
}

func (f *fakeClientService) GetClient(_ context.Context, _ int64) (*clientservice.Client, error) {
	return f.client, f.clientErr
}

func (f *fakeClientService) GetClientByUserID(_ context.Context, _ int64) (*clientservice.Client, error) {
	return f.byUserClient, f.byUserErr
}

func (f *fakeClientService) GetAppointmentHistory(_ context.Context, _ int64, _ *int64) ([]*clientservice.Appointment, error) {
	return f.history, f.historyErr
}

type fakeTxManager struct{}

func (f *fakeTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type engineFixture struct {
	rules        *fakeRuleRepo
	serviceRules *fakeServiceRuleRepo
	settings     *fakeSettingsRepo
	clients      *fakeClientService
	uc           *UseCase
}

func newEngineFixture() *engineFixture {
	f := &engineFixture{
		rules:        &fakeRuleRepo{},
		serviceRules: &fakeServiceRuleRepo{},
		settings:     &fakeSettingsRepo{settings: testSettings()},
		clients:      &fakeClientService{byUserErr: clientservice.ErrClientNotFound},
	}
	f.uc = NewUseCase(f.rules, f.serviceRules, f.settings, f.clients, &fakeTxManager{}, nopLogger{})
	f.uc.timeProvider = &fixedTimeProvider{now: fixedNow}
	return f
}

func validRequest() *Request {
	return &Request{
		UserID:          100,
		ServiceID:       ptr.Ptr(int64(5)),
		BookingDate:     dateOnly(2025, 6, 20),
		BookingTime:     "10:00",
		DurationMinutes: 45,
	}
}

// --- тесты ---

func TestExecuteValidBooking(t *testing.T) {
	f := newEngineFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
	assert.Empty(t, resp.Violations)
}

func TestExecuteInvalidInput(t *testing.T) {
	f := newEngineFixture()

	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"zero user id", func(r *Request) { r.UserID = 0 }},
		{"negative service id", func(r *Request) { r.ServiceID = ptr.Ptr(int64(-1)) }},
		{"zero booking date", func(r *Request) { r.BookingDate = time.Time{} }},
		{"empty booking time", func(r *Request) { r.BookingTime = "" }},
		{"malformed booking time", func(r *Request) { r.BookingTime = "25:99" }},
		{"zero duration", func(r *Request) { r.DurationMinutes = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecuteCollectsViolationsFromAllLayers(t *testing.T) {
	f := newEngineFixture()

	// Слой услуги: заблокированная пятница
	f.serviceRules.rules = []*domain.ServiceBookingRule{
		serviceRule(5, domain.ServiceRuleDayRestrictions, domain.DayRestrictionsParams{
			BlockedWeekdays: []time.Weekday{time.Friday},
		}),
	}
	// Глобальный слой: максимум 30 минут
	f.rules.rules = []*domain.BookingRule{
		globalRule(domain.RuleMaxDuration, domain.MaxDurationParams{MaxMinutes: 30}, 10),
	}
	// Клиентский слой: заблокированный клиент
	f.clients.client = &clientservice.Client{ID: 7, Status: clientservice.StatusBlocked}
	// Бизнес-слой: запись до открытия
	req := validRequest()
	req.ClientID = ptr.Ptr(int64(7))
	req.BookingTime = "08:00"
	req.DurationMinutes = 45

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.IsValid)
	require.Len(t, resp.Violations, 4)
	// Порядок слоёв фиксирован: услуга, глобальные, клиент, бизнес
	assert.Equal(t, "This service is not available on Friday", resp.Violations[0])
	assert.Equal(t, "Maximum booking duration: 30 minutes", resp.Violations[1])
	assert.Equal(t, "Client account is temporarily blocked, please contact the barbershop", resp.Violations[2])
	assert.Equal(t, "Bookings are not available before 09:00", resp.Violations[3])
}

func TestExecuteIsDeterministic(t *testing.T) {
	f := newEngineFixture()
	f.rules.rules = []*domain.BookingRule{
		globalRule(domain.RuleMaxDuration, domain.MaxDurationParams{MaxMinutes: 30}, 10),
	}
	req := validRequest()
	req.DurationMinutes = 45

	first, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		next, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestExecuteFailClosed(t *testing.T) {
	t.Run("rule repository failure", func(t *testing.T) {
		f := newEngineFixture()
		f.rules.err = errors.New("connection refused")

		resp, err := f.uc.Execute(context.Background(), validRequest())
		require.NoError(t, err)
		assert.False(t, resp.IsValid)
		require.Len(t, resp.Violations, 1)
		assert.Equal(t, msgValidationUnavailable, resp.Violations[0])
	})

	t.Run("explicit client lookup failure", func(t *testing.T) {
		f := newEngineFixture()
		f.clients.clientErr = clientservice.ErrInternal

		req := validRequest()
		req.ClientID = ptr.Ptr(int64(7))

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, resp.IsValid)
		require.Len(t, resp.Violations, 1)
		assert.Equal(t, msgValidationUnavailable, resp.Violations[0])
	})

	t.Run("explicit client not found is also fail closed", func(t *testing.T) {
		f := newEngineFixture()
		f.clients.clientErr = clientservice.ErrClientNotFound

		req := validRequest()
		req.ClientID = ptr.Ptr(int64(7))

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, resp.IsValid)
	})

	t.Run("history load failure", func(t *testing.T) {
		f := newEngineFixture()
		f.serviceRules.rules = []*domain.ServiceBookingRule{
			serviceRule(5, domain.ServiceRuleConsultationRequired, domain.ConsultationRequiredParams{}),
		}
		f.clients.client = &clientservice.Client{ID: 7, Status: clientservice.StatusActive}
		f.clients.historyErr = errors.New("timeout")

		req := validRequest()
		req.ClientID = ptr.Ptr(int64(7))

		resp, err := f.uc.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, resp.IsValid)
		require.Len(t, resp.Violations, 1)
		assert.Equal(t, msgValidationUnavailable, resp.Violations[0])
	})
}

func TestExecuteUnknownUserPassesClientTypeRules(t *testing.T) {
	// Пользователь без записи в CRM: правила с областью client_type
	// не применяются, остальные работают
	f := newEngineFixture()

	scoped := globalRule(domain.RuleMinAdvanceBooking, domain.MinAdvanceBookingParams{MinHours: 72}, 10)
	scoped.AppliesTo = domain.AppliesToClientType
	scoped.ScopeIDs = []string{"new"}
	f.rules.rules = []*domain.BookingRule{scoped}

	req := validRequest()
	req.BookingDate = dateOnly(2025, 6, 17) // менее 72 часов от fixedNow

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
}

func TestExecuteResolvesClientByUserID(t *testing.T) {
	// client_id не передан, но клиент нашёлся по user_id:
	// категория клиента участвует в правилах client_type
	f := newEngineFixture()
	f.clients.byUserErr = nil
	f.clients.byUserClient = &clientservice.Client{ID: 7, UserID: 100, Tier: "new", Status: clientservice.StatusActive}

	scoped := globalRule(domain.RuleMinAdvanceBooking, domain.MinAdvanceBookingParams{MinHours: 72}, 10)
	scoped.AppliesTo = domain.AppliesToClientType
	scoped.ScopeIDs = []string{"new"}
	f.rules.rules = []*domain.BookingRule{scoped}

	req := validRequest()
	req.BookingDate = dateOnly(2025, 6, 17)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Bookings require at least 72 hours advance notice", resp.Violations[0])
}

func TestExecuteWithoutOptionalIDs(t *testing.T) {
	// Только user_id, дата, время и длительность: правила услуг и
	// клиентские ограничения не применяются
	f := newEngineFixture()
	f.serviceRules.rules = []*domain.ServiceBookingRule{
		serviceRule(5, domain.ServiceRuleConsultationRequired, domain.ConsultationRequiredParams{}),
	}

	req := validRequest()
	req.ServiceID = nil

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
}

// Сквозные сценарии уровня движка

func TestScenarioMinorBookingRestrictedService(t *testing.T) {
	// Несовершеннолетний бронирует услугу 18+ в заблокированный день
	f := newEngineFixture()
	f.serviceRules.rules = []*domain.ServiceBookingRule{
		serviceRule(5, domain.ServiceRuleAgeRestriction, domain.AgeRestrictionParams{MinAge: 18}),
		serviceRule(5, domain.ServiceRuleDayRestrictions, domain.DayRestrictionsParams{
			BlockedWeekdays: []time.Weekday{time.Friday},
		}),
	}
	f.clients.client = clientBornOn(dateOnly(2010, 1, 1))

	req := validRequest()
	req.ClientID = ptr.Ptr(int64(7))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Violations, 2)
	assert.Equal(t, "Minimum age requirement: 18 years", resp.Violations[0])
	assert.Equal(t, "This service is not available on Friday", resp.Violations[1])
}

func TestScenarioColourServiceNeedsPatchTestAndConsultation(t *testing.T) {
	// Окрашивание: нужны и консультация, и свежий patch-тест
	f := newEngineFixture()
	f.serviceRules.rules = []*domain.ServiceBookingRule{
		serviceRule(5, domain.ServiceRuleConsultationRequired, domain.ConsultationRequiredParams{}),
		serviceRule(5, domain.ServiceRulePatchTestRequired, domain.PatchTestRequiredParams{HoursBefore: 48}),
	}
	f.clients.client = clientBornOn(dateOnly(1990, 1, 1))
	f.clients.history = []*clientservice.Appointment{
		{
			ID:        1,
			ServiceID: 9,
			Status:    clientservice.AppointmentCompleted,
			StartAt:   fixedNow.Add(-12 * time.Hour),
			Notes:     "Patch test and colour consultation",
		},
	}

	req := validRequest()
	req.ClientID = ptr.Ptr(int64(7))

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsValid)
}

func TestScenarioSameDayAfterCutoff(t *testing.T) {
	f := newEngineFixture()
	f.settings.settings.SameDayCutoffTime = "11:00" // fixedNow 12:00

	req := validRequest()
	req.BookingDate = dateOnly(2025, 6, 16)
	req.BookingTime = "15:00"

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Past same-day cutoff time (11:00)", resp.Violations[0])
}

func TestScenarioTooFarInAdvance(t *testing.T) {
	f := newEngineFixture()
	f.rules.rules = []*domain.BookingRule{
		globalRule(domain.RuleMaxAdvanceBooking, domain.MaxAdvanceBookingParams{MaxDays: 30}, 10),
	}

	req := validRequest()
	req.BookingDate = fixedNow.AddDate(0, 0, 45)

	resp, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, resp.IsValid)
	require.Len(t, resp.Violations, 1)
	assert.Equal(t, "Bookings can be made at most 30 days in advance", resp.Violations[0])
}
