package rules

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	ruleRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/rules"
	serviceRuleRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/servicerules"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

type fakeRuleRepo struct {
	rules      map[int64]*domain.BookingRule
	nextID     int64
	err        error
	softDelete []int64
}

func newFakeRuleRepo() *fakeRuleRepo {
	return &fakeRuleRepo{rules: make(map[int64]*domain.BookingRule), nextID: 1}
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *rule
	stored.ID = f.nextID
	f.nextID++
	f.rules[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeRuleRepo) GetByID(_ context.Context, id int64) (*domain.BookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	rule, ok := f.rules[id]
	if !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (f *fakeRuleRepo) List(_ context.Context, _ domain.BookingRulesFilter) ([]*domain.BookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.BookingRule, 0, len(f.rules))
	for _, rule := range f.rules {
		copied := *rule
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeRuleRepo) Update(_ context.Context, id int64, rule *domain.BookingRule) (*domain.BookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.rules[id]; !ok {
		return nil, ruleRepo.ErrRuleNotFound
	}
	stored := *rule
	stored.ID = id
	f.rules[id] = &stored
	return &stored, nil
}

func (f *fakeRuleRepo) SoftDelete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	rule, ok := f.rules[id]
	if !ok {
		return ruleRepo.ErrRuleNotFound
	}
	rule.IsActive = false
	f.softDelete = append(f.softDelete, id)
	return nil
}

type fakeServiceRuleRepo struct {
	rules      map[int64]*domain.ServiceBookingRule
	nextID     int64
	err        error
	softDelete []int64
}

func newFakeServiceRuleRepo() *fakeServiceRuleRepo {
	return &fakeServiceRuleRepo{rules: make(map[int64]*domain.ServiceBookingRule), nextID: 1}
}

func (f *fakeServiceRuleRepo) Create(_ context.Context, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	stored := *rule
	stored.ID = f.nextID
	f.nextID++
	f.rules[stored.ID] = &stored
	return &stored, nil
}

func (f *fakeServiceRuleRepo) GetByID(_ context.Context, id int64) (*domain.ServiceBookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	rule, ok := f.rules[id]
	if !ok {
		return nil, serviceRuleRepo.ErrRuleNotFound
	}
	copied := *rule
	return &copied, nil
}

func (f *fakeServiceRuleRepo) List(_ context.Context, _ domain.ServiceRulesFilter) ([]*domain.ServiceBookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := make([]*domain.ServiceBookingRule, 0, len(f.rules))
	for _, rule := range f.rules {
		copied := *rule
		result = append(result, &copied)
	}
	return result, nil
}

func (f *fakeServiceRuleRepo) Update(_ context.Context, id int64, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.rules[id]; !ok {
		return nil, serviceRuleRepo.ErrRuleNotFound
	}
	stored := *rule
	stored.ID = id
	f.rules[id] = &stored
	return &stored, nil
}

func (f *fakeServiceRuleRepo) SoftDelete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	rule, ok := f.rules[id]
	if !ok {
		return serviceRuleRepo.ErrRuleNotFound
	}
	rule.IsActive = false
	f.softDelete = append(f.softDelete, id)
	return nil
}

type fakeAuditRepo struct {
	entries []*domain.RuleAuditEntry
	err     error
}

func (f *fakeAuditRepo) Append(_ context.Context, entry *domain.RuleAuditEntry) (*domain.RuleAuditEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := *entry
	copied.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, &copied)
	return &copied, nil
}

func (f *fakeAuditRepo) ListByEntity(_ context.Context, entityType domain.AuditEntityType, entityID int64) ([]*domain.RuleAuditEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Новые записи первыми, как в репозитории
	result := make([]*domain.RuleAuditEntry, 0)
	for i := len(f.entries) - 1; i >= 0; i-- {
		entry := f.entries[i]
		if entry.EntityType == entityType && entry.EntityID == entityID {
			copied := *entry
			result = append(result, &copied)
		}
	}
	return result, nil
}

type fakeTxManager struct {
	calls int
}

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type serviceFixture struct {
	svc             *Service
	ruleRepo        *fakeRuleRepo
	serviceRuleRepo *fakeServiceRuleRepo
	auditRepo       *fakeAuditRepo
	txManager       *fakeTxManager
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		ruleRepo:        newFakeRuleRepo(),
		serviceRuleRepo: newFakeServiceRuleRepo(),
		auditRepo:       &fakeAuditRepo{},
		txManager:       &fakeTxManager{},
	}
	f.svc = NewService(f.ruleRepo, f.serviceRuleRepo, f.auditRepo, f.txManager, nopLogger{})
	return f
}

func TestCreateRule(t *testing.T) {
	f := newServiceFixture()

	resp, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID:    42,
		Name:      "  Max advance window  ",
		Type:      "max_advance_booking",
		Params:    json.RawMessage(`{"max_days": 30}`),
		AppliesTo: "all",
		Priority:  10,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Max advance window", resp.Name)
	assert.Equal(t, "max_advance_booking", resp.Type)
	assert.True(t, resp.IsActive)
	assert.JSONEq(t, `{"max_days": 30}`, string(resp.Params))
	assert.Equal(t, []string{}, resp.ScopeIDs)

	require.Len(t, f.auditRepo.entries, 1)
	entry := f.auditRepo.entries[0]
	assert.Equal(t, domain.AuditEntityBookingRule, entry.EntityType)
	assert.Equal(t, int64(1), entry.EntityID)
	assert.Equal(t, domain.AuditActionCreated, entry.Action)
	assert.Equal(t, int64(42), entry.ActorUserID)
	assert.Equal(t, 1, f.txManager.calls)
}

func TestCreateRuleInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateRuleRequest
	}{
		{
			name: "unknown type",
			req: models.CreateRuleRequest{
				Name: "Some rule", Type: "teleport_booking",
				Params: json.RawMessage(`{}`), AppliesTo: "all",
			},
		},
		{
			name: "malformed params",
			req: models.CreateRuleRequest{
				Name: "Some rule", Type: "max_advance_booking",
				Params: json.RawMessage(`{"max_days": "thirty"}`), AppliesTo: "all",
			},
		},
		{
			name: "name too short",
			req: models.CreateRuleRequest{
				Name: "ab", Type: "max_advance_booking",
				Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
			},
		},
		{
			name: "scope ids with applies_to all",
			req: models.CreateRuleRequest{
				Name: "Scoped rule", Type: "max_advance_booking",
				Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
				ScopeIDs: []string{"5"},
			},
		},
		{
			name: "missing scope ids for service scope",
			req: models.CreateRuleRequest{
				Name: "Scoped rule", Type: "max_advance_booking",
				Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "service",
			},
		},
		{
			name: "negative priority",
			req: models.CreateRuleRequest{
				Name: "Some rule", Type: "max_advance_booking",
				Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
				Priority: -1,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()

			_, err := f.svc.Create(context.Background(), &tt.req)

			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.ruleRepo.rules)
			assert.Empty(t, f.auditRepo.entries)
		})
	}
}

func TestCreateRuleRepositoryFailure(t *testing.T) {
	f := newServiceFixture()
	f.ruleRepo.err = errors.New("connection refused")

	_, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})

	require.ErrorIs(t, err, ErrInternal)
	assert.Empty(t, f.auditRepo.entries)
}

func TestGetRuleByID(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Blackout days", Type: "blackout_dates",
		Params: json.RawMessage(`{"dates": ["2025-12-31"]}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	resp, err := f.svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Blackout days", resp.Name)

	_, err = f.svc.GetByID(context.Background(), 999)
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestUpdateRule(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	newName := "Shorter advance window"
	newPriority := 5
	resp, err := f.svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:   42,
		Name:     &newName,
		Params:   json.RawMessage(`{"max_days": 14}`),
		Priority: &newPriority,
	})
	require.NoError(t, err)

	assert.Equal(t, "Shorter advance window", resp.Name)
	assert.JSONEq(t, `{"max_days": 14}`, string(resp.Params))
	assert.Equal(t, 5, resp.Priority)
	assert.True(t, resp.IsActive)

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.AuditActionUpdated, f.auditRepo.entries[1].Action)
}

func TestUpdateRuleScopeChange(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	// Смена области без нового списка ID недопустима
	serviceScope := "service"
	_, err = f.svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:    42,
		AppliesTo: &serviceScope,
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	resp, err := f.svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:    42,
		AppliesTo: &serviceScope,
		ScopeIDs:  []string{"5", "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "service", resp.AppliesTo)
	assert.Equal(t, []string{"5", "7"}, resp.ScopeIDs)
}

func TestUpdateRuleDeactivationIsAudited(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	inactive := false
	resp, err := f.svc.Update(context.Background(), created.ID, &models.UpdateRuleRequest{
		UserID:   42,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsActive)

	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.AuditActionDeactivated, f.auditRepo.entries[1].Action)
}

func TestUpdateRuleNotFound(t *testing.T) {
	f := newServiceFixture()

	name := "Renamed"
	_, err := f.svc.Update(context.Background(), 999, &models.UpdateRuleRequest{UserID: 42, Name: &name})

	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestDeactivateRule(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	err = f.svc.Deactivate(context.Background(), created.ID, 42)
	require.NoError(t, err)

	assert.Equal(t, []int64{created.ID}, f.ruleRepo.softDelete)
	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.AuditActionDeactivated, f.auditRepo.entries[1].Action)
	assert.Equal(t, int64(42), f.auditRepo.entries[1].ActorUserID)

	err = f.svc.Deactivate(context.Background(), 999, 42)
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestRuleHistory(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})
	require.NoError(t, err)

	err = f.svc.Deactivate(context.Background(), created.ID, 43)
	require.NoError(t, err)

	resp, err := f.svc.History(context.Background(), created.ID)
	require.NoError(t, err)

	// Новые записи первыми
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, string(domain.AuditActionDeactivated), resp.Entries[0].Action)
	assert.Equal(t, int64(43), resp.Entries[0].ActorUserID)
	assert.Equal(t, string(domain.AuditActionCreated), resp.Entries[1].Action)
	assert.Equal(t, int64(42), resp.Entries[1].ActorUserID)
}

func TestRuleHistoryNotFound(t *testing.T) {
	f := newServiceFixture()

	_, err := f.svc.History(context.Background(), 999)
	require.ErrorIs(t, err, ErrRuleNotFound)
}

func TestAuditFailureFailsMutation(t *testing.T) {
	f := newServiceFixture()
	f.auditRepo.err = errors.New("audit table unavailable")

	_, err := f.svc.Create(context.Background(), &models.CreateRuleRequest{
		UserID: 42, Name: "Max advance window", Type: "max_advance_booking",
		Params: json.RawMessage(`{"max_days": 30}`), AppliesTo: "all",
	})

	require.ErrorIs(t, err, ErrInternal)
}

func TestCreateServiceRule(t *testing.T) {
	f := newServiceFixture()

	resp, err := f.svc.CreateServiceRule(context.Background(), &models.CreateServiceRuleRequest{
		UserID:    42,
		ServiceID: 7,
		Type:      "age_restriction",
		Params:    json.RawMessage(`{"min_age": 18}`),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, int64(7), resp.ServiceID)
	assert.Equal(t, "age_restriction", resp.Type)
	assert.True(t, resp.IsActive)

	require.Len(t, f.auditRepo.entries, 1)
	assert.Equal(t, domain.AuditEntityServiceBookingRule, f.auditRepo.entries[0].EntityType)
	assert.Equal(t, domain.AuditActionCreated, f.auditRepo.entries[0].Action)
}

func TestCreateServiceRuleInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateServiceRuleRequest
	}{
		{
			name: "unknown type",
			req: models.CreateServiceRuleRequest{
				ServiceID: 7, Type: "haircut_quality",
				Params: json.RawMessage(`{}`),
			},
		},
		{
			name: "service id missing",
			req: models.CreateServiceRuleRequest{
				Type:   "age_restriction",
				Params: json.RawMessage(`{"min_age": 18}`),
			},
		},
		{
			name: "frequency rule without limits",
			req: models.CreateServiceRuleRequest{
				ServiceID: 7, Type: "booking_frequency",
				Params: json.RawMessage(`{}`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture()

			_, err := f.svc.CreateServiceRule(context.Background(), &tt.req)

			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, f.serviceRuleRepo.rules)
		})
	}
}

func TestUpdateServiceRule(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.CreateServiceRule(context.Background(), &models.CreateServiceRuleRequest{
		UserID: 42, ServiceID: 7, Type: "patch_test_required",
		Params: json.RawMessage(`{"patch_test_hours_before": 48}`),
	})
	require.NoError(t, err)

	resp, err := f.svc.UpdateServiceRule(context.Background(), created.ID, &models.UpdateServiceRuleRequest{
		UserID: 42,
		Params: json.RawMessage(`{"patch_test_hours_before": 72}`),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"patch_test_hours_before": 72}`, string(resp.Params))

	_, err = f.svc.UpdateServiceRule(context.Background(), 999, &models.UpdateServiceRuleRequest{UserID: 42})
	require.ErrorIs(t, err, ErrServiceRuleNotFound)
}

func TestDeactivateServiceRule(t *testing.T) {
	f := newServiceFixture()
	created, err := f.svc.CreateServiceRule(context.Background(), &models.CreateServiceRuleRequest{
		UserID: 42, ServiceID: 7, Type: "consultation_required",
		Params: json.RawMessage(`{}`),
	})
	require.NoError(t, err)

	err = f.svc.DeactivateServiceRule(context.Background(), created.ID, 42)
	require.NoError(t, err)

	assert.Equal(t, []int64{created.ID}, f.serviceRuleRepo.softDelete)
	require.Len(t, f.auditRepo.entries, 2)
	assert.Equal(t, domain.AuditActionDeactivated, f.auditRepo.entries[1].Action)
}
