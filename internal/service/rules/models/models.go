package models

import (
	"encoding/json"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
)

// Request модели

// CreateRuleRequest запрос на создание глобального правила
// Params передаются сырым JSON и декодируются по типу правила
type CreateRuleRequest struct {
	UserID    int64           `json:"userId"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
	AppliesTo string          `json:"appliesTo"`
	ScopeIDs  []string        `json:"scopeIds,omitempty"`
	Priority  int             `json:"priority"`
}

// UpdateRuleRequest запрос на обновление глобального правила
// Все поля опциональны - обновляются только переданные значения
// Тип правила после создания не меняется
type UpdateRuleRequest struct {
	UserID    int64           `json:"userId"`
	Name      *string         `json:"name,omitempty"`
	Params    json.RawMessage `json:"params,omitempty"`
	AppliesTo *string         `json:"appliesTo,omitempty"`
	ScopeIDs  []string        `json:"scopeIds,omitempty"`
	Priority  *int            `json:"priority,omitempty"`
	IsActive  *bool           `json:"isActive,omitempty"`
}

// ListRulesRequest запрос на получение списка глобальных правил
type ListRulesRequest struct {
	Type     *string `json:"type,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// CreateServiceRuleRequest запрос на создание правила услуги
type CreateServiceRuleRequest struct {
	UserID    int64           `json:"userId"`
	ServiceID int64           `json:"serviceId"`
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
}

// UpdateServiceRuleRequest запрос на обновление правила услуги
type UpdateServiceRuleRequest struct {
	UserID   int64           `json:"userId"`
	Params   json.RawMessage `json:"params,omitempty"`
	IsActive *bool           `json:"isActive,omitempty"`
}

// ListServiceRulesRequest запрос на получение списка правил услуг
type ListServiceRulesRequest struct {
	ServiceID *int64  `json:"serviceId,omitempty"`
	Type      *string `json:"type,omitempty"`
	IsActive  *bool   `json:"isActive,omitempty"`
}

// Response модели

// RuleResponse ответ с данными глобального правила
type RuleResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
	AppliesTo string          `json:"appliesTo"`
	ScopeIDs  []string        `json:"scopeIds"`
	Priority  int             `json:"priority"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// RuleListResponse ответ со списком глобальных правил
type RuleListResponse struct {
	Rules []RuleResponse `json:"rules"`
}

// ServiceRuleResponse ответ с данными правила услуги
type ServiceRuleResponse struct {
	ID        int64           `json:"id"`
	ServiceID int64           `json:"serviceId"`
	Type      string          `json:"type"`
	Params    json.RawMessage `json:"params"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// ServiceRuleListResponse ответ со списком правил услуг
type ServiceRuleListResponse struct {
	Rules []ServiceRuleResponse `json:"rules"`
}

// AuditEntryResponse запись журнала изменений правила
type AuditEntryResponse struct {
	ID          int64     `json:"id"`
	Action      string    `json:"action"`
	ActorUserID int64     `json:"actorUserId"`
	Detail      string    `json:"detail"`
	CreatedAt   time.Time `json:"createdAt"`
}

// RuleHistoryResponse ответ с историей изменений правила
type RuleHistoryResponse struct {
	Entries []AuditEntryResponse `json:"entries"`
}

// Методы конвертации

// FromDomainRule конвертирует domain модель в DTO
func FromDomainRule(r *domain.BookingRule) (*RuleResponse, error) {
	if r == nil {
		return nil, nil
	}

	params, err := domain.EncodeRuleParams(r.Params)
	if err != nil {
		return nil, err
	}

	scopeIDs := r.ScopeIDs
	if scopeIDs == nil {
		scopeIDs = []string{}
	}

	return &RuleResponse{
		ID:        r.ID,
		Name:      r.Name,
		Type:      string(r.Type),
		Params:    params,
		AppliesTo: string(r.AppliesTo),
		ScopeIDs:  scopeIDs,
		Priority:  r.Priority,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// FromDomainRuleList конвертирует список domain моделей в DTO
func FromDomainRuleList(rules []*domain.BookingRule) (*RuleListResponse, error) {
	resp := &RuleListResponse{
		Rules: make([]RuleResponse, 0, len(rules)),
	}

	for _, rule := range rules {
		ruleResp, err := FromDomainRule(rule)
		if err != nil {
			return nil, err
		}
		if ruleResp != nil {
			resp.Rules = append(resp.Rules, *ruleResp)
		}
	}

	return resp, nil
}

// FromDomainServiceRule конвертирует domain модель в DTO
func FromDomainServiceRule(r *domain.ServiceBookingRule) (*ServiceRuleResponse, error) {
	if r == nil {
		return nil, nil
	}

	params, err := domain.EncodeServiceRuleParams(r.Params)
	if err != nil {
		return nil, err
	}

	return &ServiceRuleResponse{
		ID:        r.ID,
		ServiceID: r.ServiceID,
		Type:      string(r.Type),
		Params:    params,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

// FromDomainAuditEntries конвертирует записи журнала в DTO
func FromDomainAuditEntries(entries []*domain.RuleAuditEntry) *RuleHistoryResponse {
	resp := &RuleHistoryResponse{
		Entries: make([]AuditEntryResponse, 0, len(entries)),
	}

	for _, entry := range entries {
		if entry == nil {
			continue
		}
		resp.Entries = append(resp.Entries, AuditEntryResponse{
			ID:          entry.ID,
			Action:      string(entry.Action),
			ActorUserID: entry.ActorUserID,
			Detail:      entry.Detail,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return resp
}

// FromDomainServiceRuleList конвертирует список domain моделей в DTO
func FromDomainServiceRuleList(rules []*domain.ServiceBookingRule) (*ServiceRuleListResponse, error) {
	resp := &ServiceRuleListResponse{
		Rules: make([]ServiceRuleResponse, 0, len(rules)),
	}

	for _, rule := range rules {
		ruleResp, err := FromDomainServiceRule(rule)
		if err != nil {
			return nil, err
		}
		if ruleResp != nil {
			resp.Rules = append(resp.Rules, *ruleResp)
		}
	}

	return resp, nil
}
