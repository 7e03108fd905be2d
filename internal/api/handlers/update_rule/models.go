package update_rule

import (
	"encoding/json"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

// UpdateRuleRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateRuleRequest struct {
	Name      *string         `json:"name,omitempty" validate:"omitempty,min=3,max=200"`
	Params    json.RawMessage `json:"params,omitempty"`
	AppliesTo *string         `json:"appliesTo,omitempty" validate:"omitempty,oneof=all service barber client_type"`
	ScopeIDs  []string        `json:"scopeIds,omitempty"`
	Priority  *int            `json:"priority,omitempty" validate:"omitempty,gte=0"`
	IsActive  *bool           `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateRuleRequest) ToServiceRequest(userID int64) *models.UpdateRuleRequest {
	return &models.UpdateRuleRequest{
		UserID:    userID,
		Name:      r.Name,
		Params:    r.Params,
		AppliesTo: r.AppliesTo,
		ScopeIDs:  r.ScopeIDs,
		Priority:  r.Priority,
		IsActive:  r.IsActive,
	}
}
