package create_rule

import (
	"encoding/json"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

// CreateRuleRequest HTTP request model
type CreateRuleRequest struct {
	Name      string          `json:"name" validate:"required,min=3,max=200"`
	Type      string          `json:"type" validate:"required"`
	Params    json.RawMessage `json:"params" validate:"required"`
	AppliesTo string          `json:"appliesTo" validate:"required,oneof=all service barber client_type"`
	ScopeIDs  []string        `json:"scopeIds,omitempty"`
	Priority  int             `json:"priority" validate:"gte=0"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateRuleRequest) ToServiceRequest(userID int64) *models.CreateRuleRequest {
	return &models.CreateRuleRequest{
		UserID:    userID,
		Name:      r.Name,
		Type:      r.Type,
		Params:    r.Params,
		AppliesTo: r.AppliesTo,
		ScopeIDs:  r.ScopeIDs,
		Priority:  r.Priority,
	}
}
