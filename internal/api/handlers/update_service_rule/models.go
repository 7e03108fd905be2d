package update_service_rule

import (
	"encoding/json"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

// UpdateServiceRuleRequest HTTP request model
// Все поля опциональны - обновляются только переданные значения
type UpdateServiceRuleRequest struct {
	Params   json.RawMessage `json:"params,omitempty"`
	IsActive *bool           `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateServiceRuleRequest) ToServiceRequest(userID int64) *models.UpdateServiceRuleRequest {
	return &models.UpdateServiceRuleRequest{
		UserID:   userID,
		Params:   r.Params,
		IsActive: r.IsActive,
	}
}
