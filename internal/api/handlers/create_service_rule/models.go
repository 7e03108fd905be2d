package create_service_rule

import (
	"encoding/json"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

// CreateServiceRuleRequest HTTP request model
type CreateServiceRuleRequest struct {
	Type   string          `json:"type" validate:"required"`
	Params json.RawMessage `json:"params" validate:"required"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateServiceRuleRequest) ToServiceRequest(userID, serviceID int64) *models.CreateServiceRuleRequest {
	return &models.CreateServiceRuleRequest{
		UserID:    userID,
		ServiceID: serviceID,
		Type:      r.Type,
		Params:    r.Params,
	}
}
