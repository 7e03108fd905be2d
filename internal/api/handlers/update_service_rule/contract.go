package update_service_rule

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

type RulesService interface {
	UpdateServiceRule(ctx context.Context, id int64, req *models.UpdateServiceRuleRequest) (*models.ServiceRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
