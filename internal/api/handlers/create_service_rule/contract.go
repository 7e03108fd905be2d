package create_service_rule

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

type RulesService interface {
	CreateServiceRule(ctx context.Context, req *models.CreateServiceRuleRequest) (*models.ServiceRuleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
