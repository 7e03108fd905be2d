package get_rule_history

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

type RulesService interface {
	History(ctx context.Context, id int64) (*models.RuleHistoryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
