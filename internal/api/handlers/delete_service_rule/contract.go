package delete_service_rule

import "context"

type RulesService interface {
	DeactivateServiceRule(ctx context.Context, id int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
