package update_settings

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/service/settings/models"
)

type SettingsService interface {
	Create(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error)
	Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
