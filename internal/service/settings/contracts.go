package settings

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
)

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BookingSettings, error)
	Create(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error)
	Update(ctx context.Context, id int64, settings *domain.BookingSettings) (*domain.BookingSettings, error)
}

// AuditRepository интерфейс журнала изменений правил
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.RuleAuditEntry) (*domain.RuleAuditEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
