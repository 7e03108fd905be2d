package rules

import (
	"context"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
)

// RuleRepository интерфейс репозитория глобальных правил
type RuleRepository interface {
	Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.BookingRule, error)
	List(ctx context.Context, filter domain.BookingRulesFilter) ([]*domain.BookingRule, error)
	Update(ctx context.Context, id int64, rule *domain.BookingRule) (*domain.BookingRule, error)
	SoftDelete(ctx context.Context, id int64) error
}

// ServiceRuleRepository интерфейс репозитория правил услуг
type ServiceRuleRepository interface {
	Create(ctx context.Context, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error)
	GetByID(ctx context.Context, id int64) (*domain.ServiceBookingRule, error)
	List(ctx context.Context, filter domain.ServiceRulesFilter) ([]*domain.ServiceBookingRule, error)
	Update(ctx context.Context, id int64, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error)
	SoftDelete(ctx context.Context, id int64) error
}

// AuditRepository интерфейс журнала изменений правил
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.RuleAuditEntry) (*domain.RuleAuditEntry, error)
	ListByEntity(ctx context.Context, entityType domain.AuditEntityType, entityID int64) ([]*domain.RuleAuditEntry, error)
}

// TransactionManager интерфейс для управления транзакциями
// Изменение правила и запись в журнал выполняются одной транзакцией
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
