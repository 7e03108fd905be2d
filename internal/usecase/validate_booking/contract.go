package validate_booking

import (
	"context"
	"time"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
)

// RuleRepository интерфейс репозитория глобальных правил
type RuleRepository interface {
	ListActive(ctx context.Context) ([]*domain.BookingRule, error)
}

// ServiceRuleRepository интерфейс репозитория правил услуг
type ServiceRuleRepository interface {
	ListActiveByService(ctx context.Context, serviceID int64) ([]*domain.ServiceBookingRule, error)
}

// SettingsRepository интерфейс репозитория настроек бронирования
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.BookingSettings, error)
}

// ClientServiceClient интерфейс клиента для ClientService
// Используется для чтения профиля клиента и истории его записей
type ClientServiceClient interface {
	GetClient(ctx context.Context, clientID int64) (*clientservice.Client, error)
	GetClientByUserID(ctx context.Context, userID int64) (*clientservice.Client, error)
	GetAppointmentHistory(ctx context.Context, clientID int64, serviceID *int64) ([]*clientservice.Appointment, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
// Движок снимает "сейчас" ровно один раз за вызов и использует этот снимок
// во всех проверках, зависящих от времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
