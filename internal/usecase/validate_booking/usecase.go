package validate_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/settings"
	clientSvc "github.com/sharpcut/SharpCut-RulesService/internal/integrations/clientservice"
)

// UseCase use case валидации кандидата бронирования
// Прогоняет кандидата через четыре слоя правил (услуга, глобальные, клиент, бизнес)
// и возвращает полный список нарушений без short-circuit
type UseCase struct {
	ruleRepo        RuleRepository
	serviceRuleRepo ServiceRuleRepository
	settingsRepo    SettingsRepository
	clientClient    ClientServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ruleRepo RuleRepository,
	serviceRuleRepo ServiceRuleRepository,
	settingsRepo SettingsRepository,
	clientClient ClientServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		ruleRepo:        ruleRepo,
		serviceRuleRepo: serviceRuleRepo,
		settingsRepo:    settingsRepo,
		clientClient:    clientClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет валидацию кандидата бронирования
//
// Ошибки загрузки данных правил обрабатываются fail-closed: движок возвращает
// IsValid=false с общим нарушением вместо того, чтобы пропустить бронирование,
// которое не удалось проверить (правила возраста и patch-тестов существуют
// ради безопасности клиентов)
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateBooking: user=%d, service=%v, barber=%v, client=%v, date=%s, time=%s, duration=%d",
		req.UserID, req.ServiceID, req.BarberID, req.ClientID,
		req.BookingDate.Format(domain.DateFormat), req.BookingTime, req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Снимаем текущее время ровно один раз
	// Все проверки, зависящие от времени, используют этот снимок: повторное
	// чтение часов внутри одного вызова может дать разные вердикты на границе
	// (например, в минуту cutoff)
	now := uc.timeProvider.Now()

	candidate := req.ToCandidate()

	// 3. Загружаем данные всех слоёв одной read-only транзакцией
	data, err := uc.loadData(ctx, candidate)
	if err != nil {
		uc.logger.Error("ValidateBooking: failed to load rule data for user=%d: %v", req.UserID, err)
		return &Response{
			IsValid:    false,
			Violations: []string{msgValidationUnavailable},
		}, nil
	}

	// 4. Прогоняем все четыре слоя проверок без short-circuit
	// Порядок нарушений: правила услуги, глобальные правила (по приоритету),
	// ограничения клиента, ограничения бизнеса
	violations := make([]string, 0)
	violations = append(violations, evaluateServiceRules(data.serviceRules, candidate, data.client, data.history, now)...)
	violations = append(violations, evaluateGlobalRules(data.globalRules, candidate, data.client, now)...)
	violations = append(violations, evaluateClientConstraints(candidate, data.client)...)
	violations = append(violations, evaluateBusinessConstraints(data.settings, candidate, now)...)

	result := domain.NewValidationResult(violations)
	if result.IsValid {
		uc.logger.Info("ValidateBooking: candidate is valid for user=%d", req.UserID)
	} else {
		uc.logger.Info("ValidateBooking: candidate has %d violation(s) for user=%d", len(violations), req.UserID)
	}

	return &Response{
		IsValid:    result.IsValid,
		Violations: result.Violations,
	}, nil
}

// loadData загружает клиента, историю, правила и настройки для одного вызова
// Читает всё внутри одной read-only транзакции, чтобы решение принималось
// по консистентному снимку правил
func (uc *UseCase) loadData(ctx context.Context, candidate *domain.CandidateBooking) (*validationData, error) {
	data := &validationData{}

	err := uc.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		// 3.1. Глобальные правила (всегда)
		globalRules, err := uc.ruleRepo.ListActive(txCtx)
		if err != nil {
			return fmt.Errorf("%w: failed to load global rules: %v", ErrInternal, err)
		}
		data.globalRules = globalRules

		// 3.2. Правила услуги (если услуга указана)
		if candidate.ServiceID != nil {
			serviceRules, err := uc.serviceRuleRepo.ListActiveByService(txCtx, *candidate.ServiceID)
			if err != nil {
				return fmt.Errorf("%w: failed to load service rules: %v", ErrInternal, err)
			}
			data.serviceRules = serviceRules
		}

		// 3.3. Настройки бизнеса: отсутствие записи - не ошибка
		businessSettings, err := uc.settingsRepo.Get(txCtx)
		if err != nil && !errors.Is(err, settings.ErrSettingsNotFound) {
			return fmt.Errorf("%w: failed to load settings: %v", ErrInternal, err)
		}
		data.settings = businessSettings

		return nil
	})
	if err != nil {
		return nil, err
	}

	// 3.4. Клиент: по client_id, если указан; иначе пробуем по user_id -
	// категория клиента нужна для правил с областью client_type
	if candidate.ClientID != nil {
		client, err := uc.clientClient.GetClient(ctx, *candidate.ClientID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load client id=%d: %v", ErrInternal, *candidate.ClientID, err)
		}
		data.client = client
	} else {
		client, err := uc.clientClient.GetClientByUserID(ctx, candidate.UserID)
		if err != nil && !errors.Is(err, clientSvc.ErrClientNotFound) {
			return nil, fmt.Errorf("%w: failed to resolve client for user=%d: %v", ErrInternal, candidate.UserID, err)
		}
		data.client = client
	}

	// 3.5. История записей клиента - нужна только правилам услуги
	if data.client != nil && candidate.ServiceID != nil && len(data.serviceRules) > 0 {
		history, err := uc.clientClient.GetAppointmentHistory(ctx, data.client.ID, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to load appointment history for client=%d: %v", ErrInternal, data.client.ID, err)
		}
		data.history = history
	}

	return data, nil
}
