package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	ruleRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/rules"
	serviceRuleRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/servicerules"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/rules/models"
)

// Service сервис для управления правилами бронирования
// Правила никогда не удаляются физически: деактивация выставляет is_active=false,
// каждое изменение фиксируется в журнале одной транзакцией с самим изменением
type Service struct {
	ruleRepo        RuleRepository
	serviceRuleRepo ServiceRuleRepository
	auditRepo       AuditRepository
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса правил
func NewService(
	ruleRepo RuleRepository,
	serviceRuleRepo ServiceRuleRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		ruleRepo:        ruleRepo,
		serviceRuleRepo: serviceRuleRepo,
		auditRepo:       auditRepo,
		txManager:       txManager,
		logger:          logger,
	}
}

// Глобальные правила

// Create создает новое глобальное правило
func (s *Service) Create(ctx context.Context, req *models.CreateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Create: creating rule name=%q type=%s by user=%d", req.Name, req.Type, req.UserID)

	// 1. Декодируем параметры по типу правила
	ruleType := domain.RuleType(req.Type)
	if !ruleType.IsValid() {
		s.logger.Warn("Create: unknown rule type %q", req.Type)
		return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, req.Type)
	}

	params, err := domain.DecodeRuleParams(ruleType, req.Params)
	if err != nil {
		s.logger.Warn("Create: failed to decode params for type=%s: %v", req.Type, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rule := &domain.BookingRule{
		Name:      strings.TrimSpace(req.Name),
		Type:      ruleType,
		Params:    params,
		AppliesTo: domain.AppliesTo(req.AppliesTo),
		ScopeIDs:  req.ScopeIDs,
		Priority:  req.Priority,
		IsActive:  true,
	}

	// 2. Валидируем данные правила
	if err := s.validateRuleData(rule); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 3. Создаем правило и запись журнала одной транзакцией
	var created *domain.BookingRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err = s.ruleRepo.Create(txCtx, rule)
		if err != nil {
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityBookingRule, created.ID,
			domain.AuditActionCreated, req.UserID,
			fmt.Sprintf("created rule %q type=%s applies_to=%s priority=%d",
				created.Name, created.Type, created.AppliesTo, created.Priority))
	})
	if err != nil {
		s.logger.Error("Create: transaction failed: %v", err)
		return nil, err
	}

	s.logger.Info("Create: successfully created rule id=%d", created.ID)
	return models.FromDomainRule(created)
}

// GetByID получает глобальное правило по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.RuleResponse, error) {
	s.logger.Info("GetByID: fetching rule id=%d", id)

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("GetByID: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("GetByID: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRule(rule)
}

// List получает список глобальных правил с фильтрацией
// Правила упорядочены по убыванию приоритета
func (s *Service) List(ctx context.Context, req *models.ListRulesRequest) (*models.RuleListResponse, error) {
	s.logger.Info("List: fetching rules type=%v active=%v", req.Type, req.IsActive)

	filter := domain.BookingRulesFilter{IsActive: req.IsActive}
	if req.Type != nil {
		ruleType := domain.RuleType(*req.Type)
		if !ruleType.IsValid() {
			s.logger.Warn("List: unknown rule type %q", *req.Type)
			return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidInput, *req.Type)
		}
		filter.Type = &ruleType
	}

	rules, err := s.ruleRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d rules", len(rules))
	return models.FromDomainRuleList(rules)
}

// Update обновляет существующее глобальное правило
// Поддерживает частичное обновление; тип правила не меняется
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateRuleRequest) (*models.RuleResponse, error) {
	s.logger.Info("Update: updating rule id=%d by user=%d", id, req.UserID)

	// 1. Получаем существующее правило
	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Update: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("Update: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	wasActive := rule.IsActive

	// 2. Применяем обновления
	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if req.Params != nil {
		params, err := domain.DecodeRuleParams(rule.Type, req.Params)
		if err != nil {
			s.logger.Warn("Update: failed to decode params for rule id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rule.Params = params
	}
	if req.AppliesTo != nil {
		rule.AppliesTo = domain.AppliesTo(*req.AppliesTo)
		rule.ScopeIDs = req.ScopeIDs
	} else if req.ScopeIDs != nil {
		rule.ScopeIDs = req.ScopeIDs
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	// 3. Валидируем обновленные данные
	if err := s.validateRuleData(rule); err != nil {
		s.logger.Warn("Update: validation failed for rule id=%d: %v", id, err)
		return nil, err
	}

	// 4. Обновляем правило и пишем журнал одной транзакцией
	action := domain.AuditActionUpdated
	if wasActive && !rule.IsActive {
		action = domain.AuditActionDeactivated
	}

	var updated *domain.BookingRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		updated, err = s.ruleRepo.Update(txCtx, id, rule)
		if err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityBookingRule, id, action, req.UserID,
			fmt.Sprintf("updated rule %q type=%s active=%t", updated.Name, updated.Type, updated.IsActive))
	})
	if err != nil {
		if !errors.Is(err, ErrRuleNotFound) {
			s.logger.Error("Update: transaction failed for rule id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated rule id=%d", id)
	return models.FromDomainRule(updated)
}

// Deactivate деактивирует глобальное правило (soft delete)
// Движок валидации перестает учитывать правило, история сохраняется
func (s *Service) Deactivate(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Deactivate: deactivating rule id=%d by user=%d", id, userID)

	rule, err := s.ruleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("Deactivate: rule id=%d not found", id)
			return ErrRuleNotFound
		}
		s.logger.Error("Deactivate: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.ruleRepo.SoftDelete(txCtx, id); err != nil {
			if errors.Is(err, ruleRepo.ErrRuleNotFound) {
				return ErrRuleNotFound
			}
			return fmt.Errorf("%w: Deactivate - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityBookingRule, id,
			domain.AuditActionDeactivated, userID,
			fmt.Sprintf("deactivated rule %q type=%s", rule.Name, rule.Type))
	})
	if err != nil {
		if !errors.Is(err, ErrRuleNotFound) {
			s.logger.Error("Deactivate: transaction failed for rule id=%d: %v", id, err)
		}
		return err
	}

	s.logger.Info("Deactivate: successfully deactivated rule id=%d", id)
	return nil
}

// History получает журнал изменений глобального правила (новые записи первыми)
func (s *Service) History(ctx context.Context, id int64) (*models.RuleHistoryResponse, error) {
	s.logger.Info("History: fetching audit log for rule id=%d", id)

	// 1. Проверяем, что правило существует
	if _, err := s.ruleRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, ruleRepo.ErrRuleNotFound) {
			s.logger.Warn("History: rule id=%d not found", id)
			return nil, ErrRuleNotFound
		}
		s.logger.Error("History: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: History - repository error: %v", ErrInternal, err)
	}

	// 2. Читаем журнал
	entries, err := s.auditRepo.ListByEntity(ctx, domain.AuditEntityBookingRule, id)
	if err != nil {
		s.logger.Error("History: audit repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: History - audit repository error: %v", ErrInternal, err)
	}

	s.logger.Info("History: successfully fetched %d entries for rule id=%d", len(entries), id)
	return models.FromDomainAuditEntries(entries), nil
}

// Правила услуг

// CreateServiceRule создает новое правило услуги
func (s *Service) CreateServiceRule(ctx context.Context, req *models.CreateServiceRuleRequest) (*models.ServiceRuleResponse, error) {
	s.logger.Info("CreateServiceRule: creating rule type=%s for service=%d by user=%d",
		req.Type, req.ServiceID, req.UserID)

	// 1. Декодируем параметры по типу правила
	ruleType := domain.ServiceRuleType(req.Type)
	if !ruleType.IsValid() {
		s.logger.Warn("CreateServiceRule: unknown rule type %q", req.Type)
		return nil, fmt.Errorf("%w: unknown service rule type %q", ErrInvalidInput, req.Type)
	}

	params, err := domain.DecodeServiceRuleParams(ruleType, req.Params)
	if err != nil {
		s.logger.Warn("CreateServiceRule: failed to decode params for type=%s: %v", req.Type, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	rule := &domain.ServiceBookingRule{
		ServiceID: req.ServiceID,
		Type:      ruleType,
		Params:    params,
		IsActive:  true,
	}

	// 2. Валидируем данные правила
	if err := s.validateServiceRuleData(rule); err != nil {
		s.logger.Warn("CreateServiceRule: validation failed: %v", err)
		return nil, err
	}

	// 3. Создаем правило и запись журнала одной транзакцией
	var created *domain.ServiceBookingRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err = s.serviceRuleRepo.Create(txCtx, rule)
		if err != nil {
			return fmt.Errorf("%w: CreateServiceRule - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityServiceBookingRule, created.ID,
			domain.AuditActionCreated, req.UserID,
			fmt.Sprintf("created service rule type=%s for service=%d", created.Type, created.ServiceID))
	})
	if err != nil {
		s.logger.Error("CreateServiceRule: transaction failed: %v", err)
		return nil, err
	}

	s.logger.Info("CreateServiceRule: successfully created rule id=%d", created.ID)
	return models.FromDomainServiceRule(created)
}

// GetServiceRuleByID получает правило услуги по ID
func (s *Service) GetServiceRuleByID(ctx context.Context, id int64) (*models.ServiceRuleResponse, error) {
	s.logger.Info("GetServiceRuleByID: fetching rule id=%d", id)

	rule, err := s.serviceRuleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRuleRepo.ErrRuleNotFound) {
			s.logger.Warn("GetServiceRuleByID: rule id=%d not found", id)
			return nil, ErrServiceRuleNotFound
		}
		s.logger.Error("GetServiceRuleByID: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetServiceRuleByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainServiceRule(rule)
}

// ListServiceRules получает список правил услуг с фильтрацией
func (s *Service) ListServiceRules(ctx context.Context, req *models.ListServiceRulesRequest) (*models.ServiceRuleListResponse, error) {
	s.logger.Info("ListServiceRules: fetching rules service=%v type=%v active=%v",
		req.ServiceID, req.Type, req.IsActive)

	filter := domain.ServiceRulesFilter{
		ServiceID: req.ServiceID,
		IsActive:  req.IsActive,
	}
	if req.Type != nil {
		ruleType := domain.ServiceRuleType(*req.Type)
		if !ruleType.IsValid() {
			s.logger.Warn("ListServiceRules: unknown rule type %q", *req.Type)
			return nil, fmt.Errorf("%w: unknown service rule type %q", ErrInvalidInput, *req.Type)
		}
		filter.Type = &ruleType
	}

	rules, err := s.serviceRuleRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListServiceRules: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListServiceRules - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListServiceRules: successfully fetched %d rules", len(rules))
	return models.FromDomainServiceRuleList(rules)
}

// UpdateServiceRule обновляет существующее правило услуги
// Тип правила и услуга не меняются
func (s *Service) UpdateServiceRule(ctx context.Context, id int64, req *models.UpdateServiceRuleRequest) (*models.ServiceRuleResponse, error) {
	s.logger.Info("UpdateServiceRule: updating rule id=%d by user=%d", id, req.UserID)

	// 1. Получаем существующее правило
	rule, err := s.serviceRuleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRuleRepo.ErrRuleNotFound) {
			s.logger.Warn("UpdateServiceRule: rule id=%d not found", id)
			return nil, ErrServiceRuleNotFound
		}
		s.logger.Error("UpdateServiceRule: repository error for rule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: UpdateServiceRule - repository error: %v", ErrInternal, err)
	}

	wasActive := rule.IsActive

	// 2. Применяем обновления
	if req.Params != nil {
		params, err := domain.DecodeServiceRuleParams(rule.Type, req.Params)
		if err != nil {
			s.logger.Warn("UpdateServiceRule: failed to decode params for rule id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		rule.Params = params
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}

	// 3. Валидируем обновленные данные
	if err := s.validateServiceRuleData(rule); err != nil {
		s.logger.Warn("UpdateServiceRule: validation failed for rule id=%d: %v", id, err)
		return nil, err
	}

	// 4. Обновляем правило и пишем журнал одной транзакцией
	action := domain.AuditActionUpdated
	if wasActive && !rule.IsActive {
		action = domain.AuditActionDeactivated
	}

	var updated *domain.ServiceBookingRule
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		updated, err = s.serviceRuleRepo.Update(txCtx, id, rule)
		if err != nil {
			if errors.Is(err, serviceRuleRepo.ErrRuleNotFound) {
				return ErrServiceRuleNotFound
			}
			return fmt.Errorf("%w: UpdateServiceRule - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityServiceBookingRule, id, action, req.UserID,
			fmt.Sprintf("updated service rule type=%s for service=%d active=%t",
				updated.Type, updated.ServiceID, updated.IsActive))
	})
	if err != nil {
		if !errors.Is(err, ErrServiceRuleNotFound) {
			s.logger.Error("UpdateServiceRule: transaction failed for rule id=%d: %v", id, err)
		}
		return nil, err
	}

	s.logger.Info("UpdateServiceRule: successfully updated rule id=%d", id)
	return models.FromDomainServiceRule(updated)
}

// DeactivateServiceRule деактивирует правило услуги (soft delete)
func (s *Service) DeactivateServiceRule(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("DeactivateServiceRule: deactivating rule id=%d by user=%d", id, userID)

	rule, err := s.serviceRuleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, serviceRuleRepo.ErrRuleNotFound) {
			s.logger.Warn("DeactivateServiceRule: rule id=%d not found", id)
			return ErrServiceRuleNotFound
		}
		s.logger.Error("DeactivateServiceRule: repository error for rule id=%d: %v", id, err)
		return fmt.Errorf("%w: DeactivateServiceRule - repository error: %v", ErrInternal, err)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.serviceRuleRepo.SoftDelete(txCtx, id); err != nil {
			if errors.Is(err, serviceRuleRepo.ErrRuleNotFound) {
				return ErrServiceRuleNotFound
			}
			return fmt.Errorf("%w: DeactivateServiceRule - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, domain.AuditEntityServiceBookingRule, id,
			domain.AuditActionDeactivated, userID,
			fmt.Sprintf("deactivated service rule type=%s for service=%d", rule.Type, rule.ServiceID))
	})
	if err != nil {
		if !errors.Is(err, ErrServiceRuleNotFound) {
			s.logger.Error("DeactivateServiceRule: transaction failed for rule id=%d: %v", id, err)
		}
		return err
	}

	s.logger.Info("DeactivateServiceRule: successfully deactivated rule id=%d", id)
	return nil
}

// appendAudit добавляет запись в журнал изменений в рамках текущей транзакции
func (s *Service) appendAudit(ctx context.Context, entityType domain.AuditEntityType, entityID int64,
	action domain.AuditAction, userID int64, detail string) error {

	if len(detail) > domain.MaxAuditDetailLength {
		detail = detail[:domain.MaxAuditDetailLength]
	}

	_, err := s.auditRepo.Append(ctx, &domain.RuleAuditEntry{
		EntityType:  entityType,
		EntityID:    entityID,
		Action:      action,
		ActorUserID: userID,
		Detail:      detail,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to append audit entry: %v", ErrInternal, err)
	}
	return nil
}
