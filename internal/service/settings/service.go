package settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	settingsRepo "github.com/sharpcut/SharpCut-RulesService/internal/infra/storage/settings"
	"github.com/sharpcut/SharpCut-RulesService/internal/service/settings/models"
)

// Service сервис для управления настройками бронирования
// Настройки существуют в единственном экземпляре: создаются при онбординге,
// дальше только обновляются
type Service struct {
	settingsRepo SettingsRepository
	auditRepo    AuditRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(
	settingsRepo SettingsRepository,
	auditRepo AuditRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		settingsRepo: settingsRepo,
		auditRepo:    auditRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Get получает текущие настройки бронирования
func (s *Service) Get(ctx context.Context) (*models.SettingsResponse, error) {
	s.logger.Info("Get: fetching booking settings")

	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Get: booking settings not found")
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSettings(current), nil
}

// Create создает настройки бронирования
// Повторный вызов возвращает ErrSettingsAlreadyExist
func (s *Service) Create(ctx context.Context, req *models.CreateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Create: creating booking settings by user=%d", req.UserID)

	// 1. Конвертируем и валидируем
	newSettings := req.ToDomainSettings()
	if err := s.validateSettingsData(newSettings); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	// 2. Создаем настройки и запись журнала одной транзакцией
	var created *domain.BookingSettings
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		created, err = s.settingsRepo.Create(txCtx, newSettings)
		if err != nil {
			if errors.Is(err, settingsRepo.ErrSettingsExist) {
				return ErrSettingsAlreadyExist
			}
			return fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, created.ID, domain.AuditActionCreated, req.UserID,
			fmt.Sprintf("created settings hours=%s-%s same_day=%t",
				created.BusinessStartTime, created.BusinessEndTime, created.AllowSameDayBooking))
	})
	if err != nil {
		if errors.Is(err, ErrSettingsAlreadyExist) {
			s.logger.Warn("Create: booking settings already exist")
		} else {
			s.logger.Error("Create: transaction failed: %v", err)
		}
		return nil, err
	}

	s.logger.Info("Create: successfully created settings id=%d", created.ID)
	return models.FromDomainSettings(created), nil
}

// Update обновляет настройки бронирования
// Поддерживает частичное обновление - обновляются только указанные поля
func (s *Service) Update(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Update: updating booking settings by user=%d", req.UserID)

	// 1. Получаем существующие настройки
	current, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			s.logger.Warn("Update: booking settings not found")
			return nil, ErrSettingsNotFound
		}
		s.logger.Error("Update: repository error: %v", err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	// 2. Применяем обновления и валидируем результат
	req.ApplyToSettings(current)
	if err := s.validateSettingsData(current); err != nil {
		s.logger.Warn("Update: validation failed: %v", err)
		return nil, err
	}

	// 3. Обновляем настройки и пишем журнал одной транзакцией
	var updated *domain.BookingSettings
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		var err error
		updated, err = s.settingsRepo.Update(txCtx, current.ID, current)
		if err != nil {
			if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				return ErrSettingsNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		return s.appendAudit(txCtx, updated.ID, domain.AuditActionUpdated, req.UserID,
			fmt.Sprintf("updated settings hours=%s-%s same_day=%t cutoff=%s",
				updated.BusinessStartTime, updated.BusinessEndTime,
				updated.AllowSameDayBooking, updated.SameDayCutoffTime))
	})
	if err != nil {
		if !errors.Is(err, ErrSettingsNotFound) {
			s.logger.Error("Update: transaction failed: %v", err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated settings id=%d", updated.ID)
	return models.FromDomainSettings(updated), nil
}

// validateSettingsData валидирует настройки бронирования
func (s *Service) validateSettingsData(settings *domain.BookingSettings) error {
	if err := settings.BusinessStartTime.Validate(); err != nil {
		return fmt.Errorf("%w: businessStartTime: %v", ErrInvalidInput, err)
	}
	if err := settings.BusinessEndTime.Validate(); err != nil {
		return fmt.Errorf("%w: businessEndTime: %v", ErrInvalidInput, err)
	}
	if err := settings.SameDayCutoffTime.Validate(); err != nil {
		return fmt.Errorf("%w: sameDayCutoffTime: %v", ErrInvalidInput, err)
	}

	if !settings.BusinessStartTime.IsBefore(settings.BusinessEndTime) {
		return fmt.Errorf("%w: businessStartTime must be before businessEndTime", ErrInvalidInput)
	}

	if settings.BufferTimeMinutes < 0 || settings.BufferTimeMinutes > 120 {
		return fmt.Errorf("%w: bufferTimeMinutes must be between 0 and 120", ErrInvalidInput)
	}

	if settings.MaxAdvanceDays < 0 || settings.MaxAdvanceDays > domain.MaxAdvanceDaysLimit {
		return fmt.Errorf("%w: maxAdvanceDays must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceDaysLimit)
	}

	if settings.MinAdvanceHours < 0 || settings.MinAdvanceHours > domain.MaxAdvanceHoursLimit {
		return fmt.Errorf("%w: minAdvanceHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceHoursLimit)
	}

	return nil
}

// appendAudit добавляет запись в журнал изменений в рамках текущей транзакции
func (s *Service) appendAudit(ctx context.Context, entityID int64, action domain.AuditAction,
	userID int64, detail string) error {

	if len(detail) > domain.MaxAuditDetailLength {
		detail = detail[:domain.MaxAuditDetailLength]
	}

	_, err := s.auditRepo.Append(ctx, &domain.RuleAuditEntry{
		EntityType:  domain.AuditEntityBookingSettings,
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
