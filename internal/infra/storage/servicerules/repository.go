package servicerules

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/dbmetrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с правилами услуг
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил услуг
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var serviceRuleColumns = []string{
	"id",
	"service_id",
	"rule_type",
	"params",
	"is_active",
	"created_at",
	"updated_at",
}

// Create создает новое правило услуги
func (r *Repository) Create(ctx context.Context, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	params, err := domain.EncodeServiceRuleParams(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncodeParams, err)
	}

	query, args, err := psqlbuilder.Insert("service_booking_rules").
		Columns(
			"service_id",
			"rule_type",
			"params",
			"is_active",
		).
		Values(
			rule.ServiceID,
			rule.Type,
			params,
			rule.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&rule.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetByID получает правило услуги по ID (включая деактивированные)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ServiceBookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceRuleColumns...).
		From("service_booking_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	rule, err := scanServiceRule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID: %v", ErrScanRow, err)
	}

	return rule, nil
}

// List получает правила услуг с фильтрацией по услуге, типу и активности
func (r *Repository) List(ctx context.Context, filter domain.ServiceRulesFilter) ([]*domain.ServiceBookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(serviceRuleColumns...).
		From("service_booking_rules").
		OrderBy("service_id ASC, id ASC")

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *filter.ServiceID})
	}
	if filter.Type != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"rule_type": *filter.Type})
	}
	if filter.IsActive != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": *filter.IsActive})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ServiceBookingRule, 0)
	for rows.Next() {
		rule, err := scanServiceRule(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: List: %v", ErrScanRow, err)
		}
		result = append(result, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// ListActiveByService получает активные правила для конкретной услуги
// Используется движком валидации
func (r *Repository) ListActiveByService(ctx context.Context, serviceID int64) ([]*domain.ServiceBookingRule, error) {
	active := true
	return r.List(ctx, domain.ServiceRulesFilter{
		ServiceID: &serviceID,
		IsActive:  &active,
	})
}

// Update обновляет существующее правило услуги
func (r *Repository) Update(ctx context.Context, id int64, rule *domain.ServiceBookingRule) (*domain.ServiceBookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	params, err := domain.EncodeServiceRuleParams(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: Update: %v", ErrEncodeParams, err)
	}

	query, args, err := psqlbuilder.Update("service_booking_rules").
		Set("service_id", rule.ServiceID).
		Set("rule_type", rule.Type).
		Set("params", params).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rule.ID = id
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// SoftDelete деактивирует правило услуги (is_active = false)
// Физическое удаление не поддерживается
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("service_booking_rules").
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SoftDelete - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SoftDelete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrRuleNotFound
	}

	return nil
}

// scanServiceRule сканирует одну строку в domain.ServiceBookingRule
func scanServiceRule(scan func(dest ...interface{}) error) (*domain.ServiceBookingRule, error) {
	var (
		rule      domain.ServiceBookingRule
		rawParams []byte
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := scan(
		&rule.ID,
		&rule.ServiceID,
		&rule.Type,
		&rawParams,
		&rule.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Params, err = domain.DecodeServiceRuleParams(rule.Type, rawParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeParams, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
