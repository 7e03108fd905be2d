package rules

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/dbmetrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/psqlbuilder"
)

// Repository репозиторий для работы с глобальными правилами бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория глобальных правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var ruleColumns = []string{
	"id",
	"name",
	"rule_type",
	"params",
	"applies_to",
	"scope_ids",
	"priority",
	"is_active",
	"created_at",
	"updated_at",
}

// Create создает новое глобальное правило
func (r *Repository) Create(ctx context.Context, rule *domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	params, err := domain.EncodeRuleParams(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: Create: %v", ErrEncodeParams, err)
	}

	scopeIDs, err := json.Marshal(rule.ScopeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - encode scope_ids: %v", ErrEncodeParams, err)
	}

	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns(
			"name",
			"rule_type",
			"params",
			"applies_to",
			"scope_ids",
			"priority",
			"is_active",
		).
		Values(
			rule.Name,
			rule.Type,
			params,
			rule.AppliesTo,
			scopeIDs,
			rule.Priority,
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

// GetByID получает правило по ID (включая деактивированные)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	rule, err := scanRule(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID: %v", ErrScanRow, err)
	}

	return rule, nil
}

// List получает правила с фильтрацией по типу и активности
// Результат упорядочен по приоритету (выше - раньше), затем по ID
func (r *Repository) List(ctx context.Context, filter domain.BookingRulesFilter) ([]*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From("booking_rules").
		OrderBy("priority DESC, id ASC")

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

	result := make([]*domain.BookingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows.Scan)
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

// ListActive получает все активные правила, упорядоченные по приоритету
// Используется движком валидации
func (r *Repository) ListActive(ctx context.Context) ([]*domain.BookingRule, error) {
	active := true
	return r.List(ctx, domain.BookingRulesFilter{IsActive: &active})
}

// Update обновляет существующее правило
func (r *Repository) Update(ctx context.Context, id int64, rule *domain.BookingRule) (*domain.BookingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	params, err := domain.EncodeRuleParams(rule.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: Update: %v", ErrEncodeParams, err)
	}

	scopeIDs, err := json.Marshal(rule.ScopeIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - encode scope_ids: %v", ErrEncodeParams, err)
	}

	query, args, err := psqlbuilder.Update("booking_rules").
		Set("name", rule.Name).
		Set("rule_type", rule.Type).
		Set("params", params).
		Set("applies_to", rule.AppliesTo).
		Set("scope_ids", scopeIDs).
		Set("priority", rule.Priority).
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

// SoftDelete деактивирует правило (is_active = false)
// Физическое удаление не поддерживается - строка и история изменений сохраняются
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_rules").
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

// scanRule сканирует одну строку в domain.BookingRule
// scan абстрагирует row.Scan и rows.Scan
func scanRule(scan func(dest ...interface{}) error) (*domain.BookingRule, error) {
	var (
		rule      domain.BookingRule
		rawParams []byte
		rawScope  []byte
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := scan(
		&rule.ID,
		&rule.Name,
		&rule.Type,
		&rawParams,
		&rule.AppliesTo,
		&rawScope,
		&rule.Priority,
		&rule.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.Params, err = domain.DecodeRuleParams(rule.Type, rawParams)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeParams, err)
	}

	if err := json.Unmarshal(rawScope, &rule.ScopeIDs); err != nil {
		return nil, fmt.Errorf("%w: decode scope_ids: %v", ErrDecodeParams, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}
