package auditlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/dbmetrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/psqlbuilder"
)

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("auditlog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("auditlog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("auditlog.repository: failed to scan row")
)

// DBExecutor интерфейс для выполнения запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий журнала изменений правил
// Журнал append-only: записи не изменяются и не удаляются
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория журнала
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Append добавляет запись в журнал изменений
func (r *Repository) Append(ctx context.Context, entry *domain.RuleAuditEntry) (*domain.RuleAuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("rule_audit_log").
		Columns(
			"entity_type",
			"entity_id",
			"action",
			"actor_user_id",
			"detail",
		).
		Values(
			entry.EntityType,
			entry.EntityID,
			entry.Action,
			entry.ActorUserID,
			entry.Detail,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Append - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Append - execute insert: %v", ErrExecQuery, err)
	}

	entry.CreatedAt = createdAt.Time
	return entry, nil
}

// ListByEntity получает историю изменений конкретной сущности (новые записи первыми)
func (r *Repository) ListByEntity(ctx context.Context, entityType domain.AuditEntityType, entityID int64) ([]*domain.RuleAuditEntry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"entity_type",
		"entity_id",
		"action",
		"actor_user_id",
		"detail",
		"created_at",
	).
		From("rule_audit_log").
		Where(squirrel.Eq{"entity_type": entityType, "entity_id": entityID}).
		OrderBy("created_at DESC, id DESC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	entries := make([]*domain.RuleAuditEntry, 0)
	for rows.Next() {
		var entry domain.RuleAuditEntry
		var createdAt sql.NullTime

		err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&entry.ActorUserID,
			&entry.Detail,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByEntity - scan row: %v", ErrScanRow, err)
		}

		entry.CreatedAt = createdAt.Time
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEntity - rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
