package settings

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/sharpcut/SharpCut-RulesService/internal/domain"
	"github.com/sharpcut/SharpCut-RulesService/pkg/dbmetrics"
	"github.com/sharpcut/SharpCut-RulesService/pkg/psqlbuilder"
)

// DBExecutor интерфейс для выполнения запросов к БД
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий для работы с настройками бронирования
// Настройки хранятся единственной записью на бизнес
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var settingsColumns = []string{
	"id",
	"business_start_time",
	"business_end_time",
	"allow_same_day_booking",
	"same_day_cutoff_time",
	"buffer_time_minutes",
	"max_advance_booking_days",
	"min_advance_booking_hours",
	"created_at",
	"updated_at",
}

// Get получает настройки бизнеса
// Возвращает ErrSettingsNotFound, если запись ещё не создана
func (r *Repository) Get(ctx context.Context) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(settingsColumns...).
		From("booking_settings").
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	settings, err := scanSettings(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get: %v", ErrScanRow, err)
	}

	return settings, nil
}

// Create создает запись настроек при онбординге бизнеса
func (r *Repository) Create(ctx context.Context, settings *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	// Настройки - singleton: вторая запись недопустима
	if _, err := r.Get(ctx); err == nil {
		return nil, ErrSettingsExist
	} else if err != ErrSettingsNotFound {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"business_start_time",
			"business_end_time",
			"allow_same_day_booking",
			"same_day_cutoff_time",
			"buffer_time_minutes",
			"max_advance_booking_days",
			"min_advance_booking_hours",
		).
		Values(
			settings.BusinessStartTime,
			settings.BusinessEndTime,
			settings.AllowSameDayBooking,
			settings.SameDayCutoffTime,
			settings.BufferTimeMinutes,
			settings.MaxAdvanceDays,
			settings.MinAdvanceHours,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&settings.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// Update обновляет настройки бизнеса
func (r *Repository) Update(ctx context.Context, id int64, settings *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("booking_settings").
		Set("business_start_time", settings.BusinessStartTime).
		Set("business_end_time", settings.BusinessEndTime).
		Set("allow_same_day_booking", settings.AllowSameDayBooking).
		Set("same_day_cutoff_time", settings.SameDayCutoffTime).
		Set("buffer_time_minutes", settings.BufferTimeMinutes).
		Set("max_advance_booking_days", settings.MaxAdvanceDays).
		Set("min_advance_booking_hours", settings.MinAdvanceHours).
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
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	settings.ID = id
	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return settings, nil
}

// scanSettings сканирует одну строку в domain.BookingSettings
func scanSettings(scan func(dest ...interface{}) error) (*domain.BookingSettings, error) {
	var (
		settings  domain.BookingSettings
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := scan(
		&settings.ID,
		&settings.BusinessStartTime,
		&settings.BusinessEndTime,
		&settings.AllowSameDayBooking,
		&settings.SameDayCutoffTime,
		&settings.BufferTimeMinutes,
		&settings.MaxAdvanceDays,
		&settings.MinAdvanceHours,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	settings.CreatedAt = createdAt.Time
	settings.UpdatedAt = updatedAt.Time

	return &settings, nil
}
