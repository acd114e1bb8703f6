package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InfusionService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний. На одну дату существует не больше одного расписания
// (уникальный индекс по schedule_date).
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// FindOrCreateForDate возвращает расписание даты, создавая его при отсутствии.
// Внутри транзакции строка расписания блокируется (FOR UPDATE): все изменения
// сеансов одной даты выполняются последовательно.
func (r *Repository) FindOrCreateForDate(ctx context.Context, date time.Time) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	day := domain.DateOnly(date).Format(domain.DateFormat)

	query, args, err := psqlbuilder.Insert("schedules").
		Columns("schedule_date").
		Values(day).
		Suffix("ON CONFLICT (schedule_date) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FindOrCreateForDate - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: FindOrCreateForDate - execute insert: %w", ErrExecQuery, err)
	}

	return r.getByDate(ctx, "FindOrCreateForDate", date, dbmetrics.IsInTransaction(ctx))
}

// GetByDate возвращает расписание даты без создания
func (r *Repository) GetByDate(ctx context.Context, date time.Time) (*domain.Schedule, error) {
	return r.getByDate(ctx, "GetByDate", date, false)
}

func (r *Repository) getByDate(ctx context.Context, op string, date time.Time, forUpdate bool) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "schedule_date", "published", "notes", "created_at", "updated_at").
		From("schedules").
		Where(squirrel.Eq{"schedule_date": domain.DateOnly(date).Format(domain.DateFormat)})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	var schedule domain.Schedule
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&schedule.ID,
		&schedule.Date,
		&schedule.Published,
		&schedule.Notes,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan schedule: %w", ErrScanRow, op, err)
	}

	schedule.Date = domain.DateOnly(schedule.Date)
	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time
	schedule.Sessions = make([]*domain.Session, 0)

	return &schedule, nil
}
