package session

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

var columns = []string{
	"s.id",
	"s.schedule_id",
	"s.room_id",
	"s.recipe_id",
	"s.employee_id",
	"s.start_time",
	"s.confirmed",
	"s.cancelled",
	"s.notes",
	"s.created_at",
	"s.updated_at",
}

// Repository репозиторий сеансов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сеансов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет новый сеанс
func (r *Repository) Create(ctx context.Context, session *domain.Session) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("sessions").
		Columns(
			"schedule_id",
			"room_id",
			"recipe_id",
			"employee_id",
			"start_time",
			"confirmed",
			"cancelled",
			"notes",
		).
		Values(
			session.ScheduleID,
			session.RoomID,
			session.RecipeID,
			session.EmployeeID,
			session.StartTime,
			session.Confirmed,
			session.Cancelled,
			session.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&session.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time

	return session, nil
}

// Save обновляет изменяемые поля сеанса: флаги состояния и заметки
func (r *Repository) Save(ctx context.Context, session *domain.Session) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("sessions").
		Set("confirmed", session.Confirmed).
		Set("cancelled", session.Cancelled).
		Set("notes", session.Notes).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": session.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	var updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrSessionNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: Save - execute update: %w", ErrExecQuery, err)
	}

	session.UpdatedAt = updatedAt.Time
	return nil
}

// GetByID получает сеанс по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	return r.getOne(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает сеанс и блокирует его строку до конца транзакции
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Session, error) {
	return r.getOne(ctx, "GetByIDForUpdate", id, dbmetrics.IsInTransaction(ctx))
}

// FindSessionsForDate сеансы даты в порядке начала (затем ID)
func (r *Repository) FindSessionsForDate(ctx context.Context, date time.Time, includeCancelled bool) ([]*domain.Session, error) {
	selectBuilder := r.selectForDate(date)
	if !includeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.cancelled": false})
	}
	return r.list(ctx, "FindSessionsForDate", selectBuilder)
}

// FindEmployeeSessions неотмененные сеансы сотрудника на дату
func (r *Repository) FindEmployeeSessions(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Session, error) {
	selectBuilder := r.selectForDate(date).
		Where(squirrel.Eq{"s.employee_id": employeeID, "s.cancelled": false})
	return r.list(ctx, "FindEmployeeSessions", selectBuilder)
}

// FindRoomSessions неотмененные сеансы сауны на дату
func (r *Repository) FindRoomSessions(ctx context.Context, roomID int64, date time.Time) ([]*domain.Session, error) {
	selectBuilder := r.selectForDate(date).
		Where(squirrel.Eq{"s.room_id": roomID, "s.cancelled": false})
	return r.list(ctx, "FindRoomSessions", selectBuilder)
}

func (r *Repository) selectForDate(date time.Time) squirrel.SelectBuilder {
	return psqlbuilder.Select(columns...).
		From("sessions s").
		Join("schedules sc ON sc.id = s.schedule_id").
		Where(squirrel.Eq{"sc.schedule_date": domain.DateOnly(date).Format(domain.DateFormat)}).
		OrderBy("s.start_time ASC", "s.id ASC")
}

func (r *Repository) getOne(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("sessions s").
		Where(squirrel.Eq{"s.id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	session, err := scanSession(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan session: %w", ErrScanRow, op, err)
	}

	return session, nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Session, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan session: %w", ErrScanRow, op, err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return sessions, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var session domain.Session
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&session.ID,
		&session.ScheduleID,
		&session.RoomID,
		&session.RecipeID,
		&session.EmployeeID,
		&session.StartTime,
		&session.Confirmed,
		&session.Cancelled,
		&session.Notes,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	session.CreatedAt = createdAt.Time
	session.UpdatedAt = updatedAt.Time
	return &session, nil
}
