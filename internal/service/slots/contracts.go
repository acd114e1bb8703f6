package slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
)

// SessionRepository интерфейс репозитория сеансов
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (*domain.Session, error)
	Save(ctx context.Context, session *domain.Session) error
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Session, error)
	FindSessionsForDate(ctx context.Context, date time.Time, includeCancelled bool) ([]*domain.Session, error)
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	FindOrCreateForDate(ctx context.Context, date time.Time) (*domain.Schedule, error)
}

// IngredientRepository интерфейс чтения остатков (без блокировки)
type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Ingredient, error)
}

// CatalogRepository интерфейс справочников
type CatalogRepository interface {
	GetRoom(ctx context.Context, id int64) (*domain.Room, error)
	GetEmployee(ctx context.Context, id int64) (*domain.Employee, error)
	GetRecipe(ctx context.Context, id int64) (*domain.Recipe, error)
	GetRoomsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Room, error)
	GetEmployeesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Employee, error)
	GetRecipesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Recipe, error)
}

// Ledger складской учет
type Ledger interface {
	Deduct(ctx context.Context, recipe *domain.Recipe) error
	Restore(ctx context.Context, recipe *domain.Recipe) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder счетчики планирования
type MetricsRecorder interface {
	IncConflict(conflictType string)
	IncTransition(transition string)
	IncStockRace()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
