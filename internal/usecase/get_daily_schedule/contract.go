package get_daily_schedule

import (
	"context"
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
)

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	// GetByDate получает расписание на дату (ErrScheduleNotFound, если его еще нет)
	GetByDate(ctx context.Context, date time.Time) (*domain.Schedule, error)
}

// SessionRepository интерфейс репозитория сеансов
type SessionRepository interface {
	FindSessionsForDate(ctx context.Context, date time.Time, includeCancelled bool) ([]*domain.Session, error)
	FindEmployeeSessions(ctx context.Context, employeeID int64, date time.Time) ([]*domain.Session, error)
	FindRoomSessions(ctx context.Context, roomID int64, date time.Time) ([]*domain.Session, error)
}

// CatalogRepository интерфейс справочников
type CatalogRepository interface {
	GetRoomsByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Room, error)
	GetEmployeesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Employee, error)
	GetRecipesByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Recipe, error)
}

// IngredientRepository интерфейс чтения ингредиентов
type IngredientRepository interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Ingredient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
