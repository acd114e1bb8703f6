package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// SessionState состояние сеанса в жизненном цикле
type SessionState string

const (
	StateCreated   SessionState = "created"
	StateConfirmed SessionState = "confirmed"
	StateCancelled SessionState = "cancelled"
)

// Session сеанс (слот инфузии): рецепт в сауне с сотрудником в заданное время.
// Ссылки на справочники хранятся только как ID.
type Session struct {
	ID         int64
	ScheduleID int64
	RoomID     int64
	RecipeID   int64
	EmployeeID int64
	StartTime  types.TimeString
	Confirmed  bool // Расходники списаны
	Cancelled  bool // Терминальное состояние, ресурсы не удерживаются
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// State возвращает состояние сеанса.
// Для отмененного сеанса флаг Confirmed сохраняется как история и не влияет на состояние.
func (s *Session) State() SessionState {
	switch {
	case s.Cancelled:
		return StateCancelled
	case s.Confirmed:
		return StateConfirmed
	default:
		return StateCreated
	}
}

// IsActive возвращает true, если сеанс удерживает ресурсы (не отменен)
func (s *Session) IsActive() bool {
	return !s.Cancelled
}

// SessionDetails снимок сеанса вместе со справочными данными, на которые он ссылается.
// Производные поля вычисляются только из этого снимка.
type SessionDetails struct {
	Session  *Session
	Room     *Room
	Recipe   *Recipe
	Employee *Employee
}

// StartTime время начала сеанса
func (d SessionDetails) StartTime() types.TimeString {
	return d.Session.StartTime
}

// EndTime время окончания: начало + сумма длительностей шагов рецепта
func (d SessionDetails) EndTime() (types.TimeString, error) {
	if d.Recipe == nil {
		return types.TimeString{}, fmt.Errorf("session id=%d: recipe is not resolved", d.Session.ID)
	}
	return d.Session.StartTime.AddSeconds(d.Recipe.TotalDurationSeconds())
}

// EndTimeWithinDay время окончания, обрезанное до "24:00".
// Нужно для уже сохраненных сеансов: после правки рецепта окончание может уйти за полночь.
func (d SessionDetails) EndTimeWithinDay() (types.TimeString, error) {
	if d.Recipe == nil {
		return types.TimeString{}, fmt.Errorf("session id=%d: recipe is not resolved", d.Session.ID)
	}
	return d.Session.StartTime.AddSecondsWithinDay(d.Recipe.TotalDurationSeconds())
}

// EndTimeWithCooldown время, после которого сауна снова свободна.
// Проветривание после полуночи ни с чем не пересекается, поэтому значение не превышает "24:00".
func (d SessionDetails) EndTimeWithCooldown() (types.TimeString, error) {
	end, err := d.EndTimeWithinDay()
	if err != nil {
		return types.TimeString{}, err
	}
	if d.Room == nil {
		return types.TimeString{}, fmt.Errorf("session id=%d: room is not resolved", d.Session.ID)
	}
	return end.AddMinutesWithinDay(d.Room.CooldownMinutes)
}

// AverageIntensity средняя интенсивность рецепта сеанса
func (d SessionDetails) AverageIntensity() float64 {
	if d.Recipe == nil {
		return 0
	}
	return d.Recipe.AverageIntensity()
}

// IsRunningAt возвращает true, если now попадает в [начало, окончание)
func (d SessionDetails) IsRunningAt(now types.TimeString) bool {
	if now.IsZero() || d.Session.Cancelled {
		return false
	}
	end, err := d.EndTimeWithinDay()
	if err != nil {
		return false
	}
	return !now.IsBefore(d.Session.StartTime) && now.IsBefore(end)
}
