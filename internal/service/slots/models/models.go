package models

import (
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// ProposeSessionRequest предлагаемый сеанс
type ProposeSessionRequest struct {
	Date       time.Time        // Дата расписания
	RoomID     int64            // ID сауны
	RecipeID   int64            // ID рецепта
	EmployeeID int64            // ID сотрудника
	StartTime  types.TimeString // Время начала
	Notes      *string          // Заметки (опционально)

	// SessionID ID уже существующего сеанса, если он проверяется повторно.
	// Такой сеанс не сравнивается сам с собой. Только для Validate, Create его отклоняет.
	SessionID *int64
}

// CreateSessionRequest запрос на создание сеанса
type CreateSessionRequest struct {
	ProposeSessionRequest
	ConfirmImmediately bool // Сразу списать расходники
}

// SessionResponse сеанс с вычисленными полями
type SessionResponse struct {
	ID                  int64
	ScheduleID          int64
	RoomID              int64
	RecipeID            int64
	EmployeeID          int64
	StartTime           types.TimeString
	EndTime             types.TimeString
	EndTimeWithCooldown types.TimeString
	State               string
	Confirmed           bool
	Cancelled           bool
	Notes               *string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// FromDomainSession собирает ответ из снимка сеанса.
// Если справочники не разрешены, время окончания остается незаданным.
func FromDomainSession(details domain.SessionDetails) *SessionResponse {
	s := details.Session
	resp := &SessionResponse{
		ID:         s.ID,
		ScheduleID: s.ScheduleID,
		RoomID:     s.RoomID,
		RecipeID:   s.RecipeID,
		EmployeeID: s.EmployeeID,
		StartTime:  s.StartTime,
		State:      string(s.State()),
		Confirmed:  s.Confirmed,
		Cancelled:  s.Cancelled,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}

	if end, err := details.EndTimeWithinDay(); err == nil {
		resp.EndTime = end
	}
	if end, err := details.EndTimeWithCooldown(); err == nil {
		resp.EndTimeWithCooldown = end
	}

	return resp
}
