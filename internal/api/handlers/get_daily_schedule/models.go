package get_daily_schedule

import (
	"github.com/m04kA/SMC-InfusionService/internal/domain"
	getDailySchedule "github.com/m04kA/SMC-InfusionService/internal/usecase/get_daily_schedule"
)

// DailyScheduleResponse HTTP response model
type DailyScheduleResponse struct {
	Date       string            `json:"date"`
	ScheduleID int64             `json:"scheduleId"`
	Published  bool              `json:"published"`
	Notes      *string           `json:"notes,omitempty"`
	Sessions   []SessionResponse `json:"sessions"`
}

// SessionResponse сеанс расписания
type SessionResponse struct {
	ID                  int64   `json:"id"`
	RoomID              int64   `json:"roomId"`
	RoomName            string  `json:"roomName"`
	RecipeID            int64   `json:"recipeId"`
	RecipeName          string  `json:"recipeName"`
	Theme               *string `json:"theme,omitempty"`
	EmployeeID          int64   `json:"employeeId"`
	EmployeeName        string  `json:"employeeName"`
	StartTime           string  `json:"startTime"`
	EndTime             string  `json:"endTime"`
	EndTimeWithCooldown string  `json:"endTimeWithCooldown"`
	DurationSeconds     int     `json:"durationSeconds"`
	AverageIntensity    float64 `json:"averageIntensity"`
	IntensityLabel      string  `json:"intensityLabel"`
	TotalCost           string  `json:"totalCost"` // Десятичная строка, например "7.50"
	State               string  `json:"state"`
	Confirmed           bool    `json:"confirmed"`
	Cancelled           bool    `json:"cancelled"`
	Running             bool    `json:"running"`
	Notes               *string `json:"notes,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDailySchedule.Response) *DailyScheduleResponse {
	sessions := make([]SessionResponse, 0, len(resp.Sessions))
	for _, s := range resp.Sessions {
		sessions = append(sessions, SessionResponse{
			ID:                  s.ID,
			RoomID:              s.RoomID,
			RoomName:            s.RoomName,
			RecipeID:            s.RecipeID,
			RecipeName:          s.RecipeName,
			Theme:               s.Theme,
			EmployeeID:          s.EmployeeID,
			EmployeeName:        s.EmployeeName,
			StartTime:           s.StartTime.String(),
			EndTime:             s.EndTime.String(),
			EndTimeWithCooldown: s.EndTimeWithCooldown.String(),
			DurationSeconds:     s.DurationSeconds,
			AverageIntensity:    s.AverageIntensity,
			IntensityLabel:      s.IntensityLabel,
			TotalCost:           s.TotalCost.StringFixed(2),
			State:               s.State,
			Confirmed:           s.Confirmed,
			Cancelled:           s.Cancelled,
			Running:             s.Running,
			Notes:               s.Notes,
		})
	}

	return &DailyScheduleResponse{
		Date:       resp.Date.Format(domain.DateFormat),
		ScheduleID: resp.ScheduleID,
		Published:  resp.Published,
		Notes:      resp.Notes,
		Sessions:   sessions,
	}
}
