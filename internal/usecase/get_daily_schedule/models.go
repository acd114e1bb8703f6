package get_daily_schedule

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// Request модель запроса расписания дня
type Request struct {
	Date             time.Time // Дата расписания (без времени)
	RoomID           *int64    // Только сеансы сауны (опционально)
	EmployeeID       *int64    // Только сеансы сотрудника (опционально)
	IncludeCancelled bool      // Включать отмененные сеансы (игнорируется при фильтрах)
}

// Response модель ответа с расписанием дня
type Response struct {
	Date       time.Time // Дата расписания
	ScheduleID int64     // 0, если на дату еще ничего не планировалось
	Published  bool      // Расписание опубликовано для гостей
	Notes      *string
	Sessions   []Session // Сеансы в порядке начала
}

// Session сеанс с вычисленными полями
type Session struct {
	ID                  int64
	RoomID              int64
	RoomName            string
	RecipeID            int64
	RecipeName          string
	Theme               *string
	EmployeeID          int64
	EmployeeName        string
	StartTime           types.TimeString
	EndTime             types.TimeString
	EndTimeWithCooldown types.TimeString
	DurationSeconds     int
	AverageIntensity    float64
	IntensityLabel      string // Mild / Mittel / Intensiv
	TotalCost           decimal.Decimal
	State               string
	Confirmed           bool
	Cancelled           bool
	Running             bool // Сеанс идет прямо сейчас (только для сегодняшней даты)
	Notes               *string
}
