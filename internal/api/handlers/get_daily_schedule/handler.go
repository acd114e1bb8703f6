package get_daily_schedule

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
	getDailySchedule "github.com/m04kA/SMC-InfusionService/internal/usecase/get_daily_schedule"
)

const (
	msgInvalidDate             = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRoomID           = "некорректный ID сауны"
	msgInvalidEmployeeID       = "некорректный ID сотрудника"
	msgInvalidIncludeCancelled = "некорректное значение includeCancelled, ожидается true или false"
	msgInvalidInput            = "некорректные входные данные"
)

type Handler struct {
	useCase GetDailyScheduleUseCase
	logger  Logger
}

func NewHandler(useCase GetDailyScheduleUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/schedules/{date}
// Query params: includeCancelled, roomId, employeeId (все опциональные)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("GET /schedules/{date} - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	req := &getDailySchedule.Request{Date: date}
	query := r.URL.Query()

	if value := query.Get("includeCancelled"); value != "" {
		req.IncludeCancelled, err = strconv.ParseBool(value)
		if err != nil {
			h.logger.Warn("GET /schedules/{date} - Invalid includeCancelled: %v", err)
			handlers.RespondBadRequest(w, msgInvalidIncludeCancelled)
			return
		}
	}

	if value := query.Get("roomId"); value != "" {
		roomID, err := handlers.ParseID(value)
		if err != nil {
			h.logger.Warn("GET /schedules/{date} - Invalid room ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRoomID)
			return
		}
		req.RoomID = &roomID
	}

	if value := query.Get("employeeId"); value != "" {
		employeeID, err := handlers.ParseID(value)
		if err != nil {
			h.logger.Warn("GET /schedules/{date} - Invalid employee ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidEmployeeID)
			return
		}
		req.EmployeeID = &employeeID
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, getDailySchedule.ErrInvalidInput):
			h.logger.Warn("GET /schedules/{date} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET /schedules/{date} - Failed to get schedule: date=%s, error=%v",
				mux.Vars(r)["date"], err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /schedules/{date} - Schedule returned: date=%s, sessions=%d",
		mux.Vars(r)["date"], len(result.Sessions))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
