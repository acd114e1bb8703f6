package validate_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
)

type Handler struct {
	service SessionValidator
	logger  Logger
}

func NewHandler(service SessionValidator, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedules/{date}/sessions/validate
// Только предпросмотр: ничего не сохраняет
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions/validate - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req ValidateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions/validate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(date)
	if err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions/validate - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	conflicts, err := h.service.Validate(r.Context(), serviceReq)
	if err != nil {
		status := handlers.RespondSlotsError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /schedules/{date}/sessions/validate - Failed to validate session: error=%v", err)
		} else {
			h.logger.Warn("POST /schedules/{date}/sessions/validate - Rejected: status=%d, error=%v", status, err)
		}
		return
	}

	h.logger.Info("POST /schedules/{date}/sessions/validate - %d conflict(s): room_id=%d, employee_id=%d",
		len(conflicts), req.RoomID, req.EmployeeID)
	handlers.RespondJSON(w, http.StatusOK, ValidateSessionResponse{
		Valid:     len(conflicts) == 0,
		Conflicts: handlers.FromDomainConflicts(conflicts),
	})
}
