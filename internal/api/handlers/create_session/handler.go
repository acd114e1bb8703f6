package create_session

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
)

type Handler struct {
	service SessionCreator
	logger  Logger
}

func NewHandler(service SessionCreator, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/schedules/{date}/sessions
// Если сеанс создан, но немедленное подтверждение не удалось, операция считается неуспешной:
// статус берется из ошибки подтверждения (например 409), а в теле есть и созданный
// неподтвержденный сеанс, и confirmationError.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(date)
	if err != nil {
		h.logger.Warn("POST /schedules/{date}/sessions - Invalid start time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.Create(r.Context(), serviceReq)
	if err != nil {
		// Сеанс создан, подтвердить не удалось: отдаем созданный сеанс вместе с причиной
		if errors.Is(err, slots.ErrConfirmFailed) && result != nil {
			status, confirmErr := handlers.SlotsErrorResponse(err)
			if status >= http.StatusInternalServerError {
				h.logger.Error("POST /schedules/{date}/sessions - Session created but not confirmed: session_id=%d, error=%v",
					result.ID, err)
			} else {
				h.logger.Warn("POST /schedules/{date}/sessions - Session created but not confirmed: session_id=%d, status=%d, error=%v",
					result.ID, status, err)
			}
			handlers.RespondJSON(w, status, CreateSessionResponse{
				Session:           handlers.FromSessionResponse(result),
				ConfirmationError: &confirmErr,
			})
			return
		}

		status := handlers.RespondSlotsError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /schedules/{date}/sessions - Failed to create session: room_id=%d, employee_id=%d, error=%v",
				req.RoomID, req.EmployeeID, err)
		} else {
			h.logger.Warn("POST /schedules/{date}/sessions - Rejected: status=%d, error=%v", status, err)
		}
		return
	}

	h.logger.Info("POST /schedules/{date}/sessions - Session created successfully: session_id=%d, state=%s",
		result.ID, result.State)
	handlers.RespondJSON(w, http.StatusCreated, CreateSessionResponse{
		Session: handlers.FromSessionResponse(result),
	})
}
