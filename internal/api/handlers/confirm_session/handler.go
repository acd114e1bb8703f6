package confirm_session

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
)

const (
	msgInvalidSessionID = "некорректный ID сеанса"
)

type Handler struct {
	service SessionConfirmer
	logger  Logger
}

func NewHandler(service SessionConfirmer, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/confirm - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	result, err := h.service.Confirm(r.Context(), sessionID)
	if err != nil {
		status := handlers.RespondSlotsError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("POST /sessions/{id}/confirm - Failed to confirm session: session_id=%d, error=%v", sessionID, err)
		} else {
			h.logger.Warn("POST /sessions/{id}/confirm - Rejected: session_id=%d, status=%d, error=%v", sessionID, status, err)
		}
		return
	}

	h.logger.Info("POST /sessions/{id}/confirm - Session confirmed: session_id=%d", sessionID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSessionResponse(result))
}
