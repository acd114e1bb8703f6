package cancel_session

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
)

const (
	msgInvalidSessionID        = "некорректный ID сеанса"
	msgInvalidRestoreInventory = "некорректное значение restoreInventory, ожидается true или false"
)

type Handler struct {
	service SessionCanceller
	logger  Logger
}

func NewHandler(service SessionCanceller, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/sessions/{sessionId}
// Query params: restoreInventory (optional, по умолчанию true)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.ParseID(mux.Vars(r)["sessionId"])
	if err != nil {
		h.logger.Warn("DELETE /sessions/{id} - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	restoreInventory := true
	if value := r.URL.Query().Get("restoreInventory"); value != "" {
		restoreInventory, err = strconv.ParseBool(value)
		if err != nil {
			h.logger.Warn("DELETE /sessions/{id} - Invalid restoreInventory: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRestoreInventory)
			return
		}
	}

	result, err := h.service.Cancel(r.Context(), sessionID, restoreInventory)
	if err != nil {
		status := handlers.RespondSlotsError(w, err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("DELETE /sessions/{id} - Failed to cancel session: session_id=%d, error=%v", sessionID, err)
		} else {
			h.logger.Warn("DELETE /sessions/{id} - Rejected: session_id=%d, status=%d, error=%v", sessionID, status, err)
		}
		return
	}

	h.logger.Info("DELETE /sessions/{id} - Session cancelled: session_id=%d, restore_inventory=%t",
		sessionID, restoreInventory)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromSessionResponse(result))
}
