package validate_session

import (
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
)

// ValidateSessionRequest HTTP request model.
// SessionID задается при повторной проверке уже существующего сеанса.
type ValidateSessionRequest struct {
	handlers.ProposalRequest
	SessionID *int64 `json:"sessionId,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ValidateSessionRequest) ToServiceRequest(date time.Time) (*models.ProposeSessionRequest, error) {
	proposal, err := r.ProposalRequest.ToServiceRequest(date)
	if err != nil {
		return nil, err
	}
	proposal.SessionID = r.SessionID
	return proposal, nil
}

// ValidateSessionResponse HTTP response model
type ValidateSessionResponse struct {
	Valid     bool                        `json:"valid"`
	Conflicts []handlers.ConflictResponse `json:"conflicts"`
}
