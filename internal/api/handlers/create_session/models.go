package create_session

import (
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
)

// CreateSessionRequest HTTP request model
type CreateSessionRequest struct {
	handlers.ProposalRequest
	ConfirmImmediately bool `json:"confirmImmediately"`
}

// CreateSessionResponse HTTP response model.
// ConfirmationError заполняется, когда сеанс создан, но немедленное подтверждение не удалось;
// статус ответа в этом случае не 2xx.
type CreateSessionResponse struct {
	Session           *handlers.SessionResponse `json:"session"`
	ConfirmationError *handlers.ErrorResponse   `json:"confirmationError,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateSessionRequest) ToServiceRequest(date time.Time) (*models.CreateSessionRequest, error) {
	proposal, err := r.ProposalRequest.ToServiceRequest(date)
	if err != nil {
		return nil, err
	}

	return &models.CreateSessionRequest{
		ProposeSessionRequest: *proposal,
		ConfirmImmediately:    r.ConfirmImmediately,
	}, nil
}
