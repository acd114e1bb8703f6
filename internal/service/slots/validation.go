package slots

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
)

// validateProposal проверяет входные данные предлагаемого сеанса
func validateProposal(req *models.ProposeSessionRequest) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.RoomID <= 0 {
		return fmt.Errorf("%w: room_id must be positive", ErrInvalidInput)
	}
	if req.RecipeID <= 0 {
		return fmt.Errorf("%w: recipe_id must be positive", ErrInvalidInput)
	}
	if req.EmployeeID <= 0 {
		return fmt.Errorf("%w: employee_id must be positive", ErrInvalidInput)
	}
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start_time: %v", ErrInvalidInput, err)
	}
	if req.Notes != nil && utf8.RuneCountInString(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}
	if req.SessionID != nil && *req.SessionID <= 0 {
		return fmt.Errorf("%w: session_id must be positive", ErrInvalidInput)
	}
	return nil
}

func validateSessionID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: session id must be positive", ErrInvalidInput)
	}
	return nil
}
