package validate_session

import (
	"context"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
)

type SessionValidator interface {
	Validate(ctx context.Context, req *models.ProposeSessionRequest) ([]domain.Conflict, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
