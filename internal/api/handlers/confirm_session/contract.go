package confirm_session

import (
	"context"

	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
)

type SessionConfirmer interface {
	Confirm(ctx context.Context, sessionID int64) (*models.SessionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
