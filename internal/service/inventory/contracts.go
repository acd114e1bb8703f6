package inventory

import (
	"context"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
)

// IngredientRepository интерфейс репозитория ингредиентов.
// GetByIDForUpdate внутри транзакции блокирует строку ингредиента до коммита.
type IngredientRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Ingredient, error)
	UpdateStock(ctx context.Context, id int64, stockLevel int) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
