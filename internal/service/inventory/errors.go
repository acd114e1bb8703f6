package inventory

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInsufficientStock возвращается, когда остатка не хватает хотя бы по одному ингредиенту
	ErrInsufficientStock = errors.New("inventory: insufficient stock")

	// ErrIngredientNotFound возвращается, когда рецепт ссылается на несуществующий ингредиент
	ErrIngredientNotFound = errors.New("inventory: ingredient not found")

	// ErrInternal возвращается при внутренних ошибках склада
	ErrInternal = errors.New("inventory: internal error")
)

// Shortage нехватка по одному ингредиенту
type Shortage struct {
	IngredientID int64
	Name         string
	Required     int
	Available    int
}

// InsufficientStockError перечисляет все ингредиенты, которых не хватило.
// Списание в этом случае не выполняется ни по одному ингредиенту.
type InsufficientStockError struct {
	Shortages []Shortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, 0, len(e.Shortages))
	for _, s := range e.Shortages {
		parts = append(parts, fmt.Sprintf("ingredient %s (id=%d): required %d, available %d",
			s.Name, s.IngredientID, s.Required, s.Available))
	}
	return fmt.Sprintf("%s: %s", ErrInsufficientStock.Error(), strings.Join(parts, "; "))
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}
