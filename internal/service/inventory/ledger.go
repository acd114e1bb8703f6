// Package inventory ведет учет расходников: списание при подтверждении сеанса
// и возврат при отмене подтвержденного сеанса.
//
// Методы Ledger рассчитаны на вызов внутри транзакции вызывающего
// (txManager.DoSerializable): строки ингредиентов блокируются по возрастанию ID
// и остаются заблокированными до коммита, поэтому две операции над одним
// ингредиентом не могут перемешаться.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	ingredientRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/ingredient"
)

// Ledger складской учет ингредиентов
type Ledger struct {
	ingredientRepo IngredientRepository
	logger         Logger
}

// NewLedger создает новый экземпляр складского учета
func NewLedger(ingredientRepo IngredientRepository, logger Logger) *Ledger {
	return &Ledger{
		ingredientRepo: ingredientRepo,
		logger:         logger,
	}
}

// lockedRequirement потребность рецепта вместе с заблокированной строкой ингредиента
type lockedRequirement struct {
	requirement domain.IngredientRequirement
	ingredient  *domain.Ingredient
}

// Deduct списывает все ингредиенты рецепта.
// Сначала проверяются все потребности, и только затем меняются остатки:
// при нехватке хотя бы одного ингредиента не меняется ни один.
func (l *Ledger) Deduct(ctx context.Context, recipe *domain.Recipe) error {
	locked, err := l.lock(ctx, "Deduct", recipe)
	if err != nil {
		return err
	}

	shortages := make([]Shortage, 0)
	for _, item := range locked {
		if !item.ingredient.HasStock(item.requirement.Amount) {
			shortages = append(shortages, Shortage{
				IngredientID: item.ingredient.ID,
				Name:         item.ingredient.Name,
				Required:     item.requirement.Amount,
				Available:    item.ingredient.StockLevel,
			})
		}
	}

	if len(shortages) > 0 {
		l.logger.Warn("Deduct: recipe id=%d, %d ingredient(s) short", recipe.ID, len(shortages))
		return &InsufficientStockError{Shortages: shortages}
	}

	for _, item := range locked {
		remaining := item.ingredient.StockLevel - item.requirement.Amount
		if err := l.ingredientRepo.UpdateStock(ctx, item.ingredient.ID, remaining); err != nil {
			l.logger.Error("Deduct: failed to update stock for ingredient id=%d: %v", item.ingredient.ID, err)
			return fmt.Errorf("%w: Deduct - update stock: %w", ErrInternal, err)
		}
		item.ingredient.StockLevel = remaining

		l.logger.Info("Deduct: ingredient id=%d -%d (remaining %d)",
			item.ingredient.ID, item.requirement.Amount, remaining)
	}

	return nil
}

// Restore возвращает на склад ровно то количество, которое списывает Deduct для того же рецепта
func (l *Ledger) Restore(ctx context.Context, recipe *domain.Recipe) error {
	locked, err := l.lock(ctx, "Restore", recipe)
	if err != nil {
		return err
	}

	for _, item := range locked {
		restored := item.ingredient.StockLevel + item.requirement.Amount
		if err := l.ingredientRepo.UpdateStock(ctx, item.ingredient.ID, restored); err != nil {
			l.logger.Error("Restore: failed to update stock for ingredient id=%d: %v", item.ingredient.ID, err)
			return fmt.Errorf("%w: Restore - update stock: %w", ErrInternal, err)
		}
		item.ingredient.StockLevel = restored

		l.logger.Info("Restore: ingredient id=%d +%d (remaining %d)",
			item.ingredient.ID, item.requirement.Amount, restored)
	}

	return nil
}

// lock читает с блокировкой все ингредиенты рецепта в порядке возрастания ID
func (l *Ledger) lock(ctx context.Context, op string, recipe *domain.Recipe) ([]lockedRequirement, error) {
	if recipe == nil {
		return nil, fmt.Errorf("%w: %s - recipe is nil", ErrInternal, op)
	}

	requirements := sortedRequirements(recipe)
	locked := make([]lockedRequirement, 0, len(requirements))

	for _, req := range requirements {
		ingredient, err := l.ingredientRepo.GetByIDForUpdate(ctx, req.IngredientID)
		if err != nil {
			if errors.Is(err, ingredientRepo.ErrIngredientNotFound) {
				l.logger.Warn("%s: ingredient id=%d not found (recipe id=%d)", op, req.IngredientID, recipe.ID)
				return nil, fmt.Errorf("%w: id=%d", ErrIngredientNotFound, req.IngredientID)
			}
			l.logger.Error("%s: failed to lock ingredient id=%d: %v", op, req.IngredientID, err)
			return nil, fmt.Errorf("%w: %s - lock ingredient: %w", ErrInternal, op, err)
		}

		locked = append(locked, lockedRequirement{requirement: req, ingredient: ingredient})
	}

	return locked, nil
}

// sortedRequirements потребности с положительным количеством по возрастанию ID ингредиента
func sortedRequirements(recipe *domain.Recipe) []domain.IngredientRequirement {
	requirements := make([]domain.IngredientRequirement, 0)
	for _, req := range recipe.IngredientRequirements() {
		if req.Amount > 0 {
			requirements = append(requirements, req)
		}
	}

	sort.Slice(requirements, func(i, j int) bool {
		return requirements[i].IngredientID < requirements[j].IngredientID
	})

	return requirements
}
