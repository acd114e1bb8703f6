package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	ingredientRepo "github.com/m04kA/SMC-InfusionService/internal/infra/storage/ingredient"
	"github.com/m04kA/SMC-InfusionService/pkg/ptr"
)

type fakeIngredientRepo struct {
	stock     map[int64]int
	lockOrder []int64
	updates   int
	updateErr error
}

func newFakeIngredientRepo(stock map[int64]int) *fakeIngredientRepo {
	return &fakeIngredientRepo{stock: stock}
}

func (r *fakeIngredientRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.Ingredient, error) {
	level, ok := r.stock[id]
	if !ok {
		return nil, ingredientRepo.ErrIngredientNotFound
	}
	r.lockOrder = append(r.lockOrder, id)
	return &domain.Ingredient{ID: id, Name: "ingredient", StockLevel: level}, nil
}

func (r *fakeIngredientRepo) UpdateStock(_ context.Context, id int64, stockLevel int) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.stock[id] = stockLevel
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func recipeOf(steps ...domain.Step) *domain.Recipe {
	return &domain.Recipe{ID: 1, Steps: steps}
}

func dose(ingredientID int64, amount int) domain.Step {
	return domain.Step{IngredientID: ptr.Ptr(ingredientID), DosageAmount: amount, DurationSeconds: 60, HeatIntensity: 5}
}

func TestLedger_DeductRestoreConservation(t *testing.T) {
	repo := newFakeIngredientRepo(map[int64]int{1: 100})
	ledger := NewLedger(repo, nopLogger{})
	recipe := recipeOf(dose(1, 60))

	require.NoError(t, ledger.Deduct(context.Background(), recipe))
	assert.Equal(t, 40, repo.stock[1])

	err := ledger.Deduct(context.Background(), recipe)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var stockErr *InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	require.Len(t, stockErr.Shortages, 1)
	assert.Equal(t, Shortage{IngredientID: 1, Name: "ingredient", Required: 60, Available: 40}, stockErr.Shortages[0])
	assert.Equal(t, 40, repo.stock[1])

	require.NoError(t, ledger.Restore(context.Background(), recipe))
	assert.Equal(t, 100, repo.stock[1])
}

func TestLedger_AllOrNothing(t *testing.T) {
	repo := newFakeIngredientRepo(map[int64]int{1: 100, 2: 10})
	ledger := NewLedger(repo, nopLogger{})

	err := ledger.Deduct(context.Background(), recipeOf(dose(1, 50), dose(2, 20)))
	require.ErrorIs(t, err, ErrInsufficientStock)

	assert.Equal(t, 0, repo.updates)
	assert.Equal(t, 100, repo.stock[1])
	assert.Equal(t, 10, repo.stock[2])
}

func TestLedger_GroupsAndLocksInIDOrder(t *testing.T) {
	repo := newFakeIngredientRepo(map[int64]int{3: 100, 7: 100})
	ledger := NewLedger(repo, nopLogger{})

	recipe := recipeOf(dose(7, 10), dose(3, 5), dose(7, 15), domain.Step{DurationSeconds: 60, HeatIntensity: 2})

	require.NoError(t, ledger.Deduct(context.Background(), recipe))
	assert.Equal(t, []int64{3, 7}, repo.lockOrder)
	assert.Equal(t, 95, repo.stock[3])
	assert.Equal(t, 75, repo.stock[7])
}

func TestLedger_Errors(t *testing.T) {
	t.Run("missing ingredient", func(t *testing.T) {
		ledger := NewLedger(newFakeIngredientRepo(map[int64]int{}), nopLogger{})

		err := ledger.Deduct(context.Background(), recipeOf(dose(5, 1)))
		assert.ErrorIs(t, err, ErrIngredientNotFound)
	})

	t.Run("update failure", func(t *testing.T) {
		repo := newFakeIngredientRepo(map[int64]int{1: 10})
		repo.updateErr = errors.New("connection reset")
		ledger := NewLedger(repo, nopLogger{})

		err := ledger.Restore(context.Background(), recipeOf(dose(1, 1)))
		assert.ErrorIs(t, err, ErrInternal)
	})

	t.Run("nil recipe", func(t *testing.T) {
		ledger := NewLedger(newFakeIngredientRepo(map[int64]int{}), nopLogger{})

		assert.ErrorIs(t, ledger.Deduct(context.Background(), nil), ErrInternal)
	})

	t.Run("recipe without ingredients", func(t *testing.T) {
		repo := newFakeIngredientRepo(map[int64]int{})
		ledger := NewLedger(repo, nopLogger{})

		require.NoError(t, ledger.Deduct(context.Background(), recipeOf(domain.Step{DurationSeconds: 60, HeatIntensity: 3})))
		assert.Empty(t, repo.lockOrder)
	})
}
