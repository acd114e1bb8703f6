package ingredient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/dbmetrics"
	"github.com/m04kA/SMC-InfusionService/pkg/psqlbuilder"
)

var columns = []string{"id", "name", "scent_profile", "stock_level", "cost_per_unit"}

// Repository репозиторий ингредиентов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория ингредиентов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает ингредиент по ID без блокировки
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return r.getOne(ctx, "GetByID", id, false)
}

// GetByIDForUpdate получает ингредиент и блокирует строку до конца транзакции.
// Вне транзакции работает как GetByID.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return r.getOne(ctx, "GetByIDForUpdate", id, dbmetrics.IsInTransaction(ctx))
}

// GetByIDs получает ингредиенты по списку ID. Отсутствующие ID в результат не попадают.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*domain.Ingredient, error) {
	result := make(map[int64]*domain.Ingredient, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From("ingredients").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		ingredient, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByIDs - scan ingredient: %w", ErrScanRow, err)
		}
		result[ingredient.ID] = ingredient
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

// UpdateStock записывает новый остаток ингредиента
func (r *Repository) UpdateStock(ctx context.Context, id int64, stockLevel int) error {
	if stockLevel < 0 {
		return fmt.Errorf("%w: id=%d, stock=%d", ErrNegativeStock, id, stockLevel)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("ingredients").
		Set("stock_level", stockLevel).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStock - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStock - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStock - get rows affected: %w", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrIngredientNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, id int64, forUpdate bool) (*domain.Ingredient, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From("ingredients").
		Where(squirrel.Eq{"id": id})

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	ingredient, err := scanIngredient(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrIngredientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan ingredient: %w", ErrScanRow, op, err)
	}

	return ingredient, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIngredient(row rowScanner) (*domain.Ingredient, error) {
	var ingredient domain.Ingredient
	err := row.Scan(
		&ingredient.ID,
		&ingredient.Name,
		&ingredient.ScentProfile,
		&ingredient.StockLevel,
		&ingredient.CostPerUnit,
	)
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}
