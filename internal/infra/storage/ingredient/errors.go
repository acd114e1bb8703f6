package ingredient

import "errors"

var (
	// ErrIngredientNotFound возвращается, когда ингредиент не найден
	ErrIngredientNotFound = errors.New("ingredient.repository: ingredient not found")

	// ErrNegativeStock возвращается при попытке записать отрицательный остаток
	ErrNegativeStock = errors.New("ingredient.repository: negative stock level")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("ingredient.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("ingredient.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("ingredient.repository: failed to scan row")
)
