package catalog

import "errors"

var (
	// ErrRoomNotFound возвращается, когда сауна не найдена
	ErrRoomNotFound = errors.New("catalog.repository: room not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("catalog.repository: employee not found")

	// ErrRecipeNotFound возвращается, когда рецепт не найден
	ErrRecipeNotFound = errors.New("catalog.repository: recipe not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
