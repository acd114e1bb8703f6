package slots

import (
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
)

var (
	// ErrSchedulingConflict возвращается, когда предлагаемый сеанс конфликтует с расписанием
	ErrSchedulingConflict = errors.New("slots: scheduling conflict")

	// ErrInsufficientInventory возвращается, когда при подтверждении не хватает ингредиентов
	ErrInsufficientInventory = errors.New("slots: insufficient inventory")

	// ErrSessionNotFound возвращается, когда сеанс не найден
	ErrSessionNotFound = errors.New("slots: session not found")

	// ErrRoomNotFound возвращается, когда сауна не найдена
	ErrRoomNotFound = errors.New("slots: room not found")

	// ErrEmployeeNotFound возвращается, когда сотрудник не найден
	ErrEmployeeNotFound = errors.New("slots: employee not found")

	// ErrRecipeNotFound возвращается, когда рецепт не найден
	ErrRecipeNotFound = errors.New("slots: recipe not found")

	// ErrIngredientNotFound возвращается, когда рецепт ссылается на несуществующий ингредиент
	ErrIngredientNotFound = errors.New("slots: ingredient not found")

	// ErrAlreadyCancelled возвращается при попытке подтвердить отмененный сеанс
	ErrAlreadyCancelled = errors.New("slots: session is already cancelled")

	// ErrStockRace возвращается, когда остаток изменился конкурентно после успешной предпроверки.
	// Операцию можно повторить.
	ErrStockRace = errors.New("slots: concurrent stock change")

	// ErrConcurrentUpdate возвращается, когда расписание даты изменилось конкурентно во время создания.
	// Операцию можно повторить.
	ErrConcurrentUpdate = errors.New("slots: concurrent schedule update")

	// ErrConfirmFailed возвращается из Create с немедленным подтверждением:
	// сеанс создан, но подтвердить его не удалось
	ErrConfirmFailed = errors.New("slots: session created but not confirmed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("slots: internal error")
)

// ConflictError несет полный список конфликтов.
// Разворачивается в ErrSchedulingConflict или ErrInsufficientInventory.
type ConflictError struct {
	kind      error
	Conflicts []domain.Conflict
}

func newSchedulingConflict(conflicts []domain.Conflict) *ConflictError {
	return &ConflictError{kind: ErrSchedulingConflict, Conflicts: conflicts}
}

func newInventoryConflict(conflicts []domain.Conflict) *ConflictError {
	return &ConflictError{kind: ErrInsufficientInventory, Conflicts: conflicts}
}

func (e *ConflictError) Error() string {
	messages := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		messages = append(messages, c.Message)
	}
	return fmt.Sprintf("%s: %s", e.Unwrap().Error(), strings.Join(messages, "; "))
}

// Unwrap возвращает вид конфликта, по умолчанию ErrSchedulingConflict
func (e *ConflictError) Unwrap() error {
	if e.kind == nil {
		return ErrSchedulingConflict
	}
	return e.kind
}
