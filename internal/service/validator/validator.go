// Package validator обнаруживает конфликты ресурсов для предлагаемого сеанса.
// Все функции пакета чистые: они не меняют состояние и могут вызываться
// сколько угодно раз (например, для предпросмотра).
package validator

import (
	"fmt"
	"sort"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/pkg/ptr"
	"github.com/m04kA/SMC-InfusionService/pkg/timeinterval"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

// sessionWindow вычисленные границы сеанса
type sessionWindow struct {
	details         domain.SessionDetails
	start           types.TimeString
	end             types.TimeString
	endWithCooldown types.TimeString
}

// Detect проверяет предлагаемый сеанс против сеансов дня.
// Порядок результата: конфликты сотрудника, затем сауны, затем склада.
// Внутри первых двух групп конфликты упорядочены по времени начала существующего сеанса.
func Detect(
	proposed domain.SessionDetails,
	committed []domain.SessionDetails,
	stock map[int64]*domain.Ingredient,
) ([]domain.Conflict, error) {
	proposedWindow, err := newWindow(proposed, true)
	if err != nil {
		return nil, err
	}

	others, err := orderedWindows(proposed, committed)
	if err != nil {
		return nil, err
	}

	conflicts := make([]domain.Conflict, 0)

	employeeConflicts, err := checkEmployeeAvailability(proposedWindow, others)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, employeeConflicts...)

	roomConflicts, err := checkRoomAvailability(proposedWindow, others)
	if err != nil {
		return nil, err
	}
	conflicts = append(conflicts, roomConflicts...)

	conflicts = append(conflicts, InventoryConflicts(proposed.Recipe, stock)...)

	return conflicts, nil
}

// InventoryConflicts сравнивает суммарную потребность рецепта по каждому ингредиенту
// с текущим остатком. Проверка носит информационный характер: окончательное решение
// принимается при списании.
func InventoryConflicts(recipe *domain.Recipe, stock map[int64]*domain.Ingredient) []domain.Conflict {
	conflicts := make([]domain.Conflict, 0)
	if recipe == nil {
		return conflicts
	}

	for _, req := range recipe.IngredientRequirements() {
		ingredient, ok := stock[req.IngredientID]
		if !ok || ingredient == nil {
			conflicts = append(conflicts, domain.Conflict{
				Type: domain.ConflictInsufficientInventory,
				Message: fmt.Sprintf("Insufficient inventory for ingredient id=%d: required %d, available 0",
					req.IngredientID, req.Amount),
				ResourceName: fmt.Sprintf("ingredient#%d", req.IngredientID),
			})
			continue
		}

		if !ingredient.HasStock(req.Amount) {
			conflicts = append(conflicts, domain.Conflict{
				Type: domain.ConflictInsufficientInventory,
				Message: fmt.Sprintf("Insufficient inventory for ingredient %s: required %d, available %d",
					ingredient.Name, req.Amount, ingredient.StockLevel),
				ResourceName: ingredient.Name,
			})
		}
	}

	return conflicts
}

// CheckDailyLoad проверяет дневной лимит сеансов сотрудника.
// Отдельная точка входа: в Detect не вызывается.
func CheckDailyLoad(employee *domain.Employee, sessionsForDay []*domain.Session) []domain.Conflict {
	if employee == nil {
		return []domain.Conflict{}
	}

	count := 0
	for _, session := range sessionsForDay {
		if session.IsActive() && session.EmployeeID == employee.ID {
			count++
		}
	}

	if count >= employee.DailyMaxSessions {
		return []domain.Conflict{{
			Type: domain.ConflictEmployeeMaxSessionsExceeded,
			Message: fmt.Sprintf("Employee %s has reached daily maximum of %d sessions (current: %d)",
				employee.FullName(), employee.DailyMaxSessions, count),
			ResourceName: employee.FullName(),
		}}
	}

	return []domain.Conflict{}
}

// checkEmployeeAvailability сотрудник не может вести два пересекающихся сеанса.
// Проветривание к сотруднику не применяется.
func checkEmployeeAvailability(proposed sessionWindow, others []sessionWindow) ([]domain.Conflict, error) {
	conflicts := make([]domain.Conflict, 0)

	for _, other := range others {
		if other.details.Session.EmployeeID != proposed.details.Session.EmployeeID {
			continue
		}

		overlaps, err := timeinterval.Overlaps(other.start, other.end, proposed.start, proposed.end)
		if err != nil {
			return nil, fmt.Errorf("%w: employee check: %v", ErrInvalidSession, err)
		}
		if !overlaps {
			continue
		}

		name := employeeName(other.details, proposed.details)
		conflicts = append(conflicts, domain.Conflict{
			Type: domain.ConflictEmployeeUnavailable,
			Message: fmt.Sprintf("Employee %s is already scheduled from %s to %s",
				name, other.start, other.end),
			RelatedSessionID: ptr.Ptr(other.details.Session.ID),
			ResourceName:     name,
		})
	}

	return conflicts, nil
}

// checkRoomAvailability сравнивает интервалы сауны вместе с проветриванием.
// Если пересекаются и сами сеансы - сауна занята, иначе нарушено проветривание.
func checkRoomAvailability(proposed sessionWindow, others []sessionWindow) ([]domain.Conflict, error) {
	conflicts := make([]domain.Conflict, 0)

	for _, other := range others {
		if other.details.Session.RoomID != proposed.details.Session.RoomID {
			continue
		}

		withCooldown, err := timeinterval.Overlaps(other.start, other.endWithCooldown, proposed.start, proposed.endWithCooldown)
		if err != nil {
			return nil, fmt.Errorf("%w: room check: %v", ErrInvalidSession, err)
		}
		if !withCooldown {
			continue
		}

		raw, err := timeinterval.Overlaps(other.start, other.end, proposed.start, proposed.end)
		if err != nil {
			return nil, fmt.Errorf("%w: room check: %v", ErrInvalidSession, err)
		}

		room := other.details.Room
		if raw {
			conflicts = append(conflicts, domain.Conflict{
				Type: domain.ConflictRoomOccupied,
				Message: fmt.Sprintf("Room %s is occupied from %s to %s",
					room.Name, other.start, other.end),
				RelatedSessionID: ptr.Ptr(other.details.Session.ID),
				ResourceName:     room.Name,
			})
			continue
		}

		var message string
		if other.start.IsBefore(proposed.start) {
			message = fmt.Sprintf("Room %s requires cool-down until %s (previous session ends at %s, %d min cool-down required)",
				room.Name, other.endWithCooldown, other.end, room.CooldownMinutes)
		} else {
			message = fmt.Sprintf("Room %s requires cool-down until %s after the proposed session, next session starts at %s",
				room.Name, proposed.endWithCooldown, other.start)
		}

		conflicts = append(conflicts, domain.Conflict{
			Type:             domain.ConflictRoomCooldownViolation,
			Message:          message,
			RelatedSessionID: ptr.Ptr(other.details.Session.ID),
			ResourceName:     room.Name,
		})
	}

	return conflicts, nil
}

// orderedWindows отбрасывает отмененные сеансы и сам предлагаемый сеанс,
// остальные сортирует по времени начала
func orderedWindows(proposed domain.SessionDetails, committed []domain.SessionDetails) ([]sessionWindow, error) {
	windows := make([]sessionWindow, 0, len(committed))

	for _, details := range committed {
		if details.Session == nil || details.Session.Cancelled {
			continue
		}
		if proposed.Session.ID != 0 && details.Session.ID == proposed.Session.ID {
			continue
		}

		w, err := newWindow(details, false)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}

	sort.SliceStable(windows, func(i, j int) bool {
		return domain.SessionLess(windows[i].details.Session, windows[j].details.Session)
	})

	return windows, nil
}

// newWindow вычисляет границы сеанса. Для предлагаемого сеанса (strict) окончание
// за полночь недопустимо; сохраненный сеанс после правки рецепта обрезается до "24:00",
// чтобы не блокировать проверки остальных сеансов дня.
func newWindow(details domain.SessionDetails, strict bool) (sessionWindow, error) {
	if details.Session == nil {
		return sessionWindow{}, fmt.Errorf("%w: session is nil", ErrInvalidSession)
	}
	if details.Session.StartTime.IsZero() {
		return sessionWindow{}, fmt.Errorf("%w: session id=%d: start time is required", ErrInvalidSession, details.Session.ID)
	}

	end, err := details.EndTimeWithinDay()
	if strict {
		end, err = details.EndTime()
	}
	if err != nil {
		return sessionWindow{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	endWithCooldown, err := details.EndTimeWithCooldown()
	if err != nil {
		return sessionWindow{}, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	return sessionWindow{
		details:         details,
		start:           details.Session.StartTime,
		end:             end,
		endWithCooldown: endWithCooldown,
	}, nil
}

func employeeName(details ...domain.SessionDetails) string {
	for _, d := range details {
		if d.Employee != nil {
			return d.Employee.FullName()
		}
	}
	return fmt.Sprintf("employee#%d", details[0].Session.EmployeeID)
}
