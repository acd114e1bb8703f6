package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

const (
	msgSchedulingConflict    = "сеанс конфликтует с расписанием"
	msgInsufficientInventory = "недостаточно расходников на складе"
	msgSessionNotFound       = "сеанс не найден"
	msgRoomNotFound          = "сауна не найдена"
	msgEmployeeNotFound      = "сотрудник не найден"
	msgRecipeNotFound        = "рецепт не найден"
	msgIngredientNotFound    = "ингредиент рецепта не найден"
	msgAlreadyCancelled      = "сеанс уже отменен"
	msgStockRace             = "остатки изменены параллельно, повторите запрос"
	msgConcurrentUpdate      = "расписание изменено параллельно, повторите запрос"
	msgInvalidInput          = "некорректные входные данные"
)

// ProposalRequest HTTP модель предлагаемого сеанса (дата берется из пути)
type ProposalRequest struct {
	RoomID     int64   `json:"roomId"`
	RecipeID   int64   `json:"recipeId"`
	EmployeeID int64   `json:"employeeId"`
	StartTime  string  `json:"startTime"` // "10:00"
	Notes      *string `json:"notes,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *ProposalRequest) ToServiceRequest(date time.Time) (*models.ProposeSessionRequest, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &models.ProposeSessionRequest{
		Date:       date,
		RoomID:     r.RoomID,
		RecipeID:   r.RecipeID,
		EmployeeID: r.EmployeeID,
		StartTime:  startTime,
		Notes:      r.Notes,
	}, nil
}

// SessionResponse HTTP модель сеанса
type SessionResponse struct {
	ID                  int64   `json:"id"`
	ScheduleID          int64   `json:"scheduleId"`
	RoomID              int64   `json:"roomId"`
	RecipeID            int64   `json:"recipeId"`
	EmployeeID          int64   `json:"employeeId"`
	StartTime           string  `json:"startTime"`
	EndTime             string  `json:"endTime"`
	EndTimeWithCooldown string  `json:"endTimeWithCooldown"`
	State               string  `json:"state"`
	Confirmed           bool    `json:"confirmed"`
	Cancelled           bool    `json:"cancelled"`
	Notes               *string `json:"notes,omitempty"`
	CreatedAt           string  `json:"createdAt"`
	UpdatedAt           string  `json:"updatedAt"`
}

// FromSessionResponse конвертирует ответ сервиса в HTTP модель
func FromSessionResponse(resp *models.SessionResponse) *SessionResponse {
	return &SessionResponse{
		ID:                  resp.ID,
		ScheduleID:          resp.ScheduleID,
		RoomID:              resp.RoomID,
		RecipeID:            resp.RecipeID,
		EmployeeID:          resp.EmployeeID,
		StartTime:           resp.StartTime.String(),
		EndTime:             resp.EndTime.String(),
		EndTimeWithCooldown: resp.EndTimeWithCooldown.String(),
		State:               resp.State,
		Confirmed:           resp.Confirmed,
		Cancelled:           resp.Cancelled,
		Notes:               resp.Notes,
		CreatedAt:           resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           resp.UpdatedAt.Format(time.RFC3339),
	}
}

// ParseDate разбирает дату формата YYYY-MM-DD
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("date is required")
	}
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
	}
	return date, nil
}

// ParseID разбирает положительный ID из пути или query
func ParseID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("id must be positive, got %d", id)
	}
	return id, nil
}

// SlotsErrorResponse HTTP статус и тело для ошибки сервиса сеансов
func SlotsErrorResponse(err error) (int, ErrorResponse) {
	var conflictErr *slots.ConflictError
	if errors.As(err, &conflictErr) {
		message := msgSchedulingConflict
		if errors.Is(err, slots.ErrInsufficientInventory) {
			message = msgInsufficientInventory
		}
		return http.StatusConflict, ErrorResponse{Error: message, Conflicts: FromDomainConflicts(conflictErr.Conflicts)}
	}

	switch {
	case errors.Is(err, slots.ErrSessionNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgSessionNotFound}
	case errors.Is(err, slots.ErrRoomNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgRoomNotFound}
	case errors.Is(err, slots.ErrEmployeeNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgEmployeeNotFound}
	case errors.Is(err, slots.ErrRecipeNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgRecipeNotFound}
	case errors.Is(err, slots.ErrIngredientNotFound):
		return http.StatusNotFound, ErrorResponse{Error: msgIngredientNotFound}
	case errors.Is(err, slots.ErrAlreadyCancelled):
		return http.StatusConflict, ErrorResponse{Error: msgAlreadyCancelled}
	case errors.Is(err, slots.ErrStockRace):
		return http.StatusConflict, ErrorResponse{Error: msgStockRace, Retryable: true}
	case errors.Is(err, slots.ErrConcurrentUpdate):
		return http.StatusConflict, ErrorResponse{Error: msgConcurrentUpdate, Retryable: true}
	case errors.Is(err, slots.ErrInvalidInput):
		return http.StatusBadRequest, ErrorResponse{Error: msgInvalidInput}
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: msgInternalError}
	}
}

// RespondSlotsError пишет ответ для ошибки сервиса сеансов и возвращает статус
func RespondSlotsError(w http.ResponseWriter, err error) int {
	status, body := SlotsErrorResponse(err)
	RespondJSON(w, status, body)
	return status
}
