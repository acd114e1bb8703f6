// Package handlers общие помощники HTTP слоя: разбор JSON и единый формат ответов.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	maxBodyBytes = 1 << 20
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error     string             `json:"error"`
	Conflicts []ConflictResponse `json:"conflicts,omitempty"`
	Retryable bool               `json:"retryable,omitempty"`
}

// ConflictResponse конфликт планирования в ответе
type ConflictResponse struct {
	Type             string `json:"type"`
	Message          string `json:"message"`
	RelatedSessionID *int64 `json:"relatedSessionId,omitempty"`
	ResourceName     string `json:"resourceName"`
}

// FromDomainConflicts конвертирует конфликты домена в модель ответа
func FromDomainConflicts(conflicts []domain.Conflict) []ConflictResponse {
	result := make([]ConflictResponse, 0, len(conflicts))
	for _, c := range conflicts {
		result = append(result, ConflictResponse{
			Type:             string(c.Type),
			Message:          c.Message,
			RelatedSessionID: c.RelatedSessionID,
			ResourceName:     c.ResourceName,
		})
	}
	return result
}

// DecodeJSON разбирает тело запроса. Неизвестные поля и пустое тело считаются ошибкой.
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body is empty")
	}

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// RespondJSON пишет JSON ответ с указанным статусом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

// RespondError пишет ответ с ошибкой
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondBadRequest 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondConflict 409 со списком конфликтов
func RespondConflict(w http.ResponseWriter, message string, conflicts []domain.Conflict) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{
		Error:     message,
		Conflicts: FromDomainConflicts(conflicts),
	})
}

// RespondRetryable 409 для конкурентного изменения: клиент может повторить запрос
func RespondRetryable(w http.ResponseWriter, message string) {
	RespondJSON(w, http.StatusConflict, ErrorResponse{Error: message, Retryable: true})
}

// RespondInternalError 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}
