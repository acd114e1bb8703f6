package validate_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
	"github.com/m04kA/SMC-InfusionService/pkg/ptr"
)

type fakeValidator struct {
	got       *models.ProposeSessionRequest
	conflicts []domain.Conflict
	err       error
}

func (f *fakeValidator) Validate(_ context.Context, req *models.ProposeSessionRequest) ([]domain.Conflict, error) {
	f.got = req
	return f.conflicts, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(validator *fakeValidator, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/schedules/{date}/sessions/validate", NewHandler(validator, nopLogger{}).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

const (
	validPath = "/schedules/2025-03-14/sessions/validate"
	validBody = `{"roomId":1,"recipeId":2,"employeeId":3,"startTime":"10:10"}`
)

func TestHandle_Valid(t *testing.T) {
	validator := &fakeValidator{conflicts: []domain.Conflict{}}

	rec := serve(validator, validPath, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, validator.got)
	assert.Equal(t, "10:10", validator.got.StartTime.String())
	assert.Equal(t, "2025-03-14", validator.got.Date.Format(domain.DateFormat))
	assert.Nil(t, validator.got.SessionID)

	var body ValidateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Valid)
	assert.NotNil(t, body.Conflicts)
	assert.Empty(t, body.Conflicts)
}

func TestHandle_ConflictsAreOK(t *testing.T) {
	validator := &fakeValidator{conflicts: []domain.Conflict{{
		Type:             domain.ConflictRoomCooldownViolation,
		Message:          "Room Finnish Sauna requires cool-down until 10:20",
		RelatedSessionID: ptr.Ptr(int64(1)),
		ResourceName:     "Finnish Sauna",
	}}}

	rec := serve(validator, validPath, validBody)
	require.Equal(t, http.StatusOK, rec.Code)

	var body ValidateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
	require.Len(t, body.Conflicts, 1)
	assert.Equal(t, "ROOM_COOLDOWN_VIOLATION", body.Conflicts[0].Type)
	require.NotNil(t, body.Conflicts[0].RelatedSessionID)
	assert.Equal(t, int64(1), *body.Conflicts[0].RelatedSessionID)
}

func TestHandle_ExistingSessionID(t *testing.T) {
	validator := &fakeValidator{conflicts: []domain.Conflict{}}

	rec := serve(validator, validPath, `{"roomId":1,"recipeId":2,"employeeId":3,"startTime":"10:00","sessionId":4}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, validator.got.SessionID)
	assert.Equal(t, int64(4), *validator.got.SessionID)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantCalled bool
	}{
		{name: "bad date", path: "/schedules/2025-13-01/sessions/validate", body: validBody, wantStatus: http.StatusBadRequest},
		{name: "bad body", path: validPath, body: `{"roomId":`, wantStatus: http.StatusBadRequest},
		{name: "unknown field", path: validPath, body: `{"roomId":1,"startTime":"10:00","confirmImmediately":true}`, wantStatus: http.StatusBadRequest},
		{name: "bad time", path: validPath, body: `{"roomId":1,"startTime":"10:60"}`, wantStatus: http.StatusBadRequest},
		{name: "room not found", path: validPath, body: validBody, err: fmt.Errorf("%w: id=1", slots.ErrRoomNotFound), wantStatus: http.StatusNotFound, wantCalled: true},
		{name: "invalid input", path: validPath, body: validBody, err: fmt.Errorf("%w: session crosses midnight", slots.ErrInvalidInput), wantStatus: http.StatusBadRequest, wantCalled: true},
		{name: "internal", path: validPath, body: validBody, err: slots.ErrInternal, wantStatus: http.StatusInternalServerError, wantCalled: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := &fakeValidator{err: tt.err}
			rec := serve(validator, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, validator.got != nil)
		})
	}
}
