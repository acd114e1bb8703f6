package confirm_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InfusionService/internal/api/handlers"
	"github.com/m04kA/SMC-InfusionService/internal/domain"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots"
	"github.com/m04kA/SMC-InfusionService/internal/service/slots/models"
	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

type fakeConfirmer struct {
	called    bool
	sessionID int64
	err       error
}

func (f *fakeConfirmer) Confirm(_ context.Context, sessionID int64) (*models.SessionResponse, error) {
	f.called = true
	f.sessionID = sessionID
	if f.err != nil {
		return nil, f.err
	}
	return &models.SessionResponse{
		ID:        sessionID,
		StartTime: types.MustTimeString("10:00"),
		State:     string(domain.StateConfirmed),
		Confirmed: true,
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(confirmer *fakeConfirmer, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/sessions/{sessionId}/confirm", NewHandler(confirmer, nopLogger{}).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func TestHandle_Confirmed(t *testing.T) {
	confirmer := &fakeConfirmer{}

	rec := serve(confirmer, "/sessions/7/confirm")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), confirmer.sessionID)

	var body handlers.SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "confirmed", body.State)
	assert.True(t, body.Confirmed)
}

func TestHandle_InvalidID(t *testing.T) {
	for _, target := range []string{"/sessions/abc/confirm", "/sessions/0/confirm", "/sessions/-3/confirm"} {
		t.Run(target, func(t *testing.T) {
			confirmer := &fakeConfirmer{}
			rec := serve(confirmer, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, confirmer.called)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantRetryable bool
		wantConflicts int
	}{
		{name: "not found", err: fmt.Errorf("%w: id=7", slots.ErrSessionNotFound), wantStatus: http.StatusNotFound},
		{name: "already cancelled", err: slots.ErrAlreadyCancelled, wantStatus: http.StatusConflict},
		{name: "stock race", err: fmt.Errorf("%w: eucalyptus", slots.ErrStockRace), wantStatus: http.StatusConflict, wantRetryable: true},
		{
			name: "inventory conflict",
			err: &slots.ConflictError{
				Conflicts: []domain.Conflict{{
					Type:         domain.ConflictInsufficientInventory,
					Message:      "Insufficient inventory for ingredient Eucalyptus: required 60, available 40",
					ResourceName: "Eucalyptus",
				}},
			},
			wantStatus:    http.StatusConflict,
			wantConflicts: 1,
		},
		{name: "internal", err: fmt.Errorf("%w: connection reset", slots.ErrInternal), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeConfirmer{err: tt.err}, "/sessions/7/confirm")
			require.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.wantRetryable, body.Retryable)
			assert.Len(t, body.Conflicts, tt.wantConflicts)
		})
	}
}
