package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"main/model"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", &model.ValidationError{Field: "user_id", Reason: "is required"}, http.StatusBadRequest},
		{"not found", &model.NotFoundError{Kind: "threat", ID: "t1"}, http.StatusNotFound},
		{"invalid transition", &model.InvalidStateTransitionError{ThreatID: "t1", From: model.ThreatResolved, To: model.ThreatDetected}, http.StatusConflict},
		{"permission denied", &model.PermissionDeniedError{Actor: "ops", Action: "audit delete"}, http.StatusForbidden},
		{"storage", &model.StorageError{Op: "query", Err: errors.New("timeout")}, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(recorder)

			respondError(c, tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
		})
	}
}
