package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"main/services"

	"github.com/gin-gonic/gin"
)

func postJSON(t *testing.T, handlerFunc gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handlerFunc(c)
	return w
}

func TestRevokeTokenHandlerUnconfigured(t *testing.T) {
	services.TokenRevocation = nil

	w := postJSON(t, RevokeTokenHandler, `{"token":"some.bearer.token"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
}

func TestRevokeTokenHandlerRejectsBadBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"blank token", `{"token":""}`},
		{"not json", `token=abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, RevokeTokenHandler, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestGenerateRecoveryCodesHandler(t *testing.T) {
	w := postJSON(t, GenerateRecoveryCodesHandler, ``)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp struct {
		Data struct {
			RecoveryCodes []string `json:"recovery_codes"`
			HashedCodes   []string `json:"hashed_codes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.Data.RecoveryCodes) != 10 {
		t.Fatalf("got %d codes, want 10", len(resp.Data.RecoveryCodes))
	}
	if len(resp.Data.HashedCodes) != len(resp.Data.RecoveryCodes) {
		t.Errorf("hashed count %d does not match code count %d",
			len(resp.Data.HashedCodes), len(resp.Data.RecoveryCodes))
	}

	format := regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)
	seen := make(map[string]bool)
	for _, code := range resp.Data.RecoveryCodes {
		if !format.MatchString(code) {
			t.Errorf("code %q does not match the expected format", code)
		}
		if seen[code] {
			t.Errorf("duplicate code %q", code)
		}
		seen[code] = true
	}

	// a minted code must pass the guard it is meant to unlock
	guard := services.NewStepUpGuard("JBSWY3DPEHPK3PXP", resp.Data.RecoveryCodes)
	if !guard.Verify(resp.Data.RecoveryCodes[0]) {
		t.Error("freshly minted recovery code rejected by step-up guard")
	}
}
