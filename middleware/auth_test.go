package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(utils.JWTSecretKey))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthMiddleware())
	router.GET("/whoami", func(c *gin.Context) {
		actor := c.GetString("actor")
		c.JSON(http.StatusOK, gin.H{"actor": actor})
	})
	router.GET("/admin-only", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	utils.JWTSecretKey = "auth-middleware-test-secret"
	router := authTestRouter()

	future := float64(time.Now().Add(time.Hour).Unix())
	past := float64(time.Now().Add(-time.Hour).Unix())

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc123", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
		{
			"valid token",
			"Bearer " + signToken(t, jwt.MapClaims{"actor": "ops-1", "exp": future}),
			http.StatusOK,
		},
		{
			"expired token",
			"Bearer " + signToken(t, jwt.MapClaims{"actor": "ops-1", "exp": past}),
			http.StatusUnauthorized,
		},
		{
			"missing actor claim",
			"Bearer " + signToken(t, jwt.MapClaims{"exp": future}),
			http.StatusUnauthorized,
		},
		{
			"empty actor",
			"Bearer " + signToken(t, jwt.MapClaims{"actor": "", "exp": future}),
			http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	utils.JWTSecretKey = "auth-middleware-test-secret"
	router := authTestRouter()

	future := float64(time.Now().Add(time.Hour).Unix())

	tests := []struct {
		name       string
		claims     jwt.MapClaims
		wantStatus int
	}{
		{"admin role", jwt.MapClaims{"actor": "ops-1", "exp": future, "role": "admin"}, http.StatusOK},
		{"viewer role", jwt.MapClaims{"actor": "ops-2", "exp": future, "role": "viewer"}, http.StatusForbidden},
		{"no role claim", jwt.MapClaims{"actor": "ops-3", "exp": future}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/admin-only", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, tt.claims))
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
