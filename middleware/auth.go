package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			TrackAuthAttempt("failure", "bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid token"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if services.IsTokenRevoked(tokenString) {
			TrackAuthAttempt("failure", "bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has been revoked"})
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(utils.JWTSecretKey), nil
		})

		if err != nil {
			TrackAuthAttempt("failure", "bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || claims["actor"] == nil || claims["exp"] == nil {
			TrackAuthAttempt("failure", "bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Now().Unix() > int64(exp) {
				TrackAuthAttempt("failure", "bearer")
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
				c.Abort()
				return
			}
		}

		actor, ok := claims["actor"].(string)
		if !ok || actor == "" {
			TrackAuthAttempt("failure", "bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid actor in token"})
			c.Abort()
			return
		}

		TrackAuthAttempt("success", "bearer")
		c.Set("actor", actor)

		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		if iat, ok := claims["iat"].(float64); ok {
			c.Set("token_issued_at", time.Unix(int64(iat), 0))
		}

		c.Next()
	}
}

// RequireAdmin gates the administrative routes. AuthMiddleware must run first.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != "admin" {
			utils.Forbidden(c, "Administrator role required")
			c.Abort()
			return
		}
		c.Next()
	}
}
