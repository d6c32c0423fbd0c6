package services

import (
	"context"
	"fmt"
	"main/utils"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

// RedisTokenRevocation tracks revoked administrative bearer tokens until
// their natural expiry. Revocation is how a compromised operator token is
// cut off without rotating the signing key.
type RedisTokenRevocation struct {
	Client *redis.Client
}

// TokenRevocation is the global instance
var TokenRevocation *RedisTokenRevocation

func NewTokenRevocation(redisURL string) (*RedisTokenRevocation, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &RedisTokenRevocation{Client: client}, nil
}

// RevokeToken adds an admin token to the revocation list
func RevokeToken(tokenString string) error {
	if TokenRevocation == nil {
		return fmt.Errorf("token revocation list not initialized")
	}
	return TokenRevocation.revokeToken(tokenString)
}

// revokeToken stores the token until its expiration
func (tr *RedisTokenRevocation) revokeToken(tokenString string) error {
	// Parse the token
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(utils.JWTSecretKey), nil
	})

	if err != nil {
		// Only return error if it's not an expiration error
		if !strings.Contains(err.Error(), "token is expired") {
			return fmt.Errorf("failed to parse token: %v", err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return fmt.Errorf("failed to get claims from token")
	}

	// Keep the revocation entry only as long as the token could be replayed
	var expirationTime time.Time
	if exp, ok := claims["exp"].(float64); ok {
		expirationTime = time.Unix(int64(exp), 0)
	} else {
		expirationTime = time.Now().Add(24 * time.Hour)
	}

	ctx := context.Background()
	key := fmt.Sprintf("revoked:%s", tokenString)

	err = tr.Client.Set(ctx, key, "true", time.Until(expirationTime)).Err()
	if err != nil {
		return fmt.Errorf("failed to store revoked token in Redis: %v", err)
	}

	return nil
}

// IsTokenRevoked checks if a token is on the revocation list
func IsTokenRevoked(tokenString string) bool {
	if TokenRevocation == nil {
		return false
	}
	return TokenRevocation.isTokenRevoked(tokenString)
}

func (tr *RedisTokenRevocation) isTokenRevoked(tokenString string) bool {
	ctx := context.Background()
	key := fmt.Sprintf("revoked:%s", tokenString)

	exists, err := tr.Client.Exists(ctx, key).Result()
	if err != nil {
		fmt.Printf("Error checking token revocation: %v\n", err)
		return false
	}
	return exists > 0
}

// IsConnected checks if the Redis connection is alive
func (tr *RedisTokenRevocation) IsConnected() bool {
	if tr == nil || tr.Client == nil {
		return false
	}
	ctx := context.Background()
	return tr.Client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (tr *RedisTokenRevocation) Close() error {
	return tr.Client.Close()
}
