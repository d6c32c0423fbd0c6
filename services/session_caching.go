package services

import (
	"context"
	"encoding/json"
	"fmt"
	"main/model"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type SessionCache struct {
	client    *redis.Client
	cacheLock sync.RWMutex
	ttl       time.Duration
}

var GlobalSessionCache *SessionCache

// NewSessionCache creates and initializes a new session cache. Entries live
// at most ttl, which callers set to the maximum session duration so nothing
// outlives the registry's own view of a session.
func NewSessionCache(redisURL string, ttl time.Duration) (*SessionCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &SessionCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// SetSession caches an individual session
func (sc *SessionCache) SetSession(session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	sc.cacheLock.Lock()
	defer sc.cacheLock.Unlock()

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", session.SessionID)

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %v", err)
	}

	// Remaining lifetime relative to login; stale sessions don't get cached
	ttl := sc.ttl - time.Since(session.LoginTime)
	if ttl <= 0 {
		return fmt.Errorf("session has exceeded the maximum duration")
	}

	if err := sc.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %v", err)
	}

	return nil
}

// GetSession retrieves a session from cache
func (sc *SessionCache) GetSession(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID cannot be empty")
	}

	sc.cacheLock.RLock()
	defer sc.cacheLock.RUnlock()

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", sessionID)

	data, err := sc.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // Cache miss
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %v", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %v", err)
	}

	return &session, nil
}

// DeleteSession removes a session from cache
func (sc *SessionCache) DeleteSession(sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID cannot be empty")
	}

	sc.cacheLock.Lock()
	defer sc.cacheLock.Unlock()

	ctx := context.Background()
	key := fmt.Sprintf("session:%s", sessionID)

	if err := sc.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete session from cache: %v", err)
	}

	return nil
}

// IncrementSessionVersion increments the version counter for user's sessions.
// Readers that track the counter know to refetch after any mutation.
func (sc *SessionCache) IncrementSessionVersion(userID string) error {
	if userID == "" {
		return fmt.Errorf("userID cannot be empty")
	}

	ctx := context.Background()
	key := fmt.Sprintf("user_sessions_version:%s", userID)

	if err := sc.client.Incr(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to increment session version: %v", err)
	}

	return nil
}

func (sc *SessionCache) IsConnected() bool {
	if sc == nil || sc.client == nil {
		return false
	}
	ctx := context.Background()
	return sc.client.Ping(ctx).Err() == nil
}

// Close closes the Redis connection
func (sc *SessionCache) Close() error {
	return sc.client.Close()
}
