package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrNotFound = errors.New("session not found")

// Manager stores refresh tokens in Redis keyed by an opaque token value.
// One active refresh token per user: issuing a new one revokes the old.
type Manager struct {
	client *redis.Client
	ttl    time.Duration
}

func NewManager(client *redis.Client, ttl time.Duration) (*Manager, error) {
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, errors.New("session ttl must be positive")
	}
	return &Manager{client: client, ttl: ttl}, nil
}

func tokenKey(token string) string { return "session:token:" + token }
func userKey(id uuid.UUID) string  { return "session:user:" + id.String() }

// Issue creates a refresh token for the user, replacing any existing one.
func (m *Manager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := hex.EncodeToString(raw)

	if prev, err := m.client.Get(ctx, userKey(userID)).Result(); err == nil && prev != "" {
		if err := m.client.Del(ctx, tokenKey(prev)).Err(); err != nil {
			return "", fmt.Errorf("revoking previous session: %w", err)
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("looking up previous session: %w", err)
	}

	pipe := m.client.TxPipeline()
	pipe.Set(ctx, tokenKey(token), userID.String(), m.ttl)
	pipe.Set(ctx, userKey(userID), token, m.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("storing session: %w", err)
	}

	return token, nil
}

// Resolve returns the user a refresh token belongs to.
func (m *Manager) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := m.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("resolving session: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, nil
}

// Revoke deletes the user's active refresh token. Revoking a user with no
// session is a no-op.
func (m *Manager) Revoke(ctx context.Context, userID uuid.UUID) error {
	token, err := m.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("looking up session: %w", err)
	}

	if err := m.client.Del(ctx, tokenKey(token), userKey(userID)).Err(); err != nil {
		return fmt.Errorf("revoking session: %w", err)
	}
	return nil
}
