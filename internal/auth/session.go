package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"dexotix/internal/shared/constants"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks the one valid refresh token per user plus a session
// intent flag. Tokens are stored hashed so a Redis dump never leaks them.
type SessionStore interface {
	SaveRefreshToken(ctx context.Context, userID, refreshToken string, ttl time.Duration) error
	RefreshTokenMatches(ctx context.Context, userID, refreshToken string) (bool, error)
	SetIntent(ctx context.Context, userID, intent string, ttl time.Duration) error
	GetIntent(ctx context.Context, userID string) (string, error)
	ClearSession(ctx context.Context, userID string) error
}

type sessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) SessionStore {
	return &sessionStore{client: client}
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *sessionStore) SaveRefreshToken(ctx context.Context, userID, refreshToken string, ttl time.Duration) error {
	key := constants.KEY_REFRESH_TOKEN + userID
	return s.client.Set(ctx, key, hashToken(refreshToken), ttl).Err()
}

func (s *sessionStore) RefreshTokenMatches(ctx context.Context, userID, refreshToken string) (bool, error) {
	key := constants.KEY_REFRESH_TOKEN + userID
	stored, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return stored == hashToken(refreshToken), nil
}

func (s *sessionStore) SetIntent(ctx context.Context, userID, intent string, ttl time.Duration) error {
	key := constants.KEY_SESSION_INTENT + userID
	return s.client.Set(ctx, key, intent, ttl).Err()
}

func (s *sessionStore) GetIntent(ctx context.Context, userID string) (string, error) {
	key := constants.KEY_SESSION_INTENT + userID
	intent, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return intent, nil
}

func (s *sessionStore) ClearSession(ctx context.Context, userID string) error {
	return s.client.Del(ctx, constants.KEY_REFRESH_TOKEN+userID).Err()
}
