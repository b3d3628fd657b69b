package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "auth:revoked:"

// RevocationRepository is the server-side denylist of session token ids.
type RevocationRepository interface {
	// Revoke denylists tokenID until expiresAt. Already expired tokens are a no-op.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type redisRevocationRepository struct {
	client *redis.Client
	now    func() time.Time
}

// NewRevocationRepository returns a Redis-backed denylist. Entries expire
// together with the token they block.
func NewRevocationRepository(client *redis.Client) RevocationRepository {
	return &redisRevocationRepository{client: client, now: time.Now}
}

func (r *redisRevocationRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return errors.New("token id required")
	}
	ttl := expiresAt.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err()
}

func (r *redisRevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
