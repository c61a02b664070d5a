package redis

import (
	"context"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/taskflow/repository"
)

type revocationRepository struct {
	client *redislib.Client
	prefix string
}

// NewRevocationRepository creates a Redis-backed token revocation list.
// Entries expire together with the token they revoke.
func NewRevocationRepository(client *redislib.Client) repository.RevocationRepository {
	return &revocationRepository{
		client: client,
		prefix: "revoked:",
	}
}

func (r *revocationRepository) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	if tokenID == "" {
		return nil
	}
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, r.key(tokenID), "1", ttl).Err()
}

func (r *revocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	n, err := r.client.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *revocationRepository) key(id string) string {
	return fmt.Sprintf("%s%s", r.prefix, id)
}
