package repository

import (
	"context"
	"time"
)

// RevocationRepository remembers token ids that were logged out before
// they expired.
type RevocationRepository interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
