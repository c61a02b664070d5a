package buffer

import (
	"time"

	"github.com/google/uuid"
)

const (
	EntityOnboarding = "onboarding"

	OperationSeed = "seed"
)

const defaultPriority = 3

// Item is an operation that failed against primary storage and waits to be
// replayed.
type Item struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Entity    string    `json:"entity"`
	Operation string    `json:"operation"`
	Priority  int       `json:"priority"`
	Retries   int       `json:"retries"`
	LastError string    `json:"last_error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// CreatedAt survives requeues and drives retention.
	CreatedAt time.Time `json:"created_at"`

	bucketKey []byte
}

func (i *Item) normalize() {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.Priority <= 0 || i.Priority > 5 {
		i.Priority = defaultPriority
	}
	if i.Timestamp.IsZero() {
		i.Timestamp = time.Now()
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = i.Timestamp
	}
}
