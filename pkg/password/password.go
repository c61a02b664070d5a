// Package password hashes and checks user passwords with bcrypt.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("password mismatch")

// MaxLength is the number of bytes bcrypt reads. Longer passwords are cut to
// it so hashing and comparison agree.
const MaxLength = 72

type Hasher struct {
	cost int
}

// NewHasher clamps cost into the range bcrypt accepts.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare returns ErrMismatch for a wrong password and any other error for
// a malformed hash.
func (h *Hasher) Compare(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), truncate(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

func truncate(plain string) []byte {
	b := []byte(plain)
	if len(b) > MaxLength {
		b = b[:MaxLength]
	}
	return b
}
