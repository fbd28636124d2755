// Package verify issues and checks one-time profile verification codes.
//
// Codes are 6 decimal digits, stored in a keyed store (Redis in production,
// an in-memory map in tests) under a per-user key with a short TTL. A code
// is consumed on first successful check.
package verify

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

// TTL is how long an issued code stays valid.
const TTL = 15 * time.Minute

const keyPrefix = "tempo:verify:"

// ErrCodeMismatch is returned when no valid code exists for the user or the
// submitted code differs from the stored one.
var ErrCodeMismatch = errors.New("verify: code expired or incorrect")

// Store is the keyed storage codes live in. Satisfied by pkg/cache.
type Store interface {
	Get(key string, dest interface{}) bool
	Set(key string, value interface{}, ttl time.Duration) error
	Del(keys ...string) error
}

// Codes issues and checks verification codes against a Store.
type Codes struct {
	store Store
}

// New returns a Codes backed by store.
func New(store Store) *Codes {
	return &Codes{store: store}
}

// Issue generates a fresh code for userID, overwriting any previous one,
// and returns it so the caller can deliver it out of band.
func (c *Codes) Issue(userID string) (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("verify: generate code: %w", err)
	}
	code := fmt.Sprintf("%06d", n.Int64())

	if err := c.store.Set(keyPrefix+userID, code, TTL); err != nil {
		return "", fmt.Errorf("verify: store code: %w", err)
	}
	return code, nil
}

// Check consumes the stored code for userID if it matches.
// Returns ErrCodeMismatch when the code is absent, expired, or wrong.
func (c *Codes) Check(userID, code string) error {
	var stored string
	if !c.store.Get(keyPrefix+userID, &stored) {
		return ErrCodeMismatch
	}
	if stored != code {
		return ErrCodeMismatch
	}
	return c.store.Del(keyPrefix + userID)
}
