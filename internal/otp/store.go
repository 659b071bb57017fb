package otp

import (
	"context"
	"time"
)

// Store holds short-lived one-time codes keyed by phone number. A code is
// consumed on successful verification so it cannot be replayed.
type Store interface {
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	Verify(ctx context.Context, phone, code string) (bool, error)
	Close() error
}
