//go:build !linux

package uring

import (
	"fmt"
	"time"

	"github.com/ehrlich-b/heliogo/internal/interfaces"
)

// TickRing is unavailable off Linux; NewTickRing always fails so callers
// fall back to a WallClock or StubTickSource.
type TickRing struct{}

// NewTickRing always returns an error on non-Linux platforms.
func NewTickRing(period time.Duration, logger interfaces.Logger) (*TickRing, error) {
	return nil, fmt.Errorf("uring: TickRing requires linux")
}

// Now implements interfaces.TickSource; always zero, unreachable since
// NewTickRing never succeeds.
func (t *TickRing) Now() uint32 { return 0 }

// Close is a no-op.
func (t *TickRing) Close() error { return nil }
