package testutil

import (
	"time"

	"github.com/devdaily/catalog-service/internal/pkg/clock"
)

// BaseTime is the instant mock clocks start at. Pinning the seed keeps
// timestamp assertions stable no matter when the suite runs.
var BaseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// NewMockClock returns a controllable clock pinned at BaseTime.
func NewMockClock() *clock.MockClock {
	return clock.NewMockClock(BaseTime)
}
