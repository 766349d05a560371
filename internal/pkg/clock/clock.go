package clock

import (
	"context"
	"time"
)

// Clock supplies the current time and a cancellable sleep. Components
// stamp rows and back off between retries through a Clock instead of
// calling the time package directly, so tests can pin both.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration)
}

// RealClock reads the system clock.
type RealClock struct{}

// NewRealClock returns a Clock backed by system time.
func NewRealClock() Clock {
	return RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now()
}

// Sleep blocks for d or until ctx is cancelled, whichever comes first.
func (RealClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// MockClock holds a settable instant. Sleep advances the instant
// instead of blocking and records each requested duration, which lets
// tests walk through backoff schedules instantly and assert on them.
type MockClock struct {
	at    time.Time
	slept []time.Duration
}

// NewMockClock returns a MockClock pinned at start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{at: start}
}

func (m *MockClock) Now() time.Time {
	return m.at
}

// Sleep moves the clock forward by d without blocking.
func (m *MockClock) Sleep(_ context.Context, d time.Duration) {
	m.at = m.at.Add(d)
	m.slept = append(m.slept, d)
}

// Set pins the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.at = t
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.at = m.at.Add(d)
}

// SleepDurations returns the durations passed to Sleep, in order.
func (m *MockClock) SleepDurations() []time.Duration {
	return m.slept
}
