package mocks

import (
	"sync"
	"time"

	"github.com/rbt-academy/trainer/internal/dependencies/clock"
)

// TrainingDay is the Wednesday noon most suites start from
var TrainingDay = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

// MockClock is a manually driven Clock. It is safe to read from request
// goroutines while a test moves it.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock stopped at t
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// AdvanceDays moves the clock forward by whole days, keeping the time of day
func (c *MockClock) AdvanceDays(days int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.AddDate(0, 0, days)
}

// Set stops the clock at t
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
