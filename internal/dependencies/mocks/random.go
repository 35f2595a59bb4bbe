package mocks

import (
	"sync"

	"github.com/rbt-academy/trainer/internal/dependencies/random"
)

// MockRandom replays queued draws. Once the queue runs dry every draw is 0,
// and a queued value outside [0, n) is wrapped into range.
type MockRandom struct {
	mu    sync.Mutex
	draws []int
	calls int
}

var _ random.Random = (*MockRandom)(nil)

// NewMockRandom creates a MockRandom with an empty queue
func NewMockRandom() *MockRandom {
	return &MockRandom{}
}

func (r *MockRandom) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if n <= 0 || len(r.draws) == 0 {
		return 0
	}
	v := r.draws[0]
	r.draws = r.draws[1:]
	return ((v % n) + n) % n
}

// QueueIntn appends draws to the queue
func (r *MockRandom) QueueIntn(values ...int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.draws = append(r.draws, values...)
}

// Calls returns how many draws were requested
func (r *MockRandom) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// Pending returns how many queued draws are unused
func (r *MockRandom) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.draws)
}
