package model

// ExerciseKind names an exercise type
type ExerciseKind string

const (
	KindObjection   ExerciseKind = "objection"
	KindSimulator   ExerciseKind = "simulator"
	KindQuickReply  ExerciseKind = "quick_reply"
	KindFixError    ExerciseKind = "fix_error"
	KindSellProduct ExerciseKind = "sell_product"
)

// ExerciseKinds lists every exercise in catalogue order
var ExerciseKinds = []ExerciseKind{KindObjection, KindSimulator, KindQuickReply, KindFixError, KindSellProduct}

// Valid reports whether the kind is known
func (k ExerciseKind) Valid() bool {
	for _, kind := range ExerciseKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// SessionState tracks progress through a fixed ordered subset of a task pool.
// Order holds indices into the pool.
type SessionState struct {
	Kind         ExerciseKind `json:"kind"`
	Order        []int        `json:"order"`
	CurrentIndex int          `json:"currentIndex"`
	Finished     bool         `json:"isFinished"`
	Score        int          `json:"score"`
	Reported     bool         `json:"reported"`
}

// Current returns the pool index of the task at the current step
func (s *SessionState) Current() int {
	return s.Order[s.CurrentIndex]
}

// Total returns the number of tasks in the session
func (s *SessionState) Total() int {
	return len(s.Order)
}

// Validate checks the state against a pool of the given size
func (s *SessionState) Validate(kind ExerciseKind, poolSize int) bool {
	if s.Kind != kind || len(s.Order) == 0 {
		return false
	}
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Order) {
		return false
	}
	seen := make(map[int]bool, len(s.Order))
	for _, idx := range s.Order {
		if idx < 0 || idx >= poolSize || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}
