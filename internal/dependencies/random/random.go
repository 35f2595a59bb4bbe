// Package random draws the choices behind task ordering and the
// simulator's product pick.
package random

import (
	"crypto/rand"
	"math/big"
)

// Random draws uniform integers
type Random interface {
	// Intn returns an int in [0, n), or 0 when n <= 0
	Intn(n int) int
}

// Crypto draws from crypto/rand
type Crypto struct{}

// New creates a Crypto source
func New() *Crypto {
	return &Crypto{}
}

func (Crypto) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

// Sample picks size distinct indices from [0, poolSize) in random order.
// A size larger than the pool is clamped to the pool.
func Sample(r Random, poolSize, size int) []int {
	if poolSize <= 0 || size <= 0 {
		return []int{}
	}
	size = min(size, poolSize)

	perm := make([]int, poolSize)
	for i := range perm {
		perm[i] = i
	}
	// Partial Fisher-Yates: only the first size slots are drawn
	for i := range size {
		j := i + r.Intn(poolSize-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:size:size]
}

// Pick returns one element of items, or the zero value for an empty slice
func Pick[T any](r Random, items []T) T {
	var zero T
	if len(items) == 0 {
		return zero
	}
	return items[r.Intn(len(items))]
}
