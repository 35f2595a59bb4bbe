package random_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbt-academy/trainer/internal/dependencies/mocks"
	"github.com/rbt-academy/trainer/internal/dependencies/random"
)

func TestSampleClampsSize(t *testing.T) {
	assert.Len(t, random.Sample(random.New(), 3, 10), 3)
	assert.Empty(t, random.Sample(random.New(), 0, 4))
}

func TestSampleIsAPermutationSubset(t *testing.T) {
	order := random.Sample(random.New(), 16, 5)
	require.Len(t, order, 5)

	seen := map[int]bool{}
	for _, idx := range order {
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 16)
		assert.False(t, seen[idx], "index %d drawn twice", idx)
		seen[idx] = true
	}
}

func TestSampleFollowsDraws(t *testing.T) {
	r := mocks.NewMockRandom()
	// slot 0 swaps with 0+2, slot 1 swaps with 1+0
	r.QueueIntn(2, 0)

	assert.Equal(t, []int{2, 1}, random.Sample(r, 4, 2))
}

func TestPick(t *testing.T) {
	r := mocks.NewMockRandom()
	r.QueueIntn(1)

	assert.Equal(t, "kettle", random.Pick(r, []string{"tv", "kettle", "phone"}))
	assert.Equal(t, "", random.Pick(r, []string(nil)))
}

func TestCryptoIntnBounds(t *testing.T) {
	r := random.New()
	assert.Equal(t, 0, r.Intn(0))
	for range 50 {
		v := r.Intn(3)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 3)
	}
}
