package triage

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickAssignee_SingleCandidate(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		got, err := PickAssignee([]string{"msyyc"}, rng)
		require.NoError(t, err)
		assert.Equal(t, "msyyc", got)
	}
}

func TestPickAssignee_EmptyPool(t *testing.T) {
	_, err := PickAssignee(nil, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestPickAssignee_RoughlyUniform(t *testing.T) {
	pool := []string{"a", "b", "c"}
	rng := rand.New(rand.NewSource(42))
	const draws = 3000

	counts := make(map[string]int)
	for i := 0; i < draws; i++ {
		got, err := PickAssignee(pool, rng)
		require.NoError(t, err)
		counts[got]++
	}

	require.Len(t, counts, len(pool))
	for login, n := range counts {
		assert.InDelta(t, draws/len(pool), n, 150, "candidate %s", login)
	}
}
