package triage

import "math/rand"

// PickAssignee chooses one login from pool. A single candidate is always
// chosen; otherwise the choice is uniform over pool using rng.
func PickAssignee(pool []string, rng *rand.Rand) (string, error) {
	switch len(pool) {
	case 0:
		return "", ErrEmptyPool
	case 1:
		return pool[0], nil
	}
	return pool[rng.Intn(len(pool))], nil
}
