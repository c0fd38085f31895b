// Package rng provides the production RandomnessProvider.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

// Source wraps math/rand behind the RandomnessProvider port. A non-zero
// seed makes the whole engine reproducible.
type Source struct {
	mu sync.Mutex
	r  *rand.Rand
}

func NewSource(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{r: rand.New(rand.NewSource(seed))}
}

func (s *Source) RandInt(min, max int) int {
	if max < min {
		min, max = max, min
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return min + s.r.Intn(max-min+1)
}

// WeightedPick walks the weights subtracting from a roll in
// [1, totalWeight]; a roll landing on a cumulative boundary picks the
// earlier index.
func (s *Source) WeightedPick(weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return 0
	}
	roll := s.RandInt(1, total)
	for i, w := range weights {
		roll -= w
		if roll <= 0 {
			return i
		}
	}
	return len(weights) - 1
}
