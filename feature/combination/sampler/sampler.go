// Package sampler implements weighted selection without replacement.
package sampler

import "math/rand"

// WeightedValue pairs a candidate value with its sampling weight.
type WeightedValue struct {
	Value  string
	Weight int
}

// Sampler draws distinct values from a weighted pool. The random source is
// injected so tests can seed it deterministically.
type Sampler struct {
	rng *rand.Rand
}

// New creates a sampler over the given random source.
func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample draws up to count distinct values. Entries with weight <= 0 are
// excluded before sampling; the remaining candidates are drawn one at a
// time with probability proportional to weight, removed, and the weights
// renormalized implicitly by shrinking the total. count >= pool size
// returns every qualifying value. Never errors; an empty pool yields an
// empty result.
func (s *Sampler) Sample(pool []WeightedValue, count int) []string {
	candidates := make([]WeightedValue, 0, len(pool))
	total := 0
	for _, wv := range pool {
		if wv.Weight <= 0 {
			continue
		}
		candidates = append(candidates, wv)
		total += wv.Weight
	}

	if count <= 0 || len(candidates) == 0 {
		return []string{}
	}
	if count > len(candidates) {
		count = len(candidates)
	}

	out := make([]string, 0, count)
	for len(out) < count {
		// Roulette wheel over the remaining total weight.
		target := s.rng.Intn(total)
		idx := 0
		for i, wv := range candidates {
			if target < wv.Weight {
				idx = i
				break
			}
			target -= wv.Weight
		}

		picked := candidates[idx]
		out = append(out, picked.Value)
		total -= picked.Weight
		candidates = append(candidates[:idx], candidates[idx+1:]...)
	}

	return out
}

// SampleOne draws a single value, or "" when nothing qualifies.
func (s *Sampler) SampleOne(pool []WeightedValue) string {
	got := s.Sample(pool, 1)
	if len(got) == 0 {
		return ""
	}
	return got[0]
}
