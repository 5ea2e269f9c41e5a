package sweep

import (
	"math/rand/v2"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Predicate selects combinations to keep.
type Predicate func(model.Combination) bool

// Deriver produces the candidate values of a derived parameter for one
// combination. It must be deterministic for a given RNG state.
type Deriver func(model.Combination) ([]string, error)

// Filter keeps the combinations satisfying keep, in order.
func Filter(seq []model.Combination, keep Predicate) []model.Combination {
	out := make([]model.Combination, 0, len(seq))
	for _, c := range seq {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// Derive adds parameter name to every combination, fanning each one out into
// one new combination per distinct value returned by fn.
func Derive(seq []model.Combination, name string, fn Deriver) ([]model.Combination, error) {
	if name == "" {
		return nil, errors.Wrap(model.ErrDerivation, "derived parameter has no name")
	}

	var out []model.Combination
	for _, c := range seq {
		if c.Has(name) {
			return nil, errors.Wrapf(model.ErrDerivation, "parameter %s already defined", name)
		}
		values, err := fn(c)
		if err != nil {
			return nil, errors.Wrapf(model.ErrDerivation, "derive %s for [%s]: %v", name, c, err)
		}
		seen := make(map[string]bool, len(values))
		for _, v := range values {
			if seen[v] {
				continue
			}
			seen[v] = true
			out = append(out, c.Set(name, v))
		}
	}
	return out, nil
}

// Sample draws n combinations uniformly at random without replacement.
func Sample(seq []model.Combination, n int, rng *rand.Rand) ([]model.Combination, error) {
	if n < 0 {
		return nil, errors.Wrapf(model.ErrSampling, "sample size %d is negative", n)
	}
	if n > len(seq) {
		return nil, errors.Wrapf(model.ErrSampling, "sample size %d exceeds %d combinations", n, len(seq))
	}

	perm := rng.Perm(len(seq))
	out := make([]model.Combination, n)
	for i := 0; i < n; i++ {
		out[i] = seq[perm[i]]
	}
	return out, nil
}
