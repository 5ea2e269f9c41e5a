package sweep

import (
	"math/rand/v2"
	"strconv"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Derivation declares a derived parameter in the sweep config. Exactly one of
// Values or Random is set.
type Derivation struct {
	Name   string       `yaml:"name"`
	Values []string     `yaml:"values"`
	Random *RandomRange `yaml:"random"`
}

// RandomRange draws Count integers in [Min, Max] for every combination.
type RandomRange struct {
	Min   int64 `yaml:"min"`
	Max   int64 `yaml:"max"`
	Count int   `yaml:"count"`
}

// Plan is the full description of a sweep: the space and the pipeline stages
// applied to it, in the order exclude -> derive -> sample.
type Plan struct {
	Parameters  model.ParameterSet
	Groups      []model.Group
	Exclude     []model.Group
	Derivations []Derivation
	// Sample keeps that many combinations when set. Negative is an error.
	Sample int
}

// Build generates the space and runs the pipeline. rng drives every random
// stage so a seed reproduces the sweep.
func (p Plan) Build(rng *rand.Rand) ([]model.Combination, error) {
	seq, err := Generate(p.Parameters, p.Groups)
	if err != nil {
		return nil, err
	}

	if len(p.Exclude) > 0 {
		seq = Filter(seq, Exclude(p.Exclude))
	}

	for _, d := range p.Derivations {
		fn, err := d.Deriver(rng)
		if err != nil {
			return nil, err
		}
		if seq, err = Derive(seq, d.Name, fn); err != nil {
			return nil, err
		}
	}

	if p.Sample != 0 {
		if seq, err = Sample(seq, p.Sample, rng); err != nil {
			return nil, err
		}
	}
	return seq, nil
}

// Deriver returns the value generator the declaration describes.
func (d Derivation) Deriver(rng *rand.Rand) (Deriver, error) {
	switch {
	case d.Random != nil && d.Values != nil:
		return nil, errors.Wrapf(model.ErrDerivation, "%s: values and random are exclusive", d.Name)
	case d.Values != nil:
		return FixedValues(d.Values), nil
	case d.Random != nil:
		r := *d.Random
		if r.Max < r.Min {
			return nil, errors.Wrapf(model.ErrDerivation, "%s: random max %d below min %d", d.Name, r.Max, r.Min)
		}
		if r.Count <= 0 {
			r.Count = 1
		}
		return RandomInts(rng, r.Min, r.Max, r.Count), nil
	default:
		return nil, errors.Wrapf(model.ErrDerivation, "%s: no values or random range", d.Name)
	}
}

// FixedValues fans every combination out over the same values.
func FixedValues(values []string) Deriver {
	return func(model.Combination) ([]string, error) {
		return values, nil
	}
}

// RandomInts draws count integers in [lo, hi] per combination. hi must not
// be below lo.
func RandomInts(rng *rand.Rand, lo, hi int64, count int) Deriver {
	// span wraps to 0 when [lo, hi] covers all of int64
	span := uint64(hi) - uint64(lo) + 1
	return func(model.Combination) ([]string, error) {
		out := make([]string, count)
		for i := range out {
			var off uint64
			if span == 0 {
				off = rng.Uint64()
			} else {
				off = rng.Uint64N(span)
			}
			out[i] = strconv.FormatInt(int64(uint64(lo)+off), 10)
		}
		return out, nil
	}
}

// Exclude drops any combination matching every pair of one of the entries.
func Exclude(entries []model.Group) Predicate {
	return func(c model.Combination) bool {
		for _, e := range entries {
			if matches(c, e) {
				return false
			}
		}
		return true
	}
}

func matches(c model.Combination, g model.Group) bool {
	for _, p := range g {
		if v, ok := c.Get(p.Name); !ok || v != p.Value {
			return false
		}
	}
	return true
}
