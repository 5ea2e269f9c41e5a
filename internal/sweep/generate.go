/*
PURPOSE:
  Parameter space generation: turns the declared parameters and groups into
  the ordered list of combinations a sweep will build.

REQUIREMENTS:
  User-specified:
  - Cartesian product of every parameter's values, in declared order.
  - Groups are either disjoint from the known names (broadcast onto every
    combination) or a subset of them (one extra overridden copy of the base
    combinations). Anything else is a configuration error.

  Implementation-discovered:
  - Disjoint groups apply to the base combinations only. Side copies made by
    earlier subset groups keep the names they had; the result table leaves
    the missing columns blank.
  - Subset groups copy the base combinations only; they do not compound.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli (run, combinations)
  - Uses: internal/model

ERROR HANDLING:
  - Returns model.ErrConfiguration (wrapped) for partially overlapping groups.

IMPLEMENTATION RULES:
  - Pure function. No I/O, no logging.

USAGE:
  combos, err := sweep.Generate(cfg.Parameters, cfg.Groups)
*/

package sweep

import (
	"strings"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Generate enumerates every combination of params, then layers groups on top.
func Generate(params model.ParameterSet, groups []model.Group) ([]model.Combination, error) {
	base := Product(params)

	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.Name] = true
	}

	var sides [][]model.Combination
	for i, g := range groups {
		overlap := 0
		for _, p := range g {
			if known[p.Name] {
				overlap++
			}
		}

		switch {
		case overlap == 0:
			for _, p := range g {
				known[p.Name] = true
			}
			if len(base) == 0 {
				base = []model.Combination{model.Combination{}.Merge(g)}
			} else {
				base = broadcast(base, g)
			}

		case overlap == len(g):
			side := make([]model.Combination, len(base))
			for j, c := range base {
				side[j] = c.Merge(g)
			}
			sides = append(sides, side)

		default:
			return nil, model.ConfigError("ambiguous group %d (%s): must be subset or disjoint",
				i, strings.Join(g.Keys(), ", "))
		}
	}

	out := base
	for _, side := range sides {
		out = append(out, side...)
	}
	return out, nil
}

// Product returns the Cartesian product of the parameter values. The last
// parameter varies fastest. An empty set yields one empty combination.
func Product(params model.ParameterSet) []model.Combination {
	out := []model.Combination{{}}
	for _, p := range params {
		next := make([]model.Combination, 0, len(out)*len(p.Values))
		for _, c := range out {
			for _, v := range p.Values {
				next = append(next, c.Set(p.Name, v))
			}
		}
		out = next
	}
	return out
}

func broadcast(seq []model.Combination, g model.Group) []model.Combination {
	out := make([]model.Combination, len(seq))
	for i, c := range seq {
		out[i] = c.Merge(g)
	}
	return out
}
