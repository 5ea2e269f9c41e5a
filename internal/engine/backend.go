/*
PURPOSE:
  Backend abstraction for the external EDA tools. A backend turns one
  combination into artifacts, one tool run, and one result record.

REQUIREMENTS:
  User-specified:
  - Three backends: questa (simulation), vivado and quartus (synthesis).
  - Unknown mode/tool combinations are configuration errors.
  - Missing clock/reset disables pin handling instead of failing.

  Implementation-discovered:
  - Backends get their process runner injected so tests can return canned
    tool output.

ARCHITECTURE INTEGRATION:
  - Called by: engine.Sweep (runner.go), internal/cli
  - Uses: internal/model, internal/assets

ERROR HANDLING:
  - NewBackend returns model.ErrConfiguration for bad mode, tool or options.

USAGE:
  b, err := engine.NewBackend("synth", "vivado", opts)
*/

package engine

import (
	"context"
	"sort"

	"github.com/daryltucker/flexsweep/internal/model"
)

// Backend drives one external toolchain, one combination at a time.
type Backend interface {
	// Name is the tool identifier, e.g. "vivado".
	Name() string
	// Prepare writes every artifact the tool reads for c. Repeating it for
	// the same combination produces the same files.
	Prepare(ws *Workspace, c model.Combination) error
	// Invoke runs the tool once, synchronously, in the workspace.
	Invoke(ctx context.Context, ws *Workspace, c model.Combination) (*Invocation, error)
	// Parse extracts the result record from the tool's output.
	Parse(ws *Workspace, c model.Combination, inv *Invocation) (model.Record, error)
}

// FailureRecorder is implemented by backends whose failed runs still produce
// a table row, such as a simulation reporting fail.
type FailureRecorder interface {
	FailureRecord(c model.Combination, err error) model.Record
}

// Modes.
const (
	ModeSim   = "sim"
	ModeSynth = "synth"
)

// Options carries the design settings every backend needs.
type Options struct {
	Top         string
	Device      string
	Clock       string
	Reset       string
	Files       []string
	ClockPeriod float64
	Exec        Executor
}

type factory func(Options) (Backend, error)

var registry = map[string]map[string]factory{
	ModeSim: {
		"questa": func(o Options) (Backend, error) { return NewQuesta(o), nil },
	},
	ModeSynth: {
		"vivado":  func(o Options) (Backend, error) { return NewVivado(o) },
		"quartus": func(o Options) (Backend, error) { return NewQuartus(o) },
	},
}

// NewBackend returns the backend registered for mode and tool.
func NewBackend(mode, tool string, opts Options) (Backend, error) {
	tools, ok := registry[mode]
	if !ok {
		return nil, model.ConfigError("invalid mode %q, want %q or %q", mode, ModeSim, ModeSynth)
	}
	mk, ok := tools[tool]
	if !ok {
		if mode == ModeSim {
			return nil, model.ConfigError("invalid simulator %q, known: %v", tool, Tools(mode))
		}
		return nil, model.ConfigError("invalid synthesis tool %q, known: %v", tool, Tools(mode))
	}
	if opts.Top == "" {
		return nil, model.ConfigError("top is required")
	}
	if opts.Exec == nil {
		opts.Exec = &ProcessExecutor{}
	}
	return mk(opts)
}

// Tools lists the tool identifiers known for mode.
func Tools(mode string) []string {
	var out []string
	for name := range registry[mode] {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// WorkDir is the default build directory name for a backend.
func WorkDir(b Backend) string {
	return "build_" + b.Name()
}
