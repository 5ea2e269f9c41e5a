/*
PURPOSE:
  High-level runner that orchestrates a sweep.
  Loops through combinations and drives each one through its backend:
  PREPARE -> INVOKE -> PARSE -> DONE, or FAILED.

REQUIREMENTS:
  User-specified:
  - One combination at a time, in order.
  - A failed combination is logged by run name and tallied; the sweep goes on.
  - Finished records are appended to the result table.

  Implementation-discovered:
  - Every outcome (including failures) also goes to the optional journal and
    history store, so a failed row can be inspected after the fact.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/engine backends, internal/output

ERROR HANDLING:
  - Logs per-combination errors but continues (resilience).
  - Returns only on context cancellation.

IMPLEMENTATION RULES:
  - No parallelism: the workspace is shared between combinations.

USAGE:
  s := &engine.Sweep{Backend: b, Workspace: ws, Top: cfg.Top, Table: table}
  summary, err := s.Run(ctx, combos)
*/

package engine

import (
	"context"
	"time"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/output"
)

// State is a combination's position in its backend cycle.
type State int

const (
	StatePrepare State = iota
	StateInvoke
	StateParse
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePrepare:
		return "prepare"
	case StateInvoke:
		return "invoke"
	case StateParse:
		return "parse"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Recorder persists outcomes beyond the result table.
type Recorder interface {
	RecordOutcome(ctx context.Context, o model.Outcome) error
}

// Sweep runs a backend over a sequence of combinations.
type Sweep struct {
	Backend   Backend
	Workspace *Workspace
	Top       string
	RunID     string

	// Optional sinks.
	Table   *output.Table
	Journal *output.Journal
	History Recorder
}

// Step is the result of driving one combination through the backend.
type Step struct {
	State  State
	Record model.Record
	// FailedIn is the state the combination failed in, if it failed.
	FailedIn State
	Err      error
}

// Execute drives c through PREPARE, INVOKE and PARSE.
func (s *Sweep) Execute(ctx context.Context, c model.Combination) Step {
	step := Step{State: StatePrepare}
	var inv *Invocation

	for step.State != StateDone && step.State != StateFailed {
		var err error
		next := step.State

		switch step.State {
		case StatePrepare:
			err = s.Backend.Prepare(s.Workspace, c)
			next = StateInvoke
		case StateInvoke:
			inv, err = s.Backend.Invoke(ctx, s.Workspace, c)
			next = StateParse
		case StateParse:
			step.Record, err = s.Backend.Parse(s.Workspace, c, inv)
			next = StateDone
		}

		if err != nil {
			step.FailedIn = step.State
			step.Err = err
			next = StateFailed
		}
		step.State = next
	}
	return step
}

// Run executes every combination and returns the tally. It stops early only
// when ctx is cancelled.
func (s *Sweep) Run(ctx context.Context, seq []model.Combination) (model.Summary, error) {
	summary := model.Summary{RunID: s.RunID, Backend: s.Backend.Name()}

	for i, c := range seq {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		name := c.RunName(s.Top)
		output.Logger.Info("Running combination",
			"name", name,
			"index", i+1,
			"total", len(seq),
		)

		start := time.Now()
		step := s.Execute(ctx, c)
		outcome := model.Outcome{
			RunID:     s.RunID,
			Name:      name,
			Backend:   s.Backend.Name(),
			State:     step.State.String(),
			Params:    model.ParamMap(c),
			Timestamp: start,
			Duration:  time.Since(start),
		}

		row := step.Record
		writeRow := step.State == StateDone
		if step.State == StateFailed {
			outcome.Error = step.Err.Error()
			output.Logger.Error("Combination failed",
				"name", name,
				"state", step.FailedIn.String(),
				"error", step.Err,
			)
			if fr, ok := s.Backend.(FailureRecorder); ok {
				row = fr.FailureRecord(c, step.Err)
				writeRow = true
			}
		} else {
			outcome.Result = step.Record.Map()
			output.Logger.Info("Combination done", "name", name, "duration", outcome.Duration)
		}

		if writeRow && s.Table != nil {
			if err := s.Table.Append(row); err != nil {
				output.Logger.Error("Failed to write result to CSV", "name", name, "error", err)
				if outcome.Error == "" {
					outcome.Error = err.Error()
					outcome.State = StateFailed.String()
				}
			}
		}

		s.record(ctx, outcome)
		summary.Add(outcome)
	}

	return summary, nil
}

func (s *Sweep) record(ctx context.Context, o model.Outcome) {
	// the last outcome of a cancelled sweep is still stored
	ctx = context.WithoutCancel(ctx)

	if s.Journal != nil {
		if err := s.Journal.Record(o); err != nil {
			output.Logger.Error("Failed to write outcome to journal", "name", o.Name, "error", err)
		}
	}
	if s.History != nil {
		if err := s.History.RecordOutcome(ctx, o); err != nil {
			output.Logger.Error("Failed to record outcome in history", "name", o.Name, "error", err)
		}
	}
}
