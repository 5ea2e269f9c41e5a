package engine

import (
	"context"
	"fmt"

	"github.com/daryltucker/flexsweep/internal/model"
)

// StatusColumn holds pass or fail in simulation results.
const StatusColumn = "status"

// Questa runs one qrun simulation per combination. Every combination shares
// one build directory; the result is the simulator's exit status.
type Questa struct {
	opts Options
	sv   bool
}

// NewQuesta returns the Questa simulation backend.
func NewQuesta(opts Options) *Questa {
	return &Questa{opts: opts, sv: HasExt(opts.Files, ".sv")}
}

func (q *Questa) Name() string { return "questa" }

func (q *Questa) Prepare(ws *Workspace, c model.Combination) error {
	if err := ws.WriteFile(FileListFile, FileList(q.opts.Files)); err != nil {
		return err
	}
	return ws.WriteFile(ParametersFile, ParameterFile(c))
}

// Args builds the qrun command line for c.
func (q *Questa) Args(c model.Combination) []string {
	args := []string{"-64"}
	if q.sv {
		args = append(args, "-sv")
	}
	args = append(args, "-timescale=1ns/100ps")
	for _, p := range c {
		args = append(args, "-g", fmt.Sprintf("%s=%s", p.Name, p.Value))
	}
	args = append(args, q.opts.Files...)
	return append(args, "-top", q.opts.Top)
}

func (q *Questa) Invoke(ctx context.Context, ws *Workspace, c model.Combination) (*Invocation, error) {
	return q.opts.Exec.Run(ctx, Command{
		Binary:           "qrun",
		Arguments:        q.Args(c),
		WorkingDirectory: ws.Dir,
		LogFile:          c.RunName(q.opts.Top) + ".log",
	})
}

// Parse reports a pass. A failing simulation never gets here: its non-zero
// exit already failed the invocation.
func (q *Questa) Parse(_ *Workspace, c model.Combination, _ *Invocation) (model.Record, error) {
	return resultRecord(c, []model.Param{{Name: StatusColumn, Value: "pass"}})
}

// FailureRecord reports a fail row for a combination whose run failed. A
// parameter named like the status column keeps its value and the row carries
// no status.
func (q *Questa) FailureRecord(c model.Combination, _ error) model.Record {
	r := model.NewRecord(c)
	if !c.Has(StatusColumn) {
		r.Set(StatusColumn, "fail")
	}
	return r
}
