package engine

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/model"
)

// fakeExecutor records commands and answers them with canned results.
type fakeExecutor struct {
	calls []Command
	// stdout is returned for every call.
	stdout string
	// files are written into the working directory before returning.
	files map[string]string
	// exitCode, when non-zero, fails the call.
	exitCode int
}

func (f *fakeExecutor) Run(_ context.Context, cmd Command) (*Invocation, error) {
	f.calls = append(f.calls, cmd)
	for name, content := range f.files {
		if err := os.WriteFile(filepath.Join(cmd.WorkingDirectory, name), []byte(content), 0644); err != nil {
			return nil, err
		}
	}
	inv := &Invocation{Command: cmd, ExitCode: f.exitCode, Stdout: f.stdout}
	if f.exitCode != 0 {
		return inv, errors.Wrapf(model.ErrToolInvocation, "%s exited with status %d", cmd.Binary, f.exitCode)
	}
	return inv, nil
}

// stubBackend reports fixed fields and can be told to fail a state for
// selected combinations.
type stubBackend struct {
	fields   []model.Param
	failIn   State
	failWhen func(model.Combination) bool
	prepared int
}

func (b *stubBackend) Name() string { return "stub" }

func (b *stubBackend) fail(s State, c model.Combination) bool {
	return b.failWhen != nil && b.failIn == s && b.failWhen(c)
}

func (b *stubBackend) Prepare(_ *Workspace, c model.Combination) error {
	b.prepared++
	if b.fail(StatePrepare, c) {
		return errors.New("disk full")
	}
	return nil
}

func (b *stubBackend) Invoke(_ context.Context, _ *Workspace, c model.Combination) (*Invocation, error) {
	if b.fail(StateInvoke, c) {
		return &Invocation{ExitCode: 1}, errors.Wrap(model.ErrToolInvocation, "stub exited with status 1")
	}
	return &Invocation{}, nil
}

func (b *stubBackend) Parse(_ *Workspace, c model.Combination, _ *Invocation) (model.Record, error) {
	if b.fail(StateParse, c) {
		return model.Record{}, errors.Wrap(model.ErrResultParse, "missing VALUES line")
	}
	return resultRecord(c, b.fields)
}
