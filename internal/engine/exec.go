package engine

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/output"
)

// Command is one external tool invocation.
type Command struct {
	Binary    string
	Arguments []string
	// WorkingDirectory is where the tool runs; usually the workspace.
	WorkingDirectory string
	// LogFile, when set, receives the tool's stdout and stderr. Relative
	// paths are inside WorkingDirectory.
	LogFile string
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Binary}, c.Arguments...), " ")
}

// Invocation is the outcome of running a Command to completion.
type Invocation struct {
	Command  Command
	ExitCode int
	Stdout   string
	Duration time.Duration
}

// Executor runs external tools. Tests substitute a fake.
type Executor interface {
	Run(ctx context.Context, cmd Command) (*Invocation, error)
}

// ProcessExecutor runs commands with os/exec.
type ProcessExecutor struct {
	// Echo, when set, also receives the tool's output as it runs.
	Echo io.Writer
}

// Run starts cmd and waits for it. A missing binary or a non-zero exit is
// reported as model.ErrToolInvocation; the Invocation is returned either way.
func (e *ProcessExecutor) Run(ctx context.Context, cmd Command) (*Invocation, error) {
	inv := &Invocation{Command: cmd, ExitCode: -1}

	var stdout bytes.Buffer
	outs := []io.Writer{&stdout}
	errs := []io.Writer{}
	if cmd.LogFile != "" {
		path := cmd.LogFile
		if !filepath.IsAbs(path) {
			path = filepath.Join(cmd.WorkingDirectory, path)
		}
		logFile, err := os.Create(path)
		if err != nil {
			return inv, errors.Wrapf(model.ErrToolInvocation, "create log %s: %v", path, err)
		}
		defer logFile.Close()
		outs = append(outs, logFile)
		errs = append(errs, logFile)
	}
	if e.Echo != nil {
		outs = append(outs, e.Echo)
		errs = append(errs, e.Echo)
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Arguments...)
	c.Dir = cmd.WorkingDirectory
	c.Stdout = io.MultiWriter(outs...)
	c.Stderr = io.MultiWriter(errs...)

	output.Logger.Debug("Starting tool", "cmd", cmd.String(), "dir", cmd.WorkingDirectory)
	start := time.Now()
	err := c.Run()
	inv.Duration = time.Since(start)
	inv.Stdout = stdout.String()

	if err == nil {
		inv.ExitCode = 0
		return inv, nil
	}

	var exitErr *exec.ExitError
	switch {
	case errors.As(err, &exitErr):
		inv.ExitCode = exitErr.ExitCode()
		return inv, errors.Wrapf(model.ErrToolInvocation, "%s exited with status %d", cmd.Binary, inv.ExitCode)
	case errors.Is(err, exec.ErrNotFound):
		return inv, errors.Wrapf(model.ErrToolInvocation, "%s not found on PATH", cmd.Binary)
	default:
		return inv, errors.Wrapf(model.ErrToolInvocation, "%s: %v", cmd.Binary, err)
	}
}
