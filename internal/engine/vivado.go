package engine

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/daryltucker/flexsweep/internal/assets"
	"github.com/daryltucker/flexsweep/internal/model"
)

// Vivado artifact names.
const (
	VivadoScript = "vivado_flow.tcl"
	VivadoXDC    = "vivado.xdc"
	VivadoReport = "vivado_report.txt"
)

// Vivado runs one batch-mode synthesis and implementation per combination
// and reads the two-line report the flow script writes.
type Vivado struct {
	opts Options
}

// NewVivado returns the Vivado synthesis backend.
func NewVivado(opts Options) (*Vivado, error) {
	if opts.Device == "" {
		return nil, model.ConfigError("vivado needs a device")
	}
	return &Vivado{opts: opts}, nil
}

func (v *Vivado) Name() string { return "vivado" }

func (v *Vivado) Prepare(ws *Workspace, c model.Combination) error {
	if err := ws.Remove(VivadoReport); err != nil {
		return err
	}
	if err := ws.WriteFile(FileListFile, FileList(v.opts.Files)); err != nil {
		return err
	}
	if err := ws.WriteFile(ParametersFile, ParameterFile(c)); err != nil {
		return err
	}
	if v.opts.Clock == "" {
		if err := ws.Remove(VivadoXDC); err != nil {
			return err
		}
	} else if err := ws.WriteFile(VivadoXDC, v.XDC()); err != nil {
		return err
	}
	_, err := assets.Install(ws.Dir, VivadoScript)
	return err
}

// XDC renders the clock constraints for the configured clock port.
func (v *Vivado) XDC() string {
	return fmt.Sprintf("create_clock -period %s [get_ports %s] -name clk\n"+
		"set_property HD.CLK_SRC BUFGCTRL_X0Y0 [get_ports %s]\n",
		formatPeriod(v.opts.ClockPeriod), v.opts.Clock, v.opts.Clock)
}

func (v *Vivado) Invoke(ctx context.Context, ws *Workspace, _ model.Combination) (*Invocation, error) {
	return v.opts.Exec.Run(ctx, Command{
		Binary: "vivado",
		Arguments: []string{
			"-mode", "batch",
			"-source", VivadoScript,
			"-tclargs", v.opts.Top, v.opts.Device, formatPeriod(v.opts.ClockPeriod),
		},
		WorkingDirectory: ws.Dir,
		LogFile:          "flexsweep_vivado.log",
	})
}

func (v *Vivado) Parse(ws *Workspace, c model.Combination, _ *Invocation) (model.Record, error) {
	f, err := os.Open(ws.Path(VivadoReport))
	if err != nil {
		return model.Record{}, errors.Wrapf(model.ErrResultParse, "open %s: %v", VivadoReport, err)
	}
	defer f.Close()

	fields, err := ParseSummaryReport(f)
	if err != nil {
		return model.Record{}, err
	}
	return resultRecord(c, fields)
}
