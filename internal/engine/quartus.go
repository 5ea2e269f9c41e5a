package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/daryltucker/flexsweep/internal/assets"
	"github.com/daryltucker/flexsweep/internal/model"
)

// Quartus artifact names.
const (
	QuartusScript   = "quartus_flow.tcl"
	QuartusSettings = "settings.tcl"
)

// Quartus compiles one project per combination. The flow script prints the
// results as HEADERS:/VALUES: lines on stdout.
type Quartus struct {
	opts  Options
	files []FileAssignment
}

// NewQuartus returns the Quartus synthesis backend.
func NewQuartus(opts Options) (*Quartus, error) {
	if opts.Device == "" {
		return nil, model.ConfigError("quartus needs a device")
	}
	return &Quartus{opts: opts, files: TagFiles(opts.Files, quartusFileTypes)}, nil
}

func (q *Quartus) Name() string { return "quartus" }

func (q *Quartus) sdcName() string { return q.opts.Top + ".sdc" }

func (q *Quartus) Prepare(ws *Workspace, c model.Combination) error {
	if q.opts.Clock == "" {
		if err := ws.Remove(q.sdcName()); err != nil {
			return err
		}
	} else if err := ws.WriteFile(q.sdcName(), q.SDC()); err != nil {
		return err
	}
	if err := ws.WriteFile(QuartusSettings, q.Settings(c)); err != nil {
		return err
	}
	if err := ws.WriteFile(ParametersFile, ParameterFile(c)); err != nil {
		return err
	}
	_, err := assets.Install(ws.Dir, QuartusScript)
	return err
}

// SDC renders the timing constraints for the configured clock port.
func (q *Quartus) SDC() string {
	period := q.opts.ClockPeriod
	var b strings.Builder
	b.WriteString("set_time_format -unit ns -decimal_places 3\n")
	fmt.Fprintf(&b, "create_clock -name {clk} -period %s -waveform { 0.000 %s } [get_ports {%s}]\n",
		formatPeriod(period), formatPeriod(period/2), q.opts.Clock)
	for _, edge := range []string{"-rise_from [get_clocks {clk}] -rise_to", "-rise_from [get_clocks {clk}] -fall_to",
		"-fall_from [get_clocks {clk}] -rise_to", "-fall_from [get_clocks {clk}] -fall_to"} {
		fmt.Fprintf(&b, "set_clock_uncertainty %s [get_clocks {clk}]  0.020\n", edge)
	}
	return b.String()
}

// Settings renders the project assignments for c: source files, parameter
// values, and virtual pins for everything but the clock and reset ports.
func (q *Quartus) Settings(c model.Combination) string {
	var b strings.Builder
	for _, f := range q.files {
		fmt.Fprintf(&b, "set_global_assignment -name %s %s\n", f.Type, f.Path)
	}
	if q.opts.Clock != "" {
		fmt.Fprintf(&b, "set_global_assignment -name SDC_FILE %s\n", q.sdcName())
	}
	for _, p := range c {
		fmt.Fprintf(&b, "set_parameter -name %s %s\n", p.Name, p.Value)
	}
	b.WriteString("set_instance_assignment -to \"*\" -name VIRTUAL_PIN ON\n")
	if q.opts.Clock != "" {
		fmt.Fprintf(&b, "set_instance_assignment -to %s -name VIRTUAL_PIN OFF\n", q.opts.Clock)
	}
	if q.opts.Reset != "" {
		fmt.Fprintf(&b, "set_instance_assignment -to %s -name VIRTUAL_PIN OFF\n", q.opts.Reset)
	}
	return b.String()
}

func (q *Quartus) Invoke(ctx context.Context, ws *Workspace, _ model.Combination) (*Invocation, error) {
	return q.opts.Exec.Run(ctx, Command{
		Binary:           "quartus_sh",
		Arguments:        []string{"-t", QuartusScript, q.opts.Top, q.opts.Device},
		WorkingDirectory: ws.Dir,
		LogFile:          "flexsweep_quartus.log",
	})
}

func (q *Quartus) Parse(_ *Workspace, c model.Combination, inv *Invocation) (model.Record, error) {
	fields, err := ParseHeaderValues(inv.Stdout)
	if err != nil {
		return model.Record{}, err
	}
	return resultRecord(c, fields)
}
