package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/daryltucker/flexsweep/internal/model"
)

var (
	failColor = lipgloss.Color("#E06C75")
	passColor = lipgloss.Color("#8BC34A")

	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// RenderSummary prints the end-of-sweep report. Failed combinations are
// listed by run name.
func RenderSummary(w io.Writer, s model.Summary) error {
	var b strings.Builder
	color := passColor
	if !s.OK() {
		color = failColor
	}

	b.WriteString(titleStyle.Foreground(color).Render(
		fmt.Sprintf("%s: %d/%d combinations passed", s.Backend, s.Passed, s.Total)))
	if !s.OK() {
		fmt.Fprintf(&b, "\nFailed: %d", len(s.Failures))
		for _, f := range s.Failures {
			fmt.Fprintf(&b, "\n  %s", f.Name)
		}
	}
	if s.RunID != "" {
		fmt.Fprintf(&b, "\nRun ID: %s", s.RunID)
	}

	_, err := fmt.Fprintln(w, summaryStyle.BorderForeground(color).Render(b.String()))
	return err
}
