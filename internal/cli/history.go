package cli

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/daryltucker/flexsweep/internal/model"
	"github.com/daryltucker/flexsweep/internal/store"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "Show recorded sweeps, or the outcomes of one sweep",
	Example: `  flexsweep history --history sweeps.db
  flexsweep history --history sweeps.db 3f2b6c1e-...`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyPath == "" {
			return model.ConfigError("--history is required")
		}
		st, err := store.Open(historyPath)
		if err != nil {
			return err
		}
		defer st.Close()

		if len(args) == 1 {
			outcomes, err := st.Outcomes(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if len(outcomes) == 0 {
				return fmt.Errorf("no outcomes recorded for run %s", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcomeTable(outcomes))
			return nil
		}

		runs, err := st.Runs(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), runTable(runs))
		return nil
	},
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func styledTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func runTable(runs []store.Run) string {
	t := styledTable().Headers("RUN", "STARTED", "TOOL", "TOP", "PASSED", "FAILED")
	for _, r := range runs {
		passed := "-"
		failed := "-"
		if r.FinishedAt != nil {
			passed = strconv.Itoa(r.Total - r.Failed)
			failed = strconv.Itoa(r.Failed)
		}
		t.Row(r.ID, r.StartedAt.Local().Format(time.DateTime), r.Tool, r.Top, passed, failed)
	}
	return t.String()
}

func outcomeTable(outcomes []model.Outcome) string {
	t := styledTable().Headers("NAME", "STATE", "DURATION", "RESULT")
	for _, o := range outcomes {
		result := o.Error
		if result == "" {
			result = formatResult(o.Result)
		}
		t.Row(o.Name, o.State, o.Duration.Round(time.Millisecond).String(), result)
	}
	return t.String()
}

func formatResult(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for i, k := range keys {
		if i > 0 {
			s += " "
		}
		s += k + "=" + m[k]
	}
	return s
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of most recent runs to show")
}
