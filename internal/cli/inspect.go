package cli

import (
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/neuroimg/fmriplot/pkg/tabular"
)

// inspectCommand creates the inspect command for summarizing confound tables.
func (c *CLI) inspectCommand() *cobra.Command {
	var usecols []string

	cmd := &cobra.Command{
		Use:   "inspect [confounds-file]",
		Short: "Summarize the columns of a confounds table",
		Long: `Summarize the columns of a confounds table.

Prints one row per column with frame count, finite range, mean, and the
number of missing values. Useful for checking a table before composing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(args[0], usecols)
		},
	}

	cmd.Flags().StringSliceVar(&usecols, "usecols", nil, "columns to summarize (default: all)")

	return cmd
}

// runInspect loads the table and prints the per-column summary.
func runInspect(path string, usecols []string) error {
	t, err := tabular.LoadTable(path, usecols)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, t.NumCols())
	for _, name := range t.Names() {
		values, _ := t.Column(name)
		rows = append(rows, summarizeColumn(name, values))
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	out := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Column", "Frames", "Min", "Max", "Mean", "Missing").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleValue
			}
			return StyleDim
		})

	fmt.Println(out.Render())
	printDetail("%d columns, %d frames", t.NumCols(), t.NumRows())

	return nil
}

// summarizeColumn computes the display row for one column.
// Statistics cover finite values only; NaN entries count as missing.
func summarizeColumn(name string, values []float64) []string {
	var (
		minV    = math.Inf(1)
		maxV    = math.Inf(-1)
		sum     float64
		finite  int
		missing int
	)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			missing++
			continue
		}
		finite++
		sum += v
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	if finite == 0 {
		dash := "—"
		return []string{name, strconv.Itoa(len(values)), dash, dash, dash, strconv.Itoa(missing)}
	}
	return []string{
		name,
		strconv.Itoa(len(values)),
		formatValue(minV),
		formatValue(maxV),
		formatValue(sum / float64(finite)),
		strconv.Itoa(missing),
	}
}

// formatValue renders a statistic compactly.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
