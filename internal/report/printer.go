// Package report renders run results for terminals.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/GoSim-25-26J-441/opinion-core/pkg/models"
)

// DefaultScale is the number of decimals printed when none is configured
const DefaultScale = 3

// Printer writes matrices, opinion vectors and scoring results to w
type Printer struct {
	w     io.Writer
	scale int
}

// NewPrinter creates a printer; a negative scale selects DefaultScale
func NewPrinter(w io.Writer, scale int) *Printer {
	if scale < 0 {
		scale = DefaultScale
	}
	return &Printer{w: w, scale: scale}
}

// Scale returns the number of decimals printed
func (p *Printer) Scale() int {
	return p.scale
}

// Number formats a single value at the printer's scale
func (p *Printer) Number(n float64, roundIfInt bool) string {
	return Round(n, p.scale, roundIfInt)
}

// Vector formats opinions as "(a, b, c)"; integral values drop their decimals
func (p *Printer) Vector(opinions []float64) string {
	parts := make([]string, len(opinions))
	for i, o := range opinions {
		parts[i] = p.Number(o, true)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Matrix renders rows as a right-aligned table. Every value keeps all
// decimals so columns line up.
func (p *Printer) Matrix(rows [][]float64) (string, error) {
	data := make(pterm.TableData, len(rows))
	for i, row := range rows {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = p.Number(v, false)
		}
		data[i] = cells
	}
	if len(data) == 0 {
		return "", nil
	}
	out, err := pterm.DefaultTable.
		WithData(data).
		WithSeparator("  ").
		WithRightAlignment().
		Srender()
	if err != nil {
		return "", fmt.Errorf("render matrix: %w", err)
	}
	return strings.TrimRight(out, "\n"), nil
}

// PrintMatrix writes a labelled matrix
func (p *Printer) PrintMatrix(label string, rows [][]float64) error {
	table, err := p.Matrix(rows)
	if err != nil {
		return err
	}
	pterm.Fprintln(p.w, pterm.Bold.Sprint(label+":"))
	pterm.Fprintln(p.w, table)
	return nil
}

// PrintVector writes "label: (a, b, c)"
func (p *Printer) PrintVector(label string, opinions []float64) {
	pterm.Fprintln(p.w, label+": "+p.Vector(opinions))
}

// PrintRun writes the complete report of a run in the order the run
// produced it: the baseline experiment first, then the influenced one and its
// outcome. Runs without a report print their status and error.
func (p *Printer) PrintRun(run *models.Run) error {
	if run == nil {
		return nil
	}
	rep := run.Report
	if rep == nil {
		pterm.Fprintln(p.w, fmt.Sprintf("Run %s %s", run.ID, run.Status))
		if run.Error != "" {
			pterm.Fprintln(p.w, pterm.FgRed.Sprint("Error: "+run.Error))
		}
		return nil
	}

	if err := p.PrintMatrix("Randomly generated trust matrix", rep.TrustMatrix); err != nil {
		return err
	}
	pterm.Fprintln(p.w)

	if len(rep.ResultMatrix) > 0 {
		if err := p.PrintMatrix("Resulting trust matrix", rep.ResultMatrix); err != nil {
			return err
		}
		pterm.Fprintln(p.w)
	}

	pterm.Fprintln(p.w, "Randomly generated agent opinions (no influence):")
	p.PrintVector("X(0)", rep.Baseline.Initial)
	pterm.Fprintln(p.w, "Resulting agent opinions (no influence):")
	p.PrintVector(iterationLabel(rep.Baseline.Iterations), rep.Baseline.Final)
	pterm.Fprintln(p.w)

	for _, pl := range rep.Players {
		pterm.Fprintln(p.w, fmt.Sprintf("Agents of player %d (opinion %s): %s",
			pl.ID, p.Number(pl.Opinion, true), idList(pl.Agents)))
	}
	if len(rep.Escaped) > 0 {
		pterm.Fprintln(p.w, "Agents outside any influence: "+idList(rep.Escaped))
	}
	pterm.Fprintln(p.w, "Agent opinions under influence:")
	p.PrintVector("X(0)", rep.Influenced.Initial)
	pterm.Fprintln(p.w, "Resulting agent opinions under influence:")
	p.PrintVector(iterationLabel(rep.Influenced.Iterations), rep.Influenced.Final)

	for _, pl := range rep.Players {
		if pl.Winner {
			pterm.Fprintln(p.w, pterm.FgGreen.Sprint(p.outcomeLine("Winner", pl)))
		}
	}
	for _, pl := range rep.Players {
		if !pl.Winner {
			pterm.Fprintln(p.w, pterm.FgRed.Sprint(p.outcomeLine("Loser", pl)))
		}
	}
	return nil
}

func (p *Printer) outcomeLine(kind string, pl models.PlayerSummary) string {
	return fmt.Sprintf("%s: player %d (gap to formed opinion %s)", kind, pl.ID, p.Number(pl.Gap, true))
}

func iterationLabel(iterations int) string {
	return "X(" + strconv.Itoa(iterations) + ")"
}

func idList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
