// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package trend

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/pkg/types"
)

// DefaultChartWidth is the bar area width in cells.
const DefaultChartWidth = 50

const barCell = "█"

// FormatChart draws the series as horizontal colour-graded bars, one row per
// received year, followed by the count axis and legend. Colours are emitted
// only when w is a colour-capable terminal. An empty series draws the empty
// state.
func FormatChart(w io.Writer, term types.SearchTerm, rng types.YearRange, series types.OrderedSeries, palette scale.Palette, width int) {
	if width <= 0 {
		width = DefaultChartWidth
	}
	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)

	fmt.Fprintln(w, title.Render(fmt.Sprintf("Publications for %q, %d-%d", term, rng.Start, rng.Finish)))

	sc, err := scale.Derive(series, rng.Start)
	if err != nil {
		fmt.Fprintln(w, "No data.")
		return
	}

	axis := scale.Linear{DomainMax: sc.DomainMax, Extent: float64(width)}
	countWidth := len(fmt.Sprint(sc.Bands.MaxValue))
	for _, b := range scale.Bars(series, sc, palette) {
		cells := int(math.Round(axis.Scale(b.Count)))
		bar := r.NewStyle().Foreground(lipgloss.Color(b.Color)).Render(strings.Repeat(barCell, cells))
		pad := strings.Repeat(" ", width-cells)
		fmt.Fprintf(w, "%4d │%s%s %*d\n", b.Year, bar, pad, countWidth, b.Count)
	}

	fmt.Fprintf(w, "     └%s\n", strings.Repeat("─", width))
	fmt.Fprintf(w, "      0%*d\n", width-1, sc.DomainMax)

	legend := make([]string, 0, 3)
	for _, band := range []scale.Band{scale.Low, scale.Mid, scale.High} {
		legend = append(legend, r.NewStyle().Foreground(lipgloss.Color(palette.Stop(band).Hex())).Render(band.Legend()))
	}
	fmt.Fprintf(w, "%s  Y-axis: Publication Year  X-axis: Number of Papers\n", strings.Join(legend, "  "))
}

// FormatReport draws the final chart and lists failed years.
func FormatReport(w io.Writer, rep Report, palette scale.Palette, width int) {
	FormatChart(w, rep.Term, rep.Range, rep.Series, palette, width)
	if !rep.Complete {
		fmt.Fprintf(w, "\n%d of %d years received", len(rep.Series), rep.Expected)
		if len(rep.Errors) > 0 {
			fmt.Fprintf(w, " (%d failed)", len(rep.Errors))
		}
		fmt.Fprintln(w)
	}
}
