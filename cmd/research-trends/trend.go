// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/pdiddy/research-trends/internal/esearch"
	"github.com/pdiddy/research-trends/internal/scale"
	"github.com/pdiddy/research-trends/internal/schedule"
	"github.com/pdiddy/research-trends/internal/trend"
)

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Count papers per year for a search term and chart them",
	Long: `Trend validates the term and year range, then issues one count query per
year from --from through --to. Each result is folded into the series in year
order as it arrives. Failed years are reported as warnings and left out of
the chart.

Years must lie between 0 and 2021 and --from must be before --to.`,
	Example: `  research-trends trend --term "lung cancer" --from 2000 --to 2010
  research-trends trend --term cancer --from 1990 --to 2020 --json
  research-trends trend --term malaria --from 2000 --to 2005 --watch --out malaria.yaml`,
	RunE: runTrend,
}

func init() {
	trendCmd.Flags().String("term", "", "search term")
	trendCmd.Flags().String("from", "", "first publication year")
	trendCmd.Flags().String("to", "", "last publication year")
	trendCmd.Flags().Bool("json", false, "output the final report as JSON")
	trendCmd.Flags().String("out", "", "also write the final report to this YAML file")
	trendCmd.Flags().Bool("watch", false, "redraw the chart after every result")
	trendCmd.Flags().Int("width", trend.DefaultChartWidth, "chart bar area width in cells")

	rootCmd.AddCommand(trendCmd)
}

func runTrend(cmd *cobra.Command, args []string) error {
	term, _ := cmd.Flags().GetString("term")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	asJSON, _ := cmd.Flags().GetBool("json")
	outPath, _ := cmd.Flags().GetString("out")
	watch, _ := cmd.Flags().GetBool("watch")
	width, _ := cmd.Flags().GetInt("width")

	cfg := loadConfig()
	palette, err := scale.PaletteFor(cfg.Trend.Palette)
	if err != nil {
		return err
	}

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	sched := schedule.New(esearch.NewClient(cfg.ESearch), cfg.Trend)
	sched.OnError = func(qe *schedule.QueryError) {
		fmt.Fprintf(stderr, "warning: %v\n", qe)
	}

	session := trend.NewSession(sched, palette)
	session.OnUpdate = progressPrinter(stdout, stderr, palette, width, watch && !asJSON)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	run, err := session.Submit(ctx, from, to, term)
	if err != nil {
		return err
	}
	fmt.Fprintf(stderr, "Searching %q in %s, %d-%d (%d queries)\n",
		run.Term(), cfg.ESearch.Database, run.Range().Start, run.Range().Finish, run.Range().Len())

	rep := run.Wait()

	if asJSON {
		if err := trend.FormatJSON(rep, stdout); err != nil {
			return err
		}
	} else {
		if watch {
			fmt.Fprintln(stdout)
		}
		trend.FormatReport(stdout, rep, palette, width)
	}

	if outPath != "" {
		if err := trend.WriteReportYAML(outPath, rep); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Wrote %s\n", outPath)
	}

	if ctx.Err() != nil {
		return fmt.Errorf("interrupted after %d of %d years", len(rep.Series), rep.Expected)
	}
	return nil
}

// progressPrinter returns the session update hook. It always reports progress
// to stderr and, when redraw is set, draws the partial chart to stdout.
func progressPrinter(stdout, stderr io.Writer, palette scale.Palette, width int, redraw bool) func(trend.Update) {
	return func(u trend.Update) {
		fmt.Fprintf(stderr, "  received %d/%d\n", u.Received, u.Expected)
		if redraw {
			fmt.Fprintln(stdout)
			trend.FormatChart(stdout, u.Term, u.Range, u.Series, palette, width)
		}
	}
}
