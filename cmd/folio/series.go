package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/series"
)

type seriesCmd struct {
	view   string
	asJSON bool
}

func (*seriesCmd) Name() string     { return "series" }
func (*seriesCmd) Synopsis() string { return "prints the monthly portfolio returns series" }
func (*seriesCmd) Usage() string {
	return `folio series [-view cumulative|period] [-json]

  Loads the configured returns CSV (falling back to sample data when it is
  unavailable) and prints each month with summary statistics.

`
}

func (p *seriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.view, "view", string(models.SeriesViewCumulative), "Series view: cumulative or period")
	f.BoolVar(&p.asJSON, "json", false, "Print series and stats as JSON")
}

func (p *seriesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	view, err := models.ParseSeriesView(p.view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	a, err := newApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	s := a.SeriesService.Load(ctx)
	stats := series.Stats(s, view)

	if p.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(struct {
			Series models.PortfolioSeries `json:"series"`
			Stats  models.SeriesStats     `json:"stats"`
		}{s, stats})
		return subcommands.ExitSuccess
	}

	printSeries(os.Stdout, s, view, stats)
	return subcommands.ExitSuccess
}

// newApp builds the shared application core from the -config flag. The
// -log-level flag wins over the config file.
func newApp() (*app.App, error) {
	os.Setenv("FOLIO_LOG_LEVEL", *logLevel)
	return app.NewApp(*configPath)
}

func printSeries(w io.Writer, s models.PortfolioSeries, view models.SeriesView, stats models.SeriesStats) {
	fmt.Fprintln(w, view.Label())
	if s.Fallback {
		fmt.Fprintln(w, "(source unavailable, showing sample data)")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	values := s.Values(view)
	for i, pt := range s.Points {
		fmt.Fprintf(tw, "%s\t%s\n", pt.Month, common.FormatSignedPercent(values[i]))
	}
	tw.Flush()

	fmt.Fprintln(w)
	if view == models.SeriesViewPeriod {
		fmt.Fprintf(w, "Best: %s  Worst: %s  Average: %s\n",
			common.FormatSignedPercent(stats.Best),
			common.FormatSignedPercent(stats.Worst),
			common.FormatSignedPercent(stats.Average))
		return
	}
	fmt.Fprintf(w, "Current: %s  (%d months)\n", common.FormatSignedPercent(stats.Current), stats.Months)
}
