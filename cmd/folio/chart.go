package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/chart"
	"github.com/bobmcallan/folio/internal/services/twr"
)

type chartCmd struct {
	inputFlags
	kind   string
	view   string
	outDir string
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "renders the returns series or a calculator balance history as PNG" }
func (*chartCmd) Usage() string {
	return `folio chart [-kind series|balance] [-view cumulative|period] [-o chart.png] [input flags] [date,amount,balance_after ...]

  -kind series renders the configured returns series.
  -kind balance renders the balance after each flow of a calculator input.

`
}

func (p *chartCmd) SetFlags(f *flag.FlagSet) {
	p.inputFlags.register(f)
	f.StringVar(&p.kind, "kind", "series", "Chart kind: series or balance")
	f.StringVar(&p.view, "view", string(models.SeriesViewCumulative), "Series view: cumulative or period")
	f.StringVar(&p.outDir, "dir", ".", "Output directory")
	f.StringVar(&p.output, "o", "chart.png", "Output file name")
}

func (p *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var png []byte
	var err error

	switch p.kind {
	case "series":
		png, err = p.renderSeries(ctx)
	case "balance":
		png, err = p.renderBalance(ctx, f.Args())
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown chart kind %q\n", p.kind)
		return subcommands.ExitUsageError
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := writeOutput(ctx, common.NewLogger(*logLevel), p.outDir, p.output, bytes.NewBuffer(png)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func (p *chartCmd) renderSeries(ctx context.Context) ([]byte, error) {
	view, err := models.ParseSeriesView(p.view)
	if err != nil {
		return nil, err
	}
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return chart.RenderSeriesChart(a.SeriesService.Load(ctx), view)
}

func (p *chartCmd) renderBalance(ctx context.Context, args []string) ([]byte, error) {
	in, err := p.load(os.Stdin, args)
	if err != nil {
		return nil, err
	}
	report, err := twr.NewService(common.NewLogger(*logLevel)).Calculate(ctx, in)
	if err != nil {
		return nil, err
	}
	return chart.RenderBalanceChart(report.Points)
}
