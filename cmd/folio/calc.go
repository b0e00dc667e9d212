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

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/services/twr"
)

type calcCmd struct {
	inputFlags
	asJSON bool
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "computes the time-weighted return of a cash-flow history" }
func (*calcCmd) Usage() string {
	return `folio calc [-in <file.json>] [-date YYYY-MM-DD] [-balance N] [date,amount,balance_after ...]

  Computes the time-weighted return, simple return and total gain.
  Each positional argument is one cash flow: its date, the signed amount
  (positive deposit, negative withdrawal) and the account value right after it.

Usage Examples:
$ folio calc -date 2024-01-01 -balance 1000 2024-02-01,100,1150 2024-03-01,-50,1130

`
}

func (p *calcCmd) SetFlags(f *flag.FlagSet) {
	p.inputFlags.register(f)
	f.BoolVar(&p.asJSON, "json", false, "Print the full report as JSON")
}

func (p *calcCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := p.load(os.Stdin, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	svc := twr.NewService(common.NewLogger(*logLevel))
	report, err := svc.Calculate(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	printReport(os.Stdout, report)
	return subcommands.ExitSuccess
}

func printReport(w io.Writer, report *twr.Report) {
	fmt.Fprintf(w, "Time-Weighted Return: %s\n", report.Display.TWR)
	fmt.Fprintf(w, "Simple Return:        %s\n", report.Display.SimpleReturn)
	fmt.Fprintf(w, "Total Gain:           %s\n", report.Display.TotalGain)
	fmt.Fprintf(w, "End Balance:          %s\n", report.Display.EndBalance)

	if len(report.Result.Periods) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tFROM\tTO\tSTART\tEND\tFLOW\tRETURN")
		for i, period := range report.Result.Periods {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
				i+1,
				period.StartDate.Format(twr.DateLayout),
				period.EndDate.Format(twr.DateLayout),
				common.FormatMoney(period.StartBalance),
				common.FormatMoney(period.EndBalance),
				common.FormatMoney(period.CashFlow),
				common.FormatSignedPercent(period.Return*100),
			)
		}
		tw.Flush()
	}

	for _, s := range report.Skipped {
		fmt.Fprintf(w, "Skipped row %d: %s\n", s.Row, s.Reason)
	}
}
