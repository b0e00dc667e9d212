package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bobmcallan/folio/internal/services/twr"
)

// inputFlags are shared by the calculator commands.
type inputFlags struct {
	inputFile    string
	startDate    string
	startBalance string
}

func (p *inputFlags) register(f *flag.FlagSet) {
	f.StringVar(&p.inputFile, "in", "", "JSON input file with start_date, start_balance and flows ('-' for stdin)")
	f.StringVar(&p.startDate, "date", "", "Start date (YYYY-MM-DD)")
	f.StringVar(&p.startBalance, "balance", "", "Starting balance")
}

// load builds the calculator input from -in, then applies -date, -balance and
// any positional "date,amount,balance_after" flow arguments on top.
func (p *inputFlags) load(stdin io.Reader, args []string) (twr.CalculatorInput, error) {
	var in twr.CalculatorInput

	if p.inputFile != "" {
		var r io.Reader = stdin
		if p.inputFile != "-" {
			f, err := os.Open(p.inputFile)
			if err != nil {
				return in, fmt.Errorf("could not open input: %w", err)
			}
			defer f.Close()
			r = f
		}
		if err := json.NewDecoder(r).Decode(&in); err != nil {
			return in, fmt.Errorf("could not decode input: %w", err)
		}
	}

	if p.startDate != "" {
		in.StartDate = p.startDate
	}
	if p.startBalance != "" {
		in.StartBalance = p.startBalance
	}
	in.Flows = append(in.Flows, parseFlowArgs(args)...)
	return in, nil
}

// parseFlowArgs reads each argument as "date,amount,balance_after". Missing
// fields are left empty for the calculator to report.
func parseFlowArgs(args []string) []twr.FlowInput {
	flows := make([]twr.FlowInput, 0, len(args))
	for _, arg := range args {
		parts := strings.Split(arg, ",")
		for len(parts) < 3 {
			parts = append(parts, "")
		}
		flows = append(flows, twr.FlowInput{
			Date:         strings.TrimSpace(parts[0]),
			Amount:       strings.TrimSpace(parts[1]),
			BalanceAfter: strings.TrimSpace(parts[2]),
		})
	}
	return flows
}
