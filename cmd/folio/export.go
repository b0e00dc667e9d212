package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/services/twr"
	"github.com/bobmcallan/folio/internal/storage"
)

type exportCmd struct {
	inputFlags
	outDir string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "writes the calculator input as a CSV file" }
func (*exportCmd) Usage() string {
	return `folio export [-o twr-calculation.csv] [-dir .] [input flags] [date,amount,balance_after ...]

  Writes "Date,Amount,Balance After" with a Start row for the opening
  balance followed by the flows in date order. Use -o - to print to stdout.

`
}

func (p *exportCmd) SetFlags(f *flag.FlagSet) {
	p.inputFlags.register(f)
	f.StringVar(&p.outDir, "dir", ".", "Output directory")
	f.StringVar(&p.output, "o", twr.ExportFilename, "Output file name, '-' for stdout")
}

func (p *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := p.load(os.Stdin, f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := common.NewLogger(*logLevel)
	var buf bytes.Buffer
	if err := twr.NewService(logger).Export(ctx, in, &buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if p.output == "-" {
		os.Stdout.Write(buf.Bytes())
		return subcommands.ExitSuccess
	}

	if err := writeOutput(ctx, logger, p.outDir, p.output, &buf); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// writeOutput stores data under dir/name through the file blob store.
func writeOutput(ctx context.Context, logger *common.Logger, dir, name string, data *bytes.Buffer) error {
	store, err := storage.NewFileBlobStore(logger, &storage.FileBlobConfig{BasePath: dir})
	if err != nil {
		return err
	}
	if err := store.PutReader(ctx, name, data); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", name)
	return nil
}
