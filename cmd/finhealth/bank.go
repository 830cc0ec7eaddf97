package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type bankSyncCmd struct {
	business int64
}

func (*bankSyncCmd) Name() string     { return "bank-sync" }
func (*bankSyncCmd) Synopsis() string { return "pull recent bank transactions into the business" }
func (*bankSyncCmd) Usage() string {
	return `finhealth bank-sync [-business <id>]

  Triggers a bank sync for the selected business and refreshes the
  dashboard so the new transactions are reflected.
`
}

func (c *bankSyncCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.business, "business", 0, "Business id (default: the selected business).")
}

func (c *bankSyncCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return usageError("%v", err)
	}
	defer a.close(ctx)

	if err := a.restore(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.selectBusiness(ctx, c.business); err != nil {
		return a.fail(err)
	}

	synced, err := a.banking.SyncBank(ctx)
	if err != nil {
		return a.fail(err)
	}
	fmt.Printf("Synced %d transactions.\n", synced)
	return subcommands.ExitSuccess
}

type reportCmd struct {
	business int64
	out      string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "download the PDF financial report" }
func (*reportCmd) Usage() string {
	return `finhealth report [-business <id>] -out <file>

  Streams the generated PDF report for the selected business to the given
  file.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.Int64Var(&c.business, "business", 0, "Business id (default: the selected business).")
	f.StringVar(&c.out, "out", "", "Output file path.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.out == "" {
		return usageError("report requires -out")
	}
	a, err := newApp()
	if err != nil {
		return usageError("%v", err)
	}
	defer a.close(ctx)

	if err := a.restore(ctx); err != nil {
		return a.fail(err)
	}
	if err := a.selectBusiness(ctx, c.business); err != nil {
		return a.fail(err)
	}

	f, err := os.Create(c.out)
	if err != nil {
		return usageError("%v", err)
	}
	defer f.Close()

	if err := a.banking.DownloadReport(ctx, f); err != nil {
		os.Remove(c.out)
		return a.fail(err)
	}
	fmt.Printf("Report written to %s.\n", c.out)
	return subcommands.ExitSuccess
}
