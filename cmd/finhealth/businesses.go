package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type businessesCmd struct {
	create   string
	industry string
	selectID int64
}

func (*businessesCmd) Name() string     { return "businesses" }
func (*businessesCmd) Synopsis() string { return "list, create, or select businesses" }
func (*businessesCmd) Usage() string {
	return `finhealth businesses [-create <name> [-industry <industry>]] [-select <id>]

  Without flags, lists the businesses visible to the session. -create adds
  a business; -select makes the given business the active one and refreshes
  its dashboard.
`
}

func (c *businessesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.create, "create", "", "Create a business with this name.")
	f.StringVar(&c.industry, "industry", "", "Industry of the created business.")
	f.Int64Var(&c.selectID, "select", 0, "Select the business with this id.")
}

func (c *businessesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := newApp()
	if err != nil {
		return usageError("%v", err)
	}
	defer a.close(ctx)

	if err := a.restore(ctx); err != nil {
		return a.fail(err)
	}

	if c.create != "" {
		created, err := a.businesses.Create(ctx, c.create, c.industry)
		if err != nil {
			return a.fail(err)
		}
		fmt.Printf("Created business %q (id %d).\n", created.Name, created.ID)
	}
	if c.selectID != 0 {
		if err := a.businesses.Select(ctx, c.selectID); err != nil {
			return a.fail(err)
		}
	}

	printBusinesses(a.businesses.Businesses(), a.businesses.Selected())
	return subcommands.ExitSuccess
}
