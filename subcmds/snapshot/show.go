// Copyright (c) 2025 BVK Chaitanya

package snapshot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type Show struct {
	cmdutil.DBFlags

	asJSON bool
}

func (c *Show) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("show", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.BoolVar(&c.asJSON, "json", false, "print the snapshot record as json")
	return "show", fset, cli.CmdFunc(c.run)
}

func (c *Show) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (snapshot-id) argument")
	}
	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	snap, err := store.New(db).Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("could not load snapshot %q: %w", args[0], err)
	}

	stdout := cli.Stdout(ctx)
	if c.asJSON {
		return cmdutil.PrintJSON(stdout, snap)
	}

	interval := snap.Interval
	if interval == nil {
		interval = new(timerange.Range)
	}
	b := snap.Benchmark
	result := series.FilterBenchmarkResultByTime(&b.Output, interval.BeginMillis(), interval.EndMillis())
	fmt.Fprintf(stdout, "ID: %s\n", snap.ID)
	fmt.Fprintf(stdout, "Name: %s\n", snap.Name)
	fmt.Fprintf(stdout, "Benchmark: %s (%s)\n", b.ID, b.Input.DataSourceFilePath)
	fmt.Fprintf(stdout, "Interval: %s\n", interval)
	fmt.Fprintf(stdout, "Final amount: %.2f\n", b.Output.FinalAmount)
	fmt.Fprintf(stdout, "Buys: %d Sells: %d Balances: %d\n", len(result.Buys), len(result.Sells), len(result.Balances))
	fmt.Fprintln(stdout)

	if err := view.WriteAssetsTable(stdout, view.AssetRows(b.Output.Assets)); err != nil {
		return err
	}
	fmt.Fprintln(stdout)

	growth := series.Derivate(snap.Prices, 0)
	growthOfGrowth := series.Derivate(growth, 0)
	if err := view.WritePriceStatisticsTable(stdout, view.PriceStatisticsRows(snap.Prices, growth, growthOfGrowth)); err != nil {
		return err
	}
	if snap.State != nil {
		fmt.Fprintln(stdout)
		return view.WriteApplicationStateTable(stdout, snap.State)
	}
	return nil
}

func (c *Show) Purpose() string {
	return "Prints a saved snapshot"
}
