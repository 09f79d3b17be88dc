// Copyright (c) 2025 BVK Chaitanya

package snapshot

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/bvk/tradedash/gobs"
	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/visvasity/cli"
)

type Save struct {
	cmdutil.BackendFlags
	cmdutil.IntervalFlags
	cmdutil.DBFlags

	name string
}

func (c *Save) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("save", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	c.IntervalFlags.SetFlags(fset)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.name, "name", "", "snapshot name (default=benchmark id)")
	return "save", fset, cli.CmdFunc(c.run)
}

func (c *Save) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (benchmark-id) argument")
	}
	id := args[0]

	interval, err := c.IntervalFlags.Interval(time.Local)
	if err != nil {
		return err
	}

	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	benchmarks, err := client.ListBenchmarks(ctx)
	if err != nil {
		return fmt.Errorf("could not list benchmarks: %w", err)
	}
	i := slices.IndexFunc(benchmarks, func(b *gobs.Benchmark) bool { return b.ID == id })
	if i < 0 {
		return fmt.Errorf("benchmark %q not found: %w", id, os.ErrNotExist)
	}
	b := benchmarks[i]

	if interval == nil {
		minTime, maxTime, ok := series.Bounds(b.Output.Buys, b.Output.Sells)
		if !ok {
			return fmt.Errorf("benchmark %q has no trades; dates interval must be given", id)
		}
		interval = timerange.FromMillis(minTime, maxTime)
	}

	snap := &store.Snapshot{
		Name:      c.name,
		Benchmark: b,
		Interval:  interval,
		Prices:    []gobs.Pair{},
	}
	if interval.IsClosed() {
		if len(b.Input.Asset) != 0 {
			if snap.Prices, err = client.GetAssetPrices(ctx, b.Input.Asset, interval.Begin, interval.End); err != nil {
				return fmt.Errorf("could not fetch asset prices: %w", err)
			}
		}
		if snap.State, err = client.GetBenchmarkState(ctx, id, interval.Begin, interval.End); err != nil {
			return fmt.Errorf("could not fetch benchmark state: %w", err)
		}
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	if err := store.New(db).Save(ctx, snap); err != nil {
		return fmt.Errorf("could not save snapshot: %w", err)
	}
	fmt.Fprintf(cli.Stdout(ctx), "%s\n", snap.ID)
	return nil
}

func (c *Save) Purpose() string {
	return "Saves a benchmark run with its prices and state into the local database"
}

func (c *Save) Description() string {
	return `
Command "save" fetches a benchmark run along with the asset prices and the
execution state in a dates interval and saves them as a snapshot in the
local database. Snapshots remain available after the benchmark is deleted
from the backend. Interval defaults to the span of the benchmark trades.
`
}
