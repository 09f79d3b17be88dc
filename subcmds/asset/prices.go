// Copyright (c) 2025 BVK Chaitanya

package asset

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/bvk/tradedash/series"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type Prices struct {
	cmdutil.BackendFlags
	cmdutil.IntervalFlags

	fillGaps   bool
	minGap     float64
	statistics bool
}

func (c *Prices) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("prices", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	c.IntervalFlags.SetFlags(fset)
	fset.BoolVar(&c.fillGaps, "fill-gaps", false, "carry prices forward over missing days")
	fset.Float64Var(&c.minGap, "min-gap-minutes", 0, "skip growth points closer than this many minutes with a small change")
	fset.BoolVar(&c.statistics, "statistics", true, "print the average and standard deviation table")
	return "prices", fset, cli.CmdFunc(c.run)
}

func (c *Prices) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (asset) argument")
	}
	if c.minGap < 0 {
		return fmt.Errorf("min gap minutes cannot be negative")
	}
	interval, err := c.IntervalFlags.Interval(time.Local)
	if err != nil {
		return err
	}
	if interval == nil {
		interval = timerange.PastWeek(time.Local)
	}
	if !interval.IsClosed() {
		return fmt.Errorf("asset prices need both start and end dates")
	}

	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	prices, err := client.GetAssetPrices(ctx, args[0], interval.Begin, interval.End)
	if err != nil {
		return fmt.Errorf("could not fetch asset prices: %w", err)
	}
	if c.fillGaps {
		prices = series.FillDatesGaps(prices)
	}
	growth := series.Derivate(prices, c.minGap)
	growthOfGrowth := series.Derivate(growth, c.minGap)

	stdout := cli.Stdout(ctx)
	if c.statistics {
		if err := view.WritePriceStatisticsTable(stdout, view.PriceStatisticsRows(prices, growth, growthOfGrowth)); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
	}
	return view.WritePriceAnalysisTable(stdout, view.PriceAnalysisRows(prices, growth, growthOfGrowth))
}

func (c *Prices) Purpose() string {
	return "Prints daily asset prices with growth analysis"
}

func (c *Prices) Description() string {
	return `
Command "prices" prints the daily prices of an asset in the dates interval
along with the growth (first derivative) and the growth of growth (second
derivative) series. Interval defaults to the past week.
`
}
