// Copyright (c) 2025 BVK Chaitanya

package benchmark

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/bvk/tradedash/page"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type Show struct {
	cmdutil.BackendFlags
	cmdutil.IntervalFlags

	table  string
	asJSON bool
}

func (c *Show) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("show", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	c.IntervalFlags.SetFlags(fset)
	fset.StringVar(&c.table, "table", string(view.AssetsTable), "table to print (assets or price-analysis)")
	fset.BoolVar(&c.asJSON, "json", false, "print the benchmark page view as json")
	return "show", fset, cli.CmdFunc(c.run)
}

func (c *Show) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (benchmark-id) argument")
	}
	tableView := view.TableView(c.table)
	if err := tableView.Check(); err != nil {
		return err
	}
	interval, err := c.IntervalFlags.Interval(time.Local)
	if err != nil {
		return err
	}

	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	p, err := page.NewBenchmarkPage(client, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Sync(ctx); err != nil {
		return fmt.Errorf("could not fetch benchmarks: %w", err)
	}
	if err := p.Select(args[0]); err != nil {
		return err
	}
	if interval != nil {
		if err := p.SetInterval(interval); err != nil {
			return err
		}
	}
	if err := p.SetTableView(tableView); err != nil {
		return err
	}
	if err := p.Sync(ctx); err != nil {
		log.Printf("could not fetch all benchmark values (ignored): %v", err)
	}

	v := p.Snapshot()
	stdout := cli.Stdout(ctx)
	if c.asJSON {
		return cmdutil.PrintJSON(stdout, v)
	}

	s := v.Selected
	fmt.Fprintf(stdout, "ID: %s\n", s.ID)
	fmt.Fprintf(stdout, "Status: %s\n", s.Status)
	fmt.Fprintf(stdout, "Asset: %s\n", s.Input.Asset)
	fmt.Fprintf(stdout, "Data source: %s\n", s.Input.DataSourceFilePath)
	fmt.Fprintf(stdout, "Initial amount: %.2f\n", s.Input.AccountInitialAmount)
	fmt.Fprintf(stdout, "Final amount: %.2f\n", s.FinalAmount)
	fmt.Fprintf(stdout, "Interval: %s to %s\n", v.Interval.StartDate, v.Interval.EndDate)
	if v.Chart != nil {
		for _, cs := range v.Chart.Series {
			fmt.Fprintf(stdout, "Series %s: %d points\n", cs.Name, len(cs.Data))
		}
	}
	fmt.Fprintln(stdout)

	switch tableView {
	case view.AssetsTable:
		return view.WriteAssetsTable(stdout, v.Assets)
	case view.PriceAnalysisTable:
		if err := view.WritePriceStatisticsTable(stdout, v.PriceStatistics); err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		return view.WritePriceAnalysisTable(stdout, v.PriceAnalysis)
	}
	return nil
}

func (c *Show) Purpose() string {
	return "Prints the results of a benchmark run"
}

func (c *Show) Description() string {
	return `
Command "show" prints the summary, the chart series sizes and a table for a
benchmark run. Buys, sells, balances and the execution state are limited to
the dates interval, which defaults to the span of the benchmark trades. Use
-start-date/-end-date or -preset to choose another interval.

The -table flag selects between the asset lots table and the price analysis
tables, which list the prices with their growth and growth-of-growth values
along with mean and standard deviation statistics.
`
}
