// Copyright (c) 2025 BVK Chaitanya

package application

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bvk/tradedash/page"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type Show struct {
	cmdutil.BackendFlags
	cmdutil.IntervalFlags

	usd    bool
	asJSON bool
}

func (c *Show) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("show", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	c.IntervalFlags.SetFlags(fset)
	fset.BoolVar(&c.usd, "usd", false, "print amounts in USD instead of EUR")
	fset.BoolVar(&c.asJSON, "json", false, "print the applications page view as json")
	return "show", fset, cli.CmdFunc(c.run)
}

func (c *Show) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (application-id) argument")
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
	p, err := page.NewApplicationsPage(client, nil)
	if err != nil {
		return err
	}
	defer p.Close()

	if err := p.Sync(ctx); err != nil {
		return fmt.Errorf("could not fetch applications: %w", err)
	}
	if !p.Has(id) {
		return fmt.Errorf("application %q not found: %w", id, os.ErrNotExist)
	}
	p.Select(id)
	if interval != nil {
		if err := p.SetInterval(interval); err != nil {
			return err
		}
	}
	if c.usd {
		p.ToggleCurrency()
	}
	if err := p.Sync(ctx); err != nil {
		log.Printf("could not fetch all application values (ignored): %v", err)
	}

	v := p.Snapshot()
	stdout := cli.Stdout(ctx)
	if c.asJSON {
		return cmdutil.PrintJSON(stdout, v)
	}
	s := v.Selected
	if s == nil {
		return fmt.Errorf("could not fetch application %q details", id)
	}
	fmt.Fprintf(stdout, "ID: %s\n", s.Application.ID)
	fmt.Fprintf(stdout, "Asset: %s\n", s.Application.Asset)
	if len(s.Broker) != 0 {
		fmt.Fprintf(stdout, "Broker: %s\n", s.Broker)
		fmt.Fprintf(stdout, "Current amount: %s\n", s.CurrentAmount)
	}
	fmt.Fprintf(stdout, "Current price: %s\n", s.CurrentPrice)
	fmt.Fprintf(stdout, "Average: %v\n", s.Average)
	fmt.Fprintf(stdout, "Current change: %v\n", s.CurrentChange)
	fmt.Fprintf(stdout, "Standard deviation: %v\n", s.StandardDeviation)
	fmt.Fprintf(stdout, "Bollinger bands: %v to %v\n", s.LowerBollingerBand, s.HigherBollingerBand)
	fmt.Fprintf(stdout, "Interval: %s to %s\n", v.Interval.StartDate, v.Interval.EndDate)
	for _, e := range v.Errors {
		fmt.Fprintf(stdout, "Error: %s\n", e)
	}
	fmt.Fprintln(stdout)

	if err := view.WriteAssetsTable(stdout, v.Assets); err != nil {
		return err
	}
	fmt.Fprintln(stdout)
	return view.WriteLogEventsTable(stdout, v.LogEvents)
}

func (c *Show) Purpose() string {
	return "Prints the details of a live trading application"
}

func (c *Show) Description() string {
	return `
Command "show" prints the account, the last execution state, the asset lots
and the log events of an application. Amounts are printed in EUR unless -usd
flag is given.
`
}
