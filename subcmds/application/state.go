// Copyright (c) 2025 BVK Chaitanya

package application

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/timerange"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type State struct {
	cmdutil.BackendFlags
	cmdutil.IntervalFlags

	last bool
}

func (c *State) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("state", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	c.IntervalFlags.SetFlags(fset)
	fset.BoolVar(&c.last, "last", false, "print only the last execution state")
	return "state", fset, cli.CmdFunc(c.run)
}

func (c *State) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (application-id) argument")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	stdout := cli.Stdout(ctx)

	if c.last {
		state, err := client.GetApplicationLastState(ctx, args[0])
		if err != nil {
			return fmt.Errorf("could not fetch last execution state: %w", err)
		}
		return cmdutil.PrintJSON(stdout, state)
	}

	interval, err := c.IntervalFlags.Interval(time.Local)
	if err != nil {
		return err
	}
	if interval == nil {
		interval = timerange.PastWeek(time.Local)
	}
	if !interval.IsClosed() {
		return fmt.Errorf("execution state needs both start and end dates")
	}
	state, err := client.GetApplicationState(ctx, args[0], interval.Begin, interval.End)
	if err != nil {
		return fmt.Errorf("could not fetch execution state: %w", err)
	}
	return view.WriteApplicationStateTable(stdout, state)
}

func (c *State) Purpose() string {
	return "Prints the execution state of an application over time"
}
