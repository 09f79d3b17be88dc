// Copyright (c) 2025 BVK Chaitanya

package application

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type LogEvents struct {
	cmdutil.BackendFlags
}

func (c *LogEvents) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("log-events", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	return "log-events", fset, cli.CmdFunc(c.run)
}

func (c *LogEvents) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (application-id) argument")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	events, err := client.GetApplicationLogEvents(ctx, args[0])
	if err != nil {
		return fmt.Errorf("could not fetch log events: %w", err)
	}
	return view.WriteLogEventsTable(cli.Stdout(ctx), view.LogEventRows(events))
}

func (c *LogEvents) Purpose() string {
	return "Prints the log events of an application"
}
