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

type List struct {
	cmdutil.BackendFlags
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	return "list", fset, cli.CmdFunc(c.run)
}

func (c *List) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	apps, err := client.ListApplications(ctx)
	if err != nil {
		return fmt.Errorf("could not list applications: %w", err)
	}
	return view.WriteApplicationsTable(cli.Stdout(ctx), view.ApplicationRows(apps))
}

func (c *List) Purpose() string {
	return "Prints all live trading applications"
}
