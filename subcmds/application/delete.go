// Copyright (c) 2025 BVK Chaitanya

package application

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Delete struct {
	cmdutil.BackendFlags
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	return "delete", fset, cli.CmdFunc(c.run)
}

func (c *Delete) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (application-id) argument")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	if err := client.DeleteApplication(ctx, args[0]); err != nil {
		return fmt.Errorf("could not delete application: %w", err)
	}
	return nil
}

func (c *Delete) Purpose() string {
	return "Deletes a live trading application"
}
