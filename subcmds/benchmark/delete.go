// Copyright (c) 2025 BVK Chaitanya

package benchmark

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
	if len(args) == 0 {
		return fmt.Errorf("this command takes one or more (benchmark-id) arguments")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	for _, id := range args {
		if err := client.DeleteBenchmark(ctx, id); err != nil {
			return fmt.Errorf("could not delete benchmark %q: %w", id, err)
		}
	}
	return nil
}

func (c *Delete) Purpose() string {
	return "Deletes benchmark runs"
}
