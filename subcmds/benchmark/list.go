// Copyright (c) 2025 BVK Chaitanya

package benchmark

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

	asJSON bool
}

func (c *List) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	fset.BoolVar(&c.asJSON, "json", false, "print the benchmark records as json")
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
	benchmarks, err := client.ListBenchmarks(ctx)
	if err != nil {
		return fmt.Errorf("could not list benchmarks: %w", err)
	}
	if c.asJSON {
		return cmdutil.PrintJSON(cli.Stdout(ctx), benchmarks)
	}
	return view.WriteBenchmarksTable(cli.Stdout(ctx), view.BenchmarkRows(benchmarks))
}

func (c *List) Purpose() string {
	return "Prints all benchmark runs"
}
