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

type DataSources struct {
	cmdutil.BackendFlags

	asset string
}

func (c *DataSources) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("data-sources", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)
	fset.StringVar(&c.asset, "asset", "", "print data sources of this asset only")
	return "data-sources", fset, cli.CmdFunc(c.run)
}

func (c *DataSources) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	opts, err := client.GetDataSources(ctx)
	if err != nil {
		return fmt.Errorf("could not fetch data sources: %w", err)
	}

	stdout := cli.Stdout(ctx)
	for _, asset := range view.NewDataSourceChoices(opts, "").Assets {
		if len(c.asset) != 0 && c.asset != asset.Value {
			continue
		}
		choices := view.NewDataSourceChoices(opts, asset.Value)
		for _, ds := range choices.DataSources {
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", asset.Value, ds.Label, ds.Value)
		}
	}
	return nil
}

func (c *DataSources) Purpose() string {
	return "Prints the price data sources for benchmark runs"
}
