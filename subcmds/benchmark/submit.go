// Copyright (c) 2025 BVK Chaitanya

package benchmark

import (
	"context"
	"flag"
	"fmt"
	"net/url"

	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/bvk/tradedash/view"
	"github.com/visvasity/cli"
)

type Submit struct {
	cmdutil.BackendFlags

	fields map[string]*string
}

func (c *Submit) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("submit", flag.ContinueOnError)
	c.BackendFlags.SetFlags(fset)

	defaults := view.BenchmarkFormValues(view.DefaultBenchmarkInput())
	c.fields = make(map[string]*string)
	for _, name := range view.BenchmarkFormFields {
		c.fields[name] = fset.String(name, defaults.Get(name), fmt.Sprintf("benchmark input %q", name))
	}
	return "submit", fset, cli.CmdFunc(c.run)
}

func (c *Submit) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}

	values := make(url.Values)
	for name, v := range c.fields {
		values.Set(name, *v)
	}
	input, err := view.ParseBenchmarkForm(values)
	if err != nil {
		return fmt.Errorf("invalid benchmark input: %w", err)
	}

	client, err := c.BackendFlags.Client()
	if err != nil {
		return err
	}
	b, err := client.CreateBenchmark(ctx, input)
	if err != nil {
		return fmt.Errorf("could not submit benchmark: %w", err)
	}
	fmt.Fprintf(cli.Stdout(ctx), "%s\n", b.ID)
	return nil
}

func (c *Submit) Purpose() string {
	return "Starts a new benchmark run"
}

func (c *Submit) Description() string {
	return `
Command "submit" starts a benchmark run on the backend with the strategy
options given by the flags and prints the new benchmark id. Options that are
not given keep their default values. Use "data-sources" command to list the
valid -asset and -dataSourceFilePath values.
`
}
