// Copyright (c) 2025 BVK Chaitanya

package snapshot

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Import struct {
	cmdutil.DBFlags
}

func (c *Import) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("import", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "import", fset, cli.CmdFunc(c.run)
}

func (c *Import) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("this command takes one (export-file) argument")
	}

	fp, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("could not open %q: %w", args[0], err)
	}
	defer fp.Close()

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	n, err := store.New(db).Import(ctx, bufio.NewReader(fp))
	if err != nil {
		return fmt.Errorf("could not import snapshots: %w", err)
	}
	log.Printf("imported %d snapshots from %s", n, args[0])
	return nil
}

func (c *Import) Purpose() string {
	return "Loads snapshots saved by the export command"
}

func (c *Import) Description() string {
	return `
Command "import" loads snapshots from a file created by the "export" command.
Snapshots with the same ids are overwritten.
`
}
