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

type Export struct {
	cmdutil.DBFlags

	outfile string
}

func (c *Export) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("export", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	fset.StringVar(&c.outfile, "output", "", "Output file name for the exported data.")
	return "export", fset, cli.CmdFunc(c.run)
}

func (c *Export) run(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("this command takes no arguments")
	}
	if len(c.outfile) == 0 {
		return fmt.Errorf("output file name must be specified")
	}

	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	fp, err := os.OpenFile(c.outfile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("could not open %q: %w", c.outfile, err)
	}
	defer fp.Close()

	bw := bufio.NewWriter(fp)
	n, err := store.New(db).Export(ctx, bw)
	if err != nil {
		return fmt.Errorf("could not export snapshots: %w", err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("could not flush the bufio writer: %w", err)
	}
	if err := fp.Sync(); err != nil {
		return fmt.Errorf("could not sync the file: %w", err)
	}
	log.Printf("exported %d snapshots to %s", n, c.outfile)
	return nil
}

func (c *Export) Purpose() string {
	return "Saves all snapshots into a file"
}
