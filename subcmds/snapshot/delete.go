// Copyright (c) 2025 BVK Chaitanya

package snapshot

import (
	"context"
	"flag"
	"fmt"

	"github.com/bvk/tradedash/store"
	"github.com/bvk/tradedash/subcmds/cmdutil"
	"github.com/visvasity/cli"
)

type Delete struct {
	cmdutil.DBFlags
}

func (c *Delete) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("delete", flag.ContinueOnError)
	c.DBFlags.SetFlags(fset)
	return "delete", fset, cli.CmdFunc(c.run)
}

func (c *Delete) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("this command takes one or more (snapshot-id) arguments")
	}
	db, closer, err := c.DBFlags.GetDatabase(ctx)
	if err != nil {
		return err
	}
	defer closer()

	s := store.New(db)
	for _, id := range args {
		if err := s.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (c *Delete) Purpose() string {
	return "Deletes saved snapshots"
}
