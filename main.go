// Copyright (c) 2023 BVK Chaitanya

package main

import (
	"context"
	"log"
	"os"

	"github.com/bvk/tradedash/envfile"
	"github.com/bvk/tradedash/subcmds"
	"github.com/bvk/tradedash/subcmds/application"
	"github.com/bvk/tradedash/subcmds/asset"
	"github.com/bvk/tradedash/subcmds/benchmark"
	"github.com/bvk/tradedash/subcmds/snapshot"
	"github.com/visvasity/cli"
)

func main() {
	if err := envfile.UpdateEnv(".tradedash.env", envfile.SearchCurrentDir(true), envfile.SearchHomeDirLast(), envfile.VariableNamePrefix("TRADEDASH_")); err != nil {
		log.Fatal(err)
	}

	benchmarkCmds := []cli.Command{
		new(benchmark.List),
		new(benchmark.Show),
		new(benchmark.Submit),
		new(benchmark.Delete),
		new(benchmark.DataSources),
	}

	applicationCmds := []cli.Command{
		new(application.List),
		new(application.Show),
		new(application.State),
		new(application.LogEvents),
		new(application.Delete),
	}

	assetCmds := []cli.Command{
		new(asset.Prices),
	}

	snapshotCmds := []cli.Command{
		new(snapshot.Save),
		new(snapshot.List),
		new(snapshot.Show),
		new(snapshot.Delete),
		new(snapshot.Export),
		new(snapshot.Import),
	}

	cmds := []cli.Command{
		new(subcmds.Serve),
		cli.NewGroup("benchmark", "View and run strategy benchmarks", benchmarkCmds...),
		cli.NewGroup("application", "View live trading applications", applicationCmds...),
		cli.NewGroup("asset", "View asset prices", assetCmds...),
		cli.NewGroup("snapshot", "Manage saved benchmark snapshots", snapshotCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
