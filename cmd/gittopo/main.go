package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/kurobon/gittopo/internal/config"
	"github.com/kurobon/gittopo/internal/topo"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "gittopo"
	app.Usage = "Print the commits of the enclosing git repository in topological order"
	app.Description = `Every commit reachable from a local branch is printed child before parent,
followed by the branches pointing at it. Lines of the form "<hashes>=" and
"=<hashes>" mark places where consecutive commits are not parent-linked.`
	app.HideHelpCommand = true

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "dir",
			Aliases: []string{"C"},
			Usage:   "Start the repository search in `DIR` instead of the working directory",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log pipeline stages to stderr",
		},
	}
	app.Action = runTopo
	return app
}

func runTopo(c *cli.Context) error {
	if c.Args().Present() {
		return fmt.Errorf("unexpected argument %q", c.Args().First())
	}

	cfg := config.DefaultConfig()
	if c.IsSet("dir") {
		cfg.StartDir = c.String("dir")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return topo.Run(ctx, cfg, os.Stdout)
}
