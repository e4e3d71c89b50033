// Command artemis runs a TOML-configured forensic acquisition: parse
// the configured artifacts and hand the serialized records to the
// configured output sink.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/puffycid/artemis-core/internal/collect"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "artemis",
		Usage: "forensic artifact acquisition engine",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log at debug level",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "acquire",
				Usage:     "run an acquisition against a TOML configuration",
				ArgsUsage: "<config.toml>",
				Action:    acquireCommand,
			},
			{
				Name:   "list",
				Usage:  "list the built-in artifact names this binary can collect",
				Action: listCommand,
			},
		},
		Before: func(c *cli.Context) error {
			level := zerolog.InfoLevel
			if c.Bool("verbose") {
				level = zerolog.DebugLevel
			}
			log.Logger = log.Logger.Level(level)
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func acquireCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("usage: artemis acquire <config.toml>", 1)
	}
	path := c.Args().First()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("reading config: %v", err), 1)
	}

	cfg, err := collect.LoadConfig(raw)
	if err != nil {
		return cli.Exit(fmt.Sprintf("loading config: %v", err), 1)
	}

	log.Info().Str("config", path).Int("artifacts", len(cfg.Artifacts)).Msg("starting acquisition")
	if err := collect.Run(context.Background(), cfg, nil); err != nil {
		return cli.Exit(fmt.Sprintf("acquisition aborted: %v", err), 1)
	}
	log.Info().Msg("acquisition complete")
	return nil
}

func listCommand(c *cli.Context) error {
	for _, name := range collect.Names() {
		fmt.Println(name)
	}
	return nil
}
