package main

import (
	"github.com/urfave/cli/v2"

	"github.com/csheth/mythchaser/internal/config"
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "classification service base URL (default http://localhost:8000)",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to a YAML config file",
			EnvVars: []string{config.EnvConfig},
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "write JSON logs to this file",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log at debug level",
		},
		&cli.BoolFlag{
			Name:  "no-alt-screen",
			Usage: "disable the alternate screen buffer",
		},
		&cli.StringFlag{
			Name:  "drop-dir",
			Usage: "watch this folder and attach files dropped into it",
		},
		&cli.StringFlag{
			Name:  "claim-file",
			Usage: "load the claim text from a .txt, .md, or .pdf file",
		},
		&cli.StringFlag{
			Name:  "history-file",
			Usage: "append completed checks to this JSON file",
		},
		&cli.IntFlag{
			Name:  "history-size",
			Usage: "how many recent checks to keep in the session history",
		},
		&cli.DurationFlag{
			Name:  "request-timeout",
			Usage: "give up on a check after this long (default: no limit)",
		},
	}
}

// flagConfig collects the settings given on the command line.
func flagConfig(c *cli.Context) config.Config {
	return config.Config{
		Endpoint:       c.String("endpoint"),
		RequestTimeout: config.Duration{Duration: c.Duration("request-timeout")},
		LogFile:        c.String("log-file"),
		Debug:          c.Bool("debug"),
		DropDir:        c.String("drop-dir"),
		HistoryFile:    c.String("history-file"),
		HistorySize:    c.Int("history-size"),
	}
}

func resolveConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Resolve(c.String("config"), flagConfig(c))
	if err != nil {
		return config.Config{}, cli.Exit(err.Error(), 1)
	}
	return cfg, nil
}
