package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/nsmac008/landmark-ics/internal/cmd"
)

func main() {
	ctl := cli.App{
		Name:    "landmarkctl",
		Version: cmd.AppVersion,
		Usage:   "Scrapes the Landmark Theatre calendar and publishes it as an iCalendar feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "The path for storage",
				Value: cmd.DataPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Output debug messages",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Don't persist or post anything",
			},
		},
		Commands: []cli.Command{
			cmd.FetchCmd,
			cmd.ExportCmd,
			cmd.AuthorizeCmd,
			cmd.PostCmd,
		},
	}

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
