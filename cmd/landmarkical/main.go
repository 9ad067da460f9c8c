package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/nsmac008/landmark-ics/internal/cmd"
)

var version = "(unknown)"

func main() {
	ctl := cli.App{
		Name:    "landmarkical",
		Version: version,
		Usage:   "Serves the Landmark Theatre iCalendar feed",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Usage: "Set storage path",
				Value: cmd.DataPath(),
			},
		},
		Commands: []cli.Command{
			cmd.Server,
		},
	}

	if err := ctl.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
