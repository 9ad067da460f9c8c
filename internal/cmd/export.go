package cmd

import (
	"fmt"
	"os"
	"path"

	"github.com/urfave/cli"

	"github.com/nsmac008/landmark-ics/ical"
	"github.com/nsmac008/landmark-ics/storage"
	"github.com/nsmac008/landmark-ics/storage/boltdb"
)

var ExportCmd = cli.Command{
	Name:  "export",
	Usage: "Writes the iCalendar file from stored events",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "output",
			Usage: "File to write the calendar to",
			Value: "calendar.ics",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Date at which to start",
			Value: defaultStartTime.Format("2006-01-02"),
		},
		&cli.DurationFlag{
			Name:  "end",
			Usage: "Date interval to export",
			Value: ResolutionYearish,
		},
	},
	Action: exportCalendar,
}

func exportCalendar(c *cli.Context) error {
	start := parseStartDate(c.String("start"))
	duration := c.Duration("end")
	output := c.String("output")

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		ErrFn: boltdb.LoggerFn(errFn),
	})
	events, err := st.LoadEvents(storage.Cursor(start, duration))
	if err != nil {
		return fmt.Errorf("unable to load events from storage: %w", err)
	}
	if len(events) == 0 {
		return fmt.Errorf("no events to export, run fetch first")
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("unable to open output file %s: %w", output, err)
	}
	defer f.Close()

	if err := ical.Encode(f, events, ""); err != nil {
		return fmt.Errorf("unable to encode calendar: %w", err)
	}
	info("Wrote %s with %d events", output, len(events))
	return nil
}
