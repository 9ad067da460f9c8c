package cmd

import (
	"fmt"
	"path"
	"time"

	"github.com/urfave/cli"

	"github.com/nsmac008/landmark-ics/calendar"
	"github.com/nsmac008/landmark-ics/calendar/landmark"
	"github.com/nsmac008/landmark-ics/storage/boltdb"
)

var FetchCmd = cli.Command{
	Name:  "fetch",
	Usage: "Fetches calendar events",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "calendar",
			Usage: "Which calendars to load",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Don't persist events",
		},
		&cli.StringFlag{
			Name:  "start",
			Usage: "Date at which to start",
			Value: defaultStartTime.Format("2006-01-02"),
		},
		&cli.DurationFlag{
			Name:  "end",
			Usage: "Date interval to keep",
			Value: ResolutionYearish,
		},
	},
	Action: fetchCalendars,
}

type fetcher struct {
	debug bool
	Types []string
	err   logFn
	log   logFn
}

func New(debug bool, types ...string) (*fetcher, error) {
	return &fetcher{
		debug: debug,
		Types: calendar.GetTypes(types),
		log:   info,
		err:   errFn,
	}, nil
}

// Load scrapes the venue's listing page. The page is not paginated, one
// request returns everything currently advertised.
func (f *fetcher) Load(startDate time.Time) (calendar.Events, error) {
	events := make(calendar.Events, 0)
	for _, typ := range f.Types {
		u, err := landmark.GetCalendarURL(typ)
		if err != nil {
			f.err("unable to get calendar URI for %s: %s", typ, err)
			continue
		}
		if f.debug {
			f.log("Loading [%s]: %s", typ, u)
		}
		ev, err := landmark.LoadEvents(u, startDate)
		if err != nil {
			f.err("Unable to parse page for type %s: %s", typ, err)
			continue
		}
		events = append(events, ev...)
		if f.debug {
			f.log("%d events", len(ev))
		}
	}
	return events, nil
}

func fetchCalendars(c *cli.Context) error {
	types := c.StringSlice("calendar")
	debug := c.Bool("debug") || c.GlobalBool("debug")
	dryRun := c.Bool("dry-run") || c.GlobalBool("dry-run")

	start := parseStartDate(c.String("start"))
	duration := c.Duration("end")

	f, err := New(debug, types...)
	if err != nil {
		return err
	}
	if len(f.Types) == 0 {
		return fmt.Errorf("no valid calendars have been passed: %s", types)
	}

	events, err := f.Load(start)
	if err != nil {
		return err
	}
	events = eventsInWindow(events, start, duration)
	if len(events) == 0 {
		return fmt.Errorf("no events parsed")
	}

	for _, e := range events {
		if debug {
			f.log("%s", e)
			if e.Description != "" {
				f.log("%v", e.Description)
			}
		}
	}
	if dryRun {
		info("dry run, skipping persisting %d events", len(events))
		return nil
	}

	st := boltdb.New(boltdb.Config{
		Path:  path.Join(c.GlobalString("path"), boltdb.DefaultFile),
		LogFn: debugLogFn(debug),
		ErrFn: boltdb.LoggerFn(errFn),
	})
	if err := st.SaveEvents(events); err != nil {
		return err
	}
	info("saved %d events", len(events))
	return nil
}

func debugLogFn(debug bool) boltdb.LoggerFn {
	if !debug {
		return nil
	}
	return boltdb.LoggerFn(info)
}

// eventsInWindow keeps events starting inside [start, start+d). A zero or
// negative duration disables the upper bound.
func eventsInWindow(events calendar.Events, start time.Time, d time.Duration) calendar.Events {
	kept := make(calendar.Events, 0, len(events))
	end := start.Add(d)
	for _, e := range events {
		if e.StartTime.Before(start) {
			continue
		}
		if d > 0 && !e.StartTime.Before(end) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
