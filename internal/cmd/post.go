package cmd

import (
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/nsmac008/landmark-ics/calendar"
	"github.com/nsmac008/landmark-ics/internal/post"
	"github.com/nsmac008/landmark-ics/storage"
	"github.com/nsmac008/landmark-ics/storage/boltdb"
)

var PostCmd = cli.Command{
	Name:  "post",
	Usage: "Posts the day's events to the announcement account",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Output debug messages",
		},
		&cli.StringFlag{
			Name:  "date",
			Usage: "Date for which to post events",
			Value: defaultStartTime.Format("2006-01-02"),
		},
		&cli.StringSliceFlag{
			Name:  "instance",
			Usage: "Limit posting to these instances",
		},
	},
	Action: Post(ResolutionDay),
}

type PostConfig struct {
	Path       string
	DryRun     bool
	Date       time.Time
	Resolution time.Duration
	PostFns    []post.PosterFn
	infFn      logFn
	errFn      logFn
}

func stringValue(c *cli.Context, p string) string {
	for {
		if c.IsSet(p) {
			if val := c.String(p); val != "" {
				return val
			}
		}
		if c = c.Parent(); c == nil {
			break
		}
	}
	return ""
}

func stringSliceValues(c *cli.Context, p string) []string {
	for {
		if c.IsSet(p) {
			if values := c.StringSlice(p); values != nil {
				return values
			}
		}
		if c = c.Parent(); c == nil {
			break
		}
	}
	return nil
}

func urlHost(u string) string {
	uu, err := url.ParseRequestURI(u)
	if err != nil {
		return ""
	}
	return uu.Host
}

func shouldPostToInstance(instances []string, inst string) bool {
	if len(instances) == 0 {
		return true
	}
	name := urlHost(inst)
	for _, instance := range instances {
		if strings.EqualFold(urlHost(instance), name) {
			return true
		}
	}
	return false
}

func Post(resolution time.Duration) cli.ActionFunc {
	return func(c *cli.Context) error {
		conf := PostConfig{
			DryRun:     c.GlobalBool("dry-run"),
			Date:       parseStartDate(stringValue(c, "date")),
			Resolution: resolution,
			Path:       c.GlobalString("path"),
			infFn:      info,
			errFn:      errFn,
		}

		instances := stringSliceValues(c, "instance")

		if !conf.DryRun {
			creds, err := post.LoadCredentials(DataPath())
			if err != nil {
				return fmt.Errorf("unable to load credentials for the client: %w", err)
			}
			for _, cl := range creds {
				if !shouldPostToInstance(instances, cl.InstanceURL) {
					continue
				}
				conf.PostFns = append(conf.PostFns, post.ToMastodon(cl))
			}
		}
		if len(conf.PostFns) == 0 {
			conf.PostFns = append(conf.PostFns, post.ToStdout)
		}
		return LoadAndPost(conf)
	}
}

func LoadAndPost(c PostConfig) error {
	if c.Resolution == 0 {
		c.Resolution = ResolutionDay
	}

	repo := boltdb.New(boltdb.Config{
		Path:  path.Join(c.Path, boltdb.DefaultFile),
		LogFn: boltdb.LoggerFn(c.infFn),
		ErrFn: boltdb.LoggerFn(c.errFn),
	})

	events, err := repo.LoadEvents(storage.Cursor(c.Date, c.Resolution))
	if err != nil {
		return fmt.Errorf("unable to load events from storage: %w", err)
	}
	events = getEventsForTimeAndResolution(events, c.Date, c.Resolution)

	if len(events) == 0 {
		info("No events for the period: %s %s", c.Date.Format("Monday, _2 January 2006"), FormatDuration(c.Resolution))
		return nil
	}

	toPost := make(map[time.Time]calendar.Events)
	for _, ev := range events {
		toPost[ev.StartTime] = append(toPost[ev.StartTime], ev)
	}

	for _, postFn := range c.PostFns {
		if err := postFn(toPost); err != nil {
			info("Error trying to post: %s", err)
		}
	}
	return nil
}

// getEventsForTimeAndResolution keeps events starting inside the venue-local
// period [when, when+resolution). The period is anchored at the venue's
// midnight of the requested date, so an evening show belongs to its own day
// no matter what zone the date flag was parsed in.
func getEventsForTimeAndResolution(events calendar.Events, when time.Time, resolution time.Duration) calendar.Events {
	y, m, d := when.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, calendar.Timezone)
	to := from.Add(resolution)
	if days := int(resolution / ResolutionDay); days > 0 {
		// count wall-clock days, the daylight saving switch shortens one
		to = from.AddDate(0, 0, days)
	}

	period := make(calendar.Events, 0)
	for _, ev := range events {
		if !ev.StartTime.Before(from) && ev.StartTime.Before(to) {
			period = append(period, ev)
		}
	}
	return period
}

func FormatDuration(d time.Duration) string {
	label := "hour"
	val := float64(d) / float64(time.Hour)
	if d > ResolutionDay {
		label = "day"
		val = float64(d) / float64(ResolutionDay)
	}
	if d > ResolutionWeek {
		label = "week"
		val = float64(d) / float64(ResolutionWeek)
	}
	if d > ResolutionMonthish {
		label = "month"
		val = float64(d) / float64(ResolutionMonthish)
	}
	if d > ResolutionYearish {
		label = "year"
		val = float64(d) / float64(ResolutionYearish)
	}
	if val != 1.0 && val != -1.0 {
		label = label + "s"
	}
	return fmt.Sprintf("%+.2g%s", val, label)
}

const (
	ResolutionDay      = 24 * time.Hour
	ResolutionWeek     = 7 * ResolutionDay
	ResolutionMonthish = 31 * ResolutionDay
	ResolutionYearish  = 365 * ResolutionDay
)
