package ical

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/soh335/ical"

	"github.com/nsmac008/landmark-ics/calendar"
	"github.com/nsmac008/landmark-ics/calendar/landmark"
)

const (
	prodID          = "-//landmark-ics//EN"
	calName         = "Landmark Theatre"
	timezone        = "America/New_York"
	refreshInterval = "PT1H"
	sourceURL       = "https://landmarktheatre.org/events/calendar/"

	// summaryPrefix marks the venue in subscribers' merged calendar views.
	summaryPrefix = "Landmark: "
)

// Build assembles the published VCALENDAR from a set of events, sorted by
// start time.
func Build(events calendar.Events, version string) *ical.VCalendar {
	cal := ical.NewBasicVCalendar()
	cal.PRODID = prodID
	if version != "" {
		cal.PRODID = fmt.Sprintf("%s/%s", prodID, version)
	}
	cal.VERSION = "2.0"
	cal.URL = sourceURL

	cal.NAME = calName
	cal.X_WR_CALNAME = calName
	description := fmt.Sprintf("Events at the %s", calName)
	cal.DESCRIPTION = description
	cal.X_WR_CALDESC = description

	cal.TIMEZONE_ID = timezone
	cal.X_WR_TIMEZONE = timezone

	cal.REFRESH_INTERVAL = refreshInterval
	cal.X_PUBLISHED_TTL = refreshInterval

	cal.CALSCALE = "GREGORIAN"
	cal.METHOD = "PUBLISH"

	events.SortByStart()
	for _, ev := range events {
		cal.VComponent = append(cal.VComponent, toVEvent(ev))
	}
	return cal
}

func toVEvent(ev calendar.Event) *ical.VEvent {
	stamp := ev.LastModified
	if stamp.IsZero() {
		stamp = time.Now().UTC()
	}
	return &ical.VEvent{
		UID:         fmt.Sprintf("%d@%s", ev.CalID, landmark.UIDDomain),
		DTSTAMP:     stamp,
		DTSTART:     ev.StartTime,
		DTEND:       ev.End(),
		SUMMARY:     summaryPrefix + ev.Title,
		DESCRIPTION: eventDescription(ev),
		TZID:        timezone,
		AllDay:      ev.Duration > 24*time.Hour,
	}
}

// eventDescription folds the detail URL into the description, the VEVENT
// encoder has no URL property.
func eventDescription(ev calendar.Event) string {
	parts := make([]string, 0, 2)
	if ev.Description != "" {
		parts = append(parts, ev.Description)
	}
	if ev.URL != "" {
		parts = append(parts, ev.URL)
	}
	return strings.Join(parts, "\n")
}

// Encode writes the feed for the passed events to w.
func Encode(w io.Writer, events calendar.Events, version string) error {
	return Build(events, version).Encode(w)
}
