package ical

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ics "github.com/soh335/ical"

	"github.com/nsmac008/landmark-ics/calendar"
)

var tz, _ = time.LoadLocation("America/New_York")

func sampleEvents() calendar.Events {
	first := calendar.Event{
		Title:        "Wicked",
		StartTime:    time.Date(2025, time.October, 28, 19, 30, 0, 0, tz),
		Duration:     calendar.DefaultDuration,
		LastModified: time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC),
		URL:          "https://landmarktheatre.org/event/wicked/",
		Description:  "The untold story of the witches of Oz.",
	}
	first.CalID = calendar.EventID(first.Title, first.StartTime)
	second := calendar.Event{
		Title:     "The Nutcracker",
		StartTime: time.Date(2025, time.December, 20, 19, 30, 0, 0, tz),
		Duration:  calendar.DefaultDuration,
	}
	second.CalID = calendar.EventID(second.Title, second.StartTime)
	// deliberately out of order, Build sorts
	return calendar.Events{second, first}
}

func TestBuild(t *testing.T) {
	cal := Build(sampleEvents(), "test")

	if cal.PRODID != "-//landmark-ics//EN/test" {
		t.Errorf("PRODID = %s", cal.PRODID)
	}
	if cal.X_WR_CALNAME != "Landmark Theatre" {
		t.Errorf("X_WR_CALNAME = %s", cal.X_WR_CALNAME)
	}
	if cal.X_WR_TIMEZONE != "America/New_York" {
		t.Errorf("X_WR_TIMEZONE = %s", cal.X_WR_TIMEZONE)
	}
	if len(cal.VComponent) != 2 {
		t.Fatalf("VComponent count = %d, want 2", len(cal.VComponent))
	}

	ev, ok := cal.VComponent[0].(*ics.VEvent)
	if !ok {
		t.Fatalf("VComponent[0] is %T", cal.VComponent[0])
	}
	if ev.SUMMARY != "Landmark: Wicked" {
		t.Errorf("first SUMMARY = %s, want the October event with the venue prefix", ev.SUMMARY)
	}
	if !strings.HasSuffix(ev.UID, "@landmarktheatre.org") {
		t.Errorf("UID = %s", ev.UID)
	}
	if got := ev.DTEND.Sub(ev.DTSTART); got != calendar.DefaultDuration {
		t.Errorf("DTEND-DTSTART = %s, want %s", got, calendar.DefaultDuration)
	}
	if ev.AllDay {
		t.Errorf("a %s event should not be all-day", calendar.DefaultDuration)
	}
	if !strings.Contains(ev.DESCRIPTION, "https://landmarktheatre.org/event/wicked/") {
		t.Errorf("DESCRIPTION = %q, want the detail URL folded in", ev.DESCRIPTION)
	}
	if !strings.Contains(ev.DESCRIPTION, "The untold story of the witches of Oz.") {
		t.Errorf("DESCRIPTION = %q, want the listing text kept", ev.DESCRIPTION)
	}
}

func TestBuildDTSTAMPFallback(t *testing.T) {
	events := calendar.Events{{
		Title:     "Open House",
		StartTime: time.Date(2025, time.October, 1, 10, 0, 0, 0, tz),
		Duration:  calendar.DefaultDuration,
	}}
	cal := Build(events, "")

	if cal.PRODID != "-//landmark-ics//EN" {
		t.Errorf("PRODID = %s", cal.PRODID)
	}
	ev := cal.VComponent[0].(*ics.VEvent)
	if ev.DTSTAMP.IsZero() {
		t.Error("DTSTAMP not filled in for events without a modification time")
	}
}

func TestBuildAllDay(t *testing.T) {
	events := calendar.Events{{
		Title:     "Festival",
		StartTime: time.Date(2025, time.October, 1, 0, 0, 0, 0, tz),
		Duration:  48 * time.Hour,
	}}
	ev := Build(events, "").VComponent[0].(*ics.VEvent)
	if !ev.AllDay {
		t.Error("multi-day event not marked all-day")
	}
}

func TestEncode(t *testing.T) {
	buf := bytes.Buffer{}
	if err := Encode(&buf, sampleEvents(), "test"); err != nil {
		t.Fatalf("Encode() error: %s", err)
	}
	out := buf.String()

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"X-WR-CALNAME:Landmark Theatre",
		"SUMMARY:Landmark: Wicked",
		"SUMMARY:Landmark: The Nutcracker",
		"@landmarktheatre.org",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("feed missing %q", want)
		}
	}
	if strings.Index(out, "Landmark: Wicked") > strings.Index(out, "Landmark: The Nutcracker") {
		t.Error("events not ordered by start time")
	}
}
