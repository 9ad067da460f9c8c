package boltdb

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/nsmac008/landmark-ics/calendar"
	"github.com/nsmac008/landmark-ics/storage"
)

var tz, _ = time.LoadLocation("America/New_York")

func testRepo(t *testing.T) *repo {
	t.Helper()
	return New(Config{
		Path:  filepath.Join(t.TempDir(), DefaultFile),
		LogFn: t.Logf,
		ErrFn: t.Logf,
	})
}

func testEvent(title string, start time.Time) calendar.Event {
	return calendar.Event{
		CalID:        calendar.EventID(title, start),
		Title:        title,
		StartTime:    start,
		Duration:     calendar.DefaultDuration,
		LastModified: time.Date(2025, time.September, 1, 12, 0, 0, 0, time.UTC),
		TagNames:     []string{calendar.LabelLandmark},
	}
}

func TestSaveAndLoadEvents(t *testing.T) {
	r := testRepo(t)
	events := calendar.Events{
		testEvent("Wicked", time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)),
		testEvent("Wicked", time.Date(2025, time.October, 30, 14, 0, 0, 0, tz)),
		testEvent("The Nutcracker", time.Date(2025, time.December, 20, 19, 30, 0, 0, tz)),
	}
	if err := r.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents() error: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Cursor(time.Date(2025, time.October, 1, 0, 0, 0, 0, tz), 31*24*time.Hour))
	if err != nil {
		t.Fatalf("LoadEvents() error: %s", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadEvents() = %d events, want the 2 October ones: %v", len(loaded), loaded)
	}
	for _, ev := range loaded {
		if ev.Title != "Wicked" {
			t.Errorf("unexpected event %v", ev)
		}
	}
}

func TestLoadEventsCrossesMonths(t *testing.T) {
	r := testRepo(t)
	events := calendar.Events{
		testEvent("Early", time.Date(2025, time.September, 5, 19, 0, 0, 0, tz)),
		testEvent("Wicked", time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)),
		testEvent("The Nutcracker", time.Date(2025, time.December, 20, 19, 30, 0, 0, tz)),
		testEvent("Next Season", time.Date(2026, time.February, 10, 19, 0, 0, 0, tz)),
	}
	if err := r.SaveEvents(events); err != nil {
		t.Fatalf("SaveEvents() error: %s", err)
	}

	start := time.Date(2025, time.October, 1, 0, 0, 0, 0, tz)
	loaded, err := r.LoadEvents(storage.Cursor(start, 92*24*time.Hour))
	if err != nil {
		t.Fatalf("LoadEvents() error: %s", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("LoadEvents() = %d events, want Oct and Dec: %v", len(loaded), loaded)
	}
}

func TestLoadEventsBackwardCursor(t *testing.T) {
	r := testRepo(t)
	ev := testEvent("Wicked", time.Date(2025, time.October, 28, 19, 30, 0, 0, tz))
	if err := r.SaveEvent(ev); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	loaded, err := r.LoadEvents(storage.Cursor(time.Date(2025, time.November, 1, 0, 0, 0, 0, tz), -30*24*time.Hour))
	if err != nil {
		t.Fatalf("LoadEvents() error: %s", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("LoadEvents() = %d events, want 1: %v", len(loaded), loaded)
	}
}

func TestLoadEvent(t *testing.T) {
	r := testRepo(t)
	start := time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)
	ev := testEvent("Wicked", start)
	if err := r.SaveEvent(ev); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	got := r.LoadEvent(calendar.LabelLandmark, start, ev.CalID)
	if !got.IsValid() {
		t.Fatal("LoadEvent() returned the zero event")
	}
	if got.Title != ev.Title || !got.StartTime.Equal(start) {
		t.Errorf("LoadEvent() = %v, want %v", got, ev)
	}

	missing := r.LoadEvent(calendar.LabelLandmark, start, ev.CalID+1)
	if missing.IsValid() {
		t.Errorf("LoadEvent() found an event for an unknown id: %v", missing)
	}
}

func TestSaveUnchangedEventKeepsLastModified(t *testing.T) {
	r := testRepo(t)
	start := time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)
	ev := testEvent("Wicked", start)
	if err := r.SaveEvent(ev); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	later := ev
	later.LastModified = ev.LastModified.Add(time.Hour)
	if err := r.SaveEvent(later); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	got := r.LoadEvent(calendar.LabelLandmark, start, ev.CalID)
	if !got.LastModified.Equal(ev.LastModified) {
		t.Errorf("LastModified = %s, want the original %s kept for an unchanged event", got.LastModified, ev.LastModified)
	}
}

func TestSaveChangedEventUpdates(t *testing.T) {
	r := testRepo(t)
	start := time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)
	ev := testEvent("Wicked", start)
	if err := r.SaveEvent(ev); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	changed := ev
	changed.Description = "Now with an intermission."
	changed.LastModified = ev.LastModified.Add(time.Hour)
	if err := r.SaveEvent(changed); err != nil {
		t.Fatalf("SaveEvent() error: %s", err)
	}

	got := r.LoadEvent(calendar.LabelLandmark, start, ev.CalID)
	if got.Description != changed.Description {
		t.Errorf("Description = %q, want the updated one", got.Description)
	}
	if !got.LastModified.Equal(changed.LastModified) {
		t.Errorf("LastModified = %s, want %s", got.LastModified, changed.LastModified)
	}
}

func TestItemBucketPath(t *testing.T) {
	date := time.Date(2025, time.October, 28, 19, 30, 0, 0, tz)
	got := string(itemBucketPath([]byte("landmark"), date))
	if got != "landmark/25/10/28/19/30" {
		t.Errorf("itemBucketPath() = %s", got)
	}
}
