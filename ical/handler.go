package ical

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nsmac008/landmark-ics/storage"
	"github.com/nsmac008/landmark-ics/storage/boltdb"
)

type handler struct {
	version string
	loader  storage.Loader
}

func NewHandler(path string) *handler {
	return &handler{
		loader: boltdb.New(boltdb.Config{
			Path: filepath.Join(path, boltdb.DefaultFile),
		}),
	}
}

// feedWindow is how much of the calendar one feed covers.
const feedWindow = 8759*time.Hour + 59*time.Minute + 59*time.Second

// ServeHTTP renders the stored events for one year as an iCalendar feed.
// Without a /{year} path segment the current year is served.
func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if yearURL := chi.URLParam(r, "year"); len(yearURL) > 0 {
		y, err := strconv.Atoi(yearURL)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprintf(w, "invalid year %s", yearURL)
			return
		}
		year = y
	}
	date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)

	events, err := h.loader.LoadEvents(storage.Cursor(date, feedWindow))
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "unable to load events: %s", err)
		return
	}

	b := bytes.Buffer{}
	if err := Encode(&b, events, h.version); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprintf(w, "unable to encode calendar: %s", err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(b.Bytes())
}
