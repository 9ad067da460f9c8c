package ical

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(path string) http.Handler {
	h := NewHandler(path)

	r := chi.NewRouter()
	r.Get("/", h.ServeHTTP)
	r.Get("/calendar.ics", h.ServeHTTP)
	r.Get("/{year}/calendar.ics", h.ServeHTTP)
	return r
}
