package post

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/McKael/madon"

	"github.com/nsmac008/landmark-ics/calendar"
)

// Mastodon statuses cap out at this many characters on stock instances.
const maxPostSize = 500

const unlisted = "unlisted"

const titleTpl = `Landmark Theatre on {{ .Format "Monday, 02 Jan 2006" -}}`
const contentTpl = `{{- range $event := .Events }}
{{ $event | sanitize }} {{ renderTags $event.TagNames "#" }}
{{ end }}
#{{ .Date.Month.String | lower }} #landmark #theatre #calendar`

var badStrings = []string{"â€‹"}

func removeStrings(s string, replace ...string) string {
	for _, r := range replace {
		s = strings.ReplaceAll(s, r, "")
	}
	return s
}

func sanitize(ev calendar.Event) string {
	line := fmt.Sprintf("%s %s", ev.StartTime.Format("15:04"), ev.Title)
	return removeStrings(line, badStrings...)
}

var contTemplate = template.Must(template.New("daily-post").
	Funcs(template.FuncMap{
		"sanitize":   sanitize,
		"lower":      strings.ToLower,
		"renderTags": renderTagsText,
	}).Parse(contentTpl))

var titleTemplate = template.Must(template.New("daily-post-title").
	Funcs(template.FuncMap{
		"sanitize": sanitize,
	}).Parse(titleTpl))

type postContent struct {
	Date   time.Time
	Events calendar.Events
}

type postModel struct {
	title, content string
}

func renderTitle(d time.Time) (string, error) {
	title := bytes.NewBuffer(nil)
	if err := titleTemplate.Execute(title, d); err != nil {
		return "", fmt.Errorf("unable to build post title: %w", err)
	}
	return title.String(), nil
}

func renderPosts(d time.Time, events calendar.Events) (string, error) {
	model := postContent{Date: d, Events: events}
	contBuff := bytes.NewBuffer(nil)
	if err := contTemplate.Execute(contBuff, model); err != nil {
		return "", fmt.Errorf("unable to build post content: %w", err)
	}
	return contBuff.String(), nil
}

type PosterFn func(events map[time.Time]calendar.Events) error

// ToMastodon posts a status per day of events, threading continuation
// posts when one day does not fit the size limit.
func ToMastodon(client *madon.Client) PosterFn {
	if client == nil {
		return ToStdout
	}
	return func(group map[time.Time]calendar.Events) error {
		var inReplyTo int64 = 0
		posts := make([]postModel, 0)

		for d, events := range group {
			title, err := renderTitle(d)
			if err != nil {
				errFn("unable to render title: %s", err)
			}

			cleaveFn := func(d time.Time, content *string) func(events []calendar.Event) bool {
				return func(events []calendar.Event) bool {
					var err error
					*content, err = renderPosts(d, events)
					if err != nil {
						return false
					}
					return len(*content) < maxPostSize
				}
			}

			for {
				var content string
				_, events = cleaveSlice(events, cleaveFn(d, &content))

				posts = append(posts, postModel{title: title, content: content})
				if events == nil {
					break
				}
			}
		}

		for i, model := range posts {
			if len(posts) > 1 {
				model.title = fmt.Sprintf("%s: %d/%d", model.title, i+1, len(posts))
			}
			if inReplyTo > 0 {
				time.Sleep(500 * time.Millisecond)
			}
			s, err := client.PostStatus(model.content, inReplyTo, nil, len(model.title) > 0, model.title, unlisted)
			if err != nil {
				return fmt.Errorf("%s: %w", client.InstanceURL, err)
			}
			infFn("post at: %s", s.URI)
		}

		return nil
	}
}

func splitSlice[T any](sl []T, size int) [][]T {
	result := make([][]T, 0)
	if len(sl) <= size {
		return append(result, sl)
	}
	if size == 0 {
		size = 1
	}
	for cur := 0; cur < len(sl); cur += size {
		end := cur + size
		if end > len(sl) {
			end = len(sl)
		}
		result = append(result, sl[cur:end])
	}
	return result
}

// cleaveSlice halves incoming until checkFn accepts the head, returning
// the accepted head and the remainder still to be processed.
func cleaveSlice[T any](incoming []T, checkFn func([]T) bool) ([]T, []T) {
	if checkFn(incoming) {
		return incoming, nil
	}

	var remainder []T
	for {
		cleaveLen := len(incoming) / 2
		halves := splitSlice(incoming, cleaveLen)
		if len(halves) >= 2 {
			for _, h := range halves[1:] {
				remainder = append(remainder, h...)
			}
		}
		if checkFn(halves[0]) {
			return halves[0], remainder
		}
		if len(halves[0]) == len(incoming) {
			break
		}
		incoming = halves[0]
	}
	return incoming, nil
}
