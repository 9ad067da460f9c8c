package landmark

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/nsmac008/landmark-ics/calendar"
)

const detailFetchers = 4

// documentFn loads and parses an HTML page. Split out so tests can parse
// fixtures without touching the network.
type documentFn func(url string) (*goquery.Document, error)

func LoadEvents(u *url.URL, now time.Time) (calendar.Events, error) {
	if u == nil {
		return nil, fmt.Errorf("nil URL received")
	}
	doc, err := loadDocument(u.String())
	if err != nil {
		return nil, fmt.Errorf("unable to load calendar page: %w", err)
	}
	return ParseEvents(doc, u, now, loadDocument)
}

func loadDocument(u string) (*goquery.Document, error) {
	res, err := http.Get(u)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != 200 {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}
	return goquery.NewDocumentFromReader(res.Body)
}

type pending struct {
	title string
	url   string
	desc  string
}

// ParseEvents extracts the event listings from the calendar page. Listings
// whose date can't be read off the listing itself are resolved through
// their detail page, fetched via fetch with bounded concurrency.
func ParseEvents(doc *goquery.Document, base *url.URL, now time.Time, fetch documentFn) (calendar.Events, error) {
	candidates := collectCandidates(doc)

	events := make(calendar.Events, 0)
	seenTitles := make(map[string]bool)
	followUps := make([]pending, 0)

	for _, s := range candidates {
		title := nodeTitle(s)
		if title == "" || seenTitles[title] {
			continue
		}

		dateText := nodeDateLine(s)
		link := readMoreURL(s, base)
		desc := strings.TrimSpace(s.Find("p").First().Text())

		var sessions []time.Time
		if r, ok := parseRangeHeader(dateText); ok {
			sessions = rangeSessions(s, r)
		} else if t, ok := parseSingleDateLine(dateText, now); ok {
			sessions = []time.Time{t}
		} else if link != "" {
			followUps = append(followUps, pending{title: title, url: link, desc: desc})
			seenTitles[title] = true
			continue
		}

		if len(sessions) == 0 {
			continue
		}
		for _, start := range sessions {
			ev := newEvent(title, start, link, desc)
			if ev.IsValid() && !events.Contains(ev) {
				events = append(events, ev)
			}
		}
		seenTitles[title] = true
	}

	detail, err := loadDetailPages(followUps, now, fetch)
	if err != nil {
		return events, err
	}
	for _, ev := range detail {
		if ev.IsValid() && !events.Contains(ev) {
			events = append(events, ev)
		}
	}

	return events, nil
}

// collectCandidates gathers listing containers, resilient to the theme
// changing: query-loop blocks first, generic articles next, and finally
// anything wrapping a "Read more" anchor.
func collectCandidates(doc *goquery.Document) []*goquery.Selection {
	candidates := make([]*goquery.Selection, 0)
	doc.Find(".wp-block-post").Each(func(i int, s *goquery.Selection) {
		candidates = append(candidates, s)
	})
	doc.Find("article").Each(func(i int, s *goquery.Selection) {
		candidates = append(candidates, s)
	})
	doc.Find("a").Each(func(i int, a *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(a.Text()), "read more") {
			return
		}
		p := a.Closest("article, div, section")
		if p.Length() == 0 {
			p = a.Parent()
		}
		candidates = append(candidates, p)
	})
	return candidates
}

func nodeTitle(s *goquery.Selection) string {
	title := s.Find("h2, h3").First()
	if title.Length() == 0 {
		title = s.Find("a").First()
	}
	return strings.TrimSpace(title.Text())
}

// nodeDateLine finds the text fragment carrying the date, usually the
// first non-empty line after the title.
func nodeDateLine(s *goquery.Selection) string {
	lines := textLines(s)
	for _, line := range lines {
		if looksLikeDateLine(line) {
			return line
		}
	}
	return looseDate.FindString(strings.Join(lines, "\n"))
}

// textLines collects the trimmed text fragments of a node, one per DOM text
// node, so minified markup yields the same lines as formatted markup.
func textLines(s *goquery.Selection) []string {
	lines := make([]string, 0)
	var walk func(*goquery.Selection)
	walk = func(sel *goquery.Selection) {
		sel.Contents().Each(func(i int, n *goquery.Selection) {
			if goquery.NodeName(n) == "#text" {
				for _, line := range strings.Split(n.Text(), "\n") {
					if line = strings.TrimSpace(line); len(line) > 0 {
						lines = append(lines, line)
					}
				}
				return
			}
			walk(n)
		})
	}
	walk(s)
	return lines
}

func readMoreURL(s *goquery.Selection, base *url.URL) string {
	var href string
	s.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if strings.EqualFold(strings.TrimSpace(a.Text()), "read more") {
			href, _ = a.Attr("href")
			return false
		}
		return true
	})
	if href == "" {
		return ""
	}
	hu, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		hu = base.ResolveReference(hu)
	}
	return hu.String()
}

// rangeSessions reads the per-session bullets of a multi-day run and keeps
// the ones falling inside the header's date range.
func rangeSessions(s *goquery.Selection, r dateRange) []time.Time {
	sessions := make([]time.Time, 0)
	s.Find("li").Each(func(i int, li *goquery.Selection) {
		t, ok := parseBullet(strings.TrimSpace(li.Text()), r.year)
		if !ok || !r.contains(t.Month(), t.Day()) {
			return
		}
		sessions = append(sessions, t)
	})
	return sessions
}

func newEvent(title string, start time.Time, link, desc string) calendar.Event {
	return calendar.Event{
		CalID:        calendar.EventID(title, start),
		Title:        title,
		StartTime:    start,
		Duration:     calendar.DefaultDuration,
		LastModified: time.Now().UTC(),
		URL:          link,
		Description:  desc,
		TagNames:     []string{calendar.LabelLandmark, "theatre"},
	}
}

func loadDetailPages(followUps []pending, now time.Time, fetch documentFn) (calendar.Events, error) {
	if len(followUps) == 0 || fetch == nil {
		return nil, nil
	}

	var mu sync.Mutex
	events := make(calendar.Events, 0)

	g := errgroup.Group{}
	g.SetLimit(detailFetchers)
	for _, p := range followUps {
		p := p
		g.Go(func() error {
			doc, err := fetch(p.url)
			if err != nil {
				// a dead detail page loses one listing, not the run
				return nil
			}
			for _, start := range parseEventPage(doc, now) {
				ev := newEvent(p.title, start, p.url, p.desc)
				mu.Lock()
				events = append(events, ev)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return events, err
	}
	return events, nil
}

// parseEventPage scans a detail page for either a full date line
// ("October 20, 2025 – 8:00 pm") or a list of session bullets.
func parseEventPage(doc *goquery.Document, now time.Time) []time.Time {
	text := strings.Join(textLines(doc.Selection), "\n")

	if m := pageDate.FindStringSubmatch(text); m != nil {
		if month, ok := monthFromName(m[1]); ok {
			day, _ := strconv.Atoi(m[2])
			year, _ := strconv.Atoi(m[3])
			if t, ok := parseDateTime(year, month, day, m[4]); ok {
				return []time.Time{t}
			}
		}
	}

	year := inferYear(now)
	sessions := make([]time.Time, 0)
	for _, line := range strings.Split(text, "\n") {
		if t, ok := parseBullet(line, year); ok {
			sessions = append(sessions, t)
		}
	}
	return sessions
}
