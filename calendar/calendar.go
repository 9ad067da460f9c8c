package calendar

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"
)

// LabelLandmark is the only venue this project scrapes.
const LabelLandmark = "landmark"

var DefaultCalendars = []string{LabelLandmark}

var Labels = map[string]string{
	LabelLandmark: "Landmark Theatre",
}

// DefaultDuration is used when a listing only exposes a start time.
const DefaultDuration = 2 * time.Hour

// Timezone is the wall clock the venue publishes times in.
var Timezone = loadLocation("America/New_York")

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

type Fetcher interface {
	Load(startDate time.Time) (Events, error)
}

type Event struct {
	CalID        int64
	Title        string
	StartTime    time.Time
	Duration     time.Duration
	LastModified time.Time
	URL          string
	Description  string
	TagNames     []string
	Canceled     bool
}

type Events []Event

// EventID derives a stable identifier from the fields that identify a
// session on the venue page. The page itself carries no ids, so this is
// what keeps storage upserts and feed UIDs from churning between runs.
func EventID(title string, start time.Time) int64 {
	h := fnv.New64a()
	h.Write([]byte(strings.TrimSpace(strings.ToLower(title))))
	h.Write([]byte(start.UTC().Format(time.RFC3339)))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

func stringArrayEqual(a1, a2 []string) bool {
	if len(a1) != len(a2) {
		return false
	}
	sort.Strings(a1)
	sort.Strings(a2)
	for k, v := range a1 {
		if v != a2[k] {
			return false
		}
	}
	return true
}

func (e Event) IsValid() bool {
	return !e.StartTime.IsZero() && len(e.Title) > 0
}

func (e Event) Equals(other Event) bool {
	return e.CalID == other.CalID &&
		e.Title == other.Title &&
		e.StartTime.Equal(other.StartTime) &&
		e.Duration == other.Duration &&
		e.URL == other.URL &&
		e.Description == other.Description &&
		stringArrayEqual(e.TagNames, other.TagNames) &&
		e.Canceled == other.Canceled
}

func (e Event) End() time.Time {
	d := e.Duration
	if d == 0 {
		d = DefaultDuration
	}
	return e.StartTime.Add(d)
}

func (e Event) String() string {
	return e.GoString()
}

func (e Event) GoString() string {
	fmtTime := e.StartTime.Format("2006-01-02 15:04 MST")
	return fmt.Sprintf("<[%d] %s @ %s//%s>", e.CalID, e.Title, fmtTime, e.Duration)
}

func (e Events) String() string {
	return e.GoString()
}

func (e Events) GoString() string {
	ss := make([]string, len(e))
	for i, ev := range e {
		ss[i] = ev.GoString()
	}
	return fmt.Sprintf("Events[%d]:\n\t%s\n", len(e), strings.Join(ss, "\n\t"))
}

func (e Events) Contains(inc Event) bool {
	for _, ev := range e {
		if ev.Equals(inc) {
			return true
		}
	}
	return false
}

// SortByStart orders events chronologically, the order they end up in the
// published feed.
func (e Events) SortByStart() {
	sort.SliceStable(e, func(i, j int) bool {
		return e[i].StartTime.Before(e[j].StartTime)
	})
}

func inStringList(s string, list []string) bool {
	for _, lss := range list {
		if lss == s {
			return true
		}
	}
	return false
}

func ValidType(typ string) bool {
	_, ok := Labels[strings.ToLower(typ)]
	return ok
}

func GetTypes(strs []string) []string {
	if len(strs) == 0 {
		return DefaultCalendars
	}
	types := make([]string, 0)
	for _, typ := range strs {
		typ = strings.ToLower(typ)
		if !ValidType(typ) || inStringList(typ, types) {
			continue
		}
		types = append(types, typ)
	}
	return types
}
