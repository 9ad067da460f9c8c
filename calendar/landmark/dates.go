package landmark

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nsmac008/landmark-ics/calendar"
)

// The venue publishes times as local wall clock, without zone markers.
var siteTZ = calendar.Timezone

var months = map[string]time.Month{
	"January":   time.January,
	"February":  time.February,
	"March":     time.March,
	"April":     time.April,
	"May":       time.May,
	"June":      time.June,
	"July":      time.July,
	"August":    time.August,
	"September": time.September,
	"October":   time.October,
	"November":  time.November,
	"December":  time.December,
	"Jan.":      time.January,
	"Feb.":      time.February,
	"Mar.":      time.March,
	"Apr.":      time.April,
	"Jun.":      time.June,
	"Jul.":      time.July,
	"Aug.":      time.August,
	"Sept.":     time.September,
	"Oct.":      time.October,
	"Nov.":      time.November,
	"Dec.":      time.December,
}

var fullMonths = []time.Month{
	time.January, time.February, time.March, time.April, time.May, time.June,
	time.July, time.August, time.September, time.October, time.November, time.December,
}

func monthFromName(name string) (time.Month, bool) {
	if m, ok := months[name]; ok {
		return m, true
	}
	// undotted abbreviations and odd casings show up too
	name = strings.ToLower(strings.TrimSuffix(name, "."))
	if len(name) < 3 {
		return 0, false
	}
	for _, m := range fullMonths {
		if strings.HasPrefix(strings.ToLower(m.String()), name) {
			return m, true
		}
	}
	return 0, false
}

// The three surface forms the calendar page uses for dates:
//
//	October 20, 2025 – 8:00 pm    (single session, year optional)
//	October 28 – November 1, 2025 (run header, sessions in bullets)
//	Oct. 28 – 7:30PM              (bullet within a run)
var (
	singleDateLine  = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})(?:,\s*(\d{4}))?\s*[–-]\s*([^\n]+)$`)
	rangeDateLine   = regexp.MustCompile(`^([A-Za-z]{3,9})\s+(\d{1,2})\s*[–-]\s*([A-Za-z]{3,9})?\s*(\d{1,2}),\s*(\d{4})$`)
	dateRangeBullet = regexp.MustCompile(`^([A-Za-z]{3,4}\.?)\s+(\d{1,2})\s*[–-]\s*([0-9:apmAPM.]+)`)
	timeOnly        = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*([ap]m)\*?`)

	yearMarker = regexp.MustCompile(`\b\d{4}\b`)
	ampmMarker = regexp.MustCompile(`\b(am|pm|AM|PM)\b`)
	looseDate  = regexp.MustCompile(`([A-Za-z]{3,9}[^\n]+\d{4}[^\n]*)`)
	pageDate   = regexp.MustCompile(`([A-Za-z]{3,9})\s+(\d{1,2}),\s*(\d{4})\s*[–-]\s*([^\n]+)`)
)

// parseClock extracts an hour/minute pair from strings like "7:30 pm" or
// "6:00PM*".
func parseClock(s string) (int, int, bool) {
	m := timeOnly.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	hour, _ := strconv.Atoi(m[1])
	min := 0
	if m[2] != "" {
		min, _ = strconv.Atoi(m[2])
	}
	if hour > 12 {
		return 0, 0, false
	}
	switch strings.ToLower(m[3]) {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, min, true
}

func parseDateTime(year int, month time.Month, day int, timeStr string) (time.Time, bool) {
	hour, min, ok := parseClock(timeStr)
	if !ok {
		return time.Time{}, false
	}
	return time.Date(year, month, day, hour, min, 0, 0, siteTZ), true
}

// parseSingleDateLine handles "October 20, 2025 – 8:00 pm". A missing year
// falls back to the current one.
func parseSingleDateLine(line string, now time.Time) (time.Time, bool) {
	m := singleDateLine.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthFromName(m[1])
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])
	year := now.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return parseDateTime(year, month, day, m[4])
}

type dateRange struct {
	startMon, endMon time.Month
	startDay, endDay int
	year             int
}

func parseRangeHeader(line string) (dateRange, bool) {
	m := rangeDateLine.FindStringSubmatch(line)
	if m == nil {
		return dateRange{}, false
	}
	r := dateRange{}
	var ok bool
	if r.startMon, ok = monthFromName(m[1]); !ok {
		return dateRange{}, false
	}
	r.startDay, _ = strconv.Atoi(m[2])
	r.endMon = r.startMon
	if m[3] != "" {
		if r.endMon, ok = monthFromName(m[3]); !ok {
			return dateRange{}, false
		}
	}
	r.endDay, _ = strconv.Atoi(m[4])
	r.year, _ = strconv.Atoi(m[5])
	return r, true
}

func (r dateRange) contains(mon time.Month, day int) bool {
	if mon < r.startMon || (mon == r.startMon && day < r.startDay) {
		return false
	}
	if mon > r.endMon || (mon == r.endMon && day > r.endDay) {
		return false
	}
	return true
}

// parseBullet handles per-session lines like "Oct. 28 – 7:30PM".
func parseBullet(line string, year int) (time.Time, bool) {
	m := dateRangeBullet.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	month, ok := monthFromName(m[1])
	if !ok {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[2])
	return parseDateTime(year, month, day, m[3])
}

// inferYear picks the year for bullet lines that carry none. December runs
// advertise the next season.
func inferYear(now time.Time) int {
	if now.In(siteTZ).Month() > time.November {
		return now.In(siteTZ).Year() + 1
	}
	return now.In(siteTZ).Year()
}

// looksLikeDateLine reports whether a text fragment is worth handing to the
// date parsers: it mentions a year or an am/pm clock.
func looksLikeDateLine(s string) bool {
	return yearMarker.MatchString(s) || ampmMarker.MatchString(s)
}
