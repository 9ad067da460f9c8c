package landmark

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in        string
		hour, min int
		ok        bool
	}{
		{in: "7:30 pm", hour: 19, min: 30, ok: true},
		{in: "6:00PM*", hour: 18, min: 0, ok: true},
		{in: "8 pm", hour: 20, min: 0, ok: true},
		{in: "11:15 AM", hour: 11, min: 15, ok: true},
		{in: "12 pm", hour: 12, min: 0, ok: true},
		{in: "12 am", hour: 0, min: 0, ok: true},
		{in: "doors at 7pm", hour: 19, min: 0, ok: true},
		{in: "matinee", ok: false},
		{in: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			hour, min, ok := parseClock(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseClock(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if hour != tt.hour || min != tt.min {
				t.Errorf("parseClock(%q) = %d:%02d, want %d:%02d", tt.in, hour, min, tt.hour, tt.min)
			}
		})
	}
}

func TestMonthFromName(t *testing.T) {
	tests := []struct {
		in   string
		want time.Month
		ok   bool
	}{
		{in: "January", want: time.January, ok: true},
		{in: "Sept.", want: time.September, ok: true},
		{in: "Oct.", want: time.October, ok: true},
		{in: "Dec", want: time.December, ok: true},
		{in: "may", want: time.May, ok: true},
		{in: "Frimaire", ok: false},
		{in: "Ju", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := monthFromName(tt.in)
			if ok != tt.ok {
				t.Fatalf("monthFromName(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("monthFromName(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseSingleDateLine(t *testing.T) {
	now := time.Date(2025, time.September, 1, 0, 0, 0, 0, siteTZ)

	tests := []struct {
		name string
		line string
		want time.Time
		ok   bool
	}{
		{
			name: "full",
			line: "October 20, 2025 – 8:00 pm",
			want: time.Date(2025, time.October, 20, 20, 0, 0, 0, siteTZ),
			ok:   true,
		},
		{
			name: "no year",
			line: "October 20 – 8:00 pm",
			want: time.Date(2025, time.October, 20, 20, 0, 0, 0, siteTZ),
			ok:   true,
		},
		{
			name: "hyphen separator",
			line: "March 5, 2026 - 7:30pm",
			want: time.Date(2026, time.March, 5, 19, 30, 0, 0, siteTZ),
			ok:   true,
		},
		{name: "range header is not a single date", line: "October 28 – November 1, 2025", ok: false},
		{name: "no time", line: "October 20, 2025", ok: false},
		{name: "garbage", line: "Read more", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseSingleDateLine(tt.line, now)
			if ok != tt.ok {
				t.Fatalf("parseSingleDateLine(%q) ok = %v, want %v", tt.line, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("parseSingleDateLine(%q) = %s, want %s", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseRangeHeader(t *testing.T) {
	r, ok := parseRangeHeader("October 28 – November 1, 2025")
	if !ok {
		t.Fatalf("parseRangeHeader() failed")
	}
	if r.startMon != time.October || r.startDay != 28 {
		t.Errorf("range start = %s %d, want October 28", r.startMon, r.startDay)
	}
	if r.endMon != time.November || r.endDay != 1 {
		t.Errorf("range end = %s %d, want November 1", r.endMon, r.endDay)
	}
	if r.year != 2025 {
		t.Errorf("range year = %d, want 2025", r.year)
	}

	sameMonth, ok := parseRangeHeader("October 28 – 31, 2025")
	if !ok {
		t.Fatalf("parseRangeHeader() failed for same-month range")
	}
	if sameMonth.endMon != time.October {
		t.Errorf("same-month range end = %s, want October", sameMonth.endMon)
	}

	if _, ok := parseRangeHeader("October 20, 2025 – 8:00 pm"); ok {
		t.Errorf("parseRangeHeader() matched a single date line")
	}
}

func TestDateRangeContains(t *testing.T) {
	r := dateRange{startMon: time.October, startDay: 28, endMon: time.November, endDay: 1, year: 2025}

	tests := []struct {
		mon  time.Month
		day  int
		want bool
	}{
		{time.October, 28, true},
		{time.October, 31, true},
		{time.November, 1, true},
		{time.October, 27, false},
		{time.November, 2, false},
		{time.September, 30, false},
	}
	for _, tt := range tests {
		if got := r.contains(tt.mon, tt.day); got != tt.want {
			t.Errorf("contains(%s %d) = %v, want %v", tt.mon, tt.day, got, tt.want)
		}
	}
}

func TestParseBullet(t *testing.T) {
	got, ok := parseBullet("Oct. 28 – 7:30PM", 2025)
	if !ok {
		t.Fatalf("parseBullet() failed")
	}
	want := time.Date(2025, time.October, 28, 19, 30, 0, 0, siteTZ)
	if !got.Equal(want) {
		t.Errorf("parseBullet() = %s, want %s", got, want)
	}

	if _, ok := parseBullet("A holiday classic returns.", 2025); ok {
		t.Errorf("parseBullet() matched prose")
	}
}

func TestInferYear(t *testing.T) {
	if got := inferYear(time.Date(2025, time.September, 15, 12, 0, 0, 0, siteTZ)); got != 2025 {
		t.Errorf("inferYear(September) = %d, want 2025", got)
	}
	if got := inferYear(time.Date(2025, time.December, 5, 12, 0, 0, 0, siteTZ)); got != 2026 {
		t.Errorf("inferYear(December) = %d, want 2026", got)
	}
}

func TestLooksLikeDateLine(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{in: "October 20, 2025 – 8:00 pm", want: true},
		{in: "Doors open at 7 pm", want: true},
		{in: "The Nutcracker", want: false},
		{in: "Read more", want: false},
	}
	for _, tt := range tests {
		if got := looksLikeDateLine(tt.in); got != tt.want {
			t.Errorf("looksLikeDateLine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
