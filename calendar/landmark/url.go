package landmark

import (
	"fmt"
	"net/url"

	"github.com/nsmac008/landmark-ics/calendar"
)

const (
	baseURI      = "https://landmarktheatre.org"
	calendarPath = "/events/calendar/"
)

// UIDDomain suffixes the UID of every published event.
const UIDDomain = "landmarktheatre.org"

func ValidType(typ string) bool {
	return typ == calendar.LabelLandmark
}

// GetCalendarURL returns the public calendar listing page. The page is not
// paginated by date, so there is no query to build.
func GetCalendarURL(typ string) (*url.URL, error) {
	if !ValidType(typ) {
		return nil, fmt.Errorf("invalid type: %s", typ)
	}
	u, err := url.Parse(baseURI)
	if err != nil {
		return nil, fmt.Errorf("unable to parse base URI: %w", err)
	}
	u.Path = calendarPath
	return u, nil
}
