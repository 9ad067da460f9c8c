package post

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nsmac008/landmark-ics/calendar"
)

const dateFmt = "2006-01-02 15:04"

var (
	infFn = func(s string, args ...interface{}) {
		fmt.Printf(s+"\n", args...)
	}
	errFn = func(s string, args ...interface{}) {
		fmt.Fprintf(os.Stderr, s+"\n", args...)
	}
)

// ToStdout is the fallback poster, used on dry runs and when no client is
// authorized.
func ToStdout(groups map[time.Time]calendar.Events) error {
	f := log.Flags()
	log.SetFlags(0)
	for date, events := range groups {
		log.Printf("%s\n", date.Format(dateFmt))
		for i, ev := range events {
			log.Printf("#%d %s", i, ev)
		}
	}
	log.SetFlags(f)
	return nil
}
