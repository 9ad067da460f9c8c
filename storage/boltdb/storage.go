package boltdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/nsmac008/landmark-ics/calendar"
	"github.com/nsmac008/landmark-ics/storage"
)

type LoggerFn func(string, ...interface{})

// DefaultFile is the database file name under the application data path.
const DefaultFile = "calendar.bdb"

const rootBucket = "events"

type repo struct {
	d    *bolt.DB
	root []byte
	path string
	log  LoggerFn
	err  LoggerFn
}

type Config struct {
	Path  string
	LogFn LoggerFn
	ErrFn LoggerFn
}

// New returns an events repository backed by a boltdb file. The file is
// opened lazily, per operation.
func New(c Config) *repo {
	b := repo{
		root: []byte(rootBucket),
		path: c.Path,
		log:  func(string, ...interface{}) {},
		err:  func(string, ...interface{}) {},
	}
	if c.ErrFn != nil {
		b.err = c.ErrFn
	}
	if c.LogFn != nil {
		b.log = c.LogFn
	}
	return &b
}

func (r *repo) open() error {
	var err error
	r.d, err = bolt.Open(r.path, 0600, nil)
	if err != nil {
		return fmt.Errorf("could not open db %s: %w", r.path, err)
	}
	return r.d.Update(func(tx *bolt.Tx) error {
		root, err := tx.CreateBucketIfNotExists(r.root)
		if err != nil {
			return fmt.Errorf("unable to create root bucket %s: %w", r.root, err)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable root bucket %s", r.root)
		}
		return nil
	})
}

func (r *repo) close() error {
	if r.d == nil {
		return nil
	}
	return r.d.Close()
}

// Events are bucketed under venue/yy/mm/dd/hh/mm so a date cursor maps to
// a key range.
var pathSeparator = []byte{'/'}

func itemBucketPath(venue []byte, date time.Time) []byte {
	pathEl := [][]byte{
		venue,
		[]byte(date.Format("06")),
		[]byte(date.Format("01")),
		[]byte(date.Format("02")),
		[]byte(date.Format("15")),
		[]byte(date.Format("04")),
	}
	return bytes.Join(pathEl, pathSeparator)
}

func getCursorPaths(c storage.DateCursor, venue []byte) ([]byte, []byte) {
	var min, max []byte
	if c.D < 0 {
		max = itemBucketPath(venue, c.T)
		min = itemBucketPath(venue, c.T.Add(c.D))
	} else {
		min = itemBucketPath(venue, c.T)
		max = itemBucketPath(venue, c.T.Add(c.D))
	}
	return min, max
}

// LoadEvent returns the stored event with the given id around the passed
// date, or the zero event when missing.
func (r *repo) LoadEvent(venue string, date time.Time, id int64) calendar.Event {
	events, err := r.LoadEvents(storage.Cursor(date.Add(-time.Minute), 2*time.Minute), venue)
	if err != nil {
		r.err("error loading events: %s", err)
	}
	for _, event := range events {
		if event.CalID == id {
			return event
		}
	}
	return calendar.Event{}
}

func (r *repo) LoadEvents(cursor storage.DateCursor, venues ...string) (calendar.Events, error) {
	if err := r.open(); err != nil {
		return nil, err
	}
	defer r.close()

	if len(venues) == 0 {
		venues = calendar.DefaultCalendars
	}

	events := make(calendar.Events, 0)
	err := r.d.View(func(tx *bolt.Tx) error {
		rb := tx.Bucket(r.root)
		if rb == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		for _, venue := range venues {
			min, max := getCursorPaths(cursor, []byte(venue))
			events = append(events, loadFromBucketRecursive(rb, min, max)...)
		}
		return nil
	})
	return events, err
}

func splitPath(path []byte) ([]byte, []byte) {
	if len(path) == 0 {
		return nil, nil
	}
	pieces := bytes.SplitN(path, pathSeparator, 2)
	if len(pieces) == 1 {
		return pieces[0], nil
	}
	return pieces[0], pieces[1]
}

// loadFromBucketRecursive walks the bucket tree between the min and max
// paths, carrying the relevant bound fragment down only into the boundary
// buckets themselves. Buckets strictly inside the range are read whole.
func loadFromBucketRecursive(b *bolt.Bucket, min, max []byte) calendar.Events {
	events := make(calendar.Events, 0)
	if b == nil {
		return events
	}
	minHead, minRest := splitPath(min)
	maxHead, maxRest := splitPath(max)

	c := b.Cursor()
	first := func() ([]byte, []byte) { return c.First() }
	if minHead != nil {
		first = func() ([]byte, []byte) { return c.Seek(minHead) }
	}
	compare := func(k []byte) bool { return k != nil }
	if maxHead != nil {
		compare = func(k []byte) bool { return k != nil && bytes.Compare(k, maxHead) <= 0 }
	}
	for key, raw := first(); compare(key); key, raw = c.Next() {
		if raw == nil {
			var childMin, childMax []byte
			if bytes.Equal(key, minHead) {
				childMin = minRest
			}
			if bytes.Equal(key, maxHead) {
				childMax = maxRest
			}
			events = append(events, loadFromBucketRecursive(b.Bucket(key), childMin, childMax)...)
			continue
		}
		ev, err := loadItem(raw)
		if err != nil {
			continue
		}
		if ev.IsValid() {
			events = append(events, ev)
		}
	}
	return events
}

func loadItem(raw []byte) (calendar.Event, error) {
	ev := calendar.Event{}
	if len(raw) == 0 {
		return ev, fmt.Errorf("empty raw item")
	}
	err := json.Unmarshal(raw, &ev)
	return ev, err
}

func descendInBucket(root *bolt.Bucket, path []byte, create bool) (*bolt.Bucket, error) {
	if root == nil {
		return nil, fmt.Errorf("trying to descend into nil bucket")
	}
	if len(path) == 0 {
		return root, nil
	}

	b := root
	for _, name := range bytes.Split(path, pathSeparator) {
		if len(name) == 0 {
			continue
		}
		var cb *bolt.Bucket
		var err error
		if create {
			if cb, err = b.CreateBucketIfNotExists(name); err != nil {
				return nil, err
			}
		} else {
			cb = b.Bucket(name)
		}
		if cb == nil {
			return nil, fmt.Errorf("missing bucket %s in path %s", name, path)
		}
		b = cb
	}
	return b, nil
}

func (r *repo) SaveEvents(events calendar.Events) error {
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()

	var err error
	for _, ev := range events {
		if err = r.save(ev); err != nil {
			r.err("error saving event %d: %s", ev.CalID, err)
		}
	}
	return err
}

func (r *repo) SaveEvent(ev calendar.Event) error {
	if err := r.open(); err != nil {
		return err
	}
	defer r.close()
	return r.save(ev)
}

// save upserts one event. An unchanged stored copy is left alone so
// LastModified only moves on real changes.
func (r *repo) save(ev calendar.Event) error {
	venue := calendar.LabelLandmark
	if len(ev.TagNames) > 0 && calendar.ValidType(ev.TagNames[0]) {
		venue = ev.TagNames[0]
	}
	path := itemBucketPath([]byte(venue), ev.StartTime)

	return r.d.Update(func(tx *bolt.Tx) error {
		root := tx.Bucket(r.root)
		if root == nil {
			return fmt.Errorf("invalid bucket %s", r.root)
		}
		if !root.Writable() {
			return fmt.Errorf("non writeable bucket %s", r.root)
		}
		b, err := descendInBucket(root, path, true)
		if err != nil {
			return fmt.Errorf("unable to find %s in root bucket: %w", path, err)
		}
		if !b.Writable() {
			return fmt.Errorf("non writeable bucket %s", path)
		}

		objectID := []byte(fmt.Sprintf("%d", ev.CalID))
		if raw := b.Get(objectID); raw != nil {
			if old, err := loadItem(raw); err == nil && old.Equals(ev) {
				r.log("event %d unchanged, skipping", ev.CalID)
				return nil
			}
		}
		entryBytes, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("could not marshal object: %w", err)
		}
		if err = b.Put(objectID, entryBytes); err != nil {
			return fmt.Errorf("could not store encoded object: %w", err)
		}
		return nil
	})
}
