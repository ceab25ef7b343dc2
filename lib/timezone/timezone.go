package timezone

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

var (
	location = time.Local
	lock     sync.RWMutex
)

// Location is the timezone upstream date-only strings are interpreted in.
// Infinite Campus reports dates in the school's local time without an offset.
func Location() *time.Location {
	lock.RLock()
	defer lock.RUnlock()
	return location
}

// SetLocation loads an IANA timezone name (ex. "America/Chicago") as the Location.
// An empty name keeps the current location.
func SetLocation(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	lock.Lock()
	defer lock.Unlock()
	location = loc
	return nil
}

func Now() time.Time {
	return time.Now().In(Location())
}

// StartOfDay returns midnight of the day t falls on in Location.
func StartOfDay(t time.Time) time.Time {
	t = t.In(Location())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, Location())
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02",
	"01/02/2006",
}

// ParseDate parses the date formats the portal uses. Timestamps without an offset are
// interpreted in Location. An empty string returns the zero time and no error.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, value, Location())
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
