package timezone

import (
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is where the marketplace operates (Cameroon, WAT).
const DefaultTimezone = "Africa/Douala"

// DateLayout is the day format admin filters accept.
const DateLayout = "2006-01-02"

var marketplace = load(DefaultTimezone)

func load(name string) *time.Location {
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.UTC
}

// Location resolves tz, falling back to the marketplace zone for empty or
// unknown names.
func Location(tz string) *time.Location {
	if tz == "" {
		return marketplace
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	return marketplace
}

// Now is the clock every write path stamps rows with.
func Now() time.Time {
	return time.Now().In(marketplace)
}

// ParseDate reads a YYYY-MM-DD day as local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, marketplace)
}
