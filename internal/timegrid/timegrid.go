// Package timegrid provides the civil-time arithmetic used by the
// scheduling engine: minute-of-day clocks, half-open intervals on a
// single day, and the Monday-through-Saturday teaching week.
package timegrid

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
)

// Day identifies a teaching day. Days order Mon < Tue < Wed < Thu < Fri < Sat.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = map[Day]string{
	Monday:    "MON",
	Tuesday:   "TUE",
	Wednesday: "WED",
	Thursday:  "THU",
	Friday:    "FRI",
	Saturday:  "SAT",
}

var dayValues = map[string]Day{
	"MON": Monday,
	"TUE": Tuesday,
	"WED": Wednesday,
	"THU": Thursday,
	"FRI": Friday,
	"SAT": Saturday,
}

// Weekdays returns Monday through Friday in order.
func Weekdays() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday}
}

// Valid reports whether d is one of the six teaching days.
func (d Day) Valid() bool {
	_, ok := dayNames[d]
	return ok
}

// IsWeekday reports whether d falls on Monday through Friday.
func (d Day) IsWeekday() bool {
	return d >= Monday && d <= Friday
}

// String returns the canonical short name (MON..SAT).
func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("DAY(%d)", int(d))
}

// ParseDay converts a short day name into a Day.
func ParseDay(name string) (Day, error) {
	if day, ok := dayValues[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("timegrid: unknown day %q", name)
}

// Value implements driver.Valuer so Day round-trips as its short name.
func (d Day) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("timegrid: invalid day %d", int(d))
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Day) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		day, err := ParseDay(v)
		if err != nil {
			return err
		}
		*d = day
		return nil
	case []byte:
		day, err := ParseDay(string(v))
		if err != nil {
			return err
		}
		*d = day
		return nil
	case int64:
		day := Day(v)
		if !day.Valid() {
			return fmt.Errorf("timegrid: invalid day %d", v)
		}
		*d = day
		return nil
	default:
		return fmt.Errorf("timegrid: cannot scan %T into Day", src)
	}
}

// Clock is a minute offset from midnight of a single civil day.
type Clock int

// ParseClock parses a "HH:MM" literal into a Clock.
func ParseClock(raw string) (Clock, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("timegrid: malformed clock %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("timegrid: malformed clock %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("timegrid: malformed clock %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("timegrid: clock %q out of range", raw)
	}
	return Clock(hours*60 + minutes), nil
}

// MustClock parses a "HH:MM" literal and panics on failure. For
// package-level constants and tests only.
func MustClock(raw string) Clock {
	c, err := ParseClock(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String renders the clock back into "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval is a half-open [Start, End) span of minutes within one day.
type Interval struct {
	Start Clock
	End   Clock
}

// NewInterval builds an interval, rejecting empty or inverted spans.
func NewInterval(start, end Clock) (Interval, error) {
	if end <= start {
		return Interval{}, fmt.Errorf("timegrid: interval %s-%s is not ascending", start, end)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseInterval parses a pair of "HH:MM" literals into an interval.
func ParseInterval(start, end string) (Interval, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(s, e)
}

// Overlaps reports whether two half-open intervals intersect.
func (iv Interval) Overlaps(other Interval) bool {
	return !(iv.End <= other.Start || iv.Start >= other.End)
}

// Minutes returns the interval duration in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

// GapTo returns the number of vacant minutes between iv and a later
// interval, or zero when they touch or overlap.
func (iv Interval) GapTo(later Interval) int {
	if later.Start <= iv.End {
		return 0
	}
	return int(later.Start - iv.End)
}

// String renders the interval as "HH:MM-HH:MM".
func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}
