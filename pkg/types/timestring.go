package types

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"
)

// timeLayout is the wall-clock format used across the service ("HH:MM").
const timeLayout = "15:04"

var (
	// ErrInvalidTimeString is returned when a string does not parse as HH:MM.
	ErrInvalidTimeString = errors.New("types: invalid time string format, expected HH:MM")
)

// TimeString is a wall-clock time of day ("08:00", "17:30") without a date or
// timezone attached. It is used for recurring schedules where only the local
// clock reading matters; conversion to absolute time happens at the point
// where a concrete date and location are known.
type TimeString string

// NewTimeString extracts the wall-clock reading from t.
func NewTimeString(t time.Time) TimeString {
	return TimeString(t.Format(timeLayout))
}

// NewTimeStringFromString parses and validates an "HH:MM" string.
func NewTimeStringFromString(s string) (TimeString, error) {
	if _, err := time.Parse(timeLayout, s); err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, s)
	}
	return TimeString(s), nil
}

// String returns the "HH:MM" representation.
func (t TimeString) String() string {
	return string(t)
}

// IsZero reports whether the value is unset.
func (t TimeString) IsZero() bool {
	return t == ""
}

// Validate checks that the value parses as HH:MM.
func (t TimeString) Validate() error {
	if _, err := time.Parse(timeLayout, string(t)); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return nil
}

// IsBefore reports whether t is strictly earlier on the clock than other.
func (t TimeString) IsBefore(other TimeString) bool {
	return string(t) < string(other)
}

// IsAfter reports whether t is strictly later on the clock than other.
func (t TimeString) IsAfter(other TimeString) bool {
	return string(t) > string(other)
}

// Minutes returns the value as minutes since midnight.
func (t TimeString) Minutes() (int, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

// AddMinutes returns the clock reading m minutes later. The result wraps at
// midnight, mirroring how the value would read on a wall clock.
func (t TimeString) AddMinutes(m int) (TimeString, error) {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeString, string(t))
	}
	return TimeString(parsed.Add(time.Duration(m) * time.Minute).Format(timeLayout)), nil
}

// At anchors the wall-clock reading to a concrete date in the given location
// and returns the resulting absolute instant. Values are validated when
// created or scanned; a malformed value yields the zero time, which reads as
// an empty interval downstream.
func (t TimeString) At(date time.Time, loc *time.Location) time.Time {
	parsed, err := time.Parse(timeLayout, string(t))
	if err != nil {
		return time.Time{}
	}
	y, mo, d := date.In(loc).Date()
	return time.Date(y, mo, d, parsed.Hour(), parsed.Minute(), 0, 0, loc)
}

// Value implements driver.Valuer so TimeString columns can be written directly.
func (t TimeString) Value() (driver.Value, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return string(t), nil
}

// Scan implements sql.Scanner. Accepts TIME columns (time.Time), strings and
// byte slices; postgres TIME values arrive as "HH:MM:SS" and are truncated.
func (t *TimeString) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = ""
		return nil
	case time.Time:
		*t = NewTimeString(v)
		return nil
	case string:
		return t.scanString(v)
	case []byte:
		return t.scanString(string(v))
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidTimeString, src)
	}
}

func (t *TimeString) scanString(s string) error {
	if len(s) > 5 {
		s = s[:5]
	}
	parsed, err := NewTimeStringFromString(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
