package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"
)

const localDateLayout = "2006-01-02"

// LocalDate is a calendar date with no time-of-day and no timezone.
// It marshals to and from plain "YYYY-MM-DD" strings on the wire and
// in the database.
type LocalDate struct {
	t time.Time
}

// ParseLocalDate parses a "YYYY-MM-DD" string.
func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.ParseInLocation(localDateLayout, s, time.Local)
	if err != nil {
		return LocalDate{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return LocalDate{t: t}, nil
}

// MustLocalDate is a ParseLocalDate that panics on bad input. Test helper.
func MustLocalDate(s string) LocalDate {
	d, err := ParseLocalDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Today returns the current date in the local timezone.
func Today() LocalDate {
	return DateOf(time.Now())
}

// DateOf truncates a time.Time to its local calendar date.
func DateOf(t time.Time) LocalDate {
	y, m, d := t.Local().Date()
	return LocalDate{t: time.Date(y, m, d, 0, 0, 0, 0, time.Local)}
}

func (d LocalDate) String() string { return d.t.Format(localDateLayout) }

func (d LocalDate) IsZero() bool { return d.t.IsZero() }

func (d LocalDate) Year() int { return d.t.Year() }

func (d LocalDate) Month() time.Month { return d.t.Month() }

func (d LocalDate) Day() int { return d.t.Day() }

func (d LocalDate) Before(other LocalDate) bool { return d.t.Before(other.t) }
func (d LocalDate) After(other LocalDate) bool  { return d.t.After(other.t) }
func (d LocalDate) Equal(other LocalDate) bool  { return d.t.Equal(other.t) }

// AddDays returns the date n days later (earlier for negative n).
func (d LocalDate) AddDays(n int) LocalDate {
	return DateOf(d.t.AddDate(0, 0, n))
}

// DaysBetween returns the number of calendar days from a to b.
// Negative when b is before a. Rounding absorbs DST transitions, which
// make some local days 23 or 25 hours long.
func DaysBetween(a, b LocalDate) int {
	return int(math.Round(b.t.Sub(a.t).Hours() / 24))
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *LocalDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = LocalDate{}
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so gorm stores the date as text.
func (d LocalDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *LocalDate) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = LocalDate{}
		return nil
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into LocalDate", src)
	}
}

func (d *LocalDate) scanString(s string) error {
	if s == "" {
		*d = LocalDate{}
		return nil
	}
	// SQLite may hand back a full timestamp for columns written by
	// other tools; take the date part.
	if len(s) > len(localDateLayout) {
		s = s[:len(localDateLayout)]
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
