package reconcile

import "time"

const dayLayout = "2006-01-02"

// Day is a calendar date counted in days since 1970-01-01.
type Day int

// DayOf returns the calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	u := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Day(u.Unix() / 86400)
}

// ParseDay parses a YYYY-MM-DD date.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return 0, err
	}
	return DayOf(t), nil
}

// Time returns midnight UTC on d.
func (d Day) Time() time.Time {
	return time.Unix(int64(d)*86400, 0).UTC()
}

// String formats d as YYYY-MM-DD.
func (d Day) String() string {
	return d.Time().Format(dayLayout)
}
