// Package timeutil formats stored timestamps for display. Every timestamp
// in the database is a naive DATETIME interpreted in one fixed civil
// timezone; funnelling all formatting through this package keeps displays
// consistent no matter where the server runs.
package timeutil

import (
	"fmt"
	"time"
)

// DBFormat is the timestamp layout used by the database layer.
const DBFormat = "2006-01-02 15:04:05"

// zoneName is the single civil timezone the theatre operates in.
const zoneName = "Australia/Adelaide"

var fixedZone = mustLoadZone()

func mustLoadZone() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		// The zone is compile-time constant; a missing tzdata install is a
		// deployment fault and there is no sane fallback display.
		panic(fmt.Sprintf("timeutil: load %s: %v", zoneName, err))
	}
	return loc
}

// Zone returns the fixed theatre timezone.
func Zone() *time.Location {
	return fixedZone
}

// ParseDB parses a database timestamp string in the fixed timezone.
func ParseDB(s string) (time.Time, error) {
	return time.ParseInLocation(DBFormat, s, fixedZone)
}

// FormatDB renders a time as a database timestamp string in the fixed
// timezone.
func FormatDB(t time.Time) string {
	return t.In(fixedZone).Format(DBFormat)
}

// Now returns the current time in the fixed timezone.
func Now() time.Time {
	return time.Now().In(fixedZone)
}

// FormatDate renders the calendar date, e.g. "Fri 18 Oct 2024".
func FormatDate(t time.Time) string {
	return t.In(fixedZone).Format("Mon 2 Jan 2006")
}

// FormatTime renders the wall-clock time, e.g. "19:30".
func FormatTime(t time.Time) string {
	return t.In(fixedZone).Format("15:04")
}

// FormatDateTime renders date and time together, e.g. "Fri 18 Oct 2024 19:30".
func FormatDateTime(t time.Time) string {
	return t.In(fixedZone).Format("Mon 2 Jan 2006 15:04")
}

// IsToday reports whether t falls on the current calendar date in the
// fixed timezone.
func IsToday(t time.Time) bool {
	now := time.Now().In(fixedZone)
	t = t.In(fixedZone)
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// FormatTimeRange renders "15:04 - 15:04", appending " +1 day" when the end
// falls on a later calendar date than the start. Overnight shifts such as
// 23:00-01:00 therefore read "23:00 - 01:00 +1 day".
func FormatTimeRange(start, end time.Time) string {
	start = start.In(fixedZone)
	end = end.In(fixedZone)
	s := start.Format("15:04") + " - " + end.Format("15:04")
	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		s += " +1 day"
	}
	return s
}
