package schedule

import (
	"time"

	"buspredictor/internal/gtfs"
)

// ActiveServices resolves the set of service ids operating on the day of now.
// Base services come from the weekday flags in calendar.txt; the start/end
// date bounds are intentionally not consulted. ADDED exceptions for the date
// are unioned in, then REMOVED exceptions take everything they name out, so a
// removal always wins over a weekday match or an addition on the same date.
func ActiveServices(t *gtfs.Tables, now time.Time) map[string]struct{} {
	active := make(map[string]struct{})
	for _, c := range t.Calendar {
		if weekdayFlag(c, now.Weekday()) == 1 {
			active[c.ServiceID] = struct{}{}
		}
	}

	today := gtfsDate(now)
	for _, cd := range t.CalendarDates {
		if cd.Date == today && cd.ExceptionType == gtfs.ExceptionAdded {
			active[cd.ServiceID] = struct{}{}
		}
	}
	for _, cd := range t.CalendarDates {
		if cd.Date == today && cd.ExceptionType == gtfs.ExceptionRemoved {
			delete(active, cd.ServiceID)
		}
	}
	return active
}

// gtfsDate converts a time to the YYYYMMDD integer form used by calendar_dates.txt.
func gtfsDate(now time.Time) int {
	return now.Year()*10000 + int(now.Month())*100 + now.Day()
}

func weekdayFlag(c gtfs.CalendarEntry, wd time.Weekday) int {
	switch wd {
	case time.Monday:
		return c.Monday
	case time.Tuesday:
		return c.Tuesday
	case time.Wednesday:
		return c.Wednesday
	case time.Thursday:
		return c.Thursday
	case time.Friday:
		return c.Friday
	case time.Saturday:
		return c.Saturday
	default:
		return c.Sunday
	}
}
