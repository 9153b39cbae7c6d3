package schedule

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Entry is the departure summary for one line/direction at a stop.
type Entry struct {
	Line             string
	NextBus          string // HH:MM, empty when nothing remains today
	FollowingBus     string
	Destination      string
	MinutesRemaining int
	HasNext          bool
}

// MarshalJSON emits the wire shape, with "N/A" placeholders for absent fields.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := struct {
		Line      string `json:"linea"`
		Next      string `json:"proximo_bus"`
		Following string `json:"siguiente_bus"`
		Dest      string `json:"destino"`
		Minutes   any    `json:"minutos_restantes"`
	}{
		Line:      e.Line,
		Next:      "N/A",
		Following: "N/A",
		Dest:      "N/A",
		Minutes:   "N/A",
	}
	if e.HasNext {
		out.Next = e.NextBus
		out.Dest = e.Destination
		out.Minutes = e.MinutesRemaining
		if e.FollowingBus != "" {
			out.Following = e.FollowingBus
		}
	}
	return json.Marshal(out)
}

// nextDepartures finds the next two departures for one line at one stop and
// the minutes remaining until the first. nowClock is now formatted as
// HH:MM:SS; lexicographic comparison on zero-padded times orders the day
// correctly and puts >= 24:00 times after every same-day time.
func nextDepartures(rows []timetableRow, ln line, stopID int, now time.Time, nowClock string) Entry {
	var upcoming []string
	for _, row := range rows {
		if row.StopID != stopID || row.RouteID != ln.RouteID || row.Headsign != ln.Headsign {
			continue
		}
		if row.DepartureTime > nowClock {
			upcoming = append(upcoming, row.DepartureTime)
		}
	}

	entry := Entry{Line: ln.ShortName}
	if len(upcoming) == 0 {
		return entry
	}
	sort.Strings(upcoming)

	entry.HasNext = true
	entry.NextBus = clockPrefix(upcoming[0])
	entry.Destination = ln.Headsign
	entry.MinutesRemaining = minutesUntil(upcoming[0], now)
	if len(upcoming) > 1 {
		entry.FollowingBus = clockPrefix(upcoming[1])
	}
	return entry
}

// minutesUntil converts a GTFS departure time to whole minutes after now.
// Hours >= 24 denote post-midnight trips of the same service day: the hour is
// normalized modulo 24 and the overflow carried as whole days. A candidate
// still earlier than now rolls over to the next day.
func minutesUntil(departure string, now time.Time) int {
	var h, m, s int
	fmt.Sscanf(departure, "%d:%d:%d", &h, &m, &s)

	candidate := time.Date(now.Year(), now.Month(), now.Day(), h%24, m, 0, 0, now.Location())
	candidate = candidate.AddDate(0, 0, h/24)
	if candidate.Before(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return int(candidate.Sub(now).Seconds()) / 60
}

// clockPrefix clips HH:MM:SS to HH:MM for display.
func clockPrefix(t string) string {
	if len(t) > 5 {
		return t[:5]
	}
	return t
}
