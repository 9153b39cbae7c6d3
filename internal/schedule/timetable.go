package schedule

import (
	"strconv"

	"buspredictor/internal/gtfs"
)

// timetableRow is one stop_times row joined with its trip: the day's
// effective timetable. Request-scoped, rebuilt on every call.
type timetableRow struct {
	TripID        string
	StopID        int
	DepartureTime string
	RouteID       string
	Headsign      string
}

// buildTimetable inner-joins StopTimes with the trips whose service is
// active today.
func buildTimetable(t *gtfs.Tables, active map[string]struct{}) []timetableRow {
	tripsByID := make(map[string]gtfs.Trip, len(t.Trips))
	for _, trip := range t.Trips {
		if _, ok := active[trip.ServiceID]; ok {
			tripsByID[trip.TripID] = trip
		}
	}

	var rows []timetableRow
	for _, st := range t.StopTimes {
		trip, ok := tripsByID[st.TripID]
		if !ok {
			continue
		}
		// Requests resolve to numeric ids, so rows at non-numeric stops
		// can never match and are left out.
		stopID, err := strconv.Atoi(st.StopID)
		if err != nil {
			continue
		}
		rows = append(rows, timetableRow{
			TripID:        st.TripID,
			StopID:        stopID,
			DepartureTime: st.DepartureTime,
			RouteID:       trip.RouteID,
			Headsign:      trip.TripHeadsign,
		})
	}
	return rows
}
