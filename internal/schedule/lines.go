package schedule

import "buspredictor/internal/gtfs"

// line is one (route, destination) pair observed at a stop. A route with two
// opposite-direction variants yields one line per headsign.
type line struct {
	RouteID   string
	ShortName string
	Headsign  string
}

// linesAtStop lists the distinct lines serving a stop in the effective
// timetable, in first-seen order. The route short name is resolved by a left
// join against routes.txt; a missing route leaves it empty rather than
// failing.
func linesAtStop(rows []timetableRow, routes []gtfs.Route, stopID int) []line {
	shortNames := make(map[string]string, len(routes))
	for _, r := range routes {
		shortNames[r.RouteID] = r.RouteShortName
	}

	type lineKey struct {
		routeID  string
		headsign string
	}
	seen := make(map[lineKey]bool)
	var lines []line
	for _, row := range rows {
		if row.StopID != stopID {
			continue
		}
		key := lineKey{row.RouteID, row.Headsign}
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, line{
			RouteID:   row.RouteID,
			ShortName: shortNames[row.RouteID],
			Headsign:  row.Headsign,
		})
	}
	return lines
}
