package gtfs

// The six tables the schedule engine consumes, one struct per GTFS file.
// Only the columns the engine reads are mapped; extra columns in the source
// files are ignored by the CSV decoder.

// Stop identifiers are usually numeric but feeds may carry arbitrary strings
// (station entrances, agency-prefixed codes). They are kept as text here and
// converted where numeric lookups are built; non-numeric ids are skipped
// there rather than failing the load.

type Stop struct {
	StopID   string  `csv:"stop_id"`
	StopName string  `csv:"stop_name"`
	StopLat  float64 `csv:"stop_lat"`
	StopLon  float64 `csv:"stop_lon"`
}

type StopTime struct {
	TripID        string `csv:"trip_id"`
	DepartureTime string `csv:"departure_time"` // HH:MM:SS, may exceed 24:00:00
	StopID        string `csv:"stop_id"`
}

type Trip struct {
	TripID       string `csv:"trip_id"`
	ServiceID    string `csv:"service_id"`
	RouteID      string `csv:"route_id"`
	TripHeadsign string `csv:"trip_headsign"`
}

type CalendarEntry struct {
	ServiceID string `csv:"service_id"`
	Monday    int    `csv:"monday"`
	Tuesday   int    `csv:"tuesday"`
	Wednesday int    `csv:"wednesday"`
	Thursday  int    `csv:"thursday"`
	Friday    int    `csv:"friday"`
	Saturday  int    `csv:"saturday"`
	Sunday    int    `csv:"sunday"`
	StartDate int    `csv:"start_date"`
	EndDate   int    `csv:"end_date"`
}

// CalendarDate is a dated exception to the weekly calendar.
type CalendarDate struct {
	ServiceID     string `csv:"service_id"`
	Date          int    `csv:"date"` // YYYYMMDD
	ExceptionType int    `csv:"exception_type"`
}

// calendar_dates.txt exception types.
const (
	ExceptionAdded   = 1
	ExceptionRemoved = 2
)

type Route struct {
	RouteID        string `csv:"route_id"`
	RouteShortName string `csv:"route_short_name"`
	RouteLongName  string `csv:"route_long_name"`
}
