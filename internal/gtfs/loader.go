package gtfs

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/gocarina/gocsv"
)

// tableFiles lists the GTFS text tables the engine needs.
var tableFiles = []string{
	"stops.txt",
	"stop_times.txt",
	"trips.txt",
	"calendar.txt",
	"calendar_dates.txt",
	"routes.txt",
}

// Tables holds the immutable in-memory GTFS tables. They are loaded once per
// process and never mutated, so they are safe for concurrent readers.
type Tables struct {
	Stops         []Stop
	StopTimes     []StopTime
	Trips         []Trip
	Calendar      []CalendarEntry
	CalendarDates []CalendarDate
	Routes        []Route

	stopsByID map[int]Stop
}

var csvReaderSetup sync.Once

// LoadDir reads the six GTFS tables from a directory of .txt files.
// Any missing or malformed file fails the whole load.
func LoadDir(dir string, logger *slog.Logger) (*Tables, error) {
	csvReaderSetup.Do(func() {
		// Tolerate records with missing trailing columns and quoting quirks.
		gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
			r := csv.NewReader(stripBOM(in))
			r.FieldsPerRecord = -1
			r.LazyQuotes = true
			r.TrimLeadingSpace = true
			return r
		})
	})

	t := &Tables{}
	destinations := map[string]any{
		"stops.txt":          &t.Stops,
		"stop_times.txt":     &t.StopTimes,
		"trips.txt":          &t.Trips,
		"calendar.txt":       &t.Calendar,
		"calendar_dates.txt": &t.CalendarDates,
		"routes.txt":         &t.Routes,
	}

	for _, name := range tableFiles {
		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		err = gocsv.Unmarshal(f, destinations[name])
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	t.buildIndex()

	logger.Info("GTFS tables loaded",
		"stops", len(t.Stops),
		"stop_times", len(t.StopTimes),
		"trips", len(t.Trips),
		"calendar", len(t.Calendar),
		"calendar_dates", len(t.CalendarDates),
		"routes", len(t.Routes),
	)
	return t, nil
}

// NewTables assembles a Tables value from already-parsed rows and builds its
// lookup index. Production code loads through LoadDir; this exists for
// callers that assemble tables in memory.
func NewTables(stops []Stop, stopTimes []StopTime, trips []Trip, calendar []CalendarEntry, calendarDates []CalendarDate, routes []Route) *Tables {
	t := &Tables{
		Stops:         stops,
		StopTimes:     stopTimes,
		Trips:         trips,
		Calendar:      calendar,
		CalendarDates: calendarDates,
		Routes:        routes,
	}
	t.buildIndex()
	return t
}

func (t *Tables) buildIndex() {
	t.stopsByID = make(map[int]Stop, len(t.Stops))
	for _, s := range t.Stops {
		n, err := strconv.Atoi(strings.TrimSpace(s.StopID))
		if err != nil {
			// Non-numeric ids can't be requested; they stay out of the index.
			continue
		}
		t.stopsByID[n] = s
	}
}

// StopByID looks up a stop by its numeric identifier.
func (t *Tables) StopByID(id int) (Stop, bool) {
	s, ok := t.stopsByID[id]
	return s, ok
}

// stripBOM removes a UTF-8 byte order mark from the start of the stream.
func stripBOM(in io.Reader) io.Reader {
	br := bufio.NewReader(in)
	if b, err := br.Peek(3); err == nil && b[0] == 0xef && b[1] == 0xbb && b[2] == 0xbf {
		br.Discard(3)
	}
	return br
}
