package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"buspredictor/internal/gtfs"
)

// ErrNoService is the terminal result for a day with an empty active-service
// set: nothing runs, so no per-stop processing happens at all.
var ErrNoService = errors.New("no services scheduled for today")

// StopID carries a requested stop identifier in both its original raw form
// and the numeric key used against stops.txt.
type StopID struct {
	Raw     string
	Numeric int
}

var nonDigits = regexp.MustCompile(`\D`)

// ParseStopID normalizes a raw identifier: a plain integer parses directly;
// otherwise all non-digit characters are stripped (so "TUS_14165" becomes
// 14165). An identifier with no digits at all is rejected.
func ParseStopID(raw string) (StopID, error) {
	trimmed := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return StopID{Raw: trimmed, Numeric: n}, nil
	}
	digits := nonDigits.ReplaceAllString(trimmed, "")
	if digits == "" {
		return StopID{}, fmt.Errorf("identifier %q is purely non-numeric", trimmed)
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return StopID{}, fmt.Errorf("identifier %q has no usable numeric component", trimmed)
	}
	return StopID{Raw: trimmed, Numeric: n}, nil
}

// StopResult is the per-stop success payload.
type StopResult struct {
	StopName   string  `json:"nombre_parada"`
	StopID     string  `json:"stop_id"`
	Departures []Entry `json:"horarios_ordenados"`
}

// StopError is the per-stop failure payload. One bad identifier never fails
// the rest of the batch.
type StopError struct {
	Error string `json:"error"`
}

// Schedules resolves the next departures for every requested stop identifier,
// keyed by the raw identifier as supplied. It returns ErrNoService when the
// active-service set for the day is empty. now must be captured once by the
// caller: service-day resolution and minutes-remaining use the same instant.
func Schedules(t *gtfs.Tables, rawIDs []string, now time.Time) (map[string]any, error) {
	active := ActiveServices(t, now)
	if len(active) == 0 {
		return nil, ErrNoService
	}
	rows := buildTimetable(t, active)
	nowClock := now.Format("15:04:05")

	results := make(map[string]any, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := ParseStopID(raw)
		if err != nil {
			results[strings.TrimSpace(raw)] = StopError{Error: err.Error()}
			continue
		}

		stop, ok := t.StopByID(id.Numeric)
		if !ok {
			results[id.Raw] = StopError{
				Error: fmt.Sprintf("numeric id %d (derived from %q) not found in stops.txt", id.Numeric, id.Raw),
			}
			continue
		}

		// Lines with nothing left to depart are computed (the calculator
		// still emits their placeholder form) but stay out of the ranked list.
		var departures []Entry
		for _, ln := range linesAtStop(rows, t.Routes, id.Numeric) {
			entry := nextDepartures(rows, ln, id.Numeric, now, nowClock)
			if entry.HasNext {
				departures = append(departures, entry)
			}
		}
		sort.SliceStable(departures, func(i, j int) bool {
			return departures[i].MinutesRemaining < departures[j].MinutesRemaining
		})

		results[id.Raw] = StopResult{
			StopName:   stop.StopName,
			StopID:     id.Raw,
			Departures: departures,
		}
	}
	return results, nil
}
