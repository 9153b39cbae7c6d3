package groups

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Directory is the whole remote configuration document: user key → named
// groups of stops.
type Directory map[string]UserGroups

// UserGroups is one user's named stop groups.
type UserGroups map[string]Group

// Group is a named set of stops with an optional reference point.
type Group struct {
	Coords string    `json:"coords,omitempty" validate:"omitempty,min=3"`
	Stops  []StopRef `json:"stops" validate:"dive,required"`
}

// StopRef is a stop identifier as it appears in the configuration, where
// plain numbers and prefixed strings like "TUS_14165" are both in use.
type StopRef string

// UnmarshalJSON accepts both JSON string and JSON number forms.
func (s *StopRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = StopRef(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("stop identifier must be a string or number: %w", err)
	}
	*s = StopRef(n.String())
	return nil
}

// parseCoords splits a "lat,lon" string into coordinates.
func parseCoords(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("coordinates %q are not in lat,lon form", s)
	}
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude in %q: %w", s, err)
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude in %q: %w", s, err)
	}
	return lat, lon, nil
}
