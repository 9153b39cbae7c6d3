package handler

import (
	"net/http"
	"strconv"

	"buspredictor/internal/groups"
)

type nearestParams struct {
	Lat float64 `validate:"latitude"`
	Lon float64 `validate:"longitude"`
}

type nearestResponse struct {
	NearestGroup string  `json:"nearest_group"`
	DistanceKm   float64 `json:"distance_km"`
}

// Nearest serves GET /api/nearest: the configured group closest to the
// caller's coordinates.
func (h *Handler) Nearest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	key := q.Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "missing 'key' parameter to identify the user")
		return
	}

	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" || lonStr == "" {
		h.writeError(w, http.StatusBadRequest, "parameters 'lat' and 'lon' are required")
		return
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "parameter 'lat' must be a number")
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "parameter 'lon' must be a number")
		return
	}
	if err := h.validate.Struct(nearestParams{Lat: lat, Lon: lon}); err != nil {
		h.writeError(w, http.StatusBadRequest, "coordinates out of range")
		return
	}

	userGroups, err := h.groups.UserGroups(r.Context(), key)
	if err != nil {
		h.writeGroupsError(w, err)
		return
	}

	name, km, ok := groups.Nearest(userGroups, lat, lon)
	if !ok {
		h.writeMessage(w, "no group with valid coordinates in the user configuration")
		return
	}
	h.writeJSON(w, http.StatusOK, nearestResponse{NearestGroup: name, DistanceKm: km})
}
