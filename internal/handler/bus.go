package handler

import (
	"errors"
	"fmt"
	"net/http"

	"buspredictor/internal/schedule"
)

// BusSchedules serves GET /api/bus/{group}: the next departures for every
// stop configured in the named group, keyed by the raw stop identifier.
func (h *Handler) BusSchedules(w http.ResponseWriter, r *http.Request) {
	groupName := r.PathValue("group")

	key := r.URL.Query().Get("key")
	if key == "" {
		h.writeError(w, http.StatusBadRequest, "missing 'key' parameter to identify the user")
		return
	}

	userGroups, err := h.groups.UserGroups(r.Context(), key)
	if err != nil {
		h.writeGroupsError(w, err)
		return
	}

	group, ok := userGroups[groupName]
	if !ok {
		h.writeError(w, http.StatusNotFound, fmt.Sprintf("group %q does not exist for this user", groupName))
		return
	}
	if len(group.Stops) == 0 {
		h.writeError(w, http.StatusBadRequest, fmt.Sprintf("group %q has no stops configured", groupName))
		return
	}

	tables, err := h.store.Tables()
	if err != nil {
		h.logger.Error("GTFS tables unavailable", "error", err)
		h.writeError(w, http.StatusInternalServerError, "GTFS data not loaded, try again later")
		return
	}

	rawIDs := make([]string, len(group.Stops))
	for i, s := range group.Stops {
		rawIDs[i] = string(s)
	}

	// One instant for the whole batch: service-day resolution and every
	// minutes-remaining value are computed against the same clock reading.
	now := h.now()
	results, err := schedule.Schedules(tables, rawIDs, now)
	if errors.Is(err, schedule.ErrNoService) {
		h.writeMessage(w, "no services scheduled for today")
		return
	}
	if err != nil {
		h.logger.Error("schedule processing failed", "group", groupName, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal error while processing schedules")
		return
	}
	h.writeJSON(w, http.StatusOK, results)
}
