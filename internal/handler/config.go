package handler

import "net/http"

// Config serves GET /api/config: the caller's full group configuration,
// passed through as fetched.
func (h *Handler) Config(w http.ResponseWriter, r *http.Request) {
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
	h.writeJSON(w, http.StatusOK, userGroups)
}
