package api

import (
	"net/http"
	"strconv"
)

// LeaderboardHandler serves the public leaderboard and score screens.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard?limit=N&q=name requests.
// limit is optional; when present it must be a positive integer.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}
	entries, err := h.deps.Leaderboard(r.Context(), limit, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleGetParticipation handles GET /members/{id}/participation requests.
func (h *LeaderboardHandler) HandleGetParticipation(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_participation"
	p, err := h.deps.Participation(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleLookupMember handles GET /members/lookup?name= requests.
func (h *LeaderboardHandler) HandleLookupMember(w http.ResponseWriter, r *http.Request) {
	const op = "api.lookup_member"
	profile, err := h.deps.LookupMember(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
