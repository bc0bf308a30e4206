// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/clubboard/internal/adapters/http/auth"
	"github.com/okian/clubboard/internal/adapters/repository"
	service "github.com/okian/clubboard/internal/app"
	"github.com/okian/clubboard/internal/domain/access"
	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/types"
	"github.com/okian/clubboard/pkg/logger"
)

// Idempotency keys of create requests are read from this header.
const idempotencyHeader = "Idempotency-Key"

// Idempotency is implemented by the service's key store.
type Idempotency interface {
	SeenAndRecord(ctx context.Context, key string) bool
	Unrecord(ctx context.Context, key string)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Idempotency
	LeaderboardDependencies
	EventDependencies
	MemberDependencies
	TallyDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	auth               *auth.Authenticator
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	eventsHandler      *EventsHandler
	membersHandler     *MembersHandler
	tallyHandler       *TallyHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, authenticator *auth.Authenticator) *Server {
	return &Server{
		auth:               authenticator,
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		eventsHandler:      NewEventsHandler(deps, deps),
		membersHandler:     NewMembersHandler(deps, deps),
		tallyHandler:       NewTallyHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /members/lookup", MetricsMiddleware(s.leaderboardHandler.HandleLookupMember, "member_lookup"))
	mux.HandleFunc("GET /members/{id}/participation", MetricsMiddleware(s.leaderboardHandler.HandleGetParticipation, "participation"))

	mux.HandleFunc("GET /events", MetricsMiddleware(RequireActor(s.auth, s.eventsHandler.HandleListEvents), "events"))
	mux.HandleFunc("POST /events", MetricsMiddleware(RequireActor(s.auth, s.eventsHandler.HandleCreateEvent), "events"))
	mux.HandleFunc("GET /events/{id}", MetricsMiddleware(RequireActor(s.auth, s.eventsHandler.HandleGetEvent), "event"))
	mux.HandleFunc("PUT /events/{id}", MetricsMiddleware(RequireActor(s.auth, s.eventsHandler.HandleUpdateEvent), "event"))
	mux.HandleFunc("DELETE /events/{id}", MetricsMiddleware(RequireActor(s.auth, s.eventsHandler.HandleDeleteEvent), "event"))

	mux.HandleFunc("GET /members", MetricsMiddleware(RequireActor(s.auth, s.membersHandler.HandleListMembers), "members"))
	mux.HandleFunc("POST /members", MetricsMiddleware(RequireActor(s.auth, s.membersHandler.HandleCreateMember), "members"))
	mux.HandleFunc("GET /members/summary", MetricsMiddleware(RequireActor(s.auth, s.membersHandler.HandleMemberSummary), "member_summary"))
	mux.HandleFunc("PUT /members/{id}", MetricsMiddleware(RequireActor(s.auth, s.membersHandler.HandleUpdateMember), "member"))
	mux.HandleFunc("DELETE /members/{id}", MetricsMiddleware(RequireActor(s.auth, s.membersHandler.HandleDeleteMember), "member"))

	mux.HandleFunc("POST /tally", MetricsMiddleware(RequireActor(s.auth, s.tallyHandler.HandleRequestTally), "tally"))
}

type ackResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Compile-time check that the service satisfies the handler contracts.
var _ Dependencies = (*service.Service)(nil)

// ActorHandler is a handler that runs on behalf of an authenticated actor.
type ActorHandler func(w http.ResponseWriter, r *http.Request, actor model.Actor)

// LeaderboardDependencies defines the public read operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int, query string) ([]types.LeaderboardEntry, error)
	Participation(ctx context.Context, memberID string) (types.Participation, error)
	LookupMember(ctx context.Context, name string) (types.MemberProfile, error)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps service and store errors to a status and code.
// Unexpected errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, service.ErrInvalidLimit),
		errors.Is(err, service.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, access.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err)
	case errors.Is(err, ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	default:
		logger.Get().Error(r.Context(), "request failed",
			logger.String("op", op),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// withIdempotency runs create once per Idempotency-Key. Keys are scoped to
// the actor, method and path, so the same key on another route or from another
// user is a new request. A repeated key is answered with a duplicate ack; the
// key is released when create fails so the client can retry.
func withIdempotency(w http.ResponseWriter, r *http.Request, idem Idempotency, actor model.Actor, create func() error) {
	key := r.Header.Get(idempotencyHeader)
	if key == "" {
		_ = create()
		return
	}
	key = idempotencyScope(actor, r) + key
	if idem.SeenAndRecord(r.Context(), key) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate"})
		return
	}
	if err := create(); err != nil {
		idem.Unrecord(r.Context(), key)
	}
}

func idempotencyScope(actor model.Actor, r *http.Request) string {
	return actor.Subject + "\x00" + r.Method + "\x00" + r.URL.Path + "\x00"
}
