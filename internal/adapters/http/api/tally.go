package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/okian/clubboard/internal/adapters/mq/queue"
	"github.com/okian/clubboard/internal/domain/model"
)

// TallyDependencies defines the admin recompute operation.
type TallyDependencies interface {
	RequestTally(ctx context.Context, actor model.Actor) (int, error)
}

type tallyAck struct {
	Status  string `json:"status"`
	Members int    `json:"members"`
}

// TallyHandler queues full recomputes of member totals.
type TallyHandler struct {
	deps TallyDependencies
}

// NewTallyHandler creates a new tally handler.
func NewTallyHandler(deps TallyDependencies) *TallyHandler {
	return &TallyHandler{deps: deps}
}

// HandleRequestTally handles POST /tally. A full queue is answered with 429.
func (h *TallyHandler) HandleRequestTally(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.request_tally"
	n, err := h.deps.RequestTally(r.Context(), actor)
	if err != nil {
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			err = WrapKind(op, ErrBackpressure, err)
		}
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, tallyAck{Status: "accepted", Members: n})
}
