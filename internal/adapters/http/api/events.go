package api

import (
	"context"
	"net/http"

	"github.com/okian/clubboard/internal/domain/model"
)

// EventDependencies defines the event management operations.
type EventDependencies interface {
	ListEvents(ctx context.Context, actor model.Actor, query string) ([]model.Event, error)
	GetEvent(ctx context.Context, actor model.Actor, id string) (model.Event, error)
	CreateEvent(ctx context.Context, actor model.Actor, ev model.Event) (model.Event, error)
	UpdateEvent(ctx context.Context, actor model.Actor, ev model.Event) (model.Event, error)
	DeleteEvent(ctx context.Context, actor model.Actor, id string) error
}

// eventRequest is the body of POST /events and PUT /events/{id}.
// Point fields accept numbers or numeric strings; anything else is unset.
type eventRequest struct {
	Name         string   `json:"name" validate:"required,max=200"`
	Date         string   `json:"date" validate:"max=40"`
	Venue        string   `json:"venue" validate:"max=200"`
	Mode         string   `json:"mode" validate:"max=40"`
	Type         string   `json:"type" validate:"max=80"`
	Description  string   `json:"description" validate:"max=4000"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url"`
	Coordinators []string `json:"coordinators" validate:"dive,max=64"`
	Volunteers   []string `json:"volunteers" validate:"dive,max=64"`
	Attendees    []string `json:"attendees" validate:"dive,max=64"`

	CoordinatorPoints model.Points `json:"points_coordinator"`
	VolunteerPoints   model.Points `json:"points_volunteer"`
	AttendeePoints    model.Points `json:"points_attendee"`
}

func (e *eventRequest) toModel(id string) model.Event {
	return model.Event{
		ID:                id,
		Name:              e.Name,
		Date:              e.Date,
		Venue:             e.Venue,
		Mode:              e.Mode,
		Type:              e.Type,
		Description:       e.Description,
		ImageURL:          e.ImageURL,
		Coordinators:      model.NewRoleSet(e.Coordinators...),
		Volunteers:        model.NewRoleSet(e.Volunteers...),
		Attendees:         model.NewRoleSet(e.Attendees...),
		CoordinatorPoints: e.CoordinatorPoints,
		VolunteerPoints:   e.VolunteerPoints,
		AttendeePoints:    e.AttendeePoints,
	}
}

// EventsHandler handles event management requests.
type EventsHandler struct {
	deps EventDependencies
	idem Idempotency
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies, idem Idempotency) *EventsHandler {
	return &EventsHandler{deps: deps, idem: idem}
}

// HandleListEvents handles GET /events?q= requests.
func (h *EventsHandler) HandleListEvents(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.list_events"
	events, err := h.deps.ListEvents(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// HandleGetEvent handles GET /events/{id} requests.
func (h *EventsHandler) HandleGetEvent(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.get_event"
	ev, err := h.deps.GetEvent(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleCreateEvent handles POST /events requests.
func (h *EventsHandler) HandleCreateEvent(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.create_event"
	var req eventRequest
	if err := decodeAndValidate(op, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	withIdempotency(w, r, h.idem, actor, func() error {
		ev, err := h.deps.CreateEvent(r.Context(), actor, req.toModel(""))
		if err != nil {
			writeServiceError(w, r, op, Wrap(op, err))
			return err
		}
		writeJSON(w, http.StatusCreated, ev)
		return nil
	})
}

// HandleUpdateEvent handles PUT /events/{id} requests.
func (h *EventsHandler) HandleUpdateEvent(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.update_event"
	var req eventRequest
	if err := decodeAndValidate(op, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	ev, err := h.deps.UpdateEvent(r.Context(), actor, req.toModel(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// HandleDeleteEvent handles DELETE /events/{id} requests.
func (h *EventsHandler) HandleDeleteEvent(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.delete_event"
	if err := h.deps.DeleteEvent(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
