package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/clubboard/internal/domain/model"
	"github.com/okian/clubboard/internal/domain/types"
)

// MemberDependencies defines the member management operations.
type MemberDependencies interface {
	ListMembers(ctx context.Context, actor model.Actor, query string) ([]model.Member, error)
	MemberSummary(ctx context.Context, actor model.Actor, query string) (types.MemberSummary, error)
	CreateMember(ctx context.Context, actor model.Actor, m model.Member) (model.Member, error)
	UpdateMember(ctx context.Context, actor model.Actor, m model.Member) (model.Member, error)
	DeleteMember(ctx context.Context, actor model.Actor, id string) error
}

// memberRequest is the body of POST /members and PUT /members/{id}.
// Counters and points are not accepted; they come from event data.
type memberRequest struct {
	ID         string `json:"id" validate:"max=64"`
	Name       string `json:"name" validate:"required,max=200"`
	Department string `json:"department" validate:"max=120"`
	Batch      string `json:"batch" validate:"max=40"`
	Position   string `json:"position" validate:"max=120"`
	Phone      string `json:"phone_number" validate:"max=32"`
	YearJoined string `json:"year_joined" validate:"max=10"`
	UniqueID   string `json:"unique_id" validate:"max=64"`
	Conflict   string `json:"check_conflict" validate:"max=500"`
	Active     bool   `json:"active"`
}

func (m *memberRequest) toModel(id string) model.Member {
	if id == "" {
		id = m.ID
	}
	return model.Member{
		ID:         strings.TrimSpace(id),
		Name:       m.Name,
		Department: m.Department,
		Batch:      m.Batch,
		Position:   m.Position,
		Phone:      m.Phone,
		YearJoined: m.YearJoined,
		UniqueID:   m.UniqueID,
		Conflict:   m.Conflict,
		Active:     m.Active,
	}
}

// MembersHandler handles member management requests.
type MembersHandler struct {
	deps MemberDependencies
	idem Idempotency
}

// NewMembersHandler creates a new members handler.
func NewMembersHandler(deps MemberDependencies, idem Idempotency) *MembersHandler {
	return &MembersHandler{deps: deps, idem: idem}
}

// HandleListMembers handles GET /members?q= requests.
func (h *MembersHandler) HandleListMembers(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.list_members"
	members, err := h.deps.ListMembers(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// HandleMemberSummary handles GET /members/summary?q= requests.
func (h *MembersHandler) HandleMemberSummary(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.member_summary"
	sum, err := h.deps.MemberSummary(r.Context(), actor, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

// HandleCreateMember handles POST /members requests.
func (h *MembersHandler) HandleCreateMember(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.create_member"
	var req memberRequest
	if err := decodeAndValidate(op, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	withIdempotency(w, r, h.idem, actor, func() error {
		m, err := h.deps.CreateMember(r.Context(), actor, req.toModel(""))
		if err != nil {
			writeServiceError(w, r, op, Wrap(op, err))
			return err
		}
		writeJSON(w, http.StatusCreated, m)
		return nil
	})
}

// HandleUpdateMember handles PUT /members/{id} requests.
func (h *MembersHandler) HandleUpdateMember(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.update_member"
	var req memberRequest
	if err := decodeAndValidate(op, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	m, err := h.deps.UpdateMember(r.Context(), actor, req.toModel(r.PathValue("id")))
	if err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDeleteMember handles DELETE /members/{id} requests.
func (h *MembersHandler) HandleDeleteMember(w http.ResponseWriter, r *http.Request, actor model.Actor) {
	const op = "api.delete_member"
	if err := h.deps.DeleteMember(r.Context(), actor, r.PathValue("id")); err != nil {
		writeServiceError(w, r, op, Wrap(op, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
