package service

import (
	"strings"

	"gramsync-be/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Actor is the authenticated principal performing an action.
type Actor struct {
	ID          primitive.ObjectID
	Role        models.Role
	PanchayatID primitive.ObjectID
}

// transitions is the adjacency list for actor-requested status changes.
// ACCEPTED -> IN_PROGRESS also happens implicitly on assignment, which
// bypasses this table as a system-triggered side effect.
var transitions = map[models.QueryStatus][]models.QueryStatus{
	models.StatusPendingReview: {models.StatusAccepted, models.StatusDeclined, models.StatusWaitlisted},
	models.StatusWaitlisted:    {models.StatusAccepted, models.StatusDeclined},
	models.StatusAccepted:      {models.StatusInProgress, models.StatusResolved, models.StatusDeclined},
	models.StatusInProgress:    {models.StatusResolved, models.StatusDeclined},
	models.StatusResolved:      {models.StatusClosed},
}

// assignableStatuses is the canonical set of statuses in which office/NGO
// assignment is permitted.
var assignableStatuses = map[models.QueryStatus]bool{
	models.StatusPendingReview: true,
	models.StatusAccepted:      true,
	models.StatusWaitlisted:    true,
	models.StatusInProgress:    true,
}

// CanTransition checks that the requested status change is legal for the
// actor's role. It returns nil when allowed and a coded error otherwise.
func CanTransition(current, requested models.QueryStatus, role models.Role) error {
	if !requested.IsValid() {
		return Ef(CodeInvalidStatus, "unknown status %q", string(requested))
	}
	if role != models.RolePanchayat && role != models.RoleAdmin {
		return E(CodeForbidden, "only panchayat officers and admins may change query status")
	}
	for _, next := range transitions[current] {
		if next == requested {
			return nil
		}
	}
	return Ef(CodeInvalidStatus, "cannot move query from %s to %s", current, requested)
}

// NoteRequired reports whether the transition must carry a non-empty note.
func NoteRequired(requested models.QueryStatus) bool {
	return requested == models.StatusDeclined || requested == models.StatusWaitlisted
}

// ValidateTransitionNote enforces the note rule for a requested transition.
func ValidateTransitionNote(requested models.QueryStatus, note string) error {
	if NoteRequired(requested) && strings.TrimSpace(note) == "" {
		return Ef(CodeValidation, "a note is required when moving a query to %s", requested)
	}
	return nil
}

// CanAssign checks that assignment is permitted in the query's current status.
func CanAssign(current models.QueryStatus) error {
	if !assignableStatuses[current] {
		return Ef(CodeInvalidStatus, "cannot assign offices or NGOs to a query in status %s", current)
	}
	return nil
}

// canActOnPanchayat enforces panchayat scoping: panchayat officers act only
// within their own panchayat, admins everywhere.
func canActOnPanchayat(actor Actor, panchayatID primitive.ObjectID) error {
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RolePanchayat:
		if actor.PanchayatID == panchayatID {
			return nil
		}
		return E(CodeForbidden, "query belongs to a different panchayat")
	default:
		return E(CodeForbidden, "only panchayat officers and admins may perform this action")
	}
}
