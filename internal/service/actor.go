package service

import (
	"obrafacil/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation, extracted from the
// JWT by the middleware. Role gates that depend on entity state (the budget
// deletion protocol) are enforced here rather than at the route level.
type Actor struct {
	ID   uuid.UUID
	Name string
	Role string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// CanApprove reports whether the actor may change budget status
// (admins and managers).
func (a Actor) CanApprove() bool {
	return a.Role == model.RoleAdmin || a.Role == model.RoleManager
}
