// internal/service/actor.go
package service

import (
	"github.com/clearmind-health/clearmind/internal/model"
	"github.com/google/uuid"
)

// Actor identifies who is performing an operation inside an organization.
// Services receive it explicitly rather than reading ambient request state,
// so ownership rules stay testable.
type Actor struct {
	UserID uuid.UUID
	Role   model.OrgRole
}

// IsAdmin reports whether the actor holds an administrative role in the
// organization context (org admin, or global super admin acting anywhere).
func (a Actor) IsAdmin() bool {
	return a.Role == model.OrgRoleAdmin || a.Role == model.OrgRoleSuperAdmin
}
