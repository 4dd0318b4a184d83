package permission

import "github.com/clawlink/clawlink/internal/domain"

// Decision is the result of checkGroupPermission.
type Decision struct {
	Allowed      bool
	ActorRole    domain.Role
	RequiredRole domain.Role
	Reason       string
}

// HasPermission reports whether actorRole outranks or equals requiredRole.
func HasPermission(actorRole, requiredRole domain.Role) bool {
	return actorRole.Level() >= requiredRole.Level()
}

// CanModifyRole reports whether actorRole strictly outranks targetRole.
// Used both for removing a member and for assigning a new role: the
// actor must outrank the member's current role AND the role being set.
func CanModifyRole(actorRole, targetRole domain.Role) bool {
	return actorRole.Level() > targetRole.Level()
}

// Evaluator is the pure (group, actor, action) -> allow/deny layer. It
// has no Store dependency: callers resolve the actor's membership row
// and the group's permission overrides, and pass them in.
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Check implements checkGroupPermission. member is nil when the actor is
// not a member of the group. overrides may be nil to use pure defaults.
func (e *Evaluator) Check(action domain.GroupAction, member *domain.GroupMember, overrides *domain.GroupPermissions) Decision {
	required := domain.DefaultRequiredRole(action)
	if action == domain.ActionDeleteGroup {
		required = domain.RoleAdmin
	} else if overrides != nil {
		if r, ok := overrides.Resolved()[action]; ok {
			required = r
		}
	}

	if member == nil {
		return Decision{Allowed: false, RequiredRole: required, Reason: "not a member of the group"}
	}

	allowed := HasPermission(member.Role, required)
	reason := ""
	if !allowed {
		reason = "role " + string(member.Role) + " does not meet required role " + string(required)
	}
	return Decision{Allowed: allowed, ActorRole: member.Role, RequiredRole: required, Reason: reason}
}

// ValidateOverride rejects an attempt to set deleteGroup below admin;
// GroupService calls this before persisting a PUT /permissions body.
func ValidateOverride(action domain.GroupAction, role domain.Role) bool {
	if action == domain.ActionDeleteGroup {
		return role == domain.RoleAdmin
	}
	return role.Valid()
}
