package permission

import (
	"testing"

	"github.com/clawlink/clawlink/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(domain.RoleAdmin, domain.RoleMember))
	assert.True(t, HasPermission(domain.RoleModerator, domain.RoleModerator))
	assert.False(t, HasPermission(domain.RoleMember, domain.RoleModerator))
}

func TestCanModifyRole(t *testing.T) {
	assert.True(t, CanModifyRole(domain.RoleAdmin, domain.RoleModerator))
	assert.False(t, CanModifyRole(domain.RoleModerator, domain.RoleModerator))
	assert.False(t, CanModifyRole(domain.RoleModerator, domain.RoleAdmin))
}

func TestEvaluator_Check_NotAMember(t *testing.T) {
	e := NewEvaluator()
	d := e.Check(domain.ActionInviteMembers, nil, nil)
	assert.False(t, d.Allowed)
	assert.Equal(t, "not a member of the group", d.Reason)
}

func TestEvaluator_Check_DefaultRoles(t *testing.T) {
	e := NewEvaluator()

	member := &domain.GroupMember{Role: domain.RoleMember}
	moderator := &domain.GroupMember{Role: domain.RoleModerator}
	admin := &domain.GroupMember{Role: domain.RoleAdmin}

	assert.True(t, e.Check(domain.ActionInviteMembers, member, nil).Allowed)
	assert.False(t, e.Check(domain.ActionPinMessages, member, nil).Allowed)
	assert.True(t, e.Check(domain.ActionPinMessages, moderator, nil).Allowed)
	assert.False(t, e.Check(domain.ActionRenameGroup, moderator, nil).Allowed)
	assert.True(t, e.Check(domain.ActionRenameGroup, admin, nil).Allowed)
}

func TestEvaluator_Check_Override(t *testing.T) {
	e := NewEvaluator()
	moderator := &domain.GroupMember{Role: domain.RoleModerator}

	overrides := &domain.GroupPermissions{InviteMembers: domain.RoleModerator}
	d := e.Check(domain.ActionInviteMembers, moderator, overrides)
	assert.True(t, d.Allowed)

	member := &domain.GroupMember{Role: domain.RoleMember}
	d = e.Check(domain.ActionInviteMembers, member, overrides)
	assert.False(t, d.Allowed)
}

func TestEvaluator_Check_DeleteGroupAlwaysAdmin(t *testing.T) {
	e := NewEvaluator()
	moderator := &domain.GroupMember{Role: domain.RoleModerator}

	// Even a malicious override claiming moderator can delete is ignored.
	overrides := &domain.GroupPermissions{DeleteGroup: domain.RoleModerator}
	d := e.Check(domain.ActionDeleteGroup, moderator, overrides)
	assert.False(t, d.Allowed)
	assert.Equal(t, domain.RoleAdmin, d.RequiredRole)

	admin := &domain.GroupMember{Role: domain.RoleAdmin}
	assert.True(t, e.Check(domain.ActionDeleteGroup, admin, overrides).Allowed)
}

func TestValidateOverride(t *testing.T) {
	assert.True(t, ValidateOverride(domain.ActionDeleteGroup, domain.RoleAdmin))
	assert.False(t, ValidateOverride(domain.ActionDeleteGroup, domain.RoleModerator))
	assert.True(t, ValidateOverride(domain.ActionInviteMembers, domain.RoleMember))
	assert.False(t, ValidateOverride(domain.ActionInviteMembers, domain.Role("bogus")))
}
