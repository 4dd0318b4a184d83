package service

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/permission"
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/stretchr/testify/assert"
)

func newGroupServiceForTest() (*GroupService, *mockGroupRepo, *mockAgentRepo) {
	groups := &mockGroupRepo{}
	agents := &mockAgentRepo{}
	svc := NewGroupService(groups, agents, permission.NewEvaluator(), ws.NewHub(nil))
	return svc, groups, agents
}

func TestGroupService_Create_RejectsBlankName(t *testing.T) {
	svc, _, _ := newGroupServiceForTest()
	_, err := svc.Create("agent-a", "   ", "", true)
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
}

func TestGroupService_Leave_LastAdminBlocked(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleAdmin}, nil)
	groups.On("CountAdmins", "group-1").Return(int64(1), nil)

	err := svc.Leave("agent-a", "group-1")
	assert.Equal(t, common.KindPreconditionFailed, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_Leave_NotLastAdminSucceeds(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleAdmin}, nil)
	groups.On("CountAdmins", "group-1").Return(int64(2), nil)
	groups.On("RemoveMember", "group-1", "agent-a").Return(nil)

	err := svc.Leave("agent-a", "group-1")
	assert.NoError(t, err)
	groups.AssertExpectations(t)
}

func TestGroupService_UpdateSettings_RejectsBelowRequiredRole(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	name := "new-name"
	groups.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	groups.On("GetPermissions", "group-1").Return(&domain.GroupPermissions{}, nil)
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)

	_, err := svc.UpdateSettings("agent-a", "group-1", GroupSettingsUpdate{Name: &name})
	assert.Equal(t, common.KindForbidden, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_UpdatePermissions_RejectsNonAdmin(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleModerator}, nil)

	_, err := svc.UpdatePermissions("agent-a", "group-1", map[domain.GroupAction]domain.Role{
		domain.ActionInviteMembers: domain.RoleMember,
	})
	assert.Equal(t, common.KindForbidden, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_UpdatePermissions_RejectsDeleteGroupBelowAdmin(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleAdmin}, nil)

	_, err := svc.UpdatePermissions("agent-a", "group-1", map[domain.GroupAction]domain.Role{
		domain.ActionDeleteGroup: domain.RoleModerator,
	})
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_SetMemberRole_RejectsSelf(t *testing.T) {
	svc, _, _ := newGroupServiceForTest()
	err := svc.SetMemberRole("agent-a", "group-1", "agent-a", domain.RoleModerator)
	assert.Equal(t, common.KindPreconditionFailed, common.AsError(err).Kind)
}

func TestGroupService_SetMemberRole_RejectsAssigningEqualOrHigher(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleModerator}, nil)
	groups.On("GetPermissions", "group-1").Return(&domain.GroupPermissions{SetRoles: domain.RoleModerator}, nil)
	groups.On("FindMember", "group-1", "agent-b").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)

	err := svc.SetMemberRole("agent-a", "group-1", "agent-b", domain.RoleAdmin)
	assert.Equal(t, common.KindPreconditionFailed, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_RemoveMember_CannotRemoveEqualOrHigherRole(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleModerator}, nil)
	groups.On("GetPermissions", "group-1").Return(&domain.GroupPermissions{}, nil)
	groups.On("FindMember", "group-1", "agent-b").Return(&domain.GroupMember{Role: domain.RoleModerator}, nil)

	err := svc.RemoveMember("agent-a", "group-1", "agent-b")
	assert.Equal(t, common.KindPreconditionFailed, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_Pin_RejectsMessageOutsideGroup(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleModerator}, nil)
	groups.On("GetPermissions", "group-1").Return(&domain.GroupPermissions{}, nil)
	groups.On("IsMessageInGroup", "group-1", "msg-1").Return(false, nil)

	err := svc.Pin("agent-a", "group-1", "msg-1")
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestGroupService_GetSettings_RejectsNonMember(t *testing.T) {
	svc, groups, _ := newGroupServiceForTest()
	groups.On("FindByID", "group-1").Return(&domain.Group{ID: "group-1"}, nil)
	groups.On("FindMember", "group-1", "agent-a").Return(nil, nil)

	_, err := svc.GetSettings("agent-a", "group-1")
	assert.Equal(t, common.KindForbidden, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}
