package service

import (
	"regexp"
	"strings"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/permission"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/google/uuid"
)

var slugNonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(name string) string {
	s := slugNonAlnum.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// GroupService owns group lifecycle, membership, and permission overrides.
type GroupService struct {
	groups repository.GroupRepository
	agents repository.AgentRepository
	perm   *permission.Evaluator
	hub    *ws.Hub
}

func NewGroupService(groups repository.GroupRepository, agents repository.AgentRepository, perm *permission.Evaluator, hub *ws.Hub) *GroupService {
	return &GroupService{groups: groups, agents: agents, perm: perm, hub: hub}
}

func (s *GroupService) Create(creatorID, name, description string, isPublic bool) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.Invalid("name is required")
	}
	group := &domain.Group{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slugify(name),
		Description: description,
		IsPublic:    isPublic,
		CreatedByID: creatorID,
	}
	group, _, err := s.groups.CreateGroupWithAdmin(group)
	if err != nil {
		return nil, err
	}
	s.hub.BroadcastAll(&ws.Event{Type: "group:created", Payload: group}, nil)
	return group, nil
}

func (s *GroupService) Get(id string) (*domain.Group, error) {
	return s.groups.FindByID(id)
}

func (s *GroupService) List(publicOnly bool) ([]*domain.Group, error) {
	return s.groups.List(publicOnly)
}

func (s *GroupService) Join(actorID, groupID string) error {
	if _, err := s.groups.FindByID(groupID); err != nil {
		return err
	}
	if err := s.groups.AddMember(groupID, actorID, domain.RoleMember); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "member:joined",
		Payload: map[string]string{"groupId": groupID, "agentId": actorID},
	})
	return nil
}

func (s *GroupService) Leave(actorID, groupID string) error {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	if member == nil {
		return common.NotFound("not a member")
	}
	if member.Role == domain.RoleAdmin {
		count, err := s.groups.CountAdmins(groupID)
		if err != nil {
			return err
		}
		if count <= 1 {
			return common.PreconditionFailed("cannot leave: group would have no admin")
		}
	}
	if err := s.groups.RemoveMember(groupID, actorID); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "member:left",
		Payload: map[string]string{"groupId": groupID, "agentId": actorID},
	})
	return nil
}

type GroupSettingsUpdate struct {
	Name        *string
	Description *string
	AvatarURL   *string
}

// UpdateSettings gates each field by its own action: name->renameGroup,
// description->editDescription, avatar->editAvatar.
func (s *GroupService) UpdateSettings(actorID, groupID string, update GroupSettingsUpdate) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if d := s.perm.Check(domain.ActionRenameGroup, member, overrides); !d.Allowed {
			return nil, common.Forbidden(d.Reason)
		}
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, common.Invalid("name cannot be empty")
		}
		group.Name = name
		group.Slug = slugify(name)
	}
	if update.Description != nil {
		if d := s.perm.Check(domain.ActionEditDescription, member, overrides); !d.Allowed {
			return nil, common.Forbidden(d.Reason)
		}
		group.Description = *update.Description
	}
	if update.AvatarURL != nil {
		if d := s.perm.Check(domain.ActionEditAvatar, member, overrides); !d.Allowed {
			return nil, common.Forbidden(d.Reason)
		}
		group.AvatarURL = *update.AvatarURL
	}

	if err := s.groups.Update(group); err != nil {
		return nil, err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{Type: "group:updated", Payload: group})
	return group, nil
}

// UpdatePermissions replaces the per-group override map. admin only;
// deleteGroup is rejected if set to anything but admin.
func (s *GroupService) UpdatePermissions(actorID, groupID string, overrides map[domain.GroupAction]domain.Role) (*domain.GroupPermissions, error) {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if member == nil || member.Role != domain.RoleAdmin {
		return nil, common.Forbidden("admin role required")
	}
	for action, role := range overrides {
		if !permission.ValidateOverride(action, role) {
			if action == domain.ActionDeleteGroup {
				return nil, common.Invalid("deleteGroup permission cannot be set below admin")
			}
			return nil, common.Invalid("invalid role for " + string(action))
		}
	}

	p := &domain.GroupPermissions{GroupID: groupID}
	for action, role := range overrides {
		switch action {
		case domain.ActionRenameGroup:
			p.RenameGroup = role
		case domain.ActionEditDescription:
			p.EditDescription = role
		case domain.ActionEditAvatar:
			p.EditAvatar = role
		case domain.ActionRemoveMembers:
			p.RemoveMembers = role
		case domain.ActionSetRoles:
			p.SetRoles = role
		case domain.ActionInviteMembers:
			p.InviteMembers = role
		case domain.ActionPinMessages:
			p.PinMessages = role
		case domain.ActionDeleteAnyMessage:
			p.DeleteAnyMessage = role
		}
	}
	if err := s.groups.SavePermissions(p); err != nil {
		return nil, err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{Type: "group:permissionsUpdated", Payload: p})
	return p, nil
}

func (s *GroupService) Delete(actorID, groupID string) error {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return err
	}
	if d := s.perm.Check(domain.ActionDeleteGroup, member, overrides); !d.Allowed {
		return common.Forbidden(d.Reason)
	}
	if err := s.groups.DeleteGroup(groupID); err != nil {
		return err
	}
	s.hub.BroadcastAll(&ws.Event{Type: "group:deleted", Payload: map[string]string{"groupId": groupID}}, nil)
	return nil
}

func (s *GroupService) RemoveMember(actorID, groupID, targetID string) error {
	actor, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return err
	}
	if d := s.perm.Check(domain.ActionRemoveMembers, actor, overrides); !d.Allowed {
		return common.Forbidden(d.Reason)
	}
	target, err := s.groups.FindMember(groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return common.NotFound("not a member")
	}
	if !permission.CanModifyRole(actor.Role, target.Role) {
		return common.PreconditionFailed("cannot remove a member with an equal or higher role")
	}
	if err := s.groups.RemoveMember(groupID, targetID); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "member:removed",
		Payload: map[string]string{"groupId": groupID, "agentId": targetID},
	})
	return nil
}

// SetMemberRole requires the actor outrank both the target's current
// role and the role being assigned; an actor may never change its own
// role.
func (s *GroupService) SetMemberRole(actorID, groupID, targetID string, newRole domain.Role) error {
	if actorID == targetID {
		return common.PreconditionFailed("cannot change your own role")
	}
	if !newRole.Valid() {
		return common.Invalid("invalid role")
	}
	actor, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return err
	}
	if d := s.perm.Check(domain.ActionSetRoles, actor, overrides); !d.Allowed {
		return common.Forbidden(d.Reason)
	}
	target, err := s.groups.FindMember(groupID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return common.NotFound("not a member")
	}
	if !permission.CanModifyRole(actor.Role, target.Role) || !permission.CanModifyRole(actor.Role, newRole) {
		return common.PreconditionFailed("cannot assign a role equal to or higher than your own")
	}
	if err := s.groups.SetMemberRole(groupID, targetID, newRole); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "member:roleChanged",
		Payload: map[string]string{"groupId": groupID, "agentId": targetID, "role": string(newRole)},
	})
	return nil
}

func (s *GroupService) Pin(actorID, groupID, messageID string) error {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return err
	}
	if d := s.perm.Check(domain.ActionPinMessages, member, overrides); !d.Allowed {
		return common.Forbidden(d.Reason)
	}
	inGroup, err := s.groups.IsMessageInGroup(groupID, messageID)
	if err != nil {
		return err
	}
	if !inGroup {
		return common.Invalid("message does not belong to this group")
	}
	if err := s.groups.Pin(groupID, messageID); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "message:pinned",
		Payload: map[string]string{"groupId": groupID, "messageId": messageID},
	})
	return nil
}

func (s *GroupService) Unpin(actorID, groupID, messageID string) error {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return err
	}
	if d := s.perm.Check(domain.ActionPinMessages, member, overrides); !d.Allowed {
		return common.Forbidden(d.Reason)
	}
	if err := s.groups.Unpin(groupID, messageID); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "message:unpinned",
		Payload: map[string]string{"groupId": groupID, "messageId": messageID},
	})
	return nil
}

// GetSettings is member-only: resolved permissions, role counts, pinned
// list, and the requesting actor's own role.
func (s *GroupService) GetSettings(actorID, groupID string) (*domain.GroupSettings, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.Forbidden("not a member of the group")
	}
	overrides, err := s.groups.GetPermissions(groupID)
	if err != nil {
		return nil, err
	}
	roleCounts, err := s.groups.RoleCounts(groupID)
	if err != nil {
		return nil, err
	}
	pinned, err := s.groups.ListPinned(groupID)
	if err != nil {
		return nil, err
	}
	return &domain.GroupSettings{
		Group:       group,
		RoleCounts:  roleCounts,
		Permissions: overrides.Resolved(),
		Pinned:      pinned,
		ActorRole:   member.Role,
	}, nil
}
