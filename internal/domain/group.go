package domain

import "time"

// Role is a GroupMember's role within a group. The hierarchy is
// admin=3 > moderator=2 > member=1, evaluated by internal/permission.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

func (r Role) Level() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleModerator:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleModerator || r == RoleMember
}

// Group is a named channel with membership and role-gated permissions.
// Invariant: every group has at least one admin member until deleted.
type Group struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name        string    `gorm:"column:name;size:100" json:"name"`
	Slug        string    `gorm:"column:slug;uniqueIndex;size:120" json:"slug"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	AvatarURL   string    `gorm:"column:avatar_url;size:500" json:"avatarUrl,omitempty"`
	IsPublic    bool      `gorm:"column:is_public" json:"isPublic"`
	CreatedByID string    `gorm:"column:created_by_id;size:36" json:"createdById"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Group) TableName() string { return "groups" }

// GroupMember is the (groupId, agentId) membership row.
type GroupMember struct {
	GroupID  string    `gorm:"column:group_id;primaryKey;size:36" json:"groupId"`
	AgentID  string    `gorm:"column:agent_id;primaryKey;size:36" json:"agentId"`
	Role     Role      `gorm:"column:role;size:20" json:"role"`
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime" json:"joinedAt"`
}

func (GroupMember) TableName() string { return "group_members" }

// GroupAction is one of the nine permission-gated group actions.
type GroupAction string

const (
	ActionRenameGroup      GroupAction = "renameGroup"
	ActionEditDescription  GroupAction = "editDescription"
	ActionEditAvatar       GroupAction = "editAvatar"
	ActionDeleteGroup      GroupAction = "deleteGroup"
	ActionRemoveMembers    GroupAction = "removeMembers"
	ActionSetRoles         GroupAction = "setRoles"
	ActionInviteMembers    GroupAction = "inviteMembers"
	ActionPinMessages      GroupAction = "pinMessages"
	ActionDeleteAnyMessage GroupAction = "deleteAnyMessage"
)

// DefaultRequiredRole is the out-of-the-box minimum role per action.
func DefaultRequiredRole(a GroupAction) Role {
	switch a {
	case ActionRenameGroup, ActionEditDescription, ActionEditAvatar, ActionDeleteGroup, ActionSetRoles:
		return RoleAdmin
	case ActionRemoveMembers, ActionPinMessages, ActionDeleteAnyMessage:
		return RoleModerator
	case ActionInviteMembers:
		return RoleMember
	default:
		return RoleAdmin
	}
}

// GroupPermissions is the one-row-per-group table of per-action minimum
// role overrides. Absent rows fall back to DefaultRequiredRole. Columns
// store Role as a plain string, empty meaning "use default".
type GroupPermissions struct {
	GroupID          string `gorm:"column:group_id;primaryKey;size:36" json:"groupId"`
	RenameGroup      Role   `gorm:"column:rename_group;size:20" json:"renameGroup,omitempty"`
	EditDescription  Role   `gorm:"column:edit_description;size:20" json:"editDescription,omitempty"`
	EditAvatar       Role   `gorm:"column:edit_avatar;size:20" json:"editAvatar,omitempty"`
	DeleteGroup      Role   `gorm:"column:delete_group;size:20" json:"deleteGroup,omitempty"`
	RemoveMembers    Role   `gorm:"column:remove_members;size:20" json:"removeMembers,omitempty"`
	SetRoles         Role   `gorm:"column:set_roles;size:20" json:"setRoles,omitempty"`
	InviteMembers    Role   `gorm:"column:invite_members;size:20" json:"inviteMembers,omitempty"`
	PinMessages      Role   `gorm:"column:pin_messages;size:20" json:"pinMessages,omitempty"`
	DeleteAnyMessage Role   `gorm:"column:delete_any_message;size:20" json:"deleteAnyMessage,omitempty"`
}

func (GroupPermissions) TableName() string { return "group_permissions" }

// Resolved returns the effective minimum role for every action, applying
// overrides on top of defaults. deleteGroup is always admin regardless
// of what is stored (the lock is enforced at write time too).
func (p *GroupPermissions) Resolved() map[GroupAction]Role {
	out := map[GroupAction]Role{
		ActionRenameGroup:      DefaultRequiredRole(ActionRenameGroup),
		ActionEditDescription:  DefaultRequiredRole(ActionEditDescription),
		ActionEditAvatar:       DefaultRequiredRole(ActionEditAvatar),
		ActionDeleteGroup:      RoleAdmin,
		ActionRemoveMembers:    DefaultRequiredRole(ActionRemoveMembers),
		ActionSetRoles:         DefaultRequiredRole(ActionSetRoles),
		ActionInviteMembers:    DefaultRequiredRole(ActionInviteMembers),
		ActionPinMessages:      DefaultRequiredRole(ActionPinMessages),
		ActionDeleteAnyMessage: DefaultRequiredRole(ActionDeleteAnyMessage),
	}
	if p == nil {
		return out
	}
	if p.RenameGroup.Valid() {
		out[ActionRenameGroup] = p.RenameGroup
	}
	if p.EditDescription.Valid() {
		out[ActionEditDescription] = p.EditDescription
	}
	if p.EditAvatar.Valid() {
		out[ActionEditAvatar] = p.EditAvatar
	}
	if p.RemoveMembers.Valid() {
		out[ActionRemoveMembers] = p.RemoveMembers
	}
	if p.SetRoles.Valid() {
		out[ActionSetRoles] = p.SetRoles
	}
	if p.InviteMembers.Valid() {
		out[ActionInviteMembers] = p.InviteMembers
	}
	if p.PinMessages.Valid() {
		out[ActionPinMessages] = p.PinMessages
	}
	if p.DeleteAnyMessage.Valid() {
		out[ActionDeleteAnyMessage] = p.DeleteAnyMessage
	}
	// deleteGroup is always admin regardless of stored value.
	return out
}

// PinnedMessage is the (groupId, messageId) pin row.
type PinnedMessage struct {
	GroupID   string    `gorm:"column:group_id;primaryKey;size:36" json:"groupId"`
	MessageID string    `gorm:"column:message_id;primaryKey;size:36" json:"messageId"`
	PinnedAt  time.Time `gorm:"column:pinned_at;autoCreateTime" json:"pinnedAt"`
}

func (PinnedMessage) TableName() string { return "pinned_messages" }

// GroupSettings is the enriched view returned by GetSettings.
type GroupSettings struct {
	Group          *Group             `json:"group"`
	RoleCounts     map[Role]int       `json:"roleCounts"`
	Permissions    map[GroupAction]Role `json:"permissions"`
	Pinned         []string           `json:"pinnedMessageIds"`
	ActorRole      Role               `json:"actorRole"`
}
