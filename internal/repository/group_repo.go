package repository

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

type GroupRepository interface {
	// CreateGroupWithAdmin inserts a group and its creator's admin
	// membership atomically.
	CreateGroupWithAdmin(group *domain.Group) (*domain.Group, *domain.GroupMember, error)
	FindByID(id string) (*domain.Group, error)
	FindBySlug(slug string) (*domain.Group, error)
	List(publicOnly bool) ([]*domain.Group, error)
	Update(group *domain.Group) error
	// DeleteGroup cascades to members, messages, reactions, pins, and
	// permission rows within one transaction.
	DeleteGroup(id string) error

	AddMember(groupID, agentID string, role domain.Role) error
	RemoveMember(groupID, agentID string) error
	FindMember(groupID, agentID string) (*domain.GroupMember, error)
	ListMembers(groupID string) ([]*domain.GroupMember, error)
	// ListGroupIDsForAgent is used on websocket attach to join the agent
	// into every group room it currently belongs to.
	ListGroupIDsForAgent(agentID string) ([]string, error)
	CountAdmins(groupID string) (int64, error)
	RoleCounts(groupID string) (map[domain.Role]int, error)
	SetMemberRole(groupID, agentID string, role domain.Role) error

	GetPermissions(groupID string) (*domain.GroupPermissions, error)
	SavePermissions(p *domain.GroupPermissions) error

	Pin(groupID, messageID string) error
	Unpin(groupID, messageID string) error
	ListPinned(groupID string) ([]string, error)
	IsMessageInGroup(groupID, messageID string) (bool, error)
}

type groupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) CreateGroupWithAdmin(group *domain.Group) (*domain.Group, *domain.GroupMember, error) {
	var member *domain.GroupMember
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return common.Conflict("group slug already exists")
		}
		member = &domain.GroupMember{GroupID: group.ID, AgentID: group.CreatedByID, Role: domain.RoleAdmin}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return group, member, nil
}

func (r *groupRepository) FindByID(id string) (*domain.Group, error) {
	var g domain.Group
	if err := r.db.Where("id = ?", id).First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("group not found")
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) FindBySlug(slug string) (*domain.Group, error) {
	var g domain.Group
	if err := r.db.Where("slug = ?", slug).First(&g).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("group not found")
		}
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) List(publicOnly bool) ([]*domain.Group, error) {
	q := r.db.Order("created_at DESC")
	if publicOnly {
		q = q.Where("is_public = ?", true)
	}
	var groups []*domain.Group
	err := q.Find(&groups).Error
	return groups, err
}

func (r *groupRepository) Update(group *domain.Group) error {
	return r.db.Save(group).Error
}

func (r *groupRepository) DeleteGroup(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&domain.PinnedMessage{}).Error; err != nil {
			return err
		}
		var messageIDs []string
		if err := tx.Model(&domain.Message{}).Where("group_id = ?", id).Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ? AND kind = ?", messageIDs, domain.MessageKindGroup).
				Delete(&domain.Reaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("group_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&domain.GroupMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&domain.GroupPermissions{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Group{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.NotFound("group not found")
		}
		return nil
	})
}

func (r *groupRepository) AddMember(groupID, agentID string, role domain.Role) error {
	member := &domain.GroupMember{GroupID: groupID, AgentID: agentID, Role: role}
	if err := r.db.Create(member).Error; err != nil {
		return common.Conflict("already a member")
	}
	return nil
}

func (r *groupRepository) RemoveMember(groupID, agentID string) error {
	result := r.db.Where("group_id = ? AND agent_id = ?", groupID, agentID).Delete(&domain.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("not a member")
	}
	return nil
}

func (r *groupRepository) FindMember(groupID, agentID string) (*domain.GroupMember, error) {
	var m domain.GroupMember
	if err := r.db.Where("group_id = ? AND agent_id = ?", groupID, agentID).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *groupRepository) ListMembers(groupID string) ([]*domain.GroupMember, error) {
	var members []*domain.GroupMember
	err := r.db.Where("group_id = ?", groupID).Order("joined_at ASC").Find(&members).Error
	return members, err
}

func (r *groupRepository) ListGroupIDsForAgent(agentID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.GroupMember{}).Where("agent_id = ?", agentID).Pluck("group_id", &ids).Error
	return ids, err
}

func (r *groupRepository) CountAdmins(groupID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND role = ?", groupID, domain.RoleAdmin).
		Count(&count).Error
	return count, err
}

func (r *groupRepository) RoleCounts(groupID string) (map[domain.Role]int, error) {
	var rows []struct {
		Role  domain.Role
		Count int
	}
	err := r.db.Model(&domain.GroupMember{}).
		Select("role, count(*) as count").
		Where("group_id = ?", groupID).
		Group("role").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[domain.Role]int{domain.RoleAdmin: 0, domain.RoleModerator: 0, domain.RoleMember: 0}
	for _, row := range rows {
		out[row.Role] = row.Count
	}
	return out, nil
}

func (r *groupRepository) SetMemberRole(groupID, agentID string, role domain.Role) error {
	result := r.db.Model(&domain.GroupMember{}).
		Where("group_id = ? AND agent_id = ?", groupID, agentID).
		Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("not a member")
	}
	return nil
}

func (r *groupRepository) GetPermissions(groupID string) (*domain.GroupPermissions, error) {
	var p domain.GroupPermissions
	if err := r.db.Where("group_id = ?", groupID).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *groupRepository) SavePermissions(p *domain.GroupPermissions) error {
	return r.db.Save(p).Error
}

func (r *groupRepository) Pin(groupID, messageID string) error {
	pin := &domain.PinnedMessage{GroupID: groupID, MessageID: messageID}
	if err := r.db.Create(pin).Error; err != nil {
		return common.Conflict("already pinned")
	}
	return nil
}

func (r *groupRepository) Unpin(groupID, messageID string) error {
	result := r.db.Where("group_id = ? AND message_id = ?", groupID, messageID).Delete(&domain.PinnedMessage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("not pinned")
	}
	return nil
}

func (r *groupRepository) ListPinned(groupID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.PinnedMessage{}).Where("group_id = ?", groupID).
		Order("pinned_at ASC").Pluck("message_id", &ids).Error
	return ids, err
}

func (r *groupRepository) IsMessageInGroup(groupID, messageID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Message{}).Where("id = ? AND group_id = ?", messageID, groupID).Count(&count).Error
	return count > 0, err
}
