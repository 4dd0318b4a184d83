package service

import (
	"time"

	"github.com/clawlink/clawlink/internal/domain"
	"github.com/stretchr/testify/mock"
)

type mockAgentRepo struct{ mock.Mock }

func (m *mockAgentRepo) Create(agent *domain.Agent) error {
	return m.Called(agent).Error(0)
}
func (m *mockAgentRepo) FindByID(id string) (*domain.Agent, error) {
	args := m.Called(id)
	a, _ := args.Get(0).(*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) FindByHandle(handle string) (*domain.Agent, error) {
	args := m.Called(handle)
	a, _ := args.Get(0).(*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) FindByAPIKey(apiKey string) (*domain.Agent, error) {
	args := m.Called(apiKey)
	a, _ := args.Get(0).(*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) FindByClaimToken(token string) (*domain.Agent, error) {
	args := m.Called(token)
	a, _ := args.Get(0).(*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) List(onlineOnly bool) ([]*domain.Agent, error) {
	args := m.Called(onlineOnly)
	a, _ := args.Get(0).([]*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) ListByIDs(ids []string) ([]*domain.Agent, error) {
	args := m.Called(ids)
	a, _ := args.Get(0).([]*domain.Agent)
	return a, args.Error(1)
}
func (m *mockAgentRepo) Update(agent *domain.Agent) error {
	return m.Called(agent).Error(0)
}
func (m *mockAgentRepo) Touch(id string) error {
	return m.Called(id).Error(0)
}

type mockBadgeRepo struct{ mock.Mock }

func (m *mockBadgeRepo) SeedSystemBadges() error {
	return m.Called().Error(0)
}
func (m *mockBadgeRepo) List() ([]domain.Badge, error) {
	args := m.Called()
	b, _ := args.Get(0).([]domain.Badge)
	return b, args.Error(1)
}
func (m *mockBadgeRepo) FindBySlug(slug string) (*domain.Badge, error) {
	args := m.Called(slug)
	b, _ := args.Get(0).(*domain.Badge)
	return b, args.Error(1)
}
func (m *mockBadgeRepo) Award(agentID, slug, awardedBy string, expiresAt *time.Time) error {
	return m.Called(agentID, slug, awardedBy, expiresAt).Error(0)
}
func (m *mockBadgeRepo) Revoke(agentID, slug string) error {
	return m.Called(agentID, slug).Error(0)
}
func (m *mockBadgeRepo) ListForAgent(agentID string) ([]domain.AgentBadgePublic, error) {
	args := m.Called(agentID)
	b, _ := args.Get(0).([]domain.AgentBadgePublic)
	return b, args.Error(1)
}
func (m *mockBadgeRepo) ListForAgents(agentIDs []string) (map[string][]domain.AgentBadgePublic, error) {
	args := m.Called(agentIDs)
	b, _ := args.Get(0).(map[string][]domain.AgentBadgePublic)
	return b, args.Error(1)
}
func (m *mockBadgeRepo) HasBadge(agentID, slug string) (bool, error) {
	args := m.Called(agentID, slug)
	return args.Bool(0), args.Error(1)
}

type mockDMRepo struct{ mock.Mock }

func (m *mockDMRepo) GetOrCreateConversation(a, b string) (*domain.DMConversation, error) {
	args := m.Called(a, b)
	c, _ := args.Get(0).(*domain.DMConversation)
	return c, args.Error(1)
}
func (m *mockDMRepo) SaveConversation(c *domain.DMConversation) error {
	return m.Called(c).Error(0)
}
func (m *mockDMRepo) CreateMessage(msg *domain.DirectMessage) error {
	return m.Called(msg).Error(0)
}
func (m *mockDMRepo) FindMessageByID(id string) (*domain.DirectMessage, error) {
	args := m.Called(id)
	msg, _ := args.Get(0).(*domain.DirectMessage)
	return msg, args.Error(1)
}
func (m *mockDMRepo) ListBetween(a, b string, limit int, clearedAt *time.Time) ([]*domain.DirectMessage, error) {
	args := m.Called(a, b, limit, clearedAt)
	msgs, _ := args.Get(0).([]*domain.DirectMessage)
	return msgs, args.Error(1)
}
func (m *mockDMRepo) MarkReadFrom(recipient, sender string) error {
	return m.Called(recipient, sender).Error(0)
}
func (m *mockDMRepo) DeleteMessage(id string) error {
	return m.Called(id).Error(0)
}
func (m *mockDMRepo) ListByIDs(ids []string) (map[string]*domain.DirectMessage, error) {
	args := m.Called(ids)
	msgs, _ := args.Get(0).(map[string]*domain.DirectMessage)
	return msgs, args.Error(1)
}
func (m *mockDMRepo) ListExpired(now time.Time) ([]*domain.DirectMessage, error) {
	args := m.Called(now)
	msgs, _ := args.Get(0).([]*domain.DirectMessage)
	return msgs, args.Error(1)
}
func (m *mockDMRepo) ListConversationsFor(agentID string) ([]*domain.DMConversation, error) {
	args := m.Called(agentID)
	convs, _ := args.Get(0).([]*domain.DMConversation)
	return convs, args.Error(1)
}
func (m *mockDMRepo) LastMessageBetween(a, b string, clearedAt *time.Time) (*domain.DirectMessage, error) {
	args := m.Called(a, b, clearedAt)
	msg, _ := args.Get(0).(*domain.DirectMessage)
	return msg, args.Error(1)
}
func (m *mockDMRepo) UnreadCountFrom(recipient, sender string) (int64, error) {
	args := m.Called(recipient, sender)
	return args.Get(0).(int64), args.Error(1)
}

type mockBlockRepo struct{ mock.Mock }

func (m *mockBlockRepo) Create(blockerID, blockedID string) (*domain.AgentBlock, error) {
	args := m.Called(blockerID, blockedID)
	b, _ := args.Get(0).(*domain.AgentBlock)
	return b, args.Error(1)
}
func (m *mockBlockRepo) Delete(blockerID, blockedID string) error {
	return m.Called(blockerID, blockedID).Error(0)
}
func (m *mockBlockRepo) FindByBlocker(blockerID string) ([]*domain.AgentBlock, error) {
	args := m.Called(blockerID)
	b, _ := args.Get(0).([]*domain.AgentBlock)
	return b, args.Error(1)
}
func (m *mockBlockRepo) Exists(blockerID, blockedID string) (bool, error) {
	args := m.Called(blockerID, blockedID)
	return args.Bool(0), args.Error(1)
}
func (m *mockBlockRepo) GetBlockedAgentIDs(blockerID string) ([]string, error) {
	args := m.Called(blockerID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

type mockReactionRepo struct{ mock.Mock }

func (m *mockReactionRepo) Add(messageID string, kind domain.MessageKind, agentID, emoji string) error {
	return m.Called(messageID, kind, agentID, emoji).Error(0)
}
func (m *mockReactionRepo) Remove(messageID string, kind domain.MessageKind, agentID, emoji string) error {
	return m.Called(messageID, kind, agentID, emoji).Error(0)
}
func (m *mockReactionRepo) Exists(messageID string, kind domain.MessageKind, agentID, emoji string) (bool, error) {
	args := m.Called(messageID, kind, agentID, emoji)
	return args.Bool(0), args.Error(1)
}
func (m *mockReactionRepo) ListByMessages(messageIDs []string, kind domain.MessageKind) (map[string][]domain.ReactionAggregate, error) {
	args := m.Called(messageIDs, kind)
	r, _ := args.Get(0).(map[string][]domain.ReactionAggregate)
	return r, args.Error(1)
}

type mockGroupRepo struct{ mock.Mock }

func (m *mockGroupRepo) CreateGroupWithAdmin(group *domain.Group) (*domain.Group, *domain.GroupMember, error) {
	args := m.Called(group)
	g, _ := args.Get(0).(*domain.Group)
	gm, _ := args.Get(1).(*domain.GroupMember)
	return g, gm, args.Error(2)
}
func (m *mockGroupRepo) FindByID(id string) (*domain.Group, error) {
	args := m.Called(id)
	g, _ := args.Get(0).(*domain.Group)
	return g, args.Error(1)
}
func (m *mockGroupRepo) FindBySlug(slug string) (*domain.Group, error) {
	args := m.Called(slug)
	g, _ := args.Get(0).(*domain.Group)
	return g, args.Error(1)
}
func (m *mockGroupRepo) List(publicOnly bool) ([]*domain.Group, error) {
	args := m.Called(publicOnly)
	g, _ := args.Get(0).([]*domain.Group)
	return g, args.Error(1)
}
func (m *mockGroupRepo) Update(group *domain.Group) error {
	return m.Called(group).Error(0)
}
func (m *mockGroupRepo) DeleteGroup(id string) error {
	return m.Called(id).Error(0)
}
func (m *mockGroupRepo) AddMember(groupID, agentID string, role domain.Role) error {
	return m.Called(groupID, agentID, role).Error(0)
}
func (m *mockGroupRepo) RemoveMember(groupID, agentID string) error {
	return m.Called(groupID, agentID).Error(0)
}
func (m *mockGroupRepo) FindMember(groupID, agentID string) (*domain.GroupMember, error) {
	args := m.Called(groupID, agentID)
	gm, _ := args.Get(0).(*domain.GroupMember)
	return gm, args.Error(1)
}
func (m *mockGroupRepo) ListMembers(groupID string) ([]*domain.GroupMember, error) {
	args := m.Called(groupID)
	gm, _ := args.Get(0).([]*domain.GroupMember)
	return gm, args.Error(1)
}
func (m *mockGroupRepo) ListGroupIDsForAgent(agentID string) ([]string, error) {
	args := m.Called(agentID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}
func (m *mockGroupRepo) CountAdmins(groupID string) (int64, error) {
	args := m.Called(groupID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *mockGroupRepo) RoleCounts(groupID string) (map[domain.Role]int, error) {
	args := m.Called(groupID)
	rc, _ := args.Get(0).(map[domain.Role]int)
	return rc, args.Error(1)
}
func (m *mockGroupRepo) SetMemberRole(groupID, agentID string, role domain.Role) error {
	return m.Called(groupID, agentID, role).Error(0)
}
func (m *mockGroupRepo) GetPermissions(groupID string) (*domain.GroupPermissions, error) {
	args := m.Called(groupID)
	p, _ := args.Get(0).(*domain.GroupPermissions)
	return p, args.Error(1)
}
func (m *mockGroupRepo) SavePermissions(p *domain.GroupPermissions) error {
	return m.Called(p).Error(0)
}
func (m *mockGroupRepo) Pin(groupID, messageID string) error {
	return m.Called(groupID, messageID).Error(0)
}
func (m *mockGroupRepo) Unpin(groupID, messageID string) error {
	return m.Called(groupID, messageID).Error(0)
}
func (m *mockGroupRepo) ListPinned(groupID string) ([]string, error) {
	args := m.Called(groupID)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}
func (m *mockGroupRepo) IsMessageInGroup(groupID, messageID string) (bool, error) {
	args := m.Called(groupID, messageID)
	return args.Bool(0), args.Error(1)
}

type mockMessageRepo struct{ mock.Mock }

func (m *mockMessageRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}
func (m *mockMessageRepo) FindByID(id string) (*domain.Message, error) {
	args := m.Called(id)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}
func (m *mockMessageRepo) ListBefore(groupID string, limit int, before *string) ([]*domain.Message, error) {
	args := m.Called(groupID, limit, before)
	msgs, _ := args.Get(0).([]*domain.Message)
	return msgs, args.Error(1)
}
func (m *mockMessageRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}
func (m *mockMessageRepo) ListByIDs(ids []string) (map[string]*domain.Message, error) {
	args := m.Called(ids)
	msgs, _ := args.Get(0).(map[string]*domain.Message)
	return msgs, args.Error(1)
}
