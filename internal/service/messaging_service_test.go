package service

import (
	"testing"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/permission"
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newMessagingServiceForTest() (*MessagingService, *mockMessageRepo, *mockGroupRepo, *mockReactionRepo, *mockAgentRepo, *mockBadgeRepo) {
	messages := &mockMessageRepo{}
	groups := &mockGroupRepo{}
	reactions := &mockReactionRepo{}
	agents := &mockAgentRepo{}
	badges := &mockBadgeRepo{}
	svc := NewMessagingService(messages, groups, reactions, agents, badges, permission.NewEvaluator(), ws.NewHub(nil))
	return svc, messages, groups, reactions, agents, badges
}

func TestMessagingService_SendGroupMessage_RejectsNonMember(t *testing.T) {
	svc, _, groups, _, _, _ := newMessagingServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(nil, nil)

	_, err := svc.SendGroupMessage("agent-a", "group-1", "hello", nil)
	assert.Equal(t, common.KindForbidden, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestMessagingService_SendGroupMessage_RejectsEmptyContent(t *testing.T) {
	svc, _, groups, _, _, _ := newMessagingServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)

	_, err := svc.SendGroupMessage("agent-a", "group-1", "   ", nil)
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestMessagingService_SendGroupMessage_RejectsReplyOutsideGroup(t *testing.T) {
	svc, _, groups, _, _, _ := newMessagingServiceForTest()
	replyID := "msg-outside"
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)
	groups.On("IsMessageInGroup", "group-1", replyID).Return(false, nil)

	_, err := svc.SendGroupMessage("agent-a", "group-1", "hello", &replyID)
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestMessagingService_SendGroupMessage_Success(t *testing.T) {
	svc, messages, groups, reactions, agents, badges := newMessagingServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)
	messages.On("Create", mock.AnythingOfType("*domain.Message")).Return(nil)
	reactions.On("ListByMessages", mock.Anything, domain.MessageKindGroup).Return(map[string][]domain.ReactionAggregate{}, nil)
	agents.On("ListByIDs", []string{"agent-a"}).Return([]*domain.Agent{{ID: "agent-a", Handle: "agent_a"}}, nil)
	badges.On("ListForAgents", []string{"agent-a"}).Return(map[string][]domain.AgentBadgePublic{}, nil)

	enriched, err := svc.SendGroupMessage("agent-a", "group-1", "hello there", nil)
	assert.NoError(t, err)
	assert.Equal(t, "hello there", enriched.Content)
	assert.Equal(t, "group-1", enriched.GroupID)
	assert.NotNil(t, enriched.Author)
	groups.AssertExpectations(t)
	messages.AssertExpectations(t)
}

func TestMessagingService_DeleteGroupMessage_AuthorAllowed(t *testing.T) {
	svc, messages, groups, _, _, _ := newMessagingServiceForTest()
	messages.On("FindByID", "msg-1").Return(&domain.Message{ID: "msg-1", GroupID: "group-1", AgentID: "agent-a"}, nil)
	messages.On("Delete", "msg-1").Return(nil)

	err := svc.DeleteGroupMessage("agent-a", "group-1", "msg-1")
	assert.NoError(t, err)
	groups.AssertNotCalled(t, "FindMember")
	messages.AssertExpectations(t)
}

func TestMessagingService_DeleteGroupMessage_NonAuthorRequiresPermission(t *testing.T) {
	svc, messages, groups, _, _, _ := newMessagingServiceForTest()
	messages.On("FindByID", "msg-1").Return(&domain.Message{ID: "msg-1", GroupID: "group-1", AgentID: "agent-a"}, nil)
	groups.On("FindMember", "group-1", "agent-b").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)
	groups.On("GetPermissions", "group-1").Return(&domain.GroupPermissions{}, nil)

	err := svc.DeleteGroupMessage("agent-b", "group-1", "msg-1")
	assert.Equal(t, common.KindForbidden, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}

func TestMessagingService_DeleteGroupMessage_WrongGroupNotFound(t *testing.T) {
	svc, messages, _, _, _, _ := newMessagingServiceForTest()
	messages.On("FindByID", "msg-1").Return(&domain.Message{ID: "msg-1", GroupID: "group-other", AgentID: "agent-a"}, nil)

	err := svc.DeleteGroupMessage("agent-a", "group-1", "msg-1")
	assert.Equal(t, common.KindNotFound, common.AsError(err).Kind)
}

func TestMessagingService_ReactGroupMessage_RejectsOutsideClosedSet(t *testing.T) {
	svc, _, groups, _, _, _ := newMessagingServiceForTest()
	groups.On("FindMember", "group-1", "agent-a").Return(&domain.GroupMember{Role: domain.RoleMember}, nil)

	err := svc.ReactGroupMessage("agent-a", "group-1", "msg-1", "wow")
	assert.Equal(t, common.KindInvalid, common.AsError(err).Kind)
	groups.AssertExpectations(t)
}
