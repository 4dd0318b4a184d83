package service

import (
	"strings"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/permission"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/google/uuid"
)

const maxContentLength = 4000
const maxListLimit = 100

// MessagingService owns group message send/delete/react/list.
type MessagingService struct {
	messages  repository.MessageRepository
	groups    repository.GroupRepository
	reactions repository.ReactionRepository
	perm      *permission.Evaluator
	enricher  *authorEnricher
	hub       *ws.Hub
}

func NewMessagingService(
	messages repository.MessageRepository,
	groups repository.GroupRepository,
	reactions repository.ReactionRepository,
	agents repository.AgentRepository,
	badges repository.BadgeRepository,
	perm *permission.Evaluator,
	hub *ws.Hub,
) *MessagingService {
	return &MessagingService{
		messages:  messages,
		groups:    groups,
		reactions: reactions,
		perm:      perm,
		enricher:  newAuthorEnricher(agents, badges),
		hub:       hub,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", common.Invalid("content cannot be empty")
	}
	if len([]rune(content)) > maxContentLength {
		return "", common.Invalid("content exceeds maximum length")
	}
	return content, nil
}

func (s *MessagingService) SendGroupMessage(actorID, groupID, content string, replyToID *string) (*domain.MessageEnriched, error) {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.Forbidden("not a member of the group")
	}
	content, err = validateContent(content)
	if err != nil {
		return nil, err
	}
	if replyToID != nil {
		inGroup, err := s.groups.IsMessageInGroup(groupID, *replyToID)
		if err != nil {
			return nil, err
		}
		if !inGroup {
			return nil, common.Invalid("replyToId must reference a message in the same group")
		}
	}

	msg := &domain.Message{
		ID:        uuid.NewString(),
		GroupID:   groupID,
		AgentID:   actorID,
		Content:   content,
		ReplyToID: replyToID,
	}
	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	enriched, err := s.enrichOne(msg)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{Type: "message:new", Payload: enriched})
	return enriched, nil
}

// DeleteGroupMessage allows the author, or an actor holding deleteAnyMessage.
func (s *MessagingService) DeleteGroupMessage(actorID, groupID, messageID string) error {
	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if msg.GroupID != groupID {
		return common.NotFound("message not found")
	}
	if msg.AgentID != actorID {
		member, err := s.groups.FindMember(groupID, actorID)
		if err != nil {
			return err
		}
		overrides, err := s.groups.GetPermissions(groupID)
		if err != nil {
			return err
		}
		if d := s.perm.Check(domain.ActionDeleteAnyMessage, member, overrides); !d.Allowed {
			return common.Forbidden(d.Reason)
		}
	}
	if err := s.messages.Delete(messageID); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "message:deleted",
		Payload: map[string]string{"groupId": groupID, "messageId": messageID},
	})
	return nil
}

func (s *MessagingService) ReactGroupMessage(actorID, groupID, messageID, reactionName string) error {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return err
	}
	if member == nil {
		return common.Forbidden("not a member of the group")
	}
	emoji, ok := domain.NormalizeReaction(reactionName)
	if !ok {
		return common.Invalid("reaction is not in the closed set")
	}
	msg, err := s.messages.FindByID(messageID)
	if err != nil {
		return err
	}
	if msg.GroupID != groupID {
		return common.NotFound("message not found")
	}
	if err := s.reactions.Add(messageID, domain.MessageKindGroup, actorID, emoji); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "message:reaction:added",
		Payload: map[string]string{"groupId": groupID, "messageId": messageID, "agentId": actorID, "emoji": emoji},
	})
	return nil
}

func (s *MessagingService) UnreactGroupMessage(actorID, groupID, messageID, reactionName string) error {
	emoji, ok := domain.NormalizeReaction(reactionName)
	if !ok {
		return common.Invalid("reaction is not in the closed set")
	}
	if err := s.reactions.Remove(messageID, domain.MessageKindGroup, actorID, emoji); err != nil {
		return err
	}
	s.hub.Publish(ws.GroupRoom(groupID), &ws.Event{
		Type:    "message:reaction:removed",
		Payload: map[string]string{"groupId": groupID, "messageId": messageID, "agentId": actorID, "emoji": emoji},
	})
	return nil
}

// ListGroupMessages returns up to limit (clamped to 100) newest messages,
// chronological order, enriched with author, reply preview, and reaction
// aggregates in a fixed number of batch queries.
func (s *MessagingService) ListGroupMessages(actorID, groupID string, limit int, before *string) ([]*domain.MessageEnriched, error) {
	member, err := s.groups.FindMember(groupID, actorID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, common.Forbidden("not a member of the group")
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	messages, err := s.messages.ListBefore(groupID, limit, before)
	if err != nil {
		return nil, err
	}
	return s.enrichMany(messages)
}

func (s *MessagingService) enrichOne(msg *domain.Message) (*domain.MessageEnriched, error) {
	enriched, err := s.enrichMany([]*domain.Message{msg})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

func (s *MessagingService) enrichMany(messages []*domain.Message) ([]*domain.MessageEnriched, error) {
	if len(messages) == 0 {
		return []*domain.MessageEnriched{}, nil
	}

	messageIDs := make([]string, 0, len(messages))
	agentIDs := make([]string, 0, len(messages))
	replyIDs := make([]string, 0)
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
		agentIDs = append(agentIDs, m.AgentID)
		if m.ReplyToID != nil {
			replyIDs = append(replyIDs, *m.ReplyToID)
		}
	}

	reactionsByMessage, err := s.reactions.ListByMessages(messageIDs, domain.MessageKindGroup)
	if err != nil {
		return nil, err
	}

	repliesByID := map[string]*domain.Message{}
	if len(replyIDs) > 0 {
		repliesByID, err = s.messages.ListByIDs(replyIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range repliesByID {
			agentIDs = append(agentIDs, r.AgentID)
		}
	}

	authors, err := s.enricher.resolve(agentIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.MessageEnriched, 0, len(messages))
	for _, m := range messages {
		enriched := &domain.MessageEnriched{
			Message:   *m,
			Author:    authors[m.AgentID],
			Reactions: reactionsByMessage[m.ID],
		}
		if m.ReplyToID != nil {
			if r, ok := repliesByID[*m.ReplyToID]; ok {
				enriched.ReplyTo = &domain.ReplyPreview{
					ID:      r.ID,
					AgentID: r.AgentID,
					Content: domain.TruncatePreview(r.Content),
				}
			}
		}
		out = append(out, enriched)
	}
	return out, nil
}
