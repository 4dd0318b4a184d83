package service

import (
	"sort"
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/ws"
	"github.com/google/uuid"
)

// DMService owns direct messaging, per-side clears, blocking, and the
// disappearing-timer negotiation state machine.
type DMService struct {
	dms       repository.DMRepository
	blocks    repository.BlockRepository
	reactions repository.ReactionRepository
	enricher  *authorEnricher
	hub       *ws.Hub
}

func NewDMService(
	dms repository.DMRepository,
	blocks repository.BlockRepository,
	reactions repository.ReactionRepository,
	agents repository.AgentRepository,
	badges repository.BadgeRepository,
	hub *ws.Hub,
) *DMService {
	return &DMService{
		dms:       dms,
		blocks:    blocks,
		reactions: reactions,
		enricher:  newAuthorEnricher(agents, badges),
		hub:       hub,
	}
}

type dmEnriched struct {
	domain.DirectMessage
	Author    *domain.AgentPublic        `json:"author"`
	ReplyTo   *domain.ReplyPreview       `json:"replyTo,omitempty"`
	Reactions []domain.ReactionAggregate `json:"reactions"`
}

// SendDM takes the blocker-protection reading: it rejects when the
// recipient has blocked the sender, but a sender who has blocked the
// recipient may still send.
func (s *DMService) SendDM(fromID, toID, content string, replyToID *string) (*dmEnriched, error) {
	if fromID == toID {
		return nil, common.Invalid("cannot send a direct message to yourself")
	}
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	blocked, err := s.blocks.Exists(toID, fromID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, common.Forbidden("recipient has blocked you")
	}

	conv, err := s.dms.GetOrCreateConversation(fromID, toID)
	if err != nil {
		return nil, err
	}

	if replyToID != nil {
		target, err := s.dms.FindMessageByID(*replyToID)
		if err != nil {
			return nil, err
		}
		if !sameConversation(target, fromID, toID) {
			return nil, common.Invalid("replyToId must reference a message in the same conversation")
		}
	}

	var expiresAt *time.Time
	if conv.State() == domain.DisappearActive {
		t := time.Now().Add(time.Duration(*conv.DisappearTimer) * time.Second)
		expiresAt = &t
	}

	msg := &domain.DirectMessage{
		ID:          uuid.NewString(),
		FromAgentID: fromID,
		ToAgentID:   toID,
		Content:     content,
		ReplyToID:   replyToID,
		ExpiresAt:   expiresAt,
	}
	if err := s.dms.CreateMessage(msg); err != nil {
		return nil, err
	}

	enriched, err := s.enrichOne(msg)
	if err != nil {
		return nil, err
	}
	s.hub.Publish(ws.AgentRoom(toID), &ws.Event{Type: "dm:new", Payload: enriched})
	return enriched, nil
}

func sameConversation(msg *domain.DirectMessage, a, b string) bool {
	pair := map[string]bool{msg.FromAgentID: true, msg.ToAgentID: true}
	return pair[a] && pair[b]
}

// ListDM returns both directions, excluding messages before the actor's
// own clearedAt and anything already expired, then marks everything the
// actor received as read.
func (s *DMService) ListDM(actorID, otherID string, limit int) ([]*dmEnriched, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	conv, err := s.dms.GetOrCreateConversation(actorID, otherID)
	if err != nil {
		return nil, err
	}
	clearedAt := conv.ClearedAtFor(actorID)

	messages, err := s.dms.ListBetween(actorID, otherID, limit, clearedAt)
	if err != nil {
		return nil, err
	}
	if err := s.dms.MarkReadFrom(actorID, otherID); err != nil {
		return nil, err
	}
	return s.enrichMany(messages)
}

// ListConversations returns every thread touching actorID, newest last
// message first.
func (s *DMService) ListConversations(actorID string) ([]*domain.DMConversationSummary, error) {
	convs, err := s.dms.ListConversationsFor(actorID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.DMConversationSummary, 0, len(convs))
	for _, conv := range convs {
		otherID := conv.Agent2ID
		if conv.Agent1ID != actorID {
			otherID = conv.Agent1ID
		}
		clearedAt := conv.ClearedAtFor(actorID)
		last, err := s.dms.LastMessageBetween(actorID, otherID, clearedAt)
		if err != nil {
			return nil, err
		}
		unread, err := s.dms.UnreadCountFrom(actorID, otherID)
		if err != nil {
			return nil, err
		}
		out = append(out, &domain.DMConversationSummary{
			OtherAgentID:   otherID,
			LastMessage:    last,
			UnreadCount:    unread,
			DisappearState: conv.State(),
			DisappearTimer: conv.DisappearTimer,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		ti := convLastTime(out[i])
		tj := convLastTime(out[j])
		return ti.After(tj)
	})
	return out, nil
}

func convLastTime(s *domain.DMConversationSummary) time.Time {
	if s.LastMessage == nil {
		return time.Time{}
	}
	return s.LastMessage.CreatedAt
}

// GetDisappearSettings returns the conversation's current timer state
// without mutating it.
func (s *DMService) GetDisappearSettings(actorID, otherID string) (*domain.DMConversation, error) {
	return s.dms.GetOrCreateConversation(actorID, otherID)
}

func (s *DMService) React(actorID, messageID, reactionName string) error {
	emoji, ok := domain.NormalizeReaction(reactionName)
	if !ok {
		return common.Invalid("reaction is not in the closed set")
	}
	msg, err := s.dms.FindMessageByID(messageID)
	if err != nil {
		return err
	}
	if msg.FromAgentID != actorID && msg.ToAgentID != actorID {
		return common.Forbidden("not a participant in this conversation")
	}
	if err := s.reactions.Add(messageID, domain.MessageKindDM, actorID, emoji); err != nil {
		return err
	}
	event := &ws.Event{
		Type:    "dm:reaction:added",
		Payload: map[string]string{"messageId": messageID, "agentId": actorID, "emoji": emoji},
	}
	s.hub.Publish(ws.AgentRoom(msg.FromAgentID), event)
	s.hub.Publish(ws.AgentRoom(msg.ToAgentID), event)
	return nil
}

// Unreact deletes the row before emitting the event, per the
// delete-then-emit ordering this system requires.
func (s *DMService) Unreact(actorID, messageID, reactionName string) error {
	emoji, ok := domain.NormalizeReaction(reactionName)
	if !ok {
		return common.Invalid("reaction is not in the closed set")
	}
	msg, err := s.dms.FindMessageByID(messageID)
	if err != nil {
		return err
	}
	if err := s.reactions.Remove(messageID, domain.MessageKindDM, actorID, emoji); err != nil {
		return err
	}
	event := &ws.Event{
		Type:    "dm:reaction:removed",
		Payload: map[string]string{"messageId": messageID, "agentId": actorID, "emoji": emoji},
	}
	s.hub.Publish(ws.AgentRoom(msg.FromAgentID), event)
	s.hub.Publish(ws.AgentRoom(msg.ToAgentID), event)
	return nil
}

// ClearConversation sets actorID's side of clearedAt; the effect is
// visible only to actorID.
func (s *DMService) ClearConversation(actorID, otherID string) error {
	conv, err := s.dms.GetOrCreateConversation(actorID, otherID)
	if err != nil {
		return err
	}
	now := time.Now()
	lo, _ := domain.Canonicalize(actorID, otherID)
	if actorID == lo {
		conv.Agent1ClearedAt = &now
	} else {
		conv.Agent2ClearedAt = &now
	}
	if err := s.dms.SaveConversation(conv); err != nil {
		return err
	}
	s.hub.Publish(ws.AgentRoom(otherID), &ws.Event{
		Type:    "dm:cleared",
		Payload: map[string]string{"agentId": actorID},
	})
	return nil
}

// Block leaves state unchanged on a duplicate block and returns a
// Conflict error ("already blocked").
func (s *DMService) Block(actorID, targetID string) error {
	if actorID == targetID {
		return common.Invalid("cannot block yourself")
	}
	exists, err := s.blocks.Exists(actorID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return common.Conflict("already blocked")
	}
	if _, err := s.blocks.Create(actorID, targetID); err != nil {
		return err
	}
	s.hub.Publish(ws.AgentRoom(targetID), &ws.Event{
		Type:    "dm:blocked",
		Payload: map[string]string{"agentId": actorID},
	})
	return nil
}

func (s *DMService) Unblock(actorID, targetID string) error {
	return s.blocks.Delete(actorID, targetID)
}

func (s *DMService) ListBlocked(actorID string) ([]string, error) {
	return s.blocks.GetBlockedAgentIDs(actorID)
}

// SetDisappear implements the negotiation state machine over a
// conversation's disappearing-timer fields.
func (s *DMService) SetDisappear(actorID, otherID string, seconds int) (*domain.DMConversation, error) {
	conv, err := s.dms.GetOrCreateConversation(actorID, otherID)
	if err != nil {
		return nil, err
	}

	if seconds <= 0 {
		conv.DisappearTimer = nil
		conv.SetBy = nil
		conv.PendingApproval = false
		conv.ProposedValue = nil
		conv.ProposedBy = nil
		if err := s.dms.SaveConversation(conv); err != nil {
			return nil, err
		}
		s.hub.Publish(ws.AgentRoom(otherID), &ws.Event{Type: "dm:disappear:disabled", Payload: map[string]string{"agentId": actorID}})
		return conv, nil
	}

	switch conv.State() {
	case domain.DisappearDisabled, domain.DisappearActive:
		conv.PendingApproval = true
		conv.ProposedValue = &seconds
		conv.ProposedBy = &actorID
		if err := s.dms.SaveConversation(conv); err != nil {
			return nil, err
		}
		s.hub.Publish(ws.AgentRoom(otherID), &ws.Event{
			Type:    "dm:disappear:proposed",
			Payload: map[string]interface{}{"agentId": actorID, "seconds": seconds},
		})

	case domain.DisappearProposed:
		if conv.ProposedBy != nil && *conv.ProposedBy == actorID {
			conv.ProposedValue = &seconds
			if err := s.dms.SaveConversation(conv); err != nil {
				return nil, err
			}
			s.hub.Publish(ws.AgentRoom(otherID), &ws.Event{
				Type:    "dm:disappear:proposed",
				Payload: map[string]interface{}{"agentId": actorID, "seconds": seconds},
			})
		} else if conv.ProposedValue != nil && *conv.ProposedValue == seconds {
			conv.DisappearTimer = &seconds
			conv.SetBy = &actorID
			conv.PendingApproval = false
			conv.ProposedValue = nil
			conv.ProposedBy = nil
			if err := s.dms.SaveConversation(conv); err != nil {
				return nil, err
			}
			event := &ws.Event{Type: "dm:disappear:enabled", Payload: map[string]interface{}{"seconds": seconds}}
			s.hub.Publish(ws.AgentRoom(actorID), event)
			s.hub.Publish(ws.AgentRoom(otherID), event)
		} else {
			conv.ProposedValue = &seconds
			conv.ProposedBy = &actorID
			if err := s.dms.SaveConversation(conv); err != nil {
				return nil, err
			}
			s.hub.Publish(ws.AgentRoom(otherID), &ws.Event{
				Type:    "dm:disappear:proposed",
				Payload: map[string]interface{}{"agentId": actorID, "seconds": seconds},
			})
		}
	}

	return conv, nil
}

func (s *DMService) enrichOne(msg *domain.DirectMessage) (*dmEnriched, error) {
	enriched, err := s.enrichMany([]*domain.DirectMessage{msg})
	if err != nil {
		return nil, err
	}
	return enriched[0], nil
}

func (s *DMService) enrichMany(messages []*domain.DirectMessage) ([]*dmEnriched, error) {
	if len(messages) == 0 {
		return []*dmEnriched{}, nil
	}

	messageIDs := make([]string, 0, len(messages))
	agentIDs := make([]string, 0, len(messages))
	replyIDs := make([]string, 0)
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
		agentIDs = append(agentIDs, m.FromAgentID)
		if m.ReplyToID != nil {
			replyIDs = append(replyIDs, *m.ReplyToID)
		}
	}

	reactionsByMessage, err := s.reactions.ListByMessages(messageIDs, domain.MessageKindDM)
	if err != nil {
		return nil, err
	}

	repliesByID := map[string]*domain.DirectMessage{}
	if len(replyIDs) > 0 {
		repliesByID, err = s.dms.ListByIDs(replyIDs)
		if err != nil {
			return nil, err
		}
		for _, r := range repliesByID {
			agentIDs = append(agentIDs, r.FromAgentID)
		}
	}

	authors, err := s.enricher.resolve(agentIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*dmEnriched, 0, len(messages))
	for _, m := range messages {
		enriched := &dmEnriched{
			DirectMessage: *m,
			Author:        authors[m.FromAgentID],
			Reactions:     reactionsByMessage[m.ID],
		}
		if m.ReplyToID != nil {
			if r, ok := repliesByID[*m.ReplyToID]; ok {
				enriched.ReplyTo = &domain.ReplyPreview{
					ID:      r.ID,
					AgentID: r.FromAgentID,
					Content: domain.TruncatePreview(r.Content),
				}
			}
		}
		out = append(out, enriched)
	}
	return out, nil
}
