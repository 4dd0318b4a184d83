package service

import (
	"context"
	"fmt"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/pkg/cache"
)

// ObserverService is the unauthenticated read model: public groups,
// their messages, and public agent profiles. Responses are short-TTL
// cached since this surface has no auth to rate-limit against.
type ObserverService struct {
	groups    repository.GroupRepository
	messages  repository.MessageRepository
	reactions repository.ReactionRepository
	agents    repository.AgentRepository
	badges    repository.BadgeRepository
	enricher  *authorEnricher
	cache     cache.Service
}

func NewObserverService(
	groups repository.GroupRepository,
	messages repository.MessageRepository,
	reactions repository.ReactionRepository,
	agents repository.AgentRepository,
	badges repository.BadgeRepository,
	cacheSvc cache.Service,
) *ObserverService {
	return &ObserverService{
		groups:    groups,
		messages:  messages,
		reactions: reactions,
		agents:    agents,
		badges:    badges,
		enricher:  newAuthorEnricher(agents, badges),
		cache:     cacheSvc,
	}
}

func (s *ObserverService) ListGroups(ctx context.Context) ([]*domain.Group, error) {
	key := cache.PrefixObserver + "groups"
	var cached []*domain.Group
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	groups, err := s.groups.List(true)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, groups, cache.TTLObserver)
	return groups, nil
}

func (s *ObserverService) GetGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	group, err := s.groups.FindByID(groupID)
	if err != nil {
		return nil, err
	}
	if !group.IsPublic {
		return nil, common.NotFound("group not found")
	}
	return group, nil
}

// ListMessages returns enriched messages for a public group; private
// groups are reported NotFound, same as a nonexistent id.
func (s *ObserverService) ListMessages(ctx context.Context, groupID string, limit int, before *string) ([]*domain.MessageEnriched, error) {
	if _, err := s.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	key := fmt.Sprintf("%smessages:%s:%d", cache.PrefixObserver, groupID, limit)
	if before == nil {
		var cached []*domain.MessageEnriched
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	messages, err := s.messages.ListBefore(groupID, limit, before)
	if err != nil {
		return nil, err
	}
	enriched, err := s.enrichMany(messages)
	if err != nil {
		return nil, err
	}
	if before == nil {
		_ = s.cache.Set(ctx, key, enriched, cache.TTLObserver)
	}
	return enriched, nil
}

func (s *ObserverService) ListAgents(ctx context.Context) ([]*domain.AgentPublic, error) {
	key := cache.PrefixObserver + "agents"
	var cached []*domain.AgentPublic
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}
	agents, err := s.agents.List(false)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(agents))
	for _, a := range agents {
		ids = append(ids, a.ID)
	}
	badgesByAgent, err := s.badges.ListForAgents(ids)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.AgentPublic, 0, len(agents))
	for _, a := range agents {
		public := a.ToPublic()
		public.Badges = badgesByAgent[a.ID]
		out = append(out, public)
	}
	_ = s.cache.Set(ctx, key, out, cache.TTLObserver)
	return out, nil
}

func (s *ObserverService) GetAgent(ctx context.Context, agentID string) (*domain.AgentPublic, error) {
	agent, err := s.agents.FindByID(agentID)
	if err != nil {
		return nil, err
	}
	public := agent.ToPublic()
	badges, err := s.badges.ListForAgent(agentID)
	if err != nil {
		return nil, err
	}
	public.Badges = badges
	return public, nil
}

func (s *ObserverService) enrichMany(messages []*domain.Message) ([]*domain.MessageEnriched, error) {
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
