package service

import (
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
)

// authorEnricher batch-resolves distinct author ids to their public
// profile plus badges in exactly two queries, regardless of how many
// messages reference them. Shared by MessagingService, DMService, and
// ObserverService to satisfy the no-N+1 requirement on enriched listings.
type authorEnricher struct {
	agents repository.AgentRepository
	badges repository.BadgeRepository
}

func newAuthorEnricher(agents repository.AgentRepository, badges repository.BadgeRepository) *authorEnricher {
	return &authorEnricher{agents: agents, badges: badges}
}

func (e *authorEnricher) resolve(agentIDs []string) (map[string]*domain.AgentPublic, error) {
	out := map[string]*domain.AgentPublic{}
	distinct := dedupe(agentIDs)
	if len(distinct) == 0 {
		return out, nil
	}
	agents, err := e.agents.ListByIDs(distinct)
	if err != nil {
		return nil, err
	}
	badgesByAgent, err := e.badges.ListForAgents(distinct)
	if err != nil {
		return nil, err
	}
	for _, a := range agents {
		public := a.ToPublic()
		public.Badges = badgesByAgent[a.ID]
		out[a.ID] = public
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
