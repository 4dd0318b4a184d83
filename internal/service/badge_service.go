package service

import (
	"time"

	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/repository"
)

// BadgeService exposes the public badge catalog plus the award/revoke
// administrative actions.
type BadgeService struct {
	badges repository.BadgeRepository
}

func NewBadgeService(badges repository.BadgeRepository) *BadgeService {
	return &BadgeService{badges: badges}
}

func (s *BadgeService) List() ([]domain.Badge, error) {
	return s.badges.List()
}

func (s *BadgeService) Get(slug string) (*domain.Badge, error) {
	return s.badges.FindBySlug(slug)
}

func (s *BadgeService) ListForAgent(agentID string) ([]domain.AgentBadgePublic, error) {
	return s.badges.ListForAgent(agentID)
}

func (s *BadgeService) Award(agentID, slug, awardedBy string, expiresAt *time.Time) error {
	if _, err := s.badges.FindBySlug(slug); err != nil {
		return err
	}
	return s.badges.Award(agentID, slug, awardedBy, expiresAt)
}

func (s *BadgeService) Revoke(agentID, slug string) error {
	return s.badges.Revoke(agentID, slug)
}
