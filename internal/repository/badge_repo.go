package repository

import (
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository interface {
	SeedSystemBadges() error
	List() ([]domain.Badge, error)
	FindBySlug(slug string) (*domain.Badge, error)

	Award(agentID, slug, awardedBy string, expiresAt *time.Time) error
	Revoke(agentID, slug string) error
	// ListForAgent returns non-expired AgentBadge rows joined with Badge,
	// sorted by Badge.Priority ascending (lower = higher visibility).
	ListForAgent(agentID string) ([]domain.AgentBadgePublic, error)
	// ListForAgents batch-fetches badges for many agents in one query,
	// to avoid N+1 on enriched message/agent listings.
	ListForAgents(agentIDs []string) (map[string][]domain.AgentBadgePublic, error)
	HasBadge(agentID, slug string) (bool, error)
}

type badgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) BadgeRepository {
	return &badgeRepository{db: db}
}

func (r *badgeRepository) SeedSystemBadges() error {
	for _, b := range domain.SystemBadges {
		if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&b).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *badgeRepository) List() ([]domain.Badge, error) {
	var badges []domain.Badge
	err := r.db.Order("priority ASC").Find(&badges).Error
	return badges, err
}

func (r *badgeRepository) FindBySlug(slug string) (*domain.Badge, error) {
	var b domain.Badge
	if err := r.db.Where("slug = ?", slug).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("badge not found")
		}
		return nil, err
	}
	return &b, nil
}

func (r *badgeRepository) Award(agentID, slug, awardedBy string, expiresAt *time.Time) error {
	row := &domain.AgentBadge{AgentID: agentID, BadgeSlug: slug, AwardedBy: awardedBy, ExpiresAt: expiresAt}
	// Idempotent award: re-awarding an already-held badge is a no-op,
	// matching the "award the verified badge idempotently" requirement.
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error
}

func (r *badgeRepository) Revoke(agentID, slug string) error {
	result := r.db.Where("agent_id = ? AND badge_slug = ?", agentID, slug).Delete(&domain.AgentBadge{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("badge not held")
	}
	return nil
}

func (r *badgeRepository) ListForAgent(agentID string) ([]domain.AgentBadgePublic, error) {
	m, err := r.ListForAgents([]string{agentID})
	if err != nil {
		return nil, err
	}
	return m[agentID], nil
}

func (r *badgeRepository) ListForAgents(agentIDs []string) (map[string][]domain.AgentBadgePublic, error) {
	out := map[string][]domain.AgentBadgePublic{}
	if len(agentIDs) == 0 {
		return out, nil
	}
	type row struct {
		domain.AgentBadge
		domain.Badge
	}
	var rows []row
	err := r.db.Table("agent_badges").
		Select("agent_badges.*, badges.*").
		Joins("JOIN badges ON badges.slug = agent_badges.badge_slug").
		Where("agent_badges.agent_id IN ?", agentIDs).
		Where("agent_badges.expires_at IS NULL OR agent_badges.expires_at > ?", time.Now()).
		Order("badges.priority ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.AgentBadge.AgentID] = append(out[r.AgentBadge.AgentID], domain.AgentBadgePublic{
			Badge:     r.Badge,
			AwardedAt: r.AgentBadge.AwardedAt,
			AwardedBy: r.AgentBadge.AwardedBy,
			ExpiresAt: r.AgentBadge.ExpiresAt,
		})
	}
	return out, nil
}

func (r *badgeRepository) HasBadge(agentID, slug string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.AgentBadge{}).
		Where("agent_id = ? AND badge_slug = ?", agentID, slug).
		Where("expires_at IS NULL OR expires_at > ?", time.Now()).
		Count(&count).Error
	return count > 0, err
}
