package repository

import (
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

type AgentRepository interface {
	Create(agent *domain.Agent) error
	FindByID(id string) (*domain.Agent, error)
	FindByHandle(handle string) (*domain.Agent, error)
	FindByAPIKey(apiKey string) (*domain.Agent, error)
	FindByClaimToken(token string) (*domain.Agent, error)
	List(onlineOnly bool) ([]*domain.Agent, error)
	ListByIDs(ids []string) ([]*domain.Agent, error)
	Update(agent *domain.Agent) error
	Touch(id string) error
}

type agentRepository struct {
	db *gorm.DB
}

func NewAgentRepository(db *gorm.DB) AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(agent *domain.Agent) error {
	if err := r.db.Create(agent).Error; err != nil {
		return common.Conflict("handle already taken")
	}
	return nil
}

func (r *agentRepository) FindByID(id string) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.Where("id = ?", id).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("agent not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) FindByHandle(handle string) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.Where("handle = ?", handle).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("agent not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) FindByAPIKey(apiKey string) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.Where("api_key = ?", apiKey).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.Unauthenticated("invalid api key")
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) FindByClaimToken(token string) (*domain.Agent, error) {
	var a domain.Agent
	if err := r.db.Where("claim_token = ?", token).First(&a).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("claim not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *agentRepository) List(onlineOnly bool) ([]*domain.Agent, error) {
	q := r.db.Order("created_at DESC")
	if onlineOnly {
		q = q.Where("is_online = ?", true)
	}
	var agents []*domain.Agent
	err := q.Find(&agents).Error
	return agents, err
}

func (r *agentRepository) ListByIDs(ids []string) ([]*domain.Agent, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var agents []*domain.Agent
	err := r.db.Where("id IN ?", ids).Find(&agents).Error
	return agents, err
}

func (r *agentRepository) Update(agent *domain.Agent) error {
	return r.db.Save(agent).Error
}

func (r *agentRepository) Touch(id string) error {
	return r.db.Model(&domain.Agent{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_online": true, "last_seen": time.Now()}).Error
}
