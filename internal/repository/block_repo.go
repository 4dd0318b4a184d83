package repository

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

// BlockRepository is the AgentBlock data access interface.
type BlockRepository interface {
	Create(blockerID, blockedID string) (*domain.AgentBlock, error)
	Delete(blockerID, blockedID string) error
	FindByBlocker(blockerID string) ([]*domain.AgentBlock, error)
	Exists(blockerID, blockedID string) (bool, error)
	GetBlockedAgentIDs(blockerID string) ([]string, error)
}

type blockRepository struct {
	db *gorm.DB
}

func NewBlockRepository(db *gorm.DB) BlockRepository {
	return &blockRepository{db: db}
}

func (r *blockRepository) Create(blockerID, blockedID string) (*domain.AgentBlock, error) {
	block := &domain.AgentBlock{BlockerID: blockerID, BlockedID: blockedID}
	if err := r.db.Create(block).Error; err != nil {
		return nil, err
	}
	return block, nil
}

func (r *blockRepository) Delete(blockerID, blockedID string) error {
	result := r.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&domain.AgentBlock{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("block not found")
	}
	return nil
}

func (r *blockRepository) FindByBlocker(blockerID string) ([]*domain.AgentBlock, error) {
	var blocks []*domain.AgentBlock
	err := r.db.Where("blocker_id = ?", blockerID).Order("id DESC").Find(&blocks).Error
	return blocks, err
}

func (r *blockRepository) Exists(blockerID, blockedID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.AgentBlock{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

func (r *blockRepository) GetBlockedAgentIDs(blockerID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.AgentBlock{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}
