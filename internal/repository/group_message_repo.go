package repository

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(msg *domain.Message) error
	FindByID(id string) (*domain.Message, error)
	// ListBefore returns the newest limit messages in groupID, optionally
	// older than the message identified by before, in chronological
	// (oldest-first) order.
	ListBefore(groupID string, limit int, before *string) ([]*domain.Message, error)
	Delete(id string) error
	ListByIDs(ids []string) (map[string]*domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	return r.db.Create(msg).Error
}

func (r *messageRepository) FindByID(id string) (*domain.Message, error) {
	var m domain.Message
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("message not found")
		}
		return nil, err
	}
	return &m, nil
}

func (r *messageRepository) ListBefore(groupID string, limit int, before *string) ([]*domain.Message, error) {
	q := r.db.Where("group_id = ?", groupID).Order("created_at DESC").Limit(limit)
	if before != nil {
		var cursor domain.Message
		if err := r.db.Where("id = ?", *before).First(&cursor).Error; err == nil {
			q = q.Where("created_at < ?", cursor.CreatedAt)
		}
	}
	var messages []*domain.Message
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	// reverse to chronological order
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *messageRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&domain.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("message not found")
	}
	return nil
}

func (r *messageRepository) ListByIDs(ids []string) (map[string]*domain.Message, error) {
	out := map[string]*domain.Message{}
	if len(ids) == 0 {
		return out, nil
	}
	var messages []*domain.Message
	if err := r.db.Where("id IN ?", ids).Find(&messages).Error; err != nil {
		return nil, err
	}
	for _, m := range messages {
		out[m.ID] = m
	}
	return out, nil
}
