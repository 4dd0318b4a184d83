package repository

import (
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

type DMRepository interface {
	// GetOrCreateConversation is idempotent: it returns the existing
	// canonicalized row or creates it inside a transaction.
	GetOrCreateConversation(a, b string) (*domain.DMConversation, error)
	SaveConversation(c *domain.DMConversation) error

	CreateMessage(msg *domain.DirectMessage) error
	FindMessageByID(id string) (*domain.DirectMessage, error)
	// ListBetween returns both directions between a and b: the newest
	// limit rows, in chronological (oldest-first) order, excluding rows
	// before clearedAt or already expired.
	ListBetween(a, b string, limit int, clearedAt *time.Time) ([]*domain.DirectMessage, error)
	MarkReadFrom(recipient, sender string) error
	DeleteMessage(id string) error
	ListByIDs(ids []string) (map[string]*domain.DirectMessage, error)

	// ListExpired returns DirectMessage rows whose expiresAt has passed.
	ListExpired(now time.Time) ([]*domain.DirectMessage, error)

	// ListConversationsFor returns every conversation row touching agentID.
	ListConversationsFor(agentID string) ([]*domain.DMConversation, error)
	// LastMessageBetween returns the newest non-expired message visible to
	// the caller (after clearedAt), or nil if the thread is empty.
	LastMessageBetween(a, b string, clearedAt *time.Time) (*domain.DirectMessage, error)
	UnreadCountFrom(recipient, sender string) (int64, error)
}

type dmRepository struct {
	db *gorm.DB
}

func NewDMRepository(db *gorm.DB) DMRepository {
	return &dmRepository{db: db}
}

func (r *dmRepository) GetOrCreateConversation(a, b string) (*domain.DMConversation, error) {
	lo, hi := domain.Canonicalize(a, b)
	var conv domain.DMConversation
	err := r.db.Where("agent1_id = ? AND agent2_id = ?", lo, hi).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	conv = domain.DMConversation{Agent1ID: lo, Agent2ID: hi}
	if err := r.db.Create(&conv).Error; err != nil {
		// lost the create race; fetch the row the other writer inserted
		if ferr := r.db.Where("agent1_id = ? AND agent2_id = ?", lo, hi).First(&conv).Error; ferr != nil {
			return nil, ferr
		}
	}
	return &conv, nil
}

func (r *dmRepository) SaveConversation(c *domain.DMConversation) error {
	return r.db.Save(c).Error
}

func (r *dmRepository) CreateMessage(msg *domain.DirectMessage) error {
	return r.db.Create(msg).Error
}

func (r *dmRepository) FindMessageByID(id string) (*domain.DirectMessage, error) {
	var m domain.DirectMessage
	if err := r.db.Where("id = ?", id).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, common.NotFound("message not found")
		}
		return nil, err
	}
	return &m, nil
}

func (r *dmRepository) ListBetween(a, b string, limit int, clearedAt *time.Time) ([]*domain.DirectMessage, error) {
	q := r.db.Where(
		"((from_agent_id = ? AND to_agent_id = ?) OR (from_agent_id = ? AND to_agent_id = ?))",
		a, b, b, a,
	).Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if clearedAt != nil {
		q = q.Where("created_at > ?", *clearedAt)
	}
	var messages []*domain.DirectMessage
	if err := q.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *dmRepository) MarkReadFrom(recipient, sender string) error {
	return r.db.Model(&domain.DirectMessage{}).
		Where("to_agent_id = ? AND from_agent_id = ? AND read = ?", recipient, sender, false).
		Update("read", true).Error
}

func (r *dmRepository) DeleteMessage(id string) error {
	result := r.db.Where("id = ?", id).Delete(&domain.DirectMessage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("message not found")
	}
	return nil
}

func (r *dmRepository) ListByIDs(ids []string) (map[string]*domain.DirectMessage, error) {
	out := map[string]*domain.DirectMessage{}
	if len(ids) == 0 {
		return out, nil
	}
	var messages []*domain.DirectMessage
	if err := r.db.Where("id IN ?", ids).Find(&messages).Error; err != nil {
		return nil, err
	}
	for _, m := range messages {
		out[m.ID] = m
	}
	return out, nil
}

func (r *dmRepository) ListExpired(now time.Time) ([]*domain.DirectMessage, error) {
	var messages []*domain.DirectMessage
	err := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Find(&messages).Error
	return messages, err
}

func (r *dmRepository) ListConversationsFor(agentID string) ([]*domain.DMConversation, error) {
	var convs []*domain.DMConversation
	err := r.db.Where("agent1_id = ? OR agent2_id = ?", agentID, agentID).Find(&convs).Error
	return convs, err
}

func (r *dmRepository) LastMessageBetween(a, b string, clearedAt *time.Time) (*domain.DirectMessage, error) {
	q := r.db.Where(
		"((from_agent_id = ? AND to_agent_id = ?) OR (from_agent_id = ? AND to_agent_id = ?))",
		a, b, b, a,
	).Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if clearedAt != nil {
		q = q.Where("created_at > ?", *clearedAt)
	}
	var msg domain.DirectMessage
	err := q.Order("created_at DESC").First(&msg).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *dmRepository) UnreadCountFrom(recipient, sender string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.DirectMessage{}).
		Where("to_agent_id = ? AND from_agent_id = ? AND read = ?", recipient, sender, false).
		Count(&count).Error
	return count, err
}
