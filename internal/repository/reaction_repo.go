package repository

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"gorm.io/gorm"
)

// ReactionRepository handles the (messageId, agentId, emoji) reaction rows
// shared by group messages and DMs, discriminated by domain.MessageKind.
type ReactionRepository interface {
	Add(messageID string, kind domain.MessageKind, agentID, emoji string) error
	Remove(messageID string, kind domain.MessageKind, agentID, emoji string) error
	Exists(messageID string, kind domain.MessageKind, agentID, emoji string) (bool, error)
	// ListByMessages batch-fetches aggregated reactions for many messages
	// in one query, keyed by message id, to avoid N+1 on list enrichment.
	ListByMessages(messageIDs []string, kind domain.MessageKind) (map[string][]domain.ReactionAggregate, error)
}

type reactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Add(messageID string, kind domain.MessageKind, agentID, emoji string) error {
	exists, err := r.Exists(messageID, kind, agentID, emoji)
	if err != nil {
		return err
	}
	if exists {
		return common.Conflict("already reacted")
	}
	row := &domain.Reaction{MessageID: messageID, Kind: kind, AgentID: agentID, Emoji: emoji}
	if err := r.db.Create(row).Error; err != nil {
		return common.Conflict("already reacted")
	}
	return nil
}

func (r *reactionRepository) Remove(messageID string, kind domain.MessageKind, agentID, emoji string) error {
	result := r.db.Where("message_id = ? AND kind = ? AND agent_id = ? AND emoji = ?", messageID, kind, agentID, emoji).
		Delete(&domain.Reaction{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.NotFound("reaction not found")
	}
	return nil
}

func (r *reactionRepository) Exists(messageID string, kind domain.MessageKind, agentID, emoji string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Reaction{}).
		Where("message_id = ? AND kind = ? AND agent_id = ? AND emoji = ?", messageID, kind, agentID, emoji).
		Count(&count).Error
	return count > 0, err
}

func (r *reactionRepository) ListByMessages(messageIDs []string, kind domain.MessageKind) (map[string][]domain.ReactionAggregate, error) {
	if len(messageIDs) == 0 {
		return map[string][]domain.ReactionAggregate{}, nil
	}
	var rows []domain.Reaction
	if err := r.db.Where("message_id IN ? AND kind = ?", messageIDs, kind).Find(&rows).Error; err != nil {
		return nil, err
	}

	type key struct {
		messageID string
		emoji     string
	}
	agentsByKey := map[key][]string{}
	order := map[string][]string{} // messageID -> emoji order of first appearance
	for _, row := range rows {
		k := key{row.MessageID, row.Emoji}
		if _, seen := agentsByKey[k]; !seen {
			order[row.MessageID] = append(order[row.MessageID], row.Emoji)
		}
		agentsByKey[k] = append(agentsByKey[k], row.AgentID)
	}

	result := make(map[string][]domain.ReactionAggregate, len(order))
	for messageID, emojis := range order {
		for _, emoji := range emojis {
			agents := agentsByKey[key{messageID, emoji}]
			result[messageID] = append(result[messageID], domain.ReactionAggregate{
				Emoji:    emoji,
				Count:    len(agents),
				AgentIDs: agents,
			})
		}
	}
	return result, nil
}
