package domain

import "time"

// AgentBlock is an asymmetric (blockerId, blockedId) relation: blocking
// prevents the blocked agent from sending to the blocker, not the reverse.
type AgentBlock struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BlockerID string    `gorm:"column:blocker_id;uniqueIndex:idx_block_pair;size:36" json:"blockerId"`
	BlockedID string    `gorm:"column:blocked_id;uniqueIndex:idx_block_pair;size:36" json:"blockedId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (AgentBlock) TableName() string { return "agent_blocks" }
