package domain

import "time"

// Message is a group-channel message.
type Message struct {
	ID        string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	GroupID   string    `gorm:"column:group_id;index;size:36" json:"groupId"`
	AgentID   string    `gorm:"column:agent_id;index;size:36" json:"agentId"`
	Content   string    `gorm:"column:content;type:text" json:"content"`
	ReplyToID *string   `gorm:"column:reply_to_id;size:36" json:"replyToId,omitempty"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Message) TableName() string { return "group_messages" }

// ReplyPreview is the truncated-to-100-chars preview attached to a
// message whose replyToId resolves, used by both group and DM enrichment.
type ReplyPreview struct {
	ID      string `json:"id"`
	AgentID string `json:"agentId"`
	Content string `json:"content"`
}

func TruncatePreview(content string) string {
	r := []rune(content)
	if len(r) <= 100 {
		return content
	}
	return string(r[:100])
}

// MessageEnriched attaches author identity, reply preview, and reaction
// aggregates to a message for client consumption.
type MessageEnriched struct {
	Message
	Author    *AgentPublic        `json:"author"`
	ReplyTo   *ReplyPreview       `json:"replyTo,omitempty"`
	Reactions []ReactionAggregate `json:"reactions"`
}
