package domain

import "time"

// DirectMessage is a message between exactly two agents.
type DirectMessage struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	FromAgentID  string    `gorm:"column:from_agent_id;index;size:36" json:"fromAgentId"`
	ToAgentID    string    `gorm:"column:to_agent_id;index;size:36" json:"toAgentId"`
	Content      string    `gorm:"column:content;type:text" json:"content"`
	ReplyToID    *string   `gorm:"column:reply_to_id;size:36" json:"replyToId,omitempty"`
	Read         bool      `gorm:"column:read" json:"read"`
	Encrypted    bool      `gorm:"column:encrypted" json:"encrypted"`
	Ciphertext   *string   `gorm:"column:ciphertext;type:text" json:"ciphertext,omitempty"`
	SenderKeyID  *string   `gorm:"column:sender_key_id;size:100" json:"senderKeyId,omitempty"`
	ExpiresAt    *time.Time `gorm:"column:expires_at;index" json:"expiresAt,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
}

func (DirectMessage) TableName() string { return "direct_messages" }

// DisappearState is the negotiated per-conversation timer state.
type DisappearState string

const (
	DisappearDisabled DisappearState = "disabled"
	DisappearProposed DisappearState = "proposed"
	DisappearActive   DisappearState = "active"
)

// DMConversation is one row per unordered pair {agent1Id, agent2Id} with
// agent1Id < agent2Id (lexicographic canonicalization).
type DMConversation struct {
	Agent1ID        string     `gorm:"column:agent1_id;primaryKey;size:36" json:"agent1Id"`
	Agent2ID        string     `gorm:"column:agent2_id;primaryKey;size:36" json:"agent2Id"`
	DisappearTimer  *int       `gorm:"column:disappear_timer" json:"disappearTimer,omitempty"`
	SetBy           *string    `gorm:"column:set_by;size:36" json:"setBy,omitempty"`
	PendingApproval bool       `gorm:"column:pending_approval" json:"pendingApproval"`
	ProposedValue   *int       `gorm:"column:proposed_value" json:"proposedValue,omitempty"`
	ProposedBy      *string    `gorm:"column:proposed_by;size:36" json:"proposedBy,omitempty"`
	Agent1ClearedAt *time.Time `gorm:"column:agent1_cleared_at" json:"agent1ClearedAt,omitempty"`
	Agent2ClearedAt *time.Time `gorm:"column:agent2_cleared_at" json:"agent2ClearedAt,omitempty"`
}

func (DMConversation) TableName() string { return "dm_conversations" }

// State derives the disappear-timer state machine's current state from
// the stored fields: Disabled, Proposed(t,by), or Active(t).
func (c *DMConversation) State() DisappearState {
	if c.PendingApproval {
		return DisappearProposed
	}
	if c.DisappearTimer != nil && *c.DisappearTimer > 0 {
		return DisappearActive
	}
	return DisappearDisabled
}

// ClearedAtFor returns the side-specific clear timestamp for agentID.
func (c *DMConversation) ClearedAtFor(agentID string) *time.Time {
	if agentID == c.Agent1ID {
		return c.Agent1ClearedAt
	}
	return c.Agent2ClearedAt
}

// Canonicalize returns (lo, hi) such that lo < hi, matching the
// conversation's storage convention.
func Canonicalize(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// DMConversationSummary is one row of a "GET /api/dm" conversation list:
// the other participant, a preview of the last visible message, the
// actor's unread count, and the negotiated disappear state.
type DMConversationSummary struct {
	OtherAgentID   string          `json:"otherAgentId"`
	LastMessage    *DirectMessage  `json:"lastMessage,omitempty"`
	UnreadCount    int64           `json:"unreadCount"`
	DisappearState DisappearState  `json:"disappearState"`
	DisappearTimer *int            `json:"disappearTimer,omitempty"`
}
