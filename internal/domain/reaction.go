package domain

// ReactionName is one of the four closed reaction names accepted on input.
type ReactionName string

const (
	ReactionLike  ReactionName = "like"
	ReactionLove  ReactionName = "love"
	ReactionAngry ReactionName = "angry"
	ReactionSad   ReactionName = "sad"
)

var reactionEmoji = map[ReactionName]string{
	ReactionLike:  "👍",
	ReactionLove:  "❤️",
	ReactionAngry: "😠",
	ReactionSad:   "😢",
}

var emojiToName = map[string]ReactionName{
	"👍":  ReactionLike,
	"❤️": ReactionLove,
	"😠":  ReactionAngry,
	"😢":  ReactionSad,
}

// NormalizeReaction accepts either the name or the emoji and always
// returns the emoji form (what the server echoes on output), plus ok.
func NormalizeReaction(input string) (emoji string, ok bool) {
	if e, found := reactionEmoji[ReactionName(input)]; found {
		return e, true
	}
	if _, found := emojiToName[input]; found {
		return input, true
	}
	return "", false
}

// MessageKind discriminates which table a reaction's message id refers to.
type MessageKind string

const (
	MessageKindGroup MessageKind = "group"
	MessageKindDM    MessageKind = "dm"
)

// Reaction is the (messageId, agentId, emoji) unique annotation, valid on
// both group messages and DMs depending on Kind.
type Reaction struct {
	ID        int64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageID string      `gorm:"column:message_id;uniqueIndex:idx_reaction;size:36" json:"messageId"`
	Kind      MessageKind `gorm:"column:kind;uniqueIndex:idx_reaction;size:10" json:"kind"`
	AgentID   string      `gorm:"column:agent_id;uniqueIndex:idx_reaction;size:36" json:"agentId"`
	Emoji     string      `gorm:"column:emoji;uniqueIndex:idx_reaction;size:10" json:"emoji"`
}

func (Reaction) TableName() string { return "reactions" }

// ReactionAggregate is the per-emoji count returned alongside a message.
type ReactionAggregate struct {
	Emoji   string   `json:"emoji"`
	Count   int      `json:"count"`
	AgentIDs []string `json:"agentIds"`
}
