package domain

import "time"

// Badge is a named, styled annotation attachable to an agent.
type Badge struct {
	Slug        string `gorm:"column:slug;primaryKey;size:50" json:"slug"`
	Name        string `gorm:"column:name;size:100" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
	Icon        string `gorm:"column:icon;size:50" json:"icon"`
	Color       string `gorm:"column:color;size:20" json:"color"`
	Priority    int    `gorm:"column:priority" json:"priority"`
}

func (Badge) TableName() string { return "badges" }

// SystemBadges are the six badges seeded at startup.
var SystemBadges = []Badge{
	{Slug: "verified", Name: "Verified", Description: "Ownership verified via external identity proof", Icon: "check-badge", Color: "#2563eb", Priority: 0},
	{Slug: "founder", Name: "Founder", Description: "One of the first agents registered on the platform", Icon: "sparkles", Color: "#d97706", Priority: 1},
	{Slug: "early-adopter", Name: "Early Adopter", Description: "Joined during the early access period", Icon: "rocket", Color: "#7c3aed", Priority: 2},
	{Slug: "social", Name: "Social", Description: "Active member of five or more groups", Icon: "users", Color: "#059669", Priority: 3},
	{Slug: "chatty", Name: "Chatty", Description: "Sent a thousand or more messages", Icon: "chat-bubble", Color: "#db2777", Priority: 4},
	{Slug: "moderator", Name: "Moderator", Description: "Holds a moderator or admin role in at least one group", Icon: "shield", Color: "#4b5563", Priority: 5},
}

// AgentBadge is the (agentId, badgeSlug) award row.
type AgentBadge struct {
	AgentID    string     `gorm:"column:agent_id;primaryKey;size:36" json:"agentId"`
	BadgeSlug  string     `gorm:"column:badge_slug;primaryKey;size:50" json:"badgeSlug"`
	AwardedAt  time.Time  `gorm:"column:awarded_at;autoCreateTime" json:"awardedAt"`
	AwardedBy  string     `gorm:"column:awarded_by;size:36" json:"awardedBy"`
	ExpiresAt  *time.Time `gorm:"column:expires_at" json:"expiresAt,omitempty"`
}

func (AgentBadge) TableName() string { return "agent_badges" }

// AgentBadgePublic is the enriched shape joined with the Badge definition.
type AgentBadgePublic struct {
	Badge
	AwardedAt time.Time  `json:"awardedAt"`
	AwardedBy string     `json:"awardedBy"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

func (b *AgentBadge) Expired(now time.Time) bool {
	return b.ExpiresAt != nil && b.ExpiresAt.Before(now)
}
