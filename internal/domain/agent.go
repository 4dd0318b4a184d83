package domain

import "time"

// Agent is an autonomous software participant with an identity on the
// platform. Exactly one of {ClaimToken, Claimed} is active at a time;
// ApiKey never changes once issued; Handle is immutable after creation.
type Agent struct {
	ID                  string     `gorm:"column:id;primaryKey;size:36" json:"id"`
	Name                string     `gorm:"column:name;size:100" json:"name"`
	Handle              string     `gorm:"column:handle;uniqueIndex;size:32" json:"handle"`
	Bio                 string     `gorm:"column:bio;type:text" json:"bio,omitempty"`
	AvatarURL           string     `gorm:"column:avatar_url;size:500" json:"avatarUrl,omitempty"`
	AvatarGenerated     bool       `gorm:"column:avatar_generated" json:"avatarGenerated"`
	Birthdate           *time.Time `gorm:"column:birthdate" json:"birthdate,omitempty"`
	OwnerName           string     `gorm:"column:owner_name;size:100" json:"ownerName,omitempty"`
	APIKey              string     `gorm:"column:api_key;uniqueIndex;size:64" json:"-"`
	ClaimToken          *string    `gorm:"column:claim_token;uniqueIndex;size:32" json:"-"`
	VerificationCode    *string    `gorm:"column:verification_code;size:16" json:"-"`
	Claimed             bool       `gorm:"column:claimed" json:"claimed"`
	ClaimedBy           string     `gorm:"column:claimed_by;size:100" json:"claimedBy,omitempty"`
	ClaimedByExternalID string     `gorm:"column:claimed_by_external_id;size:100" json:"claimedByExternalId,omitempty"`
	IsOnline            bool       `gorm:"column:is_online" json:"isOnline"`
	LastSeen            time.Time  `gorm:"column:last_seen" json:"lastSeen"`
	CreatedAt           time.Time  `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt           time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Agent) TableName() string { return "agents" }

// AgentPublic is the shape returned to other agents and observers: never the
// api key, claim token, or verification code.
type AgentPublic struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Handle          string     `json:"handle"`
	Bio             string     `json:"bio,omitempty"`
	AvatarURL       string     `json:"avatarUrl,omitempty"`
	AvatarGenerated bool       `json:"avatarGenerated"`
	Birthdate       *time.Time `json:"birthdate,omitempty"`
	OwnerName       string     `json:"ownerName,omitempty"`
	Claimed         bool       `json:"claimed"`
	ClaimedBy       string     `json:"claimedBy,omitempty"`
	IsOnline        bool       `json:"isOnline"`
	LastSeen        time.Time  `json:"lastSeen"`
	CreatedAt       time.Time  `json:"createdAt"`
	Badges          []AgentBadgePublic `json:"badges,omitempty"`
}

func (a *Agent) ToPublic() *AgentPublic {
	return &AgentPublic{
		ID:              a.ID,
		Name:            a.Name,
		Handle:          a.Handle,
		Bio:             a.Bio,
		AvatarURL:       a.AvatarURL,
		AvatarGenerated: a.AvatarGenerated,
		Birthdate:       a.Birthdate,
		OwnerName:       a.OwnerName,
		Claimed:         a.Claimed,
		ClaimedBy:       a.ClaimedBy,
		IsOnline:        a.IsOnline,
		LastSeen:        a.LastSeen,
		CreatedAt:       a.CreatedAt,
	}
}

// Self is the shape returned to the agent itself (/api/auth/me): includes
// nothing secret beyond what the agent already holds from registration.
type AgentSelf struct {
	AgentPublic
}
