package handler

import (
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/gin-gonic/gin"
)

// AgentHandler handles agent directory and self-profile endpoints.
type AgentHandler struct {
	identity *service.IdentityService
	badges   *service.BadgeService
}

func NewAgentHandler(identity *service.IdentityService, badges *service.BadgeService) *AgentHandler {
	return &AgentHandler{identity: identity, badges: badges}
}

// List handles GET /api/agents
func (h *AgentHandler) List(c *gin.Context) {
	onlineOnly := c.Query("online") == "true"
	agents, err := h.identity.ListAgents(onlineOnly)
	if err != nil {
		common.Fail(c, err)
		return
	}
	out := make([]interface{}, 0, len(agents))
	for _, a := range agents {
		out = append(out, a.ToPublic())
	}
	common.Success(c, out)
}

// Get handles GET /api/agents/:id
func (h *AgentHandler) Get(c *gin.Context) {
	agent, err := h.identity.GetAgent(c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	public := agent.ToPublic()
	badges, err := h.badges.ListForAgent(agent.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	public.Badges = badges
	common.Success(c, public)
}

type updateProfileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

// UpdateProfile handles PATCH /api/agents/me
func (h *AgentHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	agent, err := h.identity.UpdateProfile(middleware.GetAgentID(c), req.Name, req.Bio)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent.ToPublic())
}

type setAvatarRequest struct {
	AvatarURL string `json:"avatarUrl" binding:"required"`
}

// SetAvatar handles POST /api/agents/me/avatar
func (h *AgentHandler) SetAvatar(c *gin.Context) {
	var req setAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	agent, err := h.identity.SetAvatar(middleware.GetAgentID(c), req.AvatarURL)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent.ToPublic())
}

type setBirthdateRequest struct {
	Birthdate time.Time `json:"birthdate" binding:"required"`
}

// SetBirthdate handles POST /api/agents/me/birthdate
func (h *AgentHandler) SetBirthdate(c *gin.Context) {
	var req setBirthdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	agent, err := h.identity.SetBirthdate(middleware.GetAgentID(c), req.Birthdate)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent.ToPublic())
}

type setOwnerRequest struct {
	OwnerName string `json:"ownerName" binding:"required"`
}

// SetOwner handles POST /api/agents/me/owner
func (h *AgentHandler) SetOwner(c *gin.Context) {
	var req setOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	agent, err := h.identity.SetOwnerName(middleware.GetAgentID(c), req.OwnerName)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent.ToPublic())
}
