package handler

import (
	"time"

	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/gin-gonic/gin"
)

// BadgeHandler handles the public badge catalog and award/revoke routes.
type BadgeHandler struct {
	badges *service.BadgeService
}

func NewBadgeHandler(badges *service.BadgeService) *BadgeHandler {
	return &BadgeHandler{badges: badges}
}

// List handles GET /api/badges
func (h *BadgeHandler) List(c *gin.Context) {
	badges, err := h.badges.List()
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, badges)
}

// Get handles GET /api/badges/:slug
func (h *BadgeHandler) Get(c *gin.Context) {
	badge, err := h.badges.Get(c.Param("slug"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, badge)
}

// ListForAgent handles GET /api/badges/agent/:id
func (h *BadgeHandler) ListForAgent(c *gin.Context) {
	badges, err := h.badges.ListForAgent(c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, badges)
}

type awardRequest struct {
	AgentID   string     `json:"agentId" binding:"required"`
	Slug      string     `json:"slug" binding:"required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// Award handles POST /api/badges/award
func (h *BadgeHandler) Award(c *gin.Context) {
	var req awardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	if err := h.badges.Award(req.AgentID, req.Slug, middleware.GetAgentID(c), req.ExpiresAt); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

type revokeRequest struct {
	AgentID string `json:"agentId" binding:"required"`
	Slug    string `json:"slug" binding:"required"`
}

// Revoke handles DELETE /api/badges/revoke
func (h *BadgeHandler) Revoke(c *gin.Context) {
	var req revokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	if err := h.badges.Revoke(req.AgentID, req.Slug); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}
