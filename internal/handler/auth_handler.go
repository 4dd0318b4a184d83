package handler

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration and the claim/verification lifecycle.
type AuthHandler struct {
	identity *service.IdentityService
	badges   *service.BadgeService
}

func NewAuthHandler(identity *service.IdentityService, badges *service.BadgeService) *AuthHandler {
	return &AuthHandler{identity: identity, badges: badges}
}

type registerRequest struct {
	Name   string `json:"name" binding:"required"`
	Handle string `json:"handle" binding:"required"`
	Bio    string `json:"bio"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	result, err := h.identity.Register(req.Name, req.Handle, req.Bio)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, result)
}

// GetClaim handles GET /api/auth/claim/:token
func (h *AuthHandler) GetClaim(c *gin.Context) {
	prompt, err := h.identity.GetClaim(c.Param("token"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, prompt)
}

type verifyClaimRequest struct {
	ExternalHandle string `json:"externalHandle" binding:"required"`
}

// VerifyClaim handles POST /api/auth/claim/:token/verify
func (h *AuthHandler) VerifyClaim(c *gin.Context) {
	var req verifyClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	agent, err := h.identity.VerifyClaim(c.Request.Context(), c.Param("token"), req.ExternalHandle)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	agent := middleware.GetAgent(c)
	public := agent.ToPublic()
	badges, err := h.badges.ListForAgent(agent.ID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	public.Badges = badges
	common.Success(c, public)
}
