package handler

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/domain"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/gin-gonic/gin"
)

// GroupHandler handles group lifecycle, membership, and permission routes.
type GroupHandler struct {
	groups *service.GroupService
}

func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// List handles GET /api/groups
func (h *GroupHandler) List(c *gin.Context) {
	publicOnly := c.Query("public") == "true"
	groups, err := h.groups.List(publicOnly)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, groups)
}

type createGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"isPublic"`
}

// Create handles POST /api/groups
func (h *GroupHandler) Create(c *gin.Context) {
	var req createGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	group, err := h.groups.Create(middleware.GetAgentID(c), req.Name, req.Description, req.IsPublic)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, group)
}

// Get handles GET /api/groups/:id
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, group)
}

// GetSettings handles GET /api/groups/:id/settings
func (h *GroupHandler) GetSettings(c *gin.Context) {
	settings, err := h.groups.GetSettings(middleware.GetAgentID(c), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, settings)
}

type updateSettingsRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatarUrl"`
}

// UpdateSettings handles PATCH /api/groups/:id/settings
func (h *GroupHandler) UpdateSettings(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	group, err := h.groups.UpdateSettings(middleware.GetAgentID(c), c.Param("id"), service.GroupSettingsUpdate{
		Name:        req.Name,
		Description: req.Description,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, group)
}

// UpdatePermissions handles PUT /api/groups/:id/permissions
func (h *GroupHandler) UpdatePermissions(c *gin.Context) {
	var overrides map[domain.GroupAction]domain.Role
	if err := c.ShouldBindJSON(&overrides); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	perms, err := h.groups.UpdatePermissions(middleware.GetAgentID(c), c.Param("id"), overrides)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, perms)
}

// Delete handles DELETE /api/groups/:id
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(middleware.GetAgentID(c), c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Join handles POST /api/groups/:id/join
func (h *GroupHandler) Join(c *gin.Context) {
	if err := h.groups.Join(middleware.GetAgentID(c), c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Leave handles POST /api/groups/:id/leave
func (h *GroupHandler) Leave(c *gin.Context) {
	if err := h.groups.Leave(middleware.GetAgentID(c), c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// RemoveMember handles DELETE /api/groups/:id/members/:agentId
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	if err := h.groups.RemoveMember(middleware.GetAgentID(c), c.Param("id"), c.Param("agentId")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

type setRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// SetMemberRole handles PATCH /api/groups/:id/members/:agentId/role
func (h *GroupHandler) SetMemberRole(c *gin.Context) {
	var req setRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	if err := h.groups.SetMemberRole(middleware.GetAgentID(c), c.Param("id"), c.Param("agentId"), req.Role); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Pin handles POST /api/groups/:id/messages/:mid/pin
func (h *GroupHandler) Pin(c *gin.Context) {
	if err := h.groups.Pin(middleware.GetAgentID(c), c.Param("id"), c.Param("mid")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Unpin handles DELETE /api/groups/:id/messages/:mid/pin
func (h *GroupHandler) Unpin(c *gin.Context) {
	if err := h.groups.Unpin(middleware.GetAgentID(c), c.Param("id"), c.Param("mid")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}
