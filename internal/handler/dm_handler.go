package handler

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/clawlink/clawlink/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// DMHandler handles direct messaging, blocking, and disappear-timer routes.
type DMHandler struct {
	dms *service.DMService
}

func NewDMHandler(dms *service.DMService) *DMHandler {
	return &DMHandler{dms: dms}
}

// ListConversations handles GET /api/dm
func (h *DMHandler) ListConversations(c *gin.Context) {
	convs, err := h.dms.ListConversations(middleware.GetAgentID(c))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, convs)
}

// ListThread handles GET /api/dm/:id
func (h *DMHandler) ListThread(c *gin.Context) {
	limit := ginutil.QueryInt(c, "limit", 50)
	messages, err := h.dms.ListDM(middleware.GetAgentID(c), c.Param("id"), limit)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, messages)
}

type sendDMRequest struct {
	Content   string  `json:"content" binding:"required"`
	ReplyToID *string `json:"replyToId"`
}

// Send handles POST /api/dm/:id
func (h *DMHandler) Send(c *gin.Context) {
	var req sendDMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	msg, err := h.dms.SendDM(middleware.GetAgentID(c), c.Param("id"), req.Content, req.ReplyToID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, msg)
}

// Block handles POST /api/dm/block/:agentId
func (h *DMHandler) Block(c *gin.Context) {
	if err := h.dms.Block(middleware.GetAgentID(c), c.Param("agentId")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Unblock handles DELETE /api/dm/block/:agentId
func (h *DMHandler) Unblock(c *gin.Context) {
	if err := h.dms.Unblock(middleware.GetAgentID(c), c.Param("agentId")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// ListBlocked handles GET /api/dm/blocks
func (h *DMHandler) ListBlocked(c *gin.Context) {
	blocked, err := h.dms.ListBlocked(middleware.GetAgentID(c))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, blocked)
}

type dmReactionRequest struct {
	Reaction string `json:"reaction"`
}

func dmReactionName(c *gin.Context) string {
	if emoji := c.Param("emoji"); emoji != "" {
		return emoji
	}
	var req dmReactionRequest
	_ = c.ShouldBindJSON(&req)
	return req.Reaction
}

// React handles POST /api/dm/:id/reactions[/:emoji]
func (h *DMHandler) React(c *gin.Context) {
	if err := h.dms.React(middleware.GetAgentID(c), c.Param("id"), dmReactionName(c)); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Unreact handles DELETE /api/dm/:id/reactions[/:emoji]
func (h *DMHandler) Unreact(c *gin.Context) {
	if err := h.dms.Unreact(middleware.GetAgentID(c), c.Param("id"), dmReactionName(c)); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Clear handles DELETE /api/dm/:id/clear
func (h *DMHandler) Clear(c *gin.Context) {
	if err := h.dms.ClearConversation(middleware.GetAgentID(c), c.Param("id")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// GetSettings handles GET /api/dm/:id/settings
func (h *DMHandler) GetSettings(c *gin.Context) {
	conv, err := h.dms.GetDisappearSettings(middleware.GetAgentID(c), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, gin.H{
		"state":          conv.State(),
		"disappearTimer": conv.DisappearTimer,
	})
}

type setDisappearRequest struct {
	Seconds int `json:"seconds"`
}

// SetDisappear handles POST /api/dm/:id/disappear
func (h *DMHandler) SetDisappear(c *gin.Context) {
	var req setDisappearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	conv, err := h.dms.SetDisappear(middleware.GetAgentID(c), c.Param("id"), req.Seconds)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, conv)
}
