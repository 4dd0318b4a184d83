package handler

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/middleware"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/clawlink/clawlink/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// MessageHandler handles group message send/list/delete/react routes.
type MessageHandler struct {
	messaging *service.MessagingService
}

func NewMessageHandler(messaging *service.MessagingService) *MessageHandler {
	return &MessageHandler{messaging: messaging}
}

// List handles GET /api/messages/:groupId
func (h *MessageHandler) List(c *gin.Context) {
	limit := ginutil.QueryInt(c, "limit", 50)
	var before *string
	if v := c.Query("before"); v != "" {
		before = &v
	}
	messages, err := h.messaging.ListGroupMessages(middleware.GetAgentID(c), c.Param("groupId"), limit, before)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, messages)
}

type sendMessageRequest struct {
	Content   string  `json:"content" binding:"required"`
	ReplyToID *string `json:"replyToId"`
}

// Send handles POST /api/messages/:groupId
func (h *MessageHandler) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, common.Invalid("invalid request body"))
		return
	}
	msg, err := h.messaging.SendGroupMessage(middleware.GetAgentID(c), c.Param("groupId"), req.Content, req.ReplyToID)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Created(c, msg)
}

// Delete handles DELETE /api/messages/:groupId/:mid
func (h *MessageHandler) Delete(c *gin.Context) {
	if err := h.messaging.DeleteGroupMessage(middleware.GetAgentID(c), c.Param("groupId"), c.Param("mid")); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

type reactionRequest struct {
	Reaction string `json:"reaction"`
}

// reactionName resolves the reaction from the optional :emoji path segment,
// falling back to a JSON body field when the segment is absent.
func reactionName(c *gin.Context) string {
	if emoji := c.Param("emoji"); emoji != "" {
		return emoji
	}
	var req reactionRequest
	_ = c.ShouldBindJSON(&req)
	return req.Reaction
}

// React handles POST /api/messages/:groupId/:mid/reactions[/:emoji]
func (h *MessageHandler) React(c *gin.Context) {
	if err := h.messaging.ReactGroupMessage(middleware.GetAgentID(c), c.Param("groupId"), c.Param("mid"), reactionName(c)); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}

// Unreact handles DELETE /api/messages/:groupId/:mid/reactions[/:emoji]
func (h *MessageHandler) Unreact(c *gin.Context) {
	if err := h.messaging.UnreactGroupMessage(middleware.GetAgentID(c), c.Param("groupId"), c.Param("mid"), reactionName(c)); err != nil {
		common.Fail(c, err)
		return
	}
	c.Status(204)
}
