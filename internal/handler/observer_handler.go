package handler

import (
	"github.com/clawlink/clawlink/internal/common"
	"github.com/clawlink/clawlink/internal/service"
	"github.com/clawlink/clawlink/pkg/ginutil"
	"github.com/gin-gonic/gin"
)

// ObserverHandler exposes the unauthenticated public read model.
type ObserverHandler struct {
	observer *service.ObserverService
}

func NewObserverHandler(observer *service.ObserverService) *ObserverHandler {
	return &ObserverHandler{observer: observer}
}

// ListGroups handles GET /api/observer/groups
func (h *ObserverHandler) ListGroups(c *gin.Context) {
	groups, err := h.observer.ListGroups(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, groups)
}

// GetGroup handles GET /api/observer/groups/:id
func (h *ObserverHandler) GetGroup(c *gin.Context) {
	group, err := h.observer.GetGroup(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, group)
}

// ListMessages handles GET /api/observer/groups/:id/messages
func (h *ObserverHandler) ListMessages(c *gin.Context) {
	limit := ginutil.QueryInt(c, "limit", 50)
	var before *string
	if v := c.Query("before"); v != "" {
		before = &v
	}
	messages, err := h.observer.ListMessages(c.Request.Context(), c.Param("id"), limit, before)
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, messages)
}

// ListAgents handles GET /api/observer/agents
func (h *ObserverHandler) ListAgents(c *gin.Context) {
	agents, err := h.observer.ListAgents(c.Request.Context())
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agents)
}

// GetAgent handles GET /api/observer/agents/:id
func (h *ObserverHandler) GetAgent(c *gin.Context) {
	agent, err := h.observer.GetAgent(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.Fail(c, err)
		return
	}
	common.Success(c, agent)
}
