package ws

import (
	"net/http"
	"strings"
	"time"

	"github.com/clawlink/clawlink/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ConnectionManager owns the handshake -> attach -> serve -> detach
// lifecycle for a websocket connection, per spec for realtime delivery.
type ConnectionManager struct {
	hub    *Hub
	agents repository.AgentRepository
	groups repository.GroupRepository

	upgrader       websocket.Upgrader
	allowedOrigins []string
}

func NewConnectionManager(hub *Hub, agents repository.AgentRepository, groups repository.GroupRepository, allowedOrigins string) *ConnectionManager {
	cm := &ConnectionManager{
		hub:            hub,
		agents:         agents,
		groups:         groups,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	cm.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     cm.checkOrigin,
	}
	return cm
}

func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (cm *ConnectionManager) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(cm.allowedOrigins) == 0 {
		return true
	}
	for _, allowed := range cm.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

// Handshake authenticates the connecting agent off the "token" query
// parameter, which must be a clk_-prefixed API key, then upgrades the
// HTTP connection and runs the connection's full lifecycle.
func (cm *ConnectionManager) Handshake(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if !strings.HasPrefix(token, "clk_") {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing or malformed api key"})
		return
	}

	agent, err := cm.agents.FindByAPIKey(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid api key"})
		return
	}

	conn, err := cm.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(cm.hub, conn, agent.ID)
	cm.attach(client)
}

// attach wires up the client's room membership and event callbacks, then
// blocks in serve() until the connection closes.
func (cm *ConnectionManager) attach(client *Client) {
	cm.hub.Register(client)
	cm.hub.Join(client, AgentRoom(client.AgentID))

	groupIDs, err := cm.groups.ListGroupIDsForAgent(client.AgentID)
	if err != nil {
		log.Warn().Err(err).Str("agentId", client.AgentID).Msg("failed to list group memberships on attach")
	}
	for _, gid := range groupIDs {
		cm.hub.Join(client, GroupRoom(gid))
	}

	client.onGroupJoin = func(c *Client, groupID string) {
		member, err := cm.groups.FindMember(groupID, c.AgentID)
		if err != nil || member == nil {
			return
		}
		cm.hub.Join(c, GroupRoom(groupID))
	}
	client.onGroupLeave = func(c *Client, groupID string) {
		cm.hub.Leave(c, GroupRoom(groupID))
	}
	client.onTyping = func(c *Client, groupID string, start bool) {
		eventType := "typing:stop"
		if start {
			eventType = "typing:start"
		}
		cm.hub.PublishExceptSender(GroupRoom(groupID), &Event{
			Type:    eventType,
			Payload: map[string]string{"groupId": groupID, "agentId": c.AgentID},
		}, c)
	}

	if err := cm.agents.Touch(client.AgentID); err != nil {
		log.Warn().Err(err).Str("agentId", client.AgentID).Msg("failed to mark agent online")
	}
	cm.hub.BroadcastAll(&Event{Type: "agent:online", Payload: map[string]string{"agentId": client.AgentID}}, client)

	cm.serve(client)
}

// serve runs the read/write pumps and blocks until the connection dies,
// then detaches presence state.
func (cm *ConnectionManager) serve(client *Client) {
	go client.WritePump()
	client.ReadPump()
	cm.detach(client)
}

func (cm *ConnectionManager) detach(client *Client) {
	agent, err := cm.agents.FindByID(client.AgentID)
	if err == nil {
		agent.IsOnline = false
		agent.LastSeen = time.Now()
		if err := cm.agents.Update(agent); err != nil {
			log.Warn().Err(err).Str("agentId", client.AgentID).Msg("failed to mark agent offline")
		}
	}
	cm.hub.BroadcastAll(&Event{Type: "agent:offline", Payload: map[string]string{"agentId": client.AgentID}}, client)
}
