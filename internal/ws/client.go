package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// clientMessage is a client->server frame. Only group:join, group:leave,
// typing:start and typing:stop are accepted; anything else is dropped.
type clientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type groupRoomPayload struct {
	GroupID string `json:"groupId"`
}

// Client is one authenticated websocket connection. An agent may hold
// several concurrent Clients (multiple sessions); each tracks its own
// room membership independently.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	rooms   map[string]bool
	AgentID string

	onGroupJoin  func(c *Client, groupID string)
	onGroupLeave func(c *Client, groupID string)
	onTyping     func(c *Client, groupID string, start bool)
}

func NewClient(hub *Hub, conn *websocket.Conn, agentID string) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		send:    make(chan []byte, 32),
		rooms:   make(map[string]bool),
		AgentID: agentID,
	}
}

// ReadPump dispatches client-sent control frames to the ConnectionManager
// callbacks and otherwise keeps the connection's read deadline alive.
// Unlike a push-only hub, clients here actively drive room membership and
// typing indicators.
func (c *Client) ReadPump() {
	defer c.hub.Unregister(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("agentId", c.AgentID).Msg("websocket read error")
			}
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg clientMessage) {
	switch msg.Type {
	case "group:join", "group:leave":
		var p groupRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.GroupID == "" {
			return
		}
		if msg.Type == "group:join" && c.onGroupJoin != nil {
			c.onGroupJoin(c, p.GroupID)
		} else if c.onGroupLeave != nil {
			c.onGroupLeave(c, p.GroupID)
		}

	case "typing:start", "typing:stop":
		var p groupRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.GroupID == "" {
			return
		}
		if c.onTyping != nil {
			c.onTyping(c, p.GroupID, msg.Type == "typing:start")
		}

	default:
		// unknown frame type, ignored
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
