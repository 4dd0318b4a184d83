package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const redisPubSubChannel = "clawlink:events"

// Event is a realtime payload delivered to a room. Type is one of the
// server->client event names (message:new, dm:expired, agent:online, ...).
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// GroupRoom and AgentRoom format the two room kinds the EventBus knows
// about: group:<id> and agent:<id>.
func GroupRoom(groupID string) string { return "group:" + groupID }
func AgentRoom(agentID string) string  { return "agent:" + agentID }

// Hub is the process-wide EventBus / RoomRegistry. Rooms are created on
// first subscription and garbage-collected when the last subscriber
// leaves. A room is fanned out to local clients directly and relayed to
// other instances via Redis pub/sub so horizontally-scaled deployments
// see the same event stream.
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]bool
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan roomOp
	leave      chan roomOp
	publish    chan *roomEvent

	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

type roomOp struct {
	client *Client
	room   string
}

type roomEvent struct {
	Room  string
	Event *Event
}

type redisMessage struct {
	Room  string `json:"room"`
	Event *Event `json:"event"`
}

func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		rooms:       make(map[string]map[*Client]bool),
		clients:     make(map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		join:        make(chan roomOp),
		leave:       make(chan roomOp),
		publish:     make(chan *roomEvent, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (h *Hub) Register(c *Client)          { h.register <- c }
func (h *Hub) Unregister(c *Client)        { h.unregister <- c }
func (h *Hub) Join(c *Client, room string) { h.join <- roomOp{c, room} }
func (h *Hub) Leave(c *Client, room string) { h.leave <- roomOp{c, room} }

// Run drives the Hub's single-writer loop: all room-membership and
// fan-out mutation happens here so no subscriber can back-pressure a
// publisher by holding a lock.
func (h *Hub) Run() {
	if h.redisClient != nil {
		go h.subscribeRedis()
	}
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			for room := range c.rooms {
				h.removeFromRoom(c, room)
			}
			delete(h.clients, c)
			close(c.send)
			h.mu.Unlock()

		case op := <-h.join:
			h.mu.Lock()
			if h.rooms[op.room] == nil {
				h.rooms[op.room] = make(map[*Client]bool)
			}
			h.rooms[op.room][op.client] = true
			op.client.rooms[op.room] = true
			h.mu.Unlock()

		case op := <-h.leave:
			h.mu.Lock()
			h.removeFromRoom(op.client, op.room)
			h.mu.Unlock()

		case re := <-h.publish:
			h.deliverLocal(re.Room, re.Event, nil)

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) removeFromRoom(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

func (h *Hub) deliverLocal(room string, event *Event, exclude *Client) {
	h.mu.RLock()
	members := h.rooms[room]
	data, err := json.Marshal(event)
	if err != nil {
		h.mu.RUnlock()
		log.Error().Err(err).Str("room", room).Msg("failed to marshal realtime event")
		return
	}
	targets := make([]*Client, 0, len(members))
	for c := range members {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			// buffer overflow: close the slow subscriber's connection
			// rather than let it back-pressure the publisher.
			h.Unregister(c)
		}
	}
}

// Publish fans an event out to every client in room, local and (via
// Redis relay) on other instances. Publish failures are logged, never
// rolled back — events are best-effort relative to the Store write.
func (h *Hub) Publish(room string, event *Event) {
	h.publish <- &roomEvent{Room: room, Event: event}
	if h.redisClient != nil {
		data, err := json.Marshal(redisMessage{Room: room, Event: event})
		if err != nil {
			log.Error().Err(err).Msg("failed to marshal event for redis relay")
			return
		}
		if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, data).Err(); err != nil {
			log.Warn().Err(err).Str("room", room).Msg("redis publish failed, other instances will miss this event")
		}
	}
}

// PublishExceptSender is used for typing:start/stop, which must never
// be echoed back to the agent who triggered it.
func (h *Hub) PublishExceptSender(room string, event *Event, sender *Client) {
	h.deliverLocal(room, event, sender)
}

// BroadcastAll delivers an event to every connected client regardless of
// room membership, used for agent:online / agent:offline presence.
func (h *Hub) BroadcastAll(event *Event, exclude *Client) {
	h.mu.RLock()
	data, err := json.Marshal(event)
	if err != nil {
		h.mu.RUnlock()
		log.Error().Err(err).Msg("failed to marshal presence event")
		return
	}
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c != exclude {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		select {
		case c.send <- data:
		default:
			h.Unregister(c)
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil {
				log.Warn().Err(err).Msg("failed to decode relayed realtime event")
				continue
			}
			h.deliverLocal(rm.Room, rm.Event, nil)
		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) Stop() { h.cancel() }
