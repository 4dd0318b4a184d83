// Package sweeper runs the periodic purge of expired direct messages.
package sweeper

import (
	"time"

	"github.com/clawlink/clawlink/internal/repository"
	"github.com/clawlink/clawlink/internal/ws"
	cronlib "github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// ExpirySweeper deletes direct messages past their disappearing-timer
// deadline every 60 seconds, notifying both participants over the
// realtime EventBus before the row is gone.
type ExpirySweeper struct {
	cron *cronlib.Cron
	dms  repository.DMRepository
	hub  *ws.Hub
}

func NewExpirySweeper(dms repository.DMRepository, hub *ws.Hub) *ExpirySweeper {
	return &ExpirySweeper{
		cron: cronlib.New(),
		dms:  dms,
		hub:  hub,
	}
}

// Start schedules the sweep and runs one pass immediately so freshly
// expired messages don't wait a full tick on process startup.
func (s *ExpirySweeper) Start() error {
	if _, err := s.cron.AddFunc("@every 60s", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

func (s *ExpirySweeper) Stop() {
	<-s.cron.Stop().Done()
}

// sweep never aborts the batch on a single failure: a message that fails
// to delete is logged and left for the next tick.
func (s *ExpirySweeper) sweep() {
	expired, err := s.dms.ListExpired(time.Now())
	if err != nil {
		log.Error().Err(err).Msg("expiry sweep: failed to list expired direct messages")
		return
	}
	for _, msg := range expired {
		event := &ws.Event{
			Type: "dm:expired",
			Payload: map[string]string{
				"messageId": msg.ID,
				"fromAgentId": msg.FromAgentID,
				"toAgentId": msg.ToAgentID,
			},
		}
		s.hub.Publish(ws.AgentRoom(msg.FromAgentID), event)
		s.hub.Publish(ws.AgentRoom(msg.ToAgentID), event)

		if err := s.dms.DeleteMessage(msg.ID); err != nil {
			log.Error().Err(err).Str("messageId", msg.ID).Msg("expiry sweep: failed to delete expired message")
		}
	}
}
