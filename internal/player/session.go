package player

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/persist"
	"github.com/pixil98/go-arena/internal/presence"
	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	defaultZone = "town"
	spawnX      = 10
	spawnY      = 10
)

// Conn is the subset of *websocket.Conn a session drives.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// battleRef tracks one of the player's live battles so the outcome can be
// persisted when it ends.
type battleRef struct {
	companionID string
	attacker    bool
	lastHP      int
}

// Session binds one socket to the engine, the queue, and the presence
// registry. All socket writes happen on the Play goroutine.
type Session struct {
	id       string
	conn     Conn
	playerID string
	m        *Manager

	pos persist.Position

	// pre-rolled encounters not yet accepted, keyed by combat id
	pendingEnemies map[string]*combat.CompanionSnapshot
	battles        map[string]*battleRef

	msgs chan []byte
}

func newSession(m *Manager, conn Conn, playerID string) *Session {
	return &Session{
		id:             uuid.NewString(),
		conn:           conn,
		playerID:       playerID,
		m:              m,
		pendingEnemies: map[string]*combat.CompanionSnapshot{},
		battles:        map[string]*battleRef{},
		msgs:           make(chan []byte, 32),
	}
}

func (s *Session) Play(ctx context.Context) error {
	s.m.presence.Register(s.id, s.playerID)
	defer s.cleanup()

	pos, err := s.m.repo.Position(ctx, s.playerID)
	switch {
	case errors.Is(err, persist.ErrNotFound):
		s.pos = persist.Position{ZoneID: defaultZone, X: spawnX, Y: spawnY}
	case err != nil:
		return err
	default:
		s.pos = *pos
	}
	s.m.presence.SubscribeZone(s.id, s.pos.ZoneID)

	unsub, err := s.m.bus.Subscribe(presence.ConnSubject(s.id), func(data []byte) {
		select {
		case s.msgs <- data:
		default:
			slog.Warn("dropping event for slow client", "playerId", s.playerID)
		}
	})
	if err != nil {
		return err
	}
	defer unsub()

	inbound := make(chan []byte)
	readErr := make(chan error, 1)
	go func() {
		defer close(inbound)
		for {
			_, data, err := s.conn.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			inbound <- data
		}
	}()

	s.send(protocol.TeleportPlayer{ZoneID: s.pos.ZoneID, X: s.pos.X, Y: s.pos.Y})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case raw := <-s.msgs:
			if err := s.deliver(raw); err != nil {
				return err
			}

		case data, ok := <-inbound:
			if !ok {
				err := <-readErr
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return nil
				}
				return err
			}
			s.dispatch(ctx, data)
		}
	}
}

func (s *Session) cleanup() {
	zone := s.m.presence.Zone(s.id)
	s.m.presence.Unregister(s.id)
	s.m.queue.Leave(s.playerID)
	s.m.guard.Forget(s.playerID)

	// PvE battles end with the connection. PvP battles get the idle grace
	// window before the sweep forfeits them.
	for id := range s.battles {
		if sess := s.m.engine.Lookup(id); sess != nil && sess.Mode() == combat.ModePVE {
			s.m.engine.Forfeit(id, s.playerID)
		}
	}
	if zone != "" {
		s.m.presence.Broadcast(zone, protocol.PlayerDisconnected{PlayerID: s.playerID}, s.id)
	}
	s.conn.Close()
}

// send encodes events and routes them through the same delivery path NATS
// messages take, so battle bookkeeping sees every event exactly once.
func (s *Session) send(events ...protocol.Event) {
	for _, ev := range events {
		raw, err := protocol.Encode(ev)
		if err != nil {
			slog.Error("encoding event", "type", ev.EventType(), "error", err)
			continue
		}
		if err := s.deliver(raw); err != nil {
			slog.Warn("writing to client", "playerId", s.playerID, "error", err)
			return
		}
	}
}

// deliver inspects an encoded event for battle bookkeeping, then writes it
// to the socket.
func (s *Session) deliver(raw []byte) error {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err == nil {
		s.observe(env.Type, raw)
	}
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

func (s *Session) observe(eventType string, raw []byte) {
	switch eventType {
	case "BattleStarted":
		var ev protocol.BattleStarted
		if json.Unmarshal(raw, &ev) != nil {
			return
		}
		sess := s.m.engine.Lookup(ev.CombatID)
		if sess == nil {
			return
		}
		att, _ := sess.Players()
		s.battles[ev.CombatID] = &battleRef{
			companionID: ev.Context.CompanionID,
			attacker:    att == s.playerID,
			lastHP:      ev.Context.PlayerHP,
		}

	case "TurnResolved":
		var ev protocol.TurnResolved
		if json.Unmarshal(raw, &ev) != nil {
			return
		}
		ref := s.battles[ev.CombatID]
		if ref == nil {
			return
		}
		if ref.attacker {
			ref.lastHP = ev.AttackerHP
		} else {
			ref.lastHP = ev.DefenderHP
		}

	case "BattleEnded":
		var ev protocol.BattleEnded
		if json.Unmarshal(raw, &ev) != nil {
			return
		}
		ref := s.battles[ev.CombatID]
		if ref == nil {
			return
		}
		delete(s.battles, ev.CombatID)
		go s.persistOutcome(ref, &ev)
	}
}

// persistOutcome writes a finished battle back to the repository. Persistence
// is best effort and never blocks the session loop.
func (s *Session) persistOutcome(ref *battleRef, ev *protocol.BattleEnded) {
	ctx := context.Background()

	comp, err := s.m.repo.Companion(ctx, ref.companionID)
	if err != nil {
		slog.Error("loading companion after battle", "companionId", ref.companionID, "error", err)
		return
	}

	comp.HP = ref.lastHP
	if comp.HP < 1 {
		comp.HP = 1
	}

	if ev.WinnerID == s.playerID {
		comp.GainXP(ev.XPGained)
		if ev.Loot != nil {
			if err := s.m.repo.AddCoins(ctx, s.playerID, ev.Loot.Coins); err != nil {
				slog.Error("granting loot coins", "playerId", s.playerID, "error", err)
			}
		}
		if ev.Dropped != nil {
			if item := s.dropToItem(ev.Dropped); item != nil {
				if err := s.m.repo.GrantItem(ctx, s.playerID, *item); err != nil {
					slog.Error("granting dropped item", "playerId", s.playerID, "error", err)
				}
			}
		}
	}

	if err := s.m.repo.SaveCompanion(ctx, comp); err != nil {
		slog.Error("saving companion after battle", "companionId", comp.ID, "error", err)
	}
}
