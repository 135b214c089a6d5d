package presence

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pixil98/go-arena/internal/protocol"
)

// Publisher sends encoded events to a connection's delivery subject. The
// embedded NATS server implements it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// ConnSubject is the per-connection delivery subject. Each live session
// subscribes to its own subject and forwards messages to its socket.
func ConnSubject(connID string) string {
	return fmt.Sprintf("conn.%s", connID)
}

type connInfo struct {
	playerID string
	zone     string
}

// Manager is the zone-subscription and fan-out registry. It owns the
// zone→connection relation; every caller goes through its API.
type Manager struct {
	mu      sync.Mutex
	pub     Publisher
	zones   map[string]map[string]bool
	conns   map[string]*connInfo
	players map[string]map[string]bool
}

func NewManager(pub Publisher) *Manager {
	return &Manager{
		pub:     pub,
		zones:   map[string]map[string]bool{},
		conns:   map[string]*connInfo{},
		players: map[string]map[string]bool{},
	}
}

// Register adds a live connection for a player. A player may hold several
// connections at once.
func (m *Manager) Register(connID, playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.conns[connID] = &connInfo{playerID: playerID}
	if m.players[playerID] == nil {
		m.players[playerID] = map[string]bool{}
	}
	m.players[playerID][connID] = true
}

// Unregister removes a connection from its zone and from the player index.
// Idempotent.
func (m *Manager) Unregister(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropLocked(connID)
}

// SubscribeZone moves a connection into a zone. The switch is atomic:
// unsubscribe old, subscribe new, under one lock acquisition.
func (m *Manager) SubscribeZone(connID, zone string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.conns[connID]
	if !ok {
		return
	}
	if info.zone != "" {
		delete(m.zones[info.zone], connID)
	}
	info.zone = zone
	if m.zones[zone] == nil {
		m.zones[zone] = map[string]bool{}
	}
	m.zones[zone][connID] = true
}

// Zone returns the zone a connection is currently subscribed to.
func (m *Manager) Zone(connID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if info, ok := m.conns[connID]; ok {
		return info.zone
	}
	return ""
}

// Broadcast delivers an event to every subscriber of a zone except the
// excluded connection. A failed send marks the connection dead and
// unsubscribes it; there is no separate health-check loop.
func (m *Manager) Broadcast(zone string, ev protocol.Event, exclude string) {
	data, err := protocol.Encode(ev)
	if err != nil {
		slog.Warn("encoding broadcast event", "zone", zone, "error", err)
		return
	}

	m.mu.Lock()
	targets := make([]string, 0, len(m.zones[zone]))
	for connID := range m.zones[zone] {
		if connID != exclude {
			targets = append(targets, connID)
		}
	}
	m.mu.Unlock()

	for _, connID := range targets {
		if err := m.pub.Publish(ConnSubject(connID), data); err != nil {
			slog.Warn("dropping dead connection", "connId", connID, "error", err)
			m.Unregister(connID)
		}
	}
}

// Notify delivers events to every live connection of a player. Implements
// the combat engine's notifier.
func (m *Manager) Notify(playerID string, events ...protocol.Event) {
	m.mu.Lock()
	conns := make([]string, 0, len(m.players[playerID]))
	for connID := range m.players[playerID] {
		conns = append(conns, connID)
	}
	m.mu.Unlock()

	for _, ev := range events {
		data, err := protocol.Encode(ev)
		if err != nil {
			slog.Warn("encoding notify event", "playerId", playerID, "error", err)
			continue
		}
		for _, connID := range conns {
			if err := m.pub.Publish(ConnSubject(connID), data); err != nil {
				slog.Warn("dropping dead connection", "connId", connID, "error", err)
				m.Unregister(connID)
			}
		}
	}
}

// Reachable reports whether the player has at least one registered
// connection. Implements the matchmaking queue's liveness check.
func (m *Manager) Reachable(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.players[playerID]) > 0
}

func (m *Manager) dropLocked(connID string) {
	info, ok := m.conns[connID]
	if !ok {
		return
	}
	if info.zone != "" {
		delete(m.zones[info.zone], connID)
	}
	if set, ok := m.players[info.playerID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(m.players, info.playerID)
		}
	}
	delete(m.conns, connID)
}
