package player

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/content"
	"github.com/pixil98/go-arena/internal/match"
	"github.com/pixil98/go-arena/internal/messaging"
	"github.com/pixil98/go-arena/internal/persist"
	"github.com/pixil98/go-arena/internal/presence"
	"github.com/pixil98/go-arena/internal/storage"
	"github.com/pixil98/go-arena/internal/world"
)

// Manager owns the shared collaborators every player session needs and
// spawns a Session per accepted connection.
type Manager struct {
	engine   *combat.Engine
	queue    *match.Queue
	presence *presence.Manager
	repo     persist.Repository
	atlas    *world.Atlas
	guard    *world.MoveGuard
	bus      *messaging.NatsServer

	creatures storage.Storer[*content.Creature]
	species   storage.Storer[*content.Species]
	items     storage.Storer[*content.Item]
}

func NewManager(
	engine *combat.Engine,
	queue *match.Queue,
	pres *presence.Manager,
	repo persist.Repository,
	atlas *world.Atlas,
	guard *world.MoveGuard,
	bus *messaging.NatsServer,
	creatures storage.Storer[*content.Creature],
	species storage.Storer[*content.Species],
	items storage.Storer[*content.Item],
) *Manager {
	return &Manager{
		engine:    engine,
		queue:     queue,
		presence:  pres,
		repo:      repo,
		atlas:     atlas,
		guard:     guard,
		bus:       bus,
		creatures: creatures,
		species:   species,
		items:     items,
	}
}

func (m *Manager) Start(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

// HandleConnection runs a session for one accepted socket. It blocks until
// the connection closes.
func (m *Manager) HandleConnection(ctx context.Context, conn Conn, playerID string) {
	s := newSession(m, conn, playerID)
	if err := s.Play(ctx); err != nil {
		slog.Warn("player session ended", "playerId", playerID, "error", err)
	}
}
