package listener

import (
	"context"

	"github.com/pixil98/go-arena/internal/player"
)

type ConnectionManager struct {
	pm *player.Manager
}

func NewConnectionManager(pm *player.Manager) *ConnectionManager {
	return &ConnectionManager{
		pm: pm,
	}
}

func (m *ConnectionManager) AcceptConnection(ctx context.Context, conn player.Conn, playerID string) {
	m.pm.HandleConnection(ctx, conn, playerID)
}
