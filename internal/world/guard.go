package world

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMoveInterval is the minimum time between accepted moves for one
// identity.
const DefaultMoveInterval = 100 * time.Millisecond

// MoveGuard enforces the orchestrator-side movement checks that run before
// the tile validator: a per-identity minimum inter-move interval and the
// single-orthogonal-step rule.
type MoveGuard struct {
	mu       sync.Mutex
	interval time.Duration
	limits   map[string]*rate.Limiter
}

func NewMoveGuard(interval time.Duration) *MoveGuard {
	if interval <= 0 {
		interval = DefaultMoveInterval
	}
	return &MoveGuard{
		interval: interval,
		limits:   map[string]*rate.Limiter{},
	}
}

// Allow reports whether the identity may move now. Each accepted call
// consumes one token.
func (g *MoveGuard) Allow(playerID string) bool {
	g.mu.Lock()
	lim, ok := g.limits[playerID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.interval), 1)
		g.limits[playerID] = lim
	}
	g.mu.Unlock()

	return lim.Allow()
}

// Forget drops the identity's limiter state. Called on disconnect.
func (g *MoveGuard) Forget(playerID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.limits, playerID)
}

// StepValid reports whether a movement delta is a single orthogonal step.
// Anything larger is a teleport attempt and is rejected before validation.
func StepValid(dx, dy int) bool {
	abs := func(n int) int {
		if n < 0 {
			return -n
		}
		return n
	}
	return abs(dx)+abs(dy) == 1
}
