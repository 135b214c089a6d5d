package world

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestStepValid(t *testing.T) {
	tests := map[string]struct {
		dx, dy int
		exp    bool
	}{
		"north":    {0, -1, true},
		"south":    {0, 1, true},
		"east":     {1, 0, true},
		"west":     {-1, 0, true},
		"diagonal": {1, 1, false},
		"teleport": {5, 0, false},
		"no move":  {0, 0, false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", StepValid(tt.dx, tt.dy), tt.exp)
		})
	}
}

func TestMoveGuardThrottles(t *testing.T) {
	g := NewMoveGuard(time.Hour)

	testutil.AssertEqual(t, "first move", g.Allow("p1"), true)
	testutil.AssertEqual(t, "burst rejected", g.Allow("p1"), false)
	testutil.AssertEqual(t, "other player unaffected", g.Allow("p2"), true)
}

func TestMoveGuardForgetResetsLimiter(t *testing.T) {
	g := NewMoveGuard(time.Hour)

	g.Allow("p1")
	g.Forget("p1")

	testutil.AssertEqual(t, "fresh after forget", g.Allow("p1"), true)
}
