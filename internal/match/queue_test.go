package match

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

type fakeReachability map[string]bool

func (f fakeReachability) Reachable(playerID string) bool { return f[playerID] }

func TestJoinEmptyQueueWaits(t *testing.T) {
	q := NewQueue(fakeReachability{"p1": true})

	entry, matched := q.Join("p1", "comp1")

	testutil.AssertEqual(t, "matched", matched, false)
	if entry != nil {
		t.Errorf("unexpected opponent: %+v", entry)
	}
	testutil.AssertEqual(t, "queue length", q.Len(), 1)
}

func TestJoinMatchesFIFO(t *testing.T) {
	reach := fakeReachability{"p1": true, "p2": true, "p3": true}
	q := NewQueue(reach)

	q.Join("p1", "compA")
	q.Join("p2", "compB")
	entry, matched := q.Join("p3", "compC")

	testutil.AssertEqual(t, "matched", matched, true)
	testutil.AssertEqual(t, "oldest entry wins", entry.PlayerID, "p1")
	testutil.AssertEqual(t, "p2 still waiting", q.Len(), 1)
}

func TestJoinNeverMatchesSelf(t *testing.T) {
	q := NewQueue(fakeReachability{"p1": true})

	q.Join("p1", "compA")
	entry, matched := q.Join("p1", "compA")

	testutil.AssertEqual(t, "matched", matched, false)
	if entry != nil {
		t.Errorf("player matched itself: %+v", entry)
	}
	testutil.AssertEqual(t, "single entry", q.Len(), 1)
}

func TestJoinDiscardsUnreachableEntries(t *testing.T) {
	reach := fakeReachability{"p1": false, "p2": true, "p3": true}
	q := NewQueue(reach)

	q.Join("p1", "compA")
	q.Join("p2", "compB")
	entry, matched := q.Join("p3", "compC")

	testutil.AssertEqual(t, "matched", matched, true)
	testutil.AssertEqual(t, "skipped the dead entry", entry.PlayerID, "p2")
	testutil.AssertEqual(t, "dead entry dropped", q.Len(), 0)
}

func TestLeaveRemovesEntry(t *testing.T) {
	q := NewQueue(fakeReachability{"p1": true, "p2": true})

	q.Join("p1", "compA")
	q.Leave("p1")
	entry, matched := q.Join("p2", "compB")

	testutil.AssertEqual(t, "matched", matched, false)
	if entry != nil {
		t.Errorf("matched a player who left: %+v", entry)
	}
}

func TestRequeuePutsEntryAtHead(t *testing.T) {
	reach := fakeReachability{"p1": true, "p2": true, "p3": true}
	q := NewQueue(reach)

	q.Join("p1", "compA")
	q.Requeue(&Entry{PlayerID: "p2", CompanionID: "compB"})

	entry, matched := q.Join("p3", "compC")
	testutil.AssertEqual(t, "matched", matched, true)
	testutil.AssertEqual(t, "requeued entry first", entry.PlayerID, "p2")
}
