package match

import (
	"sync"
	"time"
)

// Entry is one waiting player. The queue owns it until the player is
// matched, leaves, or is found unreachable during a match attempt.
type Entry struct {
	PlayerID    string
	CompanionID string
	EnqueuedAt  time.Time
}

// Reachability answers whether a player still has at least one live
// connection. Liveness is checked at match time, not enqueue time: a
// queued player may have disconnected while waiting.
type Reachability interface {
	Reachable(playerID string) bool
}

// Queue is the FIFO PvP matchmaking queue.
type Queue struct {
	mu      sync.Mutex
	entries []*Entry
	reach   Reachability
}

func NewQueue(reach Reachability) *Queue {
	return &Queue{reach: reach}
}

// Join looks for an opponent. Any stale entry for the same player is
// removed first, so a player can never match itself or occupy two slots.
// The scan discards unreachable entries instead of requeueing them. When
// no live opponent is found the player is appended and (nil, false) is
// returned.
func (q *Queue) Join(playerID, companionID string) (*Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.removeLocked(playerID)

	kept := q.entries[:0]
	var opponent *Entry
	for i, e := range q.entries {
		if opponent == nil {
			if !q.reach.Reachable(e.PlayerID) {
				continue
			}
			opponent = e
			continue
		}
		kept = append(kept, q.entries[i])
	}
	q.entries = kept

	if opponent != nil {
		return opponent, true
	}

	q.entries = append(q.entries, &Entry{
		PlayerID:    playerID,
		CompanionID: companionID,
		EnqueuedAt:  time.Now(),
	})
	return nil, false
}

// Leave removes the player's entry, if any. Called both for an explicit
// leave command and on disconnect.
func (q *Queue) Leave(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.removeLocked(playerID)
}

// Requeue puts an entry back at the head of the queue. Used when match
// validation fails on the other side: the still-valid player keeps their
// position.
func (q *Queue) Requeue(e *Entry) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.entries = append([]*Entry{e}, q.entries...)
}

// Len reports the number of waiting entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

func (q *Queue) removeLocked(playerID string) {
	kept := q.entries[:0]
	for _, e := range q.entries {
		if e.PlayerID != playerID {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}
