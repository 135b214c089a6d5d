package combat

import (
	"sync"
	"time"
)

// Mode distinguishes battles against the AI from player-vs-player battles.
type Mode string

const (
	ModePVE Mode = "pve"
	ModePVP Mode = "pvp"
)

// AIActorID is the actor identity used for the PvE opponent in emitted
// events. It is never a valid player id.
const AIActorID = "ai"

// WinnerNone is the BattleEnded winner sentinel for a draw. It is distinct
// from every player id and from AIActorID.
const WinnerNone = ""

// Stance is the per-turn attack/defense multiplier pair chosen by an actor.
type Stance string

const (
	StanceNormal    Stance = "normal"
	StanceBerserk   Stance = "berserk"
	StanceDefensive Stance = "defensive"
)

// Mods returns the attack and defense multipliers for the stance. Unknown
// stances behave as normal rather than rejecting the turn.
func (s Stance) Mods() (atk, def float64) {
	switch s {
	case StanceBerserk:
		return 1.2, 0.8
	case StanceDefensive:
		return 0.8, 1.2
	default:
		return 1.0, 1.0
	}
}

// Action is one submitted combat action.
type Action struct {
	ActorID string
	Stance  Stance
	ItemIDs []string
}

// side is the mutable per-combatant half of a session.
type side struct {
	playerID     string
	companionID  string
	snapshot     *CompanionSnapshot
	hp           int
	frozenUntil  int
	stealthUntil int

	// aiItems is the AI's consumable pool. AI consumables are removed when
	// spent instead of being tracked by id.
	aiItems []Item
}

// clampHP keeps hp inside [0, max].
func (s *side) clampHP() {
	if s.hp < 0 {
		s.hp = 0
	}
	if s.hp > s.snapshot.MaxHP {
		s.hp = s.snapshot.MaxHP
	}
}

// Session is the live record of one battle. The engine's table owns it; the
// per-session mutex guards turn resolution so two near-simultaneous PvP
// submissions cannot double-apply damage.
type Session struct {
	id   string
	mode Mode

	attacker side
	defender side

	turn      int
	usedItems map[string]bool

	mu        sync.Mutex
	pending   map[string]*Action
	resolving bool

	// ended flips when the engine destroys the session. A caller that
	// looked the session up before removal re-checks it under mu, so a
	// finished battle can never resolve another turn.
	ended bool

	lastResolved time.Time
}

// NewPVESession builds a battle between a player's companion and an
// AI-driven enemy.
func NewPVESession(id, playerID, companionID string, companion, enemy *CompanionSnapshot) *Session {
	s := &Session{
		id:   id,
		mode: ModePVE,
		attacker: side{
			playerID:    playerID,
			companionID: companionID,
			snapshot:    companion,
			hp:          companion.MaxHP,
		},
		defender: side{
			playerID: AIActorID,
			snapshot: enemy,
			hp:       enemy.MaxHP,
			aiItems:  consumablesOf(enemy.Gear),
		},
		turn:         1,
		usedItems:    map[string]bool{},
		pending:      map[string]*Action{},
		lastResolved: time.Now(),
	}
	return s
}

// NewPVPSession builds a battle between two players.
func NewPVPSession(id string, aID, aCompanionID string, a *CompanionSnapshot, bID, bCompanionID string, b *CompanionSnapshot) *Session {
	return &Session{
		id:   id,
		mode: ModePVP,
		attacker: side{
			playerID:    aID,
			companionID: aCompanionID,
			snapshot:    a,
			hp:          a.MaxHP,
		},
		defender: side{
			playerID:    bID,
			companionID: bCompanionID,
			snapshot:    b,
			hp:          b.MaxHP,
		},
		turn:         1,
		usedItems:    map[string]bool{},
		pending:      map[string]*Action{},
		lastResolved: time.Now(),
	}
}

func (s *Session) ID() string { return s.id }

func (s *Session) Mode() Mode { return s.mode }

// Turn returns the current turn number. It only increases.
func (s *Session) Turn() int { return s.turn }

// HP returns the current hit points for both sides.
func (s *Session) HP() (attacker, defender int) {
	return s.attacker.hp, s.defender.hp
}

// Players returns the identities on each side. The defender identity is
// AIActorID in PVE.
func (s *Session) Players() (attacker, defender string) {
	return s.attacker.playerID, s.defender.playerID
}

// CompanionIDs returns the companion ids on each side.
func (s *Session) CompanionIDs() (attacker, defender string) {
	return s.attacker.companionID, s.defender.companionID
}

// sideOf returns the side owned by playerID and its opponent.
func (s *Session) sideOf(playerID string) (own, opp *side) {
	if s.defender.playerID == playerID {
		return &s.defender, &s.attacker
	}
	return &s.attacker, &s.defender
}

// has reports whether playerID participates in this session.
func (s *Session) has(playerID string) bool {
	return s.attacker.playerID == playerID || s.defender.playerID == playerID
}

func consumablesOf(gear []Item) []Item {
	var out []Item
	for _, it := range gear {
		if it.Kind == ItemKindConsumable {
			out = append(out, it)
		}
	}
	return out
}
