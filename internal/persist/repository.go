package persist

import (
	"context"
	"errors"

	"github.com/pixil98/go-arena/internal/combat"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Companion is the persisted state of one companion.
type Companion struct {
	ID      string
	OwnerID string
	Name    string
	Species string
	Element combat.Element

	Level int
	XP    int

	HP      int
	MaxHP   int
	Attack  int
	Defense int
	Speed   int

	Active bool
}

// GainXP applies a battle reward, advancing levels as long as the XP
// threshold (level × 100) is met. Each level grants +1 attack, +1 defense,
// and +5 max HP, and heals the companion fully.
func (c *Companion) GainXP(xp int) {
	c.XP += xp
	for c.XP >= c.Level*100 {
		c.XP -= c.Level * 100
		c.Level++
		c.Attack++
		c.Defense++
		c.MaxHP += 5
		c.HP = c.MaxHP
	}
}

// Snapshot builds the immutable battle view of the companion with its
// equipped gear.
func (c *Companion) Snapshot(gear []combat.Item) *combat.CompanionSnapshot {
	return &combat.CompanionSnapshot{
		Name:    c.Name,
		Element: c.Element,
		MaxHP:   c.MaxHP,
		Attack:  c.Attack,
		Defense: c.Defense,
		Speed:   c.Speed,
		Gear:    gear,
	}
}

// Position is a player's last known tile.
type Position struct {
	ZoneID string
	X      int
	Y      int
}

// Repository is the persistence collaborator. The engine reads companion
// and gear data when battles start and writes outcomes after the fact;
// writes are fire-and-forget and never block turn resolution.
type Repository interface {
	Companion(ctx context.Context, id string) (*Companion, error)
	ActiveCompanion(ctx context.Context, ownerID string) (*Companion, error)
	CreateCompanion(ctx context.Context, c *Companion) error
	SaveCompanion(ctx context.Context, c *Companion) error

	EquippedGear(ctx context.Context, ownerID string) ([]combat.Item, error)
	GrantItem(ctx context.Context, ownerID string, item combat.Item) error

	Position(ctx context.Context, playerID string) (*Position, error)
	SavePosition(ctx context.Context, playerID string, pos Position) error

	AddCoins(ctx context.Context, playerID string, coins int) error
}
