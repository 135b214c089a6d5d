package content

import (
	"fmt"
	"math/rand/v2"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-errors"
)

// StatBlock is one rollable stat line for a creature.
type StatBlock struct {
	HP      int `json:"hp"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

func (b *StatBlock) validate() error {
	el := errors.NewErrorList()

	if b.HP <= 0 {
		el.Add(fmt.Errorf("hp must be positive"))
	}
	if b.Attack < 0 || b.Defense < 0 || b.Speed < 0 {
		el.Add(fmt.Errorf("stats must not be negative"))
	}

	return el.Err()
}

// Creature is a wild-encounter template. A battle instance rolls one of
// the stat blocks and carries the gear pool.
type Creature struct {
	Name    string         `json:"name"`
	Element combat.Element `json:"element"`
	Stats   []StatBlock    `json:"stats"`
	Gear    []combat.Item  `json:"gear,omitempty"`
}

func (c *Creature) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if c.Element == "" {
		el.Add(fmt.Errorf("element is required"))
	}
	if len(c.Stats) == 0 {
		el.Add(fmt.Errorf("at least one stat block is required"))
	}
	for i := range c.Stats {
		if err := c.Stats[i].validate(); err != nil {
			el.Add(fmt.Errorf("stat block %d: %w", i, err))
		}
	}

	return el.Err()
}

// Snapshot rolls a battle-ready view of the creature.
func (c *Creature) Snapshot(rng *rand.Rand) *combat.CompanionSnapshot {
	block := c.Stats[rng.IntN(len(c.Stats))]
	return &combat.CompanionSnapshot{
		Name:    c.Name,
		Element: c.Element,
		MaxHP:   block.HP,
		Attack:  block.Attack,
		Defense: block.Defense,
		Speed:   block.Speed,
		Gear:    append([]combat.Item{}, c.Gear...),
	}
}

// Species is a starter-companion template.
type Species struct {
	Name    string         `json:"name"`
	Element combat.Element `json:"element"`
	Base    StatBlock      `json:"base"`
}

func (s *Species) Validate() error {
	el := errors.NewErrorList()

	if s.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if s.Element == "" {
		el.Add(fmt.Errorf("element is required"))
	}
	el.Add(s.Base.validate())

	return el.Err()
}
