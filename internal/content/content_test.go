package content

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-testutil"
)

func TestCreatureValidate(t *testing.T) {
	valid := Creature{
		Name:    "Slime",
		Element: combat.ElementWater,
		Stats:   []StatBlock{{HP: 30, Attack: 5, Defense: 3, Speed: 4}},
	}

	tests := map[string]struct {
		mutate func(c *Creature)
		expErr string
	}{
		"valid":              {mutate: func(*Creature) {}},
		"missing name":       {mutate: func(c *Creature) { c.Name = "" }, expErr: "name"},
		"missing element":    {mutate: func(c *Creature) { c.Element = "" }, expErr: "element"},
		"no stat blocks":     {mutate: func(c *Creature) { c.Stats = nil }, expErr: "stat block"},
		"non-positive hp":    {mutate: func(c *Creature) { c.Stats[0].HP = 0 }, expErr: "hp"},
		"negative stat":      {mutate: func(c *Creature) { c.Stats[0].Defense = -1 }, expErr: "negative"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := valid
			c.Stats = append([]StatBlock{}, valid.Stats...)
			tt.mutate(&c)

			err := c.Validate()
			if tt.expErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.expErr) {
				t.Errorf("error %v does not mention %q", err, tt.expErr)
			}
		})
	}
}

func TestCreatureSnapshotRollsAStatBlock(t *testing.T) {
	c := Creature{
		Name:    "Slime",
		Element: combat.ElementWater,
		Stats: []StatBlock{
			{HP: 30, Attack: 5, Defense: 3, Speed: 4},
			{HP: 40, Attack: 7, Defense: 5, Speed: 6},
		},
		Gear: []combat.Item{{ID: "goo", Name: "Goo", Kind: combat.ItemKindWeapon}},
	}

	snap := c.Snapshot(rand.New(rand.NewPCG(1, 2)))

	testutil.AssertEqual(t, "name", snap.Name, "Slime")
	testutil.AssertEqual(t, "element", snap.Element, combat.ElementWater)
	if snap.MaxHP != 30 && snap.MaxHP != 40 {
		t.Errorf("hp %d matches no stat block", snap.MaxHP)
	}
	testutil.AssertEqual(t, "gear carried", len(snap.Gear), 1)

	// The snapshot owns its gear slice.
	snap.Gear[0].Name = "Changed"
	testutil.AssertEqual(t, "template gear untouched", c.Gear[0].Name, "Goo")
}

func TestSpeciesValidate(t *testing.T) {
	sp := Species{
		Name:    "Emberling",
		Element: combat.ElementFire,
		Base:    StatBlock{HP: 25, Attack: 6, Defense: 4, Speed: 5},
	}
	if err := sp.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	sp.Base.HP = 0
	if err := sp.Validate(); err == nil {
		t.Error("expected an error for zero hp")
	}
}

func TestDisplayName(t *testing.T) {
	tests := map[string]string{
		"emberling":    "Emberling",
		"frost_wyrm":   "Frost Wyrm",
		"SHADOW_pup":   "Shadow Pup",
	}
	for in, exp := range tests {
		testutil.AssertEqual(t, in, DisplayName(in), exp)
	}
}
