package persist

import (
	"context"
	"errors"
	"testing"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-testutil"
)

func TestGainXP(t *testing.T) {
	tests := map[string]struct {
		start      Companion
		xp         int
		expLevel   int
		expXP      int
		expAttack  int
		expMaxHP   int
		expHealed  bool
	}{
		"below threshold": {
			start:    Companion{Level: 1, XP: 0, Attack: 5, Defense: 3, HP: 10, MaxHP: 20},
			xp:       50,
			expLevel: 1, expXP: 50, expAttack: 5, expMaxHP: 20,
		},
		"single level": {
			start:    Companion{Level: 1, XP: 90, Attack: 5, Defense: 3, HP: 10, MaxHP: 20},
			xp:       20,
			expLevel: 2, expXP: 10, expAttack: 6, expMaxHP: 25,
			expHealed: true,
		},
		"multiple levels at once": {
			// 100 to clear level 1, 200 to clear level 2.
			start:    Companion{Level: 1, XP: 0, Attack: 5, Defense: 3, HP: 1, MaxHP: 20},
			xp:       320,
			expLevel: 3, expXP: 20, expAttack: 7, expMaxHP: 30,
			expHealed: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := tt.start
			c.GainXP(tt.xp)

			testutil.AssertEqual(t, "level", c.Level, tt.expLevel)
			testutil.AssertEqual(t, "xp", c.XP, tt.expXP)
			testutil.AssertEqual(t, "attack", c.Attack, tt.expAttack)
			testutil.AssertEqual(t, "max hp", c.MaxHP, tt.expMaxHP)
			if tt.expHealed {
				testutil.AssertEqual(t, "healed", c.HP, c.MaxHP)
			}
		})
	}
}

func TestMemoryRepositoryCompanionLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	comp := &Companion{OwnerID: "p1", Name: "Ember", Level: 1, HP: 20, MaxHP: 20, Active: true}
	if err := repo.CreateCompanion(ctx, comp); err != nil {
		t.Fatalf("create: %v", err)
	}
	if comp.ID == "" {
		t.Fatal("create did not assign an id")
	}

	loaded, err := repo.Companion(ctx, comp.ID)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "name", loaded.Name, "Ember")

	// Mutating the returned copy must not change the stored record.
	loaded.HP = 1
	again, _ := repo.Companion(ctx, comp.ID)
	testutil.AssertEqual(t, "stored hp untouched", again.HP, 20)

	active, err := repo.ActiveCompanion(ctx, "p1")
	if err != nil {
		t.Fatalf("active: %v", err)
	}
	testutil.AssertEqual(t, "active id", active.ID, comp.ID)

	if _, err := repo.Companion(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryRepositoryGearAndCoins(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if err := repo.GrantItem(ctx, "p1", combat.Item{ID: "sword", Name: "Sword", Kind: combat.ItemKindWeapon}); err != nil {
		t.Fatalf("grant: %v", err)
	}
	gear, err := repo.EquippedGear(ctx, "p1")
	if err != nil {
		t.Fatalf("gear: %v", err)
	}
	testutil.AssertEqual(t, "gear count", len(gear), 1)

	repo.AddCoins(ctx, "p1", 25)
	repo.AddCoins(ctx, "p1", 10)
	testutil.AssertEqual(t, "balance", repo.Coins("p1"), 35)
}

func TestMemoryRepositoryPosition(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	if _, err := repo.Position(ctx, "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	repo.SavePosition(ctx, "p1", Position{ZoneID: "town", X: 3, Y: 4})
	pos, err := repo.Position(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	testutil.AssertEqual(t, "zone", pos.ZoneID, "town")
	testutil.AssertEqual(t, "x", pos.X, 3)
}
