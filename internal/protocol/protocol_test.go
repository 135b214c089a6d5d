package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestDecodeCommands(t *testing.T) {
	tests := map[string]struct {
		raw   string
		check func(t *testing.T, cmd any)
	}{
		"move": {
			raw: `{"type":"Move","direction":{"dx":1,"dy":0},"zone_id":"town"}`,
			check: func(t *testing.T, cmd any) {
				mv := cmd.(*Move)
				testutil.AssertEqual(t, "dx", mv.Direction.DX, 1)
				testutil.AssertEqual(t, "zone", mv.ZoneID, "town")
			},
		},
		"combat action": {
			raw: `{"type":"CombatAction","combat_id":"c1","action_type":"attack","stance":"berserk","item_ids":["sword"]}`,
			check: func(t *testing.T, cmd any) {
				ca := cmd.(*CombatAction)
				testutil.AssertEqual(t, "combat id", ca.CombatID, "c1")
				testutil.AssertEqual(t, "stance", ca.Stance, "berserk")
				testutil.AssertEqual(t, "items", len(ca.ItemIDs), 1)
			},
		},
		"choose starter": {
			raw: `{"type":"ChooseStarter","species_name":"emberling"}`,
			check: func(t *testing.T, cmd any) {
				testutil.AssertEqual(t, "species", cmd.(*ChooseStarter).SpeciesName, "emberling")
			},
		},
		"enter combat": {
			raw: `{"type":"EnterCombat","companion_id":"comp1","opponent":{"name":"Slime","type":"water","stats":{"hp":30,"attack":5}}}`,
			check: func(t *testing.T, cmd any) {
				ec := cmd.(*EnterCombat)
				testutil.AssertEqual(t, "opponent", ec.Opponent.Name, "Slime")
				testutil.AssertEqual(t, "element", ec.Opponent.Element, "water")
				testutil.AssertEqual(t, "hp stat", ec.Opponent.Stats["hp"], 30)
			},
		},
		"join queue": {
			raw: `{"type":"JoinPvPQueue","companion_id":"comp1"}`,
			check: func(t *testing.T, cmd any) {
				testutil.AssertEqual(t, "companion", cmd.(*JoinPvPQueue).CompanionID, "comp1")
			},
		},
		"leave queue": {
			raw: `{"type":"LeavePvPQueue"}`,
			check: func(t *testing.T, cmd any) {
				if _, ok := cmd.(*LeavePvPQueue); !ok {
					t.Errorf("unexpected type %T", cmd)
				}
			},
		},
		"forfeit": {
			raw: `{"type":"Forfeit","combat_id":"c9"}`,
			check: func(t *testing.T, cmd any) {
				testutil.AssertEqual(t, "combat id", cmd.(*Forfeit).CombatID, "c9")
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cmd, err := Decode([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			tt.check(t, cmd)
		})
	}
}

func TestDecodeUnknownCommand(t *testing.T) {
	_, err := Decode([]byte(`{"type":"LaunchMissiles"}`))

	var unknown *ErrUnknownCommand
	if !errors.As(err, &unknown) {
		t.Fatalf("expected ErrUnknownCommand, got %v", err)
	}
	testutil.AssertEqual(t, "type carried", unknown.Type, "LaunchMissiles")
}

func TestDecodeMalformedJSON(t *testing.T) {
	if _, err := Decode([]byte(`{"type":`)); err == nil {
		t.Error("expected an error for truncated input")
	}
}

func TestEncodeInjectsTypeDiscriminator(t *testing.T) {
	data, err := Encode(BattleEnded{CombatID: "c1", WinnerID: "p1", XPGained: 12})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("reparsing: %v", err)
	}
	testutil.AssertEqual(t, "type", obj["type"].(string), "BattleEnded")
	testutil.AssertEqual(t, "winner", obj["winner_id"].(string), "p1")
	testutil.AssertEqual(t, "xp", int(obj["xp_gained"].(float64)), 12)
}

func TestEncodeOmitsEmptyLoot(t *testing.T) {
	data, err := Encode(BattleEnded{CombatID: "c1", WinnerID: ""})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		t.Fatalf("reparsing: %v", err)
	}
	if _, present := obj["loot"]; present {
		t.Error("empty loot should be omitted")
	}
}
