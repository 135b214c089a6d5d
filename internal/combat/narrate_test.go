package combat

import (
	"strings"
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestNarrate(t *testing.T) {
	tests := map[string]struct {
		template string
		data     any
		exp      string
	}{
		"attack": {
			template: "attack",
			data:     map[string]any{"Crit": false, "Stance": "berserk", "Damage": 12},
			exp:      "Using berserk stance, you deal 12 damage!",
		},
		"critical attack": {
			template: "attack",
			data:     map[string]any{"Crit": true, "Stance": "normal", "Damage": 30},
			exp:      "CRITICAL HIT! Using normal stance, you deal 30 damage!",
		},
		"ai with gear": {
			template: "ai_attack",
			data: map[string]any{
				"Enemy": "Slime", "Stance": "normal",
				"Items": []string{"Claw", "Fang"}, "Damage": 4, "Crit": false,
			},
			exp: "Slime attacks using Claw, Fang for 4 damage!",
		},
		"pvp frozen": {
			template: "pvp_line",
			data:     map[string]any{"Name": "Ember", "Frozen": true},
			exp:      "Ember: frozen!",
		},
		"pvp stealth miss": {
			template: "pvp_line",
			data:     map[string]any{"Name": "Ember", "Stealth": true},
			exp:      "Ember: miss (stealth)",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "narration", narrate(tt.template, tt.data), tt.exp)
		})
	}
}

func TestNarrateUnknownTemplateIsEmpty(t *testing.T) {
	if got := narrate("no_such_template", nil); got != "" {
		t.Errorf("expected empty narration, got %q", got)
	}
}

func TestJoinLogs(t *testing.T) {
	got := joinLogs([]string{"used potion.", "used bomb."}, "dealt 5 damage!")
	if !strings.Contains(got, "used potion.") || !strings.HasSuffix(got, "dealt 5 damage!") {
		t.Errorf("unexpected combined log: %q", got)
	}
}
