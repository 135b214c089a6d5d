package combat

import (
	"sort"

	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	aiSupportChance    = 0.15
	aiDefensiveCutoff  = 0.40
	aiHealThresholdPct = 40
	aiGearSlots        = 2
)

// aiTurn runs the PvE opponent's action using the same damage pipeline as
// the player. playerPlan carries the defense and stance the player
// committed this turn.
func (e *Engine) aiTurn(sess *Session, playerPlan *turnPlan) []protocol.Event {
	player := &sess.attacker
	enemy := &sess.defender

	if sess.turn <= enemy.frozenUntil {
		log := narrate("frozen_enemy", map[string]any{"Enemy": enemy.snapshot.Name})
		return []protocol.Event{sess.turnEvent(AIActorID, 0, log, nil)}
	}

	// Support branch: heal when hurt, otherwise burn a status item. Falls
	// through to combat when nothing useful remains.
	e.rngMu.Lock()
	roll := e.rng.Float64()
	e.rngMu.Unlock()

	if roll < aiSupportChance {
		if log, ok := e.aiSupport(sess, enemy); ok {
			return []protocol.Event{sess.turnEvent(AIActorID, 0, log, nil)}
		}
		roll = 0.5
	}

	playerStealth := sess.turn <= player.stealthUntil
	playerDef := playerPlan.defense
	playerStanceDef := playerPlan.stanceDef
	if playerPlan.frozen {
		// A frozen player committed nothing this turn; fall back to the
		// passive loadout.
		playerDef = player.snapshot.PassiveDefense()
		playerStanceDef = 1.0
	}

	plan := &turnPlan{
		atkIcons:  IconMap{ElementPhysical: enemy.snapshot.Attack},
		stanceAtk: 1.0,
		stanceDef: 1.0,
	}

	var gearNames []string
	var template string
	if roll < aiDefensiveCutoff {
		plan.stance = StanceDefensive
		plan.stanceAtk, plan.stanceDef = StanceDefensive.Mods()
		gearNames = aiEquip(plan, enemy.snapshot.Gear, func(it *Item) int { return it.DefenseValue() })
		template = "ai_defensive"
	} else {
		stances := []Stance{StanceNormal, StanceBerserk, StanceDefensive}
		plan.stance = stances[e.intN(len(stances))]
		plan.stanceAtk, plan.stanceDef = plan.stance.Mods()
		gearNames = aiEquip(plan, enemy.snapshot.Gear, func(it *Item) int { return it.AttackValue() })
		template = "ai_attack"
	}

	damage, crit, extra := e.strike(sess, plan, enemy, player, playerDef, playerStanceDef)

	var log string
	if playerStealth {
		log = narrate("ai_vs_stealth", map[string]any{"Enemy": enemy.snapshot.Name})
	} else {
		log = narrate(template, map[string]any{
			"Enemy":  enemy.snapshot.Name,
			"Stance": string(plan.stance),
			"Items":  gearNames,
			"Damage": damage,
			"Crit":   crit,
		}) + extra
	}

	return []protocol.Event{sess.turnEvent(AIActorID, damage, log, nil)}
}

// aiSupport tries a non-combat action: heal below the HP threshold, else a
// stealth item. Items come from the AI's consumable pool and are removed
// when spent. Returns false when no support action is available.
func (e *Engine) aiSupport(sess *Session, enemy *side) (string, bool) {
	hpPct := enemy.hp * 100 / enemy.snapshot.MaxHP

	if hpPct < aiHealThresholdPct {
		if item, ok := takeConsumable(enemy, EffectHeal, EffectHealPct); ok {
			amount := item.Effect.Amount
			if item.Effect.Kind == EffectHealPct {
				amount = enemy.snapshot.MaxHP * item.Effect.Amount / 100
			}
			enemy.hp += amount
			enemy.clampHP()
			return narrate("ai_heal", map[string]any{
				"Enemy": enemy.snapshot.Name, "Item": item.Name, "Amount": amount,
			}), true
		}
	}

	if item, ok := takeConsumable(enemy, EffectStealth); ok {
		enemy.stealthUntil = sess.turn + duration(item.Effect)
		return narrate("ai_stealth", map[string]any{
			"Enemy": enemy.snapshot.Name, "Item": item.Name,
		}), true
	}

	return "", false
}

// aiEquip adds the top gear pieces by the given value function to the plan
// and returns their names.
func aiEquip(plan *turnPlan, gear []Item, value func(*Item) int) []string {
	var pool []*Item
	for i := range gear {
		if gear[i].Kind == ItemKindConsumable {
			continue
		}
		if value(&gear[i]) > 0 {
			pool = append(pool, &gear[i])
		}
	}
	sort.Slice(pool, func(i, j int) bool { return value(pool[i]) > value(pool[j]) })

	if len(pool) > aiGearSlots {
		pool = pool[:aiGearSlots]
	}

	var names []string
	for _, it := range pool {
		plan.atkIcons.Add(it.Attack)
		plan.defense += it.DefenseValue()
		names = append(names, it.Name)
	}
	return names
}

// takeConsumable removes and returns the first pool item whose effect
// matches one of the wanted kinds.
func takeConsumable(s *side, kinds ...EffectKind) (*Item, bool) {
	for i := range s.aiItems {
		it := s.aiItems[i]
		if it.Effect == nil {
			continue
		}
		for _, k := range kinds {
			if it.Effect.Kind == k {
				s.aiItems = append(s.aiItems[:i], s.aiItems[i+1:]...)
				return &it, true
			}
		}
	}
	return nil, false
}
