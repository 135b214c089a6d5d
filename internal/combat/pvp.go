package combat

import (
	"time"

	"github.com/pixil98/go-arena/internal/protocol"
)

// submitPVP buffers one side's action. When both sides have submitted for
// the current turn, resolution runs; while a session is resolving, further
// submissions from either side are dropped so duplicate client sends cannot
// double-apply a turn. Caller holds sess.mu.
func (e *Engine) submitPVP(sess *Session, action Action) []protocol.Event {
	if sess.resolving {
		return nil
	}

	a := action
	sess.pending[action.ActorID] = &a

	if sess.pending[sess.attacker.playerID] == nil || sess.pending[sess.defender.playerID] == nil {
		return nil
	}

	sess.resolving = true
	events := e.resolvePVPTurn(sess)
	sess.pending = map[string]*Action{}
	sess.resolving = false

	// The submitter gets the events on the reply path; the opponent's
	// connections get the same copy through the presence fan-out.
	_, opp := sess.sideOf(action.ActorID)
	e.notifier.Notify(opp.playerID, events...)

	return events
}

// resolvePVPTurn applies both buffered actions symmetrically: plans are
// prepared for both sides, then both damage deltas are computed before
// either side's HP is finalized, so neither submission order biases the
// outcome. A double-knockout in the same turn is a draw.
func (e *Engine) resolvePVPTurn(sess *Session) []protocol.Event {
	atk := &sess.attacker
	def := &sess.defender
	atkAction := sess.pending[atk.playerID]
	defAction := sess.pending[def.playerID]

	atkPlan := e.planAction(sess, atk, def, atkAction)
	defPlan := e.planAction(sess, def, atk, defAction)

	atkLine := e.pvpStrike(sess, atkPlan, atk, def, defPlan)
	defLine := e.pvpStrike(sess, defPlan, def, atk, atkPlan)

	log := atkLine.log + " | " + defLine.log

	// Apply both deltas only after both are known.
	def.hp -= atkLine.damage
	atk.hp -= atkLine.reflected
	atk.hp -= defLine.damage
	def.hp -= defLine.reflected
	atk.clampHP()
	def.clampHP()

	used := append(atkPlan.used, defPlan.used...)
	events := []protocol.Event{sess.turnEvent(atk.playerID, atkLine.damage, log, used)}

	atkDead := atk.hp <= 0
	defDead := def.hp <= 0
	switch {
	case atkDead && defDead:
		events = append(events, protocol.BattleEnded{CombatID: sess.id, WinnerID: WinnerNone})
		sess.ended = true
		e.remove(sess.id)
	case defDead:
		events = append(events, e.endWithVictory(sess, atk, def))
	case atkDead:
		events = append(events, e.endWithVictory(sess, def, atk))
	default:
		sess.turn++
		sess.lastResolved = time.Now()
	}

	return events
}

// pvpLine is one side's computed-but-unapplied outcome for the turn.
type pvpLine struct {
	damage    int
	reflected int
	log       string
}

// pvpStrike computes one side's damage without mutating HP. Status effects
// applied during planning (freeze, stealth) are already live, matching the
// sequential item phase.
func (e *Engine) pvpStrike(sess *Session, plan *turnPlan, own, opp *side, oppPlan *turnPlan) pvpLine {
	name := own.snapshot.Name

	if plan.frozen {
		return pvpLine{log: narrate("pvp_line", map[string]any{"Name": name, "Frozen": true})}
	}

	stealthed := sess.turn <= opp.stealthUntil
	if stealthed {
		return pvpLine{log: joinLogs(plan.logs, narrate("pvp_line", map[string]any{"Name": name, "Stealth": true}))}
	}

	e.rngMu.Lock()
	dmg, crit := Damage(e.rng, plan.atkIcons, oppPlan.defense, opp.snapshot.Element, plan.stanceAtk, oppPlan.stanceDef, false)
	e.rngMu.Unlock()

	line := pvpLine{damage: dmg}
	if dmg > 0 && plan.freezeChance > 0 && e.roll(plan.freezeChance) {
		opp.frozenUntil = sess.turn + 1
		sess.usedItems[plan.freezeWeapon] = true
	}
	if chance := opp.snapshot.reflectChance(); chance > 0 && e.roll(chance) {
		line.reflected = reflectDamage(plan.atkIcons)
	}

	line.log = joinLogs(plan.logs, narrate("pvp_line", map[string]any{
		"Name": name, "Damage": dmg, "Crit": crit,
	}))
	return line
}
