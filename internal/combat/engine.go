package combat

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/pixil98/go-arena/internal/protocol"
)

const (
	lootCoinsMin   = 15
	lootCoinsMax   = 30
	itemDropChance = 0.25

	maxSelectedItems = 2

	// DefaultIdleTimeout is how long a PvP session may sit without a
	// resolved turn before the sweep forfeits it.
	DefaultIdleTimeout = 2 * time.Minute
)

// Notifier delivers events to all live connections of a player outside the
// direct reply path. The presence manager implements it.
type Notifier interface {
	Notify(playerID string, events ...protocol.Event)
}

// Engine owns the active-session table and applies all battle state
// transitions. Exactly one session exists per combat id.
type Engine struct {
	mu       sync.Mutex
	sessions map[string]*Session

	rngMu sync.Mutex
	rng   *rand.Rand

	notifier    Notifier
	idleTimeout time.Duration
}

func NewEngine(notifier Notifier, opts ...EngineOpt) *Engine {
	e := &Engine{
		sessions:    map[string]*Session{},
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		notifier:    notifier,
		idleTimeout: DefaultIdleTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type EngineOpt func(*Engine)

// WithRand replaces the engine's random source. Tests use a seeded source.
func WithRand(rng *rand.Rand) EngineOpt {
	return func(e *Engine) { e.rng = rng }
}

// WithIdleTimeout sets the PvP idle-forfeit window.
func WithIdleTimeout(d time.Duration) EngineOpt {
	return func(e *Engine) { e.idleTimeout = d }
}

// Register adds a new session to the active table. Registering an id that
// already exists is a no-op: upstream triggers deliver at least once.
func (e *Engine) Register(sess *Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.sessions[sess.id]; exists {
		slog.Warn("duplicate battle start ignored", "combatId", sess.id)
		return
	}
	e.sessions[sess.id] = sess
}

// Lookup returns the active session for a combat id, or nil.
func (e *Engine) Lookup(combatID string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessions[combatID]
}

func (e *Engine) remove(combatID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, combatID)
}

// Submit applies one player action. For PVE battles the AI acts in the same
// call. For PVP the action is buffered until both sides have submitted for
// the current turn; the returned events are also delivered to the opponent
// through the notifier. An unknown combat id returns nil: the battle is
// already over and the client reference is stale.
func (e *Engine) Submit(combatID string, action Action) []protocol.Event {
	sess := e.Lookup(combatID)
	if sess == nil {
		return nil
	}
	if !sess.has(action.ActorID) {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ended {
		return nil
	}
	if sess.mode == ModePVP {
		return e.submitPVP(sess, action)
	}
	return e.resolvePVETurn(sess, action)
}

// Forfeit ends the battle immediately, awarding the opponent. Forfeiting a
// PVE battle always awards the AI.
func (e *Engine) Forfeit(combatID, playerID string) []protocol.Event {
	sess := e.Lookup(combatID)
	if sess == nil || !sess.has(playerID) {
		return nil
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.ended {
		return nil
	}
	_, opp := sess.sideOf(playerID)

	end := protocol.BattleEnded{
		CombatID: sess.id,
		WinnerID: opp.playerID,
	}
	sess.ended = true
	e.remove(sess.id)

	if sess.mode == ModePVP {
		e.notifier.Notify(opp.playerID, end)
	}
	return []protocol.Event{end}
}

// Tick sweeps idle PvP sessions. A session that has not resolved a turn
// within the idle timeout is forfeited against the side that failed to
// submit; if neither side submitted, the battle is a draw.
func (e *Engine) Tick(ctx context.Context) error {
	e.mu.Lock()
	var stale []*Session
	for _, sess := range e.sessions {
		if sess.mode == ModePVP && time.Since(sess.lastResolved) > e.idleTimeout {
			stale = append(stale, sess)
		}
	}
	e.mu.Unlock()

	for _, sess := range stale {
		sess.mu.Lock()
		if sess.ended || time.Since(sess.lastResolved) <= e.idleTimeout {
			sess.mu.Unlock()
			continue
		}

		winner := WinnerNone
		if _, ok := sess.pending[sess.attacker.playerID]; ok {
			winner = sess.attacker.playerID
		} else if _, ok := sess.pending[sess.defender.playerID]; ok {
			winner = sess.defender.playerID
		}

		end := protocol.BattleEnded{CombatID: sess.id, WinnerID: winner}
		sess.ended = true
		e.remove(sess.id)
		sess.mu.Unlock()

		slog.InfoContext(ctx, "idle pvp session forfeited",
			"combatId", sess.id, "winner", winner)
		e.notifier.Notify(sess.attacker.playerID, end)
		e.notifier.Notify(sess.defender.playerID, end)
	}

	return nil
}

// turnPlan is one side's prepared action for the current turn: icon totals,
// stance multipliers, and the item effects already applied.
type turnPlan struct {
	frozen bool

	atkIcons     IconMap
	defense      int
	stance       Stance
	stanceAtk    float64
	stanceDef    float64
	freezeChance float64
	freezeWeapon string

	logs []string
	used []string
}

// planAction resolves item selection and stance for one side. Consumable
// effects (heal, freeze, stealth) apply immediately; icon totals are
// collected for the damage step. A frozen actor gets an empty plan.
func (e *Engine) planAction(sess *Session, own, opp *side, action *Action) *turnPlan {
	plan := &turnPlan{
		atkIcons:  IconMap{ElementPhysical: own.snapshot.Attack},
		defense:   own.snapshot.Defense,
		stance:    action.Stance,
		stanceAtk: 1.0,
		stanceDef: 1.0,
	}

	if sess.turn <= own.frozenUntil {
		plan.frozen = true
		return plan
	}

	selected := action.ItemIDs
	if len(selected) > maxSelectedItems {
		selected = selected[:maxSelectedItems]
	}
	selectedSet := make(map[string]bool, len(selected))

	// Consumables first; they are removed from further availability.
	for _, id := range selected {
		item := own.snapshot.FindGear(id)
		if item == nil {
			continue
		}
		selectedSet[id] = true
		if item.Kind != ItemKindConsumable {
			continue
		}

		if sess.usedItems[id] {
			plan.logs = append(plan.logs, narrate("item_spent", map[string]any{"Item": item.Name}))
			continue
		}
		sess.usedItems[id] = true
		plan.used = append(plan.used, id)
		plan.logs = append(plan.logs, e.applyConsumable(sess, own, opp, item))
	}

	// Gear icons: weapons count only when selected this turn, armor and
	// shields are always-on passives.
	for i := range own.snapshot.Gear {
		item := &own.snapshot.Gear[i]
		isWeapon := item.Kind == ItemKindWeapon
		if (isWeapon && selectedSet[item.ID]) || item.Kind.Passive() {
			plan.atkIcons.Add(item.Attack)
			plan.defense += item.DefenseValue()

			if isWeapon && item.Effect != nil && item.Effect.Kind == EffectFreeze && !sess.usedItems[item.ID] {
				if item.Effect.Chance > plan.freezeChance {
					plan.freezeChance = item.Effect.Chance
					plan.freezeWeapon = item.ID
				}
			}
		}
	}

	plan.stanceAtk, plan.stanceDef = action.Stance.Mods()
	return plan
}

// applyConsumable applies one consumable's effect and returns its
// narration. Chance-gated effects roll independently; a failed roll still
// consumes the item.
func (e *Engine) applyConsumable(sess *Session, own, opp *side, item *Item) string {
	if item.Effect == nil {
		return narrate("item_fizzle", map[string]any{"Item": item.Name})
	}

	eff := item.Effect
	// Consumable effects with no explicit chance always land.
	chance := eff.Chance
	if chance == 0 {
		chance = 1.0
	}

	switch eff.Kind {
	case EffectHeal:
		own.hp += eff.Amount
		own.clampHP()
		return narrate("item_heal", map[string]any{"Item": item.Name, "Amount": eff.Amount})

	case EffectHealPct:
		amount := own.snapshot.MaxHP * eff.Amount / 100
		own.hp += amount
		own.clampHP()
		return narrate("item_heal", map[string]any{"Item": item.Name, "Amount": amount})

	case EffectFreeze:
		if e.roll(chance) {
			opp.frozenUntil = sess.turn + duration(eff)
			return narrate("item_freeze", map[string]any{"Item": item.Name})
		}

	case EffectStealth:
		if e.roll(chance) {
			own.stealthUntil = sess.turn + duration(eff)
			return narrate("item_stealth", map[string]any{"Item": item.Name})
		}
	}

	return narrate("item_fizzle", map[string]any{"Item": item.Name})
}

// strike computes and applies one attack from the planning side against
// opp. It returns the damage dealt, crit flag, and narration fragments for
// weapon freeze and reflection.
func (e *Engine) strike(sess *Session, plan *turnPlan, own, opp *side, oppDefense int, oppStanceDef float64) (int, bool, string) {
	stealthed := sess.turn <= opp.stealthUntil

	e.rngMu.Lock()
	dmg, crit := Damage(e.rng, plan.atkIcons, oppDefense, opp.snapshot.Element, plan.stanceAtk, oppStanceDef, stealthed)
	e.rngMu.Unlock()

	opp.hp -= dmg
	opp.clampHP()

	var extra strings.Builder
	if dmg > 0 {
		if plan.freezeChance > 0 && e.roll(plan.freezeChance) {
			opp.frozenUntil = sess.turn + 1
			sess.usedItems[plan.freezeWeapon] = true
			extra.WriteString(narrate("weapon_froze", nil))
		}
		if chance := opp.snapshot.reflectChance(); chance > 0 && e.roll(chance) {
			reflected := reflectDamage(plan.atkIcons)
			own.hp -= reflected
			own.clampHP()
			extra.WriteString(narrate("reflected", map[string]any{"Damage": reflected}))
		}
	}

	return dmg, crit, extra.String()
}

// resolvePVETurn runs the human action and then the AI response in one
// synchronous call.
func (e *Engine) resolvePVETurn(sess *Session, action Action) []protocol.Event {
	var events []protocol.Event

	player := &sess.attacker
	enemy := &sess.defender

	plan := e.planAction(sess, player, enemy, &action)

	var damage int
	var log string
	if plan.frozen {
		log = narrate("frozen_self", nil)
	} else {
		enemyDef := enemy.snapshot.PassiveDefense()
		enemyStealth := sess.turn <= enemy.stealthUntil

		var crit bool
		var extra string
		damage, crit, extra = e.strike(sess, plan, player, enemy, enemyDef, 1.0)

		var atkLog string
		if enemyStealth {
			atkLog = narrate("attack_stealth", map[string]any{"Enemy": enemy.snapshot.Name})
		} else {
			atkLog = narrate("attack", map[string]any{
				"Crit":   crit,
				"Stance": string(plan.stance),
				"Damage": damage,
			}) + extra
		}
		log = joinLogs(plan.logs, atkLog)
	}

	events = append(events, sess.turnEvent(player.playerID, damage, log, plan.used))

	if enemy.hp <= 0 {
		events = append(events, e.endWithVictory(sess, player, enemy))
		return events
	}

	// The AI defends against the stats the player committed this turn.
	events = append(events, e.aiTurn(sess, plan)...)

	if player.hp <= 0 {
		end := protocol.BattleEnded{CombatID: sess.id, WinnerID: AIActorID}
		sess.ended = true
		e.remove(sess.id)
		events = append(events, end)
		return events
	}

	sess.turn++
	sess.lastResolved = time.Now()
	return events
}

// endWithVictory builds the BattleEnded for a kill: coin loot, a chance at
// one dropped item from the loser's pool, and XP from the loser's attack
// stat. The session is removed before returning.
func (e *Engine) endWithVictory(sess *Session, winner, loser *side) protocol.Event {
	end := protocol.BattleEnded{
		CombatID: sess.id,
		WinnerID: winner.playerID,
		Loot:     &protocol.Loot{Coins: lootCoinsMin + e.intN(lootCoinsMax-lootCoinsMin+1)},
		XPGained: loser.snapshot.Attack*2 + 10,
	}

	if pool := loser.snapshot.Gear; len(pool) > 0 && e.roll(itemDropChance) {
		item := pool[e.intN(len(pool))]
		end.Dropped = &protocol.DroppedItem{
			ID:   item.ID,
			Name: item.Name,
			Kind: item.Kind.String(),
		}
	}

	sess.ended = true
	e.remove(sess.id)
	return end
}

// turnEvent builds the TurnResolved for this session's current turn.
// attacker_hp always reports the session's attacker side regardless of who
// acted, matching what clients render.
func (s *Session) turnEvent(actorID string, damage int, log string, used []string) protocol.Event {
	return protocol.TurnResolved{
		CombatID:             s.id,
		TurnNumber:           s.turn,
		ActorID:              actorID,
		Damage:               damage,
		Narration:            log,
		AttackerHP:           s.attacker.hp,
		DefenderHP:           s.defender.hp,
		AttackerFrozenUntil:  s.attacker.frozenUntil,
		DefenderFrozenUntil:  s.defender.frozenUntil,
		AttackerStealthUntil: s.attacker.stealthUntil,
		DefenderStealthUntil: s.defender.stealthUntil,
		UsedItemIDs:          used,
	}
}

func (e *Engine) roll(chance float64) bool {
	if chance <= 0 {
		return false
	}
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.Float64() < chance
}

func (e *Engine) intN(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return e.rng.IntN(n)
}

func duration(eff *Effect) int {
	if eff.Duration > 0 {
		return eff.Duration
	}
	return 1
}

func joinLogs(itemLogs []string, atkLog string) string {
	parts := append([]string{}, itemLogs...)
	if atkLog != "" {
		parts = append(parts, atkLog)
	}
	return strings.Join(parts, " ")
}
