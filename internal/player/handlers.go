package player

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-arena/internal/content"
	"github.com/pixil98/go-arena/internal/match"
	"github.com/pixil98/go-arena/internal/persist"
	"github.com/pixil98/go-arena/internal/protocol"
	"github.com/pixil98/go-arena/internal/world"
)

const (
	encounterChance = 0.15
	lootChance      = 0.10
	lootCoinsMin    = 10
	lootCoinsMax    = 50
)

func (s *Session) dispatch(ctx context.Context, data []byte) {
	cmd, err := protocol.Decode(data)
	if err != nil {
		slog.Debug("rejecting inbound message", "playerId", s.playerID, "error", err)
		s.send(protocol.ErrorEvent{Message: err.Error()})
		return
	}

	switch c := cmd.(type) {
	case *protocol.Move:
		s.handleMove(ctx, c)
	case *protocol.CombatAction:
		s.handleCombatAction(c)
	case *protocol.ChooseStarter:
		s.handleChooseStarter(ctx, c)
	case *protocol.JoinPvPQueue:
		s.handleJoinQueue(ctx, c)
	case *protocol.LeavePvPQueue:
		s.m.queue.Leave(s.playerID)
	case *protocol.EnterCombat:
		s.handleEnterCombat(ctx, c)
	case *protocol.JoinPvEEncounter:
		s.handleJoinEncounter(ctx, c)
	case *protocol.Forfeit:
		s.send(s.m.engine.Forfeit(c.CombatID, s.playerID)...)
	}
}

// handleMove validates one step and either broadcasts the new position or
// snaps the client back. Rejections never close the connection.
func (s *Session) handleMove(ctx context.Context, cmd *protocol.Move) {
	if cmd.ZoneID != s.pos.ZoneID ||
		!world.StepValid(cmd.Direction.DX, cmd.Direction.DY) ||
		!s.m.guard.Allow(s.playerID) {
		s.snapBack()
		return
	}

	nx, ny := s.pos.X+cmd.Direction.DX, s.pos.Y+cmd.Direction.DY
	if !s.m.atlas.IsValidMove(s.pos.ZoneID, nx, ny) {
		s.snapBack()
		return
	}

	if warp, ok := s.m.atlas.WarpAt(s.pos.ZoneID, nx, ny); ok {
		s.travel(persist.Position{ZoneID: warp.TargetZone, X: warp.TargetX, Y: warp.TargetY})
		return
	}

	s.pos.X, s.pos.Y = nx, ny
	s.savePosition()
	s.m.presence.Broadcast(s.pos.ZoneID, protocol.PlayerMoved{
		PlayerID: s.playerID,
		ZoneID:   s.pos.ZoneID,
		X:        s.pos.X,
		Y:        s.pos.Y,
	}, s.id)

	switch roll := rand.Float64(); {
	case roll < encounterChance:
		s.offerEncounter()
	case roll < encounterChance+lootChance:
		coins := lootCoinsMin + rand.IntN(lootCoinsMax-lootCoinsMin+1)
		go func() {
			if err := s.m.repo.AddCoins(context.Background(), s.playerID, coins); err != nil {
				slog.Error("granting found coins", "playerId", s.playerID, "error", err)
			}
		}()
		s.send(protocol.LootFound{ZoneID: s.pos.ZoneID, Coins: coins})
	}
}

func (s *Session) snapBack() {
	s.send(protocol.TeleportPlayer{ZoneID: s.pos.ZoneID, X: s.pos.X, Y: s.pos.Y})
}

// travel moves the player to another zone, leaving the old zone's view.
func (s *Session) travel(dest persist.Position) {
	old := s.pos.ZoneID
	s.pos = dest
	s.savePosition()

	if old != dest.ZoneID {
		s.m.presence.Broadcast(old, protocol.PlayerDisconnected{PlayerID: s.playerID}, s.id)
		s.m.presence.SubscribeZone(s.id, dest.ZoneID)
	}
	s.send(protocol.TeleportPlayer{ZoneID: dest.ZoneID, X: dest.X, Y: dest.Y})
	s.m.presence.Broadcast(dest.ZoneID, protocol.PlayerMoved{
		PlayerID: s.playerID,
		ZoneID:   dest.ZoneID,
		X:        dest.X,
		Y:        dest.Y,
	}, s.id)
}

func (s *Session) savePosition() {
	pos := s.pos
	go func() {
		if err := s.m.repo.SavePosition(context.Background(), s.playerID, pos); err != nil {
			slog.Error("saving position", "playerId", s.playerID, "error", err)
		}
	}()
}

// offerEncounter rolls a wild creature and offers the battle. The session
// is not registered with the engine until the player accepts.
func (s *Session) offerEncounter() {
	all := s.m.creatures.GetAll()
	if len(all) == 0 {
		return
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	enemy := all[keys[rand.IntN(len(keys))]].Snapshot(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))

	combatID := uuid.NewString()
	s.pendingEnemies[combatID] = enemy
	s.send(protocol.BattleStarted{
		CombatID: combatID,
		Mode:     string(combat.ModePVE),
		Context: protocol.BattleContext{
			EnemyName:    enemy.Name,
			EnemyElement: string(enemy.Element),
			EnemyHP:      enemy.MaxHP,
			EnemyMaxHP:   enemy.MaxHP,
		},
	})
}

func (s *Session) handleJoinEncounter(ctx context.Context, cmd *protocol.JoinPvEEncounter) {
	enemy := s.pendingEnemies[cmd.CombatID]
	if enemy == nil {
		s.send(protocol.ErrorEvent{Message: "no such encounter"})
		return
	}

	comp, gear, err := s.hydrateCompanion(ctx, s.playerID, cmd.CompanionID)
	if err != nil {
		s.send(protocol.ErrorEvent{Message: err.Error()})
		return
	}
	delete(s.pendingEnemies, cmd.CombatID)

	s.startPVE(cmd.CombatID, comp, gear, enemy)
}

// handleEnterCombat starts an arena battle against a named creature. The
// caller-supplied stat block is accepted only when the creature exists in
// content with a matching element.
func (s *Session) handleEnterCombat(ctx context.Context, cmd *protocol.EnterCombat) {
	creature := s.m.creatures.Get(strings.ToLower(cmd.Opponent.Name))
	if creature == nil {
		s.send(protocol.ErrorEvent{Message: "unknown opponent"})
		return
	}
	if !strings.EqualFold(string(creature.Element), cmd.Opponent.Element) {
		s.send(protocol.ErrorEvent{Message: "opponent element mismatch"})
		return
	}

	comp, gear, err := s.hydrateCompanion(ctx, s.playerID, cmd.CompanionID)
	if err != nil {
		s.send(protocol.ErrorEvent{Message: err.Error()})
		return
	}

	enemy := creature.Snapshot(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
	if hp := cmd.Opponent.Stats["hp"]; hp > 0 {
		enemy.MaxHP = hp
	}
	if atk := cmd.Opponent.Stats["attack"]; atk > 0 {
		enemy.Attack = atk
	}
	if def := cmd.Opponent.Stats["defense"]; def > 0 {
		enemy.Defense = def
	}
	if spd := cmd.Opponent.Stats["speed"]; spd > 0 {
		enemy.Speed = spd
	}

	s.startPVE(uuid.NewString(), comp, gear, enemy)
}

func (s *Session) startPVE(combatID string, comp *persist.Companion, gear []combat.Item, enemy *combat.CompanionSnapshot) {
	sess := combat.NewPVESession(combatID, s.playerID, comp.ID, comp.Snapshot(gear), enemy)
	s.m.engine.Register(sess)

	s.send(protocol.BattleStarted{
		CombatID: combatID,
		Mode:     string(combat.ModePVE),
		Context: protocol.BattleContext{
			CompanionID:   comp.ID,
			CompanionName: comp.Name,
			PlayerHP:      comp.MaxHP,
			PlayerMaxHP:   comp.MaxHP,
			EnemyName:     enemy.Name,
			EnemyElement:  string(enemy.Element),
			EnemyHP:       enemy.MaxHP,
			EnemyMaxHP:    enemy.MaxHP,
		},
	})
}

func (s *Session) handleCombatAction(cmd *protocol.CombatAction) {
	events := s.m.engine.Submit(cmd.CombatID, combat.Action{
		ActorID: s.playerID,
		Stance:  combat.Stance(cmd.Stance),
		ItemIDs: cmd.ItemIDs,
	})
	s.send(events...)
}

func (s *Session) handleChooseStarter(ctx context.Context, cmd *protocol.ChooseStarter) {
	if _, err := s.m.repo.ActiveCompanion(ctx, s.playerID); err == nil {
		s.send(protocol.ErrorEvent{Message: "companion already chosen"})
		return
	}

	key := strings.ToLower(cmd.SpeciesName)
	sp := s.m.species.Get(key)
	if sp == nil {
		s.send(protocol.ErrorEvent{Message: "unknown species"})
		return
	}

	comp := &persist.Companion{
		OwnerID: s.playerID,
		Name:    content.DisplayName(key),
		Species: key,
		Element: sp.Element,
		Level:   1,
		HP:      sp.Base.HP,
		MaxHP:   sp.Base.HP,
		Attack:  sp.Base.Attack,
		Defense: sp.Base.Defense,
		Speed:   sp.Base.Speed,
		Active:  true,
	}
	if err := s.m.repo.CreateCompanion(ctx, comp); err != nil {
		slog.Error("creating starter companion", "playerId", s.playerID, "error", err)
		s.send(protocol.ErrorEvent{Message: "could not create companion"})
		return
	}

	s.send(protocol.CompanionCreated{
		CompanionID: comp.ID,
		Name:        comp.Name,
		Species:     comp.Species,
		Element:     string(comp.Element),
		MaxHP:       comp.MaxHP,
	})
}

// handleJoinQueue enqueues the player or, when a reachable opponent is
// waiting, starts the PvP battle with mirrored start events.
func (s *Session) handleJoinQueue(ctx context.Context, cmd *protocol.JoinPvPQueue) {
	comp, gear, err := s.hydrateCompanion(ctx, s.playerID, cmd.CompanionID)
	if err != nil {
		s.send(protocol.ErrorEvent{Message: err.Error()})
		return
	}

	entry, matched := s.m.queue.Join(s.playerID, cmd.CompanionID)
	if !matched {
		s.send(protocol.QueueStatus{Status: "searching"})
		return
	}

	oppComp, oppGear, err := s.hydrateCompanion(ctx, entry.PlayerID, entry.CompanionID)
	if err != nil {
		// The waiting entry is no longer valid; keep ourselves at the
		// front of the line and tell the other side their match fell
		// through.
		slog.Warn("discarding stale queue entry", "playerId", entry.PlayerID, "error", err)
		s.m.presence.Notify(entry.PlayerID, protocol.ErrorEvent{Message: "match failed: companion unavailable"})
		s.m.queue.Requeue(&match.Entry{PlayerID: s.playerID, CompanionID: cmd.CompanionID})
		s.send(protocol.QueueStatus{Status: "searching"})
		return
	}

	combatID := uuid.NewString()
	sess := combat.NewPVPSession(combatID,
		entry.PlayerID, entry.CompanionID, oppComp.Snapshot(oppGear),
		s.playerID, cmd.CompanionID, comp.Snapshot(gear))
	s.m.engine.Register(sess)

	// Each side sees itself as "player".
	s.m.presence.Notify(entry.PlayerID, protocol.BattleStarted{
		CombatID: combatID,
		Mode:     string(combat.ModePVP),
		Context: protocol.BattleContext{
			CompanionID:   oppComp.ID,
			CompanionName: oppComp.Name,
			PlayerHP:      oppComp.MaxHP,
			PlayerMaxHP:   oppComp.MaxHP,
			EnemyName:     comp.Name,
			EnemyElement:  string(comp.Element),
			EnemyHP:       comp.MaxHP,
			EnemyMaxHP:    comp.MaxHP,
		},
	})
	s.send(protocol.BattleStarted{
		CombatID: combatID,
		Mode:     string(combat.ModePVP),
		Context: protocol.BattleContext{
			CompanionID:   comp.ID,
			CompanionName: comp.Name,
			PlayerHP:      comp.MaxHP,
			PlayerMaxHP:   comp.MaxHP,
			EnemyName:     oppComp.Name,
			EnemyElement:  string(oppComp.Element),
			EnemyHP:       oppComp.MaxHP,
			EnemyMaxHP:    oppComp.MaxHP,
		},
	})
}

// hydrateCompanion loads a companion and its equipped gear, verifying
// ownership.
func (s *Session) hydrateCompanion(ctx context.Context, ownerID, companionID string) (*persist.Companion, []combat.Item, error) {
	comp, err := s.m.repo.Companion(ctx, companionID)
	if err != nil {
		return nil, nil, err
	}
	if comp.OwnerID != ownerID {
		return nil, nil, persist.ErrNotFound
	}
	gear, err := s.m.repo.EquippedGear(ctx, ownerID)
	if err != nil {
		return nil, nil, err
	}
	return comp, gear, nil
}

// dropToItem resolves a dropped-item event against the item content table.
func (s *Session) dropToItem(d *protocol.DroppedItem) *combat.Item {
	if it := s.m.items.Get(d.ID); it != nil {
		item := it.Item
		return &item
	}
	slog.Warn("dropped item missing from content", "itemId", d.ID)
	return nil
}
