package protocol

import (
	"encoding/json"
	"fmt"
)

// Event is an outbound message delivered to a client. Each event carries a
// discriminator so clients can dispatch on it.
type Event interface {
	EventType() string
}

// Encode serializes an event as a single JSON object with an injected
// "type" discriminator field.
func Encode(ev Event) ([]byte, error) {
	raw, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", ev.EventType(), err)
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("reshaping %s: %w", ev.EventType(), err)
	}
	obj["type"], _ = json.Marshal(ev.EventType())

	return json.Marshal(obj)
}

// BattleContext is the per-side view of a starting battle. Each participant
// sees itself as "player" and its opponent as "enemy".
type BattleContext struct {
	CompanionID   string `json:"companion_id"`
	CompanionName string `json:"companion_name"`
	PlayerHP      int    `json:"player_hp"`
	PlayerMaxHP   int    `json:"player_max_hp"`
	EnemyName     string `json:"enemy_name"`
	EnemyElement  string `json:"enemy_type"`
	EnemyHP       int    `json:"enemy_hp"`
	EnemyMaxHP    int    `json:"enemy_max_hp"`
}

type BattleStarted struct {
	CombatID string        `json:"combat_id"`
	Mode     string        `json:"mode"`
	Context  BattleContext `json:"context"`
}

func (BattleStarted) EventType() string { return "BattleStarted" }

type TurnResolved struct {
	CombatID   string `json:"combat_id"`
	TurnNumber int    `json:"turn_number"`
	ActorID    string `json:"actor_id"`
	Damage     int    `json:"damage_dealt"`
	Narration  string `json:"narration"`
	AttackerHP int    `json:"attacker_hp"`
	DefenderHP int    `json:"defender_hp"`

	AttackerFrozenUntil  int `json:"attacker_frozen_until"`
	DefenderFrozenUntil  int `json:"defender_frozen_until"`
	AttackerStealthUntil int `json:"attacker_stealth_until"`
	DefenderStealthUntil int `json:"defender_stealth_until"`

	UsedItemIDs []string `json:"used_item_ids,omitempty"`
}

func (TurnResolved) EventType() string { return "TurnResolved" }

// Loot is the coin reward attached to a battle victory.
type Loot struct {
	Coins int `json:"coins"`
}

// DroppedItem describes a single item dropped by a defeated opponent.
type DroppedItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Kind string `json:"kind"`
}

type BattleEnded struct {
	CombatID string       `json:"combat_id"`
	WinnerID string       `json:"winner_id"`
	Loot     *Loot        `json:"loot,omitempty"`
	Dropped  *DroppedItem `json:"dropped_item,omitempty"`
	XPGained int          `json:"xp_gained"`
}

func (BattleEnded) EventType() string { return "BattleEnded" }

type PlayerMoved struct {
	PlayerID string `json:"player_id"`
	ZoneID   string `json:"zone_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

func (PlayerMoved) EventType() string { return "PlayerMoved" }

type PlayerDisconnected struct {
	PlayerID string `json:"player_id"`
}

func (PlayerDisconnected) EventType() string { return "PlayerDisconnected" }

// TeleportPlayer is a corrective or warp-driven position override. The
// client must accept it verbatim.
type TeleportPlayer struct {
	ZoneID string `json:"zone_id"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

func (TeleportPlayer) EventType() string { return "TeleportPlayer" }

type CompanionCreated struct {
	CompanionID string `json:"companion_id"`
	Name        string `json:"name"`
	Species     string `json:"species"`
	Element     string `json:"element"`
	MaxHP       int    `json:"max_hp"`
}

func (CompanionCreated) EventType() string { return "CompanionCreated" }

type LootFound struct {
	ZoneID string `json:"zone_id"`
	Coins  int    `json:"coins"`
}

func (LootFound) EventType() string { return "LootFound" }

// QueueStatus reports matchmaking progress to a waiting player.
type QueueStatus struct {
	Status string `json:"status"`
}

func (QueueStatus) EventType() string { return "QueueStatus" }

// ErrorEvent is an optional diagnostic reply to a malformed command. The
// connection stays open.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (ErrorEvent) EventType() string { return "Error" }
