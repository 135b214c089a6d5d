package combat

import "fmt"

// ItemKind classifies how a piece of gear participates in a turn. Weapons
// must be selected to count, armor and shields are always-on passives, and
// consumables apply an immediate effect at most once per battle.
type ItemKind int

const (
	ItemKindWeapon ItemKind = iota
	ItemKindArmor
	ItemKindShield
	ItemKindConsumable
)

func (k *ItemKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "weapon":
		*k = ItemKindWeapon
	case "armor":
		*k = ItemKindArmor
	case "shield":
		*k = ItemKindShield
	case "consumable":
		*k = ItemKindConsumable
	default:
		return fmt.Errorf("unknown item kind: %s", text)
	}
	return nil
}

func (k ItemKind) String() string {
	switch k {
	case ItemKindWeapon:
		return "weapon"
	case ItemKindArmor:
		return "armor"
	case ItemKindShield:
		return "shield"
	case ItemKindConsumable:
		return "consumable"
	}
	return "unknown"
}

// Passive reports whether the item contributes icons without being selected.
func (k ItemKind) Passive() bool {
	return k == ItemKindArmor || k == ItemKindShield
}

// EffectKind discriminates the triggered effect an item may carry.
type EffectKind int

const (
	EffectHeal EffectKind = iota
	EffectHealPct
	EffectFreeze
	EffectStealth
	EffectReflect
)

func (k *EffectKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "heal":
		*k = EffectHeal
	case "heal_pct":
		*k = EffectHealPct
	case "freeze":
		*k = EffectFreeze
	case "stealth":
		*k = EffectStealth
	case "reflect":
		*k = EffectReflect
	default:
		return fmt.Errorf("unknown effect kind: %s", text)
	}
	return nil
}

// Effect is the tagged variant for item behaviors. Amount is the flat heal
// or percentage depending on Kind, Chance gates Freeze/Stealth/Reflect, and
// Duration is a turn count for status effects.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Amount   int        `json:"amount,omitempty"`
	Chance   float64    `json:"chance,omitempty"`
	Duration int        `json:"duration,omitempty"`
}

// Item is one piece of gear, resolved once at load time.
type Item struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Kind    ItemKind `json:"kind"`
	Attack  IconMap  `json:"attack,omitempty"`
	Defense IconMap  `json:"defense,omitempty"`
	Effect  *Effect  `json:"effect,omitempty"`
}

// AttackValue returns the summed attack icon magnitude.
func (i *Item) AttackValue() int { return i.Attack.Total() }

// DefenseValue returns the summed defense icon magnitude.
func (i *Item) DefenseValue() int { return i.Defense.Total() }
