package protocol

// Inbound commands. One JSON object per message, discriminated by "type".

type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

type Move struct {
	Direction Direction `json:"direction"`
	ZoneID    string    `json:"zone_id"`
}

type CombatAction struct {
	CombatID   string   `json:"combat_id"`
	ActionType string   `json:"action_type"`
	Stance     string   `json:"stance"`
	ItemIDs    []string `json:"item_ids"`
}

type ChooseStarter struct {
	SpeciesName string `json:"species_name"`
}

type JoinPvPQueue struct {
	CompanionID string `json:"companion_id"`
}

type LeavePvPQueue struct{}

// EnterCombat starts a PvE arena battle against a caller-described opponent.
type EnterCombat struct {
	Opponent    ArenaOpponent `json:"opponent"`
	CompanionID string        `json:"companion_id"`
}

// ArenaOpponent is the client-side description of an arena enemy. The stat
// block is validated against loaded creature content before use.
type ArenaOpponent struct {
	Name    string         `json:"name"`
	Element string         `json:"type"`
	Stats   map[string]int `json:"stats"`
}

// JoinPvEEncounter accepts a pre-rolled random encounter by its combat id.
type JoinPvEEncounter struct {
	CombatID    string `json:"combat_id"`
	CompanionID string `json:"companion_id"`
}

type Forfeit struct {
	CombatID string `json:"combat_id"`
}
