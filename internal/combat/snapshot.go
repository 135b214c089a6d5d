package combat

// CompanionSnapshot is the immutable-per-battle view of one combatant's
// stats, built from repository data when the battle starts. HP changes live
// on the session, never here.
type CompanionSnapshot struct {
	Name    string
	Element Element
	MaxHP   int
	Attack  int
	Defense int
	Speed   int

	// Gear is everything the combatant brought into battle: weapons,
	// passives, and consumables.
	Gear []Item
}

// PassiveDefense is the base defense stat plus the defense icons of
// always-on gear (armor and shields).
func (s *CompanionSnapshot) PassiveDefense() int {
	def := s.Defense
	for i := range s.Gear {
		if s.Gear[i].Kind.Passive() {
			def += s.Gear[i].DefenseValue()
		}
	}
	return def
}

// FindGear returns the gear item with the given id, or nil. Unknown ids are
// tolerated: a stale client reference means "nothing selected".
func (s *CompanionSnapshot) FindGear(id string) *Item {
	for i := range s.Gear {
		if s.Gear[i].ID == id {
			return &s.Gear[i]
		}
	}
	return nil
}

// reflectChance returns the strongest reflect chance among passive gear.
func (s *CompanionSnapshot) reflectChance() float64 {
	chance := 0.0
	for i := range s.Gear {
		it := &s.Gear[i]
		if !it.Kind.Passive() || it.Effect == nil || it.Effect.Kind != EffectReflect {
			continue
		}
		if it.Effect.Chance > chance {
			chance = it.Effect.Chance
		}
	}
	return chance
}
