package combat

import "math/rand/v2"

const (
	critChance     = 0.05
	critMultiplier = 1.5
)

// Damage computes the damage of one attack. The attack icon map already
// includes the attacker's base attack stat under ElementPhysical. A
// stealthed defender dodges entirely. The result is floored to an integer
// with a minimum of 1: defense alone never fully absorbs a hit.
func Damage(rng *rand.Rand, atkIcons IconMap, defenderDef int, defenderElem Element, stanceAtk, stanceDef float64, defenderStealthed bool) (int, bool) {
	if defenderStealthed {
		return 0, false
	}

	isCrit := rng.Float64() < critChance
	critMult := 1.0
	if isCrit {
		critMult = critMultiplier
	}

	variance := 0.9 + rng.Float64()*0.2

	base := 0.0
	for elem, value := range atkIcons {
		base += float64(value) * Advantage(elem, defenderElem)
	}

	mitigation := 20.0 / (20.0 + float64(defenderDef)*stanceDef)

	dmg := int(base * mitigation * stanceAtk * variance * critMult)
	if dmg < 1 {
		dmg = 1
	}
	return dmg, isCrit
}

// reflectDamage is the flat return dealt to an attacker when the defender's
// reflect effect triggers. It is intentionally not mitigated by the
// attacker's own defense.
func reflectDamage(atkIcons IconMap) int {
	return atkIcons.Total() / 2
}
