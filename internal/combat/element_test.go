package combat

import (
	"testing"

	"github.com/pixil98/go-testutil"
)

func TestAdvantage(t *testing.T) {
	tests := map[string]struct {
		attacker Element
		defender Element
		exp      float64
	}{
		"fire beats wind":      {ElementFire, ElementWind, 1.25},
		"fire weak to water":   {ElementFire, ElementWater, 0.75},
		"water beats fire":     {ElementWater, ElementFire, 1.25},
		"wind beats earth":     {ElementWind, ElementEarth, 1.25},
		"earth beats water":    {ElementEarth, ElementWater, 1.25},
		"light beats shadow":   {ElementLight, ElementShadow, 1.25},
		"shadow beats light":   {ElementShadow, ElementLight, 1.25},
		"physical is neutral":  {ElementPhysical, ElementFire, 1.0},
		"same element neutral": {ElementFire, ElementFire, 1.0},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "multiplier", Advantage(tt.attacker, tt.defender), tt.exp)
		})
	}
}

func TestIconMapTotalAndAdd(t *testing.T) {
	m := IconMap{ElementPhysical: 3}
	m.Add(IconMap{ElementFire: 2, ElementPhysical: 1})

	testutil.AssertEqual(t, "total", m.Total(), 6)
	testutil.AssertEqual(t, "fire", m[ElementFire], 2)
	testutil.AssertEqual(t, "physical", m[ElementPhysical], 4)
}
