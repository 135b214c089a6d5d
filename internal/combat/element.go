package combat

// Element is an elemental tag carried by companions and gear icons.
type Element string

const (
	ElementFire     Element = "fire"
	ElementWater    Element = "water"
	ElementWind     Element = "wind"
	ElementEarth    Element = "earth"
	ElementLight    Element = "light"
	ElementShadow   Element = "shadow"
	ElementPhysical Element = "physical"
)

// IconMap aggregates gear icon contributions per element.
type IconMap map[Element]int

// Total returns the summed magnitude across all elements.
func (m IconMap) Total() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// Add merges another icon map into this one.
func (m IconMap) Add(other IconMap) {
	for e, v := range other {
		m[e] += v
	}
}

// typeChart is the fixed advantage table. It is asymmetric and
// non-reciprocal: pairs absent from the chart are neutral (1.0).
// Physical never appears here, so it is always neutral.
var typeChart = map[Element]map[Element]float64{
	ElementFire:   {ElementWind: 1.25, ElementWater: 0.75},
	ElementWater:  {ElementFire: 1.25, ElementEarth: 0.75},
	ElementWind:   {ElementEarth: 1.25, ElementFire: 0.75},
	ElementEarth:  {ElementWater: 1.25, ElementWind: 0.75},
	ElementLight:  {ElementShadow: 1.25},
	ElementShadow: {ElementLight: 1.25},
}

// Advantage returns the damage multiplier for an attacking element
// against a defending element.
func Advantage(attacker, defender Element) float64 {
	if row, ok := typeChart[attacker]; ok {
		if mult, ok := row[defender]; ok {
			return mult
		}
	}
	return 1.0
}
