package content

import (
	"fmt"

	"github.com/pixil98/go-arena/internal/combat"
	"github.com/pixil98/go-errors"
)

// Item is a gear or consumable template.
type Item struct {
	combat.Item
}

func (i *Item) Validate() error {
	el := errors.NewErrorList()

	if i.Name == "" {
		el.Add(fmt.Errorf("name is required"))
	}
	if i.Kind == combat.ItemKindConsumable && i.Effect == nil {
		el.Add(fmt.Errorf("consumables require an effect"))
	}
	if i.Effect != nil {
		if i.Effect.Chance < 0 || i.Effect.Chance > 1 {
			el.Add(fmt.Errorf("effect chance must be between 0 and 1"))
		}
		if i.Effect.Duration < 0 {
			el.Add(fmt.Errorf("effect duration must not be negative"))
		}
	}

	return el.Err()
}
