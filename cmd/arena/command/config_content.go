package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-arena/internal/content"
	"github.com/pixil98/go-arena/internal/storage"
	"github.com/pixil98/go-arena/internal/world"
	"github.com/pixil98/go-errors"
)

type ContentConfig struct {
	Creatures AssetConfig[*content.Creature] `json:"creatures"`
	Species   AssetConfig[*content.Species]  `json:"species"`
	Items     AssetConfig[*content.Item]     `json:"items"`
	MapsPath  string                         `json:"maps_path"`
}

func (c *ContentConfig) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Creatures.Validate("creatures"))
	el.Add(c.Species.Validate("species"))
	el.Add(c.Items.Validate("items"))

	if c.MapsPath == "" {
		el.Add(fmt.Errorf("maps_path is required"))
	} else if _, err := os.Stat(c.MapsPath); err != nil {
		el.Add(fmt.Errorf("invalid maps_path %q: %w", c.MapsPath, err))
	}

	return el.Err()
}

func (c *ContentConfig) BuildAtlas() (*world.Atlas, error) {
	return world.LoadAtlas(c.MapsPath)
}

type AssetConfig[T storage.ValidatingSpec] struct {
	Path string `json:"path"`
}

func (c *AssetConfig[T]) Validate(name string) error {
	if c.Path == "" {
		return fmt.Errorf("%s: path is required", name)
	}
	_, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}

	return nil
}

func (c *AssetConfig[T]) BuildFileStore() (*storage.FileStore[T], error) {
	return storage.NewFileStore[T](c.Path)
}
