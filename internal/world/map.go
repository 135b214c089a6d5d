package world

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Warp is a tile that teleports the player who steps on it.
type Warp struct {
	TargetZone string
	TargetX    int
	TargetY    int
}

type coord struct{ x, y int }

// TileMap is one zone's precomputed collision and warp lookup, built once
// from Tiled JSON data.
type TileMap struct {
	Width  int
	Height int

	blocked map[coord]bool
	warps   map[coord]Warp
}

// Blocked reports whether the tile is impassable.
func (m *TileMap) Blocked(x, y int) bool {
	return m.blocked[coord{x, y}]
}

// WarpAt returns the warp on the given tile, if any.
func (m *TileMap) WarpAt(x, y int) (Warp, bool) {
	w, ok := m.warps[coord{x, y}]
	return w, ok
}

// tiledMap mirrors the subset of the Tiled JSON export the engine needs.
type tiledMap struct {
	Width      int          `json:"width"`
	Height     int          `json:"height"`
	TileWidth  int          `json:"tilewidth"`
	TileHeight int          `json:"tileheight"`
	Layers     []tiledLayer `json:"layers"`
}

type tiledLayer struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Data       []int           `json:"data"`
	Objects    []tiledObject   `json:"objects"`
	Properties []tiledProperty `json:"properties"`
}

type tiledObject struct {
	X          float64         `json:"x"`
	Y          float64         `json:"y"`
	Width      float64         `json:"width"`
	Height     float64         `json:"height"`
	Properties []tiledProperty `json:"properties"`
}

type tiledProperty struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

func (p *tiledProperty) boolValue() bool {
	var b bool
	_ = json.Unmarshal(p.Value, &b)
	return b
}

func (p *tiledProperty) stringValue() string {
	var s string
	_ = json.Unmarshal(p.Value, &s)
	return s
}

func (p *tiledProperty) intValue() int {
	var n int
	_ = json.Unmarshal(p.Value, &n)
	return n
}

// ParseTileMap converts a Tiled JSON document into a TileMap. Tile layers
// named "collision" (or carrying a true "collision" property) become the
// blocked set; an object layer named "warps" becomes warp tiles.
func ParseTileMap(data []byte) (*TileMap, error) {
	var tm tiledMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("parsing tiled map: %w", err)
	}
	if tm.Width <= 0 || tm.Height <= 0 {
		return nil, fmt.Errorf("map has invalid dimensions %dx%d", tm.Width, tm.Height)
	}

	m := &TileMap{
		Width:   tm.Width,
		Height:  tm.Height,
		blocked: map[coord]bool{},
		warps:   map[coord]Warp{},
	}

	for _, layer := range tm.Layers {
		switch layer.Type {
		case "tilelayer":
			if !isCollisionLayer(&layer) {
				continue
			}
			for idx, gid := range layer.Data {
				// Zero means an empty cell in the Tiled CSV encoding.
				if gid != 0 {
					m.blocked[coord{idx % tm.Width, idx / tm.Width}] = true
				}
			}

		case "objectgroup":
			if !strings.EqualFold(layer.Name, "warps") {
				continue
			}
			for _, obj := range layer.Objects {
				m.addWarp(&tm, &obj)
			}
		}
	}

	return m, nil
}

func isCollisionLayer(layer *tiledLayer) bool {
	if strings.EqualFold(layer.Name, "collision") {
		return true
	}
	for _, prop := range layer.Properties {
		if prop.Name == "collision" && prop.boolValue() {
			return true
		}
	}
	return false
}

// addWarp expands an object rectangle into per-tile warp entries.
func (m *TileMap) addWarp(tm *tiledMap, obj *tiledObject) {
	if tm.TileWidth <= 0 || tm.TileHeight <= 0 {
		return
	}

	warp := Warp{TargetZone: "town"}
	for _, prop := range obj.Properties {
		switch prop.Name {
		case "target_zone":
			warp.TargetZone = prop.stringValue()
		case "target_x":
			warp.TargetX = prop.intValue()
		case "target_y":
			warp.TargetY = prop.intValue()
		}
	}

	x0 := int(obj.X) / tm.TileWidth
	y0 := int(obj.Y) / tm.TileHeight
	w := max(1, int(obj.Width)/tm.TileWidth)
	h := max(1, int(obj.Height)/tm.TileHeight)

	for dx := 0; dx < w; dx++ {
		for dy := 0; dy < h; dy++ {
			m.warps[coord{x0 + dx, y0 + dy}] = warp
		}
	}
}

// Atlas holds every loaded zone map.
type Atlas struct {
	maps map[string]*TileMap
}

func NewAtlas(maps map[string]*TileMap) *Atlas {
	if maps == nil {
		maps = map[string]*TileMap{}
	}
	return &Atlas{maps: maps}
}

// LoadAtlas reads every .json/.tmj file under dir as a Tiled map, keyed by
// file name without extension.
func LoadAtlas(dir string) (*Atlas, error) {
	maps := map[string]*TileMap{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading maps directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".json" && ext != ".tmj") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading map %s: %w", entry.Name(), err)
		}

		m, err := ParseTileMap(data)
		if err != nil {
			return nil, fmt.Errorf("map %s: %w", entry.Name(), err)
		}
		maps[strings.TrimSuffix(entry.Name(), ext)] = m
	}

	return NewAtlas(maps), nil
}

// IsValidMove checks bounds and collision for a proposed tile. Unknown
// zones are permissively valid: missing map data must not strand players.
func (a *Atlas) IsValidMove(zoneID string, x, y int) bool {
	m, ok := a.maps[zoneID]
	if !ok {
		return true
	}
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return false
	}
	return !m.Blocked(x, y)
}

// WarpAt returns the warp on a tile in a zone, if both exist.
func (a *Atlas) WarpAt(zoneID string, x, y int) (Warp, bool) {
	m, ok := a.maps[zoneID]
	if !ok {
		return Warp{}, false
	}
	return m.WarpAt(x, y)
}
