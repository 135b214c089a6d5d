package world

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pixil98/go-testutil"
)

const townMapJSON = `{
	"width": 4,
	"height": 3,
	"tilewidth": 16,
	"tileheight": 16,
	"layers": [
		{
			"name": "ground",
			"type": "tilelayer",
			"data": [1,1,1,1, 1,1,1,1, 1,1,1,1]
		},
		{
			"name": "collision",
			"type": "tilelayer",
			"data": [0,0,0,0, 0,7,0,0, 0,0,0,0]
		},
		{
			"name": "warps",
			"type": "objectgroup",
			"objects": [
				{
					"x": 48, "y": 32, "width": 16, "height": 16,
					"properties": [
						{"name": "target_zone", "value": "forest"},
						{"name": "target_x", "value": 2},
						{"name": "target_y", "value": 5}
					]
				}
			]
		}
	]
}`

func testAtlas(t *testing.T) *Atlas {
	t.Helper()
	m, err := ParseTileMap([]byte(townMapJSON))
	if err != nil {
		t.Fatalf("parsing map: %v", err)
	}
	return NewAtlas(map[string]*TileMap{"town": m})
}

func TestParseTileMapCollision(t *testing.T) {
	m, err := ParseTileMap([]byte(townMapJSON))
	if err != nil {
		t.Fatalf("parsing map: %v", err)
	}

	testutil.AssertEqual(t, "width", m.Width, 4)
	testutil.AssertEqual(t, "height", m.Height, 3)
	testutil.AssertEqual(t, "blocked tile", m.Blocked(1, 1), true)
	testutil.AssertEqual(t, "walkable tile ignores ground layer", m.Blocked(0, 0), false)
}

func TestParseTileMapRejectsBadDimensions(t *testing.T) {
	if _, err := ParseTileMap([]byte(`{"width": 0, "height": 5}`)); err == nil {
		t.Error("expected an error for zero width")
	}
}

func TestIsValidMove(t *testing.T) {
	atlas := testAtlas(t)

	tests := map[string]struct {
		zone string
		x, y int
		exp  bool
	}{
		"open tile":            {"town", 0, 0, true},
		"collision tile":       {"town", 1, 1, false},
		"west of map":          {"town", -1, 0, false},
		"east of map":          {"town", 4, 0, false},
		"south of map":         {"town", 0, 3, false},
		"unknown zone is open": {"nowhere", 99, 99, true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", atlas.IsValidMove(tt.zone, tt.x, tt.y), tt.exp)
		})
	}
}

func TestWarpAt(t *testing.T) {
	atlas := testAtlas(t)

	warp, ok := atlas.WarpAt("town", 3, 2)
	testutil.AssertEqual(t, "found", ok, true)
	testutil.AssertEqual(t, "target zone", warp.TargetZone, "forest")
	testutil.AssertEqual(t, "target x", warp.TargetX, 2)
	testutil.AssertEqual(t, "target y", warp.TargetY, 5)

	_, ok = atlas.WarpAt("town", 0, 0)
	testutil.AssertEqual(t, "plain tile", ok, false)

	_, ok = atlas.WarpAt("nowhere", 3, 2)
	testutil.AssertEqual(t, "unknown zone", ok, false)
}

func TestLoadAtlas(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "town.json"), []byte(townMapJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	atlas, err := LoadAtlas(dir)
	if err != nil {
		t.Fatalf("loading atlas: %v", err)
	}

	testutil.AssertEqual(t, "collision respected", atlas.IsValidMove("town", 1, 1), false)
}
