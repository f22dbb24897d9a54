package entity

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func createTestStage() *Stage {
	// 3x3 stage, row 0 is the top row
	tiles := [][]Tile{
		{{Type: TileWall, Solid: true}, {Type: TileEmpty}, {Type: TileWall, Solid: true}},
		{{Type: TileEmpty}, {Type: TileEmpty}, {Type: TileSlopeUp, Solid: true}},
		{{Type: TileWall, Solid: true}, {Type: TileBounce, Solid: true}, {Type: TileWall, Solid: true}},
	}

	return &Stage{
		Width:    3,
		Height:   3,
		TileSize: 16,
		Tiles:    tiles,
		Spawn:    cp.Vector{X: 1.5, Y: 1.5},
	}
}

func TestStage_GetTile(t *testing.T) {
	stage := createTestStage()
	wall := Tile{Type: TileWall, Solid: true}

	tests := []struct {
		name   string
		tx, ty int
		want   Tile
	}{
		{"top-left wall", 0, 0, wall},
		{"top-center empty", 1, 0, Tile{Type: TileEmpty}},
		{"right slope", 2, 1, Tile{Type: TileSlopeUp, Solid: true}},
		{"bottom-center bounce", 1, 2, Tile{Type: TileBounce, Solid: true}},
		// outside the stage reads as wall
		{"left of stage", -1, 1, wall},
		{"above stage", 1, -1, wall},
		{"right of stage", 3, 1, wall},
		{"below stage", 1, 3, wall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stage.GetTile(tt.tx, tt.ty))
		})
	}
}

func TestStage_TileOrigin(t *testing.T) {
	stage := createTestStage()

	assert.Equal(t, cp.Vector{X: 0, Y: 2}, stage.TileOrigin(0, 0), "top row sits highest")
	assert.Equal(t, cp.Vector{X: 2, Y: 0}, stage.TileOrigin(2, 2), "bottom row sits at y=0")
}

func TestStage_TileAt(t *testing.T) {
	stage := createTestStage()

	tests := []struct {
		name     string
		p        cp.Vector
		wantType TileType
	}{
		{"point in top-left tile", cp.Vector{X: 0.5, Y: 2.5}, TileWall},
		{"point at tile boundary", cp.Vector{X: 1, Y: 2}, TileEmpty},
		{"point in center tile", cp.Vector{X: 1.5, Y: 1.5}, TileEmpty},
		{"point in bottom-center", cp.Vector{X: 1.5, Y: 0.5}, TileBounce},
		{"negative coordinates", cp.Vector{X: -0.5, Y: 0.5}, TileWall},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, stage.TileAt(tt.p).Type)
		})
	}
}

func TestStage_IsSolidAt(t *testing.T) {
	stage := createTestStage()

	tests := []struct {
		name string
		p    cp.Vector
		want bool
	}{
		{"solid wall", cp.Vector{X: 0.1, Y: 2.9}, true},
		{"empty space", cp.Vector{X: 1.5, Y: 1.5}, false},
		{"slope is solid", cp.Vector{X: 2.5, Y: 1.5}, true},
		{"out of bounds", cp.Vector{X: -5, Y: -5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stage.IsSolidAt(tt.p))
		})
	}
}

func TestStage_TileAtMatchesOrigin(t *testing.T) {
	stage := createTestStage()

	for ty := range stage.Height {
		for tx := range stage.Width {
			center := stage.TileOrigin(tx, ty).Add(cp.Vector{X: 0.5, Y: 0.5})
			assert.Equal(t, stage.GetTile(tx, ty), stage.TileAt(center), "tile (%d, %d)", tx, ty)
		}
	}
}

func TestTriggerKind_String(t *testing.T) {
	assert.Equal(t, "pickup", TriggerPickup.String())
	assert.Equal(t, "door", TriggerDoor.String())
	assert.Equal(t, "unknown", TriggerKind(7).String())
}
