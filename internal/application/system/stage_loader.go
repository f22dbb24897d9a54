package system

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/younwookim/starroll/internal/domain/entity"
	"github.com/younwookim/starroll/internal/infrastructure/config"
)

// LoadStage converts a StageConfig into a Stage entity.
// The spawn point is the bottom center of the spawn tile.
func LoadStage(cfg *config.StageConfig) (*entity.Stage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load stage %q: %w", cfg.ID, err)
	}

	height := len(cfg.Layers.Collision)
	width := 0
	for _, row := range cfg.Layers.Collision {
		width = max(width, len(row))
	}

	tiles := make([][]entity.Tile, height)
	for y, row := range cfg.Layers.Collision {
		tiles[y] = make([]entity.Tile, width)
		for x, char := range row {
			mapping, ok := cfg.TileMapping[string(char)]
			if !ok {
				continue
			}

			var tileType entity.TileType
			switch mapping.Type {
			case "wall":
				tileType = entity.TileWall
			case "slopeUp":
				tileType = entity.TileSlopeUp
			case "slopeDown":
				tileType = entity.TileSlopeDown
			case "bounce":
				tileType = entity.TileBounce
			default:
				tileType = entity.TileEmpty
			}

			tiles[y][x] = entity.Tile{
				Type:  tileType,
				Solid: mapping.Solid && tileType != entity.TileEmpty,
			}
		}
	}

	stage := &entity.Stage{
		Name:       cfg.Name,
		Width:      width,
		Height:     height,
		TileSize:   cfg.TileSize,
		Tiles:      tiles,
		KillHeight: -cfg.KillHeight,
	}
	stage.Spawn = stage.TileOrigin(cfg.PlayerSpawn.X, cfg.PlayerSpawn.Y).Add(cp.Vector{X: 0.5})

	for _, tc := range cfg.Triggers {
		kind := entity.TriggerPickup
		if tc.Type == "door" {
			kind = entity.TriggerDoor
		}
		top := float64(height - tc.Rect.Y)
		stage.Volumes = append(stage.Volumes, entity.Volume{
			Trigger: entity.Trigger{
				ID:       entity.EntityID(tc.ID),
				Kind:     kind,
				Category: tc.Category,
				Required: tc.Required,
			},
			Min: cp.Vector{X: float64(tc.Rect.X), Y: top - float64(tc.Rect.H)},
			Max: cp.Vector{X: float64(tc.Rect.X + tc.Rect.W), Y: top},
		})
	}

	return stage, nil
}
