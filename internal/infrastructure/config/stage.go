package config

// StageConfig is the root config for stage YAML files
type StageConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	TileSize int    `yaml:"tileSize"`
	// PlayerSpawn is the tile (column, row) the character starts in.
	PlayerSpawn PositionConfig `yaml:"playerSpawn"`
	// KillHeight is in tiles below the bottom row.
	KillHeight  float64                      `yaml:"killHeight"`
	Background  BackgroundConfig             `yaml:"background"`
	Layers      LayersConfig                 `yaml:"layers"`
	TileMapping map[string]TileMappingConfig `yaml:"tileMapping"`
	Triggers    []TriggerConfig              `yaml:"triggers"`
}

type BackgroundConfig struct {
	Color string `yaml:"color"`
}

type PositionConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type LayersConfig struct {
	Collision []string `yaml:"collision"`
}

type TileMappingConfig struct {
	Type  string `yaml:"type"`
	Solid bool   `yaml:"solid"`
}

type TriggerConfig struct {
	ID       uint32     `yaml:"id"`
	Type     string     `yaml:"type"`
	Category string     `yaml:"category"`
	Required int        `yaml:"required,omitempty"`
	Rect     RectConfig `yaml:"rect"`
}

// RectConfig is a tile-space rectangle; X/Y address the top-left tile.
type RectConfig struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}
