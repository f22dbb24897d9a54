package config

import (
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

const controllerFile = "controller.yaml"

// GameConfig holds all loaded configurations
type GameConfig struct {
	Controller *ControllerConfig
	Stage      *StageConfig
}

// Loader loads game configuration from YAML files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// BasePath returns the directory the loader was created for
func (l *Loader) BasePath() string {
	return l.basePath
}

// LoadController loads and validates controller.yaml
func (l *Loader) LoadController() (*ControllerConfig, error) {
	data, err := fs.ReadFile(l.fsys, controllerFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", controllerFile, err)
	}

	cfg, err := ParseController(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", controllerFile, err)
	}

	return cfg, nil
}

// ParseController decodes and validates controller tuning
func ParseController(data []byte) (*ControllerConfig, error) {
	var cfg ControllerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse controller config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadStage loads a stage YAML file
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	path := StagePath(name)
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", name, err)
	}

	var cfg StageConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage %s: %w", name, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stage %s: %w", name, err)
	}

	return &cfg, nil
}

// LoadAll loads the controller tuning and the named stage
func (l *Loader) LoadAll(stage string) (*GameConfig, error) {
	controller, err := l.LoadController()
	if err != nil {
		return nil, err
	}

	stageCfg, err := l.LoadStage(stage)
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Controller: controller,
		Stage:      stageCfg,
	}, nil
}

// StagePath returns the path of a stage file relative to the config root
func StagePath(name string) string {
	return "stages/" + name + ".yaml"
}
