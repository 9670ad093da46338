package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type ProjectConfig struct {
	Project  string         `yaml:"project"`
	Version  int            `yaml:"version"`
	Database DatabaseConfig `yaml:"database"`
	Defaults Defaults       `yaml:"defaults"`
	Families Families       `yaml:"families"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Defaults are the substitute values applied when an element's source
// data is incomplete. They keep such elements placeable instead of
// dropping them.
type Defaults struct {
	BeamWidthMM         float64 `yaml:"beam_width_mm"`
	BeamHeightMM        float64 `yaml:"beam_height_mm"`
	ColumnWidthMM       float64 `yaml:"column_width_mm"`
	ColumnDepthMM       float64 `yaml:"column_depth_mm"`
	SlabThicknessMM     float64 `yaml:"slab_thickness_mm"`
	SlabBoundaryMM      float64 `yaml:"slab_boundary_mm"`
	Material            string  `yaml:"material"`
	ColumnTopFromHeight bool    `yaml:"column_top_from_height"`
}

// Families holds the ordered family-name candidates the resolver tries
// per cross-section shape, plus the generic last-resort list.
type Families struct {
	BeamRectangular   []string `yaml:"beam_rectangular"`
	BeamCircular      []string `yaml:"beam_circular"`
	ColumnRectangular []string `yaml:"column_rectangular"`
	ColumnCircular    []string `yaml:"column_circular"`
	Slab              []string `yaml:"slab"`
	Footing           []string `yaml:"footing"`
	Generic           []string `yaml:"generic"`
}

type LoggingConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the configuration used when no file overrides it.
func Default() *ProjectConfig {
	return &ProjectConfig{
		Project: "framecast",
		Version: 1,
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "framecast.db",
		},
		Defaults: Defaults{
			BeamWidthMM:         300,
			BeamHeightMM:        500,
			ColumnWidthMM:       400,
			ColumnDepthMM:       400,
			SlabThicknessMM:     150,
			SlabBoundaryMM:      5000,
			Material:            "Concreto C25",
			ColumnTopFromHeight: true,
		},
		Families: Families{
			BeamRectangular:   []string{"Concrete-Rectangular Beam", "M_Concrete-Rectangular Beam", "Viga Retangular"},
			BeamCircular:      []string{"Concrete-Round Beam", "Viga Circular"},
			ColumnRectangular: []string{"Concrete-Rectangular-Column", "M_Concrete-Rectangular-Column", "Pilar Retangular"},
			ColumnCircular:    []string{"Concrete-Round-Column", "Pilar Circular"},
			Slab:              []string{"Generic Floor", "Laje Generica"},
			Footing:           []string{"Footing-Rectangular", "Sapata Retangular"},
			Generic:           []string{"Generic Model", "Generic Structural"},
		},
		Logging: LoggingConfig{
			File:       "framecast.log",
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads the project configuration, filling unset defaults. A
// missing file yields the default configuration rather than an error.
func Load(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return cfg, nil
}

func validate(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return fmt.Errorf("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database driver: %s", cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return fmt.Errorf("database dsn is required")
	}
	if cfg.Defaults.BeamWidthMM <= 0 || cfg.Defaults.ColumnWidthMM <= 0 || cfg.Defaults.SlabThicknessMM <= 0 {
		return fmt.Errorf("dimension defaults must be positive")
	}
	if strings.TrimSpace(cfg.Defaults.Material) == "" {
		return fmt.Errorf("default material is required")
	}
	return nil
}
