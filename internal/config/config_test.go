package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "framecast.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		def := Default()
		if cfg.Project != def.Project || cfg.Database.Driver != def.Database.Driver {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
	})

	t.Run("partial file keeps unset defaults", func(t *testing.T) {
		path := writeConfig(t, "project: obra-centro\ndefaults:\n  beam_width_mm: 200\n")
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "obra-centro" {
			t.Fatalf("expected project override, got %q", cfg.Project)
		}
		if cfg.Defaults.BeamWidthMM != 200 {
			t.Fatalf("expected overridden beam width, got %v", cfg.Defaults.BeamWidthMM)
		}
		if cfg.Defaults.BeamHeightMM != Default().Defaults.BeamHeightMM {
			t.Fatalf("expected default beam height, got %v", cfg.Defaults.BeamHeightMM)
		}
		if len(cfg.Families.ColumnRectangular) == 0 {
			t.Fatal("expected default family lists to survive")
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		path := writeConfig(t, "database:\n  driver: oracle\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "unsupported database driver") {
			t.Fatalf("expected driver error, got %v", err)
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeConfig(t, "version: 2\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "unsupported version") {
			t.Fatalf("expected version error, got %v", err)
		}
	})

	t.Run("non-positive defaults rejected", func(t *testing.T) {
		path := writeConfig(t, "defaults:\n  column_width_mm: -10\n")
		_, err := Load(path)
		if err == nil || !strings.Contains(err.Error(), "must be positive") {
			t.Fatalf("expected dimension error, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "project: [unterminated\n")
		if _, err := Load(path); err == nil {
			t.Fatal("expected a parse error")
		}
	})
}
