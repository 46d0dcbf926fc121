package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/abatilo/pick/internal/selector"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("pick", pflag.ContinueOnError)
	RegisterPathFlags(fs)
	RegisterRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}
	return fs
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".pick.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir(), newFlags(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backlog != "BACKLOG.md" || cfg.OutDir != "." || cfg.Template != "" {
		t.Errorf("paths = %q %q %q", cfg.Backlog, cfg.OutDir, cfg.Template)
	}
	if cfg.DryRun {
		t.Error("DryRun should default to false")
	}
	if cfg.SeedSet {
		t.Error("SeedSet should be false without --seed")
	}
	if cfg.Selection != selector.DefaultOptions() {
		t.Errorf("Selection = %+v, want defaults", cfg.Selection)
	}
	if cfg.File != "" {
		t.Errorf("File = %q, want none", cfg.File)
	}
}

func TestLoadNilFlags(t *testing.T) {
	cfg, err := Load(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backlog != DefaultBacklog {
		t.Errorf("Backlog = %q", cfg.Backlog)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `backlog: docs/BACKLOG.md
out: plans
max_effort: 6
weights:
  p1: 0.5
  p2: 0.3
  p3: 0.2
`)

	cfg, err := Load(dir, newFlags(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backlog != "docs/BACKLOG.md" || cfg.OutDir != "plans" {
		t.Errorf("paths = %q %q", cfg.Backlog, cfg.OutDir)
	}
	if cfg.Selection.MaxEffort != 6 {
		t.Errorf("MaxEffort = %d, want 6", cfg.Selection.MaxEffort)
	}
	if cfg.Selection.FallbackCount != selector.DefaultFallbackCount {
		t.Errorf("FallbackCount = %d, want default", cfg.Selection.FallbackCount)
	}
	want := selector.Weights{P1: 0.5, P2: 0.3, P3: 0.2}
	if cfg.Selection.Weights != want {
		t.Errorf("Weights = %+v, want %+v", cfg.Selection.Weights, want)
	}
	if cfg.File != path {
		t.Errorf("File = %q, want %q", cfg.File, path)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "backlog: from-file.md\nout: file-out\nmax_effort: 6\n")
	t.Setenv("PICK_OUT", "env-out")
	t.Setenv("PICK_MAX_EFFORT", "5")

	cfg, err := Load(dir, newFlags(t, "--max-effort", "2"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backlog != "from-file.md" {
		t.Errorf("Backlog = %q, want the file value", cfg.Backlog)
	}
	if cfg.OutDir != "env-out" {
		t.Errorf("OutDir = %q, want the env value", cfg.OutDir)
	}
	if cfg.Selection.MaxEffort != 2 {
		t.Errorf("MaxEffort = %d, want the flag value 2", cfg.Selection.MaxEffort)
	}
}

func TestLoadNestedEnv(t *testing.T) {
	t.Setenv("PICK_WEIGHTS_P3", "1.5")

	cfg, err := Load(t.TempDir(), newFlags(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Selection.Weights.P3 != 1.5 {
		t.Errorf("P3 = %v, want 1.5", cfg.Selection.Weights.P3)
	}
}

func TestLoadSeed(t *testing.T) {
	t.Run("flag", func(t *testing.T) {
		cfg, err := Load(t.TempDir(), newFlags(t, "--seed", "0"))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !cfg.SeedSet || cfg.Seed != 0 {
			t.Errorf("Seed = %d set=%v, want 0 set", cfg.Seed, cfg.SeedSet)
		}
	})

	t.Run("env", func(t *testing.T) {
		t.Setenv("PICK_SEED", "20261017")
		cfg, err := Load(t.TempDir(), newFlags(t))
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if !cfg.SeedSet || cfg.Seed != 20261017 {
			t.Errorf("Seed = %d set=%v, want 20261017 set", cfg.Seed, cfg.SeedSet)
		}
	})
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load(t.TempDir(), newFlags(t,
		"--backlog", "other.md",
		"--out", "plans",
		"--template", "plan.toml",
		"--dry-run",
		"--fallback-count", "5",
	))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backlog != "other.md" || cfg.OutDir != "plans" || cfg.Template != "plan.toml" {
		t.Errorf("paths = %q %q %q", cfg.Backlog, cfg.OutDir, cfg.Template)
	}
	if !cfg.DryRun {
		t.Error("DryRun = false, want true")
	}
	if cfg.Selection.FallbackCount != 5 {
		t.Errorf("FallbackCount = %d, want 5", cfg.Selection.FallbackCount)
	}
}

func TestLoadExplicitConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("out: custom-out\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(t.TempDir(), newFlags(t, "--config", path))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutDir != "custom-out" {
		t.Errorf("OutDir = %q, want custom-out", cfg.OutDir)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing explicit config", func(t *testing.T) {
		_, err := Load(t.TempDir(), newFlags(t, "--config", filepath.Join(t.TempDir(), "absent.yaml")))
		if err == nil || !strings.Contains(err.Error(), "reading config") {
			t.Errorf("Load() error = %v, want a read error", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "weights: [\n")
		_, err := Load(dir, newFlags(t))
		if err == nil || !strings.Contains(err.Error(), "reading config") {
			t.Errorf("Load() error = %v, want a read error", err)
		}
	})

	t.Run("negative weight", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "weights:\n  p2: -1\n")
		_, err := Load(dir, newFlags(t))
		var invalid selector.InvalidOptionError
		if !errors.As(err, &invalid) || invalid.Field != "weights" {
			t.Errorf("Load() error = %v, want invalid weights", err)
		}
	})

	t.Run("zero fallback", func(t *testing.T) {
		_, err := Load(t.TempDir(), newFlags(t, "--fallback-count", "0"))
		var invalid selector.InvalidOptionError
		if !errors.As(err, &invalid) || invalid.Field != "fallback_count" {
			t.Errorf("Load() error = %v, want invalid fallback_count", err)
		}
	})

	t.Run("empty backlog", func(t *testing.T) {
		_, err := Load(t.TempDir(), newFlags(t, "--backlog", ""))
		if err == nil {
			t.Error("Load() should reject an empty backlog path")
		}
	})
}
