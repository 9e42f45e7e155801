package config

import (
	"path/filepath"
	"testing"

	"github.com/robolab-io/sotg/internal/loader"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Gains.Com != 1.0 {
		t.Errorf("expected com gain 1.0, got %f", cfg.Gains.Com)
	}
	if cfg.Gains.OpPoint != 0.2 {
		t.Errorf("expected op-point gain 0.2, got %f", cfg.Gains.OpPoint)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.Path = "robot.kxml"
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	cfg.Dt = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for dt = 0")
	}

	cfg = DefaultConfig()
	cfg.Loader.Kind = "urdf"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown loader kind")
	}

	cfg = DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for kxml loader without path")
	}

	cfg = DefaultConfig()
	cfg.Loader = LoaderConfig{Kind: "vrml", ModelDir: "models"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for vrml loader without model_name")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Robot = "hrp"
	cfg.Loader.Path = "hrp.kxml"
	cfg.Offset = OffsetConfig{Joint: 7, Amount: 0.4}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	if got.Robot != "hrp" || got.Loader.Path != "hrp.kxml" {
		t.Errorf("round trip lost loader fields: %+v", got)
	}
	if got.Offset != cfg.Offset {
		t.Errorf("round trip lost offset: %+v", got.Offset)
	}
}

func TestSteps(t *testing.T) {
	cfg := &Config{Dt: 0.01, Duration: 2.0}
	if got := cfg.Steps(); got != 200 {
		t.Errorf("Steps() = %d, want 200", got)
	}
}

func TestNewLoader(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Loader.Path = "robot.kxml"
	l, err := cfg.NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() = %v", err)
	}
	if _, ok := l.(*loader.KXML); !ok {
		t.Errorf("expected *loader.KXML, got %T", l)
	}

	cfg.Loader = LoaderConfig{Kind: "vrml", ModelDir: "models", ModelName: "hrp"}
	l, err = cfg.NewLoader()
	if err != nil {
		t.Fatalf("NewLoader() = %v", err)
	}
	if _, ok := l.(*loader.VRML); !ok {
		t.Errorf("expected *loader.VRML, got %T", l)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("nudge")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Offset.Amount != 0.2 {
		t.Errorf("expected offset amount 0.2, got %f", cfg.Offset.Amount)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Error("expected presets")
	}
}
