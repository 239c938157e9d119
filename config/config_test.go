package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Physics.Scale != 12 {
		t.Errorf("physics.scale = %v, want 12", cfg.Physics.Scale)
	}
	if cfg.Joints.BallMotorDamping != 0.2 {
		t.Errorf("joints.ball_motor_damping = %v, want 0.2", cfg.Joints.BallMotorDamping)
	}
	if cfg.Motors.LinearSpeed != 4000 || cfg.Motors.AngularSpeed != 2000 {
		t.Errorf("motor speeds = %v/%v, want 4000/2000", cfg.Motors.LinearSpeed, cfg.Motors.AngularSpeed)
	}
	if cfg.Energy.DebitMode != DebitAtomic {
		t.Errorf("energy.debit_mode = %q, want %q", cfg.Energy.DebitMode, DebitAtomic)
	}
	if cfg.Derived.InvScale32*cfg.Derived.Scale32 < 0.999 {
		t.Errorf("inverse scale not derived: %v", cfg.Derived.InvScale32)
	}
	if cfg.Derived.InspectionTicks != 6 {
		t.Errorf("inspection ticks = %d, want 6", cfg.Derived.InspectionTicks)
	}
	if cfg.Derived.AutopilotTicks != 330 {
		t.Errorf("autopilot ticks = %d, want 330", cfg.Derived.AutopilotTicks)
	}
}

func TestLoadOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("energy:\n  debit_mode: drain\nassembly:\n  sweep_interval: 5\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load override: %v", err)
	}
	if cfg.Energy.DebitMode != DebitDrain {
		t.Errorf("debit_mode = %q, want %q", cfg.Energy.DebitMode, DebitDrain)
	}
	if cfg.Assembly.SweepInterval != 5 {
		t.Errorf("sweep_interval = %d, want 5", cfg.Assembly.SweepInterval)
	}
	// Untouched sections keep their defaults
	if cfg.Physics.Scale != 12 {
		t.Errorf("physics.scale = %v, want default 12", cfg.Physics.Scale)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown debit mode", "energy:\n  debit_mode: partial\n"},
		{"zero dt", "physics:\n  dt: 0\n"},
		{"negative scale", "physics:\n  scale: -1\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(back.Scene.Gauges) != len(cfg.Scene.Gauges) {
		t.Errorf("gauges = %d, want %d", len(back.Scene.Gauges), len(cfg.Scene.Gauges))
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg() did not panic before Init")
		}
	}()
	Cfg()
}
