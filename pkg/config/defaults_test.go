package config

import (
	"testing"

	"mercator-hq/patternsweep/pkg/policy"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Store.Backend != DefaultStoreBackend {
		t.Errorf("Store.Backend = %q, want %q", cfg.Store.Backend, DefaultStoreBackend)
	}
	if cfg.Store.ClaudeFlow.Command != "npx" || len(cfg.Store.ClaudeFlow.Args) != 1 || cfg.Store.ClaudeFlow.Args[0] != "claude-flow" {
		t.Errorf("ClaudeFlow = %+v", cfg.Store.ClaudeFlow)
	}
	if !cfg.WALEnabled() {
		t.Error("WAL mode should default to enabled")
	}
	if !cfg.MetricsEnabled() {
		t.Error("metrics should default to enabled")
	}
	if cfg.Schedule.Cron != DefaultScheduleCron {
		t.Errorf("Schedule.Cron = %q", cfg.Schedule.Cron)
	}
	if cfg.Sweep.NextCheckInterval != DefaultSweepNextCheckInterval {
		t.Errorf("NextCheckInterval = %v", cfg.Sweep.NextCheckInterval)
	}

	defaults := policy.Defaults()
	if len(cfg.Policies) != len(defaults) {
		t.Fatalf("Policies len = %d, want %d", len(cfg.Policies), len(defaults))
	}
	for i, p := range defaults {
		if cfg.Policies[i].Category != p.Category || cfg.Policies[i].MaxAgeDays != p.MaxAgeDays {
			t.Errorf("Policies[%d] = %+v, want %+v", i, cfg.Policies[i], p)
		}
	}
}

func TestApplyDefaults_PreservesValues(t *testing.T) {
	cfg := &Config{
		Store:    StoreConfig{Backend: "memory", RateBurst: 5},
		Policies: []PolicyConfig{{Category: "only", MaxAgeDays: 1}},
		Sweep:    SweepConfig{Workers: 8},
	}
	ApplyDefaults(cfg)

	if cfg.Store.Backend != "memory" || cfg.Store.RateBurst != 5 {
		t.Errorf("Store overwritten: %+v", cfg.Store)
	}
	if len(cfg.Policies) != 1 {
		t.Errorf("Policies overwritten: %+v", cfg.Policies)
	}
	if cfg.Sweep.Workers != 8 {
		t.Errorf("Workers overwritten: %d", cfg.Sweep.Workers)
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Errorf("Validate(Default()) = %v", err)
	}
}
