package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Fatalf("expected default port 8080 got %d", cfg.Server.Port)
	}
	if cfg.Game.Capacity != 50 {
		t.Fatalf("expected default capacity 50 got %d", cfg.Game.Capacity)
	}
	if cfg.Game.DayInterval != time.Minute {
		t.Fatalf("expected default day interval 1m got %v", cfg.Game.DayInterval)
	}
	if !cfg.Game.AutoAdvance {
		t.Fatalf("expected auto advance on by default")
	}
	if cfg.Save.Path == "" {
		t.Fatalf("expected a default save path")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SHOP_CAPACITY", "80")
	t.Setenv("WEIGHT_RACER", "50")
	t.Setenv("DAY_INTERVAL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := cfg.Server.Address(); got != "127.0.0.1:9090" {
		t.Fatalf("expected address 127.0.0.1:9090 got %q", got)
	}
	if cfg.Game.Capacity != 80 {
		t.Fatalf("expected capacity 80 got %d", cfg.Game.Capacity)
	}
	if cfg.Game.WeightRacer != 50 {
		t.Fatalf("expected racer weight 50 got %d", cfg.Game.WeightRacer)
	}
	if cfg.Game.DayInterval != 30*time.Second {
		t.Fatalf("expected day interval 30s got %v", cfg.Game.DayInterval)
	}
}
