package controller

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestThresholdsValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		if err := testThresholds().Validate(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
	t.Run("inverted moisture band", func(t *testing.T) {
		th := Thresholds{MoistureLow: 70, MoistureOptimal: 30, TempLow: 18, TempHigh: 28}
		if err := th.Validate(); !errors.Is(err, ErrThresholdOrder) {
			t.Fatalf("expected ErrThresholdOrder, got %v", err)
		}
	})
	t.Run("empty moisture band", func(t *testing.T) {
		th := Thresholds{MoistureLow: 50, MoistureOptimal: 50, TempLow: 18, TempHigh: 28}
		if err := th.Validate(); !errors.Is(err, ErrThresholdOrder) {
			t.Fatalf("expected ErrThresholdOrder, got %v", err)
		}
	})
	t.Run("inverted temp band", func(t *testing.T) {
		th := Thresholds{MoistureLow: 30, MoistureOptimal: 70, TempLow: 28, TempHigh: 18}
		if err := th.Validate(); !errors.Is(err, ErrTempBand) {
			t.Fatalf("expected ErrTempBand, got %v", err)
		}
	})
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plant_config.json")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `{
		"broker": {"host": "broker.local", "port": 1884},
		"thresholds": {"moisture_low": 30, "moisture_optimal": 70, "temp_low": 18, "temp_high": 28}
	}`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("MQTT_BROKER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BrokerAddr != "tcp://broker.local:1884" {
		t.Fatalf("broker addr = %s", cfg.BrokerAddr)
	}
	if cfg.Thresholds != testThresholds() {
		t.Fatalf("thresholds = %+v", cfg.Thresholds)
	}
}

func TestLoadRejectsBadThresholds(t *testing.T) {
	path := writeConfig(t, `{
		"thresholds": {"moisture_low": 70, "moisture_optimal": 30, "temp_low": 18, "temp_high": 28}
	}`)
	t.Setenv("CONFIG_PATH", path)

	if _, err := Load(); !errors.Is(err, ErrThresholdOrder) {
		t.Fatalf("expected fatal ErrThresholdOrder, got %v", err)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.json"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestReloadThresholds(t *testing.T) {
	path := writeConfig(t, `{
		"thresholds": {"moisture_low": 30, "moisture_optimal": 70, "temp_low": 18, "temp_high": 28}
	}`)
	t.Setenv("CONFIG_PATH", path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{
		"thresholds": {"moisture_low": 40, "moisture_optimal": 80, "temp_low": 15, "temp_high": 30}
	}`), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	th, err := cfg.ReloadThresholds()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if th.MoistureLow != 40 || th.MoistureOptimal != 80 {
		t.Fatalf("reloaded thresholds = %+v", th)
	}

	// A broken file on reload is an error; the caller keeps the old values.
	if err := os.WriteFile(path, []byte(`{"thresholds": {"moisture_low": 90, "moisture_optimal": 20}}`), 0o644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}
	if _, err := cfg.ReloadThresholds(); !errors.Is(err, ErrThresholdOrder) {
		t.Fatalf("expected ErrThresholdOrder on reload, got %v", err)
	}
}

func TestThresholdStoreConcurrentAccess(t *testing.T) {
	store, err := NewThresholdStore(testThresholds())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(low float64) {
			defer wg.Done()
			th := testThresholds()
			th.MoistureLow = low
			if err := store.Set(th); err != nil {
				t.Errorf("set: %v", err)
			}
		}(25.0 + float64(i%5))
		go func() {
			defer wg.Done()
			th := store.Get()
			if th.MoistureLow >= th.MoistureOptimal {
				t.Error("observed half-updated thresholds")
			}
		}()
	}
	wg.Wait()
}

func TestThresholdStoreRejectsInvalidAndKeepsOld(t *testing.T) {
	store, err := NewThresholdStore(testThresholds())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	bad := Thresholds{MoistureLow: 80, MoistureOptimal: 40, TempLow: 18, TempHigh: 28}
	if err := store.Set(bad); !errors.Is(err, ErrThresholdOrder) {
		t.Fatalf("expected ErrThresholdOrder, got %v", err)
	}
	if got := store.Get(); got != testThresholds() {
		t.Fatalf("previous thresholds must stay in force, got %+v", got)
	}
}
