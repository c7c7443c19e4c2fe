package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadTuningOverlaysDefaults(t *testing.T) {
	path := writeTuning(t, "win_value: 32\ngeo_throttle_ms: 250\ngenerator_script: ring.lua\n")

	tuning, err := LoadTuning(path)
	if err != nil {
		t.Fatal(err)
	}
	if tuning.WinValue != 32 || tuning.GeoThrottle() != 250*time.Millisecond || tuning.GeneratorScript != "ring.lua" {
		t.Fatalf("file values not applied: %+v", tuning)
	}
	if tuning.TileDegrees != TileDegrees || tuning.InteractionRadius != InteractionRadius || tuning.GeoTimeout() != GeoTimeout {
		t.Fatalf("missing keys should keep their defaults: %+v", tuning)
	}
}

func TestLoadTuningRejectsBadValues(t *testing.T) {
	bad := []string{
		"tile_degrees: 0",
		"percent_chance: 1.5",
		"interaction_radius: -1",
		"win_value: 0",
		"geo_throttle_ms: -5",
		"geo_timeout_ms: 0",
		"view_half_width: -2",
		"win_value: [1, 2]",
	}
	for _, body := range bad {
		if _, err := LoadTuning(writeTuning(t, body)); err == nil {
			t.Errorf("expected %q to be rejected", body)
		}
	}
}

func TestResolveTuning(t *testing.T) {
	tuning, err := ResolveTuning("  ")
	if err != nil {
		t.Fatal(err)
	}
	if tuning != DefaultTuning() {
		t.Fatal("empty path should give the defaults")
	}
	if err := tuning.Validate(); err != nil {
		t.Fatalf("defaults must be valid: %v", err)
	}
	if _, err := ResolveTuning(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
