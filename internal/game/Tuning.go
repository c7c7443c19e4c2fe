package game

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tuning holds the gameplay parameters that can be overridden from a yaml file.
type Tuning struct {
	TileDegrees       float64 `yaml:"tile_degrees"`
	PercentChance     float64 `yaml:"percent_chance"`
	InteractionRadius float64 `yaml:"interaction_radius"`
	WinValue          int     `yaml:"win_value"`
	GeoThrottleMs     int     `yaml:"geo_throttle_ms"`
	GeoTimeoutMs      int     `yaml:"geo_timeout_ms"`
	ViewHalfWidth     int     `yaml:"view_half_width"`
	ViewHalfHeight    int     `yaml:"view_half_height"`
	GeneratorScript   string  `yaml:"generator_script"`
}

func DefaultTuning() Tuning {
	return Tuning{
		TileDegrees:       TileDegrees,
		PercentChance:     PercentChance,
		InteractionRadius: InteractionRadius,
		WinValue:          WinValue,
		GeoThrottleMs:     int(GeoThrottle / time.Millisecond),
		GeoTimeoutMs:      int(GeoTimeout / time.Millisecond),
		ViewHalfWidth:     DefaultViewHalfWidth,
		ViewHalfHeight:    DefaultViewHalfHeight,
	}
}

// LoadTuning reads path on top of DefaultTuning. Keys missing from the file keep
// their default value.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TileDegrees <= 0:
		return errors.New("tile_degrees must be positive")
	case t.PercentChance < 0 || t.PercentChance > 1:
		return errors.New("percent_chance must be within [0, 1]")
	case t.InteractionRadius < 0:
		return errors.New("interaction_radius must not be negative")
	case t.WinValue <= 0:
		return errors.New("win_value must be positive")
	case t.GeoThrottleMs < 0:
		return errors.New("geo_throttle_ms must not be negative")
	case t.GeoTimeoutMs <= 0:
		return errors.New("geo_timeout_ms must be positive")
	case t.ViewHalfWidth < 0 || t.ViewHalfHeight < 0:
		return errors.New("view size must not be negative")
	}
	return nil
}

func (t Tuning) GeoThrottle() time.Duration {
	return time.Duration(t.GeoThrottleMs) * time.Millisecond
}

func (t Tuning) GeoTimeout() time.Duration {
	return time.Duration(t.GeoTimeoutMs) * time.Millisecond
}

// ResolveTuning loads path, or returns the defaults when path is empty.
func ResolveTuning(path string) (Tuning, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultTuning(), nil
	}
	return LoadTuning(path)
}
