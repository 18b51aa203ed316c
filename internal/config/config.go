// Package config resolves the engine settings from layered property usages.
package config

import (
	"math"

	"github.com/pkg/errors"
)

// Property keys understood by Load.
const (
	KeyTitle          = "Title"
	KeyWidth          = "Width"
	KeyHeight         = "Height"
	KeyFramesInFlight = "FramesInFlight"
	KeyShaderDir      = "ShaderDir"
	KeyLevel          = "Level"
	KeyValidation     = "Validation"
	KeyClearR         = "ClearR"
	KeyClearG         = "ClearG"
	KeyClearB         = "ClearB"
	KeyClearA         = "ClearA"
)

// Settings is the resolved, typed configuration of one engine run.
type Settings struct {
	Title          string
	Width          int
	Height         int
	FramesInFlight int
	ShaderDir      string
	Level          string
	Validation     bool
	ClearColor     [4]float32
	// AcquireTimeout is in nanoseconds; the default never times out.
	AcquireTimeout uint64
}

// Defaults returns the base usage every application usage links to.
func Defaults() *Usage {
	u := NewUsage("Defaults", 8)
	u.Strings[KeyTitle] = "IWEngine"
	u.Strings[KeyShaderDir] = "shaders"
	u.Strings[KeyLevel] = "maps/map.txt"
	u.Ints[KeyWidth] = 800
	u.Ints[KeyHeight] = 600
	u.Ints[KeyFramesInFlight] = 2
	u.Bools[KeyValidation] = false
	u.Floats[KeyClearR] = 0.2
	u.Floats[KeyClearG] = 0.2
	u.Floats[KeyClearB] = 0.2
	u.Floats[KeyClearA] = 1.0
	return u
}

// Load resolves u, which should be linked to Defaults, into Settings.
func Load(u *Usage) (Settings, error) {
	var s Settings
	var ok bool
	if s.Title, ok = u.String(KeyTitle); !ok {
		return s, errors.Errorf("config: missing %s", KeyTitle)
	}
	if s.Width, ok = u.Int(KeyWidth); !ok || s.Width <= 0 {
		return s, errors.Errorf("config: %s must be positive", KeyWidth)
	}
	if s.Height, ok = u.Int(KeyHeight); !ok || s.Height <= 0 {
		return s, errors.Errorf("config: %s must be positive", KeyHeight)
	}
	if s.FramesInFlight, ok = u.Int(KeyFramesInFlight); !ok || s.FramesInFlight < 1 {
		return s, errors.Errorf("config: %s must be at least 1", KeyFramesInFlight)
	}
	s.ShaderDir, _ = u.String(KeyShaderDir)
	s.Level, _ = u.String(KeyLevel)
	s.Validation, _ = u.Bool(KeyValidation)
	for i, key := range []string{KeyClearR, KeyClearG, KeyClearB, KeyClearA} {
		s.ClearColor[i], _ = u.Float(key)
	}
	s.AcquireTimeout = math.MaxUint64
	return s, nil
}
