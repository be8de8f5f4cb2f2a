// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"fmt"
	"os"

	"github.com/gogpu/stage/plan"
	types "github.com/gogpu/gputypes"
	"gopkg.in/yaml.v3"
)

// settingsFile is the YAML representation of Settings. Enum fields are
// spelled as lowercase strings; absent fields keep their defaults.
type settingsFile struct {
	RenderMode  string     `yaml:"render_mode"`
	DebugMode   string     `yaml:"debug_mode"`
	WireColor   [4]float64 `yaml:"wire_color"`
	Exposure    string     `yaml:"exposure"`
	ManualEV    *float32   `yaml:"manual_exposure"`
	ToneMapper  string     `yaml:"tone_mapper"`
	GPUDebug    bool       `yaml:"gpu_debug"`
	GroundGrid  bool       `yaml:"ground_grid"`
	Calibration *float32   `yaml:"meter_calibration"`
}

var renderModes = map[string]plan.RenderMode{
	"standard":          plan.RenderModeStandard,
	"wireframe":         plan.RenderModeWireframe,
	"overlay_wireframe": plan.RenderModeOverlayWireframe,
}

var debugModes = map[string]plan.ShaderDebugMode{
	"none":       plan.DebugNone,
	"base_color": plan.DebugBaseColor,
	"normals":    plan.DebugNormals,
	"roughness":  plan.DebugRoughness,
	"metallic":   plan.DebugMetallic,
	"uv":         plan.DebugUV,
	"luminance":  plan.DebugLuminance,
}

var exposureModes = map[string]ExposureMode{
	"manual": ExposureManual,
	"auto":   ExposureAuto,
}

var toneMappers = map[string]ToneMapper{
	"none":     ToneMapperNone,
	"aces":     ToneMapperACES,
	"reinhard": ToneMapperReinhard,
}

// ParseSettings parses a YAML settings document into a Settings snapshot.
// Unknown enum values are errors; absent fields keep DefaultSettings
// values.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()

	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Settings{}, fmt.Errorf("pipeline: parse settings: %w", err)
	}

	if f.RenderMode != "" {
		m, ok := renderModes[f.RenderMode]
		if !ok {
			return Settings{}, fmt.Errorf("pipeline: unknown render_mode %q", f.RenderMode)
		}
		s.RenderMode = m
	}
	if f.DebugMode != "" {
		m, ok := debugModes[f.DebugMode]
		if !ok {
			return Settings{}, fmt.Errorf("pipeline: unknown debug_mode %q", f.DebugMode)
		}
		s.DebugMode = m
	}
	if f.WireColor != ([4]float64{}) {
		s.WireColor = types.Color{R: f.WireColor[0], G: f.WireColor[1], B: f.WireColor[2], A: f.WireColor[3]}
	}
	if f.Exposure != "" {
		m, ok := exposureModes[f.Exposure]
		if !ok {
			return Settings{}, fmt.Errorf("pipeline: unknown exposure %q", f.Exposure)
		}
		s.ToneMap.Mode = m
	}
	if f.ManualEV != nil {
		s.ToneMap.ManualExposure = *f.ManualEV
	}
	if f.ToneMapper != "" {
		m, ok := toneMappers[f.ToneMapper]
		if !ok {
			return Settings{}, fmt.Errorf("pipeline: unknown tone_mapper %q", f.ToneMapper)
		}
		s.ToneMap.Mapper = m
	}
	s.GPUDebugEnabled = f.GPUDebug
	s.GroundGridEnabled = f.GroundGrid
	if f.Calibration != nil {
		s.MeterCalibration = *f.Calibration
	}
	return s, nil
}

// LoadSettings reads and parses a YAML settings file.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("pipeline: load settings: %w", err)
	}
	return ParseSettings(data)
}

// Load replaces the draft's contents with a parsed settings snapshot and
// marks the draft dirty.
func (d *SettingsDraft) Load(s Settings) {
	d.s = s
	d.dirty = true
}
