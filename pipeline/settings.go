// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pipeline drives per-view pass execution for the composition
// pipeline.
//
// The Orchestrator is the stateful, engine-facing object: it holds the
// pass set, the committed settings snapshot and its mutable draft, the
// frame's plan builder, and the composition planner. Its RenderView method
// is the render callback the view lifecycle service registers for every
// view.
package pipeline

import (
	"fmt"

	"github.com/gogpu/stage/plan"
	types "github.com/gogpu/gputypes"
)

// ExposureMode selects how scene exposure is driven.
type ExposureMode int

const (
	// ExposureManual uses the configured manual exposure value.
	ExposureManual ExposureMode = iota

	// ExposureAuto derives exposure from scene luminance.
	ExposureAuto
)

// String returns the string representation of ExposureMode.
func (m ExposureMode) String() string {
	switch m {
	case ExposureManual:
		return "Manual"
	case ExposureAuto:
		return "Auto"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ToneMapper selects the tone-mapping operator.
type ToneMapper int

const (
	// ToneMapperNone passes linear color through unmapped.
	ToneMapperNone ToneMapper = iota

	// ToneMapperACES applies the ACES filmic curve.
	ToneMapperACES

	// ToneMapperReinhard applies the Reinhard operator.
	ToneMapperReinhard
)

// String returns the string representation of ToneMapper.
func (t ToneMapper) String() string {
	switch t {
	case ToneMapperNone:
		return "None"
	case ToneMapperACES:
		return "ACES"
	case ToneMapperReinhard:
		return "Reinhard"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ToneMapConfig is the tone-mapping portion of the settings snapshot.
type ToneMapConfig struct {
	// Mode selects manual versus automatic exposure.
	Mode ExposureMode

	// ManualExposure is the exposure multiplier in manual mode.
	ManualExposure float32

	// Mapper is the tone-mapping operator.
	Mapper ToneMapper
}

// NeutralToneMap is the pass-through configuration used when a view's
// plan demands neutral tone mapping: manual exposure 1.0, no mapper.
func NeutralToneMap() ToneMapConfig {
	return ToneMapConfig{Mode: ExposureManual, ManualExposure: 1, Mapper: ToneMapperNone}
}

// Settings is an immutable frame settings snapshot, produced by
// committing a SettingsDraft. Passes receive the snapshot by value.
type Settings struct {
	// RenderMode is the frame-wide render mode.
	RenderMode plan.RenderMode

	// DebugMode is the shader debug visualization.
	DebugMode plan.ShaderDebugMode

	// WireColor is the wireframe color.
	WireColor types.Color

	// ToneMap is the tone-mapping configuration.
	ToneMap ToneMapConfig

	// GPUDebugEnabled enables the GPU debug passes.
	GPUDebugEnabled bool

	// GroundGridEnabled enables the ground grid pass.
	GroundGridEnabled bool

	// DebugMousePos is the cursor position debug passes sample at.
	DebugMousePos [2]int32

	// MeterCalibration relates exposure value to luminance; see
	// LuminanceFromEV. Zero means ReflectedLightMeterConstant.
	MeterCalibration float32
}

// DefaultSettings returns the settings used before the host configures
// anything.
func DefaultSettings() Settings {
	return Settings{
		RenderMode: plan.RenderModeStandard,
		DebugMode:  plan.DebugNone,
		WireColor:  types.Color{R: 0, G: 1, B: 0, A: 1},
		ToneMap: ToneMapConfig{
			Mode:           ExposureManual,
			ManualExposure: 1,
			Mapper:         ToneMapperACES,
		},
		MeterCalibration: ReflectedLightMeterConstant,
	}
}

// SettingsDraft is the mutable settings front end written by external
// setters (UI, console). It is committed atomically once per frame; the
// dirty flag gates whether a commit does any work.
type SettingsDraft struct {
	s             Settings
	dirty         bool
	exposureReset *float32
}

// NewSettingsDraft creates a draft seeded from defaults, marked dirty so
// the first commit applies them.
func NewSettingsDraft() *SettingsDraft {
	return &SettingsDraft{s: DefaultSettings(), dirty: true}
}

// Dirty reports whether the draft has uncommitted changes.
func (d *SettingsDraft) Dirty() bool { return d.dirty }

// SetRenderMode sets the frame render mode.
func (d *SettingsDraft) SetRenderMode(m plan.RenderMode) {
	if d.s.RenderMode != m {
		d.s.RenderMode = m
		d.dirty = true
	}
}

// SetDebugMode sets the shader debug visualization.
func (d *SettingsDraft) SetDebugMode(m plan.ShaderDebugMode) {
	if d.s.DebugMode != m {
		d.s.DebugMode = m
		d.dirty = true
	}
}

// SetWireColor sets the wireframe color.
func (d *SettingsDraft) SetWireColor(c types.Color) {
	if d.s.WireColor != c {
		d.s.WireColor = c
		d.dirty = true
	}
}

// SetExposureMode sets manual versus automatic exposure.
func (d *SettingsDraft) SetExposureMode(m ExposureMode) {
	if d.s.ToneMap.Mode != m {
		d.s.ToneMap.Mode = m
		d.dirty = true
	}
}

// SetManualExposure sets the manual exposure multiplier.
func (d *SettingsDraft) SetManualExposure(e float32) {
	if d.s.ToneMap.ManualExposure != e {
		d.s.ToneMap.ManualExposure = e
		d.dirty = true
	}
}

// SetToneMapper sets the tone-mapping operator.
func (d *SettingsDraft) SetToneMapper(t ToneMapper) {
	if d.s.ToneMap.Mapper != t {
		d.s.ToneMap.Mapper = t
		d.dirty = true
	}
}

// SetGPUDebugEnabled toggles the GPU debug passes.
func (d *SettingsDraft) SetGPUDebugEnabled(on bool) {
	if d.s.GPUDebugEnabled != on {
		d.s.GPUDebugEnabled = on
		d.dirty = true
	}
}

// SetGroundGridEnabled toggles the ground grid pass.
func (d *SettingsDraft) SetGroundGridEnabled(on bool) {
	if d.s.GroundGridEnabled != on {
		d.s.GroundGridEnabled = on
		d.dirty = true
	}
}

// SetDebugMousePos sets the debug cursor position.
func (d *SettingsDraft) SetDebugMousePos(x, y int32) {
	if d.s.DebugMousePos != [2]int32{x, y} {
		d.s.DebugMousePos = [2]int32{x, y}
		d.dirty = true
	}
}

// SetMeterCalibration overrides the light meter calibration constant.
func (d *SettingsDraft) SetMeterCalibration(k float32) {
	if d.s.MeterCalibration != k {
		d.s.MeterCalibration = k
		d.dirty = true
	}
}

// ResetAutoExposure requests a one-shot reset of the auto-exposure state
// to the given exposure value at the next commit.
func (d *SettingsDraft) ResetAutoExposure(ev float32) {
	v := ev
	d.exposureReset = &v
	d.dirty = true
}

// Commit atomically produces the immutable settings snapshot and the
// optional one-shot exposure reset, clearing the dirty flag. The second
// return is nil when no reset was requested. The third return reports
// whether anything was committed: a clean draft commits nothing.
func (d *SettingsDraft) Commit() (Settings, *float32, bool) {
	if !d.dirty {
		return Settings{}, nil, false
	}
	s := d.s
	reset := d.exposureReset
	d.exposureReset = nil
	d.dirty = false
	return s, reset, true
}
