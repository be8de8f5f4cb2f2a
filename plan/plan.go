// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package plan computes the per-frame render plan for each active view.
//
// Planning is a snapshot transform, not a state machine: given the frame
// settings, a single sky-environment snapshot, and a view's intent, it
// produces an immutable RenderPlan. The builder rebuilds its packet list
// from scratch every frame and keeps no other cross-frame state, which
// makes plan evaluation independently testable as a pure function.
package plan

import (
	"fmt"

	types "github.com/gogpu/gputypes"
)

// RenderMode is the frame-wide rendering mode.
type RenderMode int

const (
	// RenderModeStandard runs the full shaded pass sequence.
	RenderModeStandard RenderMode = iota

	// RenderModeWireframe replaces scene rendering with wireframe only.
	RenderModeWireframe

	// RenderModeOverlayWireframe runs the full pass sequence and then
	// draws wireframe on top of the shaded result.
	RenderModeOverlayWireframe
)

// String returns the string representation of RenderMode.
func (m RenderMode) String() string {
	switch m {
	case RenderModeStandard:
		return "Standard"
	case RenderModeWireframe:
		return "Wireframe"
	case RenderModeOverlayWireframe:
		return "OverlayWireframe"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Intent is what a view contributes to the frame.
type Intent int

const (
	// IntentCompositeOnly composites an externally filled target; no
	// scene passes run.
	IntentCompositeOnly Intent = iota

	// IntentSceneAndComposite renders scene content and composites it.
	IntentSceneAndComposite
)

// String returns the string representation of Intent.
func (i Intent) String() string {
	switch i {
	case IntentCompositeOnly:
		return "CompositeOnly"
	case IntentSceneAndComposite:
		return "SceneAndComposite"
	default:
		return fmt.Sprintf("Unknown(%d)", int(i))
	}
}

// ToneMapPolicy selects the tone-mapping configuration for a view.
type ToneMapPolicy int

const (
	// ToneMapConfigured uses the frame-wide exposure and tone mapper.
	ToneMapConfigured ToneMapPolicy = iota

	// ToneMapNeutral is a pass-through: manual exposure 1.0, no tone
	// mapper. Used when wireframe output must not be exposure-adjusted.
	ToneMapNeutral
)

// String returns the string representation of ToneMapPolicy.
func (p ToneMapPolicy) String() string {
	switch p {
	case ToneMapConfigured:
		return "Configured"
	case ToneMapNeutral:
		return "Neutral"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// ShaderDebugMode selects a debug visualization in the shading passes.
type ShaderDebugMode int

const (
	// DebugNone disables debug visualization.
	DebugNone ShaderDebugMode = iota

	// DebugBaseColor visualizes the raw base color channel.
	DebugBaseColor

	// DebugNormals visualizes geometric normals.
	DebugNormals

	// DebugRoughness visualizes the roughness channel.
	DebugRoughness

	// DebugMetallic visualizes the metallic channel.
	DebugMetallic

	// DebugUV visualizes texture coordinates.
	DebugUV

	// DebugLuminance visualizes scene luminance.
	DebugLuminance
)

// String returns the string representation of ShaderDebugMode.
func (m ShaderDebugMode) String() string {
	switch m {
	case DebugNone:
		return "None"
	case DebugBaseColor:
		return "BaseColor"
	case DebugNormals:
		return "Normals"
	case DebugRoughness:
		return "Roughness"
	case DebugMetallic:
		return "Metallic"
	case DebugUV:
		return "UV"
	case DebugLuminance:
		return "Luminance"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// SuppressesSky reports whether the mode visualizes raw geometry or
// material channels that are incompatible with sky compositing. Sky
// rendering is skipped for these modes.
func (m ShaderDebugMode) SuppressesSky() bool {
	switch m {
	case DebugBaseColor, DebugNormals, DebugRoughness, DebugMetallic, DebugUV:
		return true
	default:
		return false
	}
}

// ForcesManualExposure reports whether the mode visualizes raw,
// un-exposed quantities and therefore pins exposure to manual 1.0.
func (m ShaderDebugMode) ForcesManualExposure() bool {
	return m != DebugNone
}

// ForcesToneMapperOff reports whether the mode additionally overrides the
// tone mapper regardless of user settings.
func (m ShaderDebugMode) ForcesToneMapperOff() bool {
	return m == DebugLuminance
}

// RenderPlan is the resolved set of decisions governing which passes run
// for one view this frame. Plans are values; they are never mutated after
// construction.
type RenderPlan struct {
	// Mode is the effective render mode after per-view overrides.
	Mode RenderMode

	// Intent is scene-and-composite versus composite-only.
	Intent Intent

	// ToneMap is the tone-mapping policy for this view.
	ToneMap ToneMapPolicy

	// RunScenePasses enables the full scene pass sequence.
	RunScenePasses bool

	// RunSkyPass enables sky rendering after the depth pre-pass.
	RunSkyPass bool

	// RunSkyLUTUpdate enables the sky-atmosphere LUT refresh.
	RunSkyLUTUpdate bool

	// RunOverlayWireframe enables wireframe drawn over shaded output.
	RunOverlayWireframe bool
}

// SkyState is the frame-wide sky-environment snapshot, evaluated once and
// shared by every view's plan to avoid redundant scene queries.
type SkyState struct {
	// AtmosphereEnabled reports an active sky-atmosphere component.
	AtmosphereEnabled bool

	// SkySphereEnabled reports an active sky-sphere component.
	SkySphereEnabled bool
}

// Environment is the scene surface planning queries for sky state.
type Environment interface {
	// SkyAtmosphereEnabled reports whether a sky atmosphere is active.
	SkyAtmosphereEnabled() bool

	// SkySphereEnabled reports whether a sky sphere is active.
	SkySphereEnabled() bool
}

// FrameInputs are the frame-wide derived settings captured once per frame
// before planning.
type FrameInputs struct {
	// RenderMode is the frame render mode.
	RenderMode RenderMode

	// WireColor is the wireframe color.
	WireColor types.Color

	// DebugMode is the active shader debug visualization.
	DebugMode ShaderDebugMode

	// DebugMousePos is the cursor position debug passes sample at.
	DebugMousePos [2]int32

	// GPUDebugEnabled enables the GPU debug pass.
	GPUDebugEnabled bool

	// AutoExposure reports whether the tone-map exposure mode is Auto.
	AutoExposure bool

	// PendingExposureReset is a one-shot exposure-value reset consumed
	// by the auto-exposure pass this frame, or nil.
	PendingExposureReset *float32
}
