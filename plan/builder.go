// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plan

import (
	"fmt"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/engine"
	"github.com/gogpu/stage/view"
)

// Packet pairs a view with its render plan for one frame. Packets hold a
// weak reference into the view pool: they are valid only for the frame
// they were built for.
type Packet struct {
	// View is the planned view's runtime state.
	View *view.State

	// Plan is the view's immutable render plan.
	Plan RenderPlan
}

// Builder builds and indexes the frame's view packets.
//
// Builder has no mutable cross-frame state beyond what BuildFrameViewPackets
// rebuilds from scratch each call.
type Builder struct {
	packets []Packet
	index   map[engine.ViewHandle]int
	sky     SkyState
	inputs  FrameInputs
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{index: make(map[engine.ViewHandle]int)}
}

// BuildFrameViewPackets clears and rebuilds the packet list and its
// handle-indexed lookup map for this frame.
//
// The sky environment is evaluated exactly once here and shared by every
// view's plan. Views without a valid engine handle (not yet published)
// are skipped; they cannot be dispatched to this frame anyway.
func (b *Builder) BuildFrameViewPackets(env Environment, views []*view.State, in FrameInputs) {
	b.packets = b.packets[:0]
	clear(b.index)
	b.inputs = in

	b.sky = SkyState{}
	if env != nil {
		b.sky = SkyState{
			AtmosphereEnabled: env.SkyAtmosphereEnabled(),
			SkySphereEnabled:  env.SkySphereEnabled(),
		}
	}

	for _, v := range views {
		if v.Handle == engine.InvalidViewHandle {
			continue
		}
		p := EvaluateViewRenderPlan(v, b.sky, in)
		b.index[v.Handle] = len(b.packets)
		b.packets = append(b.packets, Packet{View: v, Plan: p})
		stage.Logger().Debug("plan: packet",
			"view", string(v.Intent.ID),
			"intent", p.Intent.String(),
			"mode", p.Mode.String(),
			"scene_passes", p.RunScenePasses,
			"sky", p.RunSkyPass)
	}
}

// EvaluateViewRenderPlan resolves a view's render plan. It is a pure
// function of (view intent, sky snapshot, frame inputs): repeated calls
// with the same arguments yield identical plans.
//
// Resources must already exist when planning runs (EnsureResources ran
// during sync); a composite-capable view without SDR resources, or a
// scene view without HDR resources, is a contract violation and panics.
func EvaluateViewRenderPlan(v *view.State, sky SkyState, in FrameInputs) RenderPlan {
	intent := IntentCompositeOnly
	if v.SceneCapable() {
		intent = IntentSceneAndComposite
	}

	mode := in.RenderMode
	if v.Intent.ForceWireframe {
		mode = RenderModeWireframe
	}

	if v.SDR == nil {
		panic(fmt.Sprintf("plan: view %q has no SDR resources", v.Intent.ID))
	}
	if intent == IntentSceneAndComposite && v.HDR == nil {
		panic(fmt.Sprintf("plan: scene view %q has no HDR resources", v.Intent.ID))
	}

	toneMap := ToneMapConfigured
	if intent == IntentSceneAndComposite && mode == RenderModeWireframe {
		toneMap = ToneMapNeutral
	}

	sceneCapable := intent == IntentSceneAndComposite
	runScene := sceneCapable && mode != RenderModeWireframe

	skyWanted := (sky.AtmosphereEnabled && v.Intent.WithAtmosphere) || sky.SkySphereEnabled

	return RenderPlan{
		Mode:            mode,
		Intent:          intent,
		ToneMap:         toneMap,
		RunScenePasses:  runScene,
		RunSkyPass:      runScene && skyWanted && !in.DebugMode.SuppressesSky(),
		RunSkyLUTUpdate: runScene && sky.AtmosphereEnabled && v.Intent.WithAtmosphere,
		RunOverlayWireframe: sceneCapable &&
			in.RenderMode == RenderModeOverlayWireframe &&
			mode != RenderModeWireframe,
	}
}

// FindPacket returns the packet for an engine view handle. A miss is not
// an error: a view can be unregistered between frames, and callers must
// skip rendering rather than fail.
func (b *Builder) FindPacket(h engine.ViewHandle) (*Packet, bool) {
	i, ok := b.index[h]
	if !ok {
		return nil, false
	}
	return &b.packets[i], true
}

// Packets returns this frame's packets in view submission order.
func (b *Builder) Packets() []Packet {
	return b.packets
}

// Sky returns the sky snapshot captured for this frame.
func (b *Builder) Sky() SkyState {
	return b.sky
}

// Inputs returns the frame inputs captured for this frame.
func (b *Builder) Inputs() FrameInputs {
	return b.inputs
}
