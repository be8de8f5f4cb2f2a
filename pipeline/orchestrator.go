// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"context"
	"fmt"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/composite"
	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	"github.com/gogpu/stage/plan"
	"github.com/gogpu/stage/view"
)

// PassSet holds the pipeline's pass instances. Any field may be nil:
// passes are optional, lazily constructed capabilities, and a nil pass is
// silently skipped.
type PassSet struct {
	// DepthPrePass lays down scene depth before shading.
	DepthPrePass Pass

	// SkyLUT refreshes the sky-atmosphere lookup tables.
	SkyLUT Pass

	// Sky renders the sky after depth so only background pixels shade.
	Sky Pass

	// LightCull assigns lights to screen tiles.
	LightCull Pass

	// Shader is the opaque forward shading pass.
	Shader Pass

	// Transparent shades transparency after opaques.
	Transparent Pass

	// AutoExposure measures HDR luminance and adapts exposure.
	AutoExposure Pass

	// GroundGrid draws the editor ground grid.
	GroundGrid Pass

	// ToneMap resolves HDR to the SDR target.
	ToneMap Pass

	// Wireframe renders scene geometry as lines.
	Wireframe Pass

	// OverlayWireframe draws wireframe over already shaded output.
	OverlayWireframe Pass

	// DebugClear clears GPU debug buffers at the start of scene passes.
	DebugClear Pass

	// DebugOverlay draws the GPU debug visualization on scene views.
	DebugOverlay Pass

	// Tools draws the tools/UI overlay on the dedicated tools layer.
	Tools Pass
}

// Orchestrator executes the per-view pass sequence each frame.
//
// It is a state machine per view rather than per pipeline: each view may
// be in a different combination of scene-path, composite-path and
// wireframe-only rendering, resolved by the view's plan. Execution is
// strictly sequential; the Orchestrator must only be driven from the
// engine's cooperative frame task.
type Orchestrator struct {
	passes PassSet
	draft  *SettingsDraft

	settings     Settings
	pendingReset *float32
	activeScene  engine.SceneID

	plans   *plan.Builder
	planner *composite.Planner
}

// NewOrchestrator creates an orchestrator around a pass set. The draft
// starts dirty with default settings so the first ApplySettings commits
// them.
func NewOrchestrator(passes PassSet) *Orchestrator {
	return &Orchestrator{
		passes:   passes,
		draft:    NewSettingsDraft(),
		settings: DefaultSettings(),
		plans:    plan.NewBuilder(),
		planner:  composite.NewPlanner(),
	}
}

// Draft returns the mutable settings draft. External setters (UI) write
// here; changes take effect at the next ApplySettings.
func (o *Orchestrator) Draft() *SettingsDraft { return o.draft }

// Settings returns the committed settings snapshot.
func (o *Orchestrator) Settings() Settings { return o.settings }

// Plans returns the frame's plan builder.
func (o *Orchestrator) Plans() *plan.Builder { return o.plans }

// SetActiveScene declares the scene overlay cameras must belong to.
func (o *Orchestrator) SetActiveScene(id engine.SceneID) { o.activeScene = id }

// ApplySettings commits the draft if it is dirty and derives the
// effective tone-map configuration. Returns whether a commit happened.
//
// Derived rules: shader debug visualizations force manual exposure 1.0
// (they visualize raw, un-exposed quantities); the luminance
// visualization additionally forces the tone mapper off. Tone-map
// changes are diffed against the previous snapshot purely for
// diagnostics.
func (o *Orchestrator) ApplySettings() bool {
	s, reset, ok := o.draft.Commit()
	if !ok {
		return false
	}

	if s.DebugMode.ForcesManualExposure() {
		s.ToneMap.Mode = ExposureManual
		s.ToneMap.ManualExposure = 1
	}
	if s.DebugMode.ForcesToneMapperOff() {
		s.ToneMap.Mapper = ToneMapperNone
	}

	if s.ToneMap != o.settings.ToneMap {
		stage.Logger().Debug("pipeline: tone map changed",
			"mode", s.ToneMap.Mode.String(),
			"exposure", s.ToneMap.ManualExposure,
			"mapper", s.ToneMap.Mapper.String(),
			"prev_mode", o.settings.ToneMap.Mode.String(),
			"prev_mapper", o.settings.ToneMap.Mapper.String())
	}

	o.settings = s
	if reset != nil {
		o.pendingReset = reset
	}
	return true
}

// PlanFrame captures the frame inputs from the committed settings and
// builds this frame's view packets. The pending auto-exposure reset is
// consumed into the inputs as a one-shot.
func (o *Orchestrator) PlanFrame(env plan.Environment, views []*view.State) {
	in := plan.FrameInputs{
		RenderMode:           o.settings.RenderMode,
		WireColor:            o.settings.WireColor,
		DebugMode:            o.settings.DebugMode,
		DebugMousePos:        o.settings.DebugMousePos,
		GPUDebugEnabled:      o.settings.GPUDebugEnabled,
		AutoExposure:         o.settings.ToneMap.Mode == ExposureAuto,
		PendingExposureReset: o.pendingReset,
	}
	o.pendingReset = nil
	o.plans.BuildFrameViewPackets(env, views, in)
}

// Composite plans the compositing tasks for this frame's packets and
// builds the submission against the final output target. A missing or
// attachment-less target degrades to an empty submission with a warning.
func (o *Orchestrator) Composite(target device.Framebuffer) composite.Submission {
	o.planner.PlanTasks(o.plans.Packets())
	sub := o.planner.BuildSubmission(target)
	if sub.Target == nil {
		stage.Logger().Warn("pipeline: no final output target, skipping composite")
	}
	return sub
}

// RenderView is the render callback registered for every view. It
// executes the view's pass sequence for the current frame.
//
// An unknown handle is not an error: the view was unregistered between
// frames and is skipped. Device failures propagate; contract violations
// (overlay wireframe without a live camera in the active scene) panic.
func (o *Orchestrator) RenderView(ctx context.Context, rec device.CommandRecorder, h engine.ViewHandle) error {
	pkt, ok := o.plans.FindPacket(h)
	if !ok {
		stage.Logger().Debug("pipeline: no packet for handle, skipping", "handle", uint64(h))
		return nil
	}
	v, p := pkt.View, pkt.Plan

	rc := o.buildRenderContext(v, p)

	// Start barrier tracking for every target this command stream touches.
	var targets []device.Texture
	if v.HDR != nil {
		targets = append(targets, v.HDR.Color, v.HDR.Depth)
	}
	if v.SDR != nil {
		targets = append(targets, v.SDR.Color)
	}
	for _, t := range targets {
		if t != nil && !rec.IsResourceTracked(t) {
			rec.BeginTrackingResourceState(t, device.ResourceStateUndefined)
		}
	}

	if p.RunScenePasses {
		if err := o.renderScene(ctx, rc, rec); err != nil {
			return err
		}
		if err := o.toneMapToSDR(ctx, rc, rec); err != nil {
			return err
		}
	} else if p.Mode == plan.RenderModeWireframe && v.SceneCapable() {
		// Wireframe-only path: no scene-linear content is produced,
		// draw straight to the composite-eligible target.
		o.bindSDR(rc, rec)
		if err := o.runPass(ctx, o.passes.Wireframe, rc, rec); err != nil {
			return err
		}
	}

	if v.SDR != nil {
		if err := o.renderOverlays(ctx, rc, rec); err != nil {
			return err
		}
		rec.RequireResourceState(v.SDR.Color, device.ResourceStateShaderResource)
		rec.FlushBarriers()
	}
	return nil
}

// buildRenderContext assembles the per-view, per-frame pass parameters.
// The target wiring is explicit and by value: passes never share mutable
// configuration between views.
func (o *Orchestrator) buildRenderContext(v *view.State, p plan.RenderPlan) *RenderContext {
	rc := &RenderContext{
		View:     v,
		Plan:     p,
		Settings: o.settings,
		ToneMap:  o.toneMapFor(p),
		Viewport: v.Intent.Viewport,
		Registry: NewRegistry(),
	}
	if v.HDR != nil {
		rc.Target.HDRColor = v.HDR.Color
		rc.Target.Depth = v.HDR.Depth
		rc.Target.HDRFramebuffer = v.HDR.Framebuffer
	}
	if v.SDR != nil {
		rc.Target.SDRColor = v.SDR.Color
		rc.Target.SDRFramebuffer = v.SDR.Framebuffer
	}
	if in := o.plans.Inputs(); in.PendingExposureReset != nil && in.AutoExposure {
		lum := o.settings.LuminanceFromEV(*in.PendingExposureReset)
		rc.ExposureResetLuminance = &lum
	}
	return rc
}

// toneMapFor resolves the effective tone-map configuration from the
// plan's policy. Neutral substitutes the pass-through configuration for
// this view only; the committed settings are untouched, so no restore
// step exists to forget.
func (o *Orchestrator) toneMapFor(p plan.RenderPlan) ToneMapConfig {
	if p.ToneMap == plan.ToneMapNeutral {
		return NeutralToneMap()
	}
	return o.settings.ToneMap
}

// renderScene runs the scene-linear pass sequence against the HDR target.
func (o *Orchestrator) renderScene(ctx context.Context, rc *RenderContext, rec device.CommandRecorder) error {
	hdr := rc.View.HDR

	rec.RequireResourceState(hdr.Color, device.ResourceStateRenderTarget)
	rec.RequireResourceState(hdr.Depth, device.ResourceStateDepthWrite)
	rec.FlushBarriers()
	rec.BindFramebuffer(hdr.Framebuffer)
	rec.ClearFramebuffer(hdr.Framebuffer)

	if rc.Settings.GPUDebugEnabled {
		if err := o.runPass(ctx, o.passes.DebugClear, rc, rec); err != nil {
			return err
		}
	}
	if err := o.runPass(ctx, o.passes.DepthPrePass, rc, rec); err != nil {
		return err
	}
	if rc.Plan.RunSkyLUTUpdate {
		if err := o.runPass(ctx, o.passes.SkyLUT, rc, rec); err != nil {
			return err
		}
	}
	// Sky renders after depth so it can depth-test and shade only
	// background pixels.
	if rc.Plan.RunSkyPass {
		if err := o.runPass(ctx, o.passes.Sky, rc, rec); err != nil {
			return err
		}
	}
	if err := o.runPass(ctx, o.passes.LightCull, rc, rec); err != nil {
		return err
	}
	if err := o.runPass(ctx, o.passes.Shader, rc, rec); err != nil {
		return err
	}
	if err := o.runPass(ctx, o.passes.Transparent, rc, rec); err != nil {
		return err
	}
	if rc.Settings.ToneMap.Mode == ExposureAuto {
		if err := o.runPass(ctx, o.passes.AutoExposure, rc, rec); err != nil {
			return err
		}
	}
	if rc.Settings.GroundGridEnabled {
		if err := o.runPass(ctx, o.passes.GroundGrid, rc, rec); err != nil {
			return err
		}
	}
	return nil
}

// toneMapToSDR resolves the scene-linear result into the SDR target.
func (o *Orchestrator) toneMapToSDR(ctx context.Context, rc *RenderContext, rec device.CommandRecorder) error {
	v := rc.View
	rec.RequireResourceState(v.HDR.Color, device.ResourceStateShaderResource)
	rec.RequireResourceState(v.SDR.Color, device.ResourceStateRenderTarget)
	rec.FlushBarriers()
	rec.BindFramebuffer(v.SDR.Framebuffer)
	rc.sdrBound = true
	return o.runPass(ctx, o.passes.ToneMap, rc, rec)
}

// bindSDR makes the SDR framebuffer the render target. Idempotent per
// view: a second call this view does nothing. The target is cleared on
// first bind when the view asked for it, or on the wireframe-only scene
// path where the SDR texture holds stale content. A composite-only
// view's SDR texture carries host-supplied content and is never cleared
// by the render mode alone.
func (o *Orchestrator) bindSDR(rc *RenderContext, rec device.CommandRecorder) {
	if rc.sdrBound {
		return
	}
	v := rc.View
	rec.RequireResourceState(v.SDR.Color, device.ResourceStateRenderTarget)
	rec.FlushBarriers()
	rec.BindFramebuffer(v.SDR.Framebuffer)
	if v.Intent.ShouldClear || (rc.Plan.Mode == plan.RenderModeWireframe && v.SceneCapable()) {
		rec.ClearFramebuffer(v.SDR.Framebuffer)
	}
	rc.sdrBound = true
}

// renderOverlays runs the composite-path overlay sequence on the SDR
// target.
func (o *Orchestrator) renderOverlays(ctx context.Context, rc *RenderContext, rec device.CommandRecorder) error {
	v := rc.View
	o.bindSDR(rc, rec)

	if rc.Plan.RunOverlayWireframe {
		cam := v.Intent.Camera
		if cam == nil || !cam.Live() || cam.SceneID() != o.activeScene {
			panic(fmt.Sprintf("pipeline: overlay wireframe for view %q without a live camera in the active scene", v.Intent.ID))
		}
		if err := o.runPass(ctx, o.passes.OverlayWireframe, rc, rec); err != nil {
			return err
		}
	}

	if v.Intent.Overlay != nil {
		if err := v.Intent.Overlay(ctx, rec); err != nil {
			return fmt.Errorf("pipeline: view %q overlay callback: %w", v.Intent.ID, err)
		}
	}

	if v.Intent.ZOrder == view.ZLayerTools {
		if err := o.runPass(ctx, o.passes.Tools, rc, rec); err != nil {
			return err
		}
	}

	if v.SceneCapable() && v.Intent.ZOrder == view.ZLayerScene &&
		rc.Settings.GPUDebugEnabled && rc.Plan.Mode != plan.RenderModeWireframe {
		if err := o.runPass(ctx, o.passes.DebugOverlay, rc, rec); err != nil {
			return err
		}
	}
	return nil
}

// runPass executes one pass through its two-phase contract. A nil pass is
// an optional capability that is not constructed; it is skipped silently.
// Executed passes self-register with the frame's registry.
func (o *Orchestrator) runPass(ctx context.Context, p Pass, rc *RenderContext, rec device.CommandRecorder) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.PrepareResources(ctx, rc, rec); err != nil {
		return fmt.Errorf("pipeline: %s prepare: %w", p.Name(), err)
	}
	if err := p.Execute(ctx, rc, rec); err != nil {
		return fmt.Errorf("pipeline: %s execute: %w", p.Name(), err)
	}
	rc.Registry.Add(p)
	return nil
}

// Ensure RenderView satisfies the engine callback contract.
var _ engine.RenderCallback = (*Orchestrator)(nil).RenderView
