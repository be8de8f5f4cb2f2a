// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"context"

	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	"github.com/gogpu/stage/plan"
	"github.com/gogpu/stage/view"
)

// Pass is one rendering pass in the per-view sequence.
//
// Passes follow a two-phase contract: PrepareResources acquires or
// transitions whatever the pass needs, then Execute records its commands.
// Both may suspend on ctx while waiting on GPU submission or resource
// availability; ctx is cancelled with the enclosing frame scope.
//
// Passes are pure functions of the RenderContext they receive: the target
// textures, plan, and settings arrive as explicit per-call parameters, so
// a pass instance holds no per-view state between calls. Execution is
// still strictly sequential per frame.
type Pass interface {
	// Name identifies the pass in the registry and diagnostics.
	Name() string

	// PrepareResources acquires resources for this view's execution.
	PrepareResources(ctx context.Context, rc *RenderContext, rec device.CommandRecorder) error

	// Execute records the pass's commands for this view.
	Execute(ctx context.Context, rc *RenderContext, rec device.CommandRecorder) error
}

// Registry is the frame's pass registry. Passes self-register when they
// execute so downstream consumers (later passes, debug tooling) can find
// the passes that actually ran this frame.
type Registry struct {
	passes map[string]Pass
	order  []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{passes: make(map[string]Pass)}
}

// Reset clears the registry for a new view's execution.
func (r *Registry) Reset() {
	clear(r.passes)
	r.order = r.order[:0]
}

// Add registers an executed pass under its name.
func (r *Registry) Add(p Pass) {
	if _, ok := r.passes[p.Name()]; !ok {
		r.order = append(r.order, p.Name())
	}
	r.passes[p.Name()] = p
}

// Lookup returns the executed pass with the given name, or nil.
func (r *Registry) Lookup(name string) Pass {
	return r.passes[name]
}

// Names returns executed pass names in execution order.
func (r *Registry) Names() []string {
	return r.order
}

// PassTarget wires a pass to this view's textures. It is rebuilt for
// every view and passed by value inside the RenderContext: passes never
// retain texture references across a view boundary.
type PassTarget struct {
	// HDRColor is the scene-linear color texture, nil for SDR-only views.
	HDRColor device.Texture

	// Depth is the depth texture, nil for SDR-only views.
	Depth device.Texture

	// SDRColor is the composite-eligible color texture.
	SDRColor device.Texture

	// HDRFramebuffer binds the scene-linear attachments.
	HDRFramebuffer device.Framebuffer

	// SDRFramebuffer binds the composite-eligible attachment.
	SDRFramebuffer device.Framebuffer
}

// RenderContext carries everything a pass needs for one view's execution
// in one frame. It is built by the orchestrator per view and discarded
// afterwards.
type RenderContext struct {
	// View is the view being rendered.
	View *view.State

	// Plan is the view's resolved render plan.
	Plan plan.RenderPlan

	// Settings is the committed frame settings snapshot.
	Settings Settings

	// ToneMap is the effective tone-map configuration for this view,
	// after the plan's policy is applied.
	ToneMap ToneMapConfig

	// Target wires the pass to this view's textures.
	Target PassTarget

	// Viewport is the view's placement on the composition target.
	Viewport engine.Viewport

	// Registry collects the passes that executed for this view.
	Registry *Registry

	// ExposureResetLuminance is a one-shot auto-exposure reset in cd/m²,
	// or nil. Consumed by the auto-exposure pass.
	ExposureResetLuminance *float32

	// sdrBound tracks whether the SDR framebuffer is already bound this
	// view, making bindSDR idempotent.
	sdrBound bool
}
