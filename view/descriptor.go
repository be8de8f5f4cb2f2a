// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package view owns per-view runtime state for the composition pipeline.
//
// The host re-supplies a descriptor list every frame; the Service keeps a
// pool of runtime states keyed by view identity, lazily (re)creates render
// targets when a view's parameters change, publishes views to the engine in
// deterministic order, and reaps views the host has stopped requesting.
package view

import (
	"context"

	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	types "github.com/gogpu/gputypes"
)

// ID is a stable, host-chosen view identity. Descriptors with the same ID
// refer to the same view across frames.
type ID string

// Z-order layers with dedicated pipeline behavior. Hosts are free to use
// any z-order; these two select the tools overlay pass and the GPU debug
// overlay pass respectively.
const (
	// ZLayerScene is the layer scene-camera views are expected on.
	ZLayerScene = 0

	// ZLayerTools is the layer reserved for the tools/UI overlay view.
	ZLayerTools = 100
)

// OverlayFunc is a host-supplied callback drawing overlay content into the
// view's composite-eligible target after the pipeline's own passes.
type OverlayFunc func(ctx context.Context, rec device.CommandRecorder) error

// Descriptor is a composition view request, immutable for one frame.
//
// The host re-supplies the full descriptor list every frame; descriptors
// are not owned or retained by the pipeline beyond the sync that consumes
// them.
type Descriptor struct {
	// ID is the stable view identity.
	ID ID

	// Viewport is the view's placement on the composition target.
	// A zero-sized viewport means "infer from the composition target".
	Viewport engine.Viewport

	// ZOrder is the compositing order; lower values composite first
	// (and are therefore occluded by higher ones).
	ZOrder int

	// HDR enables the scene-linear high dynamic range path.
	HDR bool

	// ClearColor is used when the view's render target is cleared.
	ClearColor types.Color

	// Opacity is the view's compositing opacity. A zero value is
	// treated as fully opaque so that zero-value descriptors remain
	// visible.
	Opacity float32

	// Camera is the view's scene camera, or nil for composite-only
	// views.
	Camera engine.Camera

	// ForceWireframe renders the view's scene content in wireframe
	// regardless of the frame render mode.
	ForceWireframe bool

	// ShouldClear clears the composite-eligible target when it is first
	// bound. The scene-linear target is always cleared before scene
	// passes run, independent of this flag.
	ShouldClear bool

	// WithAtmosphere requests sky-atmosphere participation for this view.
	WithAtmosphere bool

	// Overlay is an optional host callback invoked on the composite
	// path after the pipeline's own overlay passes.
	Overlay OverlayFunc
}
