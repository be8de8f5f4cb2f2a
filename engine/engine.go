// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine defines the rendering-engine contracts consumed and
// produced by stage.
//
// The engine owns the render graph and the frame loop. stage registers a
// render callback per composition view; the engine invokes it once per
// registered view per frame, in registration-independent order resolved by
// the frame context. Like the device layer, the engine is provided by the
// host: stage only needs the narrow surface declared here.
package engine

import (
	"context"
	"fmt"

	"github.com/gogpu/stage/device"
)

// ViewHandle identifies a view registered with the engine for one or more
// frames. Handles are engine-assigned and opaque to stage.
type ViewHandle uint64

// InvalidViewHandle is the zero handle, held by views that have not yet
// been published to the engine.
const InvalidViewHandle ViewHandle = 0

// ViewPurpose declares what a published view renders.
type ViewPurpose int

const (
	// PurposeScene marks a view that renders scene content through the
	// full pass sequence.
	PurposeScene ViewPurpose = iota

	// PurposeOverlay marks a view that only composites overlay content.
	PurposeOverlay
)

// String returns the string representation of ViewPurpose.
func (p ViewPurpose) String() string {
	switch p {
	case PurposeScene:
		return "Scene"
	case PurposeOverlay:
		return "Overlay"
	default:
		return fmt.Sprintf("Unknown(%d)", int(p))
	}
}

// SceneID identifies a scene owned by the host.
type SceneID uint64

// Camera is the minimal camera surface stage needs: liveness (the scene
// node still exists) and scene membership. Camera resolution itself
// (transforms, projection) belongs to the host's scene graph.
type Camera interface {
	// Live reports whether the camera's scene node still exists.
	Live() bool

	// SceneID returns the scene the camera belongs to.
	SceneID() SceneID
}

// CameraResolver returns the camera for a view at render time.
// A resolver may return nil when the view has no camera.
type CameraResolver func() Camera

// ConstantCamera returns a CameraResolver that always yields cam.
// This is the resolver shape stage builds from a view descriptor, where
// the camera binding is fixed for the lifetime of the registration.
func ConstantCamera(cam Camera) CameraResolver {
	return func() Camera { return cam }
}

// RenderCallback renders one registered view for the current frame.
//
// The engine invokes callbacks strictly sequentially under its cooperative
// scheduler; ctx is cancelled when the enclosing frame scope is cancelled,
// at which point in-flight work for the frame is abandoned.
type RenderCallback func(ctx context.Context, rec device.CommandRecorder, h ViewHandle) error

// Viewport is a view's placement on the composition target, in pixels.
type Viewport struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// Empty reports whether the viewport has zero area.
func (v Viewport) Empty() bool { return v.Width == 0 || v.Height == 0 }

// ViewContext is the engine-facing description of a published view.
type ViewContext struct {
	// Name identifies the view in engine diagnostics.
	Name string

	// Purpose declares scene versus overlay rendering.
	Purpose ViewPurpose

	// Viewport is the view's placement on the composition target.
	Viewport Viewport

	// Camera is the view's camera, or nil.
	Camera Camera

	// RenderTarget is the framebuffer scene passes render into.
	RenderTarget device.Framebuffer

	// CompositeSource is the framebuffer whose first color attachment is
	// blended into the final output.
	CompositeSource device.Framebuffer
}

// Engine is the render-graph registration surface of the host engine.
type Engine interface {
	// RegisterViewRenderGraph registers a render callback for the view
	// identity, with a resolver supplying the view's camera.
	RegisterViewRenderGraph(id string, cb RenderCallback, cam CameraResolver) error

	// UnregisterViewRenderGraph removes the registration for the view
	// identity. Unregistering an unknown identity is a no-op.
	UnregisterViewRenderGraph(id string) error
}

// FrameContext is the engine's per-frame view table.
//
// RegisterView and UpdateView have upsert semantics from stage's side: a
// still-active handle is never torn down, only updated in place.
type FrameContext interface {
	// FrameSequence returns the monotonically increasing frame number.
	FrameSequence() uint64

	// RegisterView adds a view and returns its engine-assigned handle.
	RegisterView(vc ViewContext) ViewHandle

	// UpdateView replaces the context of an existing registration.
	UpdateView(h ViewHandle, vc ViewContext)

	// RemoveView revokes a registration. Removing an unknown handle is
	// a no-op.
	RemoveView(h ViewHandle)
}
