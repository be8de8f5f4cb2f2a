// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"context"

	"github.com/gogpu/stage/device"
)

// MemEngine is an in-memory Engine implementation.
//
// It stores registrations in a plain map and can drive callbacks through
// RenderAll, which is enough for headless hosts and tests. A production
// engine schedules callbacks inside its own frame graph instead.
type MemEngine struct {
	graphs map[string]memGraph

	// Unregistered counts UnregisterViewRenderGraph calls per identity,
	// including calls for unknown identities.
	Unregistered map[string]int
}

type memGraph struct {
	cb  RenderCallback
	cam CameraResolver
}

// NewMemEngine creates an empty in-memory engine.
func NewMemEngine() *MemEngine {
	return &MemEngine{
		graphs:       make(map[string]memGraph),
		Unregistered: make(map[string]int),
	}
}

// RegisterViewRenderGraph stores the callback for the identity.
// Registering an identity twice replaces the previous callback.
func (e *MemEngine) RegisterViewRenderGraph(id string, cb RenderCallback, cam CameraResolver) error {
	e.graphs[id] = memGraph{cb: cb, cam: cam}
	return nil
}

// UnregisterViewRenderGraph removes the registration for the identity.
func (e *MemEngine) UnregisterViewRenderGraph(id string) error {
	delete(e.graphs, id)
	e.Unregistered[id]++
	return nil
}

// Registered reports whether the identity has a registered render graph.
func (e *MemEngine) Registered(id string) bool {
	_, ok := e.graphs[id]
	return ok
}

// Resolver returns the camera resolver registered for the identity, or nil.
func (e *MemEngine) Resolver(id string) CameraResolver {
	return e.graphs[id].cam
}

// Render invokes the callback registered for the identity, if any.
func (e *MemEngine) Render(ctx context.Context, id string, rec device.CommandRecorder, h ViewHandle) error {
	g, ok := e.graphs[id]
	if !ok {
		return nil
	}
	return g.cb(ctx, rec, h)
}

// Ensure MemEngine implements Engine.
var _ Engine = (*MemEngine)(nil)

// MemFrameContext is an in-memory FrameContext implementation.
//
// Handles are assigned from a counter starting at 1 so that
// InvalidViewHandle never collides with a live registration.
type MemFrameContext struct {
	frame  uint64
	next   ViewHandle
	views  map[ViewHandle]ViewContext
	remove map[ViewHandle]int
}

// NewMemFrameContext creates a frame context at frame zero.
func NewMemFrameContext() *MemFrameContext {
	return &MemFrameContext{
		next:   1,
		views:  make(map[ViewHandle]ViewContext),
		remove: make(map[ViewHandle]int),
	}
}

// AdvanceFrame increments the frame sequence number.
func (fc *MemFrameContext) AdvanceFrame() { fc.frame++ }

// FrameSequence returns the current frame number.
func (fc *MemFrameContext) FrameSequence() uint64 { return fc.frame }

// RegisterView adds a view and returns a fresh handle.
func (fc *MemFrameContext) RegisterView(vc ViewContext) ViewHandle {
	h := fc.next
	fc.next++
	fc.views[h] = vc
	return h
}

// UpdateView replaces the context of an existing registration.
func (fc *MemFrameContext) UpdateView(h ViewHandle, vc ViewContext) {
	if _, ok := fc.views[h]; ok {
		fc.views[h] = vc
	}
}

// RemoveView revokes a registration.
func (fc *MemFrameContext) RemoveView(h ViewHandle) {
	delete(fc.views, h)
	fc.remove[h]++
}

// View returns the context registered under h.
func (fc *MemFrameContext) View(h ViewHandle) (ViewContext, bool) {
	vc, ok := fc.views[h]
	return vc, ok
}

// ViewCount returns the number of live registrations.
func (fc *MemFrameContext) ViewCount() int { return len(fc.views) }

// RemoveCount returns how many times h has been removed.
func (fc *MemFrameContext) RemoveCount(h ViewHandle) int { return fc.remove[h] }

// Ensure MemFrameContext implements FrameContext.
var _ FrameContext = (*MemFrameContext)(nil)
