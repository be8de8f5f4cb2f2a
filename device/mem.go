// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
)

// MemDevice is an in-memory Device implementation.
//
// Color textures are backed by *image.RGBA so that the software compositor
// and tests can read rendered pixels without GPU readback. Depth textures
// carry no storage. MemDevice counts every allocation, which lets tests
// assert that resource management is lazy (no allocations for an unchanged
// view).
//
// MemDevice is intended for headless rendering and tests. It is not safe
// for concurrent use; like a real device queue it expects a single
// cooperative owner.
type MemDevice struct {
	textureCreates     int
	framebufferCreates int
}

// NewMemDevice creates an empty in-memory device.
func NewMemDevice() *MemDevice {
	return &MemDevice{}
}

// TextureCreates returns the number of textures created so far.
func (d *MemDevice) TextureCreates() int { return d.textureCreates }

// FramebufferCreates returns the number of framebuffers created so far.
func (d *MemDevice) FramebufferCreates() int { return d.framebufferCreates }

// CreateTexture creates an in-memory texture.
func (d *MemDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	if desc.Size.Width == 0 || desc.Size.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTextureSize, desc.Size.Width, desc.Size.Height)
	}
	d.textureCreates++
	t := &MemTexture{
		label:  desc.Label,
		width:  desc.Size.Width,
		height: desc.Size.Height,
		format: desc.Format,
	}
	if desc.Usage&TextureUsageDepthStencil == 0 {
		t.img = image.NewRGBA(image.Rect(0, 0, int(desc.Size.Width), int(desc.Size.Height)))
	}
	return t, nil
}

// CreateFramebuffer creates an in-memory framebuffer.
func (d *MemDevice) CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error) {
	if len(desc.ColorAttachments) == 0 && desc.DepthAttachment == nil {
		return nil, ErrNoAttachments
	}
	d.framebufferCreates++
	return &MemFramebuffer{
		label: desc.Label,
		color: desc.ColorAttachments,
		depth: desc.DepthAttachment,
		clear: desc.ClearColor,
	}, nil
}

// Ensure MemDevice implements Device.
var _ Device = (*MemDevice)(nil)

// MemTexture is a CPU-backed texture created by MemDevice.
type MemTexture struct {
	label     string
	width     uint32
	height    uint32
	format    gputypes.TextureFormat
	img       *image.RGBA
	destroyed bool
}

// Label returns the debug label.
func (t *MemTexture) Label() string { return t.label }

// Width returns the texture width in pixels.
func (t *MemTexture) Width() uint32 { return t.width }

// Height returns the texture height in pixels.
func (t *MemTexture) Height() uint32 { return t.height }

// Format returns the texture pixel format.
func (t *MemTexture) Format() gputypes.TextureFormat { return t.format }

// Image returns the backing image, or nil for depth textures.
// The returned image shares memory with the texture.
func (t *MemTexture) Image() *image.RGBA { return t.img }

// Destroyed reports whether Destroy has been called.
func (t *MemTexture) Destroyed() bool { return t.destroyed }

// Destroy releases the texture storage.
func (t *MemTexture) Destroy() {
	t.destroyed = true
	t.img = nil
}

// Ensure MemTexture implements Texture.
var _ Texture = (*MemTexture)(nil)

// MemFramebuffer is a framebuffer created by MemDevice.
type MemFramebuffer struct {
	label     string
	color     []Texture
	depth     Texture
	clear     types.Color
	destroyed bool
}

// Label returns the debug label.
func (fb *MemFramebuffer) Label() string { return fb.label }

// ColorAttachment returns the color attachment at index, or nil.
func (fb *MemFramebuffer) ColorAttachment(index int) Texture {
	if index < 0 || index >= len(fb.color) {
		return nil
	}
	return fb.color[index]
}

// DepthAttachment returns the depth attachment, or nil.
func (fb *MemFramebuffer) DepthAttachment() Texture { return fb.depth }

// ClearColor returns the resolved clear color.
func (fb *MemFramebuffer) ClearColor() types.Color { return fb.clear }

// Destroyed reports whether Destroy has been called.
func (fb *MemFramebuffer) Destroyed() bool { return fb.destroyed }

// Destroy releases the framebuffer. Attachments are left alone.
func (fb *MemFramebuffer) Destroy() { fb.destroyed = true }

// Ensure MemFramebuffer implements Framebuffer.
var _ Framebuffer = (*MemFramebuffer)(nil)

// RecorderOp is one recorded CommandRecorder operation, in a printable
// form used by tests to assert command ordering.
type RecorderOp struct {
	// Op is the operation name (e.g. "RequireResourceState").
	Op string

	// Target is the label of the texture or framebuffer involved.
	Target string

	// State is the requested state, for state transitions.
	State ResourceState
}

// MemRecorder is a CommandRecorder that records operations instead of
// issuing GPU commands. It tracks resource states the way a barrier
// tracker would, so tests can verify the manual synchronization
// discipline (track, require, flush, bind, clear).
type MemRecorder struct {
	tracked map[Texture]ResourceState
	pending map[Texture]ResourceState
	bound   Framebuffer
	ops     []RecorderOp
}

// NewMemRecorder creates an empty recorder.
func NewMemRecorder() *MemRecorder {
	return &MemRecorder{
		tracked: make(map[Texture]ResourceState),
		pending: make(map[Texture]ResourceState),
	}
}

// Ops returns the recorded operations in order.
func (r *MemRecorder) Ops() []RecorderOp { return r.ops }

// Bound returns the currently bound framebuffer, or nil.
func (r *MemRecorder) Bound() Framebuffer { return r.bound }

// TrackedState returns the last flushed state of a tracked texture.
func (r *MemRecorder) TrackedState(t Texture) (ResourceState, bool) {
	s, ok := r.tracked[t]
	return s, ok
}

// BeginTrackingResourceState starts tracking a resource.
func (r *MemRecorder) BeginTrackingResourceState(t Texture, current ResourceState) {
	r.tracked[t] = current
	r.ops = append(r.ops, RecorderOp{Op: "BeginTrackingResourceState", Target: t.Label(), State: current})
}

// IsResourceTracked reports whether the resource is tracked.
func (r *MemRecorder) IsResourceTracked(t Texture) bool {
	_, ok := r.tracked[t]
	return ok
}

// RequireResourceState records a pending transition.
func (r *MemRecorder) RequireResourceState(t Texture, state ResourceState) {
	r.pending[t] = state
	r.ops = append(r.ops, RecorderOp{Op: "RequireResourceState", Target: t.Label(), State: state})
}

// FlushBarriers applies all pending transitions.
func (r *MemRecorder) FlushBarriers() {
	for t, s := range r.pending {
		r.tracked[t] = s
	}
	clear(r.pending)
	r.ops = append(r.ops, RecorderOp{Op: "FlushBarriers"})
}

// BindFramebuffer makes fb the current render target.
func (r *MemRecorder) BindFramebuffer(fb Framebuffer) {
	r.bound = fb
	r.ops = append(r.ops, RecorderOp{Op: "BindFramebuffer", Target: fb.Label()})
}

// ClearFramebuffer records a clear of fb.
func (r *MemRecorder) ClearFramebuffer(fb Framebuffer) {
	r.ops = append(r.ops, RecorderOp{Op: "ClearFramebuffer", Target: fb.Label()})
}

// Ensure MemRecorder implements CommandRecorder.
var _ CommandRecorder = (*MemRecorder)(nil)
