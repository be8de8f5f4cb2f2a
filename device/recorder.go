// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import "fmt"

// ResourceState identifies the GPU usage state a resource must be in
// before a command that touches it is recorded.
type ResourceState int

const (
	// ResourceStateUndefined is the state of a resource that has never
	// been transitioned. Tracking usually begins here.
	ResourceStateUndefined ResourceState = iota

	// ResourceStateRenderTarget allows the resource to be written as a
	// color attachment.
	ResourceStateRenderTarget

	// ResourceStateDepthWrite allows the resource to be written as a
	// depth attachment.
	ResourceStateDepthWrite

	// ResourceStateShaderResource allows the resource to be sampled from
	// a shader.
	ResourceStateShaderResource

	// ResourceStateCopySrc allows the resource to be a copy source.
	ResourceStateCopySrc

	// ResourceStatePresent allows the resource to be presented.
	ResourceStatePresent
)

// String returns the string representation of ResourceState.
func (s ResourceState) String() string {
	switch s {
	case ResourceStateUndefined:
		return "Undefined"
	case ResourceStateRenderTarget:
		return "RenderTarget"
	case ResourceStateDepthWrite:
		return "DepthWrite"
	case ResourceStateShaderResource:
		return "ShaderResource"
	case ResourceStateCopySrc:
		return "CopySrc"
	case ResourceStatePresent:
		return "Present"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// CommandRecorder records GPU commands and barrier transitions for one
// command stream.
//
// stage uses a manual synchronization discipline: every resource is put
// into the correct state with RequireResourceState immediately before the
// operation that needs it, and FlushBarriers is called before any command
// that depends on the new state. Nothing is tracked implicitly.
//
// Thread Safety: a CommandRecorder is NOT safe for concurrent use. All
// commands for one frame are recorded from a single cooperative task.
type CommandRecorder interface {
	// BeginTrackingResourceState starts barrier tracking for a resource,
	// declaring its current state. Tracking a resource that is already
	// tracked is a host error; check IsResourceTracked first.
	BeginTrackingResourceState(t Texture, current ResourceState)

	// IsResourceTracked reports whether the resource is already tracked
	// in this command stream.
	IsResourceTracked(t Texture) bool

	// RequireResourceState records a pending transition of the resource
	// into the given state. The transition takes effect at the next
	// FlushBarriers call.
	RequireResourceState(t Texture, state ResourceState)

	// FlushBarriers emits all pending resource transitions.
	FlushBarriers()

	// BindFramebuffer makes the framebuffer the current render target.
	BindFramebuffer(fb Framebuffer)

	// ClearFramebuffer clears the bound framebuffer's color attachments
	// to the framebuffer's resolved clear color.
	ClearFramebuffer(fb Framebuffer)
}
