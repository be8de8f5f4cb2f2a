// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package device defines the graphics-device contracts consumed by stage.
//
// stage RECEIVES its device from the host application, it does NOT create
// one. The host (e.g. a gogpu.App) implements Device and CommandRecorder on
// top of its own GPU stack and hands them to the view lifecycle service and
// the pipeline orchestrator. This mirrors the gpucontext integration model:
// shared GPU resources, zero device creation overhead inside stage.
//
// The package also provides MemDevice, an in-memory implementation backed
// by CPU images, used for headless rendering and tests.
package device

import (
	"errors"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
)

// Device errors.
var (
	// ErrInvalidTextureSize is returned when texture dimensions are zero.
	ErrInvalidTextureSize = errors.New("device: invalid texture size")

	// ErrNoAttachments is returned when a framebuffer is created without
	// any color or depth attachment.
	ErrNoAttachments = errors.New("device: framebuffer has no attachments")

	// ErrDestroyed is returned when operating on a destroyed resource.
	ErrDestroyed = errors.New("device: resource has been destroyed")
)

// Handle provides GPU device access from the host application.
//
// Handle is an alias for gpucontext.DeviceProvider, providing a
// stage-specific name for the interface while maintaining full
// compatibility with the gpucontext ecosystem. Hosts that already expose a
// DeviceProvider need no adapter code.
type Handle = gpucontext.DeviceProvider

// TextureDescriptor describes parameters for creating a texture.
// This mirrors the WebGPU GPUTextureDescriptor specification.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Size is the texture dimensions. Depth is 1 for regular 2D textures.
	Size types.Extent3D

	// MipLevelCount is the number of mipmap levels. Use 1 for no mipmaps.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling.
	// Use 1 for no multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be used in a texture binding.
	TextureUsageTextureBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment

	// TextureUsageDepthStencil allows the texture to be used as a depth/stencil attachment.
	TextureUsageDepthStencil
)

// DefaultTextureDescriptor returns a TextureDescriptor with sensible
// defaults for a render-target texture. Only the size and format vary
// between the targets stage creates.
func DefaultTextureDescriptor(label string, width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Label:         label,
		Size:          types.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// DepthTextureDescriptor returns a TextureDescriptor for a depth attachment.
func DepthTextureDescriptor(label string, width, height uint32) TextureDescriptor {
	return TextureDescriptor{
		Label:         label,
		Size:          types.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        gputypes.TextureFormatDepth32Float,
		Usage:         TextureUsageDepthStencil,
	}
}

// Texture represents a GPU texture resource.
type Texture interface {
	// Label returns the debug label the texture was created with.
	Label() string

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// Destroy releases GPU resources associated with this texture.
	Destroy()
}

// FramebufferDescriptor describes a framebuffer to create.
type FramebufferDescriptor struct {
	// Label is an optional debug label for the framebuffer.
	Label string

	// ColorAttachments are the color targets, in attachment order.
	ColorAttachments []Texture

	// DepthAttachment is the optional depth target.
	DepthAttachment Texture

	// ClearColor is the color used when the framebuffer is cleared.
	ClearColor types.Color
}

// Framebuffer represents a set of render attachments that can be bound as
// the current render target.
type Framebuffer interface {
	// Label returns the debug label the framebuffer was created with.
	Label() string

	// ColorAttachment returns the color attachment at the given index,
	// or nil if no such attachment exists.
	ColorAttachment(index int) Texture

	// DepthAttachment returns the depth attachment, or nil.
	DepthAttachment() Texture

	// ClearColor returns the resolved clear color for this framebuffer.
	ClearColor() types.Color

	// Destroy releases the framebuffer. Attachments are not destroyed;
	// their lifetime belongs to whoever created them.
	Destroy()
}

// Device creates GPU resources on behalf of stage.
//
// Creation failures are environmental (device lost, out of memory) and are
// returned as errors; stage propagates them without retrying.
type Device interface {
	// CreateTexture creates a texture from the descriptor.
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// CreateFramebuffer creates a framebuffer from the descriptor.
	CreateFramebuffer(desc FramebufferDescriptor) (Framebuffer, error)
}
