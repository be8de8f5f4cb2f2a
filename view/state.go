// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package view

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	types "github.com/gogpu/gputypes"
)

// Render-target formats used by the pipeline.
const (
	// HDRColorFormat is the scene-linear color format.
	HDRColorFormat = gputypes.TextureFormatRGBA16Float

	// SDRColorFormat is the tone-mapped, presentation-ready format.
	SDRColorFormat = gputypes.TextureFormatBGRA8Unorm
)

// TargetSet is one complete render target: a color texture, an optional
// depth texture, and the framebuffer binding them. Modeling the set as a
// single value keeps "HDR resources present" a one-field check instead of
// three nullable ones.
type TargetSet struct {
	// Color is the color attachment.
	Color device.Texture

	// Depth is the depth attachment, nil for SDR sets.
	Depth device.Texture

	// Framebuffer binds the attachments.
	Framebuffer device.Framebuffer
}

// Destroy releases the set's framebuffer and textures.
func (ts *TargetSet) Destroy() {
	if ts == nil {
		return
	}
	if ts.Framebuffer != nil {
		ts.Framebuffer.Destroy()
	}
	if ts.Color != nil {
		ts.Color.Destroy()
	}
	if ts.Depth != nil {
		ts.Depth.Destroy()
	}
}

// targetParams are the derived values EnsureResources computed last time.
// They are the staleness check: when nothing changed and the matching
// resources exist, no GPU work is done.
type targetParams struct {
	valid  bool
	width  uint32
	height uint32
	hdr    bool
	clear  types.Color
}

// State is the runtime state of one view identity. It persists across
// frames until the reaper erases it.
//
// Invariant: HDR and SDR are valid and sized consistently with Intent, or
// absent while (re)creation is in progress. EnsureResources is the sole
// place these resources are created.
type State struct {
	// Intent is the last-synced descriptor.
	Intent Descriptor

	// SubmissionIndex is the view's position in this frame's host
	// descriptor list. Tie-breaker for equal z-orders.
	SubmissionIndex int

	// LastSeenFrame is the frame sequence number of the last sync that
	// included this view.
	LastSeenFrame uint64

	// HDR is the scene-linear target set, nil when the view is SDR-only.
	HDR *TargetSet

	// SDR is the composite-eligible target set.
	SDR *TargetSet

	// Handle is the engine registration, InvalidViewHandle until the
	// first publish.
	Handle engine.ViewHandle

	registered bool
	derived    targetParams
}

// SceneCapable reports whether the view carries a camera and therefore
// renders scene content.
func (s *State) SceneCapable() bool { return s.Intent.Camera != nil }

// EnsureResources recomputes the view's target parameters from its intent
// and (re)creates GPU resources if anything changed. It is idempotent:
// calling it again with an unchanged intent performs no device calls.
//
// Safe to call with the view in any prior state, including freshly
// inserted (no resources) or previously HDR and now SDR-only.
func (s *State) EnsureResources(dev device.Device) error {
	width := s.Intent.Viewport.Width
	if width < 1 {
		width = 1
	}
	height := s.Intent.Viewport.Height
	if height < 1 {
		height = 1
	}
	hdr := s.Intent.HDR
	clear := s.Intent.ClearColor

	matching := s.SDR
	if hdr {
		matching = s.HDR
	}
	if s.derived.valid &&
		s.derived.width == width && s.derived.height == height &&
		s.derived.hdr == hdr && s.derived.clear == clear &&
		matching != nil {
		return nil
	}

	name := string(s.Intent.ID)

	if hdr {
		s.HDR.Destroy()
		s.HDR = nil

		color, err := dev.CreateTexture(device.DefaultTextureDescriptor(name+"/hdr-color", width, height, HDRColorFormat))
		if err != nil {
			return fmt.Errorf("view %q: create HDR color: %w", name, err)
		}
		depth, err := dev.CreateTexture(device.DepthTextureDescriptor(name+"/depth", width, height))
		if err != nil {
			return fmt.Errorf("view %q: create depth: %w", name, err)
		}
		fb, err := dev.CreateFramebuffer(device.FramebufferDescriptor{
			Label:            name + "/hdr",
			ColorAttachments: []device.Texture{color},
			DepthAttachment:  depth,
			ClearColor:       clear,
		})
		if err != nil {
			return fmt.Errorf("view %q: create HDR framebuffer: %w", name, err)
		}
		s.HDR = &TargetSet{Color: color, Depth: depth, Framebuffer: fb}
	} else {
		s.HDR.Destroy()
		s.HDR = nil
	}

	s.SDR.Destroy()
	s.SDR = nil

	color, err := dev.CreateTexture(device.DefaultTextureDescriptor(name+"/sdr-color", width, height, SDRColorFormat))
	if err != nil {
		return fmt.Errorf("view %q: create SDR color: %w", name, err)
	}
	fb, err := dev.CreateFramebuffer(device.FramebufferDescriptor{
		Label:            name + "/sdr",
		ColorAttachments: []device.Texture{color},
		ClearColor:       clear,
	})
	if err != nil {
		return fmt.Errorf("view %q: create SDR framebuffer: %w", name, err)
	}
	s.SDR = &TargetSet{Color: color, Framebuffer: fb}

	s.derived = targetParams{valid: true, width: width, height: height, hdr: hdr, clear: clear}
	return nil
}

// destroyResources releases all target sets. Used by the reaper.
func (s *State) destroyResources() {
	s.HDR.Destroy()
	s.HDR = nil
	s.SDR.Destroy()
	s.SDR = nil
	s.derived = targetParams{}
}
