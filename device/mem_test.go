// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package device

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

func TestCreateTextureRejectsZeroSize(t *testing.T) {
	dev := NewMemDevice()
	_, err := dev.CreateTexture(DefaultTextureDescriptor("bad", 0, 4, gputypes.TextureFormatBGRA8Unorm))
	if !errors.Is(err, ErrInvalidTextureSize) {
		t.Errorf("CreateTexture(0x4) error = %v, want ErrInvalidTextureSize", err)
	}
	if dev.TextureCreates() != 0 {
		t.Error("failed create was counted")
	}
}

func TestCreateFramebufferRequiresAttachment(t *testing.T) {
	dev := NewMemDevice()
	if _, err := dev.CreateFramebuffer(FramebufferDescriptor{Label: "empty"}); !errors.Is(err, ErrNoAttachments) {
		t.Errorf("CreateFramebuffer() error = %v, want ErrNoAttachments", err)
	}
}

func TestDepthTextureHasNoImage(t *testing.T) {
	dev := NewMemDevice()
	tex, err := dev.CreateTexture(DepthTextureDescriptor("depth", 4, 4))
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	if tex.(*MemTexture).Image() != nil {
		t.Error("depth texture has CPU pixel storage")
	}
	if tex.Format() != gputypes.TextureFormatDepth32Float {
		t.Errorf("Format() = %v, want Depth32Float", tex.Format())
	}
}

func TestRecorderBarrierDiscipline(t *testing.T) {
	dev := NewMemDevice()
	tex, err := dev.CreateTexture(DefaultTextureDescriptor("color", 4, 4, gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}

	rec := NewMemRecorder()
	if rec.IsResourceTracked(tex) {
		t.Fatal("fresh recorder tracks an unknown texture")
	}

	rec.BeginTrackingResourceState(tex, ResourceStateUndefined)
	rec.RequireResourceState(tex, ResourceStateRenderTarget)

	// Pending transitions must not be visible until flushed.
	if s, _ := rec.TrackedState(tex); s != ResourceStateUndefined {
		t.Errorf("state before flush = %v, want Undefined", s)
	}

	rec.FlushBarriers()
	if s, _ := rec.TrackedState(tex); s != ResourceStateRenderTarget {
		t.Errorf("state after flush = %v, want RenderTarget", s)
	}
}

func TestResourceStateString(t *testing.T) {
	tests := []struct {
		state ResourceState
		want  string
	}{
		{ResourceStateUndefined, "Undefined"},
		{ResourceStateRenderTarget, "RenderTarget"},
		{ResourceStateDepthWrite, "DepthWrite"},
		{ResourceStateShaderResource, "ShaderResource"},
		{ResourceStateCopySrc, "CopySrc"},
		{ResourceStatePresent, "Present"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestFramebufferAttachmentBounds(t *testing.T) {
	dev := NewMemDevice()
	tex, err := dev.CreateTexture(DefaultTextureDescriptor("color", 4, 4, gputypes.TextureFormatBGRA8Unorm))
	if err != nil {
		t.Fatalf("CreateTexture() error = %v", err)
	}
	fb, err := dev.CreateFramebuffer(FramebufferDescriptor{Label: "fb", ColorAttachments: []Texture{tex}})
	if err != nil {
		t.Fatalf("CreateFramebuffer() error = %v", err)
	}

	if fb.ColorAttachment(0) != tex {
		t.Error("ColorAttachment(0) mismatch")
	}
	if fb.ColorAttachment(1) != nil || fb.ColorAttachment(-1) != nil {
		t.Error("out-of-range attachment index did not return nil")
	}
}
