// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"context"
	"testing"

	"github.com/gogpu/stage/device"
)

type stubCamera struct{ scene SceneID }

func (c *stubCamera) Live() bool       { return true }
func (c *stubCamera) SceneID() SceneID { return c.scene }

func TestConstantCamera(t *testing.T) {
	cam := &stubCamera{scene: 3}
	if got := ConstantCamera(cam)(); got != cam {
		t.Error("ConstantCamera() resolver did not return the bound camera")
	}
	if got := ConstantCamera(nil)(); got != nil {
		t.Error("ConstantCamera(nil) resolver returned a camera")
	}
}

func TestViewportEmpty(t *testing.T) {
	tests := []struct {
		vp   Viewport
		want bool
	}{
		{Viewport{}, true},
		{Viewport{Width: 10}, true},
		{Viewport{Height: 10}, true},
		{Viewport{Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		if got := tt.vp.Empty(); got != tt.want {
			t.Errorf("%+v.Empty() = %v, want %v", tt.vp, got, tt.want)
		}
	}
}

func TestMemEngineRegistration(t *testing.T) {
	eng := NewMemEngine()
	var rendered []ViewHandle
	cb := func(ctx context.Context, rec device.CommandRecorder, h ViewHandle) error {
		rendered = append(rendered, h)
		return nil
	}

	if err := eng.RegisterViewRenderGraph("main", cb, ConstantCamera(nil)); err != nil {
		t.Fatalf("RegisterViewRenderGraph() error = %v", err)
	}
	if !eng.Registered("main") {
		t.Fatal("Registered() = false after registration")
	}

	if err := eng.Render(context.Background(), "main", device.NewMemRecorder(), 5); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(rendered) != 1 || rendered[0] != 5 {
		t.Errorf("rendered handles = %v, want [5]", rendered)
	}

	// Rendering an unknown identity is a no-op.
	if err := eng.Render(context.Background(), "ghost", device.NewMemRecorder(), 1); err != nil {
		t.Errorf("Render(unknown) error = %v", err)
	}

	if err := eng.UnregisterViewRenderGraph("main"); err != nil {
		t.Fatalf("UnregisterViewRenderGraph() error = %v", err)
	}
	if eng.Registered("main") {
		t.Error("Registered() = true after unregistration")
	}
	if eng.Unregistered["main"] != 1 {
		t.Errorf("Unregistered[main] = %d, want 1", eng.Unregistered["main"])
	}
}

func TestMemFrameContextHandles(t *testing.T) {
	fc := NewMemFrameContext()

	h1 := fc.RegisterView(ViewContext{Name: "a"})
	h2 := fc.RegisterView(ViewContext{Name: "b"})
	if h1 == InvalidViewHandle || h2 == InvalidViewHandle {
		t.Fatal("RegisterView() returned the invalid handle")
	}
	if h1 == h2 {
		t.Fatal("RegisterView() reused a handle")
	}

	fc.UpdateView(h1, ViewContext{Name: "a2"})
	if vc, _ := fc.View(h1); vc.Name != "a2" {
		t.Errorf("View(h1).Name = %q, want a2", vc.Name)
	}

	// Updating an unknown handle must not create a registration.
	fc.UpdateView(99, ViewContext{Name: "ghost"})
	if _, ok := fc.View(99); ok {
		t.Error("UpdateView(unknown) created a registration")
	}

	fc.RemoveView(h1)
	if _, ok := fc.View(h1); ok {
		t.Error("View(h1) still present after RemoveView")
	}
	if fc.ViewCount() != 1 {
		t.Errorf("ViewCount() = %d, want 1", fc.ViewCount())
	}
}

func TestViewPurposeString(t *testing.T) {
	if PurposeScene.String() != "Scene" || PurposeOverlay.String() != "Overlay" {
		t.Error("ViewPurpose.String() mismatch")
	}
}
