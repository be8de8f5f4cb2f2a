// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package plan

import (
	"testing"

	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	"github.com/gogpu/stage/view"
)

type testCamera struct {
	live  bool
	scene engine.SceneID
}

func (c *testCamera) Live() bool              { return c.live }
func (c *testCamera) SceneID() engine.SceneID { return c.scene }

// testEnv is a fixed sky-environment snapshot.
type testEnv struct {
	atmosphere bool
	skySphere  bool
}

func (e testEnv) SkyAtmosphereEnabled() bool { return e.atmosphere }
func (e testEnv) SkySphereEnabled() bool     { return e.skySphere }

// sceneView builds a published scene-capable view with live resources.
func sceneView(t *testing.T, id view.ID, h engine.ViewHandle, mutate func(*view.Descriptor)) *view.State {
	t.Helper()
	desc := view.Descriptor{
		ID:       id,
		HDR:      true,
		Camera:   &testCamera{live: true},
		Viewport: engine.Viewport{Width: 16, Height: 16},
	}
	if mutate != nil {
		mutate(&desc)
	}
	s := &view.State{Intent: desc, Handle: h}
	if err := s.EnsureResources(device.NewMemDevice()); err != nil {
		t.Fatalf("EnsureResources() error = %v", err)
	}
	return s
}

// overlayView builds a published composite-only view with live resources.
func overlayView(t *testing.T, id view.ID, h engine.ViewHandle) *view.State {
	t.Helper()
	s := &view.State{
		Intent: view.Descriptor{ID: id, Viewport: engine.Viewport{Width: 16, Height: 16}},
		Handle: h,
	}
	if err := s.EnsureResources(device.NewMemDevice()); err != nil {
		t.Fatalf("EnsureResources() error = %v", err)
	}
	return s
}

func TestEvaluateCompositeOnly(t *testing.T) {
	v := overlayView(t, "overlay", 1)
	p := EvaluateViewRenderPlan(v, SkyState{SkySphereEnabled: true}, FrameInputs{})

	if p.Intent != IntentCompositeOnly {
		t.Errorf("Intent = %v, want CompositeOnly", p.Intent)
	}
	if p.RunScenePasses {
		t.Error("composite-only view must not run scene passes")
	}
	if p.RunSkyPass || p.RunSkyLUTUpdate {
		t.Error("composite-only view must not run sky work")
	}
	if p.ToneMap != ToneMapConfigured {
		t.Errorf("ToneMap = %v, want Configured", p.ToneMap)
	}
}

func TestEvaluateStandardSceneView(t *testing.T) {
	v := sceneView(t, "main", 1, func(d *view.Descriptor) { d.WithAtmosphere = true })
	sky := SkyState{AtmosphereEnabled: true}
	p := EvaluateViewRenderPlan(v, sky, FrameInputs{RenderMode: RenderModeStandard})

	if p.Intent != IntentSceneAndComposite {
		t.Errorf("Intent = %v, want SceneAndComposite", p.Intent)
	}
	if !p.RunScenePasses {
		t.Error("scene view in standard mode must run scene passes")
	}
	if !p.RunSkyPass || !p.RunSkyLUTUpdate {
		t.Errorf("atmosphere view: RunSkyPass = %v, RunSkyLUTUpdate = %v, want both true",
			p.RunSkyPass, p.RunSkyLUTUpdate)
	}
	if p.RunOverlayWireframe {
		t.Error("standard mode must not schedule overlay wireframe")
	}
}

func TestEvaluateForcedWireframe(t *testing.T) {
	// Per-view wireframe forcing wins over the frame mode and neutralizes
	// tone mapping so lines keep their requested color.
	v := sceneView(t, "wire", 1, func(d *view.Descriptor) { d.ForceWireframe = true })
	p := EvaluateViewRenderPlan(v, SkyState{SkySphereEnabled: true}, FrameInputs{RenderMode: RenderModeStandard})

	if p.Mode != RenderModeWireframe {
		t.Errorf("Mode = %v, want Wireframe", p.Mode)
	}
	if p.RunScenePasses {
		t.Error("wireframe view must not run scene passes")
	}
	if p.RunSkyPass {
		t.Error("wireframe view must not run the sky pass")
	}
	if p.ToneMap != ToneMapNeutral {
		t.Errorf("ToneMap = %v, want Neutral", p.ToneMap)
	}
	if p.RunOverlayWireframe {
		t.Error("forced-wireframe view must not also overlay wireframe")
	}
}

func TestEvaluateOverlayWireframe(t *testing.T) {
	v := sceneView(t, "main", 1, nil)
	p := EvaluateViewRenderPlan(v, SkyState{}, FrameInputs{RenderMode: RenderModeOverlayWireframe})

	if !p.RunScenePasses {
		t.Error("overlay-wireframe mode must still run scene passes")
	}
	if !p.RunOverlayWireframe {
		t.Error("overlay-wireframe mode must schedule the overlay pass")
	}
	if p.ToneMap != ToneMapConfigured {
		t.Errorf("ToneMap = %v, want Configured", p.ToneMap)
	}
}

func TestSkyGating(t *testing.T) {
	tests := []struct {
		name       string
		sky        SkyState
		atmosphere bool
		debug      ShaderDebugMode
		wantSky    bool
		wantLUT    bool
	}{
		{"no sky sources", SkyState{}, true, DebugNone, false, false},
		{"atmosphere opted in", SkyState{AtmosphereEnabled: true}, true, DebugNone, true, true},
		{"atmosphere not opted in", SkyState{AtmosphereEnabled: true}, false, DebugNone, false, false},
		{"sky sphere ignores opt-in", SkyState{SkySphereEnabled: true}, false, DebugNone, true, false},
		{"debug suppresses sky", SkyState{SkySphereEnabled: true}, false, DebugNormals, false, false},
		{"luminance debug keeps sky", SkyState{SkySphereEnabled: true}, false, DebugLuminance, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := sceneView(t, "main", 1, func(d *view.Descriptor) { d.WithAtmosphere = tt.atmosphere })
			p := EvaluateViewRenderPlan(v, tt.sky, FrameInputs{DebugMode: tt.debug})
			if p.RunSkyPass != tt.wantSky {
				t.Errorf("RunSkyPass = %v, want %v", p.RunSkyPass, tt.wantSky)
			}
			if p.RunSkyLUTUpdate != tt.wantLUT {
				t.Errorf("RunSkyLUTUpdate = %v, want %v", p.RunSkyLUTUpdate, tt.wantLUT)
			}
		})
	}
}

func TestEvaluateDeterminism(t *testing.T) {
	v := sceneView(t, "main", 1, func(d *view.Descriptor) { d.WithAtmosphere = true })
	sky := SkyState{AtmosphereEnabled: true, SkySphereEnabled: true}
	in := FrameInputs{RenderMode: RenderModeOverlayWireframe, DebugMode: DebugLuminance}

	first := EvaluateViewRenderPlan(v, sky, in)
	for i := 0; i < 8; i++ {
		if got := EvaluateViewRenderPlan(v, sky, in); got != first {
			t.Fatalf("call %d produced %+v, first call produced %+v", i+2, got, first)
		}
	}
}

func TestEvaluatePanicsWithoutResources(t *testing.T) {
	v := &view.State{
		Intent: view.Descriptor{ID: "bare", Camera: &testCamera{live: true}},
		Handle: 1,
	}
	defer func() {
		if recover() == nil {
			t.Error("EvaluateViewRenderPlan() did not panic for view without resources")
		}
	}()
	EvaluateViewRenderPlan(v, SkyState{}, FrameInputs{})
}

func TestBuildSkipsUnpublishedViews(t *testing.T) {
	b := NewBuilder()
	published := overlayView(t, "live", 7)
	unpublished := overlayView(t, "pending", engine.InvalidViewHandle)

	b.BuildFrameViewPackets(nil, []*view.State{published, unpublished}, FrameInputs{})

	if got := len(b.Packets()); got != 1 {
		t.Fatalf("got %d packets, want 1", got)
	}
	if _, ok := b.FindPacket(7); !ok {
		t.Error("published view not indexed")
	}
	if _, ok := b.FindPacket(engine.InvalidViewHandle); ok {
		t.Error("unpublished view should not be indexed")
	}
}

func TestBuildEvaluatesSkyOnce(t *testing.T) {
	b := NewBuilder()
	env := testEnv{atmosphere: true, skySphere: true}
	b.BuildFrameViewPackets(env, nil, FrameInputs{})

	want := SkyState{AtmosphereEnabled: true, SkySphereEnabled: true}
	if b.Sky() != want {
		t.Errorf("Sky() = %+v, want %+v", b.Sky(), want)
	}
}

func TestBuildRebuildsFromScratch(t *testing.T) {
	b := NewBuilder()
	b.BuildFrameViewPackets(nil, []*view.State{overlayView(t, "a", 1), overlayView(t, "b", 2)}, FrameInputs{})
	b.BuildFrameViewPackets(nil, []*view.State{overlayView(t, "c", 3)}, FrameInputs{})

	if got := len(b.Packets()); got != 1 {
		t.Fatalf("got %d packets after rebuild, want 1", got)
	}
	if _, ok := b.FindPacket(1); ok {
		t.Error("stale handle survived rebuild")
	}
	if _, ok := b.FindPacket(3); !ok {
		t.Error("new handle not indexed after rebuild")
	}
}

func TestFindPacketMiss(t *testing.T) {
	b := NewBuilder()
	if p, ok := b.FindPacket(42); ok || p != nil {
		t.Errorf("FindPacket(42) = (%v, %v), want (nil, false)", p, ok)
	}
}
