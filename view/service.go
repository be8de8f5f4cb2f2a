// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package view

import (
	"fmt"
	"sort"

	"github.com/gogpu/stage"
	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
)

// Lifecycle defaults. Both are policy constants; override per Service.
const (
	// DefaultMaxIdleFrames is how many frames a view may go unseen
	// before the reaper releases it.
	DefaultMaxIdleFrames = 60

	// DefaultViewportWidth is the fallback width when a descriptor has
	// a zero-sized viewport and no composition target exists.
	DefaultViewportWidth = 1280

	// DefaultViewportHeight is the fallback height for the same case.
	DefaultViewportHeight = 720
)

// Service is the view lifecycle service.
//
// It owns the pool of per-view runtime states, synchronizes the active set
// from host descriptors each frame, publishes views to the engine, and
// reaps idle views. All methods are called from the single-threaded frame
// control flow; the Service is not safe for concurrent use and needs no
// locks.
type Service struct {
	engine   engine.Engine
	callback engine.RenderCallback

	pool    map[ID]*State
	frame   []*State
	maxIdle uint64
}

// NewService creates a lifecycle service. The callback is the render
// callback registered for every view's render graph; the orchestrator's
// RenderView method is the expected value.
func NewService(eng engine.Engine, cb engine.RenderCallback) *Service {
	return &Service{
		engine:   eng,
		callback: cb,
		pool:     make(map[ID]*State),
		maxIdle:  DefaultMaxIdleFrames,
	}
}

// SetMaxIdleFrames overrides the reaping threshold.
func (svc *Service) SetMaxIdleFrames(frames uint64) {
	svc.maxIdle = frames
}

// SyncActiveViews updates the pool from this frame's descriptor list.
//
// For each descriptor it infers a viewport if the host supplied a
// zero-sized one (composition target size, or the 1280x720 fallback when
// no target exists), upserts the view's runtime state, refreshes its
// intent and bookkeeping, ensures GPU resources, and appends it to the
// frame list. The frame list is then stable-sorted by (z-order ascending,
// submission index ascending) so equal-z views keep host order.
//
// Resource creation failures are returned unwrapped further; the device is
// assumed functional and the caller treats these as fatal for the frame.
func (svc *Service) SyncActiveViews(fc engine.FrameContext, descs []Descriptor, compositeTarget device.Framebuffer, dev device.Device) error {
	svc.frame = svc.frame[:0]

	for i, desc := range descs {
		if desc.Viewport.Empty() {
			desc.Viewport = inferViewport(compositeTarget)
		}
		if desc.Opacity == 0 {
			desc.Opacity = 1
		}

		s, ok := svc.pool[desc.ID]
		if !ok {
			s = &State{Handle: engine.InvalidViewHandle}
			svc.pool[desc.ID] = s
			stage.Logger().Info("view: new view", "id", string(desc.ID), "zorder", desc.ZOrder)
		}

		s.Intent = desc
		s.SubmissionIndex = i
		s.LastSeenFrame = fc.FrameSequence()

		if err := s.EnsureResources(dev); err != nil {
			return err
		}
		svc.frame = append(svc.frame, s)
	}

	sort.SliceStable(svc.frame, func(i, j int) bool {
		a, b := svc.frame[i], svc.frame[j]
		if a.Intent.ZOrder != b.Intent.ZOrder {
			return a.Intent.ZOrder < b.Intent.ZOrder
		}
		return a.SubmissionIndex < b.SubmissionIndex
	})
	return nil
}

// inferViewport derives a full-size viewport from the composition target's
// first color attachment, or the hardcoded fallback if there is no target.
func inferViewport(target device.Framebuffer) engine.Viewport {
	if target != nil {
		if att := target.ColorAttachment(0); att != nil {
			return engine.Viewport{Width: att.Width(), Height: att.Height()}
		}
	}
	return engine.Viewport{Width: DefaultViewportWidth, Height: DefaultViewportHeight}
}

// RegisterViewRenderGraph registers the view's render callback with the
// engine, binding the view's camera (possibly nil) as a constant resolver.
func (svc *Service) RegisterViewRenderGraph(s *State) error {
	resolver := engine.ConstantCamera(s.Intent.Camera)
	if err := svc.engine.RegisterViewRenderGraph(string(s.Intent.ID), svc.callback, resolver); err != nil {
		return fmt.Errorf("view %q: register render graph: %w", s.Intent.ID, err)
	}
	s.registered = true
	return nil
}

// PublishViews upserts every view in the sorted frame list into the
// engine's frame context. A view whose handle is still invalid is
// registered for the first time (render graph included); otherwise its
// existing registration is updated in place. A still-active handle is
// never torn down here.
//
// Contract violations panic: a camera view must have HDR enabled, both
// target framebuffers must exist, and a scene view must carry both HDR
// and SDR sets. These indicate host misconfiguration that cannot be
// rendered safely.
func (svc *Service) PublishViews(fc engine.FrameContext) error {
	for _, s := range svc.frame {
		name := string(s.Intent.ID)

		if s.Intent.Camera != nil && !s.Intent.HDR {
			panic(fmt.Sprintf("view: scene view %q published without HDR enabled", name))
		}

		purpose := engine.PurposeOverlay
		if s.SceneCapable() {
			purpose = engine.PurposeScene
		}

		renderTarget := svc.renderTargetOf(s)
		compositeSource := svc.compositeSourceOf(s, renderTarget)
		if renderTarget == nil || compositeSource == nil {
			panic(fmt.Sprintf("view: view %q published without framebuffers", name))
		}
		if s.SceneCapable() && (s.HDR == nil || s.SDR == nil) {
			panic(fmt.Sprintf("view: scene view %q missing HDR or SDR resources", name))
		}

		vc := engine.ViewContext{
			Name:            name,
			Purpose:         purpose,
			Viewport:        s.Intent.Viewport,
			Camera:          s.Intent.Camera,
			RenderTarget:    renderTarget,
			CompositeSource: compositeSource,
		}

		if s.Handle == engine.InvalidViewHandle {
			if !s.registered {
				if err := svc.RegisterViewRenderGraph(s); err != nil {
					return err
				}
			}
			s.Handle = fc.RegisterView(vc)
			stage.Logger().Info("view: registered", "id", name, "handle", uint64(s.Handle))
		} else {
			fc.UpdateView(s.Handle, vc)
		}
	}
	return nil
}

func (svc *Service) renderTargetOf(s *State) device.Framebuffer {
	if s.HDR != nil {
		return s.HDR.Framebuffer
	}
	if s.SDR != nil {
		return s.SDR.Framebuffer
	}
	return nil
}

func (svc *Service) compositeSourceOf(s *State, renderTarget device.Framebuffer) device.Framebuffer {
	if s.SDR != nil {
		return s.SDR.Framebuffer
	}
	return renderTarget
}

// UnpublishStaleViews reaps every view unseen for more than the idle
// threshold: its engine registrations are revoked, its resources
// destroyed, and its runtime state erased. Runs once per frame,
// independent of the sync/publish cycle, so views the host stops
// requesting are eventually released without an explicit close.
func (svc *Service) UnpublishStaleViews(fc engine.FrameContext) {
	now := fc.FrameSequence()
	for id, s := range svc.pool {
		if now-s.LastSeenFrame <= svc.maxIdle {
			continue
		}
		if s.Handle != engine.InvalidViewHandle {
			fc.RemoveView(s.Handle)
		}
		if s.registered {
			if err := svc.engine.UnregisterViewRenderGraph(string(id)); err != nil {
				stage.Logger().Warn("view: unregister render graph", "id", string(id), "err", err)
			}
		}
		s.destroyResources()
		delete(svc.pool, id)
		stage.Logger().Info("view: reaped idle view", "id", string(id), "idle_frames", now-s.LastSeenFrame)
	}
}

// OrderedActiveViews returns this frame's sorted view list. The returned
// slice and its entries are owned by the Service and valid only until the
// next SyncActiveViews call.
func (svc *Service) OrderedActiveViews() []*State {
	return svc.frame
}

// Lookup returns the runtime state for a view identity, or nil.
func (svc *Service) Lookup(id ID) *State {
	return svc.pool[id]
}

// PoolSize returns the number of views currently owned by the service.
func (svc *Service) PoolSize() int {
	return len(svc.pool)
}
