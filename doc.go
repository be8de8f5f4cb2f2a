// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package stage provides multi-view frame orchestration and compositing
// for real-time rendering on top of a GoGPU-style device.
//
// # Overview
//
// stage turns a per-frame list of composition view descriptors (viewports a
// host application wants rendered and/or composited) into an ordered
// sequence of GPU render passes, intermediate render targets, and a final
// blended output. The host supplies descriptors every frame; stage owns the
// per-view runtime state, lazily (re)creates render targets when view
// parameters change, plans which passes run for each view, executes them
// strictly sequentially, and composites the results back to front.
//
// # Architecture
//
// The library is organized into:
//   - device: contracts for the graphics device layer (textures,
//     framebuffers, command recorder). stage RECEIVES a device from the
//     host, it does not create one.
//   - engine: contracts for the rendering engine (view registration,
//     per-frame context, render callbacks).
//   - view: the view lifecycle service: active-set sync, lazy resource
//     management, deterministic submission order, idle-view reaping.
//   - plan: the per-frame plan builder producing an immutable render plan per view.
//   - composite: the composition planner and a CPU reference compositor.
//   - pipeline: the orchestrator driving pass execution per view per frame.
//
// # Quick Start
//
//	svc := view.NewService(eng, orch.RenderView)
//
//	// each frame:
//	orch.ApplySettings()
//	svc.SyncActiveViews(fc, descriptors, target, dev)
//	svc.PublishViews(fc)
//	orch.PlanFrame(env, svc.OrderedActiveViews())
//	// ... engine invokes orch.RenderView per registered view ...
//	sub := orch.Composite(target)
//	svc.UnpublishStaleViews(fc)
//
// # Concurrency
//
// The pipeline is cooperatively scheduled and strictly sequential: pass
// execution for one view never overlaps another view's, and all blocking
// steps take a context.Context cancelled by the enclosing frame scope.
// No locks are used; all per-frame state has a single owner.
package stage

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
