// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package composite plans the blending of per-view outputs into the final
// presentation target.
//
// Task order is paint order: tasks follow the packet list, which follows
// the z-order-sorted view list, so compositing proceeds back to front.
// Later tasks occlude earlier ones where opaque and blend where
// translucent.
package composite

import (
	"github.com/gogpu/stage"
	"github.com/gogpu/stage/device"
	"github.com/gogpu/stage/engine"
	"github.com/gogpu/stage/plan"
)

// Task is one ready-to-blend operation: a view's composite-eligible
// texture, its placement, and its opacity.
type Task struct {
	// Source is the view's SDR color texture.
	Source device.Texture

	// Viewport is where on the target the source is blended.
	Viewport engine.Viewport

	// Opacity is the blend opacity in [0, 1].
	Opacity float32
}

// Submission is the final composite: a presentation target plus the
// ordered task list. The target reference is non-owning; the planner
// never controls its lifetime. Submissions are rebuilt every frame and
// consumed immediately.
type Submission struct {
	// Target is the presentation framebuffer, nil for an empty
	// submission.
	Target device.Framebuffer

	// Tasks are the blend operations in paint order.
	Tasks []Task
}

// Empty reports whether the submission has nothing to present to.
func (s Submission) Empty() bool {
	return s.Target == nil || len(s.Tasks) == 0
}

// Planner builds compositing submissions from frame view packets.
type Planner struct {
	tasks []Task
}

// NewPlanner creates an empty planner.
func NewPlanner() *Planner {
	return &Planner{}
}

// PlanTasks rebuilds the task list from this frame's packets. Only views
// that actually produced a composite-eligible texture (an SDR output)
// contribute a task. Order follows packet order.
func (p *Planner) PlanTasks(packets []plan.Packet) []Task {
	p.tasks = p.tasks[:0]
	for i := range packets {
		v := packets[i].View
		if v.SDR == nil || v.SDR.Color == nil {
			continue
		}
		p.tasks = append(p.tasks, Task{
			Source:   v.SDR.Color,
			Viewport: v.Intent.Viewport,
			Opacity:  v.Intent.Opacity,
		})
	}
	return p.tasks
}

// BuildSubmission returns the composition submission for the given final
// output target. A nil target, or a target without a color attachment,
// yields an empty submission rather than an error: compositing is
// legitimately skippable when there is nowhere to present to, such as the
// first frame before surface creation.
func (p *Planner) BuildSubmission(target device.Framebuffer) Submission {
	if target == nil || target.ColorAttachment(0) == nil {
		stage.Logger().Debug("composite: no presentable target, empty submission")
		return Submission{}
	}
	return Submission{Target: target, Tasks: p.tasks}
}
