// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package composite

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Software compositor errors.
var (
	// ErrSourceNotCPUAccessible is returned when a task's source texture
	// has no CPU-side pixels to blend.
	ErrSourceNotCPUAccessible = errors.New("composite: source texture is not CPU accessible")

	// ErrTargetNotCPUAccessible is returned when the submission target's
	// color attachment has no CPU-side pixels.
	ErrTargetNotCPUAccessible = errors.New("composite: target is not CPU accessible")
)

// ImageSource is implemented by textures that expose CPU-side pixels,
// such as device.MemTexture. The software compositor reads sources and
// writes targets through this interface.
type ImageSource interface {
	Image() *image.RGBA
}

// Software executes a composition submission on the CPU.
//
// It is the reference implementation of the compositing contract: tasks
// are blended in order with source-over semantics, scaled into their
// viewports, and weighted by opacity. Hosts use it for headless rendering
// and golden tests; a GPU host replaces it with a blit/blend pass over the
// same Submission.
type Software struct{}

// Compose blends the tasks into dst in paint order.
func (Software) Compose(dst *image.RGBA, tasks []Task) error {
	for i := range tasks {
		t := &tasks[i]
		src, ok := t.Source.(ImageSource)
		if !ok || src.Image() == nil {
			return fmt.Errorf("%w: task %d (%s)", ErrSourceNotCPUAccessible, i, t.Source.Label())
		}

		rect := image.Rect(
			int(t.Viewport.X),
			int(t.Viewport.Y),
			int(t.Viewport.X)+int(t.Viewport.Width),
			int(t.Viewport.Y)+int(t.Viewport.Height),
		)

		var opts *draw.Options
		if t.Opacity < 1 {
			a := uint8(t.Opacity * 0xFF)
			opts = &draw.Options{SrcMask: image.NewUniform(color.Alpha{A: a})}
		}
		img := src.Image()
		draw.ApproxBiLinear.Scale(dst, rect, img, img.Bounds(), draw.Over, opts)
	}
	return nil
}

// ComposeSubmission executes a full submission: the target's color
// attachment is cleared to the target's clear color, then every task is
// blended in order. Returns the target image for inspection.
//
// An empty submission is a no-op and returns nil.
func (sw Software) ComposeSubmission(sub Submission) (*image.RGBA, error) {
	if sub.Empty() {
		return nil, nil
	}
	att, ok := sub.Target.ColorAttachment(0).(ImageSource)
	if !ok || att.Image() == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetNotCPUAccessible, sub.Target.Label())
	}
	dst := att.Image()

	cc := sub.Target.ClearColor()
	fill := color.RGBA{
		R: uint8(cc.R * 0xFF),
		G: uint8(cc.G * 0xFF),
		B: uint8(cc.B * 0xFF),
		A: uint8(cc.A * 0xFF),
	}
	draw.Draw(dst, dst.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if err := sw.Compose(dst, sub.Tasks); err != nil {
		return nil, err
	}
	return dst, nil
}
