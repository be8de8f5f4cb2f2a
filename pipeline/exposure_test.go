// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestLuminanceFromEV(t *testing.T) {
	tests := []struct {
		ev   float32
		want float32
	}{
		{0, 0.125},
		{3, 1},      // 2^3 * 12.5 / 100
		{10, 128},   // 2^10 * 12.5 / 100
		{-3, 0.015625},
	}
	for _, tt := range tests {
		got := LuminanceFromEV(tt.ev)
		if math32.Abs(got-tt.want) > 1e-5 {
			t.Errorf("LuminanceFromEV(%v) = %v, want %v", tt.ev, got, tt.want)
		}
	}
}

func TestLuminanceFromEVCalibrated(t *testing.T) {
	if got := LuminanceFromEVCalibrated(0, 14); math32.Abs(got-0.14) > 1e-6 {
		t.Errorf("LuminanceFromEVCalibrated(0, 14) = %v, want 0.14", got)
	}

	// Zero calibration falls back to the standard constant.
	if got, want := LuminanceFromEVCalibrated(3, 0), LuminanceFromEV(3); got != want {
		t.Errorf("zero calibration = %v, want fallback %v", got, want)
	}
}

func TestSettingsLuminanceFromEV(t *testing.T) {
	s := DefaultSettings()
	s.MeterCalibration = 14
	if got := s.LuminanceFromEV(0); math32.Abs(got-0.14) > 1e-6 {
		t.Errorf("Settings.LuminanceFromEV(0) = %v, want 0.14", got)
	}
}
