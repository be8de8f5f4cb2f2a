// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pipeline

import "github.com/chewxy/math32"

// ReflectedLightMeterConstant is the reflected-light meter calibration
// constant K relating exposure value to average scene luminance:
//
//	luminance = 2^ev * K / 100
//
// The 12.5 value is the standard calibration most camera manufacturers
// use. Override per snapshot with Settings.MeterCalibration.
const ReflectedLightMeterConstant float32 = 12.5

// LuminanceFromEV converts an exposure value (EV100) to average scene
// luminance in cd/m² using the default meter calibration.
func LuminanceFromEV(ev float32) float32 {
	return LuminanceFromEVCalibrated(ev, ReflectedLightMeterConstant)
}

// LuminanceFromEVCalibrated converts an exposure value to luminance with
// an explicit meter calibration constant. A zero calibration falls back
// to ReflectedLightMeterConstant.
func LuminanceFromEVCalibrated(ev, calibration float32) float32 {
	if calibration == 0 {
		calibration = ReflectedLightMeterConstant
	}
	return math32.Exp2(ev) * calibration / 100
}

// LuminanceFromEV converts an exposure value to luminance using this
// snapshot's meter calibration.
func (s Settings) LuminanceFromEV(ev float32) float32 {
	return LuminanceFromEVCalibrated(ev, s.MeterCalibration)
}
