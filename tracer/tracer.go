// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package tracer implements FieldLinePerpTracer, a diagnostic companion to
// psi.FollowPerpendicular that records the full perpendicular-projection
// trajectory (not just its endpoint at each requested psi).
// meshregion.Build constructs one and passes it to
// addPointAtWallToContours, which does not call it; GradPsiSurfaceStep has
// no caller in this module, and the gridplot tool does not import this
// package.
package tracer

import (
	"github.com/cpmech/gosl/ode"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// Sample is one recorded point of a traced field-line-perpendicular path.
type Sample struct {
	Psi   float64
	Point geom.Point2D
}

// FieldLinePerpTracer integrates dR/dpsi = f_R, dZ/dpsi = f_Z -- the same
// ODE psi.refineIntegrate and psi.FollowPerpendicular use -- but keeps
// every solver-chosen step as a Sample, instead of only the values at
// caller-requested psi targets.
type FieldLinePerpTracer struct {
	F              psi.Interpolator
	Rtol, Atol     float64
}

// NewFieldLinePerpTracer builds a tracer bound to interpolator f with the
// given integration tolerances (normally config.Options.FollowPerpendicular{Rtol,Atol}).
func NewFieldLinePerpTracer(f psi.Interpolator, rtol, atol float64) *FieldLinePerpTracer {
	return &FieldLinePerpTracer{F: f, Rtol: rtol, Atol: atol}
}

// Trace integrates from (psi0,p0) to psi1 and returns every intermediate
// sample the adaptive solver visited, in order, ending exactly at psi1.
func (t *FieldLinePerpTracer) Trace(p0 geom.Point2D, psi0, psi1 float64) ([]Sample, error) {
	if psi0 == psi1 {
		return []Sample{{Psi: psi0, Point: p0}}, nil
	}
	var samples []Sample
	samples = append(samples, Sample{Psi: psi0, Point: p0})

	y := []float64{p0.R, p0.Z}
	var sol ode.ODE
	out := func(istep int, h, x float64, y []float64) {
		samples = append(samples, Sample{Psi: x, Point: geom.Point2D{R: y[0], Z: y[1]}})
	}
	sol.Init("Dopri5", 2, func(fy []float64, dpsi, psiCur float64, y []float64, args ...interface{}) error {
		fy[0] = t.F.FR(y[0], y[1])
		fy[1] = t.F.FZ(y[0], y[1])
		return nil
	}, nil, out, &ode.Config{Rtol: t.Rtol, Atol: t.Atol}, true)
	sol.Distr = false

	step := psi1 - psi0
	if err := sol.Solve(y, psi0, psi1, step, false); err != nil {
		return nil, errs.Solution("FieldLinePerpTracer.Trace", "ODE solve from psi=%g to psi=%g failed: %v", psi0, psi1, err)
	}
	if last := samples[len(samples)-1]; last.Psi != psi1 {
		samples = append(samples, Sample{Psi: psi1, Point: geom.Point2D{R: y[0], Z: y[1]}})
	}
	return samples, nil
}

// GradPsiSurfaceStep projects p a small deltaPsi outward from psi0 along
// the perpendicular direction, returning just the resulting point -- the
// "gradPsiSurfaceAt{Start,End}" construction of spec.md §4.8 step 2.
func (t *FieldLinePerpTracer) GradPsiSurfaceStep(p geom.Point2D, psi0, deltaPsi float64) (geom.Point2D, error) {
	pts, err := psi.FollowPerpendicular(t.F, p, psi0, []float64{psi0 + deltaPsi}, t.Rtol, t.Atol)
	if err != nil {
		return geom.Point2D{}, err
	}
	return pts[0], nil
}
