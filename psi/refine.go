// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package psi

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/cpmech/gosl/ode"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
)

// Method names one of the dispatch-table entries refinePoint may try, in
// the order given by config.Options.RefineMethods (spec.md §4.4, design
// notes "Dynamic method selection in refinePoint").
type Method string

const (
	MethodNewton          Method = "newton"
	MethodLine            Method = "line"
	MethodIntegrate       Method = "integrate"
	MethodIntegrateNewton Method = "integrate+newton"
	MethodNone            Method = "none"
)

// maxNewtonIterations bounds Newton's method the way spec.md §4.4 requires
// ("diverges ... after 10 iterations").
const maxNewtonIterations = 10

// fdStep is the forward-difference step used by the Newton method's
// derivative estimate.
const fdStep = 1e-6

// Refine pins seed p onto the psi0 isoline, trying each method in methods
// in order and falling through to the next on SolutionError (spec.md §4.4).
// tangent is the projection direction: callers pass the local
// perpendicular-to-contour direction, not the contour's own tangent, and
// every method moves the point along it. w is the half-width used by methods
// that need a bracket; a is the absolute psi tolerance.
func Refine(f Interpolator, p geom.Point2D, tangent geom.Point2D, w, a float64, psi0 float64, methods []Method) (geom.Point2D, error) {
	if len(methods) == 0 {
		methods = []Method{MethodNewton, MethodLine, MethodNone}
	}
	var lastErr error
	for _, m := range methods {
		var res geom.Point2D
		var err error
		switch m {
		case MethodNewton:
			res, err = refineNewton(f, p, tangent, a, psi0)
		case MethodLine:
			res, err = refineLine(f, p, tangent, w, a, psi0)
		case MethodIntegrate:
			res, err = refineIntegrate(f, p, a, psi0)
		case MethodIntegrateNewton:
			res, err = refineIntegrate(f, p, a, psi0)
			if err == nil {
				res, err = refineNewton(f, res, tangent, a, psi0)
			}
		case MethodNone:
			return p, nil
		default:
			err = errs.Configuration("refinePoint", "unknown refine method %q", m)
		}
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return geom.Point2D{}, errs.Solution("refinePoint", "all refine methods failed: %v", lastErr)
}

// gOf returns g(s) = psi(p + s*t) - psi0 as a scalar function of s.
func gOf(f Interpolator, p, t geom.Point2D, psi0 float64) func(s float64) float64 {
	return func(s float64) float64 {
		q := p.Add(t.Scale(s))
		return f.Psi(q.R, q.Z) - psi0
	}
}

// refineNewton implements spec.md §4.4's "newton" method: Newton iteration
// on g(s)=psi(p+s*t)-psi0 with a forward-difference derivative.
func refineNewton(f Interpolator, p, t geom.Point2D, a, psi0 float64) (geom.Point2D, error) {
	g := gOf(f, p, t, psi0)
	s := 0.0
	gPrev := math.Abs(g(s))
	for it := 0; it < maxNewtonIterations; it++ {
		gs := g(s)
		if math.Abs(gs) < a {
			return p.Add(t.Scale(s)), nil
		}
		deriv := (g(s+fdStep) - gs) / fdStep
		if deriv == 0 {
			return geom.Point2D{}, errs.Solution("refinePoint/newton", "zero derivative at s=%g", s)
		}
		s -= gs / deriv
		if math.Abs(gs) > gPrev*10 {
			return geom.Point2D{}, errs.Solution("refinePoint/newton", "diverging, |g|=%g", gs)
		}
		gPrev = math.Abs(gs)
	}
	return geom.Point2D{}, errs.Solution("refinePoint/newton", "did not converge in %d iterations", maxNewtonIterations)
}

// refineLine implements spec.md §4.4's "line" method: bracket a sign change
// of g over [-w,w] along the projection direction t and solve with Brent,
// halving w on failure until it drops below a.
func refineLine(f Interpolator, p, t geom.Point2D, w, a, psi0 float64) (geom.Point2D, error) {
	g := gOf(f, p, t, psi0)
	for w >= a {
		ga, gb := g(-w), g(w)
		if ga*gb <= 0 {
			ffcn := func(s float64) (float64, error) { return g(s), nil }
			solver := num.NewBrent(ffcn, nil)
			s, err := solver.Root(-w, w)
			if err == nil {
				return p.Add(t.Scale(s)), nil
			}
		}
		w *= 0.5
	}
	return geom.Point2D{}, errs.Solution("refinePoint/line", "bracket width shrank below atol=%g", a)
}

// refineIntegrate implements spec.md §4.4's "integrate" method: integrate
// dR/dpsi = f_R, dZ/dpsi = f_Z from psi(p) to psi0 with adaptive RK, the
// way gofem's ana.ColumnFluidPressure integrates with gosl/ode (see
// DESIGN.md grounding entry for this file).
func refineIntegrate(f Interpolator, p geom.Point2D, a, psi0 float64) (geom.Point2D, error) {
	psiStart := f.Psi(p.R, p.Z)
	if math.Abs(psiStart-psi0) < a {
		return p, nil
	}
	y := []float64{p.R, p.Z}
	var sol ode.ODE
	sol.Init("Dopri5", 2, func(fy []float64, dpsi, psiCur float64, y []float64, args ...interface{}) error {
		fy[0] = f.FR(y[0], y[1])
		fy[1] = f.FZ(y[0], y[1])
		return nil
	}, nil, nil, nil, true)
	sol.Distr = false
	step := psi0 - psiStart
	if err := sol.Solve(y, psiStart, psi0, step, false); err != nil {
		return geom.Point2D{}, errs.Solution("refinePoint/integrate", "ODE solve failed: %v", err)
	}
	q := geom.Point2D{R: y[0], Z: y[1]}
	if math.Abs(f.Psi(q.R, q.Z)-psi0) > a*math.Max(math.Abs(psi0), 1) {
		return geom.Point2D{}, errs.Solution("refinePoint/integrate", "endpoint misses target isoline")
	}
	return q, nil
}

// sanityCheckTangent panics (matching gosl/chk's "defend only at boundary"
// convention) if a caller ever passes a degenerate projection direction,
// since every refine method above divides along it.
func sanityCheckTangent(t geom.Point2D) {
	if t.Mag() == 0 {
		chk.Panic("refinePoint: tangent vector must not be zero")
	}
}
