// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/num"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// findMinimum1D bracket-minimises psi along the segment pos1->pos2
// (spec.md §4.7).
func findMinimum1D(f psi.Interpolator, pos1, pos2 geom.Point2D, atol float64) (geom.Point2D, error) {
	coords := func(s float64) geom.Point2D { return geom.Lerp(pos1, pos2, s) }
	obj := func(s float64) (float64, error) {
		p := coords(s)
		return f.Psi(p.R, p.Z), nil
	}
	s, err := num.NewBrent(obj, nil).Min(0, 1)
	if err != nil {
		return geom.Point2D{}, errs.Solution("findMinimum1D", "%v", err)
	}
	return coords(s), nil
}

// findMaximum1D bracket-maximises psi along the segment pos1->pos2.
func findMaximum1D(f psi.Interpolator, pos1, pos2 geom.Point2D, atol float64) (geom.Point2D, error) {
	coords := func(s float64) geom.Point2D { return geom.Lerp(pos1, pos2, s) }
	obj := func(s float64) (float64, error) {
		p := coords(s)
		return -f.Psi(p.R, p.Z), nil
	}
	s, err := num.NewBrent(obj, nil).Min(0, 1)
	if err != nil {
		return geom.Point2D{}, errs.Solution("findMaximum1D", "%v", err)
	}
	return coords(s), nil
}

// findExtremum1D returns the interior extremum of psi along pos1->pos2,
// and whether it is a minimum, failing if the extremum sits at an endpoint
// (spec.md §4.7 findExtremum_1d).
func findExtremum1D(f psi.Interpolator, pos1, pos2 geom.Point2D, rtol, atol float64) (geom.Point2D, bool, error) {
	smallDistance := 10 * rtol * geom.Dist(pos1, pos2)
	minPos, err := findMinimum1D(f, pos1, pos2, atol)
	if err != nil {
		return geom.Point2D{}, false, err
	}
	if geom.Dist(pos1, minPos) > smallDistance && geom.Dist(pos2, minPos) > smallDistance {
		return minPos, true, nil
	}
	maxPos, err := findMaximum1D(f, pos1, pos2, atol)
	if err != nil {
		return geom.Point2D{}, false, err
	}
	if geom.Dist(pos1, maxPos) > smallDistance && geom.Dist(pos2, maxPos) > smallDistance {
		return maxPos, false, nil
	}
	return geom.Point2D{}, false, errs.Solution("findExtremum1D", "neither minimum nor maximum found in interval")
}

// findSaddlePoint locates a saddle point of psi in the square with corners
// p1,p2 (and p3,p4 computed to the right of p1->p2), alternately
// 1D-extremising along opposite edge pairs until the two extremum lines
// cross within atol (spec.md §4.7 findSaddlePoint).
func findSaddlePoint(f psi.Interpolator, p1, p2 geom.Point2D, atol float64) (geom.Point2D, error) {
	a := geom.Dist(p1, p2)
	e1 := p2.Sub(p1).Div(a)
	e2 := geom.Point2D{R: e1.Z, Z: -e1.R}
	p3 := p2.Add(e2.Scale(a))
	p4 := p1.Add(e2.Scale(a))

	_, minLeft, err := findExtremum1D(f, p1, p2, 1e-5, atol)
	if err != nil {
		return geom.Point2D{}, err
	}
	_, minTop, err := findExtremum1D(f, p2, p3, 1e-5, atol)
	if err != nil {
		return geom.Point2D{}, err
	}
	if minTop == minLeft {
		return geom.Point2D{}, errs.Consistency("findSaddlePoint", "top/left extrema must have opposite kind")
	}

	vertSearch := findMinimum1D
	if minTop {
		vertSearch = findMaximum1D
	}
	horizSearch := findMinimum1D
	if minLeft {
		horizSearch = findMaximum1D
	}

	posBottom, posTop := p1, p3
	posLeft, posRight := p1, p4
	extremumVert, extremumHoriz := p3, p1

	for iter := 0; geom.Dist(extremumVert, extremumHoriz) > atol; iter++ {
		if iter > 200 {
			return geom.Point2D{}, errs.Solution("findSaddlePoint", "did not converge in 200 iterations")
		}
		var err error
		extremumVert, err = vertSearch(f, posBottom, posTop, 0.5*atol)
		if err != nil {
			return geom.Point2D{}, err
		}
		deltaZ := extremumVert.Sub(p1).Dot(e1)
		posLeft = p1.Add(e1.Scale(deltaZ))
		posRight = p4.Add(e1.Scale(deltaZ))

		extremumHoriz, err = horizSearch(f, posLeft, posRight, 0.5*atol)
		if err != nil {
			return geom.Point2D{}, err
		}
		deltaR := extremumHoriz.Sub(p1).Dot(e2)
		posBottom = p1.Add(e2.Scale(deltaR))
		posTop = p2.Add(e2.Scale(deltaR))
	}
	return geom.Lerp(extremumHoriz, extremumVert, 0.5), nil
}

// FindSaddlePoint is the exported entry point for equilibrium's X-point
// search (see Equilibrium.FindXPoints).
func FindSaddlePoint(f psi.Interpolator, p1, p2 geom.Point2D, atol float64) (geom.Point2D, error) {
	return findSaddlePoint(f, p1, p2, atol)
}

// findRoots1D finds n roots of scalar function g in [xmin,xmax], doubling
// the number of sampled intervals until at least n sign changes are
// bracketed, then Brent-solving each bracket (spec.md §4.7 findRoots_1d).
func findRoots1D(g func(x float64) float64, n int, xmin, xmax, atol float64, maxIntervals int) ([]float64, error) {
	if maxIntervals <= 0 {
		maxIntervals = 1024
	}
	nIntervals := n
	var xs []float64
	var fs []float64
	for {
		xs = make([]float64, nIntervals+1)
		fs = make([]float64, nIntervals+1)
		for i := range xs {
			xs[i] = xmin + (xmax-xmin)*float64(i)/float64(nIntervals)
			fs[i] = g(xs[i])
		}
		count := 0
		for i := 0; i < nIntervals; i++ {
			if math.Signbit(fs[i]) != math.Signbit(fs[i+1]) {
				count++
			}
		}
		if count >= n {
			break
		}
		nIntervals *= 2
		if nIntervals > maxIntervals {
			return nil, errs.Solution("findRoots1D", "could not find %d roots within %d intervals", n, maxIntervals)
		}
	}
	var roots []float64
	for i := 0; i < nIntervals; i++ {
		if math.Signbit(fs[i]) == math.Signbit(fs[i+1]) {
			continue
		}
		ffcn := func(x float64) (float64, error) { return g(x), nil }
		r, err := num.NewBrent(ffcn, nil).Root(xs[i], xs[i+1])
		if err != nil {
			return nil, errs.Solution("findRoots1D", "root finding failed in [%g,%g]: %v", xs[i], xs[i+1], err)
		}
		roots = append(roots, r)
	}
	return roots, nil
}

// FindRoots1D is the exported entry point.
func FindRoots1D(g func(x float64) float64, n int, xmin, xmax, atol float64) ([]float64, error) {
	return findRoots1D(g, n, xmin, xmax, atol, 1024)
}
