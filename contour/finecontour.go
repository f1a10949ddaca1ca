// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package contour implements dense (FineContour) and coarse (PsiContour)
// polylines lying on a psi-isoline, with index-based navigation, lazy
// refinement, and arclength-uniform regridding (spec.md §4.2, §4.3).
package contour

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// RefineParams collects the tolerances FineContour/PsiContour need from
// config.Options, kept as a small value type here rather than depending on
// the config package directly (avoids an import cycle since config has no
// reason to know about contour).
type RefineParams struct {
	RefineWidth   float64
	RefineAtol    float64
	RefineMethods []psi.Method
	Nfine         int
	Atol          float64
	Maxits        int
}

// FineContour is a dense, uniformly arclength-spaced, high-accuracy
// polyline on a single psi-isoline (spec.md §4.2).
type FineContour struct {
	Psi0      float64
	Positions []geom.Point2D
	Distance  []float64 // cumulative arclength, distance[StartInd] is the interpolation reference zero (I4)
	StartInd  int
	EndInd    int
	ExtendLowerFine int
	ExtendUpperFine int

	f    psi.Interpolator
	prm  RefineParams
}

// totalDistance returns distance[EndInd] - distance[StartInd].
func (fc *FineContour) totalDistance() float64 {
	return fc.Distance[fc.EndInd] - fc.Distance[fc.StartInd]
}

// TotalDistance is the exported form of totalDistance.
func (fc *FineContour) TotalDistance() float64 { return fc.totalDistance() }

// NewFineContour builds a FineContour from a coarse PsiContour (spec.md
// §4.2 Initialization + Equalisation loop).
func NewFineContour(parent *PsiContour, f psi.Interpolator, prm RefineParams) (*FineContour, error) {
	nfine := prm.Nfine
	if nfine < 2 {
		nfine = 2
	}
	// extension counts scaled (doubled) from the parent's coarse extensions
	extLower := 2 * parent.ExtendLower
	extUpper := 2 * parent.ExtendUpper

	// temporarily extend the parent by spline extrapolation so the fine
	// seed covers the full requested index range including guard cells.
	extended := parent.temporaryExtendPositions(parent.ExtendLower, parent.ExtendUpper)

	// seed Nfine positions evenly in estimated arclength using a cubic
	// interpolant of the (possibly extended) coarse polyline.
	coarseDist := cumulativeArclength(extended)
	total := coarseDist[len(coarseDist)-1]
	xs := make([]float64, len(extended))
	ysR := make([]float64, len(extended))
	ysZ := make([]float64, len(extended))
	for i, p := range extended {
		xs[i] = coarseDist[i]
		ysR[i] = p.R
		ysZ[i] = p.Z
	}
	splR := newCubicSpline(xs, ysR)
	splZ := newCubicSpline(xs, ysZ)

	seeds := make([]geom.Point2D, nfine)
	for i := 0; i < nfine; i++ {
		s := total * float64(i) / float64(nfine-1)
		seeds[i] = geom.Point2D{R: splR.Eval(s), Z: splZ.Eval(s)}
	}

	fc := &FineContour{
		Psi0:            parent.Psi0,
		Positions:       seeds,
		StartInd:        extLower,
		EndInd:          nfine - 1 - extUpper,
		ExtendLowerFine: extLower,
		ExtendUpperFine: extUpper,
		f:               f,
		prm:             prm,
	}
	if err := fc.equalise(); err != nil {
		return nil, err
	}
	return fc, nil
}

// equalise implements spec.md §4.2's equalisation loop.
func (fc *FineContour) equalise() error {
	n := len(fc.Positions)
	for it := 0; it < fc.prm.Maxits; it++ {
		for i := range fc.Positions {
			tangent := fc.localTangent(i)
			refined, err := psi.Refine(fc.f, fc.Positions[i], tangent, fc.prm.RefineWidth, fc.prm.RefineAtol, fc.Psi0, fc.prm.RefineMethods)
			if err != nil {
				return errs.Solution("FineContour.equalise", "refinePoint diverged at index %d: %v", i, err)
			}
			fc.Positions[i] = refined
		}
		fc.Distance = cumulativeArclength(fc.Positions)
		dsMean := fc.Distance[n-1] / float64(n-1)
		dsErr := 0.0
		for i := 0; i+1 < n; i++ {
			ds := fc.Distance[i+1] - fc.Distance[i]
			if e := math.Abs(ds - dsMean); e > dsErr {
				dsErr = e
			}
		}
		if dsErr <= fc.prm.Atol {
			return nil
		}
		fc.resampleUniform()
	}
	io.Pfyel("warning: FineContour did not equalise within %d iterations\n", fc.prm.Maxits)
	fc.Distance = cumulativeArclength(fc.Positions)
	return nil
}

// resampleUniform re-samples Nfine positions at uniform arclength using a
// cubic interpolant of the current positions.
func (fc *FineContour) resampleUniform() {
	n := len(fc.Positions)
	xs := fc.Distance
	ysR := make([]float64, n)
	ysZ := make([]float64, n)
	for i, p := range fc.Positions {
		ysR[i] = p.R
		ysZ[i] = p.Z
	}
	splR := newCubicSpline(xs, ysR)
	splZ := newCubicSpline(xs, ysZ)
	total := xs[n-1]
	next := make([]geom.Point2D, n)
	for i := 0; i < n; i++ {
		s := total * float64(i) / float64(n-1)
		next[i] = geom.Point2D{R: splR.Eval(s), Z: splZ.Eval(s)}
	}
	fc.Positions = next
}

// localTangent estimates a projection direction at index i via the local
// secant of the current positions (central difference away from the ends).
func (fc *FineContour) localTangent(i int) geom.Point2D {
	n := len(fc.Positions)
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	d := fc.Positions[hi].Sub(fc.Positions[lo])
	if d.Mag() == 0 {
		return geom.Point2D{R: 1, Z: 0}
	}
	return d.Perp().Unit() // project perpendicular to the local secant, i.e. toward the isoline
}

func cumulativeArclength(pts []geom.Point2D) []float64 {
	d := make([]float64, len(pts))
	for i := 1; i < len(pts); i++ {
		d[i] = d[i-1] + geom.Dist(pts[i-1], pts[i])
	}
	return d
}

// interpFunction returns splines (R(s), Z(s)) with s measured from
// distance[StartInd], extrapolating linearly outside.
func (fc *FineContour) interpFunction() (*cubicSpline, *cubicSpline) {
	n := len(fc.Positions)
	xs := make([]float64, n)
	ysR := make([]float64, n)
	ysZ := make([]float64, n)
	ref := fc.Distance[fc.StartInd]
	for i := 0; i < n; i++ {
		xs[i] = fc.Distance[i] - ref
		ysR[i] = fc.Positions[i].R
		ysZ[i] = fc.Positions[i].Z
	}
	return newCubicSpline(xs, ysR), newCubicSpline(xs, ysZ)
}

// Eval returns the interpolated point at arclength s (relative to
// distance[StartInd]).
func (fc *FineContour) Eval(s float64) geom.Point2D {
	splR, splZ := fc.interpFunction()
	return geom.Point2D{R: splR.Eval(s), Z: splZ.Eval(s)}
}

// getDistance estimates the arclength (relative to index 0, not StartInd)
// of a point p by linear interpolation between the two nearest fine points.
func (fc *FineContour) getDistance(p geom.Point2D) float64 {
	best := 0
	bestD := math.Inf(1)
	for i, q := range fc.Positions {
		if d := geom.Dist(p, q); d < bestD {
			bestD = d
			best = i
		}
	}
	// pick neighbour on the side of p to linearly interpolate against
	neighbour := best + 1
	if best == len(fc.Positions)-1 {
		neighbour = best - 1
	} else if best > 0 {
		dPrev := geom.Dist(p, fc.Positions[best-1])
		dNext := geom.Dist(p, fc.Positions[best+1])
		if dPrev < dNext {
			neighbour = best - 1
		}
	}
	a, b := fc.Positions[best], fc.Positions[neighbour]
	seg := b.Sub(a)
	segLen2 := seg.Dot(seg)
	t := 0.0
	if segLen2 > 0 {
		t = p.Sub(a).Dot(seg) / segLen2
	}
	dA, dB := fc.Distance[best], fc.Distance[neighbour]
	return dA + t*(dB-dA)
}

// reverse reverses Positions in place and recomputes indices and distance
// as (total - d[::-1]) (spec.md §4.2; round-trip property R2).
func (fc *FineContour) reverse() {
	n := len(fc.Positions)
	rev := make([]geom.Point2D, n)
	dist := make([]float64, n)
	total := fc.Distance[n-1]
	for i := 0; i < n; i++ {
		rev[i] = fc.Positions[n-1-i]
		dist[i] = total - fc.Distance[n-1-i]
	}
	fc.Positions = rev
	fc.Distance = dist
	newStart := n - 1 - fc.EndInd
	newEnd := n - 1 - fc.StartInd
	fc.StartInd, fc.EndInd = newStart, newEnd
	fc.ExtendLowerFine, fc.ExtendUpperFine = fc.ExtendUpperFine, fc.ExtendLowerFine
}

// Reverse is the exported form of reverse, returning a new FineContour so
// callers that want the value-type ergonomics of PsiContour can choose.
func (fc *FineContour) Reverse() *FineContour {
	out := *fc
	out.Positions = append([]geom.Point2D(nil), fc.Positions...)
	out.Distance = append([]float64(nil), fc.Distance...)
	out.reverse()
	return &out
}

// extend grows Positions by extrapolation of the parent coarse contour and
// re-equalises (spec.md §4.2 extend(lower,upper)).
func (fc *FineContour) extend(parent *PsiContour, lower, upper int) error {
	if lower == 0 && upper == 0 {
		return nil
	}
	extended := parent.temporaryExtendPositions(lower, upper)
	coarseDist := cumulativeArclength(extended)
	total := coarseDist[len(coarseDist)-1]
	n := len(fc.Positions) + 2*(lower+upper) // keep density roughly constant
	xs := make([]float64, len(extended))
	ysR := make([]float64, len(extended))
	ysZ := make([]float64, len(extended))
	for i, p := range extended {
		xs[i] = coarseDist[i]
		ysR[i] = p.R
		ysZ[i] = p.Z
	}
	splR := newCubicSpline(xs, ysR)
	splZ := newCubicSpline(xs, ysZ)
	seeds := make([]geom.Point2D, n)
	for i := 0; i < n; i++ {
		s := total * float64(i) / float64(n-1)
		seeds[i] = geom.Point2D{R: splR.Eval(s), Z: splZ.Eval(s)}
	}
	fc.Positions = seeds
	fc.StartInd += 2 * lower
	fc.EndInd += 2 * lower
	fc.ExtendLowerFine += 2 * lower
	fc.ExtendUpperFine += 2 * upper
	return fc.equalise()
}

// interpSSperp builds s(s_perp) where s_perp is the signed distance of
// each fine point projected onto v-perpendicular, enforcing monotonicity
// by reflecting any locally-decreasing span (spec.md §4.2).
func (fc *FineContour) interpSSperp(origin geom.Point2D, v geom.Point2D) *cubicSpline {
	n := len(fc.Positions)
	perp := v.Perp().Unit()
	sPerp := make([]float64, n)
	for i, p := range fc.Positions {
		sPerp[i] = p.Sub(origin).Dot(perp)
	}
	// enforce monotone increasing sPerp by reflecting decreasing spans
	monotone := make([]float64, n)
	monotone[0] = sPerp[0]
	for i := 1; i < n; i++ {
		d := sPerp[i] - sPerp[i-1]
		monotone[i] = monotone[i-1] + math.Abs(d)
	}
	return newCubicSpline(monotone, fc.Distance)
}
