// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"github.com/cpmech/gridgen/config"
	"github.com/cpmech/gridgen/contour"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// Connection names, per poloidal segment, the neighbouring region (by name)
// reached by stepping across each of the segment's four logical edges; an
// empty string means that edge borders the wall or an unconnected boundary
// (spec.md §3 EquilibriumRegion "connection dictionary").
type Connection struct {
	Inner, Outer, Lower, Upper string
}

// SegmentSpacing is the per-segment set of analytic-spacing-law parameters
// spec.md §4.6 lists on EquilibriumRegion: the sqrt-family end coefficients
// (nil when that end is not singular), the monotonic-family end slopes, and
// the non-orthogonal Gaussian blend ranges split by inner/outer side.
type SegmentSpacing struct {
	SqrtALower, SqrtBLower *float64
	SqrtAUpper, SqrtBUpper *float64

	MonotonicDLower, MonotonicDUpper float64

	NonorthogonalRangeLowerInner, NonorthogonalRangeLowerOuter float64
	NonorthogonalRangeUpperInner, NonorthogonalRangeUpperOuter float64

	NNorm float64
}

// Region is spec.md §3's EquilibriumRegion: a poloidal segment of the
// separatrix/boundary, extending contour.PsiContour with the radial
// sub-division (nSegments psi-levels split into per-segment ny cell counts),
// connection metadata, X-point markers, optional wall tangents, and the
// spacing-law parameters consumed by Sfunc.
type Region struct {
	*contour.PsiContour

	Name      string
	NSegments int
	Ny        []int
	PsiVals   []float64

	Connections []Connection
	XPointStart []bool
	XPointEnd   []bool

	WallTangentStart []*geom.Point2D
	WallTangentEnd   []*geom.Point2D

	Spacing []SegmentSpacing

	// SeparatrixRadialIndex divides inside-separatrix radial cells
	// (index < SeparatrixRadialIndex) from outside-separatrix ones.
	SeparatrixRadialIndex int

	opt *config.Options
}

// NewRegion builds a Region from an already-constructed separatrix segment
// (the poloidal polyline) and the per-segment metadata arrays, all of which
// must have length NSegments.
func NewRegion(name string, seg *contour.PsiContour, psiVals []float64, ny []int, opt *config.Options) *Region {
	n := len(ny)
	return &Region{
		PsiContour:       seg,
		Name:             name,
		NSegments:        n,
		Ny:               ny,
		PsiVals:          psiVals,
		Connections:      make([]Connection, n),
		XPointStart:      make([]bool, n),
		XPointEnd:        make([]bool, n),
		WallTangentStart: make([]*geom.Point2D, n),
		WallTangentEnd:   make([]*geom.Point2D, n),
		Spacing:          make([]SegmentSpacing, n),
		opt:              opt,
	}
}

// TotalNy returns the sum of per-segment ny, the region's full poloidal
// point count excluding y-boundary guards.
func (r *Region) TotalNy() int {
	total := 0
	for _, ny := range r.Ny {
		total += ny
	}
	return total
}

// Sfunc builds the orthogonal poloidal spacing law for segment k (spec.md
// §4.6): dispatches on config.Options.PoloidalSpacingMethod to either the
// sqrt family (X-point-adjacent segments, which carry non-nil sqrt
// coefficients) or the monotonic family, then checks the result with
// AssertMonotonic. No CombineSfuncs blending is applied here.
func (r *Region) Sfunc(k int, length float64) (SpacingFunc, error) {
	if k < 0 || k >= r.NSegments {
		return nil, errs.Consistency("Region.Sfunc", "segment index %d out of range [0,%d)", k, r.NSegments)
	}
	sp := r.Spacing[k]
	n := float64(r.Ny[k])
	nNorm := sp.NNorm
	if nNorm == 0 {
		nNorm = n
	}

	switch r.opt.PoloidalSpacingMethod {
	case config.SpacingSqrt:
		sfunc, err := SqrtSpacingFunc(length, n, nNorm, sp.SqrtALower, sp.SqrtBLower, sp.SqrtAUpper, sp.SqrtBUpper)
		if err != nil {
			return nil, err
		}
		if err := AssertMonotonic(r.Name, sfunc, -n, 2*n, 4*int(n)+8); err != nil {
			return nil, err
		}
		return sfunc, nil
	case config.SpacingMonotonic:
		dLower, dUpper := sp.MonotonicDLower, sp.MonotonicDUpper
		if dLower == 0 {
			dLower = r.opt.PolynomialDLower
		}
		if dUpper == 0 {
			dUpper = r.opt.PolynomialDUpper
		}
		sfunc, err := MonotonicSpacingFunc(length, n, nNorm, dLower, dUpper)
		if err != nil {
			return nil, err
		}
		if err := AssertMonotonic(r.Name, sfunc, -n, 2*n, 4*int(n)+8); err != nil {
			return nil, err
		}
		return sfunc, nil
	default:
		return nil, errs.Configuration("Region.Sfunc", "unknown poloidal_spacing_method %q", r.opt.PoloidalSpacingMethod)
	}
}

// SfuncNonorthogonal builds the non-orthogonal blend for segment k, per
// spec.md §4.8 distributePointsNonorthogonal: combining the orthogonal
// sfunc with fixed-poloidal/fixed-perpendicular variants according to
// config.Options.NonorthogonalSpacingMethod. perpLower/perpUpper are the
// perpendicular spacing maps for the lower/upper end; where one is nil, or
// the segment's WallTangentStart/WallTangentEnd is nil, that end falls
// back to plain poloidal spacing so shared contours between regions agree.
func (r *Region) SfuncNonorthogonal(k int, length float64, orthogonal SpacingFunc, perpLower, perpUpper func(i float64) float64) (SpacingFunc, error) {
	sp := r.Spacing[k]
	n := float64(r.Ny[k])
	nNorm := sp.NNorm
	if nNorm == 0 {
		nNorm = n
	}

	switch r.opt.NonorthogonalSpacingMethod {
	case config.NonorthoOrthogonal:
		return orthogonal, nil

	case config.NonorthoFixedPoloidal:
		return orthogonal, nil

	case config.NonorthoPoloidalOrthogonalComb:
		return CombineSfuncs(orthogonal, orthogonal, orthogonal,
			n, nNorm,
			sp.NonorthogonalRangeLowerInner, sp.NonorthogonalRangeUpperInner,
			true, true), nil

	case config.NonorthoFixedPerpLower:
		if perpLower == nil || r.WallTangentStart[k] == nil {
			return orthogonal, nil
		}
		return GetSfuncFixedPerpSpacing(orthogonal, perpLower), nil

	case config.NonorthoFixedPerpUpper:
		if perpUpper == nil || r.WallTangentEnd[k] == nil {
			return orthogonal, nil
		}
		return GetSfuncFixedPerpSpacing(orthogonal, perpUpper), nil

	case config.NonorthoPerpOrthogonalCombined:
		lower, upper := orthogonal, orthogonal
		hasLower, hasUpper := false, false
		if perpLower != nil && r.WallTangentStart[k] != nil {
			lower = GetSfuncFixedPerpSpacing(orthogonal, perpLower)
			hasLower = true
		}
		if perpUpper != nil && r.WallTangentEnd[k] != nil {
			upper = GetSfuncFixedPerpSpacing(orthogonal, perpUpper)
			hasUpper = true
		}
		return CombineSfuncs(lower, upper, orthogonal, n, nNorm,
			sp.NonorthogonalRangeLowerOuter, sp.NonorthogonalRangeUpperOuter, hasLower, hasUpper), nil

	case config.NonorthoCombined:
		lower, upper := orthogonal, orthogonal
		hasLower, hasUpper := false, false
		if perpLower != nil && r.WallTangentStart[k] != nil {
			lower = GetSfuncFixedPerpSpacing(orthogonal, perpLower)
			hasLower = true
		}
		if perpUpper != nil && r.WallTangentEnd[k] != nil {
			upper = GetSfuncFixedPerpSpacing(orthogonal, perpUpper)
			hasUpper = true
		}
		combined := CombineSfuncs(lower, upper, nil, n, nNorm,
			sp.NonorthogonalRangeLowerOuter, sp.NonorthogonalRangeUpperOuter, hasLower, hasUpper)
		return CombineSfuncs(combined, combined, orthogonal, n, nNorm,
			sp.NonorthogonalRangeLowerInner, sp.NonorthogonalRangeUpperInner, true, true), nil

	default:
		return nil, errs.Configuration("Region.SfuncNonorthogonal", "unknown nonorthogonal_spacing_method %q", r.opt.NonorthogonalSpacingMethod)
	}
}

// RadialWeightAt returns the radially-blended range values at radial index
// ix; it loops over every segment and returns the values of the last one,
// implementing spec.md §4.6's "if range_lower/upper depend
// on radial position they are blended radially" rule via RadialWeight.
func (r *Region) RadialWeightAt(ix, nInside, nOutside float64) (rangeLower, rangeUpper float64) {
	power := r.opt.NonorthogonalRadialRangePower
	for k := range r.Spacing {
		sp := &r.Spacing[k]
		rangeLower = RadialWeight(ix, nOutside, nInside, power,
			0.5*(sp.NonorthogonalRangeLowerInner+sp.NonorthogonalRangeLowerOuter),
			sp.NonorthogonalRangeLowerInner, sp.NonorthogonalRangeLowerOuter)
		rangeUpper = RadialWeight(ix, nOutside, nInside, power,
			0.5*(sp.NonorthogonalRangeUpperInner+sp.NonorthogonalRangeUpperOuter),
			sp.NonorthogonalRangeUpperInner, sp.NonorthogonalRangeUpperOuter)
	}
	return
}

// ProjectRadially calls psi.FollowPerpendicular from every point of the
// region's separatrix segment out through r.PsiVals, used by meshregion
// construction (spec.md §4.8 step 4).
func (r *Region) ProjectRadially(f psi.Interpolator, rtol, atol float64) ([][]geom.Point2D, error) {
	out := make([][]geom.Point2D, r.Len())
	psi0 := r.Psi0
	for i := 0; i < r.Len(); i++ {
		pts, err := psi.FollowPerpendicular(f, r.At(i), psi0, r.PsiVals, rtol, atol)
		if err != nil {
			return nil, errs.Solution("Region.ProjectRadially", "point %d of region %s: %v", i, r.Name, err)
		}
		out[i] = pts
	}
	return out, nil
}
