// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contour

import (
	"math"

	"github.com/cpmech/gosl/gm"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// PsiContour is a coarse polyline on a fixed psi-isoline with index-based
// navigation and a lazily computed FineContour (spec.md §4.3). The psi
// value is fixed at construction; any mutation that changes start/end
// indices, prepends/appends, or changes extensions invalidates the cached
// FineContour and distance slice.
type PsiContour struct {
	Psi0         float64
	Points       []geom.Point2D
	StartInd     int
	EndInd       int
	ExtendLower  int
	ExtendUpper  int

	f   psi.Interpolator
	prm RefineParams

	fine     *FineContour // lazily computed, invalidated on mutation
	distance []float64    // lazily computed, invalidated on mutation
}

// NewPsiContour builds a PsiContour from an ordered set of points already
// believed to lie on psi0 (callers typically obtain these points from
// psi.FollowPerpendicular and then Refine each one).
func NewPsiContour(psi0 float64, points []geom.Point2D, f psi.Interpolator, prm RefineParams) *PsiContour {
	return &PsiContour{
		Psi0:     psi0,
		Points:   append([]geom.Point2D(nil), points...),
		StartInd: 0,
		EndInd:   len(points) - 1,
		f:        f,
		prm:      prm,
	}
}

// Len returns the number of stored points.
func (pc *PsiContour) Len() int { return len(pc.Points) }

// At returns the point at index i.
func (pc *PsiContour) At(i int) geom.Point2D { return pc.Points[i] }

// invalidate clears the cached FineContour and distance slice, per the
// invalidation rule in spec.md §3.
func (pc *PsiContour) invalidate() {
	pc.fine = nil
	pc.distance = nil
}

// FineContour returns the cached dense contour, computing it on first use.
func (pc *PsiContour) FineContour() (*FineContour, error) {
	if pc.fine == nil {
		fc, err := NewFineContour(pc, pc.f, pc.prm)
		if err != nil {
			return nil, err
		}
		pc.fine = fc
	}
	return pc.fine, nil
}

// Reverse reverses the point order in place and invalidates caches.
func (pc *PsiContour) Reverse() {
	n := len(pc.Points)
	rev := make([]geom.Point2D, n)
	for i, p := range pc.Points {
		rev[n-1-i] = p
	}
	pc.Points = rev
	newStart := n - 1 - pc.EndInd
	newEnd := n - 1 - pc.StartInd
	pc.StartInd, pc.EndInd = newStart, newEnd
	pc.ExtendLower, pc.ExtendUpper = pc.ExtendUpper, pc.ExtendLower
	pc.invalidate()
}

// bins builds a gosl/gm spatial index over Points for nearest-point
// queries, used by insertFindPosition below.
func (pc *PsiContour) bins() *gm.Bins {
	if len(pc.Points) == 0 {
		return nil
	}
	xmin, xmax := pc.Points[0].R, pc.Points[0].R
	ymin, ymax := pc.Points[0].Z, pc.Points[0].Z
	for _, p := range pc.Points {
		xmin, xmax = math.Min(xmin, p.R), math.Max(xmax, p.R)
		ymin, ymax = math.Min(ymin, p.Z), math.Max(ymax, p.Z)
	}
	n := len(pc.Points)
	ndiv := int(math.Max(1, math.Sqrt(float64(n))))
	b := new(gm.Bins)
	b.Init([]float64{xmin, ymin}, []float64{xmax + 1e-12, ymax + 1e-12}, []int{ndiv, ndiv})
	for i, p := range pc.Points {
		b.Append([]float64{p.R, p.Z}, i)
	}
	return b
}

// insertFindPosition locates the nearest existing point to p; if closer
// than refine_atol it returns that index with no insertion, else it
// inserts p so the polyline remains monotonically traversed (spec.md
// §4.3). Returns the index of (now) p.
func (pc *PsiContour) insertFindPosition(p geom.Point2D) int {
	b := pc.bins()
	best := -1
	bestD := math.Inf(1)
	if b != nil {
		ids := b.FindAlong([]float64{p.R, p.Z}, pc.prm.RefineWidth+pc.prm.RefineAtol)
		for _, id := range ids {
			if d := geom.Dist(p, pc.Points[id]); d < bestD {
				bestD, best = d, id
			}
		}
	}
	if best == -1 {
		// fall back to brute force if the bin radius missed everything
		for i, q := range pc.Points {
			if d := geom.Dist(p, q); d < bestD {
				bestD, best = d, i
			}
		}
	}
	if bestD < pc.prm.RefineAtol {
		return best
	}
	// insert in the monotone position: the side of `best` whose neighbour
	// segment p projects onto with parameter in [0,1].
	insertAt := best + 1
	if best > 0 {
		segPrev := pc.Points[best].Sub(pc.Points[best-1])
		tPrev := p.Sub(pc.Points[best-1]).Dot(segPrev) / segPrev.Dot(segPrev)
		if tPrev >= 0 && tPrev <= 1 {
			insertAt = best
		}
	}
	pts := make([]geom.Point2D, 0, len(pc.Points)+1)
	pts = append(pts, pc.Points[:insertAt]...)
	pts = append(pts, p)
	pts = append(pts, pc.Points[insertAt:]...)
	pc.Points = pts
	if insertAt <= pc.StartInd {
		pc.StartInd++
	}
	if insertAt <= pc.EndInd {
		pc.EndInd++
	}
	pc.invalidate()
	return insertAt
}

// ContourSfunc is the exported form of contourSfunc, used by meshregion's
// addPointAtWallToContours which must capture the orthogonal spacing
// function before any wall-point insertion disturbs contour spacing.
func (pc *PsiContour) ContourSfunc() (func(i float64) float64, error) {
	return pc.contourSfunc()
}

// InsertFindPosition is the exported form of insertFindPosition.
func (pc *PsiContour) InsertFindPosition(p geom.Point2D) int {
	return pc.insertFindPosition(p)
}

// ExtendOne extrapolates and refines a single new endpoint at the start
// (atStart=true) or end of the contour, appending it in place (spec.md §4.3
// temporaryExtend, used one point at a time by addPointAtWallToContours
// when no wall intersection is found within the current points).
func (pc *PsiContour) ExtendOne(atStart bool) error {
	var ext []geom.Point2D
	if atStart {
		ext = extrapolatePoints(pc.Points, true, 1)
	} else {
		ext = extrapolatePoints(pc.Points, false, 1)
	}
	seed := ext[0]
	tangent := pc.endTangent(atStart)
	refined, err := psi.Refine(pc.f, seed, tangent, pc.prm.RefineWidth, pc.prm.RefineAtol, pc.Psi0, pc.prm.RefineMethods)
	if err != nil {
		return errs.Solution("PsiContour.ExtendOne", "could not extend and refine new endpoint: %v", err)
	}
	if atStart {
		pc.Points = append([]geom.Point2D{refined}, pc.Points...)
		pc.StartInd++
		pc.EndInd++
		pc.ExtendLower++
	} else {
		pc.Points = append(pc.Points, refined)
		pc.ExtendUpper++
	}
	pc.invalidate()
	return nil
}

// endTangent estimates a projection direction at the contour's current
// start/end via the local secant of the two nearest points.
func (pc *PsiContour) endTangent(atStart bool) geom.Point2D {
	n := len(pc.Points)
	if n < 2 {
		return geom.Point2D{R: 1, Z: 0}
	}
	var d geom.Point2D
	if atStart {
		d = pc.Points[1].Sub(pc.Points[0])
	} else {
		d = pc.Points[n-1].Sub(pc.Points[n-2])
	}
	if d.Mag() == 0 {
		return geom.Point2D{R: 1, Z: 0}
	}
	return d.Perp().Unit()
}

// contourSfunc returns a piecewise function of (possibly non-integer)
// index i giving distance relative to distance[StartInd], clamped to 0
// below StartInd and to totalDistance above EndInd, cubic in between
// (spec.md §4.3).
func (pc *PsiContour) contourSfunc() (func(i float64) float64, error) {
	dist, err := pc.distances()
	if err != nil {
		return nil, err
	}
	ref := dist[pc.StartInd]
	total := dist[pc.EndInd] - ref
	n := len(dist)
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i := 0; i < n; i++ {
		xs[i] = float64(i)
		ys[i] = dist[i] - ref
	}
	spl := newCubicSpline(xs, ys)
	return func(i float64) float64 {
		if i <= float64(pc.StartInd) {
			return 0
		}
		if i >= float64(pc.EndInd) {
			return total
		}
		return spl.Eval(i)
	}, nil
}

// distances returns (and caches) the cumulative arclength of Points.
func (pc *PsiContour) distances() ([]float64, error) {
	if pc.distance != nil {
		return pc.distance, nil
	}
	pc.distance = cumulativeArclength(pc.Points)
	return pc.distance, nil
}

// temporaryExtendPositions extrapolates `lower` points before index 0 and
// `upper` points after the last index using a local spline fit of up to 4
// nearby points (linear beyond the end knot), without mutating the receiver (spec.md §4.3
// temporaryExtend, used internally by FineContour construction/extension).
func (pc *PsiContour) temporaryExtendPositions(lower, upper int) []geom.Point2D {
	pts := append([]geom.Point2D(nil), pc.Points...)
	if lower > 0 {
		ext := extrapolatePoints(pts, true, lower)
		pts = append(ext, pts...)
	}
	if upper > 0 {
		ext := extrapolatePoints(pts, false, upper)
		pts = append(pts, ext...)
	}
	return pts
}

// extrapolatePoints extrapolates `count` new points off the front (atStart)
// or back of pts using a natural cubic spline through up to 4 nearby
// existing points, which is linear beyond its end knots.
func extrapolatePoints(pts []geom.Point2D, atStart bool, count int) []geom.Point2D {
	n := len(pts)
	k := 4
	if k > n {
		k = n
	}
	var sample []geom.Point2D
	if atStart {
		sample = pts[:k]
	} else {
		sample = pts[n-k:]
	}
	dist := cumulativeArclength(sample)
	xs := dist
	ysR := make([]float64, k)
	ysZ := make([]float64, k)
	for i, p := range sample {
		ysR[i] = p.R
		ysZ[i] = p.Z
	}
	splR := newCubicSpline(xs, ysR)
	splZ := newCubicSpline(xs, ysZ)
	avgStep := dist[k-1] / float64(k-1)
	out := make([]geom.Point2D, count)
	for i := 0; i < count; i++ {
		var s float64
		if atStart {
			s = -avgStep * float64(count-i)
		} else {
			s = dist[k-1] + avgStep*float64(i+1)
		}
		out[i] = geom.Point2D{R: splR.Eval(s), Z: splZ.Eval(s)}
	}
	return out
}

// GetRegridded ensures the cached FineContour covers the requested
// arclength range, samples (R,Z) at s=sfunc(i) for i in
// [-extendLower, npoints-1+extendUpper], re-projects each point with a
// tight refine width, and returns a brand-new PsiContour carrying the
// extended FineContour (spec.md §4.3 getRegridded).
func (pc *PsiContour) GetRegridded(npoints int, sfunc func(i float64) float64, extendLower, extendUpper int) (*PsiContour, error) {
	fc, err := pc.FineContour()
	if err != nil {
		return nil, err
	}
	// extend the fine contour if the requested range runs past its cover,
	// with 1/4 of a fine spacing of slack.
	fineSpacing := fc.totalDistance() / float64(len(fc.Positions)-1)
	slack := 0.25 * fineSpacing
	sLo := sfunc(-float64(extendLower))
	sHi := sfunc(float64(npoints - 1 + extendUpper))
	needLower, needUpper := 0, 0
	if sLo < -slack {
		needLower = 2
	}
	if sHi > fc.totalDistance()+slack {
		needUpper = 2
	}
	if needLower > 0 || needUpper > 0 {
		if err := fc.extend(pc, needLower, needUpper); err != nil {
			return nil, err
		}
	}

	tight := pc.prm
	tight.RefineWidth = pc.prm.RefineWidth * 0.1

	n := npoints + extendLower + extendUpper
	pts := make([]geom.Point2D, n)
	for k := 0; k < n; k++ {
		i := float64(k - extendLower)
		s := sfunc(i)
		seed := fc.Eval(s)
		tangent := fc.localTangentAtS(s)
		refined, err := psi.Refine(pc.f, seed, tangent, tight.RefineWidth, tight.RefineAtol, pc.Psi0, tight.RefineMethods)
		if err != nil {
			return nil, errs.Solution("PsiContour.GetRegridded", "could not re-project regridded point %d: %v", k, err)
		}
		pts[k] = refined
	}

	out := NewPsiContour(pc.Psi0, pts, pc.f, pc.prm)
	out.StartInd = extendLower
	out.EndInd = extendLower + npoints - 1
	out.ExtendLower = extendLower
	out.ExtendUpper = extendUpper
	out.fine = fc // re-attach the extended fine contour (still valid: it covers a superset of the new contour's range)
	return out, nil
}

// localTangentAtS returns the unit direction perpendicular to the fine
// contour's local chord at arclength s (a small central difference), which
// callers use as the projection direction.
func (fc *FineContour) localTangentAtS(s float64) geom.Point2D {
	const h = 1e-6
	a := fc.Eval(s - h)
	b := fc.Eval(s + h)
	d := b.Sub(a)
	if d.Mag() == 0 {
		return geom.Point2D{R: 1, Z: 0}
	}
	return d.Perp().Unit()
}
