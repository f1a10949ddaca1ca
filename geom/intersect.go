// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// IntersectTolerance is the inclusive tolerance used to accept a crossing
// as lying on both segments (spec.md §4.1).
const IntersectTolerance = 1e-14

// parallelTolerance is the minimum |cross(d1,d2)| below which two edges are
// treated as parallel and skipped, regardless of how close to an
// intersection the nearly-parallel solve looks.
const parallelTolerance = 1e-15

// Segment is a directed line segment from A to B.
type Segment struct{ A, B Point2D }

// edgeOrientation classifies a segment by which axis varies more, so that
// the caller can reason about which parameterisation is numerically
// well-posed, matching spec.md's "partition by orientation" step.
type edgeOrientation int

const (
	orientR edgeOrientation = iota // |ΔR| > |ΔZ|: parameterise by R
	orientZ                        // otherwise: parameterise by Z
)

func orientationOf(s Segment) edgeOrientation {
	if math.Abs(s.B.R-s.A.R) > math.Abs(s.B.Z-s.A.Z) {
		return orientR
	}
	return orientZ
}

// solveSegments returns the intersection parameter pair (t,u) of segments
// p=A+t(B-A) and q=C+u(D-C), and whether the two segments are parallel to
// within parallelTolerance. Using Cramer's rule on the direction vectors is
// equivalent to, and better conditioned than, separately solving the
// R-dominant/Z-dominant slope-intercept forms that spec.md describes: the
// orientation partition above exists to avoid dividing by a
// near-zero ΔR or ΔZ, which Cramer's rule never does.
func solveSegments(s1, s2 Segment) (t, u float64, parallel bool) {
	d1 := s1.B.Sub(s1.A)
	d2 := s2.B.Sub(s2.A)
	denom := d1.R*d2.Z - d1.Z*d2.R
	if math.Abs(denom) < parallelTolerance {
		return 0, 0, true
	}
	w := s2.A.Sub(s1.A)
	t = (w.R*d2.Z - w.Z*d2.R) / denom
	u = (w.R*d1.Z - w.Z*d1.R) / denom
	return t, u, false
}

// NoIntersection is returned by the intersection routines below when no
// crossing satisfying the tolerance is found.
var NoIntersection = chk.Err("no intersection found")

// SegmentIntersect returns the single intersection point of two finite
// segments, if it exists within IntersectTolerance on both parameters.
func SegmentIntersect(s1, s2 Segment) (Point2D, error) {
	_ = orientationOf(s1) // orientation is informative only; see solveSegments.
	t, u, parallel := solveSegments(s1, s2)
	if parallel {
		return Point2D{}, NoIntersection
	}
	const tol = IntersectTolerance
	if t < -tol || t > 1+tol || u < -tol || u > 1+tol {
		return Point2D{}, NoIntersection
	}
	return s1.A.Add(s1.B.Sub(s1.A).Scale(t)), nil
}

// PolylineIntersect returns every point at which the polyline L1 (N
// vertices, N-1 edges) crosses the finite segment L2, deduplicating points
// that coincide within IntersectTolerance. Returns NoIntersection if none
// are found.
func PolylineIntersect(l1 []Point2D, l2 Segment) ([]Point2D, error) {
	var hits []Point2D
	for i := 0; i+1 < len(l1); i++ {
		edge := Segment{A: l1[i], B: l1[i+1]}
		p, err := SegmentIntersect(edge, l2)
		if err != nil {
			continue
		}
		dup := false
		for _, h := range hits {
			if Dist(h, p) <= IntersectTolerance {
				dup = true
				break
			}
		}
		if !dup {
			hits = append(hits, p)
		}
	}
	if len(hits) == 0 {
		return nil, NoIntersection
	}
	return hits, nil
}
