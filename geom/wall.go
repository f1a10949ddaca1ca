// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// Wall is a closed polygonal first-wall contour, vertices counter-clockwise.
// Closure between the last and first vertex is implicit (spec.md §6):
// callers may pass either an open or an already-closed ring and NewWall
// normalises it to the open form (no repeated first/last point), the way
// hypnotoad's equilibrium.py appends the closing point itself rather than
// trusting the g-file reader to have done so.
type Wall struct {
	Points []Point2D
}

// NewWall builds a Wall from a sequence of vertices, dropping a trailing
// point that merely duplicates the first one.
func NewWall(points []Point2D) Wall {
	pts := append([]Point2D(nil), points...)
	if len(pts) > 1 && Dist(pts[0], pts[len(pts)-1]) < IntersectTolerance {
		pts = pts[:len(pts)-1]
	}
	return Wall{Points: pts}
}

// edges returns the wall's segments, including the implicit closing edge.
func (w Wall) edges() []Segment {
	n := len(w.Points)
	edges := make([]Segment, n)
	for i := 0; i < n; i++ {
		edges[i] = Segment{A: w.Points[i], B: w.Points[(i+1)%n]}
	}
	return edges
}

// Intersect returns all points where the segment l2 crosses the wall.
func (w Wall) Intersect(l2 Segment) ([]Point2D, error) {
	ring := append(append([]Point2D(nil), w.Points...), w.Points[0])
	return PolylineIntersect(ring, l2)
}

// WallIntersection implements spec.md §4.7's wallIntersection(p1,p2): it
// delegates to PolylineIntersect against the wall ring and asserts at most
// one *distinct* geometric intersection (duplicate intersections within
// IntersectTolerance are allowed and already deduplicated by Intersect).
func (w Wall) WallIntersection(p1, p2 Point2D) (Point2D, error) {
	hits, err := w.Intersect(Segment{A: p1, B: p2})
	if err != nil {
		return Point2D{}, err
	}
	if len(hits) > 1 {
		return Point2D{}, tooManyHits(len(hits))
	}
	return hits[0], nil
}

// tooManyHits is defined in a separate indirection so geom does not need to
// import the errs package (which would create an import cycle with
// higher-level packages); callers that need a typed ConsistencyError
// re-wrap this.
func tooManyHits(n int) error {
	return &multiIntersectionError{n: n}
}

type multiIntersectionError struct{ n int }

func (e *multiIntersectionError) Error() string {
	return "wall intersection is not unique"
}

// NumHits reports how many distinct hits caused a multiIntersectionError,
// so callers can build a precise ConsistencyError message.
func NumHits(err error) (int, bool) {
	e, ok := err.(*multiIntersectionError)
	if !ok {
		return 0, false
	}
	return e.n, true
}
