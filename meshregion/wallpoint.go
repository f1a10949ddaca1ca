// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshregion

import (
	"github.com/cpmech/gridgen/contour"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/tracer"
)

// maxWallExtensions bounds addPointAtWall's one-point-at-a-time contour
// extension (spec.md §5 "temporaryExtend <= 100 extensions per end").
const maxWallExtensions = 100

// addPointAtWallToContours implements spec.md §4.8's addPointAtWallToContours
// for every contour of the region that needs a wall at its lower and/or
// upper end. The orthogonal sfunc is captured before any insertion (because
// inserting the wall point disturbs contour spacing) and stored in
// mr.capturedSfuncs so distributePointsNonorthogonal can shift it to account for the distance
// difference between the original start and the wall.
func (mr *MeshRegion) addPointAtWallToContours(tr *tracer.FieldLinePerpTracer) error {
	wall := mr.wall()
	if len(wall.Points) == 0 {
		return nil
	}
	mr.capturedSfuncs = make([]func(i float64) float64, len(mr.Contours))
	for k, c := range mr.Contours {
		sfunc, err := c.ContourSfunc()
		if err != nil {
			return err
		}
		mr.capturedSfuncs[k] = sfunc

		if mr.needsWallAt(lowerEnd) {
			if err := addPointAtWall(c, wall, lowerEnd, mr.Opt.RefineAtol); err != nil {
				return errs.Solution("MeshRegion.addPointAtWallToContours", "region %s contour %d lower end: %v", mr.Name, k, err)
			}
		}
		if mr.needsWallAt(upperEnd) {
			if err := addPointAtWall(c, wall, upperEnd, mr.Opt.RefineAtol); err != nil {
				return errs.Solution("MeshRegion.addPointAtWallToContours", "region %s contour %d upper end: %v", mr.Name, k, err)
			}
		}
	}
	return nil
}

type wallEnd bool

const (
	lowerEnd wallEnd = false
	upperEnd wallEnd = true
)

// needsWallAt reports whether the region's first/last poloidal segment of
// the separatrix borders the wall rather than another region, which the
// region's connection metadata records as an empty Lower/Upper neighbour
// name on the corresponding boundary segment.
func (mr *MeshRegion) needsWallAt(end wallEnd) bool {
	conns := mr.Region.Connections
	if len(conns) == 0 {
		return false
	}
	if end == lowerEnd {
		return conns[0].Lower == ""
	}
	return conns[len(conns)-1].Upper == ""
}

func (mr *MeshRegion) wall() geom.Wall {
	return mr.wallPolygon
}

// SetWall attaches the first-wall polygon this region's wall-facing
// segments must intersect. Equilibrium owns the canonical wall; callers
// wire it in before Build when Opt.Orthogonal is false.
func (mr *MeshRegion) SetWall(w geom.Wall) { mr.wallPolygon = w }

// addPointAtWall scans the contour's segments for a wall intersection,
// forward from index 0 for the lower end or forward from len(contour)/2 to
// the last point for the upper end (spec.md §9 resolves the "len(contour//2)" ambiguity this way: plain
// integer division gives the upper-search starting index regardless of
// parity, matching the only sensible reading of the original source), and
// extends the contour by one point at a time, up to maxWallExtensions,
// when no intersection is found within the current points.
func addPointAtWall(c *contour.PsiContour, wall geom.Wall, end wallEnd, atol float64) error {
	for ext := 0; ext <= maxWallExtensions; ext++ {
		start, stop, step := scanRange(c, end)
		for i := start; i != stop; i += step {
			a, b := c.At(i), c.At(i+step)
			hit, err := wall.WallIntersection(a, b)
			if err != nil {
				if n, ok := geom.NumHits(err); ok && n > 1 {
					return errs.Consistency("addPointAtWall", "more than one wall intersection on a single segment")
				}
				continue // no intersection on this segment
			}
			return snapOrInsert(c, hit, i, step, end, atol)
		}
		if ext == maxWallExtensions {
			break
		}
		if err := extendOneContourPoint(c, end); err != nil {
			return err
		}
	}
	return errs.Solution("addPointAtWall", "no wall intersection found within %d extensions", maxWallExtensions)
}

func scanRange(c *contour.PsiContour, end wallEnd) (start, stop, step int) {
	n := c.Len()
	if end == lowerEnd {
		return 0, n - 1, 1
	}
	return n / 2, n - 1, 1
}

// snapOrInsert uses the existing point i as the wall point if it lies
// within atol of the wall hit (the point itself is not moved onto the hit),
// otherwise inserts a new wall point in the monotone position, and moves
// StartInd/EndInd to it.
func snapOrInsert(c *contour.PsiContour, hit geom.Point2D, i, step int, end wallEnd, atol float64) error {
	a := c.At(i)
	idx := i
	if geom.Dist(a, hit) > atol {
		idx = c.InsertFindPosition(hit)
	}
	if end == lowerEnd {
		c.StartInd = idx
	} else {
		c.EndInd = idx
	}
	return nil
}

// extendOneContourPoint extrapolates a single new endpoint using the
// contour's own local cubic fit and re-projects it onto the isoline
// (spec.md §4.3 temporaryExtend, one step at a time).
func extendOneContourPoint(c *contour.PsiContour, end wallEnd) error {
	if end == lowerEnd {
		return c.ExtendOne(true)
	}
	return c.ExtendOne(false)
}
