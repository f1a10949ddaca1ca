// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import (
	"math"

	"github.com/cpmech/gridgen/config"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/psi"
)

// BoundingBox is (Rmin,Rmax,Zmin,Zmax), spec.md §6.
type BoundingBox struct {
	Rmin, Rmax, Zmin, Zmax float64
}

// Equilibrium owns psi, the ordered X-point list (primary first), the
// psi-values on each separatrix, fpol(psi), the closed wall polygon, the
// bounding box, and the ordered map of named Regions (spec.md §3
// Equilibrium).
type Equilibrium struct {
	F psi.Interpolator

	XPoints []geom.Point2D // primary first

	Fpol     func(psiVal float64) float64
	FpolPrim func(psiVal float64) float64
	BtAxis   float64

	Wall geom.Wall
	Box  BoundingBox

	regionNames []string
	regions     map[string]*Region

	opt *config.Options
}

// NewEquilibrium constructs an Equilibrium around an already-built
// Interpolator and the external collaborator inputs spec.md §6 names (the
// g-file reader supplies all of these; Equilibrium itself never parses a
// file).
func NewEquilibrium(f psi.Interpolator, fpol, fpolPrim func(float64) float64, btAxis float64, wall geom.Wall, box BoundingBox, opt *config.Options) *Equilibrium {
	return &Equilibrium{
		F:        f,
		Fpol:     fpol,
		FpolPrim: fpolPrim,
		BtAxis:   btAxis,
		Wall:     wall,
		Box:      box,
		regions:  make(map[string]*Region),
		opt:      opt,
	}
}

// AddRegion inserts a named region, preserving insertion order for the
// ordered-map semantics spec.md §3 requires.
func (eq *Equilibrium) AddRegion(r *Region) {
	if _, exists := eq.regions[r.Name]; !exists {
		eq.regionNames = append(eq.regionNames, r.Name)
	}
	eq.regions[r.Name] = r
}

// Region looks up a region by name.
func (eq *Equilibrium) Region(name string) (*Region, bool) {
	r, ok := eq.regions[name]
	return r, ok
}

// RegionNames returns the region names in insertion order.
func (eq *Equilibrium) RegionNames() []string {
	return append([]string(nil), eq.regionNames...)
}

// FindXPoints locates saddle points of psi inside searchBoxes, each a pair
// of opposite corners of a square search region, and stores them in the
// caller-supplied order of searchBoxes, so the first box gives the primary
// X-point; no ranking or sorting is done (spec.md §4.7 findSaddlePoint, §3 "ordered primary-first").
func (eq *Equilibrium) FindXPoints(searchBoxes [][2]geom.Point2D, atol float64) error {
	xpoints := make([]geom.Point2D, len(searchBoxes))
	for i, box := range searchBoxes {
		p, err := FindSaddlePoint(eq.F, box[0], box[1], atol)
		if err != nil {
			return errs.Solution("Equilibrium.FindXPoints", "search box %d: %v", i, err)
		}
		xpoints[i] = p
	}
	eq.XPoints = xpoints
	if len(eq.XPoints) > 2 {
		return errs.Topology("Equilibrium.FindXPoints", "more than two separatrices are not supported")
	}
	return nil
}

// PrimaryXPoint returns the primary X-point, or a false ok if none were
// found yet.
func (eq *Equilibrium) PrimaryXPoint() (geom.Point2D, bool) {
	if len(eq.XPoints) == 0 {
		return geom.Point2D{}, false
	}
	return eq.XPoints[0], true
}

// PsiAtXPoints returns psi evaluated at every stored X-point, the
// separatrix levels spec.md §3 calls "psi-values on each separatrix".
func (eq *Equilibrium) PsiAtXPoints() []float64 {
	vals := make([]float64, len(eq.XPoints))
	for i, p := range eq.XPoints {
		vals[i] = eq.F.Psi(p.R, p.Z)
	}
	return vals
}

// WallIntersection implements spec.md §4.7 wallIntersection(p1,p2):
// delegate to geom.Wall.Intersect and turn a too-many-hits condition into a
// typed ConsistencyError.
func (eq *Equilibrium) WallIntersection(p1, p2 geom.Point2D) (geom.Point2D, error) {
	p, err := eq.Wall.WallIntersection(p1, p2)
	if err != nil {
		if n, ok := geom.NumHits(err); ok {
			return geom.Point2D{}, errs.Consistency("Equilibrium.WallIntersection", "expected at most one wall intersection, found %d", n)
		}
		return geom.Point2D{}, errs.Consistency("Equilibrium.WallIntersection", "%v", err)
	}
	return p, nil
}

// FindRoots finds n roots of g on [xmin,xmax] (spec.md §4.7 findRoots_1d).
func (eq *Equilibrium) FindRoots(g func(x float64) float64, n int, xmin, xmax, atol float64) ([]float64, error) {
	return FindRoots1D(g, n, xmin, xmax, atol)
}

// PsiNormalize maps psi to the [0,1] normalised poloidal-flux coordinate
// used by hypnotoad-style spacing diagnostics, with psiAxis the O-point
// value and psiSep the (primary) separatrix value.
func (eq *Equilibrium) PsiNormalize(psiVal, psiAxis, psiSep float64) float64 {
	if psiSep == psiAxis {
		return math.NaN()
	}
	return (psiVal - psiAxis) / (psiSep - psiAxis)
}
