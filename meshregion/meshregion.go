// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package meshregion implements MeshRegion (spec.md §4.8): the per-region
// pipeline from a separatrix segment to a populated (2nx+1)x(2ny+1) point
// grid, its four-location staggered sampling, and the derived geometry,
// metric, curvature, and zShift fields.
package meshregion

import (
	"github.com/cpmech/gridgen/config"
	"github.com/cpmech/gridgen/contour"
	"github.com/cpmech/gridgen/equilibrium"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
	"github.com/cpmech/gridgen/marray"
	"github.com/cpmech/gridgen/psi"
	"github.com/cpmech/gridgen/tracer"
)

// MeshRegion is the per-EquilibriumRegion mesh-assembly state: the (2nx+1)
// radial contours sampled from the region's separatrix segment, the
// four-location (R,Z) sampling built from them, and every derived field
// (psixy, metric tensor, curvature, zShift, ...) keyed by its grid-file
// field name (spec.md §6's "Output: Grid file fields" list).
type MeshRegion struct {
	Name   string
	Region *equilibrium.Region
	F      psi.Interpolator
	Opt    *config.Options

	// Nx is the number of radial cells (Contours has 2*Nx+1 entries).
	Nx int
	// Ny is the number of poloidal cells (Contours[k].Len() covers
	// 2*Ny+1 logical points once extended with y-boundary guards).
	Ny int

	// Contours holds one *contour.PsiContour per radial psi-level, index
	// 0 is the innermost (after the orientation step below).
	Contours []*contour.PsiContour

	// InsideSeparatrix is true when this region's psi_vals run from the
	// separatrix inward (so followPerpendicular starts at the
	// separatrix and the per-point list must be reversed before
	// storage, spec.md §4.8 step 4).
	InsideSeparatrix bool

	Fields map[string]*marray.MultiLocationArray

	// capturedSfuncs holds, per contour, the orthogonal spacing function
	// captured before addPointAtWallToContours disturbs contour spacing
	// by inserting a wall point (spec.md §4.8).
	capturedSfuncs []func(i float64) float64

	// wallPolygon is the first-wall contour this region's wall-facing
	// ends must intersect, set via SetWall before Build when non-orthogonal.
	wallPolygon geom.Wall

	// fpol is the poloidal current function fpol(psi), used by Geometry
	// to build Btxy = fpol(psi)/R.
	fpol func(psiVal float64) float64
	// fpolPrim is fpol'(psi), used by CalcCurvature's analytic curl(b/B).
	fpolPrim func(psiVal float64) float64

	// xpointCornerRows marks which corner-location (i,j) indices coincide
	// with an X-point, set via SetXPointCorners, so CalcMetric's Jacobian
	// consistency check can skip them (spec.md §4.8/§8 P4).
	xpointCornerRows map[[2]int]bool

	yGroupIndex int
}

// New constructs an (unpopulated) MeshRegion for region r.
func New(name string, r *equilibrium.Region, f psi.Interpolator, opt *config.Options, fpol, fpolPrim func(float64) float64) *MeshRegion {
	return &MeshRegion{
		Name:     name,
		Region:   r,
		F:        f,
		Opt:      opt,
		Fields:   make(map[string]*marray.MultiLocationArray),
		fpol:     fpol,
		fpolPrim: fpolPrim,
	}
}

// SetYGroupIndex records this region's position within its y-group chain,
// so calcZShift knows which region starts the poloidal integration
// (spec.md §4.8 calcZShift, §4.9 y_groups).
func (mr *MeshRegion) SetYGroupIndex(i int) { mr.yGroupIndex = i }

// YGroupIndex returns the value set by SetYGroupIndex (0 by default).
func (mr *MeshRegion) YGroupIndex() int { return mr.yGroupIndex }

// Build runs spec.md §4.8's per-region construction: orient psi_vals,
// project every separatrix point through them, refine each resulting
// contour exactly onto its psi level, and (when non-orthogonal) add wall
// points and redistribute.
func (mr *MeshRegion) Build(rtol, atol float64) error {
	r := mr.Region
	psiVals := append([]float64(nil), r.PsiVals...)
	mr.InsideSeparatrix = isDecreasing(psiVals)
	// Step 1: orient psi_vals inward. Projection below runs through
	// r.PsiVals in their given order from r.Psi0, and each contour is
	// labelled with the psi-level its points were projected to.
	if mr.InsideSeparatrix {
		reverseFloats(psiVals)
	}

	// Step 4: followPerpendicular from every separatrix point through all
	// psi_vals, aggregate into one contour per psi-level.
	perPoint, err := r.ProjectRadially(mr.F, rtol, atol)
	if err != nil {
		return err
	}
	nx := len(psiVals)
	contours := make([]*contour.PsiContour, nx)
	prm := contour.RefineParams{
		RefineWidth:   mr.Opt.RefineWidth,
		RefineAtol:    mr.Opt.RefineAtol,
		RefineMethods: methodsOf(mr.Opt.RefineMethods),
		Nfine:         mr.Opt.FinecontourNfine,
		Atol:          mr.Opt.FinecontourAtol,
		Maxits:        mr.Opt.FinecontourMaxits,
	}
	for k := 0; k < nx; k++ {
		pts := make([]geom.Point2D, len(perPoint))
		for i, row := range perPoint {
			pts[i] = row[k]
		}
		contours[k] = contour.NewPsiContour(r.PsiVals[k], pts, mr.F, prm)
	}
	if mr.InsideSeparatrix {
		// contour ordering must remain radially monotonic
		reverseContours(contours)
		reverseFloats(psiVals)
	}

	// Step 5: refine every contour onto its own psi-value.
	for k, c := range contours {
		for i := 0; i < c.Len(); i++ {
			tangent := localTangent(c, i)
			p, err := psi.Refine(mr.F, c.At(i), tangent, mr.Opt.RefineWidth, mr.Opt.RefineAtol, c.Psi0, prm.RefineMethods)
			if err != nil {
				return errs.Solution("MeshRegion.Build", "region %s contour %d point %d: %v", mr.Name, k, i, err)
			}
			c.Points[i] = p
		}
	}

	mr.Contours = contours
	mr.Nx = (nx - 1) / 2
	mr.Ny = r.TotalNy()

	// Orthogonal regridding: every contour is resampled at full poloidal
	// resolution (2*Ny+1 points, odd/even indices giving the four
	// staggered locations fillRZ below reads off directly) using the
	// analytic spacing law of poloidal segment 0 for the whole contour,
	// before any wall-point / non-orthogonal handling runs. The spacing
	// laws of further segments are not applied here.
	fullRes := 2*mr.Ny + 1
	for k, c := range mr.Contours {
		sfunc, err := r.Sfunc(0, c.At(c.EndInd).Sub(c.At(c.StartInd)).Mag())
		if err != nil {
			return errs.Solution("MeshRegion.Build", "region %s contour %d spacing law: %v", mr.Name, k, err)
		}
		halfSfunc := func(i float64) float64 { return sfunc(i / 2) }
		regridded, err := c.GetRegridded(fullRes, halfSfunc, c.ExtendLower, c.ExtendUpper)
		if err != nil {
			return errs.Solution("MeshRegion.Build", "region %s contour %d orthogonal regrid: %v", mr.Name, k, err)
		}
		mr.Contours[k] = regridded
	}

	// Step 6: non-orthogonal handling.
	if !mr.Opt.Orthogonal {
		tr := tracer.NewFieldLinePerpTracer(mr.F, rtol, atol)
		if err := mr.addPointAtWallToContours(tr); err != nil {
			return err
		}
		if err := mr.distributePointsNonorthogonal(); err != nil {
			return err
		}
	}
	return nil
}

func isDecreasing(vals []float64) bool {
	return len(vals) > 1 && vals[len(vals)-1] < vals[0]
}

func reverseFloats(v []float64) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

func reverseContours(c []*contour.PsiContour) {
	for i, j := 0, len(c)-1; i < j; i, j = i+1, j-1 {
		c[i], c[j] = c[j], c[i]
	}
}

func methodsOf(ms []config.RefineMethod) []psi.Method {
	out := make([]psi.Method, len(ms))
	for i, m := range ms {
		out[i] = psi.Method(m)
	}
	return out
}

func localTangent(c *contour.PsiContour, i int) geom.Point2D {
	n := c.Len()
	lo, hi := i-1, i+1
	if lo < 0 {
		lo = 0
	}
	if hi > n-1 {
		hi = n - 1
	}
	d := c.At(hi).Sub(c.At(lo))
	if d.Mag() == 0 {
		return geom.Point2D{R: 1, Z: 0}
	}
	return d.Perp().Unit()
}

// FillRZ samples the (2nx+1)x(2ny+1) point grid into the four co-sized
// Rxy/Zxy location arrays (spec.md §4.8 fillRZ): centre is (odd,odd), xlow
// is (even,odd), ylow is (odd,even), corners is (even,even), reading
// directly off each contour's already-regridded, full-poloidal-resolution
// point list (see Build's orthogonal-regridding step).
func (mr *MeshRegion) FillRZ() error {
	nx, ny := mr.Nx, mr.Ny
	locShape := map[marray.Location][2]int{
		marray.Centre:  {nx, ny},
		marray.Xlow:    {nx + 1, ny},
		marray.Ylow:    {nx, ny + 1},
		marray.Corners: {nx + 1, ny + 1},
	}
	rArr := marray.New()
	zArr := marray.New()
	for loc, shape := range locShape {
		nR, nC := shape[0], shape[1]
		rData := make([]float64, nR*nC)
		zData := make([]float64, nR*nC)
		for ix := 0; ix < nR; ix++ {
			// contour radial index: centre/ylow sample odd contour
			// indices (1,3,5,...), xlow/corners sample even (0,2,4,...)
			var contourIdx int
			switch loc {
			case marray.Centre, marray.Ylow:
				contourIdx = 2*ix + 1
			default:
				contourIdx = 2 * ix
			}
			if contourIdx >= len(mr.Contours) {
				return errs.Consistency("MeshRegion.fillRZ", "radial index %d out of range for region %s", contourIdx, mr.Name)
			}
			c := mr.Contours[contourIdx]
			for iy := 0; iy < nC; iy++ {
				var poloidalIdx int
				switch loc {
				case marray.Centre, marray.Xlow:
					poloidalIdx = 2*iy + 1
				default:
					poloidalIdx = 2 * iy
				}
				p := c.At(c.StartInd + poloidalIdx)
				rData[ix*nC+iy] = p.R
				zData[ix*nC+iy] = p.Z
			}
		}
		rArr.Set(loc, nR, nC, rData)
		zArr.Set(loc, nR, nC, zData)
	}
	mr.Fields["Rxy"] = rArr
	mr.Fields["Zxy"] = zArr
	return nil
}

// getRZBoundary adopts the upper-neighbour's ylow[:,0]/corners[:,0] into
// this region's own ylow[:,-1]/corners[:,-1], so adjoining regions agree
// bit-exact on the shared face (spec.md §4.8 getRZBoundary, property P6).
func (mr *MeshRegion) GetRZBoundary(upper *MeshRegion) error {
	if upper == nil {
		return nil
	}
	for _, field := range []string{"Rxy", "Zxy"} {
		mine := mr.Fields[field]
		theirs := upper.Fields[field]
		if mine == nil || theirs == nil {
			continue
		}
		for _, loc := range []marray.Location{marray.Ylow, marray.Corners} {
			m, u := mine.At(loc), theirs.At(loc)
			if m == nil || u == nil {
				continue
			}
			nRow, nCol := marray.Shape(m)
			lastCol := nCol - 1
			uRow, uCol := marray.Shape(u)
			if uCol == 0 {
				continue
			}
			if nRow != uRow {
				return errs.Consistency("MeshRegion.getRZBoundary", "radial size mismatch between %s and its upper neighbour", mr.Name)
			}
			for i := 0; i < nRow; i++ {
				m[i][lastCol] = u[i][0]
			}
		}
	}
	return nil
}
