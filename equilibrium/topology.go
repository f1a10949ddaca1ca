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

// BuildRegion turns one config.RegionSpec plus its separatrix polyline into
// a fully populated *Region: the PsiContour wrapping the separatrix
// points, the per-segment psi_vals/ny partition, and the connection
// metadata linking it to its radial and poloidal neighbours. spec.md §2
// assigns Equilibrium the job of "building EquilibriumRegions with
// separatrix segments"; gridgen takes the separatrix geometry itself from
// the options file rather than tracing it automatically (see DESIGN.md),
// since automatic separatrix tracing/splitting is outside the component
// budget spec.md §2 allocates to Equilibrium.
func BuildRegion(spec config.RegionSpec, f psi.Interpolator, opt *config.Options, refine contour.RefineParams) (*Region, error) {
	if len(spec.PsiVals) == 0 {
		return nil, errs.Configuration("BuildRegion", "region %s: psi_vals must not be empty", spec.Name)
	}
	nSeg := len(spec.Ny)
	if nSeg == 0 {
		return nil, errs.Configuration("BuildRegion", "region %s: ny must not be empty", spec.Name)
	}
	if len(spec.SeparatrixPoints) == 0 {
		return nil, errs.Configuration("BuildRegion", "region %s: separatrix_points must not be empty", spec.Name)
	}

	points := make([]geom.Point2D, len(spec.SeparatrixPoints))
	for i, p := range spec.SeparatrixPoints {
		points[i] = geom.Point2D{R: p[0], Z: p[1]}
	}

	psiSep := spec.PsiVals[0]
	seg := contour.NewPsiContour(psiSep, points, f, refine)

	r := NewRegion(spec.Name, seg, spec.PsiVals, spec.Ny, opt)
	r.SeparatrixRadialIndex = spec.SeparatrixRadialIndex

	for k := 0; k < nSeg; k++ {
		var conn Connection
		if len(spec.ConnectionInner) > 0 {
			conn.Inner = pick(spec.ConnectionInner, k)
		}
		if len(spec.ConnectionOuter) > 0 {
			conn.Outer = pick(spec.ConnectionOuter, k)
		}
		if k == 0 && len(spec.ConnectionLower) > 0 {
			conn.Lower = spec.ConnectionLower[0]
		}
		if k == nSeg-1 && len(spec.ConnectionUpper) > 0 {
			conn.Upper = spec.ConnectionUpper[len(spec.ConnectionUpper)-1]
		}
		r.Connections[k] = conn
	}
	return r, nil
}

func pick(vals []string, k int) string {
	if k < len(vals) {
		return vals[k]
	}
	return vals[len(vals)-1]
}
