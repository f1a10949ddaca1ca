// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshregion

import (
	"github.com/cpmech/gridgen/contour"
	"github.com/cpmech/gridgen/errs"
)

// distributePointsNonorthogonal implements spec.md §4.8: per contour,
// build s(i) by the configured strategy, shift the captured orthogonal
// sfunc by the distance the wall insertion moved the start, and regrid.
// On the separatrix contour, an end whose wall tangent is known gets the
// identity map i -> i as its perpendicular spacing; the tangent vector
// itself is not used, so the fixed-perpendicular strategies reproduce the
// shifted orthogonal spacing there. Other contours and ends get no
// perpendicular map and fall back to poloidal spacing.
func (mr *MeshRegion) distributePointsNonorthogonal() error {
	r := mr.Region
	for k, c := range mr.Contours {
		orthogonal := mr.capturedSfuncs[k]
		if orthogonal == nil {
			continue
		}

		shifted := shiftForWallInsertion(orthogonal, c)

		var perpLower, perpUpper func(i float64) float64
		// Only the separatrix contour (the one at the region's own
		// psi0) carries the segment's wall tangent; interior contours
		// fall back to poloidal spacing per spec.md §4.8.
		isSeparatrix := c.Psi0 == r.Psi0
		if isSeparatrix {
			if t := r.WallTangentStart[0]; t != nil {
				perpLower = func(i float64) float64 { return i }
			}
			if t := r.WallTangentEnd[len(r.WallTangentEnd)-1]; t != nil {
				perpUpper = func(i float64) float64 { return i }
			}
		}

		length := shifted(float64(c.EndInd)) - shifted(float64(c.StartInd))
		sfunc, err := r.SfuncNonorthogonal(0, length, shifted, perpLower, perpUpper)
		if err != nil {
			return errs.Solution("MeshRegion.distributePointsNonorthogonal", "region %s contour %d: %v", mr.Name, k, err)
		}

		npoints := c.EndInd - c.StartInd + 1
		regridded, err := c.GetRegridded(npoints, sfunc, c.ExtendLower, c.ExtendUpper)
		if err != nil {
			return errs.Solution("MeshRegion.distributePointsNonorthogonal", "region %s contour %d regrid: %v", mr.Name, k, err)
		}
		mr.Contours[k] = regridded
	}
	return nil
}

// shiftForWallInsertion returns a spacing function equal to orthogonal but
// translated in arclength so that it still maps the contour's (possibly
// wall-moved) StartInd to the arclength of the actual new start point, per
// spec.md §4.8's note that the captured sfunc is "shifted to account for
// the distance difference between the original start and the wall".
func shiftForWallInsertion(orthogonal func(i float64) float64, c *contour.PsiContour) func(i float64) float64 {
	actualStart := 0.0
	sfuncStart := orthogonal(float64(c.StartInd))
	shift := actualStart - sfuncStart
	return func(i float64) float64 { return orthogonal(i) + shift }
}
