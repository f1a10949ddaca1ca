// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshregion

import (
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/marray"
)

// CalcZShift implements spec.md §4.8 calcZShift: integrates dphidy along y
// with the trapezoidal rule, on the (centre,ylow) sample pair for
// cell-centre zShift and on the (xlow,corners) pair for cell-face zShift,
// seeding each row's integral from lowerCentre/lowerXlow -- the preceding
// region's upper-edge zShift in the same y-group -- or from zero when this
// region starts the group (YGroupIndex==0), so the integral stays globally
// continuous along a field line (spec.md §5 ordering guarantee (b),
// property P7).
func (mr *MeshRegion) CalcZShift(lowerCentre, lowerXlow []float64) error {
	dphidy := mr.Fields["dphidy"]
	dy := mr.Fields["dy"]
	if dphidy == nil || dy == nil {
		return errs.Consistency("MeshRegion.CalcZShift", "region %s: Geometry must run before CalcZShift", mr.Name)
	}

	zc, err := integrateTrapezoidal(dphidy.At(marray.Centre), dphidy.At(marray.Ylow), dy.At(marray.Centre), lowerCentre)
	if err != nil {
		return errs.Solution("MeshRegion.CalcZShift", "region %s centre zShift: %v", mr.Name, err)
	}
	zx, err := integrateTrapezoidal(dphidy.At(marray.Xlow), dphidy.At(marray.Corners), dy.At(marray.Xlow), lowerXlow)
	if err != nil {
		return errs.Solution("MeshRegion.CalcZShift", "region %s xlow zShift: %v", mr.Name, err)
	}

	out := marray.New()
	if zc != nil {
		nR, nC := marray.Shape(zc)
		out.Set(marray.Centre, nR, nC, flattenMatrix(zc))
	}
	if zx != nil {
		nR, nC := marray.Shape(zx)
		out.Set(marray.Xlow, nR, nC, flattenMatrix(zx))
	}
	mr.Fields["zShift"] = out
	return nil
}

// flattenMatrix reads a dense [][]float64 out in the row-major order
// marray.MultiLocationArray.Set expects.
func flattenMatrix(m [][]float64) []float64 {
	nR, nC := marray.Shape(m)
	out := make([]float64, nR*nC)
	k := 0
	for i := 0; i < nR; i++ {
		for j := 0; j < nC; j++ {
			out[k] = m[i][j]
			k++
		}
	}
	return out
}

// UpperEdge returns this region's zShift values at the last y-index for
// the given location, for handoff to the next region in the y-group.
func (mr *MeshRegion) UpperEdge(loc marray.Location) []float64 {
	zs := mr.Fields["zShift"]
	if zs == nil {
		return nil
	}
	m := zs.At(loc)
	if m == nil {
		return nil
	}
	nR, nC := marray.Shape(m)
	last := nC - 1
	out := make([]float64, nR)
	for i := range out {
		out[i] = m[i][last]
	}
	return out
}

// integrateTrapezoidal integrates the per-row half-step average of
// (centreVal, faceVal) along the column direction, row by row, seeding
// column 0 from lowerEdge[row] (or 0 when lowerEdge is nil).
func integrateTrapezoidal(centreVal, faceVal, dyVal [][]float64, lowerEdge []float64) ([][]float64, error) {
	if centreVal == nil {
		return nil, nil
	}
	nR, nC := marray.Shape(centreVal)
	_, faceC := marray.Shape(faceVal)
	out := make([][]float64, nR)
	for i := 0; i < nR; i++ {
		out[i] = make([]float64, nC)
		acc := 0.0
		if lowerEdge != nil {
			if i >= len(lowerEdge) {
				return nil, errs.Consistency("integrateTrapezoidal", "lower-edge seed shorter than row count")
			}
			acc = lowerEdge[i]
		}
		for j := 0; j < nC; j++ {
			dy := dyVal[i][0]
			v := centreVal[i][j]
			if faceVal != nil && j < faceC {
				v = 0.5 * (centreVal[i][j] + faceVal[i][j])
			}
			acc += v * dy
			out[i][j] = acc
		}
	}
	return out, nil
}
