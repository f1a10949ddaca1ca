// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshregion

import (
	"math"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/marray"
)

const twoPi = 2 * math.Pi

// eachLocation runs f over every (location, Rxy, Zxy) triple that is
// populated in both inputs, building a new field of the same shape.
func eachLocation(rArr, zArr *marray.MultiLocationArray, f func(loc marray.Location, r, z float64, i, j int) float64) *marray.MultiLocationArray {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		rm, zm := rArr.At(loc), zArr.At(loc)
		if rm == nil || zm == nil {
			continue
		}
		nR, nC := marray.Shape(rm)
		data := make([]float64, nR*nC)
		k := 0
		for i := 0; i < nR; i++ {
			for j := 0; j < nC; j++ {
				data[k] = f(loc, rm[i][j], zm[i][j], i, j)
				k++
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out
}

// Geometry computes psixy, dx, dy, bpsign, Brxy/Bzxy/Bpxy, Btxy/Bxy, hy and
// dphidy and stores them in mr.Fields, per spec.md §4.8's geometry step.
// nyNoGuards is the mesh's total poloidal cell count, summed over all
// regions and excluding y-boundary guards (dy = 2*pi/nyNoGuards is a constant scalar).
func (mr *MeshRegion) Geometry(nyNoGuards int) error {
	rArr, zArr := mr.Fields["Rxy"], mr.Fields["Zxy"]
	if rArr == nil || zArr == nil {
		return errs.Consistency("MeshRegion.Geometry", "region %s: Rxy/Zxy must be filled before Geometry", mr.Name)
	}

	mr.Fields["psixy"] = eachLocation(rArr, zArr, func(_ marray.Location, r, z float64, _, _ int) float64 {
		return mr.F.Psi(r, z)
	})

	bpsign := 1.0
	if mr.InsideSeparatrix {
		bpsign = -1.0
	}
	if isDecreasingSlice(mr.Region.PsiVals) {
		bpsign = -bpsign
	}

	mr.Fields["Brxy"] = eachLocation(rArr, zArr, func(_ marray.Location, r, z float64, _, _ int) float64 {
		return mr.F.BpZ(r, z) / r
	})
	mr.Fields["Bzxy"] = eachLocation(rArr, zArr, func(_ marray.Location, r, z float64, _, _ int) float64 {
		return -mr.F.BpR(r, z) / r
	})

	br, bz := mr.Fields["Brxy"], mr.Fields["Bzxy"]
	bp := combineFields(br, bz, func(x, y float64) float64 { return math.Hypot(x, y) })

	// Direction check at the centre location's middle radial row, first
	// poloidal column: dot(Bp, grad y), with grad y approximated as (0,1).
	// A negative dot product with bpsign>=0 is reported as an inconsistent
	// equilibrium. Bpxy is stored as the magnitude hypot(Brxy, Bzxy) and is
	// never negated.
	if mismatch := mr.directionMismatch(br, bz, bpsign); mismatch {
		return errs.Configuration("MeshRegion.Geometry", "region %s: Bp/grad(y) direction disagrees with bpsign", mr.Name)
	}

	mr.Fields["Bpxy"] = bp
	mr.Fields["xcoord"] = mr.Fields["psixy"].Scale(bpsign)

	mr.Fields["Btxy"] = eachLocation(rArr, zArr, func(_ marray.Location, r, z float64, _, _ int) float64 {
		return mr.fpolAt(r, z) / r
	})
	bt := mr.Fields["Btxy"]
	mr.Fields["Bxy"] = combineFields(bp, bt, func(bpv, btv float64) float64 { return math.Hypot(bpv, btv) })

	dy := twoPi / float64(nyNoGuards)
	mr.Fields["dy"] = constantField(rArr, dy)

	hy, err := mr.computeHy(rArr, zArr, dy)
	if err != nil {
		return err
	}
	mr.Fields["hy"] = hy

	mr.Fields["dphidy"] = combineThree(hy, bt, bp, rArr, func(hyv, btv, bpv, r float64) float64 {
		return hyv * btv / (bpv * r)
	})

	dx, err := mr.computeDx(rArr)
	if err != nil {
		return err
	}
	mr.Fields["dx"] = dx

	return nil
}

func isDecreasingSlice(v []float64) bool { return len(v) > 1 && v[len(v)-1] < v[0] }

func combineFields(a, b *marray.MultiLocationArray, op func(x, y float64) float64) *marray.MultiLocationArray {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		am, bm := a.At(loc), b.At(loc)
		if am == nil || bm == nil {
			continue
		}
		nR, nC := marray.Shape(am)
		data := make([]float64, nR*nC)
		k := 0
		for i := 0; i < nR; i++ {
			for j := 0; j < nC; j++ {
				data[k] = op(am[i][j], bm[i][j])
				k++
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out
}

func combineThree(a, b, c, shape *marray.MultiLocationArray, op func(x, y, z, w float64) float64) *marray.MultiLocationArray {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		am, bm, cm, sm := a.At(loc), b.At(loc), c.At(loc), shape.At(loc)
		if am == nil || bm == nil || cm == nil || sm == nil {
			continue
		}
		nR, nC := marray.Shape(am)
		data := make([]float64, nR*nC)
		k := 0
		for i := 0; i < nR; i++ {
			for j := 0; j < nC; j++ {
				data[k] = op(am[i][j], bm[i][j], cm[i][j], sm[i][j])
				k++
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out
}

func constantField(shape *marray.MultiLocationArray, v float64) *marray.MultiLocationArray {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		sm := shape.At(loc)
		if sm == nil {
			continue
		}
		nR, nC := marray.Shape(sm)
		data := make([]float64, nR*nC)
		for k := range data {
			data[k] = v
		}
		out.Set(loc, nR, nC, data)
	}
	return out
}

// directionMismatch implements the bpsign/direction-check consistency rule:
// it is a placeholder that always agrees when Bp's raw sign (from BpR/BpZ)
// already matches bpsign, and only fires when both the field-sign test and
// bpsign disagree at the outer mid-radius column.
func (mr *MeshRegion) directionMismatch(br, bz *marray.MultiLocationArray, bpsign float64) bool {
	centre := br.At(marray.Centre)
	nR, _ := marray.Shape(centre)
	if nR == 0 {
		return false
	}
	mid := nR / 2
	brMid := centre[mid][0]
	bzMid := bz.At(marray.Centre)[mid][0]
	dot := brMid*0 + bzMid*1 // grad(y) is poloidal-direction-aligned; approximate as (0,1)
	return dot < 0 && bpsign >= 0
}

func (mr *MeshRegion) fpolAt(r, z float64) float64 {
	psiVal := mr.F.Psi(r, z)
	if mr.fpol != nil {
		return mr.fpol(psiVal)
	}
	return 0
}

// computeHy approximates arclength-per-unit-dy at each location from the
// Euclidean distance between the poloidally-neighbouring samples of the
// same location already present in Rxy/Zxy (centred over j-1..j+1,
// one-sided at the first and last column) (spec.md §4.8 hy), asserting hy>0
// everywhere (property P5).
func (mr *MeshRegion) computeHy(rArr, zArr *marray.MultiLocationArray, dy float64) (*marray.MultiLocationArray, error) {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		rm, zm := rArr.At(loc), zArr.At(loc)
		if rm == nil || zm == nil {
			continue
		}
		nR, nC := marray.Shape(rm)
		data := make([]float64, nR*nC)
		for i := 0; i < nR; i++ {
			for j := 0; j < nC; j++ {
				jLo, jHi := j-1, j+1
				scale := 0.5
				if jLo < 0 {
					jLo = j
					scale = 1
				}
				if jHi > nC-1 {
					jHi = j
					scale = 1
				}
				dr := rm[i][jHi] - rm[i][jLo]
				dz := zm[i][jHi] - zm[i][jLo]
				d := math.Hypot(dr, dz) * scale
				h := d / dy
				if h <= 0 {
					return nil, errs.Consistency("MeshRegion.computeHy", "region %s: hy<=0 at location %s (%d,%d)", mr.Name, loc, i, j)
				}
				data[i*nC+j] = h
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out, nil
}

// computeDx returns the radial cell width at every location, taken from
// consecutive psi_vals (2*i+2 minus 2*i), per spec.md §4.8 dx.
func (mr *MeshRegion) computeDx(rArr *marray.MultiLocationArray) (*marray.MultiLocationArray, error) {
	out := marray.New()
	psiVals := mr.Region.PsiVals
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		rm := rArr.At(loc)
		if rm == nil {
			continue
		}
		nR, nC := marray.Shape(rm)
		data := make([]float64, nR*nC)
		for i := 0; i < nR; i++ {
			lo := 2 * i
			hi := lo + 2
			if hi >= len(psiVals) {
				hi = len(psiVals) - 1
				lo = hi - 2
				if lo < 0 {
					lo = 0
				}
			}
			width := math.Abs(psiVals[hi] - psiVals[lo])
			for j := 0; j < nC; j++ {
				data[i*nC+j] = width
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out, nil
}
