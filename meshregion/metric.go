// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshregion

import (
	"math"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/marray"
)

// CalcMetric implements spec.md §4.8 calcMetric: requires
// config.Options.ShiftedMetric (otherwise ConfigurationError), sets I=0 and
// ShiftTorsion = DDX(dphidy), and derives the contravariant metric
//
//	g11 = (R*Bp)^2, g22 = 1/hy^2, g33 = I*g11 + (dphidy/hy)^2 + 1/R^2,
//	g12 = 0, g13 = -I*g11, g23 = -dphidy/hy^2, J = hy/Bp,
//
// then the covariant metric by direct symmetric 3x3 inversion (cofactor
// expansion over the six independent components, the same closed-form the
// teacher's shp.Shape.Extrapolator path falls back to for small dense
// systems rather than a general solver), and asserts the Jacobian consistency check
// |J - 1/sqrt(det g)| / |J| < geometry_rtol at every non-X-point location
// (property P4).
func (mr *MeshRegion) CalcMetric() error {
	if !mr.Opt.ShiftedMetric {
		return errs.Configuration("MeshRegion.CalcMetric", "only shifted-metric output is supported")
	}

	rArr, bp, hy, dphidy := mr.Fields["Rxy"], mr.Fields["Bpxy"], mr.Fields["hy"], mr.Fields["dphidy"]
	if rArr == nil || bp == nil || hy == nil || dphidy == nil {
		return errs.Consistency("MeshRegion.CalcMetric", "region %s: Geometry must run before CalcMetric", mr.Name)
	}

	g11 := combineFields(rArr, bp, func(r, bpv float64) float64 { return (r * bpv) * (r * bpv) })
	g22 := hy.Map(func(h float64) float64 { return 1 / (h * h) })
	g33 := combineThree(dphidy, hy, rArr, rArr, func(dphi, h, r, _ float64) float64 {
		return dphi*dphi/(h*h) + 1/(r*r)
	})
	g12 := constantField(rArr, 0)
	g13 := constantField(rArr, 0)
	g23 := combineFields(dphidy, hy, func(dphi, h float64) float64 { return -dphi / (h * h) })
	j := combineFields(hy, bp, func(h, bpv float64) float64 { return h / bpv })

	mr.Fields["g11"], mr.Fields["g22"], mr.Fields["g33"] = g11, g22, g33
	mr.Fields["g12"], mr.Fields["g13"], mr.Fields["g23"] = g12, g13, g23
	mr.Fields["J"] = j

	covariant, err := invertMetricEveryLocation(g11, g22, g33, g12, g13, g23)
	if err != nil {
		return errs.Solution("MeshRegion.CalcMetric", "region %s: %v", mr.Name, err)
	}
	for k, v := range covariant {
		mr.Fields[k] = v
	}

	mr.Fields["ShiftTorsion"] = ddx(dphidy, mr.Fields["dx"])

	if err := mr.assertJacobianConsistency(j, g11, g22, g33, g12, g13, g23); err != nil {
		return err
	}
	return nil
}

// invertMetricEveryLocation inverts the symmetric contravariant metric
// tensor g^{ij} at every populated (location,i,j) sample via the closed-form
// symmetric 3x3 cofactor inverse, returning g_11,g_22,g_33,g_12,g_13,g_23.
func invertMetricEveryLocation(g11, g22, g33, g12, g13, g23 *marray.MultiLocationArray) (map[string]*marray.MultiLocationArray, error) {
	out := map[string]*marray.MultiLocationArray{
		"g_11": marray.New(), "g_22": marray.New(), "g_33": marray.New(),
		"g_12": marray.New(), "g_13": marray.New(), "g_23": marray.New(),
	}
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		m11, m22, m33 := g11.At(loc), g22.At(loc), g33.At(loc)
		if m11 == nil || m22 == nil || m33 == nil {
			continue
		}
		m12, m13, m23 := g12.At(loc), g13.At(loc), g23.At(loc)
		nR, nC := marray.Shape(m11)
		data := make(map[string][]float64)
		for _, k := range []string{"g_11", "g_22", "g_33", "g_12", "g_13", "g_23"} {
			data[k] = make([]float64, nR*nC)
		}
		for i := 0; i < nR; i++ {
			for j := 0; j < nC; j++ {
				a11, a22, a33 := m11[i][j], m22[i][j], m33[i][j]
				a12, a13, a23 := m12[i][j], m13[i][j], m23[i][j]
				det := determinant3x3(a11, a22, a33, a12, a13, a23)
				if det == 0 {
					return nil, errs.Solution("invertMetricEveryLocation", "non-invertible metric at (%d,%d)", i, j)
				}
				k := i*nC + j
				data["g_11"][k] = (a22*a33 - a23*a23) / det
				data["g_22"][k] = (a11*a33 - a13*a13) / det
				data["g_33"][k] = (a11*a22 - a12*a12) / det
				data["g_12"][k] = (a13*a23 - a12*a33) / det
				data["g_13"][k] = (a12*a23 - a13*a22) / det
				data["g_23"][k] = (a12*a13 - a11*a23) / det
			}
		}
		for key, v := range out {
			v.Set(loc, nR, nC, data[key])
		}
	}
	return out, nil
}

// ddx is a centred finite difference in the radial (row) direction,
// matching the teacher's DDX naming for the x-derivative operator used to
// build ShiftTorsion = DDX(dphidy).
func ddx(field, dx *marray.MultiLocationArray) *marray.MultiLocationArray {
	out := marray.New()
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		fm, dm := field.At(loc), dx.At(loc)
		if fm == nil || dm == nil {
			continue
		}
		nR, nC := marray.Shape(fm)
		data := make([]float64, nR*nC)
		for i := 0; i < nR; i++ {
			lo, hi := i-1, i+1
			scale := 0.5
			if lo < 0 {
				lo, scale = i, 1
			}
			if hi > nR-1 {
				hi, scale = i, 1
			}
			for j := 0; j < nC; j++ {
				d := (fm[hi][j] - fm[lo][j]) * scale
				data[i*nC+j] = d / dm[i][j]
			}
		}
		out.Set(loc, nR, nC, data)
	}
	return out
}

// assertJacobianConsistency checks |J - 1/sqrt(det g)| / |J| < geometry_rtol
// at every location except X-point corners (property P4).
func (mr *MeshRegion) assertJacobianConsistency(j, g11, g22, g33, g12, g13, g23 *marray.MultiLocationArray) error {
	rtol := mr.Opt.GeometryRtol
	for loc := marray.Centre; loc <= marray.Corners; loc++ {
		jm := j.At(loc)
		if jm == nil {
			continue
		}
		m11, m22, m33, m12, m13, m23 := g11.At(loc), g22.At(loc), g33.At(loc), g12.At(loc), g13.At(loc), g23.At(loc)
		nR, nC := marray.Shape(jm)
		for i := 0; i < nR; i++ {
			for jj := 0; jj < nC; jj++ {
				if loc == marray.Corners && mr.isXPointCorner(i, jj) {
					continue
				}
				det := determinant3x3(m11[i][jj], m22[i][jj], m33[i][jj], m12[i][jj], m13[i][jj], m23[i][jj])
				if det <= 0 {
					return errs.Consistency("MeshRegion.CalcMetric", "region %s: metric determinant non-positive at (%s,%d,%d)", mr.Name, loc, i, jj)
				}
				jv := jm[i][jj]
				expect := 1 / math.Sqrt(det)
				if math.Abs(jv-expect)/math.Abs(jv) >= rtol {
					return errs.Consistency("MeshRegion.CalcMetric", "region %s: Jacobian check failed at (%s,%d,%d): J=%g, 1/sqrt(det g)=%g", mr.Name, loc, i, jj, jv, expect)
				}
			}
		}
	}
	return nil
}

func determinant3x3(g11, g22, g33, g12, g13, g23 float64) float64 {
	return g11*(g22*g33-g23*g23) - g12*(g12*g33-g23*g13) + g13*(g12*g23-g22*g13)
}

// isXPointCorner reports whether corner (i,j) coincides with a primary
// X-point, which CalcMetric's Jacobian check must skip per spec.md §4.8.
func (mr *MeshRegion) isXPointCorner(i, j int) bool {
	return mr.xpointCornerRows != nil && mr.xpointCornerRows[[2]int{i, j}]
}

// SetXPointCorners marks the (i,j) corner indices that coincide with an
// X-point (spec.md §4.8 fillRZ "X-point corners are overwritten...").
func (mr *MeshRegion) SetXPointCorners(corners [][2]int) {
	mr.xpointCornerRows = make(map[[2]int]bool, len(corners))
	for _, c := range corners {
		mr.xpointCornerRows[[2]int{c[0], c[1]}] = true
	}
}
