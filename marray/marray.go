// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package marray implements MultiLocationArray, the staggered-grid value
// type meshregion builds every physical field out of: up to four optional
// dense 2D arrays, one per cell location (centre, xlow, ylow, corners), with
// elementwise arithmetic and scalar broadcasting that leaves an absent
// location absent (spec.md §9 design note "MultiLocationArray polymorphism").
// Backed by gosl/la's dense [][]float64 matrices (la.MatAlloc/
// la.MatLargest), the same representation the teacher's shape-function and
// state-tensor code (shp/shp.go, msolid/state.go) uses for small dense
// arrays.
package marray

import (
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/gridgen/errs"
)

// Location identifies one of the four staggered-grid sample locations.
type Location int

const (
	Centre Location = iota
	Xlow
	Ylow
	Corners
	nLocations
)

func (l Location) String() string {
	switch l {
	case Centre:
		return "centre"
	case Xlow:
		return "xlow"
	case Ylow:
		return "ylow"
	case Corners:
		return "corners"
	}
	return "unknown"
}

// MultiLocationArray holds an optional dense [nx][ny]float64 matrix per
// Location. A nil entry means that location is not populated for this
// field; arithmetic leaves nil-vs-nil or nil-vs-populated combinations nil
// in the result, per the design note's "operations on absent locations
// leave the result location absent" rule.
type MultiLocationArray struct {
	data [nLocations][][]float64
}

// New builds an empty MultiLocationArray (all locations absent).
func New() *MultiLocationArray {
	return &MultiLocationArray{}
}

// Set installs a dense array at the given location, shape (nx,ny), in
// row-major order (data[i*ny+j] -> (i,j)).
func (m *MultiLocationArray) Set(loc Location, nx, ny int, data []float64) {
	mat := la.MatAlloc(nx, ny)
	if data != nil {
		k := 0
		for i := 0; i < nx; i++ {
			for j := 0; j < ny; j++ {
				mat[i][j] = data[k]
				k++
			}
		}
	}
	m.data[loc] = mat
}

// At returns the matrix at a location, or nil if absent.
func (m *MultiLocationArray) At(loc Location) [][]float64 { return m.data[loc] }

// Has reports whether a location is populated.
func (m *MultiLocationArray) Has(loc Location) bool { return m.data[loc] != nil }

// Get returns the value at (i,j) for a populated location.
func (m *MultiLocationArray) Get(loc Location, i, j int) float64 {
	return m.data[loc][i][j]
}

// Shape returns a location's (nRows, nCols), or (0,0) if absent.
func Shape(mat [][]float64) (int, int) {
	if len(mat) == 0 {
		return 0, 0
	}
	return len(mat), len(mat[0])
}

// apply builds a new MultiLocationArray by applying op elementwise to every
// populated location shared between a and b; a location absent in either
// operand is left absent in the result, and mismatched shapes raise a
// ConsistencyError (spec.md design note "per-location shape checks").
func apply(where string, a, b *MultiLocationArray, op func(x, y float64) float64) (*MultiLocationArray, error) {
	out := New()
	for loc := Location(0); loc < nLocations; loc++ {
		am, bm := a.data[loc], b.data[loc]
		if am == nil || bm == nil {
			continue
		}
		ar, ac := Shape(am)
		br, bc := Shape(bm)
		if ar != br || ac != bc {
			return nil, errs.Consistency(where, "location %s shape mismatch: (%d,%d) vs (%d,%d)", loc, ar, ac, br, bc)
		}
		res := la.MatAlloc(ar, ac)
		for i := 0; i < ar; i++ {
			for j := 0; j < ac; j++ {
				res[i][j] = op(am[i][j], bm[i][j])
			}
		}
		out.data[loc] = res
	}
	return out, nil
}

// Add returns elementwise a+b.
func Add(a, b *MultiLocationArray) (*MultiLocationArray, error) {
	return apply("marray.Add", a, b, func(x, y float64) float64 { return x + y })
}

// Sub returns elementwise a-b.
func Sub(a, b *MultiLocationArray) (*MultiLocationArray, error) {
	return apply("marray.Sub", a, b, func(x, y float64) float64 { return x - y })
}

// Mul returns elementwise a*b.
func Mul(a, b *MultiLocationArray) (*MultiLocationArray, error) {
	return apply("marray.Mul", a, b, func(x, y float64) float64 { return x * y })
}

// Div returns elementwise a/b.
func Div(a, b *MultiLocationArray) (*MultiLocationArray, error) {
	return apply("marray.Div", a, b, func(x, y float64) float64 { return x / y })
}

// Scale multiplies every populated location by a scalar, leaving absent
// locations absent (broadcasting against a scalar, per the design note).
func (m *MultiLocationArray) Scale(s float64) *MultiLocationArray {
	out := New()
	for loc := Location(0); loc < nLocations; loc++ {
		mat := m.data[loc]
		if mat == nil {
			continue
		}
		r, c := Shape(mat)
		res := la.MatAlloc(r, c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				res[i][j] = mat[i][j] * s
			}
		}
		out.data[loc] = res
	}
	return out
}

// Map applies f elementwise to every populated location.
func (m *MultiLocationArray) Map(f func(float64) float64) *MultiLocationArray {
	out := New()
	for loc := Location(0); loc < nLocations; loc++ {
		mat := m.data[loc]
		if mat == nil {
			continue
		}
		r, c := Shape(mat)
		res := la.MatAlloc(r, c)
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				res[i][j] = f(mat[i][j])
			}
		}
		out.data[loc] = res
	}
	return out
}

// MaxAbs returns the largest |value| across every populated location, using
// gosl/la.MatLargest the way gofem's residual-norm checks do
// (fem/output.go's maxAbsM := la.MatLargest(allM, 1)).
func (m *MultiLocationArray) MaxAbs() float64 {
	best := 0.0
	for loc := Location(0); loc < nLocations; loc++ {
		mat := m.data[loc]
		if mat == nil {
			continue
		}
		if v := la.MatLargest(mat, 1); v > best {
			best = v
		}
	}
	return best
}
