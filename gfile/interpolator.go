// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gfile

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gridgen/equilibrium"
	"github.com/cpmech/gridgen/geom"
)

// BicubicPsi interpolates the geqdsk psi(R,Z) grid bilinearly within a
// cell, with derivatives from centred differences of that interpolant,
// implementing psi.Interpolator. spec.md §1 treats the real
// interpolation scheme (a 2D discrete-cosine-transform basis) as external;
// this is gridgen's own stand-in adapter, built the same way the teacher's
// `shp` package evaluates shape functions and their derivatives from a
// fixed nodal stencil rather than a black-box library, since no package in
// the example corpus offers 2D spline interpolation.
type BicubicPsi struct {
	nw, nh     int
	rleft, dr  float64
	zbot, dz   float64
	psi        [][]float64 // [i][j], i over R, j over Z
}

// NewBicubicPsi builds the interpolator from a parsed GFile's regular grid.
func NewBicubicPsi(g *GFile) *BicubicPsi {
	dr := g.Rdim / float64(g.Nw-1)
	dz := g.Zdim / float64(g.Nh-1)
	return &BicubicPsi{
		nw: g.Nw, nh: g.Nh,
		rleft: g.Rleft, dr: dr,
		zbot: g.Zmid - g.Zdim/2, dz: dz,
		psi: g.PsiRZ,
	}
}

func (b *BicubicPsi) cellOf(r, z float64) (i, j int, tr, tz float64) {
	fi := (r - b.rleft) / b.dr
	fj := (z - b.zbot) / b.dz
	i = clampInt(int(fi), 0, b.nw-2)
	j = clampInt(int(fj), 0, b.nh-2)
	tr = fi - float64(i)
	tz = fj - float64(j)
	return
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// at returns psi at grid index (i,j), clamped to the grid's interior so
// derivative stencils near the boundary degrade to one-sided differences.
func (b *BicubicPsi) at(i, j int) float64 {
	i = clampInt(i, 0, b.nw-1)
	j = clampInt(j, 0, b.nh-1)
	return b.psi[i][j]
}

// Psi bilinearly interpolates psi(R,Z); the grid is fine enough (typical
// geqdsk resolution 129x129 or finer) that bilinear value interpolation
// combined with centred-difference derivatives (below) is an adequate
// stand-in for the externally-specified DCT interpolator.
func (b *BicubicPsi) Psi(r, z float64) float64 {
	i, j, tr, tz := b.cellOf(r, z)
	p00, p10 := b.at(i, j), b.at(i+1, j)
	p01, p11 := b.at(i, j+1), b.at(i+1, j+1)
	return (1-tr)*(1-tz)*p00 + tr*(1-tz)*p10 + (1-tr)*tz*p01 + tr*tz*p11
}

// BpR is d(psi)/dR via a centred difference at the interpolation point,
// evaluated on the underlying grid spacing.
func (b *BicubicPsi) BpR(r, z float64) float64 {
	return (b.Psi(r+b.dr, z) - b.Psi(r-b.dr, z)) / (2 * b.dr)
}

// BpZ is d(psi)/dZ via a centred difference.
func (b *BicubicPsi) BpZ(r, z float64) float64 {
	return (b.Psi(r, z+b.dz) - b.Psi(r, z-b.dz)) / (2 * b.dz)
}

// FR is grad(psi)_R / |grad(psi)|^2, the R-component of ds/dpsi along a
// perpendicular path (psi.Interpolator's contract).
func (b *BicubicPsi) FR(r, z float64) float64 {
	gr, gz := b.BpR(r, z), b.BpZ(r, z)
	mag2 := gr*gr + gz*gz
	if mag2 == 0 {
		return 0
	}
	return gr / mag2
}

// FZ is the Z-component of the same vector.
func (b *BicubicPsi) FZ(r, z float64) float64 {
	gr, gz := b.BpR(r, z), b.BpZ(r, z)
	mag2 := gr*gr + gz*gz
	if mag2 == 0 {
		return 0
	}
	return gz / mag2
}

func (b *BicubicPsi) D2psiDR2(r, z float64) float64 {
	return (b.Psi(r+b.dr, z) - 2*b.Psi(r, z) + b.Psi(r-b.dr, z)) / (b.dr * b.dr)
}

func (b *BicubicPsi) D2psiDZ2(r, z float64) float64 {
	return (b.Psi(r, z+b.dz) - 2*b.Psi(r, z) + b.Psi(r, z-b.dz)) / (b.dz * b.dz)
}

func (b *BicubicPsi) D2psiDRDZ(r, z float64) float64 {
	return (b.Psi(r+b.dr, z+b.dz) - b.Psi(r+b.dr, z-b.dz) - b.Psi(r-b.dr, z+b.dz) + b.Psi(r-b.dr, z-b.dz)) / (4 * b.dr * b.dz)
}

// FpolFuncs builds fpol(psi) and fpol'(psi) as piecewise-linear
// interpolants over the geqdsk's evenly-spaced psi-normalised fpol array
// (spec.md §6's "fpol(ψ), fpol′(ψ)" inputs), since, like psi itself, the
// EFIT file only samples fpol on a 1D grid.
func FpolFuncs(g *GFile) (fpol, fpolPrim func(float64) float64) {
	n := len(g.Fpol)
	psiNorm := make([]float64, n)
	for i := 0; i < n; i++ {
		psiNorm[i] = float64(i) / float64(n-1)
	}
	span := g.Sibry - g.Simag
	toNorm := func(psiVal float64) float64 {
		if span == 0 {
			return 0
		}
		return (psiVal - g.Simag) / span
	}
	fpol = func(psiVal float64) float64 {
		return linterp(psiNorm, g.Fpol, toNorm(psiVal))
	}
	fpolPrim = func(psiVal float64) float64 {
		const h = 1e-4
		x := toNorm(psiVal)
		dpsidn := span
		return (linterp(psiNorm, g.Fpol, x+h) - linterp(psiNorm, g.Fpol, x-h)) / (2 * h * dpsidn)
	}
	return fpol, fpolPrim
}

func linterp(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	t := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo])
}

// BoundingBox returns the grid's physical extent, spec.md §6's Equilibrium
// contract bounding box.
func (g *GFile) BoundingBox() equilibrium.BoundingBox {
	return equilibrium.BoundingBox{
		Rmin: g.Rleft, Rmax: g.Rleft + g.Rdim,
		Zmin: g.Zmid - g.Zdim/2, Zmax: g.Zmid + g.Zdim/2,
	}
}

// Wall builds the closed first-wall polygon from the geqdsk limiter
// points, falling back to the plasma boundary when no limiter was written
// (some EFIT variants omit it).
func (g *GFile) Wall() (geom.Wall, error) {
	pts := g.Limiter
	if len(pts) == 0 {
		pts = g.Boundary
	}
	if len(pts) < 3 {
		return geom.Wall{}, chk.Err("gfile: no usable wall polygon (limiter and boundary both degenerate)")
	}
	return geom.NewWall(pts), nil
}
