// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contour

import "github.com/cpmech/gosl/chk"

// cubicSpline is a natural cubic spline y(x) through monotonically
// increasing knots x. No third-party cubic-spline interpolator appears
// among the example repos' dependency surface (gosl's public API exposed
// to this corpus covers linear algebra, ODEs and root-finding but not
// piecewise-polynomial interpolation) so this is implemented directly,
// using a plain Thomas (tridiagonal) solve in the style of gosl/la's dense
// solvers. See DESIGN.md for the justification.
type cubicSpline struct {
	x, y       []float64
	c2         []float64 // second derivatives at knots
}

func newCubicSpline(x, y []float64) *cubicSpline {
	n := len(x)
	if n < 2 {
		chk.Panic("cubicSpline needs at least 2 points, got %d", n)
	}
	if n == 2 {
		return &cubicSpline{x: x, y: y, c2: []float64{0, 0}}
	}
	// natural cubic spline: solve tridiagonal system for second derivatives
	h := make([]float64, n-1)
	for i := 0; i < n-1; i++ {
		h[i] = x[i+1] - x[i]
	}
	a := make([]float64, n) // sub-diagonal
	b := make([]float64, n) // diagonal
	c := make([]float64, n) // super-diagonal
	d := make([]float64, n) // RHS
	b[0], b[n-1] = 1, 1
	for i := 1; i < n-1; i++ {
		a[i] = h[i-1]
		b[i] = 2 * (h[i-1] + h[i])
		c[i] = h[i]
		d[i] = 6 * ((y[i+1]-y[i])/h[i] - (y[i]-y[i-1])/h[i-1])
	}
	c2 := thomasSolve(a, b, c, d)
	return &cubicSpline{x: x, y: y, c2: c2}
}

// thomasSolve solves a tridiagonal system Ax=d with sub/diag/super
// diagonals a,b,c (a[0] and c[n-1] are unused).
func thomasSolve(a, b, c, d []float64) []float64 {
	n := len(d)
	cp := make([]float64, n)
	dp := make([]float64, n)
	cp[0] = c[0] / b[0]
	dp[0] = d[0] / b[0]
	for i := 1; i < n; i++ {
		m := b[i] - a[i]*cp[i-1]
		cp[i] = c[i] / m
		dp[i] = (d[i] - a[i]*dp[i-1]) / m
	}
	x := make([]float64, n)
	x[n-1] = dp[n-1]
	for i := n - 2; i >= 0; i-- {
		x[i] = dp[i] - cp[i]*x[i+1]
	}
	return x
}

// Eval evaluates the spline at s, extrapolating linearly (using the
// boundary segment's slope) outside [x[0], x[n-1]].
func (sp *cubicSpline) Eval(s float64) float64 {
	n := len(sp.x)
	if s <= sp.x[0] {
		return sp.evalSeg(0, s, true)
	}
	if s >= sp.x[n-1] {
		return sp.evalSeg(n-2, s, true)
	}
	i := sp.findSeg(s)
	return sp.evalSeg(i, s, false)
}

func (sp *cubicSpline) findSeg(s float64) int {
	lo, hi := 0, len(sp.x)-2
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if sp.x[mid] <= s {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

func (sp *cubicSpline) evalSeg(i int, s float64, extrapolateLinear bool) float64 {
	x0, x1 := sp.x[i], sp.x[i+1]
	h := x1 - x0
	if extrapolateLinear {
		// linear extrapolation using the cubic's slope at the nearest knot
		var knot, other int
		if s <= sp.x[0] {
			knot, other = 0, 1
		} else {
			knot, other = len(sp.x)-1, len(sp.x)-2
		}
		slope := sp.slopeAt(knot, other)
		return sp.y[knot] + slope*(s-sp.x[knot])
	}
	t := (s - x0) / h
	a := sp.y[i]
	b := sp.y[i+1]
	ca := sp.c2[i]
	cb := sp.c2[i+1]
	return a*(1-t) + b*t +
		((1-t)*(1-t)*(1-t)-(1-t))*ca*h*h/6 +
		(t*t*t-t)*cb*h*h/6
}

// slopeAt returns dy/dx of the spline evaluated exactly at knot index
// `knot`, using the neighbouring segment toward `other`.
func (sp *cubicSpline) slopeAt(knot, other int) float64 {
	i := knot
	if other < knot {
		i = other
	}
	x0, x1 := sp.x[i], sp.x[i+1]
	h := x1 - x0
	y0, y1 := sp.y[i], sp.y[i+1]
	c0, c1 := sp.c2[i], sp.c2[i+1]
	if knot == i {
		return (y1-y0)/h - h*(2*c0+c1)/6
	}
	return (y1-y0)/h + h*(c0+2*c1)/6
}
