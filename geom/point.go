// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package geom implements 2D vector arithmetic and segment/polyline
// intersection for the (R,Z) poloidal plane (spec.md §4.1).
package geom

import "math"

// Point2D is an (R,Z) pair. It is a pure value type: all operations return
// new values rather than mutating the receiver.
type Point2D struct {
	R, Z float64
}

// Add returns p+q.
func (p Point2D) Add(q Point2D) Point2D { return Point2D{p.R + q.R, p.Z + q.Z} }

// Sub returns p-q.
func (p Point2D) Sub(q Point2D) Point2D { return Point2D{p.R - q.R, p.Z - q.Z} }

// Scale returns p*s.
func (p Point2D) Scale(s float64) Point2D { return Point2D{p.R * s, p.Z * s} }

// Div returns p/s.
func (p Point2D) Div(s float64) Point2D { return Point2D{p.R / s, p.Z / s} }

// Dot returns the Euclidean inner product of p and q.
func (p Point2D) Dot(q Point2D) float64 { return p.R*q.R + p.Z*q.Z }

// Mag returns the Euclidean magnitude of p.
func (p Point2D) Mag() float64 { return math.Hypot(p.R, p.Z) }

// Unit returns p normalised to unit magnitude; the zero vector yields NaN
// components (no check is made), the way the teacher's low-level helpers
// assume preconditions at the call site rather than defending against
// impossible states.
func (p Point2D) Unit() Point2D {
	m := p.Mag()
	return p.Div(m)
}

// Perp returns a vector perpendicular to p (rotate +90deg), same magnitude.
func (p Point2D) Perp() Point2D { return Point2D{-p.Z, p.R} }

// Lerp linearly interpolates between p and q at parameter t in [0,1].
func Lerp(p, q Point2D, t float64) Point2D {
	return p.Add(q.Sub(p).Scale(t))
}

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point2D) float64 { return q.Sub(p).Mag() }
