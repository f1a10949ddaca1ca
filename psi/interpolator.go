// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package psi implements the numerical kernels that operate on an arbitrary
// poloidal-flux field through a fixed callable interface (spec.md §4.4,
// §4.5, §6): Newton/bracketed/ODE root-finding to pin a point exactly onto
// a psi-isoline, and perpendicular-projection integration to carry a point
// from one isoline to another.
//
// The field itself -- a 2D discrete-cosine-transform interpolator over a
// g-file sampling -- is an external collaborator (spec.md §1); this package
// only consumes it through the Interpolator contract.
package psi

import "github.com/cpmech/gridgen/geom"

// Interpolator evaluates the poloidal flux psi(R,Z) and its derivatives at
// an arbitrary point. Implementations are assumed smooth except at
// X-points. FR/FZ are the components of grad(psi)/|grad(psi)|^2 (ds/dpsi
// along a perpendicular path); BpR/BpZ are the raw partials d(psi)/dR and
// d(psi)/dZ used to build the poloidal field components.
type Interpolator interface {
	Psi(R, Z float64) float64
	FR(R, Z float64) float64
	FZ(R, Z float64) float64
	BpR(R, Z float64) float64
	BpZ(R, Z float64) float64
	D2psiDR2(R, Z float64) float64
	D2psiDZ2(R, Z float64) float64
	D2psiDRDZ(R, Z float64) float64
}

// GradMagSq returns |grad(psi)|^2 = BpR^2 + BpZ^2 at (R,Z).
func GradMagSq(f Interpolator, p geom.Point2D) float64 {
	r, z := f.BpR(p.R, p.Z), f.BpZ(p.R, p.Z)
	return r*r + z*z
}
