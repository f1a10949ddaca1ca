// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package psi

import (
	"github.com/cpmech/gosl/ode"

	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/geom"
)

// FollowPerpendicular solves the same ODE as refineIntegrate -- dR/dpsi =
// f_R, dZ/dpsi = f_Z -- from seed (psi0, p0) through every requested psi
// target in order, returning one point per target (spec.md §4.5). This is
// how EquilibriumRegion projects a poloidal-segment endpoint out to each
// radial psi-level of a region's contours.
func FollowPerpendicular(f Interpolator, p0 geom.Point2D, psi0 float64, targets []float64, rtol, atol float64) ([]geom.Point2D, error) {
	if len(targets) == 0 {
		return nil, nil
	}
	out := make([]geom.Point2D, len(targets))
	y := []float64{p0.R, p0.Z}
	var sol ode.ODE
	sol.Init("Dopri5", 2, func(fy []float64, dpsi, psiCur float64, y []float64, args ...interface{}) error {
		fy[0] = f.FR(y[0], y[1])
		fy[1] = f.FZ(y[0], y[1])
		return nil
	}, nil, nil, &ode.Config{Rtol: rtol, Atol: atol}, true)
	sol.Distr = false

	cur := psi0
	for i, target := range targets {
		if target != cur {
			step := target - cur
			if err := sol.Solve(y, cur, target, step, false); err != nil {
				return nil, errs.Solution("followPerpendicular", "ODE solve to psi=%g failed: %v", target, err)
			}
		}
		out[i] = geom.Point2D{R: y[0], Z: y[1]}
		cur = target
	}
	return out, nil
}
