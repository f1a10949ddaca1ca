// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package equilibrium implements the magnetic-topology orchestration layer:
// Equilibrium (X-point/saddle-point search, separatrix and wall handling)
// and EquilibriumRegion (poloidal segments with their analytic spacing
// laws), spec.md §4.6-§4.7.
package equilibrium

import (
	"math"

	"github.com/cpmech/gosl/num"

	"github.com/cpmech/gridgen/errs"
)

// SpacingFunc is a spacing law: a strictly increasing function of a
// real-valued index i (not just integers -- guard-cell evaluation needs
// off-integer arguments, design notes "spacing-law function objects").
type SpacingFunc func(i float64) float64

// SqrtSpacingFunc builds the "sqrt" family spacing law of spec.md §4.6: a
// strictly increasing s(iN) with iN=i/Nnorm, s(0)=0, s(N/Nnorm)=length, and
// prescribed sqrt-singular end slopes. aLower/bLower/aUpper/bUpper are nil
// when that end has no sqrt-singularity (the "only-lower"/"only-upper"/
// "neither" reduced forms of spec.md). Closed-form coefficients and the
// monotonicity checks below are taken directly from hypnotoad's
// getSqrtPoloidalDistanceFunc (original_source/hypnotoad/core/equilibrium.py),
// which spec.md §4.6 summarises without giving the coefficients.
func SqrtSpacingFunc(length, N, Nnorm float64, aLower, bLower, aUpper, bUpper *float64) (SpacingFunc, error) {
	ratio := N / Nnorm
	switch {
	case bLower == nil && bUpper == nil:
		return func(i float64) float64 { return i * length / N }, nil

	case bLower == nil: // only-upper
		au := zeroIfNil(aUpper)
		b := 2.0 * au
		c := b * math.Sqrt(ratio)
		e := (c + *bUpper*ratio - length) / (ratio * ratio)
		d := *bUpper - 2*e*ratio
		if b/(2*math.Sqrt(ratio))+d <= 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "gradient at start should be positive")
		}
		if b < 0 || d+2*e*ratio < 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "gradient at end should be positive")
		}
		return func(i float64) float64 {
			iN := i / Nnorm
			return -b*math.Sqrt(ratio-iN) + c + d*iN + e*iN*iN
		}, nil

	case bUpper == nil: // only-lower
		al := zeroIfNil(aLower)
		a := 2.0 * al
		d := *bLower
		e := (length - a*math.Sqrt(ratio) - d*ratio) / (ratio * ratio)
		if a < 0 || d < 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "gradient at start should be positive")
		}
		if a/(2*math.Sqrt(ratio))+d+2*e*ratio <= 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "gradient at end should be positive")
		}
		return func(i float64) float64 {
			iN := i / Nnorm
			return a*math.Sqrt(iN) + d*iN + e*iN*iN
		}, nil

	default: // both ends singular
		al, au := zeroIfNil(aLower), zeroIfNil(aUpper)
		a := 2.0 * al
		b := 2.0 * au
		c := b * math.Sqrt(ratio)
		d := *bLower - b/2.0/math.Sqrt(ratio)
		f := 2.0 * (a*math.Sqrt(ratio) + c + d*ratio/2.0 + *bUpper*ratio/2.0 - a*math.Sqrt(ratio)/4.0 - length) / (ratio * ratio * ratio)
		e := (*bUpper-a/2.0/math.Sqrt(ratio)-d)*ratio/2.0 - 1.5*f*ratio
		if a < 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "sqrt part should be positive at start")
		}
		if b < 0 {
			return nil, errs.Consistency("SqrtSpacingFunc", "sqrt part should be positive at end")
		}
		return func(i float64) float64 {
			iN := i / Nnorm
			return a*math.Sqrt(iN) - b*math.Sqrt(ratio-iN) + c + d*iN + e*iN*iN + f*iN*iN*iN
		}, nil
	}
}

func zeroIfNil(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

// MonotonicSpacingFunc builds the "monotonic" family spacing law of
// spec.md §4.6: s'(0)=dLower, s'(N/Nnorm)=dUpper, integral of s' over
// [0,N/Nnorm] equals length, s' positive throughout. The convex/concave
// split and closed forms below follow hypnotoad's
// getMonotonicPoloidalDistanceFunc exactly.
func MonotonicSpacingFunc(length, N, Nnorm, dLower, dUpper float64) (SpacingFunc, error) {
	ratio := N / Nnorm
	if length >= 0.5*(dUpper+dLower)*ratio-1e-8*length {
		// convex case: quadratic s'
		a := 3.0*(dUpper+dLower)/(ratio*ratio) - 6.0*length/(ratio*ratio*ratio)
		b := (dUpper-dLower)/ratio - a*ratio
		c := dLower
		return func(i float64) float64 {
			switch {
			case i < 0:
				return dLower * i / Nnorm
			case i > N:
				return length + dUpper*(i-N)/Nnorm
			default:
				iN := i / Nnorm
				return a*iN*iN*iN/3.0 + 0.5*b*iN*iN + c*iN
			}
		}, nil
	}

	// concave case: solve for l1 via 1D root-finding on the integral
	// constraint, then build the closed-form log/linear s(iN).
	l2 := func(l1 float64) float64 {
		return (-dLower*ratio + math.Sqrt(dLower*dLower*ratio*ratio+4.0*dLower*l1*ratio)) / (2.0 * dLower)
	}
	l3 := func(l1 float64) float64 { return l1/l2(l1) - dLower }
	r2 := func(l1 float64) float64 {
		return (-dUpper*ratio + math.Sqrt(dUpper*dUpper*ratio*ratio+4.0*dUpper*l1*ratio)) / (2.0 * dUpper)
	}
	r3 := func(l1 float64) float64 { return l1/r2(l1) - dUpper }
	constraint := func(l1 float64) (float64, error) {
		return l1*math.Log(ratio/l2(l1)+1.0) - l3(l1)*ratio +
			l1*math.Log(ratio/r2(l1)+1.0) - r3(l1)*ratio - length, nil
	}
	solver := num.NewBrent(constraint, nil)
	l1, err := solver.Root(1e-15, 1e10)
	if err != nil {
		return nil, errs.Solution("MonotonicSpacingFunc", "could not solve concave-case constraint: %v", err)
	}
	L2, L3, R2, R3 := l2(l1), l3(l1), r2(l1), r3(l1)
	if l1 <= 0 || L2 <= 0 || L3 <= 0 || R2 <= 0 || R3 <= 0 {
		return nil, errs.Consistency("MonotonicSpacingFunc", "concave-case coefficients must all be positive")
	}
	return func(i float64) float64 {
		switch {
		case i < 0:
			return dLower * i / Nnorm
		case i > N:
			return length + dUpper*(i-N)/Nnorm
		default:
			iN := i / Nnorm
			return l1*math.Log(iN/L2+1.0) - L3*iN - l1*math.Log(1.0-iN/(R2+ratio)) - R3*iN
		}
	}, nil
}

// AssertMonotonic checks s(i) is strictly increasing on the closed domain
// [lo,hi] by sampling, raising ConsistencyError otherwise (spec.md P3;
// called by Region.Sfunc on each spacing law it builds).
func AssertMonotonic(where string, s SpacingFunc, lo, hi float64, n int) error {
	if n < 2 {
		n = 2
	}
	prev := s(lo)
	for k := 1; k < n; k++ {
		i := lo + (hi-lo)*float64(k)/float64(n-1)
		v := s(i)
		if v <= prev {
			return errs.Consistency(where, "spacing function is not strictly increasing at i=%g (%.12g <= %.12g)", i, v, prev)
		}
		prev = v
	}
	return nil
}
