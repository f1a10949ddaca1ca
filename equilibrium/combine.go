// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package equilibrium

import "math"

// RadialWeight blends a lower/separatrix/upper range triple radially, the
// way hypnotoad's combineSfuncs does: xweight=(|ix|/(nSep-1))^power,
// interpolating between the separatrix value and the appropriate boundary
// value (inner for ix<0, outer for ix>=0).
func RadialWeight(ix, nOutside, nInside, power, sep, inner, outer float64) float64 {
	if ix >= 0 {
		xweight := math.Pow(ix/math.Max(nOutside-1, 1), power)
		return (1-xweight)*sep + xweight*outer
	}
	xweight := math.Pow(-ix/math.Max(nInside-1, 1), power)
	return (1-xweight)*sep + xweight*inner
}

// combineWeights blends using spec.md §4.6's clamped Gaussian weights:
//   w_low(i)  = exp(-(i/(Nnorm*rangeLower))^2)
//   w_high(i) = exp(-((N-i)/(Nnorm*rangeUpper))^2)
// clamped so w_low+w_high <= 1 by equal down-scaling of both.
func combineWeights(i, indexLength, Nnorm, rangeLower, rangeUpper float64, hasLower, hasUpper bool) (wLow, wHigh float64) {
	if hasLower {
		switch {
		case i < 0:
			wLow = 1
		case i > indexLength:
			wLow = 0
		default:
			wLow = math.Exp(-math.Pow(i/Nnorm/rangeLower, 2))
		}
	}
	if hasUpper {
		switch {
		case i < 0:
			wHigh = 0
		case i > indexLength:
			wHigh = 1
		default:
			wHigh = math.Exp(-math.Pow((indexLength-i)/Nnorm/rangeUpper, 2))
		}
	}
	if sum := wLow + wHigh; sum > 1 {
		wLow /= sum
		wHigh /= sum
	}
	return
}

// CombineSfuncs blends a lower-spacing function, an upper-spacing function,
// and a background "orthogonal" function with radially-varying Gaussian
// weights (spec.md §4.6 combineSfuncs). Either rangeLower or rangeUpper (or
// both) may be disabled by passing hasLower/hasUpper=false, reproducing
// hypnotoad's four branches (both / lower-only / upper-only / neither).
// When sfuncOrthogonal is nil, it is replaced by the fixed-point average
// (wLow*sLow+wHigh*sHigh)/(wLow+wHigh) so repeated calls converge, exactly
// as spec.md describes.
func CombineSfuncs(sfuncLower, sfuncUpper, sfuncOrthogonal SpacingFunc, indexLength, Nnorm, rangeLower, rangeUpper float64, hasLower, hasUpper bool) SpacingFunc {
	if !hasLower && !hasUpper {
		return sfuncOrthogonal
	}
	return func(i float64) float64 {
		wLow, wHigh := combineWeights(i, indexLength, Nnorm, rangeLower, rangeUpper, hasLower, hasUpper)
		var sLow, sHigh float64
		if hasLower {
			sLow = sfuncLower(i)
		}
		if hasUpper {
			sHigh = sfuncUpper(i)
		}
		var sOrth float64
		if sfuncOrthogonal == nil {
			denom := wLow + wHigh
			if denom == 0 {
				return 0
			}
			sOrth = (wLow*sLow + wHigh*sHigh) / denom
		} else {
			sOrth = sfuncOrthogonal(i)
		}
		return wLow*sLow + wHigh*sHigh + (1-wLow-wHigh)*sOrth
	}
}

// PerpSpacer is a minimal contract on a FineContour: only the contour's
// total arclength, which contour.FineContour's TotalDistance provides.
type PerpSpacer interface {
	TotalDistance() float64
}

// GetSfuncFixedPerpSpacing combines a monotonic spacing law in the
// perpendicular-distance coordinate s_perp with the contour's s(s_perp) map
// to achieve a fixed ds_perp/di near a wall with a known tangent vector
// (spec.md §4.6 getSfuncFixedPerpSpacing). sPerpOfIndex is the monotonic
// spacing law evaluated in s_perp-space; sOfSPerp converts s_perp to
// ordinary arclength (obtained from FineContour.interpSSperp).
func GetSfuncFixedPerpSpacing(sPerpOfIndex SpacingFunc, sOfSPerp func(sPerp float64) float64) SpacingFunc {
	return func(i float64) float64 {
		return sOfSPerp(sPerpOfIndex(i))
	}
}
