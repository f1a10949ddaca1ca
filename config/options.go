// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package config implements the option struct the core is driven by
// (spec.md §6). Parsing options.yaml from disk is the external
// collaborator's job; this package owns the struct contract, defaulting,
// and validation, the same split gofem/inp uses for its own (internal)
// .sim JSON reader.
package config

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"gopkg.in/yaml.v2"
)

// PoloidalSpacingMethod selects the analytic spacing-law family used near
// X-points and targets (spec.md §4.6).
type PoloidalSpacingMethod string

const (
	SpacingSqrt      PoloidalSpacingMethod = "sqrt"
	SpacingMonotonic PoloidalSpacingMethod = "monotonic"
)

// NonorthogonalSpacingMethod selects how non-orthogonal contours are
// distributed (spec.md §4.8 distributePointsNonorthogonal).
type NonorthogonalSpacingMethod string

const (
	NonorthoOrthogonal              NonorthogonalSpacingMethod = "orthogonal"
	NonorthoFixedPoloidal           NonorthogonalSpacingMethod = "fixed_poloidal"
	NonorthoPoloidalOrthogonalComb  NonorthogonalSpacingMethod = "poloidal_orthogonal_combined"
	NonorthoFixedPerpLower          NonorthogonalSpacingMethod = "fixed_perp_lower"
	NonorthoFixedPerpUpper          NonorthogonalSpacingMethod = "fixed_perp_upper"
	NonorthoPerpOrthogonalCombined  NonorthogonalSpacingMethod = "perp_orthogonal_combined"
	NonorthoCombined                NonorthogonalSpacingMethod = "combined"
)

// CurvatureType selects the curvature-of-b/B model (spec.md §4.8 calcCurvature).
type CurvatureType string

const (
	CurvatureCurlBOverB CurvatureType = "curl(b/B)"
	CurvatureBxKappa    CurvatureType = "bxkappa"
)

// RefineMethod names one method refinePoint may try (spec.md §4.4), in the
// order configured by refine_methods.
type RefineMethod string

const (
	RefineNewton          RefineMethod = "newton"
	RefineLine            RefineMethod = "line"
	RefineIntegrate       RefineMethod = "integrate"
	RefineIntegrateNewton RefineMethod = "integrate+newton"
	RefineNone            RefineMethod = "none"
)

// Options holds every tunable the core consumes (spec.md §6). Field names
// mirror the option keys with CamelCase, and yaml tags carry the literal
// key strings so the external loader can unmarshal directly into this
// struct (the loader itself -- locating and reading options.yaml -- is the
// external collaborator; this struct and Default/Validate are not).
type Options struct {
	// Spacing
	TargetPoloidalSpacingLength               float64 `yaml:"target_poloidal_spacing_length"`
	XpointPoloidalSpacingLength                float64 `yaml:"xpoint_poloidal_spacing_length"`
	NonorthogonalTargetPoloidalSpacingLength   float64 `yaml:"nonorthogonal_target_poloidal_spacing_length"`
	NonorthogonalXpointPoloidalSpacingLength   float64 `yaml:"nonorthogonal_xpoint_poloidal_spacing_length"`
	NonorthogonalTargetSpacingRangeInner       float64 `yaml:"nonorthogonal_target_poloidal_spacing_range_inner"`
	NonorthogonalTargetSpacingRangeOuter       float64 `yaml:"nonorthogonal_target_poloidal_spacing_range_outer"`
	NonorthogonalXpointSpacingRangeInner       float64 `yaml:"nonorthogonal_xpoint_poloidal_spacing_range_inner"`
	NonorthogonalXpointSpacingRangeOuter       float64 `yaml:"nonorthogonal_xpoint_poloidal_spacing_range_outer"`
	NonorthogonalRadialRangePower              float64 `yaml:"nonorthogonal_radial_range_power"`
	PoloidalSpacingDeltaPsi                    float64 `yaml:"poloidal_spacing_delta_psi"`
	PolynomialDLower                           float64 `yaml:"polynomial_d_lower"`
	PolynomialDUpper                           float64 `yaml:"polynomial_d_upper"`

	// Strategy
	Orthogonal                bool                       `yaml:"orthogonal"`
	PoloidalSpacingMethod     PoloidalSpacingMethod      `yaml:"poloidal_spacing_method"`
	NonorthogonalSpacingMethod NonorthogonalSpacingMethod `yaml:"nonorthogonal_spacing_method"`
	ShiftedMetric             bool                       `yaml:"shiftedmetric"`
	CurvatureType             CurvatureType              `yaml:"curvature_type"`

	// Tolerances
	RefineWidth             float64        `yaml:"refine_width"`
	RefineAtol              float64        `yaml:"refine_atol"`
	RefineMethods           []RefineMethod `yaml:"refine_methods"`
	FollowPerpendicularRtol float64        `yaml:"follow_perpendicular_rtol"`
	FollowPerpendicularAtol float64        `yaml:"follow_perpendicular_atol"`
	FinecontourNfine        int            `yaml:"finecontour_Nfine"`
	FinecontourAtol         float64        `yaml:"finecontour_atol"`
	FinecontourMaxits       int            `yaml:"finecontour_maxits"`
	GeometryRtol            float64        `yaml:"geometry_rtol"`
	SfuncChecktol           float64        `yaml:"sfunc_checktol"`

	// Topology
	YBoundaryGuards int          `yaml:"y_boundary_guards"`
	Regions         []RegionSpec `yaml:"regions"`

	// Extra holds any forward-compatible tunables the struct above does not
	// yet name, in the same spirit as gofem/inp.FuncData's dbf.Params: a
	// free-form parameter bag rather than silently rejecting unknown keys.
	Extra dbf.Params `yaml:"extra"`
}

// RegionSpec names one of the six canonical y-region slots and its
// per-segment nx/ny partition and neighbour names (spec.md §6 Topology:
// "per-segment nx and ny"). The separatrix geometry comes from
// SeparatrixPoints below; this struct is the geometry and topology
// metadata a real hypnotoad-style tool would derive by tracing the
// separatrix automatically, left here as explicit options-file input
// since that tracing is outside gridgen's component
// budget (spec.md §2 lists EquilibriumRegion as "owns spacing laws and
// connection metadata", not separatrix auto-splitting).
type RegionSpec struct {
	Name string `yaml:"name"`
	// PsiVals are the radial psi-levels, PsiVals[0] being the separatrix
	// level; the segment count is len(Ny), and Ny gives each segment's
	// poloidal cell count.
	PsiVals []float64 `yaml:"psi_vals"`
	Ny      []int     `yaml:"ny"`

	ConnectionInner []string `yaml:"connection_inner"`
	ConnectionOuter []string `yaml:"connection_outer"`
	ConnectionLower []string `yaml:"connection_lower"`
	ConnectionUpper []string `yaml:"connection_upper"`

	SeparatrixRadialIndex int `yaml:"separatrix_radial_index"`

	// SeparatrixPoints is the region's poloidal segment of the separatrix
	// (or the relevant boundary/leg), as (R,Z) pairs in increasing
	// poloidal order -- the geometry equilibrium.BuildRegion wraps into a
	// PsiContour before perpendicular projection.
	SeparatrixPoints [][2]float64 `yaml:"separatrix_points"`
}

// Default returns the option set with hypnotoad's published numeric
// defaults (original_source/hypnotoad/core/equilibrium.py), since spec.md
// itself does not give numeric defaults.
func Default() *Options {
	return &Options{
		TargetPoloidalSpacingLength:             0.05,
		XpointPoloidalSpacingLength:              0.1,
		NonorthogonalTargetPoloidalSpacingLength: 0.05,
		NonorthogonalXpointPoloidalSpacingLength:  0.1,
		NonorthogonalTargetSpacingRangeInner: 0.1,
		NonorthogonalTargetSpacingRangeOuter: 0.1,
		NonorthogonalXpointSpacingRangeInner: 0.1,
		NonorthogonalXpointSpacingRangeOuter: 0.1,
		NonorthogonalRadialRangePower:        1.0,
		PoloidalSpacingDeltaPsi:              1e-3,
		PolynomialDLower:                     1.0,
		PolynomialDUpper:                     1.0,

		Orthogonal:                 true,
		PoloidalSpacingMethod:      SpacingSqrt,
		NonorthogonalSpacingMethod: NonorthoOrthogonal,
		ShiftedMetric:              true,
		CurvatureType:              CurvatureCurlBOverB,

		RefineWidth:   1e-2,
		RefineAtol:    2e-8,
		RefineMethods: []RefineMethod{RefineNewton, RefineLine, RefineNone},

		FollowPerpendicularRtol: 2e-8,
		FollowPerpendicularAtol: 1e-8,

		FinecontourNfine:  100,
		FinecontourAtol:   1e-10,
		FinecontourMaxits: 1000,

		GeometryRtol:  1e-8,
		SfuncChecktol: 1e-10,

		YBoundaryGuards: 0,
	}
}

// Load parses YAML-encoded option overrides into a fresh Options value that
// starts from Default(). The caller locates the file (external
// collaborator); Load only unmarshals bytes already read off disk.
func Load(yamlBytes []byte) (*Options, error) {
	o := Default()
	if len(yamlBytes) == 0 {
		return o, nil
	}
	if err := yaml.Unmarshal(yamlBytes, o); err != nil {
		return nil, chk.Err("cannot parse options: %v", err)
	}
	return o, nil
}

// Validate checks the parts of Options whose invalid values spec.md §7
// calls out as ConfigurationError conditions that must be caught before any
// numerical work begins.
func (o *Options) Validate() error {
	if !o.ShiftedMetric {
		return chk.Err("only shifted-metric output is supported")
	}
	switch o.PoloidalSpacingMethod {
	case SpacingSqrt, SpacingMonotonic:
	default:
		return chk.Err("unknown poloidal_spacing_method %q", o.PoloidalSpacingMethod)
	}
	switch o.NonorthogonalSpacingMethod {
	case NonorthoOrthogonal, NonorthoFixedPoloidal, NonorthoPoloidalOrthogonalComb,
		NonorthoFixedPerpLower, NonorthoFixedPerpUpper, NonorthoPerpOrthogonalCombined, NonorthoCombined:
	default:
		return chk.Err("unknown nonorthogonal_spacing_method %q", o.NonorthogonalSpacingMethod)
	}
	switch o.CurvatureType {
	case CurvatureCurlBOverB, CurvatureBxKappa:
	default:
		return chk.Err("unknown curvature_type %q", o.CurvatureType)
	}
	if len(o.RefineMethods) == 0 {
		return chk.Err("refine_methods must not be empty")
	}
	for _, m := range o.RefineMethods {
		switch m {
		case RefineNewton, RefineLine, RefineIntegrate, RefineIntegrateNewton, RefineNone:
		default:
			return chk.Err("unknown refine method %q", m)
		}
	}
	return nil
}
