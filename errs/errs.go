// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package errs defines the error kinds raised by the grid-generation core.
//
// Policy (spec.md §7): SolutionError is recoverable by psi.Refine's
// method-chain fallback; ConfigurationError, ConsistencyError and
// TopologyError abort the run.
package errs

import (
	"fmt"

	"github.com/cpmech/gosl/chk"
)

// Kind identifies which of the four error categories an error belongs to.
type Kind int

const (
	// KindSolution marks a numerical method that failed to converge.
	KindSolution Kind = iota
	// KindConfiguration marks an invalid or unsupported option.
	KindConfiguration
	// KindConsistency marks an internal-invariant violation.
	KindConsistency
	// KindTopology marks an incompatible mesh topology.
	KindTopology
)

func (k Kind) String() string {
	switch k {
	case KindSolution:
		return "SolutionError"
	case KindConfiguration:
		return "ConfigurationError"
	case KindConsistency:
		return "ConsistencyError"
	case KindTopology:
		return "TopologyError"
	}
	return "UnknownError"
}

// E is the concrete error type carrying a Kind and an optional location tag
// (the contour/region name, matching §7's "names the contour/region").
type E struct {
	Kind Kind
	Where string
	Msg  string
}

func (e *E) Error() string {
	if e.Where != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Where, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func newErr(k Kind, where, format string, args ...interface{}) error {
	return &E{Kind: k, Where: where, Msg: chk.Err(format, args...).Error()}
}

// Solution builds a SolutionError.
func Solution(where, format string, args ...interface{}) error {
	return newErr(KindSolution, where, format, args...)
}

// Configuration builds a ConfigurationError.
func Configuration(where, format string, args ...interface{}) error {
	return newErr(KindConfiguration, where, format, args...)
}

// Consistency builds a ConsistencyError.
func Consistency(where, format string, args ...interface{}) error {
	return newErr(KindConsistency, where, format, args...)
}

// Topology builds a TopologyError.
func Topology(where, format string, args ...interface{}) error {
	return newErr(KindTopology, where, format, args...)
}

// Is reports whether err is an *E of the given kind.
func Is(err error, k Kind) bool {
	e, ok := err.(*E)
	return ok && e.Kind == k
}
