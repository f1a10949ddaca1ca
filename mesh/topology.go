// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gridgen/errs"

// regionOrder is the canonical BoutMesh region ordering (spec.md §4.9);
// absent regions of size zero are allowed and simply skipped.
var regionOrder = []string{
	"inner_lower_divertor",
	"inner_core",
	"inner_upper_divertor",
	"outer_upper_divertor",
	"outer_core",
	"outer_lower_divertor",
}

// Topology holds the BOUT++-style radial/poloidal indices spec.md §6
// requires in the grid-file output, derived from the count of non-empty
// y-regions (spec.md §4.9).
type Topology struct {
	Ixseps1, Ixseps2                     int
	Jyseps1_1, Jyseps2_1, Jyseps1_2, Jyseps2_2 int
	NyInner                              int
}

// computeTopology derives Topology from the per-region poloidal cell
// counts (ny, excluding guards) of the six canonical regions, in
// regionOrder, the separatrix radial index nxCore (the default Ixseps1) and
// the radial cell count nx shared by every region (the default Ixseps2)
// (spec.md §4.9 "Topology indices from y_regions_noguards counts").
func computeTopology(nyByRegion map[string]int, nxCore, nx int) (Topology, error) {
	present := 0
	var names []string
	for _, name := range regionOrder {
		if ny, ok := nyByRegion[name]; ok && ny > 0 {
			present++
			names = append(names, name)
		}
	}

	t := Topology{Ixseps1: nxCore, Ixseps2: nx}

	switch present {
	case 1:
		// SOL-only or core-only: no legs, no separatrix crossing within y.
		t.Jyseps1_1 = -1
		t.Jyseps2_1 = nyByRegion[names[0]] - 1
		t.Jyseps1_2 = t.Jyseps2_1
		t.Jyseps2_2 = t.Jyseps2_1
		t.NyInner = nyByRegion[names[0]]

	case 3:
		// single-null: inner lower leg, core, outer lower leg.
		legLower := nyByRegion["inner_lower_divertor"]
		core := nyByRegion["inner_core"] + nyByRegion["outer_core"]
		t.Jyseps1_1 = legLower - 1
		t.Jyseps2_1 = legLower + core - 1
		t.Jyseps1_2 = t.Jyseps2_1
		t.Jyseps2_2 = t.Jyseps2_1
		t.NyInner = legLower + nyByRegion["inner_core"]

	case 4:
		// X-point topology with four legs: ixseps2 collapses onto ixseps1.
		t.Ixseps2 = t.Ixseps1
		legInLower := nyByRegion["inner_lower_divertor"]
		coreIn := nyByRegion["inner_core"]
		coreOut := nyByRegion["outer_core"]
		legOutUpper := nyByRegion["outer_upper_divertor"]
		t.Jyseps1_1 = legInLower - 1
		t.Jyseps2_1 = legInLower + coreIn - 1
		t.NyInner = t.Jyseps2_1 + 1
		t.Jyseps1_2 = t.NyInner + legOutUpper - 1
		t.Jyseps2_2 = t.Jyseps1_2 + coreOut

	case 6:
		// double-null: every six-region mesh is treated as connected
		// double-null, so ixseps2 is always collapsed onto ixseps1; the
		// X-point psi values are not compared (spec.md S6).
		legInLower := nyByRegion["inner_lower_divertor"]
		coreIn := nyByRegion["inner_core"]
		legInUpper := nyByRegion["inner_upper_divertor"]
		legOutUpper := nyByRegion["outer_upper_divertor"]
		coreOut := nyByRegion["outer_core"]
		t.Jyseps1_1 = legInLower - 1
		t.Jyseps2_1 = legInLower + coreIn - 1
		t.NyInner = t.Jyseps2_1 + legInUpper + 1
		t.Jyseps1_2 = t.NyInner + legOutUpper - 1
		t.Jyseps2_2 = t.Jyseps1_2 + coreOut
		t.Ixseps2 = t.Ixseps1 // connected-double-null

	default:
		return Topology{}, errs.Topology("computeTopology", "unsupported y-region count %d", present)
	}
	return t, nil
}
