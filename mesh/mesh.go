// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mesh implements BoutMesh (spec.md §4.9): the assembly of the six
// canonical EquilibriumRegion/MeshRegion pairs into one global grid,
// validating the shared radial partition, ordering the poloidal y-groups so
// zShift integrates continuously across region boundaries, matching shared
// (R,Z) faces, and deriving the BOUT++ topology indices.
package mesh

import (
	"github.com/cpmech/gridgen/equilibrium"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/marray"
	"github.com/cpmech/gridgen/meshregion"
)

// xGroup is a chain of regions connected inner->outer at fixed y, sharing
// one radial partition (spec.md §4.9 x_groups).
type xGroup struct {
	names []string
}

// yGroup is a chain of regions connected lower->upper at fixed x, the unit
// over which CalcZShift's integration must stay continuous (spec.md §4.9
// y_groups).
type yGroup struct {
	names []string
}

// Mesh is the assembled BoutMesh: the ordered regions, their shared x
// partition, the x/y group chains, and the derived Topology.
type Mesh struct {
	Eq       *equilibrium.Equilibrium
	Regions  map[string]*meshregion.MeshRegion
	Order    []string // present regions, in regionOrder
	XStarts  []int    // radial start/end indices {0, nx}; all regions share one radial position
	XGroups  []xGroup
	YGroups  []yGroup
	Topology Topology
}

// NewMesh validates and assembles eq's regions (already Build/FillRZ'd mesh
// regions supplied in regions) into a Mesh, in the canonical order
// inner_lower_divertor, inner_core, inner_upper_divertor,
// outer_upper_divertor, outer_core, outer_lower_divertor -- absent regions
// of size zero are permitted (spec.md §4.9).
func NewMesh(eq *equilibrium.Equilibrium, regions map[string]*meshregion.MeshRegion) (*Mesh, error) {
	m := &Mesh{Eq: eq, Regions: regions}

	for _, name := range regionOrder {
		if _, ok := regions[name]; ok {
			m.Order = append(m.Order, name)
		}
	}
	if len(m.Order) == 0 {
		return nil, errs.Topology("NewMesh", "no regions supplied")
	}

	if err := m.validateRadialSizing(); err != nil {
		return nil, err
	}
	m.buildXStartinds()
	m.buildXGroups()
	m.buildYGroups()

	nyByRegion := make(map[string]int, len(m.Order))
	nxCore := 0
	for _, name := range m.Order {
		r := m.Regions[name].Region
		nyByRegion[name] = r.TotalNy()
	}
	nxTotal := 0
	if len(m.Order) > 0 {
		r0 := m.Regions[m.Order[0]].Region
		nxCore = r0.SeparatrixRadialIndex
		nxTotal = m.XStarts[len(m.XStarts)-1]
	}
	topo, err := computeTopology(nyByRegion, nxCore, nxTotal)
	if err != nil {
		return nil, err
	}
	m.Topology = topo
	return m, nil
}

// validateRadialSizing requires every present region to share the same
// per-segment radial cell count (spec.md §4.9 "all segments have the same
// radial sizing").
func (m *Mesh) validateRadialSizing() error {
	var nx int
	first := true
	for _, name := range m.Order {
		mr := m.Regions[name]
		n := mr.Nx
		if first {
			nx = n
			first = false
			continue
		}
		if n != nx {
			return errs.Topology("Mesh.validateRadialSizing", "region %s has %d radial cells, expected %d", name, n, nx)
		}
	}
	return nil
}

// buildXStartinds computes the cumulative radial start index of each
// region -- all present regions share one radial partition, so this is
// simply {0, nx} for the shared nx (spec.md §4.9 x_startinds).
func (m *Mesh) buildXStartinds() {
	if len(m.Order) == 0 {
		return
	}
	nx := m.Regions[m.Order[0]].Nx
	m.XStarts = []int{0, nx}
}

// buildXGroups builds the x_groups (spec.md §4.9 x_groups); gridgen's
// six-region layout has exactly one radial position, so every present
// region forms its own single-element x_group. No chain check is made.
func (m *Mesh) buildXGroups() {
	for _, name := range m.Order {
		m.XGroups = append(m.XGroups, xGroup{names: []string{name}})
	}
}

// lowerUpperChains lists, for each canonical poloidal position, which
// region connects to which moving from lower divertor to upper divertor
// (spec.md §4.9 y_groups): two legs per side plus the shared core ring.
var lowerUpperChains = [][]string{
	{"inner_lower_divertor", "inner_core", "inner_upper_divertor"},
	{"outer_upper_divertor", "outer_core", "outer_lower_divertor"},
}

// buildYGroups assembles the poloidal lower->upper chains present in this
// mesh and assigns each region's position within its chain via
// MeshRegion.SetYGroupIndex, so CalcZShift knows which region starts the
// integration for its chain (spec.md §4.9 y_groups, §4.8 calcZShift).
func (m *Mesh) buildYGroups() {
	present := make(map[string]bool, len(m.Order))
	for _, name := range m.Order {
		present[name] = true
	}
	for _, chain := range lowerUpperChains {
		var names []string
		for _, name := range chain {
			if present[name] {
				names = append(names, name)
			}
		}
		if len(names) == 0 {
			continue
		}
		for i, name := range names {
			m.Regions[name].SetYGroupIndex(i)
		}
		m.YGroups = append(m.YGroups, yGroup{names: names})
	}
}

// Assemble runs the whole post-Build pipeline in the order spec.md §5's
// ordering guarantees require: geometry in every region before any metric
// or curvature calculation, getRZBoundary after every region's fillRZ and
// before any metric calculation, and zShift propagating strictly from
// yGroupIndex=0 upward within each y-group.
func (m *Mesh) Assemble(nyNoGuards int) error {
	for _, name := range m.Order {
		if err := m.Regions[name].FillRZ(); err != nil {
			return err
		}
	}
	if err := m.MatchFaces(); err != nil {
		return err
	}
	for _, name := range m.Order {
		if err := m.Regions[name].Geometry(nyNoGuards); err != nil {
			return err
		}
	}
	for _, name := range m.Order {
		mr := m.Regions[name]
		if err := mr.CalcMetric(); err != nil {
			return err
		}
		if err := mr.CalcCurvature(); err != nil {
			return err
		}
	}
	return m.PropagateZShift()
}

// MatchFaces runs GetRZBoundary across every y-group, from the region
// nearest the upper divertor down to the one nearest the lower divertor, so
// every shared (R,Z) face agrees bit-exact with its upper neighbour's
// (spec.md §4.8 getRZBoundary, property P6).
func (m *Mesh) MatchFaces() error {
	for _, yg := range m.YGroups {
		for i := len(yg.names) - 2; i >= 0; i-- {
			lower := m.Regions[yg.names[i]]
			upper := m.Regions[yg.names[i+1]]
			if err := lower.GetRZBoundary(upper); err != nil {
				return err
			}
		}
	}
	return nil
}

// PropagateZShift runs CalcZShift across every y-group in lower-to-upper
// order, seeding each region's integral from the previous region's
// UpperEdge so the result stays continuous along a field line across
// region boundaries (spec.md §4.8 calcZShift ordering, property P7).
func (m *Mesh) PropagateZShift() error {
	for _, yg := range m.YGroups {
		var lowerCentre, lowerXlow []float64
		for _, name := range yg.names {
			mr := m.Regions[name]
			if err := mr.CalcZShift(lowerCentre, lowerXlow); err != nil {
				return err
			}
			lowerCentre = mr.UpperEdge(marray.Centre)
			lowerXlow = mr.UpperEdge(marray.Xlow)
		}
	}
	return nil
}
