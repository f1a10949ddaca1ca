// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gridio serializes an assembled mesh.Mesh into the grid file
// spec.md §6 describes: every 2D field at its (centre/xlow/ylow/corners)
// location plus the scalar topology indices. The exact on-disk container
// (spec.md §1 calls it "a thin serializer over a generic hierarchical-array
// file format") is an external contract; this package picks a concrete,
// self-describing one -- a single JSON document of named arrays, mirroring
// the way `gofem/out` hands named result arrays off to its external
// plotting collaborator rather than owning a binary format itself.
package gridio

import (
	"bytes"
	"encoding/json"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gridgen/config"
	"github.com/cpmech/gridgen/marray"
	"github.com/cpmech/gridgen/mesh"
)

// Array2D is one field's data at one staggered location: its shape and
// row-major values, every region's poloidal range concatenated along the
// column (y) axis in mesh.Mesh.Order.
type Array2D struct {
	Shape [2]int    `json:"shape"`
	Data  []float64 `json:"data"`
}

// Document is the full grid file contents (spec.md §6 "Output: Grid file
// fields"): every field present in any region, split by location, plus the
// scalar topology and run metadata.
type Document struct {
	Fields map[string]map[string]Array2D `json:"fields"` // field -> location -> array

	Nx                int     `json:"nx"`
	Ny                int     `json:"ny"`
	YBoundaryGuards   int     `json:"y_boundary_guards"`
	CurvatureType     string  `json:"curvature_type"`
	BtAxis            float64 `json:"bt_axis"`
	ParallelTransform string  `json:"parallel_transform"`

	Ixseps1                                             int `json:"ixseps1"`
	Ixseps2                                             int `json:"ixseps2"`
	Jyseps1_1, Jyseps2_1, NyInner, Jyseps1_2, Jyseps2_2 int
}

var locationKeys = map[marray.Location]string{
	marray.Centre:  "centre",
	marray.Xlow:    "xlow",
	marray.Ylow:    "ylow",
	marray.Corners: "corners",
}

// Build assembles a Document from every region of m in poloidal order,
// concatenating each field's per-region columns end to end (mesh.Mesh's own
// x-sizing invariant guarantees every region contributes the same row
// count).
func Build(m *mesh.Mesh, opt *config.Options, btAxis float64) *Document {
	doc := &Document{
		Fields:            make(map[string]map[string]Array2D),
		YBoundaryGuards:   opt.YBoundaryGuards,
		CurvatureType:     string(opt.CurvatureType),
		BtAxis:            btAxis,
		ParallelTransform: "shiftedmetric",
		Ixseps1:           m.Topology.Ixseps1,
		Ixseps2:           m.Topology.Ixseps2,
		Jyseps1_1:         m.Topology.Jyseps1_1,
		Jyseps2_1:         m.Topology.Jyseps2_1,
		NyInner:           m.Topology.NyInner,
		Jyseps1_2:         m.Topology.Jyseps1_2,
		Jyseps2_2:         m.Topology.Jyseps2_2,
	}
	if !opt.ShiftedMetric {
		doc.ParallelTransform = "identity"
	}

	// columns[field][locationKey] accumulates the per-region matrices in
	// poloidal order, concatenated once every region has contributed.
	columns := make(map[string]map[string][][][]float64)
	totalNy := 0
	for _, name := range m.Order {
		mr := m.Regions[name]
		doc.Nx = mr.Nx
		totalNy += mr.Ny
		for field, arr := range mr.Fields {
			dst, ok := columns[field]
			if !ok {
				dst = make(map[string][][][]float64)
				columns[field] = dst
			}
			for loc := marray.Centre; loc <= marray.Corners; loc++ {
				mat := arr.At(loc)
				if mat == nil {
					continue
				}
				key := locationKeys[loc]
				dst[key] = append(dst[key], mat)
			}
		}
	}
	doc.Ny = totalNy

	for field, byLoc := range columns {
		doc.Fields[field] = make(map[string]Array2D)
		for key, mats := range byLoc {
			doc.Fields[field][key] = concatColumns(mats)
		}
	}
	return doc
}

// concatColumns horizontally stacks same-row-count matrices, in order, into
// one row-major Array2D.
func concatColumns(mats [][][]float64) Array2D {
	if len(mats) == 0 {
		return Array2D{}
	}
	nR, _ := marray.Shape(mats[0])
	nC := 0
	for _, m := range mats {
		_, mc := marray.Shape(m)
		nC += mc
	}
	data := make([]float64, nR*nC)
	for i := 0; i < nR; i++ {
		col := 0
		for _, m := range mats {
			_, mc := marray.Shape(m)
			for j := 0; j < mc; j++ {
				data[i*nC+col] = m[i][j]
				col++
			}
		}
	}
	return Array2D{Shape: [2]int{nR, nC}, Data: data}
}

// WriteJSON marshals doc as an indented JSON document and writes it to
// path, via gosl/io.WriteFileV (the teacher's own file-writing convention,
// e.g. tools/GenVtu.go's .pvd/.vtu output).
func WriteJSON(path string, doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	buf := new(bytes.Buffer)
	buf.Write(data)
	io.WriteFileV(path, buf)
	return nil
}
