// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// +build ignore

// gridplot is a standalone diagnostic companion to gridgen: it loads a
// grid.json file written by gridio.WriteJSON and draws the poloidal cross
// section -- the Rxy/Zxy centre-location mesh as a family of radial and
// poloidal polylines -- for visual inspection of a run, the same role
// GenVtu.go plays for gofem's FEM output. It is not imported by the core
// (build-tag "ignore", mirroring tools/GenVtu.go and tools/LocCmDriver.go).
package main

import (
	"encoding/json"
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// array2D mirrors gridio.Array2D's on-disk shape without importing the
// gridio package (gridplot is deliberately dependency-free from the core
// beyond the file format itself).
type array2D struct {
	Shape [2]int    `json:"shape"`
	Data  []float64 `json:"data"`
}

// document mirrors the fields of gridio.Document that gridplot reads.
type document struct {
	Fields map[string]map[string]array2D `json:"fields"`
}

func (a array2D) at(i, j int) float64 {
	return a.Data[i*a.Shape[1]+j]
}

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	fnameOut := ""
	flag.StringVar(&fnameOut, "o", "", "output figure filename (e.g. grid.png); shows interactively if empty")
	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("Please provide a grid.json file. Ex.: gridplot equilibrium.grid.json")
	}
	gridPath := flag.Arg(0)

	data, err := io.ReadFile(gridPath)
	if err != nil {
		chk.Panic("cannot read %s: %v", gridPath, err)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		chk.Panic("cannot parse %s: %v", gridPath, err)
	}

	rField, ok := doc.Fields["Rxy"]
	if !ok {
		chk.Panic("grid file has no Rxy field")
	}
	rxy, ok := rField["centre"]
	if !ok {
		chk.Panic("grid file's Rxy field has no centre-location array")
	}
	zArr, ok := doc.Fields["Zxy"]["centre"]
	if !ok {
		chk.Panic("grid file has no Zxy centre-location array")
	}

	nx, ny := rxy.Shape[0], rxy.Shape[1]

	plt.Reset()
	for ix := 0; ix < nx; ix++ {
		var R, Z []float64
		for iy := 0; iy < ny; iy++ {
			R = append(R, rxy.at(ix, iy))
			Z = append(Z, zArr.at(ix, iy))
		}
		plt.Plot(R, Z, "'b-', lw=0.5, clip_on=0")
	}
	for iy := 0; iy < ny; iy++ {
		var R, Z []float64
		for ix := 0; ix < nx; ix++ {
			R = append(R, rxy.at(ix, iy))
			Z = append(Z, zArr.at(ix, iy))
		}
		plt.Plot(R, Z, "'r-', lw=0.5, clip_on=0")
	}
	plt.Gll("$R$", "$Z$", "")
	plt.Equal()

	if fnameOut != "" {
		plt.SaveD(".", fnameOut)
	} else {
		plt.Show()
	}
}
