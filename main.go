// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/mpi"

	"github.com/cpmech/gridgen/config"
	"github.com/cpmech/gridgen/contour"
	"github.com/cpmech/gridgen/equilibrium"
	"github.com/cpmech/gridgen/errs"
	"github.com/cpmech/gridgen/gfile"
	"github.com/cpmech/gridgen/gridio"
	"github.com/cpmech/gridgen/mesh"
	"github.com/cpmech/gridgen/meshregion"
	"github.com/cpmech/gridgen/psi"
)

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			if mpi.Rank() == 0 {
				chk.Verbose = true
				for i := 8; i > 3; i-- {
					chk.CallerInfo(i)
				}
				io.PfRed("ERROR: %v\n", err)
			}
		}
		mpi.Stop(false)
	}()
	mpi.Start(false)

	if mpi.Rank() == 0 {
		io.PfWhite("\ngridgen -- tokamak plasma-edge grid generator\n\n")
		io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
		io.Pf("Use of this source code is governed by a BSD-style\n")
		io.Pf("license that can be found in the LICENSE file.\n\n")
	}

	flag.Parse()
	if len(flag.Args()) < 1 {
		chk.Panic("Please provide a geqdsk file. Ex.: gridgen equilibrium.geqdsk [options.yaml]")
	}
	gpath := flag.Arg(0)

	var optPath string
	if len(flag.Args()) > 1 {
		optPath = flag.Arg(1)
	}

	if err := run(gpath, optPath); err != nil {
		chk.Panic("%v", err)
	}
}

// run wires the geqdsk adapter, option loading, Equilibrium/Region/
// MeshRegion construction, Mesh assembly, and grid-file serialization into
// one pass, returning a typed *errs.E on any ConfigurationError or
// SolutionError (spec.md §6 CLI contract).
func run(gpath, optPath string) error {
	gf, err := gfile.Load(gpath)
	if err != nil {
		return errs.Configuration("main.run", "%v", err)
	}

	var opt *config.Options
	if optPath != "" {
		data, rerr := io.ReadFile(optPath)
		if rerr != nil {
			return errs.Configuration("main.run", "cannot read options file: %v", rerr)
		}
		opt, err = config.Load(data)
	} else {
		opt, err = config.Load(nil)
	}
	if err != nil {
		return errs.Configuration("main.run", "%v", err)
	}
	if err := opt.Validate(); err != nil {
		return errs.Configuration("main.run", "%v", err)
	}

	f := gfile.NewBicubicPsi(gf)
	fpol, fpolPrim := gfile.FpolFuncs(gf)
	wall, err := gf.Wall()
	if err != nil {
		return errs.Configuration("main.run", "%v", err)
	}

	eq := equilibrium.NewEquilibrium(f, fpol, fpolPrim, gf.Bcentr*gf.Rcentr, wall, gf.BoundingBox(), opt)

	refine := contour.RefineParams{
		RefineWidth:   opt.RefineWidth,
		RefineAtol:    opt.RefineAtol,
		RefineMethods: refineMethodsOf(opt.RefineMethods),
		Nfine:         opt.FinecontourNfine,
		Atol:          opt.FinecontourAtol,
		Maxits:        opt.FinecontourMaxits,
	}

	regions := make(map[string]*meshregion.MeshRegion)
	for _, spec := range opt.Regions {
		r, err := equilibrium.BuildRegion(spec, f, opt, refine)
		if err != nil {
			return err
		}
		eq.AddRegion(r)
		mr := meshregion.New(spec.Name, r, f, opt, fpol, fpolPrim)
		mr.SetWall(eq.Wall)
		if err := mr.Build(opt.FollowPerpendicularRtol, opt.FollowPerpendicularAtol); err != nil {
			return err
		}
		regions[spec.Name] = mr
	}

	m, err := mesh.NewMesh(eq, regions)
	if err != nil {
		return err
	}
	if err := m.Assemble(nyNoGuards(regions)); err != nil {
		return err
	}

	doc := gridio.Build(m, opt, eq.BtAxis)
	outPath := io.FnKey(gpath) + ".grid.json"
	if err := gridio.WriteJSON(outPath, doc); err != nil {
		return errs.Solution("main.run", "cannot write grid file: %v", err)
	}
	io.Pf("> wrote %s\n", outPath)
	return nil
}

func nyNoGuards(regions map[string]*meshregion.MeshRegion) int {
	total := 0
	for _, mr := range regions {
		total += mr.Ny
	}
	return total
}

func refineMethodsOf(ms []config.RefineMethod) []psi.Method {
	out := make([]psi.Method, len(ms))
	for i, m := range ms {
		out[i] = psi.Method(m)
	}
	return out
}
