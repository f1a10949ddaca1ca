// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gfile reads the EFIT/geqdsk ASCII equilibrium file format and
// adapts it to the inputs spec.md §6 names as the "Equilibrium contract":
// a psi(R,Z) interpolator, fpol(psi)/fpol'(psi), Bt_axis, the bounding box,
// and (when present) the plasma boundary and limiter polygons. Both the
// file format and the interpolation scheme are explicitly external
// collaborators (spec.md §1); this package is the thin adapter gridgen's
// CLI uses to get from bytes on disk to the psi.Interpolator contract.
package gfile

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gridgen/geom"
)

// GFile holds the raw fields of one parsed geqdsk file, using the
// conventional EFIT names (nw x nh is the psi grid resolution, rdim/zdim
// the grid's physical extent, rleft/zmid its lower-left corner, simag/sibry
// psi at the magnetic axis / boundary).
type GFile struct {
	Nw, Nh                       int
	Rdim, Zdim, Rcentr           float64
	Rleft, Zmid                  float64
	Rmaxis, Zmaxis               float64
	Simag, Sibry, Bcentr         float64
	Current                      float64
	Fpol, Pres, FFprim, Pprime   []float64
	PsiRZ                        [][]float64 // [iw][ih], row-major over R then Z
	Qpsi                         []float64
	Boundary                     []geom.Point2D
	Limiter                      []geom.Point2D
}

// Parse reads a geqdsk file's bytes into a GFile. The format is fixed-width
// Fortran output: a header line, then 2D/1D arrays of 5 values per line in
// 16.9E format, in the standard EFIT field order.
func Parse(data []byte) (*GFile, error) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 1<<20), 1<<20)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if len(lines) < 1 {
		return nil, chk.Err("gfile: empty file")
	}

	header := lines[0]
	fields := strings.Fields(header)
	if len(fields) < 3 {
		return nil, chk.Err("gfile: malformed header %q", header)
	}
	nw, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return nil, chk.Err("gfile: bad nw in header: %v", err)
	}
	nh, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return nil, chk.Err("gfile: bad nh in header: %v", err)
	}

	rd := newFixedReader(lines[1:])
	g := &GFile{Nw: nw, Nh: nh}

	line1 := rd.floats(5)
	g.Rdim, g.Zdim, g.Rcentr, g.Rleft, g.Zmid = line1[0], line1[1], line1[2], line1[3], line1[4]
	line2 := rd.floats(5)
	g.Rmaxis, g.Zmaxis, g.Simag, g.Sibry, g.Bcentr = line2[0], line2[1], line2[2], line2[3], line2[4]
	line3 := rd.floats(5) // current, then simag, xdum, rmaxis, xdum repeated per EFIT convention
	g.Current = line3[0]
	rd.floats(5) // zmaxis, xdum, sibry, xdum, xdum

	g.Fpol = rd.floats(nw)
	g.Pres = rd.floats(nw)
	g.FFprim = rd.floats(nw)
	g.Pprime = rd.floats(nw)

	flat := rd.floats(nw * nh)
	g.PsiRZ = make([][]float64, nw)
	for i := 0; i < nw; i++ {
		g.PsiRZ[i] = make([]float64, nh)
		for j := 0; j < nh; j++ {
			g.PsiRZ[i][j] = flat[i*nh+j]
		}
	}

	g.Qpsi = rd.floats(nw)

	nbhead := rd.floats(2)
	nbbbs, limitr := int(nbhead[0]), int(nbhead[1])
	bnd := rd.floats(2 * nbbbs)
	g.Boundary = make([]geom.Point2D, nbbbs)
	for i := 0; i < nbbbs; i++ {
		g.Boundary[i] = geom.Point2D{R: bnd[2*i], Z: bnd[2*i+1]}
	}
	lim := rd.floats(2 * limitr)
	g.Limiter = make([]geom.Point2D, limitr)
	for i := 0; i < limitr; i++ {
		g.Limiter[i] = geom.Point2D{R: lim[2*i], Z: lim[2*i+1]}
	}

	if rd.err != nil {
		return nil, chk.Err("gfile: %v", rd.err)
	}
	return g, nil
}

// Load reads and parses a geqdsk file from disk (io.ReadFile, matching the
// teacher's own file-reading convention).
func Load(path string) (*GFile, error) {
	data, err := io.ReadFile(path)
	if err != nil {
		return nil, chk.Err("gfile: cannot read %s: %v", path, err)
	}
	return Parse(data)
}

// fixedReader consumes whitespace-separated floats across a line buffer,
// the layout geqdsk packs 5 16.9E fields per line into regardless of the
// logical array boundaries.
type fixedReader struct {
	lines []string
	buf   []string
	err   error
}

func newFixedReader(lines []string) *fixedReader {
	return &fixedReader{lines: lines}
}

func (r *fixedReader) floats(n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		tok, ok := r.next()
		if !ok {
			r.err = chk.Err("unexpected end of data reading %d floats", n)
			return out
		}
		v, err := strconv.ParseFloat(fortranFloat(tok), 64)
		if err != nil {
			r.err = chk.Err("bad float token %q: %v", tok, err)
			return out
		}
		out[i] = v
	}
	return out
}

func (r *fixedReader) next() (string, bool) {
	for len(r.buf) == 0 {
		if len(r.lines) == 0 {
			return "", false
		}
		r.buf = splitFixedWidth(r.lines[0])
		r.lines = r.lines[1:]
	}
	tok := r.buf[0]
	r.buf = r.buf[1:]
	return tok, true
}

// splitFixedWidth splits a geqdsk data line into its 16-character fields
// (the format has no guaranteed whitespace between negative-sign-adjacent
// numbers), falling back to whitespace splitting when the line is shorter
// than one full field width.
func splitFixedWidth(line string) []string {
	const width = 16
	if len(strings.TrimSpace(line)) == 0 {
		return nil
	}
	if len(line) < width {
		return strings.Fields(line)
	}
	var out []string
	for len(line) >= width {
		out = append(out, line[:width])
		line = line[width:]
	}
	if strings.TrimSpace(line) != "" {
		out = append(out, line)
	}
	for i, s := range out {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// fortranFloat rewrites Fortran's sign-only exponent notation ("1.0-5" for
// "1.0e-5") into a form Go's strconv can parse.
func fortranFloat(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	if strings.ContainsAny(s, "eEdD") {
		s = strings.ReplaceAll(s, "D", "E")
		s = strings.ReplaceAll(s, "d", "E")
		return s
	}
	for i := 1; i < len(s); i++ {
		if (s[i] == '+' || s[i] == '-') && (s[i-1] != 'e' && s[i-1] != 'E') {
			return s[:i] + "E" + s[i:]
		}
	}
	return s
}
