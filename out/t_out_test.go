// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package out

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/stretchr/testify/require"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func linear(x []float64) []float64 {
	return []float64{1 + 2*x[0] + 3*x[1], 4 - x[0] + 0.5*x[1]}
}

func Test_vtu01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("vtu01. fields on quadrilaterals")

	m, err := inp.RegularUnitMesh("qua4", []int{2, 2}, nil)
	require.NoError(tst, err)
	mfu, err := mfem.NewClassical(m, 1, 2)
	require.NoError(tst, err)
	mfp, err := mfem.NewClassical(m, 0, 1)
	require.NoError(tst, err)
	u := &Field{"u", mfu, mfem.InterpolateFunc(mfu, linear)}
	p := &Field{"p", mfp, []float64{1, 2, 3, 4}}

	// values at nodes
	V, err := NodalValues(u)
	require.NoError(tst, err)
	for _, c := range m.Cells {
		for j, x := range m.Points(c.Id) {
			chk.Array(tst, io.Sf("u(cell %d, node %d)", c.Id, j), 1e-14, V[c.Id][j], linear(x))
		}
	}
	P, err := NodalValues(p)
	require.NoError(tst, err)
	for cid := range m.Cells {
		for j := range P[cid] {
			chk.Float64(tst, "p", 1e-15, P[cid][j][0], float64(cid+1))
		}
	}

	// file
	dir := tst.TempDir()
	require.NoError(tst, WriteVTU(dir, "fields", u, p))
	b, err := os.ReadFile(filepath.Join(dir, "fields.vtu"))
	require.NoError(tst, err)
	res := string(b)
	for _, key := range []string{
		`NumberOfPoints="16" NumberOfCells="4"`,
		`Name="u" NumberOfComponents="3"`,
		`Name="p" NumberOfComponents="1"`,
		`Name="offsets"`,
		"\n4 8 12 16 \n",
		"\n9 9 9 9 \n",
	} {
		if !strings.Contains(res, key) {
			tst.Errorf("vtu file does not contain %q", key)
		}
	}

	// errors
	if err = WriteVTU(dir, "none"); err == nil {
		tst.Errorf("writing without fields should fail")
	}
	if err = WriteVTU(dir, "bad", &Field{"u", mfu, []float64{1, 2}}); err == nil {
		tst.Errorf("wrong number of values should fail")
	}
	if err = WriteVTU(dir, "bad", &Field{"", mfp, p.U}); err == nil {
		tst.Errorf("field without name should fail")
	}
	other, _ := inp.RegularUnitMesh("qua4", []int{2, 2}, nil)
	mfo, _ := mfem.NewClassical(other, 0, 1)
	if err = WriteVTU(dir, "bad", u, &Field{"q", mfo, p.U}); err == nil {
		tst.Errorf("fields on different meshes should fail")
	}
}

func Test_along01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("along01. sampling along a line")

	m, _ := inp.RegularUnitMesh("tri3", []int{3, 3}, nil)
	mf, _ := mfem.NewClassical(m, 1, 2)
	u := &Field{"u", mf, mfem.InterpolateFunc(mf, linear)}

	dist, vals, err := Along(u, []float64{0, 0.5}, []float64{1, 0.5}, 5)
	require.NoError(tst, err)
	chk.Array(tst, "dist", 1e-15, dist, []float64{0, 0.25, 0.5, 0.75, 1})
	chk.Array(tst, "ux", 1e-13, Component(vals, 0), []float64{2.5, 3, 3.5, 4, 4.5})
	chk.Array(tst, "uy", 1e-13, Component(vals, 1), []float64{4.25, 4, 3.75, 3.5, 3.25})

	if _, _, err = Along(u, []float64{0, 0}, []float64{1, 1}, 1); err == nil {
		tst.Errorf("one point should fail")
	}
	if _, _, err = Along(u, []float64{0, 0}, []float64{1, 1, 1}, 3); err == nil {
		tst.Errorf("wrong dimension should fail")
	}
	if _, _, err = Along(u, []float64{0, 0}, []float64{2, 0}, 3); err == nil {
		tst.Errorf("points outside the mesh should fail")
	}
}

func Test_plot01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("plot01. curves")

	dir := tst.TempDir()
	fig := Figure{Title: "opening", Xlbl: "x", Ylbl: "jump"}
	X := []float64{0, 1, 2, 3}
	err := PlotCurves(dir, "curves.png", fig,
		&Curve{Label: "computed", X: X, Y: []float64{0, 1, 4, 9}},
		&Curve{Label: "exact", X: X, Y: []float64{0, 1.1, 3.9, 9}, Markers: true},
	)
	require.NoError(tst, err)
	if _, err = os.Stat(filepath.Join(dir, "curves.png")); err != nil {
		tst.Errorf("figure was not saved: %v", err)
	}

	if err = PlotCurves(dir, "none.png", fig); err == nil {
		tst.Errorf("plotting without curves should fail")
	}
	if err = PlotCurves(dir, "bad.png", fig, &Curve{X: X, Y: X[:2]}); err == nil {
		tst.Errorf("series of different lengths should fail")
	}
}
