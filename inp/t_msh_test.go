// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_msh01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh01. regular meshes")

	for _, c := range []struct {
		typ          string
		n            []int
		npts, ncells int
		nouter       int
	}{
		{"lin2", []int{4}, 5, 4, 2},
		{"qua4", []int{2, 2}, 9, 4, 8},
		{"tri3", []int{2, 2}, 9, 8, 8},
		{"tri6", []int{2, 2}, 25, 8, 8},
		{"hex8", []int{2, 2, 2}, 27, 8, 24},
		{"tet4", []int{1, 1, 1}, 8, 6, 12},
	} {
		m, err := RegularUnitMesh(c.typ, c.n, nil)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		io.Pforan("%s: npts=%d ncells=%d\n", c.typ, len(m.Verts), len(m.Cells))
		chk.Int(tst, c.typ+": npts", len(m.Verts), c.npts)
		chk.Int(tst, c.typ+": ncells", len(m.Cells), c.ncells)
		chk.Int(tst, c.typ+": nouter", m.OuterFaces().Size(), c.nouter)
		chk.Float64(tst, c.typ+": xmax", 1e-15, m.Xmax, 1)
	}

	if _, err := RegularUnitMesh("qua9", []int{2, 2}, nil); err == nil {
		tst.Errorf("unknown cell type should fail")
	}
	if _, err := RegularUnitMesh("qua4", []int{2}, nil); err == nil {
		tst.Errorf("missing subdivisions should fail")
	}
}

func Test_msh02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh02. points, normals and translation")

	m, _ := RegularUnitMesh("qua4", []int{1, 1}, nil)

	// merging
	v0 := m.Version()
	id := m.AddPoint([]float64{1 + 1e-14, 1})
	chk.Int(tst, "merged id", id, 3)
	chk.Int(tst, "version (merged)", m.Version(), v0)
	id = m.AddPoint([]float64{2, 1})
	chk.Int(tst, "new id", id, 4)
	if m.Version() == v0 {
		tst.Errorf("version must be incremented")
	}

	// normals
	chk.Array(tst, "n0", 1e-15, m.NormalOfFace(0, 0), []float64{1, 0})
	chk.Array(tst, "n1", 1e-15, m.NormalOfFace(0, 1), []float64{-1, 0})
	chk.Array(tst, "n2", 1e-15, m.NormalOfFace(0, 2), []float64{0, 1})
	chk.Array(tst, "n3", 1e-15, m.NormalOfFace(0, 3), []float64{0, -1})

	// coordinates
	chk.Deep2(tst, "coords", 1e-15, m.Coords(0), [][]float64{{0, 1, 0, 1}, {0, 0, 1, 1}})
	chk.Deep2(tst, "face points", 1e-15, m.FacePoints(0, 2), [][]float64{{0, 1}, {1, 1}})

	// translation
	m.Translate([]float64{0, -0.5})
	chk.Array(tst, "x3", 1e-15, m.Verts[3].C, []float64{1, 0.5})
	chk.Float64(tst, "ymin", 1e-15, m.Ymin, -0.5)
	id = m.AddPoint([]float64{0, -0.5})
	chk.Int(tst, "merged after translation", id, 0)

	// tetrahedra normals point outwards
	t, _ := RegularUnitMesh("tet4", []int{1, 1, 1}, nil)
	for _, it := range t.OuterFaces().Items() {
		n := t.NormalOfFace(it.Cid, it.Fid)
		X := t.FacePoints(it.Cid, it.Fid)
		// outer faces of the unit cube have normals along the axes
		for i := 0; i < 3; i++ {
			if n[i] > 0.5 {
				chk.Float64(tst, "x on face", 1e-15, X[0][i], 1)
			}
			if n[i] < -0.5 {
				chk.Float64(tst, "x on face", 1e-15, X[0][i], 0)
			}
		}
	}
}

func Test_msh03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("msh03. regions")

	a, b := NewRegion(), NewRegion()
	a.Add(0, -1)
	a.Add(1, 2)
	a.Add(2, 0)
	b.Add(1, 2)
	b.Add(3, 1)

	chk.Int(tst, "|a ∪ b|", Union(a, b).Size(), 4)
	chk.Int(tst, "|a ∩ b|", Intersect(a, b).Size(), 1)
	chk.Int(tst, "|a \\ b|", Subtract(a, b).Size(), 2)
	chk.Ints(tst, "cells(a)", a.Cells(), []int{0, 1, 2})
	if !Intersect(a, b).Has(1, 2) {
		tst.Errorf("intersection must contain (1,2)")
	}
	if a.IsOnlyFaces() || !b.IsOnlyFaces() {
		tst.Errorf("IsOnlyFaces failed")
	}
	chk.Int(tst, "partition", a.Partition(0, 1).Size(), 3)

	// read mesh with tags
	data := `{"verts":[
		{"id":0,"tag":0,"c":[0,0]},{"id":1,"tag":0,"c":[1,0]},
		{"id":2,"tag":0,"c":[0,1]},{"id":3,"tag":0,"c":[1,1]}],
	"cells":[{"id":0,"tag":-1,"type":"qua4","verts":[0,1,2,3],"ftags":[-10,0,-20,0]}]}`
	fn := filepath.Join(tst.TempDir(), "square.msh")
	if err := os.WriteFile(fn, []byte(data), 0644); err != nil {
		tst.Errorf("%v", err)
		return
	}
	m, err := ReadMsh(fn, nil)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "ndim", m.Ndim, 2)
	if !m.Region(-10).Has(0, 0) || !m.Region(-20).Has(0, 2) || !m.Region(-1).Has(0, -1) {
		tst.Errorf("regions from tags are wrong")
	}
	if _, err = ReadMsh(filepath.Join(tst.TempDir(), "none.msh"), nil); err == nil {
		tst.Errorf("missing file should fail")
	}
}
