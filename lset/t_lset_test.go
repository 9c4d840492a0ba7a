// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lset

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/shp"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// crackedSquare returns a 2x2 triangle mesh with a crack along y = 0.3 ending at x = 0.6
func crackedSquare(tst *testing.T) (m *inp.Mesh, ls *LevelSet, mls *MeshLevelSet) {
	m, err := inp.RegularUnitMesh("tri3", []int{2, 2}, nil)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	ls, err = NewLevelSet(m, 1, true)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	ls.SetValues(func(x []float64) float64 { return x[1] - 0.3 }, func(x []float64) float64 { return x[0] - 0.6 })
	mls = NewMeshLevelSet(m)
	if err = mls.AddLevelSet(ls); err != nil {
		tst.Fatalf("%v", err)
	}
	if err = mls.Adapt(); err != nil {
		tst.Fatalf("%v", err)
	}
	return
}

func Test_cut01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cut01. cells crossed by a crack")

	_, ls, mls := crackedSquare(tst)
	for cid := 0; cid < 8; cid++ {
		d := mls.Decomposition(cid)
		io.Pforan("cell %d: cut=%v singular=%v nsimplices=%d\n", cid, d.Cut, d.Singular, len(d.Simplices))
		if cid < 4 {
			if !d.Cut {
				tst.Errorf("cell %d must be cut", cid)
				continue
			}
			vf := 0.0
			for _, s := range d.Simplices {
				vf += shp.SimplexVolumeFactor(s.X)
				if s.Signs[0][0] == 0 {
					tst.Errorf("sub-simplex of cell %d must lie on one side of the crack", cid)
				}
			}
			chk.Float64(tst, io.Sf("Σ volumes of cell %d", cid), 1e-14, vf, 1)
			continue
		}
		if d.Cut {
			tst.Errorf("cell %d must not be cut", cid)
		}
		chk.Ints(tst, "signs", []int{d.Signs[0][0]}, []int{1})
		if len(d.Simplices) != 1 || d.Simplices[0].Sing != -1 {
			tst.Errorf("uncut triangle must be its own decomposition")
		}
	}

	// crack tip
	chk.Int(tst, "nsing", len(mls.SingularPoints()), 1)
	chk.Array(tst, "tip", 1e-14, mls.SingularPoints()[0], []float64{0.6, 0.3})
	if !mls.Decomposition(3).Singular {
		tst.Errorf("cell 3 contains the crack tip")
	}
	for _, cid := range []int{0, 1, 2} {
		if mls.Decomposition(cid).Singular {
			tst.Errorf("cell %d does not contain the crack tip", cid)
		}
	}

	// adapting twice gives the same decomposition
	n0 := len(mls.Decomposition(3).Simplices)
	if mls.NeedsAdapt() {
		tst.Errorf("level sets did not change")
	}
	ls.Touch()
	if !mls.NeedsAdapt() {
		tst.Errorf("level sets changed")
	}
	mls.Adapt()
	chk.Int(tst, "nsimplices (again)", len(mls.Decomposition(3).Simplices), n0)
}

func Test_cut02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("cut02. crack tip inside a single triangle")

	m := inp.NewMesh(2, nil)
	if _, err := m.AddCellByPoints("tri3", [][]float64{{0, 0}, {1, 0}, {0, 1}}); err != nil {
		tst.Errorf("%v", err)
		return
	}
	ls, _ := NewLevelSet(m, 1, true)
	ls.SetValues(func(x []float64) float64 { return x[1] - 0.25 }, func(x []float64) float64 { return x[0] - 0.25 })
	mls := NewMeshLevelSet(m)
	mls.AddLevelSet(ls)
	mls.Adapt()

	d := mls.Decomposition(0)
	vf := 0.0
	nsing := 0
	for _, s := range d.Simplices {
		vf += shp.SimplexVolumeFactor(s.X)
		if s.Sing >= 0 {
			nsing++
			chk.Array(tst, "tip vertex", 1e-14, s.X[s.Sing], []float64{0.25, 0.25})
		}
	}
	chk.Float64(tst, "Σ volumes", 1e-14, vf, 1)
	if nsing < 2 {
		tst.Errorf("at least two sub-triangles must touch the crack tip; got %d", nsing)
	}

	// errors
	other, _ := inp.RegularUnitMesh("tri3", []int{1, 1}, nil)
	lsOther, _ := NewLevelSet(other, 1, false)
	if err := mls.AddLevelSet(lsOther); err == nil {
		tst.Errorf("level set on another mesh should fail")
	}
	if _, err := NewLevelSet(m, 3, false); err == nil {
		tst.Errorf("degree 3 should fail")
	}
}

func Test_heaviside01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("heaviside01. dofs duplicated across the crack")

	m, _, mls := crackedSquare(tst)
	p1, _ := mfem.NewClassical(m, 1, 1)
	mf, err := NewMeshFemLevelSet(mls, p1, 0)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "nsplit", mf.NbSplit(), 2)
	chk.Int(tst, "nbasic", mf.NbBasicDof(), 11)

	// vertices (0,0) and (0,0.5) are split; (0.5,0) is next to the tip
	for b := 0; b < p1.NbBasicDof(); b++ {
		x := p1.DofPoint(b)
		want := x[0] < 0.25 && x[1] < 0.75
		if mf.IsSplit(b) != want {
			tst.Errorf("dof at %v: split = %v", x, mf.IsSplit(b))
		}
	}

	// partition of unity
	U := make([]float64, mf.NbDof())
	for i := range U {
		U[i] = 1
	}
	for _, x := range [][]float64{{0.1, 0.2}, {0.1, 0.4}, {0.8, 0.7}} {
		res, err := mfem.EvalAtPoint(mf, U, x)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		chk.Float64(tst, io.Sf("Σφ at %v", x), 1e-14, res[0], 1)
	}

	// discontinuity: switch off the "+" copies
	U[9], U[10] = 0, 0
	below, _ := mfem.EvalAtPoint(mf, U, []float64{0.1, 0.2})
	above, _ := mfem.EvalAtPoint(mf, U, []float64{0.1, 0.4})
	chk.Float64(tst, "below", 1e-14, below[0], 1)
	chk.Float64(tst, "above", 1e-14, above[0], 0.2)
}
