// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lset

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/shp"
)

// MeshFemLevelSet is a scalar Lagrange space whose dofs supported across the crack of one level
// set are duplicated: the "-" copy keeps the original number and is multiplied by H⁻, the "+" copy
// gets a new number and is multiplied by H⁺. H± are the indicators of each side of the primary field
type MeshFemLevelSet struct {
	Mls *MeshLevelSet   // decomposition
	Mf  *mfem.Classical // underlying space
	Ls  int             // index of the level set in Mls

	qdim      int
	split     []int   // [Mf.NbBasicDof()] index of the "+" copy; -1 => not split
	origin    []int   // [nsplit] original dof of each "+" copy
	cellDofs  [][]int // [ncells][nloc] basic dofs
	cellFuncs [][]int // [ncells][nloc] local function of Mf (negative => -(a+1) is a "+" copy)
	cellSide  []int   // [ncells] side of uncut cells

	// versions
	version int
	vers    [2]int
	ready   bool

	// scratch
	ev *mfem.Evaluator
}

// NewMeshFemLevelSet returns a new space enriched by the Heaviside function across level set ls
func NewMeshFemLevelSet(mls *MeshLevelSet, mf *mfem.Classical, ls int) (o *MeshFemLevelSet, err error) {
	if mf.Mesh() != mls.Mesh {
		return nil, chk.Err("space and level sets must share the same mesh")
	}
	if mf.Qdim() != 1 {
		return nil, chk.Err("underlying space must be scalar")
	}
	if ls < 0 || ls >= len(mls.LevelSets()) {
		return nil, chk.Err("level set index %d is out of range", ls)
	}
	o = &MeshFemLevelSet{Mls: mls, Mf: mf, Ls: ls, qdim: 1}
	o.ev = mfem.NewEvaluator(mf)
	err = o.Adapt()
	return
}

// Adapt recomputes the duplicated dofs
func (o *MeshFemLevelSet) Adapt() (err error) {
	if o.Mls.NeedsAdapt() {
		if err = o.Mls.Adapt(); err != nil {
			return
		}
	}
	m := o.Mls.Mesh
	ls := o.Mls.LevelSets()[o.Ls]
	nb := o.Mf.NbBasicDof()

	// classify cells
	ncells := len(m.Cells)
	touch := make([]bool, ncells)
	tip := make([]bool, ncells)
	lo0 := make([]float64, ncells)
	hi0 := make([]float64, ncells)
	o.cellSide = make([]int, ncells)
	for cid := range m.Cells {
		lo0[cid], hi0[cid] = cellRange(ls, 0, cid)
		lo1, hi1 := -1.0, -1.0
		if ls.Secondary {
			lo1, hi1 = cellRange(ls, 1, cid)
		}
		touch[cid] = lo0[cid] <= CutTol && hi0[cid] >= -CutTol && lo1 < -CutTol
		tip[cid] = touch[cid] && hi1 > CutTol
		switch {
		case lo0[cid] > CutTol:
			o.cellSide[cid] = 1
		case hi0[cid] < -CutTol:
			o.cellSide[cid] = -1
		}
	}

	// dofs supported across the crack
	type support struct {
		lo, hi   float64
		touched  bool
		tip      bool
		cid, loc int
	}
	sup := make([]support, nb)
	for i := range sup {
		sup[i] = support{lo: math.Inf(1), hi: math.Inf(-1), cid: -1}
	}
	for cid := range m.Cells {
		for a, i := range o.Mf.CellBasicDofs(cid) {
			if sup[i].cid < 0 {
				sup[i].cid, sup[i].loc = cid, a
			}
			if tip[cid] {
				sup[i].tip = true
			}
			if touch[cid] {
				sup[i].touched = true
				sup[i].lo = math.Min(sup[i].lo, lo0[cid])
				sup[i].hi = math.Max(sup[i].hi, hi0[cid])
			}
		}
	}
	o.split = make([]int, nb)
	o.origin = nil
	for i, s := range sup {
		o.split[i] = -1
		if !s.touched || s.tip || s.lo >= -CutTol || s.hi <= CutTol {
			continue
		}
		if ls.Secondary {
			ctx := mfem.NewCellCtx(m, s.cid)
			ctx.SetXref(o.Mf.NodeRef(s.cid, s.loc))
			if ls.Eval(1, s.cid, ctx) >= -CutTol {
				continue
			}
		}
		o.split[i] = nb + len(o.origin)
		o.origin = append(o.origin, i)
	}

	// cell numbering
	o.cellDofs = make([][]int, ncells)
	o.cellFuncs = make([][]int, ncells)
	for cid := range m.Cells {
		for a, i := range o.Mf.CellBasicDofs(cid) {
			o.cellDofs[cid] = append(o.cellDofs[cid], i)
			o.cellFuncs[cid] = append(o.cellFuncs[cid], a)
			if o.split[i] >= 0 {
				o.cellDofs[cid] = append(o.cellDofs[cid], o.split[i])
				o.cellFuncs[cid] = append(o.cellFuncs[cid], -(a + 1))
			}
		}
	}
	o.vers = [2]int{o.Mls.Version(), o.Mf.Version()}
	o.ready = true
	o.version++
	return
}

// NbSplit returns the number of duplicated dofs
func (o *MeshFemLevelSet) NbSplit() int {
	o.refresh()
	return len(o.origin)
}

// IsSplit tells whether the basic dof i of the underlying space is duplicated
func (o *MeshFemLevelSet) IsSplit(i int) bool {
	o.refresh()
	return o.split[i] >= 0
}

func (o *MeshFemLevelSet) refresh() {
	if !o.ready || o.vers != [2]int{o.Mls.Version(), o.Mf.Version()} || o.Mls.NeedsAdapt() {
		if err := o.Adapt(); err != nil {
			chk.Panic("cannot adapt enriched space:\n%v", err)
		}
	}
}

// Mesh returns the mesh
func (o *MeshFemLevelSet) Mesh() *inp.Mesh { return o.Mls.Mesh }

// Qdim returns the number of components
func (o *MeshFemLevelSet) Qdim() int { return o.qdim }

// SetQdim sets the number of components
func (o *MeshFemLevelSet) SetQdim(q int) {
	if q != o.qdim {
		o.qdim = q
		o.version++
	}
}

// NbBasicDof returns the number of basic dofs
func (o *MeshFemLevelSet) NbBasicDof() int {
	o.refresh()
	return o.Mf.NbBasicDof() + len(o.origin)
}

// NbDof returns the number of dofs
func (o *MeshFemLevelSet) NbDof() int { return o.NbBasicDof() * o.qdim }

// NbLocal returns the number of local functions of cell
func (o *MeshFemLevelSet) NbLocal(cid int) int {
	o.refresh()
	return len(o.cellDofs[cid])
}

// CellBasicDofs returns the basic dofs of cell
func (o *MeshFemLevelSet) CellBasicDofs(cid int) []int {
	o.refresh()
	return o.cellDofs[cid]
}

// CellDofs returns the dofs of cell
func (o *MeshFemLevelSet) CellDofs(cid int) []int {
	return mfem.ExpandDofs(o.CellBasicDofs(cid), o.qdim)
}

// DofPoint returns the location of a basic dof; copies share the location of the original
func (o *MeshFemLevelSet) DofPoint(b int) []float64 {
	o.refresh()
	nb := o.Mf.NbBasicDof()
	if b < nb {
		return o.Mf.DofPoint(b)
	}
	return o.Mf.DofPoint(o.origin[b-nb])
}

// Version returns the version number
func (o *MeshFemLevelSet) Version() int {
	o.refresh()
	return o.version
}

// Side returns the side (-1 or +1) of the crack at the point set in ctx
func (o *MeshFemLevelSet) Side(cid int, ctx *shp.GeoCtx) int {
	v := o.Mls.LevelSets()[o.Ls].Eval(0, cid, ctx)
	if s := sign(v); s != 0 {
		return s
	}
	if o.cellSide[cid] != 0 {
		return o.cellSide[cid]
	}
	return 1
}

// Eval computes the local functions at the point set in ctx
func (o *MeshFemLevelSet) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) (err error) {
	o.refresh()
	if err = o.ev.At(cid, ctx, grad != nil); err != nil {
		return
	}
	side := o.Side(cid, ctx)
	for l, f := range o.cellFuncs[cid] {
		a, h := f, 1.0
		if f < 0 {
			a = -f - 1
			if side < 0 {
				h = 0
			}
		} else if o.split[o.cellDofs[cid][l]] >= 0 && side > 0 {
			h = 0
		}
		val[l] = h * o.ev.Val[a]
		if grad != nil {
			for i := range grad[l] {
				grad[l][i] = h * o.ev.Grad[a][i]
			}
		}
	}
	return
}

// cellRange returns the min and max of field i of a level set at the nodes of a cell
func cellRange(ls *LevelSet, i, cid int) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	v := ls.Values(i)
	for _, d := range ls.Mf.CellBasicDofs(cid) {
		lo, hi = math.Min(lo, v[d]), math.Max(hi, v[d])
	}
	return
}
