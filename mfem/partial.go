// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// Partial keeps a subset of the dofs of another space. Removed dofs appear as -1 in CellDofs
type Partial struct {
	Mf      MeshFem // underlying space
	kept    []bool  // [Mf.NbDof()] kept dofs
	newIdx  []int   // [Mf.NbDof()] new index or -1
	nkept   int
	mfVer   int
	version int
}

// NewPartial returns a new reduced space; kept has one entry per dof of mf
func NewPartial(mf MeshFem, kept []bool) (o *Partial, err error) {
	o = &Partial{Mf: mf}
	err = o.SetKept(kept)
	return
}

// SetKept sets the kept dofs
func (o *Partial) SetKept(kept []bool) error {
	if len(kept) != o.Mf.NbDof() {
		return chk.Err("kept dofs set has %d entries but space has %d dofs", len(kept), o.Mf.NbDof())
	}
	o.kept = kept
	o.newIdx = make([]int, len(kept))
	o.nkept = 0
	for d, k := range kept {
		o.newIdx[d] = -1
		if k {
			o.newIdx[d] = o.nkept
			o.nkept++
		}
	}
	o.mfVer = o.Mf.Version()
	o.version++
	return nil
}

// Kept returns the indices (in the underlying space) of kept dofs
func (o *Partial) Kept() (idx []int) {
	for d, k := range o.kept {
		if k {
			idx = append(idx, d)
		}
	}
	return
}

func (o *Partial) check() {
	if o.Mf.Version() != o.mfVer {
		chk.Panic("kept dofs set must be reset after the underlying space changes")
	}
}

// Mesh returns the mesh
func (o *Partial) Mesh() *inp.Mesh { return o.Mf.Mesh() }

// Qdim returns the number of components of the underlying space
func (o *Partial) Qdim() int { return o.Mf.Qdim() }

// SetQdim panics: kept dofs refer to the numbering of the underlying space
func (o *Partial) SetQdim(q int) {
	chk.Panic("cannot change the number of components of a reduced space")
}

// NbBasicDof returns the number of basic dofs of the underlying space
func (o *Partial) NbBasicDof() int { return o.Mf.NbBasicDof() }

// NbDof returns the number of kept dofs
func (o *Partial) NbDof() int {
	o.check()
	return o.nkept
}

// NbLocal returns the number of local functions
func (o *Partial) NbLocal(cid int) int { return o.Mf.NbLocal(cid) }

// CellBasicDofs returns the basic dofs of the underlying space
func (o *Partial) CellBasicDofs(cid int) []int { return o.Mf.CellBasicDofs(cid) }

// DofPoint returns the coordinates of a basic dof
func (o *Partial) DofPoint(b int) []float64 { return o.Mf.DofPoint(b) }

// Version returns the version number
func (o *Partial) Version() int { return o.version + o.Mf.Version() }

// CellDofs returns the reduced dofs of cell (-1 => removed)
func (o *Partial) CellDofs(cid int) (dofs []int) {
	o.check()
	orig := o.Mf.CellDofs(cid)
	dofs = make([]int, len(orig))
	for i, d := range orig {
		dofs[i] = -1
		if d >= 0 {
			dofs[i] = o.newIdx[d]
		}
	}
	return
}

// Eval evaluates the basis functions of the underlying space
func (o *Partial) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) error {
	return o.Mf.Eval(cid, ctx, val, grad)
}
