// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// GlobalFunc is a scalar function defined on the whole mesh. It receives the cell and the
// geometric context so that functions defined on level sets can interpolate them
type GlobalFunc interface {
	Val(cid int, ctx *shp.GeoCtx) float64
	Grad(cid int, ctx *shp.GeoCtx, g []float64)
}

// PosFunc is a GlobalFunc depending on the real position only
type PosFunc struct {
	F func(x []float64) float64    // function
	G func(x []float64, g []float64) // gradient; may be nil => zero
}

// Val returns the function value
func (o PosFunc) Val(cid int, ctx *shp.GeoCtx) float64 { return o.F(ctx.Xreal()) }

// Grad computes the gradient
func (o PosFunc) Grad(cid int, ctx *shp.GeoCtx, g []float64) {
	if o.G == nil {
		for i := range g {
			g[i] = 0
		}
		return
	}
	o.G(ctx.Xreal(), g)
}

// GlobalFunction holds one dof per global function; every cell sees all functions
type GlobalFunction struct {
	base
	funcs []GlobalFunc
	dofs  []int
}

// NewGlobalFunction returns a new space spanned by the given functions
func NewGlobalFunction(m *inp.Mesh, qdim int, funcs ...GlobalFunc) (o *GlobalFunction) {
	o = new(GlobalFunction)
	o.mesh, o.qdim = m, qdim
	o.SetFunctions(funcs...)
	return
}

// SetFunctions replaces the set of functions
func (o *GlobalFunction) SetFunctions(funcs ...GlobalFunc) {
	o.funcs = funcs
	o.dofs = make([]int, len(funcs))
	for i := range funcs {
		o.dofs[i] = i
	}
	o.version++
}

// NbBasicDof returns the number of functions
func (o *GlobalFunction) NbBasicDof() int { return len(o.funcs) }

// NbDof returns the number of dofs
func (o *GlobalFunction) NbDof() int { return len(o.funcs) * o.qdim }

// NbLocal returns the number of functions
func (o *GlobalFunction) NbLocal(cid int) int { return len(o.funcs) }

// CellBasicDofs returns all basic dofs
func (o *GlobalFunction) CellBasicDofs(cid int) []int { return o.dofs }

// CellDofs returns all dofs
func (o *GlobalFunction) CellDofs(cid int) []int { return ExpandDofs(o.dofs, o.qdim) }

// DofPoint returns nil: global functions are not located
func (o *GlobalFunction) DofPoint(b int) []float64 { return nil }

// Version returns the version number
func (o *GlobalFunction) Version() int { return o.version }

// Eval evaluates all functions at the point set in ctx
func (o *GlobalFunction) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) error {
	for i, f := range o.funcs {
		val[i] = f.Val(cid, ctx)
		if grad != nil {
			f.Grad(cid, ctx, grad[i])
		}
	}
	return nil
}

// Sum concatenates the dofs of several spaces on the same mesh
type Sum struct {
	base
	mfs      []MeshFem
	offsets  []int // [len(mfs)+1] basic dof offsets
	versions []int // versions of mfs when offsets were computed
}

// NewSum returns a new sum of spaces
func NewSum(qdim int, mfs ...MeshFem) (o *Sum, err error) {
	o = new(Sum)
	o.qdim = qdim
	err = o.SetMeshFems(mfs...)
	return
}

// SetMeshFems replaces the spaces
func (o *Sum) SetMeshFems(mfs ...MeshFem) error {
	if len(mfs) < 1 {
		return chk.Err("sum of spaces requires at least one space")
	}
	for _, mf := range mfs[1:] {
		if mf.Mesh() != mfs[0].Mesh() {
			return chk.Err("spaces in a sum must share the same mesh")
		}
	}
	o.mesh = mfs[0].Mesh()
	o.mfs = mfs
	o.versions = nil
	o.refresh()
	return nil
}

func (o *Sum) refresh() {
	changed := len(o.versions) != len(o.mfs)
	if !changed {
		for i, mf := range o.mfs {
			if mf.Version() != o.versions[i] {
				changed = true
				break
			}
		}
	}
	if !changed {
		return
	}
	o.offsets = make([]int, len(o.mfs)+1)
	o.versions = make([]int, len(o.mfs))
	for i, mf := range o.mfs {
		o.offsets[i+1] = o.offsets[i] + mf.NbBasicDof()
		o.versions[i] = mf.Version()
	}
	o.version++
}

// NbBasicDof returns the number of basic dofs
func (o *Sum) NbBasicDof() int {
	o.refresh()
	return o.offsets[len(o.mfs)]
}

// NbDof returns the number of dofs
func (o *Sum) NbDof() int { return o.NbBasicDof() * o.qdim }

// NbLocal returns the number of local functions
func (o *Sum) NbLocal(cid int) (n int) {
	for _, mf := range o.mfs {
		n += mf.NbLocal(cid)
	}
	return
}

// CellBasicDofs returns the basic dofs of cell
func (o *Sum) CellBasicDofs(cid int) (dofs []int) {
	o.refresh()
	for i, mf := range o.mfs {
		for _, b := range mf.CellBasicDofs(cid) {
			dofs = append(dofs, b+o.offsets[i])
		}
	}
	return
}

// CellDofs returns the dofs of cell
func (o *Sum) CellDofs(cid int) []int { return ExpandDofs(o.CellBasicDofs(cid), o.qdim) }

// DofPoint returns the coordinates of a basic dof
func (o *Sum) DofPoint(b int) []float64 {
	o.refresh()
	for i, mf := range o.mfs {
		if b < o.offsets[i+1] {
			return mf.DofPoint(b - o.offsets[i])
		}
	}
	return nil
}

// Version returns the version number
func (o *Sum) Version() int {
	o.refresh()
	return o.version
}

// Eval evaluates the functions of all spaces
func (o *Sum) Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) (err error) {
	start := 0
	for _, mf := range o.mfs {
		n := mf.NbLocal(cid)
		var g [][]float64
		if grad != nil {
			g = grad[start : start+n]
		}
		if err = mf.Eval(cid, ctx, val[start:start+n], g); err != nil {
			return
		}
		start += n
	}
	return
}
