// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mfem implements finite element spaces (mesh_fem) and their compositions
package mfem

import (
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/shp"
)

// MeshFem maps cells to local basis functions and local functions to global degrees of freedom.
//
//	Basic dofs: one per scalar basis function
//	Dofs:       Qdim per basic dof, interleaved: dof = basic * Qdim + component
type MeshFem interface {
	Mesh() *inp.Mesh                // the mesh
	Qdim() int                      // number of components of the field
	SetQdim(q int)                  // sets the number of components
	NbBasicDof() int                // number of basic (scalar) dofs
	NbDof() int                     // number of dofs
	NbLocal(cid int) int            // number of local basis functions on cell cid
	CellBasicDofs(cid int) []int    // [NbLocal] basic dofs of cell
	CellDofs(cid int) []int         // [NbLocal*Qdim] dofs of cell; -1 => removed
	DofPoint(basic int) []float64   // coordinates of basic dof; nil if not located
	Version() int                   // incremented whenever the numbering changes

	// Eval computes the local basis functions (and their real gradients if grad != nil) at
	// the point currently set in ctx
	//  val[NbLocal], grad[NbLocal][ndim]
	Eval(cid int, ctx *shp.GeoCtx, val []float64, grad [][]float64) error
}

// NewCellCtx returns a geometric context for cell cid
func NewCellCtx(m *inp.Mesh, cid int) *shp.GeoCtx {
	return shp.NewGeoCtx(m.GeoTrans(cid), m.Coords(cid))
}

// ExpandDofs returns the dofs corresponding to basic dofs for a field with q components
func ExpandDofs(basic []int, q int) (dofs []int) {
	dofs = make([]int, len(basic)*q)
	for a, b := range basic {
		for k := 0; k < q; k++ {
			dofs[a*q+k] = b*q + k
		}
	}
	return
}

// Evaluator holds scratch arrays to evaluate basis functions of one MeshFem cell by cell
type Evaluator struct {
	Mf   MeshFem     // space
	Val  []float64   // [nloc] values of basis functions
	Grad [][]float64 // [nloc][ndim] gradients of basis functions
	Dofs []int       // [nloc*qdim] dofs of current cell
}

// NewEvaluator returns a new evaluator
func NewEvaluator(mf MeshFem) *Evaluator {
	return &Evaluator{Mf: mf}
}

// At evaluates the basis functions of cell cid at the point set in ctx
func (o *Evaluator) At(cid int, ctx *shp.GeoCtx, withGrad bool) (err error) {
	n := o.Mf.NbLocal(cid)
	if len(o.Val) < n {
		o.Val = make([]float64, n)
		o.Grad = utl.Alloc(n, o.Mf.Mesh().Ndim)
	}
	o.Val = o.Val[:n]
	o.Dofs = o.Mf.CellDofs(cid)
	if withGrad {
		return o.Mf.Eval(cid, ctx, o.Val, o.Grad[:n])
	}
	return o.Mf.Eval(cid, ctx, o.Val, nil)
}

// EvalField computes the value res[qdim] (and gradient grad[qdim][ndim] if not nil) of the field U
// at the point set in ctx
func EvalField(mf MeshFem, U []float64, cid int, ctx *shp.GeoCtx, res []float64, grad [][]float64) (err error) {
	ev := NewEvaluator(mf)
	if err = ev.At(cid, ctx, grad != nil); err != nil {
		return
	}
	ev.Field(U, res, grad)
	return
}

// Field computes the value and gradient of the field U with the last evaluated basis functions
func (o *Evaluator) Field(U []float64, res []float64, grad [][]float64) {
	q := o.Mf.Qdim()
	for k := 0; k < q; k++ {
		res[k] = 0
		if grad != nil {
			for i := range grad[k] {
				grad[k][i] = 0
			}
		}
	}
	for a, φ := range o.Val {
		for k := 0; k < q; k++ {
			d := o.Dofs[a*q+k]
			if d < 0 {
				continue
			}
			res[k] += φ * U[d]
			if grad != nil {
				for i := range grad[k] {
					grad[k][i] += o.Grad[a][i] * U[d]
				}
			}
		}
	}
}

// base holds data common to all spaces
type base struct {
	mesh    *inp.Mesh
	qdim    int
	version int
}

func (o *base) Mesh() *inp.Mesh { return o.mesh }
func (o *base) Qdim() int       { return o.qdim }
func (o *base) SetQdim(q int) {
	if q != o.qdim {
		o.qdim = q
		o.version++
	}
}
