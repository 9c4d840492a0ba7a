// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/shp"
)

// InterpolateFunc computes the dof values of a Lagrange space from a function returning qdim values
func InterpolateFunc(mf *Classical, f func(x []float64) []float64) (U []float64) {
	q := mf.Qdim()
	U = make([]float64, mf.NbDof())
	for b := 0; b < mf.NbBasicDof(); b++ {
		v := f(mf.DofPoint(b))
		for k := 0; k < q; k++ {
			U[b*q+k] = v[k]
		}
	}
	return
}

// Interpolate evaluates the field (src,U) at the nodes of the Lagrange space dst.
//
//	Output: V[dst.NbBasicDof()*src.Qdim()]
func Interpolate(src MeshFem, U []float64, dst *Classical) (V []float64, err error) {
	if src.Mesh() != dst.Mesh() {
		return nil, chk.Err("interpolation requires spaces on the same mesh")
	}
	q := src.Qdim()
	V = make([]float64, dst.NbBasicDof()*q)
	done := make([]bool, dst.NbBasicDof())
	ev := NewEvaluator(src)
	res := make([]float64, q)
	for cid := range dst.Mesh().Cells {
		ctx := NewCellCtx(dst.Mesh(), cid)
		for a, b := range dst.CellBasicDofs(cid) {
			if done[b] {
				continue
			}
			ctx.SetXref(dst.NodeRef(cid, a))
			if err = ev.At(cid, ctx, false); err != nil {
				return
			}
			ev.Field(U, res, nil)
			copy(V[b*q:], res)
			done[b] = true
		}
	}
	return
}

// EvalAtPoint evaluates the field (mf,U) at the real point x
func EvalAtPoint(mf MeshFem, U []float64, x []float64) (res []float64, err error) {
	m := mf.Mesh()
	const tol = 1e-10
	for _, c := range m.Cells {
		X := m.Coords(c.Id)
		inbox := true
		for i := 0; i < m.Ndim; i++ {
			lo, hi := X[i][0], X[i][0]
			for _, v := range X[i] {
				lo, hi = min(lo, v), max(hi, v)
			}
			if x[i] < lo-tol || x[i] > hi+tol {
				inbox = false
				break
			}
		}
		if !inbox {
			continue
		}
		r, e := shp.InvMap(c.Gt, X, x)
		if e != nil || !shp.IsInside(c.Gt, r, tol) {
			continue
		}
		ctx := shp.NewGeoCtx(c.Gt, X)
		ctx.SetXref(r)
		res = make([]float64, mf.Qdim())
		err = EvalField(mf, U, c.Id, ctx, res, nil)
		return
	}
	return nil, chk.Err("cannot find cell containing point %v", x)
}
