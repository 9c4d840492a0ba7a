// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package asm implements elementary integrals assembled into global matrices and vectors
package asm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/shp"
	"github.com/james-bowman/sparse"
)

// Coef is a coefficient evaluated at integration points
type Coef interface {
	Size() int                                       // number of values
	At(cid int, ctx *shp.GeoCtx, dst []float64) error // dst[Size] values at the point set in ctx
}

// Const is a constant coefficient
type Const []float64

// Size returns the number of values
func (o Const) Size() int { return len(o) }

// At copies the values
func (o Const) At(cid int, ctx *shp.GeoCtx, dst []float64) error {
	copy(dst, o)
	return nil
}

// FemCoef is a coefficient given by a finite element field (data on a mesh_fem)
type FemCoef struct {
	Mf mfem.MeshFem // space
	U  []float64    // dof values
	ev *mfem.Evaluator
}

// NewFemCoef returns a new coefficient
func NewFemCoef(mf mfem.MeshFem, U []float64) (o *FemCoef, err error) {
	if len(U) != mf.NbDof() {
		return nil, chk.Err("coefficient has %d values but space has %d dofs", len(U), mf.NbDof())
	}
	return &FemCoef{Mf: mf, U: U, ev: mfem.NewEvaluator(mf)}, nil
}

// Size returns the number of components of the field
func (o *FemCoef) Size() int { return o.Mf.Qdim() }

// At evaluates the field
func (o *FemCoef) At(cid int, ctx *shp.GeoCtx, dst []float64) (err error) {
	if err = o.ev.At(cid, ctx, false); err != nil {
		return
	}
	o.ev.Field(o.U, dst, nil)
	return
}

// coefValue evaluates a coefficient; nil means one
func coefValue(c Coef, cid int, ctx *shp.GeoCtx, dst []float64) ([]float64, error) {
	if c == nil {
		if len(dst) < 1 {
			dst = make([]float64, 1)
		}
		dst[0] = 1
		return dst[:1], nil
	}
	if len(dst) < c.Size() {
		dst = make([]float64, c.Size())
	}
	dst = dst[:c.Size()]
	return dst, c.At(cid, ctx, dst)
}

// coefSize returns the size of a coefficient; nil means one
func coefSize(c Coef) int {
	if c == nil {
		return 1
	}
	return c.Size()
}

// AddTo adds v to K[i,j]
func AddTo(K *sparse.DOK, i, j int, v float64) {
	if v != 0 {
		K.Set(i, j, K.At(i, j)+v)
	}
}

// IpFunc is called at each integration point with the weight times the measure
type IpFunc func(cid int, ctx *shp.GeoCtx, w float64) error

// cellsOf returns the cells of a region (nil => all cells)
func cellsOf(m *inp.Mesh, r *inp.Region) (cids []int) {
	if r == nil {
		for cid := range m.Cells {
			cids = append(cids, cid)
		}
		return
	}
	for _, cf := range r.Items() {
		if cf.Fid < 0 {
			cids = append(cids, cf.Cid)
		}
	}
	return
}

// facesOf returns the faces of a region (nil => all outer faces)
func facesOf(m *inp.Mesh, r *inp.Region) (faces []inp.CellFace) {
	if r == nil {
		r = m.OuterFaces()
	}
	for _, cf := range r.Items() {
		if cf.Fid >= 0 {
			faces = append(faces, cf)
		}
	}
	return
}

// LoopCells runs fn at all integration points of the cells of a region
func LoopCells(im mim.Integrator, r *inp.Region, fn IpFunc) (err error) {
	m := im.Mesh()
	for _, cid := range cellsOf(m, r.Partition(0, 1)) {
		ips := im.Ipoints(cid)
		if len(ips) == 0 {
			continue
		}
		ctx := mfem.NewCellCtx(m, cid)
		for _, p := range ips {
			ctx.SetXref(p.R)
			J, e := ctx.J()
			if e != nil {
				return chk.Err("cell %d:\n%v", cid, e)
			}
			if err = fn(cid, ctx, p.W*J); err != nil {
				return
			}
		}
	}
	return
}

// LoopFaces runs fn at all integration points of the faces of a region; fn also receives the
// outward unit normal
func LoopFaces(im mim.Integrator, r *inp.Region, fn func(cid int, ctx *shp.GeoCtx, w float64, n []float64) error) (err error) {
	m := im.Mesh()
	for _, cf := range facesOf(m, r.Partition(0, 1)) {
		ips, e := im.FaceIpoints(cf.Cid, cf.Fid)
		if e != nil {
			return e
		}
		n := m.NormalOfFace(cf.Cid, cf.Fid)
		ctx := mfem.NewCellCtx(m, cf.Cid)
		for _, p := range ips {
			ctx.SetXref(p.R)
			if err = fn(cf.Cid, ctx, p.W, n); err != nil {
				return
			}
		}
	}
	return
}

// checkMesh returns an error if the spaces are not defined on the integration mesh
func checkMesh(im mim.Integrator, mfs ...mfem.MeshFem) error {
	for _, mf := range mfs {
		if mf.Mesh() != im.Mesh() {
			return chk.Err("space and integration method must share the same mesh")
		}
	}
	return nil
}
