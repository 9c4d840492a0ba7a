// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lset implements level sets, the cutting of cells crossed by them and the
// finite element spaces enriched along cracks
package lset

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/shp"
)

// LevelSet holds a primary and, optionally, a secondary scalar field on a Lagrange space.
// A crack is the set {primary == 0, secondary ≤ 0}
type LevelSet struct {
	Mf        *mfem.Classical // scalar Lagrange space of degree 1 or 2
	Secondary bool            // has secondary level set
	values    [2][]float64    // values at dofs of Mf
	version   int
	ev        *mfem.Evaluator
}

// NewLevelSet returns a new level set with zero values
func NewLevelSet(m *inp.Mesh, degree int, withSecondary bool) (o *LevelSet, err error) {
	if degree != 1 && degree != 2 {
		return nil, chk.Err("level sets must have degree 1 or 2; got %d", degree)
	}
	o = &LevelSet{Secondary: withSecondary}
	if o.Mf, err = mfem.NewClassical(m, degree, 1); err != nil {
		return nil, err
	}
	o.ev = mfem.NewEvaluator(o.Mf)
	o.Reinit()
	return
}

// Reinit adapts the space to the mesh and resets all values to zero
func (o *LevelSet) Reinit() (err error) {
	if err = o.Mf.Adapt(); err != nil {
		return
	}
	n := o.Mf.NbDof()
	o.values[0] = make([]float64, n)
	if o.Secondary {
		o.values[1] = make([]float64, n)
	}
	o.version++
	return
}

// Values returns the values of the primary (i == 0) or secondary (i == 1) field
func (o *LevelSet) Values(i int) []float64 {
	if i == 1 && !o.Secondary {
		chk.Panic("level set has no secondary field")
	}
	return o.values[i]
}

// SetValues sets the values at dofs from functions of position; f1 is ignored without secondary
func (o *LevelSet) SetValues(f0, f1 func(x []float64) float64) {
	for d := 0; d < o.Mf.NbDof(); d++ {
		x := o.Mf.DofPoint(d)
		o.values[0][d] = f0(x)
		if o.Secondary && f1 != nil {
			o.values[1][d] = f1(x)
		}
	}
	o.Touch()
}

// Touch signals that values have been modified
func (o *LevelSet) Touch() { o.version++ }

// Version returns the version number
func (o *LevelSet) Version() int { return o.version }

// Mesh returns the mesh
func (o *LevelSet) Mesh() *inp.Mesh { return o.Mf.Mesh() }

// Eval returns the value of field i at the point set in ctx (of cell cid)
func (o *LevelSet) Eval(i, cid int, ctx *shp.GeoCtx) float64 {
	if err := o.ev.At(cid, ctx, false); err != nil {
		chk.Panic("cannot evaluate level set:\n%v", err)
	}
	res := []float64{0}
	o.ev.Field(o.Values(i), res, nil)
	return res[0]
}

// Grad computes the gradient g of field i at the point set in ctx and returns its value
func (o *LevelSet) Grad(i, cid int, ctx *shp.GeoCtx, g []float64) float64 {
	if err := o.ev.At(cid, ctx, true); err != nil {
		chk.Panic("cannot evaluate level set gradient:\n%v", err)
	}
	res := []float64{0}
	o.ev.Field(o.Values(i), res, [][]float64{g})
	return res[0]
}

// XYFunc is a function of the level-set coordinates X = secondary, Y = primary
type XYFunc interface {
	Val(X, Y float64) float64
	Grad(X, Y float64) (dX, dY float64)
}

// OnLevelSet is a global function f(X,Y) evaluated through a level set
type OnLevelSet struct {
	Ls *LevelSet
	F  XYFunc
}

// Val returns the function value at the point set in ctx
func (o OnLevelSet) Val(cid int, ctx *shp.GeoCtx) float64 {
	return o.F.Val(o.Ls.Eval(1, cid, ctx), o.Ls.Eval(0, cid, ctx))
}

// Grad computes the real gradient: ∇f = ∂f/∂X ∇X + ∂f/∂Y ∇Y
func (o OnLevelSet) Grad(cid int, ctx *shp.GeoCtx, g []float64) {
	n := len(g)
	gx, gy := make([]float64, n), make([]float64, n)
	X := o.Ls.Grad(1, cid, ctx, gx)
	Y := o.Ls.Grad(0, cid, ctx, gy)
	dX, dY := o.F.Grad(X, Y)
	for i := 0; i < n; i++ {
		g[i] = dX*gx[i] + dY*gy[i]
	}
}
