// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mim"
	"github.com/james-bowman/sparse"
)

// Flag selects what is assembled
type Flag int

const (
	BuildMatrix Flag = 1 << iota // tangent matrix
	BuildRhs                     // right-hand side
	BuildAll = BuildMatrix | BuildRhs
)

// Flags holds the properties of a brick
type Flags struct {
	Linear        bool // terms do not depend on the values of the variables
	Symmetric     bool // contributes a symmetric matrix
	Coercive      bool // contributes a coercive matrix
	TimeDependent bool // depends on previous versions of the variables
}

// Term describes one contribution of a brick. The matrix has Size(Var1) rows and Size(Var2)
// columns; the vector has Size(Var1) values
type Term struct {
	Var1      string // row variable
	Var2      string // column variable; "" => vector only
	Symmetric bool   // for Var1 != Var2, the transposed matrix is also added to block (Var2, Var1)
}

// IsMatrix tells whether the term has a matrix
func (o Term) IsMatrix() bool { return o.Var2 != "" }

// Brick computes the terms of a weak form.
//
//	For linear bricks, the terms are the matrices K and vectors F of K·x = F.
//	For nonlinear bricks, the matrices are tangents and the vectors are minus the residuals.
//
// Terms are written into buffers owned by the model; they are zeroed before each call
type Brick interface {
	Name() string
	Flags() Flags
	AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) error
}

// Shifter is implemented by bricks that store a state before the variables are shifted
type Shifter interface {
	NextIter(md *Model, ib int) error
}

// entry holds a brick registered in a model
type entry struct {
	brick    Brick
	vars     []string
	data     []string
	terms    []Term
	ims      []mim.Integrator
	region   *inp.Region
	mats     []*sparse.DOK
	vecs     [][]float64
	computed bool
	deps     []int // dependency versions at last computation
	calls    int   // number of computations
}

// AddBrick registers a brick and returns its index
func (o *Model) AddBrick(b Brick, vars, data []string, terms []Term, ims []mim.Integrator, region *inp.Region) (ib int, err error) {
	e := &entry{brick: b, vars: vars, data: data, terms: terms, ims: ims, region: region}
	if err = o.checkEntry(e); err != nil {
		return -1, err
	}
	o.bricks = append(o.bricks, e)
	o.invalidateFilters(e)
	return len(o.bricks) - 1, nil
}

// invalidateFilters forces multipliers of a brick to be filtered again
func (o *Model) invalidateFilters(e *entry) {
	for _, name := range e.vars {
		if o.vars[name].IsMultiplier() {
			o.sizesOk = false
		}
	}
}

// checkEntry checks that the variables and data of a brick exist and are used consistently
func (o *Model) checkEntry(e *entry) error {
	for _, name := range e.vars {
		v, ok := o.vars[name]
		if !ok {
			return chk.Err("brick %q: variable %q does not exist", e.brick.Name(), name)
		}
		if !v.IsVariable {
			return chk.Err("brick %q: %q is a data; a variable is required", e.brick.Name(), name)
		}
	}
	for _, name := range e.data {
		if _, ok := o.vars[name]; !ok {
			return chk.Err("brick %q: data %q does not exist", e.brick.Name(), name)
		}
	}
	for _, t := range e.terms {
		if !contains(e.vars, t.Var1) || (t.IsMatrix() && !contains(e.vars, t.Var2)) {
			return chk.Err("brick %q: term (%q, %q) refers to a variable not declared by the brick", e.brick.Name(), t.Var1, t.Var2)
		}
	}
	for _, im := range e.ims {
		for _, name := range append(append([]string{}, e.vars...), e.data...) {
			if mf := o.vars[name].Mf; mf != nil && mf.Mesh() != im.Mesh() {
				return chk.Err("brick %q: %q and the integration method are defined on different meshes", e.brick.Name(), name)
			}
		}
	}
	return nil
}

// NbBricks returns the number of bricks
func (o *Model) NbBricks() int { return len(o.bricks) }

// Brick returns brick ib
func (o *Model) Brick(ib int) Brick { return o.bricks[ib].brick }

// BrickCalls returns the number of times the terms of brick ib have been computed
func (o *Model) BrickCalls(ib int) int { return o.bricks[ib].calls }

// ChangeTerms replaces the terms of a brick
func (o *Model) ChangeTerms(ib int, terms []Term) error {
	return o.change(ib, func(e *entry) { e.terms = terms })
}

// ChangeVariables replaces the variables of a brick
func (o *Model) ChangeVariables(ib int, vars []string) error {
	return o.change(ib, func(e *entry) { e.vars = vars })
}

// ChangeData replaces the data of a brick
func (o *Model) ChangeData(ib int, data []string) error {
	return o.change(ib, func(e *entry) { e.data = data })
}

// change modifies a brick, restoring it if the result is invalid
func (o *Model) change(ib int, fn func(e *entry)) error {
	if ib < 0 || ib >= len(o.bricks) {
		return chk.Err("brick %d does not exist", ib)
	}
	e := o.bricks[ib]
	backup := *e
	o.invalidateFilters(e)
	fn(e)
	if err := o.checkEntry(e); err != nil {
		*e = backup
		return err
	}
	o.invalidateFilters(e)
	e.computed = false
	return nil
}

// TouchBrick marks brick ib as to be recomputed
func (o *Model) TouchBrick(ib int) {
	o.bricks[ib].computed = false
}

// properties ///////////////////////////////////////////////////////////////////////////////////////

// IsLinear tells whether all bricks are linear
func (o *Model) IsLinear() bool {
	for _, e := range o.bricks {
		if !e.brick.Flags().Linear {
			return false
		}
	}
	return true
}

// IsSymmetric tells whether all bricks are symmetric
func (o *Model) IsSymmetric() bool {
	for _, e := range o.bricks {
		if !e.brick.Flags().Symmetric {
			return false
		}
	}
	return true
}

// IsCoercive tells whether all bricks are coercive
func (o *Model) IsCoercive() bool {
	for _, e := range o.bricks {
		if !e.brick.Flags().Coercive {
			return false
		}
	}
	return true
}

// assembly /////////////////////////////////////////////////////////////////////////////////////////

// Assembly assembles the tangent matrix and/or the right-hand side (minus the residual)
func (o *Model) Assembly(flag Flag) (err error) {
	if err = o.ActualizeSizes(); err != nil {
		return
	}
	n := o.nbdof
	if flag&BuildMatrix != 0 {
		o.K = sparse.NewDOK(n, n)
	}
	if flag&BuildRhs != 0 {
		o.rhs = make([]float64, n)
	}
	for ib, e := range o.bricks {
		if err = o.update(ib, e, flag); err != nil {
			return
		}
		linear := e.brick.Flags().Linear
		for k, t := range e.terms {
			v1 := o.vars[t.Var1]
			if flag&BuildRhs != 0 {
				for i, a := range e.vecs[k] {
					o.rhs[v1.i0+i] += a
				}
			}
			if !t.IsMatrix() {
				continue
			}
			v2 := o.vars[t.Var2]
			cross := t.Symmetric && t.Var1 != t.Var2
			if flag&BuildMatrix != 0 {
				e.mats[k].DoNonZero(func(i, j int, a float64) {
					asm.AddTo(o.K, v1.i0+i, v2.i0+j, a)
					if cross {
						asm.AddTo(o.K, v2.i0+j, v1.i0+i, a)
					}
				})
			}
			if flag&BuildRhs != 0 && linear {
				U1, U2 := v1.Values[0], v2.Values[0]
				e.mats[k].DoNonZero(func(i, j int, a float64) {
					o.rhs[v1.i0+i] -= a * U2[j]
					if cross {
						o.rhs[v2.i0+j] -= a * U1[i]
					}
				})
			}
		}
	}
	if flag&BuildRhs != 0 && hasNaN(o.rhs) {
		return chk.Err("NaN found in the assembled right-hand side")
	}
	return
}

// Tangent returns the last assembled tangent matrix
func (o *Model) Tangent() *sparse.DOK { return o.K }

// Rhs returns the last assembled right-hand side
func (o *Model) Rhs() []float64 { return o.rhs }

// update recomputes the terms of a brick if needed
func (o *Model) update(ib int, e *entry, flag Flag) (err error) {
	flags := e.brick.Flags()
	if flags.Linear {
		deps := o.dependencies(e)
		if e.computed && equalInts(deps, e.deps) {
			return
		}
		if e.mats, e.vecs, err = o.computeTerms(ib, e, BuildAll); err != nil {
			return
		}
		e.deps = deps
		e.computed = true
		return
	}
	e.mats, e.vecs, err = o.computeTerms(ib, e, flag)
	return
}

// computeTerms allocates the term buffers and calls the brick
func (o *Model) computeTerms(ib int, e *entry, flag Flag) (mats []*sparse.DOK, vecs [][]float64, err error) {
	mats = make([]*sparse.DOK, len(e.terms))
	vecs = make([][]float64, len(e.terms))
	for k, t := range e.terms {
		n1 := o.vars[t.Var1].Size()
		vecs[k] = make([]float64, n1)
		if t.IsMatrix() {
			mats[k] = sparse.NewDOK(n1, o.vars[t.Var2].Size())
		}
	}
	e.calls++
	if o.Verbose {
		io.Pf("computing terms of brick %d (%s)\n", ib, e.brick.Name())
	}
	if err = e.brick.AsmTerms(o, ib, e.vars, e.data, e.ims, e.region, mats, vecs, flag); err != nil {
		return nil, nil, chk.Err("brick %q failed:\n%v", e.brick.Name(), err)
	}
	for k := range vecs {
		if hasNaN(vecs[k]) {
			return nil, nil, chk.Err("brick %q produced NaN values", e.brick.Name())
		}
	}
	return
}

// dependencies returns the versions of everything a brick depends on
func (o *Model) dependencies(e *entry) (deps []int) {
	td := e.brick.Flags().TimeDependent
	for _, name := range e.vars {
		deps = append(deps, o.vars[name].depVersion(td))
	}
	for _, name := range e.data {
		deps = append(deps, o.vars[name].depVersion(td))
	}
	for _, im := range e.ims {
		deps = append(deps, im.Version())
	}
	return
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

func contains(list []string, s string) bool {
	for _, a := range list {
		if a == s {
			return true
		}
	}
	return false
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
