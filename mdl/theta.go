// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mim"
	"github.com/james-bowman/sparse"
)

// ThetaDispatcher applies the θ-method to the terms of a brick:
//
//	θ (F(u₁) - K u₁) + (1-θ) (F(u₀) - K u₀)
//
// The second part is computed when the variables are shifted. Symmetric cross terms of the inner
// brick are split into two non-symmetric terms
type ThetaDispatcher struct {
	Inner Brick
	θ     float64
	terms []Term      // terms of the inner brick
	prev  [][]float64 // [nterms] F - K·u at last shift
}

func (o *ThetaDispatcher) Name() string { return "Theta-method dispatcher of " + o.Inner.Name() }
func (o *ThetaDispatcher) Flags() Flags {
	f := o.Inner.Flags()
	f.TimeDependent = true
	return f
}

func (o *ThetaDispatcher) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	imats, ivecs, err := o.inner(md, ib, vars, data, ims, region, flag)
	if err != nil {
		return
	}
	k := 0
	for j, t := range o.terms {
		if imats[j] != nil {
			imats[j].DoNonZero(func(r, c int, a float64) {
				mats[k].Set(r, c, o.θ*a)
				if t.Symmetric && t.Var1 != t.Var2 {
					mats[k+1].Set(c, r, o.θ*a)
				}
			})
		}
		for i, a := range ivecs[j] {
			vecs[k][i] = o.θ * a
			if o.prev != nil {
				vecs[k][i] += (1 - o.θ) * o.prev[k][i]
			}
		}
		if o.prev != nil && t.Symmetric && t.Var1 != t.Var2 {
			for i, a := range o.prev[k+1] {
				vecs[k+1][i] += (1 - o.θ) * a
			}
		}
		k += ntermsOf(t)
	}
	return
}

// NextIter stores F - K·u (minus the residual for nonlinear bricks) at the current values
func (o *ThetaDispatcher) NextIter(md *Model, ib int) (err error) {
	e := md.bricks[ib]
	imats, ivecs, err := o.inner(md, ib, e.vars, e.data, e.ims, e.region, BuildAll)
	if err != nil {
		return
	}
	linear := o.Inner.Flags().Linear
	o.prev = make([][]float64, len(e.terms))
	k := 0
	for j, t := range o.terms {
		U1 := md.vars[t.Var1].Values[0]
		o.prev[k] = append([]float64{}, ivecs[j]...)
		cross := t.Symmetric && t.Var1 != t.Var2
		if cross {
			o.prev[k+1] = make([]float64, len(md.vars[t.Var2].Values[0]))
		}
		if linear && imats[j] != nil {
			U2 := md.vars[t.Var2].Values[0]
			imats[j].DoNonZero(func(r, c int, a float64) {
				o.prev[k][r] -= a * U2[c]
				if cross {
					o.prev[k+1][c] -= a * U1[r]
				}
			})
		}
		k += ntermsOf(t)
	}
	return
}

// inner computes the terms of the inner brick
func (o *ThetaDispatcher) inner(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, flag Flag) (mats []*sparse.DOK, vecs [][]float64, err error) {
	mats = make([]*sparse.DOK, len(o.terms))
	vecs = make([][]float64, len(o.terms))
	for k, t := range o.terms {
		n1 := md.vars[t.Var1].Size()
		vecs[k] = make([]float64, n1)
		if t.IsMatrix() {
			mats[k] = sparse.NewDOK(n1, md.vars[t.Var2].Size())
		}
	}
	err = o.Inner.AsmTerms(md, ib, vars, data, ims, region, mats, vecs, flag)
	return
}

// AddThetaMethodDispatcher wraps brick ib with the θ-method; 0 ≤ θ ≤ 1
func AddThetaMethodDispatcher(md *Model, ib int, θ float64) error {
	if ib < 0 || ib >= len(md.bricks) {
		return chk.Err("brick %d does not exist", ib)
	}
	if θ < 0 || θ > 1 {
		return chk.Err("θ must be in [0, 1]; θ = %g is invalid", θ)
	}
	e := md.bricks[ib]
	if _, ok := e.brick.(*ThetaDispatcher); ok {
		return chk.Err("brick %d already has a θ-method dispatcher", ib)
	}
	d := &ThetaDispatcher{Inner: e.brick, θ: θ, terms: e.terms}
	var terms []Term
	for _, t := range e.terms {
		if t.Symmetric && t.Var1 != t.Var2 {
			terms = append(terms, Term{Var1: t.Var1, Var2: t.Var2}, Term{Var1: t.Var2, Var2: t.Var1})
			continue
		}
		terms = append(terms, t)
	}
	e.brick, e.terms, e.computed = d, terms, false
	return nil
}

// ntermsOf returns the number of dispatched terms corresponding to t
func ntermsOf(t Term) int {
	if t.Symmetric && t.Var1 != t.Var2 {
		return 2
	}
	return 1
}
