// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/shp"
)

// Errors holds the distances between the computed and the reference displacements
type Errors struct {
	L2   float64 // ‖u - uₑ‖ in L2
	H1   float64 // ‖u - uₑ‖ in H1
	Linf float64 // max |u - uₑ| at the nodes of the underlying Lagrange space
}

// ComputeErrors computes the errors with respect to the crack-tip field
func (o *CrackProblem) ComputeErrors() (e Errors, err error) {
	if o.U == nil {
		return e, chk.Err("crack problem must be solved first")
	}
	N := o.Mesh.Ndim
	gX, gY := make([]float64, N), make([]float64, N)
	var fail error
	f := func(cid int, ctx *shp.GeoCtx, res []float64) {
		X := o.Ls.Eval(1, cid, ctx)
		Y := o.Ls.Eval(0, cid, ctx)
		if ee := o.Exact.Displacement(res, X, Y); ee != nil && fail == nil {
			fail = ee
		}
	}
	g := func(cid int, ctx *shp.GeoCtx, grad [][]float64) {
		X := o.Ls.Grad(1, cid, ctx, gX)
		Y := o.Ls.Grad(0, cid, ctx, gY)

		// G[c] = {∂u_c/∂X, ∂u_c/∂Y}
		G := [][]float64{{0, 0}, {0, 0}}
		if ee := o.Exact.Gradient(G, X, Y); ee != nil && fail == nil {
			fail = ee
		}
		for c := 0; c < 2; c++ {
			for i := 0; i < N; i++ {
				grad[c][i] = G[c][0]*gX[i] + G[c][1]*gY[i]
			}
		}
	}
	if e.L2, err = asm.L2DistFunc(o.Im, o.MfU, o.U, f, nil); err != nil {
		return
	}
	if e.H1, err = asm.H1Dist(o.Im, o.MfU, o.U, f, g, nil); err != nil {
		return
	}
	if fail != nil {
		return e, fail
	}

	// nodal error
	V, err := mfem.Interpolate(o.MfU, o.U, o.PreU)
	if err != nil {
		return
	}
	ue := make([]float64, 2)
	for b := 0; b < o.PreU.NbBasicDof(); b++ {
		x := o.PreU.DofPoint(b)
		if err = o.Exact.Displacement(ue, x[0]-0.5, x[1]); err != nil {
			return
		}
		for c := 0; c < 2; c++ {
			e.Linf = math.Max(e.Linf, math.Abs(V[b*2+c]-ue[c]))
		}
	}
	if o.Verbose {
		io.Pf("L2 error     = %.16g\n", e.L2)
		io.Pf("H1 error     = %.16g\n", e.H1)
		io.Pf("Linfty error = %.16g\n", e.Linf)
	}
	return
}

// CrackOpening computes the jump of the normal displacement across the crack faces at npts
// stations along the crack, computed and exact
func (o *CrackProblem) CrackOpening(npts int) (X, jump, exact []float64, err error) {
	if o.U == nil {
		return nil, nil, nil, chk.Err("crack problem must be solved first")
	}
	if npts < 2 {
		return nil, nil, nil, chk.Err("crack opening requires at least 2 stations; got %d", npts)
	}
	const ε = 1e-7
	X = utl.LinSpace(-0.5, -0.5/float64(npts), npts)
	jump, exact = make([]float64, npts), make([]float64, npts)
	ue := make([]float64, 2)
	for i, x := range X {
		var up, dn []float64
		if up, err = mfem.EvalAtPoint(o.MfU, o.U, []float64{x + 0.5, ε}); err != nil {
			return
		}
		if dn, err = mfem.EvalAtPoint(o.MfU, o.U, []float64{x + 0.5, -ε}); err != nil {
			return
		}
		jump[i] = up[1] - dn[1]
		if err = o.Exact.Displacement(ue, x, ε); err != nil {
			return
		}
		exact[i] = ue[1]
		if err = o.Exact.Displacement(ue, x, -ε); err != nil {
			return
		}
		exact[i] -= ue[1]
	}
	return
}
