// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/shp"
)

// L2Norm returns sqrt(∫ |u|²)
func L2Norm(im mim.Integrator, mf mfem.MeshFem, U []float64, r *inp.Region) (float64, error) {
	return L2DistFunc(im, mf, U, nil, r)
}

// H1SemiNorm returns sqrt(∫ |∇u|²)
func H1SemiNorm(im mim.Integrator, mf mfem.MeshFem, U []float64, r *inp.Region) (float64, error) {
	return H1SemiDistFunc(im, mf, U, nil, r)
}

// L2Dist returns sqrt(∫ |u1 - u2|²) for fields on two spaces of the same mesh
func L2Dist(im mim.Integrator, mf1 mfem.MeshFem, U1 []float64, mf2 mfem.MeshFem, U2 []float64, r *inp.Region) (float64, error) {
	if mf1.Qdim() != mf2.Qdim() {
		return 0, chk.Err("cannot compute distance between fields with %d and %d components", mf1.Qdim(), mf2.Qdim())
	}
	if err := checkMesh(im, mf2); err != nil {
		return 0, err
	}
	ev := mfem.NewEvaluator(mf2)
	var e2 error
	d, err := L2DistFunc(im, mf1, U1, func(cid int, ctx *shp.GeoCtx, res []float64) {
		if e := ev.At(cid, ctx, false); e != nil {
			e2 = e
			return
		}
		ev.Field(U2, res, nil)
	}, r)
	if err == nil {
		err = e2
	}
	return d, err
}

// ExactFunc computes the values res[qdim] of a reference field at the point set in ctx
type ExactFunc func(cid int, ctx *shp.GeoCtx, res []float64)

// ExactGrad computes the gradient grad[qdim][ndim] of a reference field at the point set in ctx
type ExactGrad func(cid int, ctx *shp.GeoCtx, grad [][]float64)

// L2DistFunc returns sqrt(∫ |u - f|²); f == nil means zero
func L2DistFunc(im mim.Integrator, mf mfem.MeshFem, U []float64, f ExactFunc, r *inp.Region) (float64, error) {
	if err := checkMesh(im, mf); err != nil {
		return 0, err
	}
	if len(U) != mf.NbDof() {
		return 0, chk.Err("field has %d values but space has %d dofs", len(U), mf.NbDof())
	}
	q := mf.Qdim()
	ev := mfem.NewEvaluator(mf)
	uh, ue := make([]float64, q), make([]float64, q)
	sum := 0.0
	err := LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if err = ev.At(cid, ctx, false); err != nil {
			return
		}
		ev.Field(U, uh, nil)
		if f != nil {
			f(cid, ctx, ue)
		}
		for k := 0; k < q; k++ {
			sum += w * (uh[k] - ue[k]) * (uh[k] - ue[k])
		}
		return
	})
	return math.Sqrt(sum), err
}

// H1SemiDistFunc returns sqrt(∫ |∇u - g|²); g == nil means zero
func H1SemiDistFunc(im mim.Integrator, mf mfem.MeshFem, U []float64, g ExactGrad, r *inp.Region) (float64, error) {
	if err := checkMesh(im, mf); err != nil {
		return 0, err
	}
	if len(U) != mf.NbDof() {
		return 0, chk.Err("field has %d values but space has %d dofs", len(U), mf.NbDof())
	}
	N, q := im.Mesh().Ndim, mf.Qdim()
	ev := mfem.NewEvaluator(mf)
	uh := make([]float64, q)
	gh, ge := utl.Alloc(q, N), utl.Alloc(q, N)
	sum := 0.0
	err := LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if err = ev.At(cid, ctx, true); err != nil {
			return
		}
		ev.Field(U, uh, gh)
		if g != nil {
			g(cid, ctx, ge)
		}
		for k := 0; k < q; k++ {
			for i := 0; i < N; i++ {
				sum += w * (gh[k][i] - ge[k][i]) * (gh[k][i] - ge[k][i])
			}
		}
		return
	})
	return math.Sqrt(sum), err
}

// H1Dist returns sqrt(‖u - f‖²_L2 + |u - f|²_H1)
func H1Dist(im mim.Integrator, mf mfem.MeshFem, U []float64, f ExactFunc, g ExactGrad, r *inp.Region) (float64, error) {
	l2, err := L2DistFunc(im, mf, U, f, r)
	if err != nil {
		return 0, err
	}
	h1, err := H1SemiDistFunc(im, mf, U, g, r)
	return math.Sqrt(l2*l2 + h1*h1), err
}
