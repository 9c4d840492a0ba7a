// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/msolid"
	"github.com/cpmech/goxfem/shp"
	"github.com/james-bowman/sparse"
)

// NonlinearElasticityBrick implements the large deformation hyperelastic term
//
//	R(u)·v = ∫ (F Σ(E)) : ∇v    with F = I + ∇u and E = (FᵀF - I)/2
//
// The parameters of the law are given by a fixed size data
type NonlinearElasticityBrick struct {
	Law msolid.Law
}

func (o *NonlinearElasticityBrick) Name() string { return "Nonlinear elasticity" }
func (o *NonlinearElasticityBrick) Flags() Flags { return Flags{Symmetric: true, Coercive: true} }
func (o *NonlinearElasticityBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	prms, err := md.Var(data[0])
	if err != nil {
		return
	}
	if err = msolid.CheckParams(o.Law, prms.Values[0]); err != nil {
		return
	}
	N := md.vars[vars[0]].Mf.Mesh().Ndim
	if mf.Qdim() != N {
		return chk.Err("nonlinear elasticity requires a field with %d components; %q has %d", N, vars[0], mf.Qdim())
	}
	U := md.vars[vars[0]].Values[0]
	k := newKinematics(mf, N)
	Σ := make([]float64, N*N)
	D := make([]float64, N*N*N*N)
	A := make([]float64, N*N*N*N)
	return k.loop(ims[0], U, region, func(w float64) error {
		o.Law.Sigma(Σ, k.E, N, prms.Values[0])
		ev := k.ev
		if flag&BuildRhs != 0 {
			for a := range ev.Val {
				for c := 0; c < N; c++ {
					d := ev.Dofs[a*N+c]
					if d < 0 {
						continue
					}
					for j := 0; j < N; j++ {
						P := 0.0
						for i := 0; i < N; i++ {
							P += k.F[c*N+i] * Σ[i*N+j]
						}
						vecs[0][d] -= w * P * ev.Grad[a][j]
					}
				}
			}
		}
		if flag&BuildMatrix == 0 {
			return nil
		}
		o.Law.Grad(D, k.E, N, prms.Values[0])

		// A[c,j,l,n] = δ_cl Σ_jn + F_ci D_ijmn F_lm
		for c := 0; c < N; c++ {
			for j := 0; j < N; j++ {
				for l := 0; l < N; l++ {
					for n := 0; n < N; n++ {
						v := 0.0
						if c == l {
							v = Σ[j*N+n]
						}
						for i := 0; i < N; i++ {
							for m := 0; m < N; m++ {
								v += k.F[c*N+i] * D[((i*N+j)*N+m)*N+n] * k.F[l*N+m]
							}
						}
						A[((c*N+j)*N+l)*N+n] = v
					}
				}
			}
		}
		for a := range ev.Val {
			for b := range ev.Val {
				for c := 0; c < N; c++ {
					I := ev.Dofs[a*N+c]
					if I < 0 {
						continue
					}
					for l := 0; l < N; l++ {
						J := ev.Dofs[b*N+l]
						if J < 0 {
							continue
						}
						v := 0.0
						for j := 0; j < N; j++ {
							for n := 0; n < N; n++ {
								v += A[((c*N+j)*N+l)*N+n] * ev.Grad[a][j] * ev.Grad[b][n]
							}
						}
						asm.AddTo(mats[0], I, J, w*v)
					}
				}
			}
		}
		return nil
	})
}

// AddNonlinearElasticityBrick adds the hyperelastic term with the law named lawName and its
// parameters in the fixed size data prms
func AddNonlinearElasticityBrick(md *Model, im mim.Integrator, u, lawName, prms string, region *inp.Region) (int, error) {
	law, err := msolid.New(lawName)
	if err != nil {
		return -1, err
	}
	return md.AddBrick(&NonlinearElasticityBrick{Law: law}, []string{u}, []string{prms}, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// NonlinearIncompressibilityBrick implements the constraint det F = 1 with the pressure p
//
//	R_u·v = ∫ p J F⁻ᵀ : ∇v
//	R_p·q = ∫ (J - 1) q
type NonlinearIncompressibilityBrick struct{}

func (o *NonlinearIncompressibilityBrick) Name() string { return "Nonlinear incompressibility" }
func (o *NonlinearIncompressibilityBrick) Flags() Flags { return Flags{Symmetric: true} }
func (o *NonlinearIncompressibilityBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mfu, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	mfp, err := femOf(md, vars[1])
	if err != nil {
		return
	}
	N := mfu.Mesh().Ndim
	if mfu.Qdim() != N || mfp.Qdim() != 1 {
		return chk.Err("incompressibility requires a field with %d components and a scalar pressure", N)
	}
	U, P := md.vars[vars[0]].Values[0], md.vars[vars[1]].Values[0]
	k := newKinematics(mfu, N)
	evp := mfem.NewEvaluator(mfp)
	Fi := make([]float64, N*N)
	p := make([]float64, 1)
	var G [][]float64
	return k.loop(ims[0], U, region, func(w float64) error {
		if e := evp.At(k.cid, k.ctx, false); e != nil {
			return e
		}
		evp.Field(P, p, nil)
		copy(Fi, k.F)
		J := shp.Inverse(Fi, N)
		if J == 0 {
			return chk.Err("deformation gradient is singular in cell %d", k.cid)
		}
		ev := k.ev
		if len(G) < len(ev.Val) {
			G = utl.Alloc(len(ev.Val), N)
		}

		// G_a = F⁻ᵀ ∇φ_a
		for a := range ev.Val {
			for c := 0; c < N; c++ {
				G[a][c] = 0
				for j := 0; j < N; j++ {
					G[a][c] += Fi[j*N+c] * ev.Grad[a][j]
				}
			}
		}
		if flag&BuildRhs != 0 {
			for a := range ev.Val {
				for c := 0; c < N; c++ {
					if d := ev.Dofs[a*N+c]; d >= 0 {
						vecs[0][d] -= w * p[0] * J * G[a][c]
					}
				}
			}
			for b, ψ := range evp.Val {
				if d := evp.Dofs[b]; d >= 0 {
					vecs[1][d] -= w * (J - 1) * ψ
				}
			}
		}
		if flag&BuildMatrix == 0 {
			return nil
		}
		for a := range ev.Val {
			for c := 0; c < N; c++ {
				I := ev.Dofs[a*N+c]
				if I < 0 {
					continue
				}
				for b := range ev.Val {
					for l := 0; l < N; l++ {
						if Jd := ev.Dofs[b*N+l]; Jd >= 0 {
							asm.AddTo(mats[0], I, Jd, w*p[0]*J*(G[a][c]*G[b][l]-G[a][l]*G[b][c]))
						}
					}
				}
			}
		}
		for q, ψ := range evp.Val {
			I := evp.Dofs[q]
			if I < 0 {
				continue
			}
			for b := range ev.Val {
				for l := 0; l < N; l++ {
					if Jd := ev.Dofs[b*N+l]; Jd >= 0 {
						asm.AddTo(mats[1], I, Jd, w*ψ*J*G[b][l])
					}
				}
			}
		}
		return nil
	})
}

// AddNonlinearIncompressibilityBrick couples the displacement u and the pressure p with det F = 1
func AddNonlinearIncompressibilityBrick(md *Model, im mim.Integrator, u, p string, region *inp.Region) (int, error) {
	terms := []Term{{Var1: u, Var2: u, Symmetric: true}, {Var1: p, Var2: u, Symmetric: true}}
	return md.AddBrick(new(NonlinearIncompressibilityBrick), []string{u, p}, nil, terms, []mim.Integrator{im}, region)
}

// kinematics computes the deformation gradient and the Green-Lagrange strain at integration points
type kinematics struct {
	ev  *mfem.Evaluator
	N   int
	u   []float64   // [N] displacement
	gu  [][]float64 // [N][N] displacement gradient
	F   []float64   // [N*N] deformation gradient
	E   []float64   // [N*N] Green-Lagrange strain
	cid int         // current cell
	ctx *shp.GeoCtx // current context
}

func newKinematics(mf mfem.MeshFem, N int) *kinematics {
	return &kinematics{ev: mfem.NewEvaluator(mf), N: N, u: make([]float64, N), gu: utl.Alloc(N, N),
		F: make([]float64, N*N), E: make([]float64, N*N)}
}

// loop runs fn at all integration points after computing F and E
func (o *kinematics) loop(im mim.Integrator, U []float64, region *inp.Region, fn func(w float64) error) error {
	N := o.N
	return asm.LoopCells(im, region, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if err = o.ev.At(cid, ctx, true); err != nil {
			return
		}
		o.cid, o.ctx = cid, ctx
		o.ev.Field(U, o.u, o.gu)
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				o.F[i*N+j] = o.gu[i][j]
				if i == j {
					o.F[i*N+j] += 1
				}
			}
		}
		for i := 0; i < N; i++ {
			for j := 0; j < N; j++ {
				c := 0.0
				for m := 0; m < N; m++ {
					c += o.F[m*N+i] * o.F[m*N+j]
				}
				if i == j {
					c -= 1
				}
				o.E[i*N+j] = c / 2
			}
		}
		return fn(w)
	})
}
