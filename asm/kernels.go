// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/shp"
	"github.com/james-bowman/sparse"
)

// Mass assembles M[i,j] += ∫ ρ ψ_i·φ_j where ψ are the functions of mf1 (rows) and φ those of
// mf2 (columns). Both spaces must have the same qdim. ρ: nil (=1) or scalar
func Mass(M *sparse.DOK, im mim.Integrator, mf1, mf2 mfem.MeshFem, ρ Coef, r *inp.Region) error {
	if err := checkMesh(im, mf1, mf2); err != nil {
		return err
	}
	if mf1.Qdim() != mf2.Qdim() {
		return chk.Err("mass matrix requires spaces with the same qdim; %d != %d", mf1.Qdim(), mf2.Qdim())
	}
	if coefSize(ρ) != 1 {
		return chk.Err("mass coefficient must be scalar")
	}
	q := mf1.Qdim()
	ev1, ev2 := mfem.NewEvaluator(mf1), mfem.NewEvaluator(mf2)
	var c []float64
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if c, err = coefValue(ρ, cid, ctx, c); err != nil {
			return
		}
		if err = ev1.At(cid, ctx, false); err != nil {
			return
		}
		if err = ev2.At(cid, ctx, false); err != nil {
			return
		}
		for a, ψ := range ev1.Val {
			for b, φ := range ev2.Val {
				v := w * c[0] * ψ * φ
				for k := 0; k < q; k++ {
					i, j := ev1.Dofs[a*q+k], ev2.Dofs[b*q+k]
					if i >= 0 && j >= 0 {
						AddTo(M, i, j, v)
					}
				}
			}
		}
		return
	})
}

// Laplacian assembles K[i,j] += ∫ a ∇φ_i·∇φ_j for each component. a: nil (=1) or scalar
func Laplacian(K *sparse.DOK, im mim.Integrator, mf mfem.MeshFem, a Coef, r *inp.Region) error {
	if coefSize(a) != 1 {
		return chk.Err("Laplacian coefficient must be scalar")
	}
	return GenericElliptic(K, im, mf, a, r)
}

// GenericElliptic assembles K += ∫ A∇u:∇v. The size of A selects the form:
//
//	1      -- scalar: a ∇u_k·∇v_k
//	N²     -- matrix: A_ij ∂_j u_k ∂_i v_k
//	N²Q²   -- tensor: A[k,l,i,j] ∂_j u_l ∂_i v_k; index ((k·Q+l)·N+i)·N+j
func GenericElliptic(K *sparse.DOK, im mim.Integrator, mf mfem.MeshFem, A Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	N, q := im.Mesh().Ndim, mf.Qdim()
	size := coefSize(A)
	if size != 1 && size != N*N && size != N*N*q*q {
		return chk.Err("coefficient of elliptic term must have size 1, %d or %d; got %d", N*N, N*N*q*q, size)
	}
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if c, err = coefValue(A, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, true); err != nil {
			return
		}
		n := len(ev.Val)
		for a := 0; a < n; a++ {
			ga := ev.Grad[a]
			for b := 0; b < n; b++ {
				gb := ev.Grad[b]
				for k := 0; k < q; k++ {
					for l := 0; l < q; l++ {
						var v float64
						switch {
						case size > 1 && size == N*N*q*q:
							for i := 0; i < N; i++ {
								for j := 0; j < N; j++ {
									v += c[((k*q+l)*N+i)*N+j] * gb[j] * ga[i]
								}
							}
						case k != l:
							continue
						case size == 1:
							for i := 0; i < N; i++ {
								v += c[0] * gb[i] * ga[i]
							}
						default:
							for i := 0; i < N; i++ {
								for j := 0; j < N; j++ {
									v += c[i*N+j] * gb[j] * ga[i]
								}
							}
						}
						i, j := ev.Dofs[a*q+k], ev.Dofs[b*q+l]
						if i >= 0 && j >= 0 {
							AddTo(K, i, j, w*v)
						}
					}
				}
			}
		}
		return
	})
}

// LinearElasticity assembles K += ∫ λ div u div v + 2μ ε(u):ε(v). λ and μ are scalar
func LinearElasticity(K *sparse.DOK, im mim.Integrator, mf mfem.MeshFem, λ, μ Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	N, q := im.Mesh().Ndim, mf.Qdim()
	if q != N {
		return chk.Err("linear elasticity requires qdim == %d; got %d", N, q)
	}
	if coefSize(λ) != 1 || coefSize(μ) != 1 {
		return chk.Err("Lamé coefficients must be scalar")
	}
	ev := mfem.NewEvaluator(mf)
	var cλ, cμ []float64
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if cλ, err = coefValue(λ, cid, ctx, cλ); err != nil {
			return
		}
		if cμ, err = coefValue(μ, cid, ctx, cμ); err != nil {
			return
		}
		if err = ev.At(cid, ctx, true); err != nil {
			return
		}
		n := len(ev.Val)
		for a := 0; a < n; a++ {
			ga := ev.Grad[a]
			for b := 0; b < n; b++ {
				gb := ev.Grad[b]
				dot := 0.0
				for i := 0; i < N; i++ {
					dot += ga[i] * gb[i]
				}
				for k := 0; k < N; k++ {
					for l := 0; l < N; l++ {
						v := cλ[0]*ga[k]*gb[l] + cμ[0]*ga[l]*gb[k]
						if k == l {
							v += cμ[0] * dot
						}
						i, j := ev.Dofs[a*q+k], ev.Dofs[b*q+l]
						if i >= 0 && j >= 0 {
							AddTo(K, i, j, w*v)
						}
					}
				}
			}
		}
		return
	})
}

// Source assembles F[i] += ∫ f·v. f has qdim values
func Source(F []float64, im mim.Integrator, mf mfem.MeshFem, f Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	q := mf.Qdim()
	if coefSize(f) != q {
		return chk.Err("source term must have %d components; got %d", q, coefSize(f))
	}
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if c, err = coefValue(f, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, false); err != nil {
			return
		}
		for a, φ := range ev.Val {
			for k := 0; k < q; k++ {
				if i := ev.Dofs[a*q+k]; i >= 0 {
					F[i] += w * c[k] * φ
				}
			}
		}
		return
	})
}

// NormalSource assembles F[i] += ∫_Γ (H·n)·v on faces. H has qdim·N values: H[k·N+i]
func NormalSource(F []float64, im mim.Integrator, mf mfem.MeshFem, H Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	N, q := im.Mesh().Ndim, mf.Qdim()
	if coefSize(H) != q*N {
		return chk.Err("normal source term must have %d components; got %d", q*N, coefSize(H))
	}
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopFaces(im, r, func(cid int, ctx *shp.GeoCtx, w float64, n []float64) (err error) {
		if c, err = coefValue(H, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, false); err != nil {
			return
		}
		for a, φ := range ev.Val {
			for k := 0; k < q; k++ {
				hn := 0.0
				for i := 0; i < N; i++ {
					hn += c[k*N+i] * n[i]
				}
				if i := ev.Dofs[a*q+k]; i >= 0 {
					F[i] += w * hn * φ
				}
			}
		}
		return
	})
}

// StokesB assembles B[i,j] += -∫ p_i div u_j with pressure functions in rows and
// displacement/velocity functions in columns
func StokesB(B *sparse.DOK, im mim.Integrator, mfu, mfp mfem.MeshFem, r *inp.Region) error {
	if err := checkMesh(im, mfu, mfp); err != nil {
		return err
	}
	N, q := im.Mesh().Ndim, mfu.Qdim()
	if q != N || mfp.Qdim() != 1 {
		return chk.Err("divergence term requires a vector field with %d components and a scalar multiplier", N)
	}
	evu, evp := mfem.NewEvaluator(mfu), mfem.NewEvaluator(mfp)
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if err = evu.At(cid, ctx, true); err != nil {
			return
		}
		if err = evp.At(cid, ctx, false); err != nil {
			return
		}
		for b, ψ := range evp.Val {
			i := evp.Dofs[b]
			if i < 0 {
				continue
			}
			for a := range evu.Val {
				for k := 0; k < q; k++ {
					if j := evu.Dofs[a*q+k]; j >= 0 {
						AddTo(B, i, j, -w*ψ*evu.Grad[a][k])
					}
				}
			}
		}
		return
	})
}

// Helmholtz assembles K += ∫ ∇u·∇v - k² u v. k2 is the scalar squared wave number
func Helmholtz(K *sparse.DOK, im mim.Integrator, mf mfem.MeshFem, k2 Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	if coefSize(k2) != 1 {
		return chk.Err("wave number must be scalar")
	}
	N, q := im.Mesh().Ndim, mf.Qdim()
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopCells(im, r, func(cid int, ctx *shp.GeoCtx, w float64) (err error) {
		if c, err = coefValue(k2, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, true); err != nil {
			return
		}
		for a, φa := range ev.Val {
			for b, φb := range ev.Val {
				v := -c[0] * φa * φb
				for i := 0; i < N; i++ {
					v += ev.Grad[a][i] * ev.Grad[b][i]
				}
				for k := 0; k < q; k++ {
					i, j := ev.Dofs[a*q+k], ev.Dofs[b*q+k]
					if i >= 0 && j >= 0 {
						AddTo(K, i, j, w*v)
					}
				}
			}
		}
		return
	})
}

// QU assembles K += ∫_Γ (Q u)·v on faces. Q is scalar or a qdim×qdim matrix (row-major)
func QU(K *sparse.DOK, im mim.Integrator, mf mfem.MeshFem, Q Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	q := mf.Qdim()
	size := coefSize(Q)
	if size != 1 && size != q*q {
		return chk.Err("coefficient of boundary term must have size 1 or %d; got %d", q*q, size)
	}
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopFaces(im, r, func(cid int, ctx *shp.GeoCtx, w float64, n []float64) (err error) {
		if c, err = coefValue(Q, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, false); err != nil {
			return
		}
		for a, φa := range ev.Val {
			for b, φb := range ev.Val {
				for k := 0; k < q; k++ {
					for l := 0; l < q; l++ {
						var v float64
						switch {
						case size == 1 && k == l:
							v = c[0]
						case size == q*q && size > 1:
							v = c[k*q+l]
						default:
							continue
						}
						i, j := ev.Dofs[a*q+k], ev.Dofs[b*q+l]
						if i >= 0 && j >= 0 {
							AddTo(K, i, j, w*v*φa*φb)
						}
					}
				}
			}
		}
		return
	})
}

// BoundaryMass assembles M[i,j] += ∫_Γ ψ_i·φ_j on faces (rows: mf1, columns: mf2)
func BoundaryMass(M *sparse.DOK, im mim.Integrator, mf1, mf2 mfem.MeshFem, r *inp.Region) error {
	if err := checkMesh(im, mf1, mf2); err != nil {
		return err
	}
	if mf1.Qdim() != mf2.Qdim() {
		return chk.Err("boundary mass matrix requires spaces with the same qdim; %d != %d", mf1.Qdim(), mf2.Qdim())
	}
	q := mf1.Qdim()
	ev1, ev2 := mfem.NewEvaluator(mf1), mfem.NewEvaluator(mf2)
	return LoopFaces(im, r, func(cid int, ctx *shp.GeoCtx, w float64, n []float64) (err error) {
		if err = ev1.At(cid, ctx, false); err != nil {
			return
		}
		if err = ev2.At(cid, ctx, false); err != nil {
			return
		}
		for a, ψ := range ev1.Val {
			for b, φ := range ev2.Val {
				for k := 0; k < q; k++ {
					i, j := ev1.Dofs[a*q+k], ev2.Dofs[b*q+k]
					if i >= 0 && j >= 0 {
						AddTo(M, i, j, w*ψ*φ)
					}
				}
			}
		}
		return
	})
}

// BoundarySource assembles F[i] += ∫_Γ g·v on faces. g has qdim values
func BoundarySource(F []float64, im mim.Integrator, mf mfem.MeshFem, g Coef, r *inp.Region) error {
	if err := checkMesh(im, mf); err != nil {
		return err
	}
	q := mf.Qdim()
	if coefSize(g) != q {
		return chk.Err("boundary source term must have %d components; got %d", q, coefSize(g))
	}
	ev := mfem.NewEvaluator(mf)
	var c []float64
	return LoopFaces(im, r, func(cid int, ctx *shp.GeoCtx, w float64, n []float64) (err error) {
		if c, err = coefValue(g, cid, ctx, c); err != nil {
			return
		}
		if err = ev.At(cid, ctx, false); err != nil {
			return
		}
		for a, φ := range ev.Val {
			for k := 0; k < q; k++ {
				if i := ev.Dofs[a*q+k]; i >= 0 {
					F[i] += w * c[k] * φ
				}
			}
		}
		return
	})
}
