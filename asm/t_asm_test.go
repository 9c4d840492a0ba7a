// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/shp"
	"github.com/james-bowman/sparse"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// mulVec returns K·U
func mulVec(K *sparse.DOK, U []float64) (res []float64) {
	r, _ := K.Dims()
	res = make([]float64, r)
	K.DoNonZero(func(i, j int, v float64) {
		res[i] += v * U[j]
	})
	return
}

// total returns Σ_ij K_ij
func total(K *sparse.DOK) (sum float64) {
	K.DoNonZero(func(i, j int, v float64) { sum += v })
	return
}

// setup returns a P1 space on a regular mesh and a Gauss method of order 2
func setup(tst *testing.T, typ string, n, qdim int) (m *inp.Mesh, mf *mfem.Classical, im *mim.MeshIm) {
	m, err := inp.RegularUnitMesh(typ, []int{n, n, n}, nil)
	if err != nil {
		tst.Fatalf("%v", err)
	}
	if mf, err = mfem.NewClassical(m, 1, qdim); err != nil {
		tst.Fatalf("%v", err)
	}
	if im, err = mim.NewMeshIm(m, 2); err != nil {
		tst.Fatalf("%v", err)
	}
	return
}

func Test_asm01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm01. mass and Laplacian")

	// mass on one quadrilateral
	_, mf, im := setup(tst, "qua4", 1, 1)
	M := sparse.NewDOK(4, 4)
	if err := Mass(M, im, mf, mf, nil, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "Σ M", 1e-14, total(M), 1)
	chk.Float64(tst, "M00", 1e-14, M.At(0, 0), 1.0/9.0)
	chk.Float64(tst, "M03", 1e-14, M.At(0, 3), 1.0/36.0)

	// density
	M2 := sparse.NewDOK(4, 4)
	Mass(M2, im, mf, mf, Const{2.5}, nil)
	chk.Float64(tst, "Σ ρM", 1e-14, total(M2), 2.5)

	// Laplacian: constants are in the kernel; linear fields are harmonic inside
	m, mf, im := setup(tst, "qua4", 2, 1)
	n := mf.NbDof()
	K := sparse.NewDOK(n, n)
	if err := Laplacian(K, im, mf, nil, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1
	}
	chk.Array(tst, "K·1", 1e-14, mulVec(K, ones), make([]float64, n))
	X := mfem.InterpolateFunc(mf, func(x []float64) []float64 { return []float64{x[0]} })
	KX := mulVec(K, X)
	for b := 0; b < n; b++ {
		x := mf.DofPoint(b)
		if x[0] > 0 && x[0] < 1 {
			chk.Float64(tst, io.Sf("(K·x) at %v", x), 1e-14, KX[b], 0)
		}
	}

	// generic elliptic with identity matrix equals Laplacian
	G := sparse.NewDOK(n, n)
	if err := GenericElliptic(G, im, mf, Const{1, 0, 0, 1}, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			chk.Float64(tst, "G-K", 1e-14, G.At(i, j), K.At(i, j))
		}
	}
	if err := GenericElliptic(G, im, mf, Const{1, 2, 3}, nil); err == nil {
		tst.Errorf("wrong coefficient size should fail")
	}

	// Helmholtz: Σ K = -k² area
	H := sparse.NewDOK(n, n)
	Helmholtz(H, im, mf, Const{4}, nil)
	chk.Float64(tst, "Σ H", 1e-14, total(H), -4)

	// mismatched mesh
	other, _ := inp.RegularUnitMesh("qua4", []int{1, 1}, nil)
	mfOther, _ := mfem.NewClassical(other, 1, 1)
	if err := Mass(M, im, mfOther, mfOther, nil, nil); err == nil {
		tst.Errorf("space on another mesh should fail")
	}
	_ = m
}

func Test_asm02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm02. linear elasticity and divergence")

	_, mf, im := setup(tst, "tri3", 2, 2)
	n := mf.NbDof()
	K := sparse.NewDOK(n, n)
	if err := LinearElasticity(K, im, mf, Const{1.2}, Const{0.8}, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}

	// rigid body modes
	for _, rigid := range []func(x []float64) []float64{
		func(x []float64) []float64 { return []float64{1, 0} },
		func(x []float64) []float64 { return []float64{0, 1} },
		func(x []float64) []float64 { return []float64{-x[1], x[0]} },
	} {
		U := mfem.InterpolateFunc(mf, rigid)
		chk.Array(tst, "K·u_rigid", 1e-14, mulVec(K, U), make([]float64, n))
	}

	// symmetry
	K.DoNonZero(func(i, j int, v float64) {
		if math.Abs(v-K.At(j, i)) > 1e-14 {
			tst.Errorf("K must be symmetric: K[%d,%d]=%v K[%d,%d]=%v", i, j, v, j, i, K.At(j, i))
		}
	})

	// uniaxial strain εxx = 1: ∫ σ:ε = (λ + 2μ) area
	U := mfem.InterpolateFunc(mf, func(x []float64) []float64 { return []float64{x[0], 0} })
	KU := mulVec(K, U)
	energy := 0.0
	for i := range U {
		energy += U[i] * KU[i]
	}
	chk.Float64(tst, "uᵀKu", 1e-14, energy, 1.2+2*0.8)

	// divergence: -∫ p div u with div u = 2
	mfp, _ := mfem.NewClassical(mf.Mesh(), 1, 1)
	B := sparse.NewDOK(mfp.NbDof(), n)
	if err := StokesB(B, im, mf, mfp, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	U = mfem.InterpolateFunc(mf, func(x []float64) []float64 { return []float64{x[0], x[1]} })
	sum := 0.0
	for _, v := range mulVec(B, U) {
		sum += v
	}
	chk.Float64(tst, "Σ B·u", 1e-14, sum, -2)

	// errors
	if err := StokesB(B, im, mfp, mfp, nil); err == nil {
		tst.Errorf("scalar displacement should fail")
	}
}

func Test_asm03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("asm03. volume and boundary sources")

	m, mf, im := setup(tst, "qua4", 2, 1)
	n := mf.NbDof()
	F := make([]float64, n)
	if err := Source(F, im, mf, Const{3}, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	sum := 0.0
	for _, v := range F {
		sum += v
	}
	chk.Float64(tst, "Σ F", 1e-14, sum, 3)

	// normal source on the whole boundary: ∮ n_x = 0; on the right side: 1
	F = make([]float64, n)
	NormalSource(F, im, mf, Const{1, 0}, nil)
	sum = 0
	for _, v := range F {
		sum += v
	}
	chk.Float64(tst, "∮ n_x", 1e-14, sum, 0)

	right := inp.NewRegion()
	for _, cf := range m.OuterFaces().Items() {
		if nrm := m.NormalOfFace(cf.Cid, cf.Fid); nrm[0] > 0.5 {
			right.Add(cf.Cid, cf.Fid)
		}
	}
	chk.Int(tst, "right faces", right.Size(), 2)
	F = make([]float64, n)
	NormalSource(F, im, mf, Const{1, 0}, right)
	sum = 0
	for _, v := range F {
		sum += v
	}
	chk.Float64(tst, "∫ n_x (right)", 1e-14, sum, 1)

	// Fourier-Robin: Σ Q = Q·perimeter
	K := sparse.NewDOK(n, n)
	if err := QU(K, im, mf, Const{0.5}, nil); err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "Σ QU", 1e-14, total(K), 2)

	// boundary mass and source
	Mb := sparse.NewDOK(n, n)
	BoundaryMass(Mb, im, mf, mf, right)
	chk.Float64(tst, "Σ Mb", 1e-14, total(Mb), 1)
	G := make([]float64, n)
	BoundarySource(G, im, mf, Const{2}, right)
	sum = 0
	for _, v := range G {
		sum += v
	}
	chk.Float64(tst, "Σ G", 1e-14, sum, 2)

	// coefficient given by a field
	U := mfem.InterpolateFunc(mf, func(x []float64) []float64 { return []float64{x[0] + x[1]} })
	c, err := NewFemCoef(mf, U)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	F = make([]float64, n)
	Source(F, im, mf, c, nil)
	sum = 0
	for _, v := range F {
		sum += v
	}
	chk.Float64(tst, "∫ (x+y)", 1e-14, sum, 1)
}

func Test_norms01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("norms01. norms and distances")

	m, mf, im := setup(tst, "tri3", 4, 1)
	ones := make([]float64, mf.NbDof())
	for i := range ones {
		ones[i] = 1
	}
	l2, _ := L2Norm(im, mf, ones, nil)
	chk.Float64(tst, "‖1‖", 1e-14, l2, 1)
	X := mfem.InterpolateFunc(mf, func(x []float64) []float64 { return []float64{x[0]} })
	h1, _ := H1SemiNorm(im, mf, X, nil)
	chk.Float64(tst, "|x|₁", 1e-14, h1, 1)
	l2x, _ := L2Norm(im, mf, X, nil)
	chk.Float64(tst, "‖x‖", 1e-14, l2x, math.Sqrt(1.0/3.0))

	// distance to the exact function
	exact := func(cid int, ctx *shp.GeoCtx, res []float64) { res[0] = ctx.Xreal()[0] }
	grad := func(cid int, ctx *shp.GeoCtx, g [][]float64) { g[0][0], g[0][1] = 1, 0 }
	d, _ := L2DistFunc(im, mf, X, exact, nil)
	chk.Float64(tst, "‖x - x_h‖", 1e-14, d, 0)
	d, _ = H1Dist(im, mf, X, exact, grad, nil)
	chk.Float64(tst, "‖x - x_h‖₁", 1e-14, d, 0)

	// distance between spaces
	p2, _ := mfem.NewClassical(m, 2, 1)
	X2 := mfem.InterpolateFunc(p2, func(x []float64) []float64 { return []float64{x[0]} })
	d, err := L2Dist(im, mf, X, p2, X2, nil)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Float64(tst, "‖x_h1 - x_h2‖", 1e-14, d, 0)
	d, _ = L2Dist(im, mf, ones, p2, X2, nil)
	chk.Float64(tst, "‖1 - x‖", 1e-14, d, math.Sqrt(1.0/3.0))
}
