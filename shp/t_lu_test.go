// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

func Test_lu01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lu01. determinant and inverse")

	A := []float64{
		2, 1, 1,
		4, -6, 0,
		-2, 7, 2,
	}
	chk.Float64(tst, "det", 1e-13, LuDet(A, 3), -16)

	// inverse·A = I
	Ai := append([]float64{}, A...)
	det := LuInverse(Ai, 3)
	chk.Float64(tst, "det from inverse", 1e-13, det, -16)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sum := 0.0
			for k := 0; k < 3; k++ {
				sum += Ai[i*3+k] * A[k*3+j]
			}
			if i == j {
				chk.Float64(tst, "I_ii", 1e-14, sum, 1)
			} else {
				chk.Float64(tst, "I_ij", 1e-14, sum, 0)
			}
		}
	}

	// zero pivot is reported, not thrown
	S := []float64{
		1, 2, 3,
		2, 4, 6,
		1, 1, 1,
	}
	ipvt := make([]int, 3)
	info := LuFactor(S, ipvt, 3)
	if info == 0 {
		tst.Errorf("singular matrix must return info > 0")
	}
	Sc := []float64{1, 2, 3, 2, 4, 6, 1, 1, 1}
	chk.Float64(tst, "inverse of singular", 1e-15, LuInverse(Sc, 3), 0)
}

func Test_lu02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("lu02. closed form vs LU vs gonum")

	rnd := rand.New(rand.NewSource(1234))
	for n := 1; n <= 5; n++ {
		for trial := 0; trial < 20; trial++ {
			A := make([]float64, n*n)
			for i := range A {
				A[i] = rnd.Float64()*2 - 1
			}
			for i := 0; i < n; i++ {
				A[i*n+i] += float64(n)
			}
			d := mat.Det(mat.NewDense(n, n, append([]float64{}, A...)))
			tol := 1e-12 * math.Max(1, math.Abs(d))
			chk.Float64(tst, "Det", tol, Det(A, n), d)
			chk.Float64(tst, "LuDet", tol, LuDet(A, n), d)

			// inverse with closed forms (n ≤ 2) or LU
			Ai := append([]float64{}, A...)
			chk.Float64(tst, "Inverse det", tol, Inverse(Ai, n), d)
			x := make([]float64, n)
			b := make([]float64, n)
			for i := range b {
				b[i] = float64(i + 1)
			}
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					x[i] += Ai[i*n+j] * b[j]
				}
			}

			// compare with LuSolve
			lu := append([]float64{}, A...)
			ipvt := make([]int, n)
			LuFactor(lu, ipvt, n)
			LuSolve(lu, ipvt, b, n)
			chk.Array(tst, "x", 1e-12, b, x)
		}
	}
}
