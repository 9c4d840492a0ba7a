// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// tridiag returns the matrix of -u'' = f with n interior points
func tridiag(n int) *sparse.DOK {
	K := sparse.NewDOK(n, n)
	for i := 0; i < n; i++ {
		K.Set(i, i, 2)
		if i > 0 {
			K.Set(i, i-1, -1)
		}
		if i < n-1 {
			K.Set(i, i+1, -1)
		}
	}
	return K
}

func Test_linsol01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol01. dense LU and conjugate gradients")

	// small dense system
	K := sparse.NewDOK(3, 3)
	for i, row := range [][]float64{{2, 1, 1}, {1, 3, 2}, {1, 0, 0}} {
		for j, v := range row {
			K.Set(i, j, v)
		}
	}
	x, err := SolveDense(K, []float64{4, 5, 6})
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Array(tst, "x", 1e-13, x, []float64{6, 15, -23})

	// singular
	S := sparse.NewDOK(2, 2)
	S.Set(0, 0, 1)
	S.Set(0, 1, 1)
	S.Set(1, 0, 1)
	S.Set(1, 1, 1)
	if _, err = SolveDense(S, []float64{1, 2}); err == nil {
		tst.Errorf("singular matrix should fail")
	}

	// CG and LU agree; solution of -u'' = 1 with h = 1: u_i = i(n+1-i)/2
	n := 20
	T := tridiag(n)
	F := make([]float64, n)
	xe := make([]float64, n)
	for i := range F {
		F[i] = 1
		k := float64(i + 1)
		xe[i] = k * (float64(n+1) - k) / 2
	}
	it := NewIteration(1e-12, 0, "cg")
	xcg, err := Solve(T, F, it, true)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	if !it.Converged {
		tst.Errorf("CG should converge")
		return
	}
	chk.Array(tst, "x(cg)", 1e-9, xcg, xe)
	it = NewIteration(1e-12, 0, "lu")
	xlu, _ := Solve(T, F, it, true)
	chk.Array(tst, "x(lu)", 1e-11, xlu, xe)
	if !it.Converged {
		tst.Errorf("LU should converge")
	}

	// not converged within limit
	it = NewIteration(1e-14, 2, "cg")
	Solve(T, F, it, true)
	if it.Converged {
		tst.Errorf("CG with 2 iterations should not converge")
	}

	// errors
	if _, err = Solve(T, F, NewIteration(1e-10, 10, "superlu"), true); err == nil {
		tst.Errorf("unknown solver should fail")
	}
	if _, err = Solve(T, F[:3], NewIteration(1e-10, 10, ""), true); err == nil {
		tst.Errorf("wrong rhs size should fail")
	}
}

func Test_linsol02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("linsol02. dense solver with underflowing determinant")

	// det = 1e-600 underflows but cond = 1
	n := 200
	K := sparse.NewDOK(n, n)
	F := make([]float64, n)
	xe := make([]float64, n)
	for i := 0; i < n; i++ {
		K.Set(i, i, 1e-3)
		F[i] = 1
		xe[i] = 1000
	}
	x, err := SolveDense(K, F)
	require.NoError(tst, err)
	chk.Array(tst, "x", 1e-9, x, xe)

	// same through the automatic choice
	it := NewIteration(1e-12, 0, "")
	x, err = Solve(K, F, it, false)
	require.NoError(tst, err)
	require.True(tst, it.Converged)
	chk.Array(tst, "x(auto)", 1e-9, x, xe)
	chk.Float64(tst, "cond", 1e-10, it.Cond, 1)

	// large singular system fails without panicking
	K.Set(n-1, n-1, 0)
	_, err = SolveDense(K, F)
	require.Error(tst, err)
}

func Test_basis01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("basis01. range basis and rank")

	// column 1 = 2 × column 0; column 3 = column 0 + column 2
	M := mat.NewDense(3, 4, []float64{
		1, 2, 0, 1,
		0, 0, 1, 1,
		1, 2, 0, 1,
	})
	cols := RangeBasis(M, 1e-12)
	chk.Int(tst, "size of basis", len(cols), 2)
	rank, err := Rank(M, 1e-12)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	chk.Int(tst, "rank", rank, 2)

	// the selected columns have full rank
	sub := mat.NewDense(3, len(cols), nil)
	for k, j := range cols {
		for i := 0; i < 3; i++ {
			sub.Set(i, k, M.At(i, j))
		}
	}
	r2, _ := Rank(sub, 1e-12)
	chk.Int(tst, "rank of selected", r2, 2)

	// zero and sparse matrices
	chk.Int(tst, "zero", len(RangeBasis(mat.NewDense(2, 2, nil), 1e-12)), 0)
	T := tridiag(5)
	chk.Ints(tst, "tridiag", RangeBasis(T, 1e-12), []int{0, 1, 2, 3, 4})
}

func Test_newton01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("newton01. nonlinear system")

	// x² + y² = 4 ; x = y  =>  x = y = √2
	assemble := func(x []float64, tangent bool) (K *sparse.DOK, rhs []float64, err error) {
		rhs = []float64{-(x[0]*x[0] + x[1]*x[1] - 4), -(x[0] - x[1])}
		if tangent {
			K = sparse.NewDOK(2, 2)
			K.Set(0, 0, 2*x[0])
			K.Set(0, 1, 2*x[1])
			K.Set(1, 0, 1)
			K.Set(1, 1, -1)
		}
		return
	}
	x := []float64{1, 0.5}
	it := NewIteration(1e-12, 20, "lu")
	if err := Newton(x, it, false, assemble); err != nil {
		tst.Errorf("%v", err)
		return
	}
	if !it.Converged {
		tst.Errorf("Newton should converge")
		return
	}
	chk.Array(tst, "x", 1e-12, x, []float64{1.4142135623730951, 1.4142135623730951})
	io.Pforan("iterations = %d\n", it.Iter)

	// limited number of iterations
	x = []float64{1, 0.5}
	it = NewIteration(1e-12, 1, "lu")
	Newton(x, it, false, assemble)
	if it.Converged {
		tst.Errorf("one iteration should not be enough")
	}
}
