// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// Small dense matrices used by the geometric transformations are stored in flat row-major
// buffers: A[i*n+j] == A_ij. Routines in this file never panic; failures are reported by
// return codes so callers decide whether a singular matrix is fatal.

// LuFactor computes the LU factorisation with partial pivoting of the n×n matrix A (in place)
//
//	Output:
//	 A    -- L (unit diagonal, not stored) and U
//	 ipvt -- [n] row interchanges; row i was swapped with row ipvt[i]
//	 info -- 0 if successful; j+1 if U_jj is exactly zero (factorisation completed anyway)
func LuFactor(A []float64, ipvt []int, n int) (info int) {
	for j := 0; j < n; j++ {

		// pivot
		jp, max := j, math.Abs(A[j*n+j])
		for i := j + 1; i < n; i++ {
			if v := math.Abs(A[i*n+j]); v > max {
				jp, max = i, v
			}
		}
		ipvt[j] = jp
		if max == 0 {
			if info == 0 {
				info = j + 1
			}
			continue
		}
		if jp != j {
			for k := 0; k < n; k++ {
				A[j*n+k], A[jp*n+k] = A[jp*n+k], A[j*n+k]
			}
		}

		// eliminate
		piv := A[j*n+j]
		for i := j + 1; i < n; i++ {
			A[i*n+j] /= piv
			lij := A[i*n+j]
			if lij == 0 {
				continue
			}
			for k := j + 1; k < n; k++ {
				A[i*n+k] -= lij * A[j*n+k]
			}
		}
	}
	return
}

// LuSolve solves A·x = b with the factors computed by LuFactor. x is returned in b
func LuSolve(LU []float64, ipvt []int, b []float64, n int) {
	for j := 0; j < n; j++ {
		if ipvt[j] != j {
			b[j], b[ipvt[j]] = b[ipvt[j]], b[j]
		}
	}
	for i := 1; i < n; i++ {
		for k := 0; k < i; k++ {
			b[i] -= LU[i*n+k] * b[k]
		}
	}
	for i := n - 1; i >= 0; i-- {
		for k := i + 1; k < n; k++ {
			b[i] -= LU[i*n+k] * b[k]
		}
		b[i] /= LU[i*n+i]
	}
}

// LuDetFactored returns the determinant from factors computed by LuFactor
func LuDetFactored(LU []float64, ipvt []int, n int) (det float64) {
	det = 1.0
	for j := 0; j < n; j++ {
		det *= LU[j*n+j]
		if ipvt[j] != j {
			det = -det
		}
	}
	return
}

// LuDet returns the determinant of A computed with LU; A is not modified
func LuDet(A []float64, n int) float64 {
	tmp := make([]float64, n*n)
	copy(tmp, A)
	ipvt := make([]int, n)
	LuFactor(tmp, ipvt, n)
	return LuDetFactored(tmp, ipvt, n)
}

// LuInverse replaces A by its inverse and returns the determinant of the original matrix.
// If the matrix is singular, A is left with its LU factors and det == 0 is returned
func LuInverse(A []float64, n int) (det float64) {
	lu := make([]float64, n*n)
	copy(lu, A)
	ipvt := make([]int, n)
	if LuFactor(lu, ipvt, n) != 0 {
		copy(A, lu)
		return 0
	}
	det = LuDetFactored(lu, ipvt, n)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			col[i] = 0
		}
		col[j] = 1
		LuSolve(lu, ipvt, col, n)
		for i := 0; i < n; i++ {
			A[i*n+j] = col[i]
		}
	}
	return
}

// Det returns the determinant of A using closed-form expressions for n ≤ 2 and LU otherwise
func Det(A []float64, n int) float64 {
	switch n {
	case 0:
		return 1
	case 1:
		return A[0]
	case 2:
		return A[0]*A[3] - A[1]*A[2]
	}
	return LuDet(A, n)
}

// Inverse replaces A by its inverse and returns the determinant of the original matrix.
// Closed forms are used for n ≤ 2. A singular matrix yields det == 0 and A is unspecified
func Inverse(A []float64, n int) (det float64) {
	switch n {
	case 1:
		det = A[0]
		if det == 0 {
			return
		}
		A[0] = 1.0 / det
		return
	case 2:
		det = A[0]*A[3] - A[1]*A[2]
		if det == 0 {
			return
		}
		a, b, c, d := A[0], A[1], A[2], A[3]
		A[0], A[1], A[2], A[3] = d/det, -b/det, -c/det, a/det
		return
	}
	return LuInverse(A, n)
}
