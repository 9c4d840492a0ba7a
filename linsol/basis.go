// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"sort"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// RangeBasis returns the indices of a set of columns of M spanning its range. Columns are selected
// greedily by largest remaining norm after orthogonalisation against the selected ones (pivoted
// Gram-Schmidt). A column is discarded when its remaining norm is below tol times the largest
// column norm. The returned indices are sorted
func RangeBasis(M mat.Matrix, tol float64) (cols []int) {
	m, n := M.Dims()
	if m == 0 || n == 0 {
		return
	}

	// columns
	V := make([][]float64, n)
	norms := make([]float64, n)
	maxnorm := 0.0
	for j := 0; j < n; j++ {
		V[j] = make([]float64, m)
		mat.Col(V[j], j, M)
		norms[j] = floats.Norm(V[j], 2)
		if norms[j] > maxnorm {
			maxnorm = norms[j]
		}
	}
	if maxnorm == 0 {
		return
	}

	// pivoted Gram-Schmidt
	used := make([]bool, n)
	for {
		jmax, vmax := -1, tol*maxnorm
		for j := 0; j < n; j++ {
			if !used[j] && norms[j] > vmax {
				jmax, vmax = j, norms[j]
			}
		}
		if jmax < 0 {
			break
		}
		used[jmax] = true
		cols = append(cols, jmax)
		q := V[jmax]
		floats.Scale(1/norms[jmax], q)
		for j := 0; j < n; j++ {
			if used[j] || norms[j] <= tol*maxnorm {
				continue
			}
			floats.AddScaled(V[j], -floats.Dot(q, V[j]), q)
			norms[j] = floats.Norm(V[j], 2)
		}
	}
	sort.Ints(cols)
	return
}

// Rank returns the numerical rank of M: the number of singular values greater than tol times the
// largest one
func Rank(M mat.Matrix, tol float64) (rank int, err error) {
	m, n := M.Dims()
	if m == 0 || n == 0 {
		return 0, nil
	}
	var svd mat.SVD
	if !svd.Factorize(M, mat.SVDNone) {
		return 0, chk.Err("singular value decomposition failed")
	}
	s := svd.Values(nil)
	for _, v := range s {
		if v > tol*s[0] {
			rank++
		}
	}
	return
}
