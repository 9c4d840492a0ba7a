// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// constants
const (
	INVMAP_TOL = 1.0e-10 // tolerance for inverse mapping function
	INVMAP_NIT = 25      // maximum number of iterations for inverse mapping
)

// InvMap computes the reference coordinates r of the real point y
//
//	Input:
//	 y[N]           -- real coordinates
//	 x[N][nverts]   -- coordinates of nodes
//	Output:
//	 r[P] -- reference coordinates
//	Note: for N > P, r corresponds to the (least-squares) projection onto the cell
func InvMap(gt *GeoTrans, x [][]float64, y []float64) (r []float64, err error) {
	ctx := NewGeoCtx(gt, x)
	r = gt.Centroid()
	e := make([]float64, ctx.N)
	for it := 0; it < INVMAP_NIT; it++ {
		ctx.SetXref(r)

		// residual: e = y - x·S
		yr := ctx.Xreal()
		for i := 0; i < ctx.N; i++ {
			e[i] = y[i] - yr[i]
		}

		// corrector: δr = Bᵀ·e
		B, err := ctx.B()
		if err != nil {
			return nil, err
		}
		var δnorm float64
		rnew := make([]float64, ctx.P)
		for j := 0; j < ctx.P; j++ {
			δ := 0.0
			for i := 0; i < ctx.N; i++ {
				δ += B[i*ctx.P+j] * e[i]
			}
			rnew[j] = r[j] + δ
			δnorm += δ * δ
		}
		r = rnew
		if math.Sqrt(δnorm) < INVMAP_TOL {
			return r, nil
		}
	}
	return r, chk.Err("inverse mapping did not converge after %d iterations", INVMAP_NIT)
}

// IsInside tells whether the reference point r is inside the reference element (within tol)
func IsInside(gt *GeoTrans, r []float64, tol float64) bool {
	if gt.Simplex {
		sum := 0.0
		for i := 0; i < gt.Dim; i++ {
			if r[i] < -tol {
				return false
			}
			sum += r[i]
		}
		return sum <= 1.0+tol
	}
	for i := 0; i < gt.Dim; i++ {
		if r[i] < -tol || r[i] > 1.0+tol {
			return false
		}
	}
	return true
}
