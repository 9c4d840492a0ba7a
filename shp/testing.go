// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/io"
	"gonum.org/v1/gonum/diff/fd"
)

// CheckShape checks that shape functions evaluate to 1.0 @ nodes and sum up to 1.0
func CheckShape(tst *testing.T, gt *GeoTrans, tol float64, verbose bool) {

	// loop over all nodes
	errS := 0.0
	S := make([]float64, gt.Nverts)
	for n := 0; n < gt.Nverts; n++ {
		gt.Values(S, gt.NatCoords[n])
		if verbose {
			io.Pf("S = %v\n", S)
		}
		sum := 0.0
		for m := 0; m < gt.Nverts; m++ {
			sum += S[m]
			if n == m {
				errS += math.Abs(S[m] - 1.0)
			} else {
				errS += math.Abs(S[m])
			}
		}
		errS += math.Abs(sum - 1.0)
	}

	// error
	if errS > tol {
		tst.Errorf("%s failed with err = %g\n", gt.Name, errS)
	}
}

// CheckDSdR checks dSdR derivatives of geometric transformations using finite differences
func CheckDSdR(tst *testing.T, gt *GeoTrans, r []float64, tol float64, verbose bool) {

	// analytical
	S := make([]float64, gt.Nverts)
	dSdR := gt.alloc_dSdR()
	gt.Func(S, dSdR, r, true)

	// numerical
	rtmp := make([]float64, len(r))
	Stmp := make([]float64, gt.Nverts)
	for n := 0; n < gt.Nverts; n++ {
		for i := 0; i < gt.Dim; i++ {
			dnum := fd.Derivative(func(t float64) float64 {
				copy(rtmp, r)
				rtmp[i] = t
				gt.Values(Stmp, rtmp)
				return Stmp[n]
			}, r[i], &fd.Settings{Formula: fd.Central, Step: 1e-3})
			if verbose {
				io.Pf("  dS%ddR%d @ %5.2f = %v (num: %v)\n", n, i, r, dSdR[n][i], dnum)
			}
			if math.Abs(dSdR[n][i]-dnum) > tol {
				tst.Errorf("%s: dS%ddR%d failed with err = %g\n", gt.Name, n, i, math.Abs(dSdR[n][i]-dnum))
				return
			}
		}
	}
}
