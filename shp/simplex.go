// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import "math"

// SimplexVolumeFactor returns |det[p1-p0, ..., pP-p0]| for a simplex with vertices p[P+1][P].
// The volume of the simplex is this factor divided by P!
func SimplexVolumeFactor(p [][]float64) float64 {
	P := len(p) - 1
	if P < 1 {
		return 0
	}
	A := make([]float64, P*P)
	for i := 0; i < P; i++ {
		for j := 0; j < P; j++ {
			A[i*P+j] = p[j+1][i] - p[0][i]
		}
	}
	return math.Abs(Det(A, P))
}

// MapSimplexRule maps a simplex rule onto the sub-simplex p[P+1][P] given in reference
// coordinates of the parent element. Weights are scaled by the volume factor
func MapSimplexRule(rule *IntegRule, p [][]float64) (ips []Ipoint) {
	P := len(p) - 1
	vf := SimplexVolumeFactor(p)
	ips = make([]Ipoint, len(rule.Points))
	for k, q := range rule.Points {
		r := make([]float64, P)
		for i := 0; i < P; i++ {
			r[i] = p[0][i]
			for j := 0; j < P; j++ {
				r[i] += q.R[j] * (p[j+1][i] - p[0][i])
			}
		}
		ips[k] = Ipoint{R: r, W: q.W * vf}
	}
	return
}

// ReferenceSimplices returns the simplexification of the reference element in reference coordinates
//
//	Output: [nsimplices][P+1][P]
func ReferenceSimplices(gt *GeoTrans) (simplices [][][]float64) {
	simplices = make([][][]float64, len(gt.Simplices))
	for s, verts := range gt.Simplices {
		simplices[s] = make([][]float64, len(verts))
		for k, m := range verts {
			simplices[s][k] = append([]float64{}, gt.NatCoords[m]...)
		}
	}
	return
}

// Simplexify returns the simplexification table of gt (indices of basic vertices)
func Simplexify(gt *GeoTrans) [][]int {
	return gt.Simplices
}
