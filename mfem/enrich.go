// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mfem

import (
	"github.com/cpmech/goxfem/inp"
	"github.com/sirupsen/logrus"
)

// MinEnrichedDofs is the number of enriched dofs below which a warning is emitted
const MinEnrichedDofs = 3

// EnrichedWithinRadius returns the basic dofs of mf located within radius of center.
// The result is kept even if fewer than MinEnrichedDofs dofs are selected (a warning is logged)
func EnrichedWithinRadius(mf MeshFem, center []float64, radius float64) (enriched []bool) {
	n := mf.NbBasicDof()
	enriched = make([]bool, n)
	X := make([][]float64, 0, n)
	ids := make([]int, 0, n)
	for b := 0; b < n; b++ {
		if x := mf.DofPoint(b); x != nil {
			X = append(X, x)
			ids = append(ids, b)
		}
	}
	idx := inp.NewPointIndex(X)
	count := 0
	for _, i := range idx.WithinRadius(center, radius) {
		enriched[ids[i]] = true
		count++
	}
	warnFewEnriched(count, radius)
	return
}

// EnrichedInBall returns the dofs with X² + Y² ≤ radius², where X and Y are the values of the
// secondary and primary level sets at the dofs
func EnrichedInBall(X, Y []float64, radius float64) (enriched []bool) {
	enriched = make([]bool, len(X))
	count := 0
	for j := range X {
		if X[j]*X[j]+Y[j]*Y[j] <= radius*radius {
			enriched[j] = true
			count++
		}
	}
	warnFewEnriched(count, radius)
	return
}

// CountTrue returns the number of true entries
func CountTrue(flags []bool) (n int) {
	for _, f := range flags {
		if f {
			n++
		}
	}
	return
}

func warnFewEnriched(count int, radius float64) {
	if count < MinEnrichedDofs {
		inp.Warn(logrus.Fields{"enriched": count, "radius": radius}, "few enriched dofs for the crack tip")
	}
}
