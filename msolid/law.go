// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package msolid implements hyperelastic constitutive laws written in terms of the
// Green-Lagrange strain E = (FᵀF - I)/2
/*
 *  W(E)   -- strain energy density
 *  Σ(E)   -- second Piola-Kirchhoff stress = ∂W/∂E
 *  D(E)   -- tangent modulus = ∂Σ/∂E (symmetrised fourth order tensor)
 *
 *  Tensors of order 2 are stored as flat row-major N×N arrays and tensors of
 *  order 4 as flat N⁴ arrays with index ((i·N+j)·N+k)·N+l
 *
 *  In 2D (N == 2) plane strain is assumed: E33 = 0
 */
package msolid

import (
	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// Law defines hyperelastic laws
type Law interface {
	Name() string                                       // name of law
	NbParams() int                                      // number of parameters
	Energy(E []float64, N int, prms []float64) float64  // strain energy density
	Sigma(Σ, E []float64, N int, prms []float64)        // second Piola-Kirchhoff stress Σ[N*N]
	Grad(D, E []float64, N int, prms []float64)         // tangent modulus D[N*N*N*N]
}

// New returns a new hyperelastic law
func New(name string) (law Law, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("hyperelastic law %q is not available in 'msolid' database", name)
	}
	return allocator(), nil
}

// allocators holds all available laws; name => allocator
var allocators = map[string]func() Law{}

// CheckParams returns an error if the number of parameters is wrong
func CheckParams(law Law, prms []float64) error {
	if len(prms) != law.NbParams() {
		return chk.Err("law %q requires %d parameters; %d given", law.Name(), law.NbParams(), len(prms))
	}
	return nil
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// idx4 returns the index of component ijkl in a flat fourth order tensor
func idx4(i, j, k, l, N int) int {
	return ((i*N+j)*N+k)*N + l
}

// δ is the Kronecker delta
func δ(i, j int) float64 {
	if i == j {
		return 1
	}
	return 0
}

// rightCauchyGreen returns C = I + 2E embedded in 3D (plane strain when N == 2)
func rightCauchyGreen(E []float64, N int) (C *mat.Dense) {
	C = mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		C.Set(i, i, 1)
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			C.Set(i, j, C.At(i, j)+2*E[i*N+j])
		}
	}
	return
}

// invariants returns the principal invariants of C
func invariants(C *mat.Dense) (I1, I2, I3 float64) {
	I1 = mat.Trace(C)
	var C2 mat.Dense
	C2.Mul(C, C)
	I2 = (I1*I1 - mat.Trace(&C2)) / 2
	I3 = mat.Det(C)
	return
}

// inverse returns C⁻¹; C must be invertible
func inverse(C *mat.Dense) (Ci *mat.Dense) {
	Ci = mat.NewDense(3, 3, nil)
	if err := Ci.Inverse(C); err != nil {
		chk.Panic("right Cauchy-Green tensor is not invertible:\n%v", err)
	}
	return
}
