// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "math"

// add laws to factory
func init() {
	allocators["SaintVenant Kirchhoff"] = func() Law { return new(SaintVenantKirchhoff) }
	allocators["Mooney Rivlin"] = func() Law { return new(MooneyRivlin) }
	allocators["Ciarlet Geymonat"] = func() Law { return new(CiarletGeymonat) }
}

// SaintVenantKirchhoff implements W = λ/2 (tr E)² + μ E:E
//
//	prms = {λ, μ}
type SaintVenantKirchhoff struct{}

// Name returns the name of law
func (o SaintVenantKirchhoff) Name() string { return "SaintVenant Kirchhoff" }

// NbParams returns the number of parameters
func (o SaintVenantKirchhoff) NbParams() int { return 2 }

// Energy returns W
func (o SaintVenantKirchhoff) Energy(E []float64, N int, prms []float64) float64 {
	λ, μ := prms[0], prms[1]
	tr, EE := 0.0, 0.0
	for i := 0; i < N; i++ {
		tr += E[i*N+i]
		for j := 0; j < N; j++ {
			EE += E[i*N+j] * E[j*N+i]
		}
	}
	return λ*tr*tr/2 + μ*EE
}

// Sigma computes Σ = λ tr(E) I + 2μ E
func (o SaintVenantKirchhoff) Sigma(Σ, E []float64, N int, prms []float64) {
	λ, μ := prms[0], prms[1]
	tr := 0.0
	for i := 0; i < N; i++ {
		tr += E[i*N+i]
	}
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			Σ[i*N+j] = λ*tr*δ(i, j) + 2*μ*E[i*N+j]
		}
	}
}

// Grad computes D = λ I⊗I + 2μ Isym
func (o SaintVenantKirchhoff) Grad(D, E []float64, N int, prms []float64) {
	λ, μ := prms[0], prms[1]
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			for k := 0; k < N; k++ {
				for l := 0; l < N; l++ {
					D[idx4(i, j, k, l, N)] = λ*δ(i, j)*δ(k, l) + μ*(δ(i, k)*δ(j, l)+δ(i, l)*δ(j, k))
				}
			}
		}
	}
}

// MooneyRivlin implements W = C1 (I1 - 3) + C2 (I2 - 3) with the invariants of C = I + 2E.
// Meant to be used together with an incompressibility constraint
//
//	prms = {C1, C2}
type MooneyRivlin struct{}

// Name returns the name of law
func (o MooneyRivlin) Name() string { return "Mooney Rivlin" }

// NbParams returns the number of parameters
func (o MooneyRivlin) NbParams() int { return 2 }

// Energy returns W
func (o MooneyRivlin) Energy(E []float64, N int, prms []float64) float64 {
	I1, I2, _ := invariants(rightCauchyGreen(E, N))
	return prms[0]*(I1-3) + prms[1]*(I2-3)
}

// Sigma computes Σ = 2 [C1 I + C2 (I1 I - C)]
func (o MooneyRivlin) Sigma(Σ, E []float64, N int, prms []float64) {
	C := rightCauchyGreen(E, N)
	I1, _, _ := invariants(C)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			Σ[i*N+j] = 2 * (prms[0]*δ(i, j) + prms[1]*(I1*δ(i, j)-C.At(i, j)))
		}
	}
}

// Grad computes D = 4 C2 (I⊗I - Isym)
func (o MooneyRivlin) Grad(D, E []float64, N int, prms []float64) {
	c2 := prms[1]
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			for k := 0; k < N; k++ {
				for l := 0; l < N; l++ {
					D[idx4(i, j, k, l, N)] = 4 * c2 * (δ(i, j)*δ(k, l) - (δ(i, k)*δ(j, l)+δ(i, l)*δ(j, k))/2)
				}
			}
		}
	}
}

// CiarletGeymonat implements
//
//	W = a I1 + b I2 + c I3 - d ln(I3)/2 + e
//	b = μ/2 - a,  c = λ/4 - μ/2 + a,  d = λ/2 + μ,  e = -3(a + b) - c
//
// which reduces to linear elasticity for small strains
//
//	prms = {λ, μ, a}
type CiarletGeymonat struct{}

// Name returns the name of law
func (o CiarletGeymonat) Name() string { return "Ciarlet Geymonat" }

// NbParams returns the number of parameters
func (o CiarletGeymonat) NbParams() int { return 3 }

// coefficients returns a, b, c, d and e
func (o CiarletGeymonat) coefficients(prms []float64) (a, b, c, d, e float64) {
	λ, μ := prms[0], prms[1]
	a = prms[2]
	b = μ/2 - a
	c = λ/4 - μ/2 + a
	d = λ/2 + μ
	e = -3*(a+b) - c
	return
}

// Energy returns W
func (o CiarletGeymonat) Energy(E []float64, N int, prms []float64) float64 {
	a, b, c, d, e := o.coefficients(prms)
	I1, I2, I3 := invariants(rightCauchyGreen(E, N))
	return a*I1 + b*I2 + c*I3 - d*math.Log(I3)/2 + e
}

// Sigma computes Σ = 2 [a I + b (I1 I - C) + c I3 C⁻¹ - d/2 C⁻¹]
func (o CiarletGeymonat) Sigma(Σ, E []float64, N int, prms []float64) {
	a, b, c, d, _ := o.coefficients(prms)
	C := rightCauchyGreen(E, N)
	I1, _, I3 := invariants(C)
	Ci := inverse(C)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			Σ[i*N+j] = 2 * (a*δ(i, j) + b*(I1*δ(i, j)-C.At(i, j)) + (c*I3-d/2)*Ci.At(i, j))
		}
	}
}

// Grad computes D = 4 ∂²W/∂C²
func (o CiarletGeymonat) Grad(D, E []float64, N int, prms []float64) {
	_, b, c, d, _ := o.coefficients(prms)
	C := rightCauchyGreen(E, N)
	_, _, I3 := invariants(C)
	Ci := inverse(C)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			for k := 0; k < N; k++ {
				for l := 0; l < N; l++ {
					cs := (Ci.At(i, k)*Ci.At(j, l) + Ci.At(i, l)*Ci.At(j, k)) / 2
					is := (δ(i, k)*δ(j, l) + δ(i, l)*δ(j, k)) / 2
					D[idx4(i, j, k, l, N)] = 4 * (b*(δ(i, j)*δ(k, l)-is) + c*I3*(Ci.At(i, j)*Ci.At(k, l)-cs) + d/2*cs)
				}
			}
		}
	}
}
