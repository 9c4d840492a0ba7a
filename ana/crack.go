// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Function is a scalar function of the crack coordinates X (along the crack, zero at the tip)
// and Y (normal to the crack)
type Function interface {
	Val(X, Y float64) float64
	Grad(X, Y float64) (dX, dY float64)
}

// NbSingular is the number of singular functions spanning the crack-tip displacement
const NbSingular = 4

// Singular implements the crack-tip functions with θ = atan2(Y, X):
//
//	0: √r sin(θ/2)
//	1: √r cos(θ/2)
//	2: √r sin(θ/2) sin(θ)
//	3: √r cos(θ/2) sin(θ)
//
// The first one is discontinuous across the crack (θ = ±π)
type Singular struct {
	Mode int // 0, 1, 2 or 3
}

// Val returns the function value; zero at the tip
func (o Singular) Val(X, Y float64) float64 {
	r := math.Hypot(X, Y)
	if r == 0 {
		return 0
	}
	g, _ := o.angular(math.Atan2(Y, X))
	return math.Sqrt(r) * g
}

// Grad returns the derivatives w.r.t X and Y; zero at the tip
func (o Singular) Grad(X, Y float64) (dX, dY float64) {
	r := math.Hypot(X, Y)
	if r == 0 {
		return
	}
	θ := math.Atan2(Y, X)
	g, dg := o.angular(θ)
	c, s := X/r, Y/r
	sr := math.Sqrt(r)
	dr := g / (2 * sr) // ∂f/∂r
	dt := dg / sr      // (1/r) ∂f/∂θ
	return dr*c - dt*s, dr*s + dt*c
}

// angular returns the angular part g(θ) and its derivative
func (o Singular) angular(θ float64) (g, dg float64) {
	s2, c2 := math.Sin(θ/2), math.Cos(θ/2)
	s, c := math.Sin(θ), math.Cos(θ)
	switch o.Mode {
	case 0:
		return s2, c2 / 2
	case 1:
		return c2, -s2 / 2
	case 2:
		return s2 * s, c2*s/2 + s2*c
	case 3:
		return c2 * s, -s2*s/2 + c2*c
	}
	chk.Panic("singular function mode %d is invalid; it must be in [0, 3]", o.Mode)
	return
}

// Product implements A·B
type Product struct {
	A, B Function
}

// Val returns the function value
func (o Product) Val(X, Y float64) float64 { return o.A.Val(X, Y) * o.B.Val(X, Y) }

// Grad returns the derivatives w.r.t X and Y
func (o Product) Grad(X, Y float64) (dX, dY float64) {
	a, b := o.A.Val(X, Y), o.B.Val(X, Y)
	ax, ay := o.A.Grad(X, Y)
	bx, by := o.B.Grad(X, Y)
	return ax*b + a*bx, ay*b + a*by
}

// CrackTipField implements the asymptotic displacement near the tip of a semi-infinite crack in
// an infinite plane, in plane strain, as a combination of the singular functions:
//
//	u_c = Σ_j U[j*2+c] f_j(X, Y)
type CrackTipField struct {
	Mode   int        // 1 (opening) or 2 (sliding)
	Lambda float64    // Lamé coefficient λ
	Mu     float64    // Lamé coefficient μ
	U      [8]float64 // coefficients of the singular functions; [j*2+c]
}

// NewCrackTipField returns the field of the given mode
func NewCrackTipField(mode int, λ, μ float64) (o *CrackTipField, err error) {
	if μ <= 0 || λ+μ <= 0 {
		return nil, chk.Err("Lamé coefficients λ=%g and μ=%g are invalid", λ, μ)
	}
	o = &CrackTipField{Mode: mode, Lambda: λ, Mu: μ}
	switch mode {
	case 1:
		A := 2 + 2*μ/(λ+2*μ)
		B := -2 * (λ + μ) / (λ + 2*μ)
		o.U = [8]float64{0, A - B, A + B, 0, -B, 0, 0, B}
		o.scale(1 / math.Sqrt(2*math.Pi))
	case 2:
		C1 := (λ + 3*μ) / (λ + μ)
		o.U = [8]float64{C1 + 1, 0, 0, -(C1 - 1), 0, 1, 1, 0}
		o.scale(2 * (μ + λ) / (λ + 2*μ) / math.Sqrt(2*math.Pi))
	default:
		return nil, chk.Err("crack mode %d is not available; it must be 1 or 2", mode)
	}
	return
}

func (o *CrackTipField) scale(α float64) {
	for i := range o.U {
		o.U[i] *= α
	}
}

// Displacement computes u at (X, Y). A NaN is an error
func (o *CrackTipField) Displacement(u []float64, X, Y float64) error {
	u[0], u[1] = 0, 0
	for j := 0; j < NbSingular; j++ {
		f := Singular{j}.Val(X, Y)
		u[0] += o.U[j*2] * f
		u[1] += o.U[j*2+1] * f
	}
	return checkNaN(u, X, Y)
}

// Gradient computes g[c][d] = ∂u_c/∂x_d at (X, Y). A NaN is an error
func (o *CrackTipField) Gradient(g [][]float64, X, Y float64) error {
	g[0][0], g[0][1], g[1][0], g[1][1] = 0, 0, 0, 0
	for j := 0; j < NbSingular; j++ {
		dX, dY := Singular{j}.Grad(X, Y)
		for c := 0; c < 2; c++ {
			g[c][0] += o.U[j*2+c] * dX
			g[c][1] += o.U[j*2+c] * dY
		}
	}
	for c := 0; c < 2; c++ {
		if err := checkNaN(g[c], X, Y); err != nil {
			return err
		}
	}
	return nil
}

// Stress computes the plane strain stresses σx, σy, σz and σxy at (X, Y)
func (o *CrackTipField) Stress(X, Y float64) (sx, sy, sz, sxy float64, err error) {
	g := [][]float64{{0, 0}, {0, 0}}
	if err = o.Gradient(g, X, Y); err != nil {
		return
	}
	div := g[0][0] + g[1][1]
	sx = o.Lambda*div + 2*o.Mu*g[0][0]
	sy = o.Lambda*div + 2*o.Mu*g[1][1]
	sz = o.Lambda * div
	sxy = o.Mu * (g[0][1] + g[1][0])
	return
}

// PolarStresses computes stress components w.r.t polar system from given
// Cartesian components
func PolarStresses(x, y, sx, sy, sxy float64) (r, sr, st, srt float64) {
	r = math.Hypot(x, y)
	β := math.Atan2(y, x)
	si, co := math.Sin(β), math.Cos(β)
	ss, cc, cs := si*si, co*co, co*si
	sr = cc*sx + ss*sy + 2.0*cs*sxy
	st = ss*sx + cc*sy - 2.0*cs*sxy
	srt = -cs*sx + cs*sy + (cc-ss)*sxy
	return
}

// checkNaN returns an error if v has a NaN
func checkNaN(v []float64, X, Y float64) error {
	for _, a := range v {
		if math.IsNaN(a) {
			return chk.Err("NaN found in crack-tip field at X=%g, Y=%g", X, Y)
		}
	}
	return nil
}
