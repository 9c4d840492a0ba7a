// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import "math"

// cutoff kinds
const (
	ExponentialCutoff = 0 // exp(-(2.7/R)⁴ r⁴)
	PolynomialCutoff  = 1 // 1 for r ≤ R1; 0 for r ≥ R0; C¹ cubic in between
	NoCutoff          = 2 // 1 everywhere
)

// Cutoff windows the singular functions around the crack tip
type Cutoff struct {
	Kind   int     // ExponentialCutoff, PolynomialCutoff or NoCutoff
	Radius float64 // radius of the exponential cutoff; 0 => no cutoff
	R1     float64 // inner radius of the polynomial cutoff
	R0     float64 // outer radius of the polynomial cutoff
}

// Val returns the cutoff value
func (o Cutoff) Val(X, Y float64) float64 {
	r := math.Hypot(X, Y)
	switch o.Kind {
	case ExponentialCutoff:
		if o.Radius <= 0 {
			return 1
		}
		a4 := math.Pow(2.7/o.Radius, 4)
		return math.Exp(-a4 * r * r * r * r)
	case PolynomialCutoff:
		if r <= o.R1 {
			return 1
		}
		if r >= o.R0 {
			return 0
		}
		c := 1 / math.Pow(o.R0-o.R1, 3)
		return c * (r*(r*(2*r-3*(o.R0+o.R1))+6*o.R1*o.R0) + o.R0*o.R0*(o.R0-3*o.R1))
	}
	return 1
}

// Grad returns the derivatives w.r.t X and Y
func (o Cutoff) Grad(X, Y float64) (dX, dY float64) {
	r2 := X*X + Y*Y
	switch o.Kind {
	case ExponentialCutoff:
		if o.Radius <= 0 {
			return
		}
		a4 := math.Pow(2.7/o.Radius, 4)
		d := -4 * a4 * r2 * math.Exp(-a4*r2*r2)
		return d * X, d * Y
	case PolynomialCutoff:
		r := math.Sqrt(r2)
		if r <= o.R1 || r >= o.R0 {
			return
		}
		c := 1 / math.Pow(o.R0-o.R1, 3)
		d := 6 * c * (r - o.R0) * (r - o.R1) / r // (1/r) ∂c/∂r
		return d * X, d * Y
	}
	return
}
