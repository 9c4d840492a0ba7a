// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func init() {
	io.Verbose = false
}

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// points away from the crack faces
var points = [][]float64{{0.3, 0.1}, {-0.2, 0.25}, {-0.1, -0.3}, {0.05, -0.02}, {0.4, 0}}

func Test_singular01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("singular01. singular functions and their gradients")

	h := 1e-6
	funcs := []Function{
		Singular{0}, Singular{1}, Singular{2}, Singular{3},
		Cutoff{Kind: ExponentialCutoff, Radius: 0.3},
		Cutoff{Kind: PolynomialCutoff, R1: 0.1, R0: 0.35},
		Product{Singular{0}, Cutoff{Kind: PolynomialCutoff, R1: 0.1, R0: 0.35}},
	}
	for k, f := range funcs {
		for _, x := range points {
			dX, dY := f.Grad(x[0], x[1])
			nX := (f.Val(x[0]+h, x[1]) - f.Val(x[0]-h, x[1])) / (2 * h)
			nY := (f.Val(x[0], x[1]+h) - f.Val(x[0], x[1]-h)) / (2 * h)
			chk.AnaNum(tst, io.Sf("f%d: d/dX", k), 1e-8, dX, nX, chk.Verbose)
			chk.AnaNum(tst, io.Sf("f%d: d/dY", k), 1e-8, dY, nY, chk.Verbose)
		}
	}

	// values at the tip and on the crack faces
	chk.Float64(tst, "f0(0,0)", 1e-17, Singular{0}.Val(0, 0), 0)
	chk.Float64(tst, "f0 above", 1e-15, Singular{0}.Val(-0.25, 1e-300), 0.5)
	chk.Float64(tst, "f0 below", 1e-15, Singular{0}.Val(-0.25, -1e-300), -0.5)
	chk.Float64(tst, "f1 on crack", 1e-15, Singular{1}.Val(-0.25, 1e-300), 0)

	// cutoff limits
	c := Cutoff{Kind: PolynomialCutoff, R1: 0.1, R0: 0.35}
	chk.Float64(tst, "c(r1)", 1e-15, c.Val(0.1, 0), 1)
	chk.Float64(tst, "c(r0)", 1e-15, c.Val(0, 0.35), 0)
	chk.Float64(tst, "c(mid)", 1e-14, c.Val(0.225, 0), 0.5)
	chk.Float64(tst, "exp(0)", 1e-17, Cutoff{Kind: ExponentialCutoff, Radius: 0.3}.Val(0, 0), 1)
	chk.Float64(tst, "none", 1e-17, Cutoff{Kind: NoCutoff}.Val(3, 4), 1)
}

func Test_crack01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("crack01. crack-tip fields satisfy Navier's equations and free faces")

	// points not too close to the tip
	far := [][]float64{{0.3, 0.1}, {-0.2, 0.25}, {-0.1, -0.3}, {0.4, 0}}

	λ, μ := 1.0, 1.0
	h := 1e-4
	for _, mode := range []int{1, 2} {
		f, err := NewCrackTipField(mode, λ, μ)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}

		// (λ+μ) ∇(div u) + μ Δu = 0
		u := func(x, y float64) []float64 {
			res := make([]float64, 2)
			f.Displacement(res, x, y)
			return res
		}
		for _, x := range far {
			X, Y := x[0], x[1]
			c, xp, xm, yp, ym := u(X, Y), u(X+h, Y), u(X-h, Y), u(X, Y+h), u(X, Y-h)
			pp, pm, mp, mm := u(X+h, Y+h), u(X+h, Y-h), u(X-h, Y+h), u(X-h, Y-h)
			for i := 0; i < 2; i++ {
				lap := (xp[i] + xm[i] + yp[i] + ym[i] - 4*c[i]) / (h * h)
				var graddiv float64
				if i == 0 {
					graddiv = (xp[0]-2*c[0]+xm[0])/(h*h) + (pp[1]-pm[1]-mp[1]+mm[1])/(4*h*h)
				} else {
					graddiv = (yp[1]-2*c[1]+ym[1])/(h*h) + (pp[0]-pm[0]-mp[0]+mm[0])/(4*h*h)
				}
				chk.Float64(tst, io.Sf("mode %d: equilibrium %d", mode, i), 1e-5, (λ+μ)*graddiv+μ*lap, 0)
			}

			// gradient
			g := [][]float64{{0, 0}, {0, 0}}
			if err = f.Gradient(g, X, Y); err != nil {
				tst.Errorf("%v", err)
				return
			}
			for i := 0; i < 2; i++ {
				chk.AnaNum(tst, "du/dX", 1e-6, g[i][0], (xp[i]-xm[i])/(2*h), chk.Verbose)
				chk.AnaNum(tst, "du/dY", 1e-6, g[i][1], (yp[i]-ym[i])/(2*h), chk.Verbose)
			}
		}

		// traction free crack faces: σyy = σxy = 0 on θ = ±π
		for _, Y := range []float64{1e-300, -1e-300} {
			_, sy, _, sxy, e := f.Stress(-0.2, Y)
			if e != nil {
				tst.Errorf("%v", e)
				return
			}
			chk.Float64(tst, io.Sf("mode %d: σyy on face", mode), 1e-13, sy, 0)
			chk.Float64(tst, io.Sf("mode %d: σxy on face", mode), 1e-13, sxy, 0)
		}
	}

	// mode I against the closed form
	f, _ := NewCrackTipField(1, λ, μ)
	A, B := 2+2*μ/(λ+2*μ), -2*(λ+μ)/(λ+2*μ)
	U := make([]float64, 2)
	for _, x := range points {
		r, θ := math.Hypot(x[0], x[1]), math.Atan2(x[1], x[0])
		f.Displacement(U, x[0], x[1])
		k := math.Sqrt(r) / math.Sqrt(2*math.Pi)
		chk.Float64(tst, "ux", 1e-14, U[0], k*math.Cos(θ/2)*(A+B*math.Cos(θ)))
		chk.Float64(tst, "uy", 1e-14, U[1], k*math.Sin(θ/2)*(A+B*math.Cos(θ)))
	}

	// symmetric opening ahead of the tip: σθθ = σyy and σrθ = 0 on θ = 0
	sx, sy, _, sxy, _ := f.Stress(0.1, 0)
	_, sr, st, srt := PolarStresses(0.1, 0, sx, sy, sxy)
	chk.Float64(tst, "σθθ", 1e-15, st, sy)
	chk.Float64(tst, "σrr", 1e-15, sr, sx)
	chk.Float64(tst, "σrθ", 1e-14, srt, 0)
	if sy <= 0 {
		tst.Errorf("mode I opens the crack: σyy ahead of the tip must be positive")
	}

	// errors
	if _, err := NewCrackTipField(3, λ, μ); err == nil {
		tst.Errorf("mode 3 should fail")
	}
	if _, err := NewCrackTipField(1, λ, 0); err == nil {
		tst.Errorf("μ = 0 should fail")
	}
	if err := checkNaN([]float64{0, math.NaN()}, 0, 0); err == nil {
		tst.Errorf("NaN should be detected")
	}
}
