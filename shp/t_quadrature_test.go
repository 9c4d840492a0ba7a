// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_quad01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quad01. measures and monomials")

	reg := NewRegistry()
	for name, vol := range map[string]float64{
		"IM_GAUSS1D(3)":                1,
		"IM_GAUSS_PARALLELEPIPED(2,4)": 1,
		"IM_GAUSS_PARALLELEPIPED(3,2)": 1,
		"IM_TRIANGLE(6)":               0.5,
		"IM_TETRAHEDRON(5)":            1.0 / 6.0,
		"IM_QUASI_POLAR(IM_TRIANGLE(6), 1)": 0.5,
	} {
		rule, err := reg.IntegRule(name)
		if err != nil {
			tst.Errorf("%v", err)
			return
		}
		chk.Float64(tst, name, 1e-14, rule.Weight(), vol)
	}

	// ∫ x² y³ over the triangle = 2!3!/(2+3+2)! = 12/5040
	rule, _ := reg.IntegRule("IM_TRIANGLE(5)")
	sum := 0.0
	for _, p := range rule.Points {
		sum += p.W * p.R[0] * p.R[0] * p.R[1] * p.R[1] * p.R[1]
	}
	chk.Float64(tst, "∫x²y³", 1e-15, sum, 12.0/5040.0)

	// ∫ x y z over the tetrahedron = 1/720
	rule, _ = reg.IntegRule("IM_TETRAHEDRON(3)")
	sum = 0.0
	for _, p := range rule.Points {
		sum += p.W * p.R[0] * p.R[1] * p.R[2]
	}
	chk.Float64(tst, "∫xyz", 1e-15, sum, 1.0/720.0)

	// memoised
	r1, _ := reg.IntegRule("IM_TRIANGLE(5)")
	r2, _ := reg.IntegRule("IM_TRIANGLE( 5 )")
	if r1 != r2 {
		tst.Errorf("rules must be memoised")
	}

	// errors
	for _, name := range []string{"IM_FOO(2)", "IM_TRIANGLE", "IM_GAUSS_PARALLELEPIPED(4,2)", "IM_QUASI_POLAR(IM_TETRAHEDRON(2),0)"} {
		if _, err := reg.IntegRule(name); err == nil {
			tst.Errorf("%q should fail", name)
		}
	}
}

func Test_quad02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("quad02. quasi-polar rule integrates 1/r at the collapsed vertex")

	// ∫ 1/|x - V1| over the reference triangle, V1 = (1,0)
	reg := NewRegistry()
	qp, _ := reg.IntegRule("IM_QUASI_POLAR(IM_TRIANGLE(8), 1)")
	f := func(r []float64) float64 {
		return 1.0 / math.Hypot(r[0]-1, r[1])
	}
	sum := 0.0
	for _, p := range qp.Points {
		sum += p.W * f(p.R)
	}

	// exact: integral of 1/r over triangle with apex angle π/4 at V1 and opposite side
	// from (0,0) to (0,1): ∫_0^{π/4} ρ(θ) dθ with ρ(θ) = 1/cos(θ) => ln(tan(3π/8))
	chk.Float64(tst, "∫1/r", 1e-7, sum, math.Log(math.Tan(3*math.Pi/8)))

	// mapping onto a sub-simplex
	rule, _ := reg.IntegRule("IM_TRIANGLE(2)")
	ips := MapSimplexRule(rule, [][]float64{{0, 0}, {0.5, 0}, {0, 0.5}})
	sum = 0
	for _, p := range ips {
		sum += p.W
	}
	chk.Float64(tst, "sub-simplex area", 1e-15, sum, 0.125)
}
