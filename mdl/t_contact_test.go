// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/linsol"
	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func Test_ball01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("ball01. projection onto a ball and its derivatives")

	// inside, outside and degenerate radius
	chk.Array(tst, "inside", 1e-17, BallProjection([]float64{0.3, -0.4}, 1), []float64{0.3, -0.4})
	p := BallProjection([]float64{3, -4}, 2)
	chk.Float64(tst, "|P|", 1e-15, floats.Norm(p, 2), 2)
	chk.Array(tst, "outside", 1e-15, p, []float64{1.2, -1.6})
	chk.Array(tst, "ρ = 0", 1e-17, BallProjection([]float64{3, -4}, 0), []float64{0, 0})
	chk.Array(tst, "ρ < 0", 1e-17, BallProjection([]float64{3, -4}, -1), []float64{0, 0})

	// derivatives
	h := 1e-6
	for _, x := range [][]float64{{0.3, -0.4}, {3, -4}, {1.5, 0.5}} {
		ρ := 2.0
		G := BallProjectionGrad(x, ρ)
		g := BallProjectionGradR(x, ρ)
		for j := range x {
			xp := append([]float64{}, x...)
			xm := append([]float64{}, x...)
			xp[j] += h
			xm[j] -= h
			Pp, Pm := BallProjection(xp, ρ), BallProjection(xm, ρ)
			for i := range x {
				chk.AnaNum(tst, io.Sf("dP%d/dx%d", i, j), 1e-8, G[i][j], (Pp[i]-Pm[i])/(2*h), chk.Verbose)
			}
		}
		Pp, Pm := BallProjection(x, ρ+h), BallProjection(x, ρ-h)
		for i := range x {
			chk.AnaNum(tst, io.Sf("dP%d/dρ", i), 1e-8, g[i], (Pp[i]-Pm[i])/(2*h), chk.Verbose)
		}
	}
}

// contactModel returns the model of a point with unit stiffness loaded by f = (0.5, 1) and an
// obstacle at distance 0.1 above it
func contactModel(tst *testing.T, μ float64, opts ContactOptions) (md *Model, ib int) {
	md = NewModel()
	require.NoError(tst, md.AddFixedSizeVariable("u", 2, 1))
	K := sparse.NewDOK(2, 2)
	K.Set(0, 0, 1)
	K.Set(1, 1, 1)
	_, err := AddExplicitMatrix(md, "u", "u", K, true, true)
	require.NoError(tst, err)
	_, err = AddExplicitRhs(md, "u", []float64{0.5, 1})
	require.NoError(tst, err)
	BN := sparse.NewDOK(1, 2)
	BN.Set(0, 1, 1)
	BT := sparse.NewDOK(1, 2)
	BT.Set(0, 0, 1)
	ib, err = AddBasicContactBrick(md, "u", "lambdaN", "lambdaT", 1, BN, BT, []float64{0.1}, []float64{μ}, opts)
	require.NoError(tst, err)
	return
}

func Test_contact01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("contact01. frictionless contact of a point")

	for _, sym := range []bool{false, true} {
		md, ib := contactModel(tst, 0, ContactOptions{Symmetrized: sym})
		if md.VariableExists("lambdaT") {
			tst.Errorf("frictionless contact should not have a tangential multiplier")
		}
		if md.IsLinear() {
			tst.Errorf("contact is nonlinear")
		}
		it := linsol.NewIteration(1e-12, 20, "")
		require.NoError(tst, StandardSolve(md, it))
		io.Pforan("symmetrized = %v: %d iterations\n", sym, it.Iter)
		u, _ := md.Variable("u")
		λN, _ := md.Variable("lambdaN")
		chk.Array(tst, "u", 1e-12, u, []float64{0.5, 0.1})
		chk.Array(tst, "λN", 1e-12, λN, []float64{-0.9})
		b := md.Brick(ib).(*ContactBrick)
		if !b.Active[0] || b.HasFriction() {
			tst.Errorf("node should be in contact without friction")
		}
	}

	// contact only brick gives the same solution
	md := NewModel()
	require.NoError(tst, md.AddFixedSizeVariable("u", 2, 1))
	K := sparse.NewDOK(2, 2)
	K.Set(0, 0, 1)
	K.Set(1, 1, 1)
	_, err := AddExplicitMatrix(md, "u", "u", K, true, true)
	require.NoError(tst, err)
	_, err = AddExplicitRhs(md, "u", []float64{0.5, 1})
	require.NoError(tst, err)
	BN := sparse.NewDOK(1, 2)
	BN.Set(0, 1, 1)
	_, err = AddContactOnlyBrick(md, "u", "lambdaN", 1, BN, []float64{0.1}, ContactOptions{})
	require.NoError(tst, err)
	require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
	u, _ := md.Variable("u")
	chk.Array(tst, "u (contact only)", 1e-12, u, []float64{0.5, 0.1})
}

func Test_contact02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("contact02. Coulomb friction: slip and stick")

	for _, sym := range []bool{false, true} {

		// slip
		md, ib := contactModel(tst, 0.5, ContactOptions{Symmetrized: sym})
		require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
		u, _ := md.Variable("u")
		λN, _ := md.Variable("lambdaN")
		λT, _ := md.Variable("lambdaT")
		chk.Array(tst, "u (slip)", 1e-12, u, []float64{0.05, 0.1})
		chk.Array(tst, "λN (slip)", 1e-12, λN, []float64{-0.9})
		chk.Array(tst, "λT (slip)", 1e-12, λT, []float64{-0.45})
		if !md.Brick(ib).(*ContactBrick).Slipping[0] {
			tst.Errorf("node should be slipping")
		}

		// stick
		md, ib = contactModel(tst, 0.6, ContactOptions{Symmetrized: sym})
		require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
		u, _ = md.Variable("u")
		λT, _ = md.Variable("lambdaT")
		chk.Array(tst, "u (stick)", 1e-12, u, []float64{0, 0.1})
		chk.Array(tst, "λT (stick)", 1e-12, λT, []float64{-0.5})
		if md.Brick(ib).(*ContactBrick).Slipping[0] {
			tst.Errorf("node should be sticking")
		}
	}
}

func Test_contact03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("contact03. Tresca threshold and prescribed status")

	// threshold 0.2 < 0.5 => slip with |λT| = 0.2
	md, _ := contactModel(tst, 0, ContactOptions{Threshold: []float64{0.2}})
	require.True(tst, md.VariableExists("lambdaT"))
	require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
	u, _ := md.Variable("u")
	λT, _ := md.Variable("lambdaT")
	chk.Array(tst, "u (Tresca)", 1e-12, u, []float64{0.3, 0.1})
	chk.Array(tst, "λT (Tresca)", 1e-12, λT, []float64{-0.2})

	// forced stick with small friction; |λ̃_T| = 0.5 > μ|λ_N| = 0.09 but the status is kept
	md, ib := contactModel(tst, 0.1, ContactOptions{CH: map[int]ContactStatus{0: Stick}})
	require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
	u, _ = md.Variable("u")
	chk.Array(tst, "u (stick)", 1e-12, u, []float64{0, 0.1})
	b := md.Brick(ib).(*ContactBrick)
	if !b.Active[0] || b.Slipping[0] {
		tst.Errorf("node should be sticking as prescribed")
	}

	// forced slip at the initial state where λ̃_T = 0 lies inside the ball
	md, ib = contactModel(tst, 0.6, ContactOptions{CH: map[int]ContactStatus{0: Slip}})
	require.NoError(tst, md.Assembly(BuildAll))
	b = md.Brick(ib).(*ContactBrick)
	if !b.Active[0] || !b.Slipping[0] {
		tst.Errorf("node should be slipping as prescribed")
	}

	// forced free
	md, ib = contactModel(tst, 0.5, ContactOptions{CH: map[int]ContactStatus{0: Free}})
	require.NoError(tst, StandardSolve(md, linsol.NewIteration(1e-12, 20, "")))
	u, _ = md.Variable("u")
	chk.Array(tst, "u (free)", 1e-12, u, []float64{0.5, 1})
	if md.Brick(ib).(*ContactBrick).Active[0] {
		tst.Errorf("node should be free")
	}
}

func Test_contact04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("contact04. tangent matrix of the contact brick")

	points := [][]float64{
		{0.2, 0.3, -0.5, -0.2},   // active, slipping
		{0.01, 0.05, -0.9, -0.1}, // active, sticking
		{0.1, -0.5, 0.2, 0.1},    // inactive
	}
	for _, sym := range []bool{false, true} {
		for _, x := range points {
			md, _ := contactModel(tst, 0.5, ContactOptions{Symmetrized: sym, Alpha: []float64{1.5}})
			checkTangent(tst, md, io.Sf("contact (sym=%v)", sym), x)
		}
	}
	if math.IsNaN(BallProjection([]float64{0, 0}, 1)[0]) {
		tst.Errorf("projection of zero should be zero")
	}
}
