// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

// AssembleFunc computes the right-hand side rhs = -residual(x) and, if tangent is true, the
// tangent matrix K = ∂residual/∂x
type AssembleFunc func(x []float64, tangent bool) (K *sparse.DOK, rhs []float64, err error)

// MaxBacktrack is the maximum number of step halvings in Newton's line search
var MaxBacktrack = 10

// Newton solves residual(x) = 0 with Newton's method and a backtracking line search. x holds the
// initial guess on input and the solution on output. Convergence is reached when the largest
// component of the residual is below it.Residual. spd tells whether the tangent is symmetric
// positive definite; see Solve
func Newton(x []float64, it *Iteration, spd bool, assemble AssembleFunc) (err error) {

	// linear solver control
	lin := &Iteration{Residual: 1e-12, MaxIter: 0, Name: it.Name}

	// messages
	if it.Verbose {
		io.Pf("\n%4s%23s%23s\n", "it", "largFb", "step")
	}

	// iterations
	it.reset()
	var K *sparse.DOK
	var fb, dx []float64
	xold := make([]float64, len(x))
	for it.Iter = 0; it.Iter <= it.MaxIter; it.Iter++ {

		// residual
		if K, fb, err = assemble(x, true); err != nil {
			return
		}
		it.Res = largest(fb)
		if math.IsNaN(it.Res) {
			return chk.Err("NaN found in residual")
		}
		if it.Verbose {
			io.Pf("%4d%23.15e\n", it.Iter, it.Res)
		}
		if it.Res <= it.Residual {
			it.Converged = true
			return
		}
		if it.Iter == it.MaxIter {
			break
		}

		// solve for dx
		if dx, err = Solve(K, fb, lin, spd); err != nil {
			return
		}
		it.Cond = lin.Cond

		// update with line search; the full step is taken if no step reduces the residual
		copy(xold, x)
		α := 1.0
		for k := 0; k <= MaxBacktrack; k++ {
			copy(x, xold)
			floats.AddScaled(x, α, dx)
			_, trial, e := assemble(x, false)
			if e != nil {
				return e
			}
			if largest(trial) < it.Res {
				break
			}
			if k == MaxBacktrack {
				α = 1
				copy(x, xold)
				floats.AddScaled(x, α, dx)
				break
			}
			α /= 2
		}
		if it.Verbose && α < 1 {
			io.Pforan("%4s%23s%23g\n", "", "", α)
		}
	}
	return
}

// largest returns the largest absolute component of v
func largest(v []float64) (res float64) {
	for _, a := range v {
		if math.IsNaN(a) {
			return math.NaN()
		}
		if math.Abs(a) > res {
			res = math.Abs(a)
		}
	}
	return
}
