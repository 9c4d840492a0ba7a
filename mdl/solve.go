// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/linsol"
	"github.com/james-bowman/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// StandardSolve solves the problem defined by the model and stores the solution in the variables.
// Linear problems are solved with one factorisation; nonlinear ones with Newton's method
func StandardSolve(md *Model, it *linsol.Iteration) (err error) {
	n, err := md.NbDof()
	if err != nil {
		return
	}
	x := make([]float64, n)
	if err = md.FromVariables(x); err != nil {
		return
	}
	spd := md.IsSymmetric() && md.IsCoercive()

	// linear
	if md.IsLinear() {
		if err = md.Assembly(BuildAll); err != nil {
			return
		}
		var dx []float64
		if dx, err = linsol.Solve(md.Tangent(), md.Rhs(), it, spd); err != nil {
			return
		}
		if !it.Converged {
			return chk.Err("linear solver did not converge after %d iterations; residual = %g", it.Iter, it.Res)
		}
		floats.Add(x, dx)
		return md.ToVariables(x)
	}

	// nonlinear
	assemble := func(x []float64, tangent bool) (K *sparse.DOK, rhs []float64, err error) {
		if err = md.ToVariables(x); err != nil {
			return
		}
		flag := BuildRhs
		if tangent {
			flag = BuildAll
		}
		if err = md.Assembly(flag); err != nil {
			return
		}
		return md.Tangent(), md.Rhs(), nil
	}
	err = linsol.Newton(x, it, spd, assemble)
	if e := md.ToVariables(x); err == nil {
		err = e
	}
	if err != nil {
		return
	}
	if !it.Converged {
		return chk.Err("Newton's method did not converge after %d iterations; residual = %g", it.Iter, it.Res)
	}
	inp.Info(logrus.Fields{"iterations": it.Iter, "residual": it.Res}, "nonlinear problem solved")
	return
}
