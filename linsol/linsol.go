// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package linsol implements the linear and nonlinear solver entry points used by models
package linsol

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/inp"
	"github.com/james-bowman/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Iteration holds the iteration control and the outcome of a solve
type Iteration struct {

	// input
	Residual float64 // target residual (relative for CG; absolute for Newton)
	MaxIter  int     // maximum number of iterations
	Name     string  // solver name hint: "lu", "cg" or "" (automatic)
	Verbose  bool    // show messages

	// output
	Iter      int     // number of iterations performed
	Res       float64 // achieved residual
	Cond      float64 // estimate of the condition number (LU only)
	Converged bool    // converged
}

// NewIteration returns a new iteration control
func NewIteration(residual float64, maxit int, name string) *Iteration {
	return &Iteration{Residual: residual, MaxIter: maxit, Name: name}
}

// reset clears the output
func (o *Iteration) reset() {
	o.Iter, o.Res, o.Cond, o.Converged = 0, 0, 0, false
}

// MaxDenseSize is the largest system solved with LU when no name hint is given
var MaxDenseSize = 4000

// Solve solves K·x = F using the solver selected by it.Name. With no name hint, conjugate
// gradients are used only if spd (symmetric positive definite) and the system is large.
// Non-convergence is reported in it.Converged; err is returned for structural problems only
func Solve(K *sparse.DOK, F []float64, it *Iteration, spd bool) (x []float64, err error) {
	n, m := K.Dims()
	if n != m || n != len(F) {
		return nil, chk.Err("cannot solve system with %d×%d matrix and vector of size %d", n, m, len(F))
	}
	name := it.Name
	if name == "" {
		name = "lu"
		if spd && n > MaxDenseSize {
			name = "cg"
		}
	}
	switch name {
	case "lu":
		it.reset()
		if x, it.Cond, err = solveDense(K, F); err != nil {
			return
		}
		it.Iter = 1
		it.Res = relResidual(K.ToCSR(), x, F)
		it.Converged = !math.IsNaN(it.Res)
	case "cg":
		x = make([]float64, n)
		err = SolveCG(K.ToCSR(), F, x, it)
	default:
		return nil, chk.Err("linear solver %q is not available", name)
	}
	if it.Verbose {
		io.Pf("%s: iterations = %d, residual = %g, cond = %g, converged = %v\n", name, it.Iter, it.Res, it.Cond, it.Converged)
	}
	return
}

// SolveDense solves K·x = F with a dense LU factorisation. QR is used instead when the
// determinant of the LU factors underflows
func SolveDense(K *sparse.DOK, F []float64) (x []float64, err error) {
	x, _, err = solveDense(K, F)
	return
}

// solveDense implements SolveDense and returns the condition number estimate as well
func solveDense(K *sparse.DOK, F []float64) (x []float64, cond float64, err error) {
	n, _ := K.Dims()
	if n == 0 {
		return
	}
	A := K.ToDense()
	var lu mat.LU
	lu.Factorize(A)
	cond = lu.Cond()
	if math.IsInf(cond, 1) || math.IsNaN(cond) {
		return nil, cond, chk.Err("matrix is singular")
	}
	b := mat.NewVecDense(n, F)
	var sol mat.VecDense
	e := lu.SolveVecTo(&sol, false, b)
	if sol.Len() == 0 {
		var qr mat.QR
		qr.Factorize(A)
		e = qr.SolveVecTo(&sol, false, b)
	}
	if sol.Len() != n {
		return nil, cond, chk.Err("cannot solve system with cond = %g:\n%v", cond, e)
	}
	if e != nil {
		c, ok := e.(mat.Condition)
		if !ok || math.IsInf(float64(c), 1) {
			return nil, cond, chk.Err("cannot solve system:\n%v", e)
		}
		inp.Warn(logrus.Fields{"cond": float64(c)}, "ill-conditioned system")
	}
	x = make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = sol.AtVec(i)
	}
	return
}

// SolveCG solves the symmetric positive definite system K·x = F by conjugate gradients with a
// Jacobi preconditioner. x holds the initial guess on input
func SolveCG(K *sparse.CSR, F, x []float64, it *Iteration) (err error) {
	it.reset()
	n := len(F)
	if len(x) != n {
		return chk.Err("initial guess has size %d; expected %d", len(x), n)
	}
	idiag := make([]float64, n)
	for i := 0; i < n; i++ {
		d := K.At(i, i)
		if d == 0 {
			return chk.Err("zero diagonal entry at row %d; Jacobi preconditioner is not defined", i)
		}
		idiag[i] = 1 / d
	}
	r, z, p, q := make([]float64, n), make([]float64, n), make([]float64, n), make([]float64, n)
	mulVec(q, K, x)
	floats.SubTo(r, F, q)
	normF := floats.Norm(F, 2)
	if normF == 0 {
		normF = 1
	}
	floats.MulTo(z, idiag, r)
	copy(p, z)
	ρ := floats.Dot(r, z)
	maxit := it.MaxIter
	if maxit <= 0 {
		maxit = 10 * n
	}
	for it.Iter = 0; it.Iter < maxit; it.Iter++ {
		it.Res = floats.Norm(r, 2) / normF
		if it.Res <= it.Residual {
			it.Converged = true
			return
		}
		mulVec(q, K, p)
		α := ρ / floats.Dot(p, q)
		floats.AddScaled(x, α, p)
		floats.AddScaled(r, -α, q)
		floats.MulTo(z, idiag, r)
		ρnew := floats.Dot(r, z)
		β := ρnew / ρ
		ρ = ρnew
		for i := range p {
			p[i] = z[i] + β*p[i]
		}
	}
	it.Res = floats.Norm(r, 2) / normF
	it.Converged = it.Res <= it.Residual
	return
}

// mulVec computes y = K·x
func mulVec(y []float64, K *sparse.CSR, x []float64) {
	for i := range y {
		y[i] = 0
	}
	K.MulVecTo(y, false, x)
}

// relResidual returns ‖F - K·x‖ / ‖F‖
func relResidual(K *sparse.CSR, x, F []float64) float64 {
	y := make([]float64, len(F))
	mulVec(y, K, x)
	floats.Sub(y, F)
	nF := floats.Norm(F, 2)
	if nF == 0 {
		return floats.Norm(y, 2)
	}
	return floats.Norm(y, 2) / nF
}
