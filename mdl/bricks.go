// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/cpmech/goxfem/shp"
	"github.com/james-bowman/sparse"
)

// linear bricks /////////////////////////////////////////////////////////////////////////////////////

// linearFlags are the flags of symmetric coercive linear bricks
var linearFlags = Flags{Linear: true, Symmetric: true, Coercive: true}

// EllipticBrick implements ∫ A∇u:∇v with A given by the first data (none => Laplacian)
type EllipticBrick struct{}

func (o *EllipticBrick) Name() string { return "Generic elliptic" }
func (o *EllipticBrick) Flags() Flags { return linearFlags }
func (o *EllipticBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	A, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	return asm.GenericElliptic(mats[0], ims[0], mf, A, region)
}

// AddLaplacianBrick adds the term ∫ ∇u·∇v
func AddLaplacianBrick(md *Model, im mim.Integrator, u string, region *inp.Region) (int, error) {
	return md.AddBrick(new(EllipticBrick), []string{u}, nil, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// AddGenericEllipticBrick adds the term ∫ A∇u:∇v. A is a data of size 1, N² or N²Q²
func AddGenericEllipticBrick(md *Model, im mim.Integrator, u, A string, region *inp.Region) (int, error) {
	return md.AddBrick(new(EllipticBrick), []string{u}, []string{A}, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// SourceBrick implements ∫ f·v on the cells of the region or on its faces if it has only faces
type SourceBrick struct{}

func (o *SourceBrick) Name() string { return "Source term" }
func (o *SourceBrick) Flags() Flags { return linearFlags }
func (o *SourceBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	f, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	if region != nil && region.IsOnlyFaces() {
		return asm.BoundarySource(vecs[0], ims[0], mf, f, region)
	}
	return asm.Source(vecs[0], ims[0], mf, f, region)
}

// AddSourceTerm adds the term ∫ f·v
func AddSourceTerm(md *Model, im mim.Integrator, u, f string, region *inp.Region) (int, error) {
	return md.AddBrick(new(SourceBrick), []string{u}, []string{f}, []Term{{Var1: u}}, []mim.Integrator{im}, region)
}

// NormalSourceBrick implements ∫_Γ (H·n)·v
type NormalSourceBrick struct{}

func (o *NormalSourceBrick) Name() string { return "Normal source term" }
func (o *NormalSourceBrick) Flags() Flags { return linearFlags }
func (o *NormalSourceBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	H, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	return asm.NormalSource(vecs[0], ims[0], mf, H, region)
}

// AddNormalSourceTerm adds the term ∫_Γ (H·n)·v. H has Q×N values
func AddNormalSourceTerm(md *Model, im mim.Integrator, u, H string, region *inp.Region) (int, error) {
	return md.AddBrick(new(NormalSourceBrick), []string{u}, []string{H}, []Term{{Var1: u}}, []mim.Integrator{im}, region)
}

// DirichletBrick prescribes u = g on the faces of a region, either with a multiplier
//
//	∫_Γ μ·u = ∫_Γ μ·g
//
// or by penalisation
//
//	|r| ∫_Γ u·v = |r| ∫_Γ g·v
type DirichletBrick struct {
	Penalized bool    // penalisation instead of multiplier
	R         float64 // penalisation coefficient
}

func (o *DirichletBrick) Name() string { return "Dirichlet condition" }
func (o *DirichletBrick) Flags() Flags {
	return Flags{Linear: true, Symmetric: true, Coercive: o.Penalized}
}
func (o *DirichletBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mfu, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	g, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	if o.Penalized {
		M := sparse.NewDOK(mats[0].Dims())
		if err = asm.BoundaryMass(M, ims[0], mfu, mfu, region); err != nil {
			return
		}
		addScaled(mats[0], M, math.Abs(o.R))
		if g != nil {
			if err = asm.BoundarySource(vecs[0], ims[0], mfu, g, region); err != nil {
				return
			}
			for i := range vecs[0] {
				vecs[0][i] *= math.Abs(o.R)
			}
		}
		return
	}
	mfm, err := femOf(md, vars[1])
	if err != nil {
		return
	}
	if mfm.Qdim() != mfu.Qdim() {
		return chk.Err("multiplier %q has %d components but %q has %d", vars[1], mfm.Qdim(), vars[0], mfu.Qdim())
	}
	if err = asm.BoundaryMass(mats[0], ims[0], mfm, mfu, region); err != nil {
		return
	}
	if g != nil {
		err = asm.BoundarySource(vecs[0], ims[0], mfm, g, region)
	}
	return
}

// AddDirichletConditionWithMultipliers prescribes u = g (g = "" => zero) on the faces of region
// using the multiplier variable mult
func AddDirichletConditionWithMultipliers(md *Model, im mim.Integrator, u, mult string, region *inp.Region, g string) (int, error) {
	return md.AddBrick(new(DirichletBrick), []string{u, mult}, dataList(g), []Term{{Var1: mult, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// AddDirichletConditionWithPenalization prescribes u = g (g = "" => zero) on the faces of region
// by penalisation with coefficient r
func AddDirichletConditionWithPenalization(md *Model, im mim.Integrator, u string, r float64, region *inp.Region, g string) (int, error) {
	b := &DirichletBrick{Penalized: true, R: r}
	return md.AddBrick(b, []string{u}, dataList(g), []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// HelmholtzBrick implements ∫ ∇u·∇v - k² u v with the wave number k given by a data
type HelmholtzBrick struct{}

func (o *HelmholtzBrick) Name() string { return "Helmholtz" }
func (o *HelmholtzBrick) Flags() Flags { return Flags{Linear: true, Symmetric: true} }
func (o *HelmholtzBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	k, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	if k == nil || k.Size() != 1 {
		return chk.Err("Helmholtz brick requires a scalar wave number")
	}
	return asm.Helmholtz(mats[0], ims[0], mf, squared{k}, region)
}

// AddHelmholtzBrick adds the term ∫ ∇u·∇v - k² u v
func AddHelmholtzBrick(md *Model, im mim.Integrator, u, k string, region *inp.Region) (int, error) {
	return md.AddBrick(new(HelmholtzBrick), []string{u}, []string{k}, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// FourierRobinBrick implements ∫_Γ (Q u)·v
type FourierRobinBrick struct{}

func (o *FourierRobinBrick) Name() string { return "Fourier Robin condition" }
func (o *FourierRobinBrick) Flags() Flags { return linearFlags }
func (o *FourierRobinBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	Q, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	return asm.QU(mats[0], ims[0], mf, Q, region)
}

// AddFourierRobinBrick adds the term ∫_Γ (Q u)·v. Q has 1 or Q² values
func AddFourierRobinBrick(md *Model, im mim.Integrator, u, Q string, region *inp.Region) (int, error) {
	return md.AddBrick(new(FourierRobinBrick), []string{u}, []string{Q}, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// ConstraintBrick prescribes B·u = L with a multiplier or by penalisation (r BᵀB u = r Bᵀ L)
type ConstraintBrick struct {
	B         *sparse.DOK // constraint matrix
	L         []float64   // right-hand side
	Penalized bool        // penalisation instead of multiplier
	R         float64     // penalisation coefficient
}

func (o *ConstraintBrick) Name() string { return "Constraint" }
func (o *ConstraintBrick) Flags() Flags {
	return Flags{Linear: true, Symmetric: true, Coercive: o.Penalized}
}
func (o *ConstraintBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	m, n := o.B.Dims()
	if len(o.L) != m {
		return chk.Err("constraint right-hand side has %d values; %d expected", len(o.L), m)
	}
	nr, nc := mats[0].Dims()
	if o.Penalized {
		if nr != n {
			return chk.Err("constraint matrix has %d columns but %q has %d dofs", n, vars[0], nr)
		}
		r := math.Abs(o.R)
		rows := make([][]nonzero, m)
		o.B.DoNonZero(func(k, i int, a float64) {
			rows[k] = append(rows[k], nonzero{i, a})
			vecs[0][i] += r * a * o.L[k]
		})
		for _, row := range rows {
			for _, a := range row {
				for _, b := range row {
					asm.AddTo(mats[0], a.j, b.j, r*a.v*b.v)
				}
			}
		}
		return
	}
	if nr != m || nc != n {
		return chk.Err("constraint matrix is %d×%d but the multiplier and variable require %d×%d", m, n, nr, nc)
	}
	addScaled(mats[0], o.B, 1)
	copy(vecs[0], o.L)
	return
}

// AddConstraintWithMultipliers prescribes B·u = L using the fixed size multiplier mult
func AddConstraintWithMultipliers(md *Model, u, mult string, B *sparse.DOK, L []float64) (int, error) {
	return md.AddBrick(&ConstraintBrick{B: B, L: L}, []string{u, mult}, nil, []Term{{Var1: mult, Var2: u, Symmetric: true}}, nil, nil)
}

// AddConstraintWithPenalization prescribes B·u = L by penalisation
func AddConstraintWithPenalization(md *Model, u string, r float64, B *sparse.DOK, L []float64) (int, error) {
	b := &ConstraintBrick{B: B, L: L, Penalized: true, R: r}
	return md.AddBrick(b, []string{u}, nil, []Term{{Var1: u, Var2: u, Symmetric: true}}, nil, nil)
}

// SetConstraint replaces B and L of the constraint brick ib
func SetConstraint(md *Model, ib int, B *sparse.DOK, L []float64) error {
	b, ok := md.Brick(ib).(*ConstraintBrick)
	if !ok {
		return chk.Err("brick %d is not a constraint brick", ib)
	}
	b.B, b.L = B, L
	md.TouchBrick(ib)
	return nil
}

// ExplicitMatrixBrick adds a given matrix to the block (Var1, Var2)
type ExplicitMatrixBrick struct {
	K         *sparse.DOK
	symmetric bool
	coercive  bool
}

func (o *ExplicitMatrixBrick) Name() string { return "Explicit matrix" }
func (o *ExplicitMatrixBrick) Flags() Flags {
	return Flags{Linear: true, Symmetric: o.symmetric, Coercive: o.coercive}
}
func (o *ExplicitMatrixBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) error {
	r, c := mats[0].Dims()
	m, n := o.K.Dims()
	if r != m || c != n {
		return chk.Err("explicit matrix is %d×%d but the variables require %d×%d", m, n, r, c)
	}
	addScaled(mats[0], o.K, 1)
	return nil
}

// AddExplicitMatrix adds K to the block (u1, u2). If symmetric and u1 != u2, Kᵀ is added to the
// block (u2, u1) as well
func AddExplicitMatrix(md *Model, u1, u2 string, K *sparse.DOK, symmetric, coercive bool) (int, error) {
	b := &ExplicitMatrixBrick{K: K, symmetric: symmetric || u1 == u2, coercive: coercive}
	vars := []string{u1}
	if u2 != u1 {
		vars = append(vars, u2)
	}
	return md.AddBrick(b, vars, nil, []Term{{Var1: u1, Var2: u2, Symmetric: symmetric}}, nil, nil)
}

// ExplicitRhsBrick adds a given vector to the right-hand side of a variable
type ExplicitRhsBrick struct {
	F []float64
}

func (o *ExplicitRhsBrick) Name() string { return "Explicit rhs" }
func (o *ExplicitRhsBrick) Flags() Flags { return linearFlags }
func (o *ExplicitRhsBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) error {
	if len(o.F) != len(vecs[0]) {
		return chk.Err("explicit rhs has %d values but %q has %d", len(o.F), vars[0], len(vecs[0]))
	}
	copy(vecs[0], o.F)
	return nil
}

// AddExplicitRhs adds F to the right-hand side of u
func AddExplicitRhs(md *Model, u string, F []float64) (int, error) {
	return md.AddBrick(&ExplicitRhsBrick{F: F}, []string{u}, nil, []Term{{Var1: u}}, nil, nil)
}

// LinearElasticityBrick implements ∫ λ div u div v + 2μ ε(u):ε(v) with data {λ, μ}
type LinearElasticityBrick struct{}

func (o *LinearElasticityBrick) Name() string { return "Isotropic linearized elasticity" }
func (o *LinearElasticityBrick) Flags() Flags { return linearFlags }
func (o *LinearElasticityBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	λ, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	μ, err := coefOf(md, data, 1)
	if err != nil {
		return
	}
	return asm.LinearElasticity(mats[0], ims[0], mf, λ, μ, region)
}

// AddIsotropicLinearizedElasticityBrick adds the linear elasticity term with Lamé data λ and μ
func AddIsotropicLinearizedElasticityBrick(md *Model, im mim.Integrator, u, λ, μ string, region *inp.Region) (int, error) {
	return md.AddBrick(new(LinearElasticityBrick), []string{u}, []string{λ, μ}, []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// IncompressibilityBrick implements -∫ p div v - ∫ q div u and, if penalized, -∫ ε p q
type IncompressibilityBrick struct{}

func (o *IncompressibilityBrick) Name() string { return "Linear incompressibility" }
func (o *IncompressibilityBrick) Flags() Flags { return Flags{Linear: true, Symmetric: true} }
func (o *IncompressibilityBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mfu, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	mfp, err := femOf(md, vars[1])
	if err != nil {
		return
	}
	if err = asm.StokesB(mats[0], ims[0], mfu, mfp, region); err != nil {
		return
	}
	if len(data) > 0 {
		ε, e := coefOf(md, data, 0)
		if e != nil {
			return e
		}
		M := sparse.NewDOK(mats[1].Dims())
		if err = asm.Mass(M, ims[0], mfp, mfp, ε, region); err != nil {
			return
		}
		addScaled(mats[1], M, -1)
	}
	return
}

// AddLinearIncompressibilityBrick couples the displacement u and the pressure p. penal = "" means
// no penalisation
func AddLinearIncompressibilityBrick(md *Model, im mim.Integrator, u, p string, region *inp.Region, penal string) (int, error) {
	terms := []Term{{Var1: p, Var2: u, Symmetric: true}}
	if penal != "" {
		terms = append(terms, Term{Var1: p, Var2: p, Symmetric: true})
	}
	return md.AddBrick(new(IncompressibilityBrick), []string{u, p}, dataList(penal), terms, []mim.Integrator{im}, region)
}

// MassBrick implements ∫ ρ u·v
type MassBrick struct{}

func (o *MassBrick) Name() string { return "Mass" }
func (o *MassBrick) Flags() Flags { return linearFlags }
func (o *MassBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	ρ, err := coefOf(md, data, 0)
	if err != nil {
		return
	}
	return asm.Mass(mats[0], ims[0], mf, mf, ρ, region)
}

// AddMassBrick adds the term ∫ ρ u·v (ρ = "" => 1)
func AddMassBrick(md *Model, im mim.Integrator, u, ρ string, region *inp.Region) (int, error) {
	return md.AddBrick(new(MassBrick), []string{u}, dataList(ρ), []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// TimeDerivativeBrick implements the backward difference α/Δt ∫ (u - u₀)·v where u₀ is the
// previous version of u. data = {Δt, α (optional)}
type TimeDerivativeBrick struct{}

func (o *TimeDerivativeBrick) Name() string { return "Basic first order time derivative" }
func (o *TimeDerivativeBrick) Flags() Flags {
	return Flags{Linear: true, Symmetric: true, Coercive: true, TimeDependent: true}
}
func (o *TimeDerivativeBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {
	mf, err := femOf(md, vars[0])
	if err != nil {
		return
	}
	dt, err := md.Var(data[0])
	if err != nil {
		return
	}
	if len(dt.Values[0]) != 1 || dt.Values[0][0] <= 0 {
		return chk.Err("time step %q must be a positive scalar", data[0])
	}
	α := 1.0
	if len(data) > 1 {
		a, e := md.Var(data[1])
		if e != nil {
			return e
		}
		α = a.Values[0][0]
	}
	u, _ := md.Var(vars[0])
	if len(u.Values) < 2 {
		return chk.Err("variable %q must have two versions to compute its time derivative", vars[0])
	}
	if err = asm.Mass(mats[0], ims[0], mf, mf, asm.Const{α / dt.Values[0][0]}, region); err != nil {
		return
	}
	U0 := u.Values[1]
	mats[0].DoNonZero(func(i, j int, a float64) {
		vecs[0][i] += a * U0[j]
	})
	return
}

// AddBasicFirstOrderTimeDerivative adds the term α/Δt ∫ (u - u₀)·v. u must have two versions
func AddBasicFirstOrderTimeDerivative(md *Model, im mim.Integrator, u, dt, α string, region *inp.Region) (int, error) {
	return md.AddBrick(new(TimeDerivativeBrick), []string{u}, append([]string{dt}, dataList(α)...), []Term{{Var1: u, Var2: u, Symmetric: true}}, []mim.Integrator{im}, region)
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// femOf returns the space of a variable; an error if it is a fixed size variable
func femOf(md *Model, name string) (mfem.MeshFem, error) {
	mf := md.MeshFemOf(name)
	if mf == nil {
		return nil, chk.Err("%q must be a finite element variable", name)
	}
	return mf, nil
}

// coefOf returns the coefficient built with data[k]; nil if absent
func coefOf(md *Model, data []string, k int) (asm.Coef, error) {
	if k >= len(data) {
		return nil, nil
	}
	return md.Coef(data[k])
}

// dataList returns {name} or nil if name is empty
func dataList(name string) []string {
	if name == "" {
		return nil
	}
	return []string{name}
}

// addScaled computes dst += s·src
func addScaled(dst, src *sparse.DOK, s float64) {
	src.DoNonZero(func(i, j int, a float64) {
		asm.AddTo(dst, i, j, s*a)
	})
}

// nonzero holds a column index and a value
type nonzero struct {
	j int
	v float64
}

// squared is a coefficient equal to the square of another scalar one
type squared struct {
	c asm.Coef
}

func (o squared) Size() int { return 1 }
func (o squared) At(cid int, ctx *shp.GeoCtx, dst []float64) error {
	if err := o.c.At(cid, ctx, dst); err != nil {
		return err
	}
	dst[0] *= dst[0]
	return nil
}
