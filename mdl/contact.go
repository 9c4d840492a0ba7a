// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdl

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/mim"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

// ball projection ///////////////////////////////////////////////////////////////////////////////////

// BallProjection returns the projection of x onto the ball of radius ρ centred at the origin.
// ρ ≤ 0 gives the zero vector
func BallProjection(x []float64, ρ float64) (res []float64) {
	res = make([]float64, len(x))
	if ρ <= 0 {
		return
	}
	copy(res, x)
	if nx := floats.Norm(x, 2); nx > ρ {
		floats.Scale(ρ/nx, res)
	}
	return
}

// BallProjectionGrad returns ∂P/∂x: the identity inside the ball and (ρ/|x|)(I - x̂⊗x̂) outside
func BallProjectionGrad(x []float64, ρ float64) (G [][]float64) {
	n := len(x)
	G = utl.Alloc(n, n)
	if ρ <= 0 {
		return
	}
	nx := floats.Norm(x, 2)
	if nx <= ρ {
		for i := 0; i < n; i++ {
			G[i][i] = 1
		}
		return
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			G[i][j] = -ρ * x[i] * x[j] / (nx * nx * nx)
		}
		G[i][i] += ρ / nx
	}
	return
}

// BallProjectionGradR returns ∂P/∂ρ: x̂ outside the ball and zero inside
func BallProjectionGradR(x []float64, ρ float64) (g []float64) {
	g = make([]float64, len(x))
	nx := floats.Norm(x, 2)
	if ρ > 0 && nx > ρ {
		for i := range x {
			g[i] = x[i] / nx
		}
	}
	return
}

// contact brick /////////////////////////////////////////////////////////////////////////////////////

// ContactStatus prescribes the state of a contact node
type ContactStatus int

const (
	Computed ContactStatus = iota // given by the projections
	Free                          // no contact
	Stick                         // contact without slip
	Slip                          // contact with slip
)

// ContactOptions holds the optional data of contact bricks
type ContactOptions struct {
	Alpha            []float64             // [nbc] scaling of the gap; nil => 1
	WN               []float64             // [nu] reference displacement for the normal gap; nil => 0
	WT               []float64             // [nu] previous displacement for the tangential slip; nil => 0
	Threshold        []float64             // [nbc] Tresca thresholds; nil => Coulomb friction
	Aug              *sparse.DOK           // [nbc][nbc] augmentation matrix (stabilised formulation)
	Symmetrized      bool                  // projected multipliers in the equilibrium equations
	ReallyStationary bool                  // tangential trial value uses B_T·u instead of B_T·(u - WT)
	CH               map[int]ContactStatus // prescribed status of some contact nodes
}

// ContactBrick implements unilateral contact with Coulomb (or Tresca) friction on nbc nodes by an
// augmented Lagrangian with projections:
//
//	λ̃_N = λ_N + r (α (gap - B_N·(u - WN)) - Aug·λ_N)          P_N = min(0, λ̃_N)
//	λ̃_T = λ_T - r α B_T·(u - WT)                             P_T = BallProjection(λ̃_T, μ (-P_N))
//
// Without friction (BT == nil) the tangential multiplier does not exist
type ContactBrick struct {
	BN       *sparse.DOK // [nbc][nu] normal coupling
	BT       *sparse.DOK // [nbc*(d-1)][nu] tangential coupling; nil => contact only
	Gap      []float64   // [nbc] gaps
	Friction []float64   // [nbc] friction coefficients
	R        float64     // augmentation parameter
	Opts     ContactOptions

	// state after last computation
	Active   []bool // [nbc] in contact
	Slipping []bool // [nbc] slipping
}

func (o *ContactBrick) Name() string { return "Basic contact" }
func (o *ContactBrick) Flags() Flags {
	return Flags{Symmetric: o.Opts.Symmetrized && o.BT == nil}
}

// NbContacts returns the number of contact nodes
func (o *ContactBrick) NbContacts() int {
	n, _ := o.BN.Dims()
	return n
}

// HasFriction tells whether the tangential multiplier exists
func (o *ContactBrick) HasFriction() bool { return o.BT != nil }

func (o *ContactBrick) AsmTerms(md *Model, ib int, vars, data []string, ims []mim.Integrator, region *inp.Region, mats []*sparse.DOK, vecs [][]float64, flag Flag) (err error) {

	// data
	U := md.vars[vars[0]].Values[0]
	LN := md.vars[vars[1]].Values[0]
	nbc, nu := o.BN.Dims()
	if nu != len(U) {
		return chk.Err("normal coupling matrix has %d columns but %q has %d dofs", nu, vars[0], len(U))
	}
	if len(o.Gap) != nbc {
		return chk.Err("gap has %d values; %d expected", len(o.Gap), nbc)
	}
	if o.R <= 0 {
		return chk.Err("augmentation parameter must be positive; r = %g", o.R)
	}
	r := o.R
	α := func(i int) float64 {
		if o.Opts.Alpha == nil {
			return 1
		}
		return o.Opts.Alpha[i]
	}

	// rows of coupling matrices
	rowsN := sparseRows(o.BN)
	var rowsT [][]nonzero
	var LT []float64
	dt := 0
	if o.BT != nil {
		LT = md.vars[vars[2]].Values[0]
		m, n := o.BT.Dims()
		if n != nu || m%nbc != 0 {
			return chk.Err("tangential coupling matrix is %d×%d; it must have %d columns and a multiple of %d rows", m, n, nu, nbc)
		}
		dt = m / nbc
		rowsT = sparseRows(o.BT)
	}

	// trial multipliers
	uN := sub(U, o.Opts.WN)
	var augL []float64
	if o.Opts.Aug != nil {
		augL = make([]float64, nbc)
		o.Opts.Aug.DoNonZero(func(i, j int, a float64) { augL[i] += a * LN[j] })
	}
	o.Active = make([]bool, nbc)
	o.Slipping = make([]bool, nbc)
	H := make([]float64, nbc)  // 1 if active
	PN := make([]float64, nbc) // projected normal multiplier
	for i := 0; i < nbc; i++ {
		λ := LN[i] + r*α(i)*(o.Gap[i]-dot(rowsN[i], uN))
		if augL != nil {
			λ -= r * augL[i]
		}
		active := λ < 0
		switch o.Opts.CH[i] {
		case Free:
			active = false
		case Stick, Slip:
			active = true
		}
		if active {
			H[i], PN[i] = 1, λ
			o.Active[i] = true
		}
	}

	// tangential projections
	var PT []float64    // [nbc*dt]
	var G [][][]float64 // [nbc][dt][dt]
	var gr [][]float64  // [nbc][dt]
	var dρdN []float64  // [nbc] ∂ρ/∂λ̃_N
	if dt > 0 {
		uT := U
		if !o.Opts.ReallyStationary {
			uT = sub(U, o.Opts.WT)
		}
		PT = make([]float64, nbc*dt)
		G = make([][][]float64, nbc)
		gr = make([][]float64, nbc)
		dρdN = make([]float64, nbc)
		x := make([]float64, dt)
		for i := 0; i < nbc; i++ {
			for c := 0; c < dt; c++ {
				x[c] = LT[i*dt+c] - r*α(i)*dot(rowsT[i*dt+c], uT)
			}
			var ρ float64
			if o.Opts.Threshold != nil {
				ρ = o.Opts.Threshold[i] * H[i]
			} else {
				ρ = -o.Friction[i] * PN[i]
				dρdN[i] = -o.Friction[i] * H[i]
			}
			var p []float64
			switch o.Opts.CH[i] {
			case Free:
				p, G[i], gr[i] = make([]float64, dt), utl.Alloc(dt, dt), make([]float64, dt)
				o.Slipping[i] = false
			case Stick:
				p, G[i], gr[i] = append([]float64{}, x...), utl.Alloc(dt, dt), make([]float64, dt)
				for c := 0; c < dt; c++ {
					G[i][c][c] = 1
				}
				o.Slipping[i] = false
			case Slip:
				p, G[i], gr[i] = slipProjection(x, ρ)
				o.Slipping[i] = true
			default:
				p, G[i], gr[i] = BallProjection(x, ρ), BallProjectionGrad(x, ρ), BallProjectionGradR(x, ρ)
				o.Slipping[i] = o.Active[i] && floats.Norm(x, 2) > ρ
			}
			copy(PT[i*dt:], p)
		}
	}

	// sign of multiplier equations
	s := 1.0
	if o.Opts.Symmetrized {
		s = -1.0
	}

	// right-hand sides
	if flag&BuildRhs != 0 {
		fN, fT := LN, LT
		if o.Opts.Symmetrized {
			fN, fT = PN, PT
		}
		for i := 0; i < nbc; i++ {
			for _, a := range rowsN[i] {
				vecs[0][a.j] += a.v * fN[i]
			}
			vecs[2][i] = -s * (LN[i] - PN[i]) / r
		}
		for k := 0; k < nbc*dt; k++ {
			for _, a := range rowsT[k] {
				vecs[0][a.j] += a.v * fT[k]
			}
			vecs[5][k] = -s * (LT[k] - PT[k]) / r
		}
	}
	if flag&BuildMatrix == 0 {
		return
	}

	// ∂λ̃_N/∂λ_N = I - r Aug
	dN := func(i int, fn func(j int, v float64)) {
		fn(i, 1)
		if o.Opts.Aug != nil {
			o.Opts.Aug.DoNonZero(func(k, j int, a float64) {
				if k == i {
					fn(j, -r*a)
				}
			})
		}
	}

	// normal block
	for i := 0; i < nbc; i++ {
		if o.Opts.Symmetrized {
			for _, a := range rowsN[i] {
				for _, b := range rowsN[i] {
					asm.AddTo(mats[0], a.j, b.j, r*α(i)*H[i]*a.v*b.v)
				}
				dN(i, func(j int, v float64) { asm.AddTo(mats[1], a.j, j, -H[i]*a.v*v) })
			}
		} else {
			for _, a := range rowsN[i] {
				asm.AddTo(mats[1], a.j, i, -a.v)
			}
		}
		for _, a := range rowsN[i] {
			asm.AddTo(mats[2], i, a.j, s*H[i]*α(i)*a.v)
		}
		asm.AddTo(mats[3], i, i, s*(1-H[i])/r)
		if H[i] > 0 {
			dN(i, func(j int, v float64) {
				if j == i {
					v -= 1
				}
				asm.AddTo(mats[3], i, j, -s*v/r)
			})
		}
	}
	if dt == 0 {
		return
	}

	// tangential block
	for i := 0; i < nbc; i++ {
		for c := 0; c < dt; c++ {
			k := i*dt + c
			if o.Opts.Symmetrized {
				for _, a := range rowsT[k] {
					for c2 := 0; c2 < dt; c2++ {
						g := G[i][c][c2]
						if g == 0 {
							continue
						}
						for _, b := range rowsT[i*dt+c2] {
							asm.AddTo(mats[0], a.j, b.j, r*α(i)*a.v*g*b.v)
						}
						asm.AddTo(mats[4], a.j, i*dt+c2, -a.v*g)
					}
					if f := dρdN[i] * gr[i][c]; f != 0 {
						for _, b := range rowsN[i] {
							asm.AddTo(mats[0], a.j, b.j, r*α(i)*a.v*f*b.v)
						}
						dN(i, func(j int, v float64) { asm.AddTo(mats[1], a.j, j, -a.v*f*v) })
					}
				}
			} else {
				for _, a := range rowsT[k] {
					asm.AddTo(mats[4], a.j, k, -a.v)
				}
			}

			// ∂R_T/∂u, ∂R_T/∂λ_T, ∂R_T/∂λ_N
			for c2 := 0; c2 < dt; c2++ {
				g := G[i][c][c2]
				for _, b := range rowsT[i*dt+c2] {
					asm.AddTo(mats[5], k, b.j, s*α(i)*g*b.v)
				}
				v := -g
				if c == c2 {
					v += 1
				}
				asm.AddTo(mats[6], k, i*dt+c2, s*v/r)
			}
			if f := dρdN[i] * gr[i][c]; f != 0 {
				for _, b := range rowsN[i] {
					asm.AddTo(mats[5], k, b.j, s*α(i)*f*b.v)
				}
				dN(i, func(j int, v float64) { asm.AddTo(mats[7], k, j, -s*f*v/r) })
			}
		}
	}
	return
}

// AddBasicContactBrick adds a contact brick with Coulomb friction between the displacement u and
// the new multipliers multN (nbc values) and multT (nbc·(d-1) values). If all friction
// coefficients are zero and no Tresca threshold is given, the contact only formulation is used
// and multT is not created
func AddBasicContactBrick(md *Model, u, multN, multT string, r float64, BN, BT *sparse.DOK, gap, friction []float64, opts ContactOptions) (ib int, err error) {
	frictionless := opts.Threshold == nil
	for _, μ := range friction {
		if μ != 0 {
			frictionless = false
		}
	}
	if frictionless || BT == nil {
		return AddContactOnlyBrick(md, u, multN, r, BN, gap, opts)
	}
	nbc, _ := BN.Dims()
	m, _ := BT.Dims()
	if len(friction) != nbc && opts.Threshold == nil {
		return -1, chk.Err("friction coefficients have %d values; %d expected", len(friction), nbc)
	}
	if err = md.AddFixedSizeVariable(multN, nbc, 1); err != nil {
		return -1, err
	}
	if err = md.AddFixedSizeVariable(multT, m, 1); err != nil {
		return -1, err
	}
	b := &ContactBrick{BN: BN, BT: BT, Gap: gap, Friction: friction, R: r, Opts: opts}
	terms := []Term{
		{Var1: u, Var2: u}, {Var1: u, Var2: multN}, {Var1: multN, Var2: u}, {Var1: multN, Var2: multN},
		{Var1: u, Var2: multT}, {Var1: multT, Var2: u}, {Var1: multT, Var2: multT}, {Var1: multT, Var2: multN},
	}
	return md.AddBrick(b, []string{u, multN, multT}, nil, terms, nil, nil)
}

// AddContactOnlyBrick adds a frictionless contact brick between the displacement u and the new
// multiplier multN
func AddContactOnlyBrick(md *Model, u, multN string, r float64, BN *sparse.DOK, gap []float64, opts ContactOptions) (ib int, err error) {
	nbc, _ := BN.Dims()
	if err = md.AddFixedSizeVariable(multN, nbc, 1); err != nil {
		return -1, err
	}
	b := &ContactBrick{BN: BN, Gap: gap, R: r, Opts: opts}
	terms := []Term{{Var1: u, Var2: u}, {Var1: u, Var2: multN}, {Var1: multN, Var2: u}, {Var1: multN, Var2: multN}}
	return md.AddBrick(b, []string{u, multN}, nil, terms, nil, nil)
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

// slipProjection returns the projection onto the sphere of radius ρ and its derivatives
func slipProjection(x []float64, ρ float64) (p []float64, G [][]float64, g []float64) {
	n := len(x)
	p, G, g = make([]float64, n), utl.Alloc(n, n), make([]float64, n)
	nx := floats.Norm(x, 2)
	if nx == 0 || ρ <= 0 {
		return
	}
	for i := 0; i < n; i++ {
		g[i] = x[i] / nx
		p[i] = ρ * g[i]
		for j := 0; j < n; j++ {
			G[i][j] = -ρ * x[i] * x[j] / (nx * nx * nx)
		}
		G[i][i] += ρ / nx
	}
	return
}

// sparseRows returns the nonzero entries of each row of M
func sparseRows(M *sparse.DOK) (rows [][]nonzero) {
	m, _ := M.Dims()
	rows = make([][]nonzero, m)
	M.DoNonZero(func(i, j int, v float64) {
		rows[i] = append(rows[i], nonzero{j, v})
	})
	return
}

// dot returns row·x
func dot(row []nonzero, x []float64) (res float64) {
	for _, a := range row {
		res += a.v * x[a.j]
	}
	return
}

// sub returns u - w (u if w is nil)
func sub(u, w []float64) []float64 {
	if w == nil {
		return u
	}
	res := make([]float64, len(u))
	floats.SubTo(res, u, w)
	return res
}
