// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fem implements drivers for running simulations with enriched finite element spaces
package fem

import (
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/ana"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/linsol"
	"github.com/cpmech/goxfem/lset"
	"github.com/cpmech/goxfem/mdl"
	"github.com/cpmech/goxfem/mfem"
	"github.com/cpmech/goxfem/mim"
	"github.com/sirupsen/logrus"
)

// enrichment options
const (
	EnrichGlobal  = 1 // singular functions (times cutoff) added as global dofs
	EnrichProduct = 2 // singular functions times a partition of unity near the tip
)

// Dirichlet versions
const (
	DirichletMultiplier = 0 // Lagrange multiplier on the displacement space
	DirichletPenalty    = 1 // penalisation
)

// CrackProblem holds the data of a square [0,1]×[-0.5,0.5] cut by a straight crack from the
// middle of its left side to its centre. The outer faces are loaded by the displacement of the
// asymptotic crack-tip field
type CrackProblem struct {

	// input
	Prms       *inp.Params // parameters
	MeshType   string      // "tri3", "qua4", ...
	Nx         int         // number of divisions along each direction
	Degree     int         // degree of the displacement space
	Order      int         // order of the integration rule on uncut cells
	SimplexIm  string      // rule on sub-simplices
	SingularIm string      // rule on sub-simplices touching the tip; "" => none
	Lambda     float64     // Lamé coefficient λ
	Mu         float64     // Lamé coefficient μ
	Mode       int         // 1 (opening) or 2 (sliding)
	Enrichment int         // EnrichGlobal, EnrichProduct or anything else (Heaviside only)
	EnrRadius  float64     // radius of the enriched area for EnrichProduct
	Cutoff     ana.Cutoff  // window of the singular functions for EnrichGlobal
	Residual   float64     // tolerance of the solver
	MaxIter    int         // maximum number of iterations
	DirVersion int         // DirichletMultiplier or DirichletPenalty
	DirCoef    float64     // penalisation coefficient
	Mixed      bool        // mixed displacement-pressure formulation
	DegreeP    int         // degree of the pressure space
	RootFn     string      // base name of output files
	VtkExport  bool        // write VTU files after solving

	// mesh, level set and integration
	Mesh    *inp.Mesh          // mesh
	Ls      *lset.LevelSet     // primary: crack line; secondary: distance along the crack
	Mls     *lset.MeshLevelSet // cut cells
	Regular *mim.MeshIm        // rules on uncut cells
	Im      *mim.LevelSetIm    // rules on cut cells

	// spaces
	PreU *mfem.Classical       // Lagrange space underlying the displacement
	Mfls *lset.MeshFemLevelSet // Heaviside enriched space
	Sing *mfem.GlobalFunction  // singular functions
	Pu   *mfem.Classical       // partition of unity (EnrichProduct)
	Prod *mfem.Product         // singular functions times partition of unity (EnrichProduct)
	MfU  *mfem.Sum             // displacement space
	MfP  *mfem.Classical       // pressure space (Mixed)

	// reference solution
	Exact   *ana.CrackTipField   // crack-tip field
	MfExact *mfem.GlobalFunction // space of the crack-tip field
	UExact  []float64            // coefficients of the crack-tip field

	// model and results
	Model   *mdl.Model        // model
	Iter    *linsol.Iteration // solver iteration
	U       []float64         // displacement
	P       []float64         // pressure (Mixed)
	Verbose bool              // show messages
}

// NewCrackProblem reads the parameters of a crack problem. Required keys: NX, LAMBDA and MU
func NewCrackProblem(prms *inp.Params) (o *CrackProblem, err error) {
	o = &CrackProblem{Prms: prms}
	if o.Nx, err = prms.Int("NX"); err != nil {
		return nil, err
	}
	if o.Lambda, err = prms.Real("LAMBDA"); err != nil {
		return nil, err
	}
	if o.Mu, err = prms.Real("MU"); err != nil {
		return nil, err
	}
	o.MeshType = prms.StringOr("MESH_TYPE", "tri3")
	o.Degree = prms.IntOr("K", 1)
	o.Order = prms.IntOr("INTEGRATION", 6)
	o.SimplexIm = prms.StringOr("SIMPLEX_INTEGRATION", "IM_TRIANGLE(6)")
	o.SingularIm = prms.StringOr("SINGULAR_INTEGRATION", "IM_QUASI_POLAR(IM_TRIANGLE(6),1)")
	o.Mode = prms.IntOr("MODE", 1)
	o.Enrichment = prms.IntOr("ENRICHMENT_OPTION", EnrichGlobal)
	o.EnrRadius = prms.RealOr("RADIUS_ENR_AREA", 0.2)
	o.Cutoff = ana.Cutoff{
		Kind:   prms.IntOr("CUTOFF_FUNC", ana.NoCutoff),
		Radius: prms.RealOr("CUTOFF", 0.4),
		R1:     prms.RealOr("CUTOFF1", 0.1),
		R0:     prms.RealOr("CUTOFF0", 0.4),
	}
	o.Residual = prms.RealOr("RESIDUAL", 0)
	if o.Residual == 0 {
		o.Residual = 1e-10
	}
	o.MaxIter = prms.IntOr("MAXITER", 1)
	o.DirVersion = prms.IntOr("DIRICHLET_VERSION", DirichletMultiplier)
	o.DirCoef = prms.RealOr("DIRICHLET_COEFFICIENT", 1e10)
	o.Mixed = prms.IntOr("MIXED_PRESSURE", 0) != 0
	o.DegreeP = prms.IntOr("KP", 0)
	o.RootFn = prms.StringOr("ROOTFILENAME", "crack")
	o.VtkExport = prms.IntOr("VTK_EXPORT", 0) != 0

	// check
	if o.Mixed && o.Lambda <= 0 {
		return nil, chk.Err("mixed formulation requires λ > 0; got %g", o.Lambda)
	}
	if o.Cutoff.Kind == ana.PolynomialCutoff && o.Cutoff.R1 >= o.Cutoff.R0 {
		return nil, chk.Err("polynomial cutoff requires CUTOFF1 < CUTOFF0; got %g and %g", o.Cutoff.R1, o.Cutoff.R0)
	}
	if o.Exact, err = ana.NewCrackTipField(o.Mode, o.Lambda, o.Mu); err != nil {
		return nil, err
	}
	return
}

// Init builds the mesh, the level set, the spaces and the model
func (o *CrackProblem) Init() (err error) {
	if err = o.initMesh(); err != nil {
		return
	}
	if err = o.initSpaces(); err != nil {
		return
	}
	return o.initModel()
}

// Solve solves the problem and stores the displacement (and pressure) in U (and P)
func (o *CrackProblem) Solve() (err error) {
	if o.Model == nil {
		return chk.Err("crack problem must be initialised first")
	}
	cputime := time.Now()
	o.Iter = linsol.NewIteration(o.Residual, o.MaxIter, "lu")
	o.Iter.Verbose = o.Verbose
	if err = mdl.StandardSolve(o.Model, o.Iter); err != nil {
		return chk.Err("solve has failed:\n%v", err)
	}
	if o.U, err = o.Model.Variable("u"); err != nil {
		return
	}
	if o.Mixed {
		if o.P, err = o.Model.Variable("p"); err != nil {
			return
		}
	}
	if o.Verbose {
		io.Pflmag("cpu time = %v\n", time.Now().Sub(cputime))
	}
	return
}

// initMesh builds the translated unit mesh and the level set of the crack
func (o *CrackProblem) initMesh() (err error) {
	if o.Mesh, err = inp.RegularUnitMesh(o.MeshType, []int{o.Nx, o.Nx}, nil); err != nil {
		return
	}
	if o.Mesh.Ndim != 2 {
		return chk.Err("crack problem is only available in 2D; got %q", o.MeshType)
	}
	o.Mesh.Translate([]float64{0, -0.5})
	if o.Ls, err = lset.NewLevelSet(o.Mesh, 1, true); err != nil {
		return
	}
	o.Ls.SetValues(
		func(x []float64) float64 { return x[1] },
		func(x []float64) float64 { return x[0] - 0.5 },
	)
	o.Mls = lset.NewMeshLevelSet(o.Mesh)
	if err = o.Mls.AddLevelSet(o.Ls); err != nil {
		return
	}
	if err = o.Mls.Adapt(); err != nil {
		return
	}
	if o.Regular, err = mim.NewMeshIm(o.Mesh, o.Order); err != nil {
		return
	}
	o.Im, err = mim.NewLevelSetIm(o.Mls, mim.All, o.Regular, o.SimplexIm, o.SingularIm)
	return
}

// initSpaces builds the displacement space and the space of the reference solution
func (o *CrackProblem) initSpaces() (err error) {
	if o.PreU, err = mfem.NewClassical(o.Mesh, o.Degree, 1); err != nil {
		return
	}
	if o.Mfls, err = lset.NewMeshFemLevelSet(o.Mls, o.PreU, 0); err != nil {
		return
	}

	// singular functions
	exact := make([]mfem.GlobalFunc, ana.NbSingular)
	sing := make([]mfem.GlobalFunc, ana.NbSingular)
	for j := 0; j < ana.NbSingular; j++ {
		exact[j] = lset.OnLevelSet{Ls: o.Ls, F: ana.Singular{Mode: j}}
		sing[j] = lset.OnLevelSet{Ls: o.Ls, F: ana.Product{A: ana.Singular{Mode: j}, B: o.Cutoff}}
	}
	o.MfExact = mfem.NewGlobalFunction(o.Mesh, 2, exact...)
	o.UExact = o.Exact.U[:]

	// displacement space
	switch o.Enrichment {
	case EnrichGlobal:
		o.Sing = mfem.NewGlobalFunction(o.Mesh, 1, sing...)
		o.MfU, err = mfem.NewSum(2, o.Sing, o.Mfls)
	case EnrichProduct:
		o.Sing = mfem.NewGlobalFunction(o.Mesh, 1, exact...)
		if o.Pu, err = mfem.NewClassical(o.Mesh, 1, 1); err != nil {
			return
		}
		X, Y := make([]float64, o.Pu.NbBasicDof()), make([]float64, o.Pu.NbBasicDof())
		for j := range X {
			x := o.Pu.DofPoint(j)
			var v []float64
			if v, err = mfem.EvalAtPoint(o.Ls.Mf, o.Ls.Values(1), x); err != nil {
				return
			}
			X[j] = v[0]
			if v, err = mfem.EvalAtPoint(o.Ls.Mf, o.Ls.Values(0), x); err != nil {
				return
			}
			Y[j] = v[0]
		}
		if o.Prod, err = mfem.NewProduct(1, o.Pu, o.Sing, mfem.EnrichedInBall(X, Y, o.EnrRadius)); err != nil {
			return
		}
		o.MfU, err = mfem.NewSum(2, o.Prod, o.Mfls)
	default:
		o.MfU, err = mfem.NewSum(2, o.Mfls)
	}
	if err != nil {
		return
	}

	// pressure space
	if o.Mixed {
		o.MfP, err = mfem.NewClassical(o.Mesh, o.DegreeP, 1)
	}
	return
}

// initModel adds the variables and the bricks
func (o *CrackProblem) initModel() (err error) {
	md := mdl.NewModel()
	if err = md.AddFemVariable("u", o.MfU, 1); err != nil {
		return
	}

	// elasticity
	λ := o.Lambda
	if o.Mixed {
		λ = 0
	}
	if err = md.AddInitializedData("lambda", []float64{λ}); err != nil {
		return
	}
	if err = md.AddInitializedData("mu", []float64{o.Mu}); err != nil {
		return
	}
	if _, err = mdl.AddIsotropicLinearizedElasticityBrick(md, o.Im, "u", "lambda", "mu", nil); err != nil {
		return
	}

	// incompressibility
	if o.Mixed {
		if err = md.AddFemVariable("p", o.MfP, 1); err != nil {
			return
		}
		if err = md.AddInitializedData("penal", []float64{1.0 / o.Lambda}); err != nil {
			return
		}
		if _, err = mdl.AddLinearIncompressibilityBrick(md, o.Im, "u", "p", nil, "penal"); err != nil {
			return
		}
	}

	// Dirichlet condition on all outer faces
	if err = md.AddFemData("uexact", o.MfExact); err != nil {
		return
	}
	if err = md.SetVariable("uexact", o.UExact); err != nil {
		return
	}
	faces := o.Mesh.OuterFaces()
	switch o.DirVersion {
	case DirichletMultiplier:
		if err = md.AddMultiplier("mult", o.MfU, "u"); err != nil {
			return
		}
		_, err = mdl.AddDirichletConditionWithMultipliers(md, o.Im, "u", "mult", faces, "uexact")
	case DirichletPenalty:
		_, err = mdl.AddDirichletConditionWithPenalization(md, o.Im, "u", o.DirCoef, faces, "uexact")
	default:
		err = chk.Err("Dirichlet version %d is not available; it must be 0 or 1", o.DirVersion)
	}
	if err != nil {
		return
	}

	// summary
	ndof, err := md.NbDof()
	if err != nil {
		return
	}
	fields := logrus.Fields{"u": o.MfU.NbDof(), "total": ndof, "split": o.Mfls.NbSplit(), "tips": len(o.Mls.SingularPoints())}
	if o.Mixed {
		fields["p"] = o.MfP.NbDof()
	}
	inp.Info(fields, "crack problem initialised")
	if o.Verbose {
		io.Pf("%s", md.ListVariables())
	}
	o.Model = md
	return
}
