// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdl implements models: a set of named variables and data plus a list of bricks
// contributing terms to one global tangent system
package mdl

import (
	"bytes"
	"math"
	"unicode"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/goxfem/asm"
	"github.com/cpmech/goxfem/inp"
	"github.com/cpmech/goxfem/linsol"
	"github.com/cpmech/goxfem/mfem"
	"github.com/james-bowman/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"
)

// FilterTol is the tolerance used to select the independent multiplier dofs
var FilterTol = 1e-12

// Var holds a variable (unknown) or a data
type Var struct {
	Name       string       // name
	IsVariable bool         // unknown of the system; false => data
	Mf         mfem.MeshFem // space; nil => fixed size
	Primal     string       // primal variable of a multiplier; "" => not a multiplier
	Values     [][]float64  // [nversions][size] values; Values[0] is the current one

	// internal
	partial *mfem.Partial // filter of multiplier
	size    int           // size of fixed size variables
	i0, i1  int           // interval in global system
	version int           // incremented when the size or numbering changes
	valVer  int           // incremented when data values are set
	shifts  int           // number of shifts of versions
	mfVer   int           // version of underlying space when sizes were actualized
}

// IsMultiplier tells whether the variable is a multiplier
func (o *Var) IsMultiplier() bool { return o.Primal != "" }

// Size returns the number of values
func (o *Var) Size() int {
	if o.Mf != nil {
		return o.Mf.NbDof()
	}
	return o.size
}

// baseMf returns the space before filtering
func (o *Var) baseMf() mfem.MeshFem {
	if o.partial != nil {
		return o.partial.Mf
	}
	return o.Mf
}

// depVersion returns a number that increases whenever something a brick may depend on changes
func (o *Var) depVersion(timeDependent bool) (v int) {
	v = o.version + o.valVer
	if o.Mf != nil {
		v += o.Mf.Version()
	}
	if timeDependent {
		v += o.shifts
	}
	return
}

// Model holds variables, data and bricks
type Model struct {
	Verbose bool // show messages

	vars    map[string]*Var
	names   []string // declaration order
	bricks  []*entry
	nbdof   int
	sizesOk bool
	busy    bool // actualizing sizes
	K       *sparse.DOK // last assembled tangent matrix
	rhs     []float64   // last assembled right-hand side
}

// NewModel returns a new model
func NewModel() *Model {
	return &Model{vars: make(map[string]*Var)}
}

// variables and data ///////////////////////////////////////////////////////////////////////////////

// ValidName tells whether name starts with a letter and contains only letters, digits and '_'
func ValidName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		if i == 0 && !unicode.IsLetter(c) {
			return false
		}
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_' {
			return false
		}
	}
	return true
}

// VariableExists tells whether a variable or data called name exists
func (o *Model) VariableExists(name string) bool {
	_, ok := o.vars[name]
	return ok
}

// NewName returns name if it is free; otherwise name_2, name_3, ...
func (o *Model) NewName(name string) string {
	if !o.VariableExists(name) {
		return name
	}
	for i := 2; ; i++ {
		s := io.Sf("%s_%d", name, i)
		if !o.VariableExists(s) {
			return s
		}
	}
}

// add adds a new variable or data
func (o *Model) add(v *Var, nversions int) error {
	if !ValidName(v.Name) {
		return chk.Err("invalid variable name %q: names must start with a letter and contain only letters, digits and '_'", v.Name)
	}
	if o.VariableExists(v.Name) {
		return chk.Err("variable %q already exists", v.Name)
	}
	if nversions < 1 {
		nversions = 1
	}
	v.Values = make([][]float64, nversions)
	for k := range v.Values {
		v.Values[k] = make([]float64, v.Size())
	}
	if v.Mf != nil {
		v.mfVer = v.baseMf().Version()
	}
	o.vars[v.Name] = v
	o.names = append(o.names, v.Name)
	o.sizesOk = false
	return nil
}

// AddFixedSizeVariable adds an unknown with size values. nversions > 1 keeps previous values
func (o *Model) AddFixedSizeVariable(name string, size, nversions int) error {
	return o.add(&Var{Name: name, IsVariable: true, size: size}, nversions)
}

// AddFemVariable adds an unknown described by a finite element space
func (o *Model) AddFemVariable(name string, mf mfem.MeshFem, nversions int) error {
	return o.add(&Var{Name: name, IsVariable: true, Mf: mf}, nversions)
}

// AddMultiplier adds a multiplier on mf tied to the primal variable. The multiplier dofs are
// filtered so that only independent constraints remain
func (o *Model) AddMultiplier(name string, mf mfem.MeshFem, primal string) error {
	p, ok := o.vars[primal]
	if !ok || !p.IsVariable {
		return chk.Err("primal variable %q of multiplier %q does not exist", primal, name)
	}
	partial, err := mfem.NewPartial(mf, allTrue(mf.NbDof()))
	if err != nil {
		return err
	}
	return o.add(&Var{Name: name, IsVariable: true, Mf: partial, Primal: primal, partial: partial}, 1)
}

// AddFixedSizeData adds a data with size values (set to zero)
func (o *Model) AddFixedSizeData(name string, size int) error {
	return o.add(&Var{Name: name, size: size}, 1)
}

// AddInitializedData adds a data with the given values
func (o *Model) AddInitializedData(name string, values []float64) error {
	if err := o.add(&Var{Name: name, size: len(values)}, 1); err != nil {
		return err
	}
	copy(o.vars[name].Values[0], values)
	return nil
}

// AddFemData adds a data described by a finite element space
func (o *Model) AddFemData(name string, mf mfem.MeshFem) error {
	return o.add(&Var{Name: name, Mf: mf}, 1)
}

// Var returns the variable or data called name
func (o *Model) Var(name string) (*Var, error) {
	v, ok := o.vars[name]
	if !ok {
		return nil, chk.Err("variable %q does not exist", name)
	}
	return v, nil
}

// Variable returns the current values of a variable or data
func (o *Model) Variable(name string) ([]float64, error) {
	return o.VariableVersion(name, 0)
}

// VariableVersion returns the values of version k of a variable (k = 0 is the current one)
func (o *Model) VariableVersion(name string, k int) ([]float64, error) {
	v, err := o.Var(name)
	if err != nil {
		return nil, err
	}
	if err = o.ActualizeSizes(); err != nil {
		return nil, err
	}
	if k < 0 || k >= len(v.Values) {
		return nil, chk.Err("variable %q has %d versions; version %d is not available", name, len(v.Values), k)
	}
	return v.Values[k], nil
}

// SetVariable sets the current values of a variable or data
func (o *Model) SetVariable(name string, values []float64) error {
	v, err := o.Var(name)
	if err != nil {
		return err
	}
	if err = o.ActualizeSizes(); err != nil {
		return err
	}
	if len(values) != len(v.Values[0]) {
		return chk.Err("variable %q has %d values; %d given", name, len(v.Values[0]), len(values))
	}
	copy(v.Values[0], values)
	if !v.IsVariable {
		v.valVer++
	}
	return nil
}

// MeshFemOf returns the space of a variable or data; nil if fixed size
func (o *Model) MeshFemOf(name string) mfem.MeshFem {
	if v, ok := o.vars[name]; ok {
		return v.Mf
	}
	return nil
}

// Coef returns a coefficient built with a data: constant if fixed size, field otherwise.
// An empty name gives nil (= 1)
func (o *Model) Coef(name string) (asm.Coef, error) {
	if name == "" {
		return nil, nil
	}
	v, err := o.Var(name)
	if err != nil {
		return nil, err
	}
	if v.Mf == nil {
		return asm.Const(v.Values[0]), nil
	}
	return asm.NewFemCoef(v.Mf, v.Values[0])
}

// Touch marks all bricks as to be recomputed
func (o *Model) Touch() {
	for _, e := range o.bricks {
		e.computed = false
	}
}

// ShiftVariables lets time dependent bricks store their state and then copies each version of
// the variables to the next one
func (o *Model) ShiftVariables() (err error) {
	for ib, e := range o.bricks {
		if s, ok := e.brick.(Shifter); ok {
			if err = s.NextIter(o, ib); err != nil {
				return
			}
		}
	}
	for _, v := range o.vars {
		for k := len(v.Values) - 1; k > 0; k-- {
			copy(v.Values[k], v.Values[k-1])
		}
		if len(v.Values) > 1 {
			v.shifts++
		}
	}
	return
}

// sizes ////////////////////////////////////////////////////////////////////////////////////////////

// ActualizeSizes recomputes multiplier filters and intervals if any space changed
func (o *Model) ActualizeSizes() (err error) {
	if o.busy {
		return
	}
	changed := !o.sizesOk
	for _, v := range o.vars {
		if v.Mf != nil && v.baseMf().Version() != v.mfVer {
			changed = true
		}
	}
	if !changed {
		return
	}

	o.busy = true
	defer func() { o.busy = false }()

	// resize values and reset filters
	for _, name := range o.names {
		v := o.vars[name]
		if v.partial != nil {
			if err = v.partial.SetKept(allTrue(v.partial.Mf.NbDof())); err != nil {
				return
			}
		}
		o.resize(v)
	}

	// filter multipliers
	groups := make(map[string][]string)
	var primals []string
	for _, name := range o.names {
		if p := o.vars[name].Primal; p != "" {
			if _, ok := groups[p]; !ok {
				primals = append(primals, p)
			}
			groups[p] = append(groups[p], name)
		}
	}
	for _, p := range primals {
		if err = o.filterMultipliers(p, groups[p]); err != nil {
			return
		}
	}

	// intervals and values
	o.nbdof = 0
	for _, name := range o.names {
		v := o.vars[name]
		n := v.Size()
		if v.IsVariable {
			v.i0, v.i1 = o.nbdof, o.nbdof+n
			o.nbdof += n
		}
		if v.Mf != nil {
			o.resize(v)
			v.mfVer = v.baseMf().Version()
			v.version++
		}
	}
	o.sizesOk = true
	for _, e := range o.bricks {
		e.computed = false
	}
	if o.Verbose {
		io.Pfyel("model: %d dofs\n", o.nbdof)
	}
	return
}

// resize zeroes the values of a variable whose size changed
func (o *Model) resize(v *Var) {
	n := v.Size()
	if len(v.Values[0]) != n {
		for k := range v.Values {
			v.Values[k] = make([]float64, n)
		}
	}
}

// filterMultipliers keeps the multiplier dofs corresponding to independent rows of the stacked
// coupling matrices between multipliers and their primal variable
func (o *Model) filterMultipliers(primal string, mults []string) (err error) {
	np := o.vars[primal].Size()
	var blocks []*sparse.DOK
	var used []string
	for _, mult := range mults {
		B, found, e := o.couplingMatrix(mult, primal)
		if e != nil {
			return e
		}
		if !found {
			inp.Warn(logrus.Fields{"multiplier": mult, "primal": primal}, "no term present to filter the multiplier")
			continue
		}
		blocks = append(blocks, B)
		used = append(used, mult)
	}
	if len(blocks) == 0 {
		return
	}

	// columns of Bᵀ = rows of B
	ncols := 0
	for _, B := range blocks {
		r, _ := B.Dims()
		ncols += r
	}
	Bt := mat.NewDense(np, ncols, nil)
	offset := 0
	for _, B := range blocks {
		B.DoNonZero(func(i, j int, v float64) {
			Bt.Set(j, offset+i, Bt.At(j, offset+i)+v)
		})
		r, _ := B.Dims()
		offset += r
	}
	cols := linsol.RangeBasis(Bt, FilterTol)

	// kept dofs
	offset = 0
	k := 0
	for idx, mult := range used {
		r, _ := blocks[idx].Dims()
		kept := make([]bool, r)
		for k < len(cols) && cols[k] < offset+r {
			kept[cols[k]-offset] = true
			k++
		}
		offset += r
		if err = o.vars[mult].partial.SetKept(kept); err != nil {
			return
		}
		if o.Verbose {
			io.Pforan("multiplier %q: %d of %d dofs kept\n", mult, mfem.CountTrue(kept), r)
		}
	}
	return
}

// couplingMatrix computes the sum of the matrices of terms coupling mult (rows) and primal
func (o *Model) couplingMatrix(mult, primal string) (B *sparse.DOK, found bool, err error) {
	nm, np := o.vars[mult].Size(), o.vars[primal].Size()
	B = sparse.NewDOK(nm, np)
	for ib, e := range o.bricks {
		has := false
		for _, t := range e.terms {
			if (t.Var1 == mult && t.Var2 == primal) || (t.Var1 == primal && t.Var2 == mult) {
				has = true
			}
		}
		if !has {
			continue
		}
		mats, _, err := o.computeTerms(ib, e, BuildMatrix)
		if err != nil {
			return nil, false, err
		}
		for k, t := range e.terms {
			switch {
			case t.Var1 == mult && t.Var2 == primal:
				mats[k].DoNonZero(func(i, j int, v float64) { asm.AddTo(B, i, j, v) })
			case t.Var1 == primal && t.Var2 == mult:
				mats[k].DoNonZero(func(i, j int, v float64) { asm.AddTo(B, j, i, v) })
			default:
				continue
			}
			found = true
		}
	}
	return
}

// NbDof returns the size of the global system
func (o *Model) NbDof() (int, error) {
	err := o.ActualizeSizes()
	return o.nbdof, err
}

// Interval returns the interval [i0, i1) of a variable in the global system
func (o *Model) Interval(name string) (i0, i1 int, err error) {
	v, err := o.Var(name)
	if err != nil {
		return
	}
	if !v.IsVariable {
		return 0, 0, chk.Err("%q is a data; only variables have an interval", name)
	}
	if err = o.ActualizeSizes(); err != nil {
		return
	}
	return v.i0, v.i1, nil
}

// FromVariables copies the values of all variables into the global vector X
func (o *Model) FromVariables(X []float64) error {
	if err := o.ActualizeSizes(); err != nil {
		return err
	}
	if len(X) != o.nbdof {
		return chk.Err("global vector has size %d; expected %d", len(X), o.nbdof)
	}
	for _, v := range o.vars {
		if v.IsVariable {
			copy(X[v.i0:v.i1], v.Values[0])
		}
	}
	return nil
}

// ToVariables copies the global vector X into the values of all variables
func (o *Model) ToVariables(X []float64) error {
	if err := o.ActualizeSizes(); err != nil {
		return err
	}
	if len(X) != o.nbdof {
		return chk.Err("global vector has size %d; expected %d", len(X), o.nbdof)
	}
	for _, v := range o.vars {
		if v.IsVariable {
			copy(v.Values[0], X[v.i0:v.i1])
		}
	}
	return nil
}

// ListVariables returns a description of all variables and data
func (o *Model) ListVariables() string {
	o.ActualizeSizes()
	var b bytes.Buffer
	for _, name := range o.names {
		v := o.vars[name]
		kind := "data"
		switch {
		case v.IsMultiplier():
			kind = "multiplier of " + v.Primal
		case v.IsVariable:
			kind = "variable"
		}
		space := "fixed size"
		if v.Mf != nil {
			space = "finite element"
		}
		io.Ff(&b, "%-20s %8d values  %-16s %s\n", name, v.Size(), space, kind)
	}
	return b.String()
}

// auxiliary ////////////////////////////////////////////////////////////////////////////////////////

func allTrue(n int) []bool {
	res := make([]bool, n)
	for i := range res {
		res[i] = true
	}
	return res
}

func hasNaN(v []float64) bool {
	for _, a := range v {
		if math.IsNaN(a) {
			return true
		}
	}
	return false
}
