// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Summary records the main results of a crack simulation
type Summary struct {
	Fnkey      string  // filename key of simulation
	Nx         int     // number of divisions
	Enrichment int     // enrichment option
	NbDofU     int     // number of displacement dofs
	NbDof      int     // total number of dofs
	NbSplit    int     // number of dofs duplicated across the crack
	Iter       int     // number of iterations of the solver
	Residual   float64 // achieved residual
	Errors     Errors  // errors w.r.t the crack-tip field
}

// NewSummary collects the results of a solved problem
func NewSummary(o *CrackProblem, e Errors) (sum *Summary, err error) {
	if o.Model == nil || o.Iter == nil {
		return nil, chk.Err("crack problem must be solved first")
	}
	sum = &Summary{Fnkey: o.RootFn, Nx: o.Nx, Enrichment: o.Enrichment, Errors: e}
	sum.NbDofU = o.MfU.NbDof()
	if sum.NbDof, err = o.Model.NbDof(); err != nil {
		return nil, err
	}
	sum.NbSplit = o.Mfls.NbSplit()
	sum.Iter, sum.Residual = o.Iter.Iter, o.Iter.Res
	return
}

// Save saves summary to dir/Fnkey_sum.enctype
func (o Summary) Save(dir, enctype string, verbose bool) (err error) {
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	if err = enc.Encode(o); err != nil {
		return chk.Err("cannot encode summary\n%v", err)
	}
	return saveFile(sumPath(dir, o.Fnkey, enctype), &buf, verbose)
}

// ReadSummary reads summary back
func ReadSummary(dir, fnkey, enctype string) (o *Summary, err error) {
	fil, err := os.Open(sumPath(dir, fnkey, enctype))
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	o = new(Summary)
	if err = GetDecoder(fil, enctype).Decode(o); err != nil {
		return nil, chk.Err("cannot decode summary\n%v", err)
	}
	return
}

func sumPath(dir, fnkey, enctype string) string {
	return path.Join(dir, io.Sf("%s_sum.%s", fnkey, enctype))
}
