// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func Test_params01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("params01")

	p, err := ParseParams(`
MESH_TYPE = "qua4"
NX = 20
LAMBDA = 1
MU = 1.5
`)
	if err != nil {
		tst.Errorf("%v", err)
		return
	}
	s, _ := p.String("MESH_TYPE")
	nx, _ := p.Int("NX")
	lam, _ := p.Real("LAMBDA")
	mu, _ := p.Real("MU")
	if s != "qua4" {
		tst.Errorf("MESH_TYPE is wrong: %q", s)
	}
	chk.Int(tst, "NX", nx, 20)
	chk.Float64(tst, "LAMBDA", 1e-15, lam, 1)
	chk.Float64(tst, "MU", 1e-15, mu, 1.5)
	chk.Int(tst, "MAXITER", p.IntOr("MAXITER", 100), 100)
	chk.Float64(tst, "RESIDUAL", 1e-15, p.RealOr("RESIDUAL", 1e-9), 1e-9)

	if _, err = p.Real("CUTOFF"); err == nil {
		tst.Errorf("missing required parameter should fail")
	}
	if _, err = p.Int("MU"); err == nil {
		tst.Errorf("real given as integer should fail")
	}
	if _, err = ParseParams("NX = = 2"); err == nil {
		tst.Errorf("malformed input should fail")
	}
}

func Test_log01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("log01")

	hook := test.NewLocal(Log)
	defer hook.Reset()
	Warn(logrus.Fields{"ndofs": 2}, "few enriched dofs")
	chk.Int(tst, "number of entries", len(hook.Entries), 1)
	e := hook.LastEntry()
	if e.Level != logrus.WarnLevel || e.Message != "few enriched dofs" {
		tst.Errorf("wrong entry: %v", e)
	}
	chk.Int(tst, "ndofs", e.Data["ndofs"].(int), 2)
}
