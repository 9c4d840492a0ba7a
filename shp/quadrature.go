// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shp

import (
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/integrate/quad"
)

// Ipoint holds the reference coordinates and weight of one integration point
type Ipoint struct {
	R []float64 // reference coordinates
	W float64   // weight
}

// IntegRule holds an integration rule on a reference element
type IntegRule struct {
	Name    string   // name; e.g. "IM_TRIANGLE(6)"
	Dim     int      // dimension of reference element
	Simplex bool     // rule on reference simplex; otherwise on [0,1]^dim
	Order   int      // polynomial degree integrated exactly
	Vertex  int      // collapsed vertex for quasi-polar rules; -1 otherwise
	Points  []Ipoint // integration points
}

// IntegRule returns the integration rule with the given name. Supported names:
//
//	IM_GAUSS1D(k)
//	IM_GAUSS_PARALLELEPIPED(dim,k)
//	IM_TRIANGLE(k)
//	IM_TETRAHEDRON(k)
//	IM_QUASI_POLAR(IM_TRIANGLE(k),v)  -- singular rule collapsed onto vertex v
func (o *Registry) IntegRule(name string) (rule *IntegRule, err error) {
	key := strings.Replace(name, " ", "", -1)
	if r, ok := o.rules[key]; ok {
		return r, nil
	}
	base, args, err := parseRuleName(key)
	if err != nil {
		return
	}
	switch base {
	case "IM_GAUSS1D":
		k, e := intArgs(key, args, 1)
		if e != nil {
			return nil, e
		}
		rule = gaussCube(1, k[0])
	case "IM_GAUSS_PARALLELEPIPED":
		k, e := intArgs(key, args, 2)
		if e != nil {
			return nil, e
		}
		if k[0] < 1 || k[0] > 3 {
			return nil, chk.Err("invalid dimension in %q", name)
		}
		rule = gaussCube(k[0], k[1])
	case "IM_TRIANGLE":
		k, e := intArgs(key, args, 1)
		if e != nil {
			return nil, e
		}
		rule = collapsedTriangle(k[0], 0)
		rule.Vertex = -1
	case "IM_TETRAHEDRON":
		k, e := intArgs(key, args, 1)
		if e != nil {
			return nil, e
		}
		rule = collapsedTetrahedron(k[0])
	case "IM_QUASI_POLAR":
		if len(args) != 2 {
			return nil, chk.Err("%q requires a base rule and a vertex", name)
		}
		sub, e := o.IntegRule(args[0])
		if e != nil {
			return nil, e
		}
		if sub.Dim != 2 {
			return nil, chk.Err("quasi-polar rules are only available in 2D; got %q", name)
		}
		v, e := strconv.Atoi(args[1])
		if e != nil || v < 0 || v > 2 {
			return nil, chk.Err("invalid vertex in %q", name)
		}
		rule = collapsedTriangle(sub.Order, v)
	default:
		return nil, chk.Err("cannot find integration method named %q", name)
	}
	rule.Name = key
	o.rules[key] = rule
	return
}

// Weight returns the sum of weights (measure of the reference element)
func (o *IntegRule) Weight() (sum float64) {
	for _, p := range o.Points {
		sum += p.W
	}
	return
}

// Collapsed returns a copy of a quasi-polar rule collapsed onto vertex v
func (o *IntegRule) Collapsed(v int) *IntegRule {
	if o.Vertex < 0 || o.Vertex == v {
		return o
	}
	return collapsedTriangle(o.Order, v)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// parseRuleName splits "NAME(a,b(c),d)" into NAME and top-level arguments
func parseRuleName(key string) (base string, args []string, err error) {
	i := strings.Index(key, "(")
	if i < 0 || !strings.HasSuffix(key, ")") {
		return "", nil, chk.Err("malformed integration method name %q", key)
	}
	base = key[:i]
	inner := key[i+1 : len(key)-1]
	depth, start := 0, 0
	for j, c := range inner {
		switch c {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				args = append(args, inner[start:j])
				start = j + 1
			}
		}
	}
	args = append(args, inner[start:])
	return
}

// intArgs converts n arguments to integers
func intArgs(key string, args []string, n int) (res []int, err error) {
	if len(args) != n {
		return nil, chk.Err("%q requires %d arguments", key, n)
	}
	res = make([]int, n)
	for i, a := range args {
		res[i], err = strconv.Atoi(a)
		if err != nil || res[i] < 0 {
			return nil, chk.Err("invalid argument %q in %q", a, key)
		}
	}
	return
}

// legendre returns n Gauss-Legendre points and weights on [0,1]
func legendre(n int) (x, w []float64) {
	if n < 1 {
		n = 1
	}
	x = make([]float64, n)
	w = make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)
	return
}

// npts returns the number of Gauss points integrating exactly polynomials of degree k
func npts(k int) int {
	return (k + 2) / 2
}

// gaussCube returns a tensor-product Gauss rule on [0,1]^dim of order k
func gaussCube(dim, k int) *IntegRule {
	x, w := legendre(npts(k))
	n := len(x)
	o := &IntegRule{Dim: dim, Order: k, Vertex: -1}
	total := 1
	for i := 0; i < dim; i++ {
		total *= n
	}
	for idx := 0; idx < total; idx++ {
		p := Ipoint{R: make([]float64, dim), W: 1}
		q := idx
		for i := 0; i < dim; i++ {
			p.R[i] = x[q%n]
			p.W *= w[q%n]
			q /= n
		}
		o.Points = append(o.Points, p)
	}
	return o
}

// collapsedTriangle returns a conical-product (Duffy) rule on the reference triangle of order k,
// collapsed onto vertex v:
//
//	x = V_v + u·[(V_a - V_v) + t·(V_b - V_a)],  dx = u du dt
//
// The u factor cancels 1/r singularities at V_v
func collapsedTriangle(k, v int) *IntegRule {
	V := [][]float64{{0, 0}, {1, 0}, {0, 1}}
	a, b := (v+1)%3, (v+2)%3
	xu, wu := legendre(npts(k + 1))
	xt, wt := legendre(npts(k))
	o := &IntegRule{Dim: 2, Simplex: true, Order: k, Vertex: v}
	for i, u := range xu {
		for j, t := range xt {
			p := Ipoint{R: make([]float64, 2), W: wu[i] * wt[j] * u}
			for d := 0; d < 2; d++ {
				p.R[d] = V[v][d] + u*((V[a][d]-V[v][d])+t*(V[b][d]-V[a][d]))
			}
			o.Points = append(o.Points, p)
		}
	}
	return o
}

// collapsedTetrahedron returns a conical-product rule on the reference tetrahedron of order k
//
//	x = V0 + u·[(V1 - V0) + v·((V2 - V1) + w·(V3 - V2))],  dx = u² v du dv dw
func collapsedTetrahedron(k int) *IntegRule {
	xu, wu := legendre(npts(k + 2))
	xv, wv := legendre(npts(k + 1))
	xw, ww := legendre(npts(k))
	o := &IntegRule{Dim: 3, Simplex: true, Order: k, Vertex: -1}
	for i, u := range xu {
		for j, v := range xv {
			for l, w := range xw {
				// V0=(0,0,0), V1-V0=(1,0,0), V2-V1=(-1,1,0), V3-V2=(0,-1,1)
				r := []float64{
					u * (1 - v),
					u * v * (1 - w),
					u * v * w,
				}
				o.Points = append(o.Points, Ipoint{R: r, W: wu[i] * wv[j] * ww[l] * u * u * v})
			}
		}
	}
	return o
}
