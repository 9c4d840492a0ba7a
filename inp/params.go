// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Params holds key => value parameters read from a TOML file; e.g.
//
//	MESH_TYPE = "qua4"
//	NX        = 20
//	LAMBDA    = 1.0
type Params struct {
	Fname  string                 // file name (empty if built in memory)
	values map[string]interface{} // values: string, int64 or float64
}

// ReadParams reads parameters from a TOML file
func ReadParams(fn string) (o *Params, err error) {
	o = &Params{Fname: fn, values: make(map[string]interface{})}
	if _, err = toml.DecodeFile(fn, &o.values); err != nil {
		return nil, chk.Err("cannot read parameters file %q:\n%v", fn, err)
	}
	return
}

// ParseParams decodes parameters from a TOML string
func ParseParams(data string) (o *Params, err error) {
	o = &Params{values: make(map[string]interface{})}
	if _, err = toml.Decode(data, &o.values); err != nil {
		return nil, chk.Err("cannot decode parameters:\n%v", err)
	}
	return
}

// NewParams returns an empty set of parameters
func NewParams() *Params {
	return &Params{values: make(map[string]interface{})}
}

// Set sets a value (string, int or float64)
func (o *Params) Set(key string, val interface{}) {
	if i, ok := val.(int); ok {
		val = int64(i)
	}
	o.values[key] = val
}

// Has tells whether key exists
func (o *Params) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// String returns a required string
func (o *Params) String(key string) (string, error) {
	v, ok := o.values[key]
	if !ok {
		return "", o.missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", chk.Err("parameter %q must be a string; got %v", key, v)
	}
	return s, nil
}

// Int returns a required integer
func (o *Params) Int(key string) (int, error) {
	v, ok := o.values[key]
	if !ok {
		return 0, o.missing(key)
	}
	i, ok := v.(int64)
	if !ok {
		return 0, chk.Err("parameter %q must be an integer; got %v", key, v)
	}
	return int(i), nil
}

// Real returns a required real number. Integers are accepted
func (o *Params) Real(key string) (float64, error) {
	v, ok := o.values[key]
	if !ok {
		return 0, o.missing(key)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	}
	return 0, chk.Err("parameter %q must be a real number; got %v", key, v)
}

// StringOr returns a string or the default value if key is missing
func (o *Params) StringOr(key, def string) string {
	if s, err := o.String(key); err == nil {
		return s
	}
	return def
}

// IntOr returns an integer or the default value if key is missing
func (o *Params) IntOr(key string, def int) int {
	if i, err := o.Int(key); err == nil {
		return i
	}
	return def
}

// RealOr returns a real number or the default value if key is missing
func (o *Params) RealOr(key string, def float64) float64 {
	if x, err := o.Real(key); err == nil {
		return x
	}
	return def
}

// Listing returns all parameters, one per line
func (o *Params) Listing() (l string) {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		l += io.Sf("%-22s = %v\n", k, o.values[k])
	}
	return
}

func (o *Params) missing(key string) error {
	if o.Fname != "" {
		return chk.Err("cannot find required parameter %q in file %q", key, o.Fname)
	}
	return chk.Err("cannot find required parameter %q", key)
}
