// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	goio "io"
	"os"
	"path"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// SaveSol saves the displacement and pressure to dir/RootFn_sol.enctype
func (o *CrackProblem) SaveSol(dir, enctype string) (err error) {
	if o.U == nil {
		return chk.Err("crack problem must be solved first")
	}
	var buf bytes.Buffer
	enc := GetEncoder(&buf, enctype)
	if err = enc.Encode(o.U); err != nil {
		return chk.Err("cannot encode displacement\n%v", err)
	}
	if err = enc.Encode(o.P); err != nil {
		return chk.Err("cannot encode pressure\n%v", err)
	}
	return saveFile(solPath(dir, o.RootFn, enctype), &buf, o.Verbose)
}

// ReadSol reads the displacement and pressure saved by SaveSol. The sizes must match the
// current spaces
func (o *CrackProblem) ReadSol(dir, enctype string) (err error) {
	fil, err := os.Open(solPath(dir, o.RootFn, enctype))
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	dec := GetDecoder(fil, enctype)
	var U, P []float64
	if err = dec.Decode(&U); err != nil {
		return chk.Err("cannot decode displacement\n%v", err)
	}
	if err = dec.Decode(&P); err != nil {
		return chk.Err("cannot decode pressure\n%v", err)
	}
	if o.MfU != nil && len(U) != o.MfU.NbDof() {
		return chk.Err("displacement in file has %d values but space has %d dofs", len(U), o.MfU.NbDof())
	}
	o.U, o.P = U, P
	return
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

func solPath(dir, fnkey, enctype string) string {
	return path.Join(dir, io.Sf("%s_sol.%s", fnkey, enctype))
}

func saveFile(filename string, buf *bytes.Buffer, verbose bool) (err error) {
	if err = os.MkdirAll(path.Dir(filename), 0777); err != nil {
		return
	}
	fil, err := os.Create(filename)
	if err != nil {
		return
	}
	defer func() {
		if e := fil.Close(); err == nil {
			err = e
		}
	}()
	_, err = fil.Write(buf.Bytes())
	if verbose {
		io.Pfblue2("file <%s> written\n", filename)
	}
	return
}
