// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the channel for non-fatal diagnostics: the computation continues with a defined result
var Log = logrus.New()

func init() {
	Log.Out = os.Stderr
	Log.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	Log.Level = logrus.WarnLevel
}

// Warn emits a warning with structured fields
func Warn(fields logrus.Fields, msg string) {
	Log.WithFields(fields).Warn(msg)
}

// Info emits an informative message with structured fields
func Info(fields logrus.Fields, msg string) {
	Log.WithFields(fields).Info(msg)
}
