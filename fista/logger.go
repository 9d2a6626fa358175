// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fista

import (
	"fmt"
	"io"
)

// LogLevel controls the frequency and type of logger output.
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only one line at the last iteration
	LogLast LogLevel = 0
	// LogEval print f and |Δf| every iteration
	LogEval LogLevel = 1
)

// Logger handles logging output for the optimizer.
type Logger struct {
	Level LogLevel
	Msg   io.Writer
}

func (l *Logger) enable(level LogLevel) bool {
	return l != nil && l.Msg != nil && l.Level >= level
}

func (l *Logger) eval(iter int, f, diff float64) {
	if l.enable(LogEval) {
		_, _ = fmt.Fprintf(l.Msg, "iterate %5d : f = %-24.16g |Δf| = %-.8g\n", iter, f, diff)
	}
}

func (l *Logger) last(iter int, f float64, ok bool) {
	if l.enable(LogLast) {
		status := "converged"
		if !ok {
			status = "iteration budget exhausted"
		}
		_, _ = fmt.Fprintf(l.Msg, "final %5d : f = %-24.16g (%s)\n", iter, f, status)
	}
}
