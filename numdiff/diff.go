// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package numdiff estimates gradients of scalar objectives by finite
// differences. It backs the derivative cross-checks in the solver tests:
// analytic gradients handed to the optimizers are compared against the
// finite-difference estimate at a handful of points.
package numdiff

import (
	"errors"
	"math"
)

var sqrtEps = math.Sqrt(math.Nextafter(1, 2) - 1)
var cubeEps = math.Pow(math.Nextafter(1, 2)-1, float64(1)/3)

type Method int

const (
	// Forward use the first order accuracy forward difference.
	Forward Method = iota
	// Central use the second order accuracy central difference.
	Central
)

// GradSpec represents a numerical differentiation of a scalar function
// 𝒇(𝐱) : ℝⁿ → ℝ.
//
// # Reference:
//
//   - https://en.wikipedia.org/wiki/Finite_difference
type GradSpec struct {
	N int
	// Function of which to estimate the gradient.
	// The argument x passed to this function is an n-vector.
	Object func(x []float64) float64
	// Finite difference method to use.
	Method Method
	// Relative step size used to compute the absolute step size as
	// h = RelStep * sign(x0) * abs(x0). When zero, a step appropriate
	// for the method is selected automatically.
	RelStep float64
	// Absolute step size to use. RelStep is used when AbsStep is zero.
	AbsStep float64
}

// Check validates the parameters.
func (gs *GradSpec) Check(x0, grad []float64) error {
	switch {
	case gs.N <= 0:
		return errors.New("negative dimensions")
	case gs.Method != Forward && gs.Method != Central:
		return errors.New("unknown method")
	case gs.Object == nil:
		return errors.New("object function is required")
	case gs.N != len(x0):
		return errors.New("invalid x0 dimensions")
	case gs.N != len(grad):
		return errors.New("invalid grad dimensions")
	}
	return nil
}

// Grad calculates the gradient approximation by finite differences.
// x0 is restored on return.
func (gs *GradSpec) Grad(x0, grad []float64) error {

	if err := gs.Check(x0, grad); err != nil {
		return err
	}

	eps := sqrtEps
	if gs.Method == Central {
		eps = cubeEps
	}

	step := func(v float64) float64 {
		s := gs.AbsStep
		if s == 0 && gs.RelStep != 0 {
			s = math.Copysign(gs.RelStep, v) * math.Abs(v)
		}
		// Ensure v + s is representable away from v.
		if s == 0 || (v+s)-v == 0 {
			s = math.Copysign(eps, v) * math.Max(1.0, math.Abs(v))
		}
		return s
	}

	fun := gs.Object
	if gs.Method == Forward {
		f0 := fun(x0)
		for i, v := range x0 {
			h := step(v)
			x0[i] = v + h
			grad[i] = (fun(x0) - f0) / h
			x0[i] = v
		}
	} else {
		for i, v := range x0 {
			h := math.Abs(step(v))
			x0[i] = v - h
			f1 := fun(x0)
			x0[i] = v + h
			f2 := fun(x0)
			grad[i] = (f2 - f1) / (2 * h)
			x0[i] = v
		}
	}
	return nil
}
