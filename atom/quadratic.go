// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Quadratic is the two-parameter quadratic expression
//
//	𝒒(𝐱) = ½C‖𝐱-𝛍‖² + 𝛈·𝐱 + 𝛕
//
// with coefficient C = Coef, center 𝛍, linear term 𝛈 and constant 𝛕.
// A nil Center or Linear denotes zero. The zero value is the zero quadratic.
//
// Quadratics arise in two places: the step model ½L‖𝐱-𝐯‖² handed to a
// proximal call, and the linear+constant perturbation an atom accumulates
// through conjugation or smoothing. All operations are exact linear algebra.
type Quadratic struct {
	Coef     float64
	Center   []float64
	Linear   []float64
	Constant float64
}

// StepQuadratic is the model ½L‖𝐱-𝐯‖² a first-order solver
// builds around the gradient step 𝐯.
func StepQuadratic(lipschitz float64, v []float64) Quadratic {
	return Quadratic{Coef: lipschitz, Center: cloneVec(v)}
}

// IsZero reports whether q is identically zero.
func (q Quadratic) IsZero() bool {
	return q.Coef == zero && q.Center == nil && q.Linear == nil && q.Constant == zero
}

// Objective evaluates 𝒒(𝐱).
func (q Quadratic) Objective(x []float64) float64 {
	v := q.Constant
	if q.Linear != nil {
		v += floats.Dot(q.Linear, x)
	}
	if q.Coef != zero {
		if q.Center != nil {
			v += half * q.Coef * distSq(x, q.Center)
		} else {
			v += half * q.Coef * floats.Dot(x, x)
		}
	}
	return v
}

// Zeroify collapses the center into the linear and constant terms:
//
//	½C‖𝐱-𝛍‖² = ½C‖𝐱‖² - C𝛍·𝐱 + ½C‖𝛍‖²
//
// The result represents the same function with Center == nil.
func (q Quadratic) Zeroify() Quadratic {
	if q.Center == nil {
		return q.clone()
	}
	out := Quadratic{Coef: q.Coef, Linear: cloneVec(q.Linear), Constant: q.Constant}
	if q.Coef != zero {
		if out.Linear == nil {
			out.Linear = make([]float64, len(q.Center))
		}
		floats.AddScaled(out.Linear, -q.Coef, q.Center)
		out.Constant += half * q.Coef * floats.Dot(q.Center, q.Center)
	}
	return out
}

// Add returns a quadratic equal to 𝒒(𝐱)+𝒐(𝐱) for all 𝐱. When either term
// carries a center the sum is expressed in canonical center-free form, since
// two distinct centers cannot be merged into one.
func (q Quadratic) Add(o Quadratic) Quadratic {
	a, b := q.Zeroify(), o.Zeroify()
	out := Quadratic{Coef: a.Coef + b.Coef, Linear: a.Linear, Constant: a.Constant + b.Constant}
	if b.Linear != nil {
		if out.Linear == nil {
			out.Linear = make([]float64, len(b.Linear))
		}
		floats.Add(out.Linear, b.Linear)
	}
	return out
}

// Recenter rewrites the quadratic in the shifted variable 𝐰 = 𝐱 + 𝛂:
// the returned quadratic 𝒒′ satisfies 𝒒′(𝐰) = 𝒒(𝐰-𝛂) for all 𝐰, and is
// always center-free. A proximal solve substitutes 𝐰 so the penalty acts on
// the plain variable; the offset is passed through unchanged for the caller
// to undo the shift afterwards.
func (q Quadratic) Recenter(offset []float64) ([]float64, Quadratic) {
	out := q.Zeroify()
	if offset == nil {
		return nil, out
	}
	out.Constant += half*out.Coef*floats.Dot(offset, offset) - dotOrZero(out.Linear, offset)
	if out.Coef != zero {
		if out.Linear == nil {
			out.Linear = make([]float64, len(offset))
		}
		floats.AddScaled(out.Linear, -out.Coef, offset)
	}
	return offset, out
}

func (q Quadratic) String() string {
	return fmt.Sprintf("quadratic(coef=%g, center=%v, linear=%v, constant=%g)",
		q.Coef, q.Center, q.Linear, q.Constant)
}

func (q Quadratic) clone() Quadratic {
	q.Center = cloneVec(q.Center)
	q.Linear = cloneVec(q.Linear)
	return q
}

func cloneVec(v []float64) []float64 {
	if v == nil {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

func distSq(x, y []float64) (s float64) {
	for i, v := range x {
		d := v - y[i]
		s += d * d
	}
	return
}

func dotOrZero(a, b []float64) float64 {
	if a == nil {
		return zero
	}
	return floats.Dot(a, b)
}
