// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package atom implements seminorm atoms for composite convex optimization.
//
// An atom is a support function h (a seminorm or a convex-cone indicator)
// carried in one of two parameterizations:
//   - Lagrange form : the penalty 𝛌·𝒉(𝐱) is added to the objective
//   - bound form : the indicator of the set { 𝒉(𝐱) ≤ 𝛆 } is added
//
// The two forms are exchanged by Fenchel conjugation (see Conjugate).
// Every atom supplies its proximal operator in closed form:
//
//	𝚙𝚛𝚘𝚡(𝐮) = 𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ ½𝐿‖𝐮-𝐯‖² + 𝛌𝒉(𝐯+𝛂)
//
// which is the primitive consumed by accelerated first-order solvers.
package atom

import (
	"errors"
	"math"
)

const (
	zero = 0.0
	half = 0.5
	one  = 1.0

	// feasTol is the relative slack applied to feasibility bounds.
	// Strict equality would reject numerically-feasible points.
	feasTol = 1e-5
)

var (
	// ErrConfig reports an atom built or queried in an unusable parameterization:
	// a missing or negative Lagrange/bound value, a mode switch attempt,
	// or a Lagrange-only operation invoked on a bound atom (and vice versa).
	ErrConfig = errors.New("atom: invalid configuration")
	// ErrDomain reports a proximal or smoothing request with a
	// degenerate (zero coefficient) quadratic: no minimizer exists.
	ErrDomain = errors.New("atom: degenerate quadratic")
	// ErrSmoothConjugate reports a conjugation request that cannot use the
	// closed-form pairing table because a quadratic term with nonzero
	// coefficient remains attached: such conjugates are smooth functions
	// and must go through a generic smooth-conjugation mechanism.
	ErrSmoothConjugate = errors.New("atom: conjugate is smooth, no closed form")
)

// Kind identifies a concrete seminorm.
type Kind int

const (
	// L1 the ℓ₁ norm ∑|𝐱ᵢ|.
	L1 Kind = iota
	// Sup the ℓ∞ norm 𝚖𝚊𝚡|𝐱ᵢ|.
	Sup
	// L2 the Euclidean norm ‖𝐱‖₂.
	L2
	// PositivePart the support function ∑𝚖𝚊𝚡(𝐱ᵢ,0) of the box [0,1]ᵖ.
	PositivePart
	// ConstrainedPositivePart ∑𝚖𝚊𝚡(𝐱ᵢ,0) restricted to the nonnegative orthant.
	ConstrainedPositivePart
	// ConstrainedMax 𝚖𝚊𝚡(𝐱) restricted to the nonnegative orthant.
	ConstrainedMax
	// MaxPositivePart the support function 𝚖𝚊𝚡(𝐱,0)⁺ of the standard simplex.
	MaxPositivePart
	// Nonnegative the indicator of the cone { 𝐱 : 𝐱ᵢ ≥ 0 }.
	Nonnegative
	// Nonpositive the indicator of the cone { 𝐱 : 𝐱ᵢ ≤ 0 }.
	Nonpositive
)

func (k Kind) String() string {
	switch k {
	case L1:
		return "l1norm"
	case Sup:
		return "supnorm"
	case L2:
		return "l2norm"
	case PositivePart:
		return "positive_part"
	case ConstrainedPositivePart:
		return "constrained_positive_part"
	case ConstrainedMax:
		return "constrained_max"
	case MaxPositivePart:
		return "max_positive_part"
	case Nonnegative:
		return "nonnegative"
	case Nonpositive:
		return "nonpositive"
	}
	return "unknown"
}

// Dual returns the conjugate kind. The pairing is an involution:
// k.Dual().Dual() == k for every kind.
func (k Kind) Dual() Kind {
	switch k {
	case L1:
		return Sup
	case Sup:
		return L1
	case L2:
		return L2
	case PositivePart:
		return ConstrainedMax
	case ConstrainedMax:
		return PositivePart
	case ConstrainedPositivePart:
		return MaxPositivePart
	case MaxPositivePart:
		return ConstrainedPositivePart
	case Nonnegative:
		return Nonpositive
	case Nonpositive:
		return Nonnegative
	}
	panic("atom: unknown kind")
}

// Mode tells whether an atom carries a Lagrange multiplier or a feasibility bound.
type Mode int

const (
	// NoMode is the zero value of an unset Param.
	NoMode Mode = iota
	// LagrangeMode the atom contributes 𝛌·𝒉(𝐱) to the objective.
	LagrangeMode
	// BoundMode the atom contributes the indicator of { 𝒉(𝐱) ≤ 𝛆 }.
	BoundMode
)

// Param is the tagged Lagrange-or-bound variant. The zero value is unset;
// exactly one of the two constructors produces a usable Param, so an atom
// holding both parameterizations at once is unrepresentable.
type Param struct {
	mode  Mode
	value float64
}

// Lagrange builds a Lagrange-form parameter with multiplier w.
func Lagrange(w float64) Param { return Param{LagrangeMode, w} }

// Bound builds a bound-form parameter with feasibility radius r.
func Bound(r float64) Param { return Param{BoundMode, r} }

// Mode reports the parameterization (NoMode for the zero value).
func (p Param) Mode() Mode { return p.mode }

// Value returns the multiplier or radius.
func (p Param) Value() float64 { return p.value }

func (p Param) check() error {
	switch {
	case p.mode == NoMode:
		return errors.New("atom: param must be Lagrange or Bound")
	case p.value < zero || math.IsNaN(p.value):
		return errors.New("atom: param value must be non-negative")
	}
	return nil
}
