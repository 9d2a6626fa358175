// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Spec describes an atom to be built.
type Spec struct {
	// Kind selects the seminorm.
	Kind Kind
	// N is the primal dimension.
	N int
	// Param is the Lagrange multiplier or feasibility bound.
	Param Param
	// Offset shifts the argument: the atom evaluates 𝒉(𝐱+𝛂).
	Offset []float64
	// Quadratic is an optional quadratic added to the evaluated objective.
	Quadratic Quadratic
}

// New validates the spec and builds the atom.
func (s *Spec) New() (*Atom, error) {

	var err error
	switch {
	case s.N <= 0:
		err = errors.New("atom: dimension must be greater than 0")
	case s.Kind < L1 || s.Kind > Nonpositive:
		err = errors.New("atom: unknown kind")
	case s.Offset != nil && len(s.Offset) != s.N:
		err = errors.New("atom: offset dimension not match")
	case s.Quadratic.Center != nil && len(s.Quadratic.Center) != s.N:
		err = errors.New("atom: quadratic center dimension not match")
	case s.Quadratic.Linear != nil && len(s.Quadratic.Linear) != s.N:
		err = errors.New("atom: quadratic linear dimension not match")
	default:
		err = s.Param.check()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}

	return &Atom{
		kind:      s.Kind,
		n:         s.N,
		param:     s.Param,
		offset:    cloneVec(s.Offset),
		quadratic: s.Quadratic.clone(),
	}, nil
}

// New builds an atom of the given kind and dimension without offset or quadratic.
func New(kind Kind, n int, p Param) (*Atom, error) {
	s := Spec{Kind: kind, N: n, Param: p}
	return s.New()
}

// Atom is a support function in Lagrange or bound form, optionally shifted
// by an offset and perturbed by an attached quadratic. Atoms are immutable:
// derived atoms are built with WithParam, Conjugate or Smoothed.
type Atom struct {
	kind      Kind
	n         int
	param     Param
	offset    []float64
	quadratic Quadratic
}

// Kind returns the seminorm kind.
func (a *Atom) Kind() Kind { return a.kind }

// Dim returns the primal dimension.
func (a *Atom) Dim() int { return a.n }

// Param returns the Lagrange/bound parameter.
func (a *Atom) Param() Param { return a.param }

// Mode returns the active parameterization.
func (a *Atom) Mode() Mode { return a.param.mode }

// Offset returns a copy of the argument shift (nil if none).
func (a *Atom) Offset() []float64 { return cloneVec(a.offset) }

// Quadratic returns a copy of the attached quadratic.
func (a *Atom) Quadratic() Quadratic { return a.quadratic.clone() }

// WithParam derives an atom with a replaced parameter value.
// The new parameter must keep the current mode: an atom never
// switches between Lagrange and bound form.
func (a *Atom) WithParam(p Param) (*Atom, error) {
	if p.mode != a.param.mode {
		return nil, fmt.Errorf("%w: atom is in %s mode", ErrConfig, a.modeName())
	}
	if err := p.check(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}
	out := *a
	out.param = p
	return &out, nil
}

// Equal reports whether two atoms share kind, mode and parameter value.
func (a *Atom) Equal(o *Atom) bool {
	return a.kind == o.kind && a.param == o.param && a.n == o.n
}

func (a *Atom) String() string {
	name := "lagrange"
	if a.param.mode == BoundMode {
		name = "bound"
	}
	if a.quadratic.IsZero() {
		return fmt.Sprintf("%s(%d, %s=%g, offset=%v)", a.kind, a.n, name, a.param.value, a.offset)
	}
	return fmt.Sprintf("%s(%d, %s=%g, offset=%v, quadratic=%s)", a.kind, a.n, name, a.param.value, a.offset, a.quadratic)
}

func (a *Atom) modeName() string {
	if a.param.mode == BoundMode {
		return "bound"
	}
	return "lagrange"
}

// applyOffset returns 𝐱+𝛂, or x itself when there is no offset.
func (a *Atom) applyOffset(x []float64) []float64 {
	if a.offset == nil {
		return x
	}
	out := cloneVec(x)
	floats.Add(out, a.offset)
	return out
}

// Seminorm evaluates 𝛌·𝒉(𝐱) with the stored multiplier. For kinds carrying
// an implicit cone constraint, checkFeasibility controls whether an
// infeasible x yields +∞ instead of the finite value.
// The atom must be in Lagrange mode.
func (a *Atom) Seminorm(x []float64, checkFeasibility bool) (float64, error) {
	if a.param.mode != LagrangeMode {
		return zero, fmt.Errorf("%w: seminorm needs lagrange mode", ErrConfig)
	}
	return seminormValue(a.kind, x, a.param.value, checkFeasibility), nil
}

// Constraint verifies 𝒉(𝐱) ≤ 𝛆·(1+tol) with the stored bound, returning 0
// when feasible and +∞ otherwise. The atom must be in bound mode.
func (a *Atom) Constraint(x []float64) (float64, error) {
	if a.param.mode != BoundMode {
		return zero, fmt.Errorf("%w: constraint needs bound mode", ErrConfig)
	}
	return constraintValue(a.kind, x, a.param.value), nil
}

// NonsmoothObjective evaluates the atom's contribution to the objective at x.
// The offset is applied first. In bound mode the indicator is only evaluated
// when checkFeasibility is set, so unconstrained smooth evaluations can skip
// the feasibility scan. The attached quadratic is evaluated at the unshifted x.
func (a *Atom) NonsmoothObjective(x []float64, checkFeasibility bool) float64 {
	shifted := a.applyOffset(x)
	var v float64
	if a.param.mode == BoundMode {
		if checkFeasibility {
			v = constraintValue(a.kind, shifted, a.param.value)
		}
	} else {
		v = seminormValue(a.kind, shifted, a.param.value, checkFeasibility)
	}
	return v + a.quadratic.Objective(x)
}

// Proximal resolves the unique minimizer of the folded objective
//
//	𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ 𝒒(𝐯) + 𝑞ₐ(𝐯) + 𝛌𝒉(𝐯+𝛂)   (lagrange mode)
//	𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ 𝒒(𝐯) + 𝑞ₐ(𝐯) s.t. 𝒉(𝐯+𝛂) ≤ 𝛆   (bound mode)
//
// where 𝒒 is the step quadratic and 𝑞ₐ the atom's own. The two quadratics
// are folded, recentered around the offset and resolved against the closed
// form of the kind. Returns ErrDomain when the folded coefficient is zero.
func (a *Atom) Proximal(stepQ Quadratic) ([]float64, error) {

	offset, totalQ := a.quadratic.Add(stepQ).Recenter(a.offset)
	if totalQ.Coef == zero {
		return nil, fmt.Errorf("%w: lipschitz + quadratic coef must be positive", ErrDomain)
	}

	// 𝐮 = -𝛈/C is the minimizer of the folded quadratic alone.
	u := make([]float64, a.n)
	if totalQ.Linear != nil {
		floats.AddScaled(u, -one/totalQ.Coef, totalQ.Linear)
	}

	var eta []float64
	if a.param.mode == BoundMode {
		eta = boundProx(a.kind, u, totalQ.Coef, a.param.value)
	} else {
		eta = lagrangeProx(a.kind, u, totalQ.Coef, a.param.value)
	}

	if offset != nil {
		floats.Sub(eta, offset)
	}
	return eta, nil
}

// LagrangeProx applies the closed-form Lagrange proximal map
//
//	𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ ½L‖𝐮-𝐯‖² + 𝛌𝒉(𝐯)
//
// with the stored multiplier. The atom must be in Lagrange mode.
func (a *Atom) LagrangeProx(u []float64, lipschitz float64) ([]float64, error) {
	if a.param.mode != LagrangeMode {
		return nil, fmt.Errorf("%w: atom is in bound mode and no lagrange value is available", ErrConfig)
	}
	return lagrangeProx(a.kind, u, lipschitz, a.param.value), nil
}

// BoundProx applies the closed-form bound proximal map
//
//	𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ ½L‖𝐮-𝐯‖² s.t. 𝒉(𝐯) ≤ 𝛆
//
// with the stored radius. The atom must be in bound mode.
func (a *Atom) BoundProx(u []float64, lipschitz float64) ([]float64, error) {
	if a.param.mode != BoundMode {
		return nil, fmt.Errorf("%w: atom is in lagrange mode and no bound value is available", ErrConfig)
	}
	return boundProx(a.kind, u, lipschitz, a.param.value), nil
}
