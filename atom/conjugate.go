// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"gonum.org/v1/gonum/floats"
)

// Conjugate returns the Fenchel conjugate atom: the paired kind in the
// opposite parameterization, with the offset and the attached linear/constant
// perturbation exchanged in closed form.
//
// For a seminorm 𝒉 shifted by 𝛂 and perturbed by 𝛈·𝐱 + 𝛕, the conjugate of
// 𝛌𝒉(𝐱+𝛂) + 𝛈·𝐱 + 𝛕 is the indicator of { 𝒉*(𝐰) ≤ 𝛌 } shifted by -𝛈 and
// perturbed by -𝛂·𝐰 + (𝛂·𝛈 - 𝛕), and symmetrically for a bound atom.
//
// Conjugate is a pure function: two calls build independent equal values,
// and Conjugate(Conjugate(a)) reproduces a's kind, mode, parameter, offset
// and quadratic exactly.
//
// The closed form only exists while the attached quadratic is purely
// linear+constant. A nonzero coefficient after Zeroify makes the conjugate a
// smooth function; such atoms are rejected with ErrSmoothConjugate and must
// be handled by a generic smooth-conjugation mechanism.
func Conjugate(a *Atom) (*Atom, error) {

	q := a.quadratic.Zeroify()
	if q.Coef != zero {
		return nil, ErrSmoothConjugate
	}

	var dualOffset []float64
	if q.Linear != nil {
		dualOffset = make([]float64, a.n)
		floats.AddScaled(dualOffset, -one, q.Linear)
	}

	dualQ := Quadratic{Constant: -q.Constant}
	if a.offset != nil {
		dualQ.Linear = make([]float64, a.n)
		floats.AddScaled(dualQ.Linear, -one, a.offset)
		if q.Linear != nil {
			dualQ.Constant += floats.Dot(a.offset, q.Linear)
		}
	}

	p := Bound(a.param.value)
	if a.param.mode == BoundMode {
		p = Lagrange(a.param.value)
	}

	s := Spec{
		Kind:      a.kind.Dual(),
		N:         a.n,
		Param:     p,
		Offset:    dualOffset,
		Quadratic: dualQ,
	}
	return s.New()
}
