// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Moreau is the Moreau–Yosida smoothing of an atom: the infimal convolution
// of the penalty with a strongly convex quadratic. It is differentiable
// everywhere and its value and gradient are computed through the conjugate
// atom's closed-form proximal map:
//
//	𝒉ₛ(𝐱) = 𝚜𝚞𝚙 ᵥ 𝐱·𝐰 - 𝒉*(𝐰) - 𝒒ₛ(𝐰),  𝜵𝒉ₛ(𝐱) = 𝐰*(𝐱)
//
// where 𝐰*(𝐱) is the maximizer and 𝒒ₛ the smoothing quadratic.
type Moreau struct {
	conj *Atom
}

// Smoothed adds a quadratic smoothing term to the atom. The smoothing
// quadratic must have a nonzero coefficient; a zero coefficient leaves the
// conjugate problem unbounded and is rejected with ErrDomain.
func (a *Atom) Smoothed(sq Quadratic) (*Moreau, error) {

	if sq.Coef == zero {
		return nil, fmt.Errorf("%w: smoothing quadratic coef must be non 0", ErrDomain)
	}

	conj, err := Conjugate(a)
	if err != nil {
		return nil, err
	}
	conj.quadratic = conj.quadratic.Add(sq)
	return &Moreau{conj: conj}, nil
}

// Conjugate returns the perturbed conjugate atom the smoothing runs through.
func (m *Moreau) Conjugate() *Atom { return m.conj }

// Dim returns the primal dimension.
func (m *Moreau) Dim() int { return m.conj.n }

// Value evaluates the smoothed penalty at x.
func (m *Moreau) Value(x []float64) float64 {
	w := m.argmax(x)
	return floats.Dot(x, w) - m.conj.NonsmoothObjective(w, false)
}

// Grad stores the gradient of the smoothed penalty at x into g.
func (m *Moreau) Grad(x, g []float64) {
	copy(g, m.argmax(x))
}

func (m *Moreau) argmax(x []float64) []float64 {
	// The maximizer of 𝐱·𝐰 - 𝒉*(𝐰) - 𝒒ₛ(𝐰) is the conjugate's proximal
	// with the extra linear term -𝐱 folded into the step quadratic.
	neg := make([]float64, len(x))
	floats.AddScaled(neg, -one, x)
	w, err := m.conj.Proximal(Quadratic{Linear: neg})
	if err != nil {
		// The smoothing coefficient is nonzero by construction.
		panic(err)
	}
	return w
}
