// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Affine composes an atom with a linear transform so the penalty acts on
// 𝐃𝐱+𝛂 instead of 𝐱. The composed penalty has no closed-form proximal in
// general: first-order solvers evaluate it through its dual pair
// (see Dual) with an inner iterative subproblem.
type Affine struct {
	atom *Atom
	t    Transform
}

// Compose builds the affine composition 𝒉(𝐃𝐱+𝛂). The atom's dimension must
// equal the transform's range dimension. A non-nil transform offset is
// folded into the atom's offset at construction, so the stored transform is
// always purely linear and the affine shift is bookkept exactly once.
func Compose(a *Atom, t Transform, offset []float64) (*Affine, error) {

	p, m := t.Dims()
	var err error
	switch {
	case p <= 0 || m <= 0:
		err = errors.New("atom: transform dimensions must be greater than 0")
	case a.Dim() != m:
		err = errors.New("atom: atom dimension not match transform range")
	case offset != nil && len(offset) != m:
		err = errors.New("atom: affine offset dimension not match")
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfig, err)
	}

	if offset != nil {
		folded := cloneVec(offset)
		if a.offset != nil {
			floats.Add(folded, a.offset)
		}
		s := Spec{Kind: a.kind, N: a.n, Param: a.param, Offset: folded, Quadratic: a.quadratic}
		if a, err = s.New(); err != nil {
			return nil, err
		}
	}

	return &Affine{atom: a, t: t}, nil
}

// Atom returns the wrapped atom.
func (af *Affine) Atom() *Atom { return af.atom }

// Transform returns the stored (purely linear) transform.
func (af *Affine) Transform() Transform { return af.t }

// Dims returns the primal and dual dimensions of the composition.
func (af *Affine) Dims() (primal, dual int) { return af.t.Dims() }

// NonsmoothObjective evaluates the composed penalty at x through the transform.
func (af *Affine) NonsmoothObjective(x []float64, checkFeasibility bool) float64 {
	_, m := af.t.Dims()
	dx := make([]float64, m)
	af.t.LinearMap(dx, x)
	return af.atom.NonsmoothObjective(dx, checkFeasibility)
}

// Dual returns the transform together with the conjugate of the wrapped
// atom: the pair the dual subproblem of the composed proximal is built from.
func (af *Affine) Dual() (Transform, *Atom, error) {
	conj, err := Conjugate(af.atom)
	if err != nil {
		return nil, nil, err
	}
	return af.t, conj, nil
}
