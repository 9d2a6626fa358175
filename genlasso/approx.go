// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package genlasso

import (
	"gonum.org/v1/gonum/floats"

	"github.com/curioloop/proximal/atom"
	"github.com/curioloop/proximal/fista"
)

// approximator solves the dual of the signal-approximation problem
//
//	minimize 𝛃 ½‖𝐯-𝛃‖² + 𝛌‖𝐃𝛃‖₁
//
// which by Fenchel duality is the box-constrained least squares
//
//	minimize 𝐰 ½‖𝐯-𝐃ᵀ𝐰‖² s.t. ‖𝐰‖∞ ≤ 𝛌
//
// with primal readback 𝛃 = 𝐯 - 𝐃ᵀ𝐰. The box is exactly the conjugate of
// the ℓ₁ atom, so the dual prox is a closed-form clip and the problem is
// solvable by plain FISTA. The dual iterate is kept across calls: an outer
// solver re-enters with a nearby response every step and warm starts pay off.
type approximator struct {
	d    atom.Transform
	p, m int
	v    []float64 // response, length p
	lam  float64   // effective penalty
	lip  float64   // eigmax(𝐃𝐃ᵀ) estimate
	w    []float64 // dual iterate, length m
}

func newApproximator(d atom.Transform) *approximator {
	p, m := d.Dims()
	return &approximator{
		d:   d,
		p:   p,
		m:   m,
		lip: opNorm(d, 100),
		w:   make([]float64, m),
	}
}

func (s *approximator) setResponse(v []float64) { s.v = v }
func (s *approximator) setPenalty(lam float64)  { s.lam = lam }

// residual stores 𝐯 - 𝐃ᵀ𝐰 into dst.
func (s *approximator) residual(dst, w []float64) {
	s.d.AdjointMap(dst, w)
	floats.Scale(-one, dst)
	floats.Add(dst, s.v)
}

// primal reads the primal solution 𝛃 = 𝐯 - 𝐃ᵀ𝐰 off a dual iterate.
func (s *approximator) primal(w []float64) []float64 {
	out := make([]float64, s.p)
	s.residual(out, w)
	return out
}

// solve runs FISTA on the dual problem to the given tolerance and returns
// the best dual iterate. Non-convergence within the budget is not an error:
// the iterate found so far is returned as is.
func (s *approximator) solve(maxIts int, tol float64) []float64 {

	// The box ‖𝐰‖∞ ≤ 𝛌 enters as the conjugate of the ℓ₁ penalty.
	l1, err := atom.New(atom.L1, s.m, atom.Lagrange(s.lam))
	if err != nil {
		panic(err)
	}
	box, err := atom.Conjugate(l1)
	if err != nil {
		panic(err)
	}

	r := make([]float64, s.p)
	problem := fista.Problem{
		N: s.m,
		Smooth: fista.Evaluation{
			Function: func(w []float64) float64 {
				s.residual(r, w)
				return half * floats.Dot(r, r)
			},
			Derivative: func(w, g []float64) {
				// 𝜵½‖𝐯-𝐃ᵀ𝐰‖² = -𝐃(𝐯-𝐃ᵀ𝐰)
				s.residual(r, w)
				s.d.LinearMap(g, r)
				floats.Scale(-one, g)
			},
		},
		Prox: func(z, g []float64, lip float64) []float64 {
			u := make([]float64, s.m)
			floats.AddScaledTo(u, z, -one/lip, g)
			out, err := box.BoundProx(u, lip)
			if err != nil {
				panic(err)
			}
			return out
		},
		Lipschitz: s.lip,
		Backtrack: true,
		Stop:      fista.Termination{MaxIterations: maxIts, Tolerance: tol},
	}

	opt, err := problem.New()
	if err != nil {
		panic(err)
	}
	res := opt.Fit(s.w)
	copy(s.w, res.X)
	return res.X
}

// opNorm estimates the largest eigenvalue of 𝐃ᵀ𝐃 (equal to that of 𝐃𝐃ᵀ)
// with a fixed number of power iterations, floored at 1 so an identity or
// rank-deficient transform keeps the original's unit step.
func opNorm(d atom.Transform, iters int) float64 {
	p, m := d.Dims()
	z := make([]float64, p)
	y := make([]float64, m)
	for i := range z {
		z[i] = one + float64(i%7)/7 // deterministic, not axis aligned
	}
	est := one
	for i := 0; i < iters; i++ {
		d.LinearMap(y, z)
		d.AdjointMap(z, y)
		n := floats.Norm(z, 2)
		if n == zero {
			break
		}
		est = n
		floats.Scale(one/n, z)
	}
	if est < one {
		est = one
	}
	return est
}
