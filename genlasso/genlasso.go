// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package genlasso implements the generalized lasso
//
//	minimize 𝛃 ½‖𝐘-𝐗𝛃‖² + 𝛌‖𝐃𝛃‖₁
//
// for a design matrix 𝐗 and penalty operator 𝐃. The ℓ₁ penalty of a linear
// transform has no closed-form proximal: every outer proximal step solves an
// inner dual subproblem iteratively (a bi-level evaluation), so Proximal is
// a potentially expensive operation, unlike closed-form atom proximals.
package genlasso

import (
	"errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/proximal/atom"
	"github.com/curioloop/proximal/fista"
)

const (
	zero = 0.0
	half = 0.5
	one  = 1.0
)

// ErrDataShape reports a construction-time dimension mismatch
// between the design matrix, the penalty operator and the response.
var ErrDataShape = errors.New("genlasso: data shapes are inconsistent")

// Control bounds the inner dual solve triggered by each outer proximal
// step. The tolerance decides wall-clock cost; the iteration cap bounds the
// worst case. When the cap is hit the best dual iterate is used silently:
// best-effort convergence keeps the outer loop's cost bounded and must not
// be upgraded to a failure.
const (
	dualMaxIts = 250
	dualTol    = 1e-16
)

// Lasso holds the data of a generalized lasso problem and its fitted state.
type Lasso struct {
	x       mat.Matrix // design 𝐗, n×p
	d       mat.Matrix // penalty operator 𝐃, m×p
	y       []float64  // response 𝐘, length n
	n, p, m int

	lam   float64 // 𝛌, the ℓ₁ penalty weight
	coefs []float64

	dual *approximator
	xlip float64 // eigmax(𝐗ᵀ𝐗) estimate for the outer solver
}

// New binds (𝐗, 𝐃, 𝐘) after checking the three shapes agree:
// 𝐗 is n×p, 𝐃 is m×p and 𝐘 has length n.
func New(x, d mat.Matrix, y []float64) (*Lasso, error) {

	n, p := x.Dims()
	m, dp := d.Dims()
	switch {
	case n <= 0 || p <= 0 || m <= 0:
		return nil, ErrDataShape
	case dp != p:
		return nil, ErrDataShape
	case len(y) != n:
		return nil, ErrDataShape
	}

	xt := atom.Linear(x)
	return &Lasso{
		x: x, d: d, y: cloneVec(y),
		n: n, p: p, m: m,
		coefs: make([]float64, p),
		dual:  newApproximator(atom.Linear(d)),
		xlip:  opNorm(xt, 100),
	}, nil
}

// SetPenalty sets the ℓ₁ penalty weight 𝛌.
func (g *Lasso) SetPenalty(lam float64) { g.lam = lam }

// Penalty returns the current penalty weight.
func (g *Lasso) Penalty() float64 { return g.lam }

// Coefs returns a copy of the current coefficients.
func (g *Lasso) Coefs() []float64 { return cloneVec(g.coefs) }

// SetCoefs replaces the current coefficients (e.g. a warm start).
func (g *Lasso) SetCoefs(beta []float64) {
	copy(g.coefs, beta)
}

// Smooth evaluates the quadratic part ½‖𝐘-𝐗𝛃‖².
func (g *Lasso) Smooth(beta []float64) float64 {
	r := g.fitResidual(beta)
	return half * floats.Dot(r, r)
}

// Grad stores 𝜵½‖𝐘-𝐗𝛃‖² = 𝐗ᵀ(𝐗𝛃-𝐘) into grad.
func (g *Lasso) Grad(beta, grad []float64) {
	r := g.fitResidual(beta)
	out := mat.NewVecDense(g.p, grad)
	out.MulVec(g.x.T(), mat.NewVecDense(g.n, r))
	floats.Scale(-one, grad)
}

// Objective evaluates the full composite ½‖𝐘-𝐗𝛃‖² + 𝛌‖𝐃𝛃‖₁.
func (g *Lasso) Objective(beta []float64) float64 {
	return g.Smooth(beta) + g.penaltyValue(beta)
}

func (g *Lasso) penaltyValue(beta []float64) float64 {
	db := make([]float64, g.m)
	mat.NewVecDense(g.m, db).MulVec(g.d, mat.NewVecDense(g.p, beta))
	return g.lam * floats.Norm(db, 1)
}

// fitResidual returns 𝐘 - 𝐗𝛃.
func (g *Lasso) fitResidual(beta []float64) []float64 {
	r := make([]float64, g.n)
	mat.NewVecDense(g.n, r).MulVec(g.x, mat.NewVecDense(g.p, beta))
	floats.Scale(-one, r)
	floats.Add(r, g.y)
	return r
}

// Proximal is the bi-level proximal step: resolve
//
//	𝚊𝚛𝚐𝚖𝚒𝚗 ᵥ ½L‖𝐳 - 𝐠/L - 𝐯‖² + 𝛌‖𝐃𝐯‖₁
//
// by handing the gradient step 𝐯 = 𝐳 - 𝐠/L to the dual signal approximator
// with the penalty rescaled to 𝛌/L, running the inner solver to tolerance
// and reading the primal reconstruction off the dual iterate.
func (g *Lasso) Proximal(z, grad []float64, lipschitz float64) []float64 {
	v := make([]float64, g.p)
	floats.AddScaledTo(v, z, -one/lipschitz, grad)
	g.dual.setResponse(v)
	g.dual.setPenalty(g.lam / lipschitz)
	w := g.dual.solve(dualMaxIts, dualTol)
	return g.dual.primal(w)
}

// Fit runs the outer accelerated solver from the current coefficients
// until the objective change falls under tol or maxIts is exhausted.
func (g *Lasso) Fit(maxIts int, tol float64) (*fista.Result, error) {

	problem := fista.Problem{
		N: g.p,
		Smooth: fista.Evaluation{
			Function:   g.Smooth,
			Derivative: g.Grad,
		},
		Prox:      g.Proximal,
		Nonsmooth: g.penaltyValue,
		Lipschitz: g.xlip,
		Backtrack: true,
		Stop:      fista.Termination{MaxIterations: maxIts, Tolerance: tol},
	}

	opt, err := problem.New()
	if err != nil {
		return nil, err
	}
	res := opt.Fit(g.coefs)
	copy(g.coefs, res.X)
	return res, nil
}

// Output returns the fitted coefficients and the residual 𝐘 - 𝐗𝛃.
func (g *Lasso) Output() (coefs, residual []float64) {
	return g.Coefs(), g.fitResidual(g.coefs)
}

func cloneVec(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
