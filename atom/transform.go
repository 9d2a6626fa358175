// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"gonum.org/v1/gonum/mat"
)

// Transform is a linear map 𝐃 : ℝᵖ → ℝᵐ together with its exact adjoint.
// Duality through an affine composition is only correct when AdjointMap is
// the true transpose of LinearMap; implementations must guarantee
// 𝐲·𝐃𝐱 = 𝐃ᵀ𝐲·𝐱 for all x, y.
type Transform interface {
	// LinearMap stores 𝐃𝐱 into dst (length m).
	LinearMap(dst, x []float64)
	// AdjointMap stores 𝐃ᵀ𝐲 into dst (length p).
	AdjointMap(dst, y []float64)
	// Dims returns the primal (domain) and dual (range) dimensions (p, m).
	Dims() (primal, dual int)
}

// Identity returns the identity transform on ℝⁿ.
func Identity(n int) Transform { return identity(n) }

type identity int

func (n identity) LinearMap(dst, x []float64)  { copy(dst, x) }
func (n identity) AdjointMap(dst, y []float64) { copy(dst, y) }
func (n identity) Dims() (int, int)            { return int(n), int(n) }

// Linear wraps a gonum matrix as a Transform.
func Linear(d mat.Matrix) Transform {
	m, p := d.Dims()
	return &linearMap{d: d, m: m, p: p}
}

type linearMap struct {
	d    mat.Matrix
	m, p int
}

func (t *linearMap) LinearMap(dst, x []float64) {
	out := mat.NewVecDense(t.m, dst)
	out.MulVec(t.d, mat.NewVecDense(t.p, x))
}

func (t *linearMap) AdjointMap(dst, y []float64) {
	out := mat.NewVecDense(t.p, dst)
	out.MulVec(t.d.T(), mat.NewVecDense(t.m, y))
}

func (t *linearMap) Dims() (int, int) { return t.p, t.m }
