// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/curioloop/proximal/numdiff"
)

// huber is the Moreau envelope of 𝛌|·| with parameter ε:
// quadratic inside |x| ≤ ε𝛌, linear outside.
func huber(x, lam, eps float64) float64 {
	if a := math.Abs(x); a > eps*lam {
		return lam*a - eps*lam*lam/2
	}
	return x * x / (2 * eps)
}

func TestSmoothedL1IsHuber(t *testing.T) {
	const lam, eps = 2.0, 0.5
	a, _ := New(L1, 3, Lagrange(lam))
	m, err := a.Smoothed(Quadratic{Coef: eps})
	require.NoError(t, err)
	require.Equal(t, Sup, m.Conjugate().Kind())

	probes := [][]float64{
		{0, 0, 0},
		{0.5, -0.25, 0.1}, // inside the quadratic regime (ε𝛌 = 1)
		{3, -4, 0.2},      // mixed regimes
	}
	for _, x := range probes {
		want := 0.0
		for _, v := range x {
			want += huber(v, lam, eps)
		}
		require.InDelta(t, want, m.Value(x), 1e-10)

		g := make([]float64, 3)
		m.Grad(x, g)
		for i, v := range x {
			// 𝜵 = clip(x/ε, ±𝛌)
			require.InDelta(t, math.Min(math.Max(v/eps, -lam), lam), g[i], 1e-10)
		}
	}
}

func TestSmoothedGradMatchesNumDiff(t *testing.T) {
	a, _ := New(L2, 4, Lagrange(1.5))
	m, err := a.Smoothed(Quadratic{Coef: 0.3})
	require.NoError(t, err)

	spec := numdiff.GradSpec{
		N:      4,
		Object: m.Value,
		Method: numdiff.Central,
	}

	for _, x := range [][]float64{
		{1, -2, 0.5, 3},
		{0.1, 0.1, -0.1, 0},
	} {
		want := make([]float64, 4)
		require.NoError(t, spec.Grad(x, want))
		got := make([]float64, 4)
		m.Grad(x, got)
		require.InDeltaSlice(t, want, got, 1e-6)
	}
}

func TestSmoothedRejectsZeroCoef(t *testing.T) {
	a, _ := New(L1, 2, Lagrange(1))
	_, err := a.Smoothed(Quadratic{Linear: []float64{1, 1}})
	require.ErrorIs(t, err, ErrDomain)
}
