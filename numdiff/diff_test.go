// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package numdiff

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// rosen is the Rosenbrock function with its analytic gradient.
func rosen(x []float64) float64 {
	var f float64
	for i := 0; i < len(x)-1; i++ {
		a, b := x[i+1]-x[i]*x[i], 1-x[i]
		f += 100*a*a + b*b
	}
	return f
}

func rosenGrad(x []float64) []float64 {
	g := make([]float64, len(x))
	for i := 0; i < len(x)-1; i++ {
		a := x[i+1] - x[i]*x[i]
		g[i] += -400*x[i]*a - 2*(1-x[i])
		g[i+1] += 200 * a
	}
	return g
}

func TestGradSpecCheck(t *testing.T) {

	valid := GradSpec{N: 2, Object: rosen, Method: Central}
	x, g := []float64{1, 2}, make([]float64, 2)
	require.NoError(t, valid.Check(x, g))

	cases := []struct {
		mutate func(gs *GradSpec)
		x, g   []float64
	}{
		{mutate: func(gs *GradSpec) { gs.N = 0 }, x: x, g: g},
		{mutate: func(gs *GradSpec) { gs.Method = Method(9) }, x: x, g: g},
		{mutate: func(gs *GradSpec) { gs.Object = nil }, x: x, g: g},
		{mutate: func(gs *GradSpec) {}, x: []float64{1}, g: g},
		{mutate: func(gs *GradSpec) {}, x: x, g: []float64{1}},
	}
	for i, c := range cases {
		gs := valid
		c.mutate(&gs)
		require.Error(t, gs.Grad(c.x, c.g), "case %d must be rejected", i)
	}
}

func TestGradMethods(t *testing.T) {

	points := [][]float64{
		{0, 0, 0},
		{1, 1, 1},
		{0.5, -2, 3},
		{-1.2, 1, 0.7},
	}

	for _, method := range []Method{Forward, Central} {
		tol := 1e-4
		if method == Central {
			tol = 1e-6
		}
		gs := GradSpec{N: 3, Object: rosen, Method: method}
		for _, x := range points {
			x0 := append([]float64(nil), x...)
			g := make([]float64, 3)
			require.NoError(t, gs.Grad(x0, g))
			require.Equal(t, x, x0, "x0 must be restored")
			want := rosenGrad(x)
			for i := range g {
				require.InDelta(t, want[i], g[i], tol*(1+math.Abs(want[i])))
			}
		}
	}
}

func TestGradStepOverride(t *testing.T) {

	gs := GradSpec{N: 2, Object: rosen, Method: Central, AbsStep: 1e-5}
	x := []float64{0.3, -0.8}
	g := make([]float64, 2)
	require.NoError(t, gs.Grad(x, g))
	want := rosenGrad(x)
	require.InDeltaSlice(t, want, g, 1e-4)

	gs = GradSpec{N: 2, Object: rosen, Method: Forward, RelStep: 1e-7}
	require.NoError(t, gs.Grad(x, g))
	require.InDeltaSlice(t, want, g, 1e-3)
}
