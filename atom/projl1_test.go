// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestProjL1Inside(t *testing.T) {
	v := []float64{0.5, -0.25, 0.1}
	out := ProjL1(v, 1)
	require.Equal(t, v, out)
	// The result is a copy, never the input slice.
	out[0] = 99
	require.Equal(t, 0.5, v[0])
}

func TestProjL1Outside(t *testing.T) {
	out := ProjL1([]float64{3, -1, 0.5}, 2)
	require.InDeltaSlice(t, []float64{2, 0, 0}, out, 1e-12)
	require.InDelta(t, 2.0, floats.Norm(out, 1), 1e-12)
}

func TestProjL1ZeroRadius(t *testing.T) {
	out := ProjL1([]float64{3, -1, 0.5}, 0)
	require.Equal(t, []float64{0, 0, 0}, out)
}

func TestProjL1Optimality(t *testing.T) {
	v := []float64{2, -3, 1, 0.5, -0.25}
	const r = 1.5
	out := ProjL1(v, r)
	require.InDelta(t, r, floats.Norm(out, 1), 1e-10)

	// No feasible competitor may be closer to v than the projection.
	best := distSq(v, out)
	competitors := [][]float64{
		{1.5, 0, 0, 0, 0},
		{0, -1.5, 0, 0, 0},
		{0.5, -0.5, 0.25, 0.25, 0},
		{0.25, -1, 0.25, 0, 0},
	}
	for _, w := range competitors {
		require.LessOrEqual(t, floats.Norm(w, 1), r+1e-12)
		require.LessOrEqual(t, best, distSq(v, w)+1e-12)
	}
}
