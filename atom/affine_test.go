// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// diff2 is the 2×3 first-difference operator used by fused-lasso penalties.
var diff2 = mat.NewDense(2, 3, []float64{
	-1, 1, 0,
	0, -1, 1,
})

func TestTransformAdjoint(t *testing.T) {
	tr := Linear(diff2)
	p, m := tr.Dims()
	require.Equal(t, 3, p)
	require.Equal(t, 2, m)

	x := []float64{1, -2, 0.5}
	y := []float64{0.3, 2}
	dx := make([]float64, m)
	dty := make([]float64, p)
	tr.LinearMap(dx, x)
	tr.AdjointMap(dty, y)

	// 𝐲·𝐃𝐱 = 𝐃ᵀ𝐲·𝐱 is the duality-correctness contract.
	require.InDelta(t, floats.Dot(y, dx), floats.Dot(x, dty), 1e-12)
	require.InDeltaSlice(t, []float64{-3, 2.5}, dx, 1e-12)
}

func TestIdentityTransform(t *testing.T) {
	tr := Identity(3)
	x := []float64{1, 2, 3}
	out := make([]float64, 3)
	tr.LinearMap(out, x)
	require.Equal(t, x, out)
	tr.AdjointMap(out, x)
	require.Equal(t, x, out)
}

func TestComposeShapeCheck(t *testing.T) {
	a, _ := New(L1, 3, Lagrange(1)) // dimension 3 vs range 2
	_, err := Compose(a, Linear(diff2), nil)
	require.ErrorIs(t, err, ErrConfig)

	a, _ = New(L1, 2, Lagrange(1))
	_, err = Compose(a, Linear(diff2), []float64{1, 2, 3})
	require.ErrorIs(t, err, ErrConfig)
}

func TestComposeFoldsOffset(t *testing.T) {
	s := Spec{Kind: L1, N: 2, Param: Lagrange(1), Offset: []float64{1, 0}}
	a, err := s.New()
	require.NoError(t, err)

	af, err := Compose(a, Linear(diff2), []float64{0.5, -0.5})
	require.NoError(t, err)
	// The transform offset merges into the atom offset: single bookkeeping.
	require.InDeltaSlice(t, []float64{1.5, -0.5}, af.Atom().Offset(), 1e-12)
	require.InDeltaSlice(t, []float64{1, 0}, a.Offset(), 1e-12) // input untouched

	p, m := af.Dims()
	require.Equal(t, 3, p)
	require.Equal(t, 2, m)
}

func TestAffineObjective(t *testing.T) {
	a, _ := New(L1, 2, Lagrange(2))
	af, err := Compose(a, Linear(diff2), nil)
	require.NoError(t, err)

	x := []float64{1, -2, 0.5}
	// 𝐃𝐱 = [-3, 2.5], penalty 2·(3+2.5)
	require.InDelta(t, 11.0, af.NonsmoothObjective(x, false), 1e-12)
}

func TestAffineDual(t *testing.T) {
	a, _ := New(L1, 2, Lagrange(1.5))
	af, _ := Compose(a, Linear(diff2), nil)

	tr, conj, err := af.Dual()
	require.NoError(t, err)
	require.Equal(t, af.Transform(), tr)
	require.Equal(t, Sup, conj.Kind())
	require.Equal(t, BoundMode, conj.Mode())
	require.Equal(t, 1.5, conj.Param().Value())
}
