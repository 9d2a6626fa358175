// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ProjL1 computes the exact Euclidean projection of v onto the ℓ₁ ball
// { 𝐰 : ‖𝐰‖₁ ≤ r }. Points already inside the ball project to themselves.
// A non-positive radius yields the zero vector.
//
// The projection is the soft-threshold 𝐰ᵢ = 𝚜𝚐𝚗(𝐯ᵢ)·𝚖𝚊𝚡(|𝐯ᵢ|-θ, 0)
// where θ ≥ 0 is the unique pivot with ∑𝚖𝚊𝚡(|𝐯ᵢ|-θ, 0) = r. The pivot is
// located with a sorted scan over |𝐯|; a selection algorithm would reach
// the same θ in expected linear time with identical output.
//
// John Duchi et al., 'Efficient projections onto the l1-ball for learning
// in high dimensions', ICML 2008.
func ProjL1(v []float64, radius float64) []float64 {

	out := make([]float64, len(v))
	if radius <= zero {
		return out
	}
	if floats.Norm(v, 1) <= radius {
		copy(out, v)
		return out
	}

	mag := make([]float64, len(v))
	for i, x := range v {
		mag[i] = math.Abs(x)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(mag)))

	// θ grows with each active element; the first element whose magnitude
	// falls at or below the running pivot is inactive, as are all after it.
	var theta, cum float64
	for j, a := range mag {
		cum += a
		t := (cum - radius) / float64(j+1)
		if t >= a {
			break
		}
		theta = t
	}

	for i, x := range v {
		switch {
		case x > theta:
			out[i] = x - theta
		case x < -theta:
			out[i] = x + theta
		}
	}
	return out
}
