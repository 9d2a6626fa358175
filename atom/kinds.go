// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package atom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Closed-form seminorm, constraint and proximal cases, one switch per
// operation over the closed Kind enumeration.
//
// Throughout, 𝐮 is the folded quadratic minimizer, L the folded coefficient,
// and the effective threshold of a Lagrange prox is 𝛌/L.

// coneFeasible checks the relative cone tolerance 𝐱ᵢ ≥ -tol·𝚖𝚊𝚡|𝐱|
// (sign flipped for the nonpositive cone).
func coneFeasible(x []float64, nonneg bool) bool {
	slack := feasTol * floats.Norm(x, math.Inf(1))
	for _, v := range x {
		if nonneg && v < -slack {
			return false
		}
		if !nonneg && v > slack {
			return false
		}
	}
	return true
}

func anyBelow(x []float64, lo float64) bool {
	for _, v := range x {
		if v < lo {
			return true
		}
	}
	return false
}

func sumPositive(x []float64) (s float64) {
	for _, v := range x {
		if v > zero {
			s += v
		}
	}
	return
}

func maxPositive(x []float64) (m float64) {
	for _, v := range x {
		if v > m {
			m = v
		}
	}
	return
}

func seminormValue(k Kind, x []float64, lagrange float64, checkFeasibility bool) float64 {
	switch k {
	case L1:
		return lagrange * floats.Norm(x, 1)
	case Sup:
		return lagrange * floats.Norm(x, math.Inf(1))
	case L2:
		return lagrange * floats.Norm(x, 2)
	case PositivePart:
		return lagrange * sumPositive(x)
	case ConstrainedPositivePart:
		// The finite value is reported whenever feasibility is not being
		// checked, even for points with negative entries.
		if checkFeasibility && anyBelow(x, -feasTol) {
			return math.Inf(1)
		}
		return lagrange * sumPositive(x)
	case ConstrainedMax:
		if checkFeasibility && anyBelow(x, -feasTol) {
			return math.Inf(1)
		}
		return lagrange * floats.Max(x)
	case MaxPositivePart:
		return lagrange * maxPositive(x)
	case Nonnegative:
		if checkFeasibility && !coneFeasible(x, true) {
			return math.Inf(1)
		}
		return zero
	case Nonpositive:
		if checkFeasibility && !coneFeasible(x, false) {
			return math.Inf(1)
		}
		return zero
	}
	panic("atom: unknown kind")
}

func constraintValue(k Kind, x []float64, bound float64) float64 {
	slack := bound * (one + feasTol)
	inside := false
	switch k {
	case L1:
		inside = floats.Norm(x, 1) <= slack
	case Sup:
		inside = floats.Norm(x, math.Inf(1)) <= slack
	case L2:
		inside = floats.Norm(x, 2) <= slack
	case PositivePart:
		inside = sumPositive(x) <= slack
	case ConstrainedPositivePart:
		inside = !anyBelow(x, -feasTol) && sumPositive(x) < slack
	case ConstrainedMax:
		inside = !anyBelow(x, -feasTol) && floats.Max(x) <= slack
	case MaxPositivePart:
		inside = maxPositive(x) < slack
	case Nonnegative:
		inside = coneFeasible(x, true)
	case Nonpositive:
		inside = coneFeasible(x, false)
	default:
		panic("atom: unknown kind")
	}
	if inside {
		return zero
	}
	return math.Inf(1)
}

// softThreshold applies 𝚜𝚐𝚗(𝐮)·𝚖𝚊𝚡(|𝐮|-t, 0) elementwise.
func softThreshold(u []float64, t float64) []float64 {
	out := make([]float64, len(u))
	for i, v := range u {
		switch {
		case v > t:
			out[i] = v - t
		case v < -t:
			out[i] = v + t
		}
	}
	return out
}

// projPositive projects the positive entries of u onto the ℓ₁ ball of the
// given radius and returns the full-length result with zeros elsewhere.
func projPositive(u []float64, radius float64) []float64 {
	var idx []int
	var pos []float64
	for i, v := range u {
		if v > zero {
			idx = append(idx, i)
			pos = append(pos, v)
		}
	}
	out := make([]float64, len(u))
	if len(pos) > 0 {
		for j, w := range ProjL1(pos, radius) {
			out[idx[j]] = w
		}
	}
	return out
}

func clip(u []float64, lo, hi float64) []float64 {
	out := make([]float64, len(u))
	for i, v := range u {
		out[i] = math.Min(math.Max(v, lo), hi)
	}
	return out
}

func lagrangeProx(k Kind, u []float64, lipschitz, lagrange float64) []float64 {
	t := lagrange / lipschitz
	switch k {
	case L1:
		return softThreshold(u, t)
	case Sup:
		// Moreau: 𝚙𝚛𝚘𝚡 of ℓ∞ is the residual of the ℓ₁-ball projection.
		out := ProjL1(u, t)
		for i, v := range u {
			out[i] = v - out[i]
		}
		return out
	case L2:
		// Block soft-threshold, written as 𝐮 minus its ball projection so the
		// ‖𝐮‖ = 0 case degenerates gracefully.
		out := make([]float64, len(u))
		if n := floats.Norm(u, 2); n > t {
			copy(out, u)
			floats.Scale(one-t/n, out)
		}
		return out
	case PositivePart:
		// Negative entries carry no penalty and pass through unchanged.
		out := make([]float64, len(u))
		for i, v := range u {
			if v > zero {
				out[i] = math.Max(v-t, zero)
			} else {
				out[i] = v
			}
		}
		return out
	case ConstrainedPositivePart:
		// Stricter than PositivePart: the orthant constraint zeroes negatives.
		out := make([]float64, len(u))
		for i, v := range u {
			if v > zero {
				out[i] = math.Max(v-t, zero)
			}
		}
		return out
	case ConstrainedMax:
		proj := projPositive(u, t)
		out := make([]float64, len(u))
		for i, v := range u {
			if v > zero {
				out[i] = v - proj[i]
			}
		}
		return out
	case MaxPositivePart:
		proj := projPositive(u, t)
		out := make([]float64, len(u))
		for i, v := range u {
			out[i] = v - proj[i]
		}
		return out
	case Nonnegative, Nonpositive:
		// Cone projection is scale invariant: both modes coincide.
		return boundProx(k, u, lipschitz, lagrange)
	}
	panic("atom: unknown kind")
}

func boundProx(k Kind, u []float64, lipschitz, bound float64) []float64 {
	_ = lipschitz // bound projections do not depend on the step size
	switch k {
	case L1:
		return ProjL1(u, bound)
	case Sup:
		return clip(u, -bound, bound)
	case L2:
		out := cloneVec(u)
		if n := floats.Norm(u, 2); n > bound {
			floats.Scale(bound/n, out)
		}
		return out
	case PositivePart, ConstrainedPositivePart:
		return projPositive(u, bound)
	case ConstrainedMax:
		return clip(u, zero, bound)
	case MaxPositivePart:
		return clip(u, math.Inf(-1), bound)
	case Nonnegative:
		out := make([]float64, len(u))
		for i, v := range u {
			out[i] = math.Max(v, zero)
		}
		return out
	case Nonpositive:
		out := make([]float64, len(u))
		for i, v := range u {
			out[i] = math.Min(v, zero)
		}
		return out
	}
	panic("atom: unknown kind")
}
