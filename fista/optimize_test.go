// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fista

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// quadSmooth is ½‖𝐱-𝐜‖² with gradient 𝐱-𝐜.
func quadSmooth(c []float64) Evaluation {
	return Evaluation{
		Function: func(x []float64) float64 {
			d := make([]float64, len(x))
			floats.SubTo(d, x, c)
			return half * floats.Dot(d, d)
		},
		Derivative: func(x, g []float64) {
			floats.SubTo(g, x, c)
		},
	}
}

// softProx is the proximal map of 𝛌‖·‖₁ at the gradient step.
func softProx(lam float64) Prox {
	return func(z, g []float64, lipschitz float64) []float64 {
		out := make([]float64, len(z))
		t := lam / lipschitz
		for i := range z {
			u := z[i] - g[i]/lipschitz
			switch {
			case u > t:
				out[i] = u - t
			case u < -t:
				out[i] = u + t
			}
		}
		return out
	}
}

func TestProblemValidation(t *testing.T) {

	c := []float64{1}
	valid := Problem{
		N:         1,
		Smooth:    quadSmooth(c),
		Prox:      softProx(0),
		Lipschitz: 1,
		Stop:      Termination{MaxIterations: 10, Tolerance: 1e-8},
	}

	broken := []func(p *Problem){
		func(p *Problem) { p.N = 0 },
		func(p *Problem) { p.Smooth.Function = nil },
		func(p *Problem) { p.Smooth.Derivative = nil },
		func(p *Problem) { p.Prox = nil },
		func(p *Problem) { p.Lipschitz = 0 },
		func(p *Problem) { p.Lipschitz = math.NaN() },
		func(p *Problem) { p.Stop.MaxIterations = 0 },
		func(p *Problem) { p.Stop.Tolerance = -1 },
	}
	for i, mutate := range broken {
		p := valid
		mutate(&p)
		_, err := p.New()
		require.Error(t, err, "case %d must be rejected", i)
	}

	_, err := valid.New()
	require.NoError(t, err)
}

func TestFitLassoSoftThreshold(t *testing.T) {

	// minimize ½‖𝐱-𝐜‖² + 𝛌‖𝐱‖₁ has the closed solution 𝚜𝚘𝚏𝚝(𝐜,𝛌).
	c := []float64{5, -5, 0.1, 2}
	const lam = 1.0

	problem := Problem{
		N:      4,
		Smooth: quadSmooth(c),
		Prox:   softProx(lam),
		Nonsmooth: func(x []float64) float64 {
			return lam * floats.Norm(x, 1)
		},
		Lipschitz: 1,
		Stop:      Termination{MaxIterations: 500, Tolerance: 1e-12},
	}

	opt, err := problem.New()
	require.NoError(t, err)
	res := opt.Fit(make([]float64, 4))
	require.True(t, res.OK)
	require.InDeltaSlice(t, []float64{4, -4, 0, 1}, res.X, 1e-6)
}

func TestFitBacktrack(t *testing.T) {

	// Start with a Lipschitz estimate far below the true value 1:
	// backtracking must still converge.
	c := []float64{3, -2}
	problem := Problem{
		N:         2,
		Smooth:    quadSmooth(c),
		Prox:      softProx(0.5),
		Lipschitz: 1e-3,
		Backtrack: true,
		Stop:      Termination{MaxIterations: 500, Tolerance: 1e-12},
	}

	opt, err := problem.New()
	require.NoError(t, err)
	res := opt.Fit(make([]float64, 2))
	require.True(t, res.OK)
	require.InDeltaSlice(t, []float64{2.5, -1.5}, res.X, 1e-6)
}

func TestFitBudgetExhausted(t *testing.T) {

	// A grossly overestimated Lipschitz constant forces tiny steps, so two
	// iterations cannot drive the objective change to zero.
	c := []float64{100, -100}
	problem := Problem{
		N:         2,
		Smooth:    quadSmooth(c),
		Prox:      softProx(0),
		Lipschitz: 1e4,
		Stop:      Termination{MaxIterations: 2, Tolerance: 0},
	}

	opt, err := problem.New()
	require.NoError(t, err)
	res := opt.Fit(make([]float64, 2))
	require.False(t, res.OK)
	require.Equal(t, 2, res.NumIter)
}

func TestFitDimensionPanic(t *testing.T) {
	problem := Problem{
		N:         2,
		Smooth:    quadSmooth([]float64{0, 0}),
		Prox:      softProx(0),
		Lipschitz: 1,
		Stop:      Termination{MaxIterations: 10, Tolerance: 1e-8},
	}
	opt, err := problem.New()
	require.NoError(t, err)
	require.Panics(t, func() { opt.Fit([]float64{1, 2, 3}) })
}

func TestLoggerTrace(t *testing.T) {

	var buf bytes.Buffer
	problem := Problem{
		N:         1,
		Smooth:    quadSmooth([]float64{1}),
		Prox:      softProx(0),
		Lipschitz: 1,
		Stop:      Termination{MaxIterations: 50, Tolerance: 1e-10},
		Log:       &Logger{Level: LogEval, Msg: &buf},
	}

	opt, err := problem.New()
	require.NoError(t, err)
	res := opt.Fit([]float64{0})
	require.True(t, res.OK)
	require.NotEmpty(t, buf.String())
}
