package newton

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// TestFitRosenbrock drives the full loop on the classic banana valley
// from the standard hard start, through the finite-difference oracle.
func TestFitRosenbrock(t *testing.T) {
	rosen := func(x []float64) float64 {
		a := 1 - x[0]
		b := x[1] - x[0]*x[0]
		return a*a + 100*b*b
	}
	oracle := &NumDiff{F: rosen}
	collector := NewCollector()
	loop, err := New(oracle, Config{Method: MethodDirect, Budget: 100, Recorder: collector})
	require.NoError(t, err)

	init := []float64{-1.2, 1}
	res, err := loop.Run(context.Background(), init)
	require.NoError(t, err)

	assert.Less(t, res.Loss, 1e-4)
	assert.InDelta(t, 1, res.Params[0], 1e-2)
	assert.InDelta(t, 1, res.Params[1], 1e-2)
	assert.LessOrEqual(t, res.Loss, rosen(init))

	sum := collector.Summary()
	assert.Equal(t, res.Iterations, sum.Iterations)
	assert.NotEmpty(t, sum.RunID)
}

// TestFitMethodsAgree checks that direct and conjugate-gradient runs
// land on the same minimizer of a positive-definite objective.
func TestFitMethodsAgree(t *testing.T) {
	q := &quadratic{
		h: mat.NewSymDense(3, []float64{
			6, 2, 1,
			2, 5, 2,
			1, 2, 4,
		}),
		b: []float64{1, -1, 2},
	}
	init := []float64{5, -3, 1}

	run := func(m Method) *Result {
		loop, err := New(q, Config{Method: m, Budget: 1})
		require.NoError(t, err)
		res, err := loop.Run(context.Background(), init)
		require.NoError(t, err)
		return res
	}

	direct := run(MethodDirect)
	cg := run(MethodCG)
	for i := range direct.Params {
		assert.InDelta(t, direct.Params[i], cg.Params[i], 1e-6)
	}
	assert.InDelta(t, direct.Loss, cg.Loss, 1e-9)
}

// TestFitBatchedHessian runs the same least-squares fit with and without
// batched Hessian evaluation and expects matching results.
func TestFitBatchedHessian(t *testing.T) {
	m := &leastSquares{
		rows: [][]float64{
			{1, 0.5},
			{0.3, 2},
			{-1, 1},
			{2, -0.5},
			{0.7, 0.7},
		},
		y: []float64{1, -2, 0.5, 3, -1},
	}
	init := []float64{0, 0}

	run := func(batch int) *Result {
		loop, err := New(m, Config{Method: MethodDirect, Budget: 5, BatchSize: batch})
		require.NoError(t, err)
		res, err := loop.Run(context.Background(), init)
		require.NoError(t, err)
		return res
	}

	whole, err := New(m, Config{Method: MethodDirect, Budget: 5})
	require.NoError(t, err)
	full, err := whole.Run(context.Background(), init)
	require.NoError(t, err)

	split := run(2)
	for i := range full.Params {
		assert.InDelta(t, full.Params[i], split.Params[i], 1e-10)
	}
	assert.InDelta(t, full.Loss, split.Loss, 1e-10)
}
