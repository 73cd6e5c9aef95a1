package newton

import (
	"context"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func BenchmarkDirectStep(b *testing.B) {
	q := spdQuadratic()
	d := NewDirect(q)
	params := []float64{3, -2}
	grad := make([]float64, 2)
	step := make([]float64, 2)
	q.Gradient(grad, params)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := d.ComputeStep(step, params, grad); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkNewtonCGStep(b *testing.B) {
	q := &quadratic{
		h: mat.NewSymDense(3, []float64{
			6, 2, 1,
			2, 5, 2,
			1, 2, 4,
		}),
		b: []float64{0, 0, 0},
	}
	c := NewNewtonCG(q, 0)
	params := []float64{0, 0, 0}
	grad := []float64{1, -2, 3}
	step := make([]float64, 3)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := c.ComputeStep(step, params, grad); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoopQuadratic(b *testing.B) {
	q := spdQuadratic()
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		loop, err := New(q, Config{Method: MethodDirect, Budget: 1})
		if err != nil {
			b.Fatal(err)
		}
		if _, err := loop.Run(ctx, []float64{3, -2}); err != nil {
			b.Fatal(err)
		}
	}
}
