package newton

import (
	"gonum.org/v1/gonum/mat"
)

// quadratic is a test oracle for f(x) = ½·xᵀHx + bᵀx + c with analytic
// gradient, Hessian and Hessian-vector product.
type quadratic struct {
	h *mat.SymDense
	b []float64
	c float64
}

func (q *quadratic) Loss(x []float64) float64 {
	s := q.c
	for i := range x {
		var row float64
		for j := range x {
			row += q.h.At(i, j) * x[j]
		}
		s += 0.5*x[i]*row + q.b[i]*x[i]
	}
	return s
}

func (q *quadratic) Gradient(dst, x []float64) {
	for i := range dst {
		dst[i] = q.b[i]
		for j := range x {
			dst[i] += q.h.At(i, j) * x[j]
		}
	}
}

func (q *quadratic) Hessian(dst *mat.SymDense, _ []float64) {
	dst.CopySym(q.h)
}

func (q *quadratic) HessianVectorProduct(dst, _, v []float64) {
	for i := range dst {
		dst[i] = 0
		for j := range v {
			dst[i] += q.h.At(i, j) * v[j]
		}
	}
}

// leastSquares is a test oracle for f(x) = Σᵢ (aᵢ·x - yᵢ)² whose Hessian
// decomposes into per-sample contributions.
type leastSquares struct {
	rows [][]float64
	y    []float64
}

func (m *leastSquares) Loss(x []float64) float64 {
	var s float64
	for i, a := range m.rows {
		r := -m.y[i]
		for j := range x {
			r += a[j] * x[j]
		}
		s += r * r
	}
	return s
}

func (m *leastSquares) Gradient(dst, x []float64) {
	for j := range dst {
		dst[j] = 0
	}
	for i, a := range m.rows {
		r := -m.y[i]
		for j := range x {
			r += a[j] * x[j]
		}
		for j := range dst {
			dst[j] += 2 * r * a[j]
		}
	}
}

func (m *leastSquares) Hessian(dst *mat.SymDense, x []float64) {
	m.HessianBatch(dst, x, 0, len(m.rows))
}

func (m *leastSquares) NumSamples() int { return len(m.rows) }

func (m *leastSquares) HessianBatch(dst *mat.SymDense, _ []float64, start, end int) {
	dst.Zero()
	for s := start; s < end; s++ {
		a := m.rows[s]
		for i := range a {
			for j := i; j < len(a); j++ {
				dst.SetSym(i, j, dst.At(i, j)+2*a[i]*a[j])
			}
		}
	}
}

// lossOnly implements just LossFunction, for oracle capability checks.
type lossOnly struct {
	fn func([]float64) float64
}

func (l lossOnly) Loss(x []float64) float64 { return l.fn(x) }

func (l lossOnly) Gradient(dst, _ []float64) {
	for i := range dst {
		dst[i] = 0
	}
}
