package newton

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

// f(x) = x₀² + 3x₁² + x₀x₁ + 2x₀ has gradient (2x₀+x₁+2, 6x₁+x₀) and
// constant Hessian [[2, 1], [1, 6]].
func polyObjective(x []float64) float64 {
	return x[0]*x[0] + 3*x[1]*x[1] + x[0]*x[1] + 2*x[0]
}

func TestNumDiff_Gradient(t *testing.T) {
	n := &NumDiff{F: polyObjective}
	x := []float64{1, 2}

	grad := make([]float64, 2)
	n.Gradient(grad, x)
	assert.InDelta(t, 6, grad[0], 1e-6)
	assert.InDelta(t, 13, grad[1], 1e-6)
}

func TestNumDiff_Hessian(t *testing.T) {
	n := &NumDiff{F: polyObjective}
	x := []float64{1, 2}

	hess := mat.NewSymDense(2, nil)
	n.Hessian(hess, x)
	assert.InDelta(t, 2, hess.At(0, 0), 1e-4)
	assert.InDelta(t, 1, hess.At(0, 1), 1e-4)
	assert.InDelta(t, 6, hess.At(1, 1), 1e-4)
}

func TestNumDiff_HessianVectorProduct(t *testing.T) {
	n := &NumDiff{F: polyObjective}
	x := []float64{1, 2}
	v := []float64{1, 1}

	hv := make([]float64, 2)
	n.HessianVectorProduct(hv, x, v)
	assert.InDelta(t, 3, hv[0], 1e-3)
	assert.InDelta(t, 7, hv[1], 1e-3)
}

func TestNumDiff_LossPassthrough(t *testing.T) {
	n := &NumDiff{F: polyObjective}
	x := []float64{1, 2}
	assert.Equal(t, polyObjective(x), n.Loss(x))
}
