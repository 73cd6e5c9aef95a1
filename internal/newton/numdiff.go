package newton

import (
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultFDStep is the central-difference step used by NumDiff when none
// is configured.
const DefaultFDStep = 1e-5

// NumDiff adapts a plain loss closure into a full oracle using central
// finite differences: it implements LossFunction, HessianSource and
// HVPSource, so it works with both step methods. Intended for
// small-dimensional objectives where differentiating by hand is not
// worth the trouble; derivative accuracy is limited by the step size.
type NumDiff struct {
	// F evaluates the objective.
	F func(params []float64) float64

	// Step is the finite-difference step. Zero selects DefaultFDStep.
	Step float64
}

func (n *NumDiff) fdStep() float64 {
	if n.Step == 0 {
		return DefaultFDStep
	}
	return n.Step
}

// Loss evaluates the wrapped objective.
func (n *NumDiff) Loss(params []float64) float64 {
	return n.F(params)
}

// Gradient estimates the gradient by central differences.
func (n *NumDiff) Gradient(dst, params []float64) {
	fd.Gradient(dst, n.F, params, &fd.Settings{Formula: fd.Central, Step: n.fdStep()})
}

// Hessian estimates the full Hessian by finite differences.
func (n *NumDiff) Hessian(dst *mat.SymDense, params []float64) {
	fd.Hessian(dst, n.F, params, nil)
}

// HessianVectorProduct estimates H·v as the central difference of the
// gradient along v.
func (n *NumDiff) HessianVectorProduct(dst, params, v []float64) {
	h := n.fdStep()
	dim := len(params)
	shifted := make([]float64, dim)
	gp := make([]float64, dim)
	gm := make([]float64, dim)

	floats.AddScaledTo(shifted, params, h, v)
	n.Gradient(gp, shifted)
	floats.AddScaledTo(shifted, params, -h, v)
	n.Gradient(gm, shifted)

	for i := range dst {
		dst[i] = (gp[i] - gm[i]) / (2 * h)
	}
}
