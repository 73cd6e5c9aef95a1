package newton

import (
	"gonum.org/v1/gonum/mat"
)

// LossFunction is the objective oracle consumed by the optimizer. The
// function is bound to its training data once, before the loop starts;
// the optimizer treats the parameter vector as an opaque point and never
// inspects how the loss is produced.
//
// Implementations must be safe to call repeatedly with different
// parameter vectors and must not retain hidden mutable state between
// calls: identical inputs must produce identical outputs.
type LossFunction interface {
	// Loss evaluates the scalar objective at params.
	Loss(params []float64) float64

	// Gradient writes the first derivative of the loss with respect to
	// params into dst. len(dst) == len(params).
	Gradient(dst, params []float64)
}

// HessianSource is an oracle that can materialize the full D×D second
// derivative matrix. Required by the direct step method.
type HessianSource interface {
	// Hessian writes the second derivative of the loss at params into dst.
	Hessian(dst *mat.SymDense, params []float64)
}

// HVPSource is an oracle that can compute Hessian-vector products
// without materializing the matrix. Required by the Newton-CG step
// method.
type HVPSource interface {
	// HessianVectorProduct writes H(params)·v into dst.
	HessianVectorProduct(dst, params, v []float64)
}

// BatchHessianSource is an oracle whose Hessian decomposes into a sum of
// per-sample contributions. When Config.BatchSize is set, the direct
// method evaluates the Hessian one slice of samples at a time and sums
// the contributions, bounding peak memory at the cost of extra compute.
// The summed result must equal the unbatched Hessian up to
// floating-point summation order.
type BatchHessianSource interface {
	// NumSamples reports how many samples the bound training data holds.
	NumSamples() int

	// HessianBatch writes the Hessian contribution of samples
	// [start, end) at params into dst.
	HessianBatch(dst *mat.SymDense, params []float64, start, end int)
}
