package newton

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// epsilon is the float64 machine epsilon, used as the CG residual floor.
const epsilon = 0x1p-52

// svdRcond discards singular values below this fraction of the largest
// when estimating rank in the least-squares fallback.
const svdRcond = 1e-15

// StepInfo reports how a candidate step was obtained. It feeds the
// per-iteration diagnostics and never influences the loop's decisions.
type StepInfo struct {
	// SingularFallback is set when the direct solver hit a singular
	// Hessian and fell back to a least-squares solution.
	SingularFallback bool

	// CGIterations counts inner conjugate-gradient iterations.
	CGIterations int

	// CGConverged reports whether the CG residual dropped below machine
	// epsilon before the iteration cap.
	CGConverged bool
}

// StepComputer produces a candidate descent step from the gradient at
// the current parameters. step, params and grad all have the problem
// dimension D.
type StepComputer interface {
	ComputeStep(step, params, grad []float64) (StepInfo, error)
}

// Direct computes the Newton step by materializing the Hessian and
// solving H·step = -g with an LU factorization. A numerically singular
// Hessian is an expected, recoverable condition: the solver falls back
// to the minimum-norm least-squares solution of the same system and
// reports the event through StepInfo and the logger, never as an error.
//
// When built from a BatchHessianSource, the Hessian is accumulated as
// the sum of per-batch contributions evaluated at the same parameters.
type Direct struct {
	src       HessianSource
	batched   BatchHessianSource
	batchSize int
	logger    log.FieldLogger

	hess  *mat.SymDense
	batch *mat.SymDense
	rhs   *mat.VecDense
	sol   *mat.VecDense
}

// NewDirect creates a direct step computer over a materialized Hessian
// oracle.
func NewDirect(src HessianSource) *Direct {
	return &Direct{src: src, logger: log.StandardLogger()}
}

// NewBatchedDirect creates a direct step computer that sums per-batch
// Hessian contributions, batchSize samples at a time.
func NewBatchedDirect(src BatchHessianSource, batchSize int) *Direct {
	return &Direct{batched: src, batchSize: batchSize, logger: log.StandardLogger()}
}

func (d *Direct) ensure(dim int) {
	if d.hess != nil && d.hess.SymmetricDim() == dim {
		return
	}
	d.hess = mat.NewSymDense(dim, nil)
	d.rhs = mat.NewVecDense(dim, nil)
	d.sol = mat.NewVecDense(dim, nil)
	if d.batched != nil {
		d.batch = mat.NewSymDense(dim, nil)
	}
}

func (d *Direct) buildHessian(params []float64) {
	if d.batched == nil {
		d.src.Hessian(d.hess, params)
		return
	}
	n := d.batched.NumSamples()
	d.hess.Zero()
	for start := 0; start < n; start += d.batchSize {
		end := start + d.batchSize
		if end > n {
			end = n
		}
		d.batch.Zero()
		d.batched.HessianBatch(d.batch, params, start, end)
		d.hess.AddSym(d.hess, d.batch)
	}
}

// ComputeStep solves H·step = -grad. The returned error is reserved for
// contract violations (dimension mismatches); singularity is handled
// internally.
func (d *Direct) ComputeStep(step, params, grad []float64) (StepInfo, error) {
	dim := len(params)
	if len(step) != dim || len(grad) != dim {
		return StepInfo{}, fmt.Errorf("newton: dimension mismatch: step %d, params %d, grad %d",
			len(step), dim, len(grad))
	}
	d.ensure(dim)
	d.buildHessian(params)

	for i, g := range grad {
		d.rhs.SetVec(i, -g)
	}

	var info StepInfo
	var lu mat.LU
	lu.Factorize(d.hess)
	if err := lu.SolveVecTo(d.sol, false, d.rhs); err != nil {
		info.SingularFallback = true
		fields := log.Fields{"dim": dim}
		var cond mat.Condition
		if errors.As(err, &cond) {
			fields["cond"] = float64(cond)
		}
		d.logger.WithFields(fields).Warn("singular Hessian, falling back to least squares")
		d.solveLeastSquares()
	}

	for i := range step {
		step[i] = d.sol.AtVec(i)
	}
	return info, nil
}

// solveLeastSquares computes the minimum-norm least-squares solution of
// H·x = rhs via SVD. A rank-zero Hessian yields the zero step.
func (d *Direct) solveLeastSquares() {
	var svd mat.SVD
	if ok := svd.Factorize(d.hess, mat.SVDThin); !ok {
		d.sol.Zero()
		return
	}
	rank := svd.Rank(svdRcond)
	if rank == 0 {
		d.sol.Zero()
		return
	}
	svd.SolveVecTo(d.sol, d.rhs, rank)
}

// NewtonCG computes the Newton step matrix-free, running conjugate
// gradient on H·v = g through Hessian-vector products only.
//
// The recurrence starts from residual r = -g, direction p = g and
// accumulated step v = 0, and stops once ‖r‖ falls below machine
// epsilon. The iteration cap is a safety net against a non-convergent
// residual: when it is hit, the partial accumulated step is returned
// and flagged, so the caller still gets a usable direction.
type NewtonCG struct {
	src     HVPSource
	maxIter int
	logger  log.FieldLogger

	r, p, v, hp []float64
}

// NewNewtonCG creates a conjugate-gradient step computer. maxIter <= 0
// selects DefaultCGMaxIter.
func NewNewtonCG(src HVPSource, maxIter int) *NewtonCG {
	if maxIter <= 0 {
		maxIter = DefaultCGMaxIter
	}
	return &NewtonCG{src: src, maxIter: maxIter, logger: log.StandardLogger()}
}

func (c *NewtonCG) ensure(dim int) {
	if len(c.r) == dim {
		return
	}
	c.r = make([]float64, dim)
	c.p = make([]float64, dim)
	c.v = make([]float64, dim)
	c.hp = make([]float64, dim)
}

// ComputeStep runs the CG recurrence and writes -v into step.
func (c *NewtonCG) ComputeStep(step, params, grad []float64) (StepInfo, error) {
	dim := len(params)
	if len(step) != dim || len(grad) != dim {
		return StepInfo{}, fmt.Errorf("newton: dimension mismatch: step %d, params %d, grad %d",
			len(step), dim, len(grad))
	}
	c.ensure(dim)

	for i, g := range grad {
		c.r[i] = -g
		c.p[i] = g
		c.v[i] = 0
	}

	var info StepInfo
	for info.CGIterations < c.maxIter {
		if floats.Norm(c.r, 2) <= epsilon {
			info.CGConverged = true
			break
		}
		c.src.HessianVectorProduct(c.hp, params, c.p)
		rr := floats.Dot(c.r, c.r)
		pAp := floats.Dot(c.p, c.hp)
		if pAp == 0 {
			// Stalled: the product annihilated the search direction.
			break
		}
		alpha := rr / pAp
		floats.AddScaled(c.v, alpha, c.p)
		floats.AddScaled(c.r, alpha, c.hp)
		beta := floats.Dot(c.r, c.r) / rr
		for i := range c.p {
			c.p[i] = -c.r[i] + beta*c.p[i]
		}
		info.CGIterations++
	}
	if !info.CGConverged && floats.Norm(c.r, 2) <= epsilon {
		info.CGConverged = true
	}
	if !info.CGConverged {
		// Expected whenever the residual floors at the rounding level of
		// the products instead of absolute epsilon; the partial step is
		// still usable, so this is a diagnostic rather than a warning.
		c.logger.WithFields(log.Fields{
			"iterations": info.CGIterations,
			"residual":   floats.Norm(c.r, 2),
		}).Debug("conjugate gradient stopped before convergence, using partial step")
	}

	for i := range step {
		step[i] = -c.v[i]
	}
	return info, nil
}
