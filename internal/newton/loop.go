package newton

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

var (
	// ErrNoHessian is returned by New when MethodDirect is selected but
	// the oracle does not implement HessianSource.
	ErrNoHessian = errors.New("newton: direct method requires a HessianSource oracle")

	// ErrNoHVP is returned by New when MethodCG is selected but the
	// oracle does not implement HVPSource.
	ErrNoHVP = errors.New("newton: cg method requires an HVPSource oracle")

	// ErrNoBatches is returned by New when a batch size is configured
	// but the oracle does not implement BatchHessianSource.
	ErrNoBatches = errors.New("newton: batch size set but oracle is not a BatchHessianSource")

	// ErrNoParams is returned by Run for an empty initial vector.
	ErrNoParams = errors.New("newton: initial parameter vector is empty")
)

// Status reports why the loop stopped.
type Status int

const (
	// StatusBudgetExhausted means the loop ran its full iteration
	// budget.
	StatusBudgetExhausted Status = iota

	// StatusLineSearchFailed means no multiplier satisfied the
	// sufficient-decrease bound within the trial budget. No further
	// progress was possible along the computed direction.
	StatusLineSearchFailed

	// StatusCanceled means the context was canceled between iterations.
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusBudgetExhausted:
		return "budget exhausted"
	case StatusLineSearchFailed:
		return "line search failed"
	case StatusCanceled:
		return "canceled"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result is the finalized outcome of a run: the best parameters seen at
// any accepted iterate, regardless of how the loop stopped.
type Result struct {
	// Params is a fresh copy of the best parameter vector.
	Params []float64

	// Loss is the objective value at Params.
	Loss float64

	// Status reports why the loop stopped.
	Status Status

	// Iterations is the number of outer iterations executed.
	Iterations int
}

// Loop orchestrates the optimization: gradient, step, curvature check,
// line search or replacement, bookkeeping. The loop owns the current and
// best-so-far parameter vectors exclusively; no other component mutates
// them.
type Loop struct {
	cfg    Config
	f      LossFunction
	step   StepComputer
	logger log.FieldLogger
	rng    *rand.Rand
}

// New builds a Loop over f. The step strategy is resolved here, once:
// MethodDirect requires f to implement HessianSource (or
// BatchHessianSource when Config.BatchSize is set), MethodCG requires
// HVPSource.
func New(f LossFunction, cfg Config) (*Loop, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger.WithField("run", uuid.NewString()[:8])

	var sc StepComputer
	switch cfg.Method {
	case MethodDirect:
		if cfg.BatchSize > 0 {
			src, ok := f.(BatchHessianSource)
			if !ok {
				return nil, ErrNoBatches
			}
			d := NewBatchedDirect(src, cfg.BatchSize)
			d.logger = logger
			sc = d
		} else {
			src, ok := f.(HessianSource)
			if !ok {
				return nil, ErrNoHessian
			}
			d := NewDirect(src)
			d.logger = logger
			sc = d
		}
	case MethodCG:
		src, ok := f.(HVPSource)
		if !ok {
			return nil, ErrNoHVP
		}
		c := NewNewtonCG(src, cfg.CGMaxIter)
		c.logger = logger
		sc = c
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	return &Loop{
		cfg:    cfg,
		f:      f,
		step:   sc,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
	}, nil
}

// Run optimizes starting from init until the budget is exhausted, the
// line search fails, or ctx is canceled. In every case the returned
// Result holds the best parameters seen at any accepted iterate; prior
// progress is never discarded. The error is non-nil only for contract
// violations or context cancellation (in which case the Result is still
// valid).
func (l *Loop) Run(ctx context.Context, init []float64) (*Result, error) {
	dim := len(init)
	if dim == 0 {
		return nil, ErrNoParams
	}

	params := append([]float64(nil), init...)
	best := append([]float64(nil), init...)
	prevLoss := l.f.Loss(params)
	bestLoss := prevLoss

	grad := make([]float64, dim)
	step := make([]float64, dim)
	trial := make([]float64, dim)
	ls := lineSearch{alpha: l.cfg.Alpha, beta: l.cfg.Beta, maxIter: l.cfg.MaxIter}

	res := &Result{Status: StatusBudgetExhausted}
	var mem runtime.MemStats

	for iter := 0; iter < l.cfg.Budget; iter++ {
		if err := ctx.Err(); err != nil {
			res.Status = StatusCanceled
			l.finalize(res, best, bestLoss, iter)
			return res, err
		}

		l.f.Gradient(grad, params)

		begin := time.Now()
		runtime.ReadMemStats(&mem)
		allocBefore := mem.TotalAlloc
		info, err := l.step.ComputeStep(step, params, grad)
		if err != nil {
			return nil, fmt.Errorf("newton: iteration %d: %w", iter, err)
		}
		runtime.ReadMemStats(&mem)

		stats := IterationStats{
			Iteration:        iter,
			SingularFallback: info.SingularFallback,
			CGIterations:     info.CGIterations,
			CGConverged:      info.CGConverged,
			StepTime:         time.Since(begin),
			StepAllocMB:      float64(mem.TotalAlloc-allocBefore) / (1 << 20),
		}

		curvature := stepCurvature(grad, step)
		stats.Curvature = curvature

		var loss float64
		if curvature < 0 {
			// Hessian is not positive-definite along this direction;
			// take a random step orthogonal to it instead.
			l.logger.WithFields(log.Fields{
				"iteration": iter,
				"curvature": curvature,
			}).Warn("negative curvature, taking random orthogonal step")
			l.orthogonalStep(step)
			floats.Add(params, step)
			loss = l.f.Loss(params)
			stats.NonDescent = true
			stats.Multiplier = 1
		} else {
			r, ok := ls.search(l.f, trial, params, step, prevLoss, curvature)
			stats.Multiplier = r.multiplier
			stats.InnerIterations = r.trials
			loss = r.loss
			if !ok {
				l.logger.WithFields(log.Fields{
					"iteration":  iter,
					"loss":       r.loss,
					"curvature":  curvature,
					"multiplier": r.multiplier,
				}).Error("line search exhausted, stopping")
				stats.Loss = r.loss
				l.record(stats)
				res.Status = StatusLineSearchFailed
				l.finalize(res, best, bestLoss, iter+1)
				return res, nil
			}
			copy(params, trial)
		}

		stats.Loss = loss
		l.record(stats)

		if loss < bestLoss {
			bestLoss = loss
			copy(best, params)
		}
		prevLoss = loss
	}

	l.finalize(res, best, bestLoss, l.cfg.Budget)
	return res, nil
}

func (l *Loop) finalize(res *Result, best []float64, bestLoss float64, iterations int) {
	res.Params = append([]float64(nil), best...)
	res.Loss = bestLoss
	res.Iterations = iterations
	l.logger.WithFields(log.Fields{
		"status":     res.Status,
		"iterations": res.Iterations,
		"loss":       res.Loss,
	}).Info("optimization finished")
}

func (l *Loop) record(s IterationStats) {
	if l.cfg.Recorder != nil {
		l.cfg.Recorder.Record(s)
	}
}

// stepCurvature is -(gradient · step), a proxy for stepᵀ·H·step used to
// detect non-positive-definite regions. Non-negative values indicate a
// descent direction.
func stepCurvature(grad, step []float64) float64 {
	return -floats.Dot(grad, step)
}

// orthogonalStep replaces step with a random direction of roughly unit
// magnitude, Gram-Schmidt projected against the original step. A zero
// step keeps the raw random direction.
func (l *Loop) orthogonalStep(step []float64) {
	dim := len(step)
	scale := 1 / math.Sqrt(float64(dim))
	r := make([]float64, dim)
	for i := range r {
		r[i] = l.rng.NormFloat64() * scale
	}
	ss := floats.Dot(step, step)
	if ss == 0 {
		copy(step, r)
		return
	}
	proj := floats.Dot(r, step) / ss
	for i := range step {
		step[i] = r[i] - proj*step[i]
	}
}
