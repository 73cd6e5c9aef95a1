package newton

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Method selects how the Newton step is computed. The strategy is
// resolved once, when the Loop is built; there is no per-iteration
// dispatch.
type Method int

const (
	// MethodDirect materializes the Hessian and solves H·step = -g,
	// falling back to least squares when the matrix is singular.
	MethodDirect Method = iota

	// MethodCG runs matrix-free Newton-CG from Hessian-vector products.
	MethodCG
)

func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodCG:
		return "cg"
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Defaults substituted by New for zero-valued Config fields.
const (
	DefaultAlpha     = 0.5
	DefaultBeta      = 0.5
	DefaultMaxIter   = 10
	DefaultBudget    = 100
	DefaultCGMaxIter = 100

	defaultSeed = 42
)

// Config configures the optimization loop.
// Zero values are replaced with sensible defaults.
type Config struct {
	// Method selects the step strategy. Default MethodDirect.
	Method Method `json:"method"`

	// Alpha is the sufficient-decrease coefficient of the line search,
	// in (0, 1). Default 0.5.
	Alpha float64 `json:"alpha"`

	// Beta is the backtracking shrink factor of the line search,
	// in (0, 1). Default 0.5.
	Beta float64 `json:"beta"`

	// MaxIter bounds the number of line-search trials per iteration.
	// Default 10.
	MaxIter int `json:"max_iter"`

	// Budget bounds the number of outer iterations. Default 100.
	Budget int `json:"budget"`

	// BatchSize, when positive, evaluates the Hessian in slices of this
	// many samples and sums the contributions. Requires the oracle to
	// implement BatchHessianSource. Only meaningful with MethodDirect.
	BatchSize int `json:"batch_size"`

	// CGMaxIter caps conjugate-gradient iterations per step. Exceeding
	// the cap is recoverable: the partial accumulated step is used and
	// flagged in the iteration stats. Default 100.
	CGMaxIter int `json:"cg_max_iter"`

	// Seed seeds the generator of non-descent replacement directions.
	// Zero selects a fixed default so runs are reproducible.
	Seed int64 `json:"seed"`

	// Logger receives diagnostic events (singular Hessians, negative
	// curvature, exhausted searches). Nil uses the logrus standard
	// logger.
	Logger log.FieldLogger `json:"-"`

	// Recorder observes per-iteration measurements. Nil disables
	// recording. Recording never influences control flow.
	Recorder Recorder `json:"-"`
}

func (c Config) withDefaults() Config {
	if c.Alpha == 0 {
		c.Alpha = DefaultAlpha
	}
	if c.Beta == 0 {
		c.Beta = DefaultBeta
	}
	if c.MaxIter == 0 {
		c.MaxIter = DefaultMaxIter
	}
	if c.Budget == 0 {
		c.Budget = DefaultBudget
	}
	if c.CGMaxIter == 0 {
		c.CGMaxIter = DefaultCGMaxIter
	}
	if c.Logger == nil {
		c.Logger = log.StandardLogger()
	}
	return c
}

func (c Config) validate() error {
	if c.Method != MethodDirect && c.Method != MethodCG {
		return fmt.Errorf("newton: unknown method %v", c.Method)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("newton: alpha must be in (0, 1), got %v", c.Alpha)
	}
	if c.Beta <= 0 || c.Beta >= 1 {
		return fmt.Errorf("newton: beta must be in (0, 1), got %v", c.Beta)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("newton: line search needs at least one trial, got %d", c.MaxIter)
	}
	if c.Budget < 1 {
		return fmt.Errorf("newton: iteration budget must be positive, got %d", c.Budget)
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("newton: batch size must be non-negative, got %d", c.BatchSize)
	}
	if c.CGMaxIter < 1 {
		return fmt.Errorf("newton: cg iteration cap must be positive, got %d", c.CGMaxIter)
	}
	return nil
}
