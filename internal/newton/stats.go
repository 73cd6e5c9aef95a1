package newton

import (
	"time"

	"github.com/google/uuid"
)

// IterationStats captures the measurements of one outer iteration. The
// fields are reporting-only: nothing in the loop reads them back.
type IterationStats struct {
	// Iteration is the zero-based outer iteration index.
	Iteration int

	// Loss is the objective value at the iterate produced this
	// iteration (accepted line-search point or replacement step), or at
	// the last rejected trial when the search fails.
	Loss float64

	// Curvature is -(gradient · step) for the computed step, before any
	// non-descent replacement.
	Curvature float64

	// Multiplier is the accepted step-length multiplier; replacement
	// steps are applied with a unit multiplier.
	Multiplier float64

	// InnerIterations counts line-search trials this iteration.
	InnerIterations int

	// NonDescent is set when the curvature guard replaced the step with
	// a random orthogonal direction.
	NonDescent bool

	// SingularFallback is set when the direct solver used the
	// least-squares fallback.
	SingularFallback bool

	// CGIterations and CGConverged mirror StepInfo for the CG method.
	CGIterations int
	CGConverged  bool

	// StepTime is the wall-clock time spent computing the step,
	// including Hessian construction.
	StepTime time.Duration

	// StepAllocMB is the heap allocated during step computation, in MiB.
	StepAllocMB float64
}

// Recorder observes per-iteration measurements. Implementations must not
// influence the optimization: the loop ignores everything a Recorder
// does.
type Recorder interface {
	Record(IterationStats)
}

// Collector is a Recorder that accumulates the full series in memory and
// summarizes it after the run. Each Collector carries a unique run ID
// for correlating its series with log output.
type Collector struct {
	runID string
	stats []IterationStats
}

// NewCollector creates an empty Collector with a fresh run ID.
func NewCollector() *Collector {
	return &Collector{runID: uuid.NewString()}
}

// RunID returns the identifier assigned to this collector.
func (c *Collector) RunID() string { return c.runID }

// Record appends one iteration's measurements.
func (c *Collector) Record(s IterationStats) {
	c.stats = append(c.stats, s)
}

// Stats returns the recorded series in iteration order.
func (c *Collector) Stats() []IterationStats { return c.stats }

// Summary condenses a recorded run.
type Summary struct {
	RunID             string
	Iterations        int
	FinalLoss         float64
	MeanStepTime      time.Duration
	MeanStepAllocMB   float64
	SingularFallbacks int
	NonDescentSteps   int
	LineSearchTrials  int
}

// Summary aggregates the recorded series. An empty series yields a
// zero-valued summary (with the run ID set).
func (c *Collector) Summary() Summary {
	s := Summary{RunID: c.runID, Iterations: len(c.stats)}
	if len(c.stats) == 0 {
		return s
	}
	var totalTime time.Duration
	var totalAlloc float64
	for _, it := range c.stats {
		totalTime += it.StepTime
		totalAlloc += it.StepAllocMB
		s.LineSearchTrials += it.InnerIterations
		if it.SingularFallback {
			s.SingularFallbacks++
		}
		if it.NonDescent {
			s.NonDescentSteps++
		}
	}
	s.FinalLoss = c.stats[len(c.stats)-1].Loss
	s.MeanStepTime = totalTime / time.Duration(len(c.stats))
	s.MeanStepAllocMB = totalAlloc / float64(len(c.stats))
	return s
}
