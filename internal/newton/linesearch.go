package newton

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// lineSearch is a backtracking search over the step-length multiplier t,
// starting at 1 and shrinking by beta until the loss at params + t·step
// falls below the sufficient-decrease bound
//
//	prevLoss + alpha·t·max(curvature, 0)
//
// The bound is recomputed for every trial since it depends on t.
type lineSearch struct {
	alpha   float64
	beta    float64
	maxIter int
}

type searchResult struct {
	loss       float64
	multiplier float64
	trials     int
}

// search evaluates up to maxIter trial points. On acceptance trial holds
// the accepted parameters and ok is true. When the budget is exhausted
// without satisfying the bound, ok is false and the result describes the
// last rejected trial; no further progress is possible along this
// direction and the caller must stop.
func (ls lineSearch) search(f LossFunction, trial, params, step []float64, prevLoss, curvature float64) (res searchResult, ok bool) {
	slope := math.Max(curvature, 0)
	t := 1.0
	var loss, tried float64
	for i := 1; i <= ls.maxIter; i++ {
		bound := prevLoss + ls.alpha*t*slope
		floats.AddScaledTo(trial, params, t, step)
		loss = f.Loss(trial)
		if loss < bound {
			return searchResult{loss: loss, multiplier: t, trials: i}, true
		}
		tried = t
		t *= ls.beta
	}
	return searchResult{loss: loss, multiplier: tried, trials: ls.maxIter}, false
}
