// Copyright 2025 The 4a2a Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package newton fits small parameter vectors with a curvature-aware
// second-order optimization loop.
//
// # Overview
//
// This package provides:
//   - Loop: the optimization loop (gradient, Newton step, curvature
//     guard, backtracking line search, best-iterate tracking)
//   - Direct and NewtonCG: the two step strategies
//   - NumDiff: a finite-difference oracle adapter for objectives
//     without analytic derivatives
//   - Collector: a per-iteration diagnostics recorder
//
// # Basic Usage
//
//	import (
//	    "context"
//
//	    "github.com/yoyolicoris/4a2a/newton"
//	)
//
//	func main() {
//	    oracle := &newton.NumDiff{F: myLoss}
//
//	    loop, err := newton.New(oracle, newton.Config{
//	        Method: newton.MethodDirect,
//	        Budget: 100,
//	    })
//	    if err != nil {
//	        // oracle lacks the required derivatives, or bad config
//	    }
//
//	    res, err := loop.Run(context.Background(), initialParams)
//	    // res.Params is the best parameter vector seen, even when the
//	    // loop stopped early.
//	}
//
// # Step strategies
//
// MethodDirect materializes the Hessian and solves the Newton system
// exactly; a singular Hessian silently degrades to a least-squares
// solution. It needs an oracle implementing HessianSource (or
// BatchHessianSource when Config.BatchSize is set, to bound the peak
// memory of Hessian evaluation).
//
// MethodCG never forms the matrix and only needs Hessian-vector
// products (HVPSource); its inner loop is capped by Config.CGMaxIter
// and returns the partial step when the cap is hit.
//
// # Failure handling
//
// Singular Hessians and negative-curvature directions are recovered
// internally and logged. An exhausted line search ends the run with
// StatusLineSearchFailed, but the returned Result still carries the
// best parameters observed; progress is never discarded.
package newton
