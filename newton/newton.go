// Copyright 2025 The 4a2a Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package newton

import (
	"github.com/yoyolicoris/4a2a/internal/newton"
)

// LossFunction is the objective oracle consumed by the optimizer.
type LossFunction = newton.LossFunction

// HessianSource is an oracle that materializes the full Hessian.
type HessianSource = newton.HessianSource

// HVPSource is an oracle computing Hessian-vector products.
type HVPSource = newton.HVPSource

// BatchHessianSource is an oracle whose Hessian sums per-sample
// contributions, enabling memory-bounded evaluation.
type BatchHessianSource = newton.BatchHessianSource

// Method selects the step strategy.
type Method = newton.Method

const (
	// MethodDirect solves the Newton system from a materialized Hessian.
	MethodDirect = newton.MethodDirect

	// MethodCG runs matrix-free Newton-CG.
	MethodCG = newton.MethodCG
)

// Config configures the optimization loop; zero values get defaults.
type Config = newton.Config

// Defaults substituted for zero-valued Config fields.
const (
	DefaultAlpha     = newton.DefaultAlpha
	DefaultBeta      = newton.DefaultBeta
	DefaultMaxIter   = newton.DefaultMaxIter
	DefaultBudget    = newton.DefaultBudget
	DefaultCGMaxIter = newton.DefaultCGMaxIter
)

// Status reports why a run stopped.
type Status = newton.Status

const (
	StatusBudgetExhausted  = newton.StatusBudgetExhausted
	StatusLineSearchFailed = newton.StatusLineSearchFailed
	StatusCanceled         = newton.StatusCanceled
)

// Errors reported by New and Run.
var (
	ErrNoHessian = newton.ErrNoHessian
	ErrNoHVP     = newton.ErrNoHVP
	ErrNoBatches = newton.ErrNoBatches
	ErrNoParams  = newton.ErrNoParams
)

// Loop is the optimization loop.
type Loop = newton.Loop

// Result is the finalized best-so-far outcome of a run.
type Result = newton.Result

// New builds a Loop over f with the given configuration.
//
// Example:
//
//	loop, err := newton.New(oracle, newton.Config{
//	    Method:    newton.MethodCG,
//	    Alpha:     0.5,
//	    Beta:      0.5,
//	    MaxIter:   10,
//	    Budget:    200,
//	    CGMaxIter: 50,
//	})
func New(f LossFunction, cfg Config) (*Loop, error) {
	return newton.New(f, cfg)
}

// StepComputer produces candidate steps; implemented by Direct and
// NewtonCG.
type StepComputer = newton.StepComputer

// StepInfo describes how a step was obtained.
type StepInfo = newton.StepInfo

// Direct is the materialized-Hessian step computer.
type Direct = newton.Direct

// NewDirect creates a direct step computer.
func NewDirect(src HessianSource) *Direct {
	return newton.NewDirect(src)
}

// NewBatchedDirect creates a direct step computer summing per-batch
// Hessian contributions.
func NewBatchedDirect(src BatchHessianSource, batchSize int) *Direct {
	return newton.NewBatchedDirect(src, batchSize)
}

// NewtonCG is the matrix-free step computer.
type NewtonCG = newton.NewtonCG

// NewNewtonCG creates a conjugate-gradient step computer.
func NewNewtonCG(src HVPSource, maxIter int) *NewtonCG {
	return newton.NewNewtonCG(src, maxIter)
}

// IterationStats captures one iteration's measurements.
type IterationStats = newton.IterationStats

// Recorder observes per-iteration measurements.
type Recorder = newton.Recorder

// Collector is an in-memory Recorder with a run summary.
type Collector = newton.Collector

// Summary condenses a recorded run.
type Summary = newton.Summary

// NewCollector creates an empty Collector with a fresh run ID.
func NewCollector() *Collector {
	return newton.NewCollector()
}

// NumDiff adapts a plain loss closure into a full oracle via central
// finite differences.
type NumDiff = newton.NumDiff

// DefaultFDStep is NumDiff's default finite-difference step.
const DefaultFDStep = newton.DefaultFDStep
