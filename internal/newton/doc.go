// Package newton implements a curvature-aware second-order optimization
// loop for fitting small parameter vectors against a scalar loss.
//
// The loop combines a Newton step computation (a direct Hessian solve or
// matrix-free conjugate gradient), a curvature guard that detects
// non-descent directions, and a backtracking line search. The best
// parameter vector seen at any accepted iterate is tracked throughout and
// is always returned, even when the loop stops early because the line
// search can no longer make progress.
//
// The objective is supplied as an oracle: a LossFunction that evaluates
// the loss and its gradient, combined with either a HessianSource (for
// the direct method) or an HVPSource (for Newton-CG). Oracles that cannot
// provide derivatives analytically can be wrapped in NumDiff.
package newton
