// Package calculus provides numeric calculus over user-typed expressions.
//
// Every operation takes the raw expression string, compiles it once with
// package expr, and evaluates it many times:
//
//   - [SamplePoints]: evenly spaced samples of f over a [Domain]
//   - [Derivative]: central difference (f(x+h) - f(x-h)) / 2h
//   - [HigherDerivative], [HigherDerivativeCurve]: k-fold central differencing
//   - [Integral], [Area]: left Riemann sums of f and |f|
//   - [TangentLine], [AreaCurve]: helpers for plotting tangents and filled areas
//
// # Failure model
//
// Bad input never aborts a computation. Scalar results are NaN and sample
// sequences are empty (or shorter, when individual points are non-finite).
// [Check] and [CheckCurve] classify a NaN or empty result after the fact
// using the sentinel errors in errors.go.
//
// # Thread Safety
//
// All functions are pure and safe for concurrent use. Large sample batches
// are split across goroutines internally; the result is identical to a
// sequential evaluation.
package calculus
