// Package expr evaluates single-variable expressions typed by a user.
//
// Input passes through three stages before anything is executed:
//
//   - [Sanitize]: a whitelist that keeps digits, arithmetic and grouping
//     characters, and a fixed vocabulary of whole identifiers (x, pi, e and
//     known function names). Everything else is dropped.
//   - a small parser that fixes the grammar (`^` is right-associative and
//     binds tighter than unary minus) and rejects malformed input with a
//     [SyntaxError].
//   - the govaluate interpreter, which runs a canonical, fully parenthesized
//     program against a fixed function table with only x in scope.
//
// # Failure model
//
// [Evaluate] and [Expression.Eval] never return errors and never panic: any
// failure is reported as NaN so that batch callers can treat it like any
// other non-finite value. Use [Compile] when the reason matters.
//
// # Example
//
//	e, err := expr.Compile("sin(x)^2 + cos(x)^2")
//	if err != nil {
//	    return err
//	}
//	y := e.Eval(0.5) // 1
//
// Compiled expressions are immutable and safe for concurrent use.
package expr
