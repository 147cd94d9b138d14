package expr

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyExpression indicates nothing was left to evaluate after trimming
	// and sanitization.
	ErrEmptyExpression = errors.New("expr: empty expression")

	// ErrSyntax is wrapped by every SyntaxError.
	ErrSyntax = errors.New("expr: syntax error")

	// ErrInterpreter indicates the interpreter rejected a program the parser accepted.
	ErrInterpreter = errors.New("expr: interpreter rejected expression")
)

// SyntaxError reports where parsing of the sanitized source failed.
type SyntaxError struct {
	Pos int
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("expr: syntax error at offset %d: %s", e.Pos, e.Msg)
}

func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}
