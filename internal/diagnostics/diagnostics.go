// Package diagnostics is the error surface of the type checker.
// It was not present in the retrieval pack as a standalone package — only its
// call sites were (diagnostics.NewError(code, token, msg) throughout
// internal/analyzer) — so the shape here is reconstructed from those call
// sites rather than copied.
package diagnostics

import (
	"fmt"

	"github.com/cobra-lang/cobrac/internal/token"
	"github.com/cobra-lang/cobrac/internal/types"
)

// ErrorCode names an error kind, rendered into diagnostic output as its tag
// (e.g. "C002").
type ErrorCode string

const (
	ErrUnknownName            ErrorCode = "C001"
	ErrUnknownType            ErrorCode = "C002"
	ErrTypeMismatch           ErrorCode = "C003"
	ErrGenericMismatch        ErrorCode = "C004"
	ErrNonExhaustiveMatch     ErrorCode = "C005"
	ErrInvalidPattern         ErrorCode = "C006"
	ErrNotMutable             ErrorCode = "C007"
	ErrNotCallable            ErrorCode = "C008"
	ErrRedefinitionOfFunction ErrorCode = "C009"
	ErrRedefinitionOfStruct   ErrorCode = "C010"
	ErrInvalidCast            ErrorCode = "C011"
	ErrInvalidOperator        ErrorCode = "C012"
	ErrIO                     ErrorCode = "C013"
	ErrOther                  ErrorCode = "C014"
)

// Severity distinguishes a hard failure from a surfaced-but-non-fatal lint
// notice (e.g. a duplicate or unreachable match arm).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// DiagnosticError is a single checker error, carrying the span needed for
// diagnostic rendering (rendering itself is an out-of-scope collaborator;
// this module only produces the value).
type DiagnosticError struct {
	Code     ErrorCode
	Span     token.Span
	Message  string
	Severity Severity

	// UnknownTypeExpected carries the hint the BindingExpression checker
	// retries with, for ErrUnknownType only.
	UnknownTypeName     string
	UnknownTypeExpected types.Type
}

func (e *DiagnosticError) Error() string {
	tag := "error"
	if e.Severity == SeverityWarning {
		tag = "warning"
	}
	if e.Span.File != "" || e.Span.Start.Line != 0 {
		return fmt.Sprintf("%s: %s: [%s] %s", e.Span, tag, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: [%s] %s", tag, e.Code, e.Message)
}

// NewError builds a DiagnosticError the way every analyzer call site in the
// teacher does: code, offending token, formatted message.
func NewError(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:    code,
		Span:    tok.Span,
		Message: fmt.Sprintf(format, args...),
	}
}

// NewWarning builds a non-fatal diagnostic: it is collected in a Bag but
// does not make Bag.Err() abort the pass.
func NewWarning(code ErrorCode, tok token.Token, format string, args ...interface{}) *DiagnosticError {
	return &DiagnosticError{
		Code:     code,
		Span:     tok.Span,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityWarning,
	}
}

// NewUnknownType builds the one error kind the binding-expression checker
// distinguishes and retries on.
func NewUnknownType(tok token.Token, name string, expected types.Type) *DiagnosticError {
	return &DiagnosticError{
		Code:                ErrUnknownType,
		Span:                tok.Span,
		Message:             fmt.Sprintf("cannot infer type of %q without a hint", name),
		UnknownTypeName:     name,
		UnknownTypeExpected: expected,
	}
}

// Bag accumulates diagnostics for one pass, deduplicating by (code, span),
// mirroring the teacher's walker.errorSet/errors split (analyzer.go).
type Bag struct {
	seen   map[string]bool
	errors []*DiagnosticError
}

func NewBag() *Bag {
	return &Bag{seen: make(map[string]bool)}
}

// Merge folds another bag's entries into this one, respecting dedup.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, e := range other.errors {
		b.Add(e)
	}
}

func (b *Bag) Add(err *DiagnosticError) {
	if err == nil {
		return
	}
	key := fmt.Sprintf("%s:%s", err.Code, err.Span)
	if b.seen[key] {
		return
	}
	b.seen[key] = true
	b.errors = append(b.errors, err)
}

func (b *Bag) Errors() []*DiagnosticError { return b.errors }

// Len counts fatal entries only; warnings don't trip the driver's
// abort-the-pass check.
func (b *Bag) Len() int {
	n := 0
	for _, e := range b.errors {
		if e.Severity != SeverityWarning {
			n++
		}
	}
	return n
}

// Err returns the bag's fatal entries as a single error, or nil if there are
// none. Per policy, the module driver aborts the enclosing pass
// as soon as a pass has a fatal diagnostic.
func (b *Bag) Err() error {
	var fatal []*DiagnosticError
	for _, e := range b.errors {
		if e.Severity != SeverityWarning {
			fatal = append(fatal, e)
		}
	}
	if len(fatal) == 0 {
		return nil
	}
	return &multiError{errs: fatal}
}

type multiError struct{ errs []*DiagnosticError }

func (m *multiError) Error() string {
	if len(m.errs) == 1 {
		return m.errs[0].Error()
	}
	return fmt.Sprintf("%d errors, first: %s", len(m.errs), m.errs[0].Error())
}
