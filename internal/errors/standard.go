// Package errors provides standardized error messaging for the compiler
package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"

	"github.com/orizon-lang/bfc/internal/position"
)

// ErrorCategory represents different categories of errors
type ErrorCategory string

const (
	CategoryIO         ErrorCategory = "IO"
	CategorySyntax     ErrorCategory = "SYNTAX"
	CategoryInternal   ErrorCategory = "INTERNAL"
	CategoryValidation ErrorCategory = "VALIDATION"
)

// StandardError provides a consistent error format
type StandardError struct {
	Category ErrorCategory
	Code     string
	Message  string
	Context  map[string]interface{}
	Caller   string
	Cause    error
}

// Error implements the error interface. The caller is only shown for
// internal errors, where it names the function that detected the failure.
func (e *StandardError) Error() string {
	msg := fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	if e.Category == CategoryInternal {
		msg += fmt.Sprintf(" (caller: %s)", e.Caller)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *StandardError) Unwrap() error { return e.Cause }

// NewStandardError creates a new standardized error. Caller records the
// function that called NewStandardError.
func NewStandardError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	return newError(category, code, message, context)
}

// newError must be called directly from an exported constructor: it
// records the constructor's caller, which is the code that detected the
// failure.
func newError(category ErrorCategory, code, message string, context map[string]interface{}) *StandardError {
	caller := "unknown"
	if pc, _, _, ok := runtime.Caller(2); ok {
		if fn := runtime.FuncForPC(pc); fn != nil {
			caller = fn.Name()
		}
	}

	return &StandardError{
		Category: category,
		Code:     code,
		Message:  message,
		Context:  context,
		Caller:   caller,
	}
}

// IsCategory reports whether err (or anything it wraps) is a StandardError
// of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var se *StandardError
	if stderrors.As(err, &se) {
		return se.Category == category
	}
	return false
}

// Common error constructors

func ResourceError(path string, cause error) *StandardError {
	e := newError(CategoryIO, "RESOURCE",
		fmt.Sprintf("cannot read %s", path),
		map[string]interface{}{"path": path})
	e.Cause = cause
	return e
}

func UnmatchedBracket(pos position.Position, delim byte) *StandardError {
	return newError(CategorySyntax, "UNMATCHED_BRACKET",
		fmt.Sprintf("unmatched %q at %s", delim, pos),
		map[string]interface{}{"position": pos, "delimiter": string(delim)})
}

func UnexpectedCharacter(pos position.Position, c byte) *StandardError {
	return newError(CategoryInternal, "UNEXPECTED_CHARACTER",
		fmt.Sprintf("character %q reached the parser at %s", c, pos),
		map[string]interface{}{"position": pos, "character": string(c)})
}

func InternalCompilerError(stage, detail string) *StandardError {
	return newError(CategoryInternal, "ICE",
		fmt.Sprintf("internal compiler error in %s: %s", stage, detail),
		map[string]interface{}{"stage": stage})
}

func InvalidSetting(name string, value interface{}) *StandardError {
	return newError(CategoryValidation, "INVALID_SETTING",
		fmt.Sprintf("invalid value %v for %s", value, name),
		map[string]interface{}{"setting": name, "value": value})
}

func NestingTooDeep(pos position.Position, limit int) *StandardError {
	return newError(CategorySyntax, "NESTING_TOO_DEEP",
		fmt.Sprintf("loop nesting exceeds %d at %s", limit, pos),
		map[string]interface{}{"position": pos, "limit": limit})
}
