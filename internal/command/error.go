package command

import (
	"fmt"
	"strings"
)

// UnsafeValueError indicates that one or more request values contain
// blacklisted shell metacharacter substrings. This is a hard gate:
// nothing else is validated once it fires.
type UnsafeValueError struct {
	Violations []string
}

func (e *UnsafeValueError) Error() string {
	return fmt.Sprintf("Invalid character(s): %s", strings.Join(e.Violations, " , "))
}

// Is allows errors.Is to match any UnsafeValueError
func (e *UnsafeValueError) Is(target error) bool {
	_, ok := target.(*UnsafeValueError)
	return ok
}

// UsageError aggregates every application-flag violation found across
// the whole request. Validation never stops at the first violation.
type UsageError struct {
	Violations []string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("Invalid Usage: %s", strings.Join(e.Violations, " , "))
}

// Is allows errors.Is to match any UsageError
func (e *UsageError) Is(target error) bool {
	_, ok := target.(*UsageError)
	return ok
}

// ExecutableError indicates the target executable does not exist
type ExecutableError struct {
	Path string
}

func (e *ExecutableError) Error() string {
	return fmt.Sprintf("Executable does not exist: %s", e.Path)
}

// Is allows errors.Is to match any ExecutableError
func (e *ExecutableError) Is(target error) bool {
	_, ok := target.(*ExecutableError)
	return ok
}

// SkipError signals a non-fatal skip: the executable is missing and the
// request asked for skip semantics instead of failure. Callers should
// treat this as neither success nor error.
type SkipError struct {
	Reason error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("Skip - %v", e.Reason)
}

func (e *SkipError) Unwrap() error {
	return e.Reason
}

// Is allows errors.Is to match any SkipError
func (e *SkipError) Is(target error) bool {
	_, ok := target.(*SkipError)
	return ok
}
