package engine

import (
	"errors"
	"fmt"
)

// ErrorKind is the top-level classification of a ScoringError.
type ErrorKind string

const (
	// RuleViolation is a cricket rule or event-shape violation. State is
	// left unchanged and the caller may issue a different event.
	RuleViolation ErrorKind = "RULE_VIOLATION"

	// InputPortFailure means the Human-Input Port could not supply a datum
	// the event needs. The event is rolled back and may be re-issued.
	InputPortFailure ErrorKind = "INPUT_PORT_FAILURE"

	// InvariantViolation is a programming error by the caller, such as
	// asking for an innings that does not exist.
	InvariantViolation ErrorKind = "INVARIANT_VIOLATION"
)

// ErrorCode identifies the specific failure.
type ErrorCode string

const (
	CodeInvalidRuns          ErrorCode = "INVALID_RUNS"
	CodeInvalidExtra         ErrorCode = "INVALID_EXTRA"
	CodeInvalidDismissal     ErrorCode = "INVALID_DISMISSAL"
	CodeFreeHitDismissal     ErrorCode = "FREE_HIT_DISMISSAL"
	CodeSameOpeners          ErrorCode = "SAME_OPENERS"
	CodeNoReviewsRemaining   ErrorCode = "NO_REVIEWS_REMAINING"
	CodeInvalidSide          ErrorCode = "INVALID_SIDE"
	CodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	CodeMatchNotLive         ErrorCode = "MATCH_NOT_LIVE"
	CodeMatchNotPaused       ErrorCode = "MATCH_NOT_PAUSED"
	CodeEngineBusy           ErrorCode = "ENGINE_BUSY"
	CodeInvalidSetup         ErrorCode = "INVALID_SETUP"
	CodeInputUnavailable     ErrorCode = "INPUT_UNAVAILABLE"
	CodeNoSuchInnings        ErrorCode = "NO_SUCH_INNINGS"
	CodeSuperOverUnavailable ErrorCode = "SUPER_OVER_UNAVAILABLE"
)

// ScoringError is returned by every engine operation that rejects an event.
//
// ScoringError matches any other ScoringError with the same Code under
// errors.Is, so callers can test against the exported sentinels:
//
//	if errors.Is(err, engine.ErrFreeHitDismissal) { ... }
type ScoringError struct {
	// Kind is the error category.
	Kind ErrorKind

	// Code identifies the failure within its kind.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, set for input port failures.
	Err error
}

// Error implements the error interface.
func (e *ScoringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ScoringError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ScoringError with the same code.
func (e *ScoringError) Is(target error) bool {
	t, ok := target.(*ScoringError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is. Engine operations return fresh values with
// richer messages; only the Code is compared.
var (
	ErrInvalidRuns          = &ScoringError{Kind: RuleViolation, Code: CodeInvalidRuns, Message: "runs must be between 0 and 6"}
	ErrInvalidExtra         = &ScoringError{Kind: RuleViolation, Code: CodeInvalidExtra, Message: "unknown extra"}
	ErrInvalidDismissal     = &ScoringError{Kind: RuleViolation, Code: CodeInvalidDismissal, Message: "unknown dismissal"}
	ErrFreeHitDismissal     = &ScoringError{Kind: RuleViolation, Code: CodeFreeHitDismissal, Message: "only run out is allowed on a free hit"}
	ErrSameOpeners          = &ScoringError{Kind: RuleViolation, Code: CodeSameOpeners, Message: "striker and non-striker must differ"}
	ErrNoReviewsRemaining   = &ScoringError{Kind: RuleViolation, Code: CodeNoReviewsRemaining, Message: "no reviews remaining"}
	ErrInvalidSide          = &ScoringError{Kind: RuleViolation, Code: CodeInvalidSide, Message: "side must be A or B"}
	ErrInvalidStatus        = &ScoringError{Kind: RuleViolation, Code: CodeInvalidStatus, Message: "status must be break, lunch or stumps"}
	ErrMatchNotLive         = &ScoringError{Kind: RuleViolation, Code: CodeMatchNotLive, Message: "match is not live"}
	ErrMatchNotPaused       = &ScoringError{Kind: RuleViolation, Code: CodeMatchNotPaused, Message: "match is not paused"}
	ErrEngineBusy           = &ScoringError{Kind: RuleViolation, Code: CodeEngineBusy, Message: "another event is being processed"}
	ErrInvalidSetup         = &ScoringError{Kind: RuleViolation, Code: CodeInvalidSetup, Message: "invalid match setup"}
	ErrInputUnavailable     = &ScoringError{Kind: InputPortFailure, Code: CodeInputUnavailable, Message: "input unavailable"}
	ErrNoSuchInnings        = &ScoringError{Kind: InvariantViolation, Code: CodeNoSuchInnings, Message: "no such innings"}
	ErrSuperOverUnavailable = &ScoringError{Kind: RuleViolation, Code: CodeSuperOverUnavailable, Message: "super over is only available after a tied match"}
)

func ruleError(code ErrorCode, format string, args ...any) *ScoringError {
	return &ScoringError{Kind: RuleViolation, Code: code, Message: fmt.Sprintf(format, args...)}
}

// newInputError wraps a Human-Input Port failure for the given prompt.
func newInputError(prompt string, err error) *ScoringError {
	return &ScoringError{
		Kind:    InputPortFailure,
		Code:    CodeInputUnavailable,
		Message: "human input unavailable",
		Details: map[string]string{"prompt": prompt},
		Err:     err,
	}
}

func newInningsError(n int) *ScoringError {
	return &ScoringError{
		Kind:    InvariantViolation,
		Code:    CodeNoSuchInnings,
		Message: fmt.Sprintf("innings %d does not exist", n),
		Details: map[string]string{"innings": fmt.Sprintf("%d", n)},
	}
}

func kindOf(err error) ErrorKind {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsRuleViolation returns true if err is a rule violation.
// Uses errors.As to handle wrapped errors.
func IsRuleViolation(err error) bool {
	return kindOf(err) == RuleViolation
}

// IsInputFailure returns true if err is a Human-Input Port failure.
func IsInputFailure(err error) bool {
	return kindOf(err) == InputPortFailure
}

// IsInvariant returns true if err is an invariant violation.
func IsInvariant(err error) bool {
	return kindOf(err) == InvariantViolation
}

// CodeOf returns the ScoringError code carried by err, or "".
func CodeOf(err error) ErrorCode {
	var se *ScoringError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}
