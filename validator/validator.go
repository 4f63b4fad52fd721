// Package validator checks resolved transition tables for structural
// problems: states that can never be reached, events nothing reacts to,
// and states with no way out.
package validator

import (
	"errors"
	"fmt"

	"github.com/amp-labs/amp-fsm/fsm"
)

// ErrInvalid is wrapped by Result.Err for every error-level issue.
var ErrInvalid = errors.New("invalid machine")

// Result contains the results of validating a machine.
type Result struct {
	Valid    bool
	Errors   []Issue
	Warnings []Issue
}

// Issue is one finding of a rule.
type Issue struct {
	Code    string // Issue code like "UNREACHABLE_STATE"
	Message string // Human-readable message
	State   string // State name if applicable
	Event   string // Event name if applicable
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// Validate checks d with the default rules.
func Validate(d *fsm.Definition) Result {
	return ValidateTable(fsm.Resolve(d), DefaultRules()...)
}

// ValidateStrict is Validate with every warning promoted to an error.
func ValidateStrict(d *fsm.Definition) Result {
	result := Validate(d)
	result.Errors = append(result.Errors, result.Warnings...)
	result.Warnings = nil
	result.Valid = len(result.Errors) == 0

	return result
}

// ValidateTable runs rules against t.
func ValidateTable(t fsm.TransitionTable, rules ...Rule) Result {
	result := Result{}

	for _, rule := range rules {
		issues := rule.Check(t)

		switch rule.Severity() {
		case SeverityError:
			result.Errors = append(result.Errors, issues...)
		case SeverityWarning:
			result.Warnings = append(result.Warnings, issues...)
		}
	}

	result.Valid = len(result.Errors) == 0

	return result
}

// Err joins the error-level issues, or returns nil when there are none.
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Errors))
	for _, issue := range r.Errors {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalid, issue))
	}

	return errors.Join(errs...)
}
