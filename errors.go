package validator

import (
	"errors"
	"fmt"
)

// ErrEntityExists reports a commit that tried to create an entity over an
// identifier that is already populated in the origin collection.
var ErrEntityExists = errors.New("validator: entity already exists")

// ErrValidationFailed reports a non-forced commit gated by a failing
// ValidateAll run.
var ErrValidationFailed = errors.New("validator: validation failed")

// ConfigurationError reports bad or missing constructor arguments. It is
// returned synchronously from New.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("validator: configuration: %s", e.Reason)
}

// UnknownRuleError reports a named rule that could not be resolved through the
// instance rules, the function registry, or the default table.
type UnknownRuleError struct {
	Field string
	Name  string
}

func (e *UnknownRuleError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("validator: field %q references unknown rule %q", e.Field, e.Name)
}

// InvalidRuleTypeError reports a rule value that resolved to something other
// than a pattern, predicate, or expression. Raised at construction, never at
// validation time.
type InvalidRuleTypeError struct {
	Field string
	Rule  any
}

func (e *InvalidRuleTypeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("validator: field %q has invalid rule type %T", e.Field, e.Rule)
}

// CommitError reports a non-fatal commit failure delivered through the commit
// callback: a failing validation gate or an entity-creation conflict.
type CommitError struct {
	Reason string
	Err    error
}

func (e *CommitError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("validator: commit: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("validator: commit: %s", e.Reason)
}

func (e *CommitError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError captures evaluator metadata alongside the originating error.
// Expression failures surface as rule failures, never as panics; the error is
// reported through the ValidationLogger.
type EvaluationError struct {
	Engine string
	Expr   string
	Field  string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("validator: %s evaluator %s field=%s: %v", e.Engine, describeExpression(e.Expr), e.Field, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluatorError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}
	return fmt.Errorf("validator: %s evaluator: %w", engine, err)
}

func wrapEvaluationError(engine, expr, field string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Field == "" {
			evalErr.Field = field
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Field:  field,
		Err:    err,
	}
}
